package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// File is the on-disk selector file. Every field is optional; set fields
// override the built-in defaults.
type File struct {
	Selectors Selectors `yaml:"selectors,omitempty"`

	// Charset forces the input encoding by IANA name.
	Charset string `yaml:"charset,omitempty"`

	// UserAgent replaces the default User-Agent header.
	UserAgent string `yaml:"user_agent,omitempty"`
}

// LoadFile reads a selector file. A missing file yields ErrConfigNotFound
// so callers can decide whether that matters (it does for an explicitly
// requested path, it does not for the default search locations).
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindFile locates the selector file:
//  1. the explicit path, if given
//  2. .volby-export in the working directory
//  3. config.yaml in the XDG config home
//
// Returns an empty string when nothing is found.
func FindFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		path := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	path := XDGConfigFile()
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// Apply overlays the file's set fields onto the configuration.
func (f *File) Apply(c *Config) {
	c.Selectors = c.Selectors.merge(f.Selectors)
	if f.Charset != "" {
		c.Charset = f.Charset
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
}
