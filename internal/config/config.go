package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths.
	AppName = "volby-export"

	// DefaultConfigFile is the selector file looked up in the working
	// directory when no --config path is given.
	DefaultConfigFile = ".volby-export"

	// DefaultTimeout applies to every HTTP request issued during a run.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent keeps the Mozilla prefix the site expects while
	// still identifying the tool.
	DefaultUserAgent = "Mozilla/5.0 (compatible; volby-export/1.0; +https://github.com/radekjisa/volby-export)"

	// DefaultPreviewRows is how many municipalities the --preview table shows.
	DefaultPreviewRows = 10
)

// Config holds all settings for one export run. It is populated from
// defaults, then an optional selector file, then CLI flags.
type Config struct {
	// SourceURL is the volby.cz page to scrape (first positional argument).
	SourceURL string

	// OutputPath is where the CSV lands (second positional argument). The
	// exporter forces a .csv extension.
	OutputPath string

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Charset forces the input encoding by IANA name (e.g. "windows-1250")
	// for pages whose Content-Type header lies. Empty means auto-detect
	// from the header and the document itself.
	Charset string

	// SelectorFile is an explicit selector file path. When empty, the
	// default locations are searched and a missing file is not an error.
	SelectorFile string

	// Selectors locate the results data inside the page layouts.
	Selectors Selectors

	// Preview renders the fixed columns of the first rows to stdout after
	// the CSV is written.
	Preview bool

	// Verbose enables debug logging on stderr.
	Verbose bool
}

// New returns a Config with all defaults applied.
func New() *Config {
	return &Config{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
		Selectors: DefaultSelectors(),
	}
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if c.SourceURL == "" {
		return ErrNoSourceURL
	}
	u, err := url.Parse(c.SourceURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ErrInvalidSourceURL
	}
	if c.OutputPath == "" {
		return ErrNoOutputPath
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return c.Selectors.Validate()
}

// XDGConfigFile returns the selector file location under the XDG config
// home, e.g. ~/.config/volby-export/config.yaml on Linux.
func XDGConfigFile() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}
