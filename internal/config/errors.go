package config

import "errors"

// Validation errors returned by Config.Validate. Sentinel values so
// callers can match them with errors.Is.
var (
	// ErrNoSourceURL is returned when no source URL was given.
	ErrNoSourceURL = errors.New("no source URL specified")

	// ErrInvalidSourceURL is returned when the source URL cannot be parsed
	// into an absolute URL.
	ErrInvalidSourceURL = errors.New("source URL is not a valid absolute URL")

	// ErrNoOutputPath is returned when no output file path was given.
	ErrNoOutputPath = errors.New("no output file path specified")

	// ErrInvalidTimeout is returned when the timeout is zero or negative.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrMissingSelector is returned when a selector file blanked out one
	// of the required selectors.
	ErrMissingSelector = errors.New("selector configuration is incomplete")

	// ErrConfigNotFound is returned when the selector file does not exist.
	ErrConfigNotFound = errors.New("selector file not found")
)
