package scraper

import "fmt"

// FetchError reports a page retrieval that failed on the network or came
// back with a non-success status.
type FetchError struct {
	URL        string
	StatusCode int // zero when no response arrived
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status code %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a response body that could not be decoded or parsed
// into an HTML document.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExtractError reports result data that could not be located or read in an
// otherwise well-formed page. Row carries the municipality code (or row
// ordinal) and Field the cell being read, when known.
type ExtractError struct {
	URL   string
	Row   string
	Field string
	Err   error
}

func (e *ExtractError) Error() string {
	msg := "extracting from " + e.URL
	if e.Row != "" {
		msg += ": municipality " + e.Row
	}
	if e.Field != "" {
		msg += ": " + e.Field
	}
	return fmt.Sprintf("%s: %v", msg, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }
