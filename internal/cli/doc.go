// Package cli implements the command-line interface for volby-export.
//
// The cli package provides the Cobra-based CLI that takes a volby.cz
// results URL and an output path, coordinates the config, scraper and
// export packages, and reports progress on stdout with errors on stderr.
package cli
