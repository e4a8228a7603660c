// Package config holds the settings for an export run, including the CSS
// selectors that locate result data in the volby.cz markup.
//
// The site revises its layout between elections, so the default selectors
// (tuned for the ps2017nss pages) can be overridden from a YAML selector
// file found via
// an explicit --config path, a .volby-export file in the working
// directory, or the XDG config home.
package config
