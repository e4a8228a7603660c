// Package export renders extracted election results as CSV files.
package export
