// Package results defines the data extracted from volby.cz results pages.
//
// A Table holds one Row per municipality plus the ordered list of party
// names that defines the vote-count column order. Tables live only for a
// single run: they are assembled by the scraper, validated, handed to the
// CSV exporter, and discarded.
package results
