// Package scraper provides HTTP fetching and HTML extraction for volby.cz
// election result pages.
//
// The scraper fetches a published results page, decodes it to UTF-8, and
// extracts one row per municipality together with its per-party vote
// counts. A page that summarises a whole district in one combined table is
// read directly; a district overview page is read by following every
// municipality detail link it lists, in document order.
package scraper
