package scraper

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/radekjisa/volby-export/internal/config"
	"github.com/radekjisa/volby-export/internal/results"
)

// Scraper fetches election result pages and extracts their municipality
// tables. A Scraper is not safe for concurrent use.
type Scraper struct {
	http      *resty.Client
	selectors selectorSet
	encoding  encoding.Encoding // forced input encoding; nil means auto-detect
}

// New builds a Scraper from the given configuration. It fails when a CSS
// selector does not compile or the configured charset name is unknown.
func New(cfg *config.Config) (*Scraper, error) {
	selectors, err := compileSelectors(cfg.Selectors)
	if err != nil {
		return nil, err
	}

	var enc encoding.Encoding
	if cfg.Charset != "" {
		enc, err = htmlindex.Get(cfg.Charset)
		if err != nil {
			return nil, fmt.Errorf("unknown charset %q: %w", cfg.Charset, err)
		}
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &Scraper{
		http:      client,
		selectors: selectors,
		encoding:  enc,
	}, nil
}

// Scrape fetches the page at rawURL and extracts the complete results
// table. A page carrying the combined table layout is read directly; a
// district overview is read by following every municipality link it lists.
func (s *Scraper) Scrape(rawURL string) (*results.Table, error) {
	doc, err := s.fetch(rawURL)
	if err != nil {
		return nil, err
	}

	if table, parties, ok := s.findCombined(doc); ok {
		slog.Debug("page carries a combined results table", "url", rawURL, "parties", len(parties))
		return s.extractCombined(table, parties, rawURL)
	}

	refs, err := s.municipalityRefs(doc, rawURL)
	if err != nil {
		return nil, err
	}
	if len(refs) == 0 {
		return nil, &ExtractError{URL: rawURL, Err: errors.New("no results table or municipality list found")}
	}
	slog.Debug("page is a district overview", "url", rawURL, "municipalities", len(refs))
	return s.drillDown(refs, rawURL)
}

// fetch retrieves a single page and parses it into a document, decoding
// the body to UTF-8 first.
func (s *Scraper) fetch(pageURL string) (*goquery.Document, error) {
	res, err := s.http.R().Get(pageURL)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	if !res.IsSuccess() {
		return nil, &FetchError{URL: pageURL, StatusCode: res.StatusCode()}
	}
	slog.Debug("fetched page", "url", pageURL, "status", res.StatusCode(), "bytes", len(res.Body()))

	body, err := s.decode(res.Body(), res.Header().Get("Content-Type"))
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, &ParseError{URL: pageURL, Err: err}
	}
	return doc, nil
}

// decode wraps the response body in a reader that yields UTF-8. With no
// forced charset the encoding is sniffed from the Content-Type header and
// the document itself.
func (s *Scraper) decode(body []byte, contentType string) (io.Reader, error) {
	if s.encoding != nil {
		return s.encoding.NewDecoder().Reader(bytes.NewReader(body)), nil
	}
	return charset.NewReader(bytes.NewReader(body), contentType)
}

// selectorSet holds the compiled form of config.Selectors.
type selectorSet struct {
	resultsTable     cascadia.Selector
	municipalityCode cascadia.Selector
	municipalityName cascadia.Selector
	registeredVoters cascadia.Selector
	envelopesIssued  cascadia.Selector
	validVotes       cascadia.Selector
	partyName        cascadia.Selector
	partyVotes       []cascadia.Selector
}

func compileSelectors(cfg config.Selectors) (selectorSet, error) {
	var firstErr error
	compile := func(expr string) cascadia.Selector {
		if firstErr != nil {
			return nil
		}
		sel, err := cascadia.Compile(expr)
		if err != nil {
			firstErr = fmt.Errorf("invalid selector %q: %w", expr, err)
		}
		return sel
	}

	set := selectorSet{
		resultsTable:     compile(cfg.ResultsTable),
		municipalityCode: compile(cfg.MunicipalityCode),
		municipalityName: compile(cfg.MunicipalityName),
		registeredVoters: compile(cfg.RegisteredVoters),
		envelopesIssued:  compile(cfg.EnvelopesIssued),
		validVotes:       compile(cfg.ValidVotes),
		partyName:        compile(cfg.PartyName),
	}
	for _, expr := range cfg.PartyVotes {
		set.partyVotes = append(set.partyVotes, compile(expr))
	}
	if firstErr != nil {
		return selectorSet{}, firstErr
	}
	return set, nil
}
