package scraper

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/radekjisa/volby-export/internal/results"
)

// findCombined scans the document for a table whose header row starts with
// the five fixed columns; any further header cells are party names.
func (s *Scraper) findCombined(doc *goquery.Document) (table *goquery.Selection, parties []string, ok bool) {
	doc.FindMatcher(s.selectors.resultsTable).EachWithBreak(func(_ int, candidate *goquery.Selection) bool {
		header := candidate.Find("tr").First().Find("th, td")
		if header.Length() < len(results.FixedColumns) {
			return true
		}
		texts := make([]string, 0, header.Length())
		header.Each(func(_ int, cell *goquery.Selection) {
			texts = append(texts, cleanText(cell.Text()))
		})
		for i, want := range results.FixedColumns {
			if texts[i] != want {
				return true
			}
		}
		table = candidate
		parties = texts[len(results.FixedColumns):]
		ok = true
		return false
	})
	return table, parties, ok
}

// extractCombined reads every data row of a combined results table. Rows
// without a single td cell are structural (header continuations, spacers)
// and carry no data; rows with the wrong cell count are an error.
func (s *Scraper) extractCombined(table *goquery.Selection, parties []string, pageURL string) (*results.Table, error) {
	t := &results.Table{Parties: parties, SourceURL: pageURL}
	want := len(results.FixedColumns) + len(parties)

	var loopErr error
	table.Find("tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		if i == 0 {
			return true
		}
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return true
		}
		texts := make([]string, 0, cells.Length())
		cells.Each(func(_ int, cell *goquery.Selection) {
			texts = append(texts, cleanText(cell.Text()))
		})

		rowID := texts[0]
		if rowID == "" {
			rowID = fmt.Sprintf("row %d", i)
		}
		if len(texts) != want {
			loopErr = &ExtractError{URL: pageURL, Row: rowID, Err: fmt.Errorf("%d cells, expected %d", len(texts), want)}
			return false
		}

		row := results.Row{
			Code:       texts[0],
			Name:       texts[1],
			PartyVotes: make(map[string]int, len(parties)),
		}
		fixed := []struct {
			name string
			dst  *int
		}{
			{"registered voters", &row.RegisteredVoters},
			{"envelopes issued", &row.EnvelopesIssued},
			{"valid votes", &row.ValidVotes},
		}
		for k, f := range fixed {
			n, err := parseCount(texts[2+k])
			if err != nil {
				loopErr = &ExtractError{URL: pageURL, Row: rowID, Field: f.name, Err: err}
				return false
			}
			*f.dst = n
		}
		for j, party := range parties {
			n, err := parseCount(texts[len(results.FixedColumns)+j])
			if err != nil {
				loopErr = &ExtractError{URL: pageURL, Row: rowID, Field: party, Err: err}
				return false
			}
			row.PartyVotes[party] = n
		}
		t.Rows = append(t.Rows, row)
		return true
	})
	if loopErr != nil {
		return nil, loopErr
	}

	if err := t.Validate(); err != nil {
		return nil, &ExtractError{URL: pageURL, Err: err}
	}
	return t, nil
}

// municipalityRef names one municipality on an overview page together with
// the absolute URL of its detail page.
type municipalityRef struct {
	Code      string
	Name      string
	DetailURL string
}

// municipalityRefs reads the municipality list of a district overview. It
// returns nil with no error when the page does not carry such a list at
// all, so the caller can report the layout mismatch.
func (s *Scraper) municipalityRefs(doc *goquery.Document, pageURL string) ([]municipalityRef, error) {
	codes := doc.FindMatcher(s.selectors.municipalityCode)
	if codes.Length() == 0 {
		return nil, nil
	}

	withLink := 0
	firstLinkless := ""
	codes.Each(func(_ int, cell *goquery.Selection) {
		if href, ok := cell.Find("a").First().Attr("href"); ok && href != "" {
			withLink++
		} else if firstLinkless == "" {
			firstLinkless = cleanText(cell.Text())
		}
	})
	if withLink == 0 {
		return nil, nil
	}
	if withLink < codes.Length() {
		return nil, &ExtractError{URL: pageURL, Row: firstLinkless, Err: errors.New("municipality cell has no detail link")}
	}

	names := doc.FindMatcher(s.selectors.municipalityName)
	if names.Length() != codes.Length() {
		return nil, &ExtractError{
			URL: pageURL,
			Err: fmt.Errorf("%d municipality codes but %d names", codes.Length(), names.Length()),
		}
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &ExtractError{URL: pageURL, Err: fmt.Errorf("resolving links: %w", err)}
	}

	refs := make([]municipalityRef, 0, codes.Length())
	var loopErr error
	codes.EachWithBreak(func(i int, cell *goquery.Selection) bool {
		code := cleanText(cell.Text())
		href, _ := cell.Find("a").First().Attr("href")
		target, err := url.Parse(href)
		if err != nil {
			loopErr = &ExtractError{URL: pageURL, Row: code, Err: fmt.Errorf("invalid detail link %q: %w", href, err)}
			return false
		}
		refs = append(refs, municipalityRef{
			Code:      code,
			Name:      cleanText(names.Eq(i).Text()),
			DetailURL: base.ResolveReference(target).String(),
		})
		return true
	})
	if loopErr != nil {
		return nil, loopErr
	}
	return refs, nil
}

// drillDown fetches every municipality detail page in document order and
// assembles the full table. The first page fixes the party list; every
// later page must yield the same parties in the same order.
func (s *Scraper) drillDown(refs []municipalityRef, sourceURL string) (*results.Table, error) {
	table := &results.Table{
		Rows:      make([]results.Row, 0, len(refs)),
		SourceURL: sourceURL,
	}
	for i, ref := range refs {
		doc, err := s.fetch(ref.DetailURL)
		if err != nil {
			return nil, err
		}
		row, parties, err := s.extractDetail(doc, ref)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			table.Parties = parties
		} else if !slices.Equal(parties, table.Parties) {
			return nil, &ExtractError{
				URL: ref.DetailURL,
				Row: ref.Code,
				Err: errors.New("party list differs from the first municipality"),
			}
		}
		table.Rows = append(table.Rows, row)
		slog.Debug("extracted municipality",
			"code", row.Code,
			"name", row.Name,
			"validVotes", row.ValidVotes,
			"progress", fmt.Sprintf("%d/%d", i+1, len(refs)))
	}

	if err := table.Validate(); err != nil {
		return nil, &ExtractError{URL: sourceURL, Err: err}
	}
	return table, nil
}

// extractDetail reads the three summary counts and the party vote pairs
// from one municipality detail page.
func (s *Scraper) extractDetail(doc *goquery.Document, ref municipalityRef) (results.Row, []string, error) {
	row := results.Row{Code: ref.Code, Name: ref.Name, PartyVotes: make(map[string]int)}

	fixed := []struct {
		name    string
		matcher goquery.Matcher
		dst     *int
	}{
		{"registered voters", s.selectors.registeredVoters, &row.RegisteredVoters},
		{"envelopes issued", s.selectors.envelopesIssued, &row.EnvelopesIssued},
		{"valid votes", s.selectors.validVotes, &row.ValidVotes},
	}
	for _, f := range fixed {
		cell := doc.FindMatcher(f.matcher).First()
		if cell.Length() == 0 {
			return results.Row{}, nil, &ExtractError{URL: ref.DetailURL, Row: ref.Code, Field: f.name, Err: errors.New("cell not found")}
		}
		n, err := parseCount(cell.Text())
		if err != nil {
			return results.Row{}, nil, &ExtractError{URL: ref.DetailURL, Row: ref.Code, Field: f.name, Err: err}
		}
		*f.dst = n
	}

	var parties []string
	for _, votesSel := range s.selectors.partyVotes {
		var loopErr error
		doc.FindMatcher(votesSel).EachWithBreak(func(_ int, cell *goquery.Selection) bool {
			nameCell := cell.Parent().FindMatcher(s.selectors.partyName).First()
			if nameCell.Length() == 0 {
				loopErr = &ExtractError{URL: ref.DetailURL, Row: ref.Code, Err: errors.New("party votes cell has no name cell in its row")}
				return false
			}
			name := cleanText(nameCell.Text())
			if name == "" {
				loopErr = &ExtractError{URL: ref.DetailURL, Row: ref.Code, Err: errors.New("empty party name")}
				return false
			}
			if _, dup := row.PartyVotes[name]; dup {
				loopErr = &ExtractError{URL: ref.DetailURL, Row: ref.Code, Field: name, Err: errors.New("duplicate party name")}
				return false
			}
			n, err := parseCount(cell.Text())
			if err != nil {
				loopErr = &ExtractError{URL: ref.DetailURL, Row: ref.Code, Field: name, Err: err}
				return false
			}
			parties = append(parties, name)
			row.PartyVotes[name] = n
			return true
		})
		if loopErr != nil {
			return results.Row{}, nil, loopErr
		}
	}
	if len(parties) == 0 {
		return results.Row{}, nil, &ExtractError{URL: ref.DetailURL, Row: ref.Code, Err: errors.New("no party votes found")}
	}
	return row, parties, nil
}

// cleanText trims a cell and replaces the non-breaking spaces volby.cz
// puts into names and numbers.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\u202f", " ")
	return strings.TrimSpace(s)
}

// parseCount converts a numeric cell to an int, tolerating space and
// non-breaking-space thousands separators.
func parseCount(text string) (int, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\u00a0', '\u202f', '\t', '\n', '\r':
			return -1
		}
		return r
	}, text)
	if cleaned == "" {
		return 0, errors.New("empty cell")
	}
	n, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", strings.TrimSpace(text))
	}
	return n, nil
}
