package scraper

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/radekjisa/volby-export/internal/config"
	"github.com/radekjisa/volby-export/internal/results"
)

func newTestScraper(t *testing.T) *Scraper {
	t.Helper()
	s, err := New(config.New())
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/" + name)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func TestNew_InvalidSelector(t *testing.T) {
	cfg := config.New()
	cfg.Selectors.ValidVotes = "td[headers="

	if _, err := New(cfg); err == nil {
		t.Error("New() expected error for invalid selector, got nil")
	} else if !strings.Contains(err.Error(), "invalid selector") {
		t.Errorf("New() error = %q, should mention the invalid selector", err)
	}
}

func TestNew_UnknownCharset(t *testing.T) {
	cfg := config.New()
	cfg.Charset = "bogus-charset"

	if _, err := New(cfg); err == nil {
		t.Error("New() expected error for unknown charset, got nil")
	} else if !strings.Contains(err.Error(), "unknown charset") {
		t.Errorf("New() error = %q, should mention the unknown charset", err)
	}
}

func TestFindCombined(t *testing.T) {
	s := newTestScraper(t)

	table, parties, ok := s.findCombined(parseHTML(t, loadFixture(t, "combined.html")))
	if !ok {
		t.Fatal("findCombined() did not recognise the combined table page")
	}
	if table == nil {
		t.Fatal("findCombined() returned nil table")
	}

	wantParties := []string{"Občanská demokratická strana", "Česká pirátská strana"}
	if diff := cmp.Diff(wantParties, parties); diff != "" {
		t.Errorf("parties mismatch (-want +got):\n%s", diff)
	}

	if _, _, ok := s.findCombined(parseHTML(t, loadFixture(t, "overview.html"))); ok {
		t.Error("findCombined() misdetected an overview page as a combined table")
	}
}

func TestExtractCombined(t *testing.T) {
	s := newTestScraper(t)
	table, parties, ok := s.findCombined(parseHTML(t, loadFixture(t, "combined.html")))
	if !ok {
		t.Fatal("findCombined() did not recognise the combined table page")
	}

	got, err := s.extractCombined(table, parties, "https://example.invalid/ps301")
	if err != nil {
		t.Fatalf("extractCombined() error: %v", err)
	}

	if got.SourceURL != "https://example.invalid/ps301" {
		t.Errorf("SourceURL = %q, want the page URL", got.SourceURL)
	}
	wantRows := []results.Row{
		{
			Code:             "554782",
			Name:             "Praha 1",
			RegisteredVoters: 1000,
			EnvelopesIssued:  600,
			ValidVotes:       590,
			PartyVotes: map[string]int{
				"Občanská demokratická strana": 300,
				"Česká pirátská strana":        290,
			},
		},
		{
			Code:             "500054",
			Name:             "Praha 2",
			RegisteredVoters: 2500,
			EnvelopesIssued:  1400,
			ValidVotes:       1388,
			PartyVotes: map[string]int{
				"Občanská demokratická strana": 700,
				"Česká pirátská strana":        688,
			},
		},
	}
	if diff := cmp.Diff(wantRows, got.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractCombined_MalformedNumber(t *testing.T) {
	html := `<html><body><table>
		<tr><th>Kód</th><th>Obec</th><th>Voliči v seznamu</th><th>Vydané obálky</th><th>Platné hlasy</th><th>Strana A</th></tr>
		<tr><td>554782</td><td>Praha 1</td><td>neuvedeno</td><td>600</td><td>590</td><td>590</td></tr>
	</table></body></html>`

	s := newTestScraper(t)
	table, parties, ok := s.findCombined(parseHTML(t, html))
	if !ok {
		t.Fatal("findCombined() did not recognise the combined table")
	}

	_, err := s.extractCombined(table, parties, "https://example.invalid/ps301")
	var extErr *ExtractError
	if !errors.As(err, &extErr) {
		t.Fatalf("extractCombined() error = %v, want *ExtractError", err)
	}
	if extErr.Row != "554782" {
		t.Errorf("ExtractError.Row = %q, want the municipality code", extErr.Row)
	}
	if extErr.Field != "registered voters" {
		t.Errorf("ExtractError.Field = %q, want %q", extErr.Field, "registered voters")
	}
	if !strings.Contains(err.Error(), "not a number") {
		t.Errorf("error = %q, should name the malformed cell", err)
	}
}

func TestExtractCombined_WrongCellCount(t *testing.T) {
	html := `<html><body><table>
		<tr><th>Kód</th><th>Obec</th><th>Voliči v seznamu</th><th>Vydané obálky</th><th>Platné hlasy</th><th>Strana A</th></tr>
		<tr><td>554782</td><td>Praha 1</td><td>1000</td><td>600</td><td>590</td></tr>
	</table></body></html>`

	s := newTestScraper(t)
	table, parties, ok := s.findCombined(parseHTML(t, html))
	if !ok {
		t.Fatal("findCombined() did not recognise the combined table")
	}

	_, err := s.extractCombined(table, parties, "https://example.invalid/ps301")
	var extErr *ExtractError
	if !errors.As(err, &extErr) {
		t.Fatalf("extractCombined() error = %v, want *ExtractError", err)
	}
	if !strings.Contains(err.Error(), "expected 6") {
		t.Errorf("error = %q, should report the expected cell count", err)
	}
}

func TestMunicipalityRefs(t *testing.T) {
	s := newTestScraper(t)
	doc := parseHTML(t, loadFixture(t, "overview.html"))

	refs, err := s.municipalityRefs(doc, "https://www.volby.cz/pls/ps2017nss/ps32?xjazyk=CZ&xkraj=12&xnumnuts=7103")
	if err != nil {
		t.Fatalf("municipalityRefs() error: %v", err)
	}

	want := []municipalityRef{
		{
			Code:      "588366",
			Name:      "Bařice-Velké Těšany",
			DetailURL: "https://www.volby.cz/pls/ps2017nss/ps311?xjazyk=CZ&xkraj=12&xobec=588366&xvyber=7103",
		},
		{
			Code:      "588385",
			Name:      "Bezměrov",
			DetailURL: "https://www.volby.cz/pls/ps2017nss/ps311?xjazyk=CZ&xkraj=12&xobec=588385&xvyber=7103",
		},
	}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Errorf("refs mismatch (-want +got):\n%s", diff)
	}
}

func TestMunicipalityRefs_LinklessCell(t *testing.T) {
	html := `<html><body><table>
		<tr><td class="cislo"><a href="ps311?xobec=1">1</a></td><td class="overflow_name">Obec A</td></tr>
		<tr><td class="cislo">2</td><td class="overflow_name">Obec B</td></tr>
	</table></body></html>`

	s := newTestScraper(t)
	_, err := s.municipalityRefs(parseHTML(t, html), "https://example.invalid/ps32")
	var extErr *ExtractError
	if !errors.As(err, &extErr) {
		t.Fatalf("municipalityRefs() error = %v, want *ExtractError", err)
	}
	if extErr.Row != "2" {
		t.Errorf("ExtractError.Row = %q, want the linkless code", extErr.Row)
	}
	if !strings.Contains(err.Error(), "no detail link") {
		t.Errorf("error = %q, should report the missing link", err)
	}
}

func TestMunicipalityRefs_NoLinksAtAll(t *testing.T) {
	html := `<html><body><table>
		<tr><td class="cislo">1</td><td class="overflow_name">Obec A</td></tr>
	</table></body></html>`

	s := newTestScraper(t)
	refs, err := s.municipalityRefs(parseHTML(t, html), "https://example.invalid/ps311")
	if err != nil {
		t.Fatalf("municipalityRefs() error: %v", err)
	}
	if refs != nil {
		t.Errorf("municipalityRefs() = %v, want nil for a page with no detail links", refs)
	}
}

func TestMunicipalityRefs_NameCountMismatch(t *testing.T) {
	html := `<html><body><table>
		<tr><td class="cislo"><a href="ps311?xobec=1">1</a></td><td class="overflow_name">Obec A</td></tr>
		<tr><td class="cislo"><a href="ps311?xobec=2">2</a></td></tr>
	</table></body></html>`

	s := newTestScraper(t)
	_, err := s.municipalityRefs(parseHTML(t, html), "https://example.invalid/ps32")
	var extErr *ExtractError
	if !errors.As(err, &extErr) {
		t.Fatalf("municipalityRefs() error = %v, want *ExtractError", err)
	}
	if !strings.Contains(err.Error(), "2 municipality codes but 1 names") {
		t.Errorf("error = %q, should report the code/name count mismatch", err)
	}
}

func TestExtractDetail(t *testing.T) {
	s := newTestScraper(t)
	doc := parseHTML(t, loadFixture(t, "detail_588366.html"))
	ref := municipalityRef{
		Code:      "588366",
		Name:      "Bařice-Velké Těšany",
		DetailURL: "https://example.invalid/ps311?xobec=588366",
	}

	row, parties, err := s.extractDetail(doc, ref)
	if err != nil {
		t.Fatalf("extractDetail() error: %v", err)
	}

	wantRow := results.Row{
		Code:             "588366",
		Name:             "Bařice-Velké Těšany",
		RegisteredVoters: 312,
		EnvelopesIssued:  200,
		ValidVotes:       198,
		PartyVotes: map[string]int{
			"Občanská demokratická strana": 80,
			"Česká pirátská strana":        60,
			"ANO 2011":                     58,
		},
	}
	if diff := cmp.Diff(wantRow, row); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}

	// Party order must follow the page: first table top to bottom, then
	// the second.
	wantParties := []string{"Občanská demokratická strana", "Česká pirátská strana", "ANO 2011"}
	if diff := cmp.Diff(wantParties, parties); diff != "" {
		t.Errorf("parties mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractDetail_MissingSummaryCell(t *testing.T) {
	html := `<html><body>
		<table><tr>
			<td class="cislo" headers="sa3">200</td>
			<td class="cislo" headers="sa6">198</td>
		</tr></table>
	</body></html>`

	s := newTestScraper(t)
	ref := municipalityRef{Code: "588366", Name: "Obec", DetailURL: "https://example.invalid/ps311"}
	_, _, err := s.extractDetail(parseHTML(t, html), ref)

	var extErr *ExtractError
	if !errors.As(err, &extErr) {
		t.Fatalf("extractDetail() error = %v, want *ExtractError", err)
	}
	if extErr.Field != "registered voters" {
		t.Errorf("ExtractError.Field = %q, want %q", extErr.Field, "registered voters")
	}
	if !strings.Contains(err.Error(), "cell not found") {
		t.Errorf("error = %q, should report the missing cell", err)
	}
}

func TestExtractDetail_DuplicatePartyName(t *testing.T) {
	html := `<html><body>
		<table><tr>
			<td class="cislo" headers="sa2">312</td>
			<td class="cislo" headers="sa3">200</td>
			<td class="cislo" headers="sa6">198</td>
		</tr></table>
		<table>
		<tr><td class="overflow_name">ANO 2011</td><td class="cislo" headers="t1sa2 t1sb3">100</td></tr>
		<tr><td class="overflow_name">ANO 2011</td><td class="cislo" headers="t1sa2 t1sb3">98</td></tr>
		</table>
	</body></html>`

	s := newTestScraper(t)
	ref := municipalityRef{Code: "588366", Name: "Obec", DetailURL: "https://example.invalid/ps311"}
	_, _, err := s.extractDetail(parseHTML(t, html), ref)

	var extErr *ExtractError
	if !errors.As(err, &extErr) {
		t.Fatalf("extractDetail() error = %v, want *ExtractError", err)
	}
	if !strings.Contains(err.Error(), "duplicate party name") {
		t.Errorf("error = %q, should report the duplicate party", err)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"590", 590, false},
		{" 590 ", 590, false},
		{"1 000", 1000, false},
		{"1\u00a0000", 1000, false},
		{"2\u202f500", 2500, false},
		{"0", 0, false},
		{"", 0, true},
		{"N/A", 0, true},
		{"64,10", 0, true},
		{"1.000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseCount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseCount(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Errorf("parseCount(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("parseCount(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"\u00a0Praha 1\u00a0", "Praha 1"},
		{"  Bařice-Velké Těšany\n", "Bařice-Velké Těšany"},
		{"Dolní\u00a0Lhota", "Dolní Lhota"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := cleanText(tt.input); got != tt.want {
				t.Errorf("cleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
