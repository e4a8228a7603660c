package results

import (
	"fmt"
	"strconv"
)

// FixedColumns are the leading output columns every export starts with,
// in order: municipality code, municipality name, registered voters,
// issued envelopes, valid votes. The names stay in Czech to match the
// upstream site and the exports produced by earlier versions of this tool.
var FixedColumns = []string{"Kód", "Obec", "Voliči v seznamu", "Vydané obálky", "Platné hlasy"}

// Row holds the extracted results for one municipality.
type Row struct {
	Code             string
	Name             string
	RegisteredVoters int
	EnvelopesIssued  int
	ValidVotes       int
	PartyVotes       map[string]int // keyed by party name
}

// PartyVoteTotal sums the per-party votes of the row. The total is at
// most ValidVotes; it can be lower when ballots were blank or invalid.
func (r Row) PartyVoteTotal() int {
	total := 0
	for _, votes := range r.PartyVotes {
		total += votes
	}
	return total
}

// Table is an ordered collection of municipality rows together with the
// party column order shared by every row.
type Table struct {
	Parties   []string // CSV column order for party votes
	Rows      []Row    // document order of the source page
	SourceURL string   // page the table was extracted from
}

// Header returns the full output header: the fixed columns followed by
// the party names in table order.
func (t *Table) Header() []string {
	header := make([]string, 0, len(FixedColumns)+len(t.Parties))
	header = append(header, FixedColumns...)
	header = append(header, t.Parties...)
	return header
}

// Record renders one row's values in header order.
func (t *Table) Record(r Row) []string {
	record := make([]string, 0, len(FixedColumns)+len(t.Parties))
	record = append(record,
		r.Code,
		r.Name,
		strconv.Itoa(r.RegisteredVoters),
		strconv.Itoa(r.EnvelopesIssued),
		strconv.Itoa(r.ValidVotes),
	)
	for _, party := range t.Parties {
		record = append(record, strconv.Itoa(r.PartyVotes[party]))
	}
	return record
}

// Records renders all rows in table order.
func (t *Table) Records() [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, t.Record(row))
	}
	return records
}

// Validate checks the table invariants: the party list is free of
// duplicates and every row carries a vote count for exactly the listed
// parties. A table that fails validation must not be written out.
func (t *Table) Validate() error {
	seen := make(map[string]bool, len(t.Parties))
	for _, party := range t.Parties {
		if party == "" {
			return fmt.Errorf("empty party name in header")
		}
		if seen[party] {
			return fmt.Errorf("duplicate party name %q in header", party)
		}
		seen[party] = true
	}

	for _, row := range t.Rows {
		if len(row.PartyVotes) != len(t.Parties) {
			return fmt.Errorf("municipality %s: %d party counts, header lists %d parties",
				row.Code, len(row.PartyVotes), len(t.Parties))
		}
		for _, party := range t.Parties {
			if _, ok := row.PartyVotes[party]; !ok {
				return fmt.Errorf("municipality %s: no vote count for party %q", row.Code, party)
			}
		}
	}
	return nil
}
