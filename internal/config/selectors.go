package config

// Selectors are the CSS selectors that locate result data inside the
// volby.cz page layouts. The site revises its markup between elections,
// so the full set can be overridden from a selector file.
type Selectors struct {
	// ResultsTable matches candidate tables when looking for a combined
	// results table (header row of fixed columns plus party names).
	ResultsTable string `yaml:"results_table"`

	// MunicipalityCode matches the overview cells that carry a
	// municipality code wrapped in a link to its detail page.
	MunicipalityCode string `yaml:"municipality_code"`

	// MunicipalityName matches the overview cells with municipality names.
	MunicipalityName string `yaml:"municipality_name"`

	// RegisteredVoters, EnvelopesIssued and ValidVotes match the summary
	// cells on a municipality detail page.
	RegisteredVoters string `yaml:"registered_voters"`
	EnvelopesIssued  string `yaml:"envelopes_issued"`
	ValidVotes       string `yaml:"valid_votes"`

	// PartyName matches the party-name cell within a party table row.
	PartyName string `yaml:"party_name"`

	// PartyVotes match the vote-count cells of the party tables, one
	// selector per table (volby.cz splits parties across two).
	PartyVotes []string `yaml:"party_votes"`
}

// DefaultSelectors returns the selector set for the ps2017nss layout.
func DefaultSelectors() Selectors {
	return Selectors{
		ResultsTable:     "table",
		MunicipalityCode: "td.cislo",
		MunicipalityName: "td.overflow_name",
		RegisteredVoters: "td.cislo[headers='sa2']",
		EnvelopesIssued:  "td.cislo[headers='sa3']",
		ValidVotes:       "td.cislo[headers='sa6']",
		PartyName:        "td.overflow_name",
		PartyVotes: []string{
			"td.cislo[headers='t1sa2 t1sb3']",
			"td.cislo[headers='t2sa2 t2sb3']",
		},
	}
}

// Validate reports the first missing selector.
func (s Selectors) Validate() error {
	if s.ResultsTable == "" || s.MunicipalityCode == "" || s.MunicipalityName == "" ||
		s.RegisteredVoters == "" || s.EnvelopesIssued == "" || s.ValidVotes == "" ||
		s.PartyName == "" || len(s.PartyVotes) == 0 {
		return ErrMissingSelector
	}
	for _, sel := range s.PartyVotes {
		if sel == "" {
			return ErrMissingSelector
		}
	}
	return nil
}

// merge overlays the non-empty fields of other onto s and returns the
// result. Used when applying a selector file over the defaults.
func (s Selectors) merge(other Selectors) Selectors {
	if other.ResultsTable != "" {
		s.ResultsTable = other.ResultsTable
	}
	if other.MunicipalityCode != "" {
		s.MunicipalityCode = other.MunicipalityCode
	}
	if other.MunicipalityName != "" {
		s.MunicipalityName = other.MunicipalityName
	}
	if other.RegisteredVoters != "" {
		s.RegisteredVoters = other.RegisteredVoters
	}
	if other.EnvelopesIssued != "" {
		s.EnvelopesIssued = other.EnvelopesIssued
	}
	if other.ValidVotes != "" {
		s.ValidVotes = other.ValidVotes
	}
	if other.PartyName != "" {
		s.PartyName = other.PartyName
	}
	if len(other.PartyVotes) > 0 {
		s.PartyVotes = other.PartyVotes
	}
	return s
}
