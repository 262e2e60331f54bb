package dataprocessing

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

// DemandMarkers are the label phrases identifying the total-consumption row,
// in both languages MEPSO has published under.
var DemandMarkers = []string{"вкупен конзум", "total consumption"}

// GenerationMarkers maps technology-group label phrases to series names.
// Kept as a data literal so adding a publisher synonym is a one-line change.
var GenerationMarkers = map[string]string{
	"вкупно хец": domain.SeriesHydro,
	"вкупно тец": domain.SeriesThermal,
	"вкупно гас": domain.SeriesGas,
	"вкупно вец": domain.SeriesWind,
	"вкупно фец": domain.SeriesSolar,
}

// NormalizeLabel canonicalizes a label for marker matching: Unicode NFKC,
// lower case, all whitespace removed. Removing whitespace entirely makes the
// match immune to the zero-or-many-space runs PDF text extraction produces
// between words.
func NormalizeLabel(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// MatchesMarker reports whether the normalized label contains any of the
// marker phrases. Matching is substring-based, so punctuation noise around
// the phrase does not matter.
func MatchesMarker(label string, markers []string) bool {
	n := NormalizeLabel(label)
	for _, m := range markers {
		if strings.Contains(n, NormalizeLabel(m)) {
			return true
		}
	}
	return false
}

// MatchGeneration returns the series name whose marker phrase the label
// contains, if any.
func MatchGeneration(label string) (string, bool) {
	n := NormalizeLabel(label)
	for marker, series := range GenerationMarkers {
		if strings.Contains(n, NormalizeLabel(marker)) {
			return series, true
		}
	}
	return "", false
}

// RowMatcher locates the data row for one series inside a parsed table.
// Implementations return the matched row and true, or nil and false when
// nothing matches; no-match is not an error.
type RowMatcher interface {
	Match(rows [][]string) ([]string, bool)
}

// LabelMatcher matches the first row whose label cell contains one of the
// marker phrases.
type LabelMatcher struct {
	Markers []string
}

func (m LabelMatcher) Match(rows [][]string) ([]string, bool) {
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		if MatchesMarker(row[0], m.Markers) {
			return row, true
		}
	}
	return nil, false
}

// PositionalMatcher selects a row counted from the bottom of the table.
// It backs the demand extractor's third-from-the-end fallback for documents
// where table extraction mangles the label column. The position is tied to
// one publisher's current layout and is deliberately isolated here so it can
// be swapped out without touching callers.
type PositionalMatcher struct {
	FromEnd int
}

func (m PositionalMatcher) Match(rows [][]string) ([]string, bool) {
	if m.FromEnd <= 0 || len(rows) < m.FromEnd {
		return nil, false
	}
	return rows[len(rows)-m.FromEnd], true
}

// FirstMatch tries each matcher in order and returns the first hit.
func FirstMatch(rows [][]string, matchers ...RowMatcher) ([]string, bool) {
	for _, m := range matchers {
		if row, ok := m.Match(rows); ok {
			return row, true
		}
	}
	return nil, false
}
