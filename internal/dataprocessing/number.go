package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
)

// spaceStripper removes the space variants MEPSO uses as thousands
// separators: plain space, NBSP (U+00A0) and narrow NBSP (U+202F).
var spaceStripper = strings.NewReplacer(" ", "", " ", "", " ", "")

// ParseNumber converts a numeric token into a float64 regardless of whether
// it is written "1.234,56" or "1,234.56".
//
// Space-type separators are stripped first. When both comma and period are
// present, the separator occurring last is the decimal point and every
// earlier separator is a thousands separator. When only one kind is present,
// every occurrence is treated as a decimal point (so "1.234.567" is
// malformed, not a million). The ambiguity is resolved by position, not by
// locale detection.
func ParseNumber(token string) (float64, error) {
	tok := spaceStripper.Replace(strings.TrimSpace(token))
	if tok == "" {
		return 0, fmt.Errorf("empty numeric token %q", token)
	}

	hasComma := strings.Contains(tok, ",")
	hasPeriod := strings.Contains(tok, ".")
	switch {
	case hasComma && hasPeriod:
		pos := strings.LastIndexAny(tok, ",.")
		head := strings.NewReplacer(",", "", ".", "").Replace(tok[:pos])
		tok = head + "." + tok[pos+1:]
	case hasComma:
		tok = strings.ReplaceAll(tok, ",", ".")
	}

	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed numeric token %q: %w", token, err)
	}
	return v, nil
}
