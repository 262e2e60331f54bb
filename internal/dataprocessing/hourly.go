package dataprocessing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

// Daily-sum thresholds, in MWh. A report row sometimes carries the day's
// total as an extra leading cell; any first value above the threshold is
// taken to be that sum rather than an hourly figure. Hourly total demand in
// the observed grid stays well under 2000 and a single technology group
// under 500.
const (
	DemandSumThreshold     = 2000
	TechnologySumThreshold = 500
)

// ErrNoNumericCells reports a matched row that contained no numeric data at
// all, which fails the row and sends the caller to its next strategy.
var ErrNoNumericCells = errors.New("row contains no numeric cells")

var digitRe = regexp.MustCompile(`\d`)

// ReduceHourly collapses a matched row's data cells (label excluded) into
// exactly 24 hourly slots. Policy, in order:
//
//  1. trailing empty cells are dropped (publisher padding)
//  2. only cells containing at least one digit are kept
//  3. the first cell is dropped when more than 24 numeric cells remain or
//     its value exceeds sumThreshold (daily-sum column)
//  4. fewer than 24 values are right-padded with unobserved slots (rare
//     daylight-saving or publisher-omission glitch)
//  5. more than 24 values keep only the last 24 (leading noise columns)
//
// A cell that fails numeric normalization fails the whole row.
func ReduceHourly(cells []string, sumThreshold float64) (domain.HourlySeries, error) {
	var series domain.HourlySeries

	for len(cells) > 0 && strings.TrimSpace(cells[len(cells)-1]) == "" {
		cells = cells[:len(cells)-1]
	}

	numeric := make([]string, 0, len(cells))
	for _, c := range cells {
		if digitRe.MatchString(c) {
			numeric = append(numeric, c)
		}
	}
	if len(numeric) == 0 {
		return series, ErrNoNumericCells
	}

	if len(numeric) > domain.HoursPerDay {
		numeric = numeric[1:]
	} else {
		first, err := ParseNumber(numeric[0])
		if err != nil {
			return series, fmt.Errorf("leading cell: %w", err)
		}
		if first > sumThreshold {
			numeric = numeric[1:]
		}
	}

	if len(numeric) > domain.HoursPerDay {
		numeric = numeric[len(numeric)-domain.HoursPerDay:]
	}

	for i, tok := range numeric {
		v, err := ParseNumber(tok)
		if err != nil {
			return domain.HourlySeries{}, fmt.Errorf("hour %d: %w", i+1, err)
		}
		series[i] = &v
	}
	// slots past len(numeric) stay nil: right padding with unobserved
	return series, nil
}
