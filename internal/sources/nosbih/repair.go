package nosbih

import (
	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

// RepairDemand derives the final demand vector from the actual and planned
// consumption columns. NOSBiH's actual-consumption telemetry has two known
// failure modes: hours published as blank or zero, and meter freezes where
// the same reading repeats for hours on end. Both are patched with the
// planned figure when one is available.
func RepairDemand(actual, planned domain.HourlySeries) domain.HourlySeries {
	final := actual

	// blank or zero actuals take the planned figure
	for i := range final {
		if isNullOrZero(final[i]) && !isNullOrZero(planned[i]) {
			final[i] = planned[i]
		}
	}

	// runs of three or more identical non-zero values are frozen
	// telemetry; the whole run is replaced hour by hour where planned
	// has a usable value
	scan := final
	i := 0
	for i < domain.HoursPerDay {
		v := scan[i]
		start := i
		for i+1 < domain.HoursPerDay && !isNullOrZero(v) && equalValues(scan[i+1], v) {
			i++
		}
		if i-start+1 >= 3 {
			for j := start; j <= i; j++ {
				if !isNullOrZero(planned[j]) {
					final[j] = planned[j]
				}
			}
		}
		i++
	}
	return final
}

func isNullOrZero(v *float64) bool {
	return v == nil || *v == 0
}

func equalValues(a, b *float64) bool {
	return a != nil && b != nil && *a == *b
}
