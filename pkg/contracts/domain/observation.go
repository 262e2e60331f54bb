package domain

import (
	"time"
)

// HoursPerDay is the number of hourly slots every report day carries.
// Daylight-saving days are still published as 24 slots by all three TSOs;
// the missing/extra hour shows up as a short or padded row instead.
const HoursPerDay = 24

// HourlySeries is a dense 24-slot vector in hour order. Slot i holds the
// value for hour i+1; nil marks an unobserved hour, never coerced to zero.
type HourlySeries [HoursPerDay]*float64

// Count returns the number of observed (non-nil) hours.
func (s HourlySeries) Count() int {
	n := 0
	for _, v := range s {
		if v != nil {
			n++
		}
	}
	return n
}

// ExtractionResult maps series names to their 24-slot hourly vectors for a
// single report day. A series absent from the map was not found in the
// document at all; a present series may still contain nil hours.
type ExtractionResult map[string]HourlySeries

// Hours returns the total number of observed hours across all series.
func (r ExtractionResult) Hours() int {
	n := 0
	for _, s := range r {
		n += s.Count()
	}
	return n
}

// DayResult is the outcome of resolving one report day: the day and the
// series extracted from its document. Date is usually the requested day
// from the filename/URL guess; when the format carries a reporting date in
// its content (the OST workbook does), that claimed date is authoritative
// and may differ from the guess.
type DayResult struct {
	Date   time.Time
	Series ExtractionResult
}
