package dataprocessing

import (
	"strconv"
	"time"

	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

const dateLayout = "2006-01-02"

type gridKey struct {
	date string
	hour int
}

// Grid assembles sparse per-day extraction results into the dense
// date x hour output table. Every (day, hour) pair in [start, end] appears
// exactly once in the output; cells never observed stay blank.
type Grid struct {
	start, end time.Time
	columns    []string
	cells      map[gridKey]map[string]float64
}

// NewGrid creates an empty grid covering every calendar day from start to
// end inclusive, with one value column per requested series.
func NewGrid(start, end time.Time, columns []string) *Grid {
	return &Grid{
		start:   start.Truncate(24 * time.Hour),
		end:     end.Truncate(24 * time.Hour),
		columns: columns,
		cells:   make(map[gridKey]map[string]float64),
	}
}

// MergeDay folds one day's extraction result into the grid. Days outside
// the requested range and series without a grid column are ignored.
func (g *Grid) MergeDay(date time.Time, result domain.ExtractionResult) {
	if date.Before(g.start) || date.After(g.end) {
		return
	}
	day := date.Format(dateLayout)
	for _, col := range g.columns {
		series, ok := result[col]
		if !ok {
			continue
		}
		for i, v := range series {
			if v == nil {
				continue
			}
			key := gridKey{date: day, hour: i + 1}
			if g.cells[key] == nil {
				g.cells[key] = make(map[string]float64)
			}
			g.cells[key][col] = *v
		}
	}
}

// Header returns the CSV header row.
func (g *Grid) Header() []string {
	return append([]string{"date", "hour"}, g.columns...)
}

// Rows materializes the dense grid sorted by (date, hour) ascending.
// Unobserved cells are empty strings, never zero.
func (g *Grid) Rows() [][]string {
	rows := make([][]string, 0, g.DayCount()*domain.HoursPerDay)
	for day := g.start; !day.After(g.end); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		for hour := 1; hour <= domain.HoursPerDay; hour++ {
			row := make([]string, 0, len(g.columns)+2)
			row = append(row, date, strconv.Itoa(hour))
			vals := g.cells[gridKey{date: date, hour: hour}]
			for _, col := range g.columns {
				if v, ok := vals[col]; ok {
					row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
				} else {
					row = append(row, "")
				}
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// DayCount returns the number of calendar days the grid spans.
func (g *Grid) DayCount() int {
	return int(g.end.Sub(g.start).Hours()/24) + 1
}

// PopulatedHours counts the observed values in one column.
func (g *Grid) PopulatedHours(column string) int {
	n := 0
	for _, vals := range g.cells {
		if _, ok := vals[column]; ok {
			n++
		}
	}
	return n
}

// MissingDays returns the requested days for which no column has a single
// observed value, in ascending order.
func (g *Grid) MissingDays() []time.Time {
	populated := make(map[string]bool)
	for key := range g.cells {
		populated[key.date] = true
	}
	var missing []time.Time
	for day := g.start; !day.After(g.end); day = day.AddDate(0, 0, 1) {
		if !populated[day.Format(dateLayout)] {
			missing = append(missing, day)
		}
	}
	return missing
}
