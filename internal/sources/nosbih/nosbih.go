// Package nosbih harvests hourly demand and total generation from the
// Bosnian TSO's production page into nosbih_data.csv.
//
// NOSBiH has no per-day documents; the site renders its production table
// from an admin-ajax endpoint that returns an HTML fragment wrapped in a
// JSON envelope. The table carries planned and actual consumption side by
// side, which is what makes the demand repair in this package possible.
package nosbih

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/EmiFej/WB-OEMC/internal/dataprocessing"
	"github.com/EmiFej/WB-OEMC/internal/fetch"
	"github.com/EmiFej/WB-OEMC/internal/sources"
	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

const endpoint = "https://www.nosbih.ba/en/wp-admin/admin-ajax.php"

// requestTimeout is longer than the shared client default; the endpoint
// renders the table server-side and regularly takes several seconds.
const requestTimeout = 15 * time.Second

// header cell ids inside table#productionTable
const (
	idConsumptionActual  = "label-consumption-actual"
	idConsumptionPlanned = "label-consumption-planned"
	idProductionHydro    = "label-production-hydropower"
)

// fallbackGenerationColumn is used when the hydropower header id is absent;
// the production column has sat at index 2 for as long as the page has
// existed.
const fallbackGenerationColumn = 2

// Runner harvests NOSBiH demand and generation.
type Runner struct {
	endpoint string
}

func NewRunner() *Runner {
	return &Runner{endpoint: endpoint}
}

func (r *Runner) Name() string { return "nosbih" }

func (r *Runner) Run(ctx context.Context, deps sources.Deps) (sources.Summary, error) {
	const outputFile = "nosbih_data.csv"
	if summary, skip := sources.SkipExisting(deps, r.Name(), outputFile); skip {
		return summary, nil
	}

	started := time.Now()
	columns := []string{domain.SeriesPowerGeneration, domain.SeriesDemand}
	grid := dataprocessing.NewGrid(deps.Start, deps.End, columns)

	days := fetch.Days(deps.Start, deps.End)
	client := deps.Client.WithTimeout(requestTimeout)

	results := fetch.Map(ctx, days, deps.Workers, func(ctx context.Context, day time.Time) domain.DayResult {
		return r.fetchDay(ctx, deps, client, day)
	})
	for _, res := range results {
		grid.MergeDay(res.Date, res.Series)
	}

	deps.Metrics.HarvestDuration.WithLabelValues(r.Name()).Observe(time.Since(started).Seconds())
	summary, err := sources.WriteGrid(deps, r.Name(), outputFile, grid, columns)
	if err != nil {
		return summary, err
	}
	stashed, err := deps.Store.ListUnparsed(r.Name())
	if err != nil {
		return summary, err
	}
	summary.Stashed = len(stashed)
	return summary, nil
}

func (r *Runner) fetchDay(ctx context.Context, deps sources.Deps, client *fetch.Client, day time.Time) domain.DayResult {
	// the site publishes no leap-day data at all
	if day.Month() == time.February && day.Day() == 29 {
		return domain.DayResult{Date: day}
	}

	logger := deps.Logger.With(
		slog.String("source", r.Name()),
		slog.String("day", day.Format("2006-01-02")))

	form := url.Values{
		"action":     {"production"},
		"production": {"date=" + day.Format("02.01.2006") + "."},
	}
	raw, ok, err := client.PostForm(ctx, r.endpoint, form,
		map[string]string{"X-Requested-With": "XMLHttpRequest"})
	if err != nil || !ok {
		if err != nil {
			logger.Debug("fetch failed", slog.String("error", err.Error()))
		}
		deps.Metrics.CandidateMisses.WithLabelValues(r.Name()).Inc()
		return domain.DayResult{Date: day}
	}

	var envelope struct {
		Data string `json:"data"`
	}
	if jerr := json.Unmarshal(raw, &envelope); jerr != nil {
		logger.Warn("response is not the expected json envelope", slog.String("error", jerr.Error()))
		deps.Metrics.ParseFailures.WithLabelValues(r.Name(), "envelope").Inc()
		r.stash(deps, logger, day, "bin", raw)
		return domain.DayResult{Date: day}
	}

	result, perr := parseProductionTable(envelope.Data)
	if perr != nil {
		logger.Warn("malformed production table", slog.String("error", perr.Error()))
		deps.Metrics.ParseFailures.WithLabelValues(r.Name(), "html").Inc()
		deps.Metrics.DocumentsFetched.WithLabelValues(r.Name(), "unparsed").Inc()
		r.stash(deps, logger, day, "html", []byte(envelope.Data))
		return domain.DayResult{Date: day}
	}

	deps.Metrics.DocumentsFetched.WithLabelValues(r.Name(), "parsed").Inc()
	return domain.DayResult{Date: day, Series: result}
}

func (r *Runner) stash(deps sources.Deps, logger *slog.Logger, day time.Time, ext string, raw []byte) {
	if _, _, err := deps.Store.SaveUnparsed(r.Name(), day, ext, raw); err != nil {
		logger.Error("stashing unparsed payload failed", slog.String("error", err.Error()))
	}
}

// parseProductionTable extracts generation and repaired demand from the
// rendered table fragment. A missing table, empty body or missing
// consumption header ids is a malformed day.
func parseProductionTable(html string) (domain.ExtractionResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	headers := doc.Find("table#productionTable thead tr th")
	rows := doc.Find("table#productionTable tbody tr")
	if headers.Length() == 0 || rows.Length() == 0 {
		return nil, errors.New("production table missing or empty")
	}

	idxActual, okActual := headerIndex(headers, idConsumptionActual)
	idxPlanned, okPlanned := headerIndex(headers, idConsumptionPlanned)
	if !okActual || !okPlanned {
		return nil, errors.New("consumption header ids not found")
	}
	idxGen, okGen := headerIndex(headers, idProductionHydro)
	if !okGen {
		idxGen = fallbackGenerationColumn
	}

	widest := idxActual
	for _, idx := range []int{idxPlanned, idxGen} {
		if idx > widest {
			widest = idx
		}
	}

	var actual, planned, generation domain.HourlySeries
	rows.Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= widest {
			return
		}
		hourText := strings.TrimSpace(cells.Eq(0).Text())
		hour, herr := strconv.Atoi(strings.SplitN(hourText, ":", 2)[0])
		if herr != nil || hour < 1 || hour > domain.HoursPerDay {
			return
		}
		generation[hour-1] = cellValue(cells.Eq(idxGen))
		actual[hour-1] = cellValue(cells.Eq(idxActual))
		planned[hour-1] = cellValue(cells.Eq(idxPlanned))
	})

	return domain.ExtractionResult{
		domain.SeriesPowerGeneration: generation,
		domain.SeriesDemand:          RepairDemand(actual, planned),
	}, nil
}

func headerIndex(headers *goquery.Selection, id string) (int, bool) {
	idx, found := -1, false
	headers.EachWithBreak(func(i int, th *goquery.Selection) bool {
		if v, ok := th.Attr("id"); ok && v == id {
			idx, found = i, true
			return false
		}
		return true
	})
	return idx, found
}

func cellValue(cell *goquery.Selection) *float64 {
	text := strings.TrimSpace(cell.Text())
	if text == "" {
		return nil
	}
	v, err := dataprocessing.ParseNumber(text)
	if err != nil {
		return nil
	}
	return &v
}
