// Package ost harvests hourly demand from the Albanian TSO's daily Excel
// workbooks into ost_data.csv.
//
// OST uploads one workbook per day under wp-content month folders, but both
// the folder and the filename are unreliable: re-uploads gain "-1".."-4" or
// "-001".."-003" suffixes and files occasionally land in the following
// month's folder. Every candidate URL is probed and the reporting date read
// from the workbook itself decides which day the data belongs to, so the
// search window extends one month past the requested range.
package ost

import (
	"context"
	"log/slog"
	"time"

	"github.com/EmiFej/WB-OEMC/internal/dataprocessing"
	"github.com/EmiFej/WB-OEMC/internal/fetch"
	"github.com/EmiFej/WB-OEMC/internal/sources"
	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

// probeTimeout caps each candidate request. The candidate space is large
// and almost all probes are misses, so they get a much shorter deadline
// than ordinary downloads.
const probeTimeout = 3 * time.Second

// Runner harvests hourly demand from OST workbooks.
type Runner struct {
	baseURL string
}

func NewRunner() *Runner {
	return &Runner{baseURL: baseURL}
}

func (r *Runner) Name() string { return "ost" }

func (r *Runner) Run(ctx context.Context, deps sources.Deps) (sources.Summary, error) {
	const outputFile = "ost_data.csv"
	if summary, skip := sources.SkipExisting(deps, r.Name(), outputFile); skip {
		return summary, nil
	}

	started := time.Now()
	columns := []string{domain.SeriesDemand}
	grid := dataprocessing.NewGrid(deps.Start, deps.End, columns)

	// one task per candidate filename date, one month past the range
	searchDays := fetch.Days(deps.Start, deps.End.AddDate(0, 1, 0))
	client := deps.Client.WithTimeout(probeTimeout)

	results := fetch.Map(ctx, searchDays, deps.Workers, func(ctx context.Context, day time.Time) domain.DayResult {
		return r.fetchCandidate(ctx, deps, client, day)
	})

	// Different candidate filenames can resolve to the same reporting
	// date; the workbook with the most observed hours wins.
	best := make(map[time.Time]domain.ExtractionResult)
	for _, res := range results {
		if res.Series == nil {
			continue
		}
		if cur, ok := best[res.Date]; !ok || res.Series.Hours() > cur.Hours() {
			best[res.Date] = res.Series
		}
	}
	for day, series := range best {
		grid.MergeDay(day, series)
	}

	deps.Metrics.HarvestDuration.WithLabelValues(r.Name()).Observe(time.Since(started).Seconds())
	summary, err := sources.WriteGrid(deps, r.Name(), outputFile, grid, columns)
	if err == nil && len(summary.MissingDays) > 0 {
		summary.Note = "searched one month past the range for late uploads"
	}
	return summary, err
}

// fetchCandidate probes every URL a filename date may live at and returns
// the first workbook whose claimed reporting date falls inside the
// requested range. Workbooks claiming out-of-range dates are ignored, which
// is what keeps the widened search window honest.
func (r *Runner) fetchCandidate(ctx context.Context, deps sources.Deps, client *fetch.Client, day time.Time) domain.DayResult {
	logger := deps.Logger.With(
		slog.String("source", r.Name()),
		slog.String("candidate_day", day.Format("2006-01-02")))

	for _, candidate := range CandidateURLs(r.baseURL, day) {
		raw, ok, err := client.Get(ctx, candidate)
		if err != nil || !ok {
			deps.Metrics.CandidateMisses.WithLabelValues(r.Name()).Inc()
			continue
		}

		wb, werr := openWorkbook(raw)
		if werr != nil {
			logger.Debug("undecodable workbook",
				slog.String("url", candidate), slog.String("error", werr.Error()))
			deps.Metrics.ParseFailures.WithLabelValues(r.Name(), "workbook").Inc()
			deps.Metrics.DocumentsFetched.WithLabelValues(r.Name(), "unparsed").Inc()
			continue
		}

		claimed, derr := wb.claimedDate()
		if derr != nil {
			logger.Debug("workbook without reporting date", slog.String("error", derr.Error()))
			deps.Metrics.ParseFailures.WithLabelValues(r.Name(), "workbook").Inc()
			wb.Close()
			continue
		}
		if claimed.Before(deps.Start) || claimed.After(deps.End) {
			wb.Close()
			continue
		}

		series := wb.hourlyDemand()
		wb.Close()
		if series.Count() == 0 {
			continue
		}

		deps.Metrics.DocumentsFetched.WithLabelValues(r.Name(), "parsed").Inc()
		return domain.DayResult{
			Date:   claimed,
			Series: domain.ExtractionResult{domain.SeriesDemand: series},
		}
	}
	return domain.DayResult{}
}
