package mepso

import (
	"context"
	"log/slog"
	"time"

	"github.com/EmiFej/WB-OEMC/internal/dataprocessing"
	"github.com/EmiFej/WB-OEMC/internal/fetch"
	"github.com/EmiFej/WB-OEMC/internal/files"
	"github.com/EmiFej/WB-OEMC/internal/observability"
	"github.com/EmiFej/WB-OEMC/internal/sources"
	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

// stashSource is the filename prefix for unparsed payloads. Both runners
// read the same daily PDF, so they share one stash namespace and the first
// capture of a day wins.
const stashSource = "mepso"

// extractFunc is one of the two per-report extractors, extractDemand or
// extractGeneration.
type extractFunc func(doc *document, logger *slog.Logger, metrics *observability.Metrics, source string) domain.ExtractionResult

// DemandRunner harvests hourly total demand into mepso_data.csv.
type DemandRunner struct {
	baseURL string
}

func NewDemandRunner() *DemandRunner {
	return &DemandRunner{baseURL: baseURL}
}

func (r *DemandRunner) Name() string { return "mepso" }

func (r *DemandRunner) Run(ctx context.Context, deps sources.Deps) (sources.Summary, error) {
	const outputFile = "mepso_data.csv"
	if summary, skip := sources.SkipExisting(deps, r.Name(), outputFile); skip {
		return summary, nil
	}
	return harvest(ctx, deps, r.baseURL, r.Name(), outputFile,
		[]string{domain.SeriesDemand}, extractDemand)
}

// harvest runs the shared per-day pipeline: probe URL variants, extract,
// merge into the dense grid, export.
func harvest(ctx context.Context, deps sources.Deps, base, source, outputFile string,
	columns []string, extract extractFunc) (sources.Summary, error) {

	started := time.Now()
	grid := dataprocessing.NewGrid(deps.Start, deps.End, columns)
	days := fetch.Days(deps.Start, deps.End)

	results := fetch.Map(ctx, days, deps.Workers, func(ctx context.Context, day time.Time) domain.DayResult {
		return fetchDay(ctx, deps, base, source, day, extract)
	})
	for _, res := range results {
		grid.MergeDay(res.Date, res.Series)
	}

	deps.Metrics.HarvestDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
	summary, err := sources.WriteGrid(deps, source, outputFile, grid, columns)
	if err != nil {
		return summary, err
	}
	stashed, err := deps.Store.ListUnparsed(stashSource)
	if err != nil {
		return summary, err
	}
	summary.Stashed = len(stashed)
	return summary, nil
}

// fetchDay resolves one calendar day: every URL variant is tried until one
// downloads and parses. A payload that downloaded but defeated both
// extraction strategies is stashed once for manual triage.
func fetchDay(ctx context.Context, deps sources.Deps, base, source string, day time.Time, extract extractFunc) domain.DayResult {
	logger := deps.Logger.With(
		slog.String("source", source),
		slog.String("day", day.Format("2006-01-02")))

	for _, candidate := range URLVariants(base, day) {
		raw, ok, err := deps.Client.Get(ctx, candidate)
		if err != nil || !ok {
			if err != nil {
				logger.Debug("candidate fetch failed",
					slog.String("url", candidate), slog.String("error", err.Error()))
			}
			deps.Metrics.CandidateMisses.WithLabelValues(source).Inc()
			continue
		}

		if result := extractPayload(raw, logger, deps, source, extract); len(result) > 0 {
			deps.Metrics.DocumentsFetched.WithLabelValues(source, "parsed").Inc()
			return domain.DayResult{Date: day, Series: result}
		}

		deps.Metrics.DocumentsFetched.WithLabelValues(source, "unparsed").Inc()
		if _, _, serr := deps.Store.SaveUnparsed(stashSource, day, files.SniffExtension(raw), raw); serr != nil {
			logger.Error("stashing unparsed payload failed", slog.String("error", serr.Error()))
		}
	}
	return domain.DayResult{Date: day}
}

func extractPayload(raw []byte, logger *slog.Logger, deps sources.Deps, source string, extract extractFunc) domain.ExtractionResult {
	doc, err := openDocument(raw)
	if err != nil {
		logger.Debug("payload is not a readable pdf", slog.String("error", err.Error()))
		return nil
	}
	return extract(doc, logger, deps.Metrics, source)
}
