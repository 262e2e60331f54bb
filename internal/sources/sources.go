// Package sources defines the contract between the harvester command and
// the per-operator harvest implementations, plus the helpers they share.
//
// Each operator (MEPSO, OST, NOSBiH) contributes one or more Runners. A
// Runner owns the full day-by-day pipeline for its output file: candidate
// URL generation, download, extraction and grid assembly. The command wires
// shared dependencies once and hands them to every runner through Deps.
package sources

import (
	"context"
	"log/slog"
	"time"

	"github.com/EmiFej/WB-OEMC/internal/dataprocessing"
	"github.com/EmiFej/WB-OEMC/internal/exporter"
	"github.com/EmiFej/WB-OEMC/internal/fetch"
	"github.com/EmiFej/WB-OEMC/internal/files"
	"github.com/EmiFej/WB-OEMC/internal/observability"
)

// Deps carries the shared collaborators every runner needs.
type Deps struct {
	Start     time.Time
	End       time.Time
	Workers   int
	Overwrite bool

	Client  *fetch.Client
	Store   *files.Store
	CSV     *exporter.CSVWriter
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// Summary reports the outcome of one runner for operator feedback.
type Summary struct {
	Source      string
	OutputFile  string
	Rows        int
	Days        int
	Hours       map[string]int
	MissingDays []time.Time
	Skipped     bool
	// Stashed counts the unparsed payloads sitting in the output
	// directory for this source, including ones left by earlier runs.
	Stashed int
	// Note carries a source-specific caveat for the final report, such
	// as OST's widened search window.
	Note string
}

// Runner is one harvest pipeline producing one CSV output file.
type Runner interface {
	// Name returns the runner's short identifier, used for logging,
	// metric labels and unparsed payload filenames.
	Name() string

	// Run harvests every day in the configured range and writes the
	// output file. It returns a Summary even on partial success; only
	// filesystem failures abort a run.
	Run(ctx context.Context, deps Deps) (Summary, error)
}

// SkipExisting reports whether a runner should leave an already harvested
// output file alone, and the ready-made Summary for that case.
func SkipExisting(deps Deps, source, filename string) (Summary, bool) {
	if deps.Overwrite || !deps.CSV.Exists(filename) {
		return Summary{}, false
	}
	deps.Logger.Info("output file exists, skipping harvest",
		slog.String("source", source),
		slog.String("file", deps.CSV.Path(filename)))
	return Summary{Source: source, OutputFile: deps.CSV.Path(filename), Skipped: true}, true
}

// WriteGrid exports an assembled grid and summarizes what it holds.
func WriteGrid(deps Deps, source, filename string, grid *dataprocessing.Grid, columns []string) (Summary, error) {
	rows := grid.Rows()
	if err := deps.CSV.WriteGrid(filename, grid.Header(), rows); err != nil {
		return Summary{}, err
	}

	hours := make(map[string]int, len(columns))
	for _, col := range columns {
		hours[col] = grid.PopulatedHours(col)
		deps.Metrics.HoursExtracted.WithLabelValues(source).Add(float64(hours[col]))
	}

	summary := Summary{
		Source:      source,
		OutputFile:  deps.CSV.Path(filename),
		Rows:        len(rows),
		Days:        grid.DayCount(),
		Hours:       hours,
		MissingDays: grid.MissingDays(),
	}
	deps.Logger.Info("harvest complete",
		slog.String("source", source),
		slog.String("file", summary.OutputFile),
		slog.Int("rows", summary.Rows),
		slog.Int("days", summary.Days),
		slog.Int("missing_days", len(summary.MissingDays)))
	return summary, nil
}
