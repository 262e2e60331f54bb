// Command harvester downloads hourly electricity demand and generation-mix
// figures from the MEPSO, OST and NOSBiH publication sites and writes them
// as dense date x hour CSV grids into the configured output directory.
//
// Usage:
//
//	harvester [-config config.yaml] [-overwrite] [source ...]
//
// Sources: mepso, mepso_gen, ost, nosbih, or "all" (the default).
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/EmiFej/WB-OEMC/internal/config"
	"github.com/EmiFej/WB-OEMC/internal/exporter"
	"github.com/EmiFej/WB-OEMC/internal/fetch"
	"github.com/EmiFej/WB-OEMC/internal/files"
	"github.com/EmiFej/WB-OEMC/internal/infrastructure"
	"github.com/EmiFej/WB-OEMC/internal/observability"
	"github.com/EmiFej/WB-OEMC/internal/sources"
	"github.com/EmiFej/WB-OEMC/internal/sources/mepso"
	"github.com/EmiFej/WB-OEMC/internal/sources/nosbih"
	"github.com/EmiFej/WB-OEMC/internal/sources/ost"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	overwrite := flag.Bool("overwrite", false, "re-harvest sources whose output file already exists")
	flag.Parse()

	registry := map[string]sources.Runner{}
	var order []string
	for _, r := range []sources.Runner{
		mepso.NewDemandRunner(),
		mepso.NewGenerationRunner(),
		ost.NewRunner(),
		nosbih.NewRunner(),
	} {
		registry[r.Name()] = r
		order = append(order, r.Name())
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	selected, err := selectRunners(registry, order, flag.Args())
	if err != nil {
		logger.Error("Invalid source selection", "error", err)
		os.Exit(1)
	}

	start, end, err := cfg.Range()
	if err != nil {
		logger.Error("Invalid date range", "error", err)
		os.Exit(1)
	}

	store := files.NewStore(cfg.OutputDir)
	if err := store.EnsureOutputDir(); err != nil {
		logger.Error("Failed to create output directory", "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	if cfg.MetricsAddr != "" {
		observability.StartServer(cfg.MetricsAddr, logger)
	}

	deps := sources.Deps{
		Start:     start,
		End:       end,
		Workers:   cfg.MaxWorkers,
		Overwrite: *overwrite,
		Client:    fetch.NewClient(cfg.HTTPTimeout, cfg.RateLimit),
		Store:     files.NewStore(cfg.OutputDir),
		CSV:       exporter.NewCSVWriter(cfg.OutputDir),
		Logger:    logger,
		Metrics:   metrics,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting harvest",
		"start_date", cfg.StartDate,
		"end_date", cfg.EndDate,
		"sources", strings.Join(names(selected), ","),
		"workers", cfg.MaxWorkers)

	failed := false
	for _, runner := range selected {
		summary, err := runner.Run(ctx, deps)
		if err != nil {
			logger.Error("Harvest failed", "source", runner.Name(), "error", err)
			failed = true
			continue
		}
		report(summary)
	}
	if ctx.Err() != nil {
		logger.Warn("Harvest interrupted before completion")
	}
	if failed {
		os.Exit(1)
	}
}

// selectRunners resolves the positional arguments against the registry.
// No arguments, or "all", selects every runner in registration order.
func selectRunners(registry map[string]sources.Runner, order, args []string) ([]sources.Runner, error) {
	if len(args) == 0 || (len(args) == 1 && args[0] == "all") {
		all := make([]sources.Runner, 0, len(order))
		for _, name := range order {
			all = append(all, registry[name])
		}
		return all, nil
	}

	var selected []sources.Runner
	seen := map[string]bool{}
	for _, arg := range args {
		runner, ok := registry[arg]
		if !ok {
			known := make([]string, 0, len(registry))
			for name := range registry {
				known = append(known, name)
			}
			sort.Strings(known)
			return nil, fmt.Errorf("unknown source %q (known: %s)", arg, strings.Join(known, ", "))
		}
		if seen[arg] {
			continue
		}
		seen[arg] = true
		selected = append(selected, runner)
	}
	return selected, nil
}

func names(runners []sources.Runner) []string {
	out := make([]string, len(runners))
	for i, r := range runners {
		out[i] = r.Name()
	}
	return out
}

// report prints the per-source outcome for the operator; the structured log
// already carries the same facts for machines.
func report(s sources.Summary) {
	if s.Skipped {
		fmt.Printf("= %s: %s already exists, skipped (use -overwrite to refresh)\n", s.Source, s.OutputFile)
		return
	}

	total := 0
	cols := make([]string, 0, len(s.Hours))
	for col := range s.Hours {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	parts := make([]string, 0, len(cols))
	for _, col := range cols {
		total += s.Hours[col]
		parts = append(parts, fmt.Sprintf("%s=%d", col, s.Hours[col]))
	}

	fmt.Printf("+ %s: %d rows over %d day(s), %d hourly values (%s) -> %s\n",
		s.Source, s.Rows, s.Days, total, strings.Join(parts, " "), s.OutputFile)

	if len(s.MissingDays) > 0 {
		days := make([]string, len(s.MissingDays))
		for i, d := range s.MissingDays {
			days[i] = d.Format("2006-01-02")
		}
		fmt.Printf("  no data for: %s\n", strings.Join(days, ", "))
		if s.Note != "" {
			fmt.Printf("  (%s)\n", s.Note)
		}
	}
	if s.Stashed > 0 {
		fmt.Printf("  %d unparsed payload(s) stashed for review\n", s.Stashed)
	}
}
