package mepso

import (
	"context"

	"github.com/EmiFej/WB-OEMC/internal/sources"
	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

// GenerationRunner harvests the hourly generation mix by technology group
// into mepso_gen_mix.csv. It reads the same daily report as DemandRunner
// but pulls the per-technology total rows instead of consumption.
type GenerationRunner struct {
	baseURL string
}

func NewGenerationRunner() *GenerationRunner {
	return &GenerationRunner{baseURL: baseURL}
}

func (r *GenerationRunner) Name() string { return "mepso_gen" }

func (r *GenerationRunner) Run(ctx context.Context, deps sources.Deps) (sources.Summary, error) {
	const outputFile = "mepso_gen_mix.csv"
	if summary, skip := sources.SkipExisting(deps, r.Name(), outputFile); skip {
		return summary, nil
	}
	return harvest(ctx, deps, r.baseURL, r.Name(), outputFile,
		domain.GenerationSeries, extractGeneration)
}
