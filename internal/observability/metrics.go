// Package observability holds the Prometheus metrics for harvest runs and
// the optional HTTP listener that exposes them.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the harvester.
type Metrics struct {
	DocumentsFetched *prometheus.CounterVec   // labels: source, outcome={parsed,unparsed}
	CandidateMisses  *prometheus.CounterVec   // labels: source
	ParseFailures    *prometheus.CounterVec   // labels: source, strategy={table,text,workbook,envelope,html}
	HoursExtracted   *prometheus.CounterVec   // labels: source
	HarvestDuration  *prometheus.HistogramVec // labels: source
}

func newMetrics() *Metrics {
	return &Metrics{
		DocumentsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wboemc",
			Name:      "documents_fetched_total",
			Help:      "Downloaded report documents by source and extraction outcome.",
		}, []string{"source", "outcome"}),
		CandidateMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wboemc",
			Name:      "candidate_misses_total",
			Help:      "Candidate URLs that 404ed, timed out or errored.",
		}, []string{"source"}),
		ParseFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wboemc",
			Name:      "parse_failures_total",
			Help:      "Extraction strategies that produced no usable series.",
		}, []string{"source", "strategy"}),
		HoursExtracted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wboemc",
			Name:      "hours_extracted_total",
			Help:      "Hourly values successfully extracted.",
		}, []string{"source"}),
		HarvestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "wboemc",
			Name:      "harvest_duration_seconds",
			Help:      "Wall time of a complete per-source harvest run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"source"}),
	}
}

// NewMetrics creates and registers all harvest metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.DocumentsFetched,
		m.CandidateMisses,
		m.ParseFailures,
		m.HoursExtracted,
		m.HarvestDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics backed by a fresh registry so
// parallel tests never hit "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
