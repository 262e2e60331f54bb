package mepso

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EmiFej/WB-OEMC/internal/exporter"
	"github.com/EmiFej/WB-OEMC/internal/fetch"
	"github.com/EmiFej/WB-OEMC/internal/files"
	"github.com/EmiFej/WB-OEMC/internal/observability"
	"github.com/EmiFej/WB-OEMC/internal/sources"
	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

func TestURLVariants(t *testing.T) {
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	urls := URLVariants("https://example.test/files", day)

	require.Len(t, urls, 3)
	assert.Equal(t, "https://example.test/files/"+url.PathEscape("Информација за 07.03.2025.pdf"), urls[0])
	assert.Equal(t, "https://example.test/files/"+url.PathEscape("Информација 07.03.2025.pdf"), urls[1])
	assert.Equal(t, "https://example.test/files/WebReport-250307_mk.pdf", urls[2])
}

func hourCells(value string) []string {
	cells := make([]string, 24)
	for i := range cells {
		cells[i] = value
	}
	return cells
}

func TestDemandFromRows(t *testing.T) {
	dataRow := append([]string{"Вкупен конзум"}, hourCells("635,2")...)

	t.Run("label match", func(t *testing.T) {
		rows := [][]string{
			{"час", "1", "2"},
			dataRow,
			{"нешто друго", "1,0"},
		}
		series, ok := demandFromRows(rows)
		require.True(t, ok)
		assert.Equal(t, 24, series.Count())
		assert.Equal(t, 635.2, *series[0])
	})

	t.Run("third from bottom fallback", func(t *testing.T) {
		mangled := append([]string{""}, hourCells("635,2")...)
		rows := [][]string{
			{"header"},
			{"header two"},
			mangled,
			{"производство", "100,0"},
			{"салдо", "50,0"},
		}
		series, ok := demandFromRows(rows)
		require.True(t, ok)
		assert.Equal(t, 24, series.Count())
	})

	t.Run("daily sum column stripped", func(t *testing.T) {
		withSum := append([]string{"Total consumption", "15.244,8"}, hourCells("635,2")...)
		series, ok := demandFromRows([][]string{withSum})
		require.True(t, ok)
		assert.Equal(t, 24, series.Count())
		assert.Equal(t, 635.2, *series[0])
	})

	t.Run("no numeric cells fails", func(t *testing.T) {
		_, ok := demandFromRows([][]string{{"Вкупен конзум", "", "-", ""}})
		assert.False(t, ok)
	})
}

func TestDemandFromLines(t *testing.T) {
	t.Run("tokenizes marker line", func(t *testing.T) {
		line := "Вкупен конзум"
		for i := 0; i < 24; i++ {
			line += " 612,4"
		}
		series, ok := demandFromLines([]string{"Датум 07.03.2025", line})
		require.True(t, ok)
		assert.Equal(t, 24, series.Count())
		assert.Equal(t, 612.4, *series[5])
	})

	t.Run("integers are not hour tokens", func(t *testing.T) {
		// hour indices 1..24 carry no decimal separator and must not be
		// mistaken for values
		_, ok := demandFromLines([]string{"total consumption 1 2 3 4"})
		assert.False(t, ok)
	})

	t.Run("no marker line", func(t *testing.T) {
		_, ok := demandFromLines([]string{"производство 612,4 613,0"})
		assert.False(t, ok)
	})
}

func TestGenerationFromRows(t *testing.T) {
	hydro := append([]string{"Вкупно ХЕЦ"}, hourCells("135,2")...)
	thermal := append([]string{"Вкупно ТЕЦ"}, hourCells("135,2")...)
	rows := [][]string{
		{"час", "1"},
		hydro,
		thermal,
		{"Вкупен конзум", "635,2"},
	}

	found := generationFromRows(rows)
	require.Len(t, found, 2)
	assert.Contains(t, found, domain.SeriesHydro)
	assert.Contains(t, found, domain.SeriesThermal)
	assert.NotContains(t, found, domain.SeriesSolar, "absent technologies stay absent")
	assert.Equal(t, 24, found[domain.SeriesHydro].Count())
}

func TestGenerationFromLines(t *testing.T) {
	line := "вкупно фец"
	for i := 0; i < 24; i++ {
		line += " 12,5"
	}
	found := generationFromLines([]string{"вкупно хец", line})
	require.Len(t, found, 1, "a marker line without tokens is skipped")
	assert.Equal(t, 24, found[domain.SeriesSolar].Count())
}

func TestClusterCells(t *testing.T) {
	texts := pdf.TextHorizontal{
		{X: 10, W: 8, S: "Вкупен"},
		{X: 19, W: 8, S: " конзум"},
		{X: 60, W: 10, S: "635,2"},
		{X: 90, W: 10, S: "640,8"},
	}
	cells := clusterCells(texts)
	require.Equal(t, []string{"Вкупен конзум", "635,2", "640,8"}, cells)

	assert.Nil(t, clusterCells(nil))
}

func testDeps(t *testing.T, start, end time.Time) (sources.Deps, string) {
	t.Helper()
	dir := t.TempDir()
	return sources.Deps{
		Start:   start,
		End:     end,
		Workers: 2,
		Client:  fetch.NewClient(2*time.Second, 0),
		Store:   files.NewStore(dir),
		CSV:     exporter.NewCSVWriter(dir),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: observability.NewMetricsForTesting(),
	}, dir
}

func TestDemandRunnerAllCandidatesMiss(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	start := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)
	deps, dir := testDeps(t, start, end)

	runner := &DemandRunner{baseURL: srv.URL}
	summary, err := runner.Run(context.Background(), deps)
	require.NoError(t, err)

	assert.Equal(t, 48, summary.Rows, "the grid stays dense even with zero data")
	assert.Equal(t, 0, summary.Hours[domain.SeriesDemand])
	assert.Len(t, summary.MissingDays, 2)
	assert.Equal(t, start, summary.MissingDays[0])

	data, err := os.ReadFile(filepath.Join(dir, "mepso_data.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "date,hour,demand\n2025-03-07,1,\n")

	assert.Equal(t, 0, summary.Stashed)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), "_unparsed.",
			"a 404 leaves no payload to stash")
	}
}

func TestDemandRunnerStashesUnparsedPayload(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("not a pdf at all"))
	}))
	defer srv.Close()

	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	deps, dir := testDeps(t, day, day)
	deps.Workers = 1

	runner := &DemandRunner{baseURL: srv.URL}
	summary, err := runner.Run(context.Background(), deps)
	require.NoError(t, err)

	assert.Equal(t, 3, hits, "every URL variant is probed when nothing parses")
	assert.Len(t, summary.MissingDays, 1)
	assert.Equal(t, 1, summary.Stashed)

	stash := filepath.Join(dir, "mepso_2025-03-07_unparsed.bin")
	raw, err := os.ReadFile(stash)
	require.NoError(t, err, "undecodable payload is stashed for manual triage")
	assert.Equal(t, "not a pdf at all", string(raw),
		"later variants must not overwrite the first stashed payload")
}

func TestDemandRunnerSkipsExistingOutput(t *testing.T) {
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	deps, dir := testDeps(t, day, day)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mepso_data.csv"), []byte("date,hour,demand\n"), 0o644))

	runner := NewDemandRunner()
	summary, err := runner.Run(context.Background(), deps)
	require.NoError(t, err)
	assert.True(t, summary.Skipped)

	deps.Overwrite = true
	runner = &DemandRunner{baseURL: "http://127.0.0.1:0"}
	summary, err = runner.Run(context.Background(), deps)
	require.NoError(t, err)
	assert.False(t, summary.Skipped)
}
