package ost

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/EmiFej/WB-OEMC/internal/exporter"
	"github.com/EmiFej/WB-OEMC/internal/fetch"
	"github.com/EmiFej/WB-OEMC/internal/files"
	"github.com/EmiFej/WB-OEMC/internal/observability"
	"github.com/EmiFej/WB-OEMC/internal/sources"
	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

func TestCandidateURLs(t *testing.T) {
	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	urls := CandidateURLs("https://example.test/uploads", day)

	require.Len(t, urls, 16)
	assert.Equal(t, "https://example.test/uploads/2025/03/Publikimi-te-dhenave-07.03.2025.xlsx", urls[0])
	assert.Equal(t, "https://example.test/uploads/2025/04/Publikimi-te-dhenave-07.03.2025.xlsx", urls[1])
	assert.Equal(t, "https://example.test/uploads/2025/03/Publikimi-te-dhenave-07.03.2025-1.xlsx", urls[2])
	assert.Equal(t, "https://example.test/uploads/2025/03/Publikimi-te-dhenave-07.03.2025-003.xlsx", urls[14])
}

func TestCandidateURLsYearRollover(t *testing.T) {
	day := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)
	urls := CandidateURLs("https://example.test/uploads", day)
	assert.Equal(t, "https://example.test/uploads/2026/01/Publikimi-te-dhenave-15.12.2025.xlsx", urls[1])
}

// buildWorkbook assembles an in-memory report workbook with the claimed
// reporting date in C158 and hourly demand in F160:F183. A nil hour leaves
// its cell blank.
func buildWorkbook(t *testing.T, claimed interface{}, hours []*float64) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Publikime AL"))
	require.NoError(t, f.SetCellValue("Publikime AL", "C158", claimed))
	for i, v := range hours {
		if v == nil {
			continue
		}
		require.NoError(t, f.SetCellValue("Publikime AL", fmt.Sprintf("F%d", 160+i), *v))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func fullDay(value float64) []*float64 {
	hours := make([]*float64, 24)
	for i := range hours {
		v := value + float64(i)
		hours[i] = &v
	}
	return hours
}

func TestWorkbookClaimedDate(t *testing.T) {
	t.Run("string date", func(t *testing.T) {
		wb, err := openWorkbook(buildWorkbook(t, "07.03.2025", nil))
		require.NoError(t, err)
		defer wb.Close()

		claimed, err := wb.claimedDate()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), claimed)
	})

	t.Run("excel serial", func(t *testing.T) {
		wb, err := openWorkbook(buildWorkbook(t, 45723, nil))
		require.NoError(t, err)
		defer wb.Close()

		claimed, err := wb.claimedDate()
		require.NoError(t, err)
		assert.Equal(t, time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC), claimed)
	})

	t.Run("empty cell", func(t *testing.T) {
		wb, err := openWorkbook(buildWorkbook(t, "", nil))
		require.NoError(t, err)
		defer wb.Close()

		_, err = wb.claimedDate()
		assert.Error(t, err)
	})
}

func TestWorkbookHourlyDemand(t *testing.T) {
	hours := fullDay(500)
	hours[11] = nil
	wb, err := openWorkbook(buildWorkbook(t, "07.03.2025", hours))
	require.NoError(t, err)
	defer wb.Close()

	series := wb.hourlyDemand()
	assert.Equal(t, 23, series.Count())
	assert.Nil(t, series[11], "a blank cell stays unobserved")
	assert.Equal(t, 500.0, *series[0])
	assert.Equal(t, 523.0, *series[23])
}

func TestOpenWorkbookWithoutDataSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = openWorkbook(buf.Bytes())
	assert.Error(t, err)
}

func testDeps(t *testing.T, start, end time.Time) sources.Deps {
	t.Helper()
	dir := t.TempDir()
	return sources.Deps{
		Start:   start,
		End:     end,
		Workers: 4,
		Client:  fetch.NewClient(2*time.Second, 0),
		Store:   files.NewStore(dir),
		CSV:     exporter.NewCSVWriter(dir),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics: observability.NewMetricsForTesting(),
	}
}

func TestRunnerResolvesClaimedDates(t *testing.T) {
	full := buildWorkbook(t, "07.03.2025", fullDay(500))
	partial := buildWorkbook(t, "07.03.2025", fullDay(400)[:12])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/2025/03/Publikimi-te-dhenave-07.03.2025.xlsx":
			w.Write(full)
		// a mis-named re-upload for the 8th that actually covers the 7th
		case "/2025/03/Publikimi-te-dhenave-08.03.2025-001.xlsx":
			w.Write(partial)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	start := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	deps := testDeps(t, start, end)

	runner := &Runner{baseURL: srv.URL}
	summary, err := runner.Run(context.Background(), deps)
	require.NoError(t, err)

	assert.Equal(t, 48, summary.Rows)
	assert.Equal(t, 24, summary.Hours[domain.SeriesDemand],
		"the fuller of two workbooks claiming the same date wins")
	require.Len(t, summary.MissingDays, 1)
	assert.Equal(t, end, summary.MissingDays[0])
	assert.NotEmpty(t, summary.Note)
}

func TestRunnerIgnoresOutOfRangeClaims(t *testing.T) {
	stale := buildWorkbook(t, "01.02.2025", fullDay(500))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/2025/03/Publikimi-te-dhenave-07.03.2025.xlsx" {
			w.Write(stale)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	day := time.Date(2025, 3, 7, 0, 0, 0, 0, time.UTC)
	deps := testDeps(t, day, day)

	runner := &Runner{baseURL: srv.URL}
	summary, err := runner.Run(context.Background(), deps)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Hours[domain.SeriesDemand],
		"a workbook claiming a date outside the range contributes nothing")
	assert.Len(t, summary.MissingDays, 1)
}
