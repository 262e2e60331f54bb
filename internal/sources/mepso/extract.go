package mepso

import (
	"log/slog"
	"regexp"

	"github.com/EmiFej/WB-OEMC/internal/dataprocessing"
	"github.com/EmiFej/WB-OEMC/internal/observability"
	"github.com/EmiFej/WB-OEMC/pkg/contracts/domain"
)

// tokenRe matches decimal number tokens inside a flattened text line:
// an optional thousands part grouped by period, comma, NBSP, NNBSP or
// plain space, then a mandatory decimal separator. Plain integers are
// not matched, which keeps hour indices and dates out of the fallback.
var tokenRe = regexp.MustCompile(`\d{1,3}(?:[.,\x{00A0}\x{202F} ]\d{3})*[.,]\d+`)

// extractDemand pulls the total-consumption series from a report, trying
// the table view first and the text fallback second. A nil result means
// both strategies failed.
func extractDemand(doc *document, logger *slog.Logger, metrics *observability.Metrics, source string) domain.ExtractionResult {
	if rows, err := doc.tableRows(); err == nil {
		if series, ok := demandFromRows(rows); ok {
			return domain.ExtractionResult{domain.SeriesDemand: series}
		}
	} else {
		logger.Debug("pdf table extraction failed", slog.String("error", err.Error()))
	}
	metrics.ParseFailures.WithLabelValues(source, "table").Inc()

	if series, ok := demandFromLines(doc.textLines()); ok {
		return domain.ExtractionResult{domain.SeriesDemand: series}
	}
	metrics.ParseFailures.WithLabelValues(source, "text").Inc()
	return nil
}

// demandFromRows locates the consumption row by label, falling back to the
// table's third row from the bottom when PDF extraction mangled the label
// column, then reduces the data cells to 24 hourly slots.
func demandFromRows(rows [][]string) (domain.HourlySeries, bool) {
	row, ok := dataprocessing.FirstMatch(rows,
		dataprocessing.LabelMatcher{Markers: dataprocessing.DemandMarkers},
		dataprocessing.PositionalMatcher{FromEnd: 3},
	)
	if !ok {
		return domain.HourlySeries{}, false
	}
	series, err := dataprocessing.ReduceHourly(row[1:], dataprocessing.DemandSumThreshold)
	if err != nil {
		return domain.HourlySeries{}, false
	}
	return series, true
}

// demandFromLines scans flattened text lines for the consumption label and
// tokenizes the numbers on the first line that carries any.
func demandFromLines(lines []string) (domain.HourlySeries, bool) {
	for _, line := range lines {
		if !dataprocessing.MatchesMarker(line, dataprocessing.DemandMarkers) {
			continue
		}
		tokens := tokenRe.FindAllString(line, -1)
		if len(tokens) == 0 {
			continue
		}
		series, err := dataprocessing.ReduceHourly(tokens, dataprocessing.DemandSumThreshold)
		if err != nil {
			continue
		}
		return series, true
	}
	return domain.HourlySeries{}, false
}

// extractGeneration pulls every technology-group series it can find from a
// report. Technologies absent from the document are simply absent from the
// result; a nil or empty result means no group was found at all.
func extractGeneration(doc *document, logger *slog.Logger, metrics *observability.Metrics, source string) domain.ExtractionResult {
	if rows, err := doc.tableRows(); err == nil {
		if found := generationFromRows(rows); len(found) > 0 {
			return found
		}
	} else {
		logger.Debug("pdf table extraction failed", slog.String("error", err.Error()))
	}
	metrics.ParseFailures.WithLabelValues(source, "table").Inc()

	if found := generationFromLines(doc.textLines()); len(found) > 0 {
		return found
	}
	metrics.ParseFailures.WithLabelValues(source, "text").Inc()
	return nil
}

func generationFromRows(rows [][]string) domain.ExtractionResult {
	found := make(domain.ExtractionResult)
	for _, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		series, ok := dataprocessing.MatchGeneration(row[0])
		if !ok {
			continue
		}
		vals, err := dataprocessing.ReduceHourly(row[1:], dataprocessing.TechnologySumThreshold)
		if err != nil {
			continue
		}
		found[series] = vals
	}
	if len(found) == 0 {
		return nil
	}
	return found
}

func generationFromLines(lines []string) domain.ExtractionResult {
	found := make(domain.ExtractionResult)
	for _, line := range lines {
		series, ok := dataprocessing.MatchGeneration(line)
		if !ok {
			continue
		}
		tokens := tokenRe.FindAllString(line, -1)
		if len(tokens) == 0 {
			continue
		}
		vals, err := dataprocessing.ReduceHourly(tokens, dataprocessing.TechnologySumThreshold)
		if err != nil {
			continue
		}
		found[series] = vals
	}
	if len(found) == 0 {
		return nil
	}
	return found
}
