// Package exporter writes the assembled grids as CSV files in the
// configured output directory.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter provides CSV export into a fixed output directory.
type CSVWriter struct {
	outputDir string
}

// NewCSVWriter creates a CSV writer rooted at outputDir.
func NewCSVWriter(outputDir string) *CSVWriter {
	return &CSVWriter{outputDir: outputDir}
}

// Path returns the absolute path a filename resolves to.
func (w *CSVWriter) Path(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(w.outputDir, filename)
}

// Exists reports whether the output file is already present.
func (w *CSVWriter) Exists(filename string) bool {
	_, err := os.Stat(w.Path(filename))
	return err == nil
}

// WriteGrid writes a header row plus records, replacing any existing file.
// Empty cells are written as empty strings so unobserved hours stay blank.
func (w *CSVWriter) WriteGrid(filename string, header []string, records [][]string) error {
	fullPath := w.Path(filename)

	slog.Debug("writing CSV file",
		slog.String("path", fullPath),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", fullPath, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	return writer.Error()
}
