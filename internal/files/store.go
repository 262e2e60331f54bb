// Package files manages the harvester's output directory: creating it,
// stashing raw unparseable payloads for manual triage, and listing what has
// been stashed so far.
package files

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store provides file operations rooted at the output directory.
type Store struct {
	outputDir string
}

// NewStore creates a store for outputDir.
func NewStore(outputDir string) *Store {
	return &Store{outputDir: outputDir}
}

// EnsureOutputDir creates the output directory if needed.
func (s *Store) EnsureOutputDir() error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", s.outputDir, err)
	}
	return nil
}

// SaveUnparsed persists a raw payload that no extraction strategy could
// read, under "<source>_<date>_unparsed.<ext>". An existing file of the
// same name is never overwritten, so the first captured payload for a day
// wins. Returns the path and whether a new file was written.
func (s *Store) SaveUnparsed(source string, day time.Time, ext string, raw []byte) (string, bool, error) {
	name := fmt.Sprintf("%s_%s_unparsed.%s", source, day.Format("2006-01-02"), ext)
	path := filepath.Join(s.outputDir, name)

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return path, false, fmt.Errorf("save unparsed payload %s: %w", name, err)
	}
	slog.Warn("stashed unparsed payload for manual triage",
		slog.String("source", source),
		slog.String("file", name),
		slog.Int("size_bytes", len(raw)))
	return path, true, nil
}

// ListUnparsed returns the names of stashed payloads for one source,
// sorted by name (and therefore by date).
func (s *Store) ListUnparsed(source string) ([]string, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("read output directory: %w", err)
	}
	var names []string
	prefix := source + "_"
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) && strings.Contains(e.Name(), "_unparsed.") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// SniffExtension guesses a stash file extension from payload magic bytes:
// "%PDF" → pdf, zip ("PK") → xlsx, anything else → bin.
func SniffExtension(raw []byte) string {
	switch {
	case bytes.HasPrefix(raw, []byte("%PDF")):
		return "pdf"
	case bytes.HasPrefix(raw, []byte("PK")):
		return "xlsx"
	default:
		return "bin"
	}
}
