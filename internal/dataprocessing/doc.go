// Package dataprocessing implements the document-to-value extraction layer
// shared by all harvester sources.
//
// # Architecture
//
// The package is organized into four components:
//
//  1. Number normalizer: converts locale-ambiguous numeric tokens
//     ("1.234,56" vs "1,234.56") into float64 values
//  2. Label matcher: locates the row for a semantic series inside a parsed
//     table, tolerant to bilingual spelling and Unicode form differences
//  3. Hourly reducer: collapses a matched row's cells into exactly 24
//     ordered hourly slots, stripping daily-sum columns and publisher padding
//  4. Grid assembler: merges sparse per-day results into the dense
//     date x hour output table
//
// # Data Flow
//
//	Document rows → RowMatcher → ReduceHourly → HourlySeries → Grid → CSV
//
// # Error Handling
//
// Extraction failures are row- or document-scoped and recoverable: callers
// fall back to the next strategy (table → regex) or to the next candidate
// document. Only malformed configuration aborts a run, and that is handled
// upstream of this package.
package dataprocessing
