// Package importer reads practice history from files produced by the
// exporter or by hand, and merges it into the ledger.
package importer

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Imported    int      // Days written to the ledger, gap days included
	GapFilled   int      // Days added as zero between the first and last imported day
	Overwritten int      // Existing days that were replaced
	Skipped     int      // Rows that could not be parsed
	Errors      []string // One message per skipped row
}

// Batch is a parsed import that has not been applied yet.
type Batch struct {
	Entries   map[ledger.Day]int
	Rows      int // Data rows that parsed
	GapFilled int
	Skipped   int
	Errors    []string
	First     ledger.Day
	Last      ledger.Day
}

// Days returns the batch in date order.
func (b *Batch) Days() []ledger.DayRecord {
	out := make([]ledger.DayRecord, 0, len(b.Entries))
	for d, n := range b.Entries {
		out = append(out, ledger.DayRecord{Date: d, Arrows: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Empty reports whether nothing usable was found.
func (b *Batch) Empty() bool {
	return len(b.Entries) == 0
}

// LongSpan is the number of days past which a batch is flagged: a single
// mistyped year fills every day in between with zeros.
const LongSpan = 366

// Span is the number of days from First to Last, both included.
func (b *Batch) Span() int {
	if b.Empty() {
		return 0
	}
	return ledger.DaysBetween(b.First, b.Last) + 1
}

// Warning describes a batch that looks wrong, or is empty when none.
func (b *Batch) Warning() string {
	if b.Span() <= LongSpan {
		return ""
	}
	return fmt.Sprintf("dates span %d days (%s to %s); check for a mistyped year",
		b.Span(), b.First.Display(), b.Last.Display())
}

// Overwrites counts the ledger days the batch would replace. Gap days count
// too: they are written as zero.
func (b *Batch) Overwrites(l *ledger.Ledger) int {
	return l.Overlap(b.Entries)
}

// Importer defines the interface for import implementations.
type Importer interface {
	// Preview parses the reader without touching the ledger.
	Preview(reader io.Reader) (*Batch, error)

	// Import parses the reader and merges the result into storage.
	Import(reader io.Reader, store *storage.Storage) (*ImportResult, error)

	// Name returns the importer name (e.g., "csv").
	Name() string
}

// GetImporter returns the importer for format, or nil if unknown.
func GetImporter(format string) Importer {
	switch format {
	case "csv", "":
		return &CSVImporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"csv"}
}

// Apply merges a previewed batch into storage.
func Apply(b *Batch, store *storage.Storage) (*ImportResult, error) {
	result := &ImportResult{
		GapFilled: b.GapFilled,
		Skipped:   b.Skipped,
		Errors:    b.Errors,
	}
	if b.Empty() {
		return result, nil
	}

	current, err := store.Load()
	var rec *storage.RecoveryError
	if err != nil && !errors.As(err, &rec) {
		return nil, err
	}
	result.Overwritten = b.Overwrites(current)

	if _, err := store.Merge(b.Entries); err != nil {
		return nil, err
	}
	result.Imported = len(b.Entries)
	return result, nil
}
