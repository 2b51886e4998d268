// Package exporter writes the ledger out as CSV for spreadsheets and
// re-import, or as a SQLite archive for ad-hoc queries.
package exporter

import (
	"context"
	"fmt"
	"time"

	"quiver/internal/ledger"
)

// DefaultCountLabel is the header of the count column.
const DefaultCountLabel = "Arrows"

// Options configures an exporter.
type Options struct {
	CountLabel string // CSV count column header
}

func (o Options) countLabel() string {
	if o.CountLabel == "" {
		return DefaultCountLabel
	}
	return o.CountLabel
}

// Exporter writes a ledger to a file.
type Exporter interface {
	// Export writes l to path. A failed export leaves no partial file.
	Export(ctx context.Context, l *ledger.Ledger, path string) error

	// Extension is the file extension, without the dot.
	Extension() string

	// Name returns the exporter name (e.g., "csv").
	Name() string
}

// GetExporter returns the exporter for format, or nil if unknown.
func GetExporter(format string, opts Options) Exporter {
	switch format {
	case "csv", "":
		return &CSVExporter{opts: opts}
	case "sqlite":
		return &SQLiteExporter{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported export formats.
func SupportedFormats() []string {
	return []string{"csv", "sqlite"}
}

// DefaultFileName names an export after the time it was made, e.g.
// arrows_20240314_183000.csv.
func DefaultFileName(e Exporter, now time.Time) string {
	return fmt.Sprintf("arrows_%s.%s", now.Format("20060102_150405"), e.Extension())
}
