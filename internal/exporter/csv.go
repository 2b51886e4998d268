package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"quiver/internal/fsutil"
	"quiver/internal/ledger"
)

const exportFilePerm = 0644

// CSVExporter writes `Date,<label>` files with dd/mm/yyyy dates.
type CSVExporter struct {
	opts Options
}

func (c *CSVExporter) Name() string      { return "csv" }
func (c *CSVExporter) Extension() string { return "csv" }

// Export writes the CSV to path through a temp file.
func (c *CSVExporter) Export(_ context.Context, l *ledger.Ledger, path string) error {
	err := fsutil.WriteAtomic(path, exportFilePerm, func(w io.Writer) error {
		return c.Write(w, l)
	})
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return nil
}

// Write streams every recorded day, today included, oldest first.
func (c *CSVExporter) Write(w io.Writer, l *ledger.Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", c.opts.countLabel()}); err != nil {
		return err
	}
	for _, r := range l.Records() {
		if err := cw.Write([]string{r.Date.Display(), strconv.Itoa(r.Arrows)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
