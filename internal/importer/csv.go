package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// dateLayouts are tried in order; the first that parses wins. Day-first
// comes before month-first, so an ambiguous 03/01/2024 is 3 January.
var dateLayouts = []string{
	"2/1/2006",   // dd/mm/yyyy
	"1/2/2006",   // mm/dd/yyyy
	"2006-01-02", // yyyy-mm-dd
}

// CSVImporter reads `date,count` files such as those written by
// `quiver export`.
type CSVImporter struct{}

// Name returns the importer name.
func (c *CSVImporter) Name() string {
	return "csv"
}

// Import parses reader and merges the result into storage.
func (c *CSVImporter) Import(reader io.Reader, store *storage.Storage) (*ImportResult, error) {
	b, err := c.Preview(reader)
	if err != nil {
		return nil, err
	}
	return Apply(b, store)
}

// Preview parses reader into a batch with gap days filled.
func (c *CSVImporter) Preview(reader io.Reader) (*Batch, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	b := &Batch{Entries: make(map[ledger.Day]int)}
	row := 0
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				b.skip(perr.Line, "%v", perr.Err)
				continue
			}
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		line, _ := r.FieldPos(0)
		if row == 1 && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], "\ufeff") // UTF-8 BOM
		}
		if isBlank(record) {
			continue
		}

		if len(record) < 2 {
			if row == 1 {
				continue
			}
			b.skip(line, "expected date and count")
			continue
		}

		day, dateErr := parseDate(record[0])
		if dateErr != nil && row == 1 {
			// Header row.
			continue
		}
		if dateErr != nil {
			b.skip(line, "unrecognized date %q", strings.TrimSpace(record[0]))
			continue
		}

		count, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			b.skip(line, "invalid count %q", strings.TrimSpace(record[1]))
			continue
		}
		if count < 0 {
			b.skip(line, "negative count %d", count)
			continue
		}

		b.Entries[day] = count
		b.Rows++
		if b.First.IsZero() || day.Before(b.First) {
			b.First = day
		}
		if b.Last.IsZero() || day.After(b.Last) {
			b.Last = day
		}
	}

	b.fillGaps()
	return b, nil
}

// fillGaps adds a zero entry for every missing day between First and Last.
func (b *Batch) fillGaps() {
	if b.Empty() {
		return
	}
	for d := b.First; !d.After(b.Last); d = d.AddDays(1) {
		if _, ok := b.Entries[d]; !ok {
			b.Entries[d] = 0
			b.GapFilled++
		}
	}
}

func (b *Batch) skip(line int, format string, args ...any) {
	b.Skipped++
	b.Errors = append(b.Errors, fmt.Sprintf("line %d: %s", line, fmt.Sprintf(format, args...)))
}

func parseDate(s string) (ledger.Day, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return ledger.DayOf(t), nil
		}
	}
	return ledger.Day{}, fmt.Errorf("unrecognized date %q", s)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
