package ledger

import (
	"fmt"
	"time"
)

// DayLayout is the storage format for calendar days.
const DayLayout = "2006-01-02"

// DisplayLayout is the format used in CSV files and on screen.
const DisplayLayout = "02/01/2006"

// Day is a calendar date with no time or zone attached.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t in t's location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// Date builds a Day, normalizing overflow the way time.Date does.
func Date(year int, month time.Month, day int) Day {
	return DayOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return Day{}, fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight UTC of the day. UTC keeps day arithmetic free of
// DST gaps.
func (d Day) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Day) String() string {
	return d.Time().Format(DayLayout)
}

// Display formats the day as dd/mm/yyyy.
func (d Day) Display() string {
	return d.Time().Format(DisplayLayout)
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d Day) Before(o Day) bool {
	return d.Time().Before(o.Time())
}

func (d Day) After(o Day) bool {
	return d.Time().After(o.Time())
}

// Compare returns -1, 0 or +1.
func (d Day) Compare(o Day) int {
	return d.Time().Compare(o.Time())
}

// DaysBetween returns the number of whole days from a to b (negative when b
// is before a).
func DaysBetween(a, b Day) int {
	return int(b.Time().Sub(a.Time()).Hours() / 24)
}

func (d Day) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
