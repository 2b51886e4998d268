package ledger

import (
	"fmt"
	"strings"
	"time"
)

// Period selects a calendar window for stats and objectives.
type Period int

const (
	PeriodWeek Period = iota
	PeriodMonth
	PeriodYear
	PeriodAll
)

var periodNames = map[Period]string{
	PeriodWeek:  "week",
	PeriodMonth: "month",
	PeriodYear:  "year",
	PeriodAll:   "all",
}

func (p Period) String() string {
	if s, ok := periodNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Period(%d)", int(p))
}

// ParsePeriod accepts week, month, year or all (case-insensitive).
func ParsePeriod(s string) (Period, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for p, name := range periodNames {
		if s == name {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want week, month, year or all)", ErrInvalidPeriod, s)
}

func (p Period) MarshalText() ([]byte, error) {
	if _, ok := periodNames[p]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPeriod, int(p))
	}
	return []byte(p.String()), nil
}

func (p *Period) UnmarshalText(b []byte) error {
	parsed, err := ParsePeriod(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Bounded reports whether the period has a calendar window.
func (p Period) Bounded() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodYear
}

// ClampOffset keeps navigation in the past: offsets above zero become zero.
func ClampOffset(offset int) int {
	if offset > 0 {
		return 0
	}
	return offset
}

// Window returns the first and last day of the period that is offset
// periods away from the one containing today. Weeks run Monday to Sunday.
// PeriodAll has no window and returns zero days.
func Window(p Period, offset int, today Day) (start, end Day) {
	offset = ClampOffset(offset)
	switch p {
	case PeriodWeek:
		start = startOfWeek(today).AddDays(7 * offset)
		end = start.AddDays(6)
	case PeriodMonth:
		start = Date(today.Year, today.Month+time.Month(offset), 1)
		end = Date(start.Year, start.Month+1, 0)
	case PeriodYear:
		start = Date(today.Year+offset, time.January, 1)
		end = Date(start.Year, time.December, 31)
	}
	return start, end
}

// WindowLength is the number of days in the window, both ends included.
func WindowLength(start, end Day) int {
	if end.Before(start) {
		return 0
	}
	return DaysBetween(start, end) + 1
}

func startOfWeek(d Day) Day {
	// time.Weekday has Sunday == 0; shift so Monday starts the week.
	back := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-back)
}

// Describe labels a stats window the way the stats view titles it.
func Describe(p Period, offset int, today Day) string {
	offset = ClampOffset(offset)
	start, _ := Window(p, offset, today)
	switch p {
	case PeriodWeek:
		switch offset {
		case 0:
			return "Current week"
		case -1:
			return "Previous week"
		default:
			return "Week of " + start.Display()
		}
	case PeriodMonth:
		return fmt.Sprintf("%s %d", start.Month, start.Year)
	case PeriodYear:
		return fmt.Sprintf("Year %d", start.Year)
	default:
		return "All time"
	}
}
