package ledger

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindow(t *testing.T) {
	// Thursday 14 March 2024.
	today := Date(2024, time.March, 14)

	tests := []struct {
		name      string
		period    Period
		offset    int
		wantStart Day
		wantEnd   Day
	}{
		{"current week", PeriodWeek, 0, Date(2024, time.March, 11), Date(2024, time.March, 17)},
		{"previous week", PeriodWeek, -1, Date(2024, time.March, 4), Date(2024, time.March, 10)},
		{"future clamped", PeriodWeek, 3, Date(2024, time.March, 11), Date(2024, time.March, 17)},
		{"current month", PeriodMonth, 0, Date(2024, time.March, 1), Date(2024, time.March, 31)},
		{"leap february", PeriodMonth, -1, Date(2024, time.February, 1), Date(2024, time.February, 29)},
		{"month across year", PeriodMonth, -3, Date(2023, time.December, 1), Date(2023, time.December, 31)},
		{"current year", PeriodYear, 0, Date(2024, time.January, 1), Date(2024, time.December, 31)},
		{"previous year", PeriodYear, -1, Date(2023, time.January, 1), Date(2023, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := Window(tt.period, tt.offset, today)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestWindowWeekStartsMonday(t *testing.T) {
	// Sunday belongs to the week that started the Monday before.
	sunday := Date(2024, time.March, 17)
	start, end := Window(PeriodWeek, 0, sunday)
	assert.Equal(t, time.Monday, start.Weekday())
	assert.Equal(t, Date(2024, time.March, 11), start)
	assert.Equal(t, sunday, end)
}

func TestFilterByPeriodIsDense(t *testing.T) {
	today := Date(2024, time.March, 14)
	history := map[Day]int{
		Date(2024, time.March, 12): 30,
		Date(2024, time.March, 14): 12,
		Date(2023, time.June, 1):   50,
	}

	for offset := 0; offset >= -30; offset-- {
		for _, p := range []Period{PeriodWeek, PeriodMonth, PeriodYear} {
			days := FilterByPeriod(history, p, offset, today)
			start, end := Window(p, offset, today)
			require.Equal(t, WindowLength(start, end), len(days), "%s offset %d", p, offset)
			require.Equal(t, start, days[0].Date)
			require.Equal(t, end, days[len(days)-1].Date)
			for i := 1; i < len(days); i++ {
				require.Equal(t, days[i-1].Date.AddDays(1), days[i].Date, "gap in %s offset %d", p, offset)
			}

			switch p {
			case PeriodWeek:
				assert.Len(t, days, 7)
			case PeriodMonth:
				assert.GreaterOrEqual(t, len(days), 28)
				assert.LessOrEqual(t, len(days), 31)
			case PeriodYear:
				assert.Contains(t, []int{365, 366}, len(days))
			}
		}
	}
}

func TestFilterByPeriodValues(t *testing.T) {
	today := Date(2024, time.March, 14)
	history := map[Day]int{
		Date(2024, time.March, 12): 30,
		Date(2024, time.March, 14): 12,
	}

	got := FilterByPeriod(history, PeriodWeek, 0, today)
	want := []DayRecord{
		{Date(2024, time.March, 11), 0},
		{Date(2024, time.March, 12), 30},
		{Date(2024, time.March, 13), 0},
		{Date(2024, time.March, 14), 12},
		{Date(2024, time.March, 15), 0},
		{Date(2024, time.March, 16), 0},
		{Date(2024, time.March, 17), 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterByPeriod mismatch (-want +got):\n%s", diff)
	}
}

func TestFilterByPeriodAllIsUnfilled(t *testing.T) {
	history := map[Day]int{
		Date(2024, time.January, 1): 5,
		Date(2024, time.January, 9): 3,
	}
	got := FilterByPeriod(history, PeriodAll, -4, Date(2024, time.March, 14))
	want := []DayRecord{
		{Date(2024, time.January, 1), 5},
		{Date(2024, time.January, 9), 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FilterByPeriod(all) mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	days := []DayRecord{
		{Date(2024, time.March, 11), 0},
		{Date(2024, time.March, 12), 30},
		{Date(2024, time.March, 13), 0},
		{Date(2024, time.March, 14), 12},
	}
	got := Summarize(days)
	assert.Equal(t, Stats{Total: 42, Average: 10.5, ActiveDays: 2, Days: 4, Max: 30}, got)
	assert.Equal(t, Stats{}, Summarize(nil))
}

func TestDescribe(t *testing.T) {
	today := Date(2024, time.March, 14)
	tests := []struct {
		period Period
		offset int
		want   string
	}{
		{PeriodWeek, 0, "Current week"},
		{PeriodWeek, -1, "Previous week"},
		{PeriodWeek, -2, "Week of 26/02/2024"},
		{PeriodMonth, 0, "March 2024"},
		{PeriodMonth, -3, "December 2023"},
		{PeriodYear, -1, "Year 2023"},
		{PeriodAll, 0, "All time"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Describe(tt.period, tt.offset, today))
	}
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod(" Month ")
	require.NoError(t, err)
	assert.Equal(t, PeriodMonth, p)

	_, err = ParsePeriod("fortnight")
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestDayText(t *testing.T) {
	d := Date(2024, time.February, 29)
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", string(b))

	var back Day
	require.NoError(t, back.UnmarshalText(b))
	assert.Equal(t, d, back)
	assert.Equal(t, "29/02/2024", d.Display())

	assert.Error(t, back.UnmarshalText([]byte("29/02/2024")))
}
