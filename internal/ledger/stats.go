package ledger

// Stats aggregates a run of days.
type Stats struct {
	Total      int     `json:"total"`
	Average    float64 `json:"average"`
	ActiveDays int     `json:"active_days"`
	Days       int     `json:"days"`
	Max        int     `json:"max"`
}

// FilterByPeriod returns the days of the selected window in order. Bounded
// periods yield one record per calendar day, zero-filled where history has
// no entry. PeriodAll returns the history as recorded, without filling.
func FilterByPeriod(history map[Day]int, p Period, offset int, today Day) []DayRecord {
	if !p.Bounded() {
		return sortedRecords(history)
	}
	start, end := Window(p, offset, today)
	out := make([]DayRecord, 0, WindowLength(start, end))
	for d := start; !d.After(end); d = d.AddDays(1) {
		out = append(out, DayRecord{Date: d, Arrows: history[d]})
	}
	return out
}

// Summarize computes window stats. The average divides by the number of
// days passed in, zero days included.
func Summarize(days []DayRecord) Stats {
	s := Stats{Days: len(days)}
	for _, r := range days {
		s.Total += r.Arrows
		if r.Arrows > 0 {
			s.ActiveDays++
		}
		if r.Arrows > s.Max {
			s.Max = r.Arrows
		}
	}
	if s.Days > 0 {
		s.Average = float64(s.Total) / float64(s.Days)
	}
	return s
}
