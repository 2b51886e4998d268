package reports

import (
	"errors"
	"time"

	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// Generator creates reports from storage data.
type Generator struct {
	store *storage.Storage
}

// NewGenerator creates a new report generator.
func NewGenerator(store *storage.Storage) *Generator {
	return &Generator{store: store}
}

// GeneratePeriod builds the report for the window offset periods back from
// the current one. Positive offsets are treated as zero.
func (g *Generator) GeneratePeriod(p ledger.Period, offset int) (*PeriodReport, error) {
	l, err := g.store.Load()
	var rec *storage.RecoveryError
	if err != nil && !errors.As(err, &rec) {
		return nil, err
	}
	return Build(l, p, offset, g.store.Now()), nil
}

// Build assembles a report from an already loaded ledger.
func Build(l *ledger.Ledger, p ledger.Period, offset int, now time.Time) *PeriodReport {
	today := ledger.DayOf(now)
	offset = ledger.ClampOffset(offset)
	if !p.Bounded() {
		offset = 0
	}

	days := ledger.FilterByPeriod(l.Snapshot(), p, offset, today)
	r := &PeriodReport{
		Period: p.String(),
		Offset: offset,
		Label:  ledger.Describe(p, offset, today),
		Stats:  ledger.Summarize(days),
		Days:   days,
		Today: TodaySummary{
			Date:         l.CurrentDate,
			Arrows:       l.CurrentSum,
			LastSum:      l.LastSum,
			ScoringMode:  l.ScoringMode,
			AverageScore: l.AverageScore(),
			ScoredArrows: l.ScoreCount,
		},
		GeneratedAt: now,
	}
	if p.Bounded() {
		start, end := ledger.Window(p, offset, today)
		r.Start, r.End = &start, &end
	}

	if st, ok := l.Status(today); ok {
		r.Objective = &ObjectiveReport{
			Period:   st.Objective.Period.String(),
			Target:   st.Objective.Target,
			Start:    st.Objective.Start,
			End:      st.Objective.End,
			Progress: st.Progress,
			Percent:  st.Percent,
			Reached:  st.Reached,
			Pace:     st.Pace,
			Message:  st.Message,
		}
	}
	return r
}
