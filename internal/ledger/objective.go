package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Objective is a target arrow count over one calendar period.
type Objective struct {
	ID        string    `json:"id"`
	Active    bool      `json:"active"`
	Period    Period    `json:"period"`
	Target    int       `json:"target"`
	Start     Day       `json:"start"`
	End       Day       `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}

// NewObjective creates an active objective covering the current week, month
// or year.
func NewObjective(p Period, target int, now time.Time) (*Objective, error) {
	if !p.Bounded() {
		return nil, fmt.Errorf("%w: objectives need week, month or year", ErrInvalidPeriod)
	}
	if target <= 0 {
		return nil, ErrInvalidTarget
	}
	start, end := Window(p, 0, DayOf(now))
	return &Objective{
		ID:        uuid.NewString(),
		Active:    true,
		Period:    p,
		Target:    target,
		Start:     start,
		End:       end,
		CreatedAt: now,
	}, nil
}

// SetObjective replaces the current objective.
func (l *Ledger) SetObjective(o *Objective) {
	l.Objective = o
}

// StopObjective deactivates the objective. It reports false when none was
// active.
func (l *Ledger) StopObjective() bool {
	if l.Objective == nil || !l.Objective.Active {
		return false
	}
	l.Objective.Active = false
	return true
}

// ActiveObjective returns the active objective or nil.
func (l *Ledger) ActiveObjective() *Objective {
	if l.Objective == nil || !l.Objective.Active {
		return nil
	}
	return l.Objective
}

// Progress sums arrows from start through today. Days before today come
// from history; today always comes from the running total, so it is never
// counted twice.
func (l *Ledger) Progress(start, today Day) int {
	total := 0
	for d, n := range l.History {
		if d.Before(start) || !d.Before(today) {
			continue
		}
		total += n
	}
	if !today.Before(start) && today == l.CurrentDate {
		total += l.CurrentSum
	}
	return total
}

// Pace is the daily effort needed to finish an objective on time.
type Pace struct {
	DaysRemaining    int  `json:"days_remaining"`
	Ended            bool `json:"ended"`
	Needed           int  `json:"needed"`
	DailyTarget      int  `json:"daily_target"`
	StillNeededToday int  `json:"still_needed_today"`
}

// DailyPace spreads what is left of target over the remaining days, today
// included, rounding up.
func DailyPace(target, progress int, end, today Day, currentSum int) Pace {
	days := DaysBetween(today, end) + 1
	if days <= 0 {
		return Pace{Ended: true, Needed: max(0, target-progress)}
	}
	p := Pace{
		DaysRemaining: days,
		Needed:        max(0, target-progress),
	}
	p.DailyTarget = (p.Needed + days - 1) / days
	p.StillNeededToday = max(0, p.DailyTarget-currentSum)
	return p
}

// ObjectiveStatus is the derived state of the active objective.
type ObjectiveStatus struct {
	Objective Objective `json:"objective"`
	Progress  int       `json:"progress"`
	Percent   float64   `json:"percent"`
	Reached   bool      `json:"reached"`
	Pace      Pace      `json:"pace"`
	Message   string    `json:"message"`
}

// Status computes progress and pace for the active objective. ok is false
// when no objective is active.
func (l *Ledger) Status(today Day) (st ObjectiveStatus, ok bool) {
	o := l.ActiveObjective()
	if o == nil {
		return ObjectiveStatus{}, false
	}
	st.Objective = *o
	st.Progress = l.Progress(o.Start, today)
	st.Percent = float64(st.Progress) / float64(o.Target) * 100
	st.Reached = st.Progress >= o.Target
	st.Pace = DailyPace(o.Target, st.Progress, o.End, today, l.CurrentSum)
	st.Message = dailyGoalMessage(st)
	return st, true
}

func dailyGoalMessage(st ObjectiveStatus) string {
	switch {
	case st.Pace.Ended:
		return "Objective period ended"
	case st.Reached:
		return "Objective reached!"
	case st.Pace.StillNeededToday == 0:
		return fmt.Sprintf("Today's goal reached (%d arrows recommended)", st.Pace.DailyTarget)
	default:
		return fmt.Sprintf("%d more arrows needed today (goal: %d/day)",
			st.Pace.StillNeededToday, st.Pace.DailyTarget)
	}
}

// PreviewPerDay is the even daily split of target over the current period,
// shown while an objective is being entered.
func PreviewPerDay(p Period, target int, today Day) int {
	if !p.Bounded() || target <= 0 {
		return 0
	}
	days := WindowLength(Window(p, 0, today))
	if days == 0 {
		return 0
	}
	return target / days
}
