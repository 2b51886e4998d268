// Package ledger models the practice ledger: a date-indexed record of daily
// arrow counts plus the state of the day in progress.
//
// The types here carry no I/O. Callers load a Ledger, apply one operation
// and save it; see internal/storage.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyInput    = errors.New("input is empty")
	ErrInvalidCount  = errors.New("arrow count must be a positive whole number")
	ErrInvalidScore  = errors.New("invalid score format, use e.g. 9,8,10,7")
	ErrScoreRange    = errors.New("scores must be between 0 and 10")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrInvalidTarget = errors.New("objective target must be positive")
	ErrInvalidPeriod = errors.New("invalid period")
)

// MaxScore is the highest score a single arrow can earn.
const MaxScore = 10.0

// DayRecord is the arrow count of one calendar day.
type DayRecord struct {
	Date   Day `json:"date"`
	Arrows int `json:"arrows"`
}

// RawRecord is a stored history entry whose date could not be parsed. It is
// kept so it survives a save and can still be shown as-is.
type RawRecord struct {
	Date   string `json:"date"`
	Arrows int    `json:"arrows"`
}

// UndoToken remembers the last add so it can be reversed once.
type UndoToken struct {
	Valid      bool    `json:"valid"`
	Amount     int     `json:"amount"`
	ScoreSum   float64 `json:"score_sum,omitempty"`
	ScoreCount int     `json:"score_count,omitempty"`
}

// Ledger is the full practice state.
type Ledger struct {
	History     map[Day]int
	Unparsed    []RawRecord
	CurrentDate Day
	CurrentSum  int
	LastSum     int
	LastReset   time.Time
	LastAdd     UndoToken
	ScoringMode bool
	ScoreSum    float64
	ScoreCount  int
	Objective   *Objective
}

// New returns an empty ledger whose current day is the day of now.
func New(now time.Time) *Ledger {
	l := &Ledger{
		History:     make(map[Day]int),
		CurrentDate: DayOf(now),
		LastReset:   now,
	}
	l.syncToday()
	return l
}

// syncToday keeps history[CurrentDate] equal to CurrentSum. Every mutation
// ends with it.
func (l *Ledger) syncToday() {
	if l.History == nil {
		l.History = make(map[Day]int)
	}
	l.History[l.CurrentDate] = l.CurrentSum
}

// Normalize repairs a ledger read from disk so the invariants hold.
func (l *Ledger) Normalize(now time.Time) {
	if l.CurrentDate.IsZero() {
		l.CurrentDate = DayOf(now)
	}
	if l.LastReset.IsZero() {
		l.LastReset = now
	}
	if l.CurrentSum < 0 {
		l.CurrentSum = 0
	}
	l.syncToday()
}

// Clone returns a deep copy.
func (l *Ledger) Clone() *Ledger {
	c := *l
	c.History = make(map[Day]int, len(l.History))
	for d, n := range l.History {
		c.History[d] = n
	}
	c.Unparsed = append([]RawRecord(nil), l.Unparsed...)
	if l.Objective != nil {
		o := *l.Objective
		c.Objective = &o
	}
	return &c
}

// === Mutation ===

// ParseCount parses user input for AddCount.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyInput
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, ErrInvalidCount
	}
	return n, nil
}

// AddCount adds n arrows to today. Zero and negative counts are rejected;
// removing arrows goes through Undo only. A count that would overflow
// today's total is rejected too.
func (l *Ledger) AddCount(n int) error {
	if n <= 0 || n > math.MaxInt-l.CurrentSum {
		return ErrInvalidCount
	}
	l.CurrentSum += n
	l.LastAdd = UndoToken{Valid: true, Amount: n}
	l.syncToday()
	return nil
}

// ScoreBatch is a parsed list of per-arrow scores.
type ScoreBatch struct {
	Scores []float64
	Sum    float64
}

// Arrows is the number of arrows in the batch.
func (b ScoreBatch) Arrows() int { return len(b.Scores) }

// Average is the mean score of the batch.
func (b ScoreBatch) Average() float64 {
	if len(b.Scores) == 0 {
		return 0
	}
	return b.Sum / float64(len(b.Scores))
}

// ParseScores parses a comma separated list such as "9, 8,10". Blank items
// are ignored. The whole list is rejected if any item is not a number or is
// outside [0, MaxScore].
func ParseScores(s string) (ScoreBatch, error) {
	if strings.TrimSpace(s) == "" {
		return ScoreBatch{}, ErrEmptyInput
	}
	var b ScoreBatch
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || math.IsNaN(v) {
			return ScoreBatch{}, fmt.Errorf("%w: %q", ErrInvalidScore, part)
		}
		if v < 0 || v > MaxScore {
			return ScoreBatch{}, fmt.Errorf("%w: %s", ErrScoreRange, part)
		}
		b.Scores = append(b.Scores, v)
		b.Sum += v
	}
	if len(b.Scores) == 0 {
		return ScoreBatch{}, ErrEmptyInput
	}
	return b, nil
}

// AddScores parses s and adds one arrow per score. Nothing changes when the
// batch is rejected.
func (l *Ledger) AddScores(s string) (ScoreBatch, error) {
	b, err := ParseScores(s)
	if err != nil {
		return ScoreBatch{}, err
	}
	n := b.Arrows()
	l.CurrentSum += n
	l.ScoreSum += b.Sum
	l.ScoreCount += n
	l.LastAdd = UndoToken{Valid: true, Amount: n, ScoreSum: b.Sum, ScoreCount: n}
	l.syncToday()
	return b, nil
}

// CanUndo reports whether Undo would change anything.
func (l *Ledger) CanUndo() bool {
	return l.LastAdd.Valid && l.LastAdd.Amount > 0 && l.CurrentSum >= l.LastAdd.Amount
}

// Undo reverses the last add once. It returns the number of arrows removed,
// or ErrNothingToUndo when there is no add to reverse.
func (l *Ledger) Undo() (int, error) {
	if !l.CanUndo() {
		return 0, ErrNothingToUndo
	}
	tok := l.LastAdd
	l.CurrentSum -= tok.Amount
	if tok.ScoreCount > 0 && l.ScoreCount >= tok.ScoreCount {
		l.ScoreSum -= tok.ScoreSum
		l.ScoreCount -= tok.ScoreCount
		if l.ScoreCount == 0 {
			l.ScoreSum = 0
		}
	}
	l.LastAdd = UndoToken{}
	l.syncToday()
	return tok.Amount, nil
}

// Rollover finalizes the current day when now falls on another calendar
// day. The finished day stays in history, its total becomes LastSum and a
// fresh day starts at zero. It reports whether a rollover happened.
func (l *Ledger) Rollover(now time.Time) bool {
	today := DayOf(now)
	if today == l.CurrentDate {
		return false
	}
	l.syncToday()
	l.LastSum = l.CurrentSum
	l.CurrentSum = 0
	l.LastAdd = UndoToken{}
	l.ScoreSum = 0
	l.ScoreCount = 0
	l.CurrentDate = today
	l.LastReset = now
	l.syncToday()
	return true
}

// SetScoringMode switches input between plain counts and score lists.
func (l *Ledger) SetScoringMode(on bool) {
	l.ScoringMode = on
}

// Merge overwrites history with entries. Today's running total follows an
// imported value for today, and the pending undo is dropped since it no
// longer describes the current total.
func (l *Ledger) Merge(entries map[Day]int) {
	l.syncToday()
	for d, n := range entries {
		l.History[d] = n
	}
	if n, ok := entries[l.CurrentDate]; ok {
		l.CurrentSum = n
		l.LastAdd = UndoToken{}
	}
	l.syncToday()
}

// Overlap counts entries that would replace data already in the ledger.
// Today counts only when arrows were already logged.
func (l *Ledger) Overlap(entries map[Day]int) int {
	n := 0
	for d := range entries {
		if d == l.CurrentDate {
			if l.CurrentSum > 0 {
				n++
			}
			continue
		}
		if _, ok := l.History[d]; ok {
			n++
		}
	}
	return n
}

// === Queries ===

// Elapsed returns the time since the last day reset.
func (l *Ledger) Elapsed(now time.Time) time.Duration {
	if l.LastReset.IsZero() || now.Before(l.LastReset) {
		return 0
	}
	return now.Sub(l.LastReset)
}

// AverageScore is today's mean score, or 0 with no scored arrows.
func (l *Ledger) AverageScore() float64 {
	if l.ScoreCount == 0 {
		return 0
	}
	return l.ScoreSum / float64(l.ScoreCount)
}

// Snapshot returns a copy of history with today applied.
func (l *Ledger) Snapshot() map[Day]int {
	out := make(map[Day]int, len(l.History)+1)
	for d, n := range l.History {
		out[d] = n
	}
	out[l.CurrentDate] = l.CurrentSum
	return out
}

// Records returns every recorded day including today, oldest first.
func (l *Ledger) Records() []DayRecord {
	return sortedRecords(l.Snapshot())
}

// Recent returns up to limit records newest first. A limit <= 0 returns all.
func (l *Ledger) Recent(limit int) []DayRecord {
	recs := l.Records()
	out := make([]DayRecord, 0, len(recs))
	for i := len(recs) - 1; i >= 0; i-- {
		out = append(out, recs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// TotalArrows sums every recorded day including today.
func (l *Ledger) TotalArrows() int {
	total := 0
	for _, n := range l.Snapshot() {
		total += n
	}
	return total
}

func sortedRecords(m map[Day]int) []DayRecord {
	out := make([]DayRecord, 0, len(m))
	for d, n := range m {
		out = append(out, DayRecord{Date: d, Arrows: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}
