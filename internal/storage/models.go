package storage

import (
	"sort"
	"time"

	"quiver/internal/ledger"
)

// schemaVersion is written into every ledger document.
const schemaVersion = 1

// ledgerFile is the on-disk shape of ledger.json. History is one array of
// day entries; dates stay strings so an unreadable date does not make the
// whole document unreadable.
type ledgerFile struct {
	Version     int               `json:"version"`
	CurrentDate string            `json:"current_date"`
	CurrentSum  int               `json:"current_sum"`
	LastSum     int               `json:"last_sum"`
	LastReset   time.Time         `json:"last_reset"`
	LastAdd     *ledger.UndoToken `json:"last_add,omitempty"`
	ScoringMode bool              `json:"scoring_mode"`
	ScoreSum    float64           `json:"score_sum"`
	ScoreCount  int               `json:"score_count"`
	Objective   *ledger.Objective `json:"objective,omitempty"`
	History     []dayEntry        `json:"history"`
}

type dayEntry struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Arrows int    `json:"arrows"`
}

func (f *ledgerFile) toLedger() *ledger.Ledger {
	l := &ledger.Ledger{
		History:     make(map[ledger.Day]int, len(f.History)),
		CurrentSum:  f.CurrentSum,
		LastSum:     f.LastSum,
		LastReset:   f.LastReset,
		ScoringMode: f.ScoringMode,
		ScoreSum:    f.ScoreSum,
		ScoreCount:  f.ScoreCount,
		Objective:   f.Objective,
	}
	if d, err := ledger.ParseDay(f.CurrentDate); err == nil {
		l.CurrentDate = d
	}
	if f.LastAdd != nil {
		l.LastAdd = *f.LastAdd
	}
	for _, e := range f.History {
		d, err := ledger.ParseDay(e.Date)
		if err != nil {
			l.Unparsed = append(l.Unparsed, ledger.RawRecord{Date: e.Date, Arrows: e.Arrows})
			continue
		}
		l.History[d] = e.Arrows
	}
	return l
}

func fromLedger(l *ledger.Ledger) *ledgerFile {
	f := &ledgerFile{
		Version:     schemaVersion,
		CurrentDate: l.CurrentDate.String(),
		CurrentSum:  l.CurrentSum,
		LastSum:     l.LastSum,
		LastReset:   l.LastReset,
		ScoringMode: l.ScoringMode,
		ScoreSum:    l.ScoreSum,
		ScoreCount:  l.ScoreCount,
		Objective:   l.Objective,
		History:     make([]dayEntry, 0, len(l.History)+len(l.Unparsed)),
	}
	if l.LastAdd.Valid {
		tok := l.LastAdd
		f.LastAdd = &tok
	}
	for _, r := range l.Records() {
		f.History = append(f.History, dayEntry{Date: r.Date.String(), Arrows: r.Arrows})
	}
	raw := append([]ledger.RawRecord(nil), l.Unparsed...)
	sort.Slice(raw, func(i, j int) bool { return raw[i].Date < raw[j].Date })
	for _, r := range raw {
		f.History = append(f.History, dayEntry{Date: r.Date, Arrows: r.Arrows})
	}
	return f
}
