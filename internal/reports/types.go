// Package reports builds period summaries of the ledger for the CLI.
package reports

import (
	"time"

	"quiver/internal/ledger"
)

// PeriodReport summarizes one stats window.
type PeriodReport struct {
	Period      string             `json:"period"`
	Offset      int                `json:"offset"`
	Label       string             `json:"label"`
	Start       *ledger.Day        `json:"start,omitempty"`
	End         *ledger.Day        `json:"end,omitempty"`
	Stats       ledger.Stats       `json:"stats"`
	Days        []ledger.DayRecord `json:"days"`
	Today       TodaySummary       `json:"today"`
	Objective   *ObjectiveReport   `json:"objective,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}

// TodaySummary is the state of the day in progress.
type TodaySummary struct {
	Date         ledger.Day `json:"date"`
	Arrows       int        `json:"arrows"`
	LastSum      int        `json:"last_sum"`
	ScoringMode  bool       `json:"scoring_mode"`
	AverageScore float64    `json:"average_score,omitempty"`
	ScoredArrows int        `json:"scored_arrows,omitempty"`
}

// ObjectiveReport is the active objective and its pace.
type ObjectiveReport struct {
	Period   string      `json:"period"`
	Target   int         `json:"target"`
	Start    ledger.Day  `json:"start"`
	End      ledger.Day  `json:"end"`
	Progress int         `json:"progress"`
	Percent  float64     `json:"percent"`
	Reached  bool        `json:"reached"`
	Pace     ledger.Pace `json:"pace"`
	Message  string      `json:"message"`
}
