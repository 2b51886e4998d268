// Package ui provides the terminal user interface for quiver.
// This file defines message types for async I/O operations using the Bubble
// Tea command pattern. All storage operations return these messages to keep
// the event loop non-blocking.
package ui

import (
	"time"

	"quiver/internal/importer"
	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// tickMsg is sent every second to refresh the elapsed time and check for a
// day rollover.
type tickMsg time.Time

// =============================================================================
// Ledger Messages
// =============================================================================

// ledgerLoadedMsg is sent when the ledger is read at startup.
type ledgerLoadedMsg struct {
	ledger *ledger.Ledger
	err    error
}

// rolloverCheckedMsg is sent after each tick's rollover check.
type rolloverCheckedMsg struct {
	ledger *ledger.Ledger
	rolled bool
	err    error
}

// ledgerChangedMsg is sent when another process rewrote ledger.json.
type ledgerChangedMsg struct {
	ledger *ledger.Ledger
	err    error
}

// watchClosedMsg is sent when the file watcher channel closes.
type watchClosedMsg struct{}

// =============================================================================
// Today Messages
// =============================================================================

// arrowsAddedMsg is sent when a count or a score list was added.
type arrowsAddedMsg struct {
	ledger *ledger.Ledger
	arrows int
	scored bool
	avg    float64 // batch average when scored
	err    error
}

// undoneMsg is sent when the last add was reversed.
type undoneMsg struct {
	ledger  *ledger.Ledger
	removed int
	err     error
}

// modeChangedMsg is sent when input switches between counts and scores.
type modeChangedMsg struct {
	ledger *ledger.Ledger
	err    error
}

// =============================================================================
// Objective Messages
// =============================================================================

// objectiveSetMsg is sent when a new objective was saved.
type objectiveSetMsg struct {
	objective *ledger.Objective
	err       error
}

// objectiveStoppedMsg is sent when the active objective was stopped.
type objectiveStoppedMsg struct {
	stopped bool
	err     error
}

// =============================================================================
// Export / Import Messages
// =============================================================================

// exportedMsg is sent when a CSV export completes.
type exportedMsg struct {
	path string
	err  error
}

// importPreviewMsg is sent when an import file was parsed but not applied.
type importPreviewMsg struct {
	path       string
	batch      *importer.Batch
	overwrites int
	err        error
}

// importedMsg is sent when an import was merged into the ledger.
type importedMsg struct {
	result *importer.ImportResult
	err    error
}

// changeEvent is the storage watcher event, aliased for the command helpers.
type changeEvent = storage.ChangeEvent
