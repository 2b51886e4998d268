// Package ui provides the terminal user interface for quiver.
// This file contains tea.Cmd factories that wrap storage operations. These
// commands run I/O asynchronously to keep the Bubble Tea event loop
// responsive. Each command returns a message type defined in messages.go.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"quiver/internal/exporter"
	"quiver/internal/importer"
	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// tickCmd returns a command that sends a tick every second.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// =============================================================================
// Ledger Commands
// =============================================================================

// loadLedgerCmd returns a command that loads the ledger. A recovered file
// still yields a usable ledger alongside the error.
func loadLedgerCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		l, err := store.Load()
		return ledgerLoadedMsg{ledger: l, err: err}
	}
}

// checkRolloverCmd returns a command that applies a pending day rollover.
func checkRolloverCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		l, rolled, err := store.CheckRollover()
		return rolloverCheckedMsg{ledger: l, rolled: rolled, err: err}
	}
}

// waitForChangeCmd blocks until the watcher reports an outside change.
func waitForChangeCmd(ch <-chan changeEvent) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return ledgerChangedMsg{ledger: ev.Ledger, err: ev.Err}
	}
}

// =============================================================================
// Today Commands
// =============================================================================

// addCountCmd returns a command that parses input as a whole number and
// adds it to today.
func addCountCmd(store *storage.Storage, input string) tea.Cmd {
	return func() tea.Msg {
		n, err := ledger.ParseCount(input)
		if err != nil {
			return arrowsAddedMsg{err: err}
		}
		l, err := store.AddCount(n)
		return arrowsAddedMsg{ledger: l, arrows: n, err: err}
	}
}

// addScoresCmd returns a command that adds one arrow per score in input.
func addScoresCmd(store *storage.Storage, input string) tea.Cmd {
	return func() tea.Msg {
		b, l, err := store.AddScores(input)
		return arrowsAddedMsg{
			ledger: l,
			arrows: b.Arrows(),
			scored: true,
			avg:    b.Average(),
			err:    err,
		}
	}
}

// undoCmd returns a command that reverses the last add.
func undoCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		n, l, err := store.Undo()
		return undoneMsg{ledger: l, removed: n, err: err}
	}
}

// setModeCmd returns a command that switches input mode.
func setModeCmd(store *storage.Storage, scores bool) tea.Cmd {
	return func() tea.Msg {
		l, err := store.SetScoringMode(scores)
		return modeChangedMsg{ledger: l, err: err}
	}
}

// =============================================================================
// Objective Commands
// =============================================================================

// setObjectiveCmd returns a command that parses target and saves a new
// objective for the current period.
func setObjectiveCmd(store *storage.Storage, p ledger.Period, target string) tea.Cmd {
	return func() tea.Msg {
		n, err := ledger.ParseCount(target)
		if err != nil {
			return objectiveSetMsg{err: ledger.ErrInvalidTarget}
		}
		o, err := store.SetObjective(p, n)
		return objectiveSetMsg{objective: o, err: err}
	}
}

// stopObjectiveCmd returns a command that deactivates the objective.
func stopObjectiveCmd(store *storage.Storage) tea.Cmd {
	return func() tea.Msg {
		ok, err := store.StopObjective()
		return objectiveStoppedMsg{stopped: ok, err: err}
	}
}

// =============================================================================
// Export / Import Commands
// =============================================================================

// exportCmd returns a command that writes the full history as CSV into dir.
func exportCmd(store *storage.Storage, dir, countLabel string) tea.Cmd {
	return func() tea.Msg {
		l, err := store.Load()
		var rec *storage.RecoveryError
		if err != nil && !errors.As(err, &rec) {
			return exportedMsg{err: err}
		}
		e := exporter.GetExporter("csv", exporter.Options{CountLabel: countLabel})
		path := filepath.Join(dir, exporter.DefaultFileName(e, store.Now()))
		if err := e.Export(context.Background(), l, path); err != nil {
			return exportedMsg{err: err}
		}
		return exportedMsg{path: path}
	}
}

// previewImportCmd returns a command that parses the CSV file at path and
// counts the days it would overwrite.
func previewImportCmd(store *storage.Storage, path string) tea.Cmd {
	return func() tea.Msg {
		path = expandPath(path)
		f, err := os.Open(path)
		if err != nil {
			return importPreviewMsg{path: path, err: err}
		}
		defer f.Close()

		b, err := importer.GetImporter("csv").Preview(f)
		if err != nil {
			return importPreviewMsg{path: path, err: err}
		}
		if b.Empty() {
			return importPreviewMsg{path: path, err: fmt.Errorf("no valid rows in %s", filepath.Base(path))}
		}
		l, err := store.Load()
		var rec *storage.RecoveryError
		if err != nil && !errors.As(err, &rec) {
			return importPreviewMsg{path: path, err: err}
		}
		return importPreviewMsg{path: path, batch: b, overwrites: b.Overwrites(l)}
	}
}

// applyImportCmd returns a command that merges a previewed batch.
func applyImportCmd(store *storage.Storage, b *importer.Batch) tea.Cmd {
	return func() tea.Msg {
		result, err := importer.Apply(b, store)
		return importedMsg{result: result, err: err}
	}
}

// expandPath resolves a leading ~ typed into the import prompt.
func expandPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
