package ui

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiver/internal/ledger"
)

func TestTodayPane_AddCount(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewTodayPane(store, createTestStyles())
	pane.SetFocused(true)

	pane.Update(keyRunes("a"))
	require.True(t, pane.IsAdding())

	pane.Update(keyRunes("12"))
	assert.Equal(t, "12", pane.input.Value())

	msg := runCmd(t, pane.Update(keyType(tea.KeyEnter)))
	added, ok := msg.(arrowsAddedMsg)
	require.True(t, ok, "got %T", msg)
	require.NoError(t, added.err)
	assert.Equal(t, 12, added.arrows)
	assert.Equal(t, 12, added.ledger.CurrentSum)

	// The input stays open for the next end, cleared.
	pane.Update(added)
	assert.True(t, pane.IsAdding())
	assert.Empty(t, pane.input.Value())

	pane.Update(keyType(tea.KeyEsc))
	assert.False(t, pane.IsAdding())
}

func TestTodayPane_RejectsBadCount(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewTodayPane(store, createTestStyles())
	pane.SetFocused(true)
	pane.Update(keyRunes("a"))
	pane.Update(keyRunes("1.5"))

	msg := runCmd(t, pane.Update(keyType(tea.KeyEnter))).(arrowsAddedMsg)
	assert.ErrorIs(t, msg.err, ledger.ErrInvalidCount)

	// Rejected input stays in the field for correction.
	pane.Update(msg)
	assert.Equal(t, "1.5", pane.input.Value())

	l, err := store.Load()
	require.NoError(t, err)
	assert.Zero(t, l.CurrentSum)
}

func TestTodayPane_AddScores(t *testing.T) {
	store, _ := createTestStorage(t)
	l, err := store.SetScoringMode(true)
	require.NoError(t, err)

	pane := NewTodayPane(store, createTestStyles())
	pane.SetLedger(l)
	pane.SetFocused(true)
	pane.Update(keyRunes("a"))
	pane.Update(keyRunes("9,8,10"))

	assert.Equal(t, "3 arrows, average 9.0", pane.preview())

	msg := runCmd(t, pane.Update(keyType(tea.KeyEnter))).(arrowsAddedMsg)
	require.NoError(t, msg.err)
	assert.True(t, msg.scored)
	assert.Equal(t, 3, msg.arrows)
	assert.InDelta(t, 9.0, msg.avg, 1e-9)
	assert.Equal(t, 3, msg.ledger.ScoreCount)
}

func TestTodayPane_ScorePreviewErrors(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewTodayPane(store, createTestStyles())
	l := ledger.New(testNow)
	l.SetScoringMode(true)
	pane.SetLedger(l)

	pane.input.SetValue("9,11")
	assert.Contains(t, pane.preview(), "between 0 and 10")

	pane.input.SetValue("")
	assert.Empty(t, pane.preview())
}

func TestTodayPane_CountPreview(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewTodayPane(store, createTestStyles())
	l := ledger.New(testNow)
	require.NoError(t, l.AddCount(30))
	pane.SetLedger(l)

	pane.input.SetValue("6")
	assert.Equal(t, "→ 36 arrows today", pane.preview())
}

func TestAcceptsKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want bool
	}{
		{"digits", keyRunes("42"), true},
		{"score list", keyRunes("9,8.5"), true},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, true},
		{"letter", keyRunes("x"), false},
		{"minus", keyRunes("-"), false},
		{"backspace", keyType(tea.KeyBackspace), true},
		{"left", keyType(tea.KeyLeft), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, acceptsKey(tc.msg))
		})
	}
}

func TestTodayPane_UndoAndMode(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewTodayPane(store, createTestStyles())
	pane.SetFocused(true)

	msg := runCmd(t, pane.Update(keyRunes("u"))).(undoneMsg)
	assert.True(t, errors.Is(msg.err, ledger.ErrNothingToUndo))

	_, err := store.AddCount(18)
	require.NoError(t, err)
	msg = runCmd(t, pane.Update(keyRunes("u"))).(undoneMsg)
	require.NoError(t, msg.err)
	assert.Equal(t, 18, msg.removed)
	assert.Zero(t, msg.ledger.CurrentSum)

	mode := runCmd(t, pane.Update(keyRunes("m"))).(modeChangedMsg)
	require.NoError(t, mode.err)
	assert.True(t, mode.ledger.ScoringMode)
}

func TestTodayPane_UnfocusedIgnoresKeys(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewTodayPane(store, createTestStyles())

	assert.Nil(t, pane.Update(keyRunes("a")))
	assert.False(t, pane.IsAdding())
}

func TestTodayPane_View(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	l := seedLedger(t, store)
	l.Unparsed = []ledger.RawRecord{{Date: "31/02/2024", Arrows: 5}}

	pane := NewTodayPane(store, createTestStyles())
	pane.SetLedger(l)
	pane.SetSize(50, 30)
	pane.SetFocused(true)

	view := pane.View()
	for _, want := range []string{
		"TODAY",
		"count",
		"00:00:00",
		"36",
		"14/03/2024 (today)",
		"13/03/2024",
		"04/03/2024",
		"31/02/2024",
	} {
		assert.Contains(t, view, want)
	}
}

func TestTodayPane_HistoryLimit(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	seedLedger(t, store)
	l, err := store.Load()
	require.NoError(t, err)

	pane := NewTodayPane(store, createTestStyles())
	pane.historyDays = 2
	pane.SetLedger(l)

	history := pane.renderHistory(pane.historyRows(0))
	assert.Contains(t, history, "14/03/2024 (today)")
	assert.Contains(t, history, "13/03/2024")
	assert.NotContains(t, history, "12/03/2024")
}

func TestTodayPane_ImportPrompt(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewTodayPane(store, createTestStyles())
	pane.SetFocused(true)

	pane.StartImport()
	require.True(t, pane.IsImporting())

	pane.Update(keyRunes("/no/such/file.csv"))
	msg := runCmd(t, pane.Update(keyType(tea.KeyEnter))).(importPreviewMsg)
	assert.Error(t, msg.err)
	assert.False(t, pane.IsImporting())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00:00", formatDuration(0))
	assert.Equal(t, "01:02:03", formatDuration(time.Hour+2*time.Minute+3*time.Second))
	assert.Equal(t, "26:00:00", formatDuration(26*time.Hour))
}
