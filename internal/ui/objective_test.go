package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiver/internal/ledger"
)

func TestObjectivePane_SetObjective(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewObjectivePane(store, createTestStyles())
	pane.SetFocused(true)

	pane.Update(keyRunes("n"))
	require.True(t, pane.IsEditing())

	// Letters never reach the target field.
	pane.Update(keyRunes("x"))
	pane.Update(keyRunes("200"))
	assert.Equal(t, "200", pane.input.Value())

	msg := runCmd(t, pane.Update(keyType(tea.KeyEnter))).(objectiveSetMsg)
	require.NoError(t, msg.err)
	require.NotNil(t, msg.objective)
	assert.Equal(t, 200, msg.objective.Target)
	assert.Equal(t, ledger.PeriodWeek, msg.objective.Period)

	pane.Update(msg)
	assert.False(t, pane.IsEditing())

	l, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, l.ActiveObjective())
	assert.Equal(t, 200, l.ActiveObjective().Target)
}

func TestObjectivePane_EmptyTargetKeepsForm(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewObjectivePane(store, createTestStyles())
	pane.SetFocused(true)
	pane.Update(keyRunes("n"))

	msg := runCmd(t, pane.Update(keyType(tea.KeyEnter))).(objectiveSetMsg)
	assert.ErrorIs(t, msg.err, ledger.ErrInvalidTarget)

	pane.Update(msg)
	assert.True(t, pane.IsEditing())

	pane.Update(keyType(tea.KeyEsc))
	assert.False(t, pane.IsEditing())
}

func TestObjectivePane_ShiftPeriod(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewObjectivePane(store, createTestStyles())
	pane.SetFocused(true)
	pane.Update(keyRunes("n"))

	pane.Update(keyType(tea.KeyLeft))
	assert.Equal(t, ledger.PeriodWeek, pane.period, "week is the first choice")

	pane.Update(keyType(tea.KeyRight))
	assert.Equal(t, ledger.PeriodMonth, pane.period)
	pane.Update(keyType(tea.KeyRight))
	pane.Update(keyType(tea.KeyRight))
	assert.Equal(t, ledger.PeriodYear, pane.period, "year is the last choice")

	pane.Update(keyRunes("50"))
	msg := runCmd(t, pane.Update(keyType(tea.KeyEnter))).(objectiveSetMsg)
	require.NoError(t, msg.err)
	assert.Equal(t, ledger.PeriodYear, msg.objective.Period)
}

func TestObjectivePane_UnfocusedIgnoresKeys(t *testing.T) {
	store, _ := createTestStorage(t)
	pane := NewObjectivePane(store, createTestStyles())

	assert.Nil(t, pane.Update(keyRunes("n")))
	assert.False(t, pane.IsEditing())
}

func TestObjectivePane_EmptyView(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	pane := NewObjectivePane(store, createTestStyles())
	pane.SetSize(50, 20)

	view := pane.View()
	assert.Contains(t, view, "OBJECTIVE")
	assert.Contains(t, view, "No active objective")
	assert.False(t, pane.HasActive())
}

func TestObjectivePane_StatusView(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	_, err := store.SetObjective(ledger.PeriodWeek, 200)
	require.NoError(t, err)
	l, err := store.AddCount(36)
	require.NoError(t, err)

	pane := NewObjectivePane(store, createTestStyles())
	pane.SetLedger(l)
	pane.SetSize(50, 24)

	view := pane.View()
	for _, want := range []string{
		"200 arrows this week",
		"11/03/2024 – 17/03/2024",
		"36/200 (18%)",
		"Days left: 4",
		"Still needed: 164",
		"5 more arrows needed today (goal: 41/day)",
	} {
		assert.Contains(t, view, want)
	}
}

func TestObjectivePane_StatusWithHistory(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	seedLedger(t, store)
	_, err := store.SetObjective(ledger.PeriodWeek, 200)
	require.NoError(t, err)
	l, err := store.Load()
	require.NoError(t, err)

	pane := NewObjectivePane(store, createTestStyles())
	pane.SetLedger(l)
	pane.SetSize(50, 24)

	view := pane.View()
	assert.Contains(t, view, "126/200 (63%)")
	assert.Contains(t, view, "Today's goal reached (19 arrows recommended)")
}

func TestObjectivePane_FormView(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	_, err := store.SetObjective(ledger.PeriodMonth, 500)
	require.NoError(t, err)
	l, err := store.Load()
	require.NoError(t, err)

	pane := NewObjectivePane(store, createTestStyles())
	pane.SetLedger(l)
	pane.SetSize(50, 24)
	pane.SetFocused(true)

	pane.Update(keyRunes("n"))
	assert.Equal(t, ledger.PeriodMonth, pane.period, "form starts on the active period")

	pane.Update(keyType(tea.KeyLeft))
	pane.Update(keyRunes("200"))

	view := pane.View()
	assert.Contains(t, view, "[week]")
	assert.Contains(t, view, "about 28 per day")
	assert.Contains(t, view, "Replaces the current objective")
}
