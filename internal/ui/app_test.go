package ui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiver/internal/config"
	"quiver/internal/ledger"
	"quiver/internal/notify"
	"quiver/internal/storage"
)

// newTestApp builds an app over store, sized and loaded like a real start.
func newTestApp(t *testing.T, store *storage.Storage, cfg *AppConfig, width int) *App {
	t.Helper()
	app := NewApp(store, createTestStyles(), cfg)
	app.Update(tea.WindowSizeMsg{Width: width, Height: 40})
	app.Update(runCmd(t, loadLedgerCmd(store)))
	return app
}

func TestApp_LayoutModeTransitions(t *testing.T) {
	store, _ := createTestStorage(t)
	app := NewApp(store, createTestStyles(), nil)

	tests := []struct {
		name  string
		width int
		want  LayoutMode
	}{
		{"very narrow", 40, LayoutNarrow},
		{"narrow", 60, LayoutNarrow},
		{"below threshold", 79, LayoutNarrow},
		{"at threshold", 80, LayoutWide},
		{"wide", 100, LayoutWide},
		{"very wide", 200, LayoutWide},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app.Update(tea.WindowSizeMsg{Width: tc.width, Height: 30})
			assert.Equal(t, tc.want, app.layoutMode)
		})
	}
}

func TestApp_CustomThreshold(t *testing.T) {
	store, _ := createTestStorage(t)
	ux := config.Default().UX
	ux.NarrowLayoutThreshold = 100

	app := NewApp(store, createTestStyles(), &AppConfig{UX: &ux})
	app.Update(tea.WindowSizeMsg{Width: 90, Height: 30})
	assert.Equal(t, LayoutNarrow, app.layoutMode)

	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, LayoutWide, app.layoutMode)
}

func TestApp_NarrowLayoutShowsOnlyActivePane(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 60)

	require.Equal(t, PaneToday, app.activePane)
	view := app.View()
	assert.Contains(t, view, "[Today]")
	assert.Contains(t, view, "Stats")
	assert.Contains(t, view, "Objective")
	assert.Contains(t, view, "TODAY")
	assert.NotContains(t, view, "STATS")

	app.Update(keyRunes("2"))
	view = app.View()
	assert.Contains(t, view, "[Stats]")
	assert.Contains(t, view, "STATS")
	assert.NotContains(t, view, "TODAY")
}

func TestApp_WideLayoutShowsAllPanes(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	seedLedger(t, store)
	app := newTestApp(t, store, nil, 120)

	view := app.View()
	for _, want := range []string{"quiver", "Today: 36", "TODAY", "STATS", "OBJECTIVE"} {
		assert.Contains(t, view, want)
	}
}

func TestApp_PaneSwitching(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	order := []PaneID{PaneStats, PaneObjective, PaneToday}
	for _, want := range order {
		app.Update(keyType(tea.KeyTab))
		assert.Equal(t, want, app.activePane)
	}

	app.Update(keyRunes("3"))
	assert.Equal(t, PaneObjective, app.activePane)
	assert.True(t, app.objectivePane.IsFocused())
	assert.False(t, app.todayPane.IsFocused())

	app.Update(keyRunes("1"))
	assert.Equal(t, PaneToday, app.activePane)
}

func TestApp_StartPane(t *testing.T) {
	store, _ := createTestStorage(t)
	ux := config.Default().UX
	ux.StartPane = "stats"

	app := NewApp(store, createTestStyles(), &AppConfig{UX: &ux})
	assert.Equal(t, PaneStats, app.activePane)
	assert.True(t, app.statsPane.IsFocused())
}

func TestApp_Quit(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	seedLedger(t, store)
	app := newTestApp(t, store, nil, 120)

	_, cmd := app.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, app.quitting)

	view := app.View()
	assert.Contains(t, view, "Good shooting!")
	assert.Contains(t, view, "Today: 36 arrows")
}

func TestApp_AddFlow(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	app.Update(keyRunes("a"))
	app.Update(keyRunes("12"))
	_, cmd := app.Update(keyType(tea.KeyEnter))
	app.Update(runCmd(t, cmd))

	assert.Equal(t, 12, app.ledger.CurrentSum)
	assert.Equal(t, "+12 arrows (today 12)", app.status)
	assert.True(t, app.todayPane.IsAdding(), "input stays open for the next end")
	assert.Contains(t, app.View(), "Today: 12")

	app.Update(keyType(tea.KeyEsc))
	_, cmd = app.Update(keyRunes("u"))
	app.Update(runCmd(t, cmd))
	assert.Zero(t, app.ledger.CurrentSum)
	assert.Equal(t, "Removed 12 arrows", app.status)

	_, cmd = app.Update(keyRunes("u"))
	app.Update(runCmd(t, cmd))
	assert.Equal(t, "Nothing to undo", app.status)
	assert.False(t, app.statusErr)
}

func TestApp_AddErrorShowsStatus(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	app.Update(arrowsAddedMsg{err: ledger.ErrInvalidCount})
	assert.True(t, app.statusErr)
	assert.Contains(t, app.status, "Add: ")
	assert.Zero(t, app.ledger.CurrentSum)
}

func TestApp_StopObjectiveConfirm(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	_, err := store.SetObjective(ledger.PeriodWeek, 200)
	require.NoError(t, err)
	app := newTestApp(t, store, nil, 120)
	app.setActivePane(PaneObjective)

	app.Update(keyRunes("x"))
	require.NotNil(t, app.confirm)
	view := app.View()
	assert.Contains(t, view, "Stop objective?")
	assert.Contains(t, view, "200 arrows this week")

	// Cancel leaves the objective running.
	app.Update(keyRunes("n"))
	assert.Nil(t, app.confirm)
	assert.Equal(t, "Canceled", app.status)

	app.Update(keyRunes("x"))
	_, cmd := app.Update(keyRunes("y"))
	msg := runCmd(t, cmd).(objectiveStoppedMsg)
	require.NoError(t, msg.err)
	assert.True(t, msg.stopped)

	_, cmd = app.Update(msg)
	assert.Equal(t, "Objective stopped", app.status)
	app.Update(runCmd(t, cmd))
	assert.False(t, app.objectivePane.HasActive())
}

func TestApp_StopWithoutObjective(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)
	app.setActivePane(PaneObjective)

	app.Update(keyRunes("x"))
	assert.Nil(t, app.confirm)
	assert.Equal(t, "No active objective", app.status)
}

func TestApp_SetObjectiveReloads(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)
	app.setActivePane(PaneObjective)

	app.Update(keyRunes("n"))
	app.Update(keyRunes("300"))
	_, cmd := app.Update(keyType(tea.KeyEnter))
	app.Update(runCmd(t, cmd))

	assert.Equal(t, "Objective set: 300 arrows this week", app.status)
	assert.False(t, app.objectivePane.IsEditing())

	app.Update(runCmd(t, loadLedgerCmd(store)))
	assert.True(t, app.objectivePane.HasActive())
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// importFile drives the import prompt and returns the preview command's
// result.
func importFile(t *testing.T, app *App, path string) tea.Msg {
	t.Helper()
	app.Update(keyRunes("i"))
	require.True(t, app.todayPane.IsImporting())
	app.Update(keyRunes(path))
	_, cmd := app.Update(keyType(tea.KeyEnter))
	return runCmd(t, cmd)
}

func TestApp_ImportWithOverwritesAsks(t *testing.T) {
	setupTest(t)
	store, _ := createTestStorage(t)
	seedLedger(t, store)
	app := newTestApp(t, store, nil, 120)
	app.setActivePane(PaneStats)

	path := writeCSV(t, "date,arrows\n04/03/2024,100\n05/03/2024,5\n")
	preview := importFile(t, app, path).(importPreviewMsg)
	require.NoError(t, preview.err)
	assert.Equal(t, 1, preview.overwrites)
	assert.Equal(t, PaneToday, app.activePane, "import prompts in the today pane")

	_, cmd := app.Update(preview)
	assert.Nil(t, cmd)
	require.NotNil(t, app.confirm)
	view := app.View()
	assert.Contains(t, view, "Import 2 days?")
	assert.Contains(t, view, "1 existing days will be overwritten.")

	_, cmd = app.Update(keyType(tea.KeyEnter))
	imported := runCmd(t, cmd).(importedMsg)
	require.NoError(t, imported.err)

	_, cmd = app.Update(imported)
	assert.Equal(t, "Imported 2 days", app.status)
	app.Update(runCmd(t, cmd))
	assert.Equal(t, 100, app.ledger.History[ledger.Date(2024, time.March, 4)])
}

func TestApp_ImportWithoutOverwritesApplies(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	path := writeCSV(t, "01/02/2024,10\n03/02/2024,20\nbad,row\n")
	_, cmd := app.Update(importFile(t, app, path))
	assert.Nil(t, app.confirm)

	imported := runCmd(t, cmd).(importedMsg)
	require.NoError(t, imported.err)
	app.Update(imported)
	assert.Equal(t, "Imported 3 days, 1 gap days filled, 1 rows skipped", app.status)
}

func TestApp_ImportConfirmDisabled(t *testing.T) {
	store, _ := createTestStorage(t)
	seedLedger(t, store)
	ux := config.Default().UX
	ux.ConfirmImport = false
	app := newTestApp(t, store, &AppConfig{UX: &ux}, 120)

	path := writeCSV(t, "04/03/2024,100\n")
	_, cmd := app.Update(importFile(t, app, path))
	assert.Nil(t, app.confirm)
	assert.IsType(t, importedMsg{}, runCmd(t, cmd))
}

func TestApp_ImportLongSpanAsks(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	path := writeCSV(t, "01/03/2014,12\n02/03/2024,10\n")
	preview := importFile(t, app, path).(importPreviewMsg)
	require.NoError(t, preview.err)
	assert.Equal(t, 0, preview.overwrites)

	_, cmd := app.Update(preview)
	assert.Nil(t, cmd)
	require.NotNil(t, app.confirm)
	assert.Contains(t, app.confirm.body, "check for a mistyped year")
}

func TestApp_ImportErrors(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	path := writeCSV(t, "date,arrows\n")
	app.Update(importFile(t, app, path))
	assert.True(t, app.statusErr)
	assert.Contains(t, app.status, "no valid rows in history.csv")
}

func TestApp_Export(t *testing.T) {
	store, _ := createTestStorage(t)
	seedLedger(t, store)
	dir := t.TempDir()
	app := newTestApp(t, store, &AppConfig{ExportDir: dir}, 120)

	_, cmd := app.Update(keyRunes("e"))
	msg := runCmd(t, cmd).(exportedMsg)
	require.NoError(t, msg.err)
	assert.Equal(t, dir, filepath.Dir(msg.path))
	assert.FileExists(t, msg.path)

	app.Update(msg)
	assert.Equal(t, "Exported to "+msg.path, app.status)
}

func TestApp_Rollover(t *testing.T) {
	store, clock := createTestStorage(t)
	seedLedger(t, store)
	sink := &fakeNotifier{}
	cfg := &AppConfig{
		Notifier: notify.NewPractice(sink, notify.Config{Enabled: true, Rollover: true}),
	}
	app := newTestApp(t, store, cfg, 120)

	// Same day: nothing to check.
	app.Update(tickMsg(testNow))
	assert.False(t, app.rolling)

	clock.now = testNow.Add(24 * time.Hour)
	app.Update(tickMsg(clock.now))
	assert.True(t, app.rolling, "a changed date starts a rollover check")

	app.Update(runCmd(t, checkRolloverCmd(store)))
	assert.False(t, app.rolling)
	assert.Equal(t, ledger.Date(2024, time.March, 15), app.ledger.CurrentDate)
	assert.Zero(t, app.ledger.CurrentSum)
	assert.Equal(t, "New day: 14/03/2024 finished with 36 arrows", app.status)
	assert.Equal(t, []string{"14/03/2024 finished with 36 arrows"}, sink.sent)
}

func TestApp_RolloverEmptyDayIsQuiet(t *testing.T) {
	store, clock := createTestStorage(t)
	sink := &fakeNotifier{}
	cfg := &AppConfig{
		Notifier: notify.NewPractice(sink, notify.Config{Enabled: true, Rollover: true}),
	}
	app := newTestApp(t, store, cfg, 120)

	clock.now = testNow.Add(24 * time.Hour)
	app.Update(runCmd(t, checkRolloverCmd(store)))
	assert.Empty(t, app.status)
	assert.Empty(t, sink.sent)
}

func TestApp_StatusExpires(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	app.SetStatus("hello", false)
	app.Update(tickMsg(testNow))
	assert.Equal(t, "hello", app.status)

	app.statusUntil = time.Now().Add(-time.Second)
	app.Update(tickMsg(testNow))
	assert.Empty(t, app.status)
}

func TestApp_ExternalChange(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	l := ledger.New(testNow)
	require.NoError(t, l.AddCount(48))
	_, cmd := app.Update(ledgerChangedMsg{ledger: l})
	assert.Nil(t, cmd, "no watcher, nothing to wait on")
	assert.Equal(t, 48, app.ledger.CurrentSum)
	assert.Equal(t, "Ledger updated outside the app", app.status)
}

func TestApp_MousePaneSwitching(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	click := tea.MouseMsg{X: 50, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	app.Update(click)
	assert.Equal(t, PaneStats, app.activePane)

	click.X = 100
	app.Update(click)
	assert.Equal(t, PaneObjective, app.activePane)

	click.X = 10
	app.Update(click)
	assert.Equal(t, PaneToday, app.activePane)

	// Only presses of the left button count.
	app.Update(tea.MouseMsg{X: 50, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	assert.Equal(t, PaneToday, app.activePane)
}

func TestApp_MouseNarrowTabs(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 60)

	click := tea.MouseMsg{X: 25, Y: app.contentTop - 1, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
	app.Update(click)
	assert.Equal(t, PaneStats, app.activePane)

	click.X = 55
	app.Update(click)
	assert.Equal(t, PaneObjective, app.activePane)
}

func TestApp_MouseClosesOverlays(t *testing.T) {
	store, _ := createTestStorage(t)
	_, err := store.SetObjective(ledger.PeriodWeek, 200)
	require.NoError(t, err)
	app := newTestApp(t, store, nil, 120)

	click := tea.MouseMsg{X: 50, Y: 15, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}

	app.showHelp = true
	app.Update(click)
	assert.False(t, app.showHelp)
	assert.Equal(t, PaneToday, app.activePane, "closing help does not switch panes")

	app.setActivePane(PaneObjective)
	app.Update(keyRunes("x"))
	require.NotNil(t, app.confirm)
	app.Update(click)
	assert.Nil(t, app.confirm)
	assert.True(t, app.objectivePane.HasActive())
}

func TestApp_PaneAtPosition(t *testing.T) {
	store, _ := createTestStorage(t)
	app := newTestApp(t, store, nil, 120)

	tests := []struct {
		x    int
		want PaneID
	}{
		{0, PaneToday},
		{app.todayPaneEnd - 1, PaneToday},
		{app.statsPaneStart, PaneStats},
		{app.objectivePaneStart, PaneObjective},
		{app.objectivePaneEnd, -1},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, app.paneAtPosition(tc.x), "x=%d", tc.x)
	}
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "/very/lo..", truncateText("/very/long/path.csv", 10))
	assert.Empty(t, truncateText("anything", 0))
}
