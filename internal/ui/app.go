// Package ui provides the terminal user interface for quiver.
// This file contains the main App model which coordinates all panes and
// routes messages using the Bubble Tea architecture.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"

	"quiver/internal/config"
	"quiver/internal/ledger"
	"quiver/internal/notify"
	"quiver/internal/storage"
)

// PaneID identifies each pane in the application.
type PaneID int

const (
	PaneToday PaneID = iota
	PaneStats
	PaneObjective
)

// LayoutMode determines how panes are arranged based on terminal width.
type LayoutMode int

const (
	// LayoutWide shows all three panes side-by-side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows only the focused pane with a tab bar.
	LayoutNarrow
)

// AppConfig holds user configuration for the app behavior.
type AppConfig struct {
	Keys      *config.KeysConfig
	UX        *config.UXConfig
	ExportDir string

	// Notifier announces rollovers and reached objectives; nil disables it.
	Notifier *notify.Practice
	Logger   *zap.Logger
}

// App is the main application model that coordinates all panes.
type App struct {
	storage       *storage.Storage
	styles        *Styles
	config        *AppConfig
	ledger        *ledger.Ledger
	todayPane     *TodayPane
	statsPane     *StatsPane
	objectivePane *ObjectivePane
	helpOverlay   *HelpOverlay
	confirm       *confirmState
	activePane    PaneID
	layoutMode    LayoutMode
	showHelp      bool
	width         int
	height        int
	status        string
	statusErr     bool
	statusUntil   time.Time
	quitting      bool
	rolling       bool // a rollover check is in flight

	changes  <-chan storage.ChangeEvent
	notifier *notify.Practice
	log      *zap.Logger

	// Key bindings
	keys     GlobalKeyMap
	helpKeys HelpKeyMap

	// Pane positions for mouse click detection (x coordinates)
	todayPaneStart     int
	todayPaneEnd       int
	statsPaneStart     int
	statsPaneEnd       int
	objectivePaneStart int
	objectivePaneEnd   int
	contentTop         int // Y coordinate where content starts
}

type confirmState struct {
	title  string
	body   string
	action string
	cmd    tea.Cmd
}

// NewApp creates a new application. Data loading is deferred to Init()
// to keep the constructor non-blocking.
func NewApp(store *storage.Storage, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}
	if cfg.UX == nil {
		cfg.UX = &config.Default().UX
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = store.GetDataDir()
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	app := &App{
		storage:       store,
		styles:        styles,
		config:        cfg,
		ledger:        ledger.New(store.Now()),
		todayPane:     NewTodayPaneWithConfig(store, styles, cfg.Keys, cfg.UX),
		statsPane:     NewStatsPaneWithConfig(store, styles, cfg.Keys, cfg.UX),
		objectivePane: NewObjectivePaneWithKeys(store, styles, cfg.Keys),
		helpOverlay:   NewHelpOverlay(styles, cfg.Keys),
		notifier:      cfg.Notifier,
		log:           log,
		keys:          NewGlobalKeyMap(cfg.Keys),
		helpKeys:      DefaultHelpKeyMap(),
	}

	app.setActivePane(startPane(cfg.UX.StartPane))
	return app
}

func startPane(name string) PaneID {
	switch name {
	case "stats":
		return PaneStats
	case "objective":
		return PaneObjective
	default:
		return PaneToday
	}
}

// SetWatch makes the app reload when the ledger changes on disk.
func (a *App) SetWatch(ch <-chan storage.ChangeEvent) {
	a.changes = ch
}

// Init initializes the app and loads the ledger asynchronously.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		loadLedgerCmd(a.storage),
		waitForChangeCmd(a.changes),
	)
}

// setLedger shares a freshly loaded ledger with every pane.
func (a *App) setLedger(l *ledger.Ledger) {
	if l == nil {
		return
	}
	a.ledger = l
	a.todayPane.SetLedger(l)
	a.statsPane.SetLedger(l)
	a.objectivePane.SetLedger(l)

	if a.notifier != nil {
		if _, err := a.notifier.Observe(l, a.storage.Today()); err != nil {
			a.log.Debug("objective notification failed", zap.Error(err))
		}
	}
}

// loadError reports err unless it only says the file was recovered, in
// which case the ledger is still usable and a warning is shown.
func (a *App) loadError(prefix string, err error) {
	if err == nil {
		return
	}
	var rec *storage.RecoveryError
	if errors.As(err, &rec) {
		a.log.Warn("ledger recovered", zap.Error(err))
		a.SetStatus("Ledger recovered: "+rec.Action, true)
		return
	}
	a.log.Error(prefix, zap.Error(err))
	a.SetStatus(prefix+": "+err.Error(), true)
}

// Update handles all messages and routes them appropriately.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Storage results first, regardless of which pane is active.
	switch msg := msg.(type) {
	case ledgerLoadedMsg:
		a.loadError("Load", msg.err)
		a.setLedger(msg.ledger)
		return a, nil

	case ledgerChangedMsg:
		a.loadError("Reload", msg.err)
		if msg.ledger != nil {
			a.setLedger(msg.ledger)
			a.SetStatus("Ledger updated outside the app", false)
		}
		return a, waitForChangeCmd(a.changes)

	case watchClosedMsg:
		a.changes = nil
		return a, nil

	case rolloverCheckedMsg:
		a.rolling = false
		a.loadError("Rollover", msg.err)
		if msg.ledger == nil {
			return a, nil
		}
		finished := a.ledger.CurrentDate
		a.setLedger(msg.ledger)
		if msg.rolled {
			a.onRollover(finished, msg.ledger.LastSum)
		}
		return a, nil

	case arrowsAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add: "+msg.err.Error(), true)
		} else {
			a.setLedger(msg.ledger)
			if msg.scored {
				a.SetStatus(fmt.Sprintf("+%d arrows, average %.1f (today %d)", msg.arrows, msg.avg, msg.ledger.CurrentSum), false)
			} else {
				a.SetStatus(fmt.Sprintf("+%d arrows (today %d)", msg.arrows, msg.ledger.CurrentSum), false)
			}
		}
		return a, a.todayPane.Update(msg)

	case undoneMsg:
		switch {
		case errors.Is(msg.err, ledger.ErrNothingToUndo):
			a.SetStatus("Nothing to undo", false)
		case msg.err != nil:
			a.SetStatus("Undo: "+msg.err.Error(), true)
		default:
			a.setLedger(msg.ledger)
			a.SetStatus(fmt.Sprintf("Removed %d arrows", msg.removed), false)
		}
		return a, nil

	case modeChangedMsg:
		if msg.err != nil {
			a.SetStatus("Mode: "+msg.err.Error(), true)
			return a, nil
		}
		a.setLedger(msg.ledger)
		if msg.ledger.ScoringMode {
			a.SetStatus("Scores mode: enter one score per arrow, e.g. 9,8,10", false)
		} else {
			a.SetStatus("Count mode: enter the number of arrows", false)
		}
		return a, a.todayPane.Update(msg)

	case objectiveSetMsg:
		cmd := a.objectivePane.Update(msg)
		if msg.err != nil {
			a.SetStatus("Objective: "+msg.err.Error(), true)
			return a, cmd
		}
		o := msg.objective
		a.SetStatus(fmt.Sprintf("Objective set: %d arrows this %s", o.Target, o.Period), false)
		return a, tea.Batch(cmd, loadLedgerCmd(a.storage))

	case objectiveStoppedMsg:
		switch {
		case msg.err != nil:
			a.SetStatus("Stop objective: "+msg.err.Error(), true)
		case msg.stopped:
			a.SetStatus("Objective stopped", false)
		default:
			a.SetStatus("No active objective", false)
		}
		return a, loadLedgerCmd(a.storage)

	case exportedMsg:
		if msg.err != nil {
			a.SetStatus("Export: "+msg.err.Error(), true)
		} else {
			a.SetStatus("Exported to "+msg.path, false)
		}
		return a, nil

	case importPreviewMsg:
		if msg.err != nil {
			a.SetStatus("Import: "+msg.err.Error(), true)
			return a, nil
		}
		apply := applyImportCmd(a.storage, msg.batch)
		warning := msg.batch.Warning()
		if (msg.overwrites > 0 || warning != "") && a.config.UX.ConfirmImport {
			body := fmt.Sprintf("%d existing days will be overwritten.", msg.overwrites)
			if warning != "" {
				body += "\n" + warning
			}
			a.confirm = &confirmState{
				title:  fmt.Sprintf("Import %d days?", len(msg.batch.Entries)),
				body:   body + "\n" + truncateText(msg.path, 56),
				action: "import",
				cmd:    apply,
			}
			return a, nil
		}
		return a, apply

	case importedMsg:
		if msg.err != nil {
			a.SetStatus("Import: "+msg.err.Error(), true)
			return a, nil
		}
		r := msg.result
		status := fmt.Sprintf("Imported %d days", r.Imported)
		if r.GapFilled > 0 {
			status += fmt.Sprintf(", %d gap days filled", r.GapFilled)
		}
		if r.Skipped > 0 {
			status += fmt.Sprintf(", %d rows skipped", r.Skipped)
		}
		a.SetStatus(status, false)
		return a, loadLedgerCmd(a.storage)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.confirm != nil {
			switch msg.String() {
			case "y", "Y", "enter":
				cmd := a.confirm.cmd
				a.confirm = nil
				return a, cmd
			case "n", "N", "esc":
				a.confirm = nil
				a.SetStatus("Canceled", false)
				return a, nil
			default:
				return a, nil
			}
		}

		// Help overlay takes priority
		if a.showHelp {
			if key.Matches(msg, a.helpKeys.Close) {
				a.showHelp = false
			}
			return a, nil
		}

		if !a.inInputMode() {
			if a.activePane == PaneObjective && key.Matches(msg, a.objectivePane.keys.Stop) {
				a.confirmStopObjective()
				return a, nil
			}

			switch {
			case key.Matches(msg, a.keys.Quit):
				a.quitting = true
				return a, tea.Quit

			case key.Matches(msg, a.keys.Help):
				a.showHelp = true
				return a, nil

			case key.Matches(msg, a.keys.NextPane):
				a.switchPane()
				return a, nil

			case key.Matches(msg, a.keys.Pane1):
				a.setActivePane(PaneToday)
				return a, nil

			case key.Matches(msg, a.keys.Pane2):
				a.setActivePane(PaneStats)
				return a, nil

			case key.Matches(msg, a.keys.Pane3):
				a.setActivePane(PaneObjective)
				return a, nil

			case key.Matches(msg, a.keys.Export):
				return a, exportCmd(a.storage, a.config.ExportDir, a.config.UX.CountLabel)

			case key.Matches(msg, a.keys.Import):
				a.setActivePane(PaneToday)
				return a, a.todayPane.StartImport()
			}
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tickMsg:
		if a.status != "" && !a.statusUntil.IsZero() && time.Now().After(a.statusUntil) {
			a.status = ""
			a.statusErr = false
			a.statusUntil = time.Time{}
		}
		cmds := []tea.Cmd{tickCmd()}
		if !a.rolling && a.storage.Today() != a.ledger.CurrentDate {
			a.rolling = true
			cmds = append(cmds, checkRolloverCmd(a.storage))
		}
		return a, tea.Batch(cmds...)
	}

	if a.showHelp {
		return a, nil
	}
	switch a.activePane {
	case PaneToday:
		return a, a.todayPane.Update(msg)
	case PaneStats:
		return a, a.statsPane.Update(msg)
	case PaneObjective:
		return a, a.objectivePane.Update(msg)
	}
	return a, nil
}

func (a *App) inInputMode() bool {
	return a.todayPane.IsAdding() || a.todayPane.IsImporting() || a.objectivePane.IsEditing()
}

// onRollover reports the day that just finished. Empty days stay quiet.
func (a *App) onRollover(finished ledger.Day, arrows int) {
	a.log.Info("day rolled over", zap.Stringer("finished", finished), zap.Int("arrows", arrows))
	if arrows <= 0 {
		return
	}
	a.SetStatus(fmt.Sprintf("New day: %s finished with %d arrows", finished.Display(), arrows), false)
	if a.notifier != nil {
		if _, err := a.notifier.Rollover(finished, arrows); err != nil {
			a.log.Debug("rollover notification failed", zap.Error(err))
		}
	}
}

func (a *App) confirmStopObjective() {
	st, ok := a.ledger.Status(a.storage.Today())
	if !ok {
		a.SetStatus("No active objective", true)
		return
	}
	a.confirm = &confirmState{
		title:  "Stop objective?",
		body:   fmt.Sprintf("%d arrows this %s, %d done so far.", st.Objective.Target, st.Objective.Period, st.Progress),
		action: "stop",
		cmd:    stopObjectiveCmd(a.storage),
	}
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}
	if a.confirm != nil {
		a.confirm = nil
		a.SetStatus("Canceled", false)
		return nil
	}
	if a.showHelp {
		a.showHelp = false
		return nil
	}
	if a.inInputMode() {
		return nil
	}

	// Narrow mode: the tab bar sits just above the content.
	if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
		tabWidth := a.width / 3
		switch {
		case msg.X < tabWidth:
			a.setActivePane(PaneToday)
		case msg.X < tabWidth*2:
			a.setActivePane(PaneStats)
		default:
			a.setActivePane(PaneObjective)
		}
		return nil
	}

	if msg.Y >= a.contentTop {
		if pane := a.paneAtPosition(msg.X); pane >= 0 {
			a.setActivePane(pane)
		}
	}
	return nil
}

func (a *App) switchPane() {
	switch a.activePane {
	case PaneToday:
		a.setActivePane(PaneStats)
	case PaneStats:
		a.setActivePane(PaneObjective)
	case PaneObjective:
		a.setActivePane(PaneToday)
	}
}

func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane

	a.todayPane.SetFocused(pane == PaneToday)
	a.statsPane.SetFocused(pane == PaneStats)
	a.objectivePane.SetFocused(pane == PaneObjective)
}

func (a *App) paneAtPosition(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		return a.activePane
	}

	if x >= a.todayPaneStart && x < a.todayPaneEnd {
		return PaneToday
	}
	if x >= a.statsPaneStart && x < a.statsPaneEnd {
		return PaneStats
	}
	if x >= a.objectivePaneStart && x < a.objectivePaneEnd {
		return PaneObjective
	}
	return -1
}

func (a *App) updateLayout() {
	// Title bar (1) + help bar (1) + pane borders (2)
	contentHeight := a.height - 4
	if contentHeight < 10 {
		contentHeight = 10
	}

	a.contentTop = 1

	a.helpOverlay.SetSize(a.width, a.height)

	// Account for borders and spacing
	totalWidth := a.width - 4

	threshold := a.config.UX.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = 80
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow

		// Tab bar takes one row
		narrowHeight := max(8, contentHeight-1)
		paneWidth := max(20, totalWidth)

		a.todayPane.SetSize(paneWidth, narrowHeight)
		a.statsPane.SetSize(paneWidth, narrowHeight)
		a.objectivePane.SetSize(paneWidth, narrowHeight)

		a.todayPaneStart, a.todayPaneEnd = 0, a.width
		a.statsPaneStart, a.statsPaneEnd = 0, a.width
		a.objectivePaneStart, a.objectivePaneEnd = 0, a.width
		a.contentTop = 2
		return
	}

	a.layoutMode = LayoutWide

	var todayWidth, statsWidth, objectiveWidth int
	if totalWidth < 120 {
		todayWidth = (totalWidth * 30) / 100
		statsWidth = (totalWidth * 40) / 100
		objectiveWidth = totalWidth - todayWidth - statsWidth - 2
	} else {
		todayWidth = min((totalWidth*30)/100, 45)
		statsWidth = min((totalWidth*42)/100, 80)
		objectiveWidth = min(totalWidth-todayWidth-statsWidth-2, 50)
	}

	a.todayPane.SetSize(todayWidth, contentHeight)
	a.statsPane.SetSize(statsWidth, contentHeight)
	a.objectivePane.SetSize(objectiveWidth, contentHeight)

	a.todayPaneStart = 0
	a.todayPaneEnd = todayWidth
	a.statsPaneStart = todayWidth + 1
	a.statsPaneEnd = a.statsPaneStart + statsWidth
	a.objectivePaneStart = a.statsPaneEnd + 1
	a.objectivePaneEnd = a.objectivePaneStart + objectiveWidth
}

// View renders the full application.
func (a *App) View() string {
	if a.quitting {
		return a.renderGoodbye()
	}

	if a.confirm != nil {
		return a.renderConfirm()
	}

	if a.showHelp {
		return a.helpOverlay.View()
	}

	var b strings.Builder

	b.WriteString(a.renderTitleBar())
	b.WriteString("\n")

	switch a.layoutMode {
	case LayoutNarrow:
		b.WriteString(a.renderNarrowContent())
	default:
		b.WriteString(a.renderWideContent())
	}
	b.WriteString("\n")

	b.WriteString(a.renderHelpBar())

	return b.String()
}

func (a *App) renderConfirm() string {
	overlayWidth := 60
	if a.width > 0 {
		overlayWidth = min(60, max(20, a.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(a.styles.ColorDanger).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(a.styles.ColorDanger).
		MarginBottom(1)

	bodyStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorText)

	hintStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var b strings.Builder
	b.WriteString(titleStyle.Render(a.confirm.title))
	b.WriteString("\n\n")
	b.WriteString(bodyStyle.Render(a.confirm.body))
	b.WriteString("\n\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("[y/enter] %s    [n/esc] cancel", a.confirm.action)))

	return RenderCentered(overlayStyle.Render(b.String()), a.width, a.height)
}

func (a *App) renderWideContent() string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		a.todayPane.View(), " ",
		a.statsPane.View(), " ",
		a.objectivePane.View(),
	)
}

func (a *App) renderNarrowContent() string {
	var b strings.Builder

	b.WriteString(a.renderPaneTabs())
	b.WriteString("\n")

	switch a.activePane {
	case PaneToday:
		b.WriteString(a.todayPane.View())
	case PaneStats:
		b.WriteString(a.statsPane.View())
	case PaneObjective:
		b.WriteString(a.objectivePane.View())
	}

	return b.String()
}

func (a *App) renderPaneTabs() string {
	tabs := []struct {
		id    PaneID
		label string
	}{
		{PaneToday, "Today"},
		{PaneStats, "Stats"},
		{PaneObjective, "Objective"},
	}

	activeTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorPrimary).
		Bold(true)
	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(a.styles.ColorTextMuted)

	var parts []string
	for _, tab := range tabs {
		label := tab.label
		if tab.id == a.activePane {
			label = activeTabStyle.Render("[" + label + "]")
		} else {
			label = inactiveTabStyle.Render(" " + label + " ")
		}
		parts = append(parts, label)
	}

	tabBar := strings.Join(parts, "  ")
	padding := (a.width - lipgloss.Width(tabBar)) / 2
	if padding > 0 {
		tabBar = strings.Repeat(" ", padding) + tabBar
	}

	return tabBar
}

func (a *App) renderGoodbye() string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  Good shooting!\n")
	b.WriteString("\n")
	if a.ledger.CurrentSum > 0 {
		b.WriteString(fmt.Sprintf("     Today: %d arrows\n", a.ledger.CurrentSum))
		if st, ok := a.ledger.Status(a.storage.Today()); ok {
			b.WriteString(fmt.Sprintf("     Objective: %d/%d (%.0f%%)\n", st.Progress, st.Objective.Target, st.Percent))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" quiver ")

	statsItems := []string{fmt.Sprintf("Today: %d", a.ledger.CurrentSum)}
	if st, ok := a.ledger.Status(a.storage.Today()); ok {
		statsItems = append(statsItems, fmt.Sprintf("%s: %d/%d",
			strings.ToUpper(st.Objective.Period.String()[:1])+st.Objective.Period.String()[1:],
			st.Progress, st.Objective.Target))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(statsItems, "  "))

	date := a.styles.DateStyle.Render(a.storage.Now().Format("Mon Jan 2 · 15:04"))

	usedWidth := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(date)
	spacerWidth := max(2, a.width-usedWidth-4)

	return title + "  " + stats + strings.Repeat(" ", spacerWidth) + date
}

func (a *App) renderHelpBar() string {
	if a.status != "" {
		if a.statusErr {
			return a.styles.ErrorStyle.Render(a.status)
		}
		return a.styles.StatusStyle.Render(a.status)
	}

	if a.todayPane.IsAdding() || a.todayPane.IsImporting() {
		return a.styles.RenderHelp(
			"enter", "save",
			"esc", "cancel",
		)
	}

	if a.objectivePane.IsEditing() {
		return a.styles.RenderHelp(
			"←/→", "period",
			"enter", "save",
			"esc", "cancel",
		)
	}

	switch a.activePane {
	case PaneToday:
		return a.styles.RenderHelp(
			"a", "add",
			"u", "undo",
			"m", "mode",
			"e", "export",
			"i", "import",
			"tab", "pane",
			"?", "help",
		)
	case PaneStats:
		return a.styles.RenderHelp(
			"p", "period",
			"←/→", "navigate",
			"c", "chart",
			"tab", "pane",
			"?", "help",
		)
	case PaneObjective:
		return a.styles.RenderHelp(
			"n", "new",
			"x", "stop",
			"tab", "pane",
			"?", "help",
		)
	}

	return ""
}

// SetStatus shows msg in the help bar for a few seconds; errors stay longer.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status = msg
	a.statusErr = isErr
	ttl := 5 * time.Second
	if isErr {
		ttl = 8 * time.Second
	}
	a.statusUntil = time.Now().Add(ttl)
}

// truncateText shortens text to maxLen display cells.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}

// Run starts the full-screen UI and blocks until the user quits. The file
// watcher lives as long as the program.
func Run(store *storage.Storage, styles *Styles, cfg *AppConfig) error {
	app := NewApp(store, styles, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if ch, err := store.Watch(ctx); err != nil {
		app.log.Warn("ledger watcher unavailable", zap.Error(err))
	} else {
		app.SetWatch(ch)
	}

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(), // Enable mouse support
	)
	_, err := p.Run()
	return err
}
