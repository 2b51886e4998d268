package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"quiver/internal/config"
	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// objectivePeriods are the periods an objective can span.
var objectivePeriods = []ledger.Period{
	ledger.PeriodWeek,
	ledger.PeriodMonth,
	ledger.PeriodYear,
}

// ObjectivePane shows progress toward the active objective and edits it.
type ObjectivePane struct {
	ledger  *ledger.Ledger
	focused bool
	width   int
	height  int
	editing bool
	period  ledger.Period
	input   textinput.Model
	storage *storage.Storage
	styles  *Styles

	// Key bindings
	keys      ObjectiveKeyMap
	inputKeys InputKeyMap
}

// NewObjectivePane creates a new objective pane.
func NewObjectivePane(store *storage.Storage, styles *Styles) *ObjectivePane {
	return NewObjectivePaneWithKeys(store, styles, &config.KeysConfig{})
}

// NewObjectivePaneWithKeys creates a new objective pane with custom key bindings.
func NewObjectivePaneWithKeys(store *storage.Storage, styles *Styles, keyCfg *config.KeysConfig) *ObjectivePane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	ti := textinput.New()
	ti.Placeholder = "Target arrows"
	ti.CharLimit = 7
	ti.Width = 20

	return &ObjectivePane{
		ledger:    ledger.New(store.Now()),
		period:    ledger.PeriodWeek,
		input:     ti,
		storage:   store,
		styles:    styles,
		keys:      NewObjectiveKeyMap(keyCfg),
		inputKeys: NewInputKeyMap(keyCfg),
	}
}

// SetLedger replaces the ledger shown by the pane.
func (p *ObjectivePane) SetLedger(l *ledger.Ledger) {
	if l != nil {
		p.ledger = l
	}
}

// SetSize sets the pane dimensions.
func (p *ObjectivePane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-14)
}

// SetFocused sets whether this pane is focused.
func (p *ObjectivePane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *ObjectivePane) IsFocused() bool {
	return p.focused
}

// IsEditing returns whether the new objective form is open.
func (p *ObjectivePane) IsEditing() bool {
	return p.editing
}

// HasActive reports whether an objective is running.
func (p *ObjectivePane) HasActive() bool {
	return p.ledger.ActiveObjective() != nil
}

func (p *ObjectivePane) startEditing() tea.Cmd {
	p.editing = true
	if o := p.ledger.ActiveObjective(); o != nil {
		p.period = o.Period
	}
	p.input.Reset()
	p.input.Focus()
	return textinput.Blink
}

func (p *ObjectivePane) stopEditing() {
	p.editing = false
	p.input.Reset()
	p.input.Blur()
}

// shiftPeriod moves the form's period selection by delta, staying in range.
func (p *ObjectivePane) shiftPeriod(delta int) {
	for i, period := range objectivePeriods {
		if period == p.period {
			j := min(max(i+delta, 0), len(objectivePeriods)-1)
			p.period = objectivePeriods[j]
			return
		}
	}
}

// Update handles messages for the objective pane.
func (p *ObjectivePane) Update(msg tea.Msg) tea.Cmd {
	if msg, ok := msg.(objectiveSetMsg); ok {
		if msg.err == nil {
			p.stopEditing()
		}
		return nil
	}

	if p.editing {
		km, ok := msg.(tea.KeyMsg)
		if !ok {
			var cmd tea.Cmd
			p.input, cmd = p.input.Update(msg)
			return cmd
		}
		switch {
		case key.Matches(km, p.inputKeys.Confirm):
			return setObjectiveCmd(p.storage, p.period, p.input.Value())
		case key.Matches(km, p.inputKeys.Cancel):
			p.stopEditing()
			return nil
		case key.Matches(km, p.keys.Prev):
			p.shiftPeriod(-1)
			return nil
		case key.Matches(km, p.keys.Next):
			p.shiftPeriod(1)
			return nil
		}
		if km.Type == tea.KeyRunes && !allDigits(km.Runes) {
			return nil
		}
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	if !p.focused {
		return nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, p.keys.New) {
			return p.startEditing()
		}
	}
	return nil
}

func allDigits(rs []rune) bool {
	for _, r := range rs {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// View renders the objective pane.
func (p *ObjectivePane) View() string {
	var b strings.Builder
	today := p.storage.Today()

	b.WriteString(p.styles.PaneTitleStyle.Render("🏹 OBJECTIVE"))
	b.WriteString("\n")
	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n\n")

	if p.editing {
		b.WriteString(p.renderForm(today))
	} else if st, ok := p.ledger.Status(today); ok {
		b.WriteString(p.renderStatus(st))
	} else {
		b.WriteString("  " + p.styles.StatLabelStyle.Render("No active objective"))
		b.WriteString("\n\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render("Press n to set one"))
		b.WriteString("\n")
	}

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(content)
}

func (p *ObjectivePane) renderStatus(st ledger.ObjectiveStatus) string {
	var b strings.Builder
	o := st.Objective

	icon := p.styles.GoalPendingIcon
	if st.Reached {
		icon = p.styles.GoalReachedIcon
	}
	b.WriteString(fmt.Sprintf("  %s %s\n", icon,
		p.styles.PeriodLabel.Render(fmt.Sprintf("%d arrows this %s", o.Target, o.Period))))
	b.WriteString("  " + p.styles.StatLabelStyle.Render(o.Start.Display()+" – "+o.End.Display()))
	b.WriteString("\n\n")

	b.WriteString("  " + p.renderProgressBar(st.Percent))
	b.WriteString("\n")
	b.WriteString("  " + p.styles.StatValueStyle.Render(fmt.Sprintf("%d/%d", st.Progress, o.Target)) +
		p.styles.StatLabelStyle.Render(fmt.Sprintf(" (%.0f%%)", st.Percent)))
	b.WriteString("\n\n")

	if !st.Pace.Ended {
		b.WriteString("  " + p.styles.StatLabelStyle.Render("Days left: ") +
			p.styles.StatValueStyle.Render(fmt.Sprintf("%d", st.Pace.DaysRemaining)))
		b.WriteString("\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render("Still needed: ") +
			p.styles.StatValueStyle.Render(fmt.Sprintf("%d", st.Pace.Needed)))
		b.WriteString("\n\n")
	}

	msgStyle := p.styles.StatusStyle
	if st.Pace.Ended && !st.Reached {
		msgStyle = p.styles.ErrorStyle
	}
	b.WriteString("  " + msgStyle.Render(st.Message))
	b.WriteString("\n")
	return b.String()
}

func (p *ObjectivePane) renderProgressBar(percent float64) string {
	width := max(10, min(40, p.width-10))
	filled := int(percent / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return p.styles.ProgressFull.Render(strings.Repeat("█", filled)) +
		p.styles.ProgressEmpty.Render(strings.Repeat("░", width-filled))
}

func (p *ObjectivePane) renderForm(today ledger.Day) string {
	var b strings.Builder

	b.WriteString("  " + p.styles.StatLabelStyle.Render("Period: "))
	for i, period := range objectivePeriods {
		if i > 0 {
			b.WriteString(" ")
		}
		if period == p.period {
			b.WriteString(p.styles.PeriodLabel.Render("[" + period.String() + "]"))
		} else {
			b.WriteString(p.styles.StatLabelStyle.Render(" " + period.String() + " "))
		}
	}
	b.WriteString("\n")
	start, end := ledger.Window(p.period, 0, today)
	b.WriteString("  " + p.styles.StatLabelStyle.Render(start.Display()+" – "+end.Display()))
	b.WriteString("\n\n")

	b.WriteString("  " + p.styles.InputPromptStyle.Render("Target: ") + p.input.View())
	b.WriteString("\n")
	if n, err := ledger.ParseCount(p.input.Value()); err == nil {
		perDay := ledger.PreviewPerDay(p.period, n, today)
		b.WriteString("  " + p.styles.PreviewStyle.Render(fmt.Sprintf("about %d per day", perDay)))
		b.WriteString("\n")
	}
	if p.HasActive() {
		b.WriteString("\n")
		b.WriteString("  " + p.styles.StatLabelStyle.Render("Replaces the current objective"))
		b.WriteString("\n")
	}
	return b.String()
}
