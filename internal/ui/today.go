package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"quiver/internal/config"
	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// inputRunes are the characters the arrow input accepts: digits for counts,
// plus separators and decimal points for score lists.
const inputRunes = "0123456789,. "

// TodayPane shows today's running total and takes new arrows.
type TodayPane struct {
	ledger      *ledger.Ledger
	focused     bool
	width       int
	height      int
	adding      bool
	importing   bool
	input       textinput.Model
	pathInput   textinput.Model
	storage     *storage.Storage
	styles      *Styles
	historyDays int
	countLabel  string

	// Key bindings
	keys      TodayKeyMap
	inputKeys InputKeyMap
}

// NewTodayPane creates a new today pane.
func NewTodayPane(store *storage.Storage, styles *Styles) *TodayPane {
	return NewTodayPaneWithConfig(store, styles, &config.KeysConfig{}, nil)
}

// NewTodayPaneWithConfig creates a today pane with custom key bindings and
// display settings. A nil ux uses the defaults.
func NewTodayPaneWithConfig(store *storage.Storage, styles *Styles, keyCfg *config.KeysConfig, ux *config.UXConfig) *TodayPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	if ux == nil {
		ux = &config.Default().UX
	}

	ti := textinput.New()
	ti.Placeholder = "12"
	ti.CharLimit = 200
	ti.Width = 30

	pi := textinput.New()
	pi.Placeholder = "path/to/arrows.csv"
	pi.CharLimit = 500
	pi.Width = 30

	return &TodayPane{
		ledger:      ledger.New(store.Now()),
		input:       ti,
		pathInput:   pi,
		storage:     store,
		styles:      styles,
		historyDays: ux.HistoryDays,
		countLabel:  ux.CountLabel,
		keys:        NewTodayKeyMap(keyCfg),
		inputKeys:   NewInputKeyMap(keyCfg),
	}
}

// SetLedger replaces the ledger shown by the pane.
func (p *TodayPane) SetLedger(l *ledger.Ledger) {
	if l != nil {
		p.ledger = l
		p.updatePlaceholder()
	}
}

// SetSize sets the pane dimensions.
func (p *TodayPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.input.Width = max(10, width-12)
	p.pathInput.Width = max(10, width-12)
}

// SetFocused sets whether this pane is focused.
func (p *TodayPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *TodayPane) IsFocused() bool {
	return p.focused
}

// IsAdding returns whether the arrow input is open.
func (p *TodayPane) IsAdding() bool {
	return p.adding
}

// IsImporting returns whether the import path prompt is open.
func (p *TodayPane) IsImporting() bool {
	return p.importing
}

// StartImport opens the import path prompt.
func (p *TodayPane) StartImport() tea.Cmd {
	p.adding = false
	p.input.Blur()
	p.importing = true
	p.pathInput.Reset()
	p.pathInput.Focus()
	return textinput.Blink
}

func (p *TodayPane) startAdding() tea.Cmd {
	p.adding = true
	p.input.Reset()
	p.updatePlaceholder()
	p.input.Focus()
	return textinput.Blink
}

func (p *TodayPane) stopAdding() {
	p.adding = false
	p.input.Reset()
	p.input.Blur()
}

func (p *TodayPane) updatePlaceholder() {
	if p.ledger.ScoringMode {
		p.input.Placeholder = "9,8,10,7"
	} else {
		p.input.Placeholder = "12"
	}
}

// Update handles messages for the today pane.
func (p *TodayPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case arrowsAddedMsg:
		// Keep the input open for the next end; drop what was sent.
		if msg.err == nil {
			p.input.Reset()
		}
		return nil
	case modeChangedMsg:
		p.updatePlaceholder()
		return nil
	}

	if p.importing {
		return p.updateImport(msg)
	}
	if p.adding {
		return p.updateAdding(msg)
	}

	if !p.focused {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, p.keys.Add):
			return p.startAdding()
		case key.Matches(msg, p.keys.Undo):
			return undoCmd(p.storage)
		case key.Matches(msg, p.keys.Mode):
			return setModeCmd(p.storage, !p.ledger.ScoringMode)
		}
	}
	return nil
}

func (p *TodayPane) updateAdding(msg tea.Msg) tea.Cmd {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return cmd
	}

	switch {
	case key.Matches(km, p.inputKeys.Confirm):
		value := p.input.Value()
		if strings.TrimSpace(value) == "" {
			p.stopAdding()
			return nil
		}
		if p.ledger.ScoringMode {
			return addScoresCmd(p.storage, value)
		}
		return addCountCmd(p.storage, value)

	case key.Matches(km, p.inputKeys.Cancel):
		p.stopAdding()
		return nil
	}

	if !acceptsKey(km) {
		return nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *TodayPane) updateImport(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, p.inputKeys.Confirm):
			path := strings.TrimSpace(p.pathInput.Value())
			p.importing = false
			p.pathInput.Blur()
			if path == "" {
				return nil
			}
			return previewImportCmd(p.storage, path)

		case key.Matches(km, p.inputKeys.Cancel):
			p.importing = false
			p.pathInput.Reset()
			p.pathInput.Blur()
			return nil
		}
	}
	var cmd tea.Cmd
	p.pathInput, cmd = p.pathInput.Update(msg)
	return cmd
}

// acceptsKey filters typed characters down to inputRunes. Editing keys such
// as backspace and the arrows pass through.
func acceptsKey(msg tea.KeyMsg) bool {
	if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
		return true
	}
	for _, r := range msg.Runes {
		if !strings.ContainsRune(inputRunes, r) {
			return false
		}
	}
	return true
}

// View renders the today pane.
func (p *TodayPane) View() string {
	var b strings.Builder
	l := p.ledger
	now := p.storage.Now()

	b.WriteString(p.styles.PaneTitleStyle.Render("🎯 TODAY"))
	b.WriteString("\n")
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", p.separatorWidth())))
	b.WriteString("\n\n")

	mode := "count"
	if l.ScoringMode {
		mode = "scores"
	}
	b.WriteString("  " + p.styles.ModeStyle.Render(mode))
	b.WriteString("  " + p.styles.StatLabelStyle.Render("since reset ") +
		p.styles.ElapsedStyle.Render(formatDuration(l.Elapsed(now))))
	b.WriteString("\n\n")

	b.WriteString("  " + p.styles.CountStyle.Render(fmt.Sprintf("%d", l.CurrentSum)))
	b.WriteString(" " + p.styles.StatLabelStyle.Render(strings.ToLower(p.label())))
	b.WriteString("\n")
	b.WriteString("  " + p.styles.StatLabelStyle.Render("Yesterday: ") +
		p.styles.StatValueStyle.Render(fmt.Sprintf("%d", l.LastSum)))
	b.WriteString("\n")
	if l.ScoringMode && l.ScoreCount > 0 {
		b.WriteString("  " + p.styles.StatLabelStyle.Render("Average score: ") +
			p.styles.StatValueStyle.Render(fmt.Sprintf("%.1f", l.AverageScore())) +
			p.styles.StatLabelStyle.Render(fmt.Sprintf(" (%d scored)", l.ScoreCount)))
		b.WriteString("\n")
	}

	lines := 9
	if p.adding {
		b.WriteString("\n")
		b.WriteString("  " + p.styles.InputPromptStyle.Render("Add: ") + p.input.View())
		b.WriteString("\n")
		if preview := p.preview(); preview != "" {
			b.WriteString("  " + p.styles.PreviewStyle.Render(preview))
			b.WriteString("\n")
			lines++
		}
		lines += 2
	}
	if p.importing {
		b.WriteString("\n")
		b.WriteString("  " + p.styles.InputPromptStyle.Render("Import: ") + p.pathInput.View())
		b.WriteString("\n")
		lines += 2
	}

	b.WriteString("\n")
	b.WriteString("  " + p.styles.StatLabelStyle.Render("History"))
	b.WriteString("\n")
	b.WriteString(p.renderHistory(p.historyRows(lines + 2)))

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(content)
}

// preview describes what the current input would add.
func (p *TodayPane) preview() string {
	value := p.input.Value()
	if strings.TrimSpace(value) == "" {
		return ""
	}
	if !p.ledger.ScoringMode {
		n, err := ledger.ParseCount(value)
		if err != nil {
			return err.Error()
		}
		return fmt.Sprintf("→ %d arrows today", p.ledger.CurrentSum+n)
	}
	batch, err := ledger.ParseScores(value)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%d arrows, average %.1f", batch.Arrows(), batch.Average())
}

// historyRows is how many history lines fit under the header.
func (p *TodayPane) historyRows(used int) int {
	rows := p.historyDays
	if rows <= 0 {
		rows = 30
	}
	if p.height > 0 {
		rows = min(rows, max(1, p.height-used))
	}
	return rows
}

// renderHistory lists recorded days newest first, then any stored entries
// whose date could not be read.
func (p *TodayPane) renderHistory(limit int) string {
	var b strings.Builder
	dateWidth := runewidth.StringWidth("00/00/0000 (today)")
	for _, rec := range p.ledger.Recent(limit) {
		label := rec.Date.Display()
		style := p.styles.HistoryStyle
		if rec.Date == p.ledger.CurrentDate {
			label += " (today)"
			style = p.styles.TodayRowStyle
		}
		b.WriteString("    " + style.Render(runewidth.FillRight(label, dateWidth)))
		b.WriteString(p.styles.StatValueStyle.Render(fmt.Sprintf("%6d", rec.Arrows)))
		b.WriteString("\n")
	}
	for _, raw := range p.ledger.Unparsed {
		label := runewidth.Truncate(raw.Date, dateWidth, "..")
		b.WriteString("    " + p.styles.RawRowStyle.Render(runewidth.FillRight(label, dateWidth)))
		b.WriteString(p.styles.StatValueStyle.Render(fmt.Sprintf("%6d", raw.Arrows)))
		b.WriteString("\n")
	}
	return b.String()
}

func (p *TodayPane) label() string {
	if p.countLabel == "" {
		return "Arrows"
	}
	return p.countLabel
}

func (p *TodayPane) separatorWidth() int {
	w := p.width - 4
	if w < 10 {
		w = 30
	}
	return w
}

// formatDuration formats a duration as HH:MM:SS.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
