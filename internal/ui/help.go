package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"quiver/internal/config"
)

// HelpOverlay renders a help screen
type HelpOverlay struct {
	width  int
	height int
	styles *Styles

	global    GlobalKeyMap
	today     TodayKeyMap
	stats     StatsKeyMap
	objective ObjectiveKeyMap
	input     InputKeyMap
}

// NewHelpOverlay creates a new help overlay listing the given key bindings.
func NewHelpOverlay(styles *Styles, keyCfg *config.KeysConfig) *HelpOverlay {
	return &HelpOverlay{
		styles:    styles,
		global:    NewGlobalKeyMap(keyCfg),
		today:     NewTodayKeyMap(keyCfg),
		stats:     NewStatsKeyMap(keyCfg),
		objective: NewObjectiveKeyMap(keyCfg),
		input:     NewInputKeyMap(keyCfg),
	}
}

// SetSize sets the overlay dimensions
func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// View renders the help overlay
func (h *HelpOverlay) View() string {
	overlayWidth := 60
	if h.width > 0 {
		overlayWidth = min(60, max(20, h.width-4))
	}

	overlayStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(h.styles.ColorPrimary).
		Padding(1, 2).
		Width(overlayWidth)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorPrimary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(h.styles.ColorAccent).
		MarginTop(1)

	mutedStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorTextMuted).
		Italic(true)

	var b strings.Builder

	b.WriteString(titleStyle.Render(helpTitle(overlayWidth - 4)))
	b.WriteString("\n\n")

	g := h.global
	h.section(&b, sectionStyle, "Global",
		g.NextPane, g.Pane1, g.Pane2, g.Pane3, g.Export, g.Import, g.Help, g.Quit)
	h.section(&b, sectionStyle, "Today", h.today.Add, h.today.Undo, h.today.Mode)
	h.section(&b, sectionStyle, "Stats", h.stats.Period, h.stats.Prev, h.stats.Next, h.stats.ChartStyle)
	h.section(&b, sectionStyle, "Objective", h.objective.New, h.objective.Stop)
	h.section(&b, sectionStyle, "Input Mode", h.input.Confirm, h.input.Cancel)

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	content := overlayStyle.Render(b.String())

	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)
}

// helpTitle fits the overlay title on one line of width columns, dropping
// the app name before truncating.
func helpTitle(width int) string {
	title := "🏹 quiver - Keyboard Shortcuts"
	if lipgloss.Width(title) > width {
		title = "Keyboard Shortcuts"
	}
	return truncateText(title, width)
}

// section writes a titled list of bindings, one per line.
func (h *HelpOverlay) section(b *strings.Builder, title lipgloss.Style, name string, bindings ...key.Binding) {
	keyStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorWarning).
		Width(12)
	descStyle := lipgloss.NewStyle().
		Foreground(h.styles.ColorText)

	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(title.Render(name))
	b.WriteString("\n")
	for _, kb := range bindings {
		help := kb.Help()
		b.WriteString(keyStyle.Render(help.Key) + descStyle.Render(help.Desc) + "\n")
	}
}

// RenderCentered centers content in the terminal
func RenderCentered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
