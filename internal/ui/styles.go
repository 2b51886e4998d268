package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"quiver/internal/config"
)

// Default theme: amber on slate, like a target face's gold ring.
const (
	defaultPrimary    = "#D97706"
	defaultAccent     = "#10B981"
	defaultMuted      = "#6B7280"
	defaultWarning    = "#F59E0B"
	defaultBackground = "#1F2937"
	defaultText       = "#F9FAFB"
)

// Styles is the rendered theme. Panes read colors and styles from it and
// never build their own palette.
type Styles struct {
	ColorPrimary   lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorDanger    lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorBg        lipgloss.Color
	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color

	// Frame
	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style
	HelpStyle        lipgloss.Style
	HelpKeyStyle     lipgloss.Style
	StatusStyle      lipgloss.Style
	ErrorStyle       lipgloss.Style

	// Today pane
	CountStyle       lipgloss.Style
	ModeStyle        lipgloss.Style
	ElapsedStyle     lipgloss.Style
	HistoryStyle     lipgloss.Style
	TodayRowStyle    lipgloss.Style
	RawRowStyle      lipgloss.Style
	InputPromptStyle lipgloss.Style
	PreviewStyle     lipgloss.Style

	// Stats and objective panes
	ChartBarStyle   lipgloss.Style
	ChartLineStyle  lipgloss.Style
	ChartAxisStyle  lipgloss.Style
	PeriodLabel     lipgloss.Style
	ProgressFull    lipgloss.Style
	ProgressEmpty   lipgloss.Style
	StatLabelStyle  lipgloss.Style
	StatValueStyle  lipgloss.Style
	GoalReachedIcon string
	GoalPendingIcon string
}

// NewStyles builds styles from the config theme.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme builds styles from theme. Empty colors fall back to
// the default theme; danger and success are fixed.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{
		ColorPrimary:   pick(theme.Primary, defaultPrimary),
		ColorAccent:    pick(theme.Accent, defaultAccent),
		ColorMuted:     pick(theme.Muted, defaultMuted),
		ColorWarning:   pick(theme.Warning, defaultWarning),
		ColorDanger:    lipgloss.Color("#EF4444"),
		ColorSuccess:   lipgloss.Color("#10B981"),
		ColorBg:        pick(theme.Background, defaultBackground),
		ColorText:      pick(theme.Text, defaultText),
		ColorTextMuted: lipgloss.Color("#9CA3AF"),
	}
	s.buildFrame()
	s.buildToday()
	s.buildStats()
	return s
}

func pick(hex, fallback string) lipgloss.Color {
	if hex == "" {
		return lipgloss.Color(fallback)
	}
	return lipgloss.Color(hex)
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func (s *Styles) buildFrame() {
	pane := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

	s.TitleStyle = fg(s.ColorText).Background(s.ColorPrimary).Bold(true).Padding(0, 1)
	s.DateStyle = fg(s.ColorTextMuted)
	s.PaneStyle = pane.BorderForeground(s.ColorMuted)
	s.PaneFocusedStyle = pane.BorderForeground(s.ColorPrimary)
	s.PaneTitleStyle = fg(s.ColorPrimary).Bold(true).MarginBottom(1)
	s.HelpStyle = fg(s.ColorTextMuted)
	s.HelpKeyStyle = fg(s.ColorAccent).Bold(true)
	s.StatusStyle = fg(s.ColorSuccess).Italic(true)
	s.ErrorStyle = fg(s.ColorDanger).Bold(true)
}

func (s *Styles) buildToday() {
	s.CountStyle = fg(s.ColorPrimary).Bold(true)
	s.ModeStyle = fg(s.ColorBg).Background(s.ColorAccent).Padding(0, 1)
	s.ElapsedStyle = fg(s.ColorAccent)
	s.HistoryStyle = fg(s.ColorText)
	s.TodayRowStyle = fg(s.ColorPrimary).Bold(true)
	s.RawRowStyle = fg(s.ColorWarning).Italic(true)
	s.InputPromptStyle = fg(s.ColorPrimary).Bold(true)
	s.PreviewStyle = fg(s.ColorTextMuted).Italic(true)
}

func (s *Styles) buildStats() {
	s.ChartBarStyle = fg(s.ColorSuccess)
	s.ChartLineStyle = fg(s.ColorAccent)
	s.ChartAxisStyle = fg(s.ColorTextMuted)
	s.PeriodLabel = fg(s.ColorAccent).Bold(true)
	s.ProgressFull = fg(s.ColorSuccess)
	s.ProgressEmpty = fg(s.ColorMuted)
	s.StatLabelStyle = fg(s.ColorTextMuted)
	s.StatValueStyle = fg(s.ColorText).Bold(true)
	s.GoalReachedIcon = fg(s.ColorSuccess).Render("●")
	s.GoalPendingIcon = fg(s.ColorWarning).Render("○")
}

// RenderHelp renders key/description pairs as "[a] add  [u] undo".
func (s *Styles) RenderHelp(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(s.HelpKeyStyle.Render("[" + pairs[i] + "]"))
		b.WriteString(" ")
		b.WriteString(s.HelpStyle.Render(pairs[i+1]))
	}
	return b.String()
}
