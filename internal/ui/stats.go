package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"quiver/internal/config"
	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// statsPeriods is the order the period key cycles through.
var statsPeriods = []ledger.Period{
	ledger.PeriodWeek,
	ledger.PeriodMonth,
	ledger.PeriodYear,
	ledger.PeriodAll,
}

// StatsPane shows totals and a chart for one period window.
type StatsPane struct {
	ledger      *ledger.Ledger
	focused     bool
	width       int
	height      int
	period      ledger.Period
	offset      int
	chartStyle  string
	chartHeight int
	storage     *storage.Storage
	styles      *Styles

	// Key bindings
	keys StatsKeyMap
}

// NewStatsPane creates a new stats pane.
func NewStatsPane(store *storage.Storage, styles *Styles) *StatsPane {
	return NewStatsPaneWithConfig(store, styles, &config.KeysConfig{}, nil)
}

// NewStatsPaneWithConfig creates a stats pane with custom key bindings and
// chart settings. A nil ux uses the defaults.
func NewStatsPaneWithConfig(store *storage.Storage, styles *Styles, keyCfg *config.KeysConfig, ux *config.UXConfig) *StatsPane {
	if keyCfg == nil {
		keyCfg = &config.KeysConfig{}
	}
	if ux == nil {
		ux = &config.Default().UX
	}
	style := ux.ChartStyle
	if style != ChartLine {
		style = ChartBar
	}
	return &StatsPane{
		ledger:      ledger.New(store.Now()),
		period:      ledger.PeriodWeek,
		chartStyle:  style,
		chartHeight: ux.ChartHeight,
		storage:     store,
		styles:      styles,
		keys:        NewStatsKeyMap(keyCfg),
	}
}

// SetLedger replaces the ledger shown by the pane.
func (p *StatsPane) SetLedger(l *ledger.Ledger) {
	if l != nil {
		p.ledger = l
	}
}

// SetSize sets the pane dimensions.
func (p *StatsPane) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// SetFocused sets whether this pane is focused.
func (p *StatsPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsFocused returns whether this pane is focused.
func (p *StatsPane) IsFocused() bool {
	return p.focused
}

// Period returns the selected period and offset.
func (p *StatsPane) Period() (ledger.Period, int) {
	return p.period, p.offset
}

// CyclePeriod moves to the next period tab and resets the offset.
func (p *StatsPane) CyclePeriod() {
	for i, period := range statsPeriods {
		if period == p.period {
			p.period = statsPeriods[(i+1)%len(statsPeriods)]
			break
		}
	}
	p.offset = 0
}

// CanGoBack reports whether an earlier window exists for the period.
func (p *StatsPane) CanGoBack() bool {
	return p.period.Bounded()
}

// CanGoForward reports whether a later window exists; the current period
// is the latest.
func (p *StatsPane) CanGoForward() bool {
	return p.period.Bounded() && p.offset < 0
}

// Prev steps one window back.
func (p *StatsPane) Prev() {
	if p.CanGoBack() {
		p.offset--
	}
}

// Next steps one window forward, never past the current one.
func (p *StatsPane) Next() {
	if p.CanGoForward() {
		p.offset = ledger.ClampOffset(p.offset + 1)
	}
}

// ToggleChart switches between bar and line charts.
func (p *StatsPane) ToggleChart() {
	if p.chartStyle == ChartBar {
		p.chartStyle = ChartLine
	} else {
		p.chartStyle = ChartBar
	}
}

// Update handles messages for the stats pane.
func (p *StatsPane) Update(msg tea.Msg) tea.Cmd {
	if !p.focused {
		return nil
	}
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, p.keys.Period):
			p.CyclePeriod()
		case key.Matches(msg, p.keys.Prev):
			p.Prev()
		case key.Matches(msg, p.keys.Next):
			p.Next()
		case key.Matches(msg, p.keys.ChartStyle):
			p.ToggleChart()
		}
	}
	return nil
}

// days returns the records of the selected window.
func (p *StatsPane) days() []ledger.DayRecord {
	return ledger.FilterByPeriod(p.ledger.Snapshot(), p.period, p.offset, p.storage.Today())
}

// View renders the stats pane.
func (p *StatsPane) View() string {
	var b strings.Builder
	today := p.storage.Today()

	b.WriteString(p.styles.PaneTitleStyle.Render("📊 STATS"))
	b.WriteString("\n")
	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	b.WriteString(p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth)))
	b.WriteString("\n\n")

	b.WriteString("  " + p.renderTabs())
	b.WriteString("\n")

	prev, next := " ", " "
	if p.CanGoBack() {
		prev = "◀"
	}
	if p.CanGoForward() {
		next = "▶"
	}
	label := ledger.Describe(p.period, p.offset, today)
	b.WriteString("  " + p.styles.ChartAxisStyle.Render(prev) + " " +
		p.styles.PeriodLabel.Render(label) + " " + p.styles.ChartAxisStyle.Render(next))
	b.WriteString("\n")
	if p.period.Bounded() {
		start, end := ledger.Window(p.period, p.offset, today)
		b.WriteString("  " + p.styles.StatLabelStyle.Render(start.Display()+" – "+end.Display()))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	days := p.days()
	st := ledger.Summarize(days)
	b.WriteString(p.statLine("Total", fmt.Sprintf("%d arrows", st.Total)))
	b.WriteString(p.statLine("Daily average", fmt.Sprintf("%.1f arrows/day", st.Average)))
	b.WriteString(p.statLine("Days with arrows", fmt.Sprintf("%d/%d", st.ActiveDays, st.Days)))
	b.WriteString(p.statLine("Best day", fmt.Sprintf("%d arrows", st.Max)))
	b.WriteString("\n")

	height := p.chartHeight
	if height <= 0 {
		height = 10
	}
	if p.height > 0 {
		// 12 rows above the chart, 2 below for the axis and labels.
		height = max(2, min(height, p.height-16))
	}
	chartWidth := max(10, p.width-6)
	cols := chartColumns(days, chartWidth-4)
	for _, line := range strings.Split(renderChart(cols, p.chartStyle, chartWidth, height, p.styles), "\n") {
		b.WriteString("  " + line + "\n")
	}

	content := b.String()
	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(content)
}

func (p *StatsPane) statLine(label, value string) string {
	return "  " + p.styles.StatLabelStyle.Render(fmt.Sprintf("%-17s", label+":")) +
		p.styles.StatValueStyle.Render(value) + "\n"
}

func (p *StatsPane) renderTabs() string {
	parts := make([]string, 0, len(statsPeriods))
	for _, period := range statsPeriods {
		name := strings.ToUpper(period.String()[:1]) + period.String()[1:]
		if period == p.period {
			parts = append(parts, p.styles.PeriodLabel.Render("["+name+"]"))
		} else {
			parts = append(parts, p.styles.StatLabelStyle.Render(" "+name+" "))
		}
	}
	return strings.Join(parts, " ")
}
