package ui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"quiver/internal/ledger"
)

// Chart styles accepted in config.
const (
	ChartBar  = "bar"
	ChartLine = "line"
)

// column is one x position of a chart: a single day, or several days
// summed when the window is wider than the pane.
type column struct {
	label string
	value int
}

// chartColumns fits days into at most width columns.
func chartColumns(days []ledger.DayRecord, width int) []column {
	if len(days) == 0 {
		return nil
	}
	if width <= 0 || width > len(days) {
		width = len(days)
	}
	size := (len(days) + width - 1) / width

	cols := make([]column, 0, width)
	for i := 0; i < len(days); i += size {
		end := min(i+size, len(days))
		c := column{label: shortDate(days[i].Date)}
		for _, d := range days[i:end] {
			c.value += d.Arrows
		}
		cols = append(cols, c)
	}
	return cols
}

// shortDate formats a day as dd/MM for axis labels.
func shortDate(d ledger.Day) string {
	return fmt.Sprintf("%02d/%02d", d.Day, int(d.Month))
}

// renderChart draws cols as a bar or line chart of the given height that
// fits in width cells, y axis included.
func renderChart(cols []column, style string, width, height int, s *Styles) string {
	if len(cols) == 0 {
		return s.StatLabelStyle.Render("No data")
	}
	if height < 2 {
		height = 2
	}

	peak := 0
	for _, c := range cols {
		peak = max(peak, c.value)
	}
	axisWidth := len(fmt.Sprintf("%d", peak))
	plotWidth := max(len(cols), width-axisWidth-2)
	colWidth := max(1, plotWidth/len(cols))

	var grid [][]rune
	if style == ChartLine {
		grid = lineGrid(cols, peak, height)
	} else {
		grid = barGrid(cols, peak, height)
	}

	plot := s.ChartBarStyle
	if style == ChartLine {
		plot = s.ChartLineStyle
	}

	var b strings.Builder
	for row, cells := range grid {
		tick := ""
		switch row {
		case 0:
			tick = fmt.Sprintf("%d", peak)
		case height - 1:
			tick = "0"
		}
		b.WriteString(s.ChartAxisStyle.Render(fmt.Sprintf("%*s ┤", axisWidth, tick)))

		var line strings.Builder
		for _, r := range cells {
			line.WriteString(widen(r, colWidth))
		}
		b.WriteString(plot.Render(line.String()))
		b.WriteString("\n")
	}

	span := colWidth * len(cols)
	b.WriteString(s.ChartAxisStyle.Render(strings.Repeat(" ", axisWidth+1) + "└" + strings.Repeat("─", span)))
	b.WriteString("\n")
	b.WriteString(s.ChartAxisStyle.Render(strings.Repeat(" ", axisWidth+2) + axisLabels(cols, span)))
	return b.String()
}

// widen repeats a cell across a column, leaving a gap between wide bars.
func widen(r rune, w int) string {
	if w <= 2 {
		return strings.Repeat(string(r), w)
	}
	return strings.Repeat(string(r), w-1) + " "
}

// barGrid fills each column from the bottom, using a half block for the
// last partial row.
func barGrid(cols []column, peak, height int) [][]rune {
	grid := make([][]rune, height)
	for row := range grid {
		grid[row] = make([]rune, len(cols))
		level := height - row // 1 at the bottom row
		for i, c := range cols {
			grid[row][i] = ' '
			if peak == 0 {
				continue
			}
			// Compare in half rows to avoid float rounding.
			halves := c.value * height * 2 / peak
			switch {
			case halves >= level*2:
				grid[row][i] = '█'
			case halves == level*2-1:
				grid[row][i] = '▄'
			}
		}
	}
	return grid
}

// lineGrid marks each column's value and joins neighbours with vertical
// strokes.
func lineGrid(cols []column, peak, height int) [][]rune {
	grid := make([][]rune, height)
	for row := range grid {
		grid[row] = []rune(strings.Repeat(" ", len(cols)))
	}
	prev := -1
	for i, c := range cols {
		level := 0
		if peak > 0 {
			level = (c.value*(height-1)*2 + peak) / (peak * 2)
		}
		row := height - 1 - level
		if prev >= 0 {
			lo, hi := min(prev, row), max(prev, row)
			for r := lo + 1; r < hi; r++ {
				grid[r][i] = '│'
			}
		}
		grid[row][i] = '●'
		prev = row
	}
	return grid
}

// axisLabels puts the first and last column labels at either end of the x
// axis, and the middle one when there is room.
func axisLabels(cols []column, span int) string {
	first := cols[0].label
	if len(cols) == 1 {
		return first
	}
	last := cols[len(cols)-1].label
	gap := span - runewidth.StringWidth(first) - runewidth.StringWidth(last)
	if gap < 1 {
		return runewidth.Truncate(first, span, "")
	}

	mid := cols[len(cols)/2].label
	midWidth := runewidth.StringWidth(mid)
	if len(cols) > 2 && gap >= midWidth+4 {
		left := (gap - midWidth) / 2
		return first + strings.Repeat(" ", left) + mid + strings.Repeat(" ", gap-midWidth-left) + last
	}
	return first + strings.Repeat(" ", gap) + last
}
