package reports

import (
	"fmt"
	"strings"
)

const barWidth = 30

// FormatMarkdown renders a period report as Markdown with a text bar per
// day, suitable for a terminal or a notes file.
func FormatMarkdown(report *PeriodReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", report.Label)
	if report.Start != nil && report.End != nil {
		fmt.Fprintf(&sb, "%s to %s\n\n", report.Start.Display(), report.End.Display())
	}

	s := report.Stats
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Total: %d arrows\n", s.Total)
	fmt.Fprintf(&sb, "- Daily average: %.1f\n", s.Average)
	fmt.Fprintf(&sb, "- Days with arrows: %d/%d\n", s.ActiveDays, s.Days)
	fmt.Fprintf(&sb, "- Best day: %d\n", s.Max)

	t := report.Today
	sb.WriteString("\n## Today\n\n")
	fmt.Fprintf(&sb, "- %s: %d arrows (previous day %d)\n", t.Date.Display(), t.Arrows, t.LastSum)
	if t.ScoredArrows > 0 {
		fmt.Fprintf(&sb, "- Average score: %.1f over %d arrows\n", t.AverageScore, t.ScoredArrows)
	}

	if o := report.Objective; o != nil {
		sb.WriteString("\n## Objective\n\n")
		fmt.Fprintf(&sb, "- %s objective: %d/%d arrows (%.0f%%)\n", o.Period, o.Progress, o.Target, o.Percent)
		if !o.Pace.Ended {
			fmt.Fprintf(&sb, "- %d days left, %d per day\n", o.Pace.DaysRemaining, o.Pace.DailyTarget)
		}
		fmt.Fprintf(&sb, "- %s\n", o.Message)
	}

	if len(report.Days) > 0 {
		sb.WriteString("\n## Days\n\n```\n")
		for _, d := range report.Days {
			fmt.Fprintf(&sb, "%s %5d %s\n", d.Date.Display(), d.Arrows, bar(d.Arrows, s.Max, barWidth))
		}
		sb.WriteString("```\n")
	}

	return sb.String()
}

// bar scales v against max into at most width blocks. Non-zero values get
// at least one block.
func bar(v, max, width int) string {
	if v <= 0 || max <= 0 {
		return ""
	}
	n := v * width / max
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
