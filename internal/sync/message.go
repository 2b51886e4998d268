package sync

import (
	"fmt"
	"strings"

	"quiver/internal/storage"
)

const fallbackMessage = "Update practice ledger"

// CommitMessage builds the commit message for a batch of saves. A template
// other than "auto" or empty is used verbatim.
//
// Examples: "Add 12 arrows", "Day rollover: 72 arrows on 2024-03-13",
// "Add 30 arrows (3 saves)".
func CommitMessage(template string, contexts []storage.SaveContext) string {
	if template != "" && template != "auto" {
		return template
	}
	switch len(contexts) {
	case 0:
		return fallbackMessage
	case 1:
		return describe(contexts[0])
	}

	// A burst of adds collapses into one total.
	total, adds := 0, true
	for _, ctx := range contexts {
		if ctx.Operation != "add" && ctx.Operation != "scores" {
			adds = false
			break
		}
		total += ctx.Arrows
	}
	if adds {
		return fmt.Sprintf("Add %s (%d saves)", arrows(total), len(contexts))
	}

	parts := make([]string, 0, len(contexts))
	for _, ctx := range contexts {
		parts = append(parts, describe(ctx))
	}
	return fmt.Sprintf("Update practice ledger: %d changes\n\n- %s", len(contexts), strings.Join(parts, "\n- "))
}

// describe renders one save.
func describe(ctx storage.SaveContext) string {
	switch ctx.Operation {
	case "add":
		return "Add " + arrows(ctx.Arrows)
	case "scores":
		msg := fmt.Sprintf("Add %d scored %s", ctx.Arrows, plural(ctx.Arrows, "arrow"))
		if ctx.Detail != "" {
			msg += " (" + ctx.Detail + ")"
		}
		return msg
	case "undo":
		return "Undo " + arrows(ctx.Arrows)
	case "rollover":
		if ctx.Detail != "" {
			return fmt.Sprintf("Day rollover: %s on %s", arrows(ctx.Arrows), ctx.Detail)
		}
		return "Day rollover: " + arrows(ctx.Arrows)
	case "mode":
		return fmt.Sprintf("Switch to %s mode", ctx.Detail)
	case "objective":
		return fmt.Sprintf("Set %s objective: %s", ctx.Detail, arrows(ctx.Arrows))
	case "stop":
		return fmt.Sprintf("Stop %s objective", ctx.Detail)
	case "import":
		return fmt.Sprintf("Import %d %s", ctx.Arrows, plural(ctx.Arrows, "day"))
	case "restore":
		return "Restore backup " + ctx.Detail
	case "":
		return fallbackMessage
	default:
		if ctx.Detail != "" {
			return fmt.Sprintf("%s ledger: %s", capitalizeFirst(ctx.Operation), ctx.Detail)
		}
		return capitalizeFirst(ctx.Operation) + " ledger"
	}
}

func arrows(n int) string {
	return fmt.Sprintf("%d %s", n, plural(n, "arrow"))
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
