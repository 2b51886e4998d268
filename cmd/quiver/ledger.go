package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"quiver/internal/ledger"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <arrows>",
		Short: "Add arrows to today",
		Example: `  quiver add 36
  quiver add 12`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ledger.ParseCount(args[0])
			if err != nil {
				return err
			}

			e, err := opts.open(false)
			if err != nil {
				return err
			}
			defer e.close()

			l, err := e.store.AddCount(n)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ +%d arrows (today %d)\n", n, l.CurrentSum)
			return nil
		},
	}
}

func newScoresCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scores <score>...",
		Short: "Add one arrow per score",
		Long: `Add one arrow per score, 0 to 10. Scores may be given as separate
arguments or as one comma separated list.`,
		Example: `  quiver scores 9 8 10 7
  quiver scores 9,8,10,7`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, ",")
			if _, err := ledger.ParseScores(input); err != nil {
				return err
			}

			e, err := opts.open(false)
			if err != nil {
				return err
			}
			defer e.close()

			batch, l, err := e.store.AddScores(input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ +%d arrows, avg %.1f (today %d, overall avg %.2f)\n",
				batch.Arrows(), batch.Average(), l.CurrentSum, l.AverageScore())
			return nil
		},
	}
}

func newUndoCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Reverse the last add",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open(false)
			if err != nil {
				return err
			}
			defer e.close()

			n, l, err := e.store.Undo()
			if errors.Is(err, ledger.ErrNothingToUndo) {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to undo.")
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d arrows (today %d)\n", n, l.CurrentSum)
			return nil
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show today's count and objective progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.open(false)
			if err != nil {
				return err
			}
			defer e.close()

			l, err := e.load(cmd)
			if err != nil {
				return err
			}
			printStatus(cmd.OutOrStdout(), l, e.store.Now())
			return nil
		},
	}
}

func printStatus(w io.Writer, l *ledger.Ledger, now time.Time) {
	fmt.Fprintf(w, "Today (%s): %d arrows\n", l.CurrentDate.Display(), l.CurrentSum)
	fmt.Fprintf(w, "Previous day: %d arrows\n", l.LastSum)
	fmt.Fprintf(w, "Total: %d arrows\n", l.TotalArrows())
	if l.ScoringMode || l.ScoreCount > 0 {
		fmt.Fprintf(w, "Average score: %.2f over %d arrows\n", l.AverageScore(), l.ScoreCount)
	}
	fmt.Fprintf(w, "Mode: %s\n", modeName(l.ScoringMode))
	fmt.Fprintf(w, "Day running for: %s\n", l.Elapsed(now).Truncate(time.Minute))

	st, ok := l.Status(ledger.DayOf(now))
	if !ok {
		fmt.Fprintln(w, "\nNo active objective.")
		return
	}
	fmt.Fprint(w, "\nObjective: ")
	printObjective(w, st)
}

func printObjective(w io.Writer, st ledger.ObjectiveStatus) {
	o := st.Objective
	fmt.Fprintf(w, "%d arrows this %s (%s – %s)\n", o.Target, o.Period, o.Start.Display(), o.End.Display())
	fmt.Fprintf(w, "Progress: %d/%d (%.0f%%)\n", st.Progress, o.Target, st.Percent)
	if !st.Pace.Ended {
		fmt.Fprintf(w, "Days left: %d\n", st.Pace.DaysRemaining)
	}
	if !st.Reached {
		fmt.Fprintf(w, "Still needed: %d\n", st.Pace.Needed)
	}
	fmt.Fprintln(w, st.Message)
}

func modeName(scoring bool) string {
	if scoring {
		return "scores"
	}
	return "count"
}

func newModeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "mode [count|scores]",
		Short:     "Show or switch the input mode",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"count", "scores"},
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(false)
			if err != nil {
				return err
			}
			defer e.close()

			if len(args) == 0 {
				l, err := e.load(cmd)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Mode: %s\n", modeName(l.ScoringMode))
				return nil
			}

			if _, err := e.store.SetScoringMode(args[0] == "scores"); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Mode set to %s\n", args[0])
			return nil
		},
	}
}
