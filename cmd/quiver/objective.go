package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"quiver/internal/ledger"
)

func newObjectiveCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "objective",
		Aliases: []string{"obj"},
		Short:   "Show, set or stop the arrow objective",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showObjective(cmd, opts)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show progress toward the objective",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return showObjective(cmd, opts)
			},
		},
		&cobra.Command{
			Use:     "set <week|month|year> <arrows>",
			Short:   "Start a new objective for the current period",
			Example: "  quiver objective set week 300",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := ledger.ParsePeriod(args[0])
				if err != nil {
					return err
				}
				if !p.Bounded() {
					return fmt.Errorf("%w: objectives need week, month or year", ledger.ErrInvalidPeriod)
				}
				target, err := strconv.Atoi(strings.TrimSpace(args[1]))
				if err != nil || target <= 0 {
					return ledger.ErrInvalidTarget
				}

				e, err := opts.open(false)
				if err != nil {
					return err
				}
				defer e.close()

				o, err := e.store.SetObjective(p, target)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "✓ Objective set: %d arrows this %s (%s – %s)\n",
					o.Target, o.Period, o.Start.Display(), o.End.Display())
				if per := ledger.PreviewPerDay(p, target, e.store.Today()); per > 0 {
					fmt.Fprintf(out, "  about %d per day\n", per)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "stop",
			Short: "Stop the active objective",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				e, err := opts.open(false)
				if err != nil {
					return err
				}
				defer e.close()

				stopped, err := e.store.StopObjective()
				if err != nil {
					return err
				}
				if !stopped {
					fmt.Fprintln(cmd.OutOrStdout(), "No active objective.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Objective stopped")
				return nil
			},
		},
	)
	return cmd
}

func showObjective(cmd *cobra.Command, opts *rootOptions) error {
	e, err := opts.open(false)
	if err != nil {
		return err
	}
	defer e.close()

	l, err := e.load(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st, ok := l.Status(e.store.Today())
	if !ok {
		fmt.Fprintln(out, "No active objective. Set one with: quiver objective set week 300")
		return nil
	}
	printObjective(out, st)
	return nil
}
