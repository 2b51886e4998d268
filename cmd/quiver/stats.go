package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"quiver/internal/fsutil"
	"quiver/internal/ledger"
	"quiver/internal/reports"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	var (
		offset int
		format string
		asJSON bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "stats [week|month|year|all]",
		Short: "Summarize a period of practice",
		Long: `Summarize the arrows shot in a week, month, year or the whole ledger.
Use --offset to look back: --offset -1 is the previous period.`,
		Example: `  quiver stats
  quiver stats month --offset -1
  quiver stats year --json -o year.json`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"week", "month", "year", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			period := ledger.PeriodWeek
			if len(args) == 1 {
				p, err := ledger.ParsePeriod(args[0])
				if err != nil {
					return err
				}
				period = p
			}
			if asJSON {
				format = "json"
			}

			e, err := opts.open(false)
			if err != nil {
				return err
			}
			defer e.close()

			report, err := reports.NewGenerator(e.store).GeneratePeriod(period, offset)
			if err != nil {
				return fmt.Errorf("generating report: %w", err)
			}

			var data []byte
			switch strings.ToLower(format) {
			case "json":
				if data, err = reports.FormatJSON(report); err != nil {
					return err
				}
				data = append(data, '\n')
			case "markdown", "md", "":
				data = []byte(reports.FormatMarkdown(report))
			default:
				return fmt.Errorf("unknown format %q (want markdown or json)", format)
			}

			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := fsutil.WriteFileAtomic(output, data, 0o644); err != nil {
				return fmt.Errorf("writing report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Report written to %s\n", output)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&offset, "offset", 0, "periods back from the current one (0 or negative)")
	flags.StringVarP(&format, "format", "f", "markdown", "output format: markdown or json")
	flags.BoolVar(&asJSON, "json", false, "shorthand for --format json")
	flags.StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}
