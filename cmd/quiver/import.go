package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"quiver/internal/importer"
)

const (
	previewRows = 20
	errorRows   = 10
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		dryRun bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import daily arrow counts from CSV",
		Long: `Import a CSV of daily arrow counts, e.g. one written by "quiver export".

Each row is a date and a count. Dates may be dd/mm/yyyy, mm/dd/yyyy or
yyyy-mm-dd; an ambiguous date such as 03/01/2024 is read day first. A
header row is optional. Days missing between the first and last imported
date are written as zero. Imported days replace what the ledger has for
them; you are asked before any existing day is overwritten, or when the
dates span more than a year.`,
		Example: `  quiver import arrows.csv --dry-run
  quiver import arrows.csv --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imp := importer.GetImporter(strings.ToLower(format))
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)",
					format, strings.Join(importer.SupportedFormats(), ", "))
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			batch, err := imp.Preview(file)
			if err != nil {
				return fmt.Errorf("parsing file: %w", err)
			}

			out := cmd.OutOrStdout()
			if batch.Empty() {
				printImportErrors(out, batch.Errors)
				return fmt.Errorf("no valid rows in %s", args[0])
			}

			e, err := opts.open(false)
			if err != nil {
				return err
			}
			defer e.close()

			l, err := e.load(cmd)
			if err != nil {
				return err
			}
			overwrites := batch.Overwrites(l)

			fmt.Fprintf(out, "%d days from %s to %s (%d rows, %d gap days, %d skipped)\n",
				len(batch.Entries), batch.First.Display(), batch.Last.Display(),
				batch.Rows, batch.GapFilled, batch.Skipped)
			if overwrites > 0 {
				fmt.Fprintf(out, "%d existing days will be overwritten.\n", overwrites)
			}
			warning := batch.Warning()
			if warning != "" {
				fmt.Fprintf(out, "⚠ Warning: %s\n", warning)
			}

			if dryRun {
				days := batch.Days()
				fmt.Fprintln(out, "────────────────────────────")
				for i, d := range days {
					if i == previewRows {
						fmt.Fprintf(out, "... and %d more\n", len(days)-previewRows)
						break
					}
					fmt.Fprintf(out, "  %s  %d\n", d.Date.Display(), d.Arrows)
				}
				printImportErrors(out, batch.Errors)
				fmt.Fprintln(out, "\nRun without --dry-run to import.")
				return nil
			}

			if (overwrites > 0 || warning != "") && !force {
				ok, err := confirm(cmd, "Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Canceled.")
					return nil
				}
			}

			result, err := importer.Apply(batch, e.store)
			if err != nil {
				return fmt.Errorf("importing: %w", err)
			}

			fmt.Fprintf(out, "✓ Imported %d days", result.Imported)
			if result.GapFilled > 0 {
				fmt.Fprintf(out, ", %d gap days filled", result.GapFilled)
			}
			if result.Overwritten > 0 {
				fmt.Fprintf(out, ", %d overwritten", result.Overwritten)
			}
			fmt.Fprintln(out)
			if result.Skipped > 0 {
				fmt.Fprintf(out, "  %d rows skipped\n", result.Skipped)
				printImportErrors(out, result.Errors)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "csv", "import format: "+strings.Join(importer.SupportedFormats(), ", "))
	flags.BoolVar(&dryRun, "dry-run", false, "preview import without making changes")
	flags.BoolVar(&force, "force", false, "overwrite existing days without asking")
	return cmd
}

func printImportErrors(w io.Writer, errs []string) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSkipped rows:")
	for i, msg := range errs {
		if i == errorRows {
			fmt.Fprintf(w, "  ... and %d more\n", len(errs)-errorRows)
			break
		}
		fmt.Fprintf(w, "  %s\n", msg)
	}
}
