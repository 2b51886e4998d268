package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"quiver/internal/exporter"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger to CSV or SQLite",
		Long: `Export every recorded day, today included, to a file.

CSV files have a Date and count column and can be imported back.
SQLite files hold a days table plus the current state, for ad-hoc queries.`,
		Example: `  quiver export
  quiver export -f sqlite -o practice.db
  quiver export -o - > arrows.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			e, err := opts.open(false)
			if err != nil {
				return err
			}
			defer e.close()

			exp := exporter.GetExporter(format, exporter.Options{CountLabel: e.cfg.UX.CountLabel})
			if exp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)",
					format, strings.Join(exporter.SupportedFormats(), ", "))
			}

			l, err := e.load(cmd)
			if err != nil {
				return err
			}

			if output == "-" {
				csvExp, ok := exp.(*exporter.CSVExporter)
				if !ok {
					return fmt.Errorf("%s export cannot be written to stdout", exp.Name())
				}
				return csvExp.Write(cmd.OutOrStdout(), l)
			}

			path := output
			if path == "" {
				dir := e.cfg.GetExportDir()
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("creating export directory: %w", err)
				}
				path = filepath.Join(dir, exporter.DefaultFileName(exp, e.store.Now()))
			}

			if err := exp.Export(cmd.Context(), l, path); err != nil {
				return fmt.Errorf("exporting: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d days to %s\n", len(l.Records()), path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "csv", "export format: "+strings.Join(exporter.SupportedFormats(), ", "))
	flags.StringVarP(&output, "output", "o", "", `output file, "-" for stdout (csv only)`)
	return cmd
}
