// Package main is the entry point for the quiver application.
// It loads configuration, initializes storage, and starts the TUI or runs
// one of the subcommands.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiver/internal/notify"
	"quiver/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const longHelp = `quiver keeps a ledger of the arrows you shoot, one running total per day.

Run without a command to open the dashboard: today's count, period stats
with a chart, and progress toward a weekly, monthly or yearly objective.

KEYBINDINGS:
    Global:
        Tab          Switch between panes
        1, 2, 3      Jump to specific pane
        e / i        Export / import CSV
        ?            Show help overlay
        q            Quit

    Today Pane:
        a, Enter     Add arrows (a count, or scores like 9,8,10)
        u            Undo last add
        m            Switch count/scores mode

    Stats Pane:
        p            Cycle week/month/year/all
        ←/→, h/l     Previous / next period
        c            Bar or line chart

    Objective Pane:
        n            New objective
        x            Stop objective

DATA STORAGE:
    Everything lives in ~/.quiver/ledger.json.

CONFIGURATION:
    Optional config file: ~/.config/quiver/config.yaml`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// rootOptions holds the persistent flags every command shares.
type rootOptions struct {
	configPath string
	dataDir    string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "quiver",
		Short:         "Archery practice ledger for your terminal",
		Long:          longHelp,
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(opts)
		},
	}
	root.SetVersionTemplate(versionText())

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/quiver/config.yaml)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides config)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newAddCmd(opts),
		newScoresCmd(opts),
		newUndoCmd(opts),
		newStatusCmd(opts),
		newModeCmd(opts),
		newStatsCmd(opts),
		newObjectiveCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newBackupCmd(opts),
		newRestoreCmd(opts),
		newSyncCmd(opts),
		newVersionCmd(),
	)
	return root
}

func versionText() string {
	return fmt.Sprintf("quiver version %s\n  commit: %s\n  built:  %s\n", version, commit, date)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			io.WriteString(cmd.OutOrStdout(), versionText())
		},
	}
}

// runTUI opens the full-screen dashboard.
func runTUI(opts *rootOptions) error {
	e, err := opts.open(true)
	if err != nil {
		return err
	}
	defer e.close()

	appCfg := &ui.AppConfig{
		Keys:      &e.cfg.Keys,
		UX:        &e.cfg.UX,
		ExportDir: e.cfg.GetExportDir(),
		Notifier:  notify.NewPractice(notify.New(), e.cfg.Notifications),
		Logger:    e.log,
	}

	e.log.Info("starting", zap.String("version", version), zap.String("data_dir", e.cfg.GetDataDir()))
	if err := ui.Run(e.store, ui.NewStyles(e.cfg), appCfg); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}
