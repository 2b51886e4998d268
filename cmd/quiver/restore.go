package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"quiver/internal/backup"
	"quiver/internal/storage"
)

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	var (
		latest bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "restore [backup]",
		Short: "Restore the ledger from a backup",
		Long: `Replace the ledger with a snapshot made by "quiver backup".

The snapshot is checked before anything is written, and the current ledger
is backed up first so a restore can itself be undone.`,
		Example: `  quiver restore --latest
  quiver restore 2024-03-14_183000 --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.open(false)
			if err != nil {
				return err
			}
			defer e.close()

			manager := backup.NewManager(e.cfg.GetDataDir(), version)
			out := cmd.OutOrStdout()

			var name string
			switch {
			case latest:
				backups, err := manager.List()
				if err != nil {
					return fmt.Errorf("listing backups: %w", err)
				}
				if len(backups) == 0 {
					return backup.ErrNoBackups
				}
				name = backups[0].Name
			case len(args) == 1:
				name = args[0]
			default:
				return errors.New("no backup specified; use 'quiver restore BACKUP_NAME' or 'quiver restore --latest'\n" +
					"Run 'quiver backup --list' to see available backups.")
			}

			info, err := manager.Get(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			fmt.Fprintf(out, "  Created: %s (%s)\n", info.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(info.CreatedAt))
			fmt.Fprintf(out, "  Days: %d, Arrows: %d\n\n", info.Days, info.Arrows)

			if !force {
				fmt.Fprintln(out, "⚠ This will overwrite your current ledger.")
				ok, err := confirm(cmd, "Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Restore canceled.")
					return nil
				}
			}

			safety, err := manager.Restore(name)
			if err != nil {
				return fmt.Errorf("restoring backup: %w", err)
			}
			fmt.Fprintf(out, "✓ Safety backup: %s\n", safety)
			fmt.Fprintf(out, "✓ Restored successfully from %s\n", name)

			if e.git != nil && e.cfg.Sync.AutoCommit && e.git.IsRepo() {
				ctx := storage.SaveContext{Filename: storage.LedgerFile, Operation: "restore", Detail: name}
				if err := e.git.Commit([]string{storage.LedgerFile}, ctx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: sync commit failed: %v\n", err)
				}
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&latest, "latest", false, "restore the most recent backup")
	flags.BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}
