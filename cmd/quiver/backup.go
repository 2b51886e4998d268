package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"quiver/internal/backup"
)

func newBackupCmd(opts *rootOptions) *cobra.Command {
	var (
		list  bool
		prune int
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and manage backups",
		Long: `Create a timestamped snapshot of the ledger in <data dir>/backups.
Snapshots can be brought back with "quiver restore".`,
		Example: `  quiver backup
  quiver backup --list
  quiver backup --prune 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			manager := backup.NewManager(cfg.GetDataDir(), version)
			out := cmd.OutOrStdout()

			switch {
			case list:
				backups, err := manager.List()
				if err != nil {
					return fmt.Errorf("listing backups: %w", err)
				}
				if len(backups) == 0 {
					fmt.Fprintln(out, "No backups available.")
					fmt.Fprintln(out, "Run 'quiver backup' to create one.")
					return nil
				}
				fmt.Fprintln(out, "Available backups:")
				for _, b := range backups {
					fmt.Fprintf(out, "  %s  (%s)   Days: %d, Arrows: %d\n",
						b.Name, humanize.Time(b.CreatedAt), b.Days, b.Arrows)
				}
				return nil

			case cmd.Flags().Changed("prune"):
				deleted, err := manager.Prune(prune)
				if err != nil {
					return fmt.Errorf("pruning backups: %w", err)
				}
				fmt.Fprintf(out, "✓ Deleted %d old backups, kept the newest %d\n", deleted, prune)
				return nil
			}

			name, err := manager.Create()
			if err != nil {
				return fmt.Errorf("creating backup: %w", err)
			}
			info, err := manager.Get(name)
			if err != nil {
				return fmt.Errorf("reading backup info: %w", err)
			}
			fmt.Fprintf(out, "✓ Backup created: %s\n", name)
			fmt.Fprintf(out, "  Days: %d, Arrows: %d\n", info.Days, info.Arrows)
			fmt.Fprintf(out, "  Location: %s\n", info.Path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&list, "list", "l", false, "list available backups")
	flags.IntVar(&prune, "prune", 0, "delete all but the newest N backups")
	cmd.MarkFlagsMutuallyExclusive("list", "prune")
	return cmd
}
