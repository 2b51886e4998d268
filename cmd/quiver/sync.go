package main

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"quiver/internal/config"
	"quiver/internal/storage"
	gitsync "quiver/internal/sync"
)

func newSyncCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync the ledger with a git remote",
		Long: `Keep the data directory in a git repository and share it through a remote.

Running "quiver sync" commits the ledger and pushes it when a remote is
configured. With sync enabled in the config, every change is committed
automatically with a message like "Add 36 arrows".`,
		Example: `  quiver sync init
  quiver sync remote git@github.com:me/arrows.git
  quiver sync`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, git, err := openGit(opts)
			if err != nil {
				return err
			}
			if !git.IsRepo() {
				return gitsync.ErrNotRepo
			}
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Committing changes...")
			ctx := storage.SaveContext{Filename: storage.LedgerFile, Operation: "sync"}
			if err := git.Commit([]string{storage.LedgerFile}, ctx); err != nil {
				return err
			}

			st, err := git.Status()
			if err != nil {
				return err
			}
			if !st.HasRemote {
				fmt.Fprintln(out, "Changes committed locally.")
				fmt.Fprintln(out, "(No remote configured - add one with 'quiver sync remote <url>')")
				return nil
			}
			fmt.Fprintln(out, "Pushing to remote...")
			if err := git.Push(); err != nil {
				fmt.Fprintln(out, "Changes committed locally.")
				return err
			}
			fmt.Fprintln(out, "Sync complete.")
			if !cfg.Sync.Enabled {
				fmt.Fprintln(out, "Tip: set sync.enabled in the config to commit every change automatically.")
			}
			return nil
		},
	}

	cmd.AddCommand(
		newSyncInitCmd(opts),
		newSyncStatusCmd(opts),
		&cobra.Command{
			Use:   "pull",
			Short: "Pull the latest ledger from the remote",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, git, err := openGit(opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Pulling latest changes...")
				if err := git.Pull(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Pull complete.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "push",
			Short: "Push local commits to the remote",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, git, err := openGit(opts)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Pushing local changes...")
				if err := git.Push(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Push complete.")
				return nil
			},
		},
		&cobra.Command{
			Use:   "remote <url>",
			Short: "Set the origin remote",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				_, git, err := openGit(opts)
				if err != nil {
					return err
				}
				if err := git.AddRemote("origin", args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Remote 'origin' set to %s\n", args[0])
				return nil
			},
		},
	)
	return cmd
}

// openGit returns a GitSync for the data directory whether or not sync is
// enabled. Commits made here are pushed explicitly, never automatically.
func openGit(opts *rootOptions) (*config.Config, *gitsync.GitSync, error) {
	if !gitsync.IsGitInstalled() {
		return nil, nil, errors.New("git is not installed")
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	syncCfg := cfg.Sync
	syncCfg.AutoPush = false
	return cfg, gitsync.New(cfg.GetDataDir(), &syncCfg), nil
}

func newSyncInitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a git repository in the data directory and enable sync",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, git, err := openGit(opts)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			dataDir := cfg.GetDataDir()

			if git.IsRepo() {
				fmt.Fprintf(out, "Git repository already initialized in %s\n", dataDir)
			} else {
				fmt.Fprintf(out, "Initializing git repository in %s...\n", dataDir)
				// Creates the directory and an empty ledger for the first commit.
				if _, err := storage.New(dataDir); err != nil {
					return err
				}
				if err := git.Init(); err != nil {
					return err
				}
				fmt.Fprintln(out, "✓ Repository initialized")
			}

			if !cfg.Sync.Enabled {
				if err := opts.enableSync(); err != nil {
					return err
				}
				fmt.Fprintln(out, "✓ Sync enabled in config")
			}

			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next step: add a remote repository:")
			fmt.Fprintln(out, "  quiver sync remote <your-repo-url>")
			return nil
		},
	}
}

func newSyncStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show git sync status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, git, err := openGit(opts)
			if err != nil {
				return err
			}
			st, err := git.Status()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Git Sync Status")
			fmt.Fprintln(out, "───────────────")
			if cfg.Sync.Enabled {
				fmt.Fprintln(out, "Sync:       enabled")
			} else {
				fmt.Fprintln(out, "Sync:       disabled")
			}
			fmt.Fprintf(out, "Data dir:   %s\n", cfg.GetDataDir())

			if !st.IsRepo {
				fmt.Fprintln(out, "Repository: not initialized")
				fmt.Fprintln(out)
				fmt.Fprintln(out, "Run 'quiver sync init' to initialize.")
				return nil
			}
			fmt.Fprintln(out, "Repository: initialized")
			fmt.Fprintf(out, "Branch:     %s\n", st.Branch)

			if st.HasRemote {
				fmt.Fprintf(out, "Remote:     %s (%s)\n", st.RemoteName, st.RemoteURL)
				if st.Ahead > 0 || st.Behind > 0 {
					fmt.Fprintf(out, "Status:     %d ahead, %d behind\n", st.Ahead, st.Behind)
				} else {
					fmt.Fprintln(out, "Status:     up to date")
				}
			} else {
				fmt.Fprintln(out, "Remote:     not configured")
			}

			if st.HasChanges {
				fmt.Fprintln(out, "Changes:    uncommitted changes present")
			} else {
				fmt.Fprintln(out, "Changes:    clean")
			}
			if st.LastCommitAt != nil {
				fmt.Fprintf(out, "Last commit: %s\n", humanize.Time(*st.LastCommitAt))
			}
			return nil
		},
	}
}
