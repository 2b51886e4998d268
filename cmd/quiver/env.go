package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"quiver/internal/config"
	"quiver/internal/ledger"
	"quiver/internal/logging"
	"quiver/internal/storage"
	gitsync "quiver/internal/sync"
)

// env is everything a command needs to work on the ledger.
type env struct {
	cfg   *config.Config
	store *storage.Storage
	log   *zap.Logger
	git   *gitsync.GitSync // nil unless sync is enabled and git is installed
}

func (o *rootOptions) configFile() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.Path()
}

// loadConfig reads the config file and applies flag overrides.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFile(o.configFile())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	return cfg, nil
}

// enableSync turns sync on in the config file. The file is re-read so flag
// overrides are not written back.
func (o *rootOptions) enableSync() error {
	path := o.configFile()
	cfg, err := config.LoadFile(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.Sync.Enabled = true
	if err := cfg.SaveFile(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}

// open loads config, logging and storage. With pull set, a configured
// sync repository is pulled before the ledger is opened.
func (o *rootOptions) open(pull bool) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(logging.Options{
		File:    cfg.GetLogFile(),
		Level:   cfg.Log.Level,
		Verbose: o.verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing log: %w", err)
	}

	e := &env{cfg: cfg, log: log}
	if cfg.Sync.Enabled && gitsync.IsGitInstalled() {
		syncCfg := cfg.Sync
		e.git = gitsync.New(cfg.GetDataDir(), &syncCfg)
		e.git.SetLogger(log)

		if pull && cfg.Sync.PullOnStartup {
			e.pull()
		}
	}

	store, err := storage.New(cfg.GetDataDir(), storage.WithLogger(log))
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}
	if e.git != nil {
		store.SetOnSave(e.git.OnSave)
	}
	e.store = store
	return e, nil
}

// pull fetches remote changes before the ledger is read. A failed pull is
// only a warning; local data is still valid.
func (e *env) pull() {
	st, err := e.git.Status()
	if err == nil && !st.HasRemote {
		return
	}
	if err == nil {
		err = e.git.Pull()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: sync pull failed: %v\n", err)
		e.log.Warn("sync pull failed", zap.Error(err))
	}
}

// close commits pending saves and flushes the log.
func (e *env) close() {
	if e.git != nil {
		e.git.Flush()
	}
	_ = e.log.Sync()
}

// load reads the ledger, printing a warning when it had to be recovered.
func (e *env) load(cmd *cobra.Command) (*ledger.Ledger, error) {
	l, err := e.store.Load()
	var rec *storage.RecoveryError
	if errors.As(err, &rec) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", rec)
		return l, nil
	}
	return l, err
}

// confirm asks a yes/no question. Only y or yes agree; end of input is a no.
func confirm(cmd *cobra.Command, question string) (bool, error) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", question)

	reader := bufio.NewReader(cmd.InOrStdin())
	response, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("reading input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
