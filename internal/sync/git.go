// Package sync commits the data directory to git after each ledger save and
// exposes pull, push and status for `quiver sync`.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	gosync "sync"
	"time"

	"go.uber.org/zap"

	"quiver/internal/fsutil"
	"quiver/internal/storage"
)

// ErrNotRepo is returned by operations that need an initialized repository.
var ErrNotRepo = errors.New("not a git repository - run 'quiver sync init' first")

// Config holds git sync configuration.
type Config struct {
	Enabled       bool   `yaml:"enabled"`
	AutoCommit    bool   `yaml:"auto_commit"`
	AutoPush      bool   `yaml:"auto_push"`
	PullOnStartup bool   `yaml:"pull_on_startup"`
	CommitMessage string `yaml:"commit_message"` // "auto" or a fixed message
}

// DefaultConfig returns the default sync configuration.
func DefaultConfig() Config {
	return Config{
		AutoCommit:    true,
		CommitMessage: "auto",
	}
}

// Status represents the current git status.
type Status struct {
	IsRepo       bool
	HasRemote    bool
	RemoteName   string
	RemoteURL    string
	Branch       string
	Ahead        int
	Behind       int
	HasChanges   bool
	LastCommitAt *time.Time
}

// GitSync manages git operations for the data directory.
type GitSync struct {
	dataDir string
	config  *Config
	log     *zap.Logger

	// pending saves waiting for the debounce timer
	pendingFiles    map[string]bool
	pendingContexts []storage.SaveContext
	commitTimer     *time.Timer
	mu              gosync.Mutex

	// opMu serializes git invocations to avoid index.lock conflicts.
	opMu gosync.Mutex

	debounceDuration time.Duration
}

// New creates a new GitSync instance.
func New(dataDir string, cfg *Config) *GitSync {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}
	return &GitSync{
		dataDir:          dataDir,
		config:           cfg,
		log:              zap.NewNop(),
		pendingFiles:     make(map[string]bool),
		debounceDuration: 2 * time.Second,
	}
}

// SetLogger sets the logger used for background commit failures.
func (g *GitSync) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	g.log = log
}

// IsGitInstalled checks if git is available on the system.
func IsGitInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo checks if the data directory is a git repository.
func (g *GitSync) IsRepo() bool {
	info, err := os.Stat(filepath.Join(g.dataDir, ".git"))
	return err == nil && info.IsDir()
}

const (
	quickTimeout   = 10 * time.Second
	networkTimeout = 60 * time.Second
	commitTimeout  = 15 * time.Second
)

const gitignore = `# quiver - git sync ignore file
backups/
*.bak
*.corrupt.*
*.log
.*.tmp-*
`

// Init initializes a git repository in the data directory.
func (g *GitSync) Init() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !IsGitInstalled() {
		return fmt.Errorf("git is not installed")
	}
	if _, err := g.gitSlow(commitTimeout, "init"); err != nil {
		return fmt.Errorf("failed to initialize git repository: %w", err)
	}

	path := filepath.Join(g.dataDir, ".gitignore")
	if err := fsutil.WriteFileAtomic(path, []byte(gitignore), 0600); err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	args := []string{"add", ".gitignore"}
	if _, err := os.Stat(filepath.Join(g.dataDir, storage.LedgerFile)); err == nil {
		args = append(args, storage.LedgerFile)
	}
	if _, err := g.git(args...); err != nil {
		return fmt.Errorf("failed to stage initial files: %w", err)
	}
	if _, err := g.gitSlow(commitTimeout, "-c", "commit.gpgsign=false", "commit", "-m", "Initialize quiver data repository"); err != nil {
		if !isGitNothingToCommit(err) {
			return fmt.Errorf("failed to create initial commit: %w", err)
		}
	}
	return nil
}

// Status returns the current git status.
func (g *GitSync) Status() (*Status, error) {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	status := &Status{IsRepo: g.IsRepo()}
	if !status.IsRepo {
		return status, nil
	}

	if branch, err := g.git("rev-parse", "--abbrev-ref", "HEAD"); err == nil {
		status.Branch = strings.TrimSpace(branch)
	}

	// First line looks like "origin\tgit@host:me/arrows.git (fetch)".
	if remotes, err := g.git("remote", "-v"); err == nil && strings.TrimSpace(remotes) != "" {
		status.HasRemote = true
		first, _, _ := strings.Cut(strings.TrimSpace(remotes), "\n")
		if parts := strings.Fields(first); len(parts) >= 2 {
			status.RemoteName = parts[0]
			status.RemoteURL = parts[1]
		}
	}

	if out, err := g.git("status", "--porcelain"); err == nil {
		status.HasChanges = strings.TrimSpace(out) != ""
	}

	if status.HasRemote && status.Branch != "" {
		remote := status.RemoteName + "/" + status.Branch
		if out, err := g.git("rev-list", "--left-right", "--count", status.Branch+"..."+remote); err == nil {
			fmt.Sscanf(strings.TrimSpace(out), "%d\t%d", &status.Ahead, &status.Behind)
		}
	}

	if out, err := g.git("log", "-1", "--format=%ci"); err == nil && strings.TrimSpace(out) != "" {
		if t, err := time.Parse("2006-01-02 15:04:05 -0700", strings.TrimSpace(out)); err == nil {
			status.LastCommitAt = &t
		}
	}
	return status, nil
}

// Commit stages files and commits them with a message built from contexts.
// It is a no-op when nothing changed.
func (g *GitSync) Commit(files []string, contexts ...storage.SaveContext) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()
	return g.commitLocked(files, contexts)
}

func (g *GitSync) commitLocked(files []string, contexts []storage.SaveContext) error {
	if !g.IsRepo() {
		return ErrNotRepo
	}
	if len(files) == 0 {
		return nil
	}

	args := append([]string{"add", "--"}, files...)
	if _, err := g.git(args...); err != nil {
		return fmt.Errorf("failed to stage files: %w", err)
	}
	staged, err := g.git("diff", "--cached", "--name-only")
	if err != nil {
		return fmt.Errorf("failed to check staged changes: %w", err)
	}
	if strings.TrimSpace(staged) == "" {
		return nil
	}

	message := CommitMessage(g.config.CommitMessage, contexts)
	if _, err := g.gitSlow(commitTimeout, "-c", "commit.gpgsign=false", "commit", "-m", message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	if g.config.AutoPush {
		if err := g.pushLocked(); err != nil {
			return fmt.Errorf("committed locally, but push failed: %w", err)
		}
	}
	return nil
}

// Pull fetches and rebases onto the remote.
func (g *GitSync) Pull() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !g.IsRepo() {
		return ErrNotRepo
	}
	if !g.hasRemote() {
		return fmt.Errorf("no remote configured")
	}
	if _, err := g.gitSlow(networkTimeout, "pull", "--rebase"); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	return nil
}

// Push pushes local commits to the remote.
func (g *GitSync) Push() error {
	g.opMu.Lock()
	defer g.opMu.Unlock()
	return g.pushLocked()
}

func (g *GitSync) pushLocked() error {
	if !g.IsRepo() {
		return ErrNotRepo
	}
	if !g.hasRemote() {
		return fmt.Errorf("no remote configured - add one with 'quiver sync remote <url>'")
	}
	if _, err := g.gitSlow(networkTimeout, "push"); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}

func (g *GitSync) hasRemote() bool {
	remotes, err := g.git("remote")
	return err == nil && strings.TrimSpace(remotes) != ""
}

// AddRemote adds or updates a git remote.
func (g *GitSync) AddRemote(name, url string) error {
	g.opMu.Lock()
	defer g.opMu.Unlock()

	if !g.IsRepo() {
		return ErrNotRepo
	}
	if name == "" {
		return fmt.Errorf("remote name is required")
	}
	if url == "" {
		return fmt.Errorf("remote URL is required")
	}

	remotes, _ := g.git("remote")
	verb := []string{"remote", "add", name, url}
	for _, line := range strings.Split(strings.TrimSpace(remotes), "\n") {
		if strings.TrimSpace(line) == name {
			verb = []string{"remote", "set-url", name, url}
			break
		}
	}
	if _, err := g.git(verb...); err != nil {
		return fmt.Errorf("failed to %s remote: %w", verb[1], err)
	}
	return nil
}

// OnSave queues a ledger save for a debounced commit. It is meant to be
// passed to storage.SetOnSave.
func (g *GitSync) OnSave(ctx storage.SaveContext) {
	if !g.config.Enabled || !g.config.AutoCommit || !g.IsRepo() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	filename := ctx.Filename
	if filename == "" {
		filename = storage.LedgerFile
	}
	g.pendingFiles[filename] = true
	g.pendingContexts = append(g.pendingContexts, ctx)

	if g.commitTimer != nil {
		g.commitTimer.Stop()
	}
	g.commitTimer = time.AfterFunc(g.debounceDuration, g.flushCommit)
}

// Flush commits pending saves immediately. Call it before exiting.
func (g *GitSync) Flush() {
	g.mu.Lock()
	if g.commitTimer != nil {
		g.commitTimer.Stop()
		g.commitTimer = nil
	}
	g.mu.Unlock()

	g.flushCommit()
}

func (g *GitSync) flushCommit() {
	g.mu.Lock()
	files := make([]string, 0, len(g.pendingFiles))
	for f := range g.pendingFiles {
		files = append(files, f)
	}
	contexts := g.pendingContexts
	g.pendingFiles = make(map[string]bool)
	g.pendingContexts = nil
	g.mu.Unlock()

	if len(files) == 0 {
		return
	}
	if err := g.Commit(files, contexts...); err != nil {
		g.log.Warn("auto-commit failed", zap.Strings("files", files), zap.Error(err))
	}
}

// git runs a local git command in the data directory.
func (g *GitSync) git(args ...string) (string, error) {
	return g.gitSlow(quickTimeout, args...)
}

// gitSlow runs git with its own timeout. Prompts for credentials are
// disabled so a push without access fails instead of hanging the TUI.
func (g *GitSync) gitSlow(timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dataDir
	cmd.Env = gitEnv(os.Environ())
	cmd.Stdin = bytes.NewReader(nil)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	switch {
	case err == nil:
		return stdout.String(), nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "", fmt.Errorf("git %s: no answer after %s", args[0], timeout)
	case strings.TrimSpace(stderr.String()) != "":
		return "", errors.New(strings.TrimSpace(stderr.String()))
	default:
		return "", err
	}
}

var promptVars = []string{"GIT_TERMINAL_PROMPT=0", "GIT_ASKPASS=", "SSH_ASKPASS="}

// gitEnv drops any prompt settings from base and appends promptVars.
func gitEnv(base []string) []string {
	out := make([]string, 0, len(base)+len(promptVars))
	for _, kv := range base {
		name, _, _ := strings.Cut(kv, "=")
		switch name {
		case "GIT_TERMINAL_PROMPT", "GIT_ASKPASS", "SSH_ASKPASS":
			continue
		}
		out = append(out, kv)
	}
	return append(out, promptVars...)
}

func isGitNothingToCommit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "nothing to commit") ||
		strings.Contains(msg, "nothing added to commit") ||
		strings.Contains(msg, "no changes added to commit")
}
