package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"quiver/internal/fsutil"
	"quiver/internal/ledger"
)

// LedgerFile is the name of the ledger document inside the data directory.
const LedgerFile = "ledger.json"

// SaveContext describes a save for semantic commit messages such as
// "Add 12 arrows" instead of a generic "Update ledger".
type SaveContext struct {
	Filename  string // e.g. "ledger.json"
	Operation string // add, scores, undo, rollover, mode, objective, stop, import, restore
	Arrows    int    // arrows affected by the operation, when meaningful
	Detail    string // short human-readable detail
}

// RecoveryError reports that ledger.json was unreadable and has been
// replaced. The ledger returned alongside it is usable.
type RecoveryError struct {
	Cause  error
	Action string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("%v (%s)", e.Cause, e.Action)
}

func (e *RecoveryError) Unwrap() error { return e.Cause }

// Storage handles all file I/O for the ledger.
type Storage struct {
	dataDir string
	onSave  func(ctx SaveContext)
	now     func() time.Time // injectable clock for deterministic tests
	log     *zap.Logger

	// mu serializes load-modify-save cycles; UI commands run on their own
	// goroutines.
	mu        sync.Mutex
	lastSaved []byte
}

const (
	dataDirPerm  os.FileMode = 0700
	dataFilePerm os.FileMode = 0600
)

// Option configures a Storage in New.
type Option func(*Storage)

// WithNow sets the clock before the first ledger is written, so a new
// ledger starts on the injected day.
func WithNow(now func() time.Time) Option {
	return func(s *Storage) { s.SetNowFunc(now) }
}

// WithLogger attaches a logger before the first write.
func WithLogger(log *zap.Logger) Option {
	return func(s *Storage) { s.SetLogger(log) }
}

// New creates a Storage rooted at dataDir, creating the directory and an
// empty ledger on first use.
func New(dataDir string, opts ...Option) (*Storage, error) {
	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	s := &Storage{dataDir: dataDir, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if !fileExists(s.path(LedgerFile)) {
		if err := s.write(ledger.New(s.Now())); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// SetNowFunc overrides the clock. Passing nil resets it to time.Now.
func (s *Storage) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Now returns the current time according to the storage clock.
func (s *Storage) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Today is the calendar day of Now.
func (s *Storage) Today() ledger.Day {
	return ledger.DayOf(s.Now())
}

// SetLogger attaches a logger. A nil logger disables logging.
func (s *Storage) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	s.log = log
}

// SetOnSave registers a callback run after every successful save. Git sync
// uses it for auto-commits.
func (s *Storage) SetOnSave(fn func(ctx SaveContext)) {
	s.onSave = fn
}

// GetDataDir returns the path to the data directory.
func (s *Storage) GetDataDir() string {
	return s.dataDir
}

// LedgerPath returns the full path of ledger.json.
func (s *Storage) LedgerPath() string {
	return s.path(LedgerFile)
}

func (s *Storage) path(filename string) string {
	return filepath.Join(s.dataDir, filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !os.IsNotExist(err)
}

// === Load / save ===

// read loads and decodes ledger.json. A *RecoveryError means the file was
// broken and a replacement ledger is returned.
func (s *Storage) read() (*ledger.Ledger, error) {
	path := s.path(LedgerFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l := ledger.New(s.Now())
			return l, s.write(l)
		}
		return nil, fmt.Errorf("read %s: %w", LedgerFile, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return s.recoverCorrupt(fmt.Errorf("%s is empty", LedgerFile))
	}

	var f ledgerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return s.recoverCorrupt(fmt.Errorf("parse %s: %w", LedgerFile, err))
	}
	l := f.toLedger()
	l.Normalize(s.Now())
	return l, nil
}

func (s *Storage) recoverCorrupt(cause error) (*ledger.Ledger, error) {
	path := s.path(LedgerFile)
	corruptPath := fmt.Sprintf("%s.corrupt.%s", path, s.Now().Format("20060102-150405"))

	if bak, err := os.ReadFile(path + ".bak"); err == nil && len(bytes.TrimSpace(bak)) > 0 {
		var f ledgerFile
		if err := json.Unmarshal(bak, &f); err == nil {
			_ = os.Rename(path, corruptPath)
			l := f.toLedger()
			l.Normalize(s.Now())
			_ = s.write(l)
			s.log.Warn("ledger recovered from backup", zap.Error(cause), zap.String("quarantined", corruptPath))
			return l, &RecoveryError{Cause: cause, Action: "recovered from " + LedgerFile + ".bak"}
		}
	}

	// No usable backup: keep the broken file aside and start over.
	_ = os.Rename(path, corruptPath)
	l := ledger.New(s.Now())
	_ = s.write(l)
	s.log.Error("ledger reset", zap.Error(cause), zap.String("quarantined", corruptPath))
	return l, &RecoveryError{Cause: cause, Action: "reset to empty ledger; original moved to " + corruptPath}
}

func (s *Storage) write(l *ledger.Ledger) error {
	path := s.path(LedgerFile)
	data, err := json.MarshalIndent(fromLedger(l), "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", LedgerFile, err)
	}

	fsutil.BestEffortBackup(path, dataFilePerm)

	if err := fsutil.WriteFileAtomic(path, data, dataFilePerm); err != nil {
		return fmt.Errorf("write %s: %w", LedgerFile, err)
	}
	s.lastSaved = data
	return nil
}

func (s *Storage) notifySave(ctx SaveContext) {
	ctx.Filename = LedgerFile
	s.log.Debug("ledger saved",
		zap.String("op", ctx.Operation),
		zap.Int("arrows", ctx.Arrows),
		zap.String("detail", ctx.Detail))
	if s.onSave != nil {
		s.onSave(ctx)
	}
}

// loadLocked reads the ledger and applies a pending day rollover, saving
// it when it happens. Recovery errors are logged and swallowed.
func (s *Storage) loadLocked() (l *ledger.Ledger, rolled bool, err error) {
	l, err = s.read()
	var rec *RecoveryError
	if errors.As(err, &rec) {
		err = nil
	}
	if err != nil {
		return nil, false, err
	}

	finished := l.CurrentDate
	if l.Rollover(s.Now()) {
		if err := s.write(l); err != nil {
			return nil, false, err
		}
		s.log.Info("day rollover", zap.String("finished", finished.String()), zap.Int("last_sum", l.LastSum))
		s.notifySave(SaveContext{Operation: "rollover", Arrows: l.LastSum, Detail: finished.String()})
		rolled = true
	}
	return l, rolled, nil
}

// update runs one load, mutate, save cycle. fn returning an error aborts
// the cycle before anything is written.
func (s *Storage) update(fn func(l *ledger.Ledger) (SaveContext, error)) (*ledger.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, _, err := s.loadLocked()
	if err != nil {
		return nil, err
	}
	ctx, err := fn(l)
	if err != nil {
		return l, err
	}
	if err := s.write(l); err != nil {
		return nil, err
	}
	s.notifySave(ctx)
	return l, nil
}

// Load returns the ledger with any pending rollover applied. When the file
// had to be recovered the ledger is still returned together with a
// *RecoveryError.
func (s *Storage) Load() (*ledger.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.read()
	var rec *RecoveryError
	if err != nil && !errors.As(err, &rec) {
		return nil, err
	}
	finished := l.CurrentDate
	if l.Rollover(s.Now()) {
		if werr := s.write(l); werr != nil {
			return nil, werr
		}
		s.notifySave(SaveContext{Operation: "rollover", Arrows: l.LastSum, Detail: finished.String()})
	}
	return l, err
}

// CheckRollover applies a pending rollover and reports whether one
// happened. The UI calls it on every tick.
func (s *Storage) CheckRollover() (*ledger.Ledger, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

// Save replaces the stored ledger.
func (s *Storage) Save(l *ledger.Ledger, ctx SaveContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.Normalize(s.Now())
	if err := s.write(l); err != nil {
		return err
	}
	s.notifySave(ctx)
	return nil
}

// === Operations ===

// AddCount adds n arrows to today.
func (s *Storage) AddCount(n int) (*ledger.Ledger, error) {
	return s.update(func(l *ledger.Ledger) (SaveContext, error) {
		if err := l.AddCount(n); err != nil {
			return SaveContext{}, err
		}
		return SaveContext{Operation: "add", Arrows: n}, nil
	})
}

// AddScores adds one arrow per score in input.
func (s *Storage) AddScores(input string) (ledger.ScoreBatch, *ledger.Ledger, error) {
	var batch ledger.ScoreBatch
	l, err := s.update(func(l *ledger.Ledger) (SaveContext, error) {
		b, err := l.AddScores(input)
		if err != nil {
			return SaveContext{}, err
		}
		batch = b
		return SaveContext{
			Operation: "scores",
			Arrows:    b.Arrows(),
			Detail:    fmt.Sprintf("avg %.1f", b.Average()),
		}, nil
	})
	return batch, l, err
}

// Undo reverses the last add. It returns ledger.ErrNothingToUndo when there
// is nothing to reverse.
func (s *Storage) Undo() (int, *ledger.Ledger, error) {
	var removed int
	l, err := s.update(func(l *ledger.Ledger) (SaveContext, error) {
		n, err := l.Undo()
		if err != nil {
			return SaveContext{}, err
		}
		removed = n
		return SaveContext{Operation: "undo", Arrows: n}, nil
	})
	return removed, l, err
}

// SetScoringMode switches between count and score input.
func (s *Storage) SetScoringMode(on bool) (*ledger.Ledger, error) {
	return s.update(func(l *ledger.Ledger) (SaveContext, error) {
		l.SetScoringMode(on)
		mode := "count"
		if on {
			mode = "scores"
		}
		return SaveContext{Operation: "mode", Detail: mode}, nil
	})
}

// SetObjective replaces the objective with a new one for the current
// period.
func (s *Storage) SetObjective(p ledger.Period, target int) (*ledger.Objective, error) {
	o, err := ledger.NewObjective(p, target, s.Now())
	if err != nil {
		return nil, err
	}
	_, err = s.update(func(l *ledger.Ledger) (SaveContext, error) {
		l.SetObjective(o)
		return SaveContext{Operation: "objective", Arrows: target, Detail: p.String()}, nil
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// StopObjective deactivates the objective; it reports false when none was
// active, in which case nothing is written.
func (s *Storage) StopObjective() (bool, error) {
	errNone := errors.New("no active objective")
	_, err := s.update(func(l *ledger.Ledger) (SaveContext, error) {
		o := l.ActiveObjective()
		if o == nil {
			return SaveContext{}, errNone
		}
		l.StopObjective()
		return SaveContext{Operation: "stop", Arrows: o.Target, Detail: o.Period.String()}, nil
	})
	if errors.Is(err, errNone) {
		return false, nil
	}
	return err == nil, err
}

// Merge overwrites history with imported entries.
func (s *Storage) Merge(entries map[ledger.Day]int) (*ledger.Ledger, error) {
	return s.update(func(l *ledger.Ledger) (SaveContext, error) {
		l.Merge(entries)
		return SaveContext{Operation: "import", Arrows: len(entries)}, nil
	})
}
