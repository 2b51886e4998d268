package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"quiver/internal/ledger"
)

// ChangeEvent is sent when ledger.json was changed by another process.
type ChangeEvent struct {
	Ledger *ledger.Ledger
	Err    error
}

// Watch reports changes made to ledger.json by other processes, such as a
// `quiver add` run while the UI is open. Saves made through this Storage are
// not reported. The channel is closed once ctx is done.
func (s *Storage) Watch(ctx context.Context) (<-chan ChangeEvent, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: atomic saves replace the file, which drops a
	// watch placed on the file itself.
	if err := w.Add(s.dataDir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dataDir, err)
	}

	out := make(chan ChangeEvent, 1)
	target := filepath.Clean(s.path(LedgerFile))

	go func() {
		defer close(out)
		defer w.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
					continue
				}
				if s.isOwnWrite() {
					continue
				}
				l, err := s.Load()
				s.log.Debug("ledger changed on disk", zap.Error(err))
				select {
				case out <- ChangeEvent{Ledger: l, Err: err}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				s.log.Warn("ledger watcher error", zap.Error(err))
			}
		}
	}()

	return out, nil
}

// isOwnWrite reports whether ledger.json holds exactly what this Storage
// last wrote.
func (s *Storage) isOwnWrite() bool {
	data, err := os.ReadFile(s.path(LedgerFile))
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaved != nil && bytes.Equal(data, s.lastSaved)
}
