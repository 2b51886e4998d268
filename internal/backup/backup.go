// Package backup keeps timestamped snapshots of the ledger under
// <dataDir>/backups and restores them.
package backup

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"quiver/internal/fsutil"
	"quiver/internal/storage"
)

const (
	ManifestVersion = "1"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	nameLayout = "2006-01-02_150405"
)

// ErrNoBackups is returned by RestoreLatest when nothing was ever backed up.
var ErrNoBackups = errors.New("no backups available")

// dataFiles are copied into every snapshot.
var dataFiles = []string{storage.LedgerFile}

// Manager handles backup and restore operations.
type Manager struct {
	dataDir    string
	backupDir  string
	appVersion string
	now        func() time.Time
}

// Manifest describes one snapshot.
type Manifest struct {
	Version    string    `json:"version"`
	CreatedAt  time.Time `json:"created_at"`
	AppVersion string    `json:"app_version"`
	Files      []string  `json:"files"`
	Days       int       `json:"days"`
	Arrows     int       `json:"arrows"`
}

// Info summarizes a snapshot for listing.
type Info struct {
	Name      string
	Path      string
	CreatedAt time.Time
	Days      int
	Arrows    int
}

// NewManager creates a backup manager for dataDir.
func NewManager(dataDir, appVersion string) *Manager {
	return &Manager{
		dataDir:    dataDir,
		backupDir:  filepath.Join(dataDir, BackupsDir),
		appVersion: appVersion,
		now:        time.Now,
	}
}

// SetNowFunc overrides the clock used to name snapshots.
func (m *Manager) SetNowFunc(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	m.now = now
}

// Create snapshots the data files and returns the snapshot name.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	name := formatName(now)
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("backup %s already exists", name)
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now,
		AppVersion: m.appVersion,
		Files:      []string{},
	}
	for _, filename := range dataFiles {
		src := filepath.Join(m.dataDir, filename)
		data, err := os.ReadFile(src)
		if os.IsNotExist(err) {
			continue
		}
		if err == nil {
			err = fsutil.WriteFileAtomic(filepath.Join(path, filename), data, 0600)
		}
		if err != nil {
			_ = os.RemoveAll(path)
			return "", fmt.Errorf("failed to copy %s: %w", filename, err)
		}
		manifest.Files = append(manifest.Files, filename)

		if filename == storage.LedgerFile {
			if sum, err := summarize(data); err == nil {
				manifest.Days, manifest.Arrows = sum.days, sum.arrows
			}
		}
	}

	data, err := json.MarshalIndent(manifest, "", "  ")
	if err == nil {
		err = fsutil.WriteFileAtomic(filepath.Join(path, ManifestFile), data, 0600)
	}
	if err != nil {
		_ = os.RemoveAll(path)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return name, nil
}

// List returns all snapshots, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.backupDir)
	if os.IsNotExist(err) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := make([]Info, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue
		}
		backups = append(backups, *info)
	}
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Get returns information about one snapshot.
func (m *Manager) Get(name string) (*Info, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, err := os.Stat(filepath.Join(m.backupDir, name)); os.IsNotExist(err) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*Info, error) {
	path := filepath.Join(m.backupDir, name)
	var manifest Manifest
	if err := readJSON(filepath.Join(path, ManifestFile), &manifest); err != nil {
		created, perr := parseName(name)
		if perr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = created
	}
	return &Info{
		Name:      name,
		Path:      path,
		CreatedAt: manifest.CreatedAt,
		Days:      manifest.Days,
		Arrows:    manifest.Arrows,
	}, nil
}

// Restore replaces the data files with the ones in snapshot name. The
// snapshot is validated first and the current state is itself backed up;
// the safety snapshot name is returned.
func (m *Manager) Restore(name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", fmt.Errorf("backup not found: %s", name)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(path, ManifestFile), &manifest); err != nil {
		manifest.Files = dataFiles
	}

	files := make(map[string][]byte, len(manifest.Files))
	for _, filename := range manifest.Files {
		data, err := os.ReadFile(filepath.Join(path, filename))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", filename, err)
		}
		if filename == storage.LedgerFile {
			if _, err := summarize(data); err != nil {
				return "", fmt.Errorf("backup %s has an invalid ledger: %w", name, err)
			}
		}
		files[filename] = data
	}

	safety, err := m.Create()
	if err != nil {
		return "", fmt.Errorf("failed to create safety backup: %w", err)
	}
	for filename, data := range files {
		if err := fsutil.WriteFileAtomic(filepath.Join(m.dataDir, filename), data, 0600); err != nil {
			return safety, fmt.Errorf("failed to restore %s (safety backup: %s): %w", filename, safety, err)
		}
	}
	return safety, nil
}

// RestoreLatest restores the most recent snapshot.
func (m *Manager) RestoreLatest() (restored, safety string, err error) {
	backups, err := m.List()
	if err != nil {
		return "", "", err
	}
	if len(backups) == 0 {
		return "", "", ErrNoBackups
	}
	restored = backups[0].Name
	safety, err = m.Restore(restored)
	return restored, safety, err
}

// Delete removes a snapshot.
func (m *Manager) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	path := filepath.Join(m.backupDir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(path)
}

// Prune keeps the keep most recent snapshots and deletes the rest.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative")
	}
	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	deleted := 0
	for i := keep; i < len(backups); i++ {
		if err := m.Delete(backups[i].Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

type ledgerSummary struct {
	days   int
	arrows int
}

// summarize decodes a ledger document far enough to count its days. A
// document that does not decode is not a ledger.
func summarize(data []byte) (ledgerSummary, error) {
	var doc struct {
		Version int `json:"version"`
		History []struct {
			Date   string `json:"date"`
			Arrows int    `json:"arrows"`
		} `json:"history"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return ledgerSummary{}, err
	}
	s := ledgerSummary{days: len(doc.History)}
	for _, e := range doc.History {
		s.arrows += e.Arrows
	}
	return s, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// formatName renders 2006-01-02_150405_mmm.
func formatName(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/1e6)
}

// parseName accepts names with and without the millisecond suffix.
func parseName(name string) (time.Time, error) {
	if len(name) == len(nameLayout)+4 {
		if name[len(nameLayout)] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup name")
		}
		base, err := time.ParseInLocation(nameLayout, name[:len(nameLayout)], time.Local)
		if err != nil {
			return time.Time{}, err
		}
		ms, err := strconv.Atoi(name[len(nameLayout)+1:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return base.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.ParseInLocation(nameLayout, name, time.Local)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}
