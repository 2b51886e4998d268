// Package config loads quiver's YAML configuration from the XDG config
// directory (typically ~/.config/quiver/config.yaml).
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"quiver/internal/fsutil"
	"quiver/internal/notify"
	gitsync "quiver/internal/sync"
)

const appName = "quiver"

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.quiver)
	DataDir string `yaml:"data_dir,omitempty"`

	Theme         ThemeConfig    `yaml:"theme"`
	Keys          KeysConfig     `yaml:"keys"`
	UX            UXConfig       `yaml:"ux"`
	Sync          gitsync.Config `yaml:"sync"`
	Notifications notify.Config  `yaml:"notifications"`
	Log           LogConfig      `yaml:"log"`
}

// ThemeConfig defines colors as hex strings, e.g. "#FF5733". Empty means
// the terminal default.
type ThemeConfig struct {
	Primary    string `yaml:"primary,omitempty"`
	Accent     string `yaml:"accent,omitempty"`
	Muted      string `yaml:"muted,omitempty"`
	Warning    string `yaml:"warning,omitempty"`
	Background string `yaml:"background,omitempty"`
	Text       string `yaml:"text,omitempty"`
}

// KeysConfig overrides keyboard shortcuts. Each field takes a comma
// separated list such as "q,ctrl+c". Empty fields keep the built-in
// binding.
type KeysConfig struct {
	Quit     string `yaml:"quit,omitempty"`      // q,ctrl+c
	Help     string `yaml:"help,omitempty"`      // ?
	NextPane string `yaml:"next_pane,omitempty"` // tab
	Pane1    string `yaml:"pane_1,omitempty"`    // 1
	Pane2    string `yaml:"pane_2,omitempty"`    // 2
	Pane3    string `yaml:"pane_3,omitempty"`    // 3

	Add    string `yaml:"add,omitempty"`    // a
	Submit string `yaml:"submit,omitempty"` // enter
	Cancel string `yaml:"cancel,omitempty"` // esc
	Undo   string `yaml:"undo,omitempty"`   // u,ctrl+z
	Mode   string `yaml:"mode,omitempty"`   // m

	Prev          string `yaml:"prev,omitempty"`           // left,h
	Next          string `yaml:"next,omitempty"`           // right,l
	Period        string `yaml:"period,omitempty"`         // p
	ChartStyle    string `yaml:"chart_style,omitempty"`    // c
	NewObjective  string `yaml:"new_objective,omitempty"`  // n
	StopObjective string `yaml:"stop_objective,omitempty"` // x

	Export string `yaml:"export,omitempty"` // e
	Import string `yaml:"import,omitempty"` // i
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// CountLabel names the count column in CSV exports and the UI.
	CountLabel string `yaml:"count_label,omitempty"`

	// HistoryDays is how many days the Today pane lists.
	HistoryDays int `yaml:"history_days,omitempty"`

	// ChartHeight is the height of the stats chart in rows.
	ChartHeight int `yaml:"chart_height,omitempty"`

	// ChartStyle is "bar" or "line".
	ChartStyle string `yaml:"chart_style,omitempty"`

	// StartPane is "today", "stats" or "objective".
	StartPane string `yaml:"start_pane,omitempty"`

	// ExportDir is where the TUI writes exports; empty means the data dir.
	ExportDir string `yaml:"export_dir,omitempty"`

	// ConfirmImport asks before an import replaces existing days.
	ConfirmImport bool `yaml:"confirm_import"`

	// NarrowLayoutThreshold is the width below which panes stack.
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"`
}

// LogConfig configures the JSON log file.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level,omitempty"`

	// File overrides <data dir>/quiver.log.
	File string `yaml:"file,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Theme: ThemeConfig{
			Primary: "#D97706", // amber
			Accent:  "#10B981", // emerald
			Muted:   "#6B7280", // gray
			Warning: "#EF4444", // red
		},
		UX: UXConfig{
			CountLabel:            "Arrows",
			HistoryDays:           30,
			ChartHeight:           10,
			ChartStyle:            "bar",
			StartPane:             "today",
			ConfirmImport:         true,
			NarrowLayoutThreshold: 80,
		},
		Sync:          gitsync.DefaultConfig(),
		Notifications: notify.DefaultConfig(),
		Log:           LogConfig{Level: "info"},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// configDir returns $XDG_CONFIG_HOME/quiver, falling back to
// ~/.config/quiver.
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// Path returns the config file path, or "" when no home is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file over the defaults. A missing file yields the
// defaults.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads path over the defaults. yaml.v3 leaves fields that are
// absent from the document untouched, so only keys the user wrote replace
// a default; an explicit `confirm_import: false` still wins.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return cfg, nil
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	def := Default()
	if strings.TrimSpace(c.UX.CountLabel) == "" {
		c.UX.CountLabel = def.UX.CountLabel
	}
	if c.UX.HistoryDays <= 0 {
		c.UX.HistoryDays = def.UX.HistoryDays
	}
	if c.UX.ChartHeight < 3 {
		c.UX.ChartHeight = def.UX.ChartHeight
	}
	switch c.UX.ChartStyle {
	case "bar", "line":
	default:
		c.UX.ChartStyle = def.UX.ChartStyle
	}
	switch c.UX.StartPane {
	case "today", "stats", "objective":
	default:
		c.UX.StartPane = def.UX.StartPane
	}
	if c.UX.NarrowLayoutThreshold <= 0 {
		c.UX.NarrowLayoutThreshold = def.UX.NarrowLayoutThreshold
	}
	if c.Sync.CommitMessage == "" {
		c.Sync.CommitMessage = "auto"
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// Save writes the configuration to Path().
func (c *Config) Save() error {
	return c.SaveFile(Path())
}

// SaveFile writes the configuration to path.
func (c *Config) SaveFile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the data directory with a leading ~ expanded.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// GetExportDir returns where the TUI writes exports.
func (c *Config) GetExportDir() string {
	if c.UX.ExportDir == "" {
		return c.GetDataDir()
	}
	return expandHome(c.UX.ExportDir)
}

// GetLogFile returns the log file path.
func (c *Config) GetLogFile() string {
	if c.Log.File == "" {
		return filepath.Join(c.GetDataDir(), appName+".log")
	}
	return expandHome(c.Log.File)
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}
