// Package ui provides the terminal user interface for quiver.
// This file defines key bindings using the Bubble Tea key package for
// type-safe key matching, help text generation, and user overrides.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"quiver/internal/config"
)

// =============================================================================
// Helpers
// =============================================================================

// parseKeys splits a comma-separated string into individual keys.
// If the input is empty, returns the default keys.
func parseKeys(customKeys string, defaultKeys ...string) []string {
	if customKeys == "" {
		return defaultKeys
	}
	keys := strings.Split(customKeys, ",")
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// helpKey is the key shown in help text: the configured keys when set,
// otherwise def.
func helpKey(customKeys, def string) string {
	if keys := parseKeys(customKeys); len(keys) > 0 {
		return strings.Join(keys, "/")
	}
	return def
}

// =============================================================================
// Global Keys (available in all contexts)
// =============================================================================

// GlobalKeyMap defines keys available throughout the application.
type GlobalKeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	NextPane key.Binding
	Pane1    key.Binding
	Pane2    key.Binding
	Pane3    key.Binding
	Export   key.Binding
	Import   key.Binding
}

// DefaultGlobalKeyMap returns the default global key bindings.
func DefaultGlobalKeyMap() GlobalKeyMap {
	return NewGlobalKeyMap(&config.KeysConfig{})
}

// NewGlobalKeyMap creates global key bindings from config.
func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return GlobalKeyMap{
		Quit: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Quit, "q", "ctrl+c")...),
			key.WithHelp(helpKey(cfg.Quit, "q"), "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Help, "?")...),
			key.WithHelp(helpKey(cfg.Help, "?"), "help"),
		),
		NextPane: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NextPane, "tab")...),
			key.WithHelp(helpKey(cfg.NextPane, "tab"), "next pane"),
		),
		Pane1: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane1, "1")...),
			key.WithHelp(helpKey(cfg.Pane1, "1"), "today"),
		),
		Pane2: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane2, "2")...),
			key.WithHelp(helpKey(cfg.Pane2, "2"), "stats"),
		),
		Pane3: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Pane3, "3")...),
			key.WithHelp(helpKey(cfg.Pane3, "3"), "objective"),
		),
		Export: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Export, "e")...),
			key.WithHelp(helpKey(cfg.Export, "e"), "export csv"),
		),
		Import: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Import, "i")...),
			key.WithHelp(helpKey(cfg.Import, "i"), "import csv"),
		),
	}
}

// =============================================================================
// Input Keys (shared by text input fields)
// =============================================================================

// InputKeyMap defines keys for text input mode.
type InputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// DefaultInputKeyMap returns the default input key bindings.
func DefaultInputKeyMap() InputKeyMap {
	return NewInputKeyMap(&config.KeysConfig{})
}

// NewInputKeyMap creates input key bindings from config.
func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return InputKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Submit, "enter")...),
			key.WithHelp(helpKey(cfg.Submit, "enter"), "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Cancel, "esc")...),
			key.WithHelp(helpKey(cfg.Cancel, "esc"), "cancel"),
		),
	}
}

// =============================================================================
// Today Pane Keys
// =============================================================================

// TodayKeyMap defines keys for the today pane.
type TodayKeyMap struct {
	Add  key.Binding
	Undo key.Binding
	Mode key.Binding
}

// DefaultTodayKeyMap returns the default today pane key bindings.
func DefaultTodayKeyMap() TodayKeyMap {
	return NewTodayKeyMap(&config.KeysConfig{})
}

// NewTodayKeyMap creates today key bindings from config.
func NewTodayKeyMap(cfg *config.KeysConfig) TodayKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return TodayKeyMap{
		Add: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Add, "a", "enter")...),
			key.WithHelp(helpKey(cfg.Add, "a"), "add arrows"),
		),
		Undo: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Undo, "u", "ctrl+z")...),
			key.WithHelp(helpKey(cfg.Undo, "u"), "undo last add"),
		),
		Mode: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Mode, "m")...),
			key.WithHelp(helpKey(cfg.Mode, "m"), "count/scores"),
		),
	}
}

// ShortHelp returns the short help for the today pane (implements help.KeyMap).
func (k TodayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Undo, k.Mode}
}

// FullHelp returns the full help for the today pane (implements help.KeyMap).
func (k TodayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Add, k.Undo, k.Mode}}
}

// =============================================================================
// Stats Pane Keys
// =============================================================================

// StatsKeyMap defines keys for the stats pane.
type StatsKeyMap struct {
	Prev       key.Binding
	Next       key.Binding
	Period     key.Binding
	ChartStyle key.Binding
}

// DefaultStatsKeyMap returns the default stats pane key bindings.
func DefaultStatsKeyMap() StatsKeyMap {
	return NewStatsKeyMap(&config.KeysConfig{})
}

// NewStatsKeyMap creates stats key bindings from config.
func NewStatsKeyMap(cfg *config.KeysConfig) StatsKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return StatsKeyMap{
		Prev: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Prev, "left", "h")...),
			key.WithHelp(helpKey(cfg.Prev, "←/h"), "previous"),
		),
		Next: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Next, "right", "l")...),
			key.WithHelp(helpKey(cfg.Next, "→/l"), "next"),
		),
		Period: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Period, "p")...),
			key.WithHelp(helpKey(cfg.Period, "p"), "period"),
		),
		ChartStyle: key.NewBinding(
			key.WithKeys(parseKeys(cfg.ChartStyle, "c")...),
			key.WithHelp(helpKey(cfg.ChartStyle, "c"), "bar/line"),
		),
	}
}

// ShortHelp returns the short help for the stats pane (implements help.KeyMap).
func (k StatsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Period, k.Prev, k.Next, k.ChartStyle}
}

// FullHelp returns the full help for the stats pane (implements help.KeyMap).
func (k StatsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Period, k.ChartStyle},
		{k.Prev, k.Next},
	}
}

// =============================================================================
// Objective Pane Keys
// =============================================================================

// ObjectiveKeyMap defines keys for the objective pane.
type ObjectiveKeyMap struct {
	New  key.Binding
	Stop key.Binding
	Prev key.Binding
	Next key.Binding
}

// DefaultObjectiveKeyMap returns the default objective pane key bindings.
func DefaultObjectiveKeyMap() ObjectiveKeyMap {
	return NewObjectiveKeyMap(&config.KeysConfig{})
}

// NewObjectiveKeyMap creates objective key bindings from config.
func NewObjectiveKeyMap(cfg *config.KeysConfig) ObjectiveKeyMap {
	if cfg == nil {
		cfg = &config.KeysConfig{}
	}
	return ObjectiveKeyMap{
		New: key.NewBinding(
			key.WithKeys(parseKeys(cfg.NewObjective, "n")...),
			key.WithHelp(helpKey(cfg.NewObjective, "n"), "new objective"),
		),
		Stop: key.NewBinding(
			key.WithKeys(parseKeys(cfg.StopObjective, "x")...),
			key.WithHelp(helpKey(cfg.StopObjective, "x"), "stop objective"),
		),
		Prev: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Prev, "left", "h")...),
			key.WithHelp(helpKey(cfg.Prev, "←"), "shorter period"),
		),
		Next: key.NewBinding(
			key.WithKeys(parseKeys(cfg.Next, "right", "l")...),
			key.WithHelp(helpKey(cfg.Next, "→"), "longer period"),
		),
	}
}

// ShortHelp returns the short help for the objective pane (implements help.KeyMap).
func (k ObjectiveKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Stop}
}

// FullHelp returns the full help for the objective pane (implements help.KeyMap).
func (k ObjectiveKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Stop},
		{k.Prev, k.Next},
	}
}

// =============================================================================
// Help Overlay Keys
// =============================================================================

// HelpKeyMap defines keys for the help overlay.
type HelpKeyMap struct {
	Close key.Binding
}

// DefaultHelpKeyMap returns the default help overlay key bindings.
func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: key.NewBinding(
			key.WithKeys("?", "esc", "q", "enter", " "),
			key.WithHelp("any key", "close"),
		),
	}
}
