package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"quiver/internal/config"
)

func TestNewStyles_UsesThemeColors(t *testing.T) {
	theme := &config.ThemeConfig{
		Primary:    "#FF0000",
		Accent:     "#00FF00",
		Muted:      "#0000FF",
		Warning:    "#FFFF00",
		Background: "#000000",
		Text:       "#FFFFFF",
	}

	styles := NewStylesFromTheme(theme)

	tests := []struct {
		name string
		got  lipgloss.Color
		want lipgloss.Color
	}{
		{"primary", styles.ColorPrimary, "#FF0000"},
		{"accent", styles.ColorAccent, "#00FF00"},
		{"muted", styles.ColorMuted, "#0000FF"},
		{"warning", styles.ColorWarning, "#FFFF00"},
		{"background", styles.ColorBg, "#000000"},
		{"text", styles.ColorText, "#FFFFFF"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("%s = %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestNewStyles_UsesDefaults(t *testing.T) {
	styles := NewStylesFromTheme(&config.ThemeConfig{})

	if styles.ColorPrimary != lipgloss.Color("#D97706") {
		t.Errorf("ColorPrimary = %v, want default #D97706", styles.ColorPrimary)
	}
	if styles.ColorAccent != lipgloss.Color("#10B981") {
		t.Errorf("ColorAccent = %v, want default #10B981", styles.ColorAccent)
	}
	if styles.ColorWarning != lipgloss.Color("#F59E0B") {
		t.Errorf("ColorWarning = %v, want default #F59E0B", styles.ColorWarning)
	}
}

func TestNewStyles_ComponentStylesInitialized(t *testing.T) {
	styles := NewStylesFromTheme(&config.ThemeConfig{Primary: "#FF0000"})

	if styles.TitleStyle.GetBackground() != lipgloss.Color("#FF0000") {
		t.Error("TitleStyle should use Primary color for background")
	}
	if styles.PaneFocusedStyle.GetBorderTopForeground() != lipgloss.Color("#FF0000") {
		t.Error("PaneFocusedStyle should use Primary color for border")
	}
	if styles.CountStyle.GetForeground() != lipgloss.Color("#FF0000") {
		t.Error("CountStyle should use Primary color for foreground")
	}
	if styles.GoalReachedIcon == "" || styles.GoalPendingIcon == "" {
		t.Error("objective icons should be rendered")
	}
}

func TestNewStyles_FromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Theme.Primary = "#123456"

	styles := NewStyles(cfg)

	if styles.ColorPrimary != lipgloss.Color("#123456") {
		t.Errorf("ColorPrimary = %v, want #123456", styles.ColorPrimary)
	}
}

func TestRenderHelp(t *testing.T) {
	setupTest(t)
	styles := createTestStyles()

	output := styles.RenderHelp(
		"a", "add",
		"u", "undo",
	)

	for _, want := range []string{"[a] add", "[u] undo"} {
		if !strings.Contains(output, want) {
			t.Errorf("RenderHelp() = %q, want it to contain %q", output, want)
		}
	}
}
