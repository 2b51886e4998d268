package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"quiver/internal/config"
	"quiver/internal/ledger"
	"quiver/internal/storage"
)

// testNow is a Thursday; its week runs from Monday 11 to Sunday 17 March.
var testNow = time.Date(2024, time.March, 14, 18, 30, 0, 0, time.Local)

// setupTest prepares the test environment for deterministic rendering.
func setupTest(t *testing.T) {
	t.Helper()
	// Use ASCII profile to disable all color codes in output
	lipgloss.SetColorProfile(termenv.Ascii)
}

// testClock is a settable clock for storage.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// createTestStorage creates a Storage in a temporary directory whose clock
// is fixed at testNow, starting from an empty ledger for that day.
func createTestStorage(t *testing.T) (*storage.Storage, *testClock) {
	t.Helper()
	clock := &testClock{now: testNow}
	store, err := storage.New(t.TempDir(), storage.WithNow(clock.Now))
	if err != nil {
		t.Fatalf("failed to create test storage: %v", err)
	}
	return store, clock
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// seedLedger stores a small practice history around testNow and returns it.
//
//	04/03: 90   11/03: 60   12/03: 0   13/03: 30   14/03 (today): 36
func seedLedger(t *testing.T, store *storage.Storage) *ledger.Ledger {
	t.Helper()
	if _, err := store.Merge(map[ledger.Day]int{
		ledger.Date(2024, time.March, 4):  90,
		ledger.Date(2024, time.March, 11): 60,
		ledger.Date(2024, time.March, 12): 0,
		ledger.Date(2024, time.March, 13): 30,
	}); err != nil {
		t.Fatal(err)
	}
	l, err := store.AddCount(36)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyType(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// runCmd executes cmd synchronously. It must not be a tick or a batch.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// fakeNotifier records notifications instead of sending them.
type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(title, message string) error {
	f.sent = append(f.sent, message)
	return nil
}

func (f *fakeNotifier) SendWithSound(title, message string) error {
	return f.Send(title, message)
}

func (f *fakeNotifier) IsSupported() bool { return true }
