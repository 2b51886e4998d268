package notify

import (
	"os"
	"runtime"
	"testing"
	"time"

	"quiver/internal/ledger"
)

type recorder struct {
	sent  []string
	sound []bool
}

func (r *recorder) Send(title, message string) error {
	r.sent = append(r.sent, message)
	r.sound = append(r.sound, false)
	return nil
}

func (r *recorder) SendWithSound(title, message string) error {
	r.sent = append(r.sent, message)
	r.sound = append(r.sound, true)
	return nil
}

func (r *recorder) IsSupported() bool { return true }

var testNow = time.Date(2024, time.March, 14, 18, 30, 0, 0, time.Local)

func TestNew(t *testing.T) {
	n := New()
	if n == nil {
		t.Fatal("New() returned nil")
	}
	if runtime.GOOS != "darwin" && runtime.GOOS != "linux" && n.IsSupported() {
		t.Errorf("IsSupported() should be false on %s", runtime.GOOS)
	}
}

// TestSend shows a real notification when RUN_NOTIFY_TESTS=1.
func TestSend(t *testing.T) {
	if os.Getenv("RUN_NOTIFY_TESTS") != "1" {
		t.Skip("set RUN_NOTIFY_TESTS=1 to send a real notification")
	}
	n := New()
	if !n.IsSupported() {
		t.Skip("notifications not supported on this platform")
	}
	if err := n.Send("quiver test", "This is a test notification"); err != nil {
		t.Errorf("Send() error: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Enabled || cfg.Sound {
		t.Errorf("notifications should be off by default: %+v", cfg)
	}
	if !cfg.Rollover || !cfg.Objective {
		t.Errorf("events should default on: %+v", cfg)
	}
}

func TestPracticeRollover(t *testing.T) {
	r := &recorder{}
	cfg := DefaultConfig()
	cfg.Enabled = true
	p := NewPractice(r, cfg)

	day := ledger.Date(2024, time.March, 13)
	if sent, _ := p.Rollover(day, 0); sent {
		t.Error("empty day should not be announced")
	}
	if sent, err := p.Rollover(day, 72); !sent || err != nil {
		t.Fatalf("Rollover() = %v, %v", sent, err)
	}
	if len(r.sent) != 1 || r.sent[0] != "13/03/2024 finished with 72 arrows" {
		t.Errorf("sent = %v", r.sent)
	}

	cfg.Enabled = false
	if sent, _ := NewPractice(r, cfg).Rollover(day, 72); sent {
		t.Error("disabled notifier sent a notification")
	}
}

func TestPracticeObjectiveOnce(t *testing.T) {
	r := &recorder{}
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Sound = true
	p := NewPractice(r, cfg)

	l := ledger.New(testNow)
	o, err := ledger.NewObjective(ledger.PeriodWeek, 50, testNow)
	if err != nil {
		t.Fatal(err)
	}
	l.SetObjective(o)
	today := ledger.DayOf(testNow)

	if sent, _ := p.Observe(l, today); sent {
		t.Error("unreached objective announced")
	}
	_ = l.AddCount(60)
	if sent, err := p.Observe(l, today); !sent || err != nil {
		t.Fatalf("Observe() = %v, %v", sent, err)
	}
	if sent, _ := p.Observe(l, today); sent {
		t.Error("objective announced twice")
	}
	if len(r.sent) != 1 || !r.sound[0] {
		t.Errorf("sent = %v sound = %v", r.sent, r.sound)
	}
	if r.sent[0] != "week objective reached: 60/50 arrows" {
		t.Errorf("message = %q", r.sent[0])
	}
}

func TestPracticeObjectiveAlreadyReachedAtStart(t *testing.T) {
	r := &recorder{}
	cfg := DefaultConfig()
	cfg.Enabled = true
	p := NewPractice(r, cfg)

	l := ledger.New(testNow)
	o, _ := ledger.NewObjective(ledger.PeriodWeek, 10, testNow)
	l.SetObjective(o)
	_ = l.AddCount(20)

	if sent, _ := p.Observe(l, ledger.DayOf(testNow)); sent {
		t.Error("objective reached before start should not be announced")
	}
	_ = l.AddCount(5)
	if sent, _ := p.Observe(l, ledger.DayOf(testNow)); sent {
		t.Error("objective announced after priming")
	}
	if len(r.sent) != 0 {
		t.Errorf("sent = %v", r.sent)
	}
}
