package notify

import (
	"fmt"

	"quiver/internal/ledger"
)

const appTitle = "Quiver"

// Practice turns ledger changes into notifications.
type Practice struct {
	n   Notifier
	cfg Config

	primed  bool
	reached map[string]bool // objective IDs already announced
}

// NewPractice wraps n with the event rules in cfg.
func NewPractice(n Notifier, cfg Config) *Practice {
	if n == nil {
		n = noopNotifier{}
	}
	return &Practice{n: n, cfg: cfg, reached: make(map[string]bool)}
}

func (p *Practice) send(title, message string) error {
	if p.cfg.Sound {
		return p.n.SendWithSound(title, message)
	}
	return p.n.Send(title, message)
}

// Rollover announces a finished day. Days without arrows are not announced.
func (p *Practice) Rollover(finished ledger.Day, arrows int) (bool, error) {
	if !p.cfg.Enabled || !p.cfg.Rollover || arrows <= 0 {
		return false, nil
	}
	msg := fmt.Sprintf("%s finished with %d arrows", finished.Display(), arrows)
	return true, p.send(appTitle, msg)
}

// Observe checks the active objective and announces it once when it is
// reached. The first call only records objectives that were already
// reached, so restarting the app does not repeat the notification.
func (p *Practice) Observe(l *ledger.Ledger, today ledger.Day) (bool, error) {
	st, ok := l.Status(today)
	first := !p.primed
	p.primed = true
	if !ok || !st.Reached || p.reached[st.Objective.ID] {
		return false, nil
	}
	p.reached[st.Objective.ID] = true
	if first || !p.cfg.Enabled || !p.cfg.Objective {
		return false, nil
	}
	msg := fmt.Sprintf("%s objective reached: %d/%d arrows", st.Objective.Period, st.Progress, st.Objective.Target)
	return true, p.send(appTitle, msg)
}
