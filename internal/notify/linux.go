//go:build linux

package notify

import (
	"fmt"
	"os/exec"
)

// linuxNotifier shells out to notify-send.
type linuxNotifier struct{}

func newPlatformNotifier() Notifier {
	return &linuxNotifier{}
}

func (n *linuxNotifier) Send(title, message string) error {
	return n.run(title, message, "low")
}

// SendWithSound raises the urgency; whether that plays a sound is up to the
// notification daemon.
func (n *linuxNotifier) SendWithSound(title, message string) error {
	return n.run(title, message, "normal")
}

func (n *linuxNotifier) IsSupported() bool {
	_, err := exec.LookPath("notify-send")
	return err == nil
}

func (n *linuxNotifier) run(title, message, urgency string) error {
	cmd := exec.Command("notify-send", "--app-name=quiver", "--urgency="+urgency, title, message)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify-send failed: %w", err)
	}
	return nil
}
