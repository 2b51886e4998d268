// Package notify sends desktop notifications for practice events: the end
// of a practice day and a reached objective.
package notify

// Notifier sends desktop notifications.
type Notifier interface {
	Send(title, message string) error
	SendWithSound(title, message string) error
	IsSupported() bool
}

type noopNotifier struct{}

func (noopNotifier) Send(title, message string) error          { return nil }
func (noopNotifier) SendWithSound(title, message string) error { return nil }
func (noopNotifier) IsSupported() bool                         { return false }

// New creates a platform notifier, or a no-op one when the platform has no
// notification tool.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.IsSupported() {
		return noopNotifier{}
	}
	return n
}

// Config holds notification configuration.
type Config struct {
	Enabled   bool `yaml:"enabled"`
	Rollover  bool `yaml:"rollover"`  // notify when a practice day is finalized
	Objective bool `yaml:"objective"` // notify when the active objective is reached
	Sound     bool `yaml:"sound"`
}

// DefaultConfig returns the default notification configuration. Events are
// on but nothing is sent until Enabled is set.
func DefaultConfig() Config {
	return Config{
		Rollover:  true,
		Objective: true,
	}
}
