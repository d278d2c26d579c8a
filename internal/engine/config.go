package engine

import (
	"fmt"
	"io"
	"log/slog"
)

// TimeoutMode selects how time budgets are enforced.
type TimeoutMode int

const (
	// PostHoc measures the call and compares it to the budget after it
	// returns. The method is never interrupted.
	PostHoc TimeoutMode = iota
	// Preemptive stops waiting for a budgeted method at its deadline and
	// cancels the context passed to it.
	Preemptive
)

func (m TimeoutMode) String() string {
	switch m {
	case PostHoc:
		return "post-hoc"
	case Preemptive:
		return "preemptive"
	default:
		return fmt.Sprintf("TimeoutMode(%d)", int(m))
	}
}

// ParseTimeoutMode is the inverse of TimeoutMode.String. The empty string
// selects PostHoc.
func ParseTimeoutMode(s string) (TimeoutMode, error) {
	switch s {
	case "", "post-hoc":
		return PostHoc, nil
	case "preemptive":
		return Preemptive, nil
	default:
		return PostHoc, fmt.Errorf("invalid timeout mode %q: must be post-hoc or preemptive", s)
	}
}

// Set implements pflag.Value.
func (m *TimeoutMode) Set(s string) error {
	parsed, err := ParseTimeoutMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Type implements pflag.Value.
func (m *TimeoutMode) Type() string {
	return "timeout-mode"
}

// Config configures an Engine. The zero value runs every test in PostHoc
// mode with the system clock and no logging.
type Config struct {
	TimeoutMode TimeoutMode

	// Filter selects tests to run. Tests it rejects produce no entry.
	// Nil selects every test.
	Filter func(TestID) bool

	// Clock times test methods. Nil uses SystemClock.
	Clock Clock

	// Listener is notified as tests run. Nil discards notifications.
	Listener Listener

	// Logger receives structured events. Nil discards them.
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Clock == nil {
		c.Clock = SystemClock{}
	}
	if c.Listener == nil {
		c.Listener = NopListener{}
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c
}
