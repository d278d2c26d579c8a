package engine

import (
	"time"

	"github.com/roach88/moonunit/internal/outcome"
)

// Listener is notified of progress. Calls are made from the goroutine that
// called Run, in discovery order.
type Listener interface {
	TestStarted(id TestID)
	TestFinished(id TestID, o outcome.Outcome, elapsed time.Duration)
	TestSkipped(id TestID, reason string)
	DiscoveryFailed(suite string, err error)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) TestStarted(TestID)                                  {}
func (NopListener) TestFinished(TestID, outcome.Outcome, time.Duration) {}
func (NopListener) TestSkipped(TestID, string)                          {}
func (NopListener) DiscoveryFailed(string, error)                       {}

// Listeners fans notifications out to each listener in order.
type Listeners []Listener

func (ls Listeners) TestStarted(id TestID) {
	for _, l := range ls {
		l.TestStarted(id)
	}
}

func (ls Listeners) TestFinished(id TestID, o outcome.Outcome, elapsed time.Duration) {
	for _, l := range ls {
		l.TestFinished(id, o, elapsed)
	}
}

func (ls Listeners) TestSkipped(id TestID, reason string) {
	for _, l := range ls {
		l.TestSkipped(id, reason)
	}
}

func (ls Listeners) DiscoveryFailed(suite string, err error) {
	for _, l := range ls {
		l.DiscoveryFailed(suite, err)
	}
}
