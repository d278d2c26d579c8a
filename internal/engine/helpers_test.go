package engine_test

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/outcome"
)

// recordingListener keeps one line per notification.
type recordingListener struct {
	events []string
}

func (l *recordingListener) TestStarted(id engine.TestID) {
	l.events = append(l.events, "started "+id.String())
}

func (l *recordingListener) TestFinished(id engine.TestID, o outcome.Outcome, _ time.Duration) {
	l.events = append(l.events, fmt.Sprintf("finished %s %s", id, o.Status))
}

func (l *recordingListener) TestSkipped(id engine.TestID, reason string) {
	l.events = append(l.events, fmt.Sprintf("skipped %s (%s)", id, reason))
}

func (l *recordingListener) DiscoveryFailed(suite string, _ error) {
	l.events = append(l.events, "discovery-failed "+suite)
}

func newTextLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}
