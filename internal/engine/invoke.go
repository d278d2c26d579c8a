package engine

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/roach88/moonunit/internal/outcome"
	"github.com/roach88/moonunit/internal/suite"
)

// execute creates a fresh instance of s, invokes m on it and closes it.
// elapsed covers the invocation only. The instance is closed on every path
// once it exists; a Close error is returned only if nothing else was.
func (e *Engine) execute(ctx context.Context, s suite.Suite, m suite.Method) (elapsed time.Duration, err error) {
	instance, err := construct(s)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := closeInstance(instance); cerr != nil && err == nil {
			err = cerr
		}
	}()

	start := e.cfg.Clock.Now()
	err = invoke(ctx, m, instance)
	elapsed = e.cfg.Clock.Now().Sub(start)
	return elapsed, err
}

func construct(s suite.Suite) (instance any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = outcome.Recovered(r, outcome.PanicTrace())
		}
	}()
	return s.New()
}

func invoke(ctx context.Context, m suite.Method, instance any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = outcome.Recovered(r, outcome.PanicTrace())
		}
	}()
	return m.Invoke(ctx, instance)
}

func closeInstance(instance any) (err error) {
	c, ok := instance.(io.Closer)
	if !ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = outcome.Recovered(r, outcome.PanicTrace())
		}
	}()
	return c.Close()
}

type completion struct {
	elapsed time.Duration
	err     error
}

// runPreemptive runs a budgeted method on its own goroutine and stops waiting
// at the deadline. The method's context is cancelled at the deadline; an
// abandoned method keeps running until it returns, and its instance is
// closed then.
func (e *Engine) runPreemptive(ctx context.Context, s suite.Suite, m suite.Method, decl suite.Declaration) (outcome.Outcome, time.Duration) {
	start := e.cfg.Clock.Now()
	// The deadline falls after the budget's last whole millisecond.
	ctx, cancel := context.WithTimeout(ctx, decl.Timeout()+time.Millisecond)
	done := make(chan completion, 1)
	go func() {
		defer cancel()
		elapsed, err := e.execute(ctx, s, m)
		done <- completion{elapsed: elapsed, err: err}
	}()

	select {
	case c := <-done:
		return classify(c.err, c.elapsed, decl), c.elapsed
	case <-ctx.Done():
	}

	// The method may have returned right at the deadline.
	select {
	case c := <-done:
		return classify(c.err, c.elapsed, decl), c.elapsed
	default:
	}

	elapsed := e.cfg.Clock.Now().Sub(start)
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return outcome.Classify(ctx.Err()), elapsed
	}
	e.cfg.Logger.Warn("test abandoned at deadline",
		"test", m.Name,
		"budget_ms", decl.TimeoutMillis,
	)
	return outcome.TimedOut(max(elapsed.Milliseconds(), decl.TimeoutMillis+1), decl.TimeoutMillis), elapsed
}
