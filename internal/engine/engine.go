package engine

import (
	"context"
	"time"

	"github.com/roach88/moonunit/internal/outcome"
	"github.com/roach88/moonunit/internal/suite"
)

// Engine runs suites. It holds no state between runs, so one Engine may be
// used for any number of sequential runs.
type Engine struct {
	cfg Config
}

// New creates an Engine with the given configuration.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Run runs every selected test of suites and returns their outcomes in
// discovery order. It never fails: every problem is recorded in the result.
//
// Cancelling ctx does not stop the run. The context is passed to test
// methods that accept one, and in Preemptive mode a cancelled context ends
// the wait for a budgeted method.
func (e *Engine) Run(ctx context.Context, suites []suite.Suite) *Result {
	log := e.cfg.Logger
	log.Info("run starting", "suites", len(suites), "timeout_mode", e.cfg.TimeoutMode.String())

	var seq sequence
	result := &Result{}
	for _, s := range suites {
		name := s.Name()
		methods, err := discover(s)
		if err != nil {
			derr := &suite.DiscoveryError{Suite: name, Err: err}
			result.DiscoveryErrors = append(result.DiscoveryErrors, derr)
			log.Error("suite discovery failed", "suite", name, "error", err)
			e.cfg.Listener.DiscoveryFailed(name, err)
			continue
		}
		log.Debug("suite discovered", "suite", name, "methods", len(methods))

		for _, m := range methods {
			if !m.IsTest() {
				continue
			}
			id := TestID{Suite: name, Method: m.Name}
			if e.cfg.Filter != nil && !e.cfg.Filter(id) {
				log.Debug("test filtered out", "test", id.String())
				continue
			}
			result.Entries = append(result.Entries, e.runMethod(ctx, s, m, id, seq.next()))
		}
	}
	sortEntries(result.Entries)

	c := result.Counts()
	log.Info("run finished",
		"total", c.Total,
		"passed", c.Passed,
		"failed", c.Failed,
		"skipped", c.Skipped,
		"timed_out", c.TimedOut,
		"unhandled", c.Unhandled,
		"discovery_errors", len(result.DiscoveryErrors),
	)
	return result
}

// runMethod produces the entry for one declared test.
func (e *Engine) runMethod(ctx context.Context, s suite.Suite, m suite.Method, id TestID, seq int64) Entry {
	log := e.cfg.Logger
	decl := *m.Declaration
	if decl.Skip {
		log.Info("test skipped", "test", id.String(), "reason", decl.SkipReason)
		e.cfg.Listener.TestSkipped(id, decl.SkipReason)
		return Entry{Seq: seq, ID: id, Outcome: outcome.Skipped(decl.SkipReason)}
	}

	log.Debug("test started", "test", id.String(), "timeout_ms", decl.TimeoutMillis)
	e.cfg.Listener.TestStarted(id)

	var o outcome.Outcome
	var elapsed time.Duration
	if decl.Timeout() > 0 && e.cfg.TimeoutMode == Preemptive {
		o, elapsed = e.runPreemptive(ctx, s, m, decl)
	} else {
		var err error
		elapsed, err = e.execute(ctx, s, m)
		o = classify(err, elapsed, decl)
	}

	log.Info("test finished",
		"test", id.String(),
		"status", o.Status.String(),
		"elapsed_ms", elapsed.Milliseconds(),
	)
	e.cfg.Listener.TestFinished(id, o, elapsed)
	return Entry{Seq: seq, ID: id, Outcome: o}
}

// discover lists a suite's methods. A panic while listing is returned as an
// error so it only affects this suite.
func discover(s suite.Suite) (methods []suite.Method, err error) {
	defer func() {
		if r := recover(); r != nil {
			methods = nil
			err = outcome.Recovered(r, outcome.PanicTrace())
		}
	}()
	return s.Methods()
}

// classify maps what a call raised and how long it took to an outcome. A
// raised error wins over the time budget. The budget is checked in whole
// milliseconds, the unit the outcome records.
func classify(err error, elapsed time.Duration, decl suite.Declaration) outcome.Outcome {
	if err != nil {
		return outcome.Classify(err)
	}
	if decl.TimeoutMillis > 0 && elapsed.Milliseconds() > decl.TimeoutMillis {
		return outcome.TimedOut(elapsed.Milliseconds(), decl.TimeoutMillis)
	}
	return outcome.Passed()
}
