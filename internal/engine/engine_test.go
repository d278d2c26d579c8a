package engine_test

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mu "github.com/roach88/moonunit/internal/assert"
	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/outcome"
	"github.com/roach88/moonunit/internal/suite"
	"github.com/roach88/moonunit/internal/testutil"
)

// tracked counts constructions and closes across all instances of a suite.
type tracked struct {
	news   atomic.Int32
	closes atomic.Int32
}

type widget struct {
	track   *tracked
	clock   *testutil.FakeClock
	state   int
	closeFn func() error
}

func (w *widget) Close() error {
	w.track.closes.Add(1)
	if w.closeFn != nil {
		return w.closeFn()
	}
	return nil
}

func widgetSuite(name string, track *tracked, clock *testutil.FakeClock, cases ...suite.Case[widget]) suite.Suite {
	return suite.Define(name, func() (*widget, error) {
		track.news.Add(1)
		return &widget{track: track, clock: clock}, nil
	}, cases...)
}

func run(t *testing.T, cfg engine.Config, suites ...suite.Suite) *engine.Result {
	t.Helper()
	return engine.New(cfg).Run(context.Background(), suites)
}

func statuses(r *engine.Result) []string {
	var out []string
	for _, e := range r.Entries {
		out = append(out, e.ID.Method+":"+e.Outcome.Status.String())
	}
	return out
}

func TestRun_ClassifiesEachOutcome(t *testing.T) {
	clock := testutil.NewFakeClock()
	track := &tracked{}
	s := widgetSuite("Widget", track, clock,
		suite.Test("Passes", func(w *widget) { mu.Equal(1, 1) }),
		suite.Test("FailsAssertion", func(w *widget) { mu.Equal(1, 2, "one is not two") }),
		suite.Test("Skipped", func(w *widget) { t.Fatal("skipped test ran") }, suite.Skip("not ready")),
		suite.Test("Slow", func(w *widget) { w.clock.Advance(150 * time.Millisecond) }, suite.Timeout(100)),
		suite.Test("Panics", func(w *widget) { panic("kaboom") }),
		suite.TestErr("ReturnsError", func(w *widget) error { return errors.New("disk full") }),
	)

	result := run(t, engine.Config{Clock: clock}, s)

	assert.Equal(t, []string{
		"Passes:Passed",
		"FailsAssertion:AssertionFailed",
		"Skipped:Skipped",
		"Slow:TimedOut",
		"Panics:UnhandledError",
		"ReturnsError:UnhandledError",
	}, statuses(result))

	failed := result.Entries[1].Outcome
	assert.Equal(t, outcome.KindNotEqual, failed.Kind)
	assert.Equal(t, "1", failed.Expected)
	assert.Equal(t, "2", failed.Actual)
	assert.Equal(t, "one is not two", failed.Message)
	assert.Contains(t, failed.StackTrace, "engine_test.TestRun_ClassifiesEachOutcome")

	assert.Equal(t, "not ready", result.Entries[2].Outcome.SkipReason)

	slow := result.Entries[3].Outcome
	assert.Equal(t, int64(150), slow.ElapsedMillis)
	assert.Equal(t, int64(100), slow.BudgetMillis)
	assert.Equal(t, outcome.TimedOutMessage, slow.Message)

	panicked := result.Entries[4].Outcome
	assert.Equal(t, "kaboom", panicked.Message)
	assert.Equal(t, "string", panicked.ErrorType)
	assert.Contains(t, panicked.StackTrace, "engine_test.TestRun_ClassifiesEachOutcome")
	assert.NotContains(t, panicked.StackTrace, "internal/engine.")

	returned := result.Entries[5].Outcome
	assert.Equal(t, "disk full", returned.Message)
	assert.Equal(t, "*errors.errorString", returned.ErrorType)

	// One instance per executed test; none for the skipped one.
	assert.Equal(t, int32(5), track.news.Load())
	assert.Equal(t, int32(5), track.closes.Load())

	for i, e := range result.Entries {
		assert.Equal(t, int64(i+1), e.Seq)
	}
	c := result.Counts()
	assert.Equal(t, engine.Counts{Total: 6, Passed: 1, Failed: 1, Skipped: 1, TimedOut: 1, Unhandled: 2}, c)
	assert.False(t, c.OK())
	assert.Len(t, result.Failures(), 4)
}

func TestRun_EntryCountMatchesDeclaredMethods(t *testing.T) {
	track := &tracked{}
	s := widgetSuite("Widget", track, nil,
		suite.Test("A", func(*widget) {}),
		suite.Helper("NotATest", func(*widget) { t.Fatal("helper ran") }),
		suite.Test("B", func(*widget) { mu.Fail() }),
		suite.Test("A", func(*widget) {}, suite.Skip("duplicate name")),
	)
	result := run(t, engine.Config{}, s)
	require.Len(t, result.Entries, 3)
	assert.Equal(t, []string{"A:Passed", "B:AssertionFailed", "A:Skipped"}, statuses(result))
}

func TestRun_FreshInstancePerTest(t *testing.T) {
	track := &tracked{}
	var observed []int
	bump := func(w *widget) {
		observed = append(observed, w.state)
		w.state++
	}
	s := widgetSuite("Widget", track, nil,
		suite.Test("First", bump),
		suite.Test("Second", bump),
		suite.Test("Third", bump),
	)
	run(t, engine.Config{}, s)
	assert.Equal(t, []int{0, 0, 0}, observed)
	assert.Equal(t, int32(3), track.news.Load())
}

func TestRun_SkipNeverInstantiates(t *testing.T) {
	track := &tracked{}
	s := widgetSuite("OnlySkipped", track, nil,
		suite.Test("Later", func(*widget) {}, suite.Skip("pending")),
	)
	result := run(t, engine.Config{}, s)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, outcome.StatusSkipped, result.Entries[0].Outcome.Status)
	assert.Zero(t, track.news.Load())
	assert.Zero(t, track.closes.Load())
}

func TestRun_ClosesOnEveryPath(t *testing.T) {
	clock := testutil.NewFakeClock()
	track := &tracked{}
	s := widgetSuite("Widget", track, clock,
		suite.Test("Passes", func(*widget) {}),
		suite.Test("Fails", func(*widget) { mu.True(false) }),
		suite.Test("Panics", func(*widget) { panic(errors.New("bad")) }),
		suite.Test("Slow", func(w *widget) { w.clock.Advance(time.Second) }, suite.Timeout(10)),
	)
	run(t, engine.Config{Clock: clock}, s)
	assert.Equal(t, int32(4), track.closes.Load())
}

func TestRun_CloseErrorFailsPassingTestOnly(t *testing.T) {
	track := &tracked{}
	closeErr := errors.New("flush failed")
	s := suite.Define("Leaky", func() (*widget, error) {
		return &widget{track: track, closeFn: func() error { return closeErr }}, nil
	},
		suite.Test("Passes", func(*widget) {}),
		suite.Test("Fails", func(*widget) { mu.Fail("explicit") }),
	)
	result := run(t, engine.Config{}, s)
	require.Len(t, result.Entries, 2)

	assert.Equal(t, outcome.StatusUnhandled, result.Entries[0].Outcome.Status)
	assert.Equal(t, "flush failed", result.Entries[0].Outcome.Message)

	assert.Equal(t, outcome.StatusFailed, result.Entries[1].Outcome.Status)
	assert.Equal(t, outcome.KindExplicitFail, result.Entries[1].Outcome.Kind)
}

func TestRun_ConstructorFailureIsUnhandledPerTest(t *testing.T) {
	calls := 0
	broken := suite.Define("Broken", func() (*widget, error) {
		calls++
		return nil, fmt.Errorf("no database")
	},
		suite.Test("One", func(*widget) {}),
		suite.Test("Two", func(*widget) {}),
		suite.Test("Three", func(*widget) {}, suite.Skip("skipped")),
	)
	panicking := suite.Define("PanickingCtor", func() (*widget, error) { panic("ctor exploded") },
		suite.Test("Only", func(*widget) {}),
	)
	healthy := widgetSuite("Healthy", &tracked{}, nil, suite.Test("Works", func(*widget) {}))

	result := run(t, engine.Config{}, broken, panicking, healthy)
	assert.Equal(t, []string{
		"One:UnhandledError",
		"Two:UnhandledError",
		"Three:Skipped",
		"Only:UnhandledError",
		"Works:Passed",
	}, statuses(result))
	assert.Equal(t, "no database", result.Entries[0].Outcome.Message)
	assert.Equal(t, "ctor exploded", result.Entries[3].Outcome.Message)
	assert.Equal(t, 2, calls)
}

// brokenSuite cannot list its methods.
type brokenSuite struct {
	panics bool
}

func (b brokenSuite) Name() string { return "Unlistable" }

func (b brokenSuite) Methods() ([]suite.Method, error) {
	if b.panics {
		panic("listing exploded")
	}
	return nil, errors.New("cannot load type")
}

func (b brokenSuite) New() (any, error) { return nil, errors.New("unreachable") }

func TestRun_DiscoveryFailureIsIsolated(t *testing.T) {
	listener := &recordingListener{}
	healthy := widgetSuite("Healthy", &tracked{}, nil, suite.Test("Works", func(*widget) {}))

	result := run(t, engine.Config{Listener: listener}, brokenSuite{}, healthy, brokenSuite{panics: true})

	assert.Equal(t, []string{"Works:Passed"}, statuses(result))
	require.Len(t, result.DiscoveryErrors, 2)
	assert.Equal(t, "Unlistable", result.DiscoveryErrors[0].Suite)
	assert.EqualError(t, result.DiscoveryErrors[0].Err, "cannot load type")
	assert.EqualError(t, result.DiscoveryErrors[1].Err, "listing exploded")
	assert.Equal(t, []string{
		"discovery-failed Unlistable",
		"started Healthy/Works",
		"finished Healthy/Works Passed",
		"discovery-failed Unlistable",
	}, listener.events)
}

func TestRun_ReflectedSuiteDiscoveryErrorIsIsolated(t *testing.T) {
	bad := suite.Reflect[widget]("BadDecls", map[string]suite.Declaration{"Missing": {}}, nil)
	good := suite.Reflect[widget]("GoodDecls", map[string]suite.Declaration{"Close": {}}, func() (*widget, error) {
		return &widget{track: &tracked{}}, nil
	})
	result := run(t, engine.Config{}, bad, good)
	require.Len(t, result.DiscoveryErrors, 1)
	assert.Equal(t, "BadDecls", result.DiscoveryErrors[0].Suite)
	assert.Equal(t, []string{"Close:Passed"}, statuses(result))
}

func TestRun_Filter(t *testing.T) {
	track := &tracked{}
	s := widgetSuite("Widget", track, nil,
		suite.Test("Alpha", func(*widget) {}),
		suite.Test("Beta", func(*widget) {}),
		suite.Test("Gamma", func(*widget) {}, suite.Skip("later")),
	)
	var filters engine.RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("Beta$"))

	result := run(t, engine.Config{Filter: filters.Match}, s)
	assert.Equal(t, []string{"Alpha:Passed", "Gamma:Skipped"}, statuses(result))
	assert.Equal(t, int32(1), track.news.Load())
}

func TestRun_FailureReturnedAsWrappedError(t *testing.T) {
	s := widgetSuite("Widget", &tracked{}, nil,
		suite.TestErr("Wrapped", func(*widget) error {
			return fmt.Errorf("calling helper: %w", outcome.NewFailure(outcome.KindNotTrue, "true", "false", "helper check"))
		}),
	)
	result := run(t, engine.Config{}, s)
	o := result.Entries[0].Outcome
	assert.Equal(t, outcome.StatusFailed, o.Status)
	assert.Equal(t, outcome.KindNotTrue, o.Kind)
	assert.Equal(t, "helper check", o.Message)
}

func TestRun_MalformedTestIsUnhandled(t *testing.T) {
	s := widgetSuite("Widget", &tracked{}, nil,
		suite.Test("NilCollection", func(*widget) { mu.Empty(nil) }),
	)
	result := run(t, engine.Config{}, s)
	o := result.Entries[0].Outcome
	assert.Equal(t, outcome.StatusUnhandled, o.Status)
	assert.Equal(t, "*outcome.ArgumentError", o.ErrorType)
	assert.Equal(t, "value cannot be nil: collection", o.Message)
}

func TestRun_PostHocTimeoutWithRealSleep(t *testing.T) {
	if testing.Short() {
		t.Skip("sleeps")
	}
	s := widgetSuite("Timing", &tracked{}, nil,
		suite.Test("Sleeps150", func(*widget) { time.Sleep(150 * time.Millisecond) }, suite.Timeout(100)),
		suite.Test("NoBudget", func(*widget) { time.Sleep(150 * time.Millisecond) }, suite.Timeout(0)),
	)
	result := run(t, engine.Config{}, s)
	require.Len(t, result.Entries, 2)

	timedOut := result.Entries[0].Outcome
	require.Equal(t, outcome.StatusTimedOut, timedOut.Status)
	assert.GreaterOrEqual(t, timedOut.ElapsedMillis, int64(150))
	assert.Equal(t, int64(100), timedOut.BudgetMillis)

	assert.Equal(t, outcome.StatusPassed, result.Entries[1].Outcome.Status)
}

func TestRun_ErrorWinsOverBudget(t *testing.T) {
	clock := testutil.NewFakeClock()
	s := widgetSuite("Widget", &tracked{}, clock,
		suite.Test("SlowAndWrong", func(w *widget) {
			w.clock.Advance(time.Second)
			mu.Equal("a", "b")
		}, suite.Timeout(1)),
	)
	result := run(t, engine.Config{Clock: clock}, s)
	assert.Equal(t, outcome.StatusFailed, result.Entries[0].Outcome.Status)
}

func TestRun_BudgetComparedInWholeMilliseconds(t *testing.T) {
	clock := testutil.NewFakeClock()
	s := widgetSuite("Widget", &tracked{}, clock,
		suite.Test("UnderOneMillisOver", func(w *widget) {
			w.clock.Advance(100*time.Millisecond + 400*time.Microsecond)
		}, suite.Timeout(100)),
		suite.Test("OneMillisOver", func(w *widget) {
			w.clock.Advance(101 * time.Millisecond)
		}, suite.Timeout(100)),
	)
	result := run(t, engine.Config{Clock: clock}, s)
	assert.Equal(t, []string{"UnderOneMillisOver:Passed", "OneMillisOver:TimedOut"}, statuses(result))

	o := result.Entries[1].Outcome
	assert.Equal(t, int64(101), o.ElapsedMillis)
	assert.Equal(t, int64(100), o.BudgetMillis)
}

func TestRun_PreemptiveAbandonsHungTest(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	track := &tracked{}
	var sawCancel atomic.Bool
	s := widgetSuite("Hangs", track, nil,
		suite.TestContext("Forever", func(_ *widget, ctx context.Context) error {
			<-ctx.Done()
			sawCancel.Store(true)
			<-release
			return nil
		}, suite.Timeout(50)),
		suite.Test("Quick", func(*widget) {}, suite.Timeout(5000)),
		suite.Test("Unbudgeted", func(*widget) {}),
	)

	start := time.Now()
	result := run(t, engine.Config{TimeoutMode: engine.Preemptive}, s)
	assert.Less(t, time.Since(start), 5*time.Second)

	assert.Equal(t, []string{"Forever:TimedOut", "Quick:Passed", "Unbudgeted:Passed"}, statuses(result))
	hung := result.Entries[0].Outcome
	assert.Greater(t, hung.ElapsedMillis, hung.BudgetMillis)
	assert.Equal(t, int64(50), hung.BudgetMillis)
	assert.Eventually(t, sawCancel.Load, time.Second, 10*time.Millisecond)
}

func TestRun_PreemptiveAssertionFailure(t *testing.T) {
	s := widgetSuite("Widget", &tracked{}, nil,
		suite.Test("Fails", func(*widget) { mu.Contains(3, []int{1, 2}) }, suite.Timeout(5000)),
	)
	result := run(t, engine.Config{TimeoutMode: engine.Preemptive}, s)
	o := result.Entries[0].Outcome
	assert.Equal(t, outcome.StatusFailed, o.Status)
	assert.Equal(t, outcome.KindDoesNotContain, o.Kind)
}

func TestRun_Idempotent(t *testing.T) {
	build := func() []suite.Suite {
		return []suite.Suite{
			widgetSuite("A", &tracked{}, nil,
				suite.Test("Passes", func(*widget) {}),
				suite.Test("Fails", func(*widget) { mu.Equal([]int{1}, []int{2}) }),
			),
			widgetSuite("B", &tracked{}, nil,
				suite.Test("Skips", func(*widget) {}, suite.Skip("why not")),
				suite.Test("Panics", func(*widget) { panic("again") }),
			),
		}
	}
	eng := engine.New(engine.Config{})
	first := eng.Run(context.Background(), build())
	second := eng.Run(context.Background(), build())
	assert.Equal(t, first, second)
}

func TestRun_LogsStructuredEvents(t *testing.T) {
	var buf strings.Builder
	logger := newTextLogger(&buf)
	s := widgetSuite("Widget", &tracked{}, nil, suite.Test("Passes", func(*widget) {}))
	engine.New(engine.Config{Logger: logger}).Run(context.Background(), []suite.Suite{s})

	out := buf.String()
	assert.Contains(t, out, "msg=\"run starting\"")
	assert.Contains(t, out, "test=Widget/Passes")
	assert.Regexp(t, regexp.MustCompile(`msg="run finished" total=1 passed=1`), out)
}
