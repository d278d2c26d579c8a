package cli

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/outcome"
)

func TestConsoleListener_Quiet(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleListener(&buf, false, true)
	id := engine.TestID{Suite: "Order", Method: "Slow"}

	c.TestStarted(id)
	c.TestFinished(engine.TestID{Suite: "Order", Method: "Fast"}, outcome.Passed(), time.Millisecond)
	c.TestFinished(id, outcome.TimedOut(150, 100), 150*time.Millisecond)
	c.TestSkipped(engine.TestID{Suite: "Order", Method: "Legacy"}, "")
	c.DiscoveryFailed("Broken", errors.New("method Run has no body"))

	assert.Equal(t, "  TIMEOUT Order/Slow\n"+
		"    "+outcome.TimedOutMessage+": took 150ms, budget 100ms\n"+
		"  SKIP Order/Legacy\n"+
		"  DISCOVERY FAILED Broken\n"+
		"    method Run has no body\n", buf.String())
}

func TestConsoleListener_VerboseTrace(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleListener(&buf, true, true)

	c.TestFinished(engine.TestID{Suite: "Order", Method: "Parse"},
		outcome.Unhandled("bad input\nsecond line", "main.parse\n\tparse.go:12", "*strconv.NumError"), 0)

	assert.Equal(t, "  ERROR Order/Parse [*strconv.NumError]\n"+
		"    bad input\n"+
		"    second line\n"+
		"      main.parse\n"+
		"      \tparse.go:12\n", buf.String())
}

func TestConsoleListener_Summary(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsoleListener(&buf, false, true)

	c.Summary(engine.Counts{Total: 3, Passed: 2, Skipped: 1}, 0)
	c.Summary(engine.Counts{Total: 1, Failed: 1}, 2)

	assert.Equal(t, "3 tests: 2 passed, 0 failed, 1 skipped, 0 timed out, 0 unhandled\n"+
		"1 tests: 0 passed, 1 failed, 0 skipped, 0 timed out, 0 unhandled, 2 suites failed discovery\n", buf.String())
}
