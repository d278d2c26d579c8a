package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/roach88/moonunit/internal/engine"
	"github.com/roach88/moonunit/internal/outcome"
)

// ConsoleListener prints test progress as the engine reports it.
type ConsoleListener struct {
	w       io.Writer
	verbose bool

	pass, fail, skip, bold *color.Color
}

var _ engine.Listener = (*ConsoleListener)(nil)

// NewConsoleListener creates a listener writing to w. Passing tests are only
// printed in verbose mode.
func NewConsoleListener(w io.Writer, verbose, noColor bool) *ConsoleListener {
	c := &ConsoleListener{
		w:       w,
		verbose: verbose,
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed, color.Bold),
		skip:    color.New(color.FgYellow),
		bold:    color.New(color.Bold),
	}
	if noColor {
		for _, col := range []*color.Color{c.pass, c.fail, c.skip, c.bold} {
			col.DisableColor()
		}
	}
	return c
}

func (c *ConsoleListener) TestStarted(id engine.TestID) {
	if c.verbose {
		fmt.Fprintf(c.w, "[%s]\n", id)
	}
}

func (c *ConsoleListener) TestFinished(id engine.TestID, o outcome.Outcome, elapsed time.Duration) {
	switch o.Status {
	case outcome.StatusPassed:
		if c.verbose {
			c.pass.Fprintf(c.w, "  PASS %s (%dms)\n", id, elapsed.Milliseconds())
		}
	case outcome.StatusFailed:
		c.fail.Fprintf(c.w, "  FAIL %s [%s]\n", id, o.Kind)
		c.detail(o.Message)
		if o.Expected != "" || o.Actual != "" {
			fmt.Fprintf(c.w, "    expected: %s\n", o.Expected)
			fmt.Fprintf(c.w, "    actual:   %s\n", o.Actual)
		}
		c.trace(o.StackTrace)
	case outcome.StatusTimedOut:
		c.fail.Fprintf(c.w, "  TIMEOUT %s\n", id)
		fmt.Fprintf(c.w, "    %s: took %dms, budget %dms\n", o.Message, o.ElapsedMillis, o.BudgetMillis)
	case outcome.StatusUnhandled:
		c.fail.Fprintf(c.w, "  ERROR %s [%s]\n", id, o.ErrorType)
		c.detail(o.Message)
		c.trace(o.StackTrace)
	}
}

func (c *ConsoleListener) TestSkipped(id engine.TestID, reason string) {
	if reason == "" {
		c.skip.Fprintf(c.w, "  SKIP %s\n", id)
	} else {
		c.skip.Fprintf(c.w, "  SKIP %s (%s)\n", id, reason)
	}
}

func (c *ConsoleListener) DiscoveryFailed(suite string, err error) {
	c.fail.Fprintf(c.w, "  DISCOVERY FAILED %s\n", suite)
	c.detail(err.Error())
}

func (c *ConsoleListener) detail(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(c.w, "    %s\n", line)
	}
}

// trace is only printed in verbose mode.
func (c *ConsoleListener) trace(trace string) {
	if !c.verbose || trace == "" {
		return
	}
	for _, line := range strings.Split(trace, "\n") {
		fmt.Fprintf(c.w, "      %s\n", line)
	}
}

// Summary prints the totals line of a run.
func (c *ConsoleListener) Summary(counts engine.Counts, discoveryErrors int) {
	line := fmt.Sprintf("%d tests: %d passed, %d failed, %d skipped, %d timed out, %d unhandled",
		counts.Total, counts.Passed, counts.Failed, counts.Skipped, counts.TimedOut, counts.Unhandled)
	if discoveryErrors > 0 {
		line += fmt.Sprintf(", %d suites failed discovery", discoveryErrors)
	}
	if counts.OK() && discoveryErrors == 0 {
		c.pass.Fprintln(c.w, line)
	} else {
		c.fail.Fprintln(c.w, line)
	}
}

// Printf writes an unstyled line.
func (c *ConsoleListener) Printf(format string, args ...any) {
	c.bold.Fprintf(c.w, format+"\n", args...)
}
