package outcome

import (
	"fmt"
	"runtime"
	"strings"
)

// TraceBoundary is the function-name prefix at which captured traces stop.
// Frames from the engine and anything below it are identical for every test
// and only add noise to a report.
const TraceBoundary = "github.com/roach88/moonunit/internal/engine."

// assertPackage frames are the checks themselves and are omitted, except for
// the package's own tests.
const assertPackage = "github.com/roach88/moonunit/internal/assert."

// suitePackage frames adapt test methods for the engine.
const suitePackage = "github.com/roach88/moonunit/internal/suite."

const maxTraceDepth = 64

// CaptureTrace renders the caller's stack, skipping skip frames above it.
// The output has no goroutine ids or program counters, so the same code path
// always renders the same text.
func CaptureTrace(skip int) string {
	pcs := make([]uintptr, maxTraceDepth)
	n := runtime.Callers(skip+2, pcs)
	return formatFrames(pcs[:n], false)
}

// PanicTrace renders the stack of the goroutine that is currently panicking.
// It must be called from a deferred function; frames up to and including the
// runtime's panic entry point are dropped.
func PanicTrace() string {
	pcs := make([]uintptr, maxTraceDepth)
	n := runtime.Callers(2, pcs)
	return formatFrames(pcs[:n], true)
}

func formatFrames(pcs []uintptr, afterPanic bool) string {
	frames := runtime.CallersFrames(pcs)
	var lines []string
	seenPanic := !afterPanic
	for {
		frame, more := frames.Next()
		switch {
		case !seenPanic:
			if frame.Function == "runtime.gopanic" {
				seenPanic = true
			}
		case strings.HasPrefix(frame.Function, TraceBoundary):
			more = false
		case strings.HasPrefix(frame.Function, "runtime."),
			strings.HasPrefix(frame.Function, "reflect."),
			strings.HasPrefix(frame.Function, suitePackage) && !strings.HasSuffix(frame.File, "_test.go"),
			strings.HasPrefix(frame.Function, assertPackage) && !strings.HasSuffix(frame.File, "_test.go"):
		default:
			lines = append(lines, fmt.Sprintf("%s\n\t%s:%d", frame.Function, frame.File, frame.Line))
		}
		if !more {
			break
		}
	}
	return strings.Join(lines, "\n")
}
