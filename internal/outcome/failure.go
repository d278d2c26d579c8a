package outcome

import (
	"fmt"
	"strings"
)

// Failure is raised by an assertion that did not hold.
//
// All fields are formatted when the failure is created; the engine and the
// report copy them without reinterpreting values.
type Failure struct {
	Kind     Kind
	Expected string
	Actual   string
	Message  string
	Trace    string
}

// NewFailure creates a failure with the given fields and no trace.
func NewFailure(kind Kind, expected, actual, message string) *Failure {
	return &Failure{
		Kind:     kind,
		Expected: expected,
		Actual:   actual,
		Message:  message,
	}
}

// Error implements the error interface.
func (f *Failure) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "%s: %s", f.Kind, f.Message)
	if f.Expected != "" || f.Actual != "" {
		fmt.Fprintf(&buf, " (expected %q, actual %q)", f.Expected, f.Actual)
	}
	return buf.String()
}

// IsKind reports whether err carries a *Failure with the given kind.
func IsKind(err error, kind Kind) bool {
	f, ok := AsFailure(err)
	return ok && f.Kind == kind
}
