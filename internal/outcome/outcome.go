package outcome

import (
	"errors"
	"fmt"
)

// Status selects which variant of Outcome is populated.
type Status int

const (
	StatusPassed Status = iota
	StatusSkipped
	StatusFailed
	StatusTimedOut
	StatusUnhandled
)

func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "Passed"
	case StatusSkipped:
		return "Skipped"
	case StatusFailed:
		return "AssertionFailed"
	case StatusTimedOut:
		return "TimedOut"
	case StatusUnhandled:
		return "UnhandledError"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(name string) (Status, bool) {
	for s := StatusPassed; s <= StatusUnhandled; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return StatusPassed, false
}

// TimedOutMessage is the message recorded for a test that exceeded its budget.
const TimedOutMessage = "Method took longer than expected"

// Outcome is the classified result of running or skipping one test method.
//
// Only the fields of the selected Status are meaningful:
//   - StatusSkipped: SkipReason
//   - StatusFailed: Kind, Expected, Actual, Message, StackTrace
//   - StatusTimedOut: ElapsedMillis, BudgetMillis
//   - StatusUnhandled: Message, StackTrace, ErrorType
//
// Outcome is a value; once recorded it is never modified.
type Outcome struct {
	Status Status

	Kind       Kind
	Expected   string
	Actual     string
	Message    string
	StackTrace string
	ErrorType  string

	SkipReason string

	ElapsedMillis int64
	BudgetMillis  int64
}

// Passed returns the passing outcome.
func Passed() Outcome {
	return Outcome{Status: StatusPassed}
}

// Skipped returns the outcome for a test declared as skipped.
func Skipped(reason string) Outcome {
	return Outcome{Status: StatusSkipped, SkipReason: reason}
}

// Failed copies an assertion failure into an outcome.
func Failed(f *Failure) Outcome {
	return Outcome{
		Status:     StatusFailed,
		Kind:       f.Kind,
		Expected:   f.Expected,
		Actual:     f.Actual,
		Message:    f.Message,
		StackTrace: f.Trace,
	}
}

// TimedOut returns the outcome for a test that ran longer than its budget.
func TimedOut(elapsedMillis, budgetMillis int64) Outcome {
	return Outcome{
		Status:        StatusTimedOut,
		Kind:          KindTimedOut,
		Message:       TimedOutMessage,
		ElapsedMillis: elapsedMillis,
		BudgetMillis:  budgetMillis,
	}
}

// Unhandled returns the outcome for an error that is not an assertion failure.
func Unhandled(message, stackTrace, errorType string) Outcome {
	return Outcome{
		Status:     StatusUnhandled,
		Message:    message,
		StackTrace: stackTrace,
		ErrorType:  errorType,
	}
}

// Classify maps an error raised by a test method to its outcome.
// A nil error is a pass; timing is not considered here.
func Classify(err error) Outcome {
	if err == nil {
		return Passed()
	}
	if f, ok := AsFailure(err); ok {
		return Failed(f)
	}
	var trace string
	var pe *PanicError
	if errors.As(err, &pe) {
		trace = pe.Stack
	}
	return Unhandled(err.Error(), trace, TypeName(err))
}

// OK reports whether the outcome counts as a success for exit-code purposes.
// Skipped tests are not failures.
func (o Outcome) OK() bool {
	return o.Status == StatusPassed || o.Status == StatusSkipped
}
