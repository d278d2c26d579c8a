package assert

import (
	"errors"
	"reflect"

	"github.com/roach88/moonunit/internal/outcome"
)

// raised runs action and returns what it raised: the returned error, or the
// recovered panic as an *outcome.PanicError. With keepFailures set, a
// panicking assertion inside action is re-raised instead of returned.
func raised(action func() error, keepFailures bool) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if f, ok := r.(*outcome.Failure); ok && keepFailures {
			panic(f)
		}
		err = outcome.Recovered(r, outcome.PanicTrace())
	}()
	return action()
}

// Throws runs action and fails unless it raises an E, either as its returned
// error or by panicking with one. The matched error is returned.
//
// It fails with KindThrowsDidNotThrow when action raises nothing and with
// KindThrowsExpectedTypeMismatch when it raises something else.
func Throws[E error](action func() error, message ...string) E {
	var target E
	err := raised(action, false)
	if err == nil {
		raise(outcome.KindThrowsDidNotThrow, typeName(reflect.TypeFor[E]()), "", "assert.Throws() failed", message)
	}
	if !errors.As(err, &target) {
		raise(outcome.KindThrowsExpectedTypeMismatch, typeName(reflect.TypeFor[E]()), outcome.TypeName(err), "assert.Throws() failed", message)
	}
	return target
}

// ThrowsValue is Throws for an action that returns a value. Since a passing
// action has raised, no value is available and the zero R is returned.
func ThrowsValue[E error, R any](action func() (R, error), message ...string) R {
	var zero R
	Throws[E](func() error {
		_, err := action()
		return err
	}, message...)
	return zero
}

// DoesNotThrow runs action and fails with KindDoesNotThrowButDid if it raises
// an E. Anything else action raises is swallowed; use DoesNotThrowStrict to
// surface it. Assertion failures inside action are never swallowed.
func DoesNotThrow[E error](action func() error, message ...string) {
	doesNotThrow[E](action, false, message)
}

// DoesNotThrowValue is DoesNotThrow for an action that returns a value. The
// value is returned when action succeeds; the zero R is returned when a
// different error was swallowed.
func DoesNotThrowValue[E error, R any](action func() (R, error), message ...string) R {
	var result R
	doesNotThrow[E](func() error {
		v, err := action()
		if err == nil {
			result = v
		}
		return err
	}, false, message)
	return result
}

// DoesNotThrowStrict is DoesNotThrow that re-raises errors other than E
// instead of swallowing them, so the test reports them as unhandled.
func DoesNotThrowStrict[E error](action func() error, message ...string) {
	doesNotThrow[E](action, true, message)
}

func doesNotThrow[E error](action func() error, strict bool, message []string) {
	err := raised(action, true)
	if err == nil {
		return
	}
	var target E
	if errors.As(err, &target) {
		raise(outcome.KindDoesNotThrowButDid, "", outcome.TypeName(err), "assert.DoesNotThrow() failed", message)
	}
	if !strict {
		return
	}
	var pe *outcome.PanicError
	if errors.As(err, &pe) {
		panic(pe.Value)
	}
	panic(err)
}
