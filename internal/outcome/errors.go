package outcome

import (
	"errors"
	"fmt"
)

// ErrNilArgument is the sentinel for a required argument that was nil.
var ErrNilArgument = errors.New("value cannot be nil")

// ErrNotCollection is the sentinel for an argument that has no length.
var ErrNotCollection = errors.New("value is not a collection")

// ArgumentError reports a malformed test: a check was called with an argument
// it cannot evaluate. It is never converted into a *Failure.
type ArgumentError struct {
	Name string // parameter name, e.g. "collection"
	Err  error  // ErrNilArgument or ErrNotCollection
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Name)
}

func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// PanicError wraps a value recovered from a panic that was not already an
// error. When the value is an error it is reachable through Unwrap.
type PanicError struct {
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	if err, ok := e.Value.(error); ok {
		return err.Error()
	}
	return fmt.Sprint(e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Recovered converts a recovered panic value into an error carrying stack.
// Returns nil for a nil value.
func Recovered(value any, stack string) error {
	if value == nil {
		return nil
	}
	return &PanicError{Value: value, Stack: stack}
}

// AsFailure finds the first *Failure in err's chain.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}

// TypeName returns the runtime type name reported for an unhandled error.
// A *PanicError is transparent: the type of the panic value is reported.
func TypeName(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		if inner, ok := pe.Value.(error); ok {
			return fmt.Sprintf("%T", inner)
		}
		return fmt.Sprintf("%T", pe.Value)
	}
	return fmt.Sprintf("%T", err)
}
