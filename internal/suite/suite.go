package suite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Declaration marks a method as a test.
//
// A skipped test is never invoked and its suite is not instantiated for it.
// A TimeoutMillis of zero or less means no time budget.
type Declaration struct {
	Skip          bool
	SkipReason    string
	TimeoutMillis int64
}

// Timeout returns the budget as a duration. Zero means no budget.
func (d Declaration) Timeout() time.Duration {
	if d.TimeoutMillis <= 0 {
		return 0
	}
	return time.Duration(d.TimeoutMillis) * time.Millisecond
}

// ErrMissingSkipReason is reported by discovery for a skipped test without
// a reason.
var ErrMissingSkipReason = errors.New("skipped test needs a reason")

// Validate checks that a skipped test carries a non-blank reason.
func (d Declaration) Validate() error {
	if d.Skip && strings.TrimSpace(d.SkipReason) == "" {
		return ErrMissingSkipReason
	}
	return nil
}

// Invoker calls one method on an instance created by Suite.New.
type Invoker func(ctx context.Context, instance any) error

// Method is one method of a suite as seen by discovery.
type Method struct {
	Name string
	// Declaration is nil for methods that are not tests.
	Declaration *Declaration
	Invoke      Invoker
}

// IsTest reports whether the method carries a declaration.
func (m Method) IsTest() bool {
	return m.Declaration != nil
}

// Suite is a test type.
type Suite interface {
	// Name is reported as the declaring type of every test in the suite.
	Name() string
	// Methods lists the suite's methods in discovery order.
	Methods() ([]Method, error)
	// New creates a fresh instance. It is called once per invoked test.
	New() (any, error)
}

// Option adjusts a Declaration.
type Option func(*Declaration)

// Skip marks the test as skipped with the given reason. The reason is
// required; discovery fails for a blank one.
func Skip(reason string) Option {
	return func(d *Declaration) {
		d.Skip = true
		d.SkipReason = reason
	}
}

// Timeout sets the test's time budget in milliseconds.
func Timeout(millis int64) Option {
	return func(d *Declaration) {
		d.TimeoutMillis = millis
	}
}

// Declare builds a Declaration from options.
func Declare(opts ...Option) Declaration {
	var d Declaration
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// DiscoveryError reports that a suite's methods could not be listed.
type DiscoveryError struct {
	Suite string
	Err   error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("discover %s: %v", e.Suite, e.Err)
}

func (e *DiscoveryError) Unwrap() error {
	return e.Err
}
