package assert

import (
	"fmt"
	"reflect"

	"github.com/roach88/moonunit/internal/outcome"
)

// raise panics with a failure of the given kind. The trace starts at the
// frame that called the public check.
func raise(kind outcome.Kind, expected, actual string, defaultMessage string, message []string) {
	f := outcome.NewFailure(kind, expected, actual, messageOr(defaultMessage, message))
	f.Trace = outcome.CaptureTrace(1)
	panic(f)
}

func messageOr(defaultMessage string, message []string) string {
	if len(message) > 0 {
		return message[0]
	}
	return defaultMessage
}

// format renders a value for the Expected and Actual fields. Nil renders as
// the empty string.
func format(v any) string {
	if isNil(v) {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

// isNil reports whether v is nil or a typed nil of a nillable kind.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.IsNil()
	}
	return false
}

// True fails with KindNotTrue unless value is true.
func True(value bool, message ...string) {
	if !value {
		raise(outcome.KindNotTrue, "true", "false", "assert.True() failed", message)
	}
}

// False fails with KindNotFalse unless value is false.
func False(value bool, message ...string) {
	if value {
		raise(outcome.KindNotFalse, "false", "true", "assert.False() failed", message)
	}
}

// Null fails with KindNotNull when value is not nil. Typed nil pointers,
// maps, slices, channels and funcs count as nil.
func Null(value any, message ...string) {
	if !isNil(value) {
		raise(outcome.KindNotNull, "", format(value), "assert.Null() failed", message)
	}
}

// NotNull fails with KindNotNullValue when value is nil.
func NotNull(value any, message ...string) {
	if isNil(value) {
		raise(outcome.KindNotNullValue, "", "", "assert.NotNull() failed", message)
	}
}

// Fail always fails with KindExplicitFail.
func Fail(message ...string) {
	raise(outcome.KindExplicitFail, "", "", "assert.Fail() called", message)
}

// Do runs action and fails with KindGeneric if it returns an error.
func Do(action func() error, message ...string) {
	if err := action(); err != nil {
		raise(outcome.KindGeneric, "", fmt.Sprintf("%T", err), messageOr(err.Error(), message), nil)
	}
}

// DoValue runs action, failing with KindGeneric if it returns an error, and
// returns its value otherwise.
func DoValue[R any](action func() (R, error), message ...string) R {
	v, err := action()
	if err != nil {
		raise(outcome.KindGeneric, "", fmt.Sprintf("%T", err), messageOr(err.Error(), message), nil)
	}
	return v
}
