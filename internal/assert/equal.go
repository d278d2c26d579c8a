package assert

import (
	"math"
	"reflect"

	testify "github.com/stretchr/testify/assert"

	"github.com/roach88/moonunit/internal/outcome"
)

// Equality reports whether two values are equal.
type Equality[T any] func(expected, actual T) bool

// DefaultEquality is structural equality. It agrees with testify's
// ObjectsAreEqual and additionally treats NaN as equal to NaN, so every value
// is equal to itself.
func DefaultEquality[T any](expected, actual T) bool {
	if testify.ObjectsAreEqual(expected, actual) {
		return true
	}
	return equalNaN(reflect.ValueOf(&expected).Elem(), reflect.ValueOf(&actual).Elem(), 0)
}

// maxEqualDepth bounds the walk over self-referencing values.
const maxEqualDepth = 64

// equalNaN walks two values of the same type. It reads leaf values through
// their kind accessors so unexported fields are comparable.
func equalNaN(a, b reflect.Value, depth int) bool {
	if depth > maxEqualDepth {
		return false
	}
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Float32, reflect.Float64:
		x, y := a.Float(), b.Float()
		return x == y || (math.IsNaN(x) && math.IsNaN(y))
	case reflect.Complex64, reflect.Complex128:
		x, y := a.Complex(), b.Complex()
		return equalNaN(reflect.ValueOf(real(x)), reflect.ValueOf(real(y)), depth+1) &&
			equalNaN(reflect.ValueOf(imag(x)), reflect.ValueOf(imag(y)), depth+1)
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.String:
		return a.String() == b.String()
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !equalNaN(a.Index(i), b.Index(i), depth+1) {
				return false
			}
		}
		return true
	case reflect.Slice:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		if a.UnsafePointer() == b.UnsafePointer() {
			return true
		}
		for i := 0; i < a.Len(); i++ {
			if !equalNaN(a.Index(i), b.Index(i), depth+1) {
				return false
			}
		}
		return true
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !equalNaN(a.Field(i), b.Field(i), depth+1) {
				return false
			}
		}
		return true
	case reflect.Pointer:
		if a.Pointer() == b.Pointer() {
			return true
		}
		if a.IsNil() || b.IsNil() {
			return false
		}
		return equalNaN(a.Elem(), b.Elem(), depth+1)
	case reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equalNaN(a.Elem(), b.Elem(), depth+1)
	case reflect.Map:
		if a.IsNil() != b.IsNil() || a.Len() != b.Len() {
			return false
		}
		if a.Pointer() == b.Pointer() {
			return true
		}
		iter := a.MapRange()
		for iter.Next() {
			bv := b.MapIndex(iter.Key())
			if !bv.IsValid() || !equalNaN(iter.Value(), bv, depth+1) {
				return false
			}
		}
		return true
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return a.Pointer() == b.Pointer()
	}
	return false
}

// Equal fails with KindNotEqual unless expected and actual are equal under
// DefaultEquality.
func Equal[T any](expected, actual T, message ...string) {
	EqualFunc(expected, actual, DefaultEquality[T], message...)
}

// EqualFunc fails with KindNotEqual unless eq(expected, actual) holds.
func EqualFunc[T any](expected, actual T, eq Equality[T], message ...string) {
	if !eq(expected, actual) {
		raise(outcome.KindNotEqual, format(expected), format(actual), "assert.Equal() failed", message)
	}
}

// NotEqual fails with KindEqual when expected and actual are equal under
// DefaultEquality.
func NotEqual[T any](expected, actual T, message ...string) {
	NotEqualFunc(expected, actual, DefaultEquality[T], message...)
}

// NotEqualFunc fails with KindEqual when eq(expected, actual) holds.
func NotEqualFunc[T any](expected, actual T, eq Equality[T], message ...string) {
	if eq(expected, actual) {
		raise(outcome.KindEqual, format(expected), format(actual), "assert.NotEqual() failed", message)
	}
}
