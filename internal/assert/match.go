package assert

import (
	"math"
	"reflect"
	"regexp"
	"strconv"

	"github.com/roach88/moonunit/internal/outcome"
)

// Match fails with KindNotMatch unless actual matches the regular expression
// pattern. An invalid pattern is a malformed test and panics with the
// compile error.
func Match(pattern, actual string, message ...string) {
	if !regexp.MustCompile(pattern).MatchString(actual) {
		raise(outcome.KindNotMatch, pattern, actual, "assert.Match() failed", message)
	}
}

// NotMatch fails with KindMatchFound when actual matches pattern.
func NotMatch(pattern, actual string, message ...string) {
	if regexp.MustCompile(pattern).MatchString(actual) {
		raise(outcome.KindMatchFound, pattern, actual, "assert.NotMatch() failed", message)
	}
}

// NaN fails with KindNotNaN unless value is NaN.
func NaN(value float64, message ...string) {
	if !math.IsNaN(value) {
		raise(outcome.KindNotNaN, "NaN", strconv.FormatFloat(value, 'g', -1, 64), "assert.NaN() failed", message)
	}
}

// NotNaN fails with KindIsNaN when value is NaN.
func NotNaN(value float64, message ...string) {
	if math.IsNaN(value) {
		raise(outcome.KindIsNaN, "", "NaN", "assert.NotNaN() failed", message)
	}
}

// collectionLen returns the length of a slice, array, map, string or channel.
// Nil slices and maps have length zero. An untyped nil, a nil pointer or a
// non-collection panics with *outcome.ArgumentError.
func collectionLen(collection any) int {
	if collection == nil {
		panic(&outcome.ArgumentError{Name: "collection", Err: outcome.ErrNilArgument})
	}
	rv := reflect.ValueOf(collection)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.String, reflect.Chan:
		return rv.Len()
	case reflect.Pointer:
		if rv.IsNil() {
			panic(&outcome.ArgumentError{Name: "collection", Err: outcome.ErrNilArgument})
		}
		if rv.Elem().Kind() == reflect.Array {
			return rv.Elem().Len()
		}
	}
	panic(&outcome.ArgumentError{Name: "collection", Err: outcome.ErrNotCollection})
}

// Empty fails with KindNotEmpty when collection has elements. A missing
// collection is a malformed test, not a failed assertion.
func Empty(collection any, message ...string) {
	if n := collectionLen(collection); n != 0 {
		raise(outcome.KindNotEmpty, "0", strconv.Itoa(n), "assert.Empty() failed", message)
	}
}

// NotEmpty fails with KindIsEmpty when collection has no elements.
func NotEmpty(collection any, message ...string) {
	if collectionLen(collection) == 0 {
		raise(outcome.KindIsEmpty, "", "0", "assert.NotEmpty() failed", message)
	}
}
