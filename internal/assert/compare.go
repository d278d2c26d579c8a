package assert

import (
	"cmp"
	"fmt"
	"reflect"

	"github.com/roach88/moonunit/internal/outcome"
)

// Comparer orders two values: negative when x < y, zero when equal, positive
// when x > y.
type Comparer[T any] func(x, y T) int

// DefaultCompare is the ordering used by Between and NotBetween.
//
// For nillable types a nil value ranks below every non-nil value, and a
// non-nil x against a nil y also compares as less. The same holds for nil
// pointers held in an interface and nested pointers. Values whose dynamic types
// differ compare as less as well. Values that are neither ordered kinds nor
// implement Compare(T) int are unordered and compare as less. Between relies on
// these rules to reject nil and mismatched bounds.
func DefaultCompare[T any](x, y T) int {
	xv := reflect.ValueOf(&x).Elem()
	yv := reflect.ValueOf(&y).Elem()
	if nillable(xv.Kind()) {
		xNil, yNil := xv.IsNil(), yv.IsNil()
		if xNil {
			if yNil {
				return 0
			}
			return -1
		}
		if yNil {
			return -1
		}
	}
	ax, ay := any(x), any(y)
	if reflect.TypeOf(ax) != reflect.TypeOf(ay) {
		return -1
	}
	if c, ok := ax.(interface{ Compare(T) int }); ok {
		return c.Compare(y)
	}
	return compareValues(reflect.ValueOf(ax), reflect.ValueOf(ay))
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	}
	return false
}

func compareValues(x, y reflect.Value) int {
	switch x.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return cmp.Compare(x.Int(), y.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return cmp.Compare(x.Uint(), y.Uint())
	case reflect.Float32, reflect.Float64:
		return cmp.Compare(x.Float(), y.Float())
	case reflect.String:
		return cmp.Compare(x.String(), y.String())
	case reflect.Pointer:
		switch {
		case x.IsNil() && y.IsNil():
			return 0
		case x.IsNil() || y.IsNil():
			return -1
		}
		return compareValues(x.Elem(), y.Elem())
	}
	return -1
}

func between[T any](value, low, high T, compare Comparer[T]) bool {
	return compare(high, value) >= 0 && compare(value, low) >= 0
}

func rangeText(low, high any) string {
	return fmt.Sprintf("%s - %s", format(low), format(high))
}

// Between fails with KindNotBetween unless low <= value <= high under
// DefaultCompare. Both bounds are inclusive.
func Between[T any](value, low, high T, message ...string) {
	BetweenFunc(value, low, high, DefaultCompare[T], message...)
}

// BetweenFunc fails with KindNotBetween unless low <= value <= high under
// compare.
func BetweenFunc[T any](value, low, high T, compare Comparer[T], message ...string) {
	if !between(value, low, high, compare) {
		raise(outcome.KindNotBetween, rangeText(low, high), format(value), "assert.Between() failed", message)
	}
}

// NotBetween fails with KindBetween when low <= value <= high under
// DefaultCompare. It fails exactly when Between would not.
func NotBetween[T any](value, low, high T, message ...string) {
	NotBetweenFunc(value, low, high, DefaultCompare[T], message...)
}

// NotBetweenFunc fails with KindBetween when low <= value <= high under
// compare.
func NotBetweenFunc[T any](value, low, high T, compare Comparer[T], message ...string) {
	if between(value, low, high, compare) {
		raise(outcome.KindBetween, rangeText(low, high), format(value), "assert.NotBetween() failed", message)
	}
}
