package assert

import (
	"reflect"

	"github.com/roach88/moonunit/internal/outcome"
)

// isOfType reports whether value's dynamic type is t or, when t is an
// interface type, implements it.
func isOfType(value any, t reflect.Type) bool {
	if value == nil || t == nil {
		return false
	}
	vt := reflect.TypeOf(value)
	if t.Kind() == reflect.Interface {
		return vt.Implements(t)
	}
	return vt == t
}

// OfType fails with KindNotOfType unless value is a T. For an interface T
// any value implementing it matches.
func OfType[T any](value any, message ...string) {
	OfTypeOf(value, reflect.TypeFor[T](), message...)
}

// OfTypeOf is OfType with the type given as a reflect.Type.
func OfTypeOf(value any, t reflect.Type, message ...string) {
	if !isOfType(value, t) {
		raise(outcome.KindNotOfType, typeName(t), typeName(reflect.TypeOf(value)), "assert.OfType() failed", message)
	}
}

// NotOfType fails with KindIsOfType when value is a T.
func NotOfType[T any](value any, message ...string) {
	NotOfTypeOf(value, reflect.TypeFor[T](), message...)
}

// NotOfTypeOf is NotOfType with the type given as a reflect.Type.
func NotOfTypeOf(value any, t reflect.Type, message ...string) {
	if isOfType(value, t) {
		raise(outcome.KindIsOfType, typeName(t), typeName(reflect.TypeOf(value)), "assert.NotOfType() failed", message)
	}
}

// identity returns the storage address behind v, if it has one.
func identity(v any) (uintptr, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return rv.Pointer(), true
	case reflect.Slice:
		if rv.IsNil() {
			return 0, true
		}
		return uintptr(rv.UnsafePointer()), true
	}
	return 0, false
}

// same reports identity: both nil, or both referring to the same storage with
// the same type. Plain values have no identity and are never the same.
func same(expected, actual any) bool {
	if expected == nil || actual == nil {
		return expected == nil && actual == nil
	}
	if reflect.TypeOf(expected) != reflect.TypeOf(actual) {
		return false
	}
	ep, eok := identity(expected)
	ap, aok := identity(actual)
	if !eok || !aok {
		return false
	}
	if reflect.ValueOf(expected).Kind() == reflect.Slice && reflect.ValueOf(expected).Len() != reflect.ValueOf(actual).Len() {
		return false
	}
	return ep == ap
}

// Same fails with KindNotSame unless expected and actual refer to the same
// storage. Structurally equal copies are not the same.
func Same(expected, actual any, message ...string) {
	if !same(expected, actual) {
		raise(outcome.KindNotSame, format(expected), format(actual), "assert.Same() failed", message)
	}
}

// NotSame fails with KindIsSame when expected and actual refer to the same
// storage.
func NotSame(expected, actual any, message ...string) {
	if same(expected, actual) {
		raise(outcome.KindIsSame, format(expected), format(actual), "assert.NotSame() failed", message)
	}
}
