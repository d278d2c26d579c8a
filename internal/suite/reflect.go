package suite

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"
)

var (
	errorType   = reflect.TypeFor[error]()
	contextType = reflect.TypeFor[context.Context]()
)

// reflected is a Suite whose methods are found by reflection.
type reflected[T any] struct {
	name  string
	ctor  func() (*T, error)
	decls map[string]Declaration
}

// Reflect builds a Suite from the exported methods of *T. A method is a test
// when decls has an entry for its name. Test methods must have one of the
// signatures
//
//	func()
//	func() error
//	func(context.Context)
//	func(context.Context) error
//
// Methods are listed in the order reflection reports them. Discovery fails
// when a declared method is missing or has another signature.
func Reflect[T any](name string, decls map[string]Declaration, ctor func() (*T, error)) Suite {
	if ctor == nil {
		ctor = func() (*T, error) { return new(T), nil }
	}
	return &reflected[T]{name: name, ctor: ctor, decls: decls}
}

func (s *reflected[T]) Name() string {
	return s.name
}

func (s *reflected[T]) New() (any, error) {
	return s.ctor()
}

func (s *reflected[T]) Methods() ([]Method, error) {
	typ := reflect.TypeFor[*T]()
	var methods []Method
	var errs []error
	seen := make(map[string]bool, typ.NumMethod())
	for i := 0; i < typ.NumMethod(); i++ {
		m := typ.Method(i)
		seen[m.Name] = true
		decl, ok := s.decls[m.Name]
		if !ok {
			methods = append(methods, Method{Name: m.Name})
			continue
		}
		if err := decl.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("method %s: %w", m.Name, err))
			continue
		}
		invoke, err := methodInvoker(m)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		methods = append(methods, Method{Name: m.Name, Declaration: &decl, Invoke: invoke})
	}
	var missing []string
	for name := range s.decls {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	for _, name := range missing {
		errs = append(errs, fmt.Errorf("declared method %s not found on %s", name, typ))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return methods, nil
}

// methodInvoker checks m's signature and returns an Invoker calling it. The
// receiver counts as the first input.
func methodInvoker(m reflect.Method) (Invoker, error) {
	ft := m.Type
	takesContext := false
	switch {
	case ft.NumIn() == 1:
	case ft.NumIn() == 2 && ft.In(1) == contextType:
		takesContext = true
	default:
		return nil, fmt.Errorf("method %s: unsupported signature %s", m.Name, ft)
	}
	returnsError := false
	switch {
	case ft.NumOut() == 0:
	case ft.NumOut() == 1 && ft.Out(0) == errorType:
		returnsError = true
	default:
		return nil, fmt.Errorf("method %s: unsupported signature %s", m.Name, ft)
	}

	fn := m.Func
	return func(ctx context.Context, instance any) error {
		if instance == nil {
			return fmt.Errorf("instance is nil, want %s", ft.In(0))
		}
		args := []reflect.Value{reflect.ValueOf(instance)}
		if args[0].Type() != ft.In(0) {
			return fmt.Errorf("instance is %s, want %s", args[0].Type(), ft.In(0))
		}
		if takesContext {
			args = append(args, reflect.ValueOf(&ctx).Elem())
		}
		out := fn.Call(args)
		if !returnsError || out[0].IsNil() {
			return nil
		}
		return out[0].Interface().(error)
	}, nil
}
