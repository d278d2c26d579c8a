package suite

import (
	"context"
	"fmt"
)

// Case is one entry of a registration table for suite type T.
type Case[T any] struct {
	Name        string
	Declaration *Declaration
	Run         func(ctx context.Context, t *T) error
}

// Test declares a test method with no result, typically a method expression
// such as (*CartSuite).AddItem.
func Test[T any](name string, fn func(*T), opts ...Option) Case[T] {
	d := Declare(opts...)
	return Case[T]{
		Name:        name,
		Declaration: &d,
		Run: func(_ context.Context, t *T) error {
			fn(t)
			return nil
		},
	}
}

// TestErr declares a test method that returns an error.
func TestErr[T any](name string, fn func(*T) error, opts ...Option) Case[T] {
	d := Declare(opts...)
	return Case[T]{
		Name:        name,
		Declaration: &d,
		Run: func(_ context.Context, t *T) error {
			return fn(t)
		},
	}
}

// TestContext declares a test method that receives the run's context. The
// context is cancelled when a preemptive timeout expires.
func TestContext[T any](name string, fn func(*T, context.Context) error, opts ...Option) Case[T] {
	d := Declare(opts...)
	return Case[T]{
		Name:        name,
		Declaration: &d,
		Run: func(ctx context.Context, t *T) error {
			return fn(t, ctx)
		},
	}
}

// Helper lists a method that is not a test. It is reported by discovery and
// ignored by the engine.
func Helper[T any](name string, fn func(*T)) Case[T] {
	return Case[T]{
		Name: name,
		Run: func(_ context.Context, t *T) error {
			fn(t)
			return nil
		},
	}
}

// defined is a Suite built from a registration table.
type defined[T any] struct {
	name  string
	ctor  func() (*T, error)
	cases []Case[T]
}

// Define builds a Suite named name from cases, in the order given. Each test
// runs on a fresh *T from ctor; a nil ctor allocates a zero T.
//
// Duplicate names are allowed and reported independently.
func Define[T any](name string, ctor func() (*T, error), cases ...Case[T]) Suite {
	if ctor == nil {
		ctor = func() (*T, error) { return new(T), nil }
	}
	c := make([]Case[T], len(cases))
	copy(c, cases)
	return &defined[T]{name: name, ctor: ctor, cases: c}
}

func (s *defined[T]) Name() string {
	return s.name
}

func (s *defined[T]) Methods() ([]Method, error) {
	methods := make([]Method, 0, len(s.cases))
	for _, c := range s.cases {
		if c.Run == nil {
			return nil, fmt.Errorf("method %s has no body", c.Name)
		}
		if c.Declaration != nil {
			if err := c.Declaration.Validate(); err != nil {
				return nil, fmt.Errorf("method %s: %w", c.Name, err)
			}
		}
		methods = append(methods, Method{
			Name:        c.Name,
			Declaration: c.Declaration,
			Invoke:      bind(c.Run),
		})
	}
	return methods, nil
}

func (s *defined[T]) New() (any, error) {
	return s.ctor()
}

// bind adapts a typed method to an Invoker.
func bind[T any](run func(context.Context, *T) error) Invoker {
	return func(ctx context.Context, instance any) error {
		t, ok := instance.(*T)
		if !ok {
			return fmt.Errorf("instance is %T, want %T", instance, (*T)(nil))
		}
		return run(ctx, t)
	}
}
