package kernel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Function is a named pure helper callable from inside a pixel function.
//
// Call must not close over mutable state: the accelerated kernel invokes it
// from many goroutines at once.
type Function struct {
	Name  string
	Arity int
	Call  func(args ...mgl64.Vec2) mgl64.Vec2
}

func (f Function) validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: no function name", ErrInvalidFunction)
	}
	if f.Call == nil {
		return fmt.Errorf("%w: %q has no implementation", ErrInvalidFunction, f.Name)
	}
	if f.Arity < 1 {
		return fmt.Errorf("%w: %q has arity %v", ErrInvalidFunction, f.Name, f.Arity)
	}
	return nil
}

// Library is the ordered set of functions injected into a shader.
type Library []Function

// Validate checks that every function is well formed and uniquely named.
func (l Library) Validate() error {
	seen := make(map[string]bool, len(l))
	for _, f := range l {
		if err := f.validate(); err != nil {
			return err
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate function %q", ErrInvalidFunction, f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

func (l Library) Lookup(name string) (Function, bool) {
	for _, f := range l {
		if f.Name == name {
			return f, true
		}
	}
	return Function{}, false
}

func (l Library) Names() []string {
	names := make([]string, len(l))
	for i, f := range l {
		names[i] = f.Name
	}
	return names
}

func (l Library) index() map[string]Function {
	m := make(map[string]Function, len(l))
	for _, f := range l {
		m[f.Name] = f
	}
	return m
}
