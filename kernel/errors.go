package kernel

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var (
	ErrInvalidShader     = errors.New("invalid shader function")
	ErrInvalidFunction   = errors.New("invalid library function")
	ErrNoShader          = errors.New("no shader set")
	ErrUnsupported       = errors.New("unsupported operation")
	ErrInvalidArgs       = errors.New("arguments do not match shader parameters")
	ErrInvalidResolution = errors.New("resolution must be at least 1")
	ErrInvalidMode       = errors.New("unknown kernel mode")
	ErrCompile           = errors.New("compile failed")
	ErrKernelPanic       = errors.New("kernel panicked")
)

// CompileError is returned by Compile when the shader, library or constants
// cannot be turned into a kernel pair. errors.Is(err, ErrCompile) reports true
// for every CompileError.
type CompileError struct {
	Shader string
	Err    error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compiling shader %q: %v", e.Shader, e.Err)
}

func (e *CompileError) Unwrap() []error {
	return []error{ErrCompile, e.Err}
}

// catchPanic turns a panic raised by a pixel function into an error.
func catchPanic(err *error) {
	if v := recover(); v != nil {
		cause, ok := v.(error)
		if !ok {
			cause = fmt.Errorf("%v", v)
		}
		*err = fmt.Errorf("%w: %w\n%v", ErrKernelPanic, cause, string(debug.Stack()))
	}
}
