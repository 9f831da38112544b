package kernel

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Thread identifies the pixel a pixel function is computing.
type Thread struct {
	X, Y int
}

// Context is the per-invocation environment handed to a PixelFunc.
// A Context is reused across pixels by a single goroutine and must not be
// retained by the pixel function.
type Context struct {
	Constants Constants
	Thread    Thread

	funcs   map[string]Function
	loopMax int
	color   color.NRGBA
}

func newContext(consts Constants, funcs map[string]Function, loopMax int) *Context {
	return &Context{
		Constants: consts,
		funcs:     funcs,
		loopMax:   loopMax,
	}
}

// reset prepares the context for the pixel at (x, y). Pixels that never call
// Color come out opaque black.
func (c *Context) reset(x, y int) {
	c.Thread = Thread{X: x, Y: y}
	c.color = color.NRGBA{A: 0xff}
}

// Color writes the pixel colour. Channels are clamped into [0, 1].
func (c *Context) Color(r, g, b float64) {
	c.color = color.NRGBA{
		R: channel(r),
		G: channel(g),
		B: channel(b),
		A: 0xff,
	}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 0xff))
}

// Func returns the injected library function with the given name.
// It panics if the function was not bound; Compile rejects shaders whose
// Uses name a missing function, so this only fires for undeclared calls.
func (c *Context) Func(name string) func(args ...mgl64.Vec2) mgl64.Vec2 {
	f, ok := c.funcs[name]
	if !ok {
		panic(fmt.Errorf("%w: %q is not in the library", ErrInvalidFunction, name))
	}
	return f.Call
}

// Call invokes the named library function.
func (c *Context) Call(name string, args ...mgl64.Vec2) mgl64.Vec2 {
	f, ok := c.funcs[name]
	if !ok {
		panic(fmt.Errorf("%w: %q is not in the library", ErrInvalidFunction, name))
	}
	if len(args) != f.Arity {
		panic(fmt.Errorf("%w: %q takes %v arguments, got %v", ErrInvalidFunction, name, f.Arity, len(args)))
	}
	return f.Call(args...)
}

// LoopLimit caps a loop bound at the kernel's iteration ceiling.
func (c *Context) LoopLimit(n int) int {
	if c.loopMax > 0 && n > c.loopMax {
		return c.loopMax
	}
	return n
}
