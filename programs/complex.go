package programs

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/dualfractal/kernel"
)

// Complex numbers are carried as mgl64.Vec2{real, imaginary} so the same
// helpers can be injected into either kernel.

func Add(a, b mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{a[0] + b[0], a[1] + b[1]}
}

func Multiply(a, b mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		a[0]*b[0] - a[1]*b[1],
		a[0]*b[1] + a[1]*b[0],
	}
}

// Sine is the complex sine, sin(x+iy) = sin(x)cosh(y) + i cos(x)sinh(y).
func Sine(a mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{
		math.Sin(a[0]) * math.Cosh(a[1]),
		math.Cos(a[0]) * math.Sinh(a[1]),
	}
}

// Library returns the complex helpers in injection order.
func Library() kernel.Library {
	return kernel.Library{
		{Name: "add", Arity: 2, Call: func(args ...mgl64.Vec2) mgl64.Vec2 { return Add(args[0], args[1]) }},
		{Name: "multiply", Arity: 2, Call: func(args ...mgl64.Vec2) mgl64.Vec2 { return Multiply(args[0], args[1]) }},
		{Name: "sine", Arity: 1, Call: func(args ...mgl64.Vec2) mgl64.Vec2 { return Sine(args[0]) }},
	}
}
