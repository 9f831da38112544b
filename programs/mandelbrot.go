package programs

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/dualfractal/kernel"
)

var Mandelbrot = kernel.Shader{
	Name:   "mandelbrot",
	Params: viewParams,
	Uses:   []string{"add", "multiply"},
	Func:   mandelbrot,
}

func init() {
	NewProgram(Mandelbrot)
}

func mandelbrot(ctx *kernel.Context, args kernel.Args) {
	add, multiply := ctx.Func("add"), ctx.Func("multiply")
	limit := ctx.LoopLimit(args.Int(2))

	c := threadPoint(ctx, args)
	z := c
	iterations := 0
	for math.Abs(z[0])+math.Abs(z[1]) <= 4 && iterations < limit {
		z = add(multiply(z, z), c)
		iterations++
	}

	palette(ctx, iterations, limit)
}

// MandelbrotCount is the kernel-free Mandelbrot iteration count for c.
func MandelbrotCount(c mgl64.Vec2, iterations int) int {
	z := c
	i := 0
	for math.Abs(z[0])+math.Abs(z[1]) <= 4 && i < iterations {
		z = Add(Multiply(z, z), c)
		i++
	}
	return i
}
