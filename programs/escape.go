package programs

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/dualfractal/kernel"
)

// ConstEscape optionally bounds |z|^2 for the escape-time program.
// When it is not bound the orbit only stops at the iteration cap or once it
// overflows to NaN.
const ConstEscape = "escape"

// EscapeTime iterates z <- sin(z) + c and colours by the iteration count.
var EscapeTime = kernel.Shader{
	Name:   "escape",
	Params: viewParams,
	Uses:   []string{"add", "sine"},
	Func:   escapeTime,
}

func init() {
	NewProgram(EscapeTime)
}

func escapeTime(ctx *kernel.Context, args kernel.Args) {
	c := threadPoint(ctx, args)
	threshold := ctx.Constants.Get(ConstEscape, math.Inf(1))
	limit := ctx.LoopLimit(args.Int(2))
	add, sine := ctx.Func("add"), ctx.Func("sine")

	i := 0
	z := mgl64.Vec2{}
	for i < limit && z[0]*z[0]+z[1]*z[1] < threshold {
		i++
		z = add(sine(z), c)
	}

	ctx.Color(EscapeColour(i))
}

// EscapeCount runs the escape-time orbit for c directly, without a kernel.
func EscapeCount(c mgl64.Vec2, iterations int, threshold float64) int {
	i := 0
	z := mgl64.Vec2{}
	for i < iterations && z[0]*z[0]+z[1]*z[1] < threshold {
		i++
		z = Add(Sine(z), c)
	}
	return i
}

// EscapeColour is the unclamped colour for an escape count.
func EscapeColour(i int) (r, g, b float64) {
	return 0, math.Sin(float64(i)), math.Cos(float64(i))
}
