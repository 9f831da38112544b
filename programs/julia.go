package programs

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/dualfractal/kernel"
)

// ConstSeedReal and ConstSeedImag are added to a julia program's own seed.
const (
	ConstSeedReal = "seed_re"
	ConstSeedImag = "seed_im"
)

func init() {
	NewProgram(Julia(2, mgl64.Vec2{-0.835, 0.2321}))
	NewProgram(Julia(3, mgl64.Vec2{0.08394, 0.77007}))
	NewProgram(Julia(6, mgl64.Vec2{0.6, 0.5}))
	NewProgram(Julia(8, mgl64.Vec2{-0.72, 0.25}))
}

// Julia returns the program iterating z <- z^power + seed.
func Julia(power int, seed mgl64.Vec2) kernel.Shader {
	name := "julia"
	if power != 2 {
		name = fmt.Sprintf("julia%v", power)
	}

	return kernel.Shader{
		Name:   name,
		Params: viewParams,
		Uses:   []string{"add", "multiply"},
		Func: func(ctx *kernel.Context, args kernel.Args) {
			add, multiply := ctx.Func("add"), ctx.Func("multiply")
			limit := ctx.LoopLimit(args.Int(2))

			c := mgl64.Vec2{
				ctx.Constants.Get(ConstSeedReal, 0) + seed[0],
				ctx.Constants.Get(ConstSeedImag, 0) + seed[1],
			}
			z := threadPoint(ctx, args)

			iterations := 0
			for math.Abs(z[0])+math.Abs(z[1]) <= 4 && iterations < limit {
				p := z
				for range power - 1 {
					p = multiply(p, z)
				}
				z = add(p, c)
				iterations++
			}

			palette(ctx, iterations, limit)
		},
	}
}
