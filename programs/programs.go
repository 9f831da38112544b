package programs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/dualfractal/kernel"
)

var ErrUnknownProgram = errors.New("unknown program")

var (
	NullColour = mgl64.Vec3{0.1, 0.1, 0.1}

	ColourPallet = [...]mgl64.Vec3{
		{0.26, 0.12, 0.06},
		{0.10, 0.03, 0.10},
		{0.04, 0.02, 0.18},
		{0.02, 0.03, 0.29},
		{0.00, 0.03, 0.39},
		{0.05, 0.17, 0.54},
		{0.09, 0.32, 0.69},
		{0.22, 0.49, 0.82},
		{0.53, 0.71, 0.90},
		{0.83, 0.93, 0.97},
		{0.95, 0.91, 0.75},
		{0.97, 0.79, 0.37},
		{1.00, 0.67, 0.00},
		{0.80, 0.50, 0.00},
		{0.60, 0.34, 0.00},
		{0.42, 0.20, 0.01},
	}
)

const colours = len(ColourPallet)

// viewParams are the positional render arguments every registered program
// takes, in the order Uniforms.Args produces them.
var viewParams = []kernel.Param{
	{Name: "center", Kind: kernel.ParamVec2},
	{Name: "zoom", Kind: kernel.ParamFloat},
	{Name: "iterations", Kind: kernel.ParamInt},
}

var programs []kernel.Shader

func NumPrograms() int {
	return len(programs)
}

func GetProgram(i int) kernel.Shader {
	return programs[i]
}

// NewProgram registers p under its name.
func NewProgram(p kernel.Shader) error {
	if p.Name == "" || p.Func == nil {
		return fmt.Errorf("%w: program %q", kernel.ErrInvalidShader, p.Name)
	}
	if _, err := Lookup(p.Name); err == nil {
		return fmt.Errorf("program %q already registered", p.Name)
	}
	programs = append(programs, p)
	return nil
}

func Lookup(name string) (kernel.Shader, error) {
	for _, p := range programs {
		if p.Name == name {
			return p, nil
		}
	}
	return kernel.Shader{}, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
}

func Names() []string {
	names := make([]string, len(programs))
	for i, p := range programs {
		names[i] = p.Name
	}
	return names
}

// PixelPoint maps pixel (x, y) of a width x height output to the complex
// plane. Each axis spans [-2*zoom, 2*zoom] around center, and the real axis
// is stretched by width/height.
func PixelPoint(center mgl64.Vec2, zoom float64, x, y int, width, height float64) mgl64.Vec2 {
	minX, maxX := -2.0*zoom+center[0], 2.0*zoom+center[0]
	minY, maxY := -2.0*zoom+center[1], 2.0*zoom+center[1]

	c := mgl64.Vec2{
		(float64(x)/width)*(maxX-minX) + minX,
		(float64(y)/height)*(maxY-minY) + minY,
	}
	c[0] *= width / height
	return c
}

func threadPoint(ctx *kernel.Context, args kernel.Args) mgl64.Vec2 {
	return PixelPoint(
		args.Vec2(0),
		args.Float(1),
		ctx.Thread.X,
		ctx.Thread.Y,
		ctx.Constants.Get(kernel.ConstWidth, 1),
		ctx.Constants.Get(kernel.ConstHeight, 1),
	)
}

func palette(ctx *kernel.Context, iterations, limit int) {
	colour := NullColour
	if iterations != limit {
		colour = ColourPallet[iterations%colours]
	}
	ctx.Color(colour[0], colour[1], colour[2])
}
