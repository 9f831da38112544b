package programs_test

import (
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/dualfractal/kernel"
	"github.com/stewi1014/dualfractal/programs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T, width, height int) (*kernel.DualKernel, *kernel.ImageSurface, *kernel.ImageSurface) {
	t.Helper()
	cpu := kernel.NewImageSurface(width, height)
	gpu := kernel.NewImageSurface(width, height)
	d := kernel.New(cpu, gpu)
	for _, f := range programs.Library() {
		require.NoError(t, d.AddFunction(f))
	}
	return d, cpu, gpu
}

// renderBoth renders args in both modes at resolution 1.
func renderBoth(t *testing.T, d *kernel.DualKernel, args ...any) {
	t.Helper()
	for _, mode := range kernel.Modes() {
		require.NoError(t, d.SetMode(mode))
		require.NoError(t, d.Render(args...))
	}
}

func quantise(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(math.Round(v * 0xff))
}

func escapeColour(i int) color.NRGBA {
	r, g, b := programs.EscapeColour(i)
	return color.NRGBA{R: quantise(r), G: quantise(g), B: quantise(b), A: 0xff}
}

func TestComplexLibrary(t *testing.T) {
	i := mgl64.Vec2{0, 1}

	assert.Equal(t, mgl64.Vec2{3, 5}, programs.Add(mgl64.Vec2{1, 2}, mgl64.Vec2{2, 3}))
	assert.Equal(t, mgl64.Vec2{-1, 0}, programs.Multiply(i, i))
	assert.Equal(t, mgl64.Vec2{-5, 10}, programs.Multiply(mgl64.Vec2{1, 2}, mgl64.Vec2{3, 4}))

	s := programs.Sine(i)
	assert.InDelta(t, 0, s[0], 1e-15)
	assert.InDelta(t, math.Sinh(1), s[1], 1e-15)

	s = programs.Sine(mgl64.Vec2{math.Pi / 2, 0})
	assert.InDelta(t, 1, s[0], 1e-15)

	overflow := programs.Sine(mgl64.Vec2{0.5, 1000})
	assert.True(t, math.IsInf(overflow[0], 1))

	lib := programs.Library()
	require.NoError(t, lib.Validate())
	assert.Equal(t, []string{"add", "multiply", "sine"}, lib.Names())
}

func TestRegistry(t *testing.T) {
	names := programs.Names()
	assert.Equal(t, "escape", names[0])
	assert.Contains(t, names, "mandelbrot")
	assert.Contains(t, names, "julia")
	assert.Contains(t, names, "julia3")
	assert.Equal(t, len(names), programs.NumPrograms())

	p, err := programs.Lookup("mandelbrot")
	require.NoError(t, err)
	assert.Equal(t, "mandelbrot", p.Name)
	assert.Equal(t, "escape", programs.GetProgram(0).Name)

	_, err = programs.Lookup("burning-ship")
	assert.ErrorIs(t, err, programs.ErrUnknownProgram)

	assert.Error(t, programs.NewProgram(programs.EscapeTime))
	assert.ErrorIs(t, programs.NewProgram(kernel.Shader{Name: "nothing"}), kernel.ErrInvalidShader)
}

func TestPixelPoint(t *testing.T) {
	c := programs.PixelPoint(mgl64.Vec2{}, 1, 0, 0, 2, 2)
	assert.Equal(t, mgl64.Vec2{-2, -2}, c)

	c = programs.PixelPoint(mgl64.Vec2{}, 1, 1, 1, 2, 2)
	assert.Equal(t, mgl64.Vec2{0, 0}, c)

	// real axis is stretched by the aspect ratio after centring
	c = programs.PixelPoint(mgl64.Vec2{1, 0}, 0.5, 0, 0, 4, 2)
	assert.Equal(t, mgl64.Vec2{0, -1}, c)
}

func TestEscapeCountIsBounded(t *testing.T) {
	for _, n := range []int{0, 1, 7, 200} {
		for x := 0; x < 16; x++ {
			for y := 0; y < 16; y++ {
				c := programs.PixelPoint(mgl64.Vec2{0.3, -0.2}, 1.5, x, y, 16, 16)
				i := programs.EscapeCount(c, n, math.Inf(1))
				require.GreaterOrEqual(t, i, 0)
				require.LessOrEqual(t, i, n)
			}
		}
	}
}

func TestEscapeTimeScenario(t *testing.T) {
	d, cpu, gpu := newRenderer(t, 2, 2)
	require.NoError(t, d.SetShader(programs.EscapeTime, nil))

	renderBoth(t, d, mgl64.Vec2{0, 0}, 1.0, 200)

	points := map[[2]int]mgl64.Vec2{
		{0, 0}: {-2, -2},
		{1, 0}: {0, -2},
		{0, 1}: {-2, 0},
		{1, 1}: {0, 0},
	}
	for px, c := range points {
		i := programs.EscapeCount(c, 200, math.Inf(1))
		want := escapeColour(i)
		assert.Equal(t, want, gpu.Image().NRGBAAt(px[0], px[1]), "accelerated pixel %v", px)
		assert.Equal(t, want, cpu.Image().NRGBAAt(px[0], px[1]), "sequential pixel %v", px)
	}

	// z stays at 0 for c = 0, so the orbit runs to the cap
	assert.Equal(t, 200, programs.EscapeCount(mgl64.Vec2{}, 200, math.Inf(1)))
	assert.Equal(t, color.NRGBA{R: 0, G: 0, B: quantise(math.Cos(200)), A: 0xff}, gpu.Image().NRGBAAt(1, 1))
}

func TestBackendEquivalence(t *testing.T) {
	views := []programs.Uniforms{
		programs.DefaultUniforms(),
		{Center: mgl64.Vec2{0.4, -1.1}, Scale: 0.25, Iterations: 64},
		{Center: mgl64.Vec2{-3, 2}, Scale: 3, Iterations: 12},
	}

	for _, shader := range []kernel.Shader{programs.EscapeTime, programs.Mandelbrot, programs.Julia(3, mgl64.Vec2{0.08394, 0.77007})} {
		t.Run(shader.Name, func(t *testing.T) {
			d, cpu, gpu := newRenderer(t, 24, 16)
			require.NoError(t, d.SetShader(shader, nil))

			for _, u := range views {
				renderBoth(t, d, u.Args()...)
				assert.Equal(t, gpu.Image().Pix, cpu.Image().Pix, "view %+v", u)
			}
		})
	}
}

func TestEscapeTimeBlocks(t *testing.T) {
	d, cpu, _ := newRenderer(t, 20, 12)
	require.NoError(t, d.SetShader(programs.EscapeTime, nil))
	require.NoError(t, d.SetMode(kernel.Sequential))

	args := programs.DefaultUniforms().Args()
	require.NoError(t, d.Render(args...))
	full := append([]uint8(nil), cpu.Image().Pix...)
	stride := cpu.Image().Stride

	at := func(pix []uint8, x, y int) []uint8 {
		i := y*stride + x*4
		return pix[i : i+4]
	}

	for _, r := range []int{1, 2, 4, 8} {
		require.NoError(t, d.SetResolution(r))
		require.NoError(t, d.Render(args...))
		for y := 0; y < 12; y++ {
			for x := 0; x < 20; x++ {
				require.Equal(t, at(full, x-x%r, y-y%r), at(cpu.Image().Pix, x, y), "resolution %v pixel (%v, %v)", r, x, y)
			}
		}
	}
}

func TestEscapeThresholdConstant(t *testing.T) {
	d, cpu, gpu := newRenderer(t, 8, 8)
	require.NoError(t, d.SetShader(programs.EscapeTime, kernel.Constants{programs.ConstEscape: 4}))

	renderBoth(t, d, mgl64.Vec2{}, 1.0, 50)
	assert.Equal(t, gpu.Image().Pix, cpu.Image().Pix)

	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			c := programs.PixelPoint(mgl64.Vec2{}, 1, x, y, 8, 8)
			want := escapeColour(programs.EscapeCount(c, 50, 4))
			require.Equal(t, want, gpu.Image().NRGBAAt(x, y), "pixel (%v, %v)", x, y)
		}
	}
}

func TestInjectedFunctionsMatchAcrossBackends(t *testing.T) {
	d, cpu, gpu := newRenderer(t, 9, 5)

	product := kernel.Shader{
		Name:   "product",
		Params: []kernel.Param{{Name: "w", Kind: kernel.ParamVec2}},
		Uses:   []string{"add", "multiply", "sine"},
		Func: func(ctx *kernel.Context, args kernel.Args) {
			z := mgl64.Vec2{float64(ctx.Thread.X) / 9, float64(ctx.Thread.Y) / 5}
			p := ctx.Call("multiply", z, args.Vec2(0))
			s := ctx.Call("sine", ctx.Call("add", p, z))
			ctx.Color(p[0], p[1], s[0])
		},
	}
	require.NoError(t, d.SetShader(product, nil))
	renderBoth(t, d, mgl64.Vec2{0.7, 0.2})
	assert.Equal(t, gpu.Image().Pix, cpu.Image().Pix)

	z := mgl64.Vec2{4.0 / 9, 2.0 / 5}
	p := programs.Multiply(z, mgl64.Vec2{0.7, 0.2})
	s := programs.Sine(programs.Add(p, z))
	want := color.NRGBA{R: quantise(p[0]), G: quantise(p[1]), B: quantise(s[0]), A: 0xff}
	assert.Equal(t, want, cpu.Image().NRGBAAt(4, 2))
}

func TestShaderNeedsLibrary(t *testing.T) {
	cpu, gpu := kernel.NewImageSurface(2, 2), kernel.NewImageSurface(2, 2)
	d := kernel.New(cpu, gpu)

	err := d.SetShader(programs.EscapeTime, nil)
	assert.ErrorIs(t, err, kernel.ErrCompile)
	assert.False(t, d.Ready())
}

func TestMandelbrot(t *testing.T) {
	assert.Equal(t, 30, programs.MandelbrotCount(mgl64.Vec2{}, 30))
	assert.Less(t, programs.MandelbrotCount(mgl64.Vec2{2, 2}, 30), 30)

	d, _, gpu := newRenderer(t, 4, 4)
	require.NoError(t, d.SetShader(programs.Mandelbrot, nil))
	require.NoError(t, d.Render(mgl64.Vec2{}, 1.0, 30))

	// pixel (2, 2) is c = 0, inside the set
	null := color.NRGBA{
		R: quantise(programs.NullColour[0]),
		G: quantise(programs.NullColour[1]),
		B: quantise(programs.NullColour[2]),
		A: 0xff,
	}
	assert.Equal(t, null, gpu.Image().NRGBAAt(2, 2))
}

func TestUniforms(t *testing.T) {
	u := programs.DefaultUniforms()
	assert.Equal(t, []any{mgl64.Vec2{}, 1.0, 200}, u.Args())

	u.Translate(programs.AxisY, programs.DefaultMoveSpeed, 400, 200)
	assert.InDelta(t, 0.075, u.Center[1], 1e-12)

	u.Translate(programs.AxisX, -programs.DefaultMoveSpeed, 400, 200)
	assert.InDelta(t, -0.0375, u.Center[0], 1e-12)

	u.Zoom(-programs.DefaultZoomSpeed)
	assert.InDelta(t, 0.95, u.Scale, 1e-12)
	u.Zoom(programs.DefaultZoomSpeed)
	assert.InDelta(t, 0.9975, u.Scale, 1e-12)

	u.Zoom(-1)
	assert.Equal(t, programs.MinScale, u.Scale)

	u.Scale = programs.MaxScale
	u.Zoom(1)
	assert.Equal(t, programs.MaxScale, u.Scale)
}

func TestProgramsHonourLoopCeiling(t *testing.T) {
	view := programs.Uniforms{Scale: 0.01, Iterations: kernel.LoopMaxIterations}
	over := view
	over.Iterations = 4 * kernel.LoopMaxIterations

	for _, name := range programs.Names() {
		t.Run(name, func(t *testing.T) {
			shader, err := programs.Lookup(name)
			require.NoError(t, err)
			d, _, gpu := newRenderer(t, 3, 3)
			require.NoError(t, d.SetShader(shader, nil))

			require.NoError(t, d.Render(view.Args()...))
			capped := append([]uint8(nil), gpu.Image().Pix...)
			require.NoError(t, d.Render(over.Args()...))
			assert.Equal(t, capped, gpu.Image().Pix)
		})
	}
}

func TestJuliaSeedConstants(t *testing.T) {
	shader, err := programs.Lookup("julia")
	require.NoError(t, err)
	view := programs.DefaultUniforms()

	d, cpu, gpu := newRenderer(t, 24, 16)
	require.NoError(t, d.SetShader(shader, nil))
	renderBoth(t, d, view.Args()...)
	plain := append([]uint8(nil), gpu.Image().Pix...)

	require.NoError(t, d.SetShader(shader, kernel.Constants{
		programs.ConstSeedReal: 0.5,
		programs.ConstSeedImag: -0.3,
	}))
	renderBoth(t, d, view.Args()...)
	assert.NotEqual(t, plain, gpu.Image().Pix)
	assert.Equal(t, gpu.Image().Pix, cpu.Image().Pix)
}
