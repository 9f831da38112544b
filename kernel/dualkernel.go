package kernel

import (
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
)

// DualKernel owns a compiled KernelPair and dispatches renders to the kernel
// selected by its Mode. It is not safe for concurrent use.
type DualKernel struct {
	targets    Targets
	functions  Library
	pair       *KernelPair
	mode       Mode
	resolution int
	opts       Options
	logger     *zap.Logger
}

type Option func(*DualKernel)

func WithLogger(logger *zap.Logger) Option {
	return func(d *DualKernel) {
		d.logger = logger
	}
}

func WithOptions(opts Options) Option {
	return func(d *DualKernel) {
		d.opts = opts
	}
}

// New returns a controller painting sequential renders into cpu and
// accelerated renders into gpu. It starts in Accelerated mode with no shader.
func New(cpu, gpu Surface, opts ...Option) *DualKernel {
	d := &DualKernel{
		targets: Targets{
			Accelerated: gpu,
			Sequential:  cpu,
		},
		mode:       Accelerated,
		resolution: 1,
		opts:       DefaultOptions(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.applyVisibility()
	return d
}

// SetShader compiles shader against the current function library. width and
// height are taken from the accelerated surface and override any values in
// constants. On error the previous kernels stay in place.
func (d *DualKernel) SetShader(shader Shader, constants Constants) error {
	if shader.Func == nil {
		return fmt.Errorf("%w: %q has no pixel function", ErrInvalidShader, shader.Name)
	}

	gpu := d.targets[Accelerated]
	consts := constants.With(gpu.Width(), gpu.Height())

	pair, err := Compile(shader, slices.Clone(d.functions), consts, d.targets, d.opts)
	if err != nil {
		return err
	}

	d.pair = pair
	d.logger.Debug("shader compiled",
		zap.String("shader", shader.Name),
		zap.Strings("functions", d.functions.Names()),
		zap.Int("width", consts.Width()),
		zap.Int("height", consts.Height()),
	)
	return nil
}

// AddFunction appends fn to the library used by later SetShader calls.
func (d *DualKernel) AddFunction(fn Function) error {
	if err := fn.validate(); err != nil {
		return err
	}
	if _, ok := d.functions.Lookup(fn.Name); ok {
		return fmt.Errorf("%w: duplicate function %q", ErrInvalidFunction, fn.Name)
	}
	d.functions = append(d.functions, fn)
	return nil
}

// DelFunction always fails: removing injected functions is not supported.
func (d *DualKernel) DelFunction(name string) error {
	return fmt.Errorf("%w: removing function %q", ErrUnsupported, name)
}

// SetMode selects the kernel used by Render and shows only that kernel's surface.
func (d *DualKernel) SetMode(mode Mode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}
	if mode != d.mode {
		d.logger.Debug("mode switched", zap.Stringer("from", d.mode), zap.Stringer("to", mode))
	}
	d.mode = mode
	d.applyVisibility()
	return nil
}

// SetResolution sets the sequential kernel's block edge in pixels.
func (d *DualKernel) SetResolution(px int) error {
	if px < 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidResolution, px)
	}
	d.resolution = px
	return nil
}

// Render repaints the active surface, passing args to the shader's
// positional parameters. Argument errors are reported before any pixel is
// written.
func (d *DualKernel) Render(args ...any) error {
	if d.pair == nil {
		return ErrNoShader
	}

	bound, err := d.pair.Shader().Bind(args)
	if err != nil {
		return err
	}

	k, err := d.pair.Kernel(d.mode)
	if err != nil {
		return err
	}

	start := time.Now()
	if err := k.Run(bound, d.resolution); err != nil {
		return fmt.Errorf("%v render: %w", d.mode, err)
	}
	d.logger.Debug("frame rendered",
		zap.Stringer("mode", d.mode),
		zap.Int("resolution", d.resolution),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

func (d *DualKernel) Mode() Mode {
	return d.mode
}

func (d *DualKernel) Resolution() int {
	return d.resolution
}

// Ready reports whether a shader has been compiled.
func (d *DualKernel) Ready() bool {
	return d.pair != nil
}

func (d *DualKernel) Functions() Library {
	return slices.Clone(d.functions)
}

// Surface returns the surface painted in the given mode.
func (d *DualKernel) Surface(mode Mode) Surface {
	return d.targets[mode]
}

func (d *DualKernel) applyVisibility() {
	for mode, s := range d.targets {
		if s != nil {
			s.SetVisible(mode == d.mode)
		}
	}
}
