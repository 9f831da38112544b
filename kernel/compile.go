package kernel

import (
	"errors"
	"fmt"
	"runtime"
)

// LoopMaxIterations is the ceiling Context.LoopLimit applies in every kernel.
// The kernels cannot see inside a pixel function, so a loop is only bounded
// if the function passes its count through LoopLimit; every registered
// program does.
const LoopMaxIterations = 10000

// DefaultChunkSize is the number of columns handed to each accelerated task.
const DefaultChunkSize = 50

// Options are the backend settings fixed at compile time.
type Options struct {
	// Workers is the accelerated backend's parallelism. Zero means runtime.NumCPU.
	Workers int
	// ChunkSize is the column band width of one accelerated task.
	ChunkSize int
	// LoopMaxIterations caps LoopLimit in both kernels. Zero means the default ceiling.
	LoopMaxIterations int
}

func DefaultOptions() Options {
	return Options{
		Workers:           runtime.NumCPU(),
		ChunkSize:         DefaultChunkSize,
		LoopMaxIterations: LoopMaxIterations,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.ChunkSize <= 0 {
		o.ChunkSize = d.ChunkSize
	}
	if o.LoopMaxIterations <= 0 {
		o.LoopMaxIterations = d.LoopMaxIterations
	}
	return o
}

// Compile binds shader, lib and consts into an accelerated and a sequential
// kernel painting targets[Accelerated] and targets[Sequential] respectively.
// Nothing is executed.
func Compile(shader Shader, lib Library, consts Constants, targets Targets, opts Options) (*KernelPair, error) {
	if shader.Func == nil {
		return nil, fmt.Errorf("%w: %q has no pixel function", ErrInvalidShader, shader.Name)
	}

	fail := func(err error) (*KernelPair, error) {
		return nil, &CompileError{Shader: shader.Name, Err: err}
	}

	if err := lib.Validate(); err != nil {
		return fail(err)
	}
	for _, name := range shader.Uses {
		if _, ok := lib.Lookup(name); !ok {
			return fail(fmt.Errorf("function %q is not in the library", name))
		}
	}

	width, height := consts.Width(), consts.Height()
	if width <= 0 || height <= 0 {
		return fail(fmt.Errorf("output size %vx%v is not positive", consts[ConstWidth], consts[ConstHeight]))
	}

	for _, mode := range Modes() {
		target, ok := targets[mode]
		if !ok || target == nil {
			return fail(fmt.Errorf("no %v surface", mode))
		}
		if target.Width() < width || target.Height() < height {
			return fail(fmt.Errorf("%v surface %vx%v is smaller than output %vx%v",
				mode, target.Width(), target.Height(), width, height))
		}
	}

	opts = opts.withDefaults()
	b := binding{
		shader:  shader,
		consts:  consts.With(width, height),
		funcs:   lib.index(),
		width:   width,
		height:  height,
		loopMax: opts.LoopMaxIterations,
	}

	return &KernelPair{
		shader: shader,
		kernels: map[Mode]Kernel{
			Accelerated: newAcceleratedKernel(b, targets[Accelerated], opts),
			Sequential:  newSequentialKernel(b, targets[Sequential]),
		},
	}, nil
}

// binding is the compiled state both kernels share read-only.
type binding struct {
	shader  Shader
	consts  Constants
	funcs   map[string]Function
	width   int
	height  int
	loopMax int
}

func (b binding) newContext() *Context {
	return newContext(b.consts, b.funcs, b.loopMax)
}

// Kernel is one executable form of a compiled shader.
type Kernel interface {
	Mode() Mode
	// Run paints one full frame. resolution is the block edge in pixels and is
	// ignored by the accelerated kernel.
	Run(args Args, resolution int) error
	Target() Surface
}

// KernelPair holds the two compiled forms of one shader. It is never mutated
// after Compile returns.
type KernelPair struct {
	shader  Shader
	kernels map[Mode]Kernel
}

func (p *KernelPair) Shader() Shader {
	return p.shader
}

func (p *KernelPair) Kernel(mode Mode) (Kernel, error) {
	k, ok := p.kernels[mode]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMode, mode)
	}
	return k, nil
}

// IsCompileError reports whether err came out of Compile's validation.
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}
