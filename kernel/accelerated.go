package kernel

import (
	"image/color"

	"golang.org/x/sync/errgroup"
)

// acceleratedKernel fans the pixel function out over worker goroutines,
// one band of columns per task. Pixels are computed into a private frame
// and only copied to the target once every task has succeeded.
//
// The pixel function runs as compiled Go with float64 maths on both
// backends, so there is no precision mode or integer division fix-up to
// configure here.
type acceleratedKernel struct {
	binding
	target  Surface
	workers int
	chunk   int
	frame   []color.NRGBA
}

func newAcceleratedKernel(b binding, target Surface, opts Options) *acceleratedKernel {
	return &acceleratedKernel{
		binding: b,
		target:  target,
		workers: opts.Workers,
		chunk:   opts.ChunkSize,
		frame:   make([]color.NRGBA, b.width*b.height),
	}
}

func (k *acceleratedKernel) Mode() Mode {
	return Accelerated
}

func (k *acceleratedKernel) Target() Surface {
	return k.target
}

func (k *acceleratedKernel) Run(args Args, _ int) error {
	var g errgroup.Group
	g.SetLimit(k.workers)

	for chunkMin := 0; chunkMin < k.width; chunkMin += k.chunk {
		chunkMax := min(chunkMin+k.chunk, k.width)

		g.Go(func() (err error) {
			defer catchPanic(&err)

			ctx := k.newContext()
			i := chunkMin * k.height
			for x := chunkMin; x < chunkMax; x++ {
				for y := 0; y < k.height; y++ {
					ctx.reset(x, y)
					k.shader.Func(ctx, args)
					k.frame[i] = ctx.color
					i++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	i := 0
	for x := 0; x < k.width; x++ {
		for y := 0; y < k.height; y++ {
			k.target.Set(x, y, k.frame[i])
			i++
		}
	}
	return nil
}
