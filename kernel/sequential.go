package kernel

import (
	"fmt"
	"image"
	"image/color"
)

// sequentialKernel visits the output one block at a time on the calling
// goroutine, columns outermost, so writes land in a fixed order. Block
// colours are collected first and filled into the target only once the
// whole frame has been computed.
type sequentialKernel struct {
	binding
	target Surface
	blocks []color.NRGBA
}

func newSequentialKernel(b binding, target Surface) *sequentialKernel {
	return &sequentialKernel{
		binding: b,
		target:  target,
	}
}

func (k *sequentialKernel) Mode() Mode {
	return Sequential
}

func (k *sequentialKernel) Target() Surface {
	return k.target
}

func (k *sequentialKernel) Run(args Args, resolution int) (err error) {
	if resolution < 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidResolution, resolution)
	}
	defer catchPanic(&err)

	cols := (k.width + resolution - 1) / resolution
	rows := (k.height + resolution - 1) / resolution
	if cap(k.blocks) < cols*rows {
		k.blocks = make([]color.NRGBA, cols*rows)
	}
	blocks := k.blocks[:cols*rows]

	ctx := k.newContext()
	i := 0
	for x := 0; x < k.width; x += resolution {
		for y := 0; y < k.height; y += resolution {
			ctx.reset(x, y)
			k.shader.Func(ctx, args)
			blocks[i] = ctx.color
			i++
		}
	}

	bounds := image.Rect(0, 0, k.width, k.height)
	i = 0
	for x := 0; x < k.width; x += resolution {
		for y := 0; y < k.height; y += resolution {
			k.target.Fill(image.Rect(x, y, x+resolution, y+resolution).Intersect(bounds), blocks[i])
			i++
		}
	}
	return nil
}
