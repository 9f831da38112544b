package viewer

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	hudMargin     = 8
	hudLineHeight = 15
)

// DrawHUD writes lines in the top left corner of dst, white on a one pixel
// black shadow so it stays readable over any fractal colour.
func DrawHUD(dst draw.Image, lines []string) {
	face := basicfont.Face7x13
	ascent := face.Metrics().Ascent.Ceil()

	for _, layer := range []struct {
		colour color.Color
		offset int
	}{
		{color.Black, 1},
		{color.White, 0},
	} {
		d := font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(layer.colour),
			Face: face,
		}
		for i, line := range lines {
			d.Dot = fixed.P(
				dst.Bounds().Min.X+hudMargin+layer.offset,
				dst.Bounds().Min.Y+hudMargin+ascent+i*hudLineHeight+layer.offset,
			)
			d.DrawString(line)
		}
	}
}

// FlipVertical returns a copy of img with its rows reversed.
func FlipVertical(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Max.Y-1-y)
		dst := out.PixOffset(0, y)
		copy(out.Pix[dst:dst+rowLen], img.Pix[src:src+rowLen])
	}
	return out
}
