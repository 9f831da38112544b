package kernel

import (
	"image"
	"image/color"
)

// Surface is a 2D pixel target a kernel paints into.
type Surface interface {
	Width() int
	Height() int
	Set(x, y int, c color.NRGBA)
	Fill(r image.Rectangle, c color.NRGBA)
	SetVisible(visible bool)
	Visible() bool
}

// Targets maps each backend to the surface it paints.
type Targets map[Mode]Surface

var _ Surface = (*ImageSurface)(nil)

// ImageSurface is an in-memory Surface backed by an *image.NRGBA.
type ImageSurface struct {
	img     *image.NRGBA
	visible bool
}

func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{
		img: image.NewNRGBA(image.Rect(0, 0, width, height)),
	}
}

func (s *ImageSurface) Width() int {
	return s.img.Bounds().Dx()
}

func (s *ImageSurface) Height() int {
	return s.img.Bounds().Dy()
}

func (s *ImageSurface) Set(x, y int, c color.NRGBA) {
	s.img.SetNRGBA(x, y, c)
}

// Fill paints r clipped to the surface bounds.
func (s *ImageSurface) Fill(r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(s.img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			s.img.SetNRGBA(x, y, c)
		}
	}
}

func (s *ImageSurface) SetVisible(visible bool) {
	s.visible = visible
}

func (s *ImageSurface) Visible() bool {
	return s.visible
}

// Image exposes the backing store. Callers must not write to it while a
// kernel is running.
func (s *ImageSurface) Image() *image.NRGBA {
	return s.img
}
