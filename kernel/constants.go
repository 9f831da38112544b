package kernel

import "maps"

const (
	ConstWidth  = "width"
	ConstHeight = "height"
)

// Constants are the named numeric values bound into a kernel at compile time.
type Constants map[string]float64

func (c Constants) Width() int {
	return int(c[ConstWidth])
}

func (c Constants) Height() int {
	return int(c[ConstHeight])
}

// Get returns the named constant, or fallback when it is not bound.
func (c Constants) Get(name string, fallback float64) float64 {
	if v, ok := c[name]; ok {
		return v
	}
	return fallback
}

// With returns a copy of c with the output dimensions merged in.
// The receiver is left untouched.
func (c Constants) With(width, height int) Constants {
	out := make(Constants, len(c)+2)
	maps.Copy(out, c)
	out[ConstWidth] = float64(width)
	out[ConstHeight] = float64(height)
	return out
}
