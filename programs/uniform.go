package programs

import "github.com/go-gl/mathgl/mgl64"

const (
	DefaultIterations = 200
	DefaultMoveSpeed  = 0.075
	DefaultZoomSpeed  = 0.05

	// Below MinScale neighbouring pixels map to the same float64 point.
	MinScale = 1e-15
	MaxScale = 1e6
)

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Uniforms is the shared view state the interaction driver mutates and each
// render reads.
type Uniforms struct {
	Center     mgl64.Vec2
	Scale      float64
	Iterations int
}

func DefaultUniforms() Uniforms {
	return Uniforms{
		Scale:      1,
		Iterations: DefaultIterations,
	}
}

// Translate pans the centre along axis. Horizontal moves are scaled by the
// inverse aspect ratio so both axes move at the same on-screen speed.
func (u *Uniforms) Translate(axis Axis, change float64, width, height int) {
	switch axis {
	case AxisX:
		u.Center[0] += change * (float64(height) * u.Scale) / float64(width)
	case AxisY:
		u.Center[1] += change * u.Scale
	}
}

// Zoom grows the scale by amount times itself; negative amounts zoom in.
func (u *Uniforms) Zoom(amount float64) {
	u.Scale += amount * u.Scale

	if u.Scale > MaxScale {
		u.Scale = MaxScale
	}
	if !(u.Scale >= MinScale) {
		u.Scale = MinScale
	}
}

// Args returns the positional render arguments for the registered programs.
func (u Uniforms) Args() []any {
	return []any{u.Center, u.Scale, u.Iterations}
}
