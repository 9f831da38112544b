package viewer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stewi1014/dualfractal/input"
	"github.com/stewi1014/dualfractal/kernel"
	"github.com/stewi1014/dualfractal/programs"
	"go.uber.org/zap"
)

// Session ties a DualKernel, the view it renders and the key table that
// drives it. It is not safe for concurrent use.
type Session struct {
	Kernel *kernel.DualKernel
	View   programs.Uniforms
	Keys   *input.Table

	cpu    *kernel.ImageSurface
	gpu    *kernel.ImageSurface
	cfg    Config
	shader kernel.Shader
	logger *zap.Logger
	dirty  bool
}

func NewSession(cfg *Config, logger *zap.Logger) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	shader, err := programs.Lookup(cfg.Program)
	if err != nil {
		return nil, err
	}

	s := &Session{
		View: programs.Uniforms{
			Center:     mgl64.Vec2(cfg.Center),
			Scale:      cfg.Scale,
			Iterations: cfg.Iterations,
		},
		Keys:   input.NewTable(),
		cfg:    *cfg,
		shader: shader,
		logger: logger,
		dirty:  true,
	}

	mode, _ := kernel.ParseMode(cfg.Mode)
	if err := s.build(cfg.Width, cfg.Height, mode, cfg.Resolution); err != nil {
		return nil, err
	}
	s.bindKeys()
	return s, nil
}

// build replaces the kernel with one painting fresh width x height surfaces.
func (s *Session) build(width, height int, mode kernel.Mode, resolution int) error {
	cpu := kernel.NewImageSurface(width, height)
	gpu := kernel.NewImageSurface(width, height)
	k := kernel.New(cpu, gpu,
		kernel.WithLogger(s.logger),
		kernel.WithOptions(kernel.Options{Workers: s.cfg.Workers}),
	)

	for _, f := range programs.Library() {
		if err := k.AddFunction(f); err != nil {
			return err
		}
	}

	consts := kernel.Constants{}
	if s.cfg.Escape > 0 {
		consts[programs.ConstEscape] = s.cfg.Escape
	}
	if s.cfg.Seed != ([2]float64{}) {
		consts[programs.ConstSeedReal] = s.cfg.Seed[0]
		consts[programs.ConstSeedImag] = s.cfg.Seed[1]
	}
	if err := k.SetShader(s.shader, consts); err != nil {
		return err
	}
	if err := k.SetMode(mode); err != nil {
		return err
	}
	if err := k.SetResolution(resolution); err != nil {
		return err
	}

	s.Kernel, s.cpu, s.gpu = k, cpu, gpu
	s.dirty = true
	return nil
}

// Resize rebuilds the kernels for a new output size, keeping mode and resolution.
func (s *Session) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid size %vx%v", width, height)
	}
	if width == s.gpu.Width() && height == s.gpu.Height() {
		return nil
	}
	s.logger.Debug("resizing", zap.Int("width", width), zap.Int("height", height))
	return s.build(width, height, s.Kernel.Mode(), s.Kernel.Resolution())
}

func (s *Session) bindKeys() {
	translate := func(axis programs.Axis, change float64) input.Handler {
		return func() {
			s.View.Translate(axis, change, s.gpu.Width(), s.gpu.Height())
			s.dirty = true
		}
	}
	zoom := func(amount float64) input.Handler {
		return func() {
			s.View.Zoom(amount)
			s.dirty = true
			s.logger.Debug("zoom", zap.Float64("scale", s.View.Scale))
		}
	}

	move, zs := s.cfg.MoveSpeed, s.cfg.ZoomSpeed
	s.Keys.WhileHeld(translate(programs.AxisY, move), "KeyW", "ArrowUp")
	s.Keys.WhileHeld(translate(programs.AxisY, -move), "KeyS", "ArrowDown")
	s.Keys.WhileHeld(translate(programs.AxisX, -move), "KeyA", "ArrowLeft")
	s.Keys.WhileHeld(translate(programs.AxisX, move), "KeyD", "ArrowRight")
	s.Keys.WhileHeld(zoom(-zs), "Equal")
	s.Keys.WhileHeld(zoom(zs), "Minus")
}

// KeyDown records a held key and runs the one-shot bindings.
func (s *Session) KeyDown(k input.Key) error {
	s.Keys.Press(k)

	switch k {
	case "KeyM":
		return s.ToggleMode()
	case "BracketLeft":
		return s.SetResolution(s.Kernel.Resolution() - 1)
	case "BracketRight":
		return s.SetResolution(s.Kernel.Resolution() + 1)
	}
	return nil
}

func (s *Session) KeyUp(k input.Key) {
	s.Keys.Release(k)
}

func (s *Session) ToggleMode() error {
	next := kernel.Sequential
	if s.Kernel.Mode() == kernel.Sequential {
		next = kernel.Accelerated
	}
	if err := s.Kernel.SetMode(next); err != nil {
		return err
	}
	s.logger.Info("backend switched", zap.Stringer("mode", next))
	s.dirty = true
	return nil
}

// SetResolution changes the sequential block size. Values below 1 are ignored.
func (s *Session) SetResolution(px int) error {
	if px < 1 {
		return nil
	}
	if err := s.Kernel.SetResolution(px); err != nil {
		return err
	}
	s.dirty = s.dirty || s.Kernel.Mode() == kernel.Sequential
	return nil
}

// Update fires held-key handlers that are due and re-renders if the view
// changed. It reports whether a new frame was rendered.
func (s *Session) Update(now time.Time) (bool, error) {
	s.Keys.Poll(now)
	if !s.dirty {
		return false, nil
	}
	s.dirty = false
	return true, s.Render()
}

func (s *Session) Render() error {
	return s.Kernel.Render(s.View.Args()...)
}

// Active returns the surface of the current mode.
func (s *Session) Active() *kernel.ImageSurface {
	if s.Kernel.Mode() == kernel.Sequential {
		return s.cpu
	}
	return s.gpu
}

// Frame returns the visible surface top row first, with the HUD drawn on it
// when enabled. Kernels paint y upwards, so the surface is flipped.
func (s *Session) Frame() *image.NRGBA {
	frame := FlipVertical(s.Active().Image())
	if s.cfg.HUD {
		DrawHUD(frame, s.Status())
	}
	return frame
}

func (s *Session) Status() []string {
	return []string{
		fmt.Sprintf("%v  %v", s.shader.Name, s.Kernel.Mode()),
		fmt.Sprintf("resolution %v  iterations %v", s.Kernel.Resolution(), s.View.Iterations),
		fmt.Sprintf("center %.6g, %.6g  scale %.4g", s.View.Center[0], s.View.Center[1], s.View.Scale),
	}
}

// Report is the outcome of rendering the same view on both backends.
type Report struct {
	Pixels      int
	Mismatched  int
	Accelerated time.Duration
	Sequential  time.Duration
}

func (r Report) OK() bool {
	return r.Mismatched == 0
}

// Verify renders the current view with both kernels at resolution 1 and
// counts differing pixels. Mode and resolution are restored afterwards.
func (s *Session) Verify() (r Report, err error) {
	mode, res := s.Kernel.Mode(), s.Kernel.Resolution()
	defer func() {
		s.dirty = true
		err = errors.Join(err, s.Kernel.SetMode(mode), s.Kernel.SetResolution(res))
	}()

	if err := s.Kernel.SetResolution(1); err != nil {
		return Report{}, err
	}

	for _, m := range kernel.Modes() {
		if err := s.Kernel.SetMode(m); err != nil {
			return Report{}, err
		}
		start := time.Now()
		if err := s.Render(); err != nil {
			return Report{}, err
		}
		if m == kernel.Accelerated {
			r.Accelerated = time.Since(start)
		} else {
			r.Sequential = time.Since(start)
		}
	}

	a, b := s.gpu.Image(), s.cpu.Image()
	r.Pixels = s.gpu.Width() * s.gpu.Height()
	for y := 0; y < s.gpu.Height(); y++ {
		i := a.PixOffset(0, y)
		j := b.PixOffset(0, y)
		for x := 0; x < s.gpu.Width(); x++ {
			if !bytes.Equal(a.Pix[i:i+4], b.Pix[j:j+4]) {
				r.Mismatched++
			}
			i += 4
			j += 4
		}
	}
	return r, nil
}
