package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
	"unsafe"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stewi1014/dualfractal/input"
	"github.com/stewi1014/dualfractal/viewer"
	"go.uber.org/zap"
)

//go:embed shaders/present.vert
var presentVertexShader string

//go:embed shaders/present.frag
var presentFragmentShader string

// keyNames maps GLFW keys to the names the session binds.
var keyNames = map[glfw.Key]input.Key{
	glfw.KeyW:            "KeyW",
	glfw.KeyA:            "KeyA",
	glfw.KeyS:            "KeyS",
	glfw.KeyD:            "KeyD",
	glfw.KeyM:            "KeyM",
	glfw.KeyUp:           "ArrowUp",
	glfw.KeyDown:         "ArrowDown",
	glfw.KeyLeft:         "ArrowLeft",
	glfw.KeyRight:        "ArrowRight",
	glfw.KeyEqual:        "Equal",
	glfw.KeyMinus:        "Minus",
	glfw.KeyKPAdd:        "Equal",
	glfw.KeyKPSubtract:   "Minus",
	glfw.KeyLeftBracket:  "BracketLeft",
	glfw.KeyRightBracket: "BracketRight",
}

type RenderWindow struct {
	*glfw.Window
	session *viewer.Session
	logger  *zap.Logger

	vao     uint32
	vbo     uint32
	program uint32
	texture uint32
	quit    func(error)
}

func runWindow(ctx context.Context, session *viewer.Session, logger *zap.Logger) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw.Init failed: %w", err)
	}
	defer glfw.Terminate()

	ctx, quit := context.WithCancelCause(ctx)
	defer quit(nil)

	w, err := NewRenderWindow(session, logger, quit)
	if err != nil {
		return err
	}
	defer w.Destroy()

	interval := session.Keys.Interval.Seconds()
	for !w.ShouldClose() && ctx.Err() == nil {
		glfw.WaitEventsTimeout(interval)

		rendered, err := session.Update(time.Now())
		if err != nil {
			quit(err)
			break
		}
		if rendered {
			w.draw()
		}
	}

	if err := context.Cause(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func NewRenderWindow(session *viewer.Session, logger *zap.Logger, quit func(error)) (*RenderWindow, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	width, height := session.Active().Width(), session.Active().Height()
	window, err := glfw.CreateWindow(width, height, "DualFractal", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("glfw.CreateWindow failed: %w", err)
	}

	w := &RenderWindow{
		Window:  window,
		session: session,
		logger:  logger,
		quit:    quit,
	}

	w.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("gl.Init failed: %w", err)
	}
	logger.Info("OpenGL initialised", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	if logger.Core().Enabled(zap.DebugLevel) {
		gl.Enable(gl.DEBUG_OUTPUT)
		gl.DebugMessageCallback(w.glDebugMessage, nil)
	}

	if err := w.loadProgram(); err != nil {
		window.Destroy()
		return nil, err
	}

	w.SetKeyCallback(w.key)
	w.SetFocusCallback(w.focus)
	w.SetFramebufferSizeCallback(w.resize)

	fbWidth, fbHeight := w.GetFramebufferSize()
	w.resize(window, fbWidth, fbHeight)
	return w, nil
}

func (w *RenderWindow) key(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		w.SetShouldClose(true)
		return
	}

	name, ok := keyNames[key]
	if !ok {
		return
	}

	switch action {
	case glfw.Press:
		if err := w.session.KeyDown(name); err != nil {
			w.quit(err)
		}
	case glfw.Release:
		w.session.KeyUp(name)
	}
}

func (w *RenderWindow) focus(_ *glfw.Window, focused bool) {
	if !focused {
		w.session.Keys.ReleaseAll()
	}
}

func (w *RenderWindow) resize(_ *glfw.Window, width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	if err := w.session.Resize(width, height); err != nil {
		w.quit(err)
	}
}

// draw uploads the session's current frame and presents it.
func (w *RenderWindow) draw() {
	frame := w.session.Frame()

	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA8,
		int32(frame.Bounds().Dx()), int32(frame.Bounds().Dy()),
		0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix),
	)

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(w.program)
	gl.BindVertexArray(w.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	w.SwapBuffers()
}

func (w *RenderWindow) glDebugMessage(
	source,
	gltype,
	id,
	severity uint32,
	length int32,
	message string,
	user unsafe.Pointer,
) {
	severityStr := "unknown"
	switch severity {
	case gl.DEBUG_SEVERITY_HIGH:
		severityStr = "high"
	case gl.DEBUG_SEVERITY_MEDIUM:
		severityStr = "medium"
	case gl.DEBUG_SEVERITY_LOW:
		severityStr = "low"
	case gl.DEBUG_SEVERITY_NOTIFICATION:
		severityStr = "notification"
	}

	typeStr := "other"
	switch gltype {
	case gl.DEBUG_TYPE_ERROR:
		typeStr = "error"
	case gl.DEBUG_TYPE_DEPRECATED_BEHAVIOR:
		typeStr = "deprecatedBehavior"
	case gl.DEBUG_TYPE_UNDEFINED_BEHAVIOR:
		typeStr = "undefinedBehavior"
	case gl.DEBUG_TYPE_PERFORMANCE:
		typeStr = "performance"
	case gl.DEBUG_TYPE_PORTABILITY:
		typeStr = "portability"
	}

	w.logger.Debug("gl",
		zap.String("severity", severityStr),
		zap.String("type", typeStr),
		zap.Uint32("id", id),
		zap.String("message", message),
	)
}

func (w *RenderWindow) loadProgram() error {
	vertexShader, err := compileShader(presentVertexShader+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(vertexShader)

	fragmentShader, err := compileShader(presentFragmentShader+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		return err
	}
	defer gl.DeleteShader(fragmentShader)

	w.program = gl.CreateProgram()
	gl.AttachShader(w.program, vertexShader)
	gl.AttachShader(w.program, fragmentShader)
	gl.BindFragDataLocation(w.program, 0, gl.Str("outputColor\x00"))
	gl.LinkProgram(w.program)

	var status int32
	gl.GetProgramiv(w.program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetProgramiv(w.program, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetProgramInfoLog(w.program, l, nil, gl.Str(log))
		return fmt.Errorf("failed to link program: %v", log)
	}
	gl.UseProgram(w.program)
	gl.Uniform1i(gl.GetUniformLocation(w.program, gl.Str("frame\x00")), 0)

	verticies := []float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}

	gl.GenVertexArrays(1, &w.vao)
	gl.BindVertexArray(w.vao)

	gl.GenBuffers(1, &w.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, w.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(verticies)*4, gl.Ptr(verticies), gl.STATIC_DRAW)

	vertexAttrib := uint32(gl.GetAttribLocation(w.program, gl.Str("vert\x00")))
	gl.EnableVertexAttribArray(vertexAttrib)
	gl.VertexAttribPointerWithOffset(vertexAttrib, 2, gl.FLOAT, false, 2*4, 0)

	gl.GenTextures(1, &w.texture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, w.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)

	return nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	defer runtime.KeepAlive(source)
	cstring, free := gl.Strs(source)
	defer free()

	shader := gl.CreateShader(shaderType)
	gl.ShaderSource(shader, 1, cstring, nil)
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var l int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &l)

		log := strings.Repeat("\x00", int(l+1))
		gl.GetShaderInfoLog(shader, l, nil, gl.Str(log))
		return 0, fmt.Errorf("shader\n\"\n%v\n\"\nfailed to compile: %v", source, log)
	}

	return shader, nil
}
