package kernel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type ParamKind int

const (
	ParamFloat ParamKind = iota
	ParamInt
	ParamVec2
)

func (k ParamKind) String() string {
	switch k {
	case ParamFloat:
		return "float"
	case ParamInt:
		return "int"
	case ParamVec2:
		return "vec2"
	default:
		return fmt.Sprintf("ParamKind(%d)", int(k))
	}
}

type Param struct {
	Name string
	Kind ParamKind
}

// PixelFunc computes the colour of one pixel. It reports the colour through
// ctx.Color and must have no other side effects.
type PixelFunc func(ctx *Context, args Args)

// Shader is a per-pixel program together with its declared positional
// parameters and the library functions it calls.
type Shader struct {
	Name   string
	Params []Param
	Uses   []string
	Func   PixelFunc
}

// Args are the positional render arguments after Bind has normalised them,
// so the typed accessors never fail for a declared parameter.
type Args []any

func (a Args) Float(i int) float64 {
	return a[i].(float64)
}

func (a Args) Int(i int) int {
	return a[i].(int)
}

func (a Args) Vec2(i int) mgl64.Vec2 {
	return a[i].(mgl64.Vec2)
}

// Bind checks args against the declared parameters and converts each value
// to the canonical Go type of its kind.
func (s Shader) Bind(args []any) (Args, error) {
	if len(args) != len(s.Params) {
		return nil, fmt.Errorf("%w: %q takes %v arguments, got %v", ErrInvalidArgs, s.Name, len(s.Params), len(args))
	}

	bound := make(Args, len(args))
	for i, p := range s.Params {
		v, ok := convert(p.Kind, args[i])
		if !ok {
			return nil, fmt.Errorf("%w: %q parameter %v (%v) cannot take %T", ErrInvalidArgs, s.Name, p.Name, p.Kind, args[i])
		}
		bound[i] = v
	}
	return bound, nil
}

func convert(kind ParamKind, v any) (any, bool) {
	switch kind {
	case ParamFloat:
		switch n := v.(type) {
		case float64:
			return n, true
		case float32:
			return float64(n), true
		case int:
			return float64(n), true
		}
	case ParamInt:
		switch n := v.(type) {
		case int:
			return n, true
		case int32:
			return int(n), true
		case int64:
			return int(n), true
		case uint32:
			return int(n), true
		}
	case ParamVec2:
		switch n := v.(type) {
		case mgl64.Vec2:
			return n, true
		case [2]float64:
			return mgl64.Vec2(n), true
		}
	}
	return nil, false
}
