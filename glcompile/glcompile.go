// Package glcompile compiles and links assembled GLSL programs with the host
// OpenGL driver. It is used to check generated sources and to upload the trace
// uniforms of a linked program.
package glcompile

import (
	"errors"
	"fmt"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/sail"
	"github.com/soypat/sail/glcompose"
)

// ErrUnsupported is returned by all operations on builds without CGo, including TinyGo.
var ErrUnsupported = errors.New("GL compilation requires CGo and is not supported on TinyGo")

// Source holds the stage sources of a single program without null terminators.
type Source struct {
	Vertex   string
	Fragment string
}

// CompileError is returned when the driver rejects a program.
// Log is the driver compile or link log, unmodified.
type CompileError struct {
	Log string
}

func (e *CompileError) Error() string { return e.Log }

// samplerUnit is a sampler uniform name paired with its texture unit.
type samplerUnit struct {
	name string
	unit int32
}

// samplerUnits returns the sampler resources of res with their units.
func samplerUnits(res []glcompose.Resource) []samplerUnit {
	var units []samplerUnit
	for _, r := range res {
		if r.Type == glcompose.ResourceSampler2D {
			units = append(units, samplerUnit{name: r.Name, unit: int32(r.Unit)})
		}
	}
	return units
}

// uniformSetter uploads single uniform values of the supported trace uniform types.
type uniformSetter interface {
	int1(name string, v int32)
	float1(name string, v float32)
	vec3(name string, v ms3.Vec)
	// mat4 receives the matrix in row major order.
	mat4(name string, v [16]float32)
}

func setTraceUniforms(s uniformSetter, u *sail.TraceUniforms) error {
	names, values := u.Values()
	for i, name := range names {
		switch v := values[i].(type) {
		case int32:
			s.int1(name, v)
		case float32:
			s.float1(name, v)
		case ms3.Vec:
			s.vec3(name, v)
		case ms3.Mat4:
			s.mat4(name, v.Array())
		default:
			return fmt.Errorf("unsupported uniform %s of type %T", name, v)
		}
	}
	return nil
}
