//go:build !tinygo && cgo

package glcompile

import (
	"fmt"

	"github.com/go-gl/gl/v4.6-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/glgl/v4.6-core/glgl"
	"github.com/soypat/sail"
	"github.com/soypat/sail/glcompose"
)

// Init creates a hidden 1x1 window with a current OpenGL 4.6 core context.
// It must be called from the main thread. The returned function releases the context.
func Init() (terminate func(), err error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 6)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.False)
	window, err := glfw.CreateWindow(1, 1, "sail", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to create GLFW window: %w", err)
	}
	window.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	return glfw.Terminate, nil
}

// Version returns the version string of the current context.
func Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

// Program is a linked GL program.
type Program struct {
	prog glgl.Program
}

// Compile compiles and links src in the current context.
// Driver diagnostics are returned as a [*CompileError].
func Compile(src Source) (*Program, error) {
	prog, err := glgl.CompileProgram(glgl.ShaderSource{
		Vertex:   src.Vertex + "\x00",
		Fragment: src.Fragment + "\x00",
	})
	if err != nil {
		return nil, &CompileError{Log: err.Error()}
	}
	return &Program{prog: prog}, nil
}

// Bind makes p the current program.
func (p *Program) Bind() { p.prog.Bind() }

// Delete releases the program. p must not be used afterwards.
func (p *Program) Delete() { p.prog.Delete() }

// BindSamplers binds p and sets each sampler resource to its texture unit.
// Samplers the driver optimized out are skipped.
func (p *Program) BindSamplers(res []glcompose.Resource) error {
	p.prog.Bind()
	for _, su := range samplerUnits(res) {
		if loc, ok := p.location(su.name); ok {
			gl.Uniform1i(loc, su.unit)
		}
	}
	return glgl.Err()
}

// SetTraceUniforms binds p and uploads u. Uniforms the driver optimized out are skipped.
func (p *Program) SetTraceUniforms(u *sail.TraceUniforms) error {
	p.prog.Bind()
	if err := setTraceUniforms(glSetter{p}, u); err != nil {
		return err
	}
	return glgl.Err()
}

func (p *Program) location(name string) (int32, bool) {
	loc, err := p.prog.UniformLocation(name + "\x00")
	return loc, err == nil
}

// glSetter uploads uniforms of the bound program.
type glSetter struct{ p *Program }

func (s glSetter) int1(name string, v int32) {
	if loc, ok := s.p.location(name); ok {
		gl.Uniform1i(loc, v)
	}
}

func (s glSetter) float1(name string, v float32) {
	if loc, ok := s.p.location(name); ok {
		gl.Uniform1f(loc, v)
	}
}

func (s glSetter) vec3(name string, v ms3.Vec) {
	if loc, ok := s.p.location(name); ok {
		gl.Uniform3f(loc, v.X, v.Y, v.Z)
	}
}

func (s glSetter) mat4(name string, v [16]float32) {
	if loc, ok := s.p.location(name); ok {
		gl.UniformMatrix4fv(loc, 1, true, &v[0])
	}
}

// Check compiles and links progs and releases the result.
func Check(progs sail.Programs) error {
	p, err := Compile(Source{Vertex: progs.Vertex, Fragment: progs.Fragment})
	if err != nil {
		return err
	}
	p.Delete()
	return nil
}
