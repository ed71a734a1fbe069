//go:build tinygo || !cgo

package glcompile

import (
	"github.com/soypat/sail"
	"github.com/soypat/sail/glcompose"
)

// Init creates a hidden 1x1 window with a current OpenGL 4.6 core context.
func Init() (terminate func(), err error) { return nil, ErrUnsupported }

// Version returns the version string of the current context.
func Version() string { return "" }

type Program struct{}

// Compile compiles and links src in the current context.
func Compile(src Source) (*Program, error) { return nil, ErrUnsupported }

func (p *Program) Bind()   {}
func (p *Program) Delete() {}

func (p *Program) BindSamplers(res []glcompose.Resource) error { return ErrUnsupported }

func (p *Program) SetTraceUniforms(u *sail.TraceUniforms) error { return ErrUnsupported }

// Check compiles and links progs and releases the result.
func Check(progs sail.Programs) error { return ErrUnsupported }
