package sail

import (
	"fmt"

	"github.com/soypat/geometry/ms3"
	"github.com/soypat/sail/glcompose"
	"go.uber.org/zap"
)

// GLSLVersion is the version pragma argument of all assembled programs.
const GLSLVersion = "300 es"

// Texture units of the trace program samplers.
const (
	UnitCache     = 0
	UnitObjects   = 1
	UnitTexParams = 2
)

// TraceUniforms holds the non-sampler uniforms of the trace program. Field
// types determine the declared uniform types.
type TraceUniforms struct {
	// Number of non-light objects.
	N int32
	// Number of lights.
	LN int32
	// Number of texture parameter records.
	TN             int32
	TextureWeight  float32
	TimeSinceStart float32
	Matrix         ms3.Mat4
	Eye            ms3.Vec
}

// Names of the trace uniforms in TraceUniforms field order.
var traceUniformNames = [...]string{"n", "ln", "tn", "textureWeight", "timeSinceStart", "matrix", "eye"}

// Values returns the uniform names and values in declaration order.
func (u *TraceUniforms) Values() ([]string, []any) {
	return traceUniformNames[:], []any{u.N, u.LN, u.TN, u.TextureWeight, u.TimeSinceStart, u.Matrix, u.Eye}
}

// TraceResources returns the resource declarations of the trace program.
func TraceResources() []glcompose.Resource {
	var zero TraceUniforms
	names, values := zero.Values()
	res := make([]glcompose.Resource, 0, len(names)+3)
	for i := range names {
		res = append(res, must(glcompose.NewUniform(names[i], values[i])))
	}
	return append(res,
		glcompose.NewSampler("cache", UnitCache),
		glcompose.NewSampler("objects", UnitObjects),
		glcompose.NewSampler("texParams", UnitTexParams),
	)
}

// RenderResources returns the resource declarations of the render program.
func RenderResources() []glcompose.Resource {
	return []glcompose.Resource{glcompose.NewSampler("tex", 0)}
}

// NewTraceAssembler returns the assembler of the path tracing program.
// Texture, material, shape and trace selections are supplied per assembly.
// log may be nil.
func NewTraceAssembler(log *zap.Logger) (*glcompose.Assembler, error) {
	header := []string{"precision highp float;", "precision highp int;"}
	return glcompose.NewAssembler(glcompose.AssemblerConfig{
		Name:      "trace",
		Version:   GLSLVersion,
		Resources: TraceResources(),
		Logger:    log,
		Vertex: glcompose.Pipeline{
			Header: header,
			Steps: []glcompose.Step{
				{Generator: utilGen, Default: glcompose.Select("utility")},
				{Generator: mainGen, Default: glcompose.Select("vstrace")},
			},
		},
		Fragment: glcompose.Pipeline{
			Header: header,
			Steps: []glcompose.Step{
				{Generator: constGen},
				{Generator: utilGen, Default: glcompose.Select("random", "sampler", "texhelper", "utility")},
				{Generator: textureGen},
				{Generator: materialGen},
				{Generator: shapeGen},
				{Generator: shadeGen},
				{Generator: traceGen, Default: glcompose.Select(IntegratorPathTrace.String())},
				{Generator: mainGen, Default: glcompose.Select("fstrace")},
			},
		},
	})
}

// NewRenderAssembler returns the assembler of the post-filter program
// that displays the accumulated trace texture. log may be nil.
func NewRenderAssembler(log *zap.Logger) (*glcompose.Assembler, error) {
	return glcompose.NewAssembler(glcompose.AssemblerConfig{
		Name:      "render",
		Version:   GLSLVersion,
		Resources: RenderResources(),
		Logger:    log,
		Vertex: glcompose.Pipeline{
			Steps: []glcompose.Step{
				{Generator: mainGen, Default: glcompose.Select("vsrender")},
			},
		},
		Fragment: glcompose.Pipeline{
			Header: []string{"precision highp float;"},
			Steps: []glcompose.Step{
				{Generator: filterGen, Default: glcompose.Select(FilterNone.String())},
				{Generator: mainGen, Default: glcompose.Select("fsrender")},
			},
		},
	})
}

// Programs holds the vertex and fragment stage sources of a single program.
type Programs struct {
	Vertex   string
	Fragment string
}

// TraceConfig selects the variants compiled into the trace program.
// Dispatch branch order follows slice order. Duplicates are not removed.
type TraceConfig struct {
	Shapes    []Shape
	Materials []Material
	// Textures may contain TextureUniformColor which is always available and emits no code.
	Textures   []Texture
	Integrator Integrator
}

// Selections returns the generator selections of cfg.
func (cfg TraceConfig) Selections() (glcompose.Selections, error) {
	sel := glcompose.Selections{
		GenShape:    make([]*glcompose.Params, 0, len(cfg.Shapes)),
		GenMaterial: make([]*glcompose.Params, 0, len(cfg.Materials)),
		GenTexture:  make([]*glcompose.Params, 0, len(cfg.Textures)),
	}
	for _, s := range cfg.Shapes {
		if s == 0 || s >= shapeEnd {
			return nil, fmt.Errorf("invalid %s", s)
		}
		sel[GenShape] = append(sel[GenShape], glcompose.NewParams(s.String()))
	}
	for _, m := range cfg.Materials {
		if m == 0 || m >= materialEnd {
			return nil, fmt.Errorf("invalid %s", m)
		}
		sel[GenMaterial] = append(sel[GenMaterial], glcompose.NewParams(m.String()))
	}
	for _, t := range cfg.Textures {
		if !t.valid() {
			return nil, fmt.Errorf("invalid %s", t)
		} else if t.HasFragment() {
			sel[GenTexture] = append(sel[GenTexture], glcompose.NewParams(t.String()))
		}
	}
	if cfg.Integrator >= integratorEnd {
		return nil, fmt.Errorf("invalid %s", cfg.Integrator)
	}
	sel[GenTrace] = glcompose.Select(cfg.Integrator.String())
	return sel, nil
}

// RenderConfig selects the post-filter of the render program.
type RenderConfig struct {
	Filter Filter
	// FilterParams are emitted in order. See [Filter.DefaultParams].
	FilterParams []Param
}

// Selections returns the generator selections of cfg.
func (cfg RenderConfig) Selections() (glcompose.Selections, error) {
	if cfg.Filter >= filterEnd {
		return nil, fmt.Errorf("invalid %s", cfg.Filter)
	}
	p := glcompose.NewParams(cfg.Filter.String())
	for _, kv := range cfg.FilterParams {
		p.Set(kv.Key, kv.Value)
	}
	return glcompose.Selections{GenFilter: {p}}, nil
}

// Assemble returns the vertex and fragment stages assembled by a from sel.
func Assemble(a *glcompose.Assembler, sel glcompose.Selections) (Programs, error) {
	vert, err := a.AssembleStage(glcompose.StageVertex, sel)
	if err != nil {
		return Programs{}, err
	}
	frag, err := a.AssembleStage(glcompose.StageFragment, sel)
	if err != nil {
		return Programs{}, err
	}
	return Programs{Vertex: vert, Fragment: frag}, nil
}

// TracePrograms assembles the trace program for cfg. log may be nil.
func TracePrograms(cfg TraceConfig, log *zap.Logger) (Programs, error) {
	sel, err := cfg.Selections()
	if err != nil {
		return Programs{}, fmt.Errorf("trace config: %w", err)
	}
	a, err := NewTraceAssembler(log)
	if err != nil {
		return Programs{}, err
	}
	return Assemble(a, sel)
}

// RenderPrograms assembles the render program for cfg. log may be nil.
func RenderPrograms(cfg RenderConfig, log *zap.Logger) (Programs, error) {
	sel, err := cfg.Selections()
	if err != nil {
		return Programs{}, fmt.Errorf("render config: %w", err)
	}
	a, err := NewRenderAssembler(log)
	if err != nil {
		return Programs{}, err
	}
	return Assemble(a, sel)
}
