package glcompose

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"go.uber.org/zap"
)

// Stage is a programmable pipeline stage.
type Stage uint8

const (
	StageVertex Stage = iota
	StageFragment
	numStages
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	}
	return "Stage(" + strconv.Itoa(int(s)) + ")"
}

// ResourceType is the GLSL type of a declared uniform resource.
type ResourceType uint8

const (
	_ ResourceType = iota
	ResourceInt
	ResourceFloat
	ResourceVec2
	ResourceVec3
	ResourceVec4
	ResourceMat3
	ResourceMat4
	ResourceSampler2D
)

// Keyword returns the GLSL type keyword, i.e: "mat4".
func (t ResourceType) Keyword() string {
	switch t {
	case ResourceInt:
		return "int"
	case ResourceFloat:
		return "float"
	case ResourceVec2:
		return "vec2"
	case ResourceVec3:
		return "vec3"
	case ResourceVec4:
		return "vec4"
	case ResourceMat3:
		return "mat3"
	case ResourceMat4:
		return "mat4"
	case ResourceSampler2D:
		return "sampler2D"
	}
	return ""
}

func (t ResourceType) String() string {
	if kw := t.Keyword(); kw != "" {
		return kw
	}
	return "ResourceType(" + strconv.Itoa(int(t)) + ")"
}

// ResourceTypeOf returns the resource type a Go value of type tp is uploaded as.
func ResourceTypeOf(tp reflect.Type) (ResourceType, error) {
	switch tp {
	case reflect.TypeOf(int32(0)), reflect.TypeOf(int(0)):
		return ResourceInt, nil
	case reflect.TypeOf(float32(0)):
		return ResourceFloat, nil
	case reflect.TypeOf(ms2.Vec{}):
		return ResourceVec2, nil
	case reflect.TypeOf(ms3.Vec{}):
		return ResourceVec3, nil
	case reflect.TypeOf(ms3.Quat{}), reflect.TypeOf([4]float32{}):
		return ResourceVec4, nil
	case reflect.TypeOf(ms3.Mat3{}):
		return ResourceMat3, nil
	case reflect.TypeOf(ms3.Mat4{}):
		return ResourceMat4, nil
	case nil:
		return 0, errors.New("nil resource type")
	}
	return 0, fmt.Errorf("equivalent resource type not implemented for %s", tp.String())
}

// Resource is a uniform declared at the top of every assembled stage.
type Resource struct {
	Name string
	Type ResourceType
	// Unit is the texture unit bound to a sampler resource. Unused for other types.
	Unit int
}

// NewUniform returns a non-sampler resource whose type is derived from the Go type of v.
func NewUniform(name string, v any) (Resource, error) {
	tp, err := ResourceTypeOf(reflect.TypeOf(v))
	if err != nil {
		return Resource{}, fmt.Errorf("uniform %q: %w", name, err)
	}
	return Resource{Name: name, Type: tp}, nil
}

// NewSampler returns a 2D sampler resource bound to texture unit.
func NewSampler(name string, unit int) Resource {
	return Resource{Name: name, Type: ResourceSampler2D, Unit: unit}
}

// AppendResourceDecl appends "uniform <type> <name>;\n".
func AppendResourceDecl(b []byte, r Resource) []byte {
	b = append(b, "uniform "...)
	b = append(b, r.Type.Keyword()...)
	b = append(b, ' ')
	b = append(b, r.Name...)
	b = append(b, ";\n"...)
	return b
}

// Step is a single generator invocation in a stage pipeline.
type Step struct {
	Generator *Generator
	// Default is the selection used when the role configuration has
	// no selection for the step's generator.
	Default []*Params
}

// Pipeline is the fixed generator order of one stage.
type Pipeline struct {
	// Header lines are emitted right after the version pragma, i.e: "precision highp float;".
	Header []string
	Steps  []Step
}

// Selections maps generator names to the selection passed to that generator.
// An entry replaces the Default of every step using that generator, in
// every stage: overriding a generator shared by the vertex and fragment
// pipelines changes both. Entries naming generators absent from a stage
// pipeline are ignored.
type Selections map[string][]*Params

// AssemblerConfig configures a new [Assembler].
type AssemblerConfig struct {
	Name string
	// Version is the GLSL version pragma argument, i.e: "300 es".
	Version   string
	Resources []Resource
	Vertex    Pipeline
	Fragment  Pipeline
	// Logger receives debug records for each assembled stage. May be nil.
	Logger *zap.Logger
}

// Assembler links the output of several generators into complete vertex
// and fragment programs. Generators later in a pipeline may call functions
// defined by earlier ones; no forward declarations are emitted.
type Assembler struct {
	name      string
	version   string
	resources []Resource
	stages    [numStages]Pipeline
	log       *zap.Logger
}

// NewAssembler validates cfg and returns an Assembler.
func NewAssembler(cfg AssemblerConfig) (*Assembler, error) {
	if cfg.Version == "" {
		return nil, errors.New("assembler: empty GLSL version")
	}
	resNames := make(map[string]struct{}, len(cfg.Resources))
	for _, r := range cfg.Resources {
		if r.Name == "" {
			return nil, errors.New("assembler: resource with empty name")
		} else if r.Type.Keyword() == "" {
			return nil, fmt.Errorf("assembler: resource %q has invalid type %s", r.Name, r.Type)
		}
		if _, dup := resNames[r.Name]; dup {
			return nil, fmt.Errorf("assembler: duplicate resource %q", r.Name)
		}
		resNames[r.Name] = struct{}{}
	}
	a := &Assembler{
		name:      cfg.Name,
		version:   cfg.Version,
		resources: append([]Resource(nil), cfg.Resources...),
		log:       cfg.Logger,
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	for stage, pl := range [numStages]Pipeline{cfg.Vertex, cfg.Fragment} {
		// Macro names are upper-cased so generator names must not collide ignoring case.
		upperNames := make(map[string]string)
		for i, step := range pl.Steps {
			if step.Generator == nil {
				return nil, fmt.Errorf("assembler %q %s step %d: %w", cfg.Name, Stage(stage), i, errNilGenerator)
			}
			name := step.Generator.Name()
			if other, ok := upperNames[strings.ToUpper(name)]; ok && other != name {
				return nil, fmt.Errorf("assembler %q %s: generator names %q and %q collide", cfg.Name, Stage(stage), name, other)
			}
			upperNames[strings.ToUpper(name)] = name
		}
		a.stages[stage] = Pipeline{
			Header: append([]string(nil), pl.Header...),
			Steps:  append([]Step(nil), pl.Steps...),
		}
	}
	return a, nil
}

func (a *Assembler) Name() string { return a.name }

// Resources returns the declared resources in declaration order.
func (a *Assembler) Resources() []Resource {
	return append([]Resource(nil), a.resources...)
}

// Generators returns the names of the generators of stage's pipeline in order.
func (a *Assembler) Generators(stage Stage) []string {
	if stage >= numStages {
		return nil
	}
	steps := a.stages[stage].Steps
	names := make([]string, len(steps))
	for i := range steps {
		names[i] = steps[i].Generator.Name()
	}
	return names
}

// AppendResourceDecls appends the declaration of every resource.
func (a *Assembler) AppendResourceDecls(b []byte) []byte {
	for _, r := range a.resources {
		b = AppendResourceDecl(b, r)
	}
	return b
}

// AppendStage appends the complete program text of stage to dst. On error dst is returned unmodified.
func (a *Assembler) AppendStage(dst []byte, stage Stage, sel Selections) ([]byte, error) {
	if stage >= numStages {
		return dst, fmt.Errorf("assembler %q: invalid stage %s", a.name, stage)
	}
	pl := &a.stages[stage]
	start := len(dst)
	b := append(dst, "#version "...)
	b = append(b, a.version...)
	b = append(b, '\n')
	for _, line := range pl.Header {
		b = append(b, line...)
		b = append(b, '\n')
	}
	b = a.AppendResourceDecls(b)
	var err error
	for _, step := range pl.Steps {
		selection, ok := sel[step.Generator.Name()]
		if !ok {
			selection = step.Default
		}
		b, err = step.Generator.AppendGenerate(b, selection...)
		if err != nil {
			return dst[:start], fmt.Errorf("assembling %s %s: %w", a.name, stage, err)
		}
	}
	a.log.Debug("assembled program stage",
		zap.String("program", a.name),
		zap.Stringer("stage", stage),
		zap.Strings("generators", a.Generators(stage)),
		zap.Int("bytes", len(b)-start),
	)
	return b, nil
}

// AssembleStage returns the complete program text of stage.
func (a *Assembler) AssembleStage(stage Stage, sel Selections) (string, error) {
	b, err := a.AppendStage(nil, stage, sel)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
