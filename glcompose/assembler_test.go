package glcompose_test

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/soypat/geometry/ms2"
	"github.com/soypat/geometry/ms3"
	"github.com/soypat/sail/glcompose"
)

func mustGenerator(t testing.TB, cfg glcompose.GeneratorConfig) *glcompose.Generator {
	t.Helper()
	g, err := glcompose.NewGenerator(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func newTestAssembler(t testing.TB) *glcompose.Assembler {
	t.Helper()
	lib := mustGenerator(t, glcompose.GeneratorConfig{
		Name:      "lib",
		Fragments: []glcompose.Fragment{glcompose.NewFragment("helper", "float helper(){return 1.0;}")},
	})
	user := mustGenerator(t, glcompose.GeneratorConfig{
		Name: "user",
		Fragments: []glcompose.Fragment{
			glcompose.NewFragment("a", "float a(){return helper();}"),
			glcompose.NewFragment("b", "float b(){return 2.0*helper();}"),
		},
		Exports: []glcompose.Export{{
			Name:     "pick",
			Prologue: "float pick(int k){if(false){}",
			Epilogue: "return 0.0;}",
			Tag:      "k",
			Body:     func(f glcompose.Fragment) string { return "return " + f.Name() + "();" },
		}},
	})
	mainGen := mustGenerator(t, glcompose.GeneratorConfig{
		Name:      "main",
		Fragments: []glcompose.Fragment{glcompose.NewFragment("entry", "void main(){}")},
	})
	mat, err := glcompose.NewUniform("matrix", ms3.Mat4{})
	if err != nil {
		t.Fatal(err)
	}
	a, err := glcompose.NewAssembler(glcompose.AssemblerConfig{
		Name:    "test",
		Version: "300 es",
		Resources: []glcompose.Resource{
			{Name: "n", Type: glcompose.ResourceInt},
			mat,
			glcompose.NewSampler("tex", 0),
		},
		Vertex: glcompose.Pipeline{
			Steps: []glcompose.Step{{Generator: mainGen, Default: glcompose.Select("entry")}},
		},
		Fragment: glcompose.Pipeline{
			Header: []string{"precision highp float;"},
			Steps: []glcompose.Step{
				{Generator: lib, Default: glcompose.Select("helper")},
				{Generator: user},
				{Generator: mainGen, Default: glcompose.Select("entry")},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestAssembleStage(t *testing.T) {
	a := newTestAssembler(t)
	got, err := a.AssembleStage(glcompose.StageFragment, glcompose.Selections{
		"user":    glcompose.Select("b", "a"),
		"unknown": glcompose.Select("ignored"),
	})
	if err != nil {
		t.Fatal(err)
	}
	const want = "#version 300 es\n" +
		"precision highp float;\n" +
		"uniform int n;\n" +
		"uniform mat4 matrix;\n" +
		"uniform sampler2D tex;\n" +
		"float helper(){return 1.0;}\n" +
		"float b(){return 2.0*helper();}\n" +
		"float a(){return helper();}\n" +
		"float pick(int k){if(false){}else if(k == B) {return b();}else if(k == A) {return a();}return 0.0;}\n" +
		"void main(){}\n"
	if got != want {
		t.Errorf("want:\n%s\ngot:\n%s", want, got)
	}
	// Definitions must come before their callers.
	if strings.Index(got, "float helper()") > strings.Index(got, "helper();") {
		t.Error("helper used before definition")
	}

	vert, err := a.AssembleStage(glcompose.StageVertex, nil)
	if err != nil {
		t.Fatal(err)
	}
	const wantVert = "#version 300 es\nuniform int n;\nuniform mat4 matrix;\nuniform sampler2D tex;\nvoid main(){}\n"
	if vert != wantVert {
		t.Errorf("want:\n%s\ngot:\n%s", wantVert, vert)
	}
}

func TestAssembleStageFailure(t *testing.T) {
	a := newTestAssembler(t)
	dst := []byte("prev")
	out, err := a.AppendStage(dst, glcompose.StageFragment, glcompose.Selections{"user": glcompose.Select("c")})
	if !errors.Is(err, glcompose.ErrUnknownFragment) {
		t.Fatalf("want unknown fragment, got %v", err)
	}
	if string(out) != "prev" {
		t.Errorf("partial output on failure: %q", out)
	}
	_, err = a.AssembleStage(glcompose.Stage(9), nil)
	if err == nil {
		t.Error("expected invalid stage error")
	}
}

func TestNewAssemblerValidation(t *testing.T) {
	g1 := mustGenerator(t, glcompose.GeneratorConfig{Name: "filter"})
	g2 := mustGenerator(t, glcompose.GeneratorConfig{Name: "Filter"})
	tests := []struct {
		desc string
		cfg  glcompose.AssemblerConfig
	}{
		{desc: "no version", cfg: glcompose.AssemblerConfig{}},
		{desc: "nil generator", cfg: glcompose.AssemblerConfig{Version: "300 es",
			Fragment: glcompose.Pipeline{Steps: []glcompose.Step{{}}}}},
		{desc: "case collision", cfg: glcompose.AssemblerConfig{Version: "300 es",
			Fragment: glcompose.Pipeline{Steps: []glcompose.Step{{Generator: g1}, {Generator: g2}}}}},
		{desc: "duplicate resource", cfg: glcompose.AssemblerConfig{Version: "300 es",
			Resources: []glcompose.Resource{glcompose.NewSampler("t", 0), glcompose.NewSampler("t", 1)}}},
		{desc: "untyped resource", cfg: glcompose.AssemblerConfig{Version: "300 es",
			Resources: []glcompose.Resource{{Name: "x"}}}},
		{desc: "unnamed resource", cfg: glcompose.AssemblerConfig{Version: "300 es",
			Resources: []glcompose.Resource{{Type: glcompose.ResourceFloat}}}},
	}
	for _, test := range tests {
		_, err := glcompose.NewAssembler(test.cfg)
		if err == nil {
			t.Errorf("%s: expected error", test.desc)
		}
	}
	// The same generator may appear twice in a pipeline.
	_, err := glcompose.NewAssembler(glcompose.AssemblerConfig{Version: "300 es",
		Fragment: glcompose.Pipeline{Steps: []glcompose.Step{{Generator: g1}, {Generator: g1}}}})
	if err != nil {
		t.Error(err)
	}
}

func TestResourceTypeOf(t *testing.T) {
	tests := []struct {
		v    any
		want glcompose.ResourceType
	}{
		{int32(0), glcompose.ResourceInt},
		{0, glcompose.ResourceInt},
		{float32(0), glcompose.ResourceFloat},
		{ms2.Vec{}, glcompose.ResourceVec2},
		{ms3.Vec{}, glcompose.ResourceVec3},
		{[4]float32{}, glcompose.ResourceVec4},
		{ms3.Mat3{}, glcompose.ResourceMat3},
		{ms3.Mat4{}, glcompose.ResourceMat4},
	}
	for _, test := range tests {
		got, err := glcompose.ResourceTypeOf(reflect.TypeOf(test.v))
		if err != nil {
			t.Errorf("%T: %s", test.v, err)
		} else if got != test.want {
			t.Errorf("%T: want %s, got %s", test.v, test.want, got)
		}
	}
	if _, err := glcompose.ResourceTypeOf(reflect.TypeOf(float64(0))); err == nil {
		t.Error("expected error for float64")
	}
	if _, err := glcompose.NewUniform("x", nil); err == nil {
		t.Error("expected error for nil value")
	}
	b := glcompose.AppendResourceDecl(nil, glcompose.Resource{Name: "eye", Type: glcompose.ResourceVec3})
	if string(b) != "uniform vec3 eye;\n" {
		t.Errorf("got %q", b)
	}
}

func TestSelectionsApplyToEveryStage(t *testing.T) {
	a := newTestAssembler(t)
	sel := glcompose.Selections{"main": glcompose.Select()}
	for _, stage := range []glcompose.Stage{glcompose.StageVertex, glcompose.StageFragment} {
		got, err := a.AssembleStage(stage, sel)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(got, "void main(){}") {
			t.Errorf("%s: main override not applied:\n%s", stage, got)
		}
		def, err := a.AssembleStage(stage, nil)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(def, "void main(){}") {
			t.Errorf("%s: default selection not used:\n%s", stage, def)
		}
	}
}
