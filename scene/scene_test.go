package scene

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/multierr"

	"github.com/soypat/sail"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := s.TraceConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := sail.TraceConfig{
		Shapes:     []sail.Shape{sail.ShapeRectangle, sail.ShapeCube, sail.ShapeSphere},
		Materials:  []sail.Material{sail.MaterialMatte, sail.MaterialMirror, sail.MaterialGlass},
		Textures:   []sail.Texture{sail.TextureCornellBox},
		Integrator: sail.IntegratorPathTrace,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("trace config (-want +got):\n%s", diff)
	}
	rcfg, err := s.RenderConfig()
	if err != nil {
		t.Fatal(err)
	}
	wantRender := sail.RenderConfig{Filter: sail.FilterGamma, FilterParams: []sail.Param{{Key: "c", Value: "2.2"}}}
	if diff := cmp.Diff(wantRender, rcfg); diff != "" {
		t.Errorf("render config (-want +got):\n%s", diff)
	}
	if _, err := sail.TracePrograms(cfg, nil); err != nil {
		t.Error(err)
	}
	if _, err := sail.RenderPrograms(rcfg, nil); err != nil {
		t.Error(err)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		desc string
		data string
	}{
		{desc: "unknown field", data: "version: 1\nobjects:\n  - shape: cube\n    material: matte\n    colour: red\n"},
		{desc: "bad version", data: "version: 2\n"},
		{desc: "missing version", data: "objects: []\n"},
		{desc: "missing material", data: "version: 1\nobjects:\n  - shape: cube\n"},
		{desc: "not yaml", data: "version: [1\n"},
	}
	for _, test := range tests {
		if _, err := Parse([]byte(test.data)); err == nil {
			t.Errorf("%s: expected error", test.desc)
		}
	}
}

func TestTraceConfigErrors(t *testing.T) {
	s, err := Parse([]byte(`version: 1
integrator: pathtrace
objects:
  - shape: torus
    material: plastic
  - shape: cube
    material: matte
    texture: wood
`))
	if err != nil {
		t.Fatal(err)
	}
	_, err = s.TraceConfig()
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("want 3 errors, got %v", err)
	}
	var verr *sail.UnknownVariantError
	if !errors.As(errs[2], &verr) || verr.Role != "texture" || verr.Name != "wood" {
		t.Errorf("unexpected error %v", errs[2])
	}
}

func TestOrderedLightsFirst(t *testing.T) {
	s := &Scene{Objects: []Object{
		{Shape: "cube", Material: "matte"},
		{Shape: "disk", Material: "matte", Light: true},
		{Shape: "sphere", Material: "glass"},
		{Shape: "rectangle", Material: "matte", Light: true},
	}}
	var got []string
	for _, ob := range s.Ordered() {
		got = append(got, ob.Shape)
	}
	if diff := cmp.Diff([]string{"rectangle", "disk", "cube", "sphere"}, got); diff != "" {
		t.Errorf("object order (-want +got):\n%s", diff)
	}
	cfg, err := s.TraceConfig()
	if err != nil {
		t.Fatal(err)
	}
	wantShapes := []sail.Shape{sail.ShapeRectangle, sail.ShapeDisk, sail.ShapeCube, sail.ShapeSphere}
	if diff := cmp.Diff(wantShapes, cfg.Shapes); diff != "" {
		t.Error(diff)
	}
	if diff := cmp.Diff([]sail.Material{sail.MaterialMatte, sail.MaterialGlass}, cfg.Materials); diff != "" {
		t.Error(diff)
	}
	if len(cfg.Textures) != 0 {
		t.Errorf("uniform color textures must not be selected: %v", cfg.Textures)
	}
}

func TestRenderConfigParamOrder(t *testing.T) {
	s := &Scene{Filter: FilterConfig{Name: "mitchell", Params: map[string]string{
		"r": "vec2(2.0,2.0)", "c": "0.3", "b": "0.3",
	}}}
	cfg, err := s.RenderConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := []sail.Param{{Key: "b", Value: "0.3"}, {Key: "c", Value: "0.3"}, {Key: "r", Value: "vec2(2.0,2.0)"}}
	if diff := cmp.Diff(want, cfg.FilterParams); diff != "" {
		t.Error(diff)
	}
	s.Filter.Name = "bokeh"
	if _, err := s.RenderConfig(); err == nil {
		t.Error("expected unknown filter error")
	}
	empty, err := (&Scene{}).RenderConfig()
	if err != nil || empty.Filter != sail.FilterNone {
		t.Errorf("empty filter must default to none, got %v %v", empty, err)
	}
}

func TestLoadDump(t *testing.T) {
	s, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	data, err := Dump(s)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(s, loaded); diff != "" {
		t.Errorf("loaded scene differs (-want +got):\n%s", diff)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
