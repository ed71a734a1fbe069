package main

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/soypat/sail"
	"github.com/soypat/sail/scene"
)

func TestScenePrograms(t *testing.T) {
	env := envFromContext(contextWithEnv(context.Background()))
	var err error
	env.Scene, err = scene.Default()
	if err != nil {
		t.Fatal(err)
	}
	env.Log = zap.NewNop()
	trace, render, err := scenePrograms(env)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(trace.Fragment, "vec3 cornellbox(") || !strings.Contains(render.Fragment, "FILTER_GAMMA_C 2.2") {
		t.Error("default scene variants missing from programs")
	}
	env.Scene.Objects = append(env.Scene.Objects, scene.Object{Shape: "torus", Material: "matte"})
	if _, _, err := scenePrograms(env); err == nil {
		t.Error("expected unknown shape error")
	}
}

func TestVariantNames(t *testing.T) {
	got := names(sail.Materials())
	if diff := cmp.Diff([]string{"matte", "mirror", "metal", "glass"}, got); diff != "" {
		t.Error(diff)
	}
}

func TestListFragments(t *testing.T) {
	var buf bytes.Buffer
	if err := listFragments(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != len(sail.Generators()) {
		t.Fatalf("want one line per generator, got:\n%s", buf.String())
	}
	want := "shape      cone cube cylinder disk hyperboloid paraboloid rectangle sphere"
	if !slices.Contains(lines, want) {
		t.Errorf("missing %q in:\n%s", want, buf.String())
	}
}
