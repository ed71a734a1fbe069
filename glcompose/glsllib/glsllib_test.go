package glsllib

import (
	"strings"
	"testing"
)

func TestListAndSource(t *testing.T) {
	dirs := map[string]int{
		"const": 2, "filter": 3, "main": 4, "material": 8,
		"shade": 1, "shape": 8, "texture": 8, "trace": 1, "util": 4,
	}
	for dir, want := range dirs {
		names, err := List(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(names) != want {
			t.Errorf("%s: want %d sources, got %v", dir, want, names)
		}
		for _, name := range names {
			src := Source(dir + "/" + name)
			if strings.TrimSpace(src) == "" {
				t.Errorf("%s/%s: empty source", dir, name)
			}
			if strings.HasSuffix(src, "\n") {
				t.Errorf("%s/%s: trailing newline not trimmed", dir, name)
			}
		}
	}
	if _, err := List("nope"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFragment(t *testing.T) {
	f := Fragment("shape/sphere")
	if f.Name() != "sphere" || f.CapitalName() != "Sphere" {
		t.Errorf("unexpected fragment names %q %q", f.Name(), f.CapitalName())
	}
	if !strings.Contains(f.Body(), "intersectSphere") {
		t.Error("sphere source missing intersect function")
	}
	frags := Fragments("filter", "none", "gamma")
	if len(frags) != 2 || frags[1].Name() != "gamma" {
		t.Errorf("unexpected fragments %v", frags)
	}
	if !strings.Contains(frags[1].Body(), "FILTER_GAMMA_C") {
		t.Error("gamma source must reference its parameter macro")
	}
}

func TestSourcePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing source")
		}
	}()
	Source("shape/torus")
}
