// Package glsllib embeds the GLSL source fragments of the path tracer.
// Sources are grouped by the generator that emits them.
package glsllib

import (
	"embed"
	"io/fs"
	"path"
	"strings"

	"github.com/soypat/sail/glcompose"
)

//go:embed const filter main material shade shape texture trace util
var files embed.FS

// Source returns the embedded source at name, i.e: "shape/sphere".
// It panics if no such source exists since sources are fixed at build time.
func Source(name string) string {
	b, err := files.ReadFile(name + ".glsl")
	if err != nil {
		panic("glsllib: " + err.Error())
	}
	return strings.TrimRight(string(b), "\n")
}

// Fragment returns a fragment named after the base of name with the embedded source as body.
//
//	glsllib.Fragment("shape/sphere") // Fragment named "sphere".
func Fragment(name string) glcompose.Fragment {
	return glcompose.NewFragment(path.Base(name), Source(name))
}

// Fragments returns the fragments of every named source in dir.
func Fragments(dir string, names ...string) []glcompose.Fragment {
	frags := make([]glcompose.Fragment, len(names))
	for i, name := range names {
		frags[i] = Fragment(dir + "/" + name)
	}
	return frags
}

// Sources returns the embedded sources of every name in dir in argument order.
func Sources(dir string, names ...string) []string {
	srcs := make([]string, len(names))
	for i, name := range names {
		srcs[i] = Source(dir + "/" + name)
	}
	return srcs
}

// List returns the names of all sources in dir in lexical order.
func List(dir string) ([]string, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && path.Ext(e.Name()) == ".glsl" {
			names = append(names, strings.TrimSuffix(e.Name(), ".glsl"))
		}
	}
	return names, nil
}
