package glcompose

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Export synthesizes a dispatch function: Prologue, one branch per selected
// fragment comparing Tag against the fragment's [Fragment.DefineName], and Epilogue.
//
// The Prologue is expected to open the conditional chain with a permanently
// false branch such as "if(false){}" so every selected fragment can use the
// "else if" form and an empty selection yields valid source.
type Export struct {
	Name     string
	Prologue string
	Epilogue string
	// Tag is the runtime expression whose value selects a branch, i.e: "ins.matCategory".
	Tag string
	// Body returns the branch body for a selected fragment.
	Body func(f Fragment) string
}

// Guard returns the branch guard for f, i.e: "else if(category == SPHERE) ".
func (e Export) Guard(f Fragment) string {
	return string(e.branch(f).AppendGuard(nil))
}

func (e Export) branch(f Fragment) Branch {
	return Branch{
		Fragment: f.name,
		Tag:      e.Tag,
		Constant: f.DefineName(),
		Body:     e.Body(f),
	}
}

// GeneratorConfig configures a new [Generator].
type GeneratorConfig struct {
	Name string
	// Preamble blocks are emitted first, each followed by a newline.
	Preamble []string
	// Postscript blocks are emitted last, each followed by a newline.
	Postscript []string
	Fragments  []Fragment
	Exports    []Export
}

// Generator composes the source of selected fragments. A Generator is
// immutable after creation and safe for concurrent use.
type Generator struct {
	name       string
	preamble   []string
	postscript []string
	fragments  map[string]Fragment
	exports    []Export
}

// NewGenerator validates cfg and returns a ready to use Generator.
// Generator and fragment names must be non-empty and contain only letters and digits.
// Fragment names must be unique ignoring case since they are upper-cased into tag constants.
func NewGenerator(cfg GeneratorConfig) (*Generator, error) {
	if err := validateName(cfg.Name); err != nil {
		return nil, fmt.Errorf("generator: %w", err)
	}
	g := &Generator{
		name:       cfg.Name,
		preamble:   slices.Clone(cfg.Preamble),
		postscript: slices.Clone(cfg.Postscript),
		fragments:  make(map[string]Fragment, len(cfg.Fragments)),
		exports:    slices.Clone(cfg.Exports),
	}
	defines := make(map[string]string, len(cfg.Fragments))
	for _, f := range cfg.Fragments {
		if err := validateName(f.name); err != nil {
			return nil, fmt.Errorf("generator %q fragment: %w", cfg.Name, err)
		}
		if other, conflict := defines[f.DefineName()]; conflict {
			return nil, fmt.Errorf("generator %q: fragment %q conflicts with %q", cfg.Name, f.name, other)
		}
		defines[f.DefineName()] = f.name
		g.fragments[f.name] = f
	}
	for i, e := range g.exports {
		if e.Body == nil {
			return nil, fmt.Errorf("generator %q: export %d %q has nil body function", cfg.Name, i, e.Name)
		} else if strings.TrimSpace(e.Tag) == "" {
			return nil, fmt.Errorf("generator %q: export %d %q has empty tag expression", cfg.Name, i, e.Name)
		}
	}
	return g, nil
}

func (g *Generator) Name() string { return g.name }

// Query reports whether a fragment named name is registered.
func (g *Generator) Query(name string) bool {
	_, ok := g.fragments[name]
	return ok
}

// Fragment returns the registered fragment named name.
func (g *Generator) Fragment(name string) (Fragment, bool) {
	f, ok := g.fragments[name]
	return f, ok
}

// Names returns the sorted names of all registered fragments.
func (g *Generator) Names() []string {
	names := make([]string, 0, len(g.fragments))
	for name := range g.fragments {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Build composes the selection into its structured form. Branch order of
// every export follows selection order; selections are never sorted nor
// de-duplicated. On error no unit is returned.
func (g *Generator) Build(selection ...*Params) (*Unit, error) {
	frags := make([]Fragment, len(selection))
	for i, p := range selection {
		if p == nil {
			return nil, fmt.Errorf("generator %q: nil params at selection %d", g.name, i)
		}
		f, ok := g.fragments[p.owner]
		if !ok {
			return nil, &UnknownFragmentError{Generator: g.name, Name: p.owner}
		}
		frags[i] = f
	}
	u := &Unit{Generator: g.name}
	for _, blk := range g.preamble {
		u.Nodes = append(u.Nodes, Block{Text: blk})
	}
	for i, f := range frags {
		params, err := f.ParamNodes(selection[i], g.name)
		if err != nil {
			return nil, fmt.Errorf("generator %q fragment %q: %w", g.name, f.name, err)
		}
		u.Nodes = append(u.Nodes, params...)
		u.Nodes = append(u.Nodes, Block{Owner: f.name, Text: f.body})
	}
	for _, e := range g.exports {
		d := Dispatch{
			Export:   e.Name,
			Prologue: e.Prologue,
			Epilogue: e.Epilogue,
			Branches: make([]Branch, len(frags)),
		}
		for i, f := range frags {
			d.Branches[i] = e.branch(f)
		}
		u.Nodes = append(u.Nodes, d)
	}
	for _, blk := range g.postscript {
		u.Nodes = append(u.Nodes, Block{Text: blk})
	}
	return u, nil
}

// AppendGenerate appends the composed source of selection to dst.
// On error dst is returned unmodified.
func (g *Generator) AppendGenerate(dst []byte, selection ...*Params) ([]byte, error) {
	u, err := g.Build(selection...)
	if err != nil {
		return dst, err
	}
	return u.AppendSource(dst), nil
}

// Generate returns the composed source of selection.
func (g *Generator) Generate(selection ...*Params) (string, error) {
	b, err := g.AppendGenerate(nil, selection...)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Select returns a parameterless selection for the named fragments.
func Select(names ...string) []*Params {
	sel := make([]*Params, len(names))
	for i, name := range names {
		sel[i] = NewParams(name)
	}
	return sel
}

var errNilGenerator = errors.New("nil generator")
