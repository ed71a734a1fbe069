package glcompose

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParamFunc emits the parameter nodes for one selected fragment in place of
// the default macro definitions. generatorName is the name of the [Generator]
// performing the emission.
type ParamFunc func(p *Params, generatorName string) ([]Node, error)

// Fragment is a named, immutable unit of GLSL source. Fragments are created
// once and may be registered in any number of Generators.
type Fragment struct {
	name   string
	body   string
	params ParamFunc
}

// NewFragment returns a fragment with the default parameter emission: one
// #define per parameter, see [Params.MacroName].
func NewFragment(name, body string) Fragment {
	return Fragment{name: name, body: body}
}

// NewParamFragment returns a fragment whose parameter nodes are produced by fn.
func NewParamFragment(name, body string, fn ParamFunc) Fragment {
	return Fragment{name: name, body: body, params: fn}
}

func (f Fragment) Name() string { return f.name }
func (f Fragment) Body() string { return f.body }

// CapitalName returns the name with its first character upper-cased and
// the rest untouched. It is used to build type and function identifiers, i.e: "sphere" -> "Sphere".
func (f Fragment) CapitalName() string {
	r, sz := utf8.DecodeRuneInString(f.name)
	if sz == 0 || r == utf8.RuneError {
		return f.name
	}
	return string(unicode.ToUpper(r)) + f.name[sz:]
}

// DefineName returns the upper-cased name, the tag constant compared in dispatch branches.
func (f Fragment) DefineName() string { return strings.ToUpper(f.name) }

// Equal reports whether the fragment's name is exactly name.
func (f Fragment) Equal(name string) bool { return f.name == name }

// ParamNodes returns the parameter nodes for p as emitted by a generator named generatorName.
func (f Fragment) ParamNodes(p *Params, generatorName string) ([]Node, error) {
	if f.params != nil {
		return f.params(p, generatorName)
	}
	nodes := make([]Node, 0, p.Len())
	for _, key := range p.keys {
		if !isIdentifier(key) {
			return nil, &InvalidParameterError{Owner: p.owner, Key: key, Raw: p.values[strings.ToUpper(key)],
				Reason: "key must contain only letters, digits and underscores"}
		}
		nodes = append(nodes, Define{
			Name:  p.MacroName(key, generatorName),
			Value: p.values[strings.ToUpper(key)],
		})
	}
	return nodes, nil
}

var errEmptyName = errors.New("empty name")

// validateName checks the identifier constraint placed on generator and fragment names
// so that macro names derived with [MacroName] do not collide.
func validateName(name string) error {
	if name == "" {
		return errEmptyName
	} else if strings.IndexByte(name, '_') >= 0 {
		return fmt.Errorf("name %q must not contain underscores", name)
	}
	for _, c := range name {
		if !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return fmt.Errorf("name %q must contain only letters and digits", name)
		}
	}
	return nil
}

// isIdentifier reports whether s is non-empty and made of letters, digits and underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c != '_' && !unicode.IsLetter(c) && !unicode.IsDigit(c) {
			return false
		}
	}
	return true
}
