package glcompose

import (
	"regexp"
	"strconv"
	"strings"
)

// Params is the per use-site parameter set bound to one fragment by name.
// Values are stored verbatim as strings. Keys are case-insensitive since
// they are upper-cased when turned into macro names.
type Params struct {
	owner  string
	keys   []string
	values map[string]string
}

// NewParams returns an empty parameter set for the fragment named owner.
func NewParams(owner string) *Params {
	return &Params{owner: owner, values: make(map[string]string)}
}

// Owner returns the name of the fragment the parameters belong to.
func (p *Params) Owner() string { return p.owner }

// Len returns the number of parameters set.
func (p *Params) Len() int { return len(p.keys) }

// Keys returns the parameter keys in the order they were first set.
func (p *Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Set stores raw verbatim under key and returns p to allow chaining.
// Setting an existing key keeps its original position.
func (p *Params) Set(key, raw string) *Params {
	ukey := strings.ToUpper(key)
	if _, exists := p.values[ukey]; !exists {
		p.keys = append(p.keys, key)
	}
	p.values[ukey] = raw
	return p
}

// Raw returns the verbatim value of key.
func (p *Params) Raw(key string) (string, error) {
	v, ok := p.values[strings.ToUpper(key)]
	if !ok {
		return "", &ParameterMissingError{Owner: p.owner, Key: key}
	}
	return v, nil
}

// numeral matches signed decimal numerals with optional fraction and exponent.
var numeral = regexp.MustCompile(`[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`)

// Floats extracts every numeral in the raw value of key in order of appearance.
// Digits that are part of an identifier (the 2 in "vec2(1.5,2.0)") are not numerals.
// A value with no numerals yields an empty, non-nil result.
func (p *Params) Floats(key string) ([]float32, error) {
	raw, err := p.Raw(key)
	if err != nil {
		return nil, err
	}
	return ParseFloats(raw), nil
}

// Float returns the first numeral of key's value. It fails with a
// [MalformedNumericError] if the value has no numerals.
func (p *Params) Float(key string) (float32, error) {
	v, err := p.FloatsN(key, 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// FloatsN returns the first n numerals of key's value. It fails with a
// [MalformedNumericError] if the value has fewer than n numerals.
func (p *Params) FloatsN(key string, n int) ([]float32, error) {
	v, err := p.Floats(key)
	if err != nil {
		return nil, err
	}
	if len(v) < n {
		raw, _ := p.Raw(key)
		return nil, &MalformedNumericError{Owner: p.owner, Key: key, Raw: raw, Want: n, Got: len(v)}
	}
	return v[:n], nil
}

// MacroName returns the macro name of key for the generator named generatorName.
func (p *Params) MacroName(key, generatorName string) string {
	return MacroName(generatorName, p.owner, key)
}

// MacroName joins the three names with underscores and upper-cases the result,
// i.e: ("filter", "gamma", "c") -> "FILTER_GAMMA_C".
//
// The join is unambiguous only when generator and owner names contain no underscores,
// which [NewGenerator] enforces. MacroName itself does not check.
func MacroName(generatorName, ownerName, key string) string {
	return strings.ToUpper(generatorName + "_" + ownerName + "_" + key)
}

// ParseFloats returns all numerals found in raw in order of appearance.
func ParseFloats(raw string) []float32 {
	locs := numeral.FindAllStringIndex(raw, -1)
	result := make([]float32, 0, len(locs))
	for _, loc := range locs {
		start := loc[0]
		if start > 0 && isIdentByte(raw[start-1]) {
			if raw[start] != '-' && raw[start] != '+' {
				continue
			}
			start++ // Sign is a binary operator here, i.e: "1.0-2.0".
		}
		v, err := strconv.ParseFloat(raw[start:loc[1]], 32)
		if err != nil {
			continue // Out of range literals such as 1e99.
		}
		result = append(result, float32(v))
	}
	return result
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '.' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
