package sail

import (
	"fmt"
	"strconv"
	"strings"
)

// Shape is a geometric primitive variant. Values are the runtime tags
// stored in the object buffer and compared by the intersect dispatch.
type Shape uint8

const (
	_ Shape = iota
	ShapeCube
	ShapeSphere
	ShapeRectangle
	ShapeCone
	ShapeCylinder
	ShapeDisk
	ShapeHyperboloid
	ShapeParaboloid
	shapeEnd
)

var shapeNames = [...]string{
	ShapeCube:        "cube",
	ShapeSphere:      "sphere",
	ShapeRectangle:   "rectangle",
	ShapeCone:        "cone",
	ShapeCylinder:    "cylinder",
	ShapeDisk:        "disk",
	ShapeHyperboloid: "hyperboloid",
	ShapeParaboloid:  "paraboloid",
}

// String returns the fragment name of the shape, i.e: "sphere".
func (s Shape) String() string {
	if s == 0 || s >= shapeEnd {
		return "Shape(" + strconv.Itoa(int(s)) + ")"
	}
	return shapeNames[s]
}

// Tag returns the runtime tag value of the shape.
func (s Shape) Tag() int { return int(s) }

// Shapes returns all shape variants in tag order.
func Shapes() []Shape {
	s := make([]Shape, 0, shapeEnd-1)
	for v := ShapeCube; v < shapeEnd; v++ {
		s = append(s, v)
	}
	return s
}

// ParseShape returns the shape named name.
func ParseShape(name string) (Shape, error) {
	for v := ShapeCube; v < shapeEnd; v++ {
		if shapeNames[v] == name {
			return v, nil
		}
	}
	return 0, &UnknownVariantError{Role: "shape", Name: name}
}

// Material is a surface scattering variant.
type Material uint8

const (
	_ Material = iota
	MaterialMatte
	MaterialMirror
	MaterialMetal
	MaterialGlass
	materialEnd
)

var materialNames = [...]string{
	MaterialMatte:  "matte",
	MaterialMirror: "mirror",
	MaterialMetal:  "metal",
	MaterialGlass:  "glass",
}

func (m Material) String() string {
	if m == 0 || m >= materialEnd {
		return "Material(" + strconv.Itoa(int(m)) + ")"
	}
	return materialNames[m]
}

func (m Material) Tag() int { return int(m) }

// Materials returns all material variants in tag order.
func Materials() []Material {
	s := make([]Material, 0, materialEnd-1)
	for v := MaterialMatte; v < materialEnd; v++ {
		s = append(s, v)
	}
	return s
}

func ParseMaterial(name string) (Material, error) {
	for v := MaterialMatte; v < materialEnd; v++ {
		if materialNames[v] == name {
			return v, nil
		}
	}
	return 0, &UnknownVariantError{Role: "material", Name: name}
}

// Texture is a surface color variant. Tags other than the uniform color start at 5.
type Texture uint8

const (
	// TextureUniformColor reads a constant color from the texture parameter buffer.
	// It is handled ahead of the texture dispatch and has no fragment.
	TextureUniformColor Texture = 0
	TextureCheckerboard Texture = iota + 4
	TextureCornellBox
	TextureCheckerboard2
	TextureBilerp
	TextureMix
	TextureScale
	TextureUV
	textureEnd
)

var textureNames = [...]string{
	TextureUniformColor:  "color",
	TextureCheckerboard:  "checkerboard",
	TextureCornellBox:    "cornellbox",
	TextureCheckerboard2: "checkerboard2",
	TextureBilerp:        "bilerp",
	TextureMix:           "mixf",
	TextureScale:         "scale",
	TextureUV:            "uvf",
}

func (t Texture) String() string {
	if !t.valid() {
		return "Texture(" + strconv.Itoa(int(t)) + ")"
	}
	return textureNames[t]
}

func (t Texture) Tag() int { return int(t) }

// HasFragment reports whether the texture is evaluated by a texture fragment.
func (t Texture) HasFragment() bool { return t != TextureUniformColor && t.valid() }

func (t Texture) valid() bool {
	return t == TextureUniformColor || (t >= TextureCheckerboard && t < textureEnd)
}

// Textures returns all texture variants in tag order, uniform color first.
func Textures() []Texture {
	s := []Texture{TextureUniformColor}
	for v := TextureCheckerboard; v < textureEnd; v++ {
		s = append(s, v)
	}
	return s
}

func ParseTexture(name string) (Texture, error) {
	for _, v := range Textures() {
		if textureNames[v] == name {
			return v, nil
		}
	}
	return 0, &UnknownVariantError{Role: "texture", Name: name}
}

// defineName returns the tag constant of the texture in generated source.
func (t Texture) defineName() string {
	if t == TextureUniformColor {
		return "UNIFORM_COLOR"
	}
	return strings.ToUpper(t.String())
}

// Filter is a post-process pixel filter variant. Filters are selected
// once per render program so they carry no runtime tag.
type Filter uint8

const (
	FilterNone Filter = iota
	FilterGamma
	FilterBox
	FilterGaussian
	FilterMitchell
	FilterSinc
	FilterTriangle
	filterEnd
)

var filterNames = [...]string{
	FilterNone:     "none",
	FilterGamma:    "gamma",
	FilterBox:      "box",
	FilterGaussian: "gaussian",
	FilterMitchell: "mitchell",
	FilterSinc:     "sinc",
	FilterTriangle: "triangle",
}

func (f Filter) String() string {
	if f >= filterEnd {
		return "Filter(" + strconv.Itoa(int(f)) + ")"
	}
	return filterNames[f]
}

// Filters returns all filter variants.
func Filters() []Filter {
	s := make([]Filter, 0, filterEnd)
	for v := FilterNone; v < filterEnd; v++ {
		s = append(s, v)
	}
	return s
}

func ParseFilter(name string) (Filter, error) {
	for v := FilterNone; v < filterEnd; v++ {
		if filterNames[v] == name {
			return v, nil
		}
	}
	return 0, &UnknownVariantError{Role: "filter", Name: name}
}

// DefaultParams returns commonly used parameters for the filter.
// The engine never applies these implicitly.
func (f Filter) DefaultParams() []Param {
	switch f {
	case FilterGamma:
		return []Param{{"c", "2.2"}}
	case FilterBox:
		return []Param{{"r", "vec2(1.0,1.0)"}}
	case FilterGaussian:
		return []Param{{"r", "vec2(2.0,2.0)"}, {"alpha", "2.0"}}
	case FilterMitchell:
		return []Param{{"r", "vec2(2.0,2.0)"}, {"b", "0.3333333"}, {"c", "0.3333333"}}
	case FilterSinc:
		return []Param{{"r", "vec2(4.0,4.0)"}, {"tau", "3.0"}}
	case FilterTriangle:
		return []Param{{"r", "vec2(2.0,2.0)"}}
	}
	return nil
}

// Integrator is a light transport variant.
type Integrator uint8

const (
	IntegratorPathTrace Integrator = iota
	integratorEnd
)

var integratorNames = [...]string{
	IntegratorPathTrace: "pathtrace",
}

func (in Integrator) String() string {
	if in >= integratorEnd {
		return "Integrator(" + strconv.Itoa(int(in)) + ")"
	}
	return integratorNames[in]
}

// Integrators returns all integrator variants.
func Integrators() []Integrator {
	s := make([]Integrator, 0, integratorEnd)
	for v := IntegratorPathTrace; v < integratorEnd; v++ {
		s = append(s, v)
	}
	return s
}

func ParseIntegrator(name string) (Integrator, error) {
	for v := IntegratorPathTrace; v < integratorEnd; v++ {
		if integratorNames[v] == name {
			return v, nil
		}
	}
	return 0, &UnknownVariantError{Role: "integrator", Name: name}
}

// Param is a single raw fragment parameter.
type Param struct {
	Key   string
	Value string
}

// UnknownVariantError is returned when a name from outside the program does not
// name a variant of Role.
type UnknownVariantError struct {
	Role string
	Name string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("unknown %s variant %q", e.Role, e.Name)
}
