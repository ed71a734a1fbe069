// Package sail assembles the GLSL programs of a GPU path tracer from the
// shape, material, texture and filter variants a scene uses.
package sail

import (
	"strconv"
	"strings"

	"github.com/soypat/sail/glcompose"
	"github.com/soypat/sail/glcompose/glsllib"
	"github.com/soypat/sail/glfilter"
)

// Widths in texels of one object and one texture parameter record in the
// host packed data textures.
const (
	ObjectsLength   = 17
	TexParamsLength = 15
)

// Generator names. Each is the first segment of the parameter macros its fragments receive.
const (
	GenConst    = "const"
	GenUtil     = "util"
	GenTexture  = "texture"
	GenMaterial = "material"
	GenShape    = "shape"
	GenShade    = "shade"
	GenTrace    = "trace"
	GenFilter   = "filter"
	GenMain     = "main"
)

// Process-wide generators. They are built once at init and never mutated.
var (
	constGen = must(glcompose.NewGenerator(glcompose.GeneratorConfig{
		Name:       GenConst,
		Preamble:   []string{bufferDefines(), glsllib.Source("const/define"), tagDefines()},
		Postscript: glsllib.Sources("const", "struct"),
	}))
	utilGen = must(glcompose.NewGenerator(glcompose.GeneratorConfig{
		Name:      GenUtil,
		Fragments: glsllib.Fragments("util", "random", "sampler", "texhelper", "utility"),
	}))
	textureGen = must(glcompose.NewGenerator(glcompose.GeneratorConfig{
		Name:     GenTexture,
		Preamble: glsllib.Sources("texture", "noise"),
		Fragments: glsllib.Fragments("texture", "checkerboard", "checkerboard2", "cornellbox",
			"bilerp", "mixf", "scale", "uvf"),
		Exports: []glcompose.Export{surfaceColorExport},
	}))
	materialGen = must(glcompose.NewGenerator(glcompose.GeneratorConfig{
		Name:      GenMaterial,
		Preamble:  glsllib.Sources("material", "ssutility", "fresnel", "microfacet", "bsdf"),
		Fragments: glsllib.Fragments("material", "metal", "matte", "mirror", "glass"),
		Exports:   []glcompose.Export{materialExport},
	}))
	shapeGen = must(glcompose.NewGenerator(glcompose.GeneratorConfig{
		Name: GenShape,
		// Every shape source is a fragment.
		Fragments:  glsllib.Fragments("shape", must(glsllib.List("shape"))...),
		Exports:    []glcompose.Export{intersectExport, sampleExport},
		Postscript: []string{testShadowSrc},
	}))
	shadeGen = must(glcompose.NewGenerator(glcompose.GeneratorConfig{
		Name:     GenShade,
		Preamble: glsllib.Sources("shade", "shade"),
	}))
	traceGen = must(glcompose.NewGenerator(glcompose.GeneratorConfig{
		Name:      GenTrace,
		Fragments: glsllib.Fragments("trace", must(glsllib.List("trace"))...),
	}))
	filterGen = must(glcompose.NewGenerator(glcompose.GeneratorConfig{
		Name:      GenFilter,
		Fragments: filterFragments(),
	}))
	mainGen = must(glcompose.NewGenerator(glcompose.GeneratorConfig{
		Name:      GenMain,
		Fragments: glsllib.Fragments("main", "fsrender", "vsrender", "fstrace", "vstrace"),
	}))
)

// Generators returns the process-wide generators in trace pipeline order followed by the filter generator.
func Generators() []*glcompose.Generator {
	return []*glcompose.Generator{constGen, utilGen, textureGen, materialGen, shapeGen, shadeGen, traceGen, filterGen, mainGen}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func filterFragments() []glcompose.Fragment {
	window := glsllib.Source("filter/window")
	kernels := []struct {
		f Filter
		k glfilter.Kernel
	}{
		{FilterBox, glfilter.BoxKernel},
		{FilterGaussian, glfilter.GaussianKernel},
		{FilterMitchell, glfilter.MitchellKernel},
		{FilterSinc, glfilter.SincKernel},
		{FilterTriangle, glfilter.TriangleKernel},
	}
	frags := glsllib.Fragments("filter", FilterNone.String(), FilterGamma.String())
	for _, kn := range kernels {
		frags = append(frags, glcompose.NewParamFragment(kn.f.String(), window, glfilter.Window(glfilter.DefaultWidth, kn.k)))
	}
	return frags
}

func bufferDefines() string {
	var b []byte
	b = glcompose.AppendDefineDecl(b, "OBJECTS_LENGTH", strconv.Itoa(ObjectsLength)+".0")
	b = glcompose.AppendDefineDecl(b, "TEX_PARAMS_LENGTH", strconv.Itoa(TexParamsLength)+".0")
	return strings.TrimSuffix(string(b), "\n")
}

// tagDefines emits the runtime tag constants of every dispatched domain.
// Constants are the upper-cased fragment names compared by the dispatch branches.
func tagDefines() string {
	var b []byte
	for _, s := range Shapes() {
		b = glcompose.AppendDefineDecl(b, strings.ToUpper(s.String()), strconv.Itoa(s.Tag()))
	}
	for _, m := range Materials() {
		b = glcompose.AppendDefineDecl(b, strings.ToUpper(m.String()), strconv.Itoa(m.Tag()))
	}
	for _, t := range Textures() {
		b = glcompose.AppendDefineDecl(b, t.defineName(), strconv.Itoa(t.Tag()))
	}
	return strings.TrimSuffix(string(b), "\n")
}

var materialExport = glcompose.Export{
	Name: "material",
	Prologue: `vec3 material(Intersect ins,vec3 wo,out vec3 wi,out vec3 f){
    f = BLACK;
    float u1 = random( vec3( 12.9898, 78.233, 151.7182 ), ins.seed );
    float u2 = random( vec3( 63.7264, 10.873, 623.6736 ), ins.seed );
    vec3 fpdf;if(false){}`,
	Epilogue: `return fpdf;}`,
	Tag:      "ins.matCategory",
	Body: func(f glcompose.Fragment) string {
		return "fpdf = " + f.Name() + "(vec2(u1,u2),ins.matIndex,ins.sc,wo,wi,ins.into);\n" +
			"        f = " + f.Name() + "_f(ins.matIndex,ins.sc,wo,wi,ins.into);"
	},
}

var surfaceColorExport = glcompose.Export{
	Name: "getSurfaceColor",
	// The uniform color check ahead of the chain stands in for the false opening branch.
	Prologue: `vec3 getSurfaceColor(vec3 hit,vec2 uv,float texIndex){
    int texCategory = readInt(texParams,vec2(0.0,texIndex),TEX_PARAMS_LENGTH);
    if(texCategory==UNIFORM_COLOR) return readVec3(texParams,vec2(1.0,texIndex),TEX_PARAMS_LENGTH);`,
	Epilogue: `return BLACK;}`,
	Tag:      "texCategory",
	Body: func(f glcompose.Fragment) string {
		return "return " + f.Name() + "(hit,uv,texIndex);"
	},
}

var intersectExport = glcompose.Export{
	Name: "intersect",
	Prologue: `Intersect intersectObjects(Ray ray){
    Intersect ins;
    ins.d = MAX_DISTANCE;
    for(int i=0;i<ln+n;i++){
        Intersect tmp;
        tmp.d = MAX_DISTANCE;
        int category = int(texture(objects,vec2(0.0,float(i)/float(ln+n-1))).r);
        if(false) {}`,
	Epilogue: `if(tmp.d < ins.d) ins = tmp;}

ins.matCategory = readInt(texParams,vec2(0.0,ins.matIndex),TEX_PARAMS_LENGTH);
ins.into = dot(ins.normal,ray.dir) < -EPSILON;
if(!ins.into) {
    ins.normal = -ins.normal;
}
return ins;}`,
	Tag: "category",
	Body: func(f glcompose.Fragment) string {
		name, capName := f.Name(), f.CapitalName()
		return capName + " " + name + " = parse" + capName + "(float(i)/float(ln+n-1));\n" +
			"    tmp = intersect" + capName + "(ray," + name + ");\n" +
			"    vec3 n = (" + name + ".reverseNormal?-1.0:1.0)*tmp.normal;\n" +
			"    bool faceObj = dot(n,ray.dir)<-EPSILON;\n" +
			"    tmp.emission = faceObj?tmp.emission:BLACK;\n" +
			"    tmp.index = i;"
	},
}

var sampleExport = glcompose.Export{
	Name: "sample",
	Prologue: `
    vec3 sampleGeometry(Intersect ins,int i,out vec3 fpdf){
    fpdf = BLACK;
    int category = int(texture(objects,vec2(0.0,float(i)/float(ln+n-1))).r);
    vec3 result = BLACK;if(false){}
`,
	Epilogue: `return result;}`,
	Tag:      "category",
	Body: func(f glcompose.Fragment) string {
		name, capName := f.Name(), f.CapitalName()
		return "float pdf;\n" +
			"        " + capName + " " + name + " = parse" + capName + "(float(i)/float(ln+n-1));\n" +
			"        result = sample" + capName + "(ins.seed," + name + ",pdf);\n" +
			"        vec3 normal = normalFor" + capName + "(result," + name + ");\n" +
			"        fpdf = " + name + ".emission*max(0.0,dot(normal,ins.hit-result))/pdf;"
	},
}

const testShadowSrc = `
bool testShadow(Ray ray){
    Intersect ins = intersectObjects(ray);
    if(ins.index>=ln&&ins.d>EPSILON&&ins.d<1.0)
        return true;
    return false;
}
`
