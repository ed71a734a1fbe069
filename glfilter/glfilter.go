// Package glfilter computes reconstruction filter weight tables on the host
// and emits them as parameters of the windowed pixel filter fragment.
package glfilter

import (
	"strconv"

	math "github.com/chewxy/math32"
	"github.com/soypat/geometry/ms2"
	"github.com/soypat/sail/glcompose"
)

// DefaultWidth is the number of samples along each axis of the filter window.
const DefaultWidth = 4

// Macro and variable names referenced by the windowed filter source.
const (
	MacroWidth  = "FILTER_WINDOW_WIDTH"
	MacroLength = "FILTER_WINDOW_LENGTH"
	MacroRadius = "FILTER_WINDOW_RADIUS"
	TableName   = "windowWeightTable"
)

// Weight evaluates a filter at offset p from the pixel center.
type Weight func(p ms2.Vec) float32

// Kernel reads the filter parameters and returns its weight function for window radius r.
type Kernel func(params *glcompose.Params, r ms2.Vec) (Weight, error)

// Table samples weight at the cell centers of a width*width window of radius r.
// The result is in row-major order, row index along Y.
func Table(width int, r ms2.Vec, weight Weight) []float32 {
	tbl := make([]float32, 0, width*width)
	w := float32(width)
	for i := 0; i < width; i++ {
		for j := 0; j < width; j++ {
			p := ms2.Vec{
				X: (float32(j) + 0.5) * r.X / w,
				Y: (float32(i) + 0.5) * r.Y / w,
			}
			tbl = append(tbl, weight(p))
		}
	}
	return tbl
}

// Window returns a parameter emitter for the windowed filter fragment. The emitter
// requires an "r" parameter holding the two component window radius (i.e: "vec2(2.0,2.0)")
// plus whatever parameters kernel reads. The emitted names are not namespaced
// by generator name since the filter source refers to them directly.
func Window(width int, kernel Kernel) glcompose.ParamFunc {
	return func(params *glcompose.Params, _ string) ([]glcompose.Node, error) {
		rv, err := params.FloatsN("r", 2)
		if err != nil {
			return nil, err
		}
		rawR, _ := params.Raw("r")
		r := ms2.Vec{X: rv[0], Y: rv[1]}
		if !(r.X > 0 && r.Y > 0) || math.IsInf(r.X, 0) || math.IsInf(r.Y, 0) {
			return nil, invalidParam(params, "r", "window radius components must be positive and finite")
		}
		weight, err := kernel(params, r)
		if err != nil {
			return nil, err
		}
		tbl := Table(width, r, weight)
		for _, v := range tbl {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &glcompose.InvalidParameterError{Owner: params.Owner(), Key: "r", Raw: rawR,
					Reason: "filter weights are not finite"}
			}
		}
		return []glcompose.Node{
			glcompose.Define{Name: MacroWidth, Value: strconv.Itoa(width)},
			glcompose.Define{Name: MacroLength, Value: strconv.Itoa(width * width)},
			glcompose.Define{Name: MacroRadius, Value: rawR},
			glcompose.FloatArray{Name: TableName, Length: MacroLength, Values: tbl},
		}, nil
	}
}

// BoxKernel weighs all samples in the window equally.
func BoxKernel(*glcompose.Params, ms2.Vec) (Weight, error) {
	return func(ms2.Vec) float32 { return 1 }, nil
}

// GaussianKernel reads the "alpha" falloff parameter.
func GaussianKernel(params *glcompose.Params, r ms2.Vec) (Weight, error) {
	alpha, err := params.Float("alpha")
	if err != nil {
		return nil, err
	}
	expx := math.Exp(-alpha * r.X * r.X)
	expy := math.Exp(-alpha * r.Y * r.Y)
	return func(p ms2.Vec) float32 {
		return Gaussian(p.X, expx, alpha) * Gaussian(p.Y, expy, alpha)
	}, nil
}

// MitchellKernel reads the "b" and "c" Mitchell-Netravali parameters.
func MitchellKernel(params *glcompose.Params, r ms2.Vec) (Weight, error) {
	b, err := params.Float("b")
	if err != nil {
		return nil, err
	}
	c, err := params.Float("c")
	if err != nil {
		return nil, err
	}
	return func(p ms2.Vec) float32 {
		return Mitchell(p.X/r.X, b, c) * Mitchell(p.Y/r.Y, b, c)
	}, nil
}

// SincKernel reads the "tau" Lanczos window parameter.
func SincKernel(params *glcompose.Params, r ms2.Vec) (Weight, error) {
	tau, err := params.Float("tau")
	if err != nil {
		return nil, err
	}
	if tau == 0 {
		return nil, invalidParam(params, "tau", "must be non-zero")
	}
	return func(p ms2.Vec) float32 {
		return WindowedSinc(p.X, r.X, tau) * WindowedSinc(p.Y, r.Y, tau)
	}, nil
}

// TriangleKernel weighs samples linearly decreasing towards the window edge.
func TriangleKernel(_ *glcompose.Params, r ms2.Vec) (Weight, error) {
	return func(p ms2.Vec) float32 {
		return Triangle(p.X, r.X) * Triangle(p.Y, r.Y)
	}, nil
}

// Gaussian is the gaussian falloff at distance d shifted down by expv so it reaches zero at the window edge.
func Gaussian(d, expv, alpha float32) float32 {
	return math.Max(0, math.Exp(-alpha*d*d)-expv)
}

// Mitchell is the one dimensional Mitchell-Netravali filter over [-1, 1].
func Mitchell(x, b, c float32) float32 {
	x = math.Abs(2 * x)
	if x > 1 {
		return ((-b-6*c)*x*x*x + (6*b+30*c)*x*x +
			(-12*b-48*c)*x + (8*b + 24*c)) * (1.0 / 6.0)
	}
	return ((12-9*b-6*c)*x*x*x +
		(-18+12*b+6*c)*x*x + (6 - 2*b)) * (1.0 / 6.0)
}

// Sinc is the normalized sinc function.
func Sinc(x float32) float32 {
	x = math.Abs(x)
	if x < 1e-5 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

// WindowedSinc is the Lanczos windowed sinc, zero beyond radius.
func WindowedSinc(x, radius, tau float32) float32 {
	x = math.Abs(x)
	if x > radius {
		return 0
	}
	return Sinc(x) * Sinc(x/tau)
}

// Triangle is the tent function of the given radius.
func Triangle(d, radius float32) float32 {
	return math.Max(0, radius-d)
}

func invalidParam(params *glcompose.Params, key, reason string) error {
	raw, _ := params.Raw(key)
	return &glcompose.InvalidParameterError{Owner: params.Owner(), Key: key, Raw: raw, Reason: reason}
}
