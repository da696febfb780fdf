package kernel

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrUnknown is returned by New for an unregistered kernel name.
var ErrUnknown = errors.New("kernel: unknown kernel")

// Kernel is a radially symmetric smoothing function with compact support.
// Both methods are zero for r > h and panic for r < 0 or h <= 0.
type Kernel interface {
	Name() string
	// Weight returns W(r, h).
	Weight(r, h float64) float64
	// GradientMagnitude returns dW/dr at r.
	GradientMagnitude(r, h float64) float64
}

type family int

const (
	familyCubic family = iota
	familySpiky
	familyPoly6
)

// normalizers holds the constant that makes each family integrate to one
// over its support, per dimension.
var normalizers = map[family]map[tensor.Dim]func(h float64) float64{
	familyCubic: {
		tensor.Dim2: func(h float64) float64 { return 40 / (7 * math.Pi * h * h) },
		tensor.Dim3: func(h float64) float64 { return 8 / (math.Pi * h * h * h) },
	},
	familySpiky: {
		tensor.Dim2: func(h float64) float64 { return 10 / (math.Pi * math.Pow(h, 5)) },
		tensor.Dim3: func(h float64) float64 { return 15 / (math.Pi * math.Pow(h, 6)) },
	},
	familyPoly6: {
		tensor.Dim2: func(h float64) float64 { return 4 / (math.Pi * math.Pow(h, 8)) },
		tensor.Dim3: func(h float64) float64 { return 315 / (64 * math.Pi * math.Pow(h, 9)) },
	},
}

func normalizer(f family, d tensor.Dim, h float64) float64 {
	n, ok := normalizers[f][d]
	if !ok {
		panic(fmt.Sprintf("kernel: unsupported dimension %v", d))
	}
	return n(h)
}

func checkArgs(r, h float64) {
	if !(r >= 0) {
		panic(fmt.Sprintf("kernel: negative distance %g", r))
	}
	if !(h > 0) {
		panic(fmt.Sprintf("kernel: non-positive support radius %g", h))
	}
}

var registry = map[string]func(tensor.Dim) Kernel{
	"cubic": func(d tensor.Dim) Kernel { return CubicSpline{Dim: d} },
	"spiky": func(d tensor.Dim) Kernel { return Spiky{Dim: d} },
	"poly6": func(d tensor.Dim) Kernel { return Poly6{Dim: d} },
}

// New returns the kernel registered under name for dimension d.
func New(name string, d tensor.Dim) (Kernel, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	if !d.Valid() {
		return nil, fmt.Errorf("kernel: unsupported dimension %v", d)
	}
	return fn(d), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PointWeight evaluates k at the distance between pi and pj.
func PointWeight(k Kernel, pi, pj r3.Vec, h float64) float64 {
	return k.Weight(r3.Norm(r3.Sub(pi, pj)), h)
}

// PointGradient returns the gradient of W with respect to pi, i.e.
// dW/dr along (pi - pj)/|pi - pj|. Coincident points give the zero vector.
func PointGradient(k Kernel, pi, pj r3.Vec, h float64) r3.Vec {
	d := r3.Sub(pi, pj)
	r := r3.Norm(d)
	if r == 0 {
		return r3.Vec{}
	}
	return r3.Scale(k.GradientMagnitude(r, h)/r, d)
}
