package kernel

import "github.com/san-kum/corosph/internal/tensor"

// CubicSpline is the piecewise cubic B-spline kernel written over the full
// support radius h (q = r/h, knot at q = 1/2).
type CubicSpline struct {
	Dim tensor.Dim
}

func (k CubicSpline) Name() string { return "cubic" }

func (k CubicSpline) Weight(r, h float64) float64 {
	checkArgs(r, h)
	q := r / h
	if q > 1 {
		return 0
	}
	n := normalizer(familyCubic, k.Dim, h)
	if q <= 0.5 {
		return n * (6*q*q*q - 6*q*q + 1)
	}
	t := 1 - q
	return 2 * n * t * t * t
}

func (k CubicSpline) GradientMagnitude(r, h float64) float64 {
	checkArgs(r, h)
	q := r / h
	if q > 1 {
		return 0
	}
	n := normalizer(familyCubic, k.Dim, h)
	if q <= 0.5 {
		return n * (18*q*q - 12*q) / h
	}
	t := 1 - q
	return -6 * n * t * t / h
}

// Spiky is the Desbrun-Gascuel kernel N(h-r)^3. Its gradient does not
// vanish at r = 0.
type Spiky struct {
	Dim tensor.Dim
}

func (k Spiky) Name() string { return "spiky" }

func (k Spiky) Weight(r, h float64) float64 {
	checkArgs(r, h)
	if r > h {
		return 0
	}
	t := h - r
	return normalizer(familySpiky, k.Dim, h) * t * t * t
}

func (k Spiky) GradientMagnitude(r, h float64) float64 {
	checkArgs(r, h)
	if r > h {
		return 0
	}
	t := h - r
	return -3 * normalizer(familySpiky, k.Dim, h) * t * t
}

// Poly6 is N(h²-r²)^3.
type Poly6 struct {
	Dim tensor.Dim
}

func (k Poly6) Name() string { return "poly6" }

func (k Poly6) Weight(r, h float64) float64 {
	checkArgs(r, h)
	if r > h {
		return 0
	}
	t := h*h - r*r
	return normalizer(familyPoly6, k.Dim, h) * t * t * t
}

func (k Poly6) GradientMagnitude(r, h float64) float64 {
	checkArgs(r, h)
	if r > h {
		return 0
	}
	t := h*h - r*r
	return -6 * normalizer(familyPoly6, k.Dim, h) * r * t * t
}
