package tensor

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Epsilon is the float64 machine epsilon.
const Epsilon = 0x1p-52

// MaxRotationIterations bounds ExtractRotation when called by the solver.
const MaxRotationIterations = 20

// ExtractRotation approximates the rotation factor of the polar
// decomposition of a, starting from guess. Each iteration applies the
// incremental rotation that best aligns the columns of the current
// estimate with those of a (Müller et al. 2016). It stops once the
// increment drops below eps or after maxIter iterations, whichever comes
// first; the last estimate is returned either way.
func ExtractRotation(d Dim, a, guess Mat3, eps float64, maxIter int) Mat3 {
	if d == Dim2 {
		return extractRotation2(a, guess, eps, maxIter)
	}
	return extractRotation3(a, guess, eps, maxIter)
}

func extractRotation3(a, r Mat3, eps float64, maxIter int) Mat3 {
	for it := 0; it < maxIter; it++ {
		var axis r3.Vec
		var denom float64
		for c := 0; c < 3; c++ {
			rc, ac := r.Col(c), a.Col(c)
			axis = r3.Add(axis, r3.Cross(rc, ac))
			denom += r3.Dot(rc, ac)
		}
		omega := r3.Scale(1/(math.Abs(denom)+eps), axis)
		angle := r3.Norm(omega)
		if angle <= eps {
			break
		}
		r = AxisAngle(r3.Scale(1/angle, omega), angle).Mul(r)
	}
	return r
}

func extractRotation2(a, r Mat3, eps float64, maxIter int) Mat3 {
	for it := 0; it < maxIter; it++ {
		var axis, denom float64
		for c := 0; c < 2; c++ {
			axis += r[0][c]*a[1][c] - r[1][c]*a[0][c]
			denom += r[0][c]*a[0][c] + r[1][c]*a[1][c]
		}
		angle := axis / (math.Abs(denom) + eps)
		if math.Abs(angle) <= eps {
			break
		}
		r = Rotation2(angle).Mul(r)
	}
	return r
}
