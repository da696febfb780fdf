package tensor

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mat3 is a row-major 3x3 matrix held by value. 2D code uses the top-left
// 2x2 block.
type Mat3 [3][3]float64

func Identity() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// Outer returns a⊗b scaled by alpha, i.e. alpha·a·bᵀ.
func Outer(alpha float64, a, b r3.Vec) Mat3 {
	av := [3]float64{a.X, a.Y, a.Z}
	bv := [3]float64{b.X, b.Y, b.Z}
	var m Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = alpha * av[i] * bv[j]
		}
	}
	return m
}

func (m Mat3) Add(o Mat3) Mat3 {
	for i := range m {
		for j := range m[i] {
			m[i][j] += o[i][j]
		}
	}
	return m
}

func (m Mat3) Sub(o Mat3) Mat3 {
	for i := range m {
		for j := range m[i] {
			m[i][j] -= o[i][j]
		}
	}
	return m
}

func (m Mat3) Scale(f float64) Mat3 {
	for i := range m {
		for j := range m[i] {
			m[i][j] *= f
		}
	}
	return m
}

func (m Mat3) T() Mat3 {
	var t Mat3
	for i := range m {
		for j := range m[i] {
			t[j][i] = m[i][j]
		}
	}
	return t
}

func (m Mat3) Mul(o Mat3) Mat3 {
	var p Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			p[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return p
}

func (m Mat3) MulVec(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// MulTransVec returns mᵀ·v. For a rotation this is the inverse transform.
func (m Mat3) MulTransVec(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0][0]*v.X + m[1][0]*v.Y + m[2][0]*v.Z,
		Y: m[0][1]*v.X + m[1][1]*v.Y + m[2][1]*v.Z,
		Z: m[0][2]*v.X + m[1][2]*v.Y + m[2][2]*v.Z,
	}
}

func (m Mat3) Col(j int) r3.Vec {
	return r3.Vec{X: m[0][j], Y: m[1][j], Z: m[2][j]}
}

func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Norm is the Frobenius norm.
func (m Mat3) Norm() float64 {
	var s float64
	for i := range m {
		for j := range m[i] {
			s += m[i][j] * m[i][j]
		}
	}
	return math.Sqrt(s)
}

// MaxAbsDiff returns the largest entry-wise difference between m and o.
func (m Mat3) MaxAbsDiff(o Mat3) float64 {
	var d float64
	for i := range m {
		for j := range m[i] {
			d = math.Max(d, math.Abs(m[i][j]-o[i][j]))
		}
	}
	return d
}

// Slice returns the entries in row-major order, suitable for mat.NewDense
// or r3.NewMat.
func (m Mat3) Slice() []float64 {
	return []float64{
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	}
}

// AxisAngle returns the rotation of angle radians about the unit vector
// axis (Rodrigues' formula).
func AxisAngle(axis r3.Vec, angle float64) Mat3 {
	s, c := math.Sincos(angle)
	t := 1 - c
	x, y, z := axis.X, axis.Y, axis.Z
	return Mat3{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}

// Rotation2 is the planar rotation by angle, embedded in a 3x3 matrix.
func Rotation2(angle float64) Mat3 {
	s, c := math.Sincos(angle)
	return Mat3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}
