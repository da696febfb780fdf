package tensor

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Sym is a symmetric 3x3 tensor stored as (xx, yy, zz, xy, xz, yz). A 2D
// tensor leaves zz, xz and yz at zero; Packed returns the compact form.
type Sym [6]float64

var symIndex = [3][3]int{
	{0, 3, 4},
	{3, 1, 5},
	{4, 5, 2},
}

func (s Sym) At(i, j int) float64 { return s[symIndex[i][j]] }

func (s *Sym) Set(i, j int, v float64) { s[symIndex[i][j]] = v }

// MulVec returns s·v.
func (s Sym) MulVec(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: s[0]*v.X + s[3]*v.Y + s[4]*v.Z,
		Y: s[3]*v.X + s[1]*v.Y + s[5]*v.Z,
		Z: s[4]*v.X + s[5]*v.Y + s[2]*v.Z,
	}
}

// Packed returns the independent components in the order given by
// d.Layout(): 3 values in 2D, 6 in 3D.
func (s Sym) Packed(d Dim) []float64 {
	slots := d.Layout().Slots()
	out := make([]float64, len(slots))
	for k, sl := range slots {
		out[k] = s.At(sl.Row, sl.Col)
	}
	return out
}

// Unpack is the inverse of Packed.
func Unpack(d Dim, packed []float64) Sym {
	var s Sym
	for k, sl := range d.Layout().Slots() {
		s.Set(sl.Row, sl.Col, packed[k])
	}
	return s
}

func (s Sym) Mat() Mat3 {
	var m Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			m[i][j] = s.At(i, j)
		}
	}
	return m
}

// Norm is the Frobenius norm of the full (unpacked) tensor.
func (s Sym) Norm() float64 {
	return s.Mat().Norm()
}

// VonMises returns the von Mises equivalent stress. 2D tensors are
// treated as plane stress.
func (s Sym) VonMises(d Dim) float64 {
	xx, yy, zz := s[0], s[1], s[2]
	xy, xz, yz := s[3], s[4], s[5]
	if d == Dim2 {
		return math.Sqrt(xx*xx - xx*yy + yy*yy + 3*xy*xy)
	}
	return math.Sqrt(0.5*((xx-yy)*(xx-yy)+(yy-zz)*(yy-zz)+(zz-xx)*(zz-xx)) + 3*(xy*xy+xz*xz+yz*yz))
}
