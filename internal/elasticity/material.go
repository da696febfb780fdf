package elasticity

import (
	"fmt"

	"github.com/san-kum/corosph/internal/tensor"
)

// Material holds the isotropic stiffness coefficients: D0 and D1 fill the
// normal block of the stiffness matrix, D2 is the shear modulus.
type Material struct {
	D0, D1, D2 float64
}

// NewMaterial derives the coefficients from Young's modulus and Poisson's
// ratio. It panics if nu is outside (-1, 0.5).
func NewMaterial(young, nu float64) Material {
	if !(nu > -1 && nu < 0.5) {
		panic(fmt.Sprintf("elasticity: poisson ratio %g outside (-1, 0.5)", nu))
	}
	den := (1 + nu) * (1 - 2*nu)
	return Material{
		D0: young * (1 - nu) / den,
		D1: young * nu / den,
		D2: young * (1 - 2*nu) / (2 * den),
	}
}

// Strain splits a transposed deformation gradient into its normal and
// shear strain components, in the order of d.Layout(). The linear measure
// symmetrises G; the nonlinear one is the Green strain ½((G+I)(G+I)ᵀ - I).
func Strain(d tensor.Dim, g tensor.Mat3, nonlinear bool) (normal, shear []float64) {
	l := d.Layout()
	normal = make([]float64, len(l.Diagonal))
	shear = make([]float64, len(l.Shear))

	if nonlinear {
		j := g.Add(tensor.Identity())
		jjt := j.Mul(j.T())
		for k, sl := range l.Diagonal {
			normal[k] = (jjt[sl.Row][sl.Col] - 1) * 0.5
		}
		for k, sl := range l.Shear {
			shear[k] = jjt[sl.Col][sl.Row] * 0.5
		}
		return normal, shear
	}

	for k, sl := range l.Diagonal {
		normal[k] = g[sl.Row][sl.Col]
	}
	for k, sl := range l.Shear {
		shear[k] = (g[sl.Col][sl.Row] + g[sl.Row][sl.Col]) * 0.5
	}
	return normal, shear
}

// Stress applies the isotropic law to a strain split by Strain.
func (m Material) Stress(d tensor.Dim, normal, shear []float64) tensor.Sym {
	l := d.Layout()
	var s tensor.Sym
	for a, sa := range l.Diagonal {
		var v float64
		for b := range l.Diagonal {
			c := m.D1
			if a == b {
				c = m.D0
			}
			v += c * normal[b]
		}
		s.Set(sa.Row, sa.Col, v)
	}
	for k, sl := range l.Shear {
		s.Set(sl.Row, sl.Col, shear[k]*m.D2)
	}
	return s
}
