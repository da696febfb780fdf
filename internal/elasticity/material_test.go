package elasticity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/corosph/internal/tensor"
)

func TestNewMaterial(t *testing.T) {
	tests := []struct {
		name       string
		young, nu  float64
		d0, d1, d2 float64
	}{
		{"nu zero", 2, 0, 2, 0, 1},
		{"nu quarter", 1, 0.25, 1.2, 0.4, 0.4},
		{"auxetic", 1, -0.5, 1.5, -0.5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMaterial(tt.young, tt.nu)
			if math.Abs(m.D0-tt.d0) > 1e-12 || math.Abs(m.D1-tt.d1) > 1e-12 || math.Abs(m.D2-tt.d2) > 1e-12 {
				t.Errorf("expected (%g, %g, %g), got (%g, %g, %g)", tt.d0, tt.d1, tt.d2, m.D0, m.D1, m.D2)
			}
		})
	}
}

func TestNewMaterialPanics(t *testing.T) {
	for _, nu := range []float64{0.5, -1, 0.7, math.NaN()} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for nu=%g", nu)
				}
			}()
			NewMaterial(1, nu)
		}()
	}
	NewMaterial(1, -0.99)
	NewMaterial(1, 0.49)
}

func TestLinearStress3D(t *testing.T) {
	m := NewMaterial(100, 0.3)
	var g tensor.Mat3
	g[0][0] = 0.01
	g[0][1] = 0.02

	normal, shear := Strain(tensor.Dim3, g, false)
	s := m.Stress(tensor.Dim3, normal, shear)

	want := map[[2]int]float64{
		{0, 0}: m.D0 * 0.01,
		{1, 1}: m.D1 * 0.01,
		{2, 2}: m.D1 * 0.01,
		{0, 1}: 0.01 * m.D2,
		{0, 2}: 0,
		{1, 2}: 0,
	}
	for ij, w := range want {
		if got := s.At(ij[0], ij[1]); math.Abs(got-w) > 1e-12 {
			t.Errorf("sigma[%d][%d]: expected %g, got %g", ij[0], ij[1], w, got)
		}
	}
}

func TestLinearStress2D(t *testing.T) {
	m := NewMaterial(100, 0.3)
	var g tensor.Mat3
	g[0][0] = 0.01
	g[1][1] = -0.02
	g[1][0] = 0.004

	normal, shear := Strain(tensor.Dim2, g, false)
	if len(normal) != 2 || len(shear) != 1 {
		t.Fatalf("expected 2 normal and 1 shear component, got %d and %d", len(normal), len(shear))
	}
	s := m.Stress(tensor.Dim2, normal, shear)
	if math.Abs(s.At(0, 0)-(m.D0*0.01-m.D1*0.02)) > 1e-12 {
		t.Errorf("unexpected sigma_xx %g", s.At(0, 0))
	}
	if math.Abs(s.At(1, 1)-(m.D1*0.01-m.D0*0.02)) > 1e-12 {
		t.Errorf("unexpected sigma_yy %g", s.At(1, 1))
	}
	if math.Abs(s.At(0, 1)-0.002*m.D2) > 1e-12 {
		t.Errorf("unexpected sigma_xy %g", s.At(0, 1))
	}
	if s.At(2, 2) != 0 || s.At(0, 2) != 0 || s.At(1, 2) != 0 {
		t.Errorf("2D stress should leave the z slots empty: %v", s)
	}
}

func TestNonlinearMatchesLinearForSmallStrain(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	m := NewMaterial(1e5, 0.3)
	for _, d := range []tensor.Dim{tensor.Dim2, tensor.Dim3} {
		var g tensor.Mat3
		for r := 0; r < int(d); r++ {
			for c := 0; c < int(d); c++ {
				g[r][c] = 1e-6 * (rng.Float64()*2 - 1)
			}
		}
		n1, s1 := Strain(d, g, false)
		n2, s2 := Strain(d, g, true)
		lin := m.Stress(d, n1, s1)
		non := m.Stress(d, n2, s2)
		if diff := lin.Mat().MaxAbsDiff(non.Mat()); diff > 1e-4*lin.Norm() {
			t.Errorf("%v: nonlinear stress deviates by %g from linear (norm %g)", d, diff, lin.Norm())
		}
	}
}

func TestGreenStrainOfRotationIsZero(t *testing.T) {
	// G = R - I for a pure rotation gives (G+I)(G+I)ᵀ = I.
	r := tensor.AxisAngle(r3Unit(1, 2, 3), 0.8)
	g := r.Sub(tensor.Identity())
	normal, shear := Strain(tensor.Dim3, g, true)
	for _, v := range append(normal, shear...) {
		if math.Abs(v) > 1e-14 {
			t.Fatalf("expected zero Green strain, got normal=%v shear=%v", normal, shear)
		}
	}
}
