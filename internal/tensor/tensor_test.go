package tensor

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

func randomUnit(rng *rand.Rand) r3.Vec {
	v := r3.Vec{X: rng.NormFloat64(), Y: rng.NormFloat64(), Z: rng.NormFloat64()}
	return r3.Unit(v)
}

// polarSVD is an independent reference: for A = UΣVᵀ with det A > 0 the
// rotation factor is UVᵀ.
func polarSVD(t *testing.T, a Mat3) Mat3 {
	t.Helper()
	var svd mat.SVD
	require.True(t, svd.Factorize(mat.NewDense(3, 3, a.Slice()), mat.SVDFull))
	var u, v, r mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	r.Mul(&u, v.T())
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = r.At(i, j)
		}
	}
	return out
}

func TestLayout(t *testing.T) {
	tests := []struct {
		dim        Dim
		components int
		shear      []Slot
	}{
		{Dim2, 3, []Slot{{0, 1}}},
		{Dim3, 6, []Slot{{0, 1}, {0, 2}, {1, 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.dim.String(), func(t *testing.T) {
			l := tt.dim.Layout()
			assert.Equal(t, tt.components, l.Components)
			assert.Equal(t, tt.shear, l.Shear)
			assert.Len(t, l.Slots(), tt.components)
		})
	}
	assert.Panics(t, func() { Dim(4).Layout() })
}

func TestParseDim(t *testing.T) {
	d, err := ParseDim("2d")
	require.NoError(t, err)
	assert.Equal(t, Dim2, d)

	d, err = ParseDim("3")
	require.NoError(t, err)
	assert.Equal(t, Dim3, d)

	_, err = ParseDim("4d")
	assert.Error(t, err)
}

func TestSymMulVec(t *testing.T) {
	// x, y, z, w, a, b packing from the 3D layout.
	s := Unpack(Dim3, []float64{1, 2, 3, 4, 5, 6})
	v := r3.Vec{X: 0.5, Y: -1, Z: 2}
	got := s.MulVec(v)
	want := r3.Vec{
		X: 1*0.5 + 4*-1 + 5*2,
		Y: 4*0.5 + 2*-1 + 6*2,
		Z: 5*0.5 + 6*-1 + 3*2,
	}
	assert.InDelta(t, want.X, got.X, 1e-15)
	assert.InDelta(t, want.Y, got.Y, 1e-15)
	assert.InDelta(t, want.Z, got.Z, 1e-15)

	assert.Equal(t, s.Mat().MulVec(v), got)

	s2 := Unpack(Dim2, []float64{2, 3, 7})
	got2 := s2.MulVec(r3.Vec{X: 1, Y: 2})
	assert.Equal(t, r3.Vec{X: 2*1 + 7*2, Y: 7*1 + 3*2}, got2)
	assert.Equal(t, []float64{2, 3, 7}, s2.Packed(Dim2))
}

func TestVonMises(t *testing.T) {
	uniaxial := Unpack(Dim3, []float64{5, 0, 0, 0, 0, 0})
	assert.InDelta(t, 5.0, uniaxial.VonMises(Dim3), 1e-12)

	hydrostatic := Unpack(Dim3, []float64{3, 3, 3, 0, 0, 0})
	assert.InDelta(t, 0.0, hydrostatic.VonMises(Dim3), 1e-12)

	shear := Unpack(Dim2, []float64{0, 0, 1})
	assert.InDelta(t, math.Sqrt(3), shear.VonMises(Dim2), 1e-12)
}

func TestMatOps(t *testing.T) {
	a := Mat3{{1, 2, 3}, {4, 5, 6}, {7, 8, 10}}
	assert.Equal(t, a, a.Mul(Identity()))
	assert.Equal(t, a, a.T().T())
	assert.InDelta(t, -3.0, a.Det(), 1e-12)

	v := r3.Vec{X: 1, Y: -1, Z: 2}
	assert.Equal(t, a.T().MulVec(v), a.MulTransVec(v))

	o := Outer(2, r3.Vec{X: 1, Y: 2, Z: 3}, r3.Vec{X: 4, Y: 5, Z: 6})
	assert.Equal(t, 2*3*5.0, o[2][1])
	assert.Equal(t, 2*1*6.0, o[0][2])
}

func fromGonum(m mat.Matrix) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m.At(i, j)
		}
	}
	return out
}

func randomMat(rng *rand.Rand) Mat3 {
	var m Mat3
	for i := range m {
		for j := range m[i] {
			m[i][j] = rng.NormFloat64()
		}
	}
	return m
}

func TestMatOpsMatchGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 20; i++ {
		a, b := randomMat(rng), randomMat(rng)
		ga, gb := r3.NewMat(a.Slice()), r3.NewMat(b.Slice())
		v := randomUnit(rng)

		sum, prod := r3.NewMat(nil), r3.NewMat(nil)
		sum.Add(ga, gb)
		prod.Mul(ga, gb)
		assert.Less(t, a.Add(b).MaxAbsDiff(fromGonum(sum)), 1e-12)
		assert.Less(t, a.Mul(b).MaxAbsDiff(fromGonum(prod)), 1e-12)
		assert.Equal(t, a.T(), fromGonum(ga.T()))
		assert.InDelta(t, ga.Det(), a.Det(), 1e-12)

		mv, gmv := a.MulVec(v), ga.MulVec(v)
		assert.InDelta(t, 0, r3.Norm(r3.Sub(mv, gmv)), 1e-12)
		tv, gtv := a.MulTransVec(v), ga.MulVecTrans(v)
		assert.InDelta(t, 0, r3.Norm(r3.Sub(tv, gtv)), 1e-12)

		x, y := randomUnit(rng), randomUnit(rng)
		outer := r3.NewMat(nil)
		outer.Outer(0.7, x, y)
		assert.Less(t, Outer(0.7, x, y).MaxAbsDiff(fromGonum(outer)), 1e-15)
	}
}

// The correlation benchmarks mirror one particle's pass in the rotation
// phase: a weighted sum of outer products over its neighbors.
func neighborOffsets(n int) ([]r3.Vec, []r3.Vec) {
	rng := rand.New(rand.NewSource(5))
	cur, rest := make([]r3.Vec, n), make([]r3.Vec, n)
	for i := range cur {
		cur[i], rest[i] = randomUnit(rng), randomUnit(rng)
	}
	return cur, rest
}

func BenchmarkCorrelationMat3(b *testing.B) {
	cur, rest := neighborOffsets(26)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		var a Mat3
		for j := range cur {
			a = a.Add(Outer(0.5, cur[j], rest[j]))
		}
		if a.Det() == 0 {
			b.Fatal("singular")
		}
	}
}

func BenchmarkCorrelationGonum(b *testing.B) {
	cur, rest := neighborOffsets(26)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		// Scratch is per particle: the phases run particles concurrently.
		a, term := r3.NewMat(nil), r3.NewMat(nil)
		for j := range cur {
			term.Outer(0.5, cur[j], rest[j])
			a.Add(a, term)
		}
		if a.Det() == 0 {
			b.Fatal("singular")
		}
	}
}

func TestAxisAngleMatchesGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		axis := randomUnit(rng)
		angle := rng.Float64() * math.Pi
		r := AxisAngle(axis, angle)
		v := r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
		want := r3.Rotate(v, angle, axis)
		got := r.MulVec(v)
		assert.InDelta(t, want.X, got.X, 1e-12)
		assert.InDelta(t, want.Y, got.Y, 1e-12)
		assert.InDelta(t, want.Z, got.Z, 1e-12)
		assert.InDelta(t, 1.0, r.Det(), 1e-12)
	}
}

func TestExtractRotationPureRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		q := AxisAngle(randomUnit(rng), rng.Float64()*2.5)
		// Isotropic stretch keeps the polar factor equal to q.
		a := q.Scale(0.5 + rng.Float64())
		r := ExtractRotation(Dim3, a, Identity(), Epsilon, 200)
		assert.Less(t, r.MaxAbsDiff(q), 1e-10)
	}
}

func TestExtractRotationAgainstSVD(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	checked := 0
	for checked < 100 {
		var a Mat3
		for i := range a {
			for j := range a[i] {
				a[i][j] = 0.3 * (2*rng.Float64() - 1)
			}
		}
		a = Identity().Add(a)
		a = AxisAngle(randomUnit(rng), rng.Float64()*2).Mul(a)
		if a.Det() <= 0.1 {
			continue
		}
		checked++

		want := polarSVD(t, a)
		got := ExtractRotation(Dim3, a, Identity(), Epsilon, 200)
		assert.Less(t, got.MaxAbsDiff(want), 1e-9)
		assert.InDelta(t, 1.0, got.Det(), 1e-12)
	}
}

func TestExtractRotationWarmStart(t *testing.T) {
	q := AxisAngle(r3.Unit(r3.Vec{X: 1, Y: 1, Z: 1}), 0.8)
	a := q.Mul(Mat3{{1.2, 0.1, 0}, {0.1, 0.9, 0.05}, {0, 0.05, 1.1}})

	r := Identity()
	for step := 0; step < 5; step++ {
		r = ExtractRotation(Dim3, a, r, Epsilon, MaxRotationIterations)
	}
	exact := ExtractRotation(Dim3, a, Identity(), Epsilon, 500)
	assert.Less(t, r.MaxAbsDiff(exact), 1e-12)

	// Starting at the answer terminates immediately.
	again := ExtractRotation(Dim3, a, exact, Epsilon, 1)
	assert.Less(t, again.MaxAbsDiff(exact), 1e-12)
}

func TestExtractRotation2D(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
	}{
		{"small", 0.1},
		{"quarter", math.Pi / 2},
		{"negative", -1.2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Rotation2(tt.angle)
			a := q.Mul(Mat3{{1.3, 0.2, 0}, {0.2, 0.8, 0}, {0, 0, 1}})
			r := ExtractRotation(Dim2, a, Identity(), Epsilon, 200)

			// R^T A must be the symmetric stretch.
			s := r.T().Mul(a)
			assert.InDelta(t, s[0][1], s[1][0], 1e-12)
			assert.Less(t, r.MaxAbsDiff(q), 1e-10)
			assert.InDelta(t, 1.0, r.Det(), 1e-12)
			assert.Equal(t, 1.0, r[2][2])
			assert.Equal(t, 0.0, r[0][2])
		})
	}
}

func TestExtractRotationBudget(t *testing.T) {
	// A zero correlation matrix gives a zero increment: the guess is kept.
	guess := Rotation2(0.3)
	r := ExtractRotation(Dim2, Mat3{}, guess, Epsilon, MaxRotationIterations)
	assert.Equal(t, guess, r)

	r3d := ExtractRotation(Dim3, Mat3{}, Identity(), Epsilon, MaxRotationIterations)
	assert.Equal(t, Identity(), r3d)
}
