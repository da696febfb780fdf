package reorder

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/san-kum/corosph/internal/tensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name string
		perm []int
		n    int
		ok   bool
	}{
		{"identity", []int{0, 1, 2}, 3, true},
		{"shuffle", []int{2, 0, 1}, 3, true},
		{"short", []int{0, 1}, 3, false},
		{"duplicate", []int{0, 0, 1}, 3, false},
		{"out of range", []int{0, 1, 3}, 3, false},
		{"negative", []int{-1, 1, 2}, 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.perm, tt.n)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, ErrNotPermutation))
			}
		})
	}
	assert.Panics(t, func() { MustCheck([]int{1, 1}, 2) })
}

func TestApplyInverse(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	src := make([]float64, 50)
	for i := range src {
		src[i] = rng.Float64()
	}
	perm := rng.Perm(len(src))

	moved := Apply(perm, src)
	for old, nw := range perm {
		assert.Equal(t, src[old], moved[nw])
	}
	assert.Equal(t, src, Apply(Inverse(perm), moved))
	assert.Equal(t, Identity(len(perm)), Compose(perm, Inverse(perm)))
}

func TestCompose(t *testing.T) {
	a := []int{1, 2, 0}
	b := []int{2, 1, 0}
	src := []string{"x", "y", "z"}
	assert.Equal(t, Apply(b, Apply(a, src)), Apply(Compose(a, b), src))
}

func TestHilbertIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	pts := make([]r3.Vec, 500)
	for i := range pts {
		pts[i] = r3.Vec{X: rng.Float64(), Y: rng.Float64(), Z: rng.Float64()}
	}
	for _, d := range []tensor.Dim{tensor.Dim2, tensor.Dim3} {
		perm, err := Hilbert(pts, d, 0.05)
		require.NoError(t, err)
		assert.NoError(t, Check(perm, len(pts)))
	}
}

func TestHilbertLocality(t *testing.T) {
	// A 2D row-major lattice: after reordering, consecutive particles are
	// always lattice neighbors, which row-major order violates at row ends.
	const n = 8
	var pts []r3.Vec
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			pts = append(pts, r3.Vec{X: float64(i), Y: float64(j)})
		}
	}
	perm, err := Hilbert(pts, tensor.Dim2, 1)
	require.NoError(t, err)

	sorted := Apply(perm, pts)
	for k := 1; k < len(sorted); k++ {
		assert.InDelta(t, 1.0, r3.Norm(r3.Sub(sorted[k], sorted[k-1])), 1e-12)
	}
}

func TestHilbertErrors(t *testing.T) {
	_, err := Hilbert([]r3.Vec{{}}, tensor.Dim3, 0)
	assert.Error(t, err)

	perm, err := Hilbert(nil, tensor.Dim3, 1)
	assert.NoError(t, err)
	assert.Empty(t, perm)

	_, err = Hilbert([]r3.Vec{{}, {X: 1e30}}, tensor.Dim3, 1e-9)
	assert.Error(t, err)
}
