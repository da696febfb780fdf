package reorder

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/curve"
	"gonum.org/v1/gonum/spatial/r3"
)

const maxCells = 1 << 30

type curvePos interface {
	Pos(v []int) int
}

// Hilbert returns the permutation that sorts points along a Hilbert curve
// laid over a grid of the given cell size. Points sharing a cell keep
// their relative order.
func Hilbert(points []r3.Vec, dim tensor.Dim, cell float64) ([]int, error) {
	if cell <= 0 {
		return nil, fmt.Errorf("reorder: cell size must be positive, got %g", cell)
	}
	n := len(points)
	if n == 0 {
		return nil, nil
	}

	lo := points[0]
	for _, p := range points[1:] {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
	}

	coords := make([][3]int, n)
	maxCoord := 0
	for i, p := range points {
		f := [3]float64{(p.X - lo.X) / cell, (p.Y - lo.Y) / cell, (p.Z - lo.Z) / cell}
		for k := 0; k < int(dim); k++ {
			if f[k] >= maxCells {
				return nil, fmt.Errorf("reorder: %g cells along axis %d exceeds %d", f[k], k, maxCells)
			}
			coords[i][k] = int(f[k])
			maxCoord = max(maxCoord, coords[i][k])
		}
	}

	order := 1
	for (1 << order) <= maxCoord {
		order++
	}

	var hc curvePos
	var err error
	switch dim {
	case tensor.Dim2:
		hc, err = curve.NewHilbert2D(order)
	case tensor.Dim3:
		hc, err = curve.NewHilbert3D(order)
	default:
		return nil, fmt.Errorf("reorder: unsupported dimension %v", dim)
	}
	if err != nil {
		return nil, fmt.Errorf("reorder: grid too fine for hilbert curve: %w", err)
	}

	keys := make([]int, n)
	v := make([]int, dim)
	for i, c := range coords {
		copy(v, c[:dim])
		keys[i] = hc.Pos(v)
	}

	byKey := Identity(n)
	sort.SliceStable(byKey, func(a, b int) bool {
		return keys[byKey[a]] < keys[byKey[b]]
	})
	// byKey lists old indices in curve order, so it is the inverse map.
	return Inverse(byKey), nil
}
