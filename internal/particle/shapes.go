package particle

import (
	"math"

	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Block fills an nx×ny×nz lattice (nz is ignored in 2D) with particles of
// volume spacing^dim, anchored at the origin.
func Block(dim tensor.Dim, spacing float64, nx, ny, nz int, restDensity float64) *Set {
	if dim == tensor.Dim2 {
		nz = 1
	}
	vol := math.Pow(spacing, float64(dim))
	positions := make([]r3.Vec, 0, nx*ny*nz)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			for k := 0; k < nz; k++ {
				positions = append(positions, r3.Vec{
					X: float64(i) * spacing,
					Y: float64(j) * spacing,
					Z: float64(k) * spacing,
				})
			}
		}
	}
	volumes := make([]float64, len(positions))
	for i := range volumes {
		volumes[i] = vol
	}
	return New(dim, positions, volumes, restDensity)
}

// Ring places n particles evenly on a circle in the XY plane. Every
// particle sees the same neighborhood.
func Ring(n int, radius, volume, restDensity float64) *Set {
	positions := make([]r3.Vec, n)
	volumes := make([]float64, n)
	for i := range positions {
		a := 2 * math.Pi * float64(i) / float64(n)
		positions[i] = r3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
		volumes[i] = volume
	}
	return New(tensor.Dim2, positions, volumes, restDensity)
}
