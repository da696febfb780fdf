package particle

import (
	"fmt"
	"math"

	"github.com/san-kum/corosph/internal/reorder"
	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Set is a body made of particles of equal rest density.
type Set struct {
	Dim           tensor.Dim
	Positions     []r3.Vec
	Velocities    []r3.Vec
	Accelerations []r3.Vec
	Volumes       []float64
	Pinned        []bool
	// IDs holds the original index of each particle; it follows every
	// permutation so results can be mapped back.
	IDs []int

	restDensity float64
}

// New allocates a set for the given rest positions, all at rest.
func New(dim tensor.Dim, positions []r3.Vec, volumes []float64, restDensity float64) *Set {
	if len(positions) != len(volumes) {
		panic(fmt.Sprintf("particle: %d positions but %d volumes", len(positions), len(volumes)))
	}
	n := len(positions)
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return &Set{
		Dim:           dim,
		Positions:     append([]r3.Vec(nil), positions...),
		Velocities:    make([]r3.Vec, n),
		Accelerations: make([]r3.Vec, n),
		Volumes:       append([]float64(nil), volumes...),
		Pinned:        make([]bool, n),
		IDs:           ids,
		restDensity:   restDensity,
	}
}

func (s *Set) Len() int              { return len(s.Positions) }
func (s *Set) RestDensity() float64  { return s.restDensity }
func (s *Set) Position(i int) r3.Vec { return s.Positions[i] }
func (s *Set) Volume(i int) float64  { return s.Volumes[i] }
func (s *Set) Mass(i int) float64    { return s.Volumes[i] * s.restDensity }

// AddAcceleration accumulates a into particle i's acceleration.
func (s *Set) AddAcceleration(i int, a r3.Vec) {
	s.Accelerations[i] = r3.Add(s.Accelerations[i], a)
}

func (s *Set) TotalMass() float64 {
	var m float64
	for i := range s.Volumes {
		m += s.Mass(i)
	}
	return m
}

func (s *Set) KineticEnergy() float64 {
	var e float64
	for i, v := range s.Velocities {
		e += 0.5 * s.Mass(i) * r3.Norm2(v)
	}
	return e
}

func (s *Set) ClearAccelerations() {
	for i := range s.Accelerations {
		s.Accelerations[i] = r3.Vec{}
	}
}

// AddUniformAcceleration adds a to every free particle.
func (s *Set) AddUniformAcceleration(a r3.Vec) {
	for i := range s.Accelerations {
		if !s.Pinned[i] {
			s.Accelerations[i] = r3.Add(s.Accelerations[i], a)
		}
	}
}

// Pin fixes every particle whose position satisfies fn and returns how
// many were pinned.
func (s *Set) Pin(fn func(p r3.Vec) bool) int {
	n := 0
	for i, p := range s.Positions {
		if fn(p) {
			s.Pinned[i] = true
			s.Velocities[i] = r3.Vec{}
			n++
		}
	}
	return n
}

func (s *Set) Centroid() r3.Vec {
	var c r3.Vec
	var m float64
	for i, p := range s.Positions {
		c = r3.Add(c, r3.Scale(s.Mass(i), p))
		m += s.Mass(i)
	}
	if m == 0 {
		return r3.Vec{}
	}
	return r3.Scale(1/m, c)
}

func (s *Set) Momentum() r3.Vec {
	var p r3.Vec
	for i, v := range s.Velocities {
		p = r3.Add(p, r3.Scale(s.Mass(i), v))
	}
	return p
}

// Bounds returns the axis-aligned box around all particles.
func (s *Set) Bounds() (lo, hi r3.Vec) {
	if s.Len() == 0 {
		return
	}
	lo, hi = s.Positions[0], s.Positions[0]
	for _, p := range s.Positions[1:] {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	return lo, hi
}

// Valid reports whether every position and velocity is finite.
func (s *Set) Valid() bool {
	finite := func(v r3.Vec) bool {
		return !math.IsNaN(v.X+v.Y+v.Z) && !math.IsInf(v.X+v.Y+v.Z, 0)
	}
	for i := range s.Positions {
		if !finite(s.Positions[i]) || !finite(s.Velocities[i]) {
			return false
		}
	}
	return true
}

// Permute moves particle i to perm[i] in every per-particle array.
func (s *Set) Permute(perm []int) {
	reorder.MustCheck(perm, s.Len())
	s.Positions = reorder.Apply(perm, s.Positions)
	s.Velocities = reorder.Apply(perm, s.Velocities)
	s.Accelerations = reorder.Apply(perm, s.Accelerations)
	s.Volumes = reorder.Apply(perm, s.Volumes)
	s.Pinned = reorder.Apply(perm, s.Pinned)
	s.IDs = reorder.Apply(perm, s.IDs)
}

// ByID returns positions indexed by original particle id.
func (s *Set) ByID() []r3.Vec {
	out := make([]r3.Vec, s.Len())
	for i, id := range s.IDs {
		out[id] = s.Positions[i]
	}
	return out
}
