package integrators

import (
	"github.com/san-kum/corosph/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// Euler is the explicit forward Euler scheme. It gains energy on
// oscillatory problems and is kept as a baseline.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(s *particle.Set, forces Forces, dt float64) {
	forces(s)
	for i := range s.Positions {
		if s.Pinned[i] {
			s.Velocities[i] = r3.Vec{}
			continue
		}
		s.Positions[i] = r3.Add(s.Positions[i], r3.Scale(dt, s.Velocities[i]))
		s.Velocities[i] = r3.Add(s.Velocities[i], r3.Scale(dt, s.Accelerations[i]))
	}
}

// SymplecticEuler updates velocities first and moves particles with the
// new velocity.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (e *SymplecticEuler) Name() string { return "symplectic" }

func (e *SymplecticEuler) Step(s *particle.Set, forces Forces, dt float64) {
	forces(s)
	for i := range s.Positions {
		if s.Pinned[i] {
			s.Velocities[i] = r3.Vec{}
			continue
		}
		s.Velocities[i] = r3.Add(s.Velocities[i], r3.Scale(dt, s.Accelerations[i]))
		s.Positions[i] = r3.Add(s.Positions[i], r3.Scale(dt, s.Velocities[i]))
	}
}
