package integrators

import (
	"github.com/san-kum/corosph/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// RK4 is the classic fourth-order Runge-Kutta scheme over positions and
// velocities. It evaluates forces four times per step.
type RK4 struct {
	x0, v0         []r3.Vec
	k1, k2, k3, k4 []r3.Vec // accelerations
	v1, v2, v3, v4 []r3.Vec // velocities
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.x0) != n {
		r.x0 = make([]r3.Vec, n)
		r.v0 = make([]r3.Vec, n)
		r.k1 = make([]r3.Vec, n)
		r.k2 = make([]r3.Vec, n)
		r.k3 = make([]r3.Vec, n)
		r.k4 = make([]r3.Vec, n)
		r.v1 = make([]r3.Vec, n)
		r.v2 = make([]r3.Vec, n)
		r.v3 = make([]r3.Vec, n)
		r.v4 = make([]r3.Vec, n)
	}
}

func (r *RK4) Step(s *particle.Set, forces Forces, dt float64) {
	n := s.Len()
	r.ensureScratch(n)
	copy(r.x0, s.Positions)
	copy(r.v0, s.Velocities)

	stage := func(k, v []r3.Vec) {
		forces(s)
		copy(k, s.Accelerations)
		copy(v, s.Velocities)
	}
	move := func(h float64, k, v []r3.Vec) {
		for i := 0; i < n; i++ {
			if s.Pinned[i] {
				continue
			}
			s.Positions[i] = r3.Add(r.x0[i], r3.Scale(h, v[i]))
			s.Velocities[i] = r3.Add(r.v0[i], r3.Scale(h, k[i]))
		}
	}

	stage(r.k1, r.v1)
	move(dt*0.5, r.k1, r.v1)
	stage(r.k2, r.v2)
	move(dt*0.5, r.k2, r.v2)
	stage(r.k3, r.v3)
	move(dt, r.k3, r.v3)
	stage(r.k4, r.v4)

	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		if s.Pinned[i] {
			s.Positions[i] = r.x0[i]
			s.Velocities[i] = r3.Vec{}
			continue
		}
		dx := r3.Add(r3.Add(r.v1[i], r3.Scale(2, r.v2[i])), r3.Add(r3.Scale(2, r.v3[i]), r.v4[i]))
		dv := r3.Add(r3.Add(r.k1[i], r3.Scale(2, r.k2[i])), r3.Add(r3.Scale(2, r.k3[i]), r.k4[i]))
		s.Positions[i] = r3.Add(r.x0[i], r3.Scale(dt6, dx))
		s.Velocities[i] = r3.Add(r.v0[i], r3.Scale(dt6, dv))
	}
}
