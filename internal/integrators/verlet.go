package integrators

import (
	"github.com/san-kum/corosph/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// Leapfrog is the kick-drift-kick scheme. The accelerations left by the
// closing kick are reused by the next step's opening kick, so each step
// evaluates forces once after the first.
type Leapfrog struct {
	primed bool
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Name() string { return "leapfrog" }

// Reset makes the next step evaluate forces before the opening kick.
func (l *Leapfrog) Reset() { l.primed = false }

func (l *Leapfrog) Step(s *particle.Set, forces Forces, dt float64) {
	if !l.primed {
		forces(s)
		l.primed = true
	}
	halfDt := 0.5 * dt
	l.kick(s, halfDt)
	for i := range s.Positions {
		if !s.Pinned[i] {
			s.Positions[i] = r3.Add(s.Positions[i], r3.Scale(dt, s.Velocities[i]))
		}
	}
	forces(s)
	l.kick(s, halfDt)
}

func (l *Leapfrog) kick(s *particle.Set, dt float64) {
	for i := range s.Velocities {
		if s.Pinned[i] {
			s.Velocities[i] = r3.Vec{}
			continue
		}
		s.Velocities[i] = r3.Add(s.Velocities[i], r3.Scale(dt, s.Accelerations[i]))
	}
}
