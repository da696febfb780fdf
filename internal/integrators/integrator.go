package integrators

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/corosph/internal/particle"
)

var ErrUnknown = errors.New("integrators: unknown integrator")

// Forces overwrites the set's accelerations with those at its current
// positions and velocities.
type Forces func(s *particle.Set)

// Integrator advances a particle set by one time step. Pinned particles
// keep their position and zero velocity.
type Integrator interface {
	Name() string
	Step(s *particle.Set, forces Forces, dt float64)
}

var registry = map[string]func() Integrator{
	"euler":      func() Integrator { return NewEuler() },
	"symplectic": func() Integrator { return NewSymplecticEuler() },
	"leapfrog":   func() Integrator { return NewLeapfrog() },
	"rk4":        func() Integrator { return NewRK4() },
}

func New(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
