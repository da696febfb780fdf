package metrics

import (
	"github.com/san-kum/corosph/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// Stability is the fraction of samples in which no particle moved faster
// than threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap Snapshot) {
	s.samples++
	if MaxSpeed(snap.Body) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

func MaxSpeed(b *particle.Set) float64 {
	var peak float64
	for _, v := range b.Velocities {
		if n := r3.Norm(v); n > peak {
			peak = n
		}
	}
	return peak
}
