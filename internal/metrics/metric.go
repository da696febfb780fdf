package metrics

import (
	"github.com/san-kum/corosph/internal/elasticity"
	"github.com/san-kum/corosph/internal/particle"
	"gonum.org/v1/gonum/spatial/r3"
)

// Snapshot is the state handed to metrics after every step.
type Snapshot struct {
	Step   int
	Time   float64
	Body   *particle.Set
	Solver *elasticity.Solver

	// ElasticForce is Σ m_i a_i over the elastic term of the last force
	// evaluation; ElasticForceNorm is Σ |m_i a_i| over the same term.
	ElasticForce     r3.Vec
	ElasticForceNorm float64
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

// Standard returns the metrics recorded for every run. track is the
// original index of the particle followed by TipDisplacement.
func Standard(track int) []Metric {
	return []Metric{
		NewKineticEnergy(),
		NewStrainEnergy(),
		NewMaxStress(),
		NewNetForce(),
		NewTipDisplacement(track),
	}
}
