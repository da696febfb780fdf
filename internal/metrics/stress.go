package metrics

import (
	"math"

	"github.com/san-kum/corosph/internal/elasticity"
	"gonum.org/v1/gonum/spatial/r3"
)

// MaxVonMises returns the largest von Mises stress held by the solver.
func MaxVonMises(s *elasticity.Solver) float64 {
	var peak float64
	for _, st := range s.Stresses() {
		peak = math.Max(peak, st.VonMises(s.Dim()))
	}
	return peak
}

// MaxStress is the peak von Mises stress seen during the run.
type MaxStress struct {
	name string
	peak float64
}

func NewMaxStress() *MaxStress {
	return &MaxStress{name: "max_stress"}
}

func (m *MaxStress) Name() string { return m.name }

func (m *MaxStress) Observe(s Snapshot) {
	if s.Solver == nil {
		return
	}
	m.peak = math.Max(m.peak, MaxVonMises(s.Solver))
}

func (m *MaxStress) Value() float64 { return m.peak }

func (m *MaxStress) Reset() { m.peak = 0 }

// NetForce tracks the worst imbalance of the elastic forces, as
// |Σ m a| / Σ |m a|. Internal forces should cancel, so this stays near
// round-off.
type NetForce struct {
	name  string
	worst float64
}

func NewNetForce() *NetForce {
	return &NetForce{name: "net_force"}
}

func (n *NetForce) Name() string { return n.name }

func (n *NetForce) Observe(s Snapshot) {
	if s.ElasticForceNorm == 0 {
		return
	}
	n.worst = math.Max(n.worst, r3.Norm(s.ElasticForce)/s.ElasticForceNorm)
}

func (n *NetForce) Value() float64 { return n.worst }

func (n *NetForce) Reset() { n.worst = 0 }
