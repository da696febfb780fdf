package metrics

import "math"

// KineticEnergy is the mean kinetic energy over the run.
type KineticEnergy struct {
	name    string
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s Snapshot) {
	e.total += s.Body.KineticEnergy()
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.samples = 0
}

// StrainEnergy is the peak elastic energy stored in the body.
type StrainEnergy struct {
	name string
	peak float64
}

func NewStrainEnergy() *StrainEnergy {
	return &StrainEnergy{name: "strain_energy"}
}

func (e *StrainEnergy) Name() string { return e.name }

func (e *StrainEnergy) Observe(s Snapshot) {
	if s.Solver == nil {
		return
	}
	e.peak = math.Max(e.peak, s.Solver.StrainEnergy())
}

func (e *StrainEnergy) Value() float64 { return e.peak }

func (e *StrainEnergy) Reset() { e.peak = 0 }
