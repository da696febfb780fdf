package sim

import (
	"fmt"
	"time"

	"github.com/san-kum/corosph/internal/metrics"
	"gonum.org/v1/gonum/spatial/r3"
)

type Observer interface {
	OnStep(s metrics.Snapshot)
}

type Config struct {
	Dt            float64
	Duration      float64
	SupportRadius float64
	Gravity       r3.Vec

	// ReorderEvery sorts particles along a Hilbert curve every n steps;
	// 0 disables reordering.
	ReorderEvery int
	// RecordEvery stores a Frame every n steps; 0 keeps only the first.
	RecordEvery int
	// Track is the original index of the particle reported as the tip,
	// or -1.
	Track int

	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1e-4,
		Duration:      0.5,
		SupportRadius: 0.2,
		Gravity:       r3.Vec{Y: -9.81},
		RecordEvery:   10,
		Track:         -1,
		ValidateState: true,
	}
}

func (c Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrParameterBounds, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ErrParameterBounds, c.Duration)
	}
	if c.SupportRadius <= 0 {
		return fmt.Errorf("%w: support radius must be positive, got %g", ErrParameterBounds, c.SupportRadius)
	}
	if c.ReorderEvery < 0 || c.RecordEvery < 0 {
		return fmt.Errorf("%w: step intervals must not be negative", ErrParameterBounds)
	}
	return nil
}

// Frame is one recorded sample of a run.
type Frame struct {
	Step          int     `csv:"step" json:"step"`
	Time          float64 `csv:"time" json:"time"`
	KineticEnergy float64 `csv:"kinetic_energy" json:"kinetic_energy"`
	StrainEnergy  float64 `csv:"strain_energy" json:"strain_energy"`
	MaxStress     float64 `csv:"max_stress" json:"max_stress"`
	CentroidX     float64 `csv:"centroid_x" json:"centroid_x"`
	CentroidY     float64 `csv:"centroid_y" json:"centroid_y"`
	CentroidZ     float64 `csv:"centroid_z" json:"centroid_z"`
	TipX          float64 `csv:"tip_x" json:"tip_x"`
	TipY          float64 `csv:"tip_y" json:"tip_y"`
	TipZ          float64 `csv:"tip_z" json:"tip_z"`
}

// Series extracts one named column of frames. It returns nil for unknown
// names.
func Series(frames []Frame, name string) []float64 {
	pick, ok := frameFields[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(frames))
	for i := range frames {
		out[i] = pick(&frames[i])
	}
	return out
}

var frameFields = map[string]func(*Frame) float64{
	"time":           func(f *Frame) float64 { return f.Time },
	"kinetic_energy": func(f *Frame) float64 { return f.KineticEnergy },
	"strain_energy":  func(f *Frame) float64 { return f.StrainEnergy },
	"max_stress":     func(f *Frame) float64 { return f.MaxStress },
	"centroid_x":     func(f *Frame) float64 { return f.CentroidX },
	"centroid_y":     func(f *Frame) float64 { return f.CentroidY },
	"centroid_z":     func(f *Frame) float64 { return f.CentroidZ },
	"tip_x":          func(f *Frame) float64 { return f.TipX },
	"tip_y":          func(f *Frame) float64 { return f.TipY },
	"tip_z":          func(f *Frame) float64 { return f.TipZ },
}

// SeriesNames lists the names accepted by Series.
func SeriesNames() []string {
	return []string{
		"time", "kinetic_energy", "strain_energy", "max_stress",
		"centroid_x", "centroid_y", "centroid_z", "tip_x", "tip_y", "tip_z",
	}
}

// Particle is the final state of one particle, keyed by original index.
type Particle struct {
	ID       int     `csv:"id" json:"id"`
	X        float64 `csv:"x" json:"x"`
	Y        float64 `csv:"y" json:"y"`
	Z        float64 `csv:"z" json:"z"`
	VX       float64 `csv:"vx" json:"vx"`
	VY       float64 `csv:"vy" json:"vy"`
	VZ       float64 `csv:"vz" json:"vz"`
	VonMises float64 `csv:"von_mises" json:"von_mises"`
	Pinned   bool    `csv:"pinned" json:"pinned"`
}

type Result struct {
	Frames     []Frame
	Particles  []Particle
	Metrics    map[string]float64
	StepsTaken int
	Reorders   int
	Elapsed    time.Duration
}
