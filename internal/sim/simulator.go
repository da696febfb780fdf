package sim

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/corosph/internal/elasticity"
	"github.com/san-kum/corosph/internal/integrators"
	"github.com/san-kum/corosph/internal/metrics"
	"github.com/san-kum/corosph/internal/particle"
	"github.com/san-kum/corosph/internal/reorder"
	"gonum.org/v1/gonum/spatial/r3"
)

type Simulator struct {
	body       *particle.Set
	solver     *elasticity.Solver
	integrator integrators.Integrator
	metrics    []metrics.Metric
	observers  []Observer
	log        *slog.Logger

	step         int
	time         float64
	reorders     int
	elasticForce r3.Vec
	elasticNorm  float64
}

func New(body *particle.Set, solver *elasticity.Solver, integrator integrators.Integrator) *Simulator {
	return &Simulator{
		body:       body,
		solver:     solver,
		integrator: integrator,
		metrics:    make([]metrics.Metric, 0),
		observers:  make([]Observer, 0),
		log:        slog.Default(),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l *slog.Logger)   { s.log = l }

func (s *Simulator) Body() *particle.Set        { return s.body }
func (s *Simulator) Solver() *elasticity.Solver { return s.solver }
func (s *Simulator) Steps() int                 { return s.step }
func (s *Simulator) Time() float64              { return s.time }

// Snapshot describes the current state for metrics and observers.
func (s *Simulator) Snapshot() metrics.Snapshot {
	return metrics.Snapshot{
		Step:             s.step,
		Time:             s.time,
		Body:             s.body,
		Solver:           s.solver,
		ElasticForce:     s.elasticForce,
		ElasticForceNorm: s.elasticNorm,
	}
}

// forces evaluates elastic and gravitational accelerations. The elastic
// part is totalled before gravity is added so NetForce sees it alone.
func (s *Simulator) forces(cfg Config) integrators.Forces {
	return func(b *particle.Set) {
		b.ClearAccelerations()
		s.solver.Solve(cfg.SupportRadius, b)

		var net r3.Vec
		var norm float64
		for i, a := range b.Accelerations {
			f := r3.Scale(b.Mass(i), a)
			net = r3.Add(net, f)
			norm += r3.Norm(f)
		}
		s.elasticForce, s.elasticNorm = net, norm

		b.AddUniformAcceleration(cfg.Gravity)
	}
}

// Step advances the body by cfg.Dt and notifies metrics and observers.
func (s *Simulator) Step(cfg Config) error {
	s.integrator.Step(s.body, s.forces(cfg), cfg.Dt)
	s.step++
	s.time += cfg.Dt

	if cfg.ValidateState && !s.body.Valid() {
		return &SimError{Step: s.step, Time: s.time, Wrapped: ErrInvalidState}
	}

	if cfg.ReorderEvery > 0 && s.step%cfg.ReorderEvery == 0 {
		if err := s.Reorder(cfg.SupportRadius); err != nil {
			return &SimError{Step: s.step, Time: s.time, Wrapped: err}
		}
	}

	snap := s.Snapshot()
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	for _, obs := range s.observers {
		obs.OnStep(snap)
	}
	return nil
}

// Reorder sorts the particles along a Hilbert curve with the given cell
// size, moving body and solver state together.
func (s *Simulator) Reorder(cell float64) error {
	perm, err := reorder.Hilbert(s.body.Positions, s.body.Dim, cell)
	if err != nil {
		return err
	}
	s.body.Permute(perm)
	if s.solver.Len() == s.body.Len() {
		s.solver.ApplyPermutation(perm)
	}
	s.reorders++
	s.log.Debug("particles reordered", "step", s.step, "particles", len(perm))
	return nil
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Frames:  make([]Frame, 0, 1+steps/max(cfg.RecordEvery, 1)),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result.Frames = append(result.Frames, s.Frame(cfg.Track))

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			runErr = ctx.Err()
		default:
		}
		if runErr != nil {
			break
		}

		if err := s.Step(cfg); err != nil {
			runErr = err
			break
		}
		result.StepsTaken++

		if cfg.RecordEvery > 0 && s.step%cfg.RecordEvery == 0 {
			result.Frames = append(result.Frames, s.Frame(cfg.Track))
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	result.Particles = s.Particles()
	result.Reorders = s.reorders
	result.Elapsed = time.Since(start)

	if runErr != nil {
		s.log.Warn("run stopped", "step", s.step, "err", runErr)
		return result, runErr
	}
	s.log.Info("run complete",
		"steps", result.StepsTaken,
		"particles", s.body.Len(),
		"reorders", result.Reorders,
		"elapsed", result.Elapsed,
	)
	return result, nil
}

// Frame samples the current state. track is the original index of the
// tip particle, or -1.
func (s *Simulator) Frame(track int) Frame {
	c := s.body.Centroid()
	f := Frame{
		Step:          s.step,
		Time:          s.time,
		KineticEnergy: s.body.KineticEnergy(),
		StrainEnergy:  s.solver.StrainEnergy(),
		MaxStress:     metrics.MaxVonMises(s.solver),
		CentroidX:     c.X,
		CentroidY:     c.Y,
		CentroidZ:     c.Z,
	}
	if slot := metrics.Locate(s.body, track); slot >= 0 {
		p := s.body.Positions[slot]
		f.TipX, f.TipY, f.TipZ = p.X, p.Y, p.Z
	}
	return f
}

// Particles returns the per-particle state ordered by original index.
func (s *Simulator) Particles() []Particle {
	out := make([]Particle, s.body.Len())
	stresses := s.solver.Stresses()
	for i, id := range s.body.IDs {
		p, v := s.body.Positions[i], s.body.Velocities[i]
		out[id] = Particle{
			ID: id,
			X:  p.X, Y: p.Y, Z: p.Z,
			VX: v.X, VY: v.Y, VZ: v.Z,
			Pinned: s.body.Pinned[i],
		}
		if i < len(stresses) {
			out[id].VonMises = stresses[i].VonMises(s.body.Dim)
		}
	}
	return out
}
