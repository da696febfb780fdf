package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/corosph/internal/compute"
	"github.com/san-kum/corosph/internal/config"
	"github.com/san-kum/corosph/internal/contact"
	"github.com/san-kum/corosph/internal/elasticity"
	"github.com/san-kum/corosph/internal/integrators"
	"github.com/san-kum/corosph/internal/kernel"
	"github.com/san-kum/corosph/internal/metrics"
	"github.com/san-kum/corosph/internal/neighbors"
	"github.com/san-kum/corosph/internal/particle"
	"github.com/san-kum/corosph/internal/sim"
	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

// Experiment is a scene built from a config and ready to run.
type Experiment struct {
	cfg       *config.Config
	body      *particle.Set
	solver    *elasticity.Solver
	simulator *sim.Simulator
	tip       int
}

// New validates cfg and assembles the body, solver, integrator and
// simulator it describes. The standard metrics are attached.
func New(cfg *config.Config, log *slog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	dim := tensor.Dim(cfg.Scene.Dim)

	body, err := NewRegistry().Body(cfg.Scene, cfg.Material.RestDensity)
	if err != nil {
		return nil, err
	}
	applyInitialVelocity(body, cfg.Scene)

	density, err := kernel.New(cfg.Kernels.Density, dim)
	if err != nil {
		return nil, err
	}
	gradient, err := kernel.New(cfg.Kernels.Gradient, dim)
	if err != nil {
		return nil, err
	}
	searcher, err := neighbors.New(cfg.Solver.Search)
	if err != nil {
		return nil, err
	}
	backend, err := compute.New(cfg.Solver.Backend, cfg.Solver.Workers)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(cfg.Run.Integrator)
	if err != nil {
		return nil, err
	}

	solver := elasticity.New(elasticity.Config{
		YoungModulus:    cfg.Material.Young,
		PoissonRatio:    cfg.Material.Poisson,
		NonlinearStrain: cfg.Material.Nonlinear,
		Dim:             dim,
		Kernels:         contact.Kernels{Density: density, Gradient: gradient},
		Searcher:        searcher,
		Backend:         backend,
		Logger:          log,
	})

	s := sim.New(body, solver, integ)
	s.SetLogger(log)
	tip := Tip(body)
	for _, m := range metrics.Standard(tip) {
		s.AddMetric(m)
	}
	// Particles outrunning the elastic wave speed mean the step is too large.
	s.AddMetric(metrics.NewStability(WaveSpeed(cfg.Material)))

	log.Debug("experiment assembled",
		"shape", cfg.Scene.Shape,
		"particles", body.Len(),
		"dim", dim.String(),
		"backend", backend.Name(),
		"search", searcher.Name(),
		"integrator", integ.Name(),
	)

	return &Experiment{cfg: cfg, body: body, solver: solver, simulator: s, tip: tip}, nil
}

// WaveSpeed is the longitudinal wave speed sqrt(E/rho) of the material.
func WaveSpeed(m config.MaterialConfig) float64 {
	return math.Sqrt(m.Young / m.RestDensity)
}

func applyInitialVelocity(b *particle.Set, s config.SceneConfig) {
	if s.Spin == 0 && s.Squeeze == 0 {
		return
	}
	c := b.Centroid()
	for i, p := range b.Positions {
		if b.Pinned[i] {
			continue
		}
		d := r3.Sub(p, c)
		spin := r3.Scale(s.Spin, r3.Vec{X: -d.Y, Y: d.X})
		b.Velocities[i] = r3.Add(b.Velocities[i], r3.Add(spin, r3.Scale(-s.Squeeze, d)))
	}
}

// SimConfig translates the run section into simulator settings.
func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Run.Dt,
		Duration:      e.cfg.Run.Duration,
		SupportRadius: e.cfg.SupportRadius(),
		Gravity:       r3.Vec{Y: -e.cfg.Run.Gravity},
		ReorderEvery:  e.cfg.Run.ReorderEvery,
		RecordEvery:   e.cfg.Run.RecordEvery,
		Track:         e.tip,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not set up")
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) Config() *config.Config     { return e.cfg }
func (e *Experiment) Body() *particle.Set        { return e.body }
func (e *Experiment) Solver() *elasticity.Solver { return e.solver }
func (e *Experiment) Simulator() *sim.Simulator  { return e.simulator }
func (e *Experiment) Tip() int                   { return e.tip }
