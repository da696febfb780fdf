package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSpacing       = 0.05
	DefaultSupportFactor = 2.0
	DefaultYoung         = 5e5
	DefaultPoisson       = 0.3
	DefaultRestDensity   = 1000.0
	DefaultDt            = 5e-5
	DefaultDuration      = 0.5
	DefaultGravity       = 9.81
	DefaultRecordEvery   = 20
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid configuration")

var (
	Shapes      = []string{"block", "ring"}
	PinModes    = []string{"none", "left", "bottom"}
	KernelNames = []string{"cubic", "poly6", "spiky"}
	SearchNames = []string{"brute", "grid", "kdtree"}
	Backends    = []string{"cpu", "serial"}
	Integrators = []string{"euler", "leapfrog", "rk4", "symplectic"}
)

type Config struct {
	Scene    SceneConfig    `yaml:"scene"`
	Material MaterialConfig `yaml:"material"`
	Kernels  KernelConfig   `yaml:"kernels"`
	Solver   SolverConfig   `yaml:"solver"`
	Run      RunConfig      `yaml:"run"`
}

type SceneConfig struct {
	Shape string `yaml:"shape"`
	Dim   int    `yaml:"dim"`
	// NX, NY, NZ count particles per axis. A ring uses NX particles.
	NX      int     `yaml:"nx"`
	NY      int     `yaml:"ny"`
	NZ      int     `yaml:"nz"`
	Spacing float64 `yaml:"spacing"`
	// SupportFactor sets the kernel support radius as a multiple of the
	// spacing.
	SupportFactor float64 `yaml:"support_factor"`
	Pin           string  `yaml:"pin"`
	// Spin is an initial angular velocity about the z axis through the
	// centroid, in rad/s.
	Spin float64 `yaml:"spin"`
	// Squeeze gives every particle an initial velocity of -Squeeze times
	// its offset from the centroid.
	Squeeze float64 `yaml:"squeeze"`
}

type MaterialConfig struct {
	Young       float64 `yaml:"young"`
	Poisson     float64 `yaml:"poisson"`
	Nonlinear   bool    `yaml:"nonlinear"`
	RestDensity float64 `yaml:"rest_density"`
}

type KernelConfig struct {
	Density  string `yaml:"density"`
	Gradient string `yaml:"gradient"`
}

type SolverConfig struct {
	Search  string `yaml:"search"`
	Backend string `yaml:"backend"`
	// Workers bounds the CPU backend; 0 uses every CPU.
	Workers int `yaml:"workers"`
}

type RunConfig struct {
	Integrator   string  `yaml:"integrator"`
	Dt           float64 `yaml:"dt"`
	Duration     float64 `yaml:"duration"`
	Gravity      float64 `yaml:"gravity"`
	ReorderEvery int     `yaml:"reorder_every"`
	RecordEvery  int     `yaml:"record_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Scene: SceneConfig{
			Shape:         "block",
			Dim:           2,
			NX:            20,
			NY:            4,
			NZ:            1,
			Spacing:       DefaultSpacing,
			SupportFactor: DefaultSupportFactor,
			Pin:           "left",
		},
		Material: MaterialConfig{
			Young:       DefaultYoung,
			Poisson:     DefaultPoisson,
			RestDensity: DefaultRestDensity,
		},
		Kernels: KernelConfig{
			Density:  "cubic",
			Gradient: "cubic",
		},
		Solver: SolverConfig{
			Search:  "kdtree",
			Backend: "cpu",
		},
		Run: RunConfig{
			Integrator:  "symplectic",
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			Gravity:     DefaultGravity,
			RecordEvery: DefaultRecordEvery,
		},
	}
}

// SupportRadius is the kernel support radius implied by the scene.
func (c *Config) SupportRadius() float64 {
	return c.Scene.SupportFactor * c.Scene.Spacing
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field that would otherwise trip a precondition
// further down.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}
	oneOf := func(field, v string, allowed []string) {
		if !slices.Contains(allowed, v) {
			bad("%s %q not one of %v", field, v, allowed)
		}
	}

	s := c.Scene
	oneOf("scene.shape", s.Shape, Shapes)
	oneOf("scene.pin", s.Pin, PinModes)
	if s.Dim != 2 && s.Dim != 3 {
		bad("scene.dim must be 2 or 3, got %d", s.Dim)
	}
	if s.Shape == "ring" && s.Dim != 2 {
		bad("a ring scene is two-dimensional")
	}
	if s.NX <= 0 || s.NY <= 0 || (s.Dim == 3 && s.NZ <= 0) {
		bad("scene particle counts must be positive, got %dx%dx%d", s.NX, s.NY, s.NZ)
	}
	if s.Spacing <= 0 {
		bad("scene.spacing must be positive, got %g", s.Spacing)
	}
	if s.SupportFactor <= 1 {
		bad("scene.support_factor must exceed 1, got %g", s.SupportFactor)
	}

	m := c.Material
	if m.Young <= 0 {
		bad("material.young must be positive, got %g", m.Young)
	}
	if !(m.Poisson > -1 && m.Poisson < 0.5) {
		bad("material.poisson must lie in (-1, 0.5), got %g", m.Poisson)
	}
	if m.RestDensity <= 0 {
		bad("material.rest_density must be positive, got %g", m.RestDensity)
	}

	oneOf("kernels.density", c.Kernels.Density, KernelNames)
	oneOf("kernels.gradient", c.Kernels.Gradient, KernelNames)
	oneOf("solver.search", c.Solver.Search, SearchNames)
	oneOf("solver.backend", c.Solver.Backend, Backends)
	if c.Solver.Workers < 0 {
		bad("solver.workers must not be negative, got %d", c.Solver.Workers)
	}

	r := c.Run
	oneOf("run.integrator", r.Integrator, Integrators)
	if r.Dt <= 0 {
		bad("run.dt must be positive, got %g", r.Dt)
	}
	if r.Duration <= 0 {
		bad("run.duration must be positive, got %g", r.Duration)
	}
	if r.ReorderEvery < 0 || r.RecordEvery < 0 {
		bad("run step intervals must not be negative")
	}

	return errors.Join(errs...)
}
