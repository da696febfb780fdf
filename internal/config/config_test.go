package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Run.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if got := cfg.SupportRadius(); got != DefaultSupportFactor*DefaultSpacing {
		t.Errorf("unexpected support radius %g", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"poisson at limit", func(c *Config) { c.Material.Poisson = 0.5 }},
		{"poisson below -1", func(c *Config) { c.Material.Poisson = -1.2 }},
		{"zero young", func(c *Config) { c.Material.Young = 0 }},
		{"zero density", func(c *Config) { c.Material.RestDensity = 0 }},
		{"bad dim", func(c *Config) { c.Scene.Dim = 4 }},
		{"3d ring", func(c *Config) { c.Scene.Shape = "ring"; c.Scene.Dim = 3 }},
		{"no particles", func(c *Config) { c.Scene.NX = 0 }},
		{"3d without depth", func(c *Config) { c.Scene.Dim = 3; c.Scene.NZ = 0 }},
		{"small support", func(c *Config) { c.Scene.SupportFactor = 1 }},
		{"unknown shape", func(c *Config) { c.Scene.Shape = "torus" }},
		{"unknown pin", func(c *Config) { c.Scene.Pin = "top" }},
		{"unknown kernel", func(c *Config) { c.Kernels.Gradient = "gaussian" }},
		{"unknown search", func(c *Config) { c.Solver.Search = "octree" }},
		{"unknown backend", func(c *Config) { c.Solver.Backend = "cuda" }},
		{"unknown integrator", func(c *Config) { c.Run.Integrator = "rk45" }},
		{"zero dt", func(c *Config) { c.Run.Dt = 0 }},
		{"negative record", func(c *Config) { c.Run.RecordEvery = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Material.Poisson = 0.6
	cfg.Run.Dt = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) != 2 {
		t.Errorf("expected two joined errors, got %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := GetPreset("beam", "3d")
	cfg.Material.Nonlinear = true

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip changed the config:\n%+v\n%+v", cfg, loaded)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("material:\n  young: 12345\nrun:\n  integrator: leapfrog\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Material.Young != 12345 || cfg.Run.Integrator != "leapfrog" {
		t.Errorf("explicit values not applied: %+v", cfg)
	}
	if cfg.Material.Poisson != DefaultPoisson || cfg.Scene.Spacing != DefaultSpacing {
		t.Errorf("defaults not kept: %+v", cfg)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("material:\n  poisson: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("beam", "soft")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Material.Young != 1e5 {
		t.Errorf("expected young 1e5, got %g", cfg.Material.Young)
	}

	cfg.Material.Young = 1
	if GetPreset("beam", "soft").Material.Young != 1e5 {
		t.Error("GetPreset should return a copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("beam", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "soft") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}

func TestPresetsValidate(t *testing.T) {
	for _, scene := range Scenes() {
		names := ListPresets(scene)
		if len(names) == 0 {
			t.Errorf("scene %s has no presets", scene)
		}
		for _, name := range names {
			if err := GetPreset(scene, name).Validate(); err != nil {
				t.Errorf("preset %s/%s: %v", scene, name, err)
			}
		}
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent scene")
	}
}
