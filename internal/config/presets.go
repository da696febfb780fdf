package config

import "sort"

func preset(fn func(c *Config)) *Config {
	c := DefaultConfig()
	fn(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"beam": {
		"soft": preset(func(c *Config) {
			c.Material.Young = 1e5
		}),
		"stiff": preset(func(c *Config) {
			c.Material.Young = 5e6
			c.Run.Dt = 1e-5
			c.Run.RecordEvery = 100
		}),
		"nonlinear": preset(func(c *Config) {
			c.Material.Young = 5e4
			c.Material.Nonlinear = true
			c.Run.Duration = 1
		}),
		"3d": preset(func(c *Config) {
			c.Scene.Dim = 3
			c.Scene.NX, c.Scene.NY, c.Scene.NZ = 16, 3, 3
			c.Run.ReorderEvery = 200
		}),
	},
	"block": {
		"spin": preset(func(c *Config) {
			c.Scene.NX, c.Scene.NY = 8, 8
			c.Scene.Pin = "none"
			c.Scene.Spin = 4
			c.Run.Gravity = 0
			c.Run.Integrator = "leapfrog"
		}),
		"squash": preset(func(c *Config) {
			c.Scene.NX, c.Scene.NY = 8, 8
			c.Scene.Pin = "none"
			c.Scene.Squeeze = 2
			c.Run.Gravity = 0
			c.Run.Integrator = "leapfrog"
		}),
	},
	"column": {
		"sag": preset(func(c *Config) {
			c.Scene.NX, c.Scene.NY = 4, 16
			c.Scene.Pin = "bottom"
			c.Material.Young = 2e5
		}),
	},
	"ring": {
		"breathe": preset(func(c *Config) {
			c.Scene.Shape = "ring"
			c.Scene.NX = 48
			c.Scene.Pin = "none"
			c.Scene.Squeeze = -1
			c.Run.Gravity = 0
			c.Kernels.Gradient = "spiky"
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(scene, name string) *Config {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	cfg, ok := scenePresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(scene string) []string {
	scenePresets, ok := Presets[scene]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenePresets))
	for name := range scenePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scenes lists the scenes that have presets.
func Scenes() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
