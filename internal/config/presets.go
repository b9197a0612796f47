package config

import (
	"sort"

	"github.com/san-kum/ctmcsim/internal/atom"
)

func preset(mutate func(c *Config)) *Config {
	c := DefaultConfig()
	mutate(c)
	return c
}

// Presets are keyed by target, then by scenario name.
var Presets = map[string]map[string]*Config{
	"hydrogen": {
		"proton-50kev": preset(func(c *Config) {
			c.Rounds = 1000
		}),
		"proton-25kev": preset(func(c *Config) {
			c.Projectile.EnergyKeV = 25
			c.Rounds = 1000
		}),
		"proton-100kev": preset(func(c *Config) {
			c.Projectile.EnergyKeV = 100
			c.B2Max = 16
			c.Rounds = 1000
		}),
		"head-on": preset(func(c *Config) {
			c.B2Max = 0
			c.StartDistance = 20
			c.StopDistance = 35
			c.AbsTolerance = 1e-12
			c.RelTolerance = 1e-12
			c.Rounds = 10
		}),
	},
	"helium": {
		"proton-kw": preset(func(c *Config) {
			c.Target.Element = "He"
			c.Target.AtomicMass = 4.00260325415
			c.Target.Model = atom.Cohen.String()
			c.Target.Heisenberg = &atom.HeisenbergParams{Alpha: 5.0, Xi: 0.9535}
			c.Projectile.EnergyKeV = 100
			c.Projectile.Heisenberg = &atom.HeisenbergParams{Alpha: 5.0, Xi: 0.9535}
			c.EnergyTolerance = 1e-4
			c.AbsTolerance = 1e-8
			c.RelTolerance = 1e-8
			c.Rounds = 500
		}),
		"proton-kepler": preset(func(c *Config) {
			c.Target.Element = "He"
			c.Target.AtomicMass = 4.00260325415
			c.Projectile.EnergyKeV = 100
			c.Rounds = 500
		}),
		"stability": preset(func(c *Config) {
			c.Target.Element = "He"
			c.Target.Model = atom.Cohen.String()
			c.Projectile.EnergyKeV = 1
			c.B2Max = 0
			c.StartDistance = 220
			c.StopDistance = 221
			c.AbsTolerance = 1e-6
			c.RelTolerance = 1e-6
			c.EnergyTolerance = 1e-4
			c.Rounds = 1
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(target, name string) *Config {
	targetPresets, ok := Presets[target]
	if !ok {
		return nil
	}
	cfg, ok := targetPresets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

// ListPresets returns the preset names of target in sorted order.
func ListPresets(target string) []string {
	targetPresets, ok := Presets[target]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(targetPresets))
	for name := range targetPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Targets lists the preset targets in sorted order.
func Targets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
