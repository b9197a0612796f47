package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ctmcsim/internal/atom"
	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/elements"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Target          TargetConfig     `yaml:"target"`
	Projectile      ProjectileConfig `yaml:"projectile"`
	B2Max           float64          `yaml:"b2max"`
	StartDistance   float64          `yaml:"start_distance"`
	StopDistance    float64          `yaml:"stop_distance"`
	AbsTolerance    float64          `yaml:"abs_tolerance"`
	RelTolerance    float64          `yaml:"rel_tolerance"`
	EnergyTolerance float64          `yaml:"energy_tolerance"`
	InitialStep     float64          `yaml:"initial_step"`
	MaxSteps        int              `yaml:"max_steps"`
	ExtensionTime   float64          `yaml:"extension_time"`
	MaxExtensions   int              `yaml:"max_extensions"`
	Rounds          int              `yaml:"rounds"`
	Seed            uint64           `yaml:"seed"`
	Workers         int              `yaml:"workers"`
	Track           []int            `yaml:"track,omitempty"`
	SkipUntracked   bool             `yaml:"skip_untracked"`
}

type TargetConfig struct {
	Element       string                 `yaml:"element"`
	Configuration string                 `yaml:"configuration,omitempty"`
	AtomicMass    float64                `yaml:"atomic_mass,omitempty"`
	Model         string                 `yaml:"model"`
	Heisenberg    *atom.HeisenbergParams `yaml:"heisenberg,omitempty"`
}

type ProjectileConfig struct {
	EnergyKeV  float64                `yaml:"energy_kev"`
	Charge     float64                `yaml:"charge"`
	Mass       float64                `yaml:"mass"`
	Heisenberg *atom.HeisenbergParams `yaml:"heisenberg,omitempty"`
}

func DefaultConfig() *Config {
	d := collision.DefaultConfig()
	return &Config{
		Target: TargetConfig{
			Element:    d.Target.Element.Symbol(),
			AtomicMass: d.Target.AtomicMass,
			Model:      d.Target.Model.String(),
		},
		Projectile: ProjectileConfig{
			EnergyKeV: d.Projectile.EnergyKeV,
			Charge:    d.Projectile.Charge,
			Mass:      d.Projectile.Mass,
		},
		B2Max:           d.B2Max,
		StartDistance:   d.StartDistance,
		StopDistance:    d.StopDistance,
		AbsTolerance:    d.AbsTolerance,
		RelTolerance:    d.RelTolerance,
		EnergyTolerance: d.EnergyTolerance,
		InitialStep:     d.InitialStep,
		MaxSteps:        d.MaxSteps,
		ExtensionTime:   d.ExtensionTime,
		MaxExtensions:   d.MaxExtensions,
		Rounds:          d.Rounds,
		Seed:            d.Seed,
		Workers:         d.Workers,
	}
}

// Load reads a yaml file on top of DefaultConfig.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
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

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Track = append([]int(nil), c.Track...)
	if c.Target.Heisenberg != nil {
		h := *c.Target.Heisenberg
		out.Target.Heisenberg = &h
	}
	if c.Projectile.Heisenberg != nil {
		h := *c.Projectile.Heisenberg
		out.Projectile.Heisenberg = &h
	}
	return &out
}

// Experiment resolves names and returns the collision configuration.
func (c *Config) Experiment() (collision.Config, error) {
	element, err := elements.Parse(c.Target.Element)
	if err != nil {
		return collision.Config{}, fmt.Errorf("%w: target element: %v", ErrInvalid, err)
	}

	configuration := element
	if c.Target.Configuration != "" {
		configuration, err = elements.Parse(c.Target.Configuration)
		if err != nil {
			return collision.Config{}, fmt.Errorf("%w: target configuration: %v", ErrInvalid, err)
		}
	}

	model, err := atom.ParseModel(c.Target.Model)
	if err != nil {
		return collision.Config{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	spec := atom.Spec{
		Element:       element,
		Configuration: configuration,
		AtomicMass:    c.Target.AtomicMass,
		Model:         model,
	}
	if c.Target.Heisenberg != nil {
		spec.Heisenberg = *c.Target.Heisenberg
	}

	return collision.Config{
		Target: spec,
		Projectile: collision.Projectile{
			EnergyKeV:  c.Projectile.EnergyKeV,
			Charge:     c.Projectile.Charge,
			Mass:       c.Projectile.Mass,
			Heisenberg: c.Projectile.Heisenberg,
		},
		B2Max:           c.B2Max,
		StartDistance:   c.StartDistance,
		StopDistance:    c.StopDistance,
		AbsTolerance:    c.AbsTolerance,
		RelTolerance:    c.RelTolerance,
		EnergyTolerance: c.EnergyTolerance,
		InitialStep:     c.InitialStep,
		MaxSteps:        c.MaxSteps,
		ExtensionTime:   c.ExtensionTime,
		MaxExtensions:   c.MaxExtensions,
		Rounds:          c.Rounds,
		Seed:            c.Seed,
		Workers:         c.Workers,
		Track:           append([]int(nil), c.Track...),
		SkipUntracked:   c.SkipUntracked,
	}, nil
}

// Validate checks names and numeric ranges. A stop distance not beyond the
// start distance is accepted here; every round then fails its initial
// condition check.
func (c *Config) Validate() error {
	exp, err := c.Experiment()
	if err != nil {
		return err
	}
	if err := exp.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if h := c.Target.Heisenberg; h != nil && (h.Alpha <= 0 || h.Xi <= 0) {
		return fmt.Errorf("%w: target heisenberg parameters must be positive", ErrInvalid)
	}
	if h := c.Projectile.Heisenberg; h != nil && (h.Alpha <= 0 || h.Xi <= 0) {
		return fmt.Errorf("%w: projectile heisenberg parameters must be positive", ErrInvalid)
	}
	return nil
}
