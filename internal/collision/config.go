package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/ctmcsim/internal/atom"
	"github.com/san-kum/ctmcsim/internal/elements"
)

// Projectile is a bare ion accelerated through EnergyKeV.
type Projectile struct {
	EnergyKeV float64
	Charge    float64
	Mass      float64
	// Heisenberg, when set, adds a constraining interaction between the
	// projectile and every target electron.
	Heisenberg *atom.HeisenbergParams
}

// Config describes one experiment.
type Config struct {
	Target     atom.Spec
	Projectile Projectile

	// B2Max is the largest squared impact parameter; b^2 is uniform on
	// [0, B2Max].
	B2Max float64
	// StartDistance places the projectile at z = -StartDistance.
	StartDistance float64
	// StopDistance ends a round once projectile and target nucleus are
	// farther apart.
	StopDistance float64

	AbsTolerance    float64
	RelTolerance    float64
	EnergyTolerance float64
	InitialStep     float64
	MaxSteps        int

	ExtensionTime float64
	MaxExtensions int

	Rounds        int
	Seed          uint64
	Workers       int
	Track         []int
	SkipUntracked bool
}

func DefaultConfig() Config {
	return Config{
		Target: atom.Spec{
			Element:    elements.H,
			AtomicMass: 1.00782503207,
			Model:      atom.Kepler,
		},
		Projectile: Projectile{
			EnergyKeV: 50,
			Charge:    1,
			Mass:      elements.ProtonMass,
		},
		B2Max:           25,
		StartDistance:   50,
		StopDistance:    51,
		AbsTolerance:    1e-10,
		RelTolerance:    1e-10,
		EnergyTolerance: 1e-9,
		InitialStep:     1e-4,
		MaxSteps:        2_000_000,
		ExtensionTime:   1.0,
		MaxExtensions:   100,
		Rounds:          100,
		Seed:            1,
		Workers:         1,
	}
}

var errInvalidConfig = errors.New("collision: invalid config")

func (c Config) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"projectile mass", c.Projectile.Mass},
		{"projectile energy", c.Projectile.EnergyKeV},
		{"start distance", c.StartDistance},
		{"stop distance", c.StopDistance},
		{"absolute tolerance", c.AbsTolerance},
		{"relative tolerance", c.RelTolerance},
		{"energy tolerance", c.EnergyTolerance},
		{"initial step", c.InitialStep},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", errInvalidConfig, p.name, p.value)
		}
	}

	switch {
	case c.Projectile.Charge <= 0:
		return fmt.Errorf("%w: projectile charge must be positive, got %g", errInvalidConfig, c.Projectile.Charge)
	case c.B2Max < 0:
		return fmt.Errorf("%w: b2max must not be negative, got %g", errInvalidConfig, c.B2Max)
	case c.ExtensionTime <= 0 && c.MaxExtensions > 0:
		return fmt.Errorf("%w: extension time must be positive", errInvalidConfig)
	case c.MaxExtensions < 0:
		return fmt.Errorf("%w: max extensions must not be negative", errInvalidConfig)
	case c.MaxSteps <= 0:
		return fmt.Errorf("%w: max steps must be positive", errInvalidConfig)
	case c.Rounds <= 0:
		return fmt.Errorf("%w: rounds must be positive", errInvalidConfig)
	}

	for _, r := range c.Track {
		if r < 0 || r >= c.Rounds {
			return fmt.Errorf("%w: tracked round %d outside [0, %d)", errInvalidConfig, r, c.Rounds)
		}
	}
	return nil
}

// ProjectileVelocity is the speed in atomic units of an ion of the given
// mass and charge accelerated through energyKeV kilovolts:
// v = sqrt(2 q V / m) with V converted to hartree per unit charge.
func ProjectileVelocity(mass, charge, energyKeV float64) float64 {
	voltage := 1000 * energyKeV / elements.HartreeEV
	return math.Sqrt(2 * charge * voltage / mass)
}
