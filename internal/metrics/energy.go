package metrics

import (
	"math"

	"github.com/san-kum/ctmcsim/internal/dynamo"
)

// EnergyDrift observes a trajectory and records the largest relative
// deviation of the total energy from its value at the first observation
// (or at Reset, if a reference was given).
type EnergyDrift struct {
	name          string
	ham           dynamo.Hamiltonian
	initialEnergy float64
	currentEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(ham dynamo.Hamiltonian) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		ham:  ham,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

// OnStep implements dynamo.Observer.
func (e *EnergyDrift) OnStep(x dynamo.State, t float64) {
	energy := e.ham.Energy(x)

	if e.samples == 0 && e.initialEnergy == 0 {
		e.initialEnergy = energy
	}

	e.currentEnergy = energy
	e.samples++

	if e.initialEnergy != 0 {
		e.maxDrift = math.Max(e.maxDrift, RelativeError(e.initialEnergy, energy))
	}
}

// Value is the largest relative drift seen so far.
func (e *EnergyDrift) Value() float64 { return e.maxDrift }

// Current is the relative drift at the last observed step.
func (e *EnergyDrift) Current() float64 {
	if e.initialEnergy == 0 {
		return 0
	}
	return RelativeError(e.initialEnergy, e.currentEnergy)
}

func (e *EnergyDrift) Samples() int { return e.samples }

// Reset starts a new trajectory with reference energy e0; zero takes the
// first observed energy instead.
func (e *EnergyDrift) Reset(e0 float64) {
	e.initialEnergy = e0
	e.currentEnergy = e0
	e.maxDrift = 0
	e.samples = 0
}

// RelativeError is |(e0 - e1) / e0|.
func RelativeError(e0, e1 float64) float64 {
	return math.Abs((e0 - e1) / e0)
}
