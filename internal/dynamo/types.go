package dynamo

import "math"

// State is the flat integration vector.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// AddScaled returns s + f*other.
func (s State) AddScaled(f float64, other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] + f*other[i]
	}
	return result
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] - other[i]
	}
	return result
}

// System is an ODE right-hand side.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// PhaseSpace is a System that also holds its current phase, so that
// queries (energies, distances) can be answered between steps.
type PhaseSpace interface {
	System
	Phase() State
	SetPhase(x State)
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, t, dt float64) State
}

// AdaptiveIntegrator attempts one step of size dt. It reports whether
// the step met the error tolerance and the step size to try next.
// A rejected step leaves x untouched and returns a smaller dt.
type AdaptiveIntegrator interface {
	Integrator
	TryStep(dyn System, x State, t, dt float64) (next State, dtNext float64, accepted bool)
}

// Condition is a stopping predicate evaluated after every accepted step.
type Condition interface {
	Evaluate(x State, t float64) bool
}

// ConditionFunc adapts a plain function to Condition.
type ConditionFunc func(x State, t float64) bool

func (f ConditionFunc) Evaluate(x State, t float64) bool { return f(x, t) }

// Observer receives every accepted step. Implementations must not
// modify x.
type Observer interface {
	OnStep(x State, t float64)
}

type Config struct {
	InitialStep   float64
	MinStep       float64
	MaxStep       float64
	MaxSteps      int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		InitialStep:   1e-4,
		MinStep:       1e-14,
		MaxStep:       1.0,
		MaxSteps:      2_000_000,
		ValidateState: true,
	}
}
