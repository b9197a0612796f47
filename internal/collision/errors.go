package collision

import (
	"errors"
	"fmt"
)

var (
	// ErrEnergyViolation indicates the relative energy error of a round
	// exceeded the configured tolerance.
	ErrEnergyViolation = errors.New("collision: energy conservation violated")

	// ErrInitialCondition indicates the stopping condition already held
	// before integration started.
	ErrInitialCondition = errors.New("collision: stopping condition holds at start")

	// ErrUnhandledOutcome indicates a binding pattern the classifier has
	// no channel for. It aborts the experiment.
	ErrUnhandledOutcome = errors.New("collision: unhandled outcome")
)

// RoundError is a failed round.
type RoundError struct {
	Round int
	Kind  Status
	Err   error
}

func (e *RoundError) Error() string {
	return fmt.Sprintf("round %d: %s: %v", e.Round, e.Kind, e.Err)
}

func (e *RoundError) Unwrap() error { return e.Err }

// Fatal reports whether the error must stop the experiment.
func (e *RoundError) Fatal() bool { return e.Kind == StatusUnhandledOutcome }
