package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/ctmcsim/internal/dynamo"
)

// Simulator drives an adaptive stepper over a PhaseSpace. The phase is
// written back to the system after every accepted step, so observers and
// conditions may query the system directly.
type Simulator struct {
	sys       dynamo.PhaseSpace
	stepper   dynamo.AdaptiveIntegrator
	cfg       dynamo.Config
	observers []dynamo.Observer

	steps    int
	rejected int
	lastDt   float64
}

func New(sys dynamo.PhaseSpace, stepper dynamo.AdaptiveIntegrator, cfg dynamo.Config) *Simulator {
	return &Simulator{
		sys:       sys,
		stepper:   stepper,
		cfg:       cfg,
		observers: make([]dynamo.Observer, 0),
	}
}

func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) ClearObservers()               { s.observers = s.observers[:0] }

// Steps returns the accepted step count of the last call.
func (s *Simulator) Steps() int { return s.steps }

// Rejected returns the rejected step count of the last call.
func (s *Simulator) Rejected() int { return s.rejected }

// LastStep is the step size proposed by the stepper at the end of the last
// call, suitable as dt0 for a continuation.
func (s *Simulator) LastStep() float64 { return s.lastDt }

// Simulate advances from t0 until cond holds after an accepted step and
// returns the elapsed time. If maxSteps accepted steps pass without the
// condition firing it returns -1 and dynamo.ErrConditionNotReached.
// Non-positive dt0 or maxSteps fall back to the Config values.
func (s *Simulator) Simulate(t0, dt0 float64, cond dynamo.Condition, maxSteps int) (float64, error) {
	if maxSteps <= 0 {
		maxSteps = s.cfg.MaxSteps
	}
	s.reset(dt0)

	x := s.sys.Phase().Clone()
	t := t0
	dt := s.lastDt

	for s.steps < maxSteps {
		next, dtNext, err := s.attempt(x, t, dt)
		if err != nil {
			return -1, err
		}
		if next == nil {
			dt = dtNext
			continue
		}

		x = next
		t += dt
		s.accept(x, t)
		dt = s.clamp(dtNext)
		s.lastDt = dt

		if cond.Evaluate(x, t) {
			return t - t0, nil
		}
	}

	return -1, &SimulationError{Step: s.steps, Time: t, State: x, Wrapped: dynamo.ErrConditionNotReached}
}

// Advance integrates over the fixed horizon [t0, t1], landing exactly on
// t1, and returns the elapsed time.
func (s *Simulator) Advance(t0, t1, dt0 float64) (float64, error) {
	if t1 < t0 {
		return 0, fmt.Errorf("sim: horizon end %g before start %g", t1, t0)
	}
	s.reset(dt0)

	x := s.sys.Phase().Clone()
	t := t0
	dt := s.lastDt

	for t < t1 {
		if s.steps >= s.cfg.MaxSteps {
			return t - t0, &SimulationError{Step: s.steps, Time: t, State: x, Wrapped: dynamo.ErrConditionNotReached}
		}
		h := math.Min(dt, t1-t)
		next, dtNext, err := s.attempt(x, t, h)
		if err != nil {
			return t - t0, err
		}
		if next == nil {
			dt = dtNext
			continue
		}

		x = next
		if h == t1-t {
			t = t1
		} else {
			t += h
		}
		s.accept(x, t)
		if h == dt {
			dt = s.clamp(dtNext)
		}
		s.lastDt = dt
	}

	return t1 - t0, nil
}

func (s *Simulator) reset(dt0 float64) {
	s.steps, s.rejected = 0, 0
	if dt0 <= 0 {
		dt0 = s.cfg.InitialStep
	}
	s.lastDt = s.clamp(dt0)
}

func (s *Simulator) clamp(dt float64) float64 {
	if s.cfg.MaxStep > 0 && dt > s.cfg.MaxStep {
		return s.cfg.MaxStep
	}
	return dt
}

// attempt returns a nil state for a rejected step.
func (s *Simulator) attempt(x dynamo.State, t, dt float64) (dynamo.State, float64, error) {
	next, dtNext, ok := s.stepper.TryStep(s.sys, x, t, dt)
	if ok {
		if s.cfg.ValidateState && !next.IsValid() {
			return nil, 0, &SimulationError{Step: s.steps, Time: t, State: x, Wrapped: dynamo.ErrInvalidState}
		}
		return next, dtNext, nil
	}

	s.rejected++
	if dtNext < s.cfg.MinStep {
		return nil, 0, &SimulationError{Step: s.steps, Time: t, State: x, Wrapped: dynamo.ErrStepTooSmall}
	}
	return nil, dtNext, nil
}

func (s *Simulator) accept(x dynamo.State, t float64) {
	s.steps++
	s.sys.SetPhase(x)
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

// SimulationError is dynamo.SimulationError, re-exported for callers that
// only import sim.
type SimulationError = dynamo.SimulationError
