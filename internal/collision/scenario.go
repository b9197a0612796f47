package collision

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/atom"
	"github.com/san-kum/ctmcsim/internal/dynamo"
	"github.com/san-kum/ctmcsim/internal/integrators"
	"github.com/san-kum/ctmcsim/internal/metrics"
	"github.com/san-kum/ctmcsim/internal/physics"
	"github.com/san-kum/ctmcsim/internal/sim"
)

// Track is a trajectory sink attached to a tracked round.
type Track interface {
	dynamo.Observer
	Close() error
}

// Scenario is one worker's reusable system: a target atom, a projectile
// and the integrator driving them.
type Scenario struct {
	cfg Config

	sys        *physics.System
	target     *atom.Atom
	projectile physics.BodyID
	velocity   float64

	projectileInteractions []physics.InteractionID

	cond      physics.DistanceCondition
	simulator *sim.Simulator
	drift     *metrics.EnergyDrift
}

func NewScenario(cfg Config) (*Scenario, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sys := physics.NewSystem()
	projectile := sys.CreateBody(cfg.Projectile.Mass)

	target, err := atom.New(sys, cfg.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}

	sc := &Scenario{
		cfg:        cfg,
		sys:        sys,
		target:     target,
		projectile: projectile,
		velocity:   ProjectileVelocity(cfg.Projectile.Mass, cfg.Projectile.Charge, cfg.Projectile.EnergyKeV),
		cond:       physics.NewDistanceCondition(projectile, target.Nucleus(), cfg.StopDistance),
		drift:      metrics.NewEnergyDrift(sys),
	}

	if err := sc.createProjectileInteractions(); err != nil {
		return nil, err
	}

	dcfg := dynamo.DefaultConfig()
	dcfg.InitialStep = cfg.InitialStep
	dcfg.MaxSteps = cfg.MaxSteps
	sc.simulator = sim.New(sys, integrators.NewRK45(cfg.AbsTolerance, cfg.RelTolerance), dcfg)

	return sc, nil
}

// pair orders two bodies heavier first.
func (sc *Scenario) pair(a, b physics.BodyID) (earth, moon physics.BodyID) {
	if sc.sys.BodyMass(a) >= sc.sys.BodyMass(b) {
		return a, b
	}
	return b, a
}

func (sc *Scenario) createProjectileInteractions() error {
	q := sc.cfg.Projectile.Charge

	var list []physics.Interaction
	for _, e := range sc.target.Electrons() {
		earth, moon := sc.pair(sc.projectile, e)
		list = append(list, physics.NewCoulomb(-q, earth, moon))
		if h := sc.cfg.Projectile.Heisenberg; h != nil {
			list = append(list, physics.NewHeisenberg(h.Alpha, h.Xi, earth, moon))
		}
	}
	earth, moon := sc.pair(sc.target.Nucleus(), sc.projectile)
	list = append(list, physics.NewCoulomb(q*sc.target.NucleusCharge(), earth, moon))

	for _, in := range list {
		id, err := sc.sys.AddInteraction(in)
		if err != nil {
			return fmt.Errorf("projectile: %w", err)
		}
		sc.projectileInteractions = append(sc.projectileInteractions, id)
	}
	return nil
}

func (sc *Scenario) System() *physics.System     { return sc.sys }
func (sc *Scenario) Target() *atom.Atom          { return sc.target }
func (sc *Scenario) Projectile() physics.BodyID  { return sc.projectile }
func (sc *Scenario) ProjectileVelocity() float64 { return sc.velocity }
func (sc *Scenario) ProjectileInteractions() []physics.InteractionID {
	return append([]physics.InteractionID(nil), sc.projectileInteractions...)
}

// Prepare draws the impact parameter and target configuration of a round
// from rng and places the projectile on its incoming line. It returns the
// impact parameter.
func (sc *Scenario) Prepare(rng *rand.Rand) (float64, error) {
	b := math.Sqrt(sc.cfg.B2Max * rng.Float64())

	// start from the canonical state so a round does not depend on where
	// the previous one left the bodies
	sc.target.Install()
	if err := sc.target.Randomize(rng); err != nil {
		return b, err
	}
	sc.target.SetPosition(r3.Vec{})
	sc.target.SetVelocity(r3.Vec{})

	sc.sys.SetBodyPosition(sc.projectile, r3.Vec{Y: b, Z: -sc.cfg.StartDistance})
	sc.sys.SetBodyVelocity(sc.projectile, r3.Vec{Z: sc.velocity})
	return b, nil
}

// Bindings tests every target electron against both nuclei.
func (sc *Scenario) Bindings() []Binding {
	electrons := sc.target.Electrons()
	bindings := make([]Binding, len(electrons))
	for i, e := range electrons {
		bindings[i] = Binding{
			Target:     sc.sys.IsBound(sc.target.Nucleus(), e),
			Projectile: sc.sys.IsBound(sc.projectile, e),
		}
	}
	return bindings
}

// RunRound plays one round. track, if non-nil, receives every accepted
// step and is closed before returning. Failed rounds return a *RoundError
// alongside a result carrying the failure status.
func (sc *Scenario) RunRound(round int, rng *rand.Rand, tracked bool, track Track) (res RoundResult, err error) {
	res = RoundResult{Round: round, Tracked: tracked}
	fail := func(kind Status, cause error) (RoundResult, error) {
		res.Status = kind
		return res, &RoundError{Round: round, Kind: kind, Err: cause}
	}

	if track != nil {
		defer func() {
			if cerr := track.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("round %d: close track: %w", round, cerr)
			}
		}()
	}

	b, perr := sc.Prepare(rng)
	res.ImpactParameter = b
	if perr != nil {
		return fail(StatusSamplerExhausted, perr)
	}

	if sc.cfg.SkipUntracked && !tracked {
		res.Status = StatusSkipped
		return res, nil
	}

	if sc.cond.Evaluate(sc.sys.Phase(), 0) {
		return fail(StatusInitialCondition, ErrInitialCondition)
	}

	e0 := sc.sys.SystemEnergy()
	sc.drift.Reset(e0)
	sc.simulator.ClearObservers()
	sc.simulator.AddObserver(sc.drift)
	if track != nil {
		track.OnStep(sc.sys.Phase(), 0)
		sc.simulator.AddObserver(track)
	}

	elapsed, serr := sc.simulator.Simulate(0, sc.cfg.InitialStep, sc.cond, sc.cfg.MaxSteps)
	res.Steps = sc.simulator.Steps()
	if serr != nil {
		if errors.Is(serr, dynamo.ErrConditionNotReached) {
			return fail(StatusDistanceNotReached, serr)
		}
		return fail(StatusIntegrationFailed, serr)
	}

	for {
		res.Time = elapsed
		res.EnergyError = metrics.RelativeError(e0, sc.sys.SystemEnergy())
		res.MaxEnergyDrift = sc.drift.Value()
		if res.EnergyError > sc.cfg.EnergyTolerance {
			return fail(StatusEnergyViolation, fmt.Errorf("%w: relative error %.3e > %.3e",
				ErrEnergyViolation, res.EnergyError, sc.cfg.EnergyTolerance))
		}

		outcome, cerr := Classify(sc.Bindings())
		if cerr != nil {
			return fail(StatusUnhandledOutcome, cerr)
		}
		res.Outcome = outcome

		if outcome != Molecule || res.Extended >= sc.cfg.MaxExtensions {
			break
		}

		dt, aerr := sc.simulator.Advance(elapsed, elapsed+sc.cfg.ExtensionTime, sc.simulator.LastStep())
		res.Steps += sc.simulator.Steps()
		if aerr != nil {
			return fail(StatusIntegrationFailed, aerr)
		}
		elapsed += dt
		res.Extended++
	}

	res.Status = StatusOK
	return res, nil
}
