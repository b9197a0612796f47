package atom

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/elements"
	"github.com/san-kum/ctmcsim/internal/physics"
)

// Spec describes an atom to build.
type Spec struct {
	// Element of the nucleus.
	Element elements.Element
	// Configuration is the element whose ground-state orbitals are
	// occupied; zero means the neutral atom.
	Configuration elements.Element
	// AtomicMass in unified atomic mass units; zero selects the most
	// abundant isotope.
	AtomicMass float64
	Model      Model
	Heisenberg HeisenbergParams
}

// Atom is a nucleus plus electrons living in a physics.System.
type Atom struct {
	sys  *physics.System
	spec Spec

	nucleus   physics.BodyID
	orbits    []string
	electrons []physics.BodyID

	nucleusMass   float64
	nucleusCharge float64
	reducedMass   float64

	interactions []physics.InteractionID
	created      bool

	sampler Sampler
}

// New creates the atom's bodies and interactions in sys and installs the
// canonical ground state.
func New(sys *physics.System, spec Spec) (*Atom, error) {
	if !spec.Element.Valid() {
		return nil, fmt.Errorf("%w: %d", elements.ErrUnsupportedElement, int(spec.Element))
	}
	if spec.Configuration == 0 {
		spec.Configuration = spec.Element
	}
	if spec.AtomicMass == 0 {
		m, err := elements.IsotopeMass(spec.Element)
		if err != nil {
			return nil, err
		}
		spec.AtomicMass = m
	}
	spec.Heisenberg = spec.Heisenberg.orDefault()

	orbits, err := elements.Orbitals(spec.Configuration)
	if err != nil {
		return nil, err
	}
	if len(orbits) == 0 {
		return nil, fmt.Errorf("%w: %s has no orbitals", ErrInvalidConfiguration, spec.Configuration)
	}

	sampler, err := samplerFor(spec, orbits)
	if err != nil {
		return nil, err
	}

	mass, err := elements.NucleusMass(spec.Element, spec.AtomicMass)
	if err != nil {
		return nil, err
	}

	a := &Atom{
		sys:           sys,
		spec:          spec,
		orbits:        orbits,
		nucleusMass:   mass,
		nucleusCharge: float64(spec.Element.AtomicNumber()),
		reducedMass:   elements.ReducedMass(elements.ElectronMass, mass),
		sampler:       sampler,
	}

	a.nucleus = sys.CreateBody(mass)
	a.electrons = make([]physics.BodyID, len(orbits))
	for i := range orbits {
		a.electrons[i] = sys.CreateBody(elements.ElectronMass)
	}

	if err := a.CreateInteractions(); err != nil {
		return nil, err
	}
	a.Install()
	return a, nil
}

func samplerFor(spec Spec, orbits []string) (Sampler, error) {
	switch spec.Model {
	case Kepler:
		if len(orbits) > 2 || spec.Configuration.AtomicNumber() > 2 {
			return nil, fmt.Errorf("%w: kepler model supports H and He configurations, got %s",
				ErrInvalidConfiguration, spec.Configuration)
		}
		return KeplerSampler{}, nil
	case Cohen:
		for _, orbit := range orbits {
			if _, err := elements.Cohen(spec.Configuration, orbit); err != nil {
				return nil, err
			}
		}
		return CohenSampler{}, nil
	}
	return nil, fmt.Errorf("atom: unknown model %d", uint8(spec.Model))
}

func (a *Atom) System() *physics.System { return a.sys }
func (a *Atom) Spec() Spec              { return a.spec }
func (a *Atom) Nucleus() physics.BodyID { return a.nucleus }
func (a *Atom) NucleusMass() float64    { return a.nucleusMass }
func (a *Atom) NucleusCharge() float64  { return a.nucleusCharge }
func (a *Atom) ReducedMass() float64    { return a.reducedMass }
func (a *Atom) Sampler() Sampler        { return a.sampler }
func (a *Atom) SetSampler(s Sampler)    { a.sampler = s }
func (a *Atom) Orbits() []string        { return append([]string(nil), a.orbits...) }
func (a *Atom) Electrons() []physics.BodyID {
	return append([]physics.BodyID(nil), a.electrons...)
}

// Electron returns the body occupying orbit.
func (a *Atom) Electron(orbit string) (physics.BodyID, error) {
	for i, name := range a.orbits {
		if name == orbit {
			return a.electrons[i], nil
		}
	}
	return -1, fmt.Errorf("%w: %s in %s", ErrUnknownOrbit, orbit, a.spec.Configuration)
}

// Bodies lists the electrons followed by the nucleus.
func (a *Atom) Bodies() []physics.BodyID {
	return append(a.Electrons(), a.nucleus)
}

// CreateInteractions registers one Coulomb interaction per electron pair,
// one per electron-nucleus pair and, for the Cohen model, one Heisenberg
// interaction per electron-nucleus pair.
func (a *Atom) CreateInteractions() error {
	if a.created {
		return ErrInteractionsExist
	}

	var list []physics.Interaction
	for i, e1 := range a.electrons {
		for _, e2 := range a.electrons[i+1:] {
			list = append(list, physics.NewCoulomb(1, e1, e2))
		}
		list = append(list, physics.NewCoulomb(-a.nucleusCharge, a.nucleus, e1))
		if a.spec.Model == Cohen {
			h := a.spec.Heisenberg
			list = append(list, physics.NewHeisenberg(h.Alpha, h.Xi, a.nucleus, e1))
		}
	}

	ids := make([]physics.InteractionID, 0, len(list))
	for _, in := range list {
		id, err := a.sys.AddInteraction(in)
		if err != nil {
			for _, done := range ids {
				_ = a.sys.RemoveInteraction(done)
			}
			return fmt.Errorf("atom: create interactions: %w", err)
		}
		ids = append(ids, id)
	}

	a.interactions = ids
	a.created = true
	return nil
}

// ClearInteractions detaches every interaction the atom created.
func (a *Atom) ClearInteractions() error {
	for _, id := range a.interactions {
		if err := a.sys.RemoveInteraction(id); err != nil {
			return err
		}
	}
	a.interactions = nil
	a.created = false
	return nil
}

func (a *Atom) Interactions() []physics.InteractionID {
	return append([]physics.InteractionID(nil), a.interactions...)
}

// Install places the electrons in the model's canonical ground state with
// the atom at rest at the origin.
func (a *Atom) Install() { a.sampler.Install(a) }

// Randomize draws a new bound configuration from rng.
func (a *Atom) Randomize(rng *rand.Rand) error { return a.sampler.Randomize(a, rng) }

func (a *Atom) Mass() float64    { return a.sys.Mass(a.Bodies()) }
func (a *Atom) Position() r3.Vec { return a.sys.CenterOfMass(a.Bodies()) }
func (a *Atom) Impulse() r3.Vec  { return a.sys.Impulse(a.Bodies()) }
func (a *Atom) Velocity() r3.Vec { return r3.Scale(1/a.Mass(), a.Impulse()) }

// SetPosition translates every body so the centre of mass lands on p.
func (a *Atom) SetPosition(p r3.Vec) {
	delta := r3.Sub(p, a.Position())
	for _, id := range a.Bodies() {
		a.sys.SetBodyPosition(id, r3.Add(a.sys.BodyPosition(id), delta))
	}
}

// SetVelocity boosts every body so the centre of mass moves at v.
func (a *Atom) SetVelocity(v r3.Vec) {
	delta := r3.Sub(v, a.Velocity())
	for _, id := range a.Bodies() {
		a.sys.SetBodyVelocity(id, r3.Add(a.sys.BodyVelocity(id), delta))
	}
}

// Energy is the internal energy: kinetic energy relative to the centre of
// mass plus every interaction between the atom's own bodies.
func (a *Atom) Energy() float64 {
	bodies := a.Bodies()
	ref := a.Velocity()

	e := 0.0
	for i, b1 := range bodies {
		e += a.sys.KineticEnergyReferenced(b1, ref)
		for _, b2 := range bodies[i+1:] {
			e += a.sys.PairPotentialEnergy(b1, b2)
		}
	}
	return e
}

// OrbitalEnergy is the two-body energy of orbit's electron and the nucleus.
func (a *Atom) OrbitalEnergy(orbit string) (float64, error) {
	e, err := a.Electron(orbit)
	if err != nil {
		return 0, err
	}
	return a.sys.TwoBodyEnergy(a.nucleus, e), nil
}

// IonizationEnergy is the energy needed to free orbit's electron.
func (a *Atom) IonizationEnergy(orbit string) (float64, error) {
	e, err := a.OrbitalEnergy(orbit)
	return -e, err
}

// OrbitalAngularMomentum of orbit's electron about the nucleus, mu r x v.
func (a *Atom) OrbitalAngularMomentum(orbit string) (r3.Vec, error) {
	e, err := a.Electron(orbit)
	if err != nil {
		return r3.Vec{}, err
	}
	r := r3.Sub(a.sys.BodyPosition(e), a.sys.BodyPosition(a.nucleus))
	v := r3.Sub(a.sys.BodyVelocity(e), a.sys.BodyVelocity(a.nucleus))
	return r3.Scale(a.reducedMass, r3.Cross(r, v)), nil
}
