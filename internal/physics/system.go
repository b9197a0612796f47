package physics

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/dynamo"
)

// BodyID is a System-scoped handle, stable for the System's lifetime.
type BodyID int

// InteractionID indexes the System's interaction arena.
type InteractionID int

// stride is the number of phase entries per body: x, y, z, vx, vy, vz.
const stride = 6

func offset(id BodyID) int { return int(id) * stride }

var (
	ErrUnknownBody        = errors.New("physics: unknown body")
	ErrUnknownInteraction = errors.New("physics: unknown interaction")
	ErrSelfInteraction    = errors.New("physics: interaction must bind two distinct bodies")
)

// System is a classical N-body system of point masses coupled by pairwise
// interactions. It owns both the bodies and the interaction arena.
//
// Bodies are never removed. Interactions can be detached by their owner;
// detached slots are kept so that InteractionIDs stay valid.
type System struct {
	masses       []float64
	phase        dynamo.State
	interactions []Interaction
}

func NewSystem() *System {
	return &System{}
}

// CreateBody appends a body at rest at the origin. Mass must be positive.
func (s *System) CreateBody(mass float64) BodyID {
	if mass <= 0 {
		panic(fmt.Sprintf("physics: body mass must be positive, got %g", mass))
	}
	id := BodyID(len(s.masses))
	s.masses = append(s.masses, mass)
	s.phase = append(s.phase, 0, 0, 0, 0, 0, 0)
	return id
}

// Bodies returns the number of bodies.
func (s *System) Bodies() int { return len(s.masses) }

func (s *System) StateDim() int { return len(s.phase) }

func (s *System) valid(id BodyID) bool {
	return id >= 0 && int(id) < len(s.masses)
}

// SetBodyMass reassigns a mass and refreshes every interaction touching
// the body.
func (s *System) SetBodyMass(id BodyID, mass float64) error {
	if !s.valid(id) {
		return fmt.Errorf("%w: %d", ErrUnknownBody, id)
	}
	if mass <= 0 {
		return fmt.Errorf("physics: body mass must be positive, got %g", mass)
	}
	s.masses[id] = mass
	for i := range s.interactions {
		in := &s.interactions[i]
		if in.Involves(id) {
			in.setMasses(s.masses[in.Earth], s.masses[in.Moon])
		}
	}
	return nil
}

func (s *System) BodyMass(id BodyID) float64 { return s.masses[id] }

// AddInteraction registers in and returns its handle.
func (s *System) AddInteraction(in Interaction) (InteractionID, error) {
	if !s.valid(in.Earth) || !s.valid(in.Moon) {
		return -1, fmt.Errorf("%w: interaction %s(%d, %d)", ErrUnknownBody, in.Kind, in.Earth, in.Moon)
	}
	if in.Earth == in.Moon {
		return -1, ErrSelfInteraction
	}
	in.setMasses(s.masses[in.Earth], s.masses[in.Moon])
	in.removed = false
	s.interactions = append(s.interactions, in)
	return InteractionID(len(s.interactions) - 1), nil
}

// RemoveInteraction detaches an interaction. Its slot is not reused.
func (s *System) RemoveInteraction(id InteractionID) error {
	if id < 0 || int(id) >= len(s.interactions) {
		return fmt.Errorf("%w: %d", ErrUnknownInteraction, id)
	}
	s.interactions[id].removed = true
	return nil
}

// Interaction returns a copy of the record behind id.
func (s *System) Interaction(id InteractionID) (Interaction, bool) {
	if id < 0 || int(id) >= len(s.interactions) || s.interactions[id].removed {
		return Interaction{}, false
	}
	return s.interactions[id], true
}

// ActiveInteractions counts interactions that have not been removed.
func (s *System) ActiveInteractions() int {
	n := 0
	for i := range s.interactions {
		if !s.interactions[i].removed {
			n++
		}
	}
	return n
}

// Derive implements dynamo.System.
func (s *System) Derive(x dynamo.State, t float64) dynamo.State {
	dxdt := make(dynamo.State, len(x))
	for b := range s.masses {
		o := b * stride
		dxdt[o] = x[o+3]
		dxdt[o+1] = x[o+4]
		dxdt[o+2] = x[o+5]
	}
	for i := range s.interactions {
		if !s.interactions[i].removed {
			s.interactions[i].apply(x, dxdt)
		}
	}
	return dxdt
}

// Phase returns the live phase vector. Callers must not retain it across
// SetPhase calls.
func (s *System) Phase() dynamo.State { return s.phase }

// SetPhase copies x into the system.
func (s *System) SetPhase(x dynamo.State) {
	if len(x) != len(s.phase) {
		panic(fmt.Sprintf("physics: phase length %d, system has %d", len(x), len(s.phase)))
	}
	copy(s.phase, x)
}

func position(x dynamo.State, id BodyID) r3.Vec {
	o := offset(id)
	return r3.Vec{X: x[o], Y: x[o+1], Z: x[o+2]}
}

func velocity(x dynamo.State, id BodyID) r3.Vec {
	o := offset(id) + 3
	return r3.Vec{X: x[o], Y: x[o+1], Z: x[o+2]}
}

func (s *System) BodyPosition(id BodyID) r3.Vec { return position(s.phase, id) }
func (s *System) BodyVelocity(id BodyID) r3.Vec { return velocity(s.phase, id) }

func (s *System) SetBodyPosition(id BodyID, p r3.Vec) {
	o := offset(id)
	s.phase[o], s.phase[o+1], s.phase[o+2] = p.X, p.Y, p.Z
}

func (s *System) SetBodyVelocity(id BodyID, v r3.Vec) {
	o := offset(id) + 3
	s.phase[o], s.phase[o+1], s.phase[o+2] = v.X, v.Y, v.Z
}

// Energy implements dynamo.Hamiltonian: lab-frame kinetic energy plus
// every interaction energy.
func (s *System) Energy(x dynamo.State) float64 {
	e := 0.0
	for b, m := range s.masses {
		v := velocity(x, BodyID(b))
		e += 0.5 * m * r3.Dot(v, v)
	}
	for i := range s.interactions {
		if !s.interactions[i].removed {
			e += s.interactions[i].energy(x)
		}
	}
	return e
}

// SystemEnergy is Energy at the current phase.
func (s *System) SystemEnergy() float64 { return s.Energy(s.phase) }

// PairPotentialEnergy sums every live interaction binding a and b.
func (s *System) PairPotentialEnergy(a, b BodyID) float64 {
	e := 0.0
	for i := range s.interactions {
		in := &s.interactions[i]
		if !in.removed && in.Binds(a, b) {
			e += in.energy(s.phase)
		}
	}
	return e
}

// KineticEnergyReferenced is the kinetic energy of body in a frame moving
// at ref.
func (s *System) KineticEnergyReferenced(id BodyID, ref r3.Vec) float64 {
	v := r3.Sub(s.BodyVelocity(id), ref)
	return 0.5 * s.masses[id] * r3.Dot(v, v)
}

// TwoBodyEnergy is the energy of the a-b pair in its own centre of mass
// frame: relative kinetic energy plus their pair potential.
func (s *System) TwoBodyEnergy(a, b BodyID) float64 {
	mu := s.masses[a] * s.masses[b] / (s.masses[a] + s.masses[b])
	v := r3.Sub(s.BodyVelocity(a), s.BodyVelocity(b))
	return 0.5*mu*r3.Dot(v, v) + s.PairPotentialEnergy(a, b)
}

// IsBound reports whether a and b form a bound pair.
func (s *System) IsBound(a, b BodyID) bool {
	return s.TwoBodyEnergy(a, b) < 0
}

// Mass is the total mass of ids.
func (s *System) Mass(ids []BodyID) float64 {
	m := 0.0
	for _, id := range ids {
		m += s.masses[id]
	}
	return m
}

// CenterOfMass of ids.
func (s *System) CenterOfMass(ids []BodyID) r3.Vec {
	var sum r3.Vec
	for _, id := range ids {
		sum = r3.Add(sum, r3.Scale(s.masses[id], s.BodyPosition(id)))
	}
	return r3.Scale(1/s.Mass(ids), sum)
}

// Impulse is the total linear momentum of ids.
func (s *System) Impulse(ids []BodyID) r3.Vec {
	var sum r3.Vec
	for _, id := range ids {
		sum = r3.Add(sum, r3.Scale(s.masses[id], s.BodyVelocity(id)))
	}
	return sum
}

// AllBodies lists every body handle.
func (s *System) AllBodies() []BodyID {
	ids := make([]BodyID, len(s.masses))
	for i := range ids {
		ids[i] = BodyID(i)
	}
	return ids
}

// Momentum is the total linear momentum of the system.
func (s *System) Momentum() r3.Vec {
	return s.Impulse(s.AllBodies())
}
