package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/dynamo"
)

// Kind selects the force law of an Interaction.
type Kind uint8

const (
	Coulomb Kind = iota + 1
	Heisenberg
)

func (k Kind) String() string {
	switch k {
	case Coulomb:
		return "coulomb"
	case Heisenberg:
		return "heisenberg"
	default:
		return "unknown"
	}
}

// Interaction is a pairwise force law bound to two bodies for its whole
// lifetime. Earth is the heavier reference body, Moon the lighter one.
// Relative quantities are always Moon minus Earth.
type Interaction struct {
	Kind  Kind
	Earth BodyID
	Moon  BodyID

	// Coulomb
	ChargeProduct float64

	// Heisenberg
	Alpha float64
	Xi    float64

	earthMass   float64
	moonMass    float64
	reducedMass float64
	xi2, xi4    float64
	removed     bool
}

// NewCoulomb returns a Coulomb interaction; a positive charge product is
// repulsive.
func NewCoulomb(chargeProduct float64, earth, moon BodyID) Interaction {
	return Interaction{Kind: Coulomb, Earth: earth, Moon: moon, ChargeProduct: chargeProduct}
}

// NewHeisenberg returns a Kirschbaum-Wilets constraining interaction.
func NewHeisenberg(alpha, xi float64, earth, moon BodyID) Interaction {
	return Interaction{
		Kind:  Heisenberg,
		Earth: earth,
		Moon:  moon,
		Alpha: alpha,
		Xi:    xi,
		xi2:   xi * xi,
		xi4:   xi * xi * xi * xi,
	}
}

// ReducedMass of the bound pair, valid once registered with a System.
func (in Interaction) ReducedMass() float64 { return in.reducedMass }

// Binds reports whether the interaction acts between a and b.
func (in Interaction) Binds(a, b BodyID) bool {
	return (in.Earth == a && in.Moon == b) || (in.Earth == b && in.Moon == a)
}

// Involves reports whether body is one of the two bound bodies.
func (in Interaction) Involves(body BodyID) bool {
	return in.Earth == body || in.Moon == body
}

func (in *Interaction) setMasses(earthMass, moonMass float64) {
	in.earthMass = earthMass
	in.moonMass = moonMass
	in.reducedMass = earthMass * moonMass / (earthMass + moonMass)
}

func (in *Interaction) relative(x dynamo.State) (r, v r3.Vec) {
	e, m := offset(in.Earth), offset(in.Moon)
	r = r3.Vec{X: x[m] - x[e], Y: x[m+1] - x[e+1], Z: x[m+2] - x[e+2]}
	v = r3.Vec{X: x[m+3] - x[e+3], Y: x[m+4] - x[e+4], Z: x[m+5] - x[e+5]}
	return r, v
}

// apply adds the interaction's contribution to dxdt.
func (in *Interaction) apply(x, dxdt dynamo.State) {
	switch in.Kind {
	case Coulomb:
		r, _ := in.relative(x)
		r2 := r3.Dot(r, r)
		force := r3.Scale(in.ChargeProduct/(r2*math.Sqrt(r2)), r)
		in.addAcceleration(dxdt, force)

	case Heisenberg:
		r, v := in.relative(x)
		mu := in.reducedMass
		r2 := r3.Dot(r, r)
		r4 := r2 * r2
		p2 := mu * mu * r3.Dot(v, v)
		p4 := p2 * p2

		exponent := math.Exp(in.Alpha * (1 - r4*p4/in.xi4))
		factor := in.xi2*exponent/(2*in.Alpha*mu*r4) + p4*exponent/(in.xi2*mu)
		in.addAcceleration(dxdt, r3.Scale(factor, r))

		// dH/dp of the constraining potential feeds back into the
		// relative position rate.
		collateral := r3.Scale(-p2*exponent*r2/in.xi2, v)
		in.addDrift(dxdt, r3.Scale(mu, collateral))
	}
}

// addAcceleration applies force to Moon and its negation to Earth.
func (in *Interaction) addAcceleration(dxdt dynamo.State, force r3.Vec) {
	e, m := offset(in.Earth)+3, offset(in.Moon)+3
	dxdt[m] += force.X / in.moonMass
	dxdt[m+1] += force.Y / in.moonMass
	dxdt[m+2] += force.Z / in.moonMass
	dxdt[e] -= force.X / in.earthMass
	dxdt[e+1] -= force.Y / in.earthMass
	dxdt[e+2] -= force.Z / in.earthMass
}

// addDrift is the position-rate analogue of addAcceleration.
func (in *Interaction) addDrift(dxdt dynamo.State, g r3.Vec) {
	e, m := offset(in.Earth), offset(in.Moon)
	dxdt[m] += g.X / in.moonMass
	dxdt[m+1] += g.Y / in.moonMass
	dxdt[m+2] += g.Z / in.moonMass
	dxdt[e] -= g.X / in.earthMass
	dxdt[e+1] -= g.Y / in.earthMass
	dxdt[e+2] -= g.Z / in.earthMass
}

// energy returns the potential (or pseudo-potential) energy.
func (in *Interaction) energy(x dynamo.State) float64 {
	switch in.Kind {
	case Coulomb:
		r, _ := in.relative(x)
		return in.ChargeProduct / r3.Norm(r)

	case Heisenberg:
		r, v := in.relative(x)
		mu := in.reducedMass
		r2 := r3.Dot(r, r)
		p2 := mu * mu * r3.Dot(v, v)
		return in.xi2 * math.Exp(in.Alpha*(1-r2*r2*p2*p2/in.xi4)) / (4 * in.Alpha * r2 * mu)
	}
	return 0
}
