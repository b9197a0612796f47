package atom

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/elements"
	"github.com/san-kum/ctmcsim/internal/vec"
)

// Sampler places an atom's electrons.
type Sampler interface {
	// Install writes the canonical ground state, atom at rest at the origin.
	Install(a *Atom)
	// Randomize draws a bound configuration around the current nucleus.
	Randomize(a *Atom, rng *rand.Rand) error
}

const (
	// KeplerTolerance is the convergence threshold on the eccentric anomaly.
	KeplerTolerance = 1e-10
	// KeplerIterations bounds one Newton run.
	KeplerIterations = 100
	// MaxKeplerRestarts bounds the number of reseeded Newton runs.
	MaxKeplerRestarts = 1000
)

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// randomEuler draws a uniformly distributed orientation.
func randomEuler(rng *rand.Rand) vec.Euler {
	phi := uniform(rng, -math.Pi, math.Pi)
	theta := math.Acos(uniform(rng, -1, 1))
	eta := uniform(rng, -math.Pi, math.Pi)
	return vec.Euler{Phi: phi, Theta: theta, Eta: eta}
}

// SolveKepler solves u - eps*sin(u) = meanAnomaly for the eccentric
// anomaly u by Newton iteration from a random seed in [0.1, 6.0),
// reseeding until convergence or MaxKeplerRestarts.
func SolveKepler(meanAnomaly, eps float64, rng *rand.Rand) (float64, error) {
	for restart := 0; restart < MaxKeplerRestarts; restart++ {
		u := uniform(rng, 0.1, 6.0)
		for i := 0; i < KeplerIterations; i++ {
			prev := u
			u = u - (meanAnomaly+eps*math.Sin(u)-u)/(eps*math.Cos(u)-1)
			if math.Abs(prev-u) <= KeplerTolerance {
				return u, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: mean anomaly %g, eccentricity %g", ErrSamplerExhausted, meanAnomaly, eps)
}

// KeplerSampler is the Abrines-Percival microcanonical sampler. Every
// sample has the hydrogen-like ground energy -mu*Z^2/2 per electron.
// A second electron is the point mirror of the first.
type KeplerSampler struct{}

func (KeplerSampler) Install(a *Atom) {
	z := a.nucleusCharge
	r := r3.Vec{Y: 1 / (a.reducedMass * z)}
	v := r3.Vec{Z: z}

	a.sys.SetBodyPosition(a.nucleus, vec.Zero)
	a.sys.SetBodyVelocity(a.nucleus, vec.Zero)
	placeMirrored(a, r, v)

	a.SetPosition(vec.Zero)
	a.SetVelocity(vec.Zero)
}

func (KeplerSampler) Randomize(a *Atom, rng *rand.Rand) error {
	rot := vec.Euler{
		Phi: uniform(rng, -math.Pi, math.Pi),
		Eta: uniform(rng, -math.Pi, math.Pi),
	}
	rot.Theta = math.Acos(uniform(rng, -1, 1))
	eps := math.Sqrt(rng.Float64())
	meanAnomaly := uniform(rng, 0, 2*math.Pi)

	u, err := SolveKepler(meanAnomaly, eps, rng)
	if err != nil {
		return err
	}

	mu, z := a.reducedMass, a.nucleusCharge
	semiMajor := 1 / (mu * z)
	momentum := mu * z

	sinU, cosU := math.Sincos(u)
	root := math.Sqrt(1 - eps*eps)
	denom := 1 - eps*cosU

	c00 := r3.Vec{Y: semiMajor * root * sinU, Z: semiMajor * (cosU - eps)}
	p00 := r3.Vec{Y: momentum * root * cosU / denom, Z: -momentum * sinU / denom}

	placeMirrored(a, rot.Rotate(c00), r3.Scale(1/mu, rot.Rotate(p00)))
	return nil
}

// placeMirrored puts the first electron at nucleus+r moving at
// nucleus+v and the second, if any, at nucleus-r moving at nucleus-v.
func placeMirrored(a *Atom, r, v r3.Vec) {
	np := a.sys.BodyPosition(a.nucleus)
	nv := a.sys.BodyVelocity(a.nucleus)
	for i, e := range a.electrons {
		sign := 1.0
		if i%2 == 1 {
			sign = -1
		}
		a.sys.SetBodyPosition(e, r3.Add(np, r3.Scale(sign, r)))
		a.sys.SetBodyVelocity(e, r3.Add(nv, r3.Scale(sign, v)))
	}
}

// CohenSampler seeds the Kirschbaum-Wilets ground state from the Cohen
// table and randomizes only its orientation.
type CohenSampler struct{}

func (CohenSampler) Install(a *Atom) {
	placeCohen(a, vec.Euler{})
}

func (CohenSampler) Randomize(a *Atom, rng *rand.Rand) error {
	placeCohen(a, randomEuler(rng))
	return nil
}

// placeCohen writes the table configuration rotated by rot. Table momenta
// are relative momenta, so electron velocities are p/mu.
func placeCohen(a *Atom, rot vec.Euler) {
	a.sys.SetBodyPosition(a.nucleus, vec.Zero)
	a.sys.SetBodyVelocity(a.nucleus, vec.Zero)

	for i, orbit := range a.orbits {
		o, err := elements.Cohen(a.spec.Configuration, orbit)
		if err != nil {
			// checked in New
			panic(err)
		}
		a.sys.SetBodyPosition(a.electrons[i], rot.Rotate(o.Position()))
		a.sys.SetBodyVelocity(a.electrons[i], r3.Scale(1/a.reducedMass, rot.Rotate(o.Momentum())))
	}

	a.SetPosition(vec.Zero)
	a.SetVelocity(vec.Zero)
}
