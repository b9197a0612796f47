package elements

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/ctmcsim/internal/vec"
)

// CohenOrbit is the fixed Kirschbaum-Wilets ground-state placement of one
// electron, in spherical coordinates relative to the nucleus.
type CohenOrbit struct {
	R, Theta, Phi   float64
	P, PTheta, PPhi float64
	SpinUp          bool
}

// Position returns the Cartesian offset from the nucleus.
func (o CohenOrbit) Position() r3.Vec {
	return vec.FromSpherical(o.R, o.Theta, o.Phi)
}

// Momentum returns the Cartesian momentum.
func (o CohenOrbit) Momentum() r3.Vec {
	return vec.FromSpherical(o.P, o.PTheta, o.PPhi)
}

type cohenKey struct {
	element Element
	orbit   string
}

var cohen = map[cohenKey]CohenOrbit{
	{H, "1s1"}: {R: 1.0000, P: 0.9535, SpinUp: true},

	{He, "1s1"}: {R: 0.5714, P: 1.6686, SpinUp: true},
	{He, "1s2"}: {R: 0.5714, Theta: math.Pi, P: 1.6686, PTheta: math.Pi, SpinUp: false},
}

// Cohen looks up the fixed placement of orbit in configuration e.
func Cohen(e Element, orbit string) (CohenOrbit, error) {
	o, ok := cohen[cohenKey{e, orbit}]
	if !ok {
		return CohenOrbit{}, fmt.Errorf("%w: %s %s", ErrNoCohenOrbit, e, orbit)
	}
	return o, nil
}
