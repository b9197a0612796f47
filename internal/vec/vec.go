// Package vec adds the few 3D helpers the simulator needs on top of
// gonum's r3.Vec: spherical coordinates and Euler rotations.
package vec

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Zero is the origin.
var Zero = r3.Vec{}

// FromSpherical converts (radius, polar angle, azimuth) to Cartesian.
func FromSpherical(r, theta, phi float64) r3.Vec {
	sinT, cosT := math.Sincos(theta)
	sinP, cosP := math.Sincos(phi)
	return r3.Vec{
		X: r * sinT * cosP,
		Y: r * sinT * sinP,
		Z: r * cosT,
	}
}

// ToSpherical returns (radius, polar angle, azimuth) of v.
// The angles of the zero vector are reported as 0.
func ToSpherical(v r3.Vec) (r, theta, phi float64) {
	r = r3.Norm(v)
	if r == 0 {
		return 0, 0, 0
	}
	theta = math.Acos(clamp(v.Z/r, -1, 1))
	phi = math.Atan2(v.Y, v.X)
	return r, theta, phi
}

// Euler is a z-x-z rotation: first eta about z, then theta about x,
// then phi about z.
type Euler struct {
	Phi   float64
	Theta float64
	Eta   float64
}

// Rotate applies the rotation to v.
func (e Euler) Rotate(v r3.Vec) r3.Vec {
	return rotZ(rotX(rotZ(v, e.Eta), e.Theta), e.Phi)
}

// Inverse returns the rotation undoing e.
func (e Euler) Inverse() Euler {
	return Euler{Phi: -e.Eta, Theta: -e.Theta, Eta: -e.Phi}
}

// EulerRotation rotates v by the z-x-z angles (phi, theta, eta).
func EulerRotation(v r3.Vec, phi, theta, eta float64) r3.Vec {
	return Euler{Phi: phi, Theta: theta, Eta: eta}.Rotate(v)
}

// Distance is |a - b|.
func Distance(a, b r3.Vec) float64 {
	return r3.Norm(r3.Sub(a, b))
}

func rotZ(v r3.Vec, a float64) r3.Vec {
	s, c := math.Sincos(a)
	return r3.Vec{X: c*v.X - s*v.Y, Y: s*v.X + c*v.Y, Z: v.Z}
}

func rotX(v r3.Vec, a float64) r3.Vec {
	s, c := math.Sincos(a)
	return r3.Vec{X: v.X, Y: c*v.Y - s*v.Z, Z: s*v.Y + c*v.Z}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
