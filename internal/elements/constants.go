package elements

import "fmt"

// Physical constants in atomic units unless noted.
const (
	ElectronMass   = 1.0
	AtomicMassUnit = 1822.888486209
	ProtonMass     = 1836.15267343

	// HartreeEV converts hartree to electron volts.
	HartreeEV = 27.211383

	// BohrRadiusSquaredCm2 is a0^2 in cm^2.
	BohrRadiusSquaredCm2 = 2.80028520e-17
)

// isotope masses of the most abundant isotope, in unified atomic mass units
var isotopeMass = [...]float64{
	0,
	1.00782503207, 4.00260325415, 7.0160034366, 9.012183065, 11.00930536,
	12.0, 14.00307400443, 15.99491461957, 18.99840316273, 19.9924401762,
	22.989769282, 23.985041697, 26.98153853, 27.97692653465, 30.97376199842,
	31.9720711744, 34.968852682, 39.9623831237,
}

// IsotopeMass returns the atomic mass (u) of e's most abundant isotope.
func IsotopeMass(e Element) (float64, error) {
	if !e.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedElement, int(e))
	}
	return isotopeMass[e], nil
}

// NucleusMass converts a neutral atomic mass (u) to the bare nucleus mass
// in atomic units by removing the electrons.
func NucleusMass(e Element, atomicMass float64) (float64, error) {
	if !e.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedElement, int(e))
	}
	if atomicMass <= 0 {
		return 0, fmt.Errorf("elements: atomic mass must be positive, got %g", atomicMass)
	}
	m := atomicMass*AtomicMassUnit - float64(e.AtomicNumber())*ElectronMass
	if m <= 0 {
		return 0, fmt.Errorf("elements: atomic mass %g too small for %s", atomicMass, e)
	}
	return m, nil
}

// ReducedMass is m1*m2/(m1+m2).
func ReducedMass(m1, m2 float64) float64 {
	return m1 * m2 / (m1 + m2)
}
