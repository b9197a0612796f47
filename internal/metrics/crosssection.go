package metrics

import (
	"math"

	"github.com/san-kum/ctmcsim/internal/elements"
)

// Estimate is a Monte Carlo probability with its cross section.
type Estimate struct {
	Count int     `json:"count"`
	Total int     `json:"total"`
	Rate  float64 `json:"rate"`
	// RateErr is the binomial standard error of Rate.
	RateErr float64 `json:"rate_err"`
	// Sigma is the cross section in atomic units (a0^2).
	Sigma    float64 `json:"sigma"`
	SigmaErr float64 `json:"sigma_err"`
	// Sigma16 is the cross section in units of 1e-16 cm^2.
	Sigma16    float64 `json:"sigma_1e16cm2"`
	Sigma16Err float64 `json:"sigma_1e16cm2_err"`
}

// Bohr radius squared in units of 1e-16 cm^2.
const a0SquaredIn1e16 = elements.BohrRadiusSquaredCm2 * 1e16

// CrossSection estimates sigma = P * pi * b2max from count events out of
// total rounds sampled uniformly in b^2 over [0, b2max].
func CrossSection(count, total int, b2max float64) Estimate {
	est := Estimate{Count: count, Total: total}
	if total == 0 {
		return est
	}

	p := float64(count) / float64(total)
	est.Rate = p
	est.RateErr = math.Sqrt(p * (1 - p) / float64(total))

	area := math.Pi * b2max
	est.Sigma = p * area
	est.SigmaErr = est.RateErr * area
	est.Sigma16 = est.Sigma * a0SquaredIn1e16
	est.Sigma16Err = est.SigmaErr * a0SquaredIn1e16
	return est
}
