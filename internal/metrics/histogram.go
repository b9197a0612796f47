package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram bins values into n equal-width bins spanning their range and
// returns the bin centres and counts.
func Histogram(values []float64, n int) (centres, counts []float64) {
	if len(values) == 0 || n <= 0 {
		return nil, nil
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		return []float64{lo}, []float64{float64(len(sorted))}
	}

	dividers := make([]float64, n+1)
	floats.Span(dividers, lo, hi)
	// the last divider is exclusive in stat.Histogram
	dividers[n] = math.Nextafter(hi, math.Inf(1))

	counts = stat.Histogram(nil, dividers, sorted, nil)
	centres = make([]float64, n)
	for i := range centres {
		centres[i] = 0.5 * (dividers[i] + dividers[i+1])
	}
	return centres, counts
}

// Summary holds the moments of a sample.
type Summary struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if len(values) == 1 {
		std = 0
	}
	return Summary{
		N:      len(values),
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
}
