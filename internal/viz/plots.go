package viz

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ctmcsim/internal/collision"
	"github.com/san-kum/ctmcsim/internal/metrics"
)

// PlotSize is the asciigraph area.
type PlotSize struct {
	Width, Height int
}

var DefaultPlotSize = PlotSize{Width: 60, Height: 12}

const noData = "no data\n"

// ImpactHistogram bins the impact parameters of successful rounds ending
// in outcome, or of every successful round when outcome is NoOutcome.
func ImpactHistogram(rounds []collision.RoundResult, outcome collision.Outcome, bins int, size PlotSize) string {
	var b []float64
	for _, r := range rounds {
		if r.Status != collision.StatusOK {
			continue
		}
		if outcome != collision.NoOutcome && r.Outcome != outcome {
			continue
		}
		b = append(b, r.ImpactParameter)
	}
	if len(b) == 0 {
		return noData
	}

	centres, counts := metrics.Histogram(b, bins)
	s := metrics.Summarize(b)
	caption := fmt.Sprintf("b histogram (%s), %d rounds, b in [%.3f, %.3f], mean %.3f",
		label(outcome), s.N, centres[0], centres[len(centres)-1], s.Mean)
	return asciigraph.Plot(counts,
		asciigraph.Width(size.Width),
		asciigraph.Height(size.Height),
		asciigraph.Precision(0),
		asciigraph.LowerBound(0),
		asciigraph.Caption(caption),
	) + "\n"
}

// RunningRate is the probability of outcome after each successful round,
// in round order.
func RunningRate(rounds []collision.RoundResult, outcome collision.Outcome) []float64 {
	var rates []float64
	count, total := 0, 0
	for _, r := range rounds {
		if r.Status != collision.StatusOK {
			continue
		}
		total++
		if r.Outcome == outcome {
			count++
		}
		rates = append(rates, float64(count)/float64(total))
	}
	return rates
}

// RateConvergence plots RunningRate.
func RateConvergence(rounds []collision.RoundResult, outcome collision.Outcome, size PlotSize) string {
	rates := RunningRate(rounds, outcome)
	if len(rates) == 0 {
		return noData
	}
	return asciigraph.Plot(rates,
		asciigraph.Width(size.Width),
		asciigraph.Height(size.Height),
		asciigraph.Precision(3),
		asciigraph.LowerBound(0),
		asciigraph.Caption(fmt.Sprintf("P(%s) = %.4f after %d rounds", outcome, rates[len(rates)-1], len(rates))),
	) + "\n"
}

// energyFloor stands in for an exactly conserved energy on the log axis.
const energyFloor = -16

// EnergyErrors plots log10 of the relative energy error of every
// integrated round.
func EnergyErrors(rounds []collision.RoundResult, size PlotSize) string {
	var logs []float64
	for _, r := range rounds {
		if r.Status != collision.StatusOK && r.Status != collision.StatusEnergyViolation {
			continue
		}
		v := float64(energyFloor)
		if r.EnergyError > 0 {
			v = math.Max(v, math.Log10(r.EnergyError))
		}
		logs = append(logs, v)
	}
	if len(logs) == 0 {
		return noData
	}
	s := metrics.Summarize(logs)
	return asciigraph.Plot(logs,
		asciigraph.Width(size.Width),
		asciigraph.Height(size.Height),
		asciigraph.Precision(1),
		asciigraph.Caption(fmt.Sprintf("log10 |dE/E| per round, max %.1f", s.Max)),
	) + "\n"
}

func label(o collision.Outcome) string {
	if o == collision.NoOutcome {
		return "all"
	}
	return o.String()
}
