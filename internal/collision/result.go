package collision

import (
	"time"

	"github.com/san-kum/ctmcsim/internal/metrics"
)

// RoundResult is the record of one Monte Carlo round.
type RoundResult struct {
	Round           int     `json:"round"`
	ImpactParameter float64 `json:"impact_parameter"`
	Outcome         Outcome `json:"outcome"`
	Status          Status  `json:"status"`
	// Extended counts the extension runs a molecule outcome needed.
	Extended       int     `json:"extended"`
	Time           float64 `json:"time"`
	EnergyError    float64 `json:"energy_error"`
	MaxEnergyDrift float64 `json:"max_energy_drift"`
	Steps          int     `json:"steps"`
	Tracked        bool    `json:"tracked"`
}

// Tally accumulates round results into per-channel counts.
type Tally struct {
	B2Max    float64         `json:"b2max"`
	Outcomes map[Outcome]int `json:"outcomes"`
	Statuses map[Status]int  `json:"statuses"`
	Extended int             `json:"extended"`
}

func NewTally(b2max float64) *Tally {
	return &Tally{
		B2Max:    b2max,
		Outcomes: make(map[Outcome]int),
		Statuses: make(map[Status]int),
	}
}

func (t *Tally) Add(r RoundResult) {
	t.Statuses[r.Status]++
	if r.Status != StatusOK {
		return
	}
	t.Outcomes[r.Outcome]++
	if r.Extended > 0 {
		t.Extended++
	}
}

// Successful counts classified rounds.
func (t *Tally) Successful() int { return t.Statuses[StatusOK] }

// Failed counts rounds that ended in an error.
func (t *Tally) Failed() int {
	n := 0
	for s, c := range t.Statuses {
		if s.Failed() {
			n += c
		}
	}
	return n
}

func (t *Tally) Count(o Outcome) int { return t.Outcomes[o] }

// Estimate is the probability and cross section of o over the
// successful rounds.
func (t *Tally) Estimate(o Outcome) metrics.Estimate {
	return metrics.CrossSection(t.Outcomes[o], t.Successful(), t.B2Max)
}

// ChannelEstimate pairs an outcome with its estimate.
type ChannelEstimate struct {
	Outcome Outcome `json:"outcome"`
	metrics.Estimate
}

// Estimates lists every observed channel in display order.
func (t *Tally) Estimates() []ChannelEstimate {
	var out []ChannelEstimate
	for _, o := range Outcomes() {
		if t.Outcomes[o] > 0 {
			out = append(out, ChannelEstimate{Outcome: o, Estimate: t.Estimate(o)})
		}
	}
	return out
}

// Result is a finished experiment. Rounds are in round order.
type Result struct {
	Config   Config        `json:"-"`
	Rounds   []RoundResult `json:"rounds"`
	Tally    *Tally        `json:"tally"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
}
