package collision

import (
	"fmt"
	"strings"
)

// Outcome is the reaction channel of a completed round.
type Outcome uint8

const (
	NoOutcome Outcome = iota
	Elastic
	Capture
	Ionization
	Molecule
	SingleCapture
	SingleIonization
	DoubleCapture
	DoubleIonization
	TransferIonization
)

var outcomeNames = [...]string{
	NoOutcome:          "none",
	Elastic:            "elastic",
	Capture:            "capture",
	Ionization:         "ionization",
	Molecule:           "molecule",
	SingleCapture:      "single-capture",
	SingleIonization:   "single-ionization",
	DoubleCapture:      "double-capture",
	DoubleIonization:   "double-ionization",
	TransferIonization: "transfer-ionization",
}

// Outcomes lists every reaction channel in display order.
func Outcomes() []Outcome {
	return []Outcome{
		Elastic, Capture, Ionization, Molecule,
		SingleCapture, SingleIonization, DoubleCapture, DoubleIonization, TransferIonization,
	}
}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("Outcome(%d)", uint8(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(text []byte) error {
	s := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range outcomeNames {
		if name == s {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("collision: unknown outcome %q", s)
}

// Status is how a round ended.
type Status uint8

const (
	StatusOK Status = iota
	StatusSkipped
	StatusDistanceNotReached
	StatusEnergyViolation
	StatusInitialCondition
	StatusSamplerExhausted
	StatusIntegrationFailed
	StatusUnhandledOutcome
)

var statusNames = [...]string{
	StatusOK:                 "ok",
	StatusSkipped:            "skipped",
	StatusDistanceNotReached: "distance-not-reached",
	StatusEnergyViolation:    "energy-violation",
	StatusInitialCondition:   "initial-condition",
	StatusSamplerExhausted:   "sampler-exhausted",
	StatusIntegrationFailed:  "integration-failed",
	StatusUnhandledOutcome:   "unhandled-outcome",
}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(text []byte) error {
	v := strings.ToLower(strings.TrimSpace(string(text)))
	for i, name := range statusNames {
		if name == v {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("collision: unknown status %q", v)
}

// Failed reports whether the round ended in an error.
func (s Status) Failed() bool { return s != StatusOK && s != StatusSkipped }
