package collision

import "fmt"

// Binding records which nuclei bind one electron at the end of a round.
type Binding struct {
	Target     bool
	Projectile bool
}

// electron channel of a single electron
type channel uint8

const (
	bound channel = iota
	captured
	ionized
	shared
)

func (b Binding) channel() channel {
	switch {
	case b.Target && b.Projectile:
		return shared
	case b.Target:
		return bound
	case b.Projectile:
		return captured
	default:
		return ionized
	}
}

var singleElectron = map[channel]Outcome{
	bound:    Elastic,
	captured: Capture,
	ionized:  Ionization,
	shared:   Molecule,
}

// keyed by the two channels in ascending order
var twoElectron = map[[2]channel]Outcome{
	{bound, bound}:       Elastic,
	{bound, captured}:    SingleCapture,
	{bound, ionized}:     SingleIonization,
	{captured, captured}: DoubleCapture,
	{ionized, ionized}:   DoubleIonization,
	{captured, ionized}:  TransferIonization,
}

// Classify maps the per-electron bindings of a round onto a reaction
// channel. An electron bound to both nuclei makes the round a Molecule.
// Patterns without a channel return ErrUnhandledOutcome.
func Classify(bindings []Binding) (Outcome, error) {
	switch len(bindings) {
	case 1:
		return singleElectron[bindings[0].channel()], nil

	case 2:
		a, b := bindings[0].channel(), bindings[1].channel()
		if a == shared || b == shared {
			return Molecule, nil
		}
		if a > b {
			a, b = b, a
		}
		if o, ok := twoElectron[[2]channel{a, b}]; ok {
			return o, nil
		}
	}
	return NoOutcome, fmt.Errorf("%w: %d electrons %v", ErrUnhandledOutcome, len(bindings), bindings)
}
