package atom

import (
	"fmt"
	"strings"
)

// Model selects the electron model of an atom.
type Model uint8

const (
	// Kepler is the Abrines-Percival model: bare Coulomb electrons on
	// microcanonically sampled Kepler orbits.
	Kepler Model = iota
	// Cohen is the Kirschbaum-Wilets model: Coulomb plus Heisenberg
	// constraining potential, seeded from the Cohen table.
	Cohen
)

func (m Model) String() string {
	switch m {
	case Kepler:
		return "kepler"
	case Cohen:
		return "cohen"
	default:
		return fmt.Sprintf("Model(%d)", uint8(m))
	}
}

func (m Model) MarshalText() ([]byte, error) {
	if m > Cohen {
		return nil, fmt.Errorf("atom: unknown model %d", uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *Model) UnmarshalText(text []byte) error {
	v, err := ParseModel(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// ParseModel accepts the model name or the name of its authors.
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kepler", "abrines-percival", "ap":
		return Kepler, nil
	case "cohen", "kirschbaum-wilets", "kw":
		return Cohen, nil
	}
	return 0, fmt.Errorf("atom: unknown model %q", s)
}

// HeisenbergParams are the constants of the constraining potential.
type HeisenbergParams struct {
	Alpha float64 `yaml:"alpha" json:"alpha"`
	Xi    float64 `yaml:"xi" json:"xi"`
}

// DefaultHeisenberg is the Kirschbaum-Wilets parameter set matching the
// Cohen table.
var DefaultHeisenberg = HeisenbergParams{Alpha: 5.0, Xi: 0.9535}

// IsZero reports whether no parameters were set.
func (h HeisenbergParams) IsZero() bool { return h.Alpha == 0 && h.Xi == 0 }

func (h HeisenbergParams) orDefault() HeisenbergParams {
	if h.IsZero() {
		return DefaultHeisenberg
	}
	return h
}
