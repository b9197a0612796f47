// Package elements is the read-only periodic table used by the atom
// builder: atomic numbers, symbols, ordered orbital names and the Cohen
// ground-state configurations.
//
// All tables are built once during package initialization and are never
// mutated afterwards, so they are safe for concurrent use.
package elements

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedElement indicates an atomic number outside 1..18.
	ErrUnsupportedElement = errors.New("elements: unsupported element")

	// ErrNoCohenOrbit indicates a missing Cohen configuration entry.
	ErrNoCohenOrbit = errors.New("elements: no cohen configuration for orbit")
)

// Element is an atomic species identified by its atomic number.
type Element int

const (
	H Element = iota + 1
	He
	Li
	Be
	B
	C
	N
	O
	F
	Ne
	Na
	Mg
	Al
	Si
	P
	S
	Cl
	Ar
)

// MaxAtomicNumber is the heaviest supported element.
const MaxAtomicNumber = int(Ar)

var symbols = [...]string{
	"", "H", "He", "Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
}

// AtomicNumber returns Z.
func (e Element) AtomicNumber() int { return int(e) }

// Valid reports whether e is in the supported range.
func (e Element) Valid() bool { return e >= H && e <= Ar }

// Symbol returns the chemical symbol, or "" for unsupported values.
func (e Element) Symbol() string {
	if !e.Valid() {
		return ""
	}
	return symbols[e]
}

func (e Element) String() string {
	if !e.Valid() {
		return fmt.Sprintf("Element(%d)", int(e))
	}
	return symbols[e]
}

// MarshalText implements encoding.TextMarshaler.
func (e Element) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedElement, int(e))
	}
	return []byte(symbols[e]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Element) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Parse accepts a chemical symbol (case-insensitive).
func Parse(s string) (Element, error) {
	s = strings.TrimSpace(s)
	for z := 1; z <= MaxAtomicNumber; z++ {
		if strings.EqualFold(symbols[z], s) {
			return Element(z), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedElement, s)
}

// FromAtomicNumber validates z.
func FromAtomicNumber(z int) (Element, error) {
	e := Element(z)
	if !e.Valid() {
		return 0, fmt.Errorf("%w: Z=%d", ErrUnsupportedElement, z)
	}
	return e, nil
}

// All returns every supported element in order of atomic number.
func All() []Element {
	all := make([]Element, 0, MaxAtomicNumber)
	for z := 1; z <= MaxAtomicNumber; z++ {
		all = append(all, Element(z))
	}
	return all
}
