package elements

import (
	"errors"
	"math"
	"testing"
)

func TestOrbitals(t *testing.T) {
	tests := []struct {
		element  Element
		expected []string
	}{
		{H, []string{"1s1"}},
		{He, []string{"1s1", "1s2"}},
		{Li, []string{"1s1", "1s2", "2s1"}},
		{C, []string{"1s1", "1s2", "2s1", "2s2", "2p1", "2p2"}},
		{Mg, []string{"1s1", "1s2", "2s1", "2s2", "2p1", "2p2", "2p3", "2p4", "2p5", "2p6", "3s1", "3s2"}},
	}

	for _, tt := range tests {
		t.Run(tt.element.String(), func(t *testing.T) {
			got, err := Orbitals(tt.element)
			if err != nil {
				t.Fatalf("Orbitals(%s): %v", tt.element, err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("Orbitals(%s) = %v, want %v", tt.element, got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Orbitals(%s)[%d] = %s, want %s", tt.element, i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestOrbitalCountMatchesAtomicNumber(t *testing.T) {
	for _, e := range All() {
		names, err := Orbitals(e)
		if err != nil {
			t.Fatalf("Orbitals(%s): %v", e, err)
		}
		if len(names) != e.AtomicNumber() {
			t.Errorf("%s: %d orbitals, want %d", e, len(names), e.AtomicNumber())
		}
	}
}

func TestOrbitalsReturnsCopy(t *testing.T) {
	a, _ := Orbitals(He)
	a[0] = "mutated"
	b, _ := Orbitals(He)
	if b[0] != "1s1" {
		t.Error("Orbitals exposed the shared table")
	}
}

func TestUnsupportedElement(t *testing.T) {
	if _, err := Orbitals(Element(19)); !errors.Is(err, ErrUnsupportedElement) {
		t.Errorf("expected ErrUnsupportedElement, got %v", err)
	}
	if _, err := FromAtomicNumber(0); !errors.Is(err, ErrUnsupportedElement) {
		t.Errorf("expected ErrUnsupportedElement, got %v", err)
	}
	if _, err := Parse("K"); !errors.Is(err, ErrUnsupportedElement) {
		t.Errorf("expected ErrUnsupportedElement, got %v", err)
	}
}

func TestParse(t *testing.T) {
	for _, s := range []string{"he", "He", " HE "} {
		e, err := Parse(s)
		if err != nil || e != He {
			t.Errorf("Parse(%q) = %v, %v", s, e, err)
		}
	}
}

func TestTextRoundTrip(t *testing.T) {
	text, err := Ar.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	var e Element
	if err := e.UnmarshalText(text); err != nil || e != Ar {
		t.Errorf("got %v, %v", e, err)
	}
}

func TestOrbitalIndex(t *testing.T) {
	i, err := OrbitalIndex(He, "1s2")
	if err != nil || i != 1 {
		t.Errorf("OrbitalIndex(He, 1s2) = %d, %v", i, err)
	}
	if _, err := OrbitalIndex(He, "2s1"); err == nil {
		t.Error("expected error for missing orbital")
	}
}

func TestNucleusMass(t *testing.T) {
	m, err := NucleusMass(H, 1.00782503207)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(m-ProtonMass) > 0.01 {
		t.Errorf("hydrogen nucleus mass = %v, want ~%v", m, ProtonMass)
	}

	if _, err := NucleusMass(H, 0); err == nil {
		t.Error("expected error for zero mass")
	}
}

func TestCohen(t *testing.T) {
	o, err := Cohen(He, "1s2")
	if err != nil {
		t.Fatal(err)
	}
	pos := o.Position()
	if math.Abs(pos.Z+0.5714) > 1e-12 {
		t.Errorf("He 1s2 position = %v", pos)
	}
	if o.SpinUp {
		t.Error("He 1s2 should be spin down")
	}

	if _, err := Cohen(Li, "1s1"); !errors.Is(err, ErrNoCohenOrbit) {
		t.Errorf("expected ErrNoCohenOrbit, got %v", err)
	}
}
