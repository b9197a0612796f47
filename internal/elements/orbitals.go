package elements

import "fmt"

var orbitals map[Element][]string

func init() {
	orbitals = make(map[Element][]string, MaxAtomicNumber)

	orbitals[H] = []string{"1s1"}
	orbitals[He] = []string{"1s1", "1s2"}

	orbitals[Li] = appendShell(orbitals[He], "2s", 1)
	orbitals[Be] = appendShell(orbitals[He], "2s", 2)
	for i, e := range []Element{B, C, N, O, F, Ne} {
		orbitals[e] = appendShell(orbitals[Be], "2p", i+1)
	}

	orbitals[Na] = appendShell(orbitals[Ne], "3s", 1)
	orbitals[Mg] = appendShell(orbitals[Ne], "3s", 2)
	for i, e := range []Element{Al, Si, P, S, Cl, Ar} {
		orbitals[e] = appendShell(orbitals[Mg], "3p", i+1)
	}
}

func appendShell(base []string, shell string, n int) []string {
	out := make([]string, len(base), len(base)+n)
	copy(out, base)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("%s%d", shell, i))
	}
	return out
}

// Orbitals returns the ordered orbital names of e's neutral ground-state
// configuration, first-filled first. The returned slice is a copy.
func Orbitals(e Element) ([]string, error) {
	names, ok := orbitals[e]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedElement, int(e))
	}
	out := make([]string, len(names))
	copy(out, names)
	return out, nil
}

// OrbitalIndex returns the position of orbit within e's configuration.
func OrbitalIndex(e Element, orbit string) (int, error) {
	names, ok := orbitals[e]
	if !ok {
		return -1, fmt.Errorf("%w: %d", ErrUnsupportedElement, int(e))
	}
	for i, name := range names {
		if name == orbit {
			return i, nil
		}
	}
	return -1, fmt.Errorf("elements: %s has no orbital %q", e, orbit)
}
