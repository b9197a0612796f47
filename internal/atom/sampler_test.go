package atom

import (
	"errors"
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ctmcsim/internal/elements"
	"github.com/san-kum/ctmcsim/internal/physics"
)

func TestSolveKepler(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		meanAnomaly float64
		eps         float64
	}{
		{0, 0},
		{1.0, 0.1},
		{3.0, 0.5},
		{5.5, 0.9},
		{0.2, 0.99},
	}

	for _, tt := range tests {
		u, err := SolveKepler(tt.meanAnomaly, tt.eps, rng)
		if err != nil {
			t.Fatalf("SolveKepler(%v, %v): %v", tt.meanAnomaly, tt.eps, err)
		}
		residual := u - tt.eps*math.Sin(u) - tt.meanAnomaly
		if math.Abs(residual) > 1e-9 {
			t.Errorf("SolveKepler(%v, %v) = %v, residual %e", tt.meanAnomaly, tt.eps, u, residual)
		}
	}
}

func TestSolveKeplerExhausted(t *testing.T) {
	// a NaN eccentricity never converges
	_, err := SolveKepler(1, math.NaN(), rand.New(rand.NewSource(1)))
	if !errors.Is(err, ErrSamplerExhausted) {
		t.Errorf("expected ErrSamplerExhausted, got %v", err)
	}
}

func TestKeplerEnsembleStatistics(t *testing.T) {
	sys := physics.NewSystem()
	h, err := New(sys, Spec{Element: elements.H})
	if err != nil {
		t.Fatal(err)
	}
	rng := rand.New(rand.NewSource(2024))

	const n = 20000
	radii := make([]float64, n)
	energies := make([]float64, n)
	for i := 0; i < n; i++ {
		if err := h.Randomize(rng); err != nil {
			t.Fatal(err)
		}
		e := h.electrons[0]
		radii[i] = r3.Norm(r3.Sub(sys.BodyPosition(e), sys.BodyPosition(h.nucleus)))
		energies[i], _ = h.OrbitalEnergy("1s1")
	}

	a := 1 / h.ReducedMass()
	if mean := stat.Mean(radii, nil); math.Abs(mean/a-1.25) > 0.03 {
		t.Errorf("mean radius %v a, want 1.25 a", mean/a)
	}
	if max := floats.Max(radii); max > 2*a+1e-9 {
		t.Errorf("radius %v beyond apocentre bound 2a", max)
	}

	want := -h.ReducedMass() / 2
	if spread := floats.Max(energies) - floats.Min(energies); spread > 1e-9 {
		t.Errorf("energy spread %e, want microcanonical", spread)
	}
	if mean := stat.Mean(energies, nil); math.Abs(mean-want) > 1e-9 {
		t.Errorf("mean energy %v, want %v", mean, want)
	}
}

func TestRandomizeIsDeterministic(t *testing.T) {
	sample := func(model Model) r3.Vec {
		sys := physics.NewSystem()
		he, err := New(sys, Spec{Element: elements.He, Model: model})
		if err != nil {
			t.Fatal(err)
		}
		if err := he.Randomize(rand.New(rand.NewSource(99))); err != nil {
			t.Fatal(err)
		}
		return sys.BodyPosition(he.electrons[1])
	}

	for _, model := range []Model{Kepler, Cohen} {
		if a, b := sample(model), sample(model); a != b {
			t.Errorf("%s: same seed gave %v and %v", model, a, b)
		}
	}
}

func TestParseModel(t *testing.T) {
	tests := []struct {
		in   string
		want Model
	}{
		{"kepler", Kepler},
		{"Abrines-Percival", Kepler},
		{"cohen", Cohen},
		{" KW ", Cohen},
	}
	for _, tt := range tests {
		got, err := ParseModel(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseModel(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseModel("bohr"); err == nil {
		t.Error("expected error for unknown model")
	}
}

func TestHeisenbergDefaults(t *testing.T) {
	if got := (HeisenbergParams{}).orDefault(); got != DefaultHeisenberg {
		t.Errorf("zero params resolved to %+v", got)
	}
	custom := HeisenbergParams{Alpha: 45, Xi: 1.257}
	if got := custom.orDefault(); got != custom {
		t.Errorf("custom params overridden: %+v", got)
	}
}
