package integrators

import (
	"testing"

	"github.com/san-kum/ctmcsim/internal/dynamo"
)

type benchNBody struct{}

func (b *benchNBody) StateDim() int { return 18 }
func (b *benchNBody) Derive(x dynamo.State, t float64) dynamo.State {
	dx := make(dynamo.State, 18)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			dx[i*6+j] = x[i*6+3+j]
			dx[i*6+3+j] = -x[i*6+j] * 0.1
		}
	}
	return dx
}

func BenchmarkRK4(b *testing.B) {
	integrator := NewRK4()
	dyn := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integrator.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integrator := NewRK45(1e-10, 1e-10)
	dyn := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _, _ = integrator.TryStep(dyn, x, 0, 0.01)
	}
}

func BenchmarkRK45_ThreeBody(b *testing.B) {
	integrator := NewRK45(1e-10, 1e-10)
	dyn := &benchNBody{}
	x := make(dynamo.State, 18)
	for i := range x {
		x[i] = float64(i) * 0.1
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, _, _ = integrator.TryStep(dyn, x, 0, 0.001)
	}
}
