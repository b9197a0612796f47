// Package dynamo provides the core primitives shared by the N-body engine,
// the integrators and the simulator loop.
//
// The package defines:
//
//   - [State]: flat phase vector (6 entries per body: x, y, z, vx, vy, vz)
//   - [System]: an ODE right-hand side, dX/dt = f(X, t)
//   - [Integrator] and [AdaptiveIntegrator]: numerical steppers
//   - [Condition]: a stopping predicate evaluated after accepted steps
//   - [Observer]: a read-only per-step side channel
//
// # Example
//
//	sys := physics.NewSystem()
//	stepper := integrators.NewRK45(1e-10, 1e-10)
//	s := sim.New(sys, stepper)
//	elapsed, err := s.Simulate(0, 1e-4, cond, 1_000_000)
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. Independent
// Monte Carlo rounds must each own their System.
package dynamo
