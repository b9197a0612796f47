// Package physics is the classical N-body engine: point masses in a flat
// phase vector, coupled by pairwise interactions.
//
// Interactions live in an arena owned by [System] and are referenced by
// [InteractionID]. Two force laws are supported:
//
//   - [Coulomb]: inverse-square electrostatics
//   - [Heisenberg]: the Kirschbaum-Wilets momentum-dependent constraining
//     potential that keeps classical electrons from collapsing
//
// The velocity slots of the phase hold canonical momentum divided by mass.
// For momentum-dependent interactions the position rate therefore picks
// up a correction in addition to the velocity, which keeps the total
// energy reported by [System.Energy] an exact constant of motion.
//
// # Energy Conservation
//
// System implements [dynamo.Hamiltonian]; energy drift along a trajectory
// measures integrator error, not force-law error:
//
//	e0 := sys.SystemEnergy()
//	// ... integrate ...
//	drift := math.Abs(sys.SystemEnergy()-e0) / math.Abs(e0)
package physics
