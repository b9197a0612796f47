// Package collision runs classical-trajectory Monte Carlo experiments: a
// projectile ion fired at a model atom, integrated until it has left the
// interaction region, then classified by which nuclei still bind each
// electron.
//
// An [Experiment] runs independent rounds on a pool of workers. Each worker
// owns a [Scenario] (system, target atom, projectile, integrator) and reuses
// it across rounds, overwriting positions and velocities. Round i draws its
// random numbers from a generator seeded with Seed+i, so results do not
// depend on the number of workers.
package collision
