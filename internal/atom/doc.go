// Package atom builds model atoms out of physics bodies and samples their
// bound initial conditions.
//
// An [Atom] owns a nucleus and one electron per occupied orbital of its
// electron configuration, together with the Coulomb (and, for the Cohen
// model, Heisenberg) interactions between them. How the electrons are
// placed is delegated to a [Sampler]:
//
//   - [KeplerSampler]: Abrines-Percival microcanonical ensemble, one
//     Kepler orbit per electron at the hydrogen-like ground energy
//   - [CohenSampler]: the fixed Kirschbaum-Wilets ground state of the
//     Cohen table, rigidly rotated by random Euler angles
package atom
