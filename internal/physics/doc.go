// Package physics provides the circular bodies of the simulation and the
// pairwise interactions between them:
//
//   - [Body]: position, previous position, velocity, radius, mass
//   - [Body.Collide]: elastic impulse along the line of centers
//   - [GravityForce]: inverse-square attraction
//   - [ResolveFixedContact]: bounce off or absorption by a fixed body
//
// Integration lives in package integrators. Nothing in this package keeps
// state between calls; every function mutates only the bodies it is given.
package physics
