package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
)

// DefaultG is the gravitational constant tuned for pixel-scale scenes.
const DefaultG = 15000.0

// GravityForce returns the inverse-square pull of attractor on b. softening
// is added to the separation (squared) to tame close encounters; pass 0 for
// the exact law. Coincident centers produce no force.
func GravityForce(b, attractor *Body, g, softening float64) r2.Vec {
	delta := r2.Sub(attractor.Position, b.Position)
	dir, ok := geom.UnitOrZero(delta)
	if !ok {
		return r2.Vec{}
	}
	d2 := r2.Norm2(delta) + softening*softening
	return r2.Scale(attractor.Mass*b.Mass/d2*g, dir)
}

// Acceleration sums the pull of every attractor on b and divides by its mass.
func Acceleration(b *Body, attractors []Body, g, softening float64) r2.Vec {
	var f r2.Vec
	for i := range attractors {
		f = r2.Add(f, GravityForce(b, &attractors[i], g, softening))
	}
	return r2.Scale(1/b.Mass, f)
}

// PotentialEnergy returns the gravitational potential energy of the pair.
func PotentialEnergy(b, attractor *Body, g, softening float64) float64 {
	r := math.Sqrt(r2.Norm2(r2.Sub(attractor.Position, b.Position)) + softening*softening)
	if r == 0 {
		return 0
	}
	return -g * attractor.Mass * b.Mass / r
}

// CircularSpeed returns the speed of a circular orbit at the given
// separation around combinedMass.
func CircularSpeed(g, combinedMass, separation float64) float64 {
	if separation <= 0 || combinedMass <= 0 {
		return 0
	}
	return math.Sqrt(g * combinedMass / separation)
}

// OrbitalVelocity returns the velocity that puts a body at pos on a circular
// orbit around center. The direction is perpendicular to the separation.
// For a fixed attractor combinedMass is the attractor mass alone.
func OrbitalVelocity(pos, center r2.Vec, combinedMass, g float64) r2.Vec {
	delta := r2.Sub(center, pos)
	dir, ok := geom.UnitOrZero(r2.Vec{X: delta.Y, Y: -delta.X})
	if !ok {
		return r2.Vec{}
	}
	return r2.Scale(CircularSpeed(g, combinedMass, r2.Norm(delta)), dir)
}
