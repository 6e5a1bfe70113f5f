package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// degenerate is the squared length below which a vector has no usable direction.
const degenerate = 1e-18

// Perp returns v rotated a quarter turn counter-clockwise: (-y, x).
func Perp(v r2.Vec) r2.Vec { return r2.Vec{X: -v.Y, Y: v.X} }

// UnitOrZero normalizes v. It returns the zero vector and false when v is too
// short to carry a direction instead of dividing by zero.
func UnitOrZero(v r2.Vec) (r2.Vec, bool) {
	n2 := r2.Norm2(v)
	if n2 < degenerate || math.IsNaN(n2) {
		return r2.Vec{}, false
	}
	return r2.Scale(1/math.Sqrt(n2), v), true
}

// Dist returns the euclidean distance between a and b.
func Dist(a, b r2.Vec) float64 { return r2.Norm(r2.Sub(a, b)) }

// Finite reports whether both components are neither NaN nor infinite.
func Finite(v r2.Vec) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) &&
		!math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}
