package geom

import "gonum.org/v1/gonum/spatial/r2"

// Rect is an axis-aligned region described by its center and half extents.
// The bounds are precomputed because they are read on every index visit.
type Rect struct {
	X, Y       float64
	HalfWidth  float64
	HalfHeight float64

	Left, Right float64
	Up, Down    float64
}

// NewRect returns the region centered on (x, y) with the given full width
// and height. Negative sizes are clamped to zero.
func NewRect(x, y, width, height float64) Rect {
	hw := max(width/2, 0)
	hh := max(height/2, 0)
	return Rect{
		X:          x,
		Y:          y,
		HalfWidth:  hw,
		HalfHeight: hh,
		Left:       x - hw,
		Right:      x + hw,
		Up:         y - hh,
		Down:       y + hh,
	}
}

// Center returns the center point.
func (r Rect) Center() r2.Vec { return r2.Vec{X: r.X, Y: r.Y} }

// Width returns the full width.
func (r Rect) Width() float64 { return r.HalfWidth * 2 }

// Height returns the full height.
func (r Rect) Height() float64 { return r.HalfHeight * 2 }

// Contains reports whether p lies in the half-open region
// [Left, Right) x [Up, Down).
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.Left && p.X < r.Right &&
		p.Y >= r.Up && p.Y < r.Down
}

// Overlaps reports whether the two closed regions share at least one point.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.Right < o.Left ||
		r.Left > o.Right ||
		r.Up > o.Down ||
		r.Down < o.Up)
}

// Quadrant returns child region i of r: 0 is the top-left quarter, 1 the
// top-right, 2 the bottom-left and 3 the bottom-right. Children take their
// edges from r's bounds and center, so siblings share bit-identical edges and
// every point of r lies in exactly one quadrant.
func (r Rect) Quadrant(i int) Rect {
	left, right := r.Left, r.X
	if i&1 != 0 {
		left, right = r.X, r.Right
	}
	up, down := r.Up, r.Y
	if i&2 != 0 {
		up, down = r.Y, r.Down
	}
	return FromBounds(left, up, right, down)
}

// FromBounds returns the region [left, right) x [up, down) with the bounds
// stored exactly as given. Inverted bounds collapse to an empty region.
func FromBounds(left, up, right, down float64) Rect {
	right = max(right, left)
	down = max(down, up)
	return Rect{
		X:          left + (right-left)/2,
		Y:          up + (down-up)/2,
		HalfWidth:  (right - left) / 2,
		HalfHeight: (down - up) / 2,
		Left:       left,
		Right:      right,
		Up:         up,
		Down:       down,
	}
}
