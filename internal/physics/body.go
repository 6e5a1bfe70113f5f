package physics

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
)

// ReferenceDt is the step NewBody assumes when deriving PrevPosition.
const ReferenceDt = 1.0 / 60.0

// DefaultDissipation is the tangential velocity factor kept by a collision.
const DefaultDissipation = 0.999

// ErrInvalidBody indicates a body with a non-positive radius or mass.
var ErrInvalidBody = errors.New("physics: invalid body")

// Body is a circular mass point confined to Field.
//
// Under Verlet integration Velocity is derived from Position and
// PrevPosition; use SetVelocity to impose a new one.
type Body struct {
	Position     r2.Vec
	PrevPosition r2.Vec
	Velocity     r2.Vec
	Radius       float64
	Mass         float64
	Color        color.RGBA
	Field        geom.Rect
}

// NewBody returns a body moving at vel, with PrevPosition set one
// ReferenceDt behind so that the first integration step reproduces vel.
func NewBody(pos, vel r2.Vec, radius, mass float64, c color.RGBA, field geom.Rect) Body {
	return Body{
		Position:     pos,
		PrevPosition: r2.Sub(pos, r2.Scale(ReferenceDt, vel)),
		Velocity:     vel,
		Radius:       radius,
		Mass:         mass,
		Color:        c,
		Field:        field,
	}
}

// Validate checks the radius and mass invariants.
func (b *Body) Validate() error {
	if !(b.Radius > 0) {
		return fmt.Errorf("%w: radius must be positive, got %g", ErrInvalidBody, b.Radius)
	}
	if !(b.Mass > 0) {
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidBody, b.Mass)
	}
	return nil
}

// CollisionArea returns the square of side 4*Radius centered on the body,
// the window used to gather neighbor candidates from the spatial index.
func (b *Body) CollisionArea() geom.Rect {
	s := b.Radius * 4
	return geom.NewRect(b.Position.X, b.Position.Y, s, s)
}

// SetVelocity imposes v and rewrites PrevPosition so that a Verlet step of
// length dt reconstructs exactly v.
func (b *Body) SetVelocity(v r2.Vec, dt float64) {
	b.PrevPosition = r2.Sub(b.Position, r2.Scale(dt, v))
	b.Velocity = v
}

// CheckCollision reports whether the two circles touch or overlap.
func (b *Body) CheckCollision(o *Body) bool {
	return geom.Dist(b.Position, o.Position) <= b.Radius+o.Radius
}

// Collide resolves an elastic collision between b and o along their line of
// centers. Tangential components are scaled by dissipation. Nothing changes
// unless the bodies are approaching each other or when their centers
// coincide. It reports whether velocities were updated.
func (b *Body) Collide(o *Body, dt, dissipation float64) bool {
	diff := r2.Sub(b.Position, o.Position)
	if r2.Dot(r2.Sub(b.Velocity, o.Velocity), diff) >= 0 {
		return false
	}

	normal, ok := geom.UnitOrZero(diff)
	if !ok {
		return false
	}
	tangent := geom.Perp(normal)

	v1n := r2.Dot(b.Velocity, normal)
	v1t := r2.Dot(b.Velocity, tangent) * dissipation
	v2n := r2.Dot(o.Velocity, normal)
	v2t := r2.Dot(o.Velocity, tangent) * dissipation

	m1, m2 := b.Mass, o.Mass
	total := m1 + m2
	newV1n := (v1n*(m1-m2) + 2*m2*v2n) / total
	newV2n := (v2n*(m2-m1) + 2*m1*v1n) / total

	v1 := r2.Add(r2.Scale(newV1n, normal), r2.Scale(v1t, tangent))
	v2 := r2.Add(r2.Scale(newV2n, normal), r2.Scale(v2t, tangent))

	b.SetVelocity(v1, dt)
	o.SetVelocity(v2, dt)
	return true
}

// KineticEnergy returns m|v|²/2.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * r2.Norm2(b.Velocity)
}

// Momentum returns m·v.
func (b *Body) Momentum() r2.Vec {
	return r2.Scale(b.Mass, b.Velocity)
}
