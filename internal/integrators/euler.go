package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/physics"
)

// Euler is the semi-implicit Euler scheme: velocity first, then position
// with the new velocity. Velocity is authoritative.
//
// A body outside its field that is still moving outward has that velocity
// component flipped. The bounce is lazy: the body may already be past the
// edge when it turns around.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Step(b *physics.Body, acc r2.Vec, dt float64) {
	b.Velocity = r2.Add(b.Velocity, r2.Scale(dt, acc))
	pos := b.Position
	f := b.Field

	if pos.X < f.Left && b.Velocity.X < 0 || pos.X > f.Right && b.Velocity.X > 0 {
		b.Velocity.X = -b.Velocity.X
	}
	if pos.Y < f.Up && b.Velocity.Y < 0 || pos.Y > f.Down && b.Velocity.Y > 0 {
		b.Velocity.Y = -b.Velocity.Y
	}

	b.PrevPosition = pos
	b.Position = r2.Add(pos, r2.Scale(dt, b.Velocity))
}
