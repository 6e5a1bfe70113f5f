package integrators

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/physics"
)

// Verlet is position Verlet: x' = 2x - x_prev + a·dt². Velocity is derived
// from the last two positions after every step and is never read; impose a
// velocity with Body.SetVelocity.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Step(b *physics.Body, acc r2.Vec, dt float64) {
	old := b.Position
	b.Position = r2.Add(r2.Sub(r2.Scale(2, old), b.PrevPosition), r2.Scale(dt*dt, acc))
	b.PrevPosition = old
	b.Velocity = r2.Scale(1/dt, r2.Sub(b.Position, b.PrevPosition))
}
