package metrics

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/sim"
)

// Collisions counts resolved body-body collisions.
type Collisions struct {
	name  string
	total int
}

func NewCollisions() *Collisions {
	return &Collisions{name: "collisions"}
}

func (c *Collisions) Name() string { return c.name }

func (c *Collisions) Observe(_ *sim.World, res sim.FrameResult, _ float64) {
	c.total += res.Collisions
}

func (c *Collisions) Value() float64 { return float64(c.total) }

func (c *Collisions) Reset() { c.total = 0 }

// Absorbed counts bodies removed by absorbing fixed bodies.
type Absorbed struct {
	name  string
	total int
}

func NewAbsorbed() *Absorbed {
	return &Absorbed{name: "absorbed"}
}

func (a *Absorbed) Name() string { return a.name }

func (a *Absorbed) Observe(_ *sim.World, res sim.FrameResult, _ float64) {
	a.total += len(res.Removed)
}

func (a *Absorbed) Value() float64 { return float64(a.total) }

func (a *Absorbed) Reset() { a.total = 0 }

// Momentum reports the magnitude of the total body momentum on the last
// observed frame.
type Momentum struct {
	name string
	last float64
}

func NewMomentum() *Momentum {
	return &Momentum{name: "momentum"}
}

func (m *Momentum) Name() string { return m.name }

func (m *Momentum) Observe(w *sim.World, _ sim.FrameResult, _ float64) {
	var p r2.Vec
	bodies := w.Bodies()
	for i := range bodies {
		p = r2.Add(p, bodies[i].Momentum())
	}
	m.last = r2.Norm(p)
}

func (m *Momentum) Value() float64 { return m.last }

func (m *Momentum) Reset() { m.last = 0 }
