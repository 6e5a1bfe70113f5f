package metrics

import (
	"github.com/san-kum/celestial/internal/sim"
)

// Containment is the fraction of frames on which every body center lies
// inside its field. Bodies flung past the walls lower it.
type Containment struct {
	name       string
	violations int
	samples    int
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string {
	return c.name
}

func (c *Containment) Observe(w *sim.World, _ sim.FrameResult, _ float64) {
	c.samples++
	bodies := w.Bodies()
	for i := range bodies {
		p, f := bodies[i].Position, bodies[i].Field
		if p.X < f.Left || p.X > f.Right || p.Y < f.Up || p.Y > f.Down {
			c.violations++
			break
		}
	}
}

func (c *Containment) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Containment) Reset() {
	c.violations = 0
	c.samples = 0
}
