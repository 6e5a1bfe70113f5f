package sim

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/physics"
)

// dragScale is the distance at which a dragged body keeps its full velocity.
const dragScale = 1000.0

// ScaleVelocities multiplies every body velocity by f.
func (w *World) ScaleVelocities(f float64) {
	for i := range w.bodies {
		b := &w.bodies[i]
		b.SetVelocity(r2.Scale(f, b.Velocity), w.h)
	}
}

// Reorbit puts every body on a circular orbit around the first fixed body.
// It does nothing in a world without fixed bodies.
func (w *World) Reorbit() {
	if len(w.fixed) == 0 {
		return
	}
	center := w.fixed[0]
	for i := range w.bodies {
		b := &w.bodies[i]
		b.SetVelocity(physics.OrbitalVelocity(b.Position, center.Position, center.Mass, w.cfg.G), w.h)
	}
}

// Drag steers body i toward target. The current velocity is damped in
// proportion to the remaining distance and the offset is added to it.
func (w *World) Drag(i int, target r2.Vec) {
	b := &w.bodies[i]
	delta := r2.Sub(target, b.Position)
	v := r2.Add(r2.Scale(r2.Norm(delta)/dragScale, b.Velocity), delta)
	b.SetVelocity(v, w.h)
}

// Nearest returns the body closest to p among those whose center lies
// within radius of it.
func (w *World) Nearest(p r2.Vec, radius float64) (int, bool) {
	w.removed = resize(w.removed, len(w.bodies))
	clear(w.removed)
	w.rebuildIndex()

	w.near = w.tree.Query(geom.NewRect(p.X, p.Y, 2*radius, 2*radius), w.near[:0])
	best, bestD2 := -1, radius*radius
	for _, e := range w.near {
		d2 := r2.Norm2(r2.Sub(w.bodies[e.Payload].Position, p))
		if d2 < bestD2 {
			best, bestD2 = e.Payload, d2
		}
	}
	return best, best >= 0
}
