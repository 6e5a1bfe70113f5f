package sim

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/physics"
	"github.com/san-kum/celestial/internal/quadtree"
)

// World owns the dynamic bodies, the fixed attractors and the spatial index
// rebuilt from them. It is not safe for concurrent use.
type World struct {
	cfg    Config
	bodies []physics.Body
	fixed  []physics.Body
	tree   *quadtree.QuadTree

	// h is the sub-step length PrevPosition is currently consistent with.
	h float64

	near     []quadtree.Entry
	mutual   []r2.Vec
	collided []bool
	removed  []bool
}

// NewWorld copies bodies and fixed into a new world. Bodies are assumed to
// have PrevPosition consistent with physics.ReferenceDt, as NewBody does.
func NewWorld(cfg Config, bodies, fixed []physics.Body) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for i := range bodies {
		if err := bodies[i].Validate(); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}
	for i := range fixed {
		if err := fixed[i].Validate(); err != nil {
			return nil, fmt.Errorf("fixed body %d: %w", i, err)
		}
	}

	return &World{
		cfg:    cfg,
		bodies: append([]physics.Body(nil), bodies...),
		fixed:  append([]physics.Body(nil), fixed...),
		tree:   quadtree.New(cfg.Area, cfg.BucketCapacity),
		h:      physics.ReferenceDt,
	}, nil
}

func (w *World) Config() Config { return w.cfg }

// Bodies returns the live body collection. The slice is only valid until
// the next Step.
func (w *World) Bodies() []physics.Body { return w.bodies }

func (w *World) Fixed() []physics.Body { return w.fixed }

func (w *World) Len() int { return len(w.bodies) }

// Index returns the spatial index as of the last rebuild.
func (w *World) Index() *quadtree.QuadTree { return w.tree }

// Substeps returns the number of physics steps per frame.
func (w *World) Substeps() int { return w.cfg.Substeps }

// SetSubsteps changes the number of physics steps per frame; values below
// one are clamped.
func (w *World) SetSubsteps(n int) {
	w.cfg.Substeps = max(n, 1)
}

// Step advances the world by one frame. A frame with non-positive Dt does
// nothing.
func (w *World) Step(in FrameInput) FrameResult {
	var res FrameResult
	if !(in.Dt > 0) {
		return res
	}

	h := in.Dt / float64(w.cfg.Substeps)
	w.resync(h)

	n := len(w.bodies)
	w.removed = resize(w.removed, n)
	w.collided = resize(w.collided, n)
	clear(w.removed)

	for range w.cfg.Substeps {
		w.rebuildIndex()
		w.integrate(h, in)
		w.resolveCollisions(h, &res)
		w.resolveFixedContacts(h, &res)
	}

	res.Removed = w.compact()
	return res
}

// resync rewrites PrevPosition when the sub-step length changes so that a
// Verlet step keeps the current velocity.
func (w *World) resync(h float64) {
	if h == w.h {
		return
	}
	for i := range w.bodies {
		w.bodies[i].SetVelocity(w.bodies[i].Velocity, h)
	}
	w.h = h
}

func (w *World) rebuildIndex() {
	w.tree.Reset(w.cfg.Area)
	for i := range w.bodies {
		if w.removed[i] {
			continue
		}
		w.tree.Insert(w.bodies[i].Position, i)
	}
}

func (w *World) integrate(h float64, in FrameInput) {
	if w.cfg.MutualGravity {
		w.computeMutual()
	}

	for i := range w.bodies {
		if w.removed[i] {
			continue
		}
		b := &w.bodies[i]

		var acc r2.Vec
		if i != in.Exclude {
			acc = physics.Acceleration(b, w.fixed, w.cfg.G, 0)
			if w.cfg.MutualGravity {
				acc = r2.Add(acc, w.mutual[i])
			}
		}
		if i < len(in.Forces) {
			acc = r2.Add(acc, r2.Scale(1/b.Mass, in.Forces[i]))
		}

		w.cfg.Integrator.Step(b, acc, h)
	}
}

// computeMutual fills w.mutual with the pairwise body-body accelerations,
// all evaluated at the positions before this sub-step's integration.
func (w *World) computeMutual() {
	n := len(w.bodies)
	w.mutual = resize(w.mutual, n)
	clear(w.mutual)

	for i := 0; i < n; i++ {
		if w.removed[i] {
			continue
		}
		bi := &w.bodies[i]
		for j := i + 1; j < n; j++ {
			if w.removed[j] {
				continue
			}
			bj := &w.bodies[j]
			f := physics.GravityForce(bi, bj, w.cfg.G, w.cfg.Softening)
			w.mutual[i] = r2.Add(w.mutual[i], r2.Scale(1/bi.Mass, f))
			w.mutual[j] = r2.Sub(w.mutual[j], r2.Scale(1/bj.Mass, f))
		}
	}
}

// resolveCollisions handles body-body contacts. A body takes part in at
// most one collision per sub-step.
func (w *World) resolveCollisions(h float64, res *FrameResult) {
	clear(w.collided)

	for i := range w.bodies {
		if w.removed[i] || w.collided[i] {
			continue
		}
		w.near = w.tree.Query(w.bodies[i].CollisionArea(), w.near[:0])

		for _, e := range w.near {
			j := e.Payload
			if j == i || w.removed[j] || w.collided[j] {
				continue
			}
			self, other := w.pair(i, j)
			if !self.CheckCollision(other) {
				continue
			}
			if self.Collide(other, h, w.cfg.Dissipation) {
				w.collided[i], w.collided[j] = true, true
				res.Collisions++
				break
			}
		}
	}
}

// pair returns the two distinct bodies at i and j, higher index first.
func (w *World) pair(i, j int) (*physics.Body, *physics.Body) {
	if i == j {
		panic("sim: body paired with itself")
	}
	if i < j {
		i, j = j, i
	}
	return &w.bodies[i], &w.bodies[j]
}

func (w *World) resolveFixedContacts(h float64, res *FrameResult) {
	for f := range w.fixed {
		fb := &w.fixed[f]
		w.near = w.tree.Query(fb.CollisionArea(), w.near[:0])

		for _, e := range w.near {
			j := e.Payload
			if w.removed[j] {
				continue
			}
			switch physics.ResolveFixedContact(&w.bodies[j], fb, w.cfg.Contact, w.cfg.Restitution, h) {
			case physics.ContactBounced:
				res.FixedContacts++
			case physics.ContactAbsorbed:
				res.FixedContacts++
				w.removed[j] = true
			}
		}
	}
}

// compact drops the bodies absorbed during the frame and returns their
// former indices in ascending order.
func (w *World) compact() []int {
	var removed []int
	kept := w.bodies[:0]
	for i := range w.bodies {
		if w.removed[i] {
			removed = append(removed, i)
			continue
		}
		kept = append(kept, w.bodies[i])
	}
	clear(w.bodies[len(kept):])
	w.bodies = kept
	return removed
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}
