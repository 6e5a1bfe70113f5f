package physics

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
)

// DefaultRestitution is the speed fraction kept when bouncing off a fixed body.
const DefaultRestitution = 0.9

// minContactSpeed2 is the squared speed below which a body resting on a fixed
// body is left alone.
const minContactSpeed2 = 0.001

// ContactMode selects what happens when a body hits a fixed body.
type ContactMode int

const (
	// ContactBounce reflects the body off the fixed body's surface.
	ContactBounce ContactMode = iota
	// ContactAbsorb removes the body from the simulation.
	ContactAbsorb
)

func (m ContactMode) String() string {
	switch m {
	case ContactBounce:
		return "bounce"
	case ContactAbsorb:
		return "absorb"
	default:
		return fmt.Sprintf("ContactMode(%d)", int(m))
	}
}

// ParseContactMode maps "bounce" or "absorb" to a ContactMode.
func ParseContactMode(s string) (ContactMode, error) {
	switch s {
	case "bounce", "":
		return ContactBounce, nil
	case "absorb":
		return ContactAbsorb, nil
	default:
		return 0, fmt.Errorf("unknown contact mode: %s", s)
	}
}

// ContactResult reports what ResolveFixedContact did.
type ContactResult int

const (
	ContactNone ContactResult = iota
	ContactBounced
	ContactAbsorbed
)

// ResolveFixedContact handles a mobile body b against fixed. Only a body
// overlapping fixed and moving toward it with non-negligible speed is
// affected. In bounce mode b is moved onto the surface of fixed and its
// velocity is reflected about the contact normal and scaled by restitution.
// In absorb mode b is left untouched and ContactAbsorbed tells the caller to
// remove it.
func ResolveFixedContact(b, fixed *Body, mode ContactMode, restitution, dt float64) ContactResult {
	if !fixed.CheckCollision(b) {
		return ContactNone
	}
	delta := r2.Sub(b.Position, fixed.Position)
	if r2.Dot(delta, b.Velocity) >= 0 || r2.Norm2(b.Velocity) <= minContactSpeed2 {
		return ContactNone
	}

	if mode == ContactAbsorb {
		return ContactAbsorbed
	}

	normal, ok := geom.UnitOrZero(delta)
	if !ok {
		return ContactNone
	}
	b.Position = r2.Add(fixed.Position, r2.Scale(fixed.Radius+b.Radius, normal))
	reflected := r2.Sub(b.Velocity, r2.Scale(2*r2.Dot(normal, b.Velocity), normal))
	b.SetVelocity(r2.Scale(restitution, reflected), dt)
	return ContactBounced
}
