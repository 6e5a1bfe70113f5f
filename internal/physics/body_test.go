package physics

import (
	"errors"
	"image/color"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
)

const tol = 1e-9

var field = geom.NewRect(0, 0, 1000, 1000)

func near(a, b r2.Vec, eps float64) bool {
	return math.Abs(a.X-b.X) <= eps && math.Abs(a.Y-b.Y) <= eps
}

func body(x, y, vx, vy, radius, mass float64) Body {
	return NewBody(r2.Vec{X: x, Y: y}, r2.Vec{X: vx, Y: vy}, radius, mass, color.RGBA{A: 255}, field)
}

func TestNewBodyPrevPosition(t *testing.T) {
	b := body(10, 20, 6, -12, 1, 1)

	want := r2.Vec{X: 10 - 6*ReferenceDt, Y: 20 + 12*ReferenceDt}
	if !near(b.PrevPosition, want, tol) {
		t.Errorf("expected prev position %v, got %v", want, b.PrevPosition)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		radius float64
		mass   float64
		valid  bool
	}{
		{"ok", 1, 1, true},
		{"zero radius", 0, 1, false},
		{"negative mass", 1, -1, false},
		{"NaN mass", 1, math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := body(0, 0, 0, 0, tt.radius, tt.mass)
			err := b.Validate()
			if (err == nil) != tt.valid {
				t.Fatalf("Validate() = %v, want valid=%v", err, tt.valid)
			}
			if err != nil && !errors.Is(err, ErrInvalidBody) {
				t.Errorf("expected ErrInvalidBody, got %v", err)
			}
		})
	}
}

func TestCollisionArea(t *testing.T) {
	b := body(5, -5, 0, 0, 2.5, 1)
	area := b.CollisionArea()

	if area.Width() != 10 || area.Height() != 10 {
		t.Errorf("expected 10x10 window, got %vx%v", area.Width(), area.Height())
	}
	if area.X != 5 || area.Y != -5 {
		t.Errorf("expected window centered on the body, got (%v,%v)", area.X, area.Y)
	}
}

func TestCheckCollision(t *testing.T) {
	tests := []struct {
		name string
		x    float64
		want bool
	}{
		{"overlapping", 1.5, true},
		{"touching", 2, true},
		{"apart", 2.01, false},
	}

	for _, tt := range tests {
		a := body(0, 0, 0, 0, 1, 1)
		b := body(tt.x, 0, 0, 0, 1, 1)
		if got := a.CheckCollision(&b); got != tt.want {
			t.Errorf("%s: CheckCollision = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCollideHeadOn(t *testing.T) {
	a := body(0, 0, 1, 0, 2, 1)
	b := body(3, 0, -1, 0, 2, 1)

	if !a.Collide(&b, ReferenceDt, 1.0) {
		t.Fatal("expected the collision to be resolved")
	}

	if !near(a.Velocity, r2.Vec{X: -1}, tol) {
		t.Errorf("expected (-1,0), got %v", a.Velocity)
	}
	if !near(b.Velocity, r2.Vec{X: 1}, tol) {
		t.Errorf("expected (1,0), got %v", b.Velocity)
	}
}

func TestCollideEqualMassSwapsNormal(t *testing.T) {
	a := body(0, 0, 2, 1, 1, 3)
	b := body(1.2, 0.9, -0.5, -1.5, 1, 3)
	n, _ := geom.UnitOrZero(r2.Sub(a.Position, b.Position))
	v1n, v2n := r2.Dot(a.Velocity, n), r2.Dot(b.Velocity, n)
	tang := geom.Perp(n)
	v1t, v2t := r2.Dot(a.Velocity, tang), r2.Dot(b.Velocity, tang)

	if !a.Collide(&b, ReferenceDt, 1.0) {
		t.Fatal("expected the collision to be resolved")
	}

	if got := r2.Dot(a.Velocity, n); math.Abs(got-v2n) > tol {
		t.Errorf("expected new v1n %v, got %v", v2n, got)
	}
	if got := r2.Dot(b.Velocity, n); math.Abs(got-v1n) > tol {
		t.Errorf("expected new v2n %v, got %v", v1n, got)
	}
	if got := r2.Dot(a.Velocity, tang); math.Abs(got-v1t) > tol {
		t.Errorf("expected tangential component %v kept, got %v", v1t, got)
	}
	if got := r2.Dot(b.Velocity, tang); math.Abs(got-v2t) > tol {
		t.Errorf("expected tangential component %v kept, got %v", v2t, got)
	}
}

func TestCollideConservesNormalMomentum(t *testing.T) {
	tests := []struct {
		name   string
		m1, m2 float64
	}{
		{"light on heavy", 1, 10},
		{"heavy on light", 7, 0.5},
		{"unequal", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := body(0, 0, 3, -1, 1, tt.m1)
			b := body(1, 1, -2, -4, 1, tt.m2)
			n, _ := geom.UnitOrZero(r2.Sub(a.Position, b.Position))
			before := tt.m1*r2.Dot(a.Velocity, n) + tt.m2*r2.Dot(b.Velocity, n)

			if !a.Collide(&b, ReferenceDt, DefaultDissipation) {
				t.Fatal("expected the collision to be resolved")
			}

			after := tt.m1*r2.Dot(a.Velocity, n) + tt.m2*r2.Dot(b.Velocity, n)
			if math.Abs(after-before) > 1e-9 {
				t.Errorf("normal momentum changed: before %v, after %v", before, after)
			}
		})
	}
}

func TestCollideSeparatingPairUnchanged(t *testing.T) {
	a := body(0, 0, 1, 0, 2, 1)
	b := body(3, 0, -1, 0, 2, 1)
	a.Collide(&b, ReferenceDt, 1.0)

	va, vb := a.Velocity, b.Velocity
	pa, pb := a.PrevPosition, b.PrevPosition
	if a.Collide(&b, ReferenceDt, 1.0) {
		t.Error("expected the second call to be a no-op")
	}
	if a.Velocity != va || b.Velocity != vb || a.PrevPosition != pa || b.PrevPosition != pb {
		t.Error("second collide changed a separating pair")
	}
}

func TestCollideCoincidentCenters(t *testing.T) {
	a := body(1, 1, 1, 0, 1, 1)
	b := body(1, 1, -1, 0, 1, 1)

	if a.Collide(&b, ReferenceDt, 1.0) {
		t.Error("expected coincident centers to be skipped")
	}
	if !geom.Finite(a.Velocity) || !geom.Finite(b.Velocity) {
		t.Errorf("NaN leaked into velocities: %v %v", a.Velocity, b.Velocity)
	}
}

func TestCollideDissipatesTangential(t *testing.T) {
	a := body(0, 0, 1, 2, 1, 1)
	b := body(1.5, 0, -1, 0, 1, 1)

	a.Collide(&b, ReferenceDt, 0.5)

	if math.Abs(a.Velocity.Y-1) > tol {
		t.Errorf("expected tangential speed halved to 1, got %v", a.Velocity.Y)
	}
}

func TestCollideKeepsVerletConsistency(t *testing.T) {
	dt := 0.02
	a := body(0, 0, 1, 0, 2, 1)
	b := body(3, 0, -1, 0, 2, 1)
	a.Collide(&b, dt, 1.0)

	derived := r2.Scale(1/dt, r2.Sub(a.Position, a.PrevPosition))
	if !near(derived, a.Velocity, 1e-9) {
		t.Errorf("expected (pos-prev)/dt == velocity, got %v vs %v", derived, a.Velocity)
	}
}

func TestKineticEnergyAndMomentum(t *testing.T) {
	b := body(0, 0, 3, 4, 1, 2)
	if b.KineticEnergy() != 25 {
		t.Errorf("expected kinetic energy 25, got %v", b.KineticEnergy())
	}
	if b.Momentum() != (r2.Vec{X: 6, Y: 8}) {
		t.Errorf("expected momentum (6,8), got %v", b.Momentum())
	}
}
