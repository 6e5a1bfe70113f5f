// Package scenario builds reproducible starting worlds from a scene
// configuration. The same seed always produces the same bodies.
package scenario

import (
	"encoding/binary"
	"image/color"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/config"
	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/physics"
	"github.com/san-kum/celestial/internal/sim"
)

// colorFloor is added to every random color channel to keep bodies bright.
const colorFloor = 0.25

var StarColor = color.RGBA{R: 255, G: 214, B: 102, A: 255}

// NewRand returns a ChaCha8 generator keyed by seed.
func NewRand(seed uint64) *rand.Rand {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], seed)
	return rand.New(rand.NewChaCha8(key))
}

// Build creates the world described by cfg, seeded with cfg.Seed.
func Build(cfg *config.Config) (*sim.World, error) {
	return BuildSeed(cfg, cfg.Seed)
}

// BuildSeed is Build with an explicit seed.
func BuildSeed(cfg *config.Config, seed uint64) (*sim.World, error) {
	sc, err := cfg.SimConfig()
	if err != nil {
		return nil, err
	}
	fixed := Fixed(cfg)
	bodies := Bodies(cfg, fixed, NewRand(seed))
	return sim.NewWorld(sc, bodies, fixed)
}

// Fixed returns the attractors of cfg in world coordinates.
func Fixed(cfg *config.Config) []physics.Body {
	cx, cy := cfg.Center()
	field := cfg.IndexArea()
	fixed := make([]physics.Body, 0, len(cfg.Attractors))
	for _, a := range cfg.Attractors {
		pos := r2.Vec{X: cx + a.X, Y: cy + a.Y}
		fixed = append(fixed, physics.NewBody(pos, r2.Vec{}, a.Radius, a.Mass, StarColor, field))
	}
	return fixed
}

// Bodies places cfg.Bodies.Count bodies at random angles within the orbit
// band of the first fixed body, on circular orbits around it. Without fixed
// bodies they start at rest around the play area center.
func Bodies(cfg *config.Config, fixed []physics.Body, rng *rand.Rand) []physics.Body {
	bc := cfg.Bodies
	field := cfg.IndexArea()

	cx, cy := cfg.Center()
	center := r2.Vec{X: cx, Y: cy}
	if len(fixed) > 0 {
		center = fixed[0].Position
	}

	bodies := make([]physics.Body, 0, bc.Count)
	for range bc.Count {
		pos := orbitalPosition(center, bc.MinOrbit, bc.MaxOrbit, rng)
		c := randomColor(rng)
		radius := uniform(rng, bc.MinRadius, bc.MaxRadius)
		mass := uniform(rng, bc.MinMass, bc.MaxMass)

		var vel r2.Vec
		if len(fixed) > 0 {
			vel = physics.OrbitalVelocity(pos, center, fixed[0].Mass, cfg.Physics.Gravity)
		}
		bodies = append(bodies, physics.NewBody(pos, vel, radius, mass, c, field))
	}
	return bodies
}

// Orbit returns a body at distance from center on a circular orbit.
func Orbit(center physics.Body, distance, radius, mass, g float64, field geom.Rect) physics.Body {
	pos := r2.Add(center.Position, r2.Vec{X: distance})
	vel := physics.OrbitalVelocity(pos, center.Position, center.Mass, g)
	return physics.NewBody(pos, vel, radius, mass, color.RGBA{R: 255, G: 255, B: 255, A: 255}, field)
}

// Pair returns two equal bodies separated along x and heading at each
// other with the given speed.
func Pair(center r2.Vec, separation, speed, radius, mass float64, field geom.Rect) []physics.Body {
	half := r2.Vec{X: separation / 2}
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	return []physics.Body{
		physics.NewBody(r2.Sub(center, half), r2.Vec{X: speed}, radius, mass, white, field),
		physics.NewBody(r2.Add(center, half), r2.Vec{X: -speed}, radius, mass, white, field),
	}
}

func orbitalPosition(center r2.Vec, minRadius, maxRadius float64, rng *rand.Rand) r2.Vec {
	angle := rng.Float64() * 2 * math.Pi
	dist := uniform(rng, minRadius, maxRadius)
	return r2.Add(center, r2.Scale(dist, r2.Vec{X: math.Cos(angle), Y: math.Sin(angle)}))
}

func randomColor(rng *rand.Rand) color.RGBA {
	channel := func() uint8 {
		return uint8(math.Min(rng.Float64()+colorFloor, 1) * 255)
	}
	r := channel()
	g := channel()
	b := channel()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
