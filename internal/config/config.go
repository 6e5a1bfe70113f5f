package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/integrators"
	"github.com/san-kum/celestial/internal/physics"
	"github.com/san-kum/celestial/internal/sim"
)

const (
	DefaultDt          = 1.0 / 60.0
	DefaultFrames      = 600
	DefaultSeed        = 1
	DefaultSampleEvery = 10
	DefaultWidth       = 1200.0
	DefaultHeight      = 1000.0
	DefaultIndexScale  = 4.0
	DefaultBodies      = 100
	DefaultRadius      = 10.0
	DefaultMass        = 1.0
	DefaultMinOrbit    = 200.0
	DefaultMaxOrbit    = 300.0
	DefaultStarRadius  = 30.0
	DefaultStarMass    = 1000.0
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Name        string            `yaml:"name,omitempty"`
	Integrator  string            `yaml:"integrator"`
	Dt          float64           `yaml:"dt"`
	Frames      int               `yaml:"frames"`
	Substeps    int               `yaml:"substeps"`
	Seed        uint64            `yaml:"seed"`
	SampleEvery int               `yaml:"sample_every"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Area        AreaConfig        `yaml:"area"`
	Bodies      BodiesConfig      `yaml:"bodies"`
	Attractors  []AttractorConfig `yaml:"attractors"`
}

type PhysicsConfig struct {
	Gravity        float64 `yaml:"gravity"`
	Dissipation    float64 `yaml:"dissipation"`
	Restitution    float64 `yaml:"restitution"`
	Contact        string  `yaml:"contact"`
	MutualGravity  bool    `yaml:"mutual_gravity"`
	Softening      float64 `yaml:"softening"`
	BucketCapacity int     `yaml:"bucket_capacity"`
}

// AreaConfig is the play area. The spatial index covers a square
// IndexScale times the play area width, centered on it.
type AreaConfig struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	IndexScale float64 `yaml:"index_scale"`
}

type BodiesConfig struct {
	Count     int     `yaml:"count"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	MinMass   float64 `yaml:"min_mass"`
	MaxMass   float64 `yaml:"max_mass"`
	MinOrbit  float64 `yaml:"min_orbit"`
	MaxOrbit  float64 `yaml:"max_orbit"`
}

// AttractorConfig places a fixed body relative to the play area center.
type AttractorConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
	Mass   float64 `yaml:"mass"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:  "euler",
		Dt:          DefaultDt,
		Frames:      DefaultFrames,
		Substeps:    1,
		Seed:        DefaultSeed,
		SampleEvery: DefaultSampleEvery,
		Physics: PhysicsConfig{
			Gravity:        physics.DefaultG,
			Dissipation:    physics.DefaultDissipation,
			Restitution:    physics.DefaultRestitution,
			Contact:        physics.ContactBounce.String(),
			BucketCapacity: 1,
		},
		Area: AreaConfig{
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			IndexScale: DefaultIndexScale,
		},
		Bodies: BodiesConfig{
			Count:     DefaultBodies,
			MinRadius: DefaultRadius,
			MaxRadius: DefaultRadius,
			MinMass:   DefaultMass,
			MaxMass:   DefaultMass,
			MinOrbit:  DefaultMinOrbit,
			MaxOrbit:  DefaultMaxOrbit,
		},
		Attractors: []AttractorConfig{
			{Radius: DefaultStarRadius, Mass: DefaultStarMass},
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	b := c.Bodies
	switch {
	case c.Dt <= 0:
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalid, c.Dt)
	case c.Frames <= 0:
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalid, c.Frames)
	case c.Area.Width <= 0 || c.Area.Height <= 0:
		return fmt.Errorf("%w: area must have a positive size", ErrInvalid)
	case c.Area.IndexScale < 1:
		return fmt.Errorf("%w: index scale must be at least 1, got %g", ErrInvalid, c.Area.IndexScale)
	case b.Count < 0:
		return fmt.Errorf("%w: body count must be non-negative, got %d", ErrInvalid, b.Count)
	case b.MinRadius <= 0 || b.MaxRadius < b.MinRadius:
		return fmt.Errorf("%w: radius range [%g, %g]", ErrInvalid, b.MinRadius, b.MaxRadius)
	case b.MinMass <= 0 || b.MaxMass < b.MinMass:
		return fmt.Errorf("%w: mass range [%g, %g]", ErrInvalid, b.MinMass, b.MaxMass)
	case b.MinOrbit < 0 || b.MaxOrbit < b.MinOrbit:
		return fmt.Errorf("%w: orbit range [%g, %g]", ErrInvalid, b.MinOrbit, b.MaxOrbit)
	}
	for i, a := range c.Attractors {
		if a.Radius <= 0 || a.Mass <= 0 {
			return fmt.Errorf("%w: attractor %d needs positive radius and mass", ErrInvalid, i)
		}
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := physics.ParseContactMode(c.Physics.Contact); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Center returns the middle of the play area.
func (c *Config) Center() (float64, float64) {
	return c.Area.Width / 2, c.Area.Height / 2
}

// IndexArea returns the region covered by the spatial index. Its height
// follows the width like the play field of the reference scene.
func (c *Config) IndexArea() geom.Rect {
	x, y := c.Center()
	side := c.Area.Width * c.Area.IndexScale
	return geom.NewRect(x, y, side, side)
}

// SimConfig converts the file representation into an engine configuration.
func (c *Config) SimConfig() (sim.Config, error) {
	integrator, err := integrators.ByName(c.Integrator)
	if err != nil {
		return sim.Config{}, err
	}
	contact, err := physics.ParseContactMode(c.Physics.Contact)
	if err != nil {
		return sim.Config{}, err
	}

	cfg := sim.Config{
		G:              c.Physics.Gravity,
		Softening:      c.Physics.Softening,
		MutualGravity:  c.Physics.MutualGravity,
		Dissipation:    c.Physics.Dissipation,
		Restitution:    c.Physics.Restitution,
		Contact:        contact,
		BucketCapacity: max(c.Physics.BucketCapacity, 1),
		Area:           c.IndexArea(),
		Substeps:       max(c.Substeps, 1),
		Integrator:     integrator,
	}
	return cfg, cfg.Validate()
}

func (c *Config) RunConfig() sim.RunConfig {
	return sim.RunConfig{
		Dt:            c.Dt,
		Frames:        c.Frames,
		SampleEvery:   c.SampleEvery,
		ValidateState: true,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Attractors = append([]AttractorConfig(nil), c.Attractors...)
	return &out
}
