package sim

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/integrators"
	"github.com/san-kum/celestial/internal/physics"
	"github.com/san-kum/celestial/internal/quadtree"
)

// NoExclude is the FrameInput.Exclude value selecting no body.
const NoExclude = -1

// Config holds the physical constants and engine knobs of a World.
type Config struct {
	G             float64
	Softening     float64
	MutualGravity bool

	Dissipation float64
	Restitution float64
	Contact     physics.ContactMode

	BucketCapacity int
	// Area is the region covered by the spatial index. Bodies outside it
	// take no part in collisions.
	Area geom.Rect

	// Substeps is the number of physics steps per frame. The index is
	// rebuilt before every one of them.
	Substeps   int
	Integrator integrators.Integrator
}

// DefaultConfig mirrors the reference scene: 1200x1000 play area with an
// index four times as wide.
func DefaultConfig() Config {
	return Config{
		G:              physics.DefaultG,
		Dissipation:    physics.DefaultDissipation,
		Restitution:    physics.DefaultRestitution,
		Contact:        physics.ContactBounce,
		BucketCapacity: quadtree.DefaultCapacity,
		Area:           geom.NewRect(600, 500, 4800, 4800),
		Substeps:       1,
		Integrator:     integrators.NewEuler(),
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.G < 0:
		return fmt.Errorf("%w: gravitational constant must be non-negative, got %g", ErrInvalidConfig, c.G)
	case c.Softening < 0:
		return fmt.Errorf("%w: softening must be non-negative, got %g", ErrInvalidConfig, c.Softening)
	case c.Dissipation < 0 || c.Dissipation > 1:
		return fmt.Errorf("%w: dissipation must be in [0,1], got %g", ErrInvalidConfig, c.Dissipation)
	case c.Restitution < 0 || c.Restitution > 1:
		return fmt.Errorf("%w: restitution must be in [0,1], got %g", ErrInvalidConfig, c.Restitution)
	case c.BucketCapacity < 1:
		return fmt.Errorf("%w: bucket capacity must be at least 1, got %d", ErrInvalidConfig, c.BucketCapacity)
	case c.Area.HalfWidth <= 0 || c.Area.HalfHeight <= 0:
		return fmt.Errorf("%w: index area must have a positive size", ErrInvalidConfig)
	case c.Substeps < 1:
		return fmt.Errorf("%w: substeps must be at least 1, got %d", ErrInvalidConfig, c.Substeps)
	case c.Integrator == nil:
		return fmt.Errorf("%w: no integrator", ErrInvalidConfig)
	}
	return nil
}

// FrameInput is what the caller supplies every frame. The zero Exclude
// selects body 0, so build inputs with NewFrameInput unless a body is meant
// to be excluded.
type FrameInput struct {
	// Dt is the simulated time covered by the frame. It is split evenly
	// across the configured sub-steps.
	Dt float64
	// Exclude is a body that receives no gravity this frame, typically one
	// being dragged. NoExclude disables it.
	Exclude int
	// Forces optionally adds an external force per body, indexed like the
	// body collection. Shorter slices leave the remaining bodies alone.
	Forces []r2.Vec
}

// NewFrameInput returns the input for a frame of length dt that excludes no
// body.
func NewFrameInput(dt float64) FrameInput {
	return FrameInput{Dt: dt, Exclude: NoExclude}
}

// FrameResult summarizes one frame.
type FrameResult struct {
	Collisions    int
	FixedContacts int
	// Removed lists, in ascending order, the indices the absorbed bodies had
	// at the start of the frame. They are no longer in the collection.
	Removed []int
}

type Metric interface {
	Name() string
	Observe(w *World, res FrameResult, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(w *World, res FrameResult, t float64)
}

// RunConfig drives a headless run.
type RunConfig struct {
	Dt     float64
	Frames int
	// SampleEvery keeps one snapshot every that many frames; 0 keeps only
	// the first and last.
	SampleEvery   int
	ValidateState bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Dt:            physics.ReferenceDt,
		Frames:        600,
		SampleEvery:   10,
		ValidateState: true,
	}
}

// BodyState is the drawable part of a body at one instant.
type BodyState struct {
	Position r2.Vec
	Velocity r2.Vec
	Radius   float64
	Mass     float64
}

type Snapshot struct {
	Frame  int
	Time   float64
	Bodies []BodyState
}

type Result struct {
	Snapshots  []Snapshot
	Metrics    map[string]float64
	Frames     int
	Collisions int
	Removed    int
	Errors     []error
}
