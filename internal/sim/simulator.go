package sim

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/san-kum/celestial/internal/geom"
)

// Simulator drives a World headlessly for a fixed number of frames.
type Simulator struct {
	world     *World
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

// New returns a simulator for w. A nil logger discards output.
func New(w *World, logger *log.Logger) *Simulator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Simulator{
		world:     w,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (s *Simulator) World() *World { return s.world }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := validateRunConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Snapshots: make([]Snapshot, 0),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	w := s.world
	t := 0.0
	result.Snapshots = append(result.Snapshots, snapshot(w, 0, t))
	s.logger.Debug("run started", "bodies", w.Len(), "fixed", len(w.fixed), "frames", cfg.Frames, "dt", cfg.Dt)

	in := NewFrameInput(cfg.Dt)
	for frame := 1; frame <= cfg.Frames; frame++ {
		select {
		case <-ctx.Done():
			return result, fmt.Errorf("%w after %d frames: %w", ErrCanceled, result.Frames, ctx.Err())
		default:
		}

		res := w.Step(in)
		t += cfg.Dt
		result.Frames++
		result.Collisions += res.Collisions
		result.Removed += len(res.Removed)

		if len(res.Removed) > 0 {
			s.logger.Debug("bodies absorbed", "frame", frame, "indices", res.Removed, "remaining", w.Len())
		}

		for _, m := range s.metrics {
			m.Observe(w, res, t)
		}
		for _, obs := range s.observers {
			obs.OnFrame(w, res, t)
		}

		if cfg.ValidateState {
			if i, ok := firstInvalid(w); ok {
				err := SimError{Frame: frame, Time: t, Message: fmt.Sprintf("body %d has a non-finite state", i), Err: ErrUnstable}
				s.logger.Warn("state diverged", "frame", frame, "body", i)
				result.Errors = append(result.Errors, err)
				break
			}
		}

		if frame == cfg.Frames || cfg.SampleEvery > 0 && frame%cfg.SampleEvery == 0 {
			result.Snapshots = append(result.Snapshots, snapshot(w, frame, t))
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.logger.Debug("run complete", "frames", result.Frames, "collisions", result.Collisions, "removed", result.Removed)
	return result, nil
}

func validateRunConfig(cfg RunConfig) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, cfg.Frames)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("%w: sample interval must be non-negative, got %d", ErrInvalidConfig, cfg.SampleEvery)
	}
	return nil
}

func firstInvalid(w *World) (int, bool) {
	for i := range w.bodies {
		b := &w.bodies[i]
		if !geom.Finite(b.Position) || !geom.Finite(b.Velocity) {
			return i, true
		}
	}
	return 0, false
}

func snapshot(w *World, frame int, t float64) Snapshot {
	bodies := make([]BodyState, len(w.bodies))
	for i := range w.bodies {
		b := &w.bodies[i]
		bodies[i] = BodyState{Position: b.Position, Velocity: b.Velocity, Radius: b.Radius, Mass: b.Mass}
	}
	return Snapshot{Frame: frame, Time: t, Bodies: bodies}
}
