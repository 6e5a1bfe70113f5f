package experiment

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/celestial/internal/config"
	"github.com/san-kum/celestial/internal/scenario"
	"github.com/san-kum/celestial/internal/sim"
)

// Experiment runs one scene configuration headlessly.
type Experiment struct {
	cfg       *config.Config
	logger    *log.Logger
	simulator *sim.Simulator
}

func New(cfg *config.Config, logger *log.Logger) *Experiment {
	return &Experiment{cfg: cfg, logger: logger}
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Setup builds the world from the configuration and attaches metrics.
func (e *Experiment) Setup(metrics []sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}
	w, err := scenario.Build(e.cfg)
	if err != nil {
		return fmt.Errorf("build scenario: %w", err)
	}

	e.simulator = sim.New(w, e.logger)
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.RunConfig())
}

// RunEnsemble runs n copies of the scene with consecutive seeds starting at
// the configured one.
func (e *Experiment) RunEnsemble(ctx context.Context, n int, metrics func() []sim.Metric) ([]*sim.Result, error) {
	if err := e.cfg.Validate(); err != nil {
		return nil, err
	}
	factory := func(seed uint64) (*sim.World, error) {
		return scenario.BuildSeed(e.cfg, seed)
	}
	return sim.NewEnsemble(factory, metrics, n, e.cfg.Seed).Run(ctx, e.cfg.RunConfig())
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}
