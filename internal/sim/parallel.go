package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Factory builds an independent world for a seed.
type Factory func(seed uint64) (*World, error)

// Ensemble runs one world per seed concurrently. Each world is stepped by
// its own goroutine; worlds never share state.
type Ensemble struct {
	factory   Factory
	metrics   func() []Metric
	numRuns   int
	seedStart uint64
}

// NewEnsemble returns an ensemble of numRuns worlds seeded from seedStart.
// metrics, if non-nil, is called once per run for a fresh metric set.
func NewEnsemble(factory Factory, metrics func() []Metric, numRuns int, seedStart uint64) *Ensemble {
	return &Ensemble{factory: factory, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			w, err := e.factory(e.seedStart + uint64(i))
			if err != nil {
				return err
			}
			s := New(w, nil)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}
			results[i], err = s.Run(ctx, cfg)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
