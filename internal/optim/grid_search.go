// Package optim searches scene parameters for the lowest metric value.
package optim

import (
	"context"
	"fmt"
	"maps"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/celestial/internal/config"
	"github.com/san-kum/celestial/internal/experiment"
	"github.com/san-kum/celestial/internal/sim"
)

// GridSearch tries every combination of the given parameter values.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d parameters but %d ranges", len(params), len(ranges))
	}
	for i, r := range ranges {
		if len(r) == 0 {
			return nil, fmt.Errorf("optim: no values for %s", params[i])
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs base once per grid point and returns the parameters with the
// smallest value of metricName. Points whose configuration is invalid are
// skipped.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	metricName string,
	logger *log.Logger,
) (map[string]float64, float64, error) {
	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(metricName); err != nil {
		return nil, 0, err
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) error {
		cfg := base.Clone()
		for k, v := range params {
			if err := cfg.SetParam(k, v); err != nil {
				return err
			}
		}
		if err := cfg.Validate(); err != nil {
			logger.Debug("skipping grid point", "params", params, "err", err)
			return nil
		}

		metric, _ := registry.GetMetric(metricName)
		exp := experiment.New(cfg, logger)
		if err := exp.Setup([]sim.Metric{metric}); err != nil {
			return err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		val := result.Metrics[metricName]
		if val < best {
			best = val
			bestParams = maps.Clone(params)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("optim: no valid grid point")
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	eval func(map[string]float64) error,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		return eval(current)
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := maps.Clone(current)
		next[paramName] = val
		if err := g.searchRecursive(ctx, depth+1, next, eval); err != nil {
			return err
		}
	}
	return nil
}
