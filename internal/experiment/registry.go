package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/celestial/internal/integrators"
	"github.com/san-kum/celestial/internal/metrics"
	"github.com/san-kum/celestial/internal/sim"
)

type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{
		metrics: make(map[string]func() sim.Metric),
	}

	r.metrics["energy"] = func() sim.Metric { return metrics.NewEnergy() }
	r.metrics["energy_drift"] = func() sim.Metric { return metrics.NewEnergyDrift() }
	r.metrics["momentum"] = func() sim.Metric { return metrics.NewMomentum() }
	r.metrics["collisions"] = func() sim.Metric { return metrics.NewCollisions() }
	r.metrics["absorbed"] = func() sim.Metric { return metrics.NewAbsorbed() }
	r.metrics["containment"] = func() sim.Metric { return metrics.NewContainment() }

	return r
}

func (r *Registry) GetIntegrator(name string) (integrators.Integrator, error) {
	return integrators.ByName(name)
}

func (r *Registry) ListIntegrators() []string {
	return integrators.Names()
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns a fresh instance of every registered metric.
func (r *Registry) DefaultMetrics() []sim.Metric {
	out := make([]sim.Metric, 0, len(r.metrics))
	for _, name := range r.ListMetrics() {
		out = append(out, r.metrics[name]())
	}
	return out
}
