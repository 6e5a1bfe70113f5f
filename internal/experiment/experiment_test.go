package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/celestial/internal/config"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Bodies.Count = 20
	cfg.Frames = 30
	cfg.SampleEvery = 10
	return cfg
}

func TestExperimentRun(t *testing.T) {
	reg := NewRegistry()
	exp := New(smallConfig(), nil)

	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}

	if err := exp.Setup(reg.DefaultMetrics()); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.Frames != 30 {
		t.Errorf("expected 30 frames, got %d", res.Frames)
	}
	if len(res.Snapshots) != 4 {
		t.Errorf("expected 4 snapshots, got %d", len(res.Snapshots))
	}
	for _, name := range reg.ListMetrics() {
		if _, ok := res.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Dt = 0
	if err := New(cfg, nil).Setup(nil); err == nil {
		t.Error("expected validation error")
	}
}

func TestExperimentEnsemble(t *testing.T) {
	reg := NewRegistry()
	results, err := New(smallConfig(), nil).RunEnsemble(context.Background(), 3, reg.DefaultMetrics)
	if err != nil {
		t.Fatalf("RunEnsemble: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	first := results[0].Snapshots[0].Bodies[0].Position
	second := results[1].Snapshots[0].Bodies[0].Position
	if first == second {
		t.Error("expected different seeds to differ")
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()

	if _, err := reg.GetIntegrator("verlet"); err != nil {
		t.Errorf("expected verlet, got %v", err)
	}
	if _, err := reg.GetIntegrator("rk4"); err == nil {
		t.Error("expected error for unknown integrator")
	}
	if _, err := reg.GetMetric("energy"); err != nil {
		t.Errorf("expected energy metric, got %v", err)
	}
	if _, err := reg.GetMetric("nope"); err == nil {
		t.Error("expected error for unknown metric")
	}
	if got := len(reg.DefaultMetrics()); got != len(reg.ListMetrics()) {
		t.Errorf("expected %d default metrics, got %d", len(reg.ListMetrics()), got)
	}
}
