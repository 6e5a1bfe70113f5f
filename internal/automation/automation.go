// Package automation runs scripted batches and parameter sweeps of scenes.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/celestial/internal/config"
	"github.com/san-kum/celestial/internal/experiment"
	"github.com/san-kum/celestial/internal/sim"
	"github.com/san-kum/celestial/internal/storage"
)

// Script is a named sequence of runs.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step is one run of a script. Preset selects the base scene, Config
// replaces it with a file; Params are applied last.
type Step struct {
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	Integrator string             `yaml:"integrator"`
	Frames     int                `yaml:"frames"`
	Seed       uint64             `yaml:"seed"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult pairs a step with its run. RunID is empty when the step was
// not stored.
type StepResult struct {
	Step   Step
	RunID  string
	Result *sim.Result
}

// LoadScript loads a script from a YAML file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, err
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("%s: script has no steps", path)
	}
	return &script, nil
}

// Resolve builds the configuration of a step.
func (s Step) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	switch {
	case s.Config != "":
		loaded, err := config.Load(s.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case s.Preset != "":
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	if s.SaveAs != "" {
		cfg.Name = s.SaveAs
	}
	return cfg, cfg.Validate()
}

// RunScript executes all steps in order. Steps with SaveAs are written to
// store when it is non-nil.
func RunScript(ctx context.Context, script *Script, store *storage.Store, logger *log.Logger) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))
	registry := experiment.NewRegistry()

	for i, step := range script.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Info("running step", "step", i+1, "of", len(script.Steps), "scene", cfg.Name)

		exp := experiment.New(cfg, logger)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if step.SaveAs != "" && store != nil {
			sr.RunID, err = store.Save(storage.NewMetadata(cfg, result), result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// Sweep varies one parameter linearly over Steps values in [Min, Max].
type Sweep struct {
	Param string
	Min   float64
	Max   float64
	Steps int
}

// Values returns the sampled parameter values.
func (s Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	out := make([]float64, s.Steps)
	step := (s.Max - s.Min) / float64(s.Steps-1)
	for i := range out {
		out[i] = s.Min + float64(i)*step
	}
	return out
}

// SweepResult holds the outcome of one sweep point.
type SweepResult struct {
	Value      float64
	Frames     int
	Collisions int
	Removed    int
	Metrics    map[string]float64
}

// RunSweep runs base once per sweep value with a fresh set of default
// metrics.
func RunSweep(ctx context.Context, base *config.Config, sweep Sweep, logger *log.Logger) ([]SweepResult, error) {
	values := sweep.Values()
	results := make([]SweepResult, 0, len(values))
	registry := experiment.NewRegistry()

	for i, v := range values {
		cfg := base.Clone()
		if err := cfg.SetParam(sweep.Param, v); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}

		exp := experiment.New(cfg, logger)
		if err := exp.Setup(registry.DefaultMetrics()); err != nil {
			return nil, err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			Value:      v,
			Frames:     result.Frames,
			Collisions: result.Collisions,
			Removed:    result.Removed,
			Metrics:    result.Metrics,
		})
		logger.Debug("sweep point done", "point", i+1, "of", len(values), sweep.Param, v)
	}

	return results, nil
}
