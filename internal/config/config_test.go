package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/celestial/internal/physics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Physics.Gravity != 15000 {
		t.Errorf("expected gravity 15000, got %f", cfg.Physics.Gravity)
	}
	if cfg.Bodies.Count != 100 {
		t.Errorf("expected 100 bodies, got %d", cfg.Bodies.Count)
	}
	if len(cfg.Attractors) != 1 || cfg.Attractors[0].Mass != 1000 {
		t.Errorf("expected one star of mass 1000, got %+v", cfg.Attractors)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"no frames", func(c *Config) { c.Frames = 0 }},
		{"empty area", func(c *Config) { c.Area.Width = 0 }},
		{"small index", func(c *Config) { c.Area.IndexScale = 0.5 }},
		{"negative count", func(c *Config) { c.Bodies.Count = -1 }},
		{"radius range", func(c *Config) { c.Bodies.MaxRadius = 1 }},
		{"mass range", func(c *Config) { c.Bodies.MinMass = 0 }},
		{"orbit range", func(c *Config) { c.Bodies.MaxOrbit = 10 }},
		{"attractor mass", func(c *Config) { c.Attractors[0].Mass = 0 }},
		{"integrator", func(c *Config) { c.Integrator = "rk4" }},
		{"contact", func(c *Config) { c.Physics.Contact = "stick" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestSimConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Physics.Contact = "absorb"
	cfg.Integrator = "verlet"
	cfg.Substeps = 3

	sc, err := cfg.SimConfig()
	if err != nil {
		t.Fatalf("SimConfig: %v", err)
	}
	if sc.Contact != physics.ContactAbsorb {
		t.Errorf("expected absorb, got %v", sc.Contact)
	}
	if sc.Integrator.Name() != "verlet" {
		t.Errorf("expected verlet, got %s", sc.Integrator.Name())
	}
	if sc.Substeps != 3 {
		t.Errorf("expected 3 substeps, got %d", sc.Substeps)
	}
	if sc.Area.X != 600 || sc.Area.Width() != 4800 || sc.Area.Height() != 4800 {
		t.Errorf("unexpected index area %+v", sc.Area)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	cfg := GetPreset("verlet")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Integrator != "verlet" {
		t.Errorf("expected verlet, got %s", loaded.Integrator)
	}
	if len(loaded.Attractors) != 2 || loaded.Attractors[1].X != 150 {
		t.Errorf("attractors not preserved: %+v", loaded.Attractors)
	}
	if loaded.Name != "verlet" {
		t.Errorf("expected name verlet, got %q", loaded.Name)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("absorb")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Physics.Contact != "absorb" {
		t.Errorf("expected absorb contact, got %s", cfg.Physics.Contact)
	}

	cfg.Attractors[0].Mass = 1
	if Presets["absorb"].Attractors[0].Mass != DefaultStarMass {
		t.Error("preset modified through returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestPresetsValid(t *testing.T) {
	names := ListPresets()
	if len(names) != 5 {
		t.Errorf("expected 5 presets, got %v", names)
	}
	for _, name := range names {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}

func TestSetParam(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name  string
		value float64
		check func(*Config) bool
	}{
		{"gravity", 2, func(c *Config) bool { return c.Physics.Gravity == 2 }},
		{"restitution", 0.5, func(c *Config) bool { return c.Physics.Restitution == 0.5 }},
		{"substeps", 3.9, func(c *Config) bool { return c.Substeps == 3 }},
		{"bodies", 12, func(c *Config) bool { return c.Bodies.Count == 12 }},
		{"star_mass", 50, func(c *Config) bool { return c.Attractors[0].Mass == 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cfg.SetParam(tt.name, tt.value); err != nil {
				t.Fatalf("SetParam: %v", err)
			}
			if !tt.check(cfg) {
				t.Errorf("%s not applied", tt.name)
			}
		})
	}

	if err := cfg.SetParam("warp", 1); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if len(ParamNames()) != len(params) {
		t.Error("ParamNames incomplete")
	}
}
