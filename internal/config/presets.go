package config

import "sort"

var Presets = map[string]*Config{
	"orbit": DefaultConfig(),
	"dense": func() *Config {
		c := DefaultConfig()
		c.Bodies.Count = 400
		c.Bodies.MinRadius, c.Bodies.MaxRadius = 3, 6
		c.Bodies.MinOrbit, c.Bodies.MaxOrbit = 120, 420
		c.Physics.BucketCapacity = 4
		c.Substeps = 2
		return c
	}(),
	"absorb": func() *Config {
		c := DefaultConfig()
		c.Physics.Contact = "absorb"
		c.Bodies.MinOrbit, c.Bodies.MaxOrbit = 60, 300
		c.Frames = 1800
		return c
	}(),
	"nbody": func() *Config {
		c := DefaultConfig()
		c.Bodies.Count = 40
		c.Bodies.MinMass, c.Bodies.MaxMass = 1, 20
		c.Bodies.MinRadius, c.Bodies.MaxRadius = 4, 12
		c.Physics.MutualGravity = true
		c.Physics.Softening = 5
		c.Substeps = 4
		return c
	}(),
	"verlet": func() *Config {
		c := DefaultConfig()
		c.Integrator = "verlet"
		c.Attractors = []AttractorConfig{
			{X: -150, Radius: 20, Mass: 600},
			{X: 150, Radius: 20, Mass: 600},
		}
		c.Bodies.MinOrbit, c.Bodies.MaxOrbit = 320, 420
		return c
	}(),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	out.Name = name
	return out
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
