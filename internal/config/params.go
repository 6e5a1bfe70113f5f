package config

import (
	"fmt"
	"sort"
)

// params maps the numeric knobs that sweeps and searches may vary.
var params = map[string]func(c *Config, v float64){
	"dt":              func(c *Config, v float64) { c.Dt = v },
	"gravity":         func(c *Config, v float64) { c.Physics.Gravity = v },
	"dissipation":     func(c *Config, v float64) { c.Physics.Dissipation = v },
	"restitution":     func(c *Config, v float64) { c.Physics.Restitution = v },
	"softening":       func(c *Config, v float64) { c.Physics.Softening = v },
	"bucket_capacity": func(c *Config, v float64) { c.Physics.BucketCapacity = int(v) },
	"substeps":        func(c *Config, v float64) { c.Substeps = int(v) },
	"bodies":          func(c *Config, v float64) { c.Bodies.Count = int(v) },
	"star_mass": func(c *Config, v float64) {
		if len(c.Attractors) > 0 {
			c.Attractors[0].Mass = v
		}
	},
}

// SetParam assigns the named knob. Integer knobs truncate v.
func (c *Config) SetParam(name string, v float64) error {
	set, ok := params[name]
	if !ok {
		return fmt.Errorf("%w: unknown parameter %q (available: %v)", ErrInvalid, name, ParamNames())
	}
	set(c, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
