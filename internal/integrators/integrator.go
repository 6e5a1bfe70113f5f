package integrators

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/physics"
)

// Integrator advances a single body by dt under the acceleration acc.
type Integrator interface {
	Name() string
	Step(b *physics.Body, acc r2.Vec, dt float64)
}

var registry = map[string]func() Integrator{
	"euler":  func() Integrator { return NewEuler() },
	"verlet": func() Integrator { return NewVerlet() },
}

// ByName returns the integrator registered under name.
func ByName(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

// Names lists the registered integrators in lexical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
