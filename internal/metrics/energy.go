package metrics

import (
	"math"

	"github.com/san-kum/celestial/internal/physics"
	"github.com/san-kum/celestial/internal/sim"
)

// TotalEnergy returns the kinetic energy of every body plus its potential
// energy against the fixed attractors and, with mutual gravity enabled,
// against every other body.
func TotalEnergy(w *sim.World) float64 {
	cfg := w.Config()
	bodies := w.Bodies()
	fixed := w.Fixed()

	var e float64
	for i := range bodies {
		b := &bodies[i]
		e += b.KineticEnergy()
		for j := range fixed {
			e += physics.PotentialEnergy(b, &fixed[j], cfg.G, 0)
		}
		if cfg.MutualGravity {
			for j := i + 1; j < len(bodies); j++ {
				e += physics.PotentialEnergy(b, &bodies[j], cfg.G, cfg.Softening)
			}
		}
	}
	return e
}

type Energy struct {
	name        string
	samples     int
	totalEnergy float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(w *sim.World, _ sim.FrameResult, _ float64) {
	e.totalEnergy += TotalEnergy(w)
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}

// EnergyDrift tracks the largest relative departure from the energy seen on
// the first observed frame. Frames that remove bodies restart the baseline.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(w *sim.World, res sim.FrameResult, _ float64) {
	energy := TotalEnergy(w)

	if e.samples == 0 || len(res.Removed) > 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
