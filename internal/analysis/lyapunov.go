package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/physics"
	"github.com/san-kum/celestial/internal/sim"
)

// ErrDiverged means the twin worlds lost different bodies and can no longer
// be compared.
var ErrDiverged = errors.New("analysis: twin worlds lost different bodies")

// renormalizeAt is the separation beyond which the perturbed world is pulled
// back toward the reference one.
const renormalizeAt = 1.0

// Divergence estimates the largest Lyapunov exponent of a scene. build must
// return identical worlds on every call. The second world has body shifted
// by perturbation along x; both are stepped for frames frames of dt.
//
// Algorithm:
// 1. Step both worlds in lockstep
// 2. Measure the separation of all body positions
// 3. When it exceeds renormalizeAt, log the growth and rescale it back
// 4. λ ≈ Σ ln(growth) / t
func Divergence(build func() (*sim.World, error), body int, perturbation, dt float64, frames int) (float64, error) {
	ref, err := build()
	if err != nil {
		return 0, err
	}
	twin, err := build()
	if err != nil {
		return 0, err
	}
	if body < 0 || body >= twin.Len() || perturbation <= 0 {
		return 0, errors.New("analysis: invalid perturbation")
	}

	shift := r2.Vec{X: perturbation}
	b := &twin.Bodies()[body]
	b.Position = r2.Add(b.Position, shift)
	b.PrevPosition = r2.Add(b.PrevPosition, shift)

	in := sim.NewFrameInput(dt)
	sumLog := 0.0
	t := 0.0
	sep := perturbation

	for range frames {
		ref.Step(in)
		twin.Step(in)
		t += dt

		if ref.Len() != twin.Len() {
			return 0, ErrDiverged
		}

		sep = separation(ref.Bodies(), twin.Bodies())
		if sep > renormalizeAt {
			sumLog += math.Log(sep / perturbation)
			rescale(ref.Bodies(), twin.Bodies(), perturbation/sep)
			sep = perturbation
		}
	}

	if t == 0 || sep == 0 {
		return 0, nil
	}
	sumLog += math.Log(sep / perturbation)
	return sumLog / t, nil
}

func separation(a, b []physics.Body) float64 {
	var s float64
	for i := range a {
		s += r2.Norm2(r2.Sub(b[i].Position, a[i].Position))
	}
	return math.Sqrt(s)
}

// rescale moves every twin body toward its reference counterpart, keeping
// each body's velocity offset scaled by the same factor.
func rescale(ref, twin []physics.Body, scale float64) {
	for i := range twin {
		r, p := &ref[i], &twin[i]
		p.Position = r2.Add(r.Position, r2.Scale(scale, r2.Sub(p.Position, r.Position)))
		p.PrevPosition = r2.Add(r.PrevPosition, r2.Scale(scale, r2.Sub(p.PrevPosition, r.PrevPosition)))
		p.Velocity = r2.Add(r.Velocity, r2.Scale(scale, r2.Sub(p.Velocity, r.Velocity)))
	}
}
