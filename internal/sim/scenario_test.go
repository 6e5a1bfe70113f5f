package sim_test

import (
	"context"
	"errors"
	"image/color"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/celestial/internal/geom"
	"github.com/san-kum/celestial/internal/integrators"
	"github.com/san-kum/celestial/internal/physics"
	"github.com/san-kum/celestial/internal/sim"
)

var field = geom.NewRect(0, 0, 10000, 10000)

func newBody(pos, vel r2.Vec, radius, mass float64) physics.Body {
	return physics.NewBody(pos, vel, radius, mass, color.RGBA{R: 255, A: 255}, field)
}

func baseConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Area = geom.NewRect(0, 0, 1000, 1000)
	return cfg
}

type frameCounter struct{ frames, collisions int }

func (c *frameCounter) OnFrame(_ *sim.World, res sim.FrameResult, _ float64) {
	c.frames++
	c.collisions += res.Collisions
}

var _ = Describe("World", func() {
	Describe("head-on collision", func() {
		It("swaps the velocities of two equal bodies", func() {
			cfg := baseConfig()
			cfg.Dissipation = 1
			w, err := sim.NewWorld(cfg, []physics.Body{
				newBody(r2.Vec{}, r2.Vec{X: 1}, 2, 1),
				newBody(r2.Vec{X: 3}, r2.Vec{X: -1}, 2, 1),
			}, nil)
			Expect(err).NotTo(HaveOccurred())

			res := w.Step(sim.NewFrameInput(0.001))

			Expect(res.Collisions).To(Equal(1))
			Expect(w.Bodies()[0].Velocity.X).To(BeNumerically("~", -1, 1e-12))
			Expect(w.Bodies()[1].Velocity.X).To(BeNumerically("~", 1, 1e-12))
			Expect(w.Bodies()[0].Velocity.Y).To(BeNumerically("~", 0, 1e-12))
		})

		It("leaves separating bodies alone", func() {
			w, err := sim.NewWorld(baseConfig(), []physics.Body{
				newBody(r2.Vec{}, r2.Vec{X: -1}, 2, 1),
				newBody(r2.Vec{X: 3}, r2.Vec{X: 1}, 2, 1),
			}, nil)
			Expect(err).NotTo(HaveOccurred())

			res := w.Step(sim.NewFrameInput(0.001))

			Expect(res.Collisions).To(BeZero())
			Expect(w.Bodies()[0].Velocity.X).To(Equal(-1.0))
		})
	})

	DescribeTable("closed circular orbit",
		func(integrator integrators.Integrator) {
			const (
				g    = 1.0
				mass = 1000.0
				d    = 100.0
				dt   = 1.0 / 60
			)
			cfg := baseConfig()
			cfg.G = g
			cfg.Integrator = integrator

			star := newBody(r2.Vec{}, r2.Vec{}, 5, mass)
			start := r2.Vec{X: d}
			v0 := physics.OrbitalVelocity(start, star.Position, mass, g)

			w, err := sim.NewWorld(cfg, []physics.Body{newBody(start, v0, 1, 1)}, []physics.Body{star})
			Expect(err).NotTo(HaveOccurred())

			period := 2 * math.Pi * d / r2.Norm(v0)
			frames := int(math.Round(period / dt))
			for range frames {
				w.Step(sim.NewFrameInput(dt))
			}

			b := w.Bodies()[0]
			Expect(geom.Dist(b.Position, start)).To(BeNumerically("<", 1.0))
			Expect(geom.Dist(b.Velocity, v0)).To(BeNumerically("<", 0.01*r2.Norm(v0)))
		},
		Entry("euler", integrators.NewEuler()),
		Entry("verlet", integrators.NewVerlet()),
	)

	Describe("absorbing fixed body", func() {
		It("drains every body falling into it", func() {
			cfg := baseConfig()
			cfg.G = 5000
			cfg.Contact = physics.ContactAbsorb
			bodies := []physics.Body{
				newBody(r2.Vec{X: 60}, r2.Vec{}, 2, 1),
				newBody(r2.Vec{X: -60}, r2.Vec{}, 2, 1),
				newBody(r2.Vec{Y: 80}, r2.Vec{}, 2, 1),
			}
			w, err := sim.NewWorld(cfg, bodies, []physics.Body{newBody(r2.Vec{}, r2.Vec{}, 10, 100)})
			Expect(err).NotTo(HaveOccurred())

			removed := 0
			for range 600 {
				res := w.Step(sim.NewFrameInput(1.0 / 60))
				removed += len(res.Removed)
				if w.Len() == 0 {
					break
				}
			}

			Expect(removed).To(Equal(3))
			Expect(w.Len()).To(BeZero())
		})
	})
})

var _ = Describe("Simulator", func() {
	var w *sim.World

	BeforeEach(func() {
		var err error
		w, err = sim.NewWorld(baseConfig(), []physics.Body{
			newBody(r2.Vec{X: -50}, r2.Vec{X: 10}, 2, 1),
			newBody(r2.Vec{X: 50}, r2.Vec{X: -10}, 2, 1),
		}, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects an invalid run configuration", func() {
		s := sim.New(w, nil)
		_, err := s.Run(context.Background(), sim.RunConfig{Dt: 0, Frames: 10})
		Expect(errors.Is(err, sim.ErrInvalidConfig)).To(BeTrue())

		_, err = s.Run(context.Background(), sim.RunConfig{Dt: 0.1, Frames: 0})
		Expect(errors.Is(err, sim.ErrInvalidConfig)).To(BeTrue())
	})

	It("samples snapshots and notifies observers", func() {
		s := sim.New(w, nil)
		counter := &frameCounter{}
		s.AddObserver(counter)

		res, err := s.Run(context.Background(), sim.RunConfig{Dt: 0.1, Frames: 60, SampleEvery: 25})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Frames).To(Equal(60))
		Expect(counter.frames).To(Equal(60))
		Expect(counter.collisions).To(Equal(1))
		Expect(res.Collisions).To(Equal(1))

		frames := make([]int, len(res.Snapshots))
		for i, snap := range res.Snapshots {
			frames[i] = snap.Frame
		}
		Expect(frames).To(Equal([]int{0, 25, 50, 60}))
		Expect(res.Snapshots[0].Bodies).To(HaveLen(2))
		Expect(res.Snapshots[0].Bodies[0].Position.X).To(Equal(-50.0))
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		res, err := sim.New(w, nil).Run(ctx, sim.DefaultRunConfig())
		Expect(err).To(MatchError(context.Canceled))
		Expect(res.Frames).To(BeZero())
	})

	It("reports diverged state", func() {
		bad, err := sim.NewWorld(baseConfig(), []physics.Body{
			newBody(r2.Vec{X: math.NaN()}, r2.Vec{}, 1, 1),
		}, nil)
		Expect(err).NotTo(HaveOccurred())

		res, err := sim.New(bad, nil).Run(context.Background(), sim.RunConfig{Dt: 0.1, Frames: 10, ValidateState: true})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Errors).To(HaveLen(1))
		Expect(errors.Is(res.Errors[0], sim.ErrUnstable)).To(BeTrue())
		Expect(res.Frames).To(Equal(1))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one independent world per seed", func() {
		factory := func(seed uint64) (*sim.World, error) {
			x := float64(seed) * 10
			return sim.NewWorld(baseConfig(), []physics.Body{newBody(r2.Vec{X: x}, r2.Vec{X: 1}, 1, 1)}, nil)
		}

		results, err := sim.NewEnsemble(factory, nil, 3, 1).Run(context.Background(), sim.RunConfig{Dt: 0.5, Frames: 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(3))

		for i, res := range results {
			last := res.Snapshots[len(res.Snapshots)-1]
			Expect(last.Bodies[0].Position.X).To(BeNumerically("~", float64(i+1)*10+2, 1e-9))
		}
	})

	It("propagates factory errors", func() {
		factory := func(uint64) (*sim.World, error) {
			return nil, sim.ErrInvalidConfig
		}
		_, err := sim.NewEnsemble(factory, nil, 2, 0).Run(context.Background(), sim.DefaultRunConfig())
		Expect(err).To(MatchError(sim.ErrInvalidConfig))
	})
})
