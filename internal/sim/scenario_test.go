package sim_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/corosph/internal/elasticity"
	"github.com/san-kum/corosph/internal/integrators"
	"github.com/san-kum/corosph/internal/metrics"
	"github.com/san-kum/corosph/internal/particle"
	"github.com/san-kum/corosph/internal/sim"
	"github.com/san-kum/corosph/internal/tensor"
	"gonum.org/v1/gonum/spatial/r3"
)

const spacing = 0.1

// cantilever builds a 2D beam clamped at x = 0. The tip is the last
// particle of the top row.
func cantilever(young float64, nonlinear bool) (*sim.Simulator, int) {
	body := particle.Block(tensor.Dim2, spacing, 10, 3, 1, 1000)
	body.Pin(func(p r3.Vec) bool { return p.X < spacing/2 })
	solver := elasticity.New(elasticity.Config{
		YoungModulus:    young,
		PoissonRatio:    0.3,
		NonlinearStrain: nonlinear,
		Dim:             tensor.Dim2,
	})
	s := sim.New(body, solver, integrators.NewSymplecticEuler())
	for _, m := range metrics.Standard(body.Len() - 1) {
		s.AddMetric(m)
	}
	return s, body.Len() - 1
}

func beamConfig(tip int) sim.Config {
	cfg := sim.DefaultConfig()
	cfg.Dt = 1e-4
	cfg.Duration = 0.05
	cfg.SupportRadius = 2 * spacing
	cfg.RecordEvery = 50
	cfg.Track = tip
	return cfg
}

var _ = Describe("Simulator", func() {
	Describe("a cantilever under gravity", func() {
		var (
			s      *sim.Simulator
			tip    int
			result *sim.Result
		)

		BeforeEach(func() {
			var err error
			s, tip = cantilever(1e5, false)
			result, err = s.Run(context.Background(), beamConfig(tip))
			Expect(err).NotTo(HaveOccurred())
		})

		It("sags at the free end", func() {
			first, last := result.Frames[0], result.Frames[len(result.Frames)-1]
			Expect(last.TipY).To(BeNumerically("<", first.TipY))
			Expect(result.Metrics["tip_displacement"]).To(BeNumerically(">", 0))
		})

		It("keeps the clamped column in place", func() {
			for _, p := range result.Particles {
				if p.Pinned {
					Expect(p.X).To(BeZero())
					Expect(p.VX).To(BeZero())
					Expect(p.VY).To(BeZero())
				}
			}
		})

		It("builds up stress and keeps internal forces balanced", func() {
			Expect(result.Metrics["max_stress"]).To(BeNumerically(">", 0))
			Expect(result.Metrics["strain_energy"]).To(BeNumerically(">", 0))
			Expect(result.Metrics["net_force"]).To(BeNumerically("<", 1e-9))
		})

		It("records frames at the requested interval", func() {
			Expect(result.Frames).To(HaveLen(11))
			for i, f := range result.Frames {
				Expect(f.Step).To(Equal(i * 50))
			}
		})
	})

	Describe("spatial reordering", func() {
		run := func(reorderEvery int, nonlinear bool) *sim.Result {
			s, tip := cantilever(1e5, nonlinear)
			cfg := beamConfig(tip)
			cfg.Duration = 0.02
			cfg.ReorderEvery = reorderEvery
			result, err := s.Run(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			return result
		}

		DescribeTable("does not change the motion",
			func(nonlinear bool) {
				plain := run(0, nonlinear)
				sorted := run(7, nonlinear)
				Expect(sorted.Reorders).To(Equal(plain.StepsTaken / 7))
				Expect(sorted.Particles).To(HaveLen(len(plain.Particles)))
				for i := range plain.Particles {
					a, b := plain.Particles[i], sorted.Particles[i]
					Expect(b.ID).To(Equal(a.ID))
					Expect(b.X).To(BeNumerically("~", a.X, 1e-12))
					Expect(b.Y).To(BeNumerically("~", a.Y, 1e-12))
					Expect(b.VonMises).To(BeNumerically("~", a.VonMises, 1e-6*(1+a.VonMises)))
				}
			},
			Entry("linear strain", false),
			Entry("nonlinear strain", true),
		)
	})

	Describe("an unstable configuration", func() {
		It("stops with ErrInvalidState", func() {
			s, tip := cantilever(1e12, false)
			cfg := beamConfig(tip)
			cfg.Dt = 1e-2
			cfg.Duration = 10

			result, err := s.Run(context.Background(), cfg)
			Expect(err).To(MatchError(sim.ErrInvalidState))
			var simErr *sim.SimError
			Expect(err).To(BeAssignableToTypeOf(simErr))
			Expect(result.StepsTaken).To(BeNumerically("<", 1000))
		})
	})
})
