package fdtd_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cavsim/internal/config"
	"github.com/san-kum/cavsim/internal/fdtd"
	"github.com/san-kum/cavsim/internal/physics"
)

var _ = Describe("Cavity simulation", func() {
	var cfg *config.CavityConfig

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		cfg.Nx, cfg.Ny = 41, 31
		cfg.Lx, cfg.Ly = 0.1, 0.075
		cfg.Nt = 400
	})

	Describe("grid construction", func() {
		It("derives the time step from the CFL bound", func() {
			g, err := fdtd.BuildGrid(cfg)
			Expect(err).NotTo(HaveOccurred())

			want := cfg.CFL / (physics.C0 * math.Sqrt(1/(g.Dx*g.Dx)+1/(g.Dy*g.Dy)))
			Expect(g.Dt).To(BeNumerically("~", want, 1e-25))
			Expect(g.Dx).To(BeNumerically("~", 0.1/40, 1e-15))
			Expect(g.Dy).To(BeNumerically("~", 0.075/30, 1e-15))
		})

		It("places the source at (Nx/3, Ny/2) when unset", func() {
			g, err := fdtd.BuildGrid(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(g.Isrc).To(Equal(13))
			Expect(g.Jsrc).To(Equal(15))
			Expect(g.SourceInside()).To(BeTrue())
		})
	})

	Describe("running", func() {
		It("keeps every wall at exactly zero after each step", func() {
			s, err := fdtd.New(cfg)
			Expect(err).NotTo(HaveOccurred())

			for n := 0; n < 120; n++ {
				s.Step()
				ez := s.Fields().Ez
				for i := 0; i < ez.Rows; i++ {
					Expect(ez.At(i, 0)).To(Equal(0.0))
					Expect(ez.At(i, ez.Cols-1)).To(Equal(0.0))
				}
				for j := 0; j < ez.Cols; j++ {
					Expect(ez.At(0, j)).To(Equal(0.0))
					Expect(ez.At(ez.Rows-1, j)).To(Equal(0.0))
				}
			}
		})

		It("produces bit-identical traces for identical configs", func() {
			a, err := fdtd.RunSimulation(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			b, err := fdtd.RunSimulation(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(b.Trace).To(Equal(a.Trace))
		})

		It("stays silent without a source amplitude", func() {
			cfg.J0 = 0
			res, err := fdtd.RunSimulation(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(res.Fields.Ez.Data.MaxAbs()).To(BeZero())
			Expect(res.Fields.Hx.Data.MaxAbs()).To(BeZero())
			Expect(res.Fields.Hy.Data.MaxAbs()).To(BeZero())
		})

		It("treats a wall source as no source", func() {
			cfg.SetSource(0, 10)
			res, err := fdtd.RunSimulation(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Fields.Ez.Data.MaxAbs()).To(BeZero())
		})

		It("diverges silently when CFL exceeds one", func() {
			cfg.CFL = 1.5
			cfg.Nt = 600
			res, err := fdtd.RunSimulation(context.Background(), cfg)
			Expect(err).NotTo(HaveOccurred())

			peak := res.Fields.Ez.Data.MaxAbs()
			Expect(math.IsInf(peak, 0) || math.IsNaN(peak) || !res.Fields.IsValid() || peak > 1e30).To(BeTrue())
		})
	})
})
