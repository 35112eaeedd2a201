package sampling

import (
	"context"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gzsim/internal/analysis"
	"github.com/san-kum/gzsim/internal/hull"
	"github.com/san-kum/gzsim/internal/hydro"
)

// A 2 x 4 x 1 m box floating at half depth with its center of mass at the
// geometric center: KG = 0.5 m, GM = 5/12 m.
const (
	boxBeam    = 2.0
	boxLength  = 4.0
	boxDepth   = 1.0
	boxDensity = 1025.0
	boxMass    = boxDensity * boxBeam * boxLength * 0.5
)

func boxConfig(angles ...float64) hydro.Config {
	cfg := hydro.DefaultConfig()
	cfg.NumPoints = 20000
	cfg.Mass = boxMass
	cfg.Density = boxDensity
	cfg.Angles = angles
	return cfg
}

var _ = Describe("Generator", func() {
	var (
		ctx   context.Context
		solid *hull.Solid
		cloud hydro.PointCloud
	)

	BeforeEach(func() {
		ctx = context.Background()

		var err error
		solid, err = hull.Box(boxBeam, boxLength, boxDepth)
		Expect(err).NotTo(HaveOccurred())

		cloud, err = seeded(7).Sample(ctx, solid, 20000)
		Expect(err).NotTo(HaveOccurred())
	})

	It("yields no righting arm upright for a symmetric hull", func() {
		curve, err := NewGenerator(solid, boxConfig(0), nil).Run(ctx, cloud)
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.Points).To(HaveLen(1))
		Expect(curve.Points[0].Arm).To(BeNumerically("~", 0, 0.02))
		Expect(curve.Points[0].Waterline).To(BeNumerically("~", 0, 0.02))
	})

	It("follows the wall-sided formula at small angles", func() {
		angles := []float64{5, 10, 15, 20}
		curve, err := NewGenerator(solid, boxConfig(angles...), nil).Run(ctx, cloud)
		Expect(err).NotTo(HaveOccurred())

		draft := analysis.BoxDraft(boxMass, boxDensity, boxBeam, boxLength)
		for i, p := range curve.Points {
			expected, ok := analysis.BoxRightingArm(boxBeam, boxDepth, draft, boxDepth/2, angles[i])
			Expect(ok).To(BeTrue())
			Expect(p.Arm).To(BeNumerically("~", expected, 0.02), "angle %v", angles[i])
		}
	})

	It("rises then falls between upright and 90 degrees", func() {
		angles := hydro.AngleRange(0, 90, 5)
		curve, err := NewGenerator(solid, boxConfig(angles...), nil).Run(ctx, cloud)
		Expect(err).NotTo(HaveOccurred())

		arms := curve.Arms()
		Expect(arms[1]).To(BeNumerically(">", 0))
		Expect(arms[2]).To(BeNumerically(">", arms[1]))

		peak := 0
		for i, a := range arms {
			if a > arms[peak] {
				peak = i
			}
		}
		Expect(peak).To(BeNumerically(">", 1))
		Expect(peak).To(BeNumerically("<", len(arms)-1))
		Expect(arms[len(arms)-1]).To(BeNumerically("<", arms[peak]))
		// On its side the box is symmetric about the vertical again.
		Expect(arms[len(arms)-1]).To(BeNumerically("~", 0, 0.03))
	})

	It("is odd in heel angle under the offset convention", func() {
		curve, err := NewGenerator(solid, boxConfig(-20, 0, 20), nil).Run(ctx, cloud)
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.Convention).To(Equal(hydro.ConventionOffset))

		Expect(curve.Points[2].Arm).To(BeNumerically(">", 0))
		Expect(curve.Points[0].Arm).To(BeNumerically("<", 0))
		Expect(curve.Points[0].Arm).To(BeNumerically("~", -curve.Points[2].Arm, 0.02))
	})

	It("reports restoring arms as positive on both sides under the heel convention", func() {
		cfg := boxConfig(-20, 0, 20)
		cfg.Convention = hydro.ConventionHeel

		curve, err := NewGenerator(solid, cfg, nil).Run(ctx, cloud)
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.Convention).To(Equal(hydro.ConventionHeel))

		Expect(curve.Points[0].Arm).To(BeNumerically(">", 0))
		Expect(curve.Points[1].Arm).To(BeZero())
		Expect(curve.Points[2].Arm).To(BeNumerically(">", 0))
		Expect(curve.Points[0].Arm).To(BeNumerically("~", curve.Points[2].Arm, 0.02))
	})

	It("keeps angle order and processes duplicates and wrapped angles", func() {
		angles := []float64{30, 0, 30, 400, -720}
		curve, err := NewGenerator(solid, boxConfig(angles...), nil).Run(ctx, cloud)
		Expect(err).NotTo(HaveOccurred())

		Expect(curve.Angles()).To(Equal(angles))
		Expect(curve.Points[0]).To(Equal(curve.Points[2]))
		Expect(curve.Points[4].Arm).To(BeNumerically("~", curve.Points[1].Arm, 1e-9))
		Expect(curve.NumPoints).To(Equal(len(cloud)))
	})

	It("measures the arm from an off-center pivot", func() {
		// Raising G by 0.4 m shrinks GM to 1/60 m; lowering it stiffens the hull.
		high := boxConfig(10)
		high.CenterOfMass = mgl64.Vec3{0, 0, 0.4}
		low := boxConfig(10)
		low.CenterOfMass = mgl64.Vec3{0, 0, -0.4}

		hc, err := NewGenerator(solid, high, nil).Run(ctx, cloud)
		Expect(err).NotTo(HaveOccurred())
		lc, err := NewGenerator(solid, low, nil).Run(ctx, cloud)
		Expect(err).NotTo(HaveOccurred())

		Expect(lc.Points[0].Arm - hc.Points[0].Arm).To(BeNumerically("~", 0.8*math.Sin(10*math.Pi/180), 0.01))
	})

	It("samples once when no cloud is supplied", func() {
		cfg := boxConfig(0, 10)
		cfg.NumPoints = 500

		fake := unitBox()
		fake.volume = 8
		cfg.Mass = 4 * cfg.Density

		curve, err := NewGenerator(fake, cfg, seeded(2)).Run(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(curve.NumPoints).To(Equal(500))
		Expect(fake.calls).To(Equal(1))
	})

	It("aborts the whole curve when one angle fails", func() {
		poisoned := make(hydro.PointCloud, 10)
		for i := range poisoned {
			poisoned[i] = mgl64.Vec3{math.NaN(), math.NaN(), math.NaN()}
		}

		curve, err := NewGenerator(solid, boxConfig(0, 10), nil).Run(ctx, poisoned)
		Expect(curve).To(BeNil())
		Expect(errors.Is(err, hydro.ErrEmptySubmergedSet)).To(BeTrue())

		var stageErr *hydro.StageError
		Expect(errors.As(err, &stageErr)).To(BeTrue())
		Expect(stageErr.Stage).To(Equal(hydro.StageBuoyancy))
		Expect(stageErr.HasAngle).To(BeTrue())
	})

	It("tags sampling failures with the sample stage", func() {
		flat := unitBox()
		flat.hi = mgl64.Vec3{1, -1, 1}

		_, err := NewGenerator(flat, boxConfig(0), seeded(1)).Run(ctx, nil)
		Expect(errors.Is(err, hydro.ErrDegenerateGeometry)).To(BeTrue())

		var stageErr *hydro.StageError
		Expect(errors.As(err, &stageErr)).To(BeTrue())
		Expect(stageErr.Stage).To(Equal(hydro.StageSample))
		Expect(stageErr.HasAngle).To(BeFalse())
	})

	DescribeTable("validates its configuration",
		func(mutate func(*hydro.Config)) {
			cfg := boxConfig(0)
			mutate(&cfg)
			_, err := NewGenerator(solid, cfg, seeded(1)).Run(ctx, nil)
			Expect(errors.Is(err, hydro.ErrInvalidInput)).To(BeTrue())
		},
		Entry("zero points", func(c *hydro.Config) { c.NumPoints = 0 }),
		Entry("zero mass", func(c *hydro.Config) { c.Mass = 0 }),
		Entry("negative density", func(c *hydro.Config) { c.Density = -1 }),
		Entry("unknown convention", func(c *hydro.Config) { c.Convention = "abs" }),
	)

	It("needs a sampler when no cloud is given", func() {
		_, err := NewGenerator(solid, boxConfig(0), nil).Run(ctx, nil)
		Expect(errors.Is(err, hydro.ErrInvalidInput)).To(BeTrue())
	})
})

var _ = Describe("Ensemble", func() {
	It("runs one curve per seed and summarizes the spread", func() {
		solid, err := hull.Box(boxBeam, boxLength, boxDepth)
		Expect(err).NotTo(HaveOccurred())

		cfg := boxConfig(0, 20)
		cfg.NumPoints = 800

		curves, err := NewEnsemble(solid, cfg, 4, 100).Run(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(curves).To(HaveLen(4))

		spread := Summarize(curves)
		Expect(spread.Angles).To(Equal([]float64{0, 20}))
		Expect(spread.Mean[1]).To(BeNumerically(">", 0))
		Expect(spread.StdDev[1]).To(BeNumerically(">", 0))
		Expect(curves[0].Points[1].Arm).NotTo(Equal(curves[1].Points[1].Arm))
	})

	It("summarizes nothing to an empty spread", func() {
		Expect(Summarize(nil).Mean).To(BeEmpty())
	})
})
