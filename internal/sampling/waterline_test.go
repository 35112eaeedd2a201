package sampling

import (
	"context"
	"errors"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gzsim/internal/analysis"
	"github.com/san-kum/gzsim/internal/hydro"
)

var _ = Describe("LocateWaterline", func() {
	It("interpolates linearly between order statistics", func() {
		// Ten points at z = 0..9, each standing for 1 m^3.
		cloud := zCloud(9, 3, 0, 7, 1, 8, 2, 6, 4, 5)

		z, err := LocateWaterline(cloud, 2.5, 10, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(z).To(BeNumerically("~", 2.5, 1e-12))

		z, err = LocateWaterline(cloud, 1025*4, 10, 1025)
		Expect(err).NotTo(HaveOccurred())
		Expect(z).To(BeNumerically("~", 4, 1e-12))
	})

	It("returns the highest point when the hull must be fully submerged", func() {
		cloud := zCloud(0.3, -0.7, 0.9, 0.1)

		z, err := LocateWaterline(cloud, 5000, 4, 1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(z).To(Equal(0.9))

		z, err = LocateWaterline(cloud, 4000, 4, 1000)
		Expect(err).NotTo(HaveOccurred())
		Expect(z).To(Equal(0.9))
	})

	It("clamps to the highest point when the bracket would run off the array", func() {
		cloud := zCloud(0, 1, 2, 3)

		// k = floor(3.5 / 1) = 3, k+1 == n
		z, err := LocateWaterline(cloud, 3.5, 4, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(z).To(Equal(3.0))
	})

	DescribeTable("rejects invalid input",
		func(cloud hydro.PointCloud, mass, volume, density float64) {
			_, err := LocateWaterline(cloud, mass, volume, density)
			Expect(errors.Is(err, hydro.ErrInvalidInput)).To(BeTrue())
		},
		Entry("empty cloud", hydro.PointCloud{}, 1.0, 1.0, 1.0),
		Entry("zero mass", zCloud(0, 1), 0.0, 1.0, 1.0),
		Entry("negative mass", zCloud(0, 1), -2.0, 1.0, 1.0),
		Entry("zero density", zCloud(0, 1), 1.0, 1.0, 0.0),
		Entry("zero volume", zCloud(0, 1), 1.0, 0.0, 1.0),
		Entry("NaN density", zCloud(0, 1), 1.0, 1.0, math.NaN()),
	)

	It("keeps the level inside the interpolation bracket", func() {
		solid := unitSphere()
		cloud, err := seeded(21).Sample(context.Background(), solid, 777)
		Expect(err).NotTo(HaveOccurred())

		zs := make([]float64, len(cloud))
		for i, p := range cloud {
			zs[i] = p.Z()
		}
		slices.Sort(zs)
		vpp := solid.Volume() / float64(len(zs))

		for _, frac := range []float64{0.001, 0.1, 0.25, 0.5, 0.73, 0.99} {
			vSub := frac * solid.Volume()
			z, err := LocateWaterline(cloud, vSub*1025, solid.Volume(), 1025)
			Expect(err).NotTo(HaveOccurred())

			k := int(math.Floor(vSub / vpp))
			Expect(z).To(BeNumerically(">=", zs[k]), "fraction %v", frac)
			Expect(z).To(BeNumerically("<=", zs[k+1]), "fraction %v", frac)
		}
	})

	It("surfaces a bracket that does not hold the submerged volume", func() {
		_, err := interpolate([]float64{0, 1, 2, 3}, 0, 2.5, 1, 1e-9)
		Expect(errors.Is(err, hydro.ErrVolumeConsistency)).To(BeTrue())

		z, err := interpolate([]float64{0, 1, 2, 3}, 2, 2.5, 1, 1e-9)
		Expect(err).NotTo(HaveOccurred())
		Expect(z).To(BeNumerically("~", 2.5, 1e-12))
	})

	It("converges to the spherical-cap solution as N grows", func() {
		meanError := func(n int) float64 {
			sum := 0.0
			for seed := int64(0); seed < 20; seed++ {
				solid := unitSphere()
				cloud, err := seeded(seed).Sample(context.Background(), solid, n)
				Expect(err).NotTo(HaveOccurred())

				z, err := LocateWaterline(cloud, 0.5*solid.Volume()*1000, solid.Volume(), 1000)
				Expect(err).NotTo(HaveOccurred())
				sum += math.Abs(z - analysis.SphereWaterline(1, 0.5))
			}
			return sum / 20
		}

		coarse := meanError(200)
		fine := meanError(5000)
		Expect(fine).To(BeNumerically("<", coarse))
		Expect(fine).To(BeNumerically("<", 0.03))
	})

	It("matches the analytic waterline for a partially loaded sphere", func() {
		solid := unitSphere()
		cloud, err := seeded(8).Sample(context.Background(), solid, 20000)
		Expect(err).NotTo(HaveOccurred())

		z, err := LocateWaterline(cloud, 0.3*solid.Volume()*1025, solid.Volume(), 1025)
		Expect(err).NotTo(HaveOccurred())
		Expect(z).To(BeNumerically("~", analysis.SphereWaterline(1, 0.3), 0.03))
	})
})

var _ = Describe("BuoyancyCenter", func() {
	It("averages the points at or below the waterline", func() {
		cloud := hydro.PointCloud{{0, 0, -1}, {2, 0, 0}, {10, 0, 5}}

		cob, err := BuoyancyCenter(cloud, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(cob.ApproxEqual(mgl64.Vec3{1, 0, -0.5})).To(BeTrue())
	})

	It("finds the centroid of a fully submerged cube", func() {
		solid := unitBox()
		cloud, err := seeded(4).Sample(context.Background(), solid, 5000)
		Expect(err).NotTo(HaveOccurred())

		z, err := LocateWaterline(cloud, 2*solid.Volume()*1025, solid.Volume(), 1025)
		Expect(err).NotTo(HaveOccurred())
		Expect(z).To(Equal(cloud.MaxZ()))

		cob, err := BuoyancyCenter(cloud, z)
		Expect(err).NotTo(HaveOccurred())
		for i := 0; i < 3; i++ {
			Expect(cob[i]).To(BeNumerically("~", 0, 0.03))
		}
	})

	It("fails when the waterline lies below every point", func() {
		cloud := zCloud(0.2, 0.5, 0.9)

		_, err := BuoyancyCenter(cloud, 0.1)
		Expect(errors.Is(err, hydro.ErrEmptySubmergedSet)).To(BeTrue())

		_, err = BuoyancyCenter(hydro.PointCloud{}, 0)
		Expect(errors.Is(err, hydro.ErrEmptySubmergedSet)).To(BeTrue())
	})
})
