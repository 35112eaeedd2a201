package sampling

import (
	"context"
	"errors"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/san-kum/gzsim/internal/hydro"
)

var _ = Describe("Sampler", func() {
	ctx := context.Background()

	DescribeTable("returns exactly the requested number of contained points",
		func(n int) {
			solid := unitSphere()
			cloud, err := seeded(3).Sample(ctx, solid, n)
			Expect(err).NotTo(HaveOccurred())
			Expect(cloud).To(HaveLen(n))
			Expect(solid.Contains(cloud)).NotTo(ContainElement(false))
		},
		Entry("143 points", 143),
		Entry("450 points", 450),
		Entry("1000 points", 1000),
		Entry("a single point", 1),
	)

	It("keeps accepted points in draw order", func() {
		cloud, err := seeded(11).Sample(ctx, unitBox(), 5)
		Expect(err).NotTo(HaveOccurred())

		rng := rand.New(rand.NewSource(11))
		for i := range cloud {
			expected := mgl64.Vec3{-1 + 2*rng.Float64(), -1 + 2*rng.Float64(), -1 + 2*rng.Float64()}
			Expect(cloud[i].ApproxEqualThreshold(expected, 1e-15)).To(BeTrue(), "point %d", i)
		}
	})

	It("accumulates across batches and truncates to n", func() {
		solid := unitBox()
		solid.inside = func(p mgl64.Vec3) bool { return p.X() > 0.5 }

		cloud, err := seeded(5).Sample(ctx, solid, 400)
		Expect(err).NotTo(HaveOccurred())
		Expect(cloud).To(HaveLen(400))
		Expect(cap(cloud)).To(Equal(400))
		Expect(solid.calls).To(BeNumerically(">", 1))
		Expect(solid.lastSize).To(Equal(400))
		for _, p := range cloud {
			Expect(p.X()).To(BeNumerically(">", 0.5))
		}
	})

	It("is reproducible for a fixed seed", func() {
		a, err := seeded(42).Sample(ctx, unitSphere(), 300)
		Expect(err).NotTo(HaveOccurred())
		b, err := seeded(42).Sample(ctx, unitSphere(), 300)
		Expect(err).NotTo(HaveOccurred())
		Expect(a).To(Equal(b))
	})

	It("reports monotonic progress capped at the target", func() {
		solid := unitBox()
		solid.inside = func(p mgl64.Vec3) bool { return p.Z() > 0 }

		var seen []int
		s := seeded(9)
		s.AddObserver(ObserverFunc(func(accepted, target int) {
			Expect(target).To(Equal(250))
			seen = append(seen, accepted)
		}))

		_, err := s.Sample(ctx, solid, 250)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).NotTo(BeEmpty())
		for i := 1; i < len(seen); i++ {
			Expect(seen[i]).To(BeNumerically(">=", seen[i-1]))
		}
		Expect(seen[len(seen)-1]).To(Equal(250))
	})

	It("rejects a non-positive point count", func() {
		_, err := seeded(1).Sample(ctx, unitBox(), 0)
		Expect(errors.Is(err, hydro.ErrInvalidInput)).To(BeTrue())

		_, err = seeded(1).Sample(ctx, unitBox(), -3)
		Expect(errors.Is(err, hydro.ErrInvalidInput)).To(BeTrue())
	})

	It("fails fast on a flat bounding box", func() {
		solid := unitBox()
		solid.hi = mgl64.Vec3{1, 1, -1}

		_, err := seeded(1).Sample(ctx, solid, 10)
		Expect(errors.Is(err, hydro.ErrDegenerateGeometry)).To(BeTrue())
		Expect(solid.calls).To(BeZero())
	})

	It("gives up after consecutive empty batches", func() {
		solid := unitBox()
		solid.inside = func(mgl64.Vec3) bool { return false }

		_, err := seeded(1).WithLimits(0, 7).Sample(ctx, solid, 10)
		Expect(errors.Is(err, hydro.ErrDegenerateGeometry)).To(BeTrue())
		Expect(solid.calls).To(Equal(7))
	})

	It("bounds the total number of batches", func() {
		solid := unitBox()
		solid.inside = func(p mgl64.Vec3) bool { return p.X() > 0.9 && p.Y() > 0.9 }

		_, err := seeded(1).WithLimits(3, 100).Sample(ctx, solid, 1000)
		Expect(errors.Is(err, hydro.ErrDegenerateGeometry)).To(BeTrue())
		Expect(solid.calls).To(Equal(3))
	})

	It("stops on a cancelled context", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := seeded(1).Sample(cctx, unitBox(), 10)
		Expect(err).To(MatchError(context.Canceled))
	})
})
