package sampling

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gzsim/internal/hydro"
)

// fakeSolid is a bounding box with a pluggable containment predicate.
type fakeSolid struct {
	lo, hi   mgl64.Vec3
	volume   float64
	inside   func(p mgl64.Vec3) bool
	calls    int
	lastSize int
}

func (f *fakeSolid) Contains(points []mgl64.Vec3) []bool {
	f.calls++
	f.lastSize = len(points)
	out := make([]bool, len(points))
	for i, p := range points {
		out[i] = f.inside(p)
	}
	return out
}

func (f *fakeSolid) Bounds() (mgl64.Vec3, mgl64.Vec3) { return f.lo, f.hi }

func (f *fakeSolid) Volume() float64 { return f.volume }

func unitBox() *fakeSolid {
	return &fakeSolid{
		lo:     mgl64.Vec3{-1, -1, -1},
		hi:     mgl64.Vec3{1, 1, 1},
		volume: 8,
		inside: func(mgl64.Vec3) bool { return true },
	}
}

func unitSphere() *fakeSolid {
	return &fakeSolid{
		lo:     mgl64.Vec3{-1, -1, -1},
		hi:     mgl64.Vec3{1, 1, 1},
		volume: 4.0 / 3.0 * math.Pi,
		inside: func(p mgl64.Vec3) bool { return p.Len() <= 1 },
	}
}

func seeded(seed int64) *Sampler {
	return NewSampler(rand.New(rand.NewSource(seed)))
}

// zCloud returns points stacked on the z axis at the given heights.
func zCloud(zs ...float64) hydro.PointCloud {
	c := make(hydro.PointCloud, len(zs))
	for i, z := range zs {
		c[i] = mgl64.Vec3{0, 0, z}
	}
	return c
}
