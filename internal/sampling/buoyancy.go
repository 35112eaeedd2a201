package sampling

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gzsim/internal/hydro"
)

// BuoyancyCenter returns the centroid of the points at or below waterline.
func BuoyancyCenter(points hydro.PointCloud, waterline float64) (mgl64.Vec3, error) {
	var sum mgl64.Vec3
	count := 0
	for _, p := range points {
		if p.Z() <= waterline {
			sum = sum.Add(p)
			count++
		}
	}

	if count == 0 {
		return mgl64.Vec3{}, fmt.Errorf("%w: waterline %g below all %d points",
			hydro.ErrEmptySubmergedSet, waterline, len(points))
	}

	return sum.Mul(1 / float64(count)), nil
}
