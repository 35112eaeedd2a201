package sampling

import (
	"fmt"
	"math"
	"slices"

	"github.com/san-kum/gzsim/internal/hydro"
)

// DefaultTolerance is the bracket slack, relative to the hull volume, that
// absorbs rounding in k*volumePerPoint.
const DefaultTolerance = 1e-9

// LocateWaterline returns the z-level at which the points below it account
// for mass/density of the hull's volume.
func LocateWaterline(points hydro.PointCloud, mass, volume, density float64) (float64, error) {
	return locateWaterline(points, mass, volume, density, DefaultTolerance)
}

func locateWaterline(points hydro.PointCloud, mass, volume, density, tol float64) (float64, error) {
	if len(points) == 0 {
		return 0, fmt.Errorf("%w: empty point cloud", hydro.ErrInvalidInput)
	}
	if !(density > 0) {
		return 0, fmt.Errorf("%w: density must be positive, got %g", hydro.ErrInvalidInput, density)
	}
	if !(volume > 0) {
		return 0, fmt.Errorf("%w: volume must be positive, got %g", hydro.ErrInvalidInput, volume)
	}
	if !(mass > 0) {
		return 0, fmt.Errorf("%w: mass must be positive, got %g", hydro.ErrInvalidInput, mass)
	}

	zs := make([]float64, len(points))
	for i, p := range points {
		zs[i] = p.Z()
	}
	slices.Sort(zs)

	n := len(zs)
	vSubmerged := mass / density
	if vSubmerged >= volume {
		return zs[n-1], nil
	}

	volumePerPoint := volume / float64(n)
	k := int(math.Floor(vSubmerged / volumePerPoint))
	if k+1 >= n {
		return zs[n-1], nil
	}

	return interpolate(zs, k, vSubmerged, volumePerPoint, tol*volume)
}

// interpolate places the waterline between sorted heights zs[k] and zs[k+1],
// which stand for submerged volumes k*vpp and (k+1)*vpp.
func interpolate(zs []float64, k int, vSubmerged, vpp, slack float64) (float64, error) {
	zLower, zUpper := zs[k], zs[k+1]
	vLower := float64(k) * vpp
	vUpper := float64(k+1) * vpp

	if vSubmerged < vLower-slack || vSubmerged > vUpper+slack {
		return 0, fmt.Errorf("%w: %g not in [%g, %g] at index %d",
			hydro.ErrVolumeConsistency, vSubmerged, vLower, vUpper, k)
	}

	frac := (vSubmerged - vLower) / (vUpper - vLower)
	frac = math.Max(0, math.Min(1, frac))
	return zLower + frac*(zUpper-zLower), nil
}
