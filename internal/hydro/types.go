package hydro

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Solid is the geometric oracle the sampling pipeline consumes.
type Solid interface {
	// Contains reports, per point, whether it lies inside the solid.
	Contains(points []mgl64.Vec3) []bool
	// Bounds returns the axis-aligned bounding box corners.
	Bounds() (min, max mgl64.Vec3)
	// Volume returns the enclosed volume in m^3.
	Volume() float64
}

// PointCloud is an ordered set of points sampled from a solid's interior.
type PointCloud []mgl64.Vec3

// Transform returns a new cloud with every point mapped through m.
func (c PointCloud) Transform(m mgl64.Mat4) PointCloud {
	out := make(PointCloud, len(c))
	for i, p := range c {
		out[i] = m.Mul4x1(p.Vec4(1)).Vec3()
	}
	return out
}

func (c PointCloud) MaxZ() float64 {
	maxZ := math.Inf(-1)
	for _, p := range c {
		if p.Z() > maxZ {
			maxZ = p.Z()
		}
	}
	return maxZ
}

func (c PointCloud) MinZ() float64 {
	minZ := math.Inf(1)
	for _, p := range c {
		if p.Z() < minZ {
			minZ = p.Z()
		}
	}
	return minZ
}

// Centroid returns the arithmetic mean of the cloud.
func (c PointCloud) Centroid() mgl64.Vec3 {
	var sum mgl64.Vec3
	for _, p := range c {
		sum = sum.Add(p)
	}
	if len(c) == 0 {
		return sum
	}
	return sum.Mul(1 / float64(len(c)))
}

// Convention selects how the transverse offset becomes a righting arm.
type Convention string

const (
	// ConventionOffset reports the raw transverse offset. A restoring moment
	// is positive for positive heel and negative for negative heel.
	ConventionOffset Convention = "offset"
	// ConventionHeel multiplies the offset by sign(angle) so a restoring
	// moment is positive on either side.
	ConventionHeel Convention = "heel"
)

func ParseConvention(s string) (Convention, error) {
	switch Convention(s) {
	case "", ConventionOffset:
		return ConventionOffset, nil
	case ConventionHeel:
		return ConventionHeel, nil
	default:
		return "", fmt.Errorf("%w: unknown sign convention %q", ErrInvalidInput, s)
	}
}

// Arm converts a transverse offset measured at angle (degrees) into a
// righting arm.
func (c Convention) Arm(angle, offset float64) float64 {
	if c != ConventionHeel {
		return offset
	}
	switch {
	case angle > 0:
		return offset
	case angle < 0:
		return -offset
	default:
		return 0
	}
}

type Config struct {
	NumPoints       int
	Mass            float64
	Density         float64
	CenterOfMass    mgl64.Vec3
	Angles          []float64 // degrees
	Seed            int64
	MaxBatches      int
	MaxEmptyBatches int
	Workers         int
	Convention      Convention
	Tolerance       float64 // bracket slack relative to the solid volume
}

func DefaultConfig() Config {
	return Config{
		NumPoints:       1000,
		Density:         1025.0,
		Angles:          AngleRange(0, 180, 5),
		MaxBatches:      10000,
		MaxEmptyBatches: 50,
		Workers:         4,
		Convention:      ConventionOffset,
		Tolerance:       1e-9,
	}
}

// AngleRange returns start, start+step, ... up to and including stop.
func AngleRange(start, stop, step float64) []float64 {
	if step == 0 || (stop-start)/step < 0 {
		return []float64{start}
	}
	n := int(math.Floor((stop-start)/step+1e-9)) + 1
	angles := make([]float64, n)
	for i := range angles {
		angles[i] = start + float64(i)*step
	}
	return angles
}

// CurvePoint is the equilibrium found at one heel angle.
type CurvePoint struct {
	Angle     float64    // degrees
	Arm       float64    // meters
	Waterline float64    // z in the rotated, mass-centered frame
	Buoyancy  mgl64.Vec3 // center of buoyancy in the same frame
}

type Curve struct {
	Points     []CurvePoint
	Convention Convention
	NumPoints  int
}

func (c *Curve) Angles() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Angle
	}
	return out
}

func (c *Curve) Arms() []float64 {
	out := make([]float64, len(c.Points))
	for i, p := range c.Points {
		out[i] = p.Arm
	}
	return out
}
