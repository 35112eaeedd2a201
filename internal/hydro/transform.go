package hydro

import "github.com/go-gl/mathgl/mgl64"

// RollTransform moves pivot to the origin and then rolls by angle radians
// about the longitudinal (y) axis. Positive angles push the +x side down.
func RollTransform(pivot mgl64.Vec3, angle float64) mgl64.Mat4 {
	shift := mgl64.Translate3D(-pivot.X(), -pivot.Y(), -pivot.Z())
	return mgl64.HomogRotate3DY(angle).Mul4(shift)
}

// Heel returns the cloud rolled by angle degrees about pivot, expressed in
// the mass-centered frame.
func (c PointCloud) Heel(pivot mgl64.Vec3, angle float64) PointCloud {
	return c.Transform(RollTransform(pivot, mgl64.DegToRad(angle)))
}
