// Package hull provides hydro.Solid implementations backed by sdfx signed
// distance functions.
//
// All hulls are centered on the origin in the hydro frame: x across the
// beam, y along the length, z up. Prismatic shapes are extruded along y.
package hull

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gzsim/internal/hydro"
)

// Compile-time interface check.
var _ hydro.Solid = (*Solid)(nil)

// containsChunk is the smallest batch slice handed to one goroutine.
const containsChunk = 512

// Solid wraps an sdf.SDF3 together with its enclosed volume.
type Solid struct {
	name   string
	s      sdf.SDF3
	volume float64
}

// New wraps s with a known volume.
func New(name string, s sdf.SDF3, volume float64) *Solid {
	return &Solid{name: name, s: s, volume: volume}
}

// FromSDF wraps s and estimates its volume on a cells^3 grid.
func FromSDF(name string, s sdf.SDF3, cells int) *Solid {
	return New(name, s, EstimateVolume(s, cells))
}

func (h *Solid) Name() string { return h.name }

func (h *Solid) Volume() float64 { return h.volume }

func (h *Solid) Bounds() (min, max mgl64.Vec3) {
	bb := h.s.BoundingBox()
	return toVec(bb.Min), toVec(bb.Max)
}

// Contains evaluates the SDF for every point; a point on the surface counts
// as inside. Batches are split across goroutines.
func (h *Solid) Contains(points []mgl64.Vec3) []bool {
	out := make([]bool, len(points))
	hydro.ParallelFor(len(points), containsChunk, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = h.s.Evaluate(fromVec(points[i])) <= 0
		}
	})
	return out
}

// Box is a rectangular barge: beam along x, length along y, depth along z.
func Box(beam, length, depth float64) (*Solid, error) {
	if !(beam > 0 && length > 0 && depth > 0) {
		return nil, fmt.Errorf("%w: box dimensions %gx%gx%g", hydro.ErrInvalidInput, beam, length, depth)
	}
	s, err := sdf.Box3D(v3.Vec{X: beam, Y: length, Z: depth}, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Box3D: %w", err)
	}
	return New("box", s, beam*length*depth), nil
}

func Sphere(radius float64) (*Solid, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: sphere radius %g", hydro.ErrInvalidInput, radius)
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Sphere3D: %w", err)
	}
	return New("sphere", s, 4.0/3.0*math.Pi*radius*radius*radius), nil
}

// Cylinder is a round pontoon lying along the y axis.
func Cylinder(radius, length float64) (*Solid, error) {
	if !(radius > 0 && length > 0) {
		return nil, fmt.Errorf("%w: cylinder radius %g length %g", hydro.ErrInvalidInput, radius, length)
	}
	s, err := sdf.Cylinder3D(length, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Cylinder3D: %w", err)
	}
	return New("cylinder", alongY(s), math.Pi*radius*radius*length), nil
}

// Section is a prismatic hull: the transverse polygon (x, z) extruded over
// length along y.
func Section(vertices [][2]float64, length float64) (*Solid, error) {
	if len(vertices) < 3 {
		return nil, fmt.Errorf("%w: section needs at least 3 vertices, got %d", hydro.ErrInvalidInput, len(vertices))
	}
	if !(length > 0) {
		return nil, fmt.Errorf("%w: section length %g", hydro.ErrInvalidInput, length)
	}

	area := SignedArea(vertices)
	if area == 0 {
		return nil, fmt.Errorf("%w: section polygon has zero area", hydro.ErrInvalidInput)
	}

	poly := make([]v2.Vec, len(vertices))
	for i, v := range vertices {
		poly[i] = v2.Vec{X: v[0], Y: v[1]}
	}
	if area < 0 {
		for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
			poly[i], poly[j] = poly[j], poly[i]
		}
	}

	s2, err := sdf.Polygon2D(poly)
	if err != nil {
		return nil, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}

	return New("section", alongY(sdf.Extrude3D(s2, length)), math.Abs(area)*length), nil
}

// SignedArea is the shoelace area of a closed polygon, positive when the
// vertices run counter-clockwise.
func SignedArea(vertices [][2]float64) float64 {
	sum := 0.0
	for i := range vertices {
		a := vertices[i]
		b := vertices[(i+1)%len(vertices)]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return sum / 2
}

// EstimateVolume counts grid cell centers inside s.
func EstimateVolume(s sdf.SDF3, cells int) float64 {
	if cells < 1 {
		cells = 1
	}
	bb := s.BoundingBox()
	size := bb.Max.Sub(bb.Min)
	dx := size.X / float64(cells)
	dy := size.Y / float64(cells)
	dz := size.Z / float64(cells)

	inside := 0
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			for k := 0; k < cells; k++ {
				p := v3.Vec{
					X: bb.Min.X + (float64(i)+0.5)*dx,
					Y: bb.Min.Y + (float64(j)+0.5)*dy,
					Z: bb.Min.Z + (float64(k)+0.5)*dz,
				}
				if s.Evaluate(p) <= 0 {
					inside++
				}
			}
		}
	}

	return float64(inside) * dx * dy * dz
}

// alongY turns a shape built along z so its long axis lies on y and its
// local y becomes vertical.
func alongY(s sdf.SDF3) sdf.SDF3 {
	return sdf.Transform3D(s, sdf.RotateX(math.Pi/2))
}

func toVec(v v3.Vec) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

func fromVec(v mgl64.Vec3) v3.Vec { return v3.Vec{X: v[0], Y: v[1], Z: v[2]} }
