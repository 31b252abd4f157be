package render

import (
	"github.com/taigrr/bookshelf/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum represents the 6 planes of a view frustum.
// Each plane's normal points inward (toward the center of the frustum).
type Frustum struct {
	Planes [6]Plane
}

// FrustumPlane indices for clarity.
const (
	FrustumLeft = iota
	FrustumRight
	FrustumBottom
	FrustumTop
	FrustumNear
	FrustumFar
)

// NewFrustumFromMatrix extracts frustum planes from a view-projection matrix
// with the Gribb/Hartmann method.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	// For column-major m, row i element j is at m[i + j*4].
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	n3, d3 := row(3)

	var f Frustum
	for axis := range 3 {
		n, d := row(axis)
		f.Planes[2*axis] = Plane{Normal: n3.Add(n), D: d3 + d}   // left, bottom, near
		f.Planes[2*axis+1] = Plane{Normal: n3.Sub(n), D: d3 - d} // right, top, far
	}
	for i := range f.Planes {
		f.Planes[i].Normalize()
	}
	return f
}

// IntersectAABB reports whether any part of box may be inside the frustum.
// For each plane only the corner furthest along the normal is tested.
func (f Frustum) IntersectAABB(box math3d.AABB) bool {
	for _, plane := range f.Planes {
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

// Frustum returns the current view frustum of the camera.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}
