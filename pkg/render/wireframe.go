package render

import (
	"github.com/taigrr/bookshelf/pkg/math3d"
)

// aabbEdges lists the corner pairs of math3d.AABB.Corners that form the 12 box edges.
var aabbEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0}, // z = min
	{4, 5}, {5, 6}, {6, 7}, {7, 4}, // z = max
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// DrawMeshWireframe renders every triangle edge of a mesh. Lines ignore
// the depth buffer.
func (r *Rasterizer) DrawMeshWireframe(mesh MeshRenderer, transform math3d.Mat4, color Color) {
	if r.tryFrustumCull(mesh, transform) {
		return
	}

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)

		p0, _, _ := mesh.GetVertex(face[0])
		p1, _, _ := mesh.GetVertex(face[1])
		p2, _, _ := mesh.GetVertex(face[2])

		v0 := transform.MulVec3(p0)
		v1 := transform.MulVec3(p1)
		v2 := transform.MulVec3(p2)

		r.DrawLine3D(v0, v1, color)
		r.DrawLine3D(v1, v2, color)
		r.DrawLine3D(v2, v0, color)
	}
}

// DrawAABB outlines a world-space box.
func (r *Rasterizer) DrawAABB(box math3d.AABB, color Color) {
	c := box.Corners()
	for _, e := range aabbEdges {
		r.DrawLine3D(c[e[0]], c[e[1]], color)
	}
}

// DrawLine3D draws a world-space line, clipped against the near plane.
func (r *Rasterizer) DrawLine3D(a, b math3d.Vec3, color Color) {
	viewProj := r.camera.ViewProjectionMatrix()
	ca := viewProj.MulVec4(math3d.V4FromV3(a, 1))
	cb := viewProj.MulVec4(math3d.V4FromV3(b, 1))

	// Near plane in clip space is z = -w.
	da, db := ca.Z+ca.W, cb.Z+cb.W
	if da < 0 && db < 0 {
		return
	}
	if da < 0 {
		ca = lerp4(ca, cb, da/(da-db))
	} else if db < 0 {
		cb = lerp4(cb, ca, db/(db-da))
	}
	if ca.W <= 0 || cb.W <= 0 {
		return
	}

	x0, y0 := r.toScreen(ca)
	x1, y1 := r.toScreen(cb)
	r.fb.DrawLine(x0, y0, x1, y1, color)
}

func (r *Rasterizer) toScreen(c math3d.Vec4) (x, y int) {
	ndc := c.PerspectiveDivide()
	return int((ndc.X + 1) * 0.5 * float64(r.Width())), int((1 - ndc.Y) * 0.5 * float64(r.Height()))
}

func lerp4(a, b math3d.Vec4, t float64) math3d.Vec4 {
	return math3d.Vec4{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
		W: a.W + (b.W-a.W)*t,
	}
}
