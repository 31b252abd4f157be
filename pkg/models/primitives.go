package models

import (
	"github.com/taigrr/bookshelf/pkg/math3d"
)

// NewPlane creates a width x height rectangle in the XY plane, centered on
// the origin and facing +Z. UV (0,0) is the bottom-left corner.
func NewPlane(name string, width, height float64) *Mesh {
	m := NewMesh(name)
	hw, hh := width/2, height/2
	m.addQuad(
		math3d.V3(-hw, -hh, 0),
		math3d.V3(hw, -hh, 0),
		math3d.V3(hw, hh, 0),
		math3d.V3(-hw, hh, 0),
		math3d.V3(0, 0, 1),
	)
	m.CalculateBounds()
	return m
}

// NewBox creates an axis-aligned box centered on the origin with flat,
// outward facing normals. Each side has its own four vertices.
func NewBox(name string, width, height, depth float64) *Mesh {
	m := NewMesh(name)
	x, y, z := width/2, height/2, depth/2

	// Corners are listed counter-clockwise as seen from outside.
	m.addQuad(math3d.V3(-x, -y, z), math3d.V3(x, -y, z), math3d.V3(x, y, z), math3d.V3(-x, y, z), math3d.V3(0, 0, 1))      // front
	m.addQuad(math3d.V3(x, -y, -z), math3d.V3(-x, -y, -z), math3d.V3(-x, y, -z), math3d.V3(x, y, -z), math3d.V3(0, 0, -1)) // back
	m.addQuad(math3d.V3(x, -y, z), math3d.V3(x, -y, -z), math3d.V3(x, y, -z), math3d.V3(x, y, z), math3d.V3(1, 0, 0))      // right
	m.addQuad(math3d.V3(-x, -y, -z), math3d.V3(-x, -y, z), math3d.V3(-x, y, z), math3d.V3(-x, y, -z), math3d.V3(-1, 0, 0)) // left
	m.addQuad(math3d.V3(-x, y, z), math3d.V3(x, y, z), math3d.V3(x, y, -z), math3d.V3(-x, y, -z), math3d.V3(0, 1, 0))      // top
	m.addQuad(math3d.V3(-x, -y, -z), math3d.V3(x, -y, -z), math3d.V3(x, -y, z), math3d.V3(-x, -y, z), math3d.V3(0, -1, 0)) // bottom

	m.CalculateBounds()
	return m
}

// addQuad appends two triangles for the quad p0..p3, given counter-clockwise.
func (m *Mesh) addQuad(p0, p1, p2, p3, normal math3d.Vec3) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		MeshVertex{Position: p0, Normal: normal, UV: math3d.V2(0, 0)},
		MeshVertex{Position: p1, Normal: normal, UV: math3d.V2(1, 0)},
		MeshVertex{Position: p2, Normal: normal, UV: math3d.V2(1, 1)},
		MeshVertex{Position: p3, Normal: normal, UV: math3d.V2(0, 1)},
	)
	m.Faces = append(m.Faces,
		Face{V: [3]int{base, base + 1, base + 2}, Material: -1},
		Face{V: [3]int{base, base + 2, base + 3}, Material: -1},
	)
}
