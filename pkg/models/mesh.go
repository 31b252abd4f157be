// Package models provides the triangle meshes drawn and exported by bookshelf.
package models

import (
	"github.com/taigrr/bookshelf/pkg/math3d"
)

// Mesh represents a 3D mesh with vertices, faces, and materials.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated by CalculateBounds)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle with vertex indices and a material reference.
//
// When HasUV is set, UV overrides the per-vertex texture coordinates for
// this face. Bézier surfaces need this because two triangles of the same
// cell sample different UVs at a shared vertex.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	UV       [3]math3d.Vec2
	HasUV    bool
	Material int // Index into Mesh.Materials (-1 for no material)
}

// Material is a simple PBR material.
type Material struct {
	Name        string
	BaseColor   [4]float64 // RGBA in 0-1 range
	Metallic    float64
	Roughness   float64
	Emissive    [3]float64 // RGB in 0-1 range, used for highlighting
	DoubleSided bool
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0),
		Faces:    make([]Face, 0),
	}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Bounds returns the bounding box as an AABB.
func (m *Mesh) Bounds() math3d.AABB {
	return math3d.AABB{Min: m.BoundsMin, Max: m.BoundsMax}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceNormal returns the unnormalized normal of face i in its winding
// order: (v1-v0) × (v2-v0). Its length is twice the triangle area.
func (m *Mesh) FaceNormal(i int) math3d.Vec3 {
	f := m.Faces[i]
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateNormals assigns each face's normal to its vertices. Vertices
// shared between faces end up with the normal of the last face.
func (m *Mesh) CalculateNormals() {
	for i, f := range m.Faces {
		n := m.FaceNormal(i).Normalize()
		for _, vi := range f.V {
			m.Vertices[vi].Normal = n
		}
	}
}

// CalculateSmoothNormals sets every vertex normal to the area-weighted
// average of the normals of the faces that use it.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for i, f := range m.Faces {
		n := m.FaceNormal(i) // Don't normalize yet, larger faces weigh more
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform applies a transformation matrix to all vertices.
// Normals use the rotation part only, which is exact for rigid and
// uniformly scaled transforms.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulVec3(m.Vertices[i].Position)
		m.Vertices[i].Normal = mat.MulVec3Dir(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// Append merges a transformed copy of other into m. Other's materials are
// appended after m's and its face material indices are shifted to match.
func (m *Mesh) Append(other *Mesh, transform math3d.Mat4) {
	baseVertex := len(m.Vertices)
	baseMaterial := len(m.Materials)

	for _, v := range other.Vertices {
		v.Position = transform.MulVec3(v.Position)
		v.Normal = transform.MulVec3Dir(v.Normal).Normalize()
		m.Vertices = append(m.Vertices, v)
	}
	for _, f := range other.Faces {
		for k := range f.V {
			f.V[k] += baseVertex
		}
		if f.Material >= 0 {
			f.Material += baseMaterial
		}
		m.Faces = append(m.Faces, f)
	}
	m.Materials = append(m.Materials, other.Materials...)
	m.CalculateBounds()
}

// SetMaterial replaces all materials with mat and assigns it to every face.
func (m *Mesh) SetMaterial(mat Material) {
	m.Materials = []Material{mat}
	for i := range m.Faces {
		m.Faces[i].Material = 0
	}
}

// GetVertex returns the position, normal, and UV for vertex i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.Vertices[i]
	return v.Position, v.Normal, v.UV
}

// GetFace returns the vertex indices for face i.
// Implements render.MeshRenderer interface.
func (m *Mesh) GetFace(i int) [3]int {
	return m.Faces[i].V
}

// GetFaceUV returns the texture coordinates of face i's corners, falling
// back to the vertex UVs when the face has none of its own.
// Implements render.TexturedMeshRenderer interface.
func (m *Mesh) GetFaceUV(i int) [3]math3d.Vec2 {
	f := m.Faces[i]
	if f.HasUV {
		return f.UV
	}
	return [3]math3d.Vec2{
		m.Vertices[f.V[0]].UV,
		m.Vertices[f.V[1]].UV,
		m.Vertices[f.V[2]].UV,
	}
}

// GetFaceMaterial returns the material index for face i.
// Returns -1 if no material assigned.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i.
// Returns nil if index is out of bounds or -1.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// GetBounds returns the axis-aligned bounding box.
// Implements render.BoundedMeshRenderer interface.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}
