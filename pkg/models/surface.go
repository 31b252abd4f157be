package models

import (
	"github.com/taigrr/bookshelf/pkg/bezier"
)

// FromSurface converts a tessellated Bézier patch into a renderable mesh.
// Faces keep the patch's per-triangle UVs and reference the given
// material index (-1 for none). Face and smooth vertex normals are
// computed here from the patch winding, and the bounds are filled in.
func FromSurface(name string, s *bezier.SurfaceMesh, material int) *Mesh {
	m := &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, len(s.Vertices)),
		Faces:    make([]Face, len(s.Faces)),
	}
	for i, p := range s.Vertices {
		m.Vertices[i].Position = p
	}
	for i, f := range s.Faces {
		m.Faces[i] = Face{
			V:        f,
			UV:       s.UVs[i],
			HasUV:    true,
			Material: material,
		}
	}

	// Vertex UVs come from the first face that references the vertex.
	seen := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		for k, vi := range f.V {
			if !seen[vi] {
				m.Vertices[vi].UV = f.UV[k]
				seen[vi] = true
			}
		}
	}

	m.CalculateSmoothNormals()
	m.CalculateBounds()
	return m
}
