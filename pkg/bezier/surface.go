// Package bezier tessellates bicubic Bézier patches into triangle meshes.
//
// Evaluate is a pure function: it reads only its arguments and returns a
// freshly allocated SurfaceMesh, so it may be called from any number of
// goroutines at once. Normals are left to the consumer (see models.FromSurface).
package bezier

import (
	"github.com/taigrr/bookshelf/pkg/math3d"
)

// Face is a triangle as three indices into SurfaceMesh.Vertices.
type Face [3]int

// FaceUV holds one texture coordinate per corner of the matching Face.
type FaceUV [3]math3d.Vec2

// SurfaceMesh is the tessellated patch.
//
// Vertices are laid out row-major with t varying slowest:
// index = sInt + (SSegments+1)*tInt. Faces and UVs are parallel slices,
// UVs[i][k] belongs to the vertex Faces[i][k].
type SurfaceMesh struct {
	SSegments int
	TSegments int
	Vertices  []math3d.Vec3
	Faces     []Face
	UVs       []FaceUV
}

// Evaluate tessellates grid into sSegments x tSegments quad cells, two
// triangles each. Both counts must be at least 1 and every control
// coordinate must be finite; the arguments are checked before any work.
func Evaluate(grid ControlGrid, sSegments, tSegments int) (*SurfaceMesh, error) {
	if sSegments < 1 {
		return nil, &InvalidSegmentCountError{Axis: "s", Count: sSegments}
	}
	if tSegments < 1 {
		return nil, &InvalidSegmentCountError{Axis: "t", Count: tSegments}
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	m := &SurfaceMesh{
		SSegments: sSegments,
		TSegments: tSegments,
		Vertices:  make([]math3d.Vec3, 0, (sSegments+1)*(tSegments+1)),
		Faces:     make([]Face, 0, 2*sSegments*tSegments),
		UVs:       make([]FaceUV, 0, 2*sSegments*tSegments),
	}
	m.computePoints(grid)
	m.computeFaces()
	return m, nil
}

// EvaluatePoints is NewControlGrid followed by Evaluate.
func EvaluatePoints(points [][][]float64, sSegments, tSegments int) (*SurfaceMesh, error) {
	grid, err := NewControlGrid(points)
	if err != nil {
		return nil, err
	}
	return Evaluate(grid, sSegments, tSegments)
}

func (m *SurfaceMesh) computePoints(grid ControlGrid) {
	// The s weights repeat for every row, compute them once.
	sBasis := make([][Order]float64, m.SSegments+1)
	for sInt := range sBasis {
		sBasis[sInt] = Basis(float64(sInt) / float64(m.SSegments))
	}

	for tInt := 0; tInt <= m.TSegments; tInt++ {
		bt := Basis(float64(tInt) / float64(m.TSegments))
		for sInt := 0; sInt <= m.SSegments; sInt++ {
			m.Vertices = append(m.Vertices, grid.point(sBasis[sInt], bt))
		}
	}
}

// computeFaces emits the index and UV lists. The patch is walked bottom to
// top (increasing t), and faces are wound counter-clockwise seen from +z.
func (m *SurfaceMesh) computeFaces() {
	gridX := m.SSegments
	gridZ := m.TSegments
	gridX1 := gridX + 1
	fx := float64(gridX)
	fz := float64(gridZ)

	for iz := range gridZ {
		for ix := range gridX {
			a := ix + gridX1*iz
			b := ix + gridX1*(iz+1)
			c := (ix + 1) + gridX1*(iz+1)
			d := (ix + 1) + gridX1*iz

			uva := math3d.V2(float64(ix)/fx, 1-float64(iz)/fz)
			uvb := math3d.V2(float64(ix)/fx, 1-float64(iz+1)/fz)
			uvc := math3d.V2(float64(ix+1)/fx, 1-float64(iz+1)/fz)
			uvd := math3d.V2(float64(ix+1)/fx, 1-float64(iz)/fz)

			m.Faces = append(m.Faces, Face{a, c, b})
			m.UVs = append(m.UVs, FaceUV{uva, uvb, uvd})

			m.Faces = append(m.Faces, Face{a, d, c})
			m.UVs = append(m.UVs, FaceUV{uvb, uvc, uvd})
		}
	}
}

// VertexIndex returns the index of the grid vertex at (sInt, tInt).
func (m *SurfaceMesh) VertexIndex(sInt, tInt int) int {
	return sInt + (m.SSegments+1)*tInt
}

// Bounds returns the bounding box of the tessellated vertices.
func (m *SurfaceMesh) Bounds() math3d.AABB {
	return math3d.BoundPoints(m.Vertices)
}
