package bezier

import (
	"fmt"

	"github.com/taigrr/bookshelf/pkg/math3d"
)

// ControlGrid holds the 16 control points of a bicubic patch.
// The row index selects the t (height) direction and the column index
// selects the s (depth) direction: grid[j][i] is weighted by B3(i,s)*B3(j,t).
//
// ControlGrid is a value type; passing it copies every point.
type ControlGrid [Order][Order]math3d.Vec3

// NewControlGrid builds a grid from nested coordinate slices, as decoded
// from YAML or JSON. points must have exactly 4 rows of exactly 4 points,
// each with exactly 3 components. The values are copied.
func NewControlGrid(points [][][]float64) (ControlGrid, error) {
	var g ControlGrid
	if len(points) != Order {
		return g, &InvalidControlGridError{
			Row: -1, Col: -1,
			Reason: fmt.Sprintf("got %d rows, want %d", len(points), Order),
		}
	}
	for j, row := range points {
		if len(row) != Order {
			return g, &InvalidControlGridError{
				Row: j, Col: -1,
				Reason: fmt.Sprintf("got %d points, want %d", len(row), Order),
			}
		}
		for i, p := range row {
			if len(p) != 3 {
				return g, &InvalidControlGridError{
					Row: j, Col: i,
					Reason: fmt.Sprintf("got %d components, want 3", len(p)),
				}
			}
			g[j][i] = math3d.V3(p[0], p[1], p[2])
		}
	}
	return g, g.Validate()
}

// Validate checks that every coordinate is finite.
func (g ControlGrid) Validate() error {
	for j := range g {
		for i, p := range g[j] {
			if !p.IsFinite() {
				return &InvalidControlGridError{Row: j, Col: i, Reason: "non-finite coordinate"}
			}
		}
	}
	return nil
}

// Point evaluates the surface at (s, t), both in [0, 1].
func (g ControlGrid) Point(s, t float64) math3d.Vec3 {
	return g.point(Basis(s), Basis(t))
}

// point blends the control points with precomputed basis weights.
func (g ControlGrid) point(bs, bt [Order]float64) math3d.Vec3 {
	var v math3d.Vec3
	for i := range Order {
		for j := range Order {
			v = v.AddScaled(g[j][i], bs[i]*bt[j])
		}
	}
	return v
}

// Corners returns the four points the patch interpolates:
// (s,t) = (0,0), (1,0), (0,1), (1,1).
func (g ControlGrid) Corners() [4]math3d.Vec3 {
	return [4]math3d.Vec3{g[0][0], g[0][Degree], g[Degree][0], g[Degree][Degree]}
}

// Transform returns a copy of the grid with m applied to every point.
// Bézier patches are affine invariant, so tessellating the transformed
// grid equals transforming the tessellated mesh.
func (g ControlGrid) Transform(m math3d.Mat4) ControlGrid {
	for j := range g {
		for i := range g[j] {
			g[j][i] = m.MulVec3(g[j][i])
		}
	}
	return g
}
