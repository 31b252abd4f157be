package shelf

import (
	"github.com/taigrr/bookshelf/pkg/bezier"
	"github.com/taigrr/bookshelf/pkg/math3d"
)

// SpineCurvature returns how far the spine bulges for a book of the given depth.
func SpineCurvature(depth float64) float64 {
	return 0.75 * depth
}

// SpineGrid returns the control points of a book spine. The patch spans
// x in [0, depth] and y in [0, height] and bows toward +z by half the
// curvature at its inner columns. The spine is flat along its height.
func SpineGrid(height, depth float64) bezier.ControlGrid {
	bulge := 0.5 * SpineCurvature(depth)
	xs := [bezier.Order]float64{0, 0.25 * depth, 0.75 * depth, depth}
	zs := [bezier.Order]float64{0, bulge, bulge, 0}
	ys := [bezier.Order]float64{0, 0.25 * height, 0.75 * height, height}

	var g bezier.ControlGrid
	for j := range bezier.Order {
		for i := range bezier.Order {
			g[j][i] = math3d.V3(xs[i], ys[j], zs[i])
		}
	}
	return g
}
