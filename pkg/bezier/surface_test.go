package bezier

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/bookshelf/pkg/math3d"
)

const tol = 1e-9

// flatGrid spaces the control points evenly over the unit square at z=0,
// which makes the patch the identity map (s, t) -> (s, t, 0).
func flatGrid() ControlGrid {
	var g ControlGrid
	for j := range Order {
		for i := range Order {
			g[j][i] = math3d.V3(float64(i)/3, float64(j)/3, 0)
		}
	}
	return g
}

// wavyGrid is a non-planar patch with distinct points everywhere.
func wavyGrid() ControlGrid {
	var g ControlGrid
	for j := range Order {
		for i := range Order {
			g[j][i] = math3d.V3(float64(i)*1.5-0.7, float64(j)*2+0.3, math.Sin(float64(i*j)+0.5))
		}
	}
	return g
}

func assertVecNear(t *testing.T, want, got math3d.Vec3, msgAndArgs ...any) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, tol, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, tol, msgAndArgs...)
}

func TestEvaluateCounts(t *testing.T) {
	for s := 1; s <= 12; s++ {
		for tt := 1; tt <= 12; tt++ {
			m, err := Evaluate(wavyGrid(), s, tt)
			require.NoError(t, err)
			assert.Len(t, m.Vertices, (s+1)*(tt+1))
			assert.Len(t, m.Faces, 2*s*tt)
			assert.Len(t, m.UVs, 2*s*tt)
		}
	}
}

func TestEvaluateCornerFidelity(t *testing.T) {
	g := wavyGrid()
	m, err := Evaluate(g, 1, 1)
	require.NoError(t, err)

	assertVecNear(t, g[0][0], m.Vertices[0], "first vertex")
	assertVecNear(t, g[0][3], m.Vertices[1], "s=1, t=0")
	assertVecNear(t, g[3][0], m.Vertices[2], "s=0, t=1")
	assertVecNear(t, g[3][3], m.Vertices[len(m.Vertices)-1], "last vertex")
}

func TestEvaluateFaceIndicesInRange(t *testing.T) {
	g := wavyGrid()
	for s := 1; s <= 50; s += 7 {
		for tt := 1; tt <= 50; tt += 5 {
			m, err := Evaluate(g, s, tt)
			require.NoError(t, err)
			n := len(m.Vertices)
			for fi, f := range m.Faces {
				for _, idx := range f {
					if idx < 0 || idx >= n {
						t.Fatalf("%dx%d: face %d index %d out of [0,%d)", s, tt, fi, idx, n)
					}
				}
			}
		}
	}
}

func TestBasisPartitionOfUnity(t *testing.T) {
	for _, s := range []float64{0, 0.1, 0.25, 1.0 / 3, 0.5, 0.77, 0.9, 1} {
		for _, u := range []float64{0, 0.05, 0.4, 0.6, 0.99, 1} {
			bs, bt := Basis(s), Basis(u)
			var sum float64
			for i := range Order {
				for j := range Order {
					sum += bs[i] * bt[j]
				}
			}
			assert.InDelta(t, 1.0, sum, tol, "s=%v t=%v", s, u)
		}
	}
}

func TestBasisEndpoints(t *testing.T) {
	assert.Equal(t, [Order]float64{1, 0, 0, 0}, Basis(0))
	assert.Equal(t, [Order]float64{0, 0, 0, 1}, Basis(1))
	assert.Equal(t, [Order]float64{0.125, 0.375, 0.375, 0.125}, Basis(0.5))
}

func TestEvaluateFlatYStaysFlat(t *testing.T) {
	g := wavyGrid()
	for j := range Order {
		for i := range Order {
			g[j][i].Y = 2.5
		}
	}
	m, err := Evaluate(g, 9, 13)
	require.NoError(t, err)
	for k, v := range m.Vertices {
		assert.InDelta(t, 2.5, v.Y, tol, "vertex %d", k)
	}
}

func TestEvaluateUnitSquareTwoByTwo(t *testing.T) {
	m, err := Evaluate(flatGrid(), 2, 2)
	require.NoError(t, err)
	require.Len(t, m.Vertices, 9)
	require.Len(t, m.Faces, 8)

	for tInt := 0; tInt <= 2; tInt++ {
		for sInt := 0; sInt <= 2; sInt++ {
			want := math3d.V3(float64(sInt)/2, float64(tInt)/2, 0)
			assertVecNear(t, want, m.Vertices[m.VertexIndex(sInt, tInt)], "s=%d t=%d", sInt, tInt)
		}
	}
}

func TestEvaluateFaceOrderLiteral(t *testing.T) {
	m, err := Evaluate(flatGrid(), 2, 2)
	require.NoError(t, err)

	want := []Face{
		{0, 4, 3}, {0, 1, 4}, // ix=0, iz=0
		{1, 5, 4}, {1, 2, 5}, // ix=1, iz=0
		{3, 7, 6}, {3, 4, 7}, // ix=0, iz=1
		{4, 8, 7}, {4, 5, 8}, // ix=1, iz=1
	}
	assert.Equal(t, want, m.Faces)
}

func TestEvaluateUVs(t *testing.T) {
	m, err := Evaluate(flatGrid(), 2, 4)
	require.NoError(t, err)

	// First cell: ix=0, iz=0.
	uva := math3d.V2(0, 1)
	uvb := math3d.V2(0, 0.75)
	uvc := math3d.V2(0.5, 0.75)
	uvd := math3d.V2(0.5, 1)
	assert.Equal(t, FaceUV{uva, uvb, uvd}, m.UVs[0])
	assert.Equal(t, FaceUV{uvb, uvc, uvd}, m.UVs[1])

	// The last t row maps to v=0.
	last := m.UVs[len(m.UVs)-1]
	assert.InDelta(t, 0.0, last[1].Y, tol)
	assert.InDelta(t, 1.0, last[1].X, tol)
}

func TestEvaluateWindingFacesPositiveZ(t *testing.T) {
	m, err := Evaluate(flatGrid(), 7, 5)
	require.NoError(t, err)
	for i, f := range m.Faces {
		v0, v1, v2 := m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]]
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		if n.Z <= 0 {
			t.Errorf("face %d %v has normal %v, want +z", i, f, n)
		}
	}
}

func TestEvaluateMatchesPoint(t *testing.T) {
	g := wavyGrid()
	m, err := Evaluate(g, 4, 3)
	require.NoError(t, err)
	for tInt := 0; tInt <= 3; tInt++ {
		for sInt := 0; sInt <= 4; sInt++ {
			want := g.Point(float64(sInt)/4, float64(tInt)/3)
			assertVecNear(t, want, m.Vertices[m.VertexIndex(sInt, tInt)])
		}
	}
}

// The row index must select the t weight and the column the s weight.
func TestEvaluateRowColumnConvention(t *testing.T) {
	var g ControlGrid
	g[0][3] = math3d.V3(1, 0, 0) // row 0 (t=0), column 3 (s=1)
	p := g.Point(1, 0)
	assertVecNear(t, math3d.V3(1, 0, 0), p)
	assertVecNear(t, math3d.Zero3(), g.Point(0, 1))
}

func TestEvaluateInvalidSegments(t *testing.T) {
	tests := []struct {
		name string
		s, t int
		axis string
	}{
		{"zero s", 0, 4, "s"},
		{"negative s", -3, 4, "s"},
		{"zero t", 4, 0, "t"},
		{"both bad reports s", 0, 0, "s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Evaluate(flatGrid(), tt.s, tt.t)
			assert.Nil(t, m)
			require.ErrorIs(t, err, ErrInvalidSegmentCount)
			assert.NotErrorIs(t, err, ErrInvalidControlGrid)

			var segErr *InvalidSegmentCountError
			require.True(t, errors.As(err, &segErr))
			assert.Equal(t, tt.axis, segErr.Axis)
		})
	}
}

func TestEvaluateNonFinitePoint(t *testing.T) {
	g := flatGrid()
	g[2][1].Z = math.NaN()
	_, err := Evaluate(g, 3, 3)
	require.ErrorIs(t, err, ErrInvalidControlGrid)

	var gridErr *InvalidControlGridError
	require.True(t, errors.As(err, &gridErr))
	assert.Equal(t, 2, gridErr.Row)
	assert.Equal(t, 1, gridErr.Col)
}

func TestNewControlGridShape(t *testing.T) {
	row := [][]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}
	good := [][][]float64{row, row, row, row}

	g, err := NewControlGrid(good)
	require.NoError(t, err)
	assert.Equal(t, math3d.V3(3, 0, 0), g[1][3])

	tests := []struct {
		name   string
		points [][][]float64
	}{
		{"nil", nil},
		{"three rows", [][][]float64{row, row, row}},
		{"five rows", [][][]float64{row, row, row, row, row}},
		{"short row", [][][]float64{row, row[:3], row, row}},
		{"two components", [][][]float64{row, row, row, {{0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}}},
		{"four components", [][][]float64{row, {{0, 0, 0, 1}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}}, row, row}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewControlGrid(tt.points)
			require.ErrorIs(t, err, ErrInvalidControlGrid)
			assert.NotErrorIs(t, err, ErrInvalidSegmentCount)

			_, err = EvaluatePoints(tt.points, 2, 2)
			require.ErrorIs(t, err, ErrInvalidControlGrid)
		})
	}
}

func TestNewControlGridCopies(t *testing.T) {
	row := func() [][]float64 { return [][]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}, {3, 0, 0}} }
	pts := [][][]float64{row(), row(), row(), row()}
	g, err := NewControlGrid(pts)
	require.NoError(t, err)

	pts[0][0][0] = 42
	assert.Equal(t, 0.0, g[0][0].X)
}

func TestTransformCommutesWithEvaluate(t *testing.T) {
	g := wavyGrid()
	xf := math3d.TRS(math3d.V3(1, -2, 3), math3d.V3(0.3, -1.1, 0.4), math3d.V3(1, 1, 1))

	a, err := Evaluate(g.Transform(xf), 5, 6)
	require.NoError(t, err)
	b, err := Evaluate(g, 5, 6)
	require.NoError(t, err)

	for i := range a.Vertices {
		assertVecNear(t, xf.MulVec3(b.Vertices[i]), a.Vertices[i], "vertex %d", i)
	}
}

func TestEvaluateBounds(t *testing.T) {
	m, err := Evaluate(flatGrid(), 3, 3)
	require.NoError(t, err)
	b := m.Bounds()
	assertVecNear(t, math3d.Zero3(), b.Min)
	assertVecNear(t, math3d.V3(1, 1, 0), b.Max)
}

func TestEvaluateConcurrent(t *testing.T) {
	want, err := Evaluate(wavyGrid(), 20, 20)
	require.NoError(t, err)

	var g errgroup.Group
	results := make([]*SurfaceMesh, 16)
	for i := range results {
		g.Go(func() error {
			m, err := Evaluate(wavyGrid(), 20, 20)
			results[i] = m
			return err
		})
	}
	require.NoError(t, g.Wait())
	for _, m := range results {
		assert.Equal(t, want, m)
	}
}

func BenchmarkEvaluate20x20(b *testing.B) {
	g := wavyGrid()
	for b.Loop() {
		_, _ = Evaluate(g, 20, 20)
	}
}
