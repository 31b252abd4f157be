package render

import (
	"math"
	"testing"

	"github.com/taigrr/bookshelf/pkg/math3d"
)

type testVertex struct {
	pos    math3d.Vec3
	normal math3d.Vec3
	uv     math3d.Vec2
}

// mockMesh implements MeshRenderer for testing.
type mockMesh struct {
	vertices []testVertex
	faces    [][3]int
}

func (m *mockMesh) VertexCount() int     { return len(m.vertices) }
func (m *mockMesh) TriangleCount() int   { return len(m.faces) }
func (m *mockMesh) GetFace(i int) [3]int { return m.faces[i] }
func (m *mockMesh) GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2) {
	v := m.vertices[i]
	return v.pos, v.normal, v.uv
}

// boundedMesh adds bounds so the rasterizer can frustum cull it.
type boundedMesh struct {
	*mockMesh
	lo, hi math3d.Vec3
}

func (m boundedMesh) GetBounds() (min, max math3d.Vec3) { return m.lo, m.hi }

// faceUVMesh overrides the vertex UVs per face.
type faceUVMesh struct {
	*mockMesh
	uvs [][3]math3d.Vec2
}

func (m faceUVMesh) GetFaceUV(i int) [3]math3d.Vec2 { return m.uvs[i] }

// quad is a 10x10 square at z=0 facing +Z, wound counter-clockwise.
func quad() *mockMesh {
	n := math3d.V3(0, 0, 1)
	return &mockMesh{
		vertices: []testVertex{
			{math3d.V3(-5, -5, 0), n, math3d.V2(0, 0)},
			{math3d.V3(5, -5, 0), n, math3d.V2(1, 0)},
			{math3d.V3(5, 5, 0), n, math3d.V2(1, 1)},
			{math3d.V3(-5, 5, 0), n, math3d.V2(0, 1)},
		},
		faces: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
}

// createTestRasterizer creates a rasterizer whose camera sits at (0, 0, 10)
// looking at the origin, with a black frame already begun.
func createTestRasterizer(width, height int) (*Rasterizer, *Framebuffer) {
	fb := NewFramebuffer(width, height)
	camera := NewCamera()
	camera.SetOrbit(math3d.Zero3(), 10, 0, 0)
	camera.SetAspectRatio(float64(width) / float64(height))
	r := NewRasterizer(camera, fb)
	r.BeginFrame(ColorBlack)
	return r, fb
}

func countLit(fb *Framebuffer) int {
	n := 0
	for _, c := range fb.Pixels {
		if c.R > 0 || c.G > 0 || c.B > 0 {
			n++
		}
	}
	return n
}

func TestDrawMeshFrontFace(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	r.DrawMesh(quad(), math3d.Identity(), RGB(200, 200, 200), math3d.V3(0, 0, 1))

	// The quad is wider than the view.
	for _, p := range [][2]int{{0, 0}, {62, 0}, {0, 62}, {63, 63}, {10, 40}} {
		if c := fb.GetPixel(p[0], p[1]); c == ColorBlack {
			t.Errorf("pixel %v not drawn", p)
		}
	}
	// Facing the light gives full intensity.
	if c := fb.GetPixel(32, 32); c.R != 200 {
		t.Errorf("center = %v, want R=200", c)
	}
}

func TestDrawMeshBackFaceCulled(t *testing.T) {
	r, fb := createTestRasterizer(64, 64)
	flip := math3d.RotateY(math.Pi)

	r.DrawMesh(quad(), flip, RGB(200, 200, 200), math3d.V3(0, 0, 1))
	if got := countLit(fb); got != 0 {
		t.Errorf("back face drew %d pixels", got)
	}

	r.DoubleSided = true
	r.DrawMesh(quad(), flip, RGB(200, 200, 200), math3d.V3(0, 0, 1))
	if got := countLit(fb); got == 0 {
		t.Fatal("double sided back face drew nothing")
	}
	// The flipped normal faces the light again.
	if c := fb.GetPixel(32, 32); c.R != 200 {
		t.Errorf("double sided center = %v, want R=200", c)
	}
}

func TestDrawMeshAmbientOnly(t *testing.T) {
	r, fb := createTestRasterizer(32, 32)
	r.DrawMesh(quad(), math3d.Identity(), RGB(200, 100, 0), math3d.V3(0, 0, -1))

	c := fb.GetPixel(16, 16)
	if c.R != 60 || c.G != 30 {
		t.Errorf("unlit color = %v, want ambient (60, 30, 0)", c)
	}
}

func TestDrawMeshEmissive(t *testing.T) {
	r, fb := createTestRasterizer(32, 32)
	r.Emissive = RGB(255, 255, 0)
	r.DrawMesh(quad(), math3d.Identity(), RGB(100, 100, 100), math3d.V3(0, 0, -1))

	c := fb.GetPixel(16, 16)
	if c.R != 255 || c.G != 255 || c.B != 30 {
		t.Errorf("emissive color = %v, want (255, 255, 30)", c)
	}
}

func TestDrawMeshDepthTest(t *testing.T) {
	r, fb := createTestRasterizer(32, 32)
	near := math3d.Translate(math3d.V3(0, 0, 1))

	r.DrawMesh(quad(), near, RGB(0, 200, 0), math3d.V3(0, 0, 1))
	r.DrawMesh(quad(), math3d.Identity(), RGB(200, 0, 0), math3d.V3(0, 0, 1))

	if c := fb.GetPixel(16, 16); c.G != 200 || c.R != 0 {
		t.Errorf("farther quad overwrote nearer one: %v", c)
	}
	if d := r.Depth(16, 16); d >= 1 || d <= -1 {
		t.Errorf("depth = %v, want inside (-1, 1)", d)
	}
}

func TestDrawMeshBehindCamera(t *testing.T) {
	r, fb := createTestRasterizer(32, 32)
	r.DrawMesh(quad(), math3d.Translate(math3d.V3(0, 0, 20)), ColorWhite, math3d.V3(0, 0, 1))
	if got := countLit(fb); got != 0 {
		t.Errorf("quad behind camera drew %d pixels", got)
	}
}

func TestDrawMeshFrustumCulling(t *testing.T) {
	r, _ := createTestRasterizer(32, 32)
	q := quad()
	mesh := boundedMesh{mockMesh: q, lo: math3d.V3(-5, -5, 0), hi: math3d.V3(5, 5, 0)}

	r.DrawMesh(mesh, math3d.Identity(), ColorWhite, math3d.V3(0, 0, 1))
	r.DrawMesh(mesh, math3d.Translate(math3d.V3(500, 0, 0)), ColorWhite, math3d.V3(0, 0, 1))

	want := CullingStats{MeshesTested: 2, MeshesCulled: 1, MeshesDrawn: 1}
	if r.CullingStats != want {
		t.Errorf("stats = %+v, want %+v", r.CullingStats, want)
	}

	r.BeginFrame(ColorBlack)
	if r.CullingStats != (CullingStats{}) {
		t.Errorf("BeginFrame did not reset stats: %+v", r.CullingStats)
	}
}

func TestDrawMeshTexturedUsesFaceUVs(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, RGB(255, 0, 0))
	tex.SetPixel(1, 0, RGB(0, 0, 255))
	tex.WrapU, tex.WrapV = WrapClamp, WrapClamp

	q := quad()
	// Vertex UVs would sample both texels; the face UVs pin u to the right one.
	right := [3]math3d.Vec2{math3d.V2(0.9, 0.5), math3d.V2(0.9, 0.5), math3d.V2(0.9, 0.5)}
	mesh := faceUVMesh{mockMesh: q, uvs: [][3]math3d.Vec2{right, right}}

	r, fb := createTestRasterizer(16, 16)
	r.DrawMeshTextured(mesh, math3d.Identity(), tex, math3d.V3(0, 0, 1))
	for _, p := range [][2]int{{1, 1}, {8, 8}, {14, 14}} {
		if c := fb.GetPixel(p[0], p[1]); c != RGB(0, 0, 255) {
			t.Errorf("pixel %v = %v, want blue", p, c)
		}
	}

	r.BeginFrame(ColorBlack)
	r.DrawMeshTextured(q, math3d.Identity(), tex, math3d.V3(0, 0, 1))
	if c := fb.GetPixel(1, 8); c != RGB(255, 0, 0) {
		t.Errorf("left edge with vertex UVs = %v, want red", c)
	}
}

func TestDrawMeshTexturedTinted(t *testing.T) {
	tex := NewTexture(1, 1)
	tex.SetPixel(0, 0, RGB(255, 255, 255))

	r, fb := createTestRasterizer(8, 8)
	r.DrawMeshTexturedTinted(quad(), math3d.Identity(), tex, RGB(10, 20, 30), math3d.V3(0, 0, 1))
	if c := fb.GetPixel(4, 4); c != RGB(10, 20, 30) {
		t.Errorf("tinted = %v, want (10, 20, 30)", c)
	}
}

func TestDrawTriangleWinding(t *testing.T) {
	r, fb := createTestRasterizer(32, 32)
	a, b, c := math3d.V3(-3, -3, 0), math3d.V3(3, -3, 0), math3d.V3(0, 3, 0)

	r.DrawTriangle(a, c, b, ColorWhite, math3d.V3(0, 0, 1))
	if got := countLit(fb); got != 0 {
		t.Errorf("clockwise triangle drew %d pixels", got)
	}
	r.DrawTriangle(a, b, c, ColorWhite, math3d.V3(0, 0, 1))
	if got := countLit(fb); got == 0 {
		t.Error("counter-clockwise triangle drew nothing")
	}
}

func TestEdgeFunction(t *testing.T) {
	// Screen space is y-down, so this triangle is clockwise on screen.
	area := edge(0, 0, 1, 0, 0, 1)
	if area != 1 {
		t.Errorf("edge = %v, want 1", area)
	}
	if edge(0, 0, 1, 0, 0.5, -1) >= 0 {
		t.Error("point on the other side should be negative")
	}
}

func TestMin3Max3(t *testing.T) {
	if min3(3, 1, 2) != 1 {
		t.Error("min3 failed")
	}
	if max3(3, 1, 2) != 3 {
		t.Error("max3 failed")
	}
}

func TestRasterizerClearDepth(t *testing.T) {
	r, _ := createTestRasterizer(10, 10)
	r.zbuffer[5] = 0.5
	r.ClearDepth()

	for i, z := range r.zbuffer {
		if z != math.MaxFloat64 {
			t.Fatalf("zbuffer[%d] = %v after clear", i, z)
		}
	}
	if r.Depth(-1, 0) != math.MaxFloat64 || r.Depth(0, 100) != math.MaxFloat64 {
		t.Error("out of bounds depth should be MaxFloat64")
	}
}

func TestRasterizerFollowsFramebufferResize(t *testing.T) {
	r, fb := createTestRasterizer(10, 10)
	fb.Resize(20, 8)
	r.BeginFrame(ColorBlack)
	if len(r.zbuffer) != 160 {
		t.Errorf("zbuffer len = %d, want 160", len(r.zbuffer))
	}
	r.DrawMesh(quad(), math3d.Identity(), ColorWhite, math3d.V3(0, 0, 1))
}

func BenchmarkDrawMesh(b *testing.B) {
	r, _ := createTestRasterizer(200, 100)
	q := quad()
	light := math3d.V3(0.3, 0.5, 1)

	for b.Loop() {
		r.ClearDepth()
		r.DrawMesh(q, math3d.Identity(), ColorWhite, light)
	}
}
