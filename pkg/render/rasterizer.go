package render

import (
	"math"

	"github.com/taigrr/bookshelf/pkg/math3d"
)

// Lighting model: ambient + (1 - ambient) * max(0, N·L).
const defaultAmbient = 0.3

// MeshRenderer is the view of a mesh the rasterizer needs.
// It is declared here so render does not import models.
type MeshRenderer interface {
	VertexCount() int
	TriangleCount() int
	GetVertex(i int) (pos, normal math3d.Vec3, uv math3d.Vec2)
	GetFace(i int) [3]int
}

// TexturedMeshRenderer provides per-face texture coordinates. Meshes that
// share a vertex between faces with different UVs implement it.
type TexturedMeshRenderer interface {
	MeshRenderer
	GetFaceUV(i int) [3]math3d.Vec2
}

// BoundedMeshRenderer extends MeshRenderer with bounding box support for frustum culling.
type BoundedMeshRenderer interface {
	MeshRenderer
	GetBounds() (min, max math3d.Vec3)
}

// CullingStats tracks frustum culling per frame.
type CullingStats struct {
	MeshesTested int // Total meshes tested for culling
	MeshesCulled int // Meshes culled (not rendered)
	MeshesDrawn  int // Meshes that passed culling
}

// Rasterizer handles software triangle rasterization into a Framebuffer.
//
// Front faces wind counter-clockwise in world space. Back faces are culled
// unless DoubleSided is set, in which case they are lit with the flipped
// normal.
type Rasterizer struct {
	camera  *Camera
	fb      *Framebuffer
	zbuffer []float64 // Depth buffer (row-major, NDC z)
	frustum Frustum

	DoubleSided  bool    // Draw back faces as well
	Emissive     Color   // Added to every shaded pixel, zero for none
	Ambient      float64 // Light that reaches faces turned away from the light
	CullingStats CullingStats
}

// NewRasterizer creates a new rasterizer.
func NewRasterizer(camera *Camera, fb *Framebuffer) *Rasterizer {
	r := &Rasterizer{
		camera:  camera,
		fb:      fb,
		Ambient: defaultAmbient,
	}
	r.Resize()
	return r
}

// Resize resizes the depth buffer to match the framebuffer.
func (r *Rasterizer) Resize() {
	r.zbuffer = make([]float64, r.Width()*r.Height())
	r.ClearDepth()
}

// Width returns the framebuffer width.
func (r *Rasterizer) Width() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Width
}

// Height returns the framebuffer height.
func (r *Rasterizer) Height() int {
	if r.fb == nil {
		return 0
	}
	return r.fb.Height
}

// BeginFrame clears color and depth, resets the culling statistics, and
// captures the camera frustum for the frame.
func (r *Rasterizer) BeginFrame(background Color) {
	if len(r.zbuffer) != r.Width()*r.Height() {
		r.Resize()
	}
	r.fb.Clear(background)
	r.ClearDepth()
	r.CullingStats = CullingStats{}
	r.frustum = r.camera.Frustum()
}

// ClearDepth clears the Z-buffer.
func (r *Rasterizer) ClearDepth() {
	// Use copy-doubling for faster clearing
	n := len(r.zbuffer)
	if n == 0 {
		return
	}
	r.zbuffer[0] = math.MaxFloat64
	for i := 1; i < n; i *= 2 {
		copy(r.zbuffer[i:], r.zbuffer[:i])
	}
}

// Depth returns the stored depth at (x, y), MaxFloat64 where nothing was drawn.
func (r *Rasterizer) Depth(x, y int) float64 {
	if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
		return math.MaxFloat64
	}
	return r.zbuffer[y*r.Width()+x]
}

// IsVisible tests a world-space box against the frame's frustum.
func (r *Rasterizer) IsVisible(worldBounds math3d.AABB) bool {
	return r.frustum.IntersectAABB(worldBounds)
}

// tryFrustumCull reports whether a mesh with bounds lies outside the frustum.
func (r *Rasterizer) tryFrustumCull(mesh MeshRenderer, transform math3d.Mat4) bool {
	bounded, ok := mesh.(BoundedMeshRenderer)
	if !ok {
		return false
	}

	r.CullingStats.MeshesTested++
	lo, hi := bounded.GetBounds()
	if !r.IsVisible(math3d.AABB{Min: lo, Max: hi}.Transform(transform)) {
		r.CullingStats.MeshesCulled++
		return true
	}
	r.CullingStats.MeshesDrawn++
	return false
}

// DrawMesh renders a mesh with Gouraud shading in a single color.
func (r *Rasterizer) DrawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color, lightDir math3d.Vec3) {
	r.drawMesh(mesh, transform, color, nil, lightDir)
}

// DrawMeshTextured renders a mesh with Gouraud shading and texture mapping.
// Per-face UVs are used when the mesh provides them.
func (r *Rasterizer) DrawMeshTextured(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, lightDir math3d.Vec3) {
	r.drawMesh(mesh, transform, ColorWhite, tex, lightDir)
}

// DrawMeshTexturedTinted is DrawMeshTextured with the texture modulated by color.
func (r *Rasterizer) DrawMeshTexturedTinted(mesh MeshRenderer, transform math3d.Mat4, tex *Texture, color Color, lightDir math3d.Vec3) {
	r.drawMesh(mesh, transform, color, tex, lightDir)
}

func (r *Rasterizer) drawMesh(mesh MeshRenderer, transform math3d.Mat4, color Color, tex *Texture, lightDir math3d.Vec3) {
	if r.Width() == 0 || r.Height() == 0 || r.tryFrustumCull(mesh, transform) {
		return
	}
	textured, hasFaceUV := mesh.(TexturedMeshRenderer)
	light := lightDir.Normalize()

	for i := range mesh.TriangleCount() {
		face := mesh.GetFace(i)
		var tri [3]worldVertex
		for k, vi := range face {
			p, n, uv := mesh.GetVertex(vi)
			tri[k] = worldVertex{
				pos:    transform.MulVec3(p),
				normal: transform.MulVec3Dir(n).Normalize(),
				uv:     uv,
			}
		}
		if hasFaceUV && tex != nil {
			uvs := textured.GetFaceUV(i)
			for k := range tri {
				tri[k].uv = uvs[k]
			}
		}
		r.drawTriangle(tri, color, tex, light)
	}
}

// DrawTriangle rasterizes one world-space triangle with a flat color,
// lit by its face normal.
func (r *Rasterizer) DrawTriangle(v0, v1, v2 math3d.Vec3, color Color, lightDir math3d.Vec3) {
	n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	tri := [3]worldVertex{{pos: v0, normal: n}, {pos: v1, normal: n}, {pos: v2, normal: n}}
	r.drawTriangle(tri, color, nil, lightDir.Normalize())
}

type worldVertex struct {
	pos    math3d.Vec3
	normal math3d.Vec3
	uv     math3d.Vec2
}

// screenVertex holds a vertex transformed to screen space.
type screenVertex struct {
	X, Y      float64 // Screen coordinates
	Z         float64 // NDC depth
	InvW      float64 // 1/w for perspective-correct interpolation
	Intensity float64
	UV        math3d.Vec2
}

// project maps a world point to screen space. It fails for points on or
// behind the eye plane.
func (r *Rasterizer) project(viewProj math3d.Mat4, p math3d.Vec3) (screenVertex, bool) {
	clip := viewProj.MulVec4(math3d.V4FromV3(p, 1))
	if clip.W <= 0 {
		return screenVertex{}, false
	}
	invW := 1 / clip.W
	return screenVertex{
		X:    (clip.X*invW + 1) * 0.5 * float64(r.Width()),
		Y:    (1 - clip.Y*invW) * 0.5 * float64(r.Height()), // Y flipped
		Z:    clip.Z * invW,
		InvW: invW,
	}, true
}

func (r *Rasterizer) drawTriangle(tri [3]worldVertex, color Color, tex *Texture, light math3d.Vec3) {
	viewProj := r.camera.ViewProjectionMatrix()

	var sv [3]screenVertex
	for i, v := range tri {
		s, ok := r.project(viewProj, v.pos)
		if !ok {
			return
		}
		s.UV = v.uv
		sv[i] = s
	}

	// Screen Y points down, so a counter-clockwise front face has a
	// negative signed area here.
	area := edge(sv[0].X, sv[0].Y, sv[1].X, sv[1].Y, sv[2].X, sv[2].Y)
	if area == 0 {
		return
	}
	backFacing := area > 0
	if backFacing && !r.DoubleSided {
		return
	}

	for i := range sv {
		n := tri[i].normal
		if backFacing {
			n = n.Negate()
		}
		sv[i].Intensity = r.Ambient + (1-r.Ambient)*math.Max(0, n.Dot(light))
	}

	minX := int(math.Max(0, math.Floor(min3(sv[0].X, sv[1].X, sv[2].X))))
	maxX := int(math.Min(float64(r.Width()-1), math.Ceil(max3(sv[0].X, sv[1].X, sv[2].X))))
	minY := int(math.Max(0, math.Floor(min3(sv[0].Y, sv[1].Y, sv[2].Y))))
	maxY := int(math.Min(float64(r.Height()-1), math.Ceil(max3(sv[0].Y, sv[1].Y, sv[2].Y))))

	invArea := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			// Edge functions share the sign of area inside the triangle.
			b0 := edge(sv[1].X, sv[1].Y, sv[2].X, sv[2].Y, px, py) * invArea
			b1 := edge(sv[2].X, sv[2].Y, sv[0].X, sv[0].Y, px, py) * invArea
			b2 := 1 - b0 - b1
			if b0 < 0 || b1 < 0 || b2 < 0 {
				continue
			}

			z := b0*sv[0].Z + b1*sv[1].Z + b2*sv[2].Z
			if z < -1 || z > 1 {
				continue
			}
			idx := y*r.fb.Width + x
			if z >= r.zbuffer[idx] {
				continue
			}

			// Perspective-correct interpolation
			w0, w1, w2 := b0*sv[0].InvW, b1*sv[1].InvW, b2*sv[2].InvW
			oneOverW := w0 + w1 + w2
			intensity := (w0*sv[0].Intensity + w1*sv[1].Intensity + w2*sv[2].Intensity) / oneOverW

			c := color
			if tex != nil {
				u := (w0*sv[0].UV.X + w1*sv[1].UV.X + w2*sv[2].UV.X) / oneOverW
				v := (w0*sv[0].UV.Y + w1*sv[1].UV.Y + w2*sv[2].UV.Y) / oneOverW
				c = ModulateColor(tex.Sample(u, v), color)
			}
			c = AddColor(MultiplyColor(c, intensity), r.Emissive)

			r.zbuffer[idx] = z
			r.fb.Pixels[idx] = c
		}
	}
}

// edge is the signed parallelogram area of (a, b, p). Its sign tells which
// side of the line a->b the point p lies on.
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func min3(a, b, c float64) float64 {
	return math.Min(a, math.Min(b, c))
}

func max3(a, b, c float64) float64 {
	return math.Max(a, math.Max(b, c))
}
