package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/taigrr/bookshelf/internal/config"
	"github.com/taigrr/bookshelf/internal/logger"
	"github.com/taigrr/bookshelf/pkg/math3d"
	"github.com/taigrr/bookshelf/pkg/models"
	"github.com/taigrr/bookshelf/pkg/render"
	"github.com/taigrr/bookshelf/pkg/shelf"

	"go.uber.org/zap"
)

const (
	// The board floats this many shelf heights above the floor.
	shelfElevation = 4.0
	floorScale     = 3.0

	initialPitch = 0.25
	minDistance  = 20.0
	maxDistance  = 800.0
)

var (
	lightDir       = math3d.V3(0.4, 1, 0.8)
	wireColor      = render.RGB(0, 255, 128)
	selectionColor = render.ColorYellow
	stripeBase     = render.RGB(0xe0, 0xe0, 0xe0)
	stripeGrain    = render.RGB(0x90, 0x90, 0x90)
)

// Scene owns the shelf and everything needed to draw it.
type Scene struct {
	cfg   *config.Config
	rng   *rand.Rand
	Shelf *shelf.Shelf

	Camera     *render.Camera
	fb         *render.Framebuffer
	rasterizer *render.Rasterizer

	floor      *models.Mesh
	boardTex   *render.Texture
	Wireframe  bool
	Selected   int
	Triangles  int // drawn last frame
	lastUpdate time.Time
}

// NewScene builds the shelf and its books and frames the camera on it.
// fbWidth and fbHeight are the framebuffer size in pixels.
func NewScene(cfg *config.Config, fbWidth, fbHeight int) (*Scene, error) {
	s := &Scene{
		cfg:       cfg,
		Camera:    render.NewCamera(),
		fb:        render.NewFramebuffer(fbWidth, fbHeight),
		Wireframe: cfg.Render.Wireframe,
	}
	s.rasterizer = render.NewRasterizer(s.Camera, s.fb)

	if err := s.Restock(); err != nil {
		return nil, err
	}

	if cfg.Render.Texture != "" {
		tex, err := render.LoadTexture(cfg.Render.Texture, cfg.Render.TextureSize)
		if err != nil {
			return nil, fmt.Errorf("load board texture: %w", err)
		}
		tex.WrapU, tex.WrapV = render.WrapMirroredRepeat, render.WrapMirroredRepeat
		s.boardTex = tex
	} else {
		size := cfg.Render.TextureSize
		s.boardTex = render.NewStripeTexture(size, size, max(size/16, 1), stripeBase, stripeGrain)
	}

	side := floorScale * cfg.Shelf.Width
	s.floor = models.NewPlane("floor", side, side)

	s.Camera.SetFOV(cfg.Render.FOV * math.Pi / 180)
	s.Camera.SetClipPlanes(1, 4*maxDistance)
	s.Resize(fbWidth, fbHeight)
	s.ResetView()
	return s, nil
}

// Restock replaces the shelf with a fresh one filled from the configured
// seed, so a restock always produces the same layout.
func (s *Scene) Restock() error {
	c := s.cfg.Shelf
	sh, err := shelf.NewShelf(c.Width, c.Height, c.Depth, "shelf")
	if err != nil {
		return err
	}
	sh.Position = math3d.V3(0, shelfElevation*c.Height, 0)

	s.rng = rand.New(rand.NewPCG(c.Seed, c.Seed>>32|1))
	seg := shelf.Segments{S: s.cfg.Render.Segments, T: s.cfg.Render.Segments}

	start := time.Now()
	if err := sh.AddBooks(c.Books, s.rng, seg); err != nil {
		return fmt.Errorf("add books: %w", err)
	}
	logger.Log.Info("shelf stocked",
		zap.Int("books", c.Books),
		zap.Int("segments", s.cfg.Render.Segments),
		zap.Duration("took", time.Since(start)),
	)

	s.Shelf = sh
	s.Selected = 0
	s.lastUpdate = time.Time{}
	return nil
}

// Resize changes the framebuffer size and the camera aspect ratio.
func (s *Scene) Resize(fbWidth, fbHeight int) {
	s.fb.Resize(fbWidth, fbHeight)
	s.rasterizer.Resize()
	if fbWidth > 0 && fbHeight > 0 {
		s.Camera.SetAspectRatio(float64(fbWidth) / float64(fbHeight))
	}
}

// ResetView puts the camera back in front of the shelf.
func (s *Scene) ResetView() {
	s.Camera.SetOrbit(s.Shelf.Position, s.cfg.Render.CameraDistance, 0, initialPitch)
}

// Zoom scales the orbit distance, keeping it within limits.
func (s *Scene) Zoom(factor float64) {
	d := math.Min(maxDistance, math.Max(minDistance, s.Camera.Distance*factor))
	s.Camera.Zoom(d / s.Camera.Distance)
}

// Book returns the selected book, or nil on an empty shelf.
func (s *Scene) Book() *shelf.Book {
	return s.Shelf.Book(s.Selected)
}

// Select moves the selection by delta, wrapping around.
func (s *Scene) Select(delta int) {
	n := len(s.Shelf.Books())
	if n == 0 {
		return
	}
	s.Selected = ((s.Selected+delta)%n + n) % n
}

// Toggle pulls the selected book out, or pushes it back in.
func (s *Scene) Toggle() bool {
	b := s.Book()
	if b == nil {
		return false
	}
	return b.PullOut() || b.PushIn()
}

// OpenBook flies the selected book to the reading position at board height.
func (s *Scene) OpenBook() bool {
	b := s.Book()
	if b == nil {
		return false
	}
	return b.Open(s.Shelf.Position.Y)
}

// CloseBook shuts the selected book.
func (s *Scene) CloseBook() {
	if b := s.Book(); b != nil {
		b.Close()
	}
}

// StopBook freezes the selected book mid-animation.
func (s *Scene) StopBook() {
	if b := s.Book(); b != nil {
		b.StopMoving()
	}
}

// Clear knocks every book off the shelf.
func (s *Scene) Clear() bool {
	return s.Shelf.ClearBooks(s.rng)
}

// PutBack returns the selected book to the shelf if it lies close enough.
func (s *Scene) PutBack() bool {
	return s.Shelf.AddIntersectedBook(s.Selected)
}

// Update advances the book animations to now.
func (s *Scene) Update(now time.Time) {
	if s.lastUpdate.IsZero() {
		s.lastUpdate = now
		return
	}
	dt := now.Sub(s.lastUpdate)
	s.lastUpdate = now

	// Long stalls (suspended terminal) would otherwise teleport books.
	dt = min(dt, 100*time.Millisecond)
	s.Shelf.Update(dt)
}

// Render draws the scene into the framebuffer.
func (s *Scene) Render() *render.Framebuffer {
	r := s.rasterizer
	r.BeginFrame(render.ColorBackground)

	for i, b := range s.Shelf.Books() {
		b.Highlighted = i == s.Selected
	}

	floor := math3d.RotateX(-math.Pi / 2)
	parts := s.Shelf.Parts()

	s.Triangles = 0
	if s.Wireframe {
		r.DrawMeshWireframe(s.floor, floor, render.ColorFloor)
		for _, p := range parts {
			r.DrawMeshWireframe(p.Mesh, p.Transform, wireColor)
			s.Triangles += p.Mesh.TriangleCount()
		}
		if b := s.Book(); b != nil {
			r.DrawAABB(b.Range(), selectionColor)
		}
		r.DrawAABB(s.Shelf.Range(), render.ColorWhite)
		return s.fb
	}

	r.DoubleSided = false
	r.Emissive = render.Color{}
	r.DrawMesh(s.floor, floor, render.ColorFloor, lightDir)

	for i, p := range parts {
		r.DoubleSided = p.DoubleSided
		r.Emissive = p.Emissive
		if i == 0 {
			r.DrawMeshTexturedTinted(p.Mesh, p.Transform, s.boardTex, p.Color, lightDir)
		} else {
			r.DrawMesh(p.Mesh, p.Transform, p.Color, lightDir)
		}
		s.Triangles += p.Mesh.TriangleCount()
	}
	return s.fb
}

// Stats returns the culling statistics of the last frame.
func (s *Scene) Stats() render.CullingStats {
	return s.rasterizer.CullingStats
}

// Status describes the selected book for the HUD.
func (s *Scene) Status() string {
	b := s.Book()
	if b == nil {
		return "empty shelf"
	}
	return fmt.Sprintf("%s: %s", b.Name, b.State)
}
