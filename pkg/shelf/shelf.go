package shelf

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/bookshelf/pkg/math3d"
	"github.com/taigrr/bookshelf/pkg/models"
)

// DefaultColor is the shelf board's wood brown.
var DefaultColor = color.RGBA{0x8b, 0x36, 0x26, 0xff}

// ErrInvalidShelf is returned for shelves without a positive size.
var ErrInvalidShelf = errors.New("invalid shelf")

// Shelf is a single flat board holding a row of books. Books keep their
// index for life, whether they are on the shelf or on the floor.
type Shelf struct {
	Name     string
	Width    float64
	Height   float64
	Depth    float64
	Position math3d.Vec3
	Color    color.RGBA

	BoardWidth     float64
	BoardThickness float64

	board *models.Mesh
	books []*Book
}

// NewShelf creates an empty shelf centered on the origin.
func NewShelf(width, height, depth float64, name string) (*Shelf, error) {
	if !(width > 0 && height > 0 && depth > 0) {
		return nil, fmt.Errorf("%w: size %gx%gx%g", ErrInvalidShelf, width, height, depth)
	}
	s := &Shelf{
		Name:           name,
		Width:          width,
		Height:         height,
		Depth:          depth,
		Color:          DefaultColor,
		BoardWidth:     1.1 * width,
		BoardThickness: 0.2 * height,
	}
	s.board = models.NewBox(name+"#board", s.BoardWidth, s.BoardThickness, depth)
	return s, nil
}

// Range returns the extents of the board. The x extent is the nominal
// width, not the slightly wider board.
func (s *Shelf) Range() math3d.AABB {
	return math3d.AABBFromCenter(s.Position, math3d.V3(s.Width, s.BoardThickness, s.Depth))
}

// Books returns every book, indexed by Book.Index.
func (s *Shelf) Books() []*Book {
	return s.books
}

// Book returns the book at index i, or nil.
func (s *Shelf) Book(i int) *Book {
	if i < 0 || i >= len(s.books) {
		return nil
	}
	return s.books[i]
}

// plannedBook is a book whose size and slot are fixed but whose meshes
// have not been built yet.
type plannedBook struct {
	spec  BookSpec
	index int
	pos   math3d.Vec3
}

// AddBooks lines up n new books standing on the board. Each book is as
// wide as the shelf is deep; heights and thicknesses are random, and slots
// are width/n apart. Spines are tessellated concurrently.
func (s *Shelf) AddBooks(n int, rng *rand.Rand, seg Segments) error {
	if n <= 0 {
		return nil
	}

	width := s.Depth
	slot := s.Width / float64(n)
	spacing := 0.3 * slot

	// Draw all random numbers up front so the layout only depends on rng.
	plans := make([]plannedBook, n)
	for k := range plans {
		i := len(s.books) + k
		h := randomInRange(rng, 1.25*width, 2.0*width)
		plans[k] = plannedBook{
			index: i,
			spec: BookSpec{
				Width:  width,
				Height: h,
				Depth:  randomInRange(rng, 0.5, 1) * (slot - spacing),
				Color:  randomColor(rng),
			},
			pos: s.Position.Add(math3d.V3(
				-0.5*s.Width+(float64(i)+0.5)*slot,
				0.5*s.BoardThickness+0.5*h,
				0.5*s.Depth,
			)),
		}
	}

	books := make([]*Book, n)
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for k, p := range plans {
		g.Go(func() error {
			b, err := NewBook(p.spec, p.index, seg)
			if err != nil {
				return fmt.Errorf("book %d: %w", p.index, err)
			}
			b.Place(p.pos, shelvedRotation())
			books[k] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.books = append(s.books, books...)
	return nil
}

// shelvedRotation turns a book so its covers run front to back.
func shelvedRotation() math3d.Vec3 {
	return math3d.V3(0, math.Pi/2, 0)
}

// IntersectsBook reports whether fallen book i is close enough to the
// board to be put back. The book's range is padded by its width in x and
// by half its height and depth in y and z before the overlap test.
func (s *Shelf) IntersectsBook(i int) bool {
	b := s.Book(i)
	if b == nil || !b.Fallen() {
		return false
	}
	tolerance := math3d.V3(b.Width, 0.5*b.Height, 0.5*b.Depth)
	return b.Range().Expand(tolerance).Intersects(s.Range())
}

// AddIntersectedBook puts fallen book i back on the shelf if it
// intersects it. The book keeps its x position, clamped to the board, and
// stands upright at the front like the books placed by AddBooks.
func (s *Shelf) AddIntersectedBook(i int) bool {
	if !s.IntersectsBook(i) {
		return false
	}
	b := s.books[i]
	r := s.Range()

	x := math.Min(math.Max(b.Position.X, r.Min.X), r.Max.X)
	y := r.Max.Y + 0.5*b.Height
	z := r.Max.Z

	b.Place(math3d.V3(x, y, z), shelvedRotation())
	b.Highlighted = false
	return true
}

// ClearBooks knocks every book still on the shelf onto the floor, pushing
// each one a shelf depth forward before it drops. Books alternate between
// landing near and far. It returns false if no book was left on the shelf.
func (s *Shelf) ClearBooks(rng *rand.Rand) bool {
	cleared := false
	for i, b := range s.books {
		if b.Fallen() {
			continue
		}
		edge := b.Position
		edge.Z += s.Depth
		sign := 1
		if i%2 != 0 {
			sign = -1
		}
		b.Fall(edge, sign, rng)
		cleared = true
	}
	return cleared
}

// Update advances every book's animation by dt.
func (s *Shelf) Update(dt time.Duration) {
	for _, b := range s.books {
		b.Update(dt)
	}
}

// Moving reports whether any book is animating.
func (s *Shelf) Moving() bool {
	for _, b := range s.books {
		switch b.State {
		case PullingOut, PushingIn, Falling, Opening:
			return true
		}
	}
	return false
}

// BoardPart returns the board placed in world space.
func (s *Shelf) BoardPart() Part {
	return Part{
		Name:      s.board.Name,
		Mesh:      s.board,
		Transform: math3d.Translate(s.Position),
		Color:     s.Color,
	}
}

// Parts returns the board followed by the parts of every book.
func (s *Shelf) Parts() []Part {
	parts := []Part{s.BoardPart()}
	for _, b := range s.books {
		parts = append(parts, b.Parts()...)
	}
	return parts
}

// Meshes bakes the scene into world-space meshes, one for the board and
// one per book, with colors as materials.
func (s *Shelf) Meshes() []*models.Mesh {
	meshes := []*models.Mesh{Merge(s.Name, []Part{s.BoardPart()})}
	for _, b := range s.books {
		meshes = append(meshes, Merge(b.Name, b.Parts()))
	}
	return meshes
}

// Bounds returns the world bounding box of the whole scene.
func (s *Shelf) Bounds() math3d.AABB {
	parts := s.Parts()
	box := parts[0].Bounds()
	for _, p := range parts[1:] {
		box = box.Union(p.Bounds())
	}
	return box
}

func randomColor(rng *rand.Rand) color.RGBA {
	c := rng.Uint32N(0x1000000)
	return color.RGBA{R: uint8(c >> 16), G: uint8(c >> 8), B: uint8(c), A: 0xff}
}
