// Package shelf assembles books and a shelf board into a scene and
// animates the books.
package shelf

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/taigrr/bookshelf/pkg/anim"
	"github.com/taigrr/bookshelf/pkg/bezier"
	"github.com/taigrr/bookshelf/pkg/math3d"
	"github.com/taigrr/bookshelf/pkg/models"
)

// NumPages is the number of page boxes between the covers.
const NumPages = 9

// OpenDuration is how long a book takes to fly to the reading position.
const OpenDuration = 2 * time.Second

const (
	springFPS     = 60
	pullFrequency = 8.0
	pullDamping   = 1.0
	settleEps     = 1e-3

	maxCoverAngle = 0.9 * math.Pi / 2
	openDistance  = 100.0
)

// Colors for convenience
var (
	PageColor      = color.RGBA{0xff, 0xef, 0xdb, 0xff}
	HighlightColor = color.RGBA{0xff, 0xff, 0x00, 0xff} // emissive tint of the selected book
)

// ErrInvalidBookSpec is returned for books without a positive size.
var ErrInvalidBookSpec = errors.New("invalid book spec")

// State is what a book is currently doing.
type State int

const (
	OnShelf State = iota
	PullingOut
	Out
	PushingIn
	Falling
	OnFloor
	Opening
	Open
)

func (s State) String() string {
	switch s {
	case OnShelf:
		return "on shelf"
	case PullingOut:
		return "pulling out"
	case Out:
		return "out"
	case PushingIn:
		return "pushing in"
	case Falling:
		return "falling"
	case OnFloor:
		return "on floor"
	case Opening:
		return "opening"
	case Open:
		return "open"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Segments is the spine tessellation resolution.
type Segments struct {
	S int // across the spine
	T int // along the height
}

// DefaultSegments matches the spine resolution of the reference scene.
var DefaultSegments = Segments{S: 20, T: 20}

// BookSpec sizes a book. Width is the cover width, Height the cover height
// and Depth the spine width, the distance between the covers.
type BookSpec struct {
	Width  float64
	Height float64
	Depth  float64
	Color  color.RGBA
}

// Book is a hardcover with two planar covers, a curved spine and pages.
//
// The book frame's origin is the middle of the spine edge. Covers extend
// along +x by Width, the book spans ±Height/2 in y and ±Depth/2 in z, and
// the spine bulges toward -x.
type Book struct {
	BookSpec
	Name  string
	Index int

	Position   math3d.Vec3
	Rotation   math3d.Vec3 // Euler angles, XYZ order
	FrontAngle float64
	BackAngle  float64
	PageAngles [NumPages]float64

	State       State
	Highlighted bool

	Mass          float64
	Speed         float64 // falling speed, units per second
	InOutDistance float64
	PageWidth     float64

	cover *models.Mesh
	spine *models.Mesh
	page  *models.Mesh

	homeZ float64

	spring     *anim.Spring
	clock      anim.Clock
	posTrack   anim.Track
	rotTrack   anim.Track
	frontTween anim.ScalarTween
	backTween  anim.ScalarTween
	pageTweens [NumPages]anim.ScalarTween
}

// NewBook builds the meshes of a book. The spine is tessellated with seg.
func NewBook(spec BookSpec, index int, seg Segments) (*Book, error) {
	if !(spec.Width > 0 && spec.Height > 0 && spec.Depth > 0) {
		return nil, fmt.Errorf("%w: size %gx%gx%g", ErrInvalidBookSpec, spec.Width, spec.Height, spec.Depth)
	}

	surface, err := bezier.Evaluate(SpineGrid(spec.Height, spec.Depth), seg.S, seg.T)
	if err != nil {
		return nil, fmt.Errorf("tessellate spine: %w", err)
	}

	b := &Book{
		BookSpec:      spec,
		Name:          fmt.Sprintf("book%d", index),
		Index:         index,
		Mass:          0.004 * spec.Width * spec.Height * spec.Depth,
		InOutDistance: 0.6 * spec.Width,
		PageWidth:     0.9 * spec.Width,
	}
	b.Speed = 50000 / b.Mass

	b.cover = models.NewPlane(b.Name+"#cover", spec.Width, spec.Height)
	b.spine = models.FromSurface(b.Name+"#spine", surface, -1)
	b.page = models.NewBox(b.Name+"#page", b.PageWidth, spec.Height, 0.005*spec.Depth)
	return b, nil
}

// Place puts the book at rest at pos with rotation rot, as if on a shelf.
func (b *Book) Place(pos, rot math3d.Vec3) {
	b.stop()
	b.Position = pos
	b.Rotation = rot
	b.homeZ = pos.Z
	b.State = OnShelf
}

// Range returns the book's extents around its frame position. Rotation is
// not taken into account.
func (b *Book) Range() math3d.AABB {
	p := b.Position
	return math3d.AABB{
		Min: math3d.V3(p.X, p.Y-0.5*b.Height, p.Z-0.5*b.Depth),
		Max: math3d.V3(p.X+b.Width, p.Y+0.5*b.Height, p.Z+0.5*b.Depth),
	}
}

// Fallen reports whether the book has left the shelf for the floor.
func (b *Book) Fallen() bool {
	return b.State == Falling || b.State == OnFloor
}

// PullOut slides the book toward +z, off the shelf. It returns false if
// the book is not on the shelf or already coming out.
func (b *Book) PullOut() bool {
	if b.State != OnShelf && b.State != PushingIn {
		return false
	}
	b.driveZ(b.homeZ + b.InOutDistance)
	b.State = PullingOut
	return true
}

// PushIn slides a pulled out book back onto the shelf.
func (b *Book) PushIn() bool {
	if b.State != Out && b.State != PullingOut {
		return false
	}
	b.driveZ(b.homeZ)
	b.State = PushingIn
	return true
}

func (b *Book) driveZ(target float64) {
	if b.spring == nil {
		b.spring = anim.NewSpring(springFPS, pullFrequency, pullDamping, b.Position.Z)
	}
	b.spring.SetTarget(target)
}

// Open flies the book to the reading position at height y, turning it to
// face the viewer while the covers and pages fan open.
func (b *Book) Open(y float64) bool {
	if b.State == Opening || b.State == Open {
		return false
	}
	b.stop()

	target := math3d.V3(0, y+0.5*b.Height, openDistance)
	facing := math3d.V3(b.Rotation.X, -math.Pi/2, b.Rotation.Z)
	b.posTrack = anim.NewTrack(anim.Vec3Tween{From: b.Position, To: target, Duration: OpenDuration})
	b.rotTrack = anim.NewTrack(anim.Vec3Tween{From: b.Rotation, To: facing, Duration: OpenDuration})
	b.frontTween = anim.ScalarTween{From: b.FrontAngle, To: -maxCoverAngle, Duration: OpenDuration}
	b.backTween = anim.ScalarTween{From: b.BackAngle, To: maxCoverAngle, Duration: OpenDuration}

	// Pages fan out from the middle one, further pages turning more.
	mid := NumPages / 2
	step := maxCoverAngle / float64(mid)
	for i := range b.pageTweens {
		sign := 1.0
		if i < mid {
			sign = -1
		}
		dist := math.Abs(float64(mid - i))
		b.pageTweens[i] = anim.ScalarTween{From: b.PageAngles[i], To: dist * sign * step, Duration: OpenDuration}
	}

	b.clock.Reset()
	b.State = Opening
	return true
}

// Close folds the covers and pages shut in place.
func (b *Book) Close() {
	if b.State == Opening {
		b.stop()
		b.State = Open
	}
	b.FrontAngle = 0
	b.BackAngle = 0
	b.PageAngles = [NumPages]float64{}
}

// Fall drops the book: it first slides to edge, then to a random spot on
// the floor (y = 0), tumbling on the way. sign picks which side of the
// shelf the book lands on.
func (b *Book) Fall(edge math3d.Vec3, sign int, rng *rand.Rand) {
	b.stop()

	d := time.Duration(b.Position.Distance(edge) / b.Speed * float64(time.Second))

	floor := edge
	floor.X *= randomInRange(rng, 1.0, 1.5)
	floor.Y = 0
	if sign == 1 {
		floor.Z *= randomInRange(rng, 1.8, 2.0)
	} else {
		floor.Z *= randomInRange(rng, 1.0, 1.2)
	}

	spin := math3d.V3(
		randomInRange(rng, -math.Pi/4, math.Pi/4),
		randomInRange(rng, -math.Pi/2, math.Pi/2),
		randomInRange(rng, -math.Pi/3, math.Pi/3),
	)

	b.posTrack = anim.NewTrack(
		anim.Vec3Tween{From: b.Position, To: edge, Duration: d},
		anim.Vec3Tween{From: edge, To: floor, Duration: d},
	)
	b.rotTrack = anim.NewTrack(
		anim.Vec3Tween{From: b.Rotation, To: b.Rotation, Duration: d},
		anim.Vec3Tween{From: b.Rotation, To: b.Rotation.Add(spin), Duration: d},
	)
	b.clock.Reset()
	b.State = Falling
}

// StopMoving freezes the book where it is. A book interrupted on its way
// in or out keeps the state it was leaving.
func (b *Book) StopMoving() {
	switch b.State {
	case PullingOut:
		b.State = OnShelf
	case PushingIn:
		b.State = Out
	case Falling:
		b.State = OnFloor
	case Opening:
		b.State = Open
	}
	b.stop()
}

func (b *Book) stop() {
	b.spring = nil
	b.posTrack = anim.Track{}
	b.rotTrack = anim.Track{}
}

// Update advances the running animation by dt.
func (b *Book) Update(dt time.Duration) {
	switch b.State {
	case PullingOut, PushingIn:
		b.Position.Z = b.spring.Step(dt)
		if b.spring.Settled(settleEps) {
			b.spring.Snap()
			b.Position.Z = b.spring.Pos
			if b.State == PullingOut {
				b.State = Out
			} else {
				b.State = OnShelf
			}
			b.spring = nil
		}

	case Opening:
		e := b.clock.Advance(dt)
		b.Position = b.posTrack.At(e)
		b.Rotation = b.rotTrack.At(e)
		b.FrontAngle = b.frontTween.At(e)
		b.BackAngle = b.backTween.At(e)
		for i, tw := range b.pageTweens {
			b.PageAngles[i] = tw.At(e)
		}
		if b.posTrack.Done(e) {
			b.State = Open
			b.stop()
		}

	case Falling:
		e := b.clock.Advance(dt)
		b.Position = b.posTrack.At(e)
		b.Rotation = b.rotTrack.At(e)
		if b.posTrack.Done(e) && b.rotTrack.Done(e) {
			b.State = OnFloor
			b.stop()
		}
	}
}

// Frame returns the book's local-to-world transform.
func (b *Book) Frame() math3d.Mat4 {
	return math3d.TRS(b.Position, b.Rotation, math3d.V3(1, 1, 1))
}

// Parts returns the book's meshes placed in world space.
func (b *Book) Parts() []Part {
	frame := b.Frame()
	w, h, d := b.Width, b.Height, b.Depth

	var glow color.RGBA
	if b.Highlighted {
		glow = HighlightColor
	}

	// Covers hinge on the spine edge and extend along +x.
	hinged := func(z, angle, offset float64) math3d.Mat4 {
		return frame.
			Mul(math3d.Translate(math3d.V3(0, 0, z))).
			Mul(math3d.RotateY(angle)).
			Mul(math3d.Translate(math3d.V3(offset, 0, 0)))
	}

	parts := make([]Part, 0, 3+NumPages)
	parts = append(parts,
		Part{Name: b.Name + "#front", Mesh: b.cover, Transform: hinged(0.5*d, b.FrontAngle, 0.5*w), Color: b.Color, Emissive: glow, DoubleSided: true},
		Part{Name: b.Name + "#back", Mesh: b.cover, Transform: hinged(-0.5*d, b.BackAngle, 0.5*w), Color: b.Color, Emissive: glow, DoubleSided: true},
		Part{
			Name: b.Name + "#spine",
			Mesh: b.spine,
			Transform: frame.
				Mul(math3d.RotateY(-math.Pi / 2)).
				Mul(math3d.Translate(math3d.V3(-0.5*d, -0.5*h, 0))),
			Color:       b.Color,
			Emissive:    glow,
			DoubleSided: true,
		},
	)

	gap := d / (NumPages + 1)
	for i, angle := range b.PageAngles {
		parts = append(parts, Part{
			Name:      fmt.Sprintf("%s#page%d", b.Name, i),
			Mesh:      b.page,
			Transform: hinged(float64(i+1)*gap-0.5*d, angle, 0.5*b.PageWidth),
			Color:     PageColor,
		})
	}
	return parts
}

// SpineMesh returns the tessellated spine in book-local coordinates.
func (b *Book) SpineMesh() *models.Mesh {
	return b.spine
}

func randomInRange(rng *rand.Rand, lo, hi float64) float64 {
	return rng.Float64()*(hi-lo) + lo
}
