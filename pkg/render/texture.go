package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"golang.org/x/image/draw"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat         WrapMode = iota // Tile the texture
	WrapClamp                          // Clamp to edge
	WrapMirroredRepeat                 // Tile, flipping every other copy
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a 2D image for texture mapping.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color    // Row-major pixel data
	WrapU      WrapMode   // Horizontal wrap mode
	WrapV      WrapMode   // Vertical wrap mode
	FilterMode FilterMode // Sampling filter mode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:      width,
		Height:     height,
		Pixels:     make([]Color, width*height),
		WrapU:      WrapRepeat,
		WrapV:      WrapRepeat,
		FilterMode: FilterNearest,
	}
}

// LoadTexture loads a texture from an image file. Images larger than
// maxSize on either side are scaled down to fit, keeping the aspect ratio.
// A maxSize of zero or less keeps the original size.
func LoadTexture(path string, maxSize int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", path, err)
	}
	return TextureFromImage(downscale(img, maxSize)), nil
}

// downscale fits img into a maxSize square with bilinear filtering.
func downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize <= 0 || (w <= maxSize && h <= maxSize) {
		return img
	}
	scale := float64(maxSize) / float64(max(w, h))
	dst := image.NewRGBA(image.Rect(0, 0, max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))))
	draw.BiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// TextureFromImage copies img into a new texture. Any image type is
// converted to non-premultiplied 8-bit RGBA first.
func TextureFromImage(img image.Image) *Texture {
	b := img.Bounds()
	rgba, ok := img.(*image.NRGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		rgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	}

	tex := NewTexture(b.Dx(), b.Dy())
	for y := range tex.Height {
		row := rgba.Pix[y*rgba.Stride:]
		for x := range tex.Width {
			p := row[4*x : 4*x+4 : 4*x+4]
			tex.Pixels[y*tex.Width+x] = Color{R: p[0], G: p[1], B: p[2], A: p[3]}
		}
	}
	return tex
}

// NewCheckerTexture creates a checkerboard of size x size squares.
func NewCheckerTexture(width, height, size int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	size = max(size, 1)
	for i := range tex.Pixels {
		x, y := i%width, i/width
		if (x/size+y/size)%2 == 0 {
			tex.Pixels[i] = c1
		} else {
			tex.Pixels[i] = c2
		}
	}
	return tex
}

// NewStripeTexture creates soft vertical bands fading from base to grain
// and back every 2*stripe pixels. The shelf board uses it as wood grain.
func NewStripeTexture(width, height, stripe int, base, grain Color) *Texture {
	tex := NewTexture(width, height)
	stripe = max(stripe, 1)
	for y := range height {
		for x := range width {
			t := math.Abs(math.Sin(math.Pi * float64(x) / float64(2*stripe)))
			tex.SetPixel(x, y, lerpColor(base, grain, t*t))
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the texture color at (u, v). V runs bottom to top while
// image rows run top to bottom.
func (t *Texture) Sample(u, v float64) Color {
	u = t.wrapCoord(u, t.WrapU)
	v = 1 - t.wrapCoord(v, t.WrapV)

	if t.FilterMode == FilterBilinear {
		return t.sampleBilinear(u, v)
	}
	return t.sampleNearest(u, v)
}

// wrapCoord maps a texture coordinate into [0, 1].
func (t *Texture) wrapCoord(c float64, mode WrapMode) float64 {
	switch mode {
	case WrapClamp:
		return math.Max(0, math.Min(1, c))
	case WrapMirroredRepeat:
		whole, frac := math.Modf(math.Abs(c))
		if int(whole)%2 == 1 {
			return 1 - frac
		}
		return frac
	default:
		return c - math.Floor(c)
	}
}

func (t *Texture) sampleNearest(u, v float64) Color {
	x := min(int(u*float64(t.Width)), t.Width-1)
	y := min(int(v*float64(t.Height)), t.Height-1)
	return t.GetPixel(x, y)
}

// sampleBilinear blends the four texels around (u, v), wrapping each
// neighbor with the texture's wrap modes.
func (t *Texture) sampleBilinear(u, v float64) Color {
	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0, y0 := int(math.Floor(fx)), int(math.Floor(fy))
	tx, ty := fx-float64(x0), fy-float64(y0)

	at := func(x, y int) Color {
		return t.GetPixel(t.wrapPixelCoord(x, t.Width, t.WrapU), t.wrapPixelCoord(y, t.Height, t.WrapV))
	}
	top := lerpColor(at(x0, y0), at(x0+1, y0), tx)
	bot := lerpColor(at(x0, y0+1), at(x0+1, y0+1), tx)
	return lerpColor(top, bot, ty)
}

// wrapPixelCoord maps a texel index outside [0, size) back into range.
func (t *Texture) wrapPixelCoord(x, size int, mode WrapMode) int {
	switch mode {
	case WrapClamp:
		return max(0, min(size-1, x))
	case WrapMirroredRepeat:
		if x < 0 {
			x = -x - 1
		}
		if (x/size)%2 == 1 {
			return size - 1 - x%size
		}
		return x % size
	default:
		return ((x % size) + size) % size
	}
}

func lerpColor(a, b Color, t float64) Color {
	mix := func(p, q uint8) uint8 {
		return uint8(math.Round(float64(p) + (float64(q)-float64(p))*t))
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// MultiplyColor multiplies a color by a scalar (for lighting), rounding to
// the nearest channel value.
func MultiplyColor(c Color, intensity float64) Color {
	scale := func(v uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, math.Round(float64(v)*intensity))))
	}
	return Color{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// ModulateColor multiplies two colors channel-wise, e.g. a texel by the
// surface tint.
func ModulateColor(a, b Color) Color {
	mul := func(p, q uint8) uint8 { return uint8(int(p) * int(q) / 255) }
	return Color{R: mul(a.R, b.R), G: mul(a.G, b.G), B: mul(a.B, b.B), A: mul(a.A, b.A)}
}

// AddColor adds b to a channel-wise, saturating at 255. Alpha is kept from a.
func AddColor(a, b Color) Color {
	return Color{
		R: uint8(min(255, int(a.R)+int(b.R))),
		G: uint8(min(255, int(a.G)+int(b.G))),
		B: uint8(min(255, int(a.B)+int(b.B))),
		A: a.A,
	}
}
