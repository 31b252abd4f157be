package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Each cell shows two vertically stacked pixels, so the framebuffer
// height should be 2x the area height.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// ▀ takes the top pixel as foreground and the bottom one as background.
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Scene colors.
var (
	ColorBlack      = color.RGBA{0, 0, 0, 255}
	ColorWhite      = color.RGBA{255, 255, 255, 255}
	ColorYellow     = color.RGBA{255, 255, 0, 255}
	ColorBackground = color.RGBA{0x22, 0x22, 0x22, 255}
	ColorFloor      = color.RGBA{0x55, 0x44, 0x33, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// Hex creates an opaque color from a 0xRRGGBB value.
func Hex(rgb uint32) color.RGBA {
	return color.RGBA{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb), 255}
}
