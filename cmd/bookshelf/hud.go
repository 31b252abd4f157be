package main

import (
	"fmt"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/bookshelf/pkg/render"
)

const helpLine = "←/→ select  enter pull  o open  c close  space clear  p put back  x wire  r reset  esc quit"

var (
	hudFg     = render.ColorWhite
	hudBg     = render.ColorBlack
	hudAccent = render.RGB(0x5f, 0xd7, 0x87)
)

// HUD renders a status line at the top and a help line at the bottom.
type HUD struct {
	fps       float64
	fpsFrames int
	fpsTime   time.Time
	message   string
}

// NewHUD creates a new HUD.
func NewHUD() *HUD {
	return &HUD{fpsTime: time.Now()}
}

// UpdateFPS counts a frame. It reports true once per second when the
// FPS figure is refreshed.
func (h *HUD) UpdateFPS(now time.Time) bool {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed < time.Second {
		return false
	}
	h.fps = float64(h.fpsFrames) / elapsed.Seconds()
	h.fpsFrames = 0
	h.fpsTime = now
	return true
}

// FPS returns the last measured frame rate.
func (h *HUD) FPS() float64 {
	return h.fps
}

// SetMessage shows msg until it is replaced.
func (h *HUD) SetMessage(msg string) {
	h.message = msg
}

// Draw writes the HUD over the top and bottom rows of area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, scene *Scene) {
	if area.Max.Y-area.Min.Y < 2 {
		return
	}
	top := fmt.Sprintf(" %.0f FPS  %d tris  %s ", h.fps, scene.Triangles, scene.Status())
	if h.message != "" {
		top += "| " + h.message + " "
	}
	x := drawText(scr, area, area.Min.X, area.Min.Y, top, hudAccent, hudBg)
	fillRow(scr, area, x, area.Min.Y, hudBg)

	x = drawText(scr, area, area.Min.X, area.Max.Y-1, helpLine, hudFg, hudBg)
	fillRow(scr, area, x, area.Max.Y-1, hudBg)
}

// drawText writes s from column x and returns the column after the last
// rune written. Text past the right edge of area is dropped.
func drawText(scr uv.Screen, area uv.Rectangle, x, y int, s string, fg, bg render.Color) int {
	for _, r := range s {
		if x >= area.Max.X {
			break
		}
		scr.SetCell(x, y, &uv.Cell{
			Content: string(r),
			Width:   1,
			Style:   uv.Style{Fg: fg, Bg: bg},
		})
		x++
	}
	return x
}

func fillRow(scr uv.Screen, area uv.Rectangle, x, y int, bg render.Color) {
	for ; x < area.Max.X; x++ {
		scr.SetCell(x, y, &uv.Cell{Content: " ", Width: 1, Style: uv.Style{Bg: bg}})
	}
}
