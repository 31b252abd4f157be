package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/bookshelf/internal/config"
	"github.com/taigrr/bookshelf/internal/logger"
)

const (
	zoomStep = 1.1
	keyRelax = 0.9
)

// viewer is the interactive terminal front end.
type viewer struct {
	cfg   *config.Config
	term  *uv.Terminal
	scene *Scene
	orbit *Orbit
	hud   *HUD

	width, height int

	mouseDown              bool
	lastMouseX, lastMouseY int
	keyYaw                 float64 // orbit input from a/d, decays every frame
}

func runTUI(ctx context.Context, cfg *config.Config) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	scene, err := NewScene(cfg, width, height*2)
	if err != nil {
		return err
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logger.Log.Warn("terminal shutdown", zap.Error(err))
		}
	}()

	v := &viewer{
		cfg:    cfg,
		term:   term,
		scene:  scene,
		orbit:  NewOrbit(cfg.Render.FPS, cfg.Animation.OrbitFrequency, cfg.Animation.OrbitDamping),
		hud:    NewHUD(),
		width:  width,
		height: height,
	}
	return v.loop(ctx)
}

func (v *viewer) loop(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(time.Second / time.Duration(v.cfg.Render.FPS))
	defer ticker.Stop()

	events := v.term.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-sigChan:
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if quit := v.handle(ev); quit {
				return nil
			}
		case now := <-ticker.C:
			if err := v.frame(now); err != nil {
				return err
			}
		}
	}
}

// handle applies one input event and reports whether to quit.
func (v *viewer) handle(ev uv.Event) bool {
	s := v.scene
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.width, v.height = ev.Width, ev.Height
		v.term.Erase()
		v.term.Resize(v.width, v.height)
		s.Resize(v.width, v.height*2)
		logger.Log.Debug("resize", zap.Int("cols", v.width), zap.Int("rows", v.height))

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "ctrl+c"):
			return true
		case ev.MatchString("left"):
			s.Select(-1)
		case ev.MatchString("right"):
			s.Select(1)
		case ev.MatchString("enter"):
			if !s.Toggle() {
				v.hud.SetMessage("book can't move in or out now")
			}
		case ev.MatchString("o"):
			s.OpenBook()
		case ev.MatchString("c"):
			s.CloseBook()
		case ev.MatchString("s"):
			s.StopBook()
		case ev.MatchString("space"):
			if !s.Clear() {
				v.hud.SetMessage("shelf already cleared")
			}
		case ev.MatchString("p"):
			if s.PutBack() {
				v.hud.SetMessage("")
			} else {
				v.hud.SetMessage("book is too far from the shelf")
			}
		case ev.MatchString("x"):
			s.Wireframe = !s.Wireframe
		case ev.MatchString("r"):
			v.orbit.Stop()
			s.ResetView()
		case ev.MatchString("shift+r", "R"):
			if err := s.Restock(); err != nil {
				logger.Log.Error("restock", zap.Error(err))
				v.hud.SetMessage(err.Error())
			}
		case ev.MatchString("a"):
			v.keyYaw = -v.cfg.Animation.DragSensitivity
		case ev.MatchString("d"):
			v.keyYaw = v.cfg.Animation.DragSensitivity
		case ev.MatchString("+", "="):
			s.Zoom(1 / zoomStep)
		case ev.MatchString("-", "_"):
			s.Zoom(zoomStep)
		case ev.MatchString("ctrl+s"):
			v.saveConfig()
		}

	case uv.KeyReleaseEvent:
		if ev.MatchString("a", "d") {
			v.keyYaw = 0
		}

	case uv.MouseClickEvent:
		v.mouseDown = true
		v.lastMouseX, v.lastMouseY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		v.mouseDown = false

	case uv.MouseMotionEvent:
		if v.mouseDown {
			dx := ev.X - v.lastMouseX
			dy := ev.Y - v.lastMouseY
			k := v.cfg.Animation.DragSensitivity
			v.orbit.Impulse(-float64(dx)*k, float64(dy)*k)
			v.lastMouseX, v.lastMouseY = ev.X, ev.Y
		}

	case uv.MouseWheelEvent:
		switch ev.Button {
		case uv.MouseWheelUp:
			s.Zoom(1 / zoomStep)
		case uv.MouseWheelDown:
			s.Zoom(zoomStep)
		}
	}
	return false
}

// saveConfig writes the current view settings as the user config.
func (v *viewer) saveConfig() {
	v.cfg.Render.Wireframe = v.scene.Wireframe
	v.cfg.Render.CameraDistance = v.scene.Camera.Distance
	if err := v.cfg.Save(); err != nil {
		logger.Log.Error("save config", zap.Error(err))
		v.hud.SetMessage("save failed: " + err.Error())
		return
	}
	v.hud.SetMessage("config saved")
}

func (v *viewer) frame(now time.Time) error {
	// Key release events are unreliable, so held keys fade out.
	v.orbit.Impulse(v.keyYaw, 0)
	v.keyYaw *= keyRelax

	v.orbit.Apply(v.scene.Camera)
	v.scene.Update(now)
	fb := v.scene.Render()

	var area uv.Rectangle
	area.Max.X, area.Max.Y = v.width, v.height
	fb.Draw(v.term, area)
	v.hud.Draw(v.term, area, v.scene)
	if err := v.term.Display(); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	if v.hud.UpdateFPS(now) {
		stats := v.scene.Stats()
		logger.Log.Debug("frame",
			zap.Float64("fps", v.hud.FPS()),
			zap.Int("triangles", v.scene.Triangles),
			zap.Int("culled", stats.MeshesCulled),
			zap.Duration("render", time.Since(now)),
		)
	}
	return nil
}
