// bookshelf - Terminal Bookshelf
// Browse a shelf of curved-spine books rendered in your terminal.
//
// Controls:
//
//	Left/Right  - Select book
//	Enter       - Pull the selected book out, or push it back in
//	O / C       - Open / close the selected book
//	S           - Stop the selected book where it is
//	Space       - Clear the shelf (books fall to the floor)
//	P           - Put a fallen book back if it lies against the shelf
//	Mouse drag  - Orbit the camera (A/D also orbit)
//	Scroll, +/- - Zoom in/out
//	X           - Toggle wireframe mode
//	R           - Reset view (shift+R restocks the shelf)
//	Ctrl+S      - Save the current view settings to the user config
//	Esc         - Quit
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/bookshelf/internal/config"
	"github.com/taigrr/bookshelf/internal/logger"
	"github.com/taigrr/bookshelf/pkg/models"
)

const (
	snapshotWidth  = 320
	snapshotHeight = 180
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "bookshelf - Terminal Bookshelf\n\n")
		fmt.Fprintf(os.Stderr, "Usage: bookshelf [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Left/Right  - Select book\n")
		fmt.Fprintf(os.Stderr, "  Enter       - Pull out / push in\n")
		fmt.Fprintf(os.Stderr, "  O / C       - Open / close book\n")
		fmt.Fprintf(os.Stderr, "  Space       - Clear the shelf\n")
		fmt.Fprintf(os.Stderr, "  P           - Put a fallen book back\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Orbit camera\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	config.ParseFlags()

	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	exportPath, snapshotPath := config.ExportPath(), config.SnapshotPath()
	interactive := exportPath == "" && snapshotPath == ""

	// The terminal belongs to the renderer in interactive mode, so only the
	// log file (if any) receives entries.
	opts := logger.Options{Level: cfg.Logging.Level}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if !interactive {
		opts.Console = os.Stderr
	}
	if err := logger.InitWithOptions(opts); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	switch {
	case exportPath != "":
		return export(cfg, exportPath)
	case snapshotPath != "":
		return snapshot(cfg, snapshotPath)
	default:
		return runTUI(ctx, cfg)
	}
}

// export writes the assembled scene as glTF. The extension picks the
// binary or JSON form.
func export(cfg *config.Config, path string) error {
	scene, err := NewScene(cfg, 0, 0)
	if err != nil {
		return err
	}
	meshes := scene.Shelf.Meshes()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".glb":
		err = models.ExportGLB(path, meshes)
	case ".gltf":
		err = models.ExportGLTF(path, meshes)
	default:
		return fmt.Errorf("unsupported export format: %s (use .glb or .gltf)", ext)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}

	logger.Log.Info("scene exported", zap.String("path", path), zap.Int("meshes", len(meshes)))
	return nil
}

// snapshot renders a single frame to a PNG file.
func snapshot(cfg *config.Config, path string) error {
	scene, err := NewScene(cfg, snapshotWidth, snapshotHeight)
	if err != nil {
		return err
	}
	if err := scene.Render().SavePNG(path); err != nil {
		return err
	}

	stats := scene.Stats()
	logger.Log.Info("snapshot saved",
		zap.String("path", path),
		zap.Int("triangles", scene.Triangles),
		zap.Int("culled", stats.MeshesCulled),
	)
	return nil
}
