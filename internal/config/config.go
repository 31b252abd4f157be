// Package config handles bookshelf configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all bookshelf settings.
type Config struct {
	Shelf     ShelfConfig     `yaml:"shelf"`
	Render    RenderConfig    `yaml:"render"`
	Animation AnimationConfig `yaml:"animation"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ShelfConfig holds the scene layout.
type ShelfConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
	Books  int     `yaml:"books"`
	Seed   uint64  `yaml:"seed"` // Seeds book sizes, colors, and falls
}

// RenderConfig holds rasterizer and camera settings.
type RenderConfig struct {
	FPS            int     `yaml:"fps"`
	Segments       int     `yaml:"segments"` // Spine tessellation along both axes
	FOV            float64 `yaml:"fov"`      // Vertical field of view in degrees
	CameraDistance float64 `yaml:"camera_distance"`
	Texture        string  `yaml:"texture"`      // Optional board texture image
	TextureSize    int     `yaml:"texture_size"` // Loaded textures are scaled to fit
	Wireframe      bool    `yaml:"wireframe"`
}

// AnimationConfig holds camera motion settings.
type AnimationConfig struct {
	OrbitFrequency  float64 `yaml:"orbit_frequency"`
	OrbitDamping    float64 `yaml:"orbit_damping"`
	DragSensitivity float64 `yaml:"drag_sensitivity"` // Radians per cell of mouse drag
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Shelf: ShelfConfig{
			Width:  120,
			Height: 15,
			Depth:  20,
			Books:  12,
			Seed:   1,
		},
		Render: RenderConfig{
			FPS:            30,
			Segments:       20,
			FOV:            45,
			CameraDistance: 200,
			TextureSize:    64,
		},
		Animation: AnimationConfig{
			OrbitFrequency:  4,
			OrbitDamping:    1,
			DragSensitivity: 0.02,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case !(c.Shelf.Width > 0 && c.Shelf.Height > 0 && c.Shelf.Depth > 0):
		return fmt.Errorf("%w: shelf size %gx%gx%g", ErrInvalidConfig, c.Shelf.Width, c.Shelf.Height, c.Shelf.Depth)
	case c.Shelf.Books < 0:
		return fmt.Errorf("%w: books %d", ErrInvalidConfig, c.Shelf.Books)
	case c.Render.FPS < 1 || c.Render.FPS > 240:
		return fmt.Errorf("%w: fps %d not in [1, 240]", ErrInvalidConfig, c.Render.FPS)
	case c.Render.Segments < 1:
		return fmt.Errorf("%w: segments %d", ErrInvalidConfig, c.Render.Segments)
	case !(c.Render.FOV > 0 && c.Render.FOV < 180):
		return fmt.Errorf("%w: fov %g not in (0, 180)", ErrInvalidConfig, c.Render.FOV)
	case c.Render.TextureSize < 1:
		return fmt.Errorf("%w: texture size %d", ErrInvalidConfig, c.Render.TextureSize)
	case !(c.Render.CameraDistance > 0):
		return fmt.Errorf("%w: camera distance %g", ErrInvalidConfig, c.Render.CameraDistance)
	case c.Animation.OrbitFrequency <= 0 || c.Animation.OrbitDamping < 0:
		return fmt.Errorf("%w: orbit spring %g/%g", ErrInvalidConfig, c.Animation.OrbitFrequency, c.Animation.OrbitDamping)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}
