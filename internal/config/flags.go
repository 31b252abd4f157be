package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile   = flag.String("log", "", "Write logs to this file")
	flagBooks     = flag.Int("books", -1, "Number of books on the shelf")
	flagSeed      = flag.Uint64("seed", 0, "Random seed for the book layout")
	flagFPS       = flag.Int("fps", 0, "Target FPS")
	flagSegments  = flag.Int("segments", 0, "Spine tessellation segments")
	flagTexture   = flag.String("texture", "", "Board texture image (PNG/JPG)")
	flagWireframe = flag.Bool("wireframe", false, "Start in wireframe mode")
	flagExport    = flag.String("export", "", "Write the scene to this .glb or .gltf file and exit")
	flagSnapshot  = flag.String("snapshot", "", "Render one frame to this PNG file and exit")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via -config.
func ConfigPath() string {
	return *flagConfig
}

// ExportPath returns the -export destination, empty when not exporting.
func ExportPath() string {
	return *flagExport
}

// SnapshotPath returns the -snapshot destination, empty when not set.
func SnapshotPath() string {
	return *flagSnapshot
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagBooks >= 0 {
		cfg.Shelf.Books = *flagBooks
	}
	if *flagSeed != 0 {
		cfg.Shelf.Seed = *flagSeed
	}
	if *flagFPS > 0 {
		cfg.Render.FPS = *flagFPS
	}
	if *flagSegments > 0 {
		cfg.Render.Segments = *flagSegments
	}
	if *flagTexture != "" {
		cfg.Render.Texture = *flagTexture
	}
	if *flagWireframe {
		cfg.Render.Wireframe = true
	}
}
