package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shadowcascades/cascade"
	"github.com/pthm-cable/shadowcascades/config"
	"github.com/pthm-cable/shadowcascades/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV traces and config snapshot")
	maxFrames := flag.Int("frames", 0, "Stop after N frames (0 = unlimited, headless default 3600)")
	fitMode := flag.String("fit-mode", "", "Override cascades.fit_mode (sphere | box)")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := game.Options{
		OutputDir: *outputDir,
		Headless:  *headless,
		Logger:    logger,
	}

	if *headless {
		// Headless mode - pure CPU trace, no raylib needed
		g := newGame(cfg, opts, *fitMode)
		defer g.Unload()

		frames := *maxFrames
		if frames == 0 {
			frames = 3600
		}
		slog.Info("starting headless run", "frames", frames, "output_dir", *outputDir)

		for int(g.Tick()) < frames {
			g.UpdateHeadless()
		}
		slog.Info("max frames reached", "tick", g.Tick())
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Cascaded Shadow Maps")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := newGame(cfg, opts, *fitMode)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxFrames > 0 && int(g.Tick()) >= *maxFrames {
			break
		}
	}
}

// newGame builds the game and applies the fit mode override. Exits on error.
func newGame(cfg *config.Config, opts game.Options, fitMode string) *game.Game {
	g, err := game.NewGameWithOptions(cfg, opts)
	if err != nil {
		slog.Error("failed to create game", "error", err)
		os.Exit(1)
	}
	if fitMode == "" {
		return g
	}

	mode, err := cascade.ParseFitMode(fitMode)
	if err == nil {
		err = g.SetFitMode(mode)
	}
	if err != nil {
		slog.Error("invalid fit mode", "fit_mode", fitMode, "error", err)
		g.Unload()
		os.Exit(1)
	}
	return g
}
