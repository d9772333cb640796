package game

import (
	"fmt"
	"log/slog"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/cascade"
	"github.com/pthm-cable/shadowcascades/components"
	"github.com/pthm-cable/shadowcascades/config"
	"github.com/pthm-cable/shadowcascades/light"
	"github.com/pthm-cable/shadowcascades/renderer"
	"github.com/pthm-cable/shadowcascades/systems"
	"github.com/pthm-cable/shadowcascades/telemetry"
	"github.com/pthm-cable/shadowcascades/ui"
)

// casterCeiling is the height casters bounce back from.
const casterCeiling = 12.0

// Options configures a new game.
type Options struct {
	OutputDir string       // CSV trace directory (empty = no output)
	Headless  bool         // Skip all raylib calls
	Logger    *slog.Logger // nil = slog.Default()
}

// Game holds the demo state: a camera flying a scripted orbit over a field of
// shadow casters, with cascades recomputed every step.
type Game struct {
	cfg    *config.Config
	logger *slog.Logger

	world *ecs.World

	// Caster lookups for drawing
	casterFilter *ecs.Filter3[components.Position, components.Caster, components.Cascade]

	// Systems
	motion   *systems.Motion
	assigner *systems.CascadeAssigner

	// Shadow inputs and state
	camera  *camera.Camera
	light   *light.Directional
	tracker *cascade.Tracker
	frame   cascade.Frame

	pathCenter mgl32.Vec3
	pathAngle  float32
	lightLon   float32
	lightLat   float32
	sunDriven  bool

	// Telemetry
	perf     *telemetry.PerfCollector
	shimmer  *telemetry.ShimmerTracker
	output   *telemetry.OutputManager
	probe    mgl32.Vec3
	drift    []float64
	coverage systems.Coverage

	// State
	tick     int32
	time     float64
	updated  bool
	paused   bool
	headless bool

	// Viewer
	viewer          rl.Camera3D
	showCasters     bool
	cascadeRenderer *renderer.CascadeRenderer
	sunRenderer     *renderer.SunRenderer
	hud             *ui.HUD
	perfPanel       *ui.PerfPanel
	atlasPanel      *ui.AtlasPanel
}

// NewGame creates a game from cfg with default options.
func NewGame(cfg *config.Config) (*Game, error) {
	return NewGameWithOptions(cfg, Options{})
}

// NewGameWithOptions creates a game from cfg.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	cam := camera.New(
		config.Vec3(cfg.Camera.Position),
		config.Vec3(cfg.Camera.Target),
		mgl32.Vec3{0, 1, 0},
		cfg.Derived.FovY32,
		cfg.Derived.Aspect32,
		float32(cfg.Camera.Near),
		float32(cfg.Camera.Far),
	)
	if err := cam.Validate(); err != nil {
		return nil, fmt.Errorf("camera: %w", err)
	}

	g := &Game{
		cfg:         cfg,
		logger:      logger,
		world:       ecs.NewWorld(),
		camera:      cam,
		pathCenter:  config.Vec3(cfg.Path.Center),
		lightLon:    float32(cfg.Light.Longitude),
		lightLat:    float32(cfg.Light.Latitude),
		perf:        telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		shimmer:     telemetry.NewShimmerTracker(cfg.Telemetry.ShimmerWindow),
		headless:    opts.Headless,
		showCasters: true,
	}
	g.probe = g.pathCenter

	if len(cfg.Light.Direction) == 3 {
		g.light = light.NewDirectional(config.Vec3(cfg.Light.Direction))
	} else {
		g.sunDriven = true
		g.light = light.FromSun(g.lightLon, g.lightLat)
	}

	g.tracker, err = cascade.NewTracker(settings, logger)
	if err != nil {
		return nil, err
	}
	g.tracker.SetTimer(g.perf)

	g.casterFilter = ecs.NewFilter3[components.Position, components.Caster, components.Cascade](g.world)
	g.motion = systems.NewMotion(g.world, casterCeiling)
	g.assigner = systems.NewCascadeAssigner(g.world)
	g.spawnCasters()

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		logger.Warn("failed to write config snapshot", "error", err)
	}

	if !g.headless {
		g.initViewer()
	}

	logger.Info("game initialized",
		"cascades", settings.Count,
		"mode", settings.Mode.String(),
		"resolution", settings.Resolution,
		"casters", cfg.Scene.Casters,
		"output_dir", g.output.Dir(),
	)
	return g, nil
}

// spawnCasters fills the world with the configured caster field.
func (g *Game) spawnCasters() {
	s := g.cfg.Scene
	defs := systems.ScatterCasters(s.Casters,
		float32(s.Spread), float32(s.MinSize), float32(s.MaxSize), s.Seed)
	systems.SpawnCasters(g.world, defs)
}

// Update runs one step unless paused. Graphics mode only.
func (g *Game) Update() {
	g.handleInput()
	g.perf.RecordFrame()
	if g.paused {
		return
	}
	g.Step()
}

// UpdateHeadless runs one step without touching raylib.
func (g *Game) UpdateHeadless() {
	g.Step()
}

// Step advances the demo by one fixed time step.
func (g *Game) Step() {
	dt := g.cfg.Derived.DT32
	g.perf.StartTick()

	// Phase 1: camera path and light
	g.perf.StartPhase(telemetry.PhaseCamera)
	g.advanceCamera(dt)
	g.advanceLight(dt)

	// Phase 2: cascades (the tracker reports slice, fit, stabilize and pack)
	g.frame, g.updated = g.tracker.Update(g.camera, g.light)

	// Phase 3: casters
	g.perf.StartPhase(telemetry.PhaseCasters)
	g.motion.Update(dt)
	g.coverage = g.assigner.Update(g.frame.Uniforms)

	// Phase 4: telemetry
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.drift = g.shimmer.Observe(g.frame, g.probe, g.tracker.Settings().Resolution)
	g.recordFrame()

	g.perf.EndTick()

	g.tick++
	g.time += float64(dt)

	if n := g.cfg.Telemetry.LogInterval; n > 0 && int(g.tick)%n == 0 {
		g.logSummary()
		if err := g.output.WritePerf(g.perf.Stats(), int(g.tick)); err != nil {
			g.logger.Warn("perf output failed", "error", err)
		}
	}
}

// advanceCamera moves the camera along its orbit. A zero speed keeps the
// configured pose.
func (g *Game) advanceCamera(dt float32) {
	p := g.cfg.Path
	if p.Speed == 0 {
		return
	}
	g.pathAngle = float32(math.Mod(float64(g.pathAngle)+p.Speed*float64(dt), 2*math.Pi))
	g.camera.Orbit(g.pathCenter, float32(p.Radius), float32(p.Height), g.pathAngle)
}

// advanceLight spins a sun-driven light around +Y.
func (g *Game) advanceLight(dt float32) {
	spin := g.cfg.Light.Spin
	if !g.sunDriven || spin == 0 {
		return
	}
	g.lightLon = float32(math.Mod(float64(g.lightLon)+spin*float64(dt), 360))
	g.light = light.FromSun(g.lightLon, g.lightLat)
}

// recordFrame appends this step to the CSV trace.
func (g *Game) recordFrame() {
	if g.output == nil {
		return
	}
	s := g.tracker.Settings()
	frame := int(g.tick)

	records := telemetry.CascadeRecords(frame, g.frame, s.SubResolution(),
		g.drift, g.coverage.Counts(len(g.frame.Results)))
	if err := g.output.WriteCascades(records); err != nil {
		g.logger.Warn("cascade output failed", "error", err)
	}

	rec := telemetry.FrameRecord{
		Frame:     frame,
		Time:      g.time,
		Updated:   g.updated,
		CameraX:   g.camera.Position.X(),
		CameraY:   g.camera.Position.Y(),
		CameraZ:   g.camera.Position.Z(),
		Mode:      s.Mode.String(),
		Cascades:  len(g.frame.Results),
		Uncovered: g.coverage.Uncovered,
	}
	for i, r := range g.frame.Results {
		if r.Fit.Degenerate {
			rec.Degenerate++
		}
		if i < len(g.drift) {
			rec.MaxDrift = math.Max(rec.MaxDrift, g.drift[i])
		}
	}
	if err := g.output.WriteFrame(rec); err != nil {
		g.logger.Warn("frame output failed", "error", err)
	}
}

// SetFitMode switches the bounding volume strategy and restarts the history.
func (g *Game) SetFitMode(mode cascade.FitMode) error {
	s := g.tracker.Settings()
	s.Mode = mode
	if err := g.tracker.SetSettings(s); err != nil {
		return err
	}
	g.shimmer.Reset()
	g.logger.Info("fit mode changed", "mode", mode.String())
	return nil
}

// Frame returns the most recent cascade frame.
func (g *Game) Frame() cascade.Frame {
	return g.frame
}

// Coverage returns the latest caster assignment counts.
func (g *Game) Coverage() systems.Coverage {
	return g.coverage
}

// Shimmer returns the shimmer statistics for cascade i.
func (g *Game) Shimmer(i int) telemetry.ShimmerStats {
	return g.shimmer.Stats(i)
}

// Camera returns the camera being split into cascades.
func (g *Game) Camera() *camera.Camera {
	return g.camera
}

// Tick returns the number of steps run.
func (g *Game) Tick() int32 {
	return g.tick
}

// Unload flushes and closes the trace files.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		g.logger.Warn("closing output failed", "error", err)
	}
}
