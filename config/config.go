// Package config provides configuration loading and access for the cascade demo.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/shadowcascades/cascade"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Camera    CameraConfig    `yaml:"camera"`
	Path      PathConfig      `yaml:"path"`
	Light     LightConfig     `yaml:"light"`
	Cascades  CascadesConfig  `yaml:"cascades"`
	Scene     SceneConfig     `yaml:"scene"`
	Physics   PhysicsConfig   `yaml:"physics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Tuning    TuningConfig    `yaml:"tuning"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// CameraConfig holds the perspective camera that gets split into cascades.
type CameraConfig struct {
	Position []float64 `yaml:"position"`
	Target   []float64 `yaml:"target"`
	FovDeg   float64   `yaml:"fov_deg"` // Vertical field of view
	Near     float64   `yaml:"near"`
	Far      float64   `yaml:"far"`
	Aspect   float64   `yaml:"aspect"` // 0 = screen width / height
}

// PathConfig holds the scripted orbit the camera follows in the demo.
type PathConfig struct {
	Center []float64 `yaml:"center"`
	Radius float64   `yaml:"radius"`
	Height float64   `yaml:"height"`
	Speed  float64   `yaml:"speed"` // Radians per second (0 = static camera)
}

// LightConfig holds the directional light. A three-element direction wins over
// the sun angles.
type LightConfig struct {
	Direction []float64 `yaml:"direction"`
	Longitude float64   `yaml:"longitude"` // Degrees around +Y
	Latitude  float64   `yaml:"latitude"`  // Degrees above the horizon
	Spin      float64   `yaml:"spin"`      // Longitude change in degrees per second
}

// CascadesConfig holds the cascade split and atlas parameters.
type CascadesConfig struct {
	Count       int       `yaml:"count"`
	SplitRatios []float64 `yaml:"split_ratios"` // count-1 values (remainder implied) or count values
	Resolution  int       `yaml:"resolution"`   // Atlas edge in texels
	FitMode     string    `yaml:"fit_mode"`     // sphere | box
	AtlasSplit  int       `yaml:"atlas_split"`  // Tiles per edge (0 = derive from count)
	ReversedZ   bool      `yaml:"reversed_z"`
}

// SceneConfig holds the shadow caster boxes scattered around the demo.
type SceneConfig struct {
	Casters int     `yaml:"casters"`
	Spread  float64 `yaml:"spread"` // Half-width of the square casters are placed in
	MinSize float64 `yaml:"min_size"`
	MaxSize float64 `yaml:"max_size"`
	Seed    int64   `yaml:"seed"`
}

// PhysicsConfig holds the fixed time step.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int `yaml:"perf_collector_window"`
	ShimmerWindow       int `yaml:"shimmer_window"` // Frames of motion history per cascade
	LogInterval         int `yaml:"log_interval"`   // Frames between summary log lines
}

// TuningConfig holds the split ratio search parameters.
type TuningConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	MinRatio      float64 `yaml:"min_ratio"` // Lower bound per cascade
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32      float32         // Physics.DT as float32
	ScreenW32 float32         // Screen.Width as float32
	ScreenH32 float32         // Screen.Height as float32
	Aspect32  float32         // Effective camera aspect
	FovY32    float32         // Camera.FovDeg in radians
	FitMode   cascade.FitMode // Parsed Cascades.FitMode
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.computeDerived(); err != nil {
		return nil, err
	}
	if _, err := cfg.Settings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() error {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.FovY32 = float32(c.Camera.FovDeg * math.Pi / 180)

	aspect := c.Camera.Aspect
	if aspect == 0 && c.Screen.Height > 0 {
		aspect = float64(c.Screen.Width) / float64(c.Screen.Height)
	}
	c.Derived.Aspect32 = float32(aspect)

	mode, err := cascade.ParseFitMode(c.Cascades.FitMode)
	if err != nil {
		return fmt.Errorf("cascades.fit_mode: %w", err)
	}
	c.Derived.FitMode = mode
	return nil
}

// Settings converts the cascades section and validates it.
func (c *Config) Settings() (cascade.Settings, error) {
	ratios := make([]float32, len(c.Cascades.SplitRatios))
	for i, r := range c.Cascades.SplitRatios {
		ratios[i] = float32(r)
	}
	s := cascade.Settings{
		Count:      c.Cascades.Count,
		Ratios:     ratios,
		Resolution: c.Cascades.Resolution,
		Mode:       c.Derived.FitMode,
		AtlasSplit: c.Cascades.AtlasSplit,
		ReversedZ:  c.Cascades.ReversedZ,
	}
	if err := s.Validate(); err != nil {
		return cascade.Settings{}, fmt.Errorf("cascades: %w", err)
	}
	return s, nil
}

// Vec3 converts a YAML triple into a vector. Missing components are zero.
func Vec3(v []float64) mgl32.Vec3 {
	var out mgl32.Vec3
	for i := 0; i < len(v) && i < 3; i++ {
		out[i] = float32(v[i])
	}
	return out
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
