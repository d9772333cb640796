// Package main searches for cascade split ratios that give every cascade the
// same shadow texel to screen pixel ratio, using Nelder-Mead from gonum.
//
// Usage: go run ./cmd/splittune -config config.yaml -output out/
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/config"
	"github.com/pthm-cable/shadowcascades/light"
)

// evalRow is one line of the evaluation log.
type evalRow struct {
	Eval      int     `csv:"eval"`
	Objective float64 `csv:"objective"`
	Ratio0    float64 `csv:"ratio_0"`
	Ratio1    float64 `csv:"ratio_1"`
	Ratio2    float64 `csv:"ratio_2"`
	Ratio3    float64 `csv:"ratio_3"`
}

func newEvalRow(n int, f float64, ratios []float64) evalRow {
	var r [4]float64
	copy(r[:], ratios)
	return evalRow{Eval: n, Objective: f, Ratio0: r[0], Ratio1: r[1], Ratio2: r[2], Ratio3: r[3]}
}

// orbitPoses samples the configured camera path. A static path yields the
// configured camera only.
func orbitPoses(cfg *config.Config, n int) []*camera.Camera {
	base := camera.New(
		config.Vec3(cfg.Camera.Position),
		config.Vec3(cfg.Camera.Target),
		mgl32.Vec3{0, 1, 0},
		cfg.Derived.FovY32,
		cfg.Derived.Aspect32,
		float32(cfg.Camera.Near),
		float32(cfg.Camera.Far),
	)
	if cfg.Path.Speed == 0 || n < 2 {
		return []*camera.Camera{base}
	}

	poses := make([]*camera.Camera, n)
	for i := range poses {
		c := *base
		angle := float32(2 * math.Pi * float64(i) / float64(n))
		c.Orbit(config.Vec3(cfg.Path.Center), float32(cfg.Path.Radius), float32(cfg.Path.Height), angle)
		poses[i] = &c
	}
	return poses
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	samples := flag.Int("samples", 8, "Camera poses sampled along the orbit")
	maxIters := flag.Int("max-iters", 0, "Maximum Nelder-Mead iterations (0 = use config)")
	outputDir := flag.String("output", "", "Output directory for the log and best config (empty = print only)")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	base, err := cfg.Settings()
	if err != nil {
		log.Fatalf("invalid cascade settings: %v", err)
	}

	var l *light.Directional
	if len(cfg.Light.Direction) == 3 {
		l = light.NewDirectional(config.Vec3(cfg.Light.Direction))
	} else {
		l = light.FromSun(float32(cfg.Light.Longitude), float32(cfg.Light.Latitude))
	}

	obj := &Objective{
		Poses:    orbitPoses(cfg, *samples),
		Light:    l,
		Settings: base,
		MinRatio: cfg.Tuning.MinRatio,
		ScreenH:  float64(cfg.Screen.Height),
	}

	start := make([]float64, base.Count)
	for i, r := range base.Fractions() {
		start[i] = float64(r)
	}
	initX := obj.Logits(start)
	startF := obj.Evaluate(initX)

	iters := *maxIters
	if iters == 0 {
		iters = cfg.Tuning.MaxIterations
	}

	var rows []evalRow
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			f := obj.Evaluate(x)
			rows = append(rows, newEvalRow(len(rows)+1, f, obj.Ratios(x)))
			return f
		},
	}

	fmt.Printf("Tuning %d cascades over %d poses (start objective %.6f)\n", base.Count, len(obj.Poses), startF)
	startTime := time.Now()

	result, err := optimize.Minimize(problem, initX, &optimize.Settings{MajorIterations: iters}, &optimize.NelderMead{})
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if result == nil {
		log.Fatal("no result")
	}

	best := obj.Ratios(result.X)
	aliasing, err := obj.Aliasing(best)
	if err != nil {
		log.Fatalf("evaluating best ratios: %v", err)
	}
	fmt.Printf("\nDone after %d evaluations in %s (status %v)\n",
		result.Stats.FuncEvaluations, time.Since(startTime).Round(time.Millisecond), result.Status)
	fmt.Printf("Objective: %.6f -> %.6f\n", startF, result.F)
	for i, r := range best {
		fmt.Printf("  cascade %d: ratio %.4f  log(texel/pixel) %.3f\n", i, r, aliasing[i])
	}

	ratios := make([]float64, len(best)-1)
	copy(ratios, best)
	cfg.Cascades.SplitRatios = ratios
	fmt.Println("\ncascades:")
	fmt.Print("  split_ratios: [")
	for i, r := range ratios {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Printf("%.4f", r)
	}
	fmt.Println("]")

	if *outputDir == "" {
		return
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	logFile, err := os.Create(filepath.Join(*outputDir, "splittune_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	if err := gocsv.MarshalFile(&rows, logFile); err != nil {
		log.Printf("failed to write log: %v", err)
	}

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("Best config saved to: %s\n", configOutPath)
	}
}
