// Atlas preview tool - interactive view of cascade splits and the shadow atlas
// layout with sliders.
//
// Usage: go run ./cmd/atlaspreview
package main

import (
	"fmt"
	"math"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/cascade"
	"github.com/pthm-cable/shadowcascades/light"
	"github.com/pthm-cable/shadowcascades/renderer"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewSize  = 512
	panelWidth   = windowWidth - previewSize - 30
)

// PreviewParams holds the editable cascade parameters.
type PreviewParams struct {
	Count     int
	Weights   [cascade.MaxCascades]float32 // Unnormalised share per cascade
	ResLog2   int
	Near      float32
	Far       float32
	FovDeg    float32
	SunLat    float32
	Box       bool
	ReversedZ bool
}

func defaultParams() PreviewParams {
	return PreviewParams{
		Count:   4,
		Weights: [cascade.MaxCascades]float32{0.067, 0.133, 0.267, 0.533},
		ResLog2: 11,
		Near:    0.3,
		Far:     100,
		FovDeg:  60,
		SunLat:  50,
	}
}

// settings converts the params into cascade settings with normalised ratios.
func (p PreviewParams) settings() cascade.Settings {
	var sum float32
	for i := 0; i < p.Count; i++ {
		sum += p.Weights[i]
	}
	ratios := make([]float32, p.Count-1)
	for i := range ratios {
		ratios[i] = p.Weights[i] / sum
	}

	mode := cascade.FitSphere
	if p.Box {
		mode = cascade.FitBox
	}
	return cascade.Settings{
		Count:      p.Count,
		Ratios:     ratios,
		Resolution: 1 << p.ResLog2,
		Mode:       mode,
		ReversedZ:  p.ReversedZ,
	}
}

// compute runs the cascade pipeline for a fixed camera looking down the Z axis.
func (p PreviewParams) compute() (cascade.Settings, cascade.Frame, error) {
	s := p.settings()
	cam := camera.New(
		mgl32.Vec3{0, 8, -30},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0},
		mgl32.DegToRad(p.FovDeg),
		float32(windowWidth)/float32(windowHeight),
		p.Near,
		p.Far,
	)
	l := light.FromSun(30, p.SunLat)
	f, err := cascade.Compute(cam, l, s, nil)
	return s, f, err
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Cascade Atlas Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	params := defaultParams()
	s, frame, err := params.compute()
	needsRecompute := false

	for !rl.WindowShouldClose() {
		if needsRecompute {
			s, frame, err = params.compute()
			needsRecompute = false
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Atlas
		rl.DrawRectangle(10, 10, previewSize, previewSize, rl.NewColor(40, 40, 48, 255))
		if err == nil {
			scale := float32(previewSize) / float32(s.Resolution)
			for i := 0; i < frame.Uniforms.Count; i++ {
				vp := frame.Uniforms.Viewports[i]
				rect := rl.Rectangle{
					X:      10 + float32(vp.X)*scale,
					Y:      10 + float32(vp.Y)*scale,
					Width:  float32(vp.Width) * scale,
					Height: float32(vp.Height) * scale,
				}
				rl.DrawRectangleRec(rect, rl.Fade(renderer.CascadeColors[i], 0.4))
				rl.DrawRectangleLinesEx(rect, 2, renderer.CascadeColors[i])
				rl.DrawText(fmt.Sprintf("C%d  %dx%d", i, vp.Width, vp.Height), int32(rect.X)+8, int32(rect.Y)+8, 16, rl.RayWhite)
			}
		}
		rl.DrawRectangleLines(10, 10, previewSize, previewSize, rl.DarkGray)

		// Split bar: depth range drawn to scale
		statsY := int32(previewSize + 25)
		if err != nil {
			rl.DrawText(err.Error(), 15, statsY, 16, rl.Red)
		} else {
			barW := float32(previewSize)
			for _, r := range frame.Results {
				x0 := 10 + barW*(r.Slice.Near-params.Near)/(params.Far-params.Near)
				x1 := 10 + barW*(r.Slice.Far-params.Near)/(params.Far-params.Near)
				rl.DrawRectangleRec(rl.Rectangle{X: x0, Y: float32(statsY), Width: x1 - x0, Height: 16}, renderer.CascadeColors[r.Index])
			}
			statsY += 26
			for _, r := range frame.Results {
				texel := 2 * r.Volume.HalfWidth() / float32(s.SubResolution())
				rl.DrawText(fmt.Sprintf("C%d  %7.2f .. %7.2f   r=%7.2f  texel=%.4f  bias=%.4f",
					r.Index, r.Slice.Near, r.Slice.Far, r.Volume.Radius, texel, r.Bias),
					15, statsY, 16, rl.DarkGray)
				statsY += 20
			}
		}

		// Control panel
		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Cascade Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, minText, maxText, valueText string, value, minV, maxV float32) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 80), Height: 20},
				minText, maxText,
				value, minV, maxV,
			)
			rl.DrawText(valueText, int32(panelX+float32(panelWidth-70)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			return v
		}

		if v := int(slider("Cascades", "1", "4", fmt.Sprintf("%d", params.Count),
			float32(params.Count), 1, cascade.MaxCascades)); v != params.Count {
			params.Count = v
			needsRecompute = true
		}
		for i := 0; i < params.Count; i++ {
			label := fmt.Sprintf("Cascade %d share", i)
			if v := slider(label, "0.01", "1", fmt.Sprintf("%.3f", params.Weights[i]),
				params.Weights[i], 0.01, 1); v != params.Weights[i] {
				params.Weights[i] = v
				needsRecompute = true
			}
		}
		if v := int(slider("Atlas resolution (log2)", "9", "13", fmt.Sprintf("%d", 1<<params.ResLog2),
			float32(params.ResLog2), 9, 13)); v != params.ResLog2 {
			params.ResLog2 = v
			needsRecompute = true
		}
		if v := slider("Far plane", "10", "500", fmt.Sprintf("%.0f", params.Far),
			params.Far, 10, 500); v != params.Far {
			params.Far = v
			needsRecompute = true
		}
		if v := slider("Field of view", "20", "120", fmt.Sprintf("%.0f", params.FovDeg),
			params.FovDeg, 20, 120); v != params.FovDeg {
			params.FovDeg = v
			needsRecompute = true
		}
		if v := slider("Sun latitude", "5", "90", fmt.Sprintf("%.0f", params.SunLat),
			params.SunLat, 5, 90); v != params.SunLat {
			params.SunLat = v
			needsRecompute = true
		}

		// Buttons
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(params.Box, "Fit: Box", "Fit: Sphere")) {
			params.Box = !params.Box
			needsRecompute = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(params.ReversedZ, "Reversed Z", "Forward Z")) {
			params.ReversedZ = !params.ReversedZ
			needsRecompute = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 260, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			needsRecompute = true
		}
		panelY += 45

		// Output YAML
		yaml := configYAML(s)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(yaml, "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(yaml)
		}

		rl.EndDrawing()
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}

// configYAML renders the cascades section for the main config file.
func configYAML(s cascade.Settings) string {
	ratios := make([]string, len(s.Ratios))
	for i, r := range s.Ratios {
		ratios[i] = fmt.Sprintf("%.3f", math.Round(float64(r)*1000)/1000)
	}
	return fmt.Sprintf(`cascades:
  count: %d
  split_ratios: [%s]
  resolution: %d
  fit_mode: %s
  reversed_z: %v`,
		s.Count, strings.Join(ratios, ", "), s.Resolution, s.Mode, s.ReversedZ)
}
