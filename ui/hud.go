package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shadowcascades/cascade"
	"github.com/pthm-cable/shadowcascades/telemetry"
)

// CascadeRow is one cascade line of the HUD.
type CascadeRow struct {
	Near, Far float32
	Radius    float32
	Texel     float32 // World size of one shadow texel
	Drift     float64 // Mean sub-texel drift per frame
	Casters   int
	Color     rl.Color
}

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Tick         int32
	FPS          float64
	Paused       bool
	Mode         cascade.FitMode
	Resolution   int
	Split        int
	ReversedZ    bool
	Cascades     []CascadeRow
	Uncovered    int
	Straddling   int
	ScreenWidth  int32
	ScreenHeight int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// driftLimit is the drift that fills a HUD bar, in texels per frame.
const driftLimit = 0.25

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	pad := r.Theme.Padding
	width := int32(420)
	height := int32(96 + len(data.Cascades)*(2*r.Theme.LineHeight+2))
	r.DrawPanel(pad, pad, width, height)

	x := 2 * pad
	y := 2 * pad

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %.0f | Fit: %s | Atlas: %d (%dx%d)", data.Tick, data.FPS, data.Mode, data.Resolution, data.Split, data.Split),
		x, y, 14, rl.LightGray,
	)
	y += 20

	for i, c := range data.Cascades {
		rl.DrawRectangle(x, y+2, 10, 10, c.Color)
		rl.DrawText(
			fmt.Sprintf("C%d %6.1f-%6.1f  r %6.1f  texel %.3f  casters %d", i, c.Near, c.Far, c.Radius, c.Texel, c.Casters),
			x+16, y, r.Theme.FontSize, r.Theme.ValueColor,
		)
		y += r.Theme.LineHeight
		y = r.DrawLoadBar(x+16, y, "drift", float32(c.Drift), driftLimit, width-3*pad)
	}

	y = r.DrawLabelValue(x, y, "Uncovered", fmt.Sprintf("%d", data.Uncovered))
	r.DrawLabelValue(x, y, "Straddling", fmt.Sprintf("%d", data.Straddling))

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	if data.ReversedZ {
		status += " | reversed Z"
	}
	rl.DrawText(status, data.ScreenWidth/2-40, pad, 18, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenWidth, screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase step timings.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Step Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s", stats.AvgTickDuration.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.Phases {
		avg := stats.PhaseAvg[name]
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 40 {
			color = rl.Red
		} else if pct > 20 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}

// AtlasPanel draws the atlas tiles as a minimap.
type AtlasPanel struct {
	renderer *Renderer
	size     int32
}

// NewAtlasPanel creates an atlas minimap size pixels wide.
func NewAtlasPanel(size int32) *AtlasPanel {
	return &AtlasPanel{renderer: NewRenderer(), size: size}
}

// Draw renders the viewports of u inside a square at (x, y).
func (a *AtlasPanel) Draw(x, y int32, u cascade.Uniforms, resolution int, colors []rl.Color) {
	a.renderer.DrawPanel(x, y, a.size, a.size)
	if resolution <= 0 {
		return
	}

	scale := float32(a.size) / float32(resolution)
	for i := 0; i < u.Count && i < len(colors); i++ {
		vp := u.Viewports[i]
		rect := rl.Rectangle{
			X:      float32(x) + float32(vp.X)*scale,
			Y:      float32(y) + float32(vp.Y)*scale,
			Width:  float32(vp.Width) * scale,
			Height: float32(vp.Height) * scale,
		}
		rl.DrawRectangleRec(rect, rl.Fade(colors[i], 0.35))
		rl.DrawRectangleLinesEx(rect, 1, colors[i])
		rl.DrawText(fmt.Sprintf("%d", i), int32(rect.X)+4, int32(rect.Y)+4, 14, rl.RayWhite)
	}
}
