package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shadowcascades/renderer"
	"github.com/pthm-cable/shadowcascades/ui"
)

// initViewer sets up the orbiting overview camera.
func (g *Game) initViewer() {
	g.viewer = rl.Camera3D{
		Position:   rl.NewVector3(90, 110, 90),
		Target:     renderer.Vec3(g.pathCenter),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
	if g.hud == nil {
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(0, 0)
		g.atlasPanel = ui.NewAtlasPanel(192)
		g.cascadeRenderer = renderer.NewCascadeRenderer()
		g.sunRenderer = renderer.NewSunRenderer(60)
	}
}

// Draw renders the scene from the overview camera plus the HUD.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(24, 26, 32, 255))

	rl.BeginMode3D(g.viewer)
	rl.DrawGrid(40, 5)
	if g.showCasters {
		g.drawCasters()
	}
	g.cascadeRenderer.Draw(g.camera, g.frame)
	g.sunRenderer.Draw(g.light.Direction(), g.pathCenter)
	rl.EndMode3D()

	g.drawHUD()

	rl.EndDrawing()
}

// drawCasters draws each caster box in the color of its cascade.
func (g *Game) drawCasters() {
	query := g.casterFilter.Query()
	for query.Next() {
		pos, c, tag := query.Get()
		center := rl.NewVector3(pos.X, pos.Y, pos.Z)
		size := rl.NewVector3(2*c.HalfX, 2*c.HalfY, 2*c.HalfZ)

		col := rl.NewColor(c.Shade, c.Shade, c.Shade, 255)
		if tag.Index >= 0 {
			col = rl.ColorLerp(col, renderer.CascadeColors[tag.Index], 0.6)
		}
		rl.DrawCubeV(center, size, col)
		if tag.Straddle {
			rl.DrawCubeWiresV(center, size, rl.White)
		}
	}
}

// drawHUD draws the per-cascade readout, perf panel and atlas minimap.
func (g *Game) drawHUD() {
	s := g.tracker.Settings()
	stats := g.perf.Stats()
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())

	data := ui.HUDData{
		Title:        "Cascaded Shadow Maps",
		Tick:         g.tick,
		FPS:          stats.FPS,
		Paused:       g.paused,
		Mode:         s.Mode,
		Resolution:   s.Resolution,
		Split:        s.Split(),
		ReversedZ:    s.ReversedZ,
		Uncovered:    g.coverage.Uncovered,
		Straddling:   g.coverage.Straddling,
		ScreenWidth:  screenW,
		ScreenHeight: screenH,
	}
	for i, r := range g.frame.Results {
		data.Cascades = append(data.Cascades, ui.CascadeRow{
			Near:    r.Slice.Near,
			Far:     r.Slice.Far,
			Radius:  r.Volume.Radius,
			Texel:   2 * r.Volume.HalfWidth() / float32(s.SubResolution()),
			Drift:   g.shimmer.Stats(i).MeanDrift,
			Casters: g.coverage.PerCascade[i],
			Color:   renderer.CascadeColors[i],
		})
	}
	g.hud.Draw(data)
	g.hud.DrawControls(screenW, screenH,
		"[Space] pause  [.] step  [M] fit mode  [1] slices  [2] volumes  [3] casters  [RMB] orbit  [Home] reset view")

	const atlasSize = 192
	g.atlasPanel.Draw(screenW-atlasSize-10, 10, g.frame.Uniforms, s.Resolution, renderer.CascadeColors[:])
	g.perfPanel.SetPosition(screenW-atlasSize-10, atlasSize+24)
	g.perfPanel.Draw(stats)
}
