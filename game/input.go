package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/shadowcascades/cascade"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Single step while paused
	if g.paused && rl.IsKeyPressed(rl.KeyPeriod) {
		g.Step()
	}

	if rl.IsKeyPressed(rl.KeyM) {
		g.toggleFitMode()
	}

	// Overlay toggles
	if rl.IsKeyPressed(rl.KeyOne) {
		g.cascadeRenderer.ShowSlices = !g.cascadeRenderer.ShowSlices
	}
	if rl.IsKeyPressed(rl.KeyTwo) {
		g.cascadeRenderer.ShowVolumes = !g.cascadeRenderer.ShowVolumes
	}
	if rl.IsKeyPressed(rl.KeyThree) {
		g.showCasters = !g.showCasters
	}

	g.handleCameraInput()
}

// toggleFitMode flips between sphere and box fitting.
func (g *Game) toggleFitMode() {
	next := cascade.FitBox
	if g.tracker.Settings().Mode == cascade.FitBox {
		next = cascade.FitSphere
	}
	if err := g.SetFitMode(next); err != nil {
		g.logger.Warn("fit mode change rejected", "error", err)
	}
}

// handleCameraInput orbits the overview camera with the mouse.
func (g *Game) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) || rl.GetMouseWheelMove() != 0 {
		rl.UpdateCamera(&g.viewer, rl.CameraThirdPerson)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.initViewer()
	}
}
