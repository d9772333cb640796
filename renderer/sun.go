package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// SunRenderer draws the directional light as a sun marker with a ray to the
// scene center.
type SunRenderer struct {
	distance float32
}

// NewSunRenderer creates a sun drawn distance units from the target.
func NewSunRenderer(distance float32) *SunRenderer {
	return &SunRenderer{distance: distance}
}

// Draw renders the sun for light travelling along dir toward target.
func (r *SunRenderer) Draw(dir, target mgl32.Vec3) {
	sun := target.Sub(dir.Normalize().Mul(r.distance))

	// Glow shells, largest first
	for i := 3; i >= 1; i-- {
		rl.DrawSphere(Vec3(sun), 1.2+0.6*float32(i), rl.Fade(rl.Yellow, 0.08*float32(4-i)))
	}
	rl.DrawSphere(Vec3(sun), 1.2, rl.Yellow)
	rl.DrawLine3D(Vec3(sun), Vec3(target), rl.Yellow)
}
