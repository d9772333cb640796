package cascade

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SnapResidual returns the clip-space offset that moves the projected world origin
// onto the nearest texel corner of a texels-wide shadow map. Depth is left alone.
func SnapResidual(view, proj mgl32.Mat4, texels int) mgl32.Vec3 {
	origin := proj.Mul4(view).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	half := float32(texels) / 2

	var off mgl32.Vec3
	for i := 0; i < 2; i++ {
		scaled := origin[i] * half
		off[i] = (float32(math.Round(float64(scaled))) - scaled) / half
	}
	return off
}

// Stabilize translates proj so a fixed world point always lands on the same texel.
// Applying it twice is the same as applying it once.
func Stabilize(view, proj mgl32.Mat4, texels int) mgl32.Mat4 {
	off := SnapResidual(view, proj, texels)
	return mgl32.Translate3D(off.X(), off.Y(), 0).Mul4(proj)
}
