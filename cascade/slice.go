package cascade

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/camera"
)

// Slice is one depth range of the camera frustum.
// Corner order matches camera.CornersAt: [0] and [2] are diagonal.
type Slice struct {
	Index       int
	Near, Far   float32
	NearCorners [4]mgl32.Vec3
	FarCorners  [4]mgl32.Vec3
}

// Corners returns the four near corners followed by the four far corners.
func (s Slice) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	copy(out[:4], s.NearCorners[:])
	copy(out[4:], s.FarCorners[:])
	return out
}

// Splits returns len(ratios)+1 depth boundaries starting at near. Each boundary is
// near plus the ratio prefix sum times the depth range; the last is exactly far.
func Splits(near, far float32, ratios []float32) []float32 {
	out := make([]float32, len(ratios)+1)
	out[0] = near
	depth := far - near
	var prefix float32
	for i, r := range ratios {
		prefix += r
		out[i+1] = near + prefix*depth
	}
	out[len(ratios)] = far
	return out
}

// SliceFrustum returns the world-space corners of the camera frustum between
// the near and far depths.
func SliceFrustum(cam *camera.Camera, index int, near, far float32) Slice {
	return Slice{
		Index:       index,
		Near:        near,
		Far:         far,
		NearCorners: cam.CornersAt(near),
		FarCorners:  cam.CornersAt(far),
	}
}
