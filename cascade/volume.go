package cascade

import (
	"github.com/go-gl/mathgl/mgl32"
)

// VolumeKind tags the shape held by a BoundingVolume.
type VolumeKind int

const (
	VolumeSphere VolumeKind = iota
	VolumeBox
)

// BoundingVolume is the light-space bound of one slice, centred for an
// orthographic projection of width 2*HalfExtents.X and height 2*HalfExtents.Y.
type BoundingVolume struct {
	Kind   VolumeKind
	Center mgl32.Vec3

	// Radius bounds the whole volume. For a sphere it is the sphere radius.
	Radius float32

	// HalfExtents along light right/up/forward. A sphere uses Radius on every axis.
	HalfExtents mgl32.Vec3
}

// HalfWidth returns the half-width of the orthographic footprint.
func (v BoundingVolume) HalfWidth() float32 {
	return v.HalfExtents.X()
}

// Contains reports whether p lies inside the volume within eps. Box extents are
// measured in the light-local frame view.
func (v BoundingVolume) Contains(view LightView, p mgl32.Vec3, eps float32) bool {
	if v.Kind == VolumeSphere {
		return p.Sub(v.Center).Len() <= v.Radius+eps
	}
	local := view.Basis.ToLocal(v.Center, p)
	for i := 0; i < 3; i++ {
		if absf(local[i]) > v.HalfExtents[i]+eps {
			return false
		}
	}
	return true
}

func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
