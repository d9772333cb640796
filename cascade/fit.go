package cascade

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/geom"
	"github.com/pthm-cable/shadowcascades/light"
)

// alignedCos is the minimum forward/up agreement for a previous light view to be
// reused as the measuring frame of a box fit.
const alignedCos = 0.99999

// snapMargin is the number of texels per tile reserved for grid snapping.
const snapMargin = 4

// Fit is the output of a Fitter for one slice.
type Fit struct {
	Volume BoundingVolume

	// LightView is centred on the volume; callers pass it back as prev next frame.
	LightView LightView

	// Light-local depth range for the projection, relative to Volume.Center.
	ZNear, ZFar float32

	// RawRadius is the unpadded sphere radius (zero for boxes).
	RawRadius float32

	// Degenerate is set when the sphere solve fell back to a centroid sphere.
	Degenerate bool
}

// Fitter reduces a slice to a bounding volume in light space.
// prev is the light view this cascade produced last frame (zero on the first frame).
// texels is the edge length of one cascade tile.
type Fitter interface {
	Fit(s Slice, l *light.Directional, prev LightView, texels int) Fit
}

// NewFitter returns the fitter for mode.
func NewFitter(mode FitMode) Fitter {
	if mode == FitBox {
		return BoxFitter{}
	}
	return SphereFitter{}
}

// SphereFitter circumscribes the slice with a sphere whose center is snapped to
// the light's texel grid.
type SphereFitter struct{}

// Fit implements Fitter. prev is unused.
func (SphereFitter) Fit(s Slice, l *light.Directional, _ LightView, texels int) Fit {
	corners := s.Corners()
	basis := l.Orientation

	// The circle through near0, far0 and far2 lies in the diagonal plane of a
	// symmetric slice, so every corner is at the same distance from its center.
	center, ok := geom.Circumcenter(s.NearCorners[0], s.FarCorners[0], s.FarCorners[2])
	var raw float32
	if ok {
		for _, p := range corners {
			if d := p.Sub(center).Len(); d > raw {
				raw = d
			}
		}
	} else {
		center, raw = geom.CentroidSphere(corners[:])
	}

	// Padding covers the center snap and the half-texel projection snap.
	S := float32(texels)
	r := raw * S / (S - snapMargin)
	center = snapToGrid(center, basis, r/S)

	return Fit{
		Volume: BoundingVolume{
			Kind:        VolumeSphere,
			Center:      center,
			Radius:      r,
			HalfExtents: mgl32.Vec3{r, r, r},
		},
		LightView:  LightViewAt(center, basis),
		ZNear:      -r,
		ZFar:       r,
		RawRadius:  raw,
		Degenerate: !ok,
	}
}

// snapToGrid quantises the right/up components of p to multiples of step,
// keeping the forward component.
func snapToGrid(p mgl32.Vec3, b geom.Basis, step float32) mgl32.Vec3 {
	x := ceilStep(b.Right.Dot(p), step)
	y := ceilStep(b.Up.Dot(p), step)
	z := b.Forward.Dot(p)
	return b.ToWorld(mgl32.Vec3{}, mgl32.Vec3{x, y, z})
}

func ceilStep(v, step float32) float32 {
	return float32(math.Ceil(float64(v/step))) * step
}

func floorStep(v, step float32) float32 {
	return float32(math.Floor(float64(v/step))) * step
}

// BoxFitter fits a square light-space box sized by the slice diameter, measured
// in the previous frame's light view. The previous view keeps its center but takes
// the current light basis, and is replaced by a view at the world origin once the
// light has turned past alignedCos.
type BoxFitter struct{}

// Fit implements Fitter.
func (BoxFitter) Fit(s Slice, l *light.Directional, prev LightView, texels int) Fit {
	frame := measuringView(prev, l.Orientation)

	corners := s.Corners()
	var local [8]mgl32.Vec3
	for i, p := range corners {
		local[i] = frame.ToLocal(p)
	}
	lo, hi := geom.Bounds(local[:])

	// Diameter of the slice; independent of camera yaw.
	size := s.FarCorners[0].Sub(s.FarCorners[2]).Len()
	if d := s.NearCorners[0].Sub(s.FarCorners[2]).Len(); d > size {
		size = d
	}

	S := float32(texels)
	texel := size / (S - snapMargin)
	half := size * S / (2 * (S - snapMargin))

	mid := lo.Add(hi).Mul(0.5)
	mid[0] = floorStep(mid[0], texel)
	mid[1] = floorStep(mid[1], texel)
	hz := (hi.Z() - lo.Z()) / 2

	center := geom.TransformPoint(frame.InverseMatrix(), mid)
	ext := mgl32.Vec3{half, half, hz}

	return Fit{
		Volume: BoundingVolume{
			Kind:        VolumeBox,
			Center:      center,
			Radius:      ext.Len(),
			HalfExtents: ext,
		},
		LightView: LightViewAt(center, l.Orientation),
		ZNear:     -hz,
		ZFar:      hz,
	}
}

// measuringView returns prev when it shares the light's orientation, otherwise a
// fresh light view anchored at the world origin.
func measuringView(prev LightView, basis geom.Basis) LightView {
	if prev.IsZero() ||
		prev.Basis.Forward.Dot(basis.Forward) < alignedCos ||
		prev.Basis.Up.Dot(basis.Up) < alignedCos {
		return LightViewAt(mgl32.Vec3{}, basis)
	}
	return LightView{Center: prev.Center, Basis: basis}
}
