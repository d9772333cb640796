// Package renderer draws debug geometry for the cascades in the 3D viewer.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/cascade"
)

// CascadeColors tints everything belonging to one cascade.
var CascadeColors = [cascade.MaxCascades]rl.Color{
	{R: 230, G: 80, B: 70, A: 255},
	{R: 90, G: 200, B: 90, A: 255},
	{R: 80, G: 140, B: 240, A: 255},
	{R: 240, G: 200, B: 60, A: 255},
}

// Vec3 converts a math vector to raylib.
func Vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X(), v.Y(), v.Z())
}

// CascadeRenderer draws camera frusta, cascade slices and bounding volumes.
// Must be used between rl.BeginMode3D and rl.EndMode3D.
type CascadeRenderer struct {
	ShowSlices  bool
	ShowVolumes bool

	// Sphere tessellation
	rings, slices int32
}

// NewCascadeRenderer creates a renderer with slices and volumes enabled.
func NewCascadeRenderer() *CascadeRenderer {
	return &CascadeRenderer{
		ShowSlices:  true,
		ShowVolumes: true,
		rings:       12,
		slices:      16,
	}
}

// Draw renders the camera frustum and the enabled cascade overlays.
func (r *CascadeRenderer) Draw(cam *camera.Camera, f cascade.Frame) {
	r.drawFrustum(cam)
	if r.ShowSlices {
		r.drawSlices(f)
	}
	if r.ShowVolumes {
		r.drawVolumes(f)
	}
}

// drawFrustum draws the full view frustum of cam.
func (r *CascadeRenderer) drawFrustum(cam *camera.Camera) {
	near := cam.CornersAt(cam.Near)
	far := cam.CornersAt(cam.Far)
	drawQuad(near, rl.LightGray)
	drawQuad(far, rl.LightGray)
	for i := range near {
		rl.DrawLine3D(Vec3(near[i]), Vec3(far[i]), rl.Gray)
	}
	rl.DrawSphere(Vec3(cam.Position), 0.6, rl.RayWhite)
}

// drawSlices outlines every cascade slice.
func (r *CascadeRenderer) drawSlices(f cascade.Frame) {
	for _, res := range f.Results {
		col := CascadeColors[res.Index]
		drawQuad(res.Slice.FarCorners, col)
		for i := range res.Slice.NearCorners {
			rl.DrawLine3D(Vec3(res.Slice.NearCorners[i]), Vec3(res.Slice.FarCorners[i]), rl.Fade(col, 0.5))
		}
	}
}

// drawVolumes draws the bounding sphere or light-aligned box of every cascade.
func (r *CascadeRenderer) drawVolumes(f cascade.Frame) {
	for _, res := range f.Results {
		col := rl.Fade(CascadeColors[res.Index], 0.8)
		v := res.Volume
		if v.Kind == cascade.VolumeSphere {
			rl.DrawSphereWires(Vec3(v.Center), v.Radius, r.rings, r.slices, col)
			continue
		}

		corners := BoxCorners(v, res.LightView)
		for i := range corners {
			for _, bit := range []int{1, 2, 4} {
				if j := i | bit; j != i {
					rl.DrawLine3D(Vec3(corners[i]), Vec3(corners[j]), col)
				}
			}
		}
	}
}

// BoxCorners returns the world-space corners of a box volume oriented by lv.
// Bit 0 of the index flips X, bit 1 flips Y, bit 2 flips Z.
func BoxCorners(v cascade.BoundingVolume, lv cascade.LightView) [8]mgl32.Vec3 {
	view := cascade.LightViewAt(v.Center, lv.Basis)
	var corners [8]mgl32.Vec3
	for i := range corners {
		local := v.HalfExtents
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				local[axis] = -local[axis]
			}
		}
		corners[i] = view.ToWorld(local)
	}
	return corners
}

func drawQuad(c [4]mgl32.Vec3, col rl.Color) {
	for i := range c {
		rl.DrawLine3D(Vec3(c[i]), Vec3(c[(i+1)%len(c)]), col)
	}
}
