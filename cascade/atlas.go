package cascade

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Rect is an axis-aligned rectangle in atlas UV space.
type Rect struct {
	X, Y, Width, Height float32
}

// Viewport is a tile rectangle in texels.
type Viewport struct {
	X, Y, Width, Height int
}

// AtlasLayout places cascades in a Split x Split grid of tiles.
// Cascade i sits in column i%Split, row i/Split.
type AtlasLayout struct {
	Split         int
	Resolution    int
	SubResolution int
}

// NewAtlasLayout returns the layout of a resolution-texel atlas with split tiles per edge.
func NewAtlasLayout(split, resolution int) AtlasLayout {
	return AtlasLayout{
		Split:         split,
		Resolution:    resolution,
		SubResolution: resolution / split,
	}
}

func (a AtlasLayout) cell(i int) (col, row int) {
	return i % a.Split, i / a.Split
}

// Placement maps unit UV space into the tile of cascade i.
func (a AtlasLayout) Placement(i int) mgl32.Mat4 {
	col, row := a.cell(i)
	k := float32(a.Split)
	return mgl32.Translate3D(float32(col)/k, float32(row)/k, 0).
		Mul4(mgl32.Scale3D(1/k, 1/k, 1))
}

// Rect returns the UV rectangle of cascade i.
func (a AtlasLayout) Rect(i int) Rect {
	col, row := a.cell(i)
	k := float32(a.Split)
	return Rect{X: float32(col) / k, Y: float32(row) / k, Width: 1 / k, Height: 1 / k}
}

// Viewport returns the texel rectangle of cascade i.
func (a AtlasLayout) Viewport(i int) Viewport {
	col, row := a.cell(i)
	s := a.SubResolution
	return Viewport{X: col * s, Y: row * s, Width: s, Height: s}
}

// ClipToUV remaps clip space [-1,1] to texture space [0,1] on every axis.
func ClipToUV() mgl32.Mat4 {
	return mgl32.Translate3D(0.5, 0.5, 0.5).Mul4(mgl32.Scale3D(0.5, 0.5, 0.5))
}

// Uniforms is the fixed-size block handed to the shading stage.
// Only the first Count entries are meaningful.
type Uniforms struct {
	Count          int
	WorldToShadow  [MaxCascades]mgl32.Mat4
	Bias           [MaxCascades]float32
	CullingSpheres [MaxCascades]mgl32.Vec4
	Viewports      [MaxCascades]Viewport
}

// DepthBias returns the world size of one texel diagonal for a footprint of
// half-width halfWidth rendered into texels texels.
func DepthBias(halfWidth float32, texels int) float32 {
	return 2 * halfWidth / float32(texels) * math.Sqrt2
}

// CullingSphere returns (center, radius^2) for GPU cascade selection.
func CullingSphere(v BoundingVolume) mgl32.Vec4 {
	return v.Center.Vec4(v.Radius * v.Radius)
}

// Pack builds the uniform block from per-cascade results. Each atlas matrix is
// placement x clip-to-UV x world-to-shadow.
func Pack(results []Result, layout AtlasLayout, reversedZ bool) Uniforms {
	var u Uniforms
	remap := ClipToUV()
	for i, r := range results {
		if i >= MaxCascades {
			break
		}
		u.WorldToShadow[i] = layout.Placement(i).Mul4(remap).Mul4(WorldToShadow(r.View, r.Proj, reversedZ))
		u.Bias[i] = DepthBias(r.Volume.HalfWidth(), layout.SubResolution)
		u.CullingSpheres[i] = CullingSphere(r.Volume)
		u.Viewports[i] = layout.Viewport(i)
		u.Count++
	}
	return u
}
