// Package geom holds the small amount of 3D geometry shared by the camera, light
// and cascade packages.
package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// parallelCos is the |cos| above which an up hint is treated as parallel to forward.
const parallelCos = 0.999

// Basis is an orthonormal orientation frame. Right x Up == Forward.
type Basis struct {
	Right   mgl32.Vec3
	Up      mgl32.Vec3
	Forward mgl32.Vec3
}

// IdentityBasis returns the frame aligned with the world axes (+X right, +Y up, +Z forward).
func IdentityBasis() Basis {
	return Basis{
		Right:   mgl32.Vec3{1, 0, 0},
		Up:      mgl32.Vec3{0, 1, 0},
		Forward: mgl32.Vec3{0, 0, 1},
	}
}

// BasisFromForward builds an orthonormal frame looking along forward.
// upHint only picks the roll; if it is zero or nearly parallel to forward a
// world axis is substituted.
func BasisFromForward(forward, upHint mgl32.Vec3) Basis {
	f := forward.Normalize()

	up := upHint
	if up.Len() == 0 || absf(f.Dot(up.Normalize())) > parallelCos {
		// Light pointing straight up or down: roll around world Z instead
		if absf(f.Y()) < parallelCos {
			up = mgl32.Vec3{0, 1, 0}
		} else {
			up = mgl32.Vec3{0, 0, 1}
		}
	}

	r := up.Cross(f).Normalize()
	u := f.Cross(r)
	return Basis{Right: r, Up: u, Forward: f}
}

// ToWorld maps a point expressed in this frame (placed at origin) into world space.
func (b Basis) ToWorld(origin, local mgl32.Vec3) mgl32.Vec3 {
	return origin.
		Add(b.Right.Mul(local.X())).
		Add(b.Up.Mul(local.Y())).
		Add(b.Forward.Mul(local.Z()))
}

// ToLocal maps a world point into this frame placed at origin.
func (b Basis) ToLocal(origin, world mgl32.Vec3) mgl32.Vec3 {
	d := world.Sub(origin)
	return mgl32.Vec3{b.Right.Dot(d), b.Up.Dot(d), b.Forward.Dot(d)}
}

// IsOrthonormal reports whether the three axes are unit length and mutually
// perpendicular within eps. NaN axes are never orthonormal.
func (b Basis) IsOrthonormal(eps float32) bool {
	axes := [3]mgl32.Vec3{b.Right, b.Up, b.Forward}
	for i, a := range axes {
		if !(absf(a.Len()-1) <= eps) {
			return false
		}
		for _, o := range axes[i+1:] {
			if !(absf(a.Dot(o)) <= eps) {
				return false
			}
		}
	}
	return true
}

// Mat4 returns the rotation whose columns are Right, Up and Forward.
func (b Basis) Mat4() mgl32.Mat4 {
	return mgl32.Mat4FromCols(
		b.Right.Vec4(0),
		b.Up.Vec4(0),
		b.Forward.Vec4(0),
		mgl32.Vec4{0, 0, 0, 1},
	)
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// sqrtf returns the square root of a float32.
func sqrtf(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
