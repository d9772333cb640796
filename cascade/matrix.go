package cascade

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/geom"
)

// LightView is the rigid transform from world space into light-local space
// (+X right, +Y up, +Z along the light) centred on a bounding volume.
// The zero value means "no view yet".
type LightView struct {
	Center mgl32.Vec3
	Basis  geom.Basis
}

// LightViewAt returns the light view centred at center.
func LightViewAt(center mgl32.Vec3, basis geom.Basis) LightView {
	return LightView{Center: center, Basis: basis}
}

// IsZero reports whether v was never set.
func (v LightView) IsZero() bool {
	return v.Basis == geom.Basis{}
}

// ToLocal maps a world point into light-local space.
func (v LightView) ToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return v.Basis.ToLocal(v.Center, p)
}

// ToWorld maps a light-local point back into world space.
func (v LightView) ToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return v.Basis.ToWorld(v.Center, p)
}

// Matrix returns the world-to-light matrix.
func (v LightView) Matrix() mgl32.Mat4 {
	b := v.Basis
	return mgl32.Mat4FromRows(
		b.Right.Vec4(-b.Right.Dot(v.Center)),
		b.Up.Vec4(-b.Up.Dot(v.Center)),
		b.Forward.Vec4(-b.Forward.Dot(v.Center)),
		mgl32.Vec4{0, 0, 0, 1},
	)
}

// InverseMatrix returns the light-to-world matrix.
func (v LightView) InverseMatrix() mgl32.Mat4 {
	m := v.Basis.Mat4()
	m.SetCol(3, v.Center.Vec4(1))
	return m
}

// BuildMatrices returns the view and orthographic projection for a volume centred
// at center. The view looks down -Z, so its depth row is the light view's negated.
// zNear and zFar are light-local depths relative to center.
func BuildMatrices(center mgl32.Vec3, basis geom.Basis, halfExtents mgl32.Vec3, zNear, zFar float32) (view, proj mgl32.Mat4) {
	view = LightViewAt(center, basis).Matrix()
	view.SetRow(2, view.Row(2).Mul(-1))
	proj = mgl32.Ortho(-halfExtents.X(), halfExtents.X(), -halfExtents.Y(), halfExtents.Y(), zNear, zFar)
	return view, proj
}

// WorldToShadow combines proj and view into the world-to-light-clip matrix.
// With reversedZ the depth row is negated so near maps to +1.
func WorldToShadow(view, proj mgl32.Mat4, reversedZ bool) mgl32.Mat4 {
	m := proj.Mul4(view)
	if reversedZ {
		m.SetRow(2, m.Row(2).Mul(-1))
	}
	return m
}
