// Package light describes the directional light that casts cascaded shadows.
package light

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/geom"
)

// Directional is a light with parallel rays. Only its orientation matters:
// Forward is the direction light travels, Right and Up span the shadow map plane.
type Directional struct {
	Orientation geom.Basis
}

// NewDirectional builds a light travelling along direction.
func NewDirectional(direction mgl32.Vec3) *Directional {
	return &Directional{Orientation: geom.BasisFromForward(direction, mgl32.Vec3{0, 1, 0})}
}

// FromSun builds a light from sun angles in degrees. Longitude rotates around +Y,
// latitude is elevation above the horizon. The light travels away from the sun.
func FromSun(longitude, latitude float32) *Directional {
	return NewDirectional(SunDirection(longitude, latitude).Mul(-1))
}

// SunDirection returns the unit vector pointing toward the sun.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lon := float64(mgl32.DegToRad(longitude))
	lat := float64(mgl32.DegToRad(latitude))
	return mgl32.Vec3{
		float32(math.Cos(lat) * math.Sin(lon)),
		float32(math.Sin(lat)),
		float32(math.Cos(lat) * math.Cos(lon)),
	}
}

// Direction returns the direction light travels.
func (d *Directional) Direction() mgl32.Vec3 {
	return d.Orientation.Forward
}
