// Package camera provides the perspective camera whose view frustum is split into
// shadow cascades.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/geom"
)

// basisEpsilon is the orthonormality tolerance for Orientation.
const basisEpsilon = 1e-3

// ErrInvalidCamera is returned by Validate for unusable projection parameters.
var ErrInvalidCamera = errors.New("invalid camera")

// Camera is the per-frame snapshot of a perspective camera.
// Camera space is +X right, +Y up, +Z forward.
type Camera struct {
	// Position is the eye in world coordinates
	Position mgl32.Vec3

	// Orientation holds the world-space right/up/forward axes
	Orientation geom.Basis

	// Clip distances along Forward
	Near, Far float32

	// Vertical field of view in radians
	FovY float32

	// Viewport aspect ratio (width / height)
	Aspect float32
}

// New creates a camera at position looking at target.
func New(position, target, up mgl32.Vec3, fovY, aspect, near, far float32) *Camera {
	c := &Camera{
		Position:    position,
		Orientation: geom.IdentityBasis(),
		Near:        near,
		Far:         far,
		FovY:        fovY,
		Aspect:      aspect,
	}
	c.LookAt(target, up)
	return c
}

// Validate checks that the projection parameters describe a finite frustum.
func (c *Camera) Validate() error {
	switch {
	case c.Near <= 0:
		return fmt.Errorf("%w: near plane %f must be positive", ErrInvalidCamera, c.Near)
	case c.Far <= c.Near:
		return fmt.Errorf("%w: far plane %f must exceed near plane %f", ErrInvalidCamera, c.Far, c.Near)
	case c.FovY <= 0 || c.FovY >= math.Pi:
		return fmt.Errorf("%w: vertical fov %f must be in (0, pi)", ErrInvalidCamera, c.FovY)
	case c.Aspect <= 0:
		return fmt.Errorf("%w: aspect %f must be positive", ErrInvalidCamera, c.Aspect)
	case !c.Orientation.IsOrthonormal(basisEpsilon):
		return fmt.Errorf("%w: orientation is not orthonormal", ErrInvalidCamera)
	}
	return nil
}

// LookAt re-orients the camera toward target.
func (c *Camera) LookAt(target, up mgl32.Vec3) {
	dir := target.Sub(c.Position)
	if dir.Len() == 0 {
		return
	}
	c.Orientation = geom.BasisFromForward(dir, up)
}

// Orbit places the camera on a horizontal circle around center and aims it there.
func (c *Camera) Orbit(center mgl32.Vec3, radius, height, angle float32) {
	sin, cos := math.Sincos(float64(angle))
	c.Position = center.Add(mgl32.Vec3{radius * float32(cos), height, radius * float32(sin)})
	c.LookAt(center, mgl32.Vec3{0, 1, 0})
}

// LocalCornersAt returns the four frustum corners at the given depth in camera space.
// Order: bottom-left, top-left, top-right, bottom-right, so [0] and [2] are diagonal.
func (c *Camera) LocalCornersAt(depth float32) [4]mgl32.Vec3 {
	halfH := depth * float32(math.Tan(float64(c.FovY)/2))
	halfW := halfH * c.Aspect
	return [4]mgl32.Vec3{
		{-halfW, -halfH, depth},
		{-halfW, halfH, depth},
		{halfW, halfH, depth},
		{halfW, -halfH, depth},
	}
}

// CornersAt returns the four frustum corners at the given depth in world space.
func (c *Camera) CornersAt(depth float32) [4]mgl32.Vec3 {
	local := c.LocalCornersAt(depth)
	var out [4]mgl32.Vec3
	for i, p := range local {
		out[i] = c.TransformPoint(p)
	}
	return out
}

// TransformPoint converts a camera-space point into world space.
func (c *Camera) TransformPoint(local mgl32.Vec3) mgl32.Vec3 {
	return c.Orientation.ToWorld(c.Position, local)
}

// InverseTransformPoint converts a world-space point into camera space.
func (c *Camera) InverseTransformPoint(world mgl32.Vec3) mgl32.Vec3 {
	return c.Orientation.ToLocal(c.Position, world)
}
