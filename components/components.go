// Package components defines ECS components for the shadow caster scene.
package components

import "github.com/go-gl/mathgl/mgl32"

// Position is the world-space center of an entity.
type Position struct {
	X, Y, Z float32
}

// Vec3 returns the position as a vector.
func (p Position) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{p.X, p.Y, p.Z}
}

// Velocity is the world-space velocity in units per second.
type Velocity struct {
	X, Y, Z float32
}

// Caster is an axis-aligned box that casts shadows.
type Caster struct {
	HalfX, HalfY, HalfZ float32
	Shade               uint8 // Base grey level for drawing
}

// Radius returns the radius of the sphere bounding the box.
func (c Caster) Radius() float32 {
	return mgl32.Vec3{c.HalfX, c.HalfY, c.HalfZ}.Len()
}

// Cascade records which shadow cascade covers an entity this frame.
type Cascade struct {
	Index    int8 // -1 when no cascade covers the entity
	Straddle bool // Bounding sphere crosses the chosen cascade's culling sphere
}
