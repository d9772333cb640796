package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shadowcascades/components"
)

// Motion moves casters vertically and bounces them between the ground and a ceiling.
type Motion struct {
	filter  *ecs.Filter3[components.Position, components.Velocity, components.Caster]
	ceiling float32
}

// NewMotion creates the motion system for world.
func NewMotion(world *ecs.World, ceiling float32) *Motion {
	return &Motion{
		filter:  ecs.NewFilter3[components.Position, components.Velocity, components.Caster](world),
		ceiling: ceiling,
	}
}

// Update advances every caster by dt seconds.
func (m *Motion) Update(dt float32) {
	query := m.filter.Query()
	for query.Next() {
		pos, vel, c := query.Get()

		pos.X += vel.X * dt
		pos.Y += vel.Y * dt
		pos.Z += vel.Z * dt

		if bottom := pos.Y - c.HalfY; bottom < 0 {
			pos.Y -= bottom
			vel.Y = -vel.Y
		}
		if top := pos.Y + c.HalfY; m.ceiling > 0 && top > m.ceiling {
			pos.Y -= top - m.ceiling
			vel.Y = -vel.Y
		}
	}
}
