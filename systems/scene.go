// Package systems provides ECS systems for the shadow caster scene.
package systems

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/shadowcascades/components"
)

// noiseScale converts world units into noise space for the ground pattern.
const noiseScale = 0.03

// CasterDef describes one caster to spawn.
type CasterDef struct {
	Position components.Position
	Velocity components.Velocity
	Caster   components.Caster
}

// ScatterCasters places n boxes inside [-spread, spread] on X and Z. Box size and
// height follow a simplex noise field so casters cluster into taller patches.
func ScatterCasters(n int, spread, minSize, maxSize float32, seed int64) []CasterDef {
	rng := rand.New(rand.NewSource(seed))
	noise := opensimplex.NewNormalized(seed)

	out := make([]CasterDef, n)
	for i := range out {
		x := (rng.Float32()*2 - 1) * spread
		z := (rng.Float32()*2 - 1) * spread
		h := float32(noise.Eval2(float64(x)*noiseScale, float64(z)*noiseScale))

		half := (minSize + (maxSize-minSize)*rng.Float32()) / 2
		halfY := half * (0.5 + 2*h)

		out[i] = CasterDef{
			Position: components.Position{X: x, Y: halfY, Z: z},
			Velocity: components.Velocity{Y: (rng.Float32()*2 - 1) * h},
			Caster: components.Caster{
				HalfX: half,
				HalfY: halfY,
				HalfZ: half,
				Shade: uint8(120 + 100*h),
			},
		}
	}
	return out
}

// SpawnCasters creates one entity per definition.
func SpawnCasters(world *ecs.World, defs []CasterDef) []ecs.Entity {
	mapper := ecs.NewMap4[
		components.Position,
		components.Velocity,
		components.Caster,
		components.Cascade,
	](world)

	entities := make([]ecs.Entity, len(defs))
	for i := range defs {
		s := defs[i]
		tag := components.Cascade{Index: -1}
		entities[i] = mapper.NewEntity(&s.Position, &s.Velocity, &s.Caster, &tag)
	}
	return entities
}
