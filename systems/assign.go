package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/shadowcascades/cascade"
	"github.com/pthm-cable/shadowcascades/components"
)

// Coverage counts casters per cascade after an assignment pass.
type Coverage struct {
	PerCascade [cascade.MaxCascades]int
	Uncovered  int
	Straddling int // Casters whose bounds leave their cascade's culling sphere
}

// Total returns the number of casters seen.
func (c Coverage) Total() int {
	n := c.Uncovered
	for _, v := range c.PerCascade {
		n += v
	}
	return n
}

// Counts returns the per-cascade counts for the first n cascades.
func (c Coverage) Counts(n int) []int {
	out := make([]int, n)
	copy(out, c.PerCascade[:])
	return out
}

// CascadeAssigner tags each caster with the cascade the shading stage would pick
// for its center.
type CascadeAssigner struct {
	filter *ecs.Filter3[components.Position, components.Caster, components.Cascade]
}

// NewCascadeAssigner creates the assignment system for world.
func NewCascadeAssigner(world *ecs.World) *CascadeAssigner {
	return &CascadeAssigner{
		filter: ecs.NewFilter3[components.Position, components.Caster, components.Cascade](world),
	}
}

// Update re-tags every caster against the culling spheres in u.
func (a *CascadeAssigner) Update(u cascade.Uniforms) Coverage {
	var cov Coverage

	query := a.filter.Query()
	for query.Next() {
		pos, c, tag := query.Get()
		p := pos.Vec3()

		idx := cascade.SelectCascade(u, p)
		tag.Index = int8(idx)
		tag.Straddle = false
		if idx < 0 {
			cov.Uncovered++
			continue
		}
		cov.PerCascade[idx]++

		if straddles(u.CullingSpheres[idx], p, c.Radius()) {
			tag.Straddle = true
			cov.Straddling++
		}
	}
	return cov
}

// straddles reports whether a sphere of radius r at p pokes out of the culling
// sphere s (center, radius^2).
func straddles(s mgl32.Vec4, p mgl32.Vec3, r float32) bool {
	d := p.Sub(s.Vec3()).Len() + r
	return d*d > s.W()
}
