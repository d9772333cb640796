package cascade

import "github.com/go-gl/mathgl/mgl32"

// SelectCascade returns the first cascade whose culling sphere contains p,
// or -1 when p is outside all of them. This mirrors the shader-side selection.
func SelectCascade(u Uniforms, p mgl32.Vec3) int {
	for i := 0; i < u.Count; i++ {
		s := u.CullingSpheres[i]
		d := p.Sub(s.Vec3())
		if d.Dot(d) <= s.W() {
			return i
		}
	}
	return -1
}
