package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// DefaultSinEpsilon is the smallest sine of the angle between two directions that
// LineIntersect and Circumcenter accept before reporting a degenerate solve.
const DefaultSinEpsilon = 1e-5

// LineIntersect returns the point on the line o0 + t*d0 closest to the line
// o1 + s*d1. For coplanar, non-parallel lines that is their intersection.
// ok is false when the directions are parallel within sinEps.
func LineIntersect(o0, d0, o1, d1 mgl32.Vec3, sinEps float32) (mgl32.Vec3, bool) {
	den := d0.Cross(d1)
	den2 := den.Dot(den)
	limit := sinEps * d0.Len() * d1.Len()
	if den2 <= limit*limit {
		return o0, false
	}
	t := o1.Sub(o0).Cross(d1).Dot(den) / den2
	return o0.Add(d0.Mul(t)), true
}

// Circumcenter returns the point in the plane of a, b, c that is equidistant from
// all three, found by intersecting the in-plane perpendicular bisectors of ab and ac.
// The solve runs relative to a to keep float32 precision far from the origin.
// ok is false when the points are (nearly) collinear.
func Circumcenter(a, b, c mgl32.Vec3) (mgl32.Vec3, bool) {
	e01 := b.Sub(a)
	e02 := c.Sub(a)

	n := e01.Cross(e02)
	if n.Len() <= DefaultSinEpsilon*e01.Len()*e02.Len() {
		return a, false
	}
	n = n.Normalize()

	mid01 := e01.Mul(0.5)
	mid02 := e02.Mul(0.5)
	dir01 := n.Cross(e01)
	dir02 := n.Cross(e02)

	rel, ok := LineIntersect(mid01, dir01, mid02, dir02, DefaultSinEpsilon)
	if !ok {
		return a, false
	}
	return a.Add(rel), true
}

// CentroidSphere returns the centroid of points and the largest distance from it
// to any point. It is a loose but always valid bounding sphere.
func CentroidSphere(points []mgl32.Vec3) (mgl32.Vec3, float32) {
	if len(points) == 0 {
		return mgl32.Vec3{}, 0
	}
	var c mgl32.Vec3
	for _, p := range points {
		c = c.Add(p)
	}
	c = c.Mul(1 / float32(len(points)))

	var r2 float32
	for _, p := range points {
		d := p.Sub(c)
		if l2 := d.Dot(d); l2 > r2 {
			r2 = l2
		}
	}
	return c, sqrtf(r2)
}

// Bounds returns the component-wise minimum and maximum of points.
func Bounds(points []mgl32.Vec3) (lo, hi mgl32.Vec3) {
	inf := float32(math.Inf(1))
	lo = mgl32.Vec3{inf, inf, inf}
	hi = mgl32.Vec3{-inf, -inf, -inf}
	for _, p := range points {
		for i := 0; i < 3; i++ {
			if p[i] < lo[i] {
				lo[i] = p[i]
			}
			if p[i] > hi[i] {
				hi[i] = p[i]
			}
		}
	}
	return lo, hi
}

// TransformPoint applies an affine matrix to a point (w = 1).
func TransformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}
