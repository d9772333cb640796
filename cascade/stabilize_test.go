package cascade

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/light"
)

func TestStabilizeIsIdempotent(t *testing.T) {
	l := light.FromSun(63, 28)
	centers := []mgl32.Vec3{
		{0.37, 1.2, -5.5},
		{123.4, -8.7, 56.1},
		{-412.9, 30, 233.3},
	}

	for _, c := range centers {
		view, proj := BuildMatrices(c, l.Orientation, mgl32.Vec3{17, 17, 17}, -17, 17)
		once := Stabilize(view, proj, testTexels)

		// Residual after one snap is a fraction of a texel at float precision
		res := SnapResidual(view, once, testTexels).Mul(testTexels / 2)
		if res.Len() > 1e-2 {
			t.Errorf("center %v: expected zero residual after snapping, got %v texels", c, res)
		}

		twice := Stabilize(view, once, testTexels)
		if !nearMat(once, twice, 1e-5) {
			t.Errorf("center %v: expected stabilize to be a fixed point", c)
		}
	}
}

func TestSnapResidualBounds(t *testing.T) {
	l := light.FromSun(200, 60)
	view, proj := BuildMatrices(mgl32.Vec3{3.1, 4.1, 5.9}, l.Orientation, mgl32.Vec3{9, 9, 9}, -9, 9)

	off := SnapResidual(view, proj, testTexels)
	half := float32(testTexels) / 2
	for i := 0; i < 2; i++ {
		if math.Abs(float64(off[i]*half)) > 0.5+1e-4 {
			t.Errorf("axis %d: residual %f exceeds half a texel", i, off[i]*half)
		}
	}
	if off.Z() != 0 {
		t.Errorf("expected depth residual 0, got %f", off.Z())
	}
}

func TestStabilizeLandsOriginOnTexel(t *testing.T) {
	l := light.NewDirectional(mgl32.Vec3{0.3, -1, 0.2})
	view, proj := BuildMatrices(mgl32.Vec3{7.7, 0, -2.3}, l.Orientation, mgl32.Vec3{12, 12, 12}, -12, 12)
	snapped := Stabilize(view, proj, testTexels)

	origin := snapped.Mul4(view).Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	for i := 0; i < 2; i++ {
		v := float64(origin[i]) * testTexels / 2
		if math.Abs(v-math.Round(v)) > 1e-2 {
			t.Errorf("axis %d: origin at %f texels, expected integer", i, v)
		}
	}
}
