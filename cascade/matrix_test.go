package cascade

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/shadowcascades/geom"
	"github.com/pthm-cable/shadowcascades/light"
)

// toDense copies a column-major mgl32 matrix into a gonum matrix.
func toDense(m mgl32.Mat4) *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			d.Set(r, c, float64(m.At(r, c)))
		}
	}
	return d
}

func TestLightViewMatrixRoundTrip(t *testing.T) {
	l := light.FromSun(35, 55)
	v := LightViewAt(mgl32.Vec3{12, -3, 40}, l.Orientation)

	p := mgl32.Vec3{7, 2, -9}
	local := geom.TransformPoint(v.Matrix(), p)
	if !nearVec(local, v.ToLocal(p), 1e-4) {
		t.Errorf("expected matrix and ToLocal to agree: %v vs %v", local, v.ToLocal(p))
	}
	if back := geom.TransformPoint(v.InverseMatrix(), local); !nearVec(back, p, 1e-4) {
		t.Errorf("expected round trip to %v, got %v", p, back)
	}
	if c := geom.TransformPoint(v.Matrix(), v.Center); !nearVec(c, mgl32.Vec3{}, 1e-4) {
		t.Errorf("expected center at light origin, got %v", c)
	}
}

func TestViewMatricesInvertible(t *testing.T) {
	for _, sc := range testScenes() {
		frame, err := Compute(sc.cam, sc.light, DefaultSettings(), nil)
		if err != nil {
			t.Fatalf("%s: %v", sc.name, err)
		}

		for _, r := range frame.Results {
			var inv mat.Dense
			if err := inv.Inverse(toDense(r.View)); err != nil {
				t.Errorf("%s/%d: view not invertible: %v", sc.name, r.Index, err)
				continue
			}

			var prod mat.Dense
			prod.Mul(&inv, toDense(r.View))
			if !mat.EqualApprox(&prod, identity4(), 1e-4) {
				t.Errorf("%s/%d: inverse(view) x view is not identity:\n%v", sc.name, r.Index, mat.Formatted(&prod))
			}

			// Rigid: the rotation block has unit rows, so |det| == 1
			if det := mat.Det(toDense(r.View)); math.Abs(math.Abs(det)-1) > 1e-4 {
				t.Errorf("%s/%d: expected |det| 1, got %f", sc.name, r.Index, det)
			}
		}
	}
}

func identity4() *mat.Dense {
	d := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		d.Set(i, i, 1)
	}
	return d
}

func TestBuildMatricesMapsVolumeToClipCube(t *testing.T) {
	l := light.FromSun(120, 35)
	center := mgl32.Vec3{5, 1, -8}
	ext := mgl32.Vec3{4, 4, 6}

	view, proj := BuildMatrices(center, l.Orientation, ext, -ext.Z(), ext.Z())
	m := proj.Mul4(view)

	if c := m.Mul4x1(center.Vec4(1)); !nearVec(c.Vec3(), mgl32.Vec3{}, 1e-5) {
		t.Errorf("expected center at clip origin, got %v", c)
	}

	b := l.Orientation
	testCases := []struct {
		local mgl32.Vec3
		want  mgl32.Vec3
	}{
		{mgl32.Vec3{4, 0, 0}, mgl32.Vec3{1, 0, 0}},
		{mgl32.Vec3{0, -4, 0}, mgl32.Vec3{0, -1, 0}},
		// Toward the light source is the near plane
		{mgl32.Vec3{0, 0, -6}, mgl32.Vec3{0, 0, -1}},
		{mgl32.Vec3{0, 0, 6}, mgl32.Vec3{0, 0, 1}},
	}
	for _, tc := range testCases {
		world := b.ToWorld(center, tc.local)
		if got := m.Mul4x1(world.Vec4(1)).Vec3(); !nearVec(got, tc.want, 1e-5) {
			t.Errorf("local %v: expected clip %v, got %v", tc.local, tc.want, got)
		}
	}
}

func TestWorldToShadowReversedZ(t *testing.T) {
	l := light.NewDirectional(mgl32.Vec3{0, -1, 0})
	view, proj := BuildMatrices(mgl32.Vec3{}, l.Orientation, mgl32.Vec3{2, 2, 2}, -2, 2)

	plain := WorldToShadow(view, proj, false)
	reversed := WorldToShadow(view, proj, true)

	p := mgl32.Vec3{0.5, 1.5, -0.25}
	a := plain.Mul4x1(p.Vec4(1))
	b := reversed.Mul4x1(p.Vec4(1))
	if !near(a.X(), b.X(), 1e-6) || !near(a.Y(), b.Y(), 1e-6) || !near(a.Z(), -b.Z(), 1e-6) {
		t.Errorf("expected only depth negated: %v vs %v", a, b)
	}
}
