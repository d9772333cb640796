package light

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSunDirection(t *testing.T) {
	testCases := []struct {
		lon, lat float32
		want     mgl32.Vec3
	}{
		{0, 0, mgl32.Vec3{0, 0, 1}},
		{90, 0, mgl32.Vec3{1, 0, 0}},
		{0, 90, mgl32.Vec3{0, 1, 0}},
		{180, 45, mgl32.Vec3{0, 0.70710677, -0.70710677}},
	}

	for _, tc := range testCases {
		got := SunDirection(tc.lon, tc.lat)
		for i := 0; i < 3; i++ {
			if math.Abs(float64(got[i]-tc.want[i])) > 1e-5 {
				t.Errorf("lon=%f lat=%f: expected %v, got %v", tc.lon, tc.lat, tc.want, got)
				break
			}
		}
	}
}

func TestFromSunPointsAway(t *testing.T) {
	l := FromSun(30, 50)
	toSun := SunDirection(30, 50)

	if d := l.Direction().Dot(toSun); math.Abs(float64(d+1)) > 1e-5 {
		t.Errorf("expected light to travel away from the sun, dot=%f", d)
	}
	if !l.Orientation.IsOrthonormal(1e-4) {
		t.Errorf("expected orthonormal light basis, got %+v", l.Orientation)
	}
}

func TestNewDirectionalStraightDown(t *testing.T) {
	l := NewDirectional(mgl32.Vec3{0, -1, 0})

	if !l.Orientation.IsOrthonormal(1e-4) {
		t.Errorf("expected orthonormal basis for vertical light, got %+v", l.Orientation)
	}
	if math.Abs(float64(l.Direction().Y()+1)) > 1e-5 {
		t.Errorf("expected forward (0,-1,0), got %v", l.Direction())
	}
}
