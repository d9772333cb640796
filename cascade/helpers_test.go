package cascade

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/light"
)

// testScene pairs a camera with a light for property tests.
type testScene struct {
	name  string
	cam   *camera.Camera
	light *light.Directional
}

func testScenes() []testScene {
	up := mgl32.Vec3{0, 1, 0}
	return []testScene{
		{
			name:  "forward down",
			cam:   camera.New(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, up, mgl32.DegToRad(60), 16.0/9.0, 0.3, 100),
			light: light.NewDirectional(mgl32.Vec3{0, -1, 0}),
		},
		{
			name:  "oblique sun",
			cam:   camera.New(mgl32.Vec3{10, 5, -20}, mgl32.Vec3{0, 0, 0}, up, mgl32.DegToRad(45), 1, 0.5, 200),
			light: light.FromSun(30, 50),
		},
		{
			name:  "far from origin",
			cam:   camera.New(mgl32.Vec3{-300, 40, 512}, mgl32.Vec3{-250, 20, 600}, up, mgl32.DegToRad(70), 4.0/3.0, 0.1, 150),
			light: light.NewDirectional(mgl32.Vec3{1, -1, 0.5}),
		},
	}
}

func near(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

// nearVec compares vectors component-wise with an absolute tolerance.
func nearVec(a, b mgl32.Vec3, tol float32) bool {
	for i := 0; i < 3; i++ {
		if !near(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// nearMat compares matrices element-wise with an absolute tolerance.
func nearMat(a, b mgl32.Mat4, tol float32) bool {
	for i := range a {
		if !near(a[i], b[i], tol) {
			return false
		}
	}
	return true
}
