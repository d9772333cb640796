package telemetry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/mat"
)

// ViewCondition returns the 2-norm condition number of the rotation block of a
// view matrix. A rigid view gives 1; shear or scale pushes it up.
func ViewCondition(view mgl32.Mat4) float64 {
	m := mat.NewDense(3, 3, nil)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.Set(r, c, float64(view.At(r, c)))
		}
	}
	return mat.Cond(m, 2)
}

// InverseError returns max |inverse(m) x m - I| over all elements, or +Inf when
// m is singular.
func InverseError(m mgl32.Mat4) float64 {
	d := mat.NewDense(4, 4, nil)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			d.Set(r, c, float64(m.At(r, c)))
		}
	}

	var inv mat.Dense
	if err := inv.Inverse(d); err != nil {
		return math.Inf(1)
	}
	var prod mat.Dense
	prod.Mul(&inv, d)

	var worst float64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			worst = math.Max(worst, math.Abs(prod.At(r, c)-want))
		}
	}
	return worst
}
