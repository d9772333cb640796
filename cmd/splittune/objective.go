package main

import (
	"math"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/cascade"
	"github.com/pthm-cable/shadowcascades/light"
)

// failedPenalty is the objective value for a parameter vector the cascade
// computation rejects.
const failedPenalty = 1e6

// Objective scores split ratios by how evenly shadow texels match screen pixels
// across cascades. Lower is better; zero means every cascade has the same
// texel-to-pixel ratio at its mid depth.
type Objective struct {
	Poses    []*camera.Camera
	Light    *light.Directional
	Settings cascade.Settings
	MinRatio float64 // Lower bound on each cascade's share of the depth range
	ScreenH  float64 // Viewport height in pixels
}

// Ratios maps an unconstrained vector with one entry per cascade to fractions
// that sum to one, each at least MinRatio.
func (o *Objective) Ratios(x []float64) []float64 {
	n := len(x)
	free := 1 - float64(n)*o.MinRatio
	if free < 0 {
		free = 0
	}

	maxX := x[0]
	for _, v := range x[1:] {
		maxX = math.Max(maxX, v)
	}
	weights := make([]float64, n)
	var sum float64
	for i, v := range x {
		weights[i] = math.Exp(v - maxX)
		sum += weights[i]
	}

	out := make([]float64, n)
	for i, w := range weights {
		out[i] = o.MinRatio + free*w/sum
	}
	return out
}

// settingsFor returns the base settings with the implied-remainder form of ratios.
func (o *Objective) settingsFor(ratios []float64) cascade.Settings {
	s := o.Settings
	s.Count = len(ratios)
	s.Ratios = make([]float32, len(ratios)-1)
	for i := range s.Ratios {
		s.Ratios[i] = float32(ratios[i])
	}
	return s
}

// Aliasing returns, per cascade, log(texel size / pixel size) at the slice mid
// depth, averaged over all poses.
func (o *Objective) Aliasing(ratios []float64) ([]float64, error) {
	s := o.settingsFor(ratios)
	texels := float64(s.SubResolution())
	out := make([]float64, s.Count)

	for _, cam := range o.Poses {
		f, err := cascade.Compute(cam, o.Light, s, nil)
		if err != nil {
			return nil, err
		}
		pixelScale := 2 * math.Tan(float64(cam.FovY)/2) / o.ScreenH
		for i, r := range f.Results {
			mid := float64(r.Slice.Near+r.Slice.Far) / 2
			texel := 2 * float64(r.Volume.HalfWidth()) / texels
			out[i] += math.Log(texel / (mid * pixelScale))
		}
	}
	for i := range out {
		out[i] /= float64(len(o.Poses))
	}
	return out, nil
}

// Evaluate returns the variance of the per-cascade aliasing for x.
func (o *Objective) Evaluate(x []float64) float64 {
	a, err := o.Aliasing(o.Ratios(x))
	if err != nil {
		return failedPenalty
	}
	var mean float64
	for _, v := range a {
		mean += v
	}
	mean /= float64(len(a))

	var variance float64
	for _, v := range a {
		variance += (v - mean) * (v - mean)
	}
	return variance / float64(len(a))
}

// Logits returns an x for which Ratios reproduces ratios as closely as the
// MinRatio floor allows.
func (o *Objective) Logits(ratios []float64) []float64 {
	free := 1 - float64(len(ratios))*o.MinRatio
	x := make([]float64, len(ratios))
	for i, r := range ratios {
		w := (r - o.MinRatio) / free
		x[i] = math.Log(math.Max(w, 1e-6))
	}
	return x
}
