package telemetry

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/shadowcascades/cascade"
)

// ShimmerStats summarises frame-to-frame motion of one cascade.
type ShimmerStats struct {
	Samples int

	// Sub-texel drift of the probe point, in texels
	MeanDrift float64
	StdDrift  float64
	MaxDrift  float64

	// Relative change of the projection half-width
	MeanScaleChange float64
}

type shimmerState struct {
	valid     bool
	frac      [2]float64
	halfWidth float32
}

// ShimmerTracker measures how far a fixed world point slides within its shadow
// texel between frames. A stabilised cascade keeps the drift at zero.
type ShimmerTracker struct {
	window int
	prev   [cascade.MaxCascades]shimmerState
	drift  [cascade.MaxCascades][]float64
	scale  [cascade.MaxCascades][]float64
	next   [cascade.MaxCascades]int
}

// NewShimmerTracker creates a tracker keeping window samples per cascade.
func NewShimmerTracker(window int) *ShimmerTracker {
	if window < 1 {
		window = 120
	}
	return &ShimmerTracker{window: window}
}

// Observe records one frame and returns the drift per cascade in texels.
// The first observation of a cascade reports zero.
func (s *ShimmerTracker) Observe(f cascade.Frame, probe mgl32.Vec3, resolution int) []float64 {
	out := make([]float64, len(f.Results))
	for i, r := range f.Results {
		if i >= cascade.MaxCascades {
			break
		}
		frac := texelFraction(r.Atlas, probe, resolution)
		hw := r.Volume.HalfWidth()

		p := s.prev[i]
		if p.valid {
			dx := wrapDelta(frac[0], p.frac[0])
			dy := wrapDelta(frac[1], p.frac[1])
			out[i] = math.Hypot(dx, dy)
			s.push(i, out[i], math.Abs(float64(hw-p.halfWidth))/float64(p.halfWidth))
		}
		s.prev[i] = shimmerState{valid: true, frac: frac, halfWidth: hw}
	}
	return out
}

func (s *ShimmerTracker) push(i int, drift, scale float64) {
	if len(s.drift[i]) < s.window {
		s.drift[i] = append(s.drift[i], drift)
		s.scale[i] = append(s.scale[i], scale)
		return
	}
	s.drift[i][s.next[i]] = drift
	s.scale[i][s.next[i]] = scale
	s.next[i] = (s.next[i] + 1) % s.window
}

// Stats returns the windowed statistics for cascade i.
func (s *ShimmerTracker) Stats(i int) ShimmerStats {
	if i < 0 || i >= cascade.MaxCascades || len(s.drift[i]) == 0 {
		return ShimmerStats{}
	}
	mean, std := stat.MeanStdDev(s.drift[i], nil)
	var maxDrift float64
	for _, d := range s.drift[i] {
		maxDrift = math.Max(maxDrift, d)
	}
	return ShimmerStats{
		Samples:         len(s.drift[i]),
		MeanDrift:       mean,
		StdDrift:        std,
		MaxDrift:        maxDrift,
		MeanScaleChange: stat.Mean(s.scale[i], nil),
	}
}

// Reset drops all history, e.g. after the settings change.
func (s *ShimmerTracker) Reset() {
	*s = ShimmerTracker{window: s.window}
}

// texelFraction returns the sub-texel position of p in a resolution-wide atlas.
func texelFraction(atlas mgl32.Mat4, p mgl32.Vec3, resolution int) [2]float64 {
	uv := atlas.Mul4x1(p.Vec4(1))
	var out [2]float64
	for i := 0; i < 2; i++ {
		t := float64(uv[i]) * float64(resolution)
		out[i] = t - math.Floor(t)
	}
	return out
}

// wrapDelta is the distance between two fractions on the unit circle.
func wrapDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 1-d)
}
