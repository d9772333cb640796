package cascade

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/light"
)

// Phase names reported to a PhaseTimer.
const (
	PhaseSlice     = "slice"
	PhaseFit       = "fit"
	PhaseStabilize = "stabilize"
	PhasePack      = "pack"
)

// basisEpsilon bounds the axis length and cross-axis dot product of a usable
// light orientation.
const basisEpsilon = 1e-3

var (
	// ErrMissingInput is returned when the camera or light is nil.
	ErrMissingInput = errors.New("missing camera or light")

	// ErrLightBasis is returned when the light orientation is not orthonormal,
	// e.g. a light built from a zero direction.
	ErrLightBasis = errors.New("light orientation is not orthonormal")
)

// PhaseTimer receives phase boundaries while a frame is computed.
type PhaseTimer interface {
	StartPhase(phase string)
}

// Result holds everything produced for one cascade.
type Result struct {
	Index  int
	Slice  Slice
	Volume BoundingVolume
	Fit    Fit

	// LightView is threaded into the next frame's box fit.
	LightView LightView

	View  mgl32.Mat4
	Proj  mgl32.Mat4
	Atlas mgl32.Mat4

	Bias          float32
	CullingSphere mgl32.Vec4
}

// Frame is the full output of one update.
type Frame struct {
	Results  []Result
	Uniforms Uniforms
}

// LightViews returns the per-cascade light views to pass as prev next frame.
func (f Frame) LightViews() []LightView {
	out := make([]LightView, len(f.Results))
	for i, r := range f.Results {
		out[i] = r.LightView
	}
	return out
}

// Compute runs the whole pipeline for one frame. prev holds last frame's light
// views by cascade index and may be shorter than the cascade count.
func Compute(cam *camera.Camera, l *light.Directional, s Settings, prev []LightView) (Frame, error) {
	return compute(cam, l, s, prev, nil)
}

func compute(cam *camera.Camera, l *light.Directional, s Settings, prev []LightView, timer PhaseTimer) (Frame, error) {
	if cam == nil || l == nil {
		return Frame{}, ErrMissingInput
	}
	if err := s.Validate(); err != nil {
		return Frame{}, fmt.Errorf("validating settings: %w", err)
	}
	if err := cam.Validate(); err != nil {
		return Frame{}, fmt.Errorf("validating camera: %w", err)
	}
	if !l.Orientation.IsOrthonormal(basisEpsilon) {
		return Frame{}, ErrLightBasis
	}

	phase := func(name string) {
		if timer != nil {
			timer.StartPhase(name)
		}
	}

	layout := NewAtlasLayout(s.Split(), s.Resolution)
	texels := layout.SubResolution
	fitter := NewFitter(s.Mode)

	phase(PhaseSlice)
	bounds := Splits(cam.Near, cam.Far, s.Fractions())
	slices := make([]Slice, s.Count)
	for i := range slices {
		slices[i] = SliceFrustum(cam, i, bounds[i], bounds[i+1])
	}

	phase(PhaseFit)
	results := make([]Result, s.Count)
	for i, sl := range slices {
		var p LightView
		if i < len(prev) {
			p = prev[i]
		}
		fit := fitter.Fit(sl, l, p, texels)
		results[i] = Result{
			Index:     i,
			Slice:     sl,
			Volume:    fit.Volume,
			Fit:       fit,
			LightView: fit.LightView,
		}
	}

	phase(PhaseStabilize)
	for i := range results {
		r := &results[i]
		view, proj := BuildMatrices(r.Volume.Center, l.Orientation, r.Volume.HalfExtents, r.Fit.ZNear, r.Fit.ZFar)
		r.View = view
		r.Proj = Stabilize(view, proj, texels)
	}

	phase(PhasePack)
	u := Pack(results, layout, s.ReversedZ)
	for i := range results {
		results[i].Atlas = u.WorldToShadow[i]
		results[i].Bias = u.Bias[i]
		results[i].CullingSphere = u.CullingSpheres[i]
	}

	return Frame{Results: results, Uniforms: u}, nil
}
