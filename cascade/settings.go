// Package cascade computes per-frame cascaded shadow map parameters for one
// directional light and one perspective camera.
//
// Each frame the camera frustum is split into depth slices, a bounding volume is
// fitted to every slice in light space, an orthographic projection is derived and
// snapped to the shadow map texel grid, and the results are packed into a shared
// atlas together with depth-bias scalars and culling spheres.
package cascade

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxCascades is the largest supported cascade count.
const MaxCascades = 4

// minResolution is the smallest per-cascade shadow map edge in texels.
const minResolution = 16

// ratioEpsilon absorbs float rounding when checking that ratios sum to one.
const ratioEpsilon = 1e-4

// Configuration errors returned by Settings.Validate.
var (
	ErrCascadeCount = errors.New("cascade count out of range")
	ErrSplitRatios  = errors.New("invalid split ratios")
	ErrResolution   = errors.New("invalid shadow map resolution")
	ErrAtlasSplit   = errors.New("invalid atlas split")
	ErrFitMode      = errors.New("unknown fit mode")
)

// FitMode selects the bounding volume strategy.
type FitMode int

const (
	// FitSphere circumscribes each slice with a texel-snapped sphere.
	FitSphere FitMode = iota
	// FitBox fits a light-space box measured in the previous frame's light view.
	FitBox
)

// String returns the configuration name of the mode.
func (m FitMode) String() string {
	switch m {
	case FitSphere:
		return "sphere"
	case FitBox:
		return "box"
	default:
		return fmt.Sprintf("FitMode(%d)", int(m))
	}
}

// ParseFitMode converts a configuration name into a FitMode.
func ParseFitMode(s string) (FitMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sphere":
		return FitSphere, nil
	case "box", "aabb":
		return FitBox, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrFitMode, s)
	}
}

// Settings configures the cascade computation.
type Settings struct {
	// Count is the number of cascades, 1..MaxCascades.
	Count int

	// Ratios holds the fraction of the depth range covered by each cascade.
	// With Count-1 entries the last cascade takes the remainder; with Count
	// entries they must sum to 1.
	Ratios []float32

	// Resolution is the atlas edge in texels. Each cascade gets Resolution/AtlasSplit.
	Resolution int

	Mode FitMode

	// AtlasSplit is the number of tiles per atlas row and column (1 or 2).
	// Zero selects 1 for a single cascade and 2 otherwise.
	AtlasSplit int

	// ReversedZ flips the depth row of the world-to-shadow matrix.
	ReversedZ bool
}

// DefaultSettings returns four sphere-fitted cascades in a 2048 texel 2x2 atlas.
func DefaultSettings() Settings {
	return Settings{
		Count:      4,
		Ratios:     []float32{0.067, 0.133, 0.267},
		Resolution: 2048,
		Mode:       FitSphere,
		AtlasSplit: 2,
	}
}

// Split returns the effective atlas split factor.
func (s Settings) Split() int {
	if s.AtlasSplit != 0 {
		return s.AtlasSplit
	}
	if s.Count == 1 {
		return 1
	}
	return 2
}

// SubResolution returns the edge length in texels of one cascade tile.
func (s Settings) SubResolution() int {
	return s.Resolution / s.Split()
}

// Validate checks the settings and returns a wrapped sentinel error on failure.
func (s Settings) Validate() error {
	if s.Count < 1 || s.Count > MaxCascades {
		return fmt.Errorf("%w: %d (want 1..%d)", ErrCascadeCount, s.Count, MaxCascades)
	}

	if n := len(s.Ratios); n != s.Count && n != s.Count-1 {
		return fmt.Errorf("%w: got %d ratios for %d cascades", ErrSplitRatios, n, s.Count)
	}
	var sum float32
	for i, r := range s.Ratios {
		if !(r > 0) || math.IsInf(float64(r), 0) {
			return fmt.Errorf("%w: ratio %d is %f", ErrSplitRatios, i, r)
		}
		sum += r
	}
	if sum > 1+ratioEpsilon {
		return fmt.Errorf("%w: ratios sum to %f", ErrSplitRatios, sum)
	}
	if len(s.Ratios) == s.Count-1 && sum >= 1 {
		return fmt.Errorf("%w: no depth left for the last cascade (sum %f)", ErrSplitRatios, sum)
	}
	if len(s.Ratios) == s.Count && sum < 1-ratioEpsilon {
		return fmt.Errorf("%w: %d ratios sum to %f, want 1", ErrSplitRatios, s.Count, sum)
	}

	k := s.Split()
	if k != 1 && k != 2 {
		return fmt.Errorf("%w: %d (want 1 or 2)", ErrAtlasSplit, k)
	}
	if k*k < s.Count {
		return fmt.Errorf("%w: %dx%d atlas cannot hold %d cascades", ErrAtlasSplit, k, k, s.Count)
	}

	if s.Resolution%k != 0 || s.Resolution/k < minResolution {
		return fmt.Errorf("%w: %d texels with split %d", ErrResolution, s.Resolution, k)
	}

	if s.Mode != FitSphere && s.Mode != FitBox {
		return fmt.Errorf("%w: %d", ErrFitMode, int(s.Mode))
	}
	return nil
}

// Fractions returns one ratio per cascade, appending the implied remainder.
func (s Settings) Fractions() []float32 {
	out := make([]float32, 0, s.Count)
	var sum float32
	for _, r := range s.Ratios {
		out = append(out, r)
		sum += r
	}
	if len(out) < s.Count {
		out = append(out, 1-sum)
	}
	return out
}
