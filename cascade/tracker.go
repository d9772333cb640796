package cascade

import (
	"log/slog"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/light"
)

// Tracker owns the state carried between frames: the last frame and the light
// views the box fitter reads back. It is not safe for concurrent use.
type Tracker struct {
	settings Settings
	logger   *slog.Logger
	timer    PhaseTimer

	frame   Frame
	prev    []LightView
	updates int
}

// NewTracker validates s and returns a tracker. A nil logger uses slog.Default().
func NewTracker(s Settings, logger *slog.Logger) (*Tracker, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{settings: s, logger: logger}, nil
}

// SetTimer installs a phase timer; nil disables timing.
func (t *Tracker) SetTimer(pt PhaseTimer) {
	t.timer = pt
}

// Settings returns the active settings.
func (t *Tracker) Settings() Settings {
	return t.settings
}

// SetSettings swaps the settings and drops the carried light views.
func (t *Tracker) SetSettings(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	t.settings = s
	t.Reset()
	return nil
}

// Reset forgets the previous frame.
func (t *Tracker) Reset() {
	t.frame = Frame{}
	t.prev = nil
}

// Frame returns the most recent successful frame.
func (t *Tracker) Frame() Frame {
	return t.frame
}

// Updates returns the number of successful updates.
func (t *Tracker) Updates() int {
	return t.updates
}

// Update computes a new frame. When the camera or light is missing, or the camera
// is unusable, the previous frame is returned unchanged with false.
func (t *Tracker) Update(cam *camera.Camera, l *light.Directional) (Frame, bool) {
	if cam == nil || l == nil {
		return t.frame, false
	}

	f, err := compute(cam, l, t.settings, t.prev, t.timer)
	if err != nil {
		t.logger.Warn("cascade update skipped", "error", err)
		return t.frame, false
	}

	for _, r := range f.Results {
		if r.Fit.Degenerate {
			t.logger.Warn("degenerate cascade sphere, using centroid bound",
				"cascade", r.Index,
				"near", r.Slice.Near,
				"far", r.Slice.Far,
			)
		}
	}

	t.frame = f
	t.prev = f.LightViews()
	t.updates++
	return f, true
}
