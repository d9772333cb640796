package telemetry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/cascade"
	"github.com/pthm-cable/shadowcascades/light"
)

func computeFrame(t *testing.T, cam *camera.Camera, l *light.Directional, s cascade.Settings) cascade.Frame {
	t.Helper()
	f, err := cascade.Compute(cam, l, s, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	return f
}

func TestShimmerStaticFrameHasNoDrift(t *testing.T) {
	cam := camera.New(mgl32.Vec3{0, 5, -20}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(60), 1.5, 0.3, 100)
	l := light.FromSun(30, 50)
	s := cascade.DefaultSettings()
	f := computeFrame(t, cam, l, s)

	st := NewShimmerTracker(10)
	probe := mgl32.Vec3{1.3, 0, 2.7}
	first := st.Observe(f, probe, s.Resolution)
	for i, d := range first {
		if d != 0 {
			t.Errorf("cascade %d: expected zero drift on first frame, got %f", i, d)
		}
	}

	second := st.Observe(f, probe, s.Resolution)
	for i, d := range second {
		if d != 0 {
			t.Errorf("cascade %d: expected zero drift for identical frames, got %f", i, d)
		}
	}
	if got := st.Stats(0).Samples; got != 1 {
		t.Errorf("expected 1 sample, got %d", got)
	}
}

func TestShimmerStabilizedTranslation(t *testing.T) {
	for _, mode := range []cascade.FitMode{cascade.FitSphere, cascade.FitBox} {
		l := light.FromSun(45, 60)
		s := cascade.DefaultSettings()
		s.Mode = mode
		tr, err := cascade.NewTracker(s, nil)
		if err != nil {
			t.Fatalf("unexpected error %v", err)
		}

		st := NewShimmerTracker(50)
		probe := mgl32.Vec3{2, 0, 3}
		cam := camera.New(mgl32.Vec3{0, 5, -20}, mgl32.Vec3{0, 5, 0}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(60), 1.5, 0.3, 100)

		// Pure translation keeps every projection the same size, so the probe must
		// keep its sub-texel position.
		for i := 0; i < 20; i++ {
			cam.Position = cam.Position.Add(mgl32.Vec3{0.037, 0, 0.0113})
			f, ok := tr.Update(cam, l)
			if !ok {
				t.Fatalf("%s: update %d failed", mode, i)
			}
			st.Observe(f, probe, s.Resolution)
		}

		for c := 0; c < s.Count; c++ {
			stats := st.Stats(c)
			if stats.MaxDrift > 0.05 {
				t.Errorf("%s cascade %d: expected stable texels, max drift %f", mode, c, stats.MaxDrift)
			}
			if stats.MeanScaleChange > 1e-4 {
				t.Errorf("%s cascade %d: expected constant scale, got %f", mode, c, stats.MeanScaleChange)
			}
		}
	}
}

func TestShimmerStatsWindow(t *testing.T) {
	st := NewShimmerTracker(3)
	for _, d := range []float64{0.1, 0.2, 0.3, 0.4, 0.5} {
		st.push(1, d, 0)
	}

	stats := st.Stats(1)
	if stats.Samples != 3 {
		t.Fatalf("expected 3 samples, got %d", stats.Samples)
	}
	if math.Abs(stats.MeanDrift-0.4) > 1e-9 {
		t.Errorf("expected mean 0.4 over the last window, got %f", stats.MeanDrift)
	}
	if math.Abs(stats.StdDrift-0.1) > 1e-9 {
		t.Errorf("expected std 0.1, got %f", stats.StdDrift)
	}
	if stats.MaxDrift != 0.5 {
		t.Errorf("expected max 0.5, got %f", stats.MaxDrift)
	}

	if got := st.Stats(7); got.Samples != 0 {
		t.Errorf("expected empty stats for unknown cascade, got %+v", got)
	}

	st.Reset()
	if st.Stats(1).Samples != 0 {
		t.Error("expected reset to clear history")
	}
}

func TestWrapDelta(t *testing.T) {
	testCases := []struct {
		a, b, want float64
	}{
		{0.1, 0.1, 0},
		{0.1, 0.3, 0.2},
		{0.95, 0.05, 0.1},
	}
	for _, tc := range testCases {
		if got := wrapDelta(tc.a, tc.b); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("wrapDelta(%f, %f): expected %f, got %f", tc.a, tc.b, tc.want, got)
		}
	}
}
