package cascade

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newTestTracker(t *testing.T, s Settings) (*Tracker, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	tr, err := NewTracker(s, logger)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	return tr, &buf
}

func TestTrackerSkipsMissingInputs(t *testing.T) {
	sc := testScenes()[0]
	tr, _ := newTestTracker(t, DefaultSettings())

	if _, ok := tr.Update(nil, sc.light); ok {
		t.Error("expected no update without a camera")
	}
	if tr.Updates() != 0 {
		t.Errorf("expected 0 updates, got %d", tr.Updates())
	}

	first, ok := tr.Update(sc.cam, sc.light)
	if !ok {
		t.Fatal("expected update with camera and light")
	}

	kept, ok := tr.Update(sc.cam, nil)
	if ok {
		t.Error("expected no update without a light")
	}
	if len(kept.Results) != len(first.Results) || kept.Results[0].Atlas != first.Results[0].Atlas {
		t.Error("expected previous frame to remain in effect")
	}
	if tr.Updates() != 1 {
		t.Errorf("expected 1 update, got %d", tr.Updates())
	}
}

func TestTrackerKeepsFrameOnInvalidCamera(t *testing.T) {
	sc := testScenes()[0]
	tr, buf := newTestTracker(t, DefaultSettings())

	first, _ := tr.Update(sc.cam, sc.light)

	broken := *sc.cam
	broken.Near = 0
	got, ok := tr.Update(&broken, sc.light)
	if ok {
		t.Error("expected invalid camera to skip the update")
	}
	if got.Results[0].View != first.Results[0].View {
		t.Error("expected previous frame to be returned")
	}
	if !strings.Contains(buf.String(), "cascade update skipped") {
		t.Errorf("expected a warning, got %q", buf.String())
	}
}

func TestTrackerCarriesLightViews(t *testing.T) {
	sc := testScenes()[2]
	s := DefaultSettings()
	s.Mode = FitBox
	tr, _ := newTestTracker(t, s)

	f, _ := tr.Update(sc.cam, sc.light)
	if len(tr.prev) != s.Count {
		t.Fatalf("expected %d carried views, got %d", s.Count, len(tr.prev))
	}
	for i, v := range tr.prev {
		if v != f.Results[i].LightView {
			t.Errorf("cascade %d: carried view differs from result", i)
		}
	}

	tr.Reset()
	if tr.prev != nil || len(tr.Frame().Results) != 0 {
		t.Error("expected reset to clear state")
	}
}

func TestTrackerSetSettings(t *testing.T) {
	tr, _ := newTestTracker(t, DefaultSettings())

	bad := DefaultSettings()
	bad.Resolution = 3
	if err := tr.SetSettings(bad); err == nil {
		t.Error("expected invalid settings to be rejected")
	}
	if tr.Settings().Resolution != 2048 {
		t.Errorf("expected settings unchanged, got %d", tr.Settings().Resolution)
	}

	single := Settings{Count: 1, Resolution: 1024}
	if err := tr.SetSettings(single); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	sc := testScenes()[1]
	f, ok := tr.Update(sc.cam, sc.light)
	if !ok || len(f.Results) != 1 {
		t.Errorf("expected one cascade after settings change, got %d", len(f.Results))
	}
}

func TestNewTrackerRejectsInvalidSettings(t *testing.T) {
	if _, err := NewTracker(Settings{}, nil); err == nil {
		t.Error("expected error for zero settings")
	}
}
