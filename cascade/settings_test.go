package cascade

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultSettingsValid(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("expected default settings to validate, got %v", err)
	}
}

func TestSettingsValidate(t *testing.T) {
	base := DefaultSettings()

	testCases := []struct {
		name   string
		mutate func(s *Settings)
		want   error
	}{
		{"zero cascades", func(s *Settings) { s.Count = 0 }, ErrCascadeCount},
		{"five cascades", func(s *Settings) { s.Count = 5 }, ErrCascadeCount},
		{"ratio count", func(s *Settings) { s.Ratios = []float32{0.5} }, ErrSplitRatios},
		{"negative ratio", func(s *Settings) { s.Ratios = []float32{0.2, -0.1, 0.3} }, ErrSplitRatios},
		{"sum above one", func(s *Settings) { s.Ratios = []float32{0.5, 0.4, 0.3} }, ErrSplitRatios},
		{"no remainder", func(s *Settings) { s.Ratios = []float32{0.5, 0.25, 0.25} }, ErrSplitRatios},
		{"full ratios over one", func(s *Settings) { s.Ratios = []float32{0.3, 0.3, 0.3, 0.3} }, ErrSplitRatios},
		{"full ratios under one", func(s *Settings) { s.Ratios = []float32{0.1, 0.1, 0.1, 0.1} }, ErrSplitRatios},
		{"nan ratio", func(s *Settings) { s.Ratios = []float32{float32(math.NaN()), 0.1, 0.1} }, ErrSplitRatios},
		{"infinite ratio", func(s *Settings) { s.Ratios = []float32{float32(math.Inf(1)), 0.1, 0.1} }, ErrSplitRatios},
		{"split three", func(s *Settings) { s.AtlasSplit = 3 }, ErrAtlasSplit},
		{"split too small", func(s *Settings) { s.AtlasSplit = 1 }, ErrAtlasSplit},
		{"odd resolution", func(s *Settings) { s.Resolution = 1025 }, ErrResolution},
		{"tiny resolution", func(s *Settings) { s.Resolution = 16 }, ErrResolution},
		{"bad mode", func(s *Settings) { s.Mode = FitMode(7) }, ErrFitMode},
		{"full ratios", func(s *Settings) { s.Ratios = []float32{0.067, 0.133, 0.267, 0.533} }, nil},
		{"implied split", func(s *Settings) { s.AtlasSplit = 0 }, nil},
	}

	for _, tc := range testCases {
		s := base
		s.Ratios = append([]float32(nil), base.Ratios...)
		tc.mutate(&s)
		err := s.Validate()
		if tc.want == nil {
			if err != nil {
				t.Errorf("%s: unexpected error %v", tc.name, err)
			}
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestSplitDefaults(t *testing.T) {
	single := Settings{Count: 1, Resolution: 1024}
	if got := single.Split(); got != 1 {
		t.Errorf("expected split 1 for one cascade, got %d", got)
	}
	if got := single.SubResolution(); got != 1024 {
		t.Errorf("expected sub resolution 1024, got %d", got)
	}

	multi := Settings{Count: 3, Resolution: 2048}
	if got := multi.Split(); got != 2 {
		t.Errorf("expected split 2 for three cascades, got %d", got)
	}
	if got := multi.SubResolution(); got != 1024 {
		t.Errorf("expected sub resolution 1024, got %d", got)
	}
}

func TestFractions(t *testing.T) {
	s := Settings{Count: 3, Ratios: []float32{0.25, 0.25}}
	got := s.Fractions()
	if len(got) != 3 {
		t.Fatalf("expected 3 fractions, got %d", len(got))
	}
	if !near(got[2], 0.5, 1e-6) {
		t.Errorf("expected remainder 0.5, got %f", got[2])
	}

	full := Settings{Count: 2, Ratios: []float32{0.4, 0.6}}
	if got := full.Fractions(); len(got) != 2 || got[1] != 0.6 {
		t.Errorf("expected ratios unchanged, got %v", got)
	}
}

func TestParseFitMode(t *testing.T) {
	testCases := []struct {
		in   string
		want FitMode
		ok   bool
	}{
		{"sphere", FitSphere, true},
		{"Box", FitBox, true},
		{" aabb ", FitBox, true},
		{"cube", 0, false},
	}

	for _, tc := range testCases {
		got, err := ParseFitMode(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("%q: expected %v, got %v (%v)", tc.in, tc.want, got, err)
		}
		if !tc.ok && !errors.Is(err, ErrFitMode) {
			t.Errorf("%q: expected ErrFitMode, got %v", tc.in, err)
		}
	}

	if FitBox.String() != "box" || FitSphere.String() != "sphere" {
		t.Errorf("unexpected mode names %q %q", FitSphere, FitBox)
	}
}
