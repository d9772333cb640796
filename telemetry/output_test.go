package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/shadowcascades/camera"
	"github.com/pthm-cable/shadowcascades/cascade"
	"github.com/pthm-cable/shadowcascades/config"
	"github.com/pthm-cable/shadowcascades/light"
)

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("expected nil manager for empty dir, got %v %v", om, err)
	}

	if err := om.WriteFrame(FrameRecord{}); err != nil {
		t.Errorf("expected nil manager to discard frames, got %v", err)
	}
	if err := om.WriteCascades([]CascadeRecord{{}}); err != nil {
		t.Errorf("expected nil manager to discard cascades, got %v", err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("expected nil manager to be inert")
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	cam := camera.New(mgl32.Vec3{0, 5, -20}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(60), 1.5, 0.3, 100)
	s := cascade.DefaultSettings()
	f, err := cascade.Compute(cam, light.FromSun(30, 50), s, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	for frame := 0; frame < 3; frame++ {
		recs := CascadeRecords(frame, f, s.SubResolution(), nil, []int{5, 6, 7, 8})
		if err := om.WriteCascades(recs); err != nil {
			t.Fatalf("unexpected write error %v", err)
		}
		if err := om.WriteFrame(FrameRecord{Frame: frame, Updated: true, Mode: s.Mode.String(), Cascades: s.Count}); err != nil {
			t.Fatalf("unexpected write error %v", err)
		}
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("unexpected config error %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("unexpected config write error %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("unexpected close error %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "cascades.csv"))
	if err != nil {
		t.Fatalf("reading cascades.csv: %v", err)
	}
	if n := strings.Count(string(data), "frame,cascade"); n != 1 {
		t.Errorf("expected one header line, got %d", n)
	}

	var rows []CascadeRecord
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatalf("parsing cascades.csv: %v", err)
	}
	if len(rows) != 3*s.Count {
		t.Fatalf("expected %d rows, got %d", 3*s.Count, len(rows))
	}
	if rows[5].Frame != 1 || rows[5].Cascade != 1 || rows[5].Casters != 6 {
		t.Errorf("unexpected row %+v", rows[5])
	}

	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("expected config snapshot: %v", err)
	}
}

func TestCascadeRecords(t *testing.T) {
	cam := camera.New(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}, mgl32.DegToRad(60), 1, 0.5, 50)
	s := cascade.Settings{Count: 2, Ratios: []float32{0.25}, Resolution: 1024, Mode: cascade.FitBox}
	f, err := cascade.Compute(cam, light.NewDirectional(mgl32.Vec3{0, -1, 0}), s, nil)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	recs := CascadeRecords(9, f, s.SubResolution(), []float64{0.25}, nil)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Drift != 0.25 || recs[1].Drift != 0 {
		t.Errorf("expected drift only for cascade 0, got %f %f", recs[0].Drift, recs[1].Drift)
	}
	if recs[1].Near != recs[0].Far || recs[1].Far != 50 {
		t.Errorf("expected contiguous ranges, got %+v", recs)
	}
	want := 2 * recs[0].HalfX / 512
	if recs[0].TexelWorld != want {
		t.Errorf("expected texel size %f, got %f", want, recs[0].TexelWorld)
	}
	for _, r := range recs {
		if math.Abs(r.ViewCond-1) > 1e-3 {
			t.Errorf("cascade %d: expected rigid view, got condition %f", r.Cascade, r.ViewCond)
		}
		if r.InverseErr > 1e-5 {
			t.Errorf("cascade %d: expected invertible view, got inverse error %g", r.Cascade, r.InverseErr)
		}
	}
}
