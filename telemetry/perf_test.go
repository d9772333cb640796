package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/shadowcascades/cascade"
)

// PerfCollector is handed to the cascade tracker as its phase timer.
var _ cascade.PhaseTimer = (*PerfCollector)(nil)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseFit)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhasePack)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average step duration")
	}
	if _, ok := stats.PhaseAvg[PhaseFit]; !ok {
		t.Error("expected fit phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhasePack]; !ok {
		t.Error("expected pack phase to be tracked")
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("expected min <= max, got %v > %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSlice)
		time.Sleep(50 * time.Microsecond)
		pc.EndTick()
	}

	if pc.sampleCount != 5 {
		t.Errorf("expected window of 5 samples, got %d", pc.sampleCount)
	}
	stats := pc.Stats()
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseStabilize)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseCasters)
		time.Sleep(2 * time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseCasters] <= stats.PhasePct[PhaseStabilize] {
		t.Errorf("expected casters (%v%%) > stabilize (%v%%)",
			stats.PhasePct[PhaseCasters], stats.PhasePct[PhaseStabilize])
	}

	row := stats.ToCSV(42)
	if row.Frame != 42 || row.CastersPct != stats.PhasePct[PhaseCasters] {
		t.Errorf("unexpected csv row %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()

	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg step duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}
	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}
}
