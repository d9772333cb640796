package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/shadowcascades/config"
)

// csvSink is one CSV file; the header goes out with the first batch.
type csvSink struct {
	file          *os.File
	headerWritten bool
}

func writeRows[T any](s *csvSink, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	if !s.headerWritten {
		if err := gocsv.Marshal(rows, s.file); err != nil {
			return err
		}
		s.headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(rows, s.file)
}

// OutputManager writes the per-frame trace of a run.
// A nil *OutputManager is valid and discards everything.
type OutputManager struct {
	dir      string
	cascades *csvSink
	frames   *csvSink
	perf     *csvSink
}

// NewOutputManager creates the output directory and its CSV files.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}
	for _, f := range []struct {
		name string
		sink **csvSink
	}{
		{"cascades.csv", &om.cascades},
		{"frames.csv", &om.frames},
		{"perf.csv", &om.perf},
	} {
		file, err := os.Create(filepath.Join(dir, f.name))
		if err != nil {
			om.Close()
			return nil, fmt.Errorf("creating %s: %w", f.name, err)
		}
		*f.sink = &csvSink{file: file}
	}
	return om, nil
}

// WriteConfig saves the configuration used for the run as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteCascades appends per-cascade records to cascades.csv.
func (om *OutputManager) WriteCascades(records []CascadeRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.cascades, records); err != nil {
		return fmt.Errorf("writing cascades: %w", err)
	}
	return nil
}

// WriteFrame appends a frame summary to frames.csv.
func (om *OutputManager) WriteFrame(rec FrameRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.frames, []FrameRecord{rec}); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}
	return nil
}

// WritePerf appends a performance summary to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, frame int) error {
	if om == nil {
		return nil
	}
	if err := writeRows(om.perf, []PerfStatsCSV{stats.ToCSV(frame)}); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	var firstErr error
	for _, s := range []*csvSink{om.cascades, om.frames, om.perf} {
		if s == nil || s.file == nil {
			continue
		}
		if err := s.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
