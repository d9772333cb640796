package telemetry

import (
	"log/slog"

	"github.com/pthm-cable/shadowcascades/cascade"
)

// CascadeRecord is one cascade of one frame, flattened for CSV export.
type CascadeRecord struct {
	Frame      int     `csv:"frame"`
	Cascade    int     `csv:"cascade"`
	Near       float32 `csv:"near"`
	Far        float32 `csv:"far"`
	CenterX    float32 `csv:"center_x"`
	CenterY    float32 `csv:"center_y"`
	CenterZ    float32 `csv:"center_z"`
	Radius     float32 `csv:"radius"`
	HalfX      float32 `csv:"half_x"`
	HalfY      float32 `csv:"half_y"`
	HalfZ      float32 `csv:"half_z"`
	TexelWorld float32 `csv:"texel_world"`
	Bias       float32 `csv:"bias"`
	Degenerate bool    `csv:"degenerate"`
	Drift      float64 `csv:"drift_texels"`
	ViewCond   float64 `csv:"view_cond"`
	InverseErr float64 `csv:"inverse_error"`
	Casters    int     `csv:"casters"`
}

// FrameRecord summarises one frame.
type FrameRecord struct {
	Frame      int     `csv:"frame"`
	Time       float64 `csv:"time"`
	Updated    bool    `csv:"updated"`
	CameraX    float32 `csv:"camera_x"`
	CameraY    float32 `csv:"camera_y"`
	CameraZ    float32 `csv:"camera_z"`
	Mode       string  `csv:"mode"`
	Cascades   int     `csv:"cascades"`
	Degenerate int     `csv:"degenerate"`
	MaxDrift   float64 `csv:"max_drift_texels"`
	Uncovered  int     `csv:"uncovered_casters"`
}

// CascadeRecords flattens a frame. drift and casters are indexed by cascade and
// may be nil.
func CascadeRecords(frame int, f cascade.Frame, subResolution int, drift []float64, casters []int) []CascadeRecord {
	out := make([]CascadeRecord, len(f.Results))
	for i, r := range f.Results {
		v := r.Volume
		out[i] = CascadeRecord{
			Frame:      frame,
			Cascade:    r.Index,
			Near:       r.Slice.Near,
			Far:        r.Slice.Far,
			CenterX:    v.Center.X(),
			CenterY:    v.Center.Y(),
			CenterZ:    v.Center.Z(),
			Radius:     v.Radius,
			HalfX:      v.HalfExtents.X(),
			HalfY:      v.HalfExtents.Y(),
			HalfZ:      v.HalfExtents.Z(),
			TexelWorld: 2 * v.HalfWidth() / float32(subResolution),
			Bias:       r.Bias,
			Degenerate: r.Fit.Degenerate,
			ViewCond:   ViewCondition(r.View),
			InverseErr: InverseError(r.View),
		}
		if i < len(drift) {
			out[i].Drift = drift[i]
		}
		if i < len(casters) {
			out[i].Casters = casters[i]
		}
	}
	return out
}

// LogValue implements slog.LogValuer.
func (r CascadeRecord) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("cascade", r.Cascade),
		slog.Float64("near", float64(r.Near)),
		slog.Float64("far", float64(r.Far)),
		slog.Float64("radius", float64(r.Radius)),
		slog.Float64("texel_world", float64(r.TexelWorld)),
		slog.Float64("drift_texels", r.Drift),
		slog.Int("casters", r.Casters),
	)
}
