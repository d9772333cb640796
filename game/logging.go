package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/shadowcascades/telemetry"
)

// logSummary logs perf, shimmer and coverage for the last window.
func (g *Game) logSummary() {
	g.perf.Stats().LogStats()

	records := telemetry.CascadeRecords(int(g.tick), g.frame, g.tracker.Settings().SubResolution(),
		g.drift, g.coverage.Counts(len(g.frame.Results)))
	for i, rec := range records {
		sh := g.shimmer.Stats(i)
		g.logger.Info("cascade",
			"tick", g.tick,
			"record", rec,
			slog.Group("shimmer",
				"samples", sh.Samples,
				"mean_texels", sh.MeanDrift,
				"std_texels", sh.StdDrift,
				"max_texels", sh.MaxDrift,
				"scale_change", sh.MeanScaleChange,
			),
		)
	}

	g.logger.Info("world",
		"tick", g.tick,
		"sim_time", time.Duration(g.time*float64(time.Second)).Round(time.Millisecond),
		"updates", g.tracker.Updates(),
		"covered", g.coverage.Total()-g.coverage.Uncovered,
		"uncovered", g.coverage.Uncovered,
		"straddling", g.coverage.Straddling,
	)
}
