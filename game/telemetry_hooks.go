package game

import (
	"log/slog"

	"github.com/pthm-cable/steer/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	agents := g.world.Agents()
	stats := g.collector.Flush(g.tick, agents)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick, len(agents)); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		g.saveSnapshot(&bm)
	}
}

// saveSnapshot dumps the world to the snapshot directory and, when output is
// enabled, to the run directory.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	if g.snapshotDir == "" && g.outputManager == nil {
		return
	}

	snapshot := telemetry.NewSnapshot(g.world, g.seed, g.tick)
	snapshot.Bookmark = bookmark

	if g.snapshotDir != "" {
		path, err := telemetry.SaveSnapshot(snapshot, g.snapshotDir)
		if err != nil {
			slog.Error("failed to save snapshot", "error", err)
		} else {
			slog.Info("snapshot saved", "path", path, "tick", g.tick)
		}
	}

	if path, err := g.outputManager.WriteSnapshot(snapshot); err != nil {
		slog.Error("failed to save snapshot", "error", err)
	} else if path != "" {
		slog.Info("snapshot saved", "path", path, "tick", g.tick)
	}
}

// SaveSnapshot writes an unbookmarked snapshot of the current tick.
func (g *Game) SaveSnapshot() {
	g.saveSnapshot(nil)
}
