package game

import (
	"log/slog"

	"github.com/pthm-cable/antcolony/components"
	"github.com/pthm-cable/antcolony/systems"
	"github.com/pthm-cable/antcolony/telemetry"
)

// flushTelemetry closes the stats window when it is due, and always on
// the tick the game ends.
func (g *Game) flushTelemetry(tick int) {
	if !g.collector.ShouldFlush(tick) && !g.colony.Over() {
		return
	}

	stats := g.collector.Flush(tick, g.sampleColony())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.outputManager.WriteEvents(g.collector.DrainEvents()); err != nil {
			slog.Error("failed to write events", "error", err)
		}
	} else {
		g.collector.DrainEvents()
	}
}

// sampleColony gathers the roster and field state for a stats window.
func (g *Game) sampleColony() telemetry.Sample {
	c := g.colony
	s := telemetry.Sample{
		Directive:     c.Directive.String(),
		ResourceCount: c.ResourceCount,
		Delivered:     c.Delivered,
		SinceDelivery: c.SinceDelivery,
	}

	query := g.antFilter.Query()
	for query.Next() {
		_, _, ant, trail := query.Get()
		if !ant.Alive {
			s.Corpses++
			continue
		}
		s.Alive++
		if ant.State < components.StateDead {
			s.States[ant.State]++
		}
		s.Ages = append(s.Ages, float64(ant.AgeTicks))
		s.TrailLens = append(s.TrailLens, float64(trail.Len()))
	}

	thr := g.cfg.Telemetry.CoverageThreshold
	s.HomeTotal = g.grid.TotalSignal(systems.ChannelHome)
	s.ResourceTotal = g.grid.TotalSignal(systems.ChannelResource)
	s.HomeCoverage = g.grid.Coverage(systems.ChannelHome, thr)
	s.ResourceCoverage = g.grid.Coverage(systems.ChannelResource, thr)
	s.Revealed = g.grid.RevealedCount()
	return s
}
