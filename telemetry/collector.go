package telemetry

import "gonum.org/v1/gonum/stat"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowTicks int
	tickSec     float64

	windowStartTick int

	spawns     int
	pickups    int
	deliveries int
	deaths     int

	pending []Event
}

// NewCollector creates a stats collector flushing every windowTicks logic
// ticks of tickSec simulation seconds each.
func NewCollector(windowTicks int, tickSec float64) *Collector {
	return &Collector{windowTicks: max(1, windowTicks), tickSec: tickSec}
}

// Record counts an event and queues it for output.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSpawn:
		c.spawns++
	case EventPickup:
		c.pickups++
	case EventDelivery:
		c.deliveries++
	case EventDeath:
		c.deaths++
	}
	c.pending = append(c.pending, ev)
}

// DrainEvents returns queued events and clears the queue.
func (c *Collector) DrainEvents() []Event {
	out := c.pending
	c.pending = nil
	return out
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(tick int) bool {
	return tick-c.windowStartTick >= c.windowTicks
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(tick int, s Sample) WindowStats {
	ageMean, ageStd, p10, p50, p90 := Distribution(s.Ages)

	var trailMean float64
	if len(s.TrailLens) > 0 {
		trailMean = stat.Mean(s.TrailLens, nil)
	}

	var rate float64
	if span := float64(tick-c.windowStartTick) * c.tickSec; span > 0 {
		rate = float64(c.deliveries) / span
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   tick,
		SimTimeSec:      float64(tick) * c.tickSec,
		Directive:       s.Directive,

		Alive:   s.Alive,
		Corpses: s.Corpses,
		Explore: s.States[0],
		Harvest: s.States[1],
		Return:  s.States[2],
		Defend:  s.States[3],

		ResourceCount: s.ResourceCount,
		Delivered:     s.Delivered,
		SinceDelivery: s.SinceDelivery,

		Spawns:       c.spawns,
		Pickups:      c.pickups,
		Deliveries:   c.deliveries,
		Deaths:       c.deaths,
		DeliveryRate: rate,

		AgeMean: ageMean,
		AgeStd:  ageStd,
		AgeP10:  p10,
		AgeP50:  p50,
		AgeP90:  p90,

		TrailMean: trailMean,

		HomeTotal:        s.HomeTotal,
		ResourceTotal:    s.ResourceTotal,
		HomeCoverage:     s.HomeCoverage,
		ResourceCoverage: s.ResourceCoverage,
		Revealed:         s.Revealed,
	}

	c.windowStartTick = tick
	c.spawns = 0
	c.pickups = 0
	c.deliveries = 0
	c.deaths = 0

	return stats
}

// WindowTicks returns the number of logic ticks per window.
func (c *Collector) WindowTicks() int {
	return c.windowTicks
}
