package game

// Frame is what the clock grants for one call to Advance.
type Frame struct {
	Motion      bool // Run one motion pass
	LogicTicks  int  // Run this many logic passes
	SampleTrail bool // Append positions to trails this frame
}

// Clock schedules the motion and logic passes on simulation time.
// The motion pass runs once per unpaused frame. Logic ticks accrue at
// LogicInterval/speed; at most maxPerFrame run per frame and the
// remaining backlog is discarded rather than replayed later.
type Clock struct {
	logicInterval float64
	trailInterval float64
	maxPerFrame   int
	minSpeed      float64
	maxSpeed      float64

	speed  float64
	paused bool

	logicAcc float64
	trailAcc float64

	tick    int     // Logic ticks run
	frames  int     // Motion passes run
	elapsed float64 // Simulation seconds advanced
	dropped int     // Logic ticks discarded by the catch-up cap
}

// NewClock creates a running clock at speed 1.
func NewClock(logicInterval, trailInterval float64, maxPerFrame int, minSpeed, maxSpeed float64) *Clock {
	if maxPerFrame < 1 {
		maxPerFrame = 1
	}
	return &Clock{
		logicInterval: logicInterval,
		trailInterval: trailInterval,
		maxPerFrame:   maxPerFrame,
		minSpeed:      minSpeed,
		maxSpeed:      maxSpeed,
		speed:         1,
	}
}

// Advance consumes dt seconds of wall time and returns the passes to run.
// A paused clock grants nothing and accumulates nothing.
func (c *Clock) Advance(dt float64) Frame {
	if c.paused || dt <= 0 {
		return Frame{}
	}
	c.frames++

	sim := dt * c.speed
	c.elapsed += sim

	c.logicAcc += sim
	n := int(c.logicAcc / c.logicInterval)
	c.logicAcc -= float64(n) * c.logicInterval
	if n > c.maxPerFrame {
		c.dropped += n - c.maxPerFrame
		n = c.maxPerFrame
	}

	c.trailAcc += sim
	trail := false
	if c.trailAcc >= c.trailInterval {
		trail = true
		// One sample per frame; surplus intervals are not queued.
		c.trailAcc = 0
	}

	return Frame{Motion: true, LogicTicks: n, SampleTrail: trail}
}

// NextTick advances the logic tick counter and returns the new tick.
func (c *Clock) NextTick() int {
	c.tick++
	return c.tick
}

// Tick returns the number of logic ticks run.
func (c *Clock) Tick() int { return c.tick }

// Frames returns the number of motion passes granted.
func (c *Clock) Frames() int { return c.frames }

// Elapsed returns the simulation seconds advanced.
func (c *Clock) Elapsed() float64 { return c.elapsed }

// Dropped returns the number of logic ticks discarded by the catch-up cap.
func (c *Clock) Dropped() int { return c.dropped }

// Speed returns the current speed multiplier.
func (c *Clock) Speed() float64 { return c.speed }

// SetSpeed sets the speed multiplier, clamped to the configured bounds.
// It returns the value applied.
func (c *Clock) SetSpeed(s float64) float64 {
	c.speed = min(max(s, c.minSpeed), c.maxSpeed)
	return c.speed
}

// Pause freezes the clock.
func (c *Clock) Pause() { c.paused = true }

// Resume restarts the clock without replaying paused time. Partial
// accumulation from before the pause is dropped.
func (c *Clock) Resume() {
	if !c.paused {
		return
	}
	c.paused = false
	c.logicAcc = 0
	c.trailAcc = 0
}

// Paused reports whether the clock is paused.
func (c *Clock) Paused() bool { return c.paused }
