package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase is one timed section of a simulation frame.
type Phase uint8

const (
	PhaseMotion    Phase = iota // Steering, integration and cell events
	PhaseField                  // Decay and diffusion
	PhaseAgents                 // Deposits, pickups and deliveries
	PhaseReinforce              // Home beacon
	PhaseLifecycle              // Corpse pruning, spawning, termination
	PhaseTelemetry
	NumPhases
)

var phaseNames = [NumPhases]string{"motion", "field", "agents", "reinforce", "lifecycle", "telemetry"}

func (p Phase) String() string {
	if p < NumPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// frameSample is the timing of one simulation frame: a motion pass and
// the logic ticks granted alongside it.
type frameSample struct {
	total  time.Duration
	phases [NumPhases]time.Duration
	logic  int
}

// PerfCollector times simulation frames over a rolling window.
type PerfCollector struct {
	window []frameSample
	next   int
	filled int

	cur        frameSample
	frameStart time.Time
	phaseStart time.Time
	phase      Phase
	timing     bool

	lastRender time.Time
	renderDur  time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{window: make([]frameSample, windowSize)}
}

// BeginFrame starts timing a frame in the motion phase.
func (p *PerfCollector) BeginFrame() {
	now := time.Now()
	p.cur = frameSample{}
	p.frameStart, p.phaseStart = now, now
	p.phase = PhaseMotion
	p.timing = true
}

// Enter closes the running phase and starts ph.
func (p *PerfCollector) Enter(ph Phase) {
	if !p.timing || ph >= NumPhases {
		return
	}
	now := time.Now()
	p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	p.phase, p.phaseStart = ph, now
}

// LogicTick counts one logic pass in the current frame.
func (p *PerfCollector) LogicTick() {
	if p.timing {
		p.cur.logic++
	}
}

// EndFrame closes the frame and stores it in the window.
func (p *PerfCollector) EndFrame() {
	if !p.timing {
		return
	}
	now := time.Now()
	p.cur.phases[p.phase] += now.Sub(p.phaseStart)
	p.cur.total = now.Sub(p.frameStart)

	p.window[p.next] = p.cur
	p.next = (p.next + 1) % len(p.window)
	p.filled = min(p.filled+1, len(p.window))
	p.timing = false
}

// RecordRender marks a drawn frame; the interval feeds RenderFPS.
func (p *PerfCollector) RecordRender() {
	now := time.Now()
	if !p.lastRender.IsZero() {
		p.renderDur = now.Sub(p.lastRender)
	}
	p.lastRender = now
}

// PerfStats summarises the window.
type PerfStats struct {
	Frames   int
	AvgFrame time.Duration
	P95Frame time.Duration
	MaxFrame time.Duration

	PhaseAvg [NumPhases]time.Duration
	PhasePct [NumPhases]float64 // Share of total frame time

	LogicPerFrame float64       // Mean logic ticks per frame
	LogicAvg      time.Duration // Mean cost of one logic tick
	Headroom      float64       // Frames per second the simulation alone could sustain

	RenderFPS float64
}

// Stats aggregates the frames in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{Frames: p.filled}
	if p.renderDur > 0 {
		s.RenderFPS = float64(time.Second) / float64(p.renderDur)
	}
	if p.filled == 0 {
		return s
	}

	frames := p.window[:p.filled]
	totals := make([]float64, len(frames))
	var sum time.Duration
	var phaseSum [NumPhases]time.Duration
	logic := 0
	for i, f := range frames {
		totals[i] = float64(f.total)
		sum += f.total
		s.MaxFrame = max(s.MaxFrame, f.total)
		for ph, d := range f.phases {
			phaseSum[ph] += d
		}
		logic += f.logic
	}

	n := time.Duration(len(frames))
	s.AvgFrame = sum / n
	slices.Sort(totals)
	s.P95Frame = time.Duration(stat.Quantile(0.95, stat.Empirical, totals, nil))
	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if sum > 0 {
			s.PhasePct[ph] = float64(phaseSum[ph]) / float64(sum) * 100
		}
	}

	s.LogicPerFrame = float64(logic) / float64(len(frames))
	if logic > 0 {
		s.LogicAvg = (sum - phaseSum[PhaseMotion]) / time.Duration(logic)
	}
	if s.AvgFrame > 0 {
		s.Headroom = float64(time.Second) / float64(s.AvgFrame)
	}
	return s
}

// LogStats logs the summary at Info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("frames", s.Frames),
		slog.Int64("avg_frame_us", s.AvgFrame.Microseconds()),
		slog.Int64("p95_frame_us", s.P95Frame.Microseconds()),
		slog.Int64("max_frame_us", s.MaxFrame.Microseconds()),
		slog.Float64("logic_per_frame", s.LogicPerFrame),
		slog.Int64("logic_avg_us", s.LogicAvg.Microseconds()),
		slog.Int("headroom_fps", int(s.Headroom)),
	}
	if s.RenderFPS > 0 {
		attrs = append(attrs, slog.Int("render_fps", int(s.RenderFPS)))
	}
	for ph := range NumPhases {
		if pct := s.PhasePct[ph]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(ph.String()+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd     int     `csv:"window_end"`
	Frames        int     `csv:"frames"`
	AvgFrameUS    int64   `csv:"avg_frame_us"`
	P95FrameUS    int64   `csv:"p95_frame_us"`
	MaxFrameUS    int64   `csv:"max_frame_us"`
	LogicPerFrame float64 `csv:"logic_per_frame"`
	LogicAvgUS    int64   `csv:"logic_avg_us"`
	Headroom      float64 `csv:"headroom_fps"`
	RenderFPS     float64 `csv:"render_fps"`
	MotionPct     float64 `csv:"motion_pct"`
	FieldPct      float64 `csv:"field_pct"`
	AgentsPct     float64 `csv:"agents_pct"`
	ReinforcePct  float64 `csv:"reinforce_pct"`
	LifecyclePct  float64 `csv:"lifecycle_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s for the logic tick that closed the stats window.
func (s PerfStats) ToCSV(windowEnd int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		Frames:        s.Frames,
		AvgFrameUS:    s.AvgFrame.Microseconds(),
		P95FrameUS:    s.P95Frame.Microseconds(),
		MaxFrameUS:    s.MaxFrame.Microseconds(),
		LogicPerFrame: s.LogicPerFrame,
		LogicAvgUS:    s.LogicAvg.Microseconds(),
		Headroom:      s.Headroom,
		RenderFPS:     s.RenderFPS,
		MotionPct:     s.PhasePct[PhaseMotion],
		FieldPct:      s.PhasePct[PhaseField],
		AgentsPct:     s.PhasePct[PhaseAgents],
		ReinforcePct:  s.PhasePct[PhaseReinforce],
		LifecyclePct:  s.PhasePct[PhaseLifecycle],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
