package telemetry

import (
	"log/slog"
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseSteering  = "steering" // composer, integration and cell-space update
	PhaseTelemetry = "telemetry"
	PhaseRender    = "render"
)

// phases is the fixed reporting order.
var phases = []string{PhaseSteering, PhaseTelemetry, PhaseRender}

// Phases returns the phase names in reporting order.
func Phases() []string { return slices.Clone(phases) }

// PerfSample is the timing of one tick.
type PerfSample struct {
	TickDuration time.Duration
	Phases       map[string]time.Duration
}

// PerfCollector keeps the last windowSize tick samples in a ring.
type PerfCollector struct {
	ring []PerfSample
	next int // ring slot for the next sample
	n    int // filled slots

	open       PerfSample // tick being timed
	tickStart  time.Time
	phaseStart time.Time
	phase      string

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
// Non-positive sizes fall back to 60.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]PerfSample, windowSize)}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.open = PerfSample{Phases: make(map[string]time.Duration, len(phases))}
	p.phase = ""
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.open.Phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = ""

	p.open.TickDuration = now.Sub(p.tickStart)
	p.ring[p.next] = p.open
	p.next = (p.next + 1) % len(p.ring)
	p.n = min(p.n+1, len(p.ring))
}

// AddToLastTick charges d to phase on the most recent tick. Rendering runs
// outside the simulation step, so its cost is attributed after the fact.
func (p *PerfCollector) AddToLastTick(phase string, d time.Duration) {
	if p.n == 0 {
		return
	}
	last := &p.ring[(p.next+len(p.ring)-1)%len(p.ring)]
	last.Phases[phase] += d
	last.TickDuration += d
}

// RecordFrame marks the end of a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the samples in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P90TickDuration time.Duration

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average tick, 0..100

	TicksPerSecond float64

	// Graphical mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats summarises the window.
func (p *PerfCollector) Stats() PerfStats {
	out := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		out.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.n == 0 {
		return out
	}

	ticks := make([]float64, p.n)
	phaseSum := make(map[string]time.Duration)
	for i, s := range p.ring[:p.n] {
		ticks[i] = float64(s.TickDuration)
		for name, d := range s.Phases {
			phaseSum[name] += d
		}
	}

	avg := stat.Mean(ticks, nil)
	slices.Sort(ticks)
	out.AvgTickDuration = time.Duration(avg)
	out.MinTickDuration = time.Duration(ticks[0])
	out.MaxTickDuration = time.Duration(ticks[len(ticks)-1])
	out.P90TickDuration = time.Duration(stat.Quantile(0.9, stat.Empirical, ticks, nil))

	for name, sum := range phaseSum {
		phaseAvg := sum / time.Duration(p.n)
		out.PhaseAvg[name] = phaseAvg
		if avg > 0 {
			out.PhasePct[name] = float64(phaseAvg) / avg * 100
		}
	}
	if avg > 0 {
		out.TicksPerSecond = float64(time.Second) / avg
	}
	return out
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"p90_tick_us", s.P90TickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", int(pct*10)/10.0)
		}
	}

	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("p90_tick_us", s.P90TickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}

	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}

	for _, phase := range phases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}

	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    int32   `csv:"window_end"`
	Agents       int     `csv:"agents"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	P90TickUS    int64   `csv:"p90_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	SteeringPct  float64 `csv:"steering_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
	RenderPct    float64 `csv:"render_pct"`
}

// ToCSV converts PerfStats to a flat CSV-friendly struct.
func (s PerfStats) ToCSV(windowEnd int32, agents int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		Agents:       agents,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		P90TickUS:    s.P90TickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		SteeringPct:  s.PhasePct[PhaseSteering],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
		RenderPct:    s.PhasePct[PhaseRender],
	}
}
