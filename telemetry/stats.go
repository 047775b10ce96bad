package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/steer/geom"
	"github.com/pthm-cable/steer/steering"
)

// WindowStats holds aggregated flock statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	Agents int `csv:"agents"`

	// Speed distribution (sampled at window end)
	SpeedMean float64 `csv:"speed_mean"`
	SpeedStd  float64 `csv:"speed_std"`
	SpeedP10  float64 `csv:"speed_p10"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`

	// Steering (sampled at window end)
	ForceMean    float64 `csv:"force_mean"`
	Polarization float64 `csv:"polarization"` // |mean heading|, 1 = all aligned

	// Accumulated over every tick in the window
	SaturatedFrac float64 `csv:"saturated_frac"` // agent-ticks that spent the whole force budget
	NeighborsMean float64 `csv:"neighbors_mean"`
	AgentTicks    int     `csv:"agent_ticks"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, sample standard deviation and
// percentiles. std is 0 for fewer than two values.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}

	if n == 1 {
		return values[0], 0, values[0], values[0], values[0]
	}
	mean, std = stat.MeanStdDev(values, nil)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// Polarization returns the length of the mean heading, 0 for an empty flock.
func Polarization(agents []*steering.Vehicle) float64 {
	if len(agents) == 0 {
		return 0
	}
	var sum geom.Vector2D
	for _, a := range agents {
		sum.AddInPlace(a.Heading())
	}
	return sum.Div(float64(len(agents))).Length()
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("speed_std", s.SpeedStd),
		slog.Float64("speed_p10", s.SpeedP10),
		slog.Float64("speed_p50", s.SpeedP50),
		slog.Float64("speed_p90", s.SpeedP90),
		slog.Float64("force_mean", s.ForceMean),
		slog.Float64("polarization", s.Polarization),
		slog.Float64("saturated_frac", s.SaturatedFrac),
		slog.Float64("neighbors_mean", s.NeighborsMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"agents", s.Agents,
		"speed_mean", s.SpeedMean,
		"speed_p10", s.SpeedP10,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
		"force_mean", s.ForceMean,
		"polarization", s.Polarization,
		"saturated_frac", s.SaturatedFrac,
		"neighbors_mean", s.NeighborsMean,
	)
}
