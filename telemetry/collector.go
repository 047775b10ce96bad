package telemetry

import (
	"math"

	"github.com/pthm-cable/steer/steering"
)

// saturationTolerance treats a force within this fraction of the budget as
// saturated.
const saturationTolerance = 1e-6

// Collector accumulates per-tick samples within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Accumulators for current window
	agentTicks  int
	saturated   int
	neighborSum int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Sample records the steering state of every agent after a step.
func (c *Collector) Sample(agents []*steering.Vehicle) {
	for _, a := range agents {
		c.agentTicks++
		c.neighborSum += a.Steering().NeighborCount()
		if Saturated(a) {
			c.saturated++
		}
	}
}

// Saturated reports whether the agent's last steering force used its whole
// budget.
func Saturated(a *steering.Vehicle) bool {
	budget := a.MaxForce()
	if budget <= 0 {
		return false
	}
	return a.Steering().Force().Length() >= budget*(1-saturationTolerance)
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats from the accumulated samples plus a snapshot of
// agents, and resets for the next window.
func (c *Collector) Flush(currentTick int32, agents []*steering.Vehicle) WindowStats {
	speeds := make([]float64, len(agents))
	forces := make([]float64, len(agents))
	for i, a := range agents {
		speeds[i] = a.Speed()
		forces[i] = a.Steering().Force().Length()
	}

	speedMean, speedStd, p10, p50, p90 := ComputeDistribution(speeds)
	forceMean, _, _, _, _ := ComputeDistribution(forces)

	var saturatedFrac, neighborsMean float64
	if c.agentTicks > 0 {
		saturatedFrac = float64(c.saturated) / float64(c.agentTicks)
		neighborsMean = float64(c.neighborSum) / float64(c.agentTicks)
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Agents: len(agents),

		SpeedMean: speedMean,
		SpeedStd:  speedStd,
		SpeedP10:  p10,
		SpeedP50:  p50,
		SpeedP90:  p90,

		ForceMean:    forceMean,
		Polarization: Polarization(agents),

		SaturatedFrac: saturatedFrac,
		NeighborsMean: neighborsMean,
		AgentTicks:    c.agentTicks,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.agentTicks = 0
	c.saturated = 0
	c.neighborSum = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
