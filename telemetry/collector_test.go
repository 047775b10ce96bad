package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/steer/config"
	"github.com/pthm-cable/steer/systems"
)

func newTestWorld(t *testing.T, agents int) *systems.World {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.World.NumAgents = agents
	w, err := systems.NewFromConfig(cfg, 3)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestCollectorWindowTicks(t *testing.T) {
	tests := []struct {
		name   string
		window float64
		dt     float64
		want   int32
	}{
		{"ten seconds at 60Hz", 10, 1.0 / 60, 600},
		{"window shorter than a tick", 0.001, 1.0 / 60, 1},
		{"half a second rounds", 0.5, 1.0 / 60, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCollector(tt.window, tt.dt)
			if got := c.WindowDurationTicks(); got != tt.want {
				t.Errorf("WindowDurationTicks() = %d, want %d", got, tt.want)
			}
			if c.ShouldFlush(tt.want - 1) {
				t.Error("flushed early")
			}
			if !c.ShouldFlush(tt.want) {
				t.Error("did not flush at window end")
			}
		})
	}
}

func TestCollectorFlush(t *testing.T) {
	w := newTestWorld(t, 30)
	c := NewCollector(1, 1.0/60)

	var tick int32
	for !c.ShouldFlush(tick) {
		w.Step(1.0 / 60)
		c.Sample(w.Agents())
		tick++
	}
	stats := c.Flush(tick, w.Agents())

	if stats.Agents != 30 {
		t.Errorf("agents = %d, want 30", stats.Agents)
	}
	if stats.AgentTicks != 30*60 {
		t.Errorf("agent ticks = %d, want %d", stats.AgentTicks, 30*60)
	}
	if stats.SpeedMean <= 0 || stats.SpeedP10 > stats.SpeedP50 || stats.SpeedP50 > stats.SpeedP90 {
		t.Errorf("bad speed distribution %+v", stats)
	}
	if stats.Polarization < 0 || stats.Polarization > 1+1e-9 {
		t.Errorf("polarization = %v, want in [0,1]", stats.Polarization)
	}
	if stats.SaturatedFrac < 0 || stats.SaturatedFrac > 1 {
		t.Errorf("saturated fraction = %v", stats.SaturatedFrac)
	}
	if math.Abs(stats.SimTimeSec-1) > 1e-9 {
		t.Errorf("sim time = %v, want 1", stats.SimTimeSec)
	}

	next := c.Flush(tick, w.Agents())
	if next.AgentTicks != 0 || next.WindowStartTick != tick {
		t.Errorf("collector not reset: %+v", next)
	}
}

func TestPolarization(t *testing.T) {
	w := newTestWorld(t, 10)
	agents := w.Agents()

	if Polarization(nil) != 0 {
		t.Error("empty flock should have zero polarization")
	}
	// single agent is always perfectly aligned with itself
	if p := Polarization(agents[:1]); math.Abs(p-1) > 1e-9 {
		t.Errorf("single agent polarization = %v, want 1", p)
	}
}

func TestSaturated(t *testing.T) {
	w := newTestWorld(t, 2)
	a := w.Agents()[0]

	if Saturated(a) {
		t.Error("fresh agent has no force yet")
	}
	a.SetMaxForce(0)
	if Saturated(a) {
		t.Error("zero budget is never saturated")
	}
}
