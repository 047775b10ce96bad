package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/steer/config"
	"github.com/pthm-cable/steer/telemetry"
)

func TestParamVectorNormalizeRoundtrip(t *testing.T) {
	pv := NewParamVector()
	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	want := pv.DefaultVector()

	got := []float64{
		cfg.Weights.Separation,
		cfg.Weights.Alignment,
		cfg.Weights.Cohesion,
		cfg.Weights.Wander,
		cfg.Weights.ObstacleAvoidance,
		cfg.Steering.ViewDistance,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s default %v, config has %v", pv.Specs[i].Name, want[i], got[i])
		}
	}
}

func TestApplyToConfigClampsAndRecomputes(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	pv := NewParamVector()
	x := pv.DefaultVector()
	x[0] = 100 // separation above its bound

	pv.ApplyToConfig(cfg, x)

	if cfg.Weights.Separation != pv.Specs[0].Max {
		t.Errorf("separation = %v, want clamped to %v", cfg.Weights.Separation, pv.Specs[0].Max)
	}
	if got, want := cfg.Derived.Weights.Separation, pv.Specs[0].Max*cfg.Steering.ForceTweaker; got != want {
		t.Errorf("derived separation = %v, want %v", got, want)
	}
}

func TestComputeQuality(t *testing.T) {
	good := telemetry.WindowStats{Polarization: 1, NeighborsMean: targetNeighbors}
	bad := telemetry.WindowStats{Polarization: 0, NeighborsMean: 0, SaturatedFrac: 1}

	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"only warmup", []telemetry.WindowStats{good, good}, 0},
		{"perfect flock", []telemetry.WindowStats{bad, bad, good, good}, 1},
		{"scattered and saturated", []telemetry.WindowStats{good, good, bad}, qualityWeightCrowding * math.Exp(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeQuality(tt.windows); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("quality = %v, want %v", got, tt.want)
			}
		})
	}
}
