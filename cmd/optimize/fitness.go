package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/steer/config"
	"github.com/pthm-cable/steer/game"
	"github.com/pthm-cable/steer/telemetry"
)

// FitnessEvaluator runs headless simulations and scores flock quality.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 5.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// Evaluate computes fitness for a raw parameter vector (lower = better).
// Fitness is the negated mean quality across seeds.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	qualities := make([]float64, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			qualities[idx] = computeQuality(fe.runSimulation(cfg, s))
		}(i, seed)
	}
	wg.Wait()

	quality := stat.Mean(qualities, nil)

	fe.mu.Lock()
	fe.lastQuality = quality
	fe.mu.Unlock()

	return -quality
}

// runSimulation executes a single headless run and returns its windows.
// A world that fails to build yields no windows and therefore zero quality.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) []telemetry.WindowStats {
	var windows []telemetry.WindowStats

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		return nil
	}
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
	}
	return windows
}

// Quality component weights.
const (
	qualityWeightPolarization = 0.45
	qualityWeightCrowding     = 0.30
	qualityWeightSaturation   = 0.25

	qualityWarmupWindows = 2 // skip first N windows while the flock forms

	targetNeighbors = 5.0 // preferred flockmates in view
)

// computeQuality scores a run in [0, 1]: aligned headings, a moderate number
// of neighbors, and force budgets that are not constantly exhausted.
func computeQuality(windows []telemetry.WindowStats) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}
	valid := windows[qualityWarmupWindows:]

	pol := make([]float64, len(valid))
	crowd := make([]float64, len(valid))
	sat := make([]float64, len(valid))
	for i, w := range valid {
		pol[i] = w.Polarization
		d := (w.NeighborsMean - targetNeighbors) / targetNeighbors
		crowd[i] = math.Exp(-d * d)
		sat[i] = 1 - w.SaturatedFrac
	}

	quality := qualityWeightPolarization*stat.Mean(pol, nil) +
		qualityWeightCrowding*stat.Mean(crowd, nil) +
		qualityWeightSaturation*stat.Mean(sat, nil)

	return clamp01(quality)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
