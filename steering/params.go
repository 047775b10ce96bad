package steering

import (
	"fmt"

	"github.com/pthm-cable/steer/config"
)

// Params holds the composer tunables. Weights are already multiplied by the
// force tweaker.
type Params struct {
	SummingMethod SummingMethod
	Deceleration  Deceleration

	Weights       map[Behavior]float64
	Probabilities map[Behavior]float64 // dither probability per behavior, in (0,1]

	ViewDistance              float64
	MinDetectionBoxLength     float64
	WallDetectionFeelerLength float64
	WaypointSeekDistSq        float64
	WanderRadius              float64
	WanderDistance            float64
	WanderJitter              float64 // per second
	HideDistanceFromBoundary  float64
	EvadeThreatRange          float64

	CellSpacePartitioning bool
}

// ParamsFromConfig builds composer params from the loaded configuration.
func ParamsFromConfig(cfg *config.Config) (Params, error) {
	sm, err := ParseSummingMethod(cfg.Steering.SummingMethod)
	if err != nil {
		return Params{}, fmt.Errorf("steering.summing_method: %w", err)
	}
	decel, err := ParseDeceleration(cfg.Steering.Deceleration)
	if err != nil {
		return Params{}, fmt.Errorf("steering.deceleration: %w", err)
	}
	weights, err := behaviorTable(cfg.Derived.Weights)
	if err != nil {
		return Params{}, fmt.Errorf("weights: %w", err)
	}
	probs, err := behaviorTable(cfg.Probabilities)
	if err != nil {
		return Params{}, fmt.Errorf("probabilities: %w", err)
	}

	s := cfg.Steering
	return Params{
		SummingMethod:             sm,
		Deceleration:              decel,
		Weights:                   weights,
		Probabilities:             probs,
		ViewDistance:              s.ViewDistance,
		MinDetectionBoxLength:     s.MinDetectionBoxLength,
		WallDetectionFeelerLength: s.WallDetectionFeelerLength,
		WaypointSeekDistSq:        s.WaypointSeekDistance * s.WaypointSeekDistance,
		WanderRadius:              s.WanderRadius,
		WanderDistance:            s.WanderDistance,
		WanderJitter:              s.WanderJitterPerSec,
		HideDistanceFromBoundary:  s.HideDistanceFromBoundary,
		EvadeThreatRange:          s.EvadeThreatRange,
		CellSpacePartitioning:     s.CellSpacePartitioning,
	}, nil
}

func behaviorTable(t config.BehaviorTable) (map[Behavior]float64, error) {
	out := make(map[Behavior]float64, len(priorityOrder))
	for name, v := range t.Named() {
		b, err := ParseBehavior(name)
		if err != nil {
			return nil, err
		}
		out[b] = v
	}
	return out, nil
}
