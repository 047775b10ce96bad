package main

import (
	"github.com/pthm-cable/steer/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the flocking parameter set. Weights are raw values,
// before the force tweaker is applied.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "separation", Path: "weights.separation", Min: 0.1, Max: 10, Default: 1},
			{Name: "alignment", Path: "weights.alignment", Min: 0.1, Max: 10, Default: 1},
			{Name: "cohesion", Path: "weights.cohesion", Min: 0.1, Max: 10, Default: 2},
			{Name: "wander", Path: "weights.wander", Min: 0.05, Max: 5, Default: 1},
			{Name: "obstacle_avoidance", Path: "weights.obstacle_avoidance", Min: 1, Max: 30, Default: 10},
			{Name: "view_distance", Path: "steering.view_distance", Min: 15, Max: 150, Default: 50},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg and refreshes its
// derived weights. Order must match Specs.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Weights.Separation = c[0]
	cfg.Weights.Alignment = c[1]
	cfg.Weights.Cohesion = c[2]
	cfg.Weights.Wander = c[3]
	cfg.Weights.ObstacleAvoidance = c[4]
	cfg.Steering.ViewDistance = c[5]

	cfg.Recompute()
}
