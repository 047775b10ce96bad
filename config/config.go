// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen        ScreenConfig    `yaml:"screen"`
	World         WorldConfig     `yaml:"world"`
	Physics       PhysicsConfig   `yaml:"physics"`
	Vehicle       VehicleConfig   `yaml:"vehicle"`
	Steering      SteeringConfig  `yaml:"steering"`
	Weights       BehaviorTable   `yaml:"weights"`
	Probabilities BehaviorTable   `yaml:"probabilities"`
	Telemetry     TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds world dimensions and initial population.
type WorldConfig struct {
	Width             float64 `yaml:"width"`  // 0 = use screen width
	Height            float64 `yaml:"height"` // 0 = use screen height
	NumAgents         int     `yaml:"num_agents"`
	NumObstacles      int     `yaml:"num_obstacles"`
	MinObstacleRadius float64 `yaml:"min_obstacle_radius"`
	MaxObstacleRadius float64 `yaml:"max_obstacle_radius"`
	NumCellsX         int     `yaml:"num_cells_x"` // cell-space partition columns
	NumCellsY         int     `yaml:"num_cells_y"` // cell-space partition rows
	Walls             bool    `yaml:"walls"`       // border walls inset from the edges
	WallInset         float64 `yaml:"wall_inset"`
	Predator          bool    `yaml:"predator"` // last agent wanders, the rest evade it
	PredatorScale     float64 `yaml:"predator_scale"`
	PredatorMaxSpeed  float64 `yaml:"predator_max_speed"`
}

// PhysicsConfig holds the fixed simulation timestep.
type PhysicsConfig struct {
	DT float64 `yaml:"dt"`
}

// VehicleConfig holds per-vehicle kinematic limits.
type VehicleConfig struct {
	Mass                 float64 `yaml:"mass"`
	MaxSpeed             float64 `yaml:"max_speed"`
	SteeringForce        float64 `yaml:"steering_force"` // multiplied by steering.force_tweaker
	MaxTurnRatePerSecond float64 `yaml:"max_turn_rate_per_second"`
	Scale                float64 `yaml:"scale"`
	SmoothingSamples     int     `yaml:"smoothing_samples"`
	Smoothing            bool    `yaml:"smoothing"`
}

// SteeringConfig holds composer tunables.
type SteeringConfig struct {
	ForceTweaker              float64  `yaml:"force_tweaker"` // scales max force and all weights
	ViewDistance              float64  `yaml:"view_distance"`
	MinDetectionBoxLength     float64  `yaml:"min_detection_box_length"`
	WallDetectionFeelerLength float64  `yaml:"wall_detection_feeler_length"`
	WaypointSeekDistance      float64  `yaml:"waypoint_seek_distance"`
	WanderRadius              float64  `yaml:"wander_radius"`
	WanderDistance            float64  `yaml:"wander_distance"`
	WanderJitterPerSec        float64  `yaml:"wander_jitter_per_sec"`
	HideDistanceFromBoundary  float64  `yaml:"hide_distance_from_boundary"`
	EvadeThreatRange          float64  `yaml:"evade_threat_range"`
	SummingMethod             string   `yaml:"summing_method"` // weighted_average | prioritized | dithered
	Deceleration              string   `yaml:"deceleration"`   // fast | normal | slow
	CellSpacePartitioning     bool     `yaml:"cell_space_partitioning"`
	Behaviors                 []string `yaml:"behaviors"` // behaviors enabled on spawn
}

// BehaviorTable holds one value per steering behavior. It is used for both
// weights and dither probabilities.
type BehaviorTable struct {
	Separation        float64 `yaml:"separation"`
	Alignment         float64 `yaml:"alignment"`
	Cohesion          float64 `yaml:"cohesion"`
	ObstacleAvoidance float64 `yaml:"obstacle_avoidance"`
	WallAvoidance     float64 `yaml:"wall_avoidance"`
	Wander            float64 `yaml:"wander"`
	Seek              float64 `yaml:"seek"`
	Flee              float64 `yaml:"flee"`
	Arrive            float64 `yaml:"arrive"`
	Pursuit           float64 `yaml:"pursuit"`
	OffsetPursuit     float64 `yaml:"offset_pursuit"`
	Interpose         float64 `yaml:"interpose"`
	Hide              float64 `yaml:"hide"`
	Evade             float64 `yaml:"evade"`
	FollowPath        float64 `yaml:"follow_path"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`
	PerfCollectorWindow int     `yaml:"perf_collector_window"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	WorldW   float64       // Effective world width
	WorldH   float64       // Effective world height
	MaxForce float64       // Vehicle.SteeringForce * Steering.ForceTweaker
	Weights  BehaviorTable // Weights * Steering.ForceTweaker
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// validate enforces "positive where physically required".
func (c *Config) validate() error {
	if c.Vehicle.Mass <= 0 {
		return fmt.Errorf("vehicle.mass must be positive, got %v", c.Vehicle.Mass)
	}
	if c.Vehicle.MaxSpeed < 0 {
		return fmt.Errorf("vehicle.max_speed must not be negative, got %v", c.Vehicle.MaxSpeed)
	}
	if c.Vehicle.SteeringForce < 0 || c.Steering.ForceTweaker < 0 {
		return fmt.Errorf("steering force must not be negative")
	}
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	// Divisors and radii of the steering geometry.
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"view_distance", c.Steering.ViewDistance},
		{"min_detection_box_length", c.Steering.MinDetectionBoxLength},
		{"wall_detection_feeler_length", c.Steering.WallDetectionFeelerLength},
		{"wander_radius", c.Steering.WanderRadius},
	} {
		if f.v <= 0 {
			return fmt.Errorf("steering.%s must be positive, got %v", f.name, f.v)
		}
	}
	if c.World.MinObstacleRadius > c.World.MaxObstacleRadius {
		return fmt.Errorf("world.min_obstacle_radius %v exceeds max %v", c.World.MinObstacleRadius, c.World.MaxObstacleRadius)
	}
	for name, p := range c.Probabilities.Named() {
		if p <= 0 || p > 1 {
			return fmt.Errorf("probabilities.%s must be in (0,1], got %v", name, p)
		}
	}
	return nil
}

// Recompute refreshes derived values after fields were changed in code.
func (c *Config) Recompute() {
	c.computeDerived()
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Steering.Behaviors = slices.Clone(c.Steering.Behaviors)
	return &out
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.WorldW = c.World.Width
	if c.Derived.WorldW == 0 {
		c.Derived.WorldW = float64(c.Screen.Width)
	}
	c.Derived.WorldH = c.World.Height
	if c.Derived.WorldH == 0 {
		c.Derived.WorldH = float64(c.Screen.Height)
	}

	c.Derived.MaxForce = c.Vehicle.SteeringForce * c.Steering.ForceTweaker
	c.Derived.Weights = c.Weights.Scaled(c.Steering.ForceTweaker)
}

// Named returns the table keyed by its YAML names.
func (t BehaviorTable) Named() map[string]float64 {
	return map[string]float64{
		"separation":         t.Separation,
		"alignment":          t.Alignment,
		"cohesion":           t.Cohesion,
		"obstacle_avoidance": t.ObstacleAvoidance,
		"wall_avoidance":     t.WallAvoidance,
		"wander":             t.Wander,
		"seek":               t.Seek,
		"flee":               t.Flee,
		"arrive":             t.Arrive,
		"pursuit":            t.Pursuit,
		"offset_pursuit":     t.OffsetPursuit,
		"interpose":          t.Interpose,
		"hide":               t.Hide,
		"evade":              t.Evade,
		"follow_path":        t.FollowPath,
	}
}

// Scaled returns a copy with every entry multiplied by f.
func (t BehaviorTable) Scaled(f float64) BehaviorTable {
	return BehaviorTable{
		Separation:        t.Separation * f,
		Alignment:         t.Alignment * f,
		Cohesion:          t.Cohesion * f,
		ObstacleAvoidance: t.ObstacleAvoidance * f,
		WallAvoidance:     t.WallAvoidance * f,
		Wander:            t.Wander * f,
		Seek:              t.Seek * f,
		Flee:              t.Flee * f,
		Arrive:            t.Arrive * f,
		Pursuit:           t.Pursuit * f,
		OffsetPursuit:     t.OffsetPursuit * f,
		Interpose:         t.Interpose * f,
		Hide:              t.Hide * f,
		Evade:             t.Evade * f,
		FollowPath:        t.FollowPath * f,
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
