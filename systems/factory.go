package systems

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/steer/config"
	"github.com/pthm-cable/steer/geom"
	"github.com/pthm-cable/steer/steering"
)

// NewFromConfig builds a populated world: walls, obstacles, the flock and an
// optional predator.
func NewFromConfig(cfg *config.Config, seed int64) (*World, error) {
	params, err := steering.ParamsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	behaviors, err := steering.ParseBehaviors(cfg.Steering.Behaviors)
	if err != nil {
		return nil, fmt.Errorf("steering.behaviors: %w", err)
	}

	rng := rand.New(rand.NewSource(seed))
	w := New(cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.World.NumCellsX, cfg.World.NumCellsY, params, rng)

	if cfg.World.Walls {
		w.CreateBorderWalls(cfg.World.WallInset)
	}
	placed := w.CreateObstacles(cfg.World.NumObstacles, cfg.World.MinObstacleRadius, cfg.World.MaxObstacleRadius)
	if placed < cfg.World.NumObstacles {
		slog.Warn("obstacles did not fit", "wanted", cfg.World.NumObstacles, "placed", placed)
	}
	w.SetCrosshair(geom.Vec(cfg.Derived.WorldW/2, cfg.Derived.WorldH/2))

	vp := VehicleParamsFromConfig(cfg)
	agents, err := w.Populate(cfg.World.NumAgents, vp, behaviors)
	if err != nil {
		return nil, fmt.Errorf("populating world: %w", err)
	}

	for _, a := range agents {
		if cfg.Vehicle.Smoothing {
			a.SmoothingOn()
		}
	}

	if cfg.World.Predator && len(agents) > 1 {
		setupPredator(agents, cfg.World.PredatorScale, cfg.World.PredatorMaxSpeed)
	}

	slog.Info("world created",
		"seed", seed,
		"agents", len(w.Agents()),
		"obstacles", placed,
		"walls", len(w.Walls()),
		"summing", params.SummingMethod,
		"behaviors", behaviors,
	)

	return w, nil
}

// VehicleParamsFromConfig returns the spawn template for every vehicle.
func VehicleParamsFromConfig(cfg *config.Config) steering.VehicleParams {
	return steering.VehicleParams{
		Mass:             cfg.Vehicle.Mass,
		MaxSpeed:         cfg.Vehicle.MaxSpeed,
		MaxForce:         cfg.Derived.MaxForce,
		MaxTurnRate:      cfg.Vehicle.MaxTurnRatePerSecond,
		Scale:            cfg.Vehicle.Scale,
		SmoothingSamples: cfg.Vehicle.SmoothingSamples,
	}
}

// setupPredator turns the last agent into a larger, slower wanderer that every
// other agent evades.
func setupPredator(agents []*steering.Vehicle, scale, maxSpeed float64) {
	shark := agents[len(agents)-1]
	shark.Steering().FlockingOff()
	shark.Steering().WanderOn()
	shark.SetScale(geom.Vec(scale, scale))
	shark.SetMaxSpeed(maxSpeed)

	for _, a := range agents[:len(agents)-1] {
		a.Steering().EvadeOn(shark)
	}
}
