package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.World.NumAgents != 300 {
		t.Errorf("num_agents = %d, want 300", cfg.World.NumAgents)
	}
	if cfg.Derived.MaxForce != 400 {
		t.Errorf("MaxForce = %v, want 400", cfg.Derived.MaxForce)
	}
	if cfg.Derived.Weights.ObstacleAvoidance != 2000 {
		t.Errorf("scaled obstacle weight = %v, want 2000", cfg.Derived.Weights.ObstacleAvoidance)
	}
	if cfg.Derived.WorldW != 800 || cfg.Derived.WorldH != 600 {
		t.Errorf("world = %vx%v, want screen size", cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	if !cfg.World.Predator || cfg.World.PredatorMaxSpeed != 70 {
		t.Errorf("predator = %v at %v, want enabled at 70", cfg.World.Predator, cfg.World.PredatorMaxSpeed)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	body := "world:\n  width: 1000\nvehicle:\n  max_speed: 50\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Derived.WorldW != 1000 {
		t.Errorf("WorldW = %v, want 1000", cfg.Derived.WorldW)
	}
	if cfg.Vehicle.MaxSpeed != 50 {
		t.Errorf("max_speed = %v, want 50", cfg.Vehicle.MaxSpeed)
	}
	// untouched fields keep their defaults
	if cfg.Vehicle.Mass != 1 {
		t.Errorf("mass = %v, want default 1", cfg.Vehicle.Mass)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero mass", "vehicle:\n  mass: 0\n", "vehicle.mass"},
		{"zero dt", "physics:\n  dt: 0\n", "physics.dt"},
		{"probability above one", "probabilities:\n  seek: 1.5\n", "probabilities.seek"},
		{"inverted radii", "world:\n  min_obstacle_radius: 40\n", "min_obstacle_radius"},
		{"zero detection box", "steering:\n  min_detection_box_length: 0\n", "steering.min_detection_box_length"},
		{"negative feeler length", "steering:\n  wall_detection_feeler_length: -5\n", "steering.wall_detection_feeler_length"},
		{"zero view distance", "steering:\n  view_distance: 0\n", "steering.view_distance"},
		{"zero wander radius", "steering:\n  wander_radius: 0\n", "steering.wander_radius"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cfg.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.World.NumAgents = 12

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.World.NumAgents != 12 {
		t.Errorf("num_agents = %d, want 12", back.World.NumAgents)
	}
}

func TestCloneAndRecompute(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	c := cfg.Clone()
	c.Steering.Behaviors[0] = "seek"
	c.Weights.Cohesion = 3
	c.Recompute()

	if cfg.Steering.Behaviors[0] == "seek" {
		t.Error("clone shares the behaviors slice")
	}
	if got := c.Derived.Weights.Cohesion; got != 3*c.Steering.ForceTweaker {
		t.Errorf("derived cohesion = %v after recompute", got)
	}
	if got := cfg.Derived.Weights.Cohesion; got != 2*cfg.Steering.ForceTweaker {
		t.Errorf("original derived cohesion changed to %v", got)
	}
}
