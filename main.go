package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steer/config"
	"github.com/pthm-cable/steer/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Log window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           *seed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		SnapshotDir:    *snapshotDir,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
	}

	run := runWindowed
	if *headless {
		run = runHeadless
	}
	if err := run(opts, int32(*maxTicks)); err != nil {
		slog.Error("simulation failed", "error", err)
		os.Exit(1)
	}
}

// done reports whether a tick limit is set and has been reached.
func done(g *game.Game, maxTicks int32) bool {
	return maxTicks > 0 && g.Tick() >= maxTicks
}

func runHeadless(opts game.Options, maxTicks int32) error {
	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"stats_window", opts.StatsWindowSec,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for !done(g, maxTicks) {
		g.UpdateHeadless()
	}
	slog.Info("max ticks reached", "tick", g.Tick())
	return nil
}

func runWindowed(opts game.Options, maxTicks int32) error {
	cfg := config.Cfg()

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Steering Behaviors")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		return err
	}
	defer g.Unload()

	for !rl.WindowShouldClose() && !done(g, maxTicks) {
		g.Update()
		g.Draw()
	}
	return nil
}
