// Package game drives the steering world: fixed-step simulation, telemetry
// windows, input and drawing.
package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/steer/camera"
	"github.com/pthm-cable/steer/config"
	"github.com/pthm-cable/steer/renderer"
	"github.com/pthm-cable/steer/steering"
	"github.com/pthm-cable/steer/systems"
	"github.com/pthm-cable/steer/telemetry"
	"github.com/pthm-cable/steer/ui"
)

// maxStepsPerUpdate caps the speed multiplier.
const maxStepsPerUpdate = 10

// Options configures a game instance.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	SnapshotDir    string
	OutputDir      string
	Headless       bool
	StepsPerUpdate int

	// Config overrides the global config when set.
	Config *config.Config

	// StatsCallback receives every flushed telemetry window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the world and everything that observes it.
type Game struct {
	cfg   *config.Config
	world *systems.World
	seed  int64
	dt    float64

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	logStats         bool
	snapshotDir      string

	// Rendering, nil when headless
	camera    *camera.Camera
	renderer  *renderer.Raylib
	hud       *ui.HUD
	perfPanel *ui.PerfPanel
	inspector *ui.Inspector
	tuning    *ui.TuningPanel

	// State
	tick           int32
	paused         bool
	stepsPerUpdate int
	selected       *steering.Vehicle
	showDebug      bool

	screenWidth, screenHeight float64
}

// NewGameWithOptions builds a world from the config and prepares telemetry.
// Graphical mode expects the raylib window to be open already.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	world, err := systems.NewFromConfig(cfg, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g := &Game{
		cfg:              cfg,
		world:            world,
		seed:             opts.Seed,
		dt:               cfg.Physics.DT,
		collector:        telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		outputManager:    om,
		statsCallback:    opts.StatsCallback,
		logStats:         opts.LogStats,
		snapshotDir:      opts.SnapshotDir,
		stepsPerUpdate:   steps,
		screenWidth:      float64(cfg.Screen.Width),
		screenHeight:     float64(cfg.Screen.Height),
	}

	if !opts.Headless {
		g.camera = camera.New(g.screenWidth, g.screenHeight, cfg.Derived.WorldW, cfg.Derived.WorldH)
		g.renderer = renderer.New(g.camera)
		g.hud = ui.NewHUD()
		g.perfPanel = ui.NewPerfPanel(10, 100)
		g.inspector = ui.NewInspector(10, 190, 220)
		g.tuning = ui.NewTuningPanel(cfg, int32(g.screenWidth)-230, 10, 220)
	}

	if agents := world.Agents(); len(agents) > 0 {
		g.selected = agents[0]
	}

	return g, nil
}

// SetStatsCallback replaces the telemetry window callback.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// World returns the simulated world.
func (g *Game) World() *systems.World { return g.world }

// Tick returns the number of simulation steps taken.
func (g *Game) Tick() int32 { return g.tick }

// Paused reports whether stepping is suspended.
func (g *Game) Paused() bool { return g.paused }

// Update handles input and advances the simulation in graphical mode.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless advances the simulation without input or drawing.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs one fixed timestep.
func (g *Game) step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSteering)
	g.world.Step(g.dt)
	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Sample(g.world.Agents())
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// cycleSummingMethod switches every agent to the next summing method.
func (g *Game) cycleSummingMethod() steering.SummingMethod {
	var next steering.SummingMethod
	agents := g.world.Agents()
	if len(agents) > 0 {
		next = (agents[0].Steering().SummingMethod() + 1) % (steering.Dithered + 1)
	}
	for _, a := range agents {
		a.Steering().SetSummingMethod(next)
	}
	slog.Info("summing method", "method", next)
	return next
}

// toggleSmoothing flips heading smoothing on every agent, following the
// first agent's state so the flock stays consistent.
func (g *Game) toggleSmoothing() {
	agents := g.world.Agents()
	if len(agents) == 0 {
		return
	}
	on := !agents[0].IsSmoothingOn()
	for _, a := range agents {
		if on {
			a.SmoothingOn()
		} else {
			a.SmoothingOff()
		}
	}
}

// routeSelected plans a path from the selected agent to the crosshair.
func (g *Game) routeSelected() {
	if g.selected == nil {
		return
	}
	goal, ok := g.world.Crosshair()
	if !ok {
		return
	}
	if _, err := g.world.RouteTo(g.selected, goal); err != nil {
		slog.Warn("route failed", "agent", g.selected.ID(), "error", err)
	}
}

// Unload flushes and closes output files.
func (g *Game) Unload() {
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
