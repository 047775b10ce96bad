package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steer/renderer"
	"github.com/pthm-cable/steer/steering"
	"github.com/pthm-cable/steer/telemetry"
	"github.com/pthm-cable/steer/ui"
)

// Draw renders the world and the HUD.
func (g *Game) Draw() {
	start := time.Now()

	rl.BeginDrawing()
	rl.ClearBackground(renderer.Background)

	g.drawWorld()
	if g.showDebug && g.selected != nil {
		g.drawDebug(g.selected)
	}
	g.drawHUD()

	rl.EndDrawing()

	g.perfCollector.AddToLastTick(telemetry.PhaseRender, time.Since(start))
	g.perfCollector.RecordFrame()
}

// drawWorld draws cells, walls, obstacles, paths, agents and the crosshair,
// each in its own color.
func (g *Game) drawWorld() {
	r := g.renderer
	w := g.world

	if w.RenderCells {
		r.SetColor(renderer.CellColor)
		w.CellSpace().Render(r)
	}

	r.SetThickness(2)
	r.SetColor(renderer.WallColor)
	for _, wall := range w.Walls() {
		r.Line(wall.From, wall.To)
	}

	r.SetColor(renderer.Obstacle)
	for _, ob := range w.Obstacles() {
		r.Circle(ob.Center, ob.Radius)
	}
	r.SetThickness(1)

	agents := w.Agents()
	r.SetColor(renderer.PathColor)
	for _, a := range agents {
		if a.Steering().IsEnabled(steering.FollowPath) {
			a.Steering().Path().Render(r)
		}
	}

	for _, a := range agents {
		if a.Scale().X > g.cfg.Vehicle.Scale {
			r.SetColor(renderer.SharkColor)
		} else {
			r.SetColor(renderer.AgentColor)
		}
		a.Render(r)
	}

	if c, ok := w.Crosshair(); ok {
		r.SetColor(renderer.DebugColor)
		r.Circle(c, 4)
	}
}

// drawDebug draws the selected agent's view range, feelers, wander circle and
// detection box.
func (g *Game) drawDebug(v *steering.Vehicle) {
	r := g.renderer
	c := v.Steering()
	r.SetColor(renderer.DebugColor)

	r.Circle(v.Pos(), v.BRadius()+2)
	r.Circle(v.Pos(), c.ViewDistance())

	if c.IsEnabled(steering.WallAvoidance) {
		for _, f := range c.Feelers() {
			r.Line(v.Pos(), f)
		}
	}
	if c.IsEnabled(steering.Wander) {
		center, radius := c.WanderCircle()
		r.Circle(center, radius)
		r.Circle(c.WanderTargetWorld(), 2)
	}
	if c.IsEnabled(steering.ObstacleAvoidance) {
		r.ClosedShape(c.DetectionBox())
	}

	force := c.Force()
	r.Line(v.Pos(), v.Pos().Add(force.Mul(0.1)))
}

// controlsLegend is the key help shown at the bottom of the screen.
const controlsLegend = "[space] pause  [,/.] speed  [M] summing  [S] smoothing  [C] cells  [D] debug  [P] snapshot  [R] route  [tab] weights  [LMB] crosshair  [RMB] select"

// drawHUD draws simulation status, panels and key help in screen space.
func (g *Game) drawHUD() {
	agents := g.world.Agents()

	data := ui.HUDData{
		Title:  "Steering Behaviors",
		Agents: len(agents),
		Tick:   g.tick,
		Speed:  g.stepsPerUpdate,
		FPS:    rl.GetFPS(),
		Paused: g.paused,
	}
	if len(agents) > 0 {
		data.Summing = agents[0].Steering().SummingMethod().String()
		data.Smoothing = agents[0].IsSmoothingOn()
	}
	g.hud.Draw(data)
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	if g.showDebug {
		g.perfPanel.Draw(g.perfCollector.Stats())
		if g.selected != nil {
			g.inspector.Draw(g.selected)
		}
	}

	actions := g.tuning.Draw(agents)
	if actions.CycleSumming {
		g.cycleSummingMethod()
	}
	if actions.ToggleSmoothing {
		g.toggleSmoothing()
	}
	if actions.Snapshot {
		g.SaveSnapshot()
	}
}
