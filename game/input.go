package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steer/geom"
	"github.com/pthm-cable/steer/steering"
)

// selectRadius is the pick distance for right-click selection, in pixels.
const selectRadius = 20.0

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	g.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}

	// Steps-per-update control with < > keys (comma and period)
	if rl.IsKeyPressed(rl.KeyComma) && g.stepsPerUpdate > 1 {
		g.stepsPerUpdate--
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && g.stepsPerUpdate < maxStepsPerUpdate {
		g.stepsPerUpdate++
	}

	if rl.IsKeyPressed(rl.KeyD) {
		g.showDebug = !g.showDebug
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.toggleSmoothing()
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.world.RenderCells = !g.world.RenderCells
	}
	if rl.IsKeyPressed(rl.KeyM) {
		g.cycleSummingMethod()
	}
	if rl.IsKeyPressed(rl.KeyP) {
		g.SaveSnapshot()
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.tuning.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.routeSelected()
	}

	g.handleCameraInput()
	g.handleMouse()
}

// handleMouse moves the crosshair on left click and selects the nearest agent
// on right click.
func (g *Game) handleMouse() {
	m := rl.GetMousePosition()
	if g.tuning.Contains(m.X, m.Y) {
		return
	}
	pos := g.camera.ScreenToWorld(geom.Vec(float64(m.X), float64(m.Y)))

	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		g.world.SetCrosshair(pos)
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		g.selected = g.nearestAgent(pos, selectRadius/g.camera.Zoom)
	}
}

// nearestAgent returns the agent closest to pos within radius, or nil.
func (g *Game) nearestAgent(pos geom.Vector2D, radius float64) *steering.Vehicle {
	var best *steering.Vehicle
	bestSq := radius * radius
	for _, a := range g.world.Agents() {
		if d := a.Pos().DistanceSq(pos); d <= bestSq {
			best, bestSq = a, d
		}
	}
	return best
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float64(rl.GetScreenWidth())
	h := float64(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h
	g.camera.Resize(w, h)
	g.tuning.SetPosition(int32(w)-230, 10)
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	const panSpeed = 8.0 // pixels per frame

	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.camera.ZoomBy(1 + float64(wheel)*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
