package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steer/telemetry"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title     string
	Agents    int
	Tick      int32
	Speed     int
	FPS       int32
	Paused    bool
	Summing   string
	Smoothing bool
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Agents: %d | Summing: %s | Smoothing: %v", data.Agents, data.Summing, data.Smoothing),
		10, 35, 16, rl.LightGray,
	)
	rl.DrawText(
		fmt.Sprintf("Tick: %d | Speed: %dx | FPS: %d", data.Tick, data.Speed, data.FPS),
		10, 55, 16, rl.LightGray,
	)

	if data.Paused {
		rl.DrawText("PAUSED", 10, 75, 16, rl.Yellow)
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders tick timing by phase.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	x := p.x
	y := p.y

	rl.DrawText("Performance", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Tick: %s (%.0f/s)", stats.AvgTickDuration.Round(time.Microsecond), stats.TicksPerSecond), x, y, 14, rl.Yellow)
	y += 16

	for _, name := range telemetry.Phases() {
		pct := stats.PhasePct[name]

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
