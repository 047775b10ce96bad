// Package renderer draws world geometry with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steer/camera"
	"github.com/pthm-cable/steer/geom"
	"github.com/pthm-cable/steer/steering"
)

// Palette
var (
	Background = rl.NewColor(16, 20, 28, 255)
	AgentColor = rl.NewColor(120, 200, 255, 255)
	SharkColor = rl.NewColor(255, 110, 90, 255)
	WallColor  = rl.NewColor(200, 200, 200, 255)
	Obstacle   = rl.NewColor(90, 200, 120, 255)
	PathColor  = rl.NewColor(90, 90, 140, 255)
	DebugColor = rl.NewColor(255, 220, 80, 255)
	CellColor  = rl.NewColor(40, 46, 60, 255)
)

// Raylib draws steering geometry through a camera. It implements
// steering.Renderer; shapes use the current color.
type Raylib struct {
	cam       *camera.Camera
	color     rl.Color
	thickness float32
}

var _ steering.Renderer = (*Raylib)(nil)

// New creates a renderer drawing through cam.
func New(cam *camera.Camera) *Raylib {
	return &Raylib{cam: cam, color: AgentColor, thickness: 1}
}

// SetColor changes the color used for subsequent shapes.
func (r *Raylib) SetColor(c rl.Color) { r.color = c }

// SetThickness changes the line thickness in pixels.
func (r *Raylib) SetThickness(t float32) { r.thickness = t }

func (r *Raylib) screen(p geom.Vector2D) rl.Vector2 {
	s := r.cam.WorldToScreen(p)
	return rl.NewVector2(float32(s.X), float32(s.Y))
}

// ClosedShape draws a polygon outline. Shapes straddling the wrap seam are
// drawn at their nearest copy only.
func (r *Raylib) ClosedShape(points []geom.Vector2D) {
	if len(points) < 2 {
		return
	}
	// project relative to the first vertex so the outline never spans the seam
	origin := r.cam.WorldToScreen(points[0])
	anchor := points[0]
	project := func(p geom.Vector2D) rl.Vector2 {
		d := p.Sub(anchor).Mul(r.cam.Zoom)
		return rl.NewVector2(float32(origin.X+d.X), float32(origin.Y+d.Y))
	}

	prev := project(points[len(points)-1])
	for _, p := range points {
		cur := project(p)
		rl.DrawLineEx(prev, cur, r.thickness, r.color)
		prev = cur
	}
}

// Circle draws a circle outline.
func (r *Raylib) Circle(center geom.Vector2D, radius float64) {
	if !r.cam.IsVisible(center, radius) {
		return
	}
	rl.DrawCircleLinesV(r.screen(center), float32(r.cam.ToScreenLength(radius)), r.color)
}

// Line draws a segment.
func (r *Raylib) Line(from, to geom.Vector2D) {
	a := r.cam.WorldToScreen(from)
	d := to.Sub(from).Mul(r.cam.Zoom)
	rl.DrawLineEx(
		rl.NewVector2(float32(a.X), float32(a.Y)),
		rl.NewVector2(float32(a.X+d.X), float32(a.Y+d.Y)),
		r.thickness, r.color,
	)
}
