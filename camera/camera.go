// Package camera maps the wrapping world onto the window.
package camera

import (
	"math"

	"github.com/pthm-cable/steer/geom"
)

// Camera controls the viewport into the world.
// The world wraps at its edges, so the camera wraps with it.
type Camera struct {
	// Center is the camera center in world coordinates
	Center geom.Vector2D

	// Zoom level (1.0 = 1:1, 2.0 = 2x magnification)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// World dimensions
	WorldW, WorldH float64

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera centered on the world, zoomed to fit all of it.
func New(viewportW, viewportH, worldW, worldH float64) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		WorldW:    worldW,
		WorldH:    worldH,
		MaxZoom:   4.0,
	}
	c.MinZoom = c.fitZoom()
	c.Reset()
	return c
}

// fitZoom is the zoom at which the whole world is visible.
func (c *Camera) fitZoom() float64 {
	return math.Min(c.ViewportW/c.WorldW, c.ViewportH/c.WorldH)
}

// WorldToScreen converts a world position to screen coordinates, taking the
// shortest way round the wrapped world.
func (c *Camera) WorldToScreen(p geom.Vector2D) geom.Vector2D {
	dx := toroidalDelta(p.X, c.Center.X, c.WorldW)
	dy := toroidalDelta(p.Y, c.Center.Y, c.WorldH)

	return geom.Vec(c.ViewportW/2+dx*c.Zoom, c.ViewportH/2+dy*c.Zoom)
}

// ScreenToWorld converts screen coordinates to a world position.
func (c *Camera) ScreenToWorld(s geom.Vector2D) geom.Vector2D {
	dx := (s.X - c.ViewportW/2) / c.Zoom
	dy := (s.Y - c.ViewportH/2) / c.Zoom

	return geom.Vec(mod(c.Center.X+dx, c.WorldW), mod(c.Center.Y+dy, c.WorldH))
}

// ToScreenLength scales a world distance to pixels.
func (c *Camera) ToScreenLength(d float64) float64 {
	return d * c.Zoom
}

// IsVisible returns true if a circle at p with the given radius could be
// visible on screen (conservative check for culling).
func (c *Camera) IsVisible(p geom.Vector2D, radius float64) bool {
	dx := toroidalDelta(p.X, c.Center.X, c.WorldW)
	dy := toroidalDelta(p.Y, c.Center.Y, c.WorldH)

	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius

	return math.Abs(dx) <= halfW && math.Abs(dy) <= halfH
}

// Resize updates viewport dimensions and recalculates zoom constraints.
func (c *Camera) Resize(viewportW, viewportH float64) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.MinZoom = c.fitZoom()
	if c.Zoom < c.MinZoom {
		c.Zoom = c.MinZoom
	}
}

// Pan moves the camera by the given delta in screen pixels.
func (c *Camera) Pan(dx, dy float64) {
	c.Center.X = mod(c.Center.X+dx/c.Zoom, c.WorldW)
	c.Center.Y = mod(c.Center.Y+dy/c.Zoom, c.WorldH)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(zoom, c.MaxZoom))
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera and fits the world to the viewport.
func (c *Camera) Reset() {
	c.Center = geom.Vec(c.WorldW/2, c.WorldH/2)
	c.Zoom = c.MinZoom
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// in a toroidal space of the given size.
func toroidalDelta(to, from, size float64) float64 {
	d := to - from
	if d > size/2 {
		d -= size
	} else if d < -size/2 {
		d += size
	}
	return d
}

// mod computes the positive modulo (Go's % can return negative).
func mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
