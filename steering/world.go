package steering

import (
	"github.com/pthm-cable/steer/components"
	"github.com/pthm-cable/steer/geom"
)

// World is everything a composer reads about its surroundings. All lists are
// read-shared by every vehicle during a frame and must not change mid-frame.
type World interface {
	Agents() []*Vehicle
	// Agent resolves a weak target reference.
	Agent(id components.EntityID) (*Vehicle, bool)
	Obstacles() []*components.Obstacle
	Walls() []geom.Wall2D
	// Crosshair is the shared target for seek, flee and arrive.
	Crosshair() (geom.Vector2D, bool)
	Bounds() (width, height float64)

	// TagVehiclesWithinViewRange tags every agent other than v within radius
	// and untags the rest.
	TagVehiclesWithinViewRange(v *Vehicle, radius float64)
	TagObstaclesWithinViewRange(v *Vehicle, radius float64)
	// Neighbors appends agents within radius of pos to dst using the
	// cell-space partition.
	Neighbors(pos geom.Vector2D, radius float64, dst []*Vehicle) []*Vehicle
}

// Renderer draws world-space geometry.
type Renderer interface {
	ClosedShape(points []geom.Vector2D)
	Circle(center geom.Vector2D, radius float64)
	Line(from, to geom.Vector2D)
}

// Steerable is an agent that advances itself under a steering composer.
type Steerable interface {
	components.Positioned
	Steering() *Composer
	Update(dt float64)
}

var _ Steerable = (*Vehicle)(nil)
