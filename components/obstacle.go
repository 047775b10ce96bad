package components

import "github.com/pthm-cable/steer/geom"

// Obstacle is a static circular body that agents steer around or hide behind.
type Obstacle struct {
	ID     EntityID
	Center geom.Vector2D
	Radius float64
	Tagged bool
}

// NewObstacle creates an obstacle.
func NewObstacle(id EntityID, center geom.Vector2D, radius float64) Obstacle {
	return Obstacle{ID: id, Center: center, Radius: radius}
}

func (o *Obstacle) Pos() geom.Vector2D { return o.Center }
func (o *Obstacle) BRadius() float64 { return o.Radius }

// Overlaps reports whether o intersects a circle at pos, with an extra gap.
func (o *Obstacle) Overlaps(pos geom.Vector2D, radius, gap float64) bool {
	r := o.Radius + radius + gap
	return o.Center.DistanceSq(pos) < r*r
}
