package steering

import (
	"github.com/pthm-cable/steer/geom"
)

// isFlockmate filters the neighbor list: never self, and never the agent being
// pursued or evaded.
func (c *Composer) isFlockmate(n *Vehicle) bool {
	if n == c.vehicle {
		return false
	}
	if c.targetAgent1.set && n.ID() == c.targetAgent1.id {
		return false
	}
	return true
}

// separation pushes away from each neighbor, inversely to its distance.
func (c *Composer) separation(neighbors []*Vehicle) geom.Vector2D {
	var force geom.Vector2D
	pos := c.vehicle.Pos()

	for _, n := range neighbors {
		if !c.isFlockmate(n) {
			continue
		}
		toAgent := pos.Sub(n.Pos())
		dist := toAgent.Length()
		if dist < geom.Epsilon {
			continue
		}
		force.AddInPlace(geom.Vec2DNormalize(toAgent).Div(dist))
	}

	return force
}

// alignment steers toward the average neighbor heading.
func (c *Composer) alignment(neighbors []*Vehicle) geom.Vector2D {
	var avg geom.Vector2D
	count := 0

	for _, n := range neighbors {
		if !c.isFlockmate(n) {
			continue
		}
		avg.AddInPlace(n.Heading())
		count++
	}

	if count == 0 {
		return avg
	}
	avg = avg.Div(float64(count))
	return avg.Sub(c.vehicle.Heading())
}

// cohesion seeks the neighbors' centre of mass. The result is normalized
// because its magnitude otherwise dwarfs separation and alignment.
func (c *Composer) cohesion(neighbors []*Vehicle) geom.Vector2D {
	var center, force geom.Vector2D
	count := 0

	for _, n := range neighbors {
		if !c.isFlockmate(n) {
			continue
		}
		center.AddInPlace(n.Pos())
		count++
	}

	if count > 0 {
		center = center.Div(float64(count))
		force = c.seek(center)
	}

	return geom.Vec2DNormalize(force)
}
