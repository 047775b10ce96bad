package steering

import (
	"math"

	"github.com/pthm-cable/steer/components"
	"github.com/pthm-cable/steer/geom"
)

// brakingWeight scales the backward component of obstacle avoidance.
const brakingWeight = 0.2

// Feeler angles relative to the heading.
const (
	leftFeelerAngle  = math.Pi / 2 * 3.5
	rightFeelerAngle = math.Pi / 2 * 0.5
)

// obstacleAvoidance projects a detection box ahead of the vehicle, finds the
// closest obstacle intersecting it and steers laterally away from it while
// braking.
func (c *Composer) obstacleAvoidance(obstacles []*components.Obstacle) geom.Vector2D {
	v := c.vehicle

	// box grows with speed
	c.boxLength = c.params.MinDetectionBoxLength
	if v.MaxSpeed() > 0 {
		c.boxLength += v.Speed() / v.MaxSpeed() * c.params.MinDetectionBoxLength
	}

	c.world.TagObstaclesWithinViewRange(v, c.boxLength)

	var closest *components.Obstacle
	var localPosOfClosest geom.Vector2D
	distToClosestIP := math.MaxFloat64

	for _, ob := range obstacles {
		if !ob.Tagged {
			continue
		}
		local := geom.PointToLocalSpace(ob.Center, v.Heading(), v.Side(), v.Pos())

		// behind us
		if local.X < 0 {
			continue
		}

		expandedRadius := ob.Radius + v.BRadius()
		if math.Abs(local.Y) >= expandedRadius {
			continue
		}

		// line/circle intersection along local x; the near root unless we are
		// already inside the circle
		sqrtPart := math.Sqrt(expandedRadius*expandedRadius - local.Y*local.Y)
		ip := local.X - sqrtPart
		if ip <= 0 {
			ip = local.X + sqrtPart
		}

		if ip < distToClosestIP {
			distToClosestIP = ip
			closest = ob
			localPosOfClosest = local
		}
	}

	if closest == nil {
		return geom.Vector2D{}
	}

	// closer obstacles push harder
	multiplier := 1.0 + (c.boxLength-localPosOfClosest.X)/c.boxLength

	// lateral push is away from the obstacle's side of the box
	expandedRadius := closest.Radius + v.BRadius()
	lateral := (expandedRadius - math.Abs(localPosOfClosest.Y)) * multiplier
	if localPosOfClosest.Y > 0 {
		lateral = -lateral
	}

	steer := geom.Vec(
		(closest.Radius-localPosOfClosest.X)*brakingWeight,
		lateral,
	)

	return geom.VectorToWorldSpace(steer, v.Heading(), v.Side())
}

// createFeelers fills the three wall feelers: one straight ahead, two shorter
// ones angled to either side.
func (c *Composer) createFeelers() {
	v := c.vehicle
	length := c.params.WallDetectionFeelerLength

	c.feelers[0] = v.Pos().Add(v.Heading().Mul(length))

	temp := v.Heading()
	geom.Vec2DRotateAroundOrigin(&temp, leftFeelerAngle)
	c.feelers[1] = v.Pos().Add(temp.Mul(length / 2))

	temp = v.Heading()
	geom.Vec2DRotateAroundOrigin(&temp, rightFeelerAngle)
	c.feelers[2] = v.Pos().Add(temp.Mul(length / 2))
}

// wallAvoidance pushes along the normal of the closest wall each feeler
// crosses, scaled by how far the feeler overshoots it.
func (c *Composer) wallAvoidance(walls []geom.Wall2D) geom.Vector2D {
	c.createFeelers()

	var force geom.Vector2D
	pos := c.vehicle.Pos()

	for _, feeler := range c.feelers {
		closest := -1
		distToClosestIP := math.MaxFloat64
		var closestPoint geom.Vector2D

		for i, w := range walls {
			dist, point, ok := geom.LineIntersection2D(pos, feeler, w.From, w.To)
			if ok && dist < distToClosestIP {
				distToClosestIP = dist
				closest = i
				closestPoint = point
			}
		}

		if closest >= 0 {
			overShoot := feeler.Sub(closestPoint)
			force = walls[closest].Normal.Mul(overShoot.Length())
		}
	}

	return force
}
