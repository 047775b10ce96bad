package steering

import (
	"math"

	"github.com/pthm-cable/steer/components"
	"github.com/pthm-cable/steer/geom"
)

// decelerationTweaker converts a Deceleration tier into a braking distance scale.
const decelerationTweaker = 0.3

// headOnThreshold is the relative heading below which pursuit treats the
// evader as coming straight at it (about 18 degrees off head-on).
const headOnThreshold = -0.95

func (c *Composer) seek(target geom.Vector2D) geom.Vector2D {
	v := c.vehicle
	desired := geom.Vec2DNormalize(target.Sub(v.Pos())).Mul(v.MaxSpeed())
	return desired.Sub(v.Velocity())
}

func (c *Composer) flee(target geom.Vector2D) geom.Vector2D {
	v := c.vehicle
	desired := geom.Vec2DNormalize(v.Pos().Sub(target)).Mul(v.MaxSpeed())
	return desired.Sub(v.Velocity())
}

// arrive seeks target with a speed that falls to zero at the target.
func (c *Composer) arrive(target geom.Vector2D, decel Deceleration) geom.Vector2D {
	v := c.vehicle
	toTarget := target.Sub(v.Pos())
	dist := toTarget.Length()
	if dist <= 0 {
		return geom.Vector2D{}
	}

	speed := dist / (float64(decel) * decelerationTweaker)
	speed = math.Min(speed, v.MaxSpeed())

	desired := toTarget.Mul(speed / dist)
	return desired.Sub(v.Velocity())
}

// wander jitters a point on a circle projected ahead of the vehicle and steers
// toward it.
func (c *Composer) wander() geom.Vector2D {
	v := c.vehicle
	jitter := c.params.WanderJitter * v.TimeElapsed()

	c.wanderTarget.AddInPlace(geom.Vec(
		geom.RandomClamped(c.rng)*jitter,
		geom.RandomClamped(c.rng)*jitter,
	))
	c.wanderTarget.Normalize()
	c.wanderTarget = c.wanderTarget.Mul(c.params.WanderRadius)

	local := c.wanderTarget.Add(geom.Vec(c.params.WanderDistance, 0))
	world := geom.PointToWorldSpace(local, v.Heading(), v.Side(), v.Pos())

	return world.Sub(v.Pos())
}

// lookAhead is the time for the vehicle to cover dist against a target moving
// at targetSpeed.
func (c *Composer) lookAhead(dist, targetSpeed float64) float64 {
	closing := c.vehicle.MaxSpeed() + targetSpeed
	if closing <= 0 {
		return 0
	}
	return dist / closing
}

func (c *Composer) pursuit(evader *Vehicle) geom.Vector2D {
	v := c.vehicle
	toEvader := evader.Pos().Sub(v.Pos())

	// evader ahead and facing us: just seek its current position
	relativeHeading := v.Heading().Dot(evader.Heading())
	if toEvader.Dot(v.Heading()) > 0 && relativeHeading < headOnThreshold {
		return c.seek(evader.Pos())
	}

	t := c.lookAhead(toEvader.Length(), evader.Speed())
	return c.seek(evader.Pos().Add(evader.Velocity().Mul(t)))
}

func (c *Composer) evade(pursuer *Vehicle) geom.Vector2D {
	v := c.vehicle
	toPursuer := pursuer.Pos().Sub(v.Pos())

	r := c.params.EvadeThreatRange
	if toPursuer.LengthSq() > r*r {
		return geom.Vector2D{}
	}

	t := c.lookAhead(toPursuer.Length(), pursuer.Speed())
	return c.flee(pursuer.Pos().Add(pursuer.Velocity().Mul(t)))
}

// offsetPursuit keeps the vehicle at offset in leader's local frame.
func (c *Composer) offsetPursuit(leader *Vehicle, offset geom.Vector2D) geom.Vector2D {
	v := c.vehicle
	worldOffset := geom.PointToWorldSpace(offset, leader.Heading(), leader.Side(), leader.Pos())
	toOffset := worldOffset.Sub(v.Pos())

	t := c.lookAhead(toOffset.Length(), leader.Speed())
	return c.arrive(worldOffset.Add(leader.Velocity().Mul(t)), Fast)
}

// interpose heads for where the midpoint of a and b will be when the vehicle
// gets there.
func (c *Composer) interpose(a, b *Vehicle) geom.Vector2D {
	v := c.vehicle
	mid := a.Pos().Add(b.Pos()).Div(2)

	var t float64
	if v.MaxSpeed() > 0 {
		t = v.Pos().Distance(mid) / v.MaxSpeed()
	}

	aPos := a.Pos().Add(a.Velocity().Mul(t))
	bPos := b.Pos().Add(b.Velocity().Mul(t))
	return c.arrive(aPos.Add(bPos).Div(2), Fast)
}

// hidingPosition is the point just behind an obstacle as seen from hunter.
func (c *Composer) hidingPosition(obPos geom.Vector2D, obRadius float64, hunter geom.Vector2D) geom.Vector2D {
	distAway := obRadius + c.params.HideDistanceFromBoundary
	toOb := geom.Vec2DNormalize(obPos.Sub(hunter))
	return toOb.Mul(distAway).Add(obPos)
}

func (c *Composer) hide(hunter *Vehicle, obstacles []*components.Obstacle) geom.Vector2D {
	v := c.vehicle
	best := math.MaxFloat64
	var bestSpot geom.Vector2D

	for _, ob := range obstacles {
		spot := c.hidingPosition(ob.Center, ob.Radius, hunter.Pos())
		if d := spot.DistanceSq(v.Pos()); d < best {
			best = d
			bestSpot = spot
		}
	}

	if best == math.MaxFloat64 {
		return c.evade(hunter)
	}
	return c.arrive(bestSpot, Fast)
}

// followPath seeks the current waypoint, arriving at the last one.
func (c *Composer) followPath() geom.Vector2D {
	v := c.vehicle
	if c.path.CurrentWaypoint().DistanceSq(v.Pos()) < c.params.WaypointSeekDistSq {
		c.path.SetNextWaypoint()
	}

	if !c.path.Finished() {
		return c.seek(c.path.CurrentWaypoint())
	}
	return c.arrive(c.path.CurrentWaypoint(), Normal)
}
