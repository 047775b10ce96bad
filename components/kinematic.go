package components

import (
	"fmt"
	"math"

	"github.com/pthm-cable/steer/geom"
)

// headingTolerance bounds |heading|² - 1 for SetHeading.
const headingTolerance = 0.00001

// facingThreshold is the angle (radians) below which an entity counts as facing its target.
const facingThreshold = 0.00001

// minHeadingSpeedSq is the squared speed below which Integrate leaves the heading untouched.
const minHeadingSpeedSq = 0.00000001

// KinematicParams configures a new Kinematic.
type KinematicParams struct {
	Position       geom.Vector2D
	Velocity       geom.Vector2D
	Heading        geom.Vector2D // must be unit length
	Scale          geom.Vector2D // zero value means (1,1)
	BoundingRadius float64
	Mass           float64
	MaxSpeed       float64
	MaxForce       float64
	MaxTurnRate    float64 // radians per second
}

// Kinematic is the positional and orientation state of a moving body.
// Heading is always unit length and Side is always Heading.Perp().
type Kinematic struct {
	id      EntityID
	pos     geom.Vector2D
	heading geom.Vector2D
	side    geom.Vector2D
	vel     geom.Vector2D
	scale   geom.Vector2D

	mass        float64
	maxSpeed    float64
	maxForce    float64
	maxTurnRate float64
	bRadius     float64

	tagged bool
}

// NewKinematic builds kinematic state. It panics on a non-positive mass or a
// non-unit heading.
func NewKinematic(id EntityID, p KinematicParams) Kinematic {
	if p.Mass <= 0 {
		panic(fmt.Sprintf("components: mass must be positive, got %v", p.Mass))
	}
	scale := p.Scale
	if scale == (geom.Vector2D{}) {
		scale = geom.Vec(1, 1)
	}

	k := Kinematic{
		id:          id,
		pos:         p.Position,
		vel:         p.Velocity,
		scale:       scale,
		mass:        p.Mass,
		maxSpeed:    p.MaxSpeed,
		maxForce:    p.MaxForce,
		maxTurnRate: p.MaxTurnRate,
		bRadius:     p.BoundingRadius,
	}
	k.SetHeading(p.Heading)
	return k
}

func (k *Kinematic) ID() EntityID { return k.id }

// Plain accessors. Setters do not re-derive anything; heading changes go
// through SetHeading so side stays perpendicular.
func (k *Kinematic) Pos() geom.Vector2D { return k.pos }
func (k *Kinematic) SetPos(p geom.Vector2D) { k.pos = p }
func (k *Kinematic) Velocity() geom.Vector2D { return k.vel }
func (k *Kinematic) SetVelocity(v geom.Vector2D) { k.vel = v }
func (k *Kinematic) Heading() geom.Vector2D { return k.heading }
func (k *Kinematic) Side() geom.Vector2D { return k.side }
func (k *Kinematic) Scale() geom.Vector2D { return k.scale }
func (k *Kinematic) Mass() float64 { return k.mass }
func (k *Kinematic) MaxSpeed() float64 { return k.maxSpeed }
func (k *Kinematic) SetMaxSpeed(s float64) { k.maxSpeed = s }
func (k *Kinematic) MaxForce() float64 { return k.maxForce }
func (k *Kinematic) SetMaxForce(f float64) { k.maxForce = f }
func (k *Kinematic) MaxTurnRate() float64 { return k.maxTurnRate }
func (k *Kinematic) SetMaxTurnRate(r float64) { k.maxTurnRate = r }

// BRadius is the bounding radius used for tagging, avoidance and route
// clearance. SetScale rescales it.
func (k *Kinematic) BRadius() float64 { return k.bRadius }

// SetBRadius overrides the bounding radius without touching scale.
func (k *Kinematic) SetBRadius(r float64) { k.bRadius = r }

func (k *Kinematic) Speed() float64 { return k.vel.Length() }
func (k *Kinematic) SpeedSq() float64 { return k.vel.LengthSq() }

// IsSpeedMaxedOut reports whether the entity is travelling at its speed cap.
func (k *Kinematic) IsSpeedMaxedOut() bool {
	return k.vel.LengthSq() >= k.maxSpeed*k.maxSpeed
}

// SetHeading assigns a new heading and re-derives Side. Assigning a non-unit
// vector is a programming error and panics.
func (k *Kinematic) SetHeading(h geom.Vector2D) {
	if math.Abs(h.LengthSq()-1) >= headingTolerance {
		panic(fmt.Sprintf("components: heading must be unit length, got %v (|h|²=%v)", h, h.LengthSq()))
	}
	k.heading = h
	k.side = h.Perp()
}

// SetScale changes the scale, resizing the bounding radius in proportion.
func (k *Kinematic) SetScale(s geom.Vector2D) {
	k.bRadius *= math.Max(s.X, s.Y) / math.Max(k.scale.X, k.scale.Y)
	k.scale = s
}

// IsTagged reports the generic neighbourhood flag.
func (k *Kinematic) IsTagged() bool { return k.tagged }

// Tag marks the entity as in range of the agent currently being updated.
// The world clears and resets tags before every neighbourhood query.
func (k *Kinematic) Tag() { k.tagged = true }

// UnTag clears the neighbourhood flag.
func (k *Kinematic) UnTag() { k.tagged = false }

// RotateHeadingToFacePosition turns the heading toward target by at most
// MaxTurnRate radians. Velocity is rotated by the same amount. It returns true
// when the entity already faces the target, in which case nothing changes.
func (k *Kinematic) RotateHeadingToFacePosition(target geom.Vector2D) bool {
	toTarget := geom.Vec2DNormalize(target.Sub(k.pos))

	angle := math.Acos(k.heading.Dot(toTarget))
	if math.IsNaN(angle) {
		angle = 0
	}

	if angle < facingThreshold {
		return true
	}

	if angle > k.maxTurnRate {
		angle = k.maxTurnRate
	}

	m := geom.NewMatrix()
	m.Rotate(angle * float64(k.heading.Sign(toTarget)))
	m.TransformVector2D(&k.heading)
	m.TransformVector2D(&k.vel)

	k.side = k.heading.Perp()

	return false
}

// Integrate applies force for dt seconds: F = ma, velocity capped at MaxSpeed,
// position advanced, heading re-derived from velocity when moving.
func (k *Kinematic) Integrate(force geom.Vector2D, dt float64) {
	accel := force.Div(k.mass)

	k.vel.AddInPlace(accel.Mul(dt))
	k.vel.Truncate(k.maxSpeed)

	k.pos.AddInPlace(k.vel.Mul(dt))

	if k.vel.LengthSq() > minHeadingSpeedSq {
		k.heading = geom.Vec2DNormalize(k.vel)
		k.side = k.heading.Perp()
	}
}

// WrapAround wraps the position into the world bounds.
func (k *Kinematic) WrapAround(width, height float64) {
	geom.WrapAround(&k.pos, width, height)
}

func (k *Kinematic) String() string {
	return fmt.Sprintf("x: %v, y: %v", k.pos.X, k.pos.Y)
}
