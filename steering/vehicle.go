package steering

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/steer/components"
	"github.com/pthm-cable/steer/geom"
)

// vehicleShape is the local-space triangle drawn for every vehicle, nose on +x.
var vehicleShape = []geom.Vector2D{
	{X: -1, Y: 0.6},
	{X: 1, Y: 0},
	{X: -1, Y: -0.6},
}

// VehicleParams configures a new vehicle.
type VehicleParams struct {
	Position    geom.Vector2D
	Velocity    geom.Vector2D
	Rotation    float64 // initial heading is (sin r, -cos r)
	Mass        float64
	MaxSpeed    float64
	MaxForce    float64
	MaxTurnRate float64
	Scale       float64 // also the bounding radius

	SmoothingSamples int
}

// Vehicle is a kinematic body driven by its own steering composer.
type Vehicle struct {
	components.Kinematic

	world    World
	steering *Composer

	timeElapsed float64

	smoother        *Smoother
	smoothedHeading geom.Vector2D
	smoothingOn     bool
}

// NewVehicle creates a vehicle and its composer. rng drives wander and
// dithering for this vehicle only.
func NewVehicle(world World, id components.EntityID, p VehicleParams, sp Params, rng *rand.Rand) *Vehicle {
	v := &Vehicle{
		Kinematic: components.NewKinematic(id, components.KinematicParams{
			Position:       p.Position,
			Velocity:       p.Velocity,
			Heading:        geom.Vec(math.Sin(p.Rotation), -math.Cos(p.Rotation)),
			Scale:          geom.Vec(p.Scale, p.Scale),
			BoundingRadius: p.Scale,
			Mass:           p.Mass,
			MaxSpeed:       p.MaxSpeed,
			MaxForce:       p.MaxForce,
			MaxTurnRate:    p.MaxTurnRate,
		}),
		world: world,
	}
	v.steering = newComposer(v, world, sp, rng)

	samples := p.SmoothingSamples
	if samples < 1 {
		samples = 1
	}
	v.smoother = NewSmoother(samples, geom.Vector2D{})
	v.smoothedHeading = v.Heading()

	return v
}

// Update advances the vehicle by dt seconds.
func (v *Vehicle) Update(dt float64) {
	v.timeElapsed = dt

	force := v.steering.Calculate()
	v.Integrate(force, dt)

	w, h := v.world.Bounds()
	v.WrapAround(w, h)

	if v.smoothingOn {
		v.smoothedHeading = v.smoother.Update(v.Heading())
	}
}

func (v *Vehicle) Steering() *Composer { return v.steering }
func (v *Vehicle) World() World { return v.world }
func (v *Vehicle) TimeElapsed() float64 { return v.timeElapsed }

func (v *Vehicle) SmoothedHeading() geom.Vector2D { return v.smoothedHeading }
func (v *Vehicle) IsSmoothingOn() bool { return v.smoothingOn }
func (v *Vehicle) SmoothingOn() { v.smoothingOn = true }
func (v *Vehicle) SmoothingOff() { v.smoothingOn = false }
func (v *Vehicle) ToggleSmoothing() { v.smoothingOn = !v.smoothingOn }

// WorldShape returns the vehicle triangle in world space. With smoothing on
// the shape follows the smoothed heading.
func (v *Vehicle) WorldShape() []geom.Vector2D {
	heading, side := v.Heading(), v.Side()
	if v.smoothingOn && v.smoothedHeading.LengthSq() > geom.Epsilon {
		heading = geom.Vec2DNormalize(v.smoothedHeading)
		side = heading.Perp()
	}
	return geom.WorldTransform(vehicleShape, v.Pos(), heading, side, v.Scale())
}

// Render draws the vehicle through r.
func (v *Vehicle) Render(r Renderer) {
	r.ClosedShape(v.WorldShape())
}
