package steering

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/steer/components"
	"github.com/pthm-cable/steer/geom"
)

const tol = 1e-9

// stubWorld is a flat in-memory World.
type stubWorld struct {
	agents       []*Vehicle
	obstacles    []*components.Obstacle
	walls        []geom.Wall2D
	crosshair    geom.Vector2D
	hasCrosshair bool
	width        float64
	height       float64
	ids          components.IDAllocator
}

func newStubWorld() *stubWorld {
	return &stubWorld{width: 1000, height: 1000}
}

func (w *stubWorld) Agents() []*Vehicle { return w.agents }

func (w *stubWorld) Agent(id components.EntityID) (*Vehicle, bool) {
	for _, a := range w.agents {
		if a.ID() == id {
			return a, true
		}
	}
	return nil, false
}

func (w *stubWorld) Obstacles() []*components.Obstacle { return w.obstacles }
func (w *stubWorld) Walls() []geom.Wall2D { return w.walls }
func (w *stubWorld) Crosshair() (geom.Vector2D, bool) { return w.crosshair, w.hasCrosshair }
func (w *stubWorld) Bounds() (float64, float64) { return w.width, w.height }

func (w *stubWorld) setCrosshair(p geom.Vector2D) {
	w.crosshair = p
	w.hasCrosshair = true
}

func (w *stubWorld) TagVehiclesWithinViewRange(v *Vehicle, radius float64) {
	for _, a := range w.agents {
		a.UnTag()
		r := radius + a.BRadius()
		if a != v && a.Pos().DistanceSq(v.Pos()) < r*r {
			a.Tag()
		}
	}
}

func (w *stubWorld) TagObstaclesWithinViewRange(v *Vehicle, radius float64) {
	for _, o := range w.obstacles {
		r := radius + o.Radius
		o.Tagged = o.Center.DistanceSq(v.Pos()) < r*r
	}
}

func (w *stubWorld) Neighbors(pos geom.Vector2D, radius float64, dst []*Vehicle) []*Vehicle {
	for _, a := range w.agents {
		if a.Pos().DistanceSq(pos) < radius*radius {
			dst = append(dst, a)
		}
	}
	return dst
}

func uniformTable(v float64) map[Behavior]float64 {
	t := make(map[Behavior]float64, len(priorityOrder))
	for _, b := range priorityOrder {
		t[b] = v
	}
	return t
}

func testParams() Params {
	return Params{
		SummingMethod:             WeightedAverage,
		Deceleration:              Normal,
		Weights:                   uniformTable(1),
		Probabilities:             uniformTable(1),
		ViewDistance:              50,
		MinDetectionBoxLength:     40,
		WallDetectionFeelerLength: 40,
		WaypointSeekDistSq:        20 * 20,
		WanderRadius:              1.2,
		WanderDistance:            2,
		WanderJitter:              80,
		HideDistanceFromBoundary:  30,
		EvadeThreatRange:          100,
	}
}

// facingRotation is the rotation that produces the given heading under
// (sin r, -cos r).
func facingRotation(h geom.Vector2D) float64 {
	return math.Atan2(h.X, -h.Y)
}

type vehicleOpt func(*VehicleParams)

func withMaxForce(f float64) vehicleOpt { return func(p *VehicleParams) { p.MaxForce = f } }
func withMaxSpeed(s float64) vehicleOpt { return func(p *VehicleParams) { p.MaxSpeed = s } }
func withVelocity(v geom.Vector2D) vehicleOpt { return func(p *VehicleParams) { p.Velocity = v } }
func withScale(s float64) vehicleOpt { return func(p *VehicleParams) { p.Scale = s } }

func withHeading(h geom.Vector2D) vehicleOpt {
	return func(p *VehicleParams) { p.Rotation = facingRotation(h) }
}

// spawn adds a vehicle at pos facing +x with mass 1, maxSpeed 10, maxForce 700.
func (w *stubWorld) spawn(pos geom.Vector2D, sp Params, seed int64, opts ...vehicleOpt) *Vehicle {
	p := VehicleParams{
		Position:    pos,
		Rotation:    math.Pi / 2,
		Mass:        1,
		MaxSpeed:    10,
		MaxForce:    700,
		MaxTurnRate: math.Pi,
		Scale:       1,
	}
	for _, o := range opts {
		o(&p)
	}
	v := NewVehicle(w, w.ids.Next(), p, sp, rand.New(rand.NewSource(seed)))
	w.agents = append(w.agents, v)
	return v
}

func near(a, b geom.Vector2D, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func assertNear(t *testing.T, what string, got, want geom.Vector2D) {
	t.Helper()
	if !near(got, want, 1e-6) {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}
