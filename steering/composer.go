package steering

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/steer/components"
	"github.com/pthm-cable/steer/geom"
)

var (
	// ErrNoTarget is returned when seek, flee or arrive is enabled with neither
	// an explicit target point nor a world crosshair.
	ErrNoTarget = errors.New("steering: no target point")
	// ErrMissingReference is returned by Enable for behaviors whose target
	// agents, offset or path have not been supplied.
	ErrMissingReference = errors.New("steering: behavior requires a target reference")
)

// groupBehaviors need a neighbor set.
const groupBehaviors = Separation | Alignment | Cohesion

// targetRef is a weak reference to another agent, resolved through the world.
type targetRef struct {
	id  components.EntityID
	set bool
}

// Composer computes the combined steering force for exactly one vehicle.
type Composer struct {
	vehicle *Vehicle
	world   World
	rng     *rand.Rand
	params  Params

	flags         Behavior
	steeringForce geom.Vector2D

	// explicit target point, overrides the world crosshair
	target    geom.Vector2D
	hasTarget bool

	targetAgent1 targetRef
	targetAgent2 targetRef
	offset       geom.Vector2D
	hasOffset    bool
	path         *Path

	wanderTarget geom.Vector2D
	boxLength    float64
	feelers      [3]geom.Vector2D

	neighbors []*Vehicle
}

func newComposer(v *Vehicle, world World, params Params, rng *rand.Rand) *Composer {
	params.Weights = copyTable(params.Weights)
	params.Probabilities = copyTable(params.Probabilities)

	theta := rng.Float64() * 2 * math.Pi
	return &Composer{
		vehicle:      v,
		world:        world,
		rng:          rng,
		params:       params,
		wanderTarget: geom.Vec(params.WanderRadius*math.Cos(theta), params.WanderRadius*math.Sin(theta)),
		boxLength:    params.MinDetectionBoxLength,
	}
}

func copyTable(t map[Behavior]float64) map[Behavior]float64 {
	out := make(map[Behavior]float64, len(t))
	for b, v := range t {
		out[b] = v
	}
	return out
}

// Calculate returns the combined steering force for this frame, never longer
// than the vehicle's MaxForce.
func (c *Composer) Calculate() geom.Vector2D {
	c.steeringForce.Zero()

	if c.flags.HasAny(groupBehaviors) {
		c.findNeighbors()
	}

	switch c.params.SummingMethod {
	case WeightedAverage:
		c.calculateWeightedSum()
	case Prioritized:
		c.calculatePrioritized()
	case Dithered:
		c.calculateDithered()
	default:
		panic(fmt.Sprintf("steering: unknown summing method %v", c.params.SummingMethod))
	}

	return c.steeringForce
}

// Force returns the last force computed by Calculate.
func (c *Composer) Force() geom.Vector2D { return c.steeringForce }

// ForwardComponent is the projection of the steering force on the heading.
func (c *Composer) ForwardComponent() float64 {
	return c.vehicle.Heading().Dot(c.steeringForce)
}

// SideComponent is the projection of the steering force on the side vector.
func (c *Composer) SideComponent() float64 {
	return c.vehicle.Side().Dot(c.steeringForce)
}

// accumulateForce adds as much of forceToAdd to total as the remaining force
// budget allows. It reports false once the budget is exhausted.
func (c *Composer) accumulateForce(total *geom.Vector2D, forceToAdd geom.Vector2D) bool {
	soFar := total.Length()
	remaining := c.vehicle.MaxForce() - soFar
	if remaining <= 0 {
		return false
	}

	toAdd := forceToAdd.Length()
	if toAdd < remaining {
		total.AddInPlace(forceToAdd)
	} else {
		total.AddInPlace(geom.Vec2DNormalize(forceToAdd).Mul(remaining))
	}
	return true
}

func (c *Composer) budgetLeft() bool {
	return c.steeringForce.Length() < c.vehicle.MaxForce()
}

func (c *Composer) calculateWeightedSum() {
	for _, b := range priorityOrder {
		if !c.flags.Has(b) {
			continue
		}
		c.accumulateForce(&c.steeringForce, c.force(b).Mul(c.params.Weights[b]))
	}
	c.steeringForce.Truncate(c.vehicle.MaxForce())
}

func (c *Composer) calculatePrioritized() {
	for _, b := range priorityOrder {
		if !c.flags.Has(b) {
			continue
		}
		if !c.budgetLeft() {
			return
		}
		if !c.accumulateForce(&c.steeringForce, c.force(b).Mul(c.params.Weights[b])) {
			return
		}
	}
}

func (c *Composer) calculateDithered() {
	for _, b := range priorityOrder {
		if !c.flags.Has(b) {
			continue
		}
		if !c.budgetLeft() {
			return
		}
		p := c.params.Probabilities[b]
		if c.rng.Float64() >= p {
			continue
		}
		f := c.force(b).Mul(c.params.Weights[b] / p)
		if !c.accumulateForce(&c.steeringForce, f) {
			return
		}
	}
}

// force evaluates a single behavior, unweighted.
func (c *Composer) force(b Behavior) geom.Vector2D {
	switch b {
	case Seek:
		return c.seek(c.targetPos())
	case Flee:
		return c.flee(c.targetPos())
	case Arrive:
		return c.arrive(c.targetPos(), c.params.Deceleration)
	case Wander:
		return c.wander()
	case Separation:
		return c.separation(c.neighbors)
	case Alignment:
		return c.alignment(c.neighbors)
	case Cohesion:
		return c.cohesion(c.neighbors)
	case ObstacleAvoidance:
		return c.obstacleAvoidance(c.world.Obstacles())
	case WallAvoidance:
		return c.wallAvoidance(c.world.Walls())
	case FollowPath:
		return c.followPath()
	case Pursuit:
		return c.pursuit(c.agent(c.targetAgent1))
	case Evade:
		return c.evade(c.agent(c.targetAgent1))
	case OffsetPursuit:
		return c.offsetPursuit(c.agent(c.targetAgent1), c.offset)
	case Interpose:
		return c.interpose(c.agent(c.targetAgent1), c.agent(c.targetAgent2))
	case Hide:
		return c.hide(c.agent(c.targetAgent1), c.world.Obstacles())
	}
	panic(fmt.Sprintf("steering: behavior %v not implemented", b))
}

func (c *Composer) findNeighbors() {
	c.neighbors = c.neighbors[:0]
	if c.params.CellSpacePartitioning {
		c.neighbors = c.world.Neighbors(c.vehicle.Pos(), c.params.ViewDistance, c.neighbors)
		return
	}
	c.world.TagVehiclesWithinViewRange(c.vehicle, c.params.ViewDistance)
	for _, a := range c.world.Agents() {
		if a.IsTagged() {
			c.neighbors = append(c.neighbors, a)
		}
	}
}

func (c *Composer) targetPos() geom.Vector2D {
	p, ok := c.resolveTarget()
	if !ok {
		panic("steering: target point lost after enabling")
	}
	return p
}

func (c *Composer) resolveTarget() (geom.Vector2D, bool) {
	if c.hasTarget {
		return c.target, true
	}
	return c.world.Crosshair()
}

func (c *Composer) agent(ref targetRef) *Vehicle {
	if !ref.set {
		panic("steering: target agent not set")
	}
	a, ok := c.world.Agent(ref.id)
	if !ok {
		panic(fmt.Sprintf("steering: target agent %d no longer exists", ref.id))
	}
	return a
}

// Flags returns the active behavior set.
func (c *Composer) Flags() Behavior { return c.flags }

// IsEnabled reports whether every behavior in b is active.
func (c *Composer) IsEnabled(b Behavior) bool { return c.flags.Has(b) }

// Enable turns behaviors on. Behaviors needing a target point fail with
// ErrNoTarget; behaviors needing target agents, an offset or a path fail with
// ErrMissingReference unless those were supplied earlier through their On
// method.
func (c *Composer) Enable(b Behavior) error {
	if b.HasAny(Seek | Flee | Arrive) {
		if _, ok := c.resolveTarget(); !ok {
			return ErrNoTarget
		}
	}
	if b.HasAny(Pursuit|Evade|Hide|OffsetPursuit|Interpose) && !c.targetAgent1.set {
		return fmt.Errorf("%w: %v", ErrMissingReference, b)
	}
	if b.HasAny(Interpose) && !c.targetAgent2.set {
		return fmt.Errorf("%w: %v", ErrMissingReference, b)
	}
	if b.HasAny(OffsetPursuit) && !c.hasOffset {
		return fmt.Errorf("%w: %v", ErrMissingReference, b)
	}
	if b.HasAny(FollowPath) && c.path == nil {
		return fmt.Errorf("%w: %v", ErrMissingReference, b)
	}
	c.flags = c.flags.Add(b)
	return nil
}

// Disable turns behaviors off.
func (c *Composer) Disable(b Behavior) {
	c.flags = c.flags.Remove(b)
}

// SetTarget sets an explicit target point for seek, flee and arrive.
func (c *Composer) SetTarget(p geom.Vector2D) {
	c.target = p
	c.hasTarget = true
}

// ClearTarget falls back to the world crosshair, disabling seek, flee and
// arrive when there is none.
func (c *Composer) ClearTarget() {
	c.hasTarget = false
	if _, ok := c.world.Crosshair(); !ok {
		c.Disable(Seek | Flee | Arrive)
	}
}

func (c *Composer) SeekOn() error { return c.Enable(Seek) }
func (c *Composer) FleeOn() error { return c.Enable(Flee) }
func (c *Composer) ArriveOn() error { return c.Enable(Arrive) }

func (c *Composer) WanderOn() { c.flags = c.flags.Add(Wander) }
func (c *Composer) SeparationOn() { c.flags = c.flags.Add(Separation) }
func (c *Composer) AlignmentOn() { c.flags = c.flags.Add(Alignment) }
func (c *Composer) CohesionOn() { c.flags = c.flags.Add(Cohesion) }
func (c *Composer) ObstacleAvoidanceOn() { c.flags = c.flags.Add(ObstacleAvoidance) }
func (c *Composer) WallAvoidanceOn() { c.flags = c.flags.Add(WallAvoidance) }

// FlockingOn enables separation, alignment, cohesion and wander.
func (c *Composer) FlockingOn() { c.flags = c.flags.Add(Flock) }
func (c *Composer) FlockingOff() { c.flags = c.flags.Remove(Flock) }

// PursuitOn chases evader.
func (c *Composer) PursuitOn(evader *Vehicle) {
	c.targetAgent1 = mustRef(evader, "pursuit")
	c.flags = c.flags.Add(Pursuit)
}

// EvadeOn flees from pursuer's predicted position.
func (c *Composer) EvadeOn(pursuer *Vehicle) {
	c.targetAgent1 = mustRef(pursuer, "evade")
	c.flags = c.flags.Add(Evade)
}

// HideOn keeps an obstacle between this vehicle and hunter.
func (c *Composer) HideOn(hunter *Vehicle) {
	c.targetAgent1 = mustRef(hunter, "hide")
	c.flags = c.flags.Add(Hide)
}

// InterposeOn steers to the midpoint between a and b.
func (c *Composer) InterposeOn(a, b *Vehicle) {
	c.targetAgent1 = mustRef(a, "interpose")
	c.targetAgent2 = mustRef(b, "interpose")
	c.flags = c.flags.Add(Interpose)
}

// OffsetPursuitOn holds offset, given in the leader's local space.
func (c *Composer) OffsetPursuitOn(leader *Vehicle, offset geom.Vector2D) {
	c.targetAgent1 = mustRef(leader, "offset pursuit")
	c.offset = offset
	c.hasOffset = true
	c.flags = c.flags.Add(OffsetPursuit)
}

// FollowPathOn follows path. The path is owned by the composer from here on.
func (c *Composer) FollowPathOn(path *Path) {
	if path == nil || len(path.Waypoints()) == 0 {
		panic("steering: follow path requires a non-empty path")
	}
	c.path = path
	c.flags = c.flags.Add(FollowPath)
}

func mustRef(v *Vehicle, behavior string) targetRef {
	if v == nil {
		panic(fmt.Sprintf("steering: %s requires a target agent", behavior))
	}
	return targetRef{id: v.ID(), set: true}
}

// ReleaseTarget drops every reference to the agent id and disables the
// behaviors that depended on it.
func (c *Composer) ReleaseTarget(id components.EntityID) {
	if c.targetAgent1.set && c.targetAgent1.id == id {
		c.targetAgent1 = targetRef{}
		c.flags = c.flags.Remove(Pursuit | Evade | Hide | OffsetPursuit | Interpose)
	}
	if c.targetAgent2.set && c.targetAgent2.id == id {
		c.targetAgent2 = targetRef{}
		c.flags = c.flags.Remove(Interpose)
	}
}

// HasTargetAgent reports whether the composer references agent id.
func (c *Composer) HasTargetAgent(id components.EntityID) bool {
	return (c.targetAgent1.set && c.targetAgent1.id == id) ||
		(c.targetAgent2.set && c.targetAgent2.id == id)
}

func (c *Composer) SummingMethod() SummingMethod { return c.params.SummingMethod }
func (c *Composer) SetSummingMethod(m SummingMethod) { c.params.SummingMethod = m }
func (c *Composer) Deceleration() Deceleration { return c.params.Deceleration }
func (c *Composer) SetDeceleration(d Deceleration) { c.params.Deceleration = d }
func (c *Composer) Weight(b Behavior) float64 { return c.params.Weights[b] }
func (c *Composer) ViewDistance() float64 { return c.params.ViewDistance }
func (c *Composer) DBoxLength() float64 { return c.boxLength }
func (c *Composer) Feelers() [3]geom.Vector2D { return c.feelers }
func (c *Composer) WanderTarget() geom.Vector2D { return c.wanderTarget }
func (c *Composer) Path() *Path { return c.path }
func (c *Composer) NeighborCount() int { return len(c.neighbors) }

// SetWeight overrides the (already tweaked) weight for b.
func (c *Composer) SetWeight(b Behavior, w float64) {
	if c.params.Weights == nil {
		c.params.Weights = make(map[Behavior]float64)
	}
	c.params.Weights[b] = w
}

// WanderCircle returns the wander circle in world space.
func (c *Composer) WanderCircle() (geom.Vector2D, float64) {
	v := c.vehicle
	center := geom.PointToWorldSpace(geom.Vec(c.params.WanderDistance, 0), v.Heading(), v.Side(), v.Pos())
	return center, c.params.WanderRadius
}

// WanderTargetWorld returns the current wander target in world space.
func (c *Composer) WanderTargetWorld() geom.Vector2D {
	v := c.vehicle
	local := c.wanderTarget.Add(geom.Vec(c.params.WanderDistance, 0))
	return geom.PointToWorldSpace(local, v.Heading(), v.Side(), v.Pos())
}

// DetectionBox returns the corners of the obstacle detection box in world
// space, as sized by the last avoidance pass.
func (c *Composer) DetectionBox() []geom.Vector2D {
	v := c.vehicle
	r := v.BRadius()
	local := []geom.Vector2D{
		geom.Vec(0, -r),
		geom.Vec(c.boxLength, -r),
		geom.Vec(c.boxLength, r),
		geom.Vec(0, r),
	}
	out := make([]geom.Vector2D, len(local))
	for i, p := range local {
		out[i] = geom.PointToWorldSpace(p, v.Heading(), v.Side(), v.Pos())
	}
	return out
}
