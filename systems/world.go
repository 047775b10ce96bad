package systems

import (
	"log/slog"
	"math"
	"math/rand"
	"slices"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/steer/components"
	"github.com/pthm-cable/steer/geom"
	"github.com/pthm-cable/steer/steering"
)

// Agent is the ECS component holding a steered vehicle.
type Agent struct {
	Vehicle *steering.Vehicle
}

// Obstacle placement.
const (
	obstacleBorder         = 10.0
	minGapBetweenObstacles = 20.0
	maxObstacleTries       = 2000
)

// World stores agents, obstacles and walls and steps them in a fixed order.
// It implements steering.World.
type World struct {
	ecs *ecs.World

	agentMap       *ecs.Map1[Agent]
	obstacleMap    *ecs.Map1[components.Obstacle]
	agentFilter    *ecs.Filter1[Agent]
	obstacleFilter *ecs.Filter1[components.Obstacle]

	ids      components.IDAllocator
	entities map[components.EntityID]ecs.Entity // agents only

	// Views rebuilt after every structural change. agents is in ID order,
	// which is the update order.
	agents    []*steering.Vehicle
	obstacles []*components.Obstacle

	walls []geom.Wall2D

	crosshair    geom.Vector2D
	hasCrosshair bool

	width  float64
	height float64

	cells  *CellSpace
	params steering.Params
	rng    *rand.Rand

	RenderCells bool
}

// New creates an empty world of the given size.
func New(width, height float64, cellsX, cellsY int, params steering.Params, rng *rand.Rand) *World {
	world := ecs.NewWorld()

	return &World{
		ecs:            world,
		agentMap:       ecs.NewMap1[Agent](world),
		obstacleMap:    ecs.NewMap1[components.Obstacle](world),
		agentFilter:    ecs.NewFilter1[Agent](world),
		obstacleFilter: ecs.NewFilter1[components.Obstacle](world),
		entities:       make(map[components.EntityID]ecs.Entity),
		width:          width,
		height:         height,
		cells:          NewCellSpace(width, height, cellsX, cellsY),
		params:         params,
		rng:            rng,
	}
}

var _ steering.World = (*World)(nil)

func (w *World) Agents() []*steering.Vehicle { return w.agents }
func (w *World) Obstacles() []*components.Obstacle { return w.obstacles }
func (w *World) Walls() []geom.Wall2D { return w.walls }
func (w *World) Bounds() (float64, float64) { return w.width, w.height }
func (w *World) Crosshair() (geom.Vector2D, bool) { return w.crosshair, w.hasCrosshair }
func (w *World) Params() steering.Params { return w.params }
func (w *World) CellSpace() *CellSpace { return w.cells }

// SetCrosshair moves the shared seek target.
func (w *World) SetCrosshair(p geom.Vector2D) {
	w.crosshair = p
	w.hasCrosshair = true
}

// Agent resolves an agent ID. It reports false for removed agents.
func (w *World) Agent(id components.EntityID) (*steering.Vehicle, bool) {
	e, ok := w.entities[id]
	if !ok || !w.ecs.Alive(e) {
		return nil, false
	}
	return w.agentMap.Get(e).Vehicle, true
}

// AddAgent spawns a vehicle. Its composer gets its own random stream derived
// from the world's.
func (w *World) AddAgent(p steering.VehicleParams) *steering.Vehicle {
	id := w.ids.Next()
	rng := rand.New(rand.NewSource(w.rng.Int63()))
	v := steering.NewVehicle(w, id, p, w.params, rng)

	e := w.agentMap.NewEntity(&Agent{Vehicle: v})
	w.entities[id] = e
	w.cells.Insert(e, v.Pos())

	w.refresh()
	return v
}

// RemoveAgent deletes an agent. Every other composer referencing it drops the
// reference first.
func (w *World) RemoveAgent(id components.EntityID) bool {
	e, ok := w.entities[id]
	if !ok {
		return false
	}
	v := w.agentMap.Get(e).Vehicle

	for _, other := range w.agents {
		if other != v && other.Steering().HasTargetAgent(id) {
			other.Steering().ReleaseTarget(id)
			slog.Debug("target released", "agent", other.ID(), "target", id)
		}
	}

	w.cells.Remove(e, v.Pos())
	w.ecs.RemoveEntity(e)
	delete(w.entities, id)

	w.refresh()
	return true
}

// AddObstacle places a circular obstacle.
func (w *World) AddObstacle(center geom.Vector2D, radius float64) {
	ob := components.NewObstacle(w.ids.Next(), center, radius)
	w.obstacleMap.NewEntity(&ob)
	w.refresh()
}

// AddWall appends a wall segment. Its normal is the left perpendicular of
// from->to.
func (w *World) AddWall(from, to geom.Vector2D) {
	w.walls = append(w.walls, geom.NewWall2D(from, to))
}

// refresh rebuilds the agent and obstacle views from the ECS.
func (w *World) refresh() {
	w.agents = w.agents[:0]
	query := w.agentFilter.Query()
	for query.Next() {
		a := query.Get()
		w.agents = append(w.agents, a.Vehicle)
	}
	slices.SortFunc(w.agents, func(a, b *steering.Vehicle) int {
		return int(a.ID()) - int(b.ID())
	})

	w.obstacles = w.obstacles[:0]
	obQuery := w.obstacleFilter.Query()
	for obQuery.Next() {
		w.obstacles = append(w.obstacles, obQuery.Get())
	}
	slices.SortFunc(w.obstacles, func(a, b *components.Obstacle) int {
		return int(a.ID) - int(b.ID)
	})
}

// CreateBorderWalls encloses the world in an octagon inset from the edges.
// Normals face inward.
func (w *World) CreateBorderWalls(inset float64) {
	const cornerSize = 0.2
	vDist := w.height - 2*inset
	hDist := w.width - 2*inset

	points := []geom.Vector2D{
		geom.Vec(hDist*cornerSize+inset, inset),
		geom.Vec(w.width-inset-hDist*cornerSize, inset),
		geom.Vec(w.width-inset, inset+vDist*cornerSize),
		geom.Vec(w.width-inset, w.height-inset-vDist*cornerSize),
		geom.Vec(w.width-inset-hDist*cornerSize, w.height-inset),
		geom.Vec(hDist*cornerSize+inset, w.height-inset),
		geom.Vec(inset, w.height-inset-vDist*cornerSize),
		geom.Vec(inset, inset+vDist*cornerSize),
	}

	for i := range points {
		w.AddWall(points[i], points[(i+1)%len(points)])
	}
}

// CreateObstacles scatters n non-overlapping obstacles with radii in
// [minRadius, maxRadius]. It returns how many were placed.
func (w *World) CreateObstacles(n int, minRadius, maxRadius float64) int {
	placed := 0
	for i := 0; i < n; i++ {
		for try := 0; try < maxObstacleTries; try++ {
			radius := minRadius + w.rng.Float64()*(maxRadius-minRadius)
			margin := radius + obstacleBorder
			if w.width <= 2*margin || w.height <= 2*margin {
				break
			}
			center := geom.Vec(
				margin+w.rng.Float64()*(w.width-2*margin),
				margin+w.rng.Float64()*(w.height-2*margin),
			)

			if w.overlapsObstacle(center, radius) {
				continue
			}
			w.AddObstacle(center, radius)
			placed++
			break
		}
	}
	return placed
}

func (w *World) overlapsObstacle(center geom.Vector2D, radius float64) bool {
	for _, ob := range w.obstacles {
		if ob.Overlaps(center, radius, minGapBetweenObstacles) {
			return true
		}
	}
	return false
}

// Populate spawns n vehicles scattered around the centre with random
// rotations, enabling behaviors on each.
func (w *World) Populate(n int, p steering.VehicleParams, behaviors steering.Behavior) ([]*steering.Vehicle, error) {
	cx, cy := w.width/2, w.height/2
	spawned := make([]*steering.Vehicle, 0, n)

	for i := 0; i < n; i++ {
		vp := p
		vp.Position = geom.Vec(
			cx+geom.RandomClamped(w.rng)*cx/2,
			cy+geom.RandomClamped(w.rng)*cy/2,
		)
		vp.Rotation = w.rng.Float64() * 2 * math.Pi

		v := w.AddAgent(vp)
		if behaviors.Has(steering.FollowPath) {
			v.Steering().FollowPathOn(steering.NewRandomPath(w.rng, 6, 0, 0, w.width, w.height, true))
		}
		if err := v.Steering().Enable(behaviors); err != nil {
			return spawned, err
		}
		spawned = append(spawned, v)
	}

	return spawned, nil
}

// TagVehiclesWithinViewRange tags every other agent whose bounding circle
// reaches within radius of v.
func (w *World) TagVehiclesWithinViewRange(v *steering.Vehicle, radius float64) {
	for _, a := range w.agents {
		a.UnTag()
		r := radius + a.BRadius()
		if a != v && a.Pos().DistanceSq(v.Pos()) < r*r {
			a.Tag()
		}
	}
}

// TagObstaclesWithinViewRange tags obstacles whose bounding circle reaches
// within radius of v.
func (w *World) TagObstaclesWithinViewRange(v *steering.Vehicle, radius float64) {
	for _, ob := range w.obstacles {
		r := radius + ob.Radius
		ob.Tagged = ob.Center.DistanceSq(v.Pos()) < r*r
	}
}

// NavGrid rasterizes the current obstacles and walls, inflated by clearance.
func (w *World) NavGrid(clearance float64) *NavGrid {
	return NewNavGrid(w.width, w.height, NavGridCellSize, clearance, w.obstacles, w.walls)
}

// RouteTo plans an obstacle-free path from v to goal and makes v follow it.
// The grid is inflated by v's bounding radius.
func (w *World) RouteTo(v *steering.Vehicle, goal geom.Vector2D) (*steering.Path, error) {
	path, err := NewAStarPlanner(w.NavGrid(v.BRadius())).PlanPath(v.Pos(), goal)
	if err != nil {
		return nil, err
	}
	v.Steering().FollowPathOn(path)
	slog.Debug("route planned", "agent", v.ID(), "waypoints", len(path.Waypoints()))
	return path, nil
}

// Neighbors queries the cell-space partition.
func (w *World) Neighbors(pos geom.Vector2D, radius float64, dst []*steering.Vehicle) []*steering.Vehicle {
	return w.cells.QueryRadiusInto(dst, pos, radius, w.agentMap)
}

// Step updates every agent once, in ID order. Agents later in the order see
// the already-updated positions of earlier ones.
func (w *World) Step(dt float64) {
	for _, v := range w.agents {
		old := v.Pos()
		v.Update(dt)
		w.cells.Update(w.entities[v.ID()], old, v.Pos())
	}
}

// Render draws walls, obstacles, paths, agents and the crosshair.
func (w *World) Render(r steering.Renderer) {
	if w.RenderCells {
		w.cells.Render(r)
	}
	for _, wall := range w.walls {
		r.Line(wall.From, wall.To)
	}
	for _, ob := range w.obstacles {
		r.Circle(ob.Center, ob.Radius)
	}
	for _, v := range w.agents {
		if v.Steering().IsEnabled(steering.FollowPath) {
			v.Steering().Path().Render(r)
		}
		v.Render(r)
	}
	if w.hasCrosshair {
		r.Circle(w.crosshair, 4)
		r.Line(w.crosshair.Sub(geom.Vec(8, 0)), w.crosshair.Add(geom.Vec(8, 0)))
		r.Line(w.crosshair.Sub(geom.Vec(0, 8)), w.crosshair.Add(geom.Vec(0, 8)))
	}
}
