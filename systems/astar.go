package systems

import (
	"container/heap"
	"errors"
	"math"

	"github.com/pthm-cable/steer/geom"
	"github.com/pthm-cable/steer/steering"
)

// ErrNoPath is returned when the planner cannot connect start and goal.
var ErrNoPath = errors.New("systems: no path")

// AStarPlanner plans obstacle-free routes over a NavGrid.
type AStarPlanner struct {
	grid *NavGrid

	// Reusable data structures (cleared between searches)
	openHeap  *nodeHeap
	closedSet map[int]struct{}
	cameFrom  map[int]int
	gScore    map[int]float64
}

type astarNode struct {
	gx, gy int
	f      float64 // f = g + h (priority)
	index  int     // heap index
}

// nodeHeap implements heap.Interface for the A* open set.
type nodeHeap []*astarNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].f < h[j].f }
func (h nodeHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *nodeHeap) Push(x any) {
	n := x.(*astarNode)
	n.index = len(*h)
	*h = append(*h, n)
}

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*h = old[0 : n-1]
	return node
}

// NewAStarPlanner creates a planner over grid.
func NewAStarPlanner(grid *NavGrid) *AStarPlanner {
	return &AStarPlanner{
		grid:      grid,
		openHeap:  &nodeHeap{},
		closedSet: make(map[int]struct{}, 256),
		cameFrom:  make(map[int]int, 256),
		gScore:    make(map[int]float64, 256),
	}
}

// Grid returns the planner's navigation grid.
func (a *AStarPlanner) Grid() *NavGrid { return a.grid }

// FindPath computes waypoints from start to goal in world coordinates.
// Blocked endpoints snap to the nearest open cell. It returns nil if no
// route exists.
func (a *AStarPlanner) FindPath(start, goal geom.Vector2D) []geom.Vector2D {
	grid := a.grid

	startGX, startGY := grid.WorldToGrid(start)
	goalGX, goalGY := grid.WorldToGrid(goal)

	if grid.IsBlocked(startGX, startGY) {
		startGX, startGY = a.findNearestOpen(startGX, startGY)
		if startGX < 0 {
			return nil
		}
	}
	if grid.IsBlocked(goalGX, goalGY) {
		goalGX, goalGY = a.findNearestOpen(goalGX, goalGY)
		if goalGX < 0 {
			return nil
		}
	}

	if startGX == goalGX && startGY == goalGY {
		return []geom.Vector2D{grid.GridToWorld(goalGX, goalGY)}
	}

	*a.openHeap = (*a.openHeap)[:0]
	clear(a.closedSet)
	clear(a.cameFrom)
	clear(a.gScore)

	startID := startGY*grid.width + startGX
	goalID := goalGY*grid.width + goalGX

	a.gScore[startID] = 0
	heap.Push(a.openHeap, &astarNode{gx: startGX, gy: startGY, f: heuristic(startGX, startGY, goalGX, goalGY)})

	maxIterations := grid.width * grid.height
	for iterations := 0; a.openHeap.Len() > 0 && iterations < maxIterations; iterations++ {
		current := heap.Pop(a.openHeap).(*astarNode)
		currentID := current.gy*grid.width + current.gx

		if currentID == goalID {
			return a.reconstructPath(startID, goalID)
		}
		if _, done := a.closedSet[currentID]; done {
			continue
		}
		a.closedSet[currentID] = struct{}{}

		// 8-connected; the first four are cardinal
		neighbors := [8][2]int{
			{current.gx - 1, current.gy},
			{current.gx + 1, current.gy},
			{current.gx, current.gy - 1},
			{current.gx, current.gy + 1},
			{current.gx - 1, current.gy - 1},
			{current.gx + 1, current.gy - 1},
			{current.gx - 1, current.gy + 1},
			{current.gx + 1, current.gy + 1},
		}

		for i, n := range neighbors {
			ngx, ngy := n[0], n[1]
			if grid.IsBlocked(ngx, ngy) {
				continue
			}

			moveCost := 1.0
			if i >= 4 {
				// No corner cutting
				if grid.IsBlocked(ngx, current.gy) || grid.IsBlocked(current.gx, ngy) {
					continue
				}
				moveCost = math.Sqrt2
			}

			neighborID := ngy*grid.width + ngx
			if _, done := a.closedSet[neighborID]; done {
				continue
			}

			tentativeG := a.gScore[currentID] + moveCost
			if existingG, ok := a.gScore[neighborID]; ok && tentativeG >= existingG {
				continue
			}

			a.cameFrom[neighborID] = currentID
			a.gScore[neighborID] = tentativeG
			heap.Push(a.openHeap, &astarNode{gx: ngx, gy: ngy, f: tentativeG + heuristic(ngx, ngy, goalGX, goalGY)})
		}
	}

	return nil
}

// PlanPath plans from start to goal and wraps the result as an open path.
func (a *AStarPlanner) PlanPath(start, goal geom.Vector2D) (*steering.Path, error) {
	waypoints := a.FindPath(start, goal)
	if waypoints == nil {
		return nil, ErrNoPath
	}
	return steering.NewPath(waypoints, false), nil
}

func heuristic(gx1, gy1, gx2, gy2 int) float64 {
	return math.Hypot(float64(gx2-gx1), float64(gy2-gy1))
}

func (a *AStarPlanner) reconstructPath(startID, goalID int) []geom.Vector2D {
	var pathIDs []int
	for current := goalID; current != startID; {
		pathIDs = append(pathIDs, current)
		prev, ok := a.cameFrom[current]
		if !ok {
			break
		}
		current = prev
	}
	pathIDs = append(pathIDs, startID)

	path := make([]geom.Vector2D, len(pathIDs))
	for i := range pathIDs {
		id := pathIDs[len(pathIDs)-1-i]
		path[i] = a.grid.GridToWorld(id%a.grid.width, id/a.grid.width)
	}

	return a.simplifyPath(path)
}

// simplifyPath drops waypoints that have line of sight past them.
func (a *AStarPlanner) simplifyPath(path []geom.Vector2D) []geom.Vector2D {
	if len(path) <= 2 {
		return path
	}

	simplified := make([]geom.Vector2D, 0, len(path))
	simplified = append(simplified, path[0])
	anchor := path[0]

	for i := 1; i < len(path)-1; i++ {
		if !a.hasLineOfSight(anchor, path[i+1]) {
			simplified = append(simplified, path[i])
			anchor = path[i]
		}
	}

	simplified = append(simplified, path[len(path)-1])
	return simplified
}

func (a *AStarPlanner) hasLineOfSight(from, to geom.Vector2D) bool {
	delta := to.Sub(from)
	dist := delta.Length()
	if dist < 0.01 {
		return true
	}

	stepSize := a.grid.cellSize * 0.5
	steps := int(dist/stepSize) + 1
	dir := delta.Div(dist)

	for i := 0; i <= steps; i++ {
		p := from.Add(dir.Mul(math.Min(float64(i)*stepSize, dist)))
		if a.grid.IsBlockedWorld(p) {
			return false
		}
	}
	return true
}

// findNearestOpen spirals outward for an open cell. Returns (-1, -1) if none
// is found within the search radius.
func (a *AStarPlanner) findNearestOpen(gx, gy int) (int, int) {
	for radius := 1; radius < 10; radius++ {
		for dy := -radius; dy <= radius; dy++ {
			for dx := -radius; dx <= radius; dx++ {
				if abs(dx) != radius && abs(dy) != radius {
					continue
				}
				if !a.grid.IsBlocked(gx+dx, gy+dy) {
					return gx + dx, gy + dy
				}
			}
		}
	}
	return -1, -1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
