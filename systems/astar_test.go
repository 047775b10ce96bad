package systems

import (
	"errors"
	"testing"

	"github.com/pthm-cable/steer/components"
	"github.com/pthm-cable/steer/geom"
	"github.com/pthm-cable/steer/steering"
)

func obstacle(x, y, r float64) *components.Obstacle {
	ob := components.NewObstacle(0, geom.Vec(x, y), r)
	return &ob
}

func TestNavGridBlocking(t *testing.T) {
	grid := NewNavGrid(100, 100, 10, 8, []*components.Obstacle{obstacle(50, 50, 10)}, nil)

	tests := []struct {
		name    string
		p       geom.Vector2D
		blocked bool
	}{
		{"obstacle centre", geom.Vec(52, 52), true},
		{"inside inflation", geom.Vec(62, 52), true},
		{"open corner", geom.Vec(5, 5), false},
		{"outside bounds", geom.Vec(-5, 50), true},
		{"past far edge", geom.Vec(105, 50), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grid.IsBlockedWorld(tt.p); got != tt.blocked {
				t.Errorf("IsBlockedWorld(%v) = %v, want %v", tt.p, got, tt.blocked)
			}
		})
	}
}

func TestAStarStraightLine(t *testing.T) {
	planner := NewAStarPlanner(NewNavGrid(160, 100, 10, 5, nil, nil))

	path := planner.FindPath(geom.Vec(20, 20), geom.Vec(140, 80))
	if len(path) != 2 {
		t.Fatalf("open field path has %d waypoints, want 2 after simplification", len(path))
	}
	if path[0].Distance(geom.Vec(20, 20)) > 10 {
		t.Errorf("first waypoint %v not near start", path[0])
	}
	if path[1].Distance(geom.Vec(140, 80)) > 10 {
		t.Errorf("last waypoint %v not near goal", path[1])
	}
}

func TestAStarAroundObstacle(t *testing.T) {
	ob := obstacle(100, 50, 20)
	planner := NewAStarPlanner(NewNavGrid(200, 100, 10, 10, []*components.Obstacle{ob}, nil))

	path := planner.FindPath(geom.Vec(20, 50), geom.Vec(180, 50))
	if path == nil {
		t.Fatal("expected a path around the obstacle")
	}
	if len(path) < 3 {
		t.Fatalf("path %v goes straight through the obstacle", path)
	}
	for i := 0; i+1 < len(path); i++ {
		if d := geom.DistToLineSegment(path[i], path[i+1], ob.Center); d < ob.Radius {
			t.Errorf("leg %d (%v -> %v) passes %.1f from the obstacle centre", i, path[i], path[i+1], d)
		}
	}
}

func TestAStarWallBlocksRoute(t *testing.T) {
	walls := []geom.Wall2D{geom.NewWall2D(geom.Vec(80, -10), geom.Vec(80, 110))}
	planner := NewAStarPlanner(NewNavGrid(160, 100, 10, 6, nil, walls))

	if path := planner.FindPath(geom.Vec(30, 30), geom.Vec(130, 30)); path != nil {
		t.Errorf("expected no path through a full-height wall, got %v", path)
	}
	if _, err := planner.PlanPath(geom.Vec(30, 30), geom.Vec(130, 30)); !errors.Is(err, ErrNoPath) {
		t.Errorf("PlanPath error = %v, want ErrNoPath", err)
	}
}

func TestAStarSnapsBlockedEndpoints(t *testing.T) {
	planner := NewAStarPlanner(NewNavGrid(200, 100, 10, 5, []*components.Obstacle{obstacle(30, 50, 15)}, nil))

	path := planner.FindPath(geom.Vec(30, 50), geom.Vec(170, 50))
	if path == nil {
		t.Fatal("expected blocked start to snap to an open cell")
	}
	if planner.Grid().IsBlockedWorld(path[0]) {
		t.Errorf("first waypoint %v is blocked", path[0])
	}
}

func TestRouteToEnablesFollowPath(t *testing.T) {
	w, vp := newTestWorld(t, 400, 400)
	w.AddObstacle(geom.Vec(200, 200), 40)
	v := w.AddAgent(at(vp, geom.Vec(50, 200)))

	goal := geom.Vec(350, 200)
	path, err := w.RouteTo(v, goal)
	if err != nil {
		t.Fatalf("RouteTo: %v", err)
	}
	if !v.Steering().IsEnabled(steering.FollowPath) {
		t.Error("FollowPath not enabled")
	}
	if v.Steering().Path() != path {
		t.Error("composer is not following the planned path")
	}
	wps := path.Waypoints()
	if last := wps[len(wps)-1]; last.Distance(goal) > NavGridCellSize {
		t.Errorf("last waypoint %v not near goal %v", last, goal)
	}
	if path.Looped() {
		t.Error("planned route should not loop")
	}
}
