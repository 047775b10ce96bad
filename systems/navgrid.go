package systems

import (
	"math"

	"github.com/pthm-cable/steer/components"
	"github.com/pthm-cable/steer/geom"
)

// NavGridCellSize is the navigation grid cell size in world units.
const NavGridCellSize = 10.0

// NavGrid stores a navigation grid for A* pathfinding.
// Cells are marked as blocked (true) or open (false).
type NavGrid struct {
	cells    []bool  // true = blocked
	cellSize float64 // world units per cell
	width    int     // grid width in cells
	height   int     // grid height in cells
}

// NewNavGrid rasterizes obstacles and walls into a grid. A cell is blocked
// when its center lies within inflation of an obstacle or wall.
func NewNavGrid(width, height, cellSize, inflation float64, obstacles []*components.Obstacle, walls []geom.Wall2D) *NavGrid {
	w := max(1, int(width/cellSize))
	h := max(1, int(height/cellSize))

	grid := &NavGrid{
		cells:    make([]bool, w*h),
		cellSize: cellSize,
		width:    w,
		height:   h,
	}

	for gy := 0; gy < h; gy++ {
		for gx := 0; gx < w; gx++ {
			grid.cells[gy*w+gx] = blockedAt(grid.GridToWorld(gx, gy), inflation, obstacles, walls)
		}
	}

	return grid
}

func blockedAt(p geom.Vector2D, inflation float64, obstacles []*components.Obstacle, walls []geom.Wall2D) bool {
	for _, ob := range obstacles {
		r := ob.Radius + inflation
		if p.DistanceSq(ob.Center) < r*r {
			return true
		}
	}
	for _, wall := range walls {
		if geom.DistToLineSegment(wall.From, wall.To, p) < inflation {
			return true
		}
	}
	return false
}

// IsBlocked returns true if the given nav grid cell is blocked.
func (g *NavGrid) IsBlocked(gx, gy int) bool {
	if gx < 0 || gx >= g.width || gy < 0 || gy >= g.height {
		return true // Out of bounds is blocked
	}
	return g.cells[gy*g.width+gx]
}

// IsBlockedWorld returns true if the world position is in a blocked cell.
func (g *NavGrid) IsBlockedWorld(p geom.Vector2D) bool {
	return g.IsBlocked(g.WorldToGrid(p))
}

// WorldToGrid converts world coordinates to nav grid coordinates.
func (g *NavGrid) WorldToGrid(p geom.Vector2D) (gx, gy int) {
	gx = int(math.Floor(p.X / g.cellSize))
	gy = int(math.Floor(p.Y / g.cellSize))
	return
}

// GridToWorld converts nav grid coordinates to world coordinates (cell center).
func (g *NavGrid) GridToWorld(gx, gy int) geom.Vector2D {
	return geom.Vec((float64(gx)+0.5)*g.cellSize, (float64(gy)+0.5)*g.cellSize)
}

// Size returns the grid dimensions in cells.
func (g *NavGrid) Size() (width, height int) { return g.width, g.height }
