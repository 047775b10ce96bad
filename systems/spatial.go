// Package systems provides the concrete world the steering engine runs in.
package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/steer/geom"
	"github.com/pthm-cable/steer/steering"
)

// Cell is one partition of the world with the agents currently inside it.
type Cell struct {
	Members []ecs.Entity
	BBox    geom.InvertedAABBox2D
}

// CellSpace partitions the world into a fixed grid of cells for neighbor
// queries.
type CellSpace struct {
	cells  []Cell
	width  float64
	height float64
	numX   int
	numY   int
	cellW  float64
	cellH  float64
}

// NewCellSpace creates a cellsX by cellsY partition covering width by height.
func NewCellSpace(width, height float64, cellsX, cellsY int) *CellSpace {
	if cellsX < 1 {
		cellsX = 1
	}
	if cellsY < 1 {
		cellsY = 1
	}

	s := &CellSpace{
		width:  width,
		height: height,
		numX:   cellsX,
		numY:   cellsY,
		cellW:  width / float64(cellsX),
		cellH:  height / float64(cellsY),
		cells:  make([]Cell, 0, cellsX*cellsY),
	}

	for y := 0; y < cellsY; y++ {
		for x := 0; x < cellsX; x++ {
			left := float64(x) * s.cellW
			top := float64(y) * s.cellH
			s.cells = append(s.cells, Cell{
				Members: make([]ecs.Entity, 0, 8), // pre-allocate small capacity
				BBox:    geom.NewInvertedAABBox2D(geom.Vec(left, top), geom.Vec(left+s.cellW, top+s.cellH)),
			})
		}
	}

	return s
}

// Clear removes all entities from the partition.
func (s *CellSpace) Clear() {
	for i := range s.cells {
		s.cells[i].Members = s.cells[i].Members[:0]
	}
}

// Insert adds an entity at the given position.
func (s *CellSpace) Insert(e ecs.Entity, pos geom.Vector2D) {
	idx := s.cellIndex(pos)
	s.cells[idx].Members = append(s.cells[idx].Members, e)
}

// Remove drops an entity from the cell containing pos.
func (s *CellSpace) Remove(e ecs.Entity, pos geom.Vector2D) {
	s.removeFrom(s.cellIndex(pos), e)
}

// Update moves an entity between cells if it crossed a boundary.
func (s *CellSpace) Update(e ecs.Entity, oldPos, newPos geom.Vector2D) {
	oldIdx := s.cellIndex(oldPos)
	newIdx := s.cellIndex(newPos)
	if oldIdx == newIdx {
		return
	}
	s.removeFrom(oldIdx, e)
	s.cells[newIdx].Members = append(s.cells[newIdx].Members, e)
}

func (s *CellSpace) removeFrom(idx int, e ecs.Entity) {
	members := s.cells[idx].Members
	for i, m := range members {
		if m == e {
			members[i] = members[len(members)-1]
			s.cells[idx].Members = members[:len(members)-1]
			return
		}
	}
}

// QueryRadiusInto appends every agent within radius of pos to dst. Only cells
// whose box overlaps the query box are visited. Reuse dst across calls to avoid
// allocations.
func (s *CellSpace) QueryRadiusInto(dst []*steering.Vehicle, pos geom.Vector2D, radius float64, agents *ecs.Map1[Agent]) []*steering.Vehicle {
	query := geom.NewInvertedAABBox2D(
		pos.Sub(geom.Vec(radius, radius)),
		pos.Add(geom.Vec(radius, radius)),
	)
	radiusSq := radius * radius

	for i := range s.cells {
		cell := &s.cells[i]
		if len(cell.Members) == 0 || !cell.BBox.IsOverlappedWith(query) {
			continue
		}
		for _, e := range cell.Members {
			a := agents.Get(e)
			if a == nil {
				continue
			}
			if a.Vehicle.Pos().DistanceSq(pos) < radiusSq {
				dst = append(dst, a.Vehicle)
			}
		}
	}

	return dst
}

// Count returns the number of entities stored.
func (s *CellSpace) Count() int {
	n := 0
	for i := range s.cells {
		n += len(s.cells[i].Members)
	}
	return n
}

// Render draws every cell outline.
func (s *CellSpace) Render(r steering.Renderer) {
	for i := range s.cells {
		b := s.cells[i].BBox
		r.Line(geom.Vec(b.Left(), b.Top()), geom.Vec(b.Right(), b.Top()))
		r.Line(geom.Vec(b.Right(), b.Top()), geom.Vec(b.Right(), b.Bottom()))
		r.Line(geom.Vec(b.Right(), b.Bottom()), geom.Vec(b.Left(), b.Bottom()))
		r.Line(geom.Vec(b.Left(), b.Bottom()), geom.Vec(b.Left(), b.Top()))
	}
}

// cellIndex returns the flat index for a world position.
func (s *CellSpace) cellIndex(pos geom.Vector2D) int {
	col := int(float64(s.numX) * pos.X / s.width)
	row := int(float64(s.numY) * pos.Y / s.height)

	// Clamp to valid range
	if col < 0 {
		col = 0
	} else if col >= s.numX {
		col = s.numX - 1
	}
	if row < 0 {
		row = 0
	} else if row >= s.numY {
		row = s.numY - 1
	}

	return row*s.numX + col
}
