package world

import "math"

// cellKey addresses one grid cell on the ground plane.
type cellKey struct{ col, row int32 }

// Grid is a uniform spatial hash over the X/Y ground plane for radius queries.
// Cells are created on demand, so the world has no fixed bounds.
//
// Optimal cell size equals the most common query radius: the enemy area
// damage radius (400) is the default.
type Grid struct {
	cellSize    float64
	invCellSize float64
	cells       map[cellKey][]uint32 // Entity indices into the caller's slice
	scratch     []uint32             // Reused for query results
}

// NewGrid creates an empty grid.
func NewGrid(cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 400
	}
	return &Grid{
		cellSize:    cellSize,
		invCellSize: 1 / cellSize,
		cells:       make(map[cellKey][]uint32),
		scratch:     make([]uint32, 0, 64),
	}
}

// Clear empties every cell but keeps their capacity.
func (g *Grid) Clear() {
	for k, c := range g.cells {
		g.cells[k] = c[:0]
	}
}

// Insert adds index at (x, y).
func (g *Grid) Insert(index uint32, x, y float64) {
	k := g.key(x, y)
	g.cells[k] = append(g.cells[k], index)
}

func (g *Grid) key(x, y float64) cellKey {
	return cellKey{
		col: int32(math.Floor(x * g.invCellSize)),
		row: int32(math.Floor(y * g.invCellSize)),
	}
}

// QueryRadius returns every index in the cells overlapping the circle.
// Candidates may lie outside the radius; callers do the exact distance check.
//
// The returned slice is reused by the next query.
func (g *Grid) QueryRadius(cx, cy, radius float64) []uint32 {
	g.scratch = g.scratch[:0]
	lo := g.key(cx-radius, cy-radius)
	hi := g.key(cx+radius, cy+radius)

	for row := lo.row; row <= hi.row; row++ {
		for col := lo.col; col <= hi.col; col++ {
			g.scratch = append(g.scratch, g.cells[cellKey{col, row}]...)
		}
	}
	return g.scratch
}

// GridStats describes cell occupancy.
type GridStats struct {
	TotalCells     int     `json:"totalCells"`
	NonEmptyCells  int     `json:"nonEmptyCells"`
	TotalEntities  int     `json:"totalEntities"`
	MaxInCell      int     `json:"maxInCell"`
	AvgPerNonEmpty float64 `json:"avgPerNonEmpty"`
}

// Stats reports occupancy for the debug endpoint.
func (g *Grid) Stats() GridStats {
	var s GridStats
	s.TotalCells = len(g.cells)
	for _, c := range g.cells {
		n := len(c)
		s.TotalEntities += n
		if n > s.MaxInCell {
			s.MaxInCell = n
		}
		if n > 0 {
			s.NonEmptyCells++
		}
	}
	if s.NonEmptyCells > 0 {
		s.AvgPerNonEmpty = float64(s.TotalEntities) / float64(s.NonEmptyCells)
	}
	return s
}
