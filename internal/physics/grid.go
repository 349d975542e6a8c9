package physics

import "math"

// SpatialGrid is a uniform bucket grid used as the broad phase of collision
// checks in the wrapping arena. Items are inserted by position and index into
// their owning slice; QueryAround visits the 3x3 neighbourhood of a cell.
//
// The cell size must be at least the largest interaction distance between two
// items, otherwise pairs straddling more than one cell are missed.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64
	cols        int
	rows        int
	cells       [][]int
	count       int
}

// NewSpatialGrid creates a grid covering a width x height arena.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)

	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
	}
}

// Clear empties every cell but keeps the backing arrays for the next tick.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
	g.count = 0
}

// Len returns the number of inserted items.
func (g *SpatialGrid) Len() int {
	return g.count
}

// Insert files index under the cell containing pos.
func (g *SpatialGrid) Insert(pos Vec2, index int) {
	col, row := g.cellOf(pos)
	cell := row*g.cols + col
	g.cells[cell] = append(g.cells[cell], index)
	g.count++
}

// QueryAround calls fn for every index stored in the 3x3 cell neighbourhood
// of pos, wrapping across arena edges. Iteration stops when fn returns true.
// Indices are visited in no particular order.
func (g *SpatialGrid) QueryAround(pos Vec2, fn func(index int) bool) {
	col, row := g.cellOf(pos)

	for dr := -1; dr <= 1; dr++ {
		r := wrapIndex(row+dr, g.rows)
		for dc := -1; dc <= 1; dc++ {
			c := wrapIndex(col+dc, g.cols)
			for _, idx := range g.cells[r*g.cols+c] {
				if fn(idx) {
					return
				}
			}
			// Narrow grids would otherwise visit the same column twice.
			if g.cols < 3 && dc == g.cols-2 {
				break
			}
		}
		if g.rows < 3 && dr == g.rows-2 {
			break
		}
	}
}

func wrapIndex(i, n int) int {
	if i < 0 {
		return i + n
	}
	if i >= n {
		return i - n
	}
	return i
}

// cellOf clamps positions on or past the far edge into the last cell.
func (g *SpatialGrid) cellOf(pos Vec2) (col, row int) {
	col = min(max(int(pos.X*g.invCellSize), 0), g.cols-1)
	row = min(max(int(pos.Y*g.invCellSize), 0), g.rows-1)
	return col, row
}
