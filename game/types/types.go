package types

import "math"

// Point is a continuous screen position in pixels.
type Point struct {
	X, Y float64
}

// Cell is an integer grid coordinate.
type Cell struct {
	X, Y int
}

// CellOf maps a block aligned screen position onto the grid.
func CellOf(p Point, blockSize float64) Cell {
	return Cell{X: int(math.Round(p.X / blockSize)), Y: int(math.Round(p.Y / blockSize))}
}

// Add returns the cell shifted by d.
func (c Cell) Add(d Cell) Cell {
	return Cell{X: c.X + d.X, Y: c.Y + d.Y}
}

// CellSet is a set of occupied cells.
type CellSet map[Cell]struct{}

// NewCellSet builds a set from a list of cells.
func NewCellSet(cells ...Cell) CellSet {
	set := make(CellSet, len(cells))
	for _, c := range cells {
		set[c] = struct{}{}
	}
	return set
}

func (s CellSet) Contains(c Cell) bool {
	_, ok := s[c]
	return ok
}

// Grid represents the game grid dimensions
type Grid struct {
	BlockSize    float64 `yaml:"block_size"`
	ScreenWidth  float64 `yaml:"screen_width"`
	ScreenHeight float64 `yaml:"screen_height"`
}

// DefaultGrid is the 640x480 screen split into 20 pixel blocks.
func DefaultGrid() Grid {
	return Grid{
		BlockSize:    20,
		ScreenWidth:  640,
		ScreenHeight: 480,
	}
}

// Width is the number of columns.
func (g Grid) Width() int {
	return int(g.ScreenWidth / g.BlockSize)
}

// Height is the number of rows.
func (g Grid) Height() int {
	return int(g.ScreenHeight / g.BlockSize)
}

// InBounds reports whether c lies on the grid.
func (g Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.Width() && c.Y < g.Height()
}

// Snapshot is the read-only view of the environment the agent observes.
type Snapshot struct {
	Head     Cell
	Heading  Direction
	Food     Cell
	Occupied []Cell // full body, head first
}
