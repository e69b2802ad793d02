package ai

import "snake-game/game/types"

// Feature offsets inside a StateVector.
const (
	DangerStraight = iota
	DangerRight
	DangerLeft
	HeadingLeft
	HeadingRight
	HeadingUp
	HeadingDown
	FoodLeft
	FoodRight
	FoodUp
	FoodDown
	ReachableStraight
	ReachableRight
	ReachableLeft
)

// StateEncoder turns environment snapshots into StateVectors for a fixed grid.
type StateEncoder struct {
	width  int
	height int
}

func NewStateEncoder(grid types.Grid) *StateEncoder {
	return &StateEncoder{
		width:  grid.Width(),
		height: grid.Height(),
	}
}

// Encode builds the 14 flag state vector:
//
//	[0:3]   danger straight, right, left
//	[3:7]   heading left, right, up, down
//	[7:11]  food left, right, above, below the head
//	[11:14] food reachable after moving straight, right, left
//
// Directions are relative to the current heading. The snapshot is not modified.
func (e *StateEncoder) Encode(s types.Snapshot) StateVector {
	body := types.NewCellSet(s.Occupied...)

	moves := [ActionCount]types.Direction{
		Straight:  s.Heading,
		TurnRight: s.Heading.TurnRight(),
		TurnLeft:  s.Heading.TurnLeft(),
	}

	var v StateVector
	for i, dir := range moves {
		next := s.Head.Add(dir.Delta())
		v[DangerStraight+i] = boolToFloat(e.collides(next, body))
		v[ReachableStraight+i] = boolToFloat(IsReachable(next, s.Food, body, e.width, e.height))
	}

	v[HeadingLeft] = boolToFloat(s.Heading == types.Left)
	v[HeadingRight] = boolToFloat(s.Heading == types.Right)
	v[HeadingUp] = boolToFloat(s.Heading == types.Up)
	v[HeadingDown] = boolToFloat(s.Heading == types.Down)

	v[FoodLeft] = boolToFloat(s.Food.X < s.Head.X)
	v[FoodRight] = boolToFloat(s.Food.X > s.Head.X)
	v[FoodUp] = boolToFloat(s.Food.Y < s.Head.Y)
	v[FoodDown] = boolToFloat(s.Food.Y > s.Head.Y)

	return v
}

// collides reports whether c is off the grid or on the body.
func (e *StateEncoder) collides(c types.Cell, body types.CellSet) bool {
	if c.X < 0 || c.Y < 0 || c.X >= e.width || c.Y >= e.height {
		return true
	}
	return body.Contains(c)
}
