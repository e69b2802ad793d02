package manager

import "snake-game/game/types"

// Intner is the slice of a random source food placement needs.
type Intner interface {
	Intn(n int) int
}

type FoodManager struct {
	grid         types.Grid
	rng          Intner
	collisionMgr *CollisionManager
}

func NewFoodManager(grid types.Grid, rng Intner, collisionMgr *CollisionManager) *FoodManager {
	return &FoodManager{
		grid:         grid,
		rng:          rng,
		collisionMgr: collisionMgr,
	}
}

// GenerateFood draws block-aligned positions until one is off the body.
// It returns false when the body covers the whole grid.
func (fm *FoodManager) GenerateFood(body []types.Point) (types.Point, bool) {
	w, h := fm.grid.Width(), fm.grid.Height()
	if len(body) >= w*h {
		return types.Point{}, false
	}

	for {
		food := types.Point{
			X: float64(fm.rng.Intn(w)) * fm.grid.BlockSize,
			Y: float64(fm.rng.Intn(h)) * fm.grid.BlockSize,
		}

		if fm.collisionMgr.ValidateSpawnPosition(food, body) {
			return food, true
		}
	}
}
