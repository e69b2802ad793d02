package manager

import "snake-game/game/types"

// CollisionType represents the type of collision
type CollisionType int

const (
	NoCollision CollisionType = iota
	WallCollision
	SelfCollision
)

func (c CollisionType) String() string {
	switch c {
	case WallCollision:
		return "wall"
	case SelfCollision:
		return "self"
	default:
		return "none"
	}
}

type CollisionManager struct {
	grid types.Grid
}

func NewCollisionManager(grid types.Grid) *CollisionManager {
	return &CollisionManager{
		grid: grid,
	}
}

// CheckCollision classifies the position of a freshly moved head. body is
// the snake with the head first; the head itself is skipped.
func (cm *CollisionManager) CheckCollision(head types.Point, body []types.Point) CollisionType {
	if cm.IsWallCollision(head) {
		return WallCollision
	}
	if len(body) > 1 && cm.IsBodyCollision(head, body[1:]) {
		return SelfCollision
	}
	return NoCollision
}

// IsWallCollision checks if a position lies outside the screen
func (cm *CollisionManager) IsWallCollision(pos types.Point) bool {
	return pos.X < 0 || pos.X >= cm.grid.ScreenWidth || pos.Y < 0 || pos.Y >= cm.grid.ScreenHeight
}

// IsBodyCollision checks if a position overlaps any of the given segments
func (cm *CollisionManager) IsBodyCollision(pos types.Point, segments []types.Point) bool {
	for _, s := range segments {
		if s == pos {
			return true
		}
	}
	return false
}

// ValidateSpawnPosition checks if a position is valid for spawning food
func (cm *CollisionManager) ValidateSpawnPosition(pos types.Point, body []types.Point) bool {
	return !cm.IsWallCollision(pos) && !cm.IsBodyCollision(pos, body)
}
