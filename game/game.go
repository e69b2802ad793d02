package game

import (
	"snake-game/ai"
	"snake-game/game/manager"
	"snake-game/game/types"
)

// Config holds the rules of a single snake game.
type Config struct {
	Grid types.Grid `yaml:"grid"`
	// The episode is cut short once the frame counter exceeds
	// FrameLimitPerSegment times the body length.
	FrameLimitPerSegment int     `yaml:"frame_limit_per_segment"`
	FoodReward           float64 `yaml:"food_reward"`
	DeathPenalty         float64 `yaml:"death_penalty"`
	InitialLength        int     `yaml:"initial_length"`
}

func DefaultConfig() Config {
	return Config{
		Grid:                 types.DefaultGrid(),
		FrameLimitPerSegment: 50,
		FoodReward:           10,
		DeathPenalty:         -10,
		InitialLength:        3,
	}
}

// Game is a single snake on a walled grid. Positions are kept in pixels
// and exposed to the agent as cells through Snapshot.
type Game struct {
	cfg        Config
	collisions *manager.CollisionManager
	food       *manager.FoodManager

	body          []types.Point // head first
	direction     types.Direction
	foodPos       types.Point
	score         int
	frame         int
	over          bool
	lastCollision manager.CollisionType
}

// NewGame creates a game and places the first food using rng.
func NewGame(cfg Config, rng manager.Intner) *Game {
	collisions := manager.NewCollisionManager(cfg.Grid)
	g := &Game{
		cfg:        cfg,
		collisions: collisions,
		food:       manager.NewFoodManager(cfg.Grid, rng, collisions),
	}
	g.Reset()
	return g
}

// Reset puts the snake back in the centre of the screen heading right.
func (g *Game) Reset() {
	// centre cell, rounded down on odd grids
	head := types.Point{
		X: float64(g.cfg.Grid.Width()/2) * g.cfg.Grid.BlockSize,
		Y: float64(g.cfg.Grid.Height()/2) * g.cfg.Grid.BlockSize,
	}

	length := g.cfg.InitialLength
	if length < 1 {
		length = 1
	}
	g.body = make([]types.Point, 0, length)
	for i := 0; i < length; i++ {
		g.body = append(g.body, types.Point{X: head.X - float64(i)*g.cfg.Grid.BlockSize, Y: head.Y})
	}

	g.direction = types.Right
	g.score = 0
	g.frame = 0
	g.over = false
	g.lastCollision = manager.NoCollision
	g.placeFood()
}

func (g *Game) placeFood() {
	if food, ok := g.food.GenerateFood(g.body); ok {
		g.foodPos = food
	}
}

// Step applies a relative move and advances the game by one tick. It
// returns the reward for the move, whether the episode is over and the
// current score.
func (g *Game) Step(action ai.Action) (float64, bool, int) {
	if g.over {
		return 0, true, g.score
	}
	g.frame++

	switch {
	case action[ai.TurnLeft] == 1:
		g.direction = g.direction.TurnLeft()
	case action[ai.TurnRight] == 1:
		g.direction = g.direction.TurnRight()
	}

	d := g.direction.Delta()
	head := g.body[0]
	head.X += float64(d.X) * g.cfg.Grid.BlockSize
	head.Y += float64(d.Y) * g.cfg.Grid.BlockSize
	g.body = append([]types.Point{head}, g.body...)

	collision := g.collisions.CheckCollision(head, g.body)
	if collision != manager.NoCollision || g.frame > g.cfg.FrameLimitPerSegment*len(g.body) {
		g.over = true
		g.lastCollision = collision
		return g.cfg.DeathPenalty, true, g.score
	}

	if head == g.foodPos {
		g.score++
		g.placeFood()
		return g.cfg.FoodReward, false, g.score
	}

	g.body = g.body[:len(g.body)-1]
	return 0, false, g.score
}

// Snapshot returns the cell view of the current game state.
func (g *Game) Snapshot() types.Snapshot {
	occupied := make([]types.Cell, len(g.body))
	for i, p := range g.body {
		occupied[i] = types.CellOf(p, g.cfg.Grid.BlockSize)
	}
	return types.Snapshot{
		Head:     occupied[0],
		Heading:  g.direction,
		Food:     types.CellOf(g.foodPos, g.cfg.Grid.BlockSize),
		Occupied: occupied,
	}
}

func (g *Game) Score() int {
	return g.score
}

func (g *Game) Frame() int {
	return g.frame
}

func (g *Game) Over() bool {
	return g.over
}

// LastCollision reports what ended the previous episode. It is NoCollision
// when the frame limit ran out.
func (g *Game) LastCollision() manager.CollisionType {
	return g.lastCollision
}

func (g *Game) Direction() types.Direction {
	return g.direction
}

func (g *Game) Food() types.Point {
	return g.foodPos
}

// Body returns a copy of the snake, head first.
func (g *Game) Body() []types.Point {
	return append([]types.Point(nil), g.body...)
}
