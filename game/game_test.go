package game

import (
	"testing"

	"snake-game/ai"
	"snake-game/game/manager"
	"snake-game/game/types"

	. "github.com/smartystreets/goconvey/convey"
)

// scripted replays a fixed sequence of draws, repeating the last one.
type scripted struct {
	draws []int
	i     int
}

func (s *scripted) Intn(n int) int {
	v := s.draws[len(s.draws)-1]
	if s.i < len(s.draws) {
		v = s.draws[s.i]
		s.i++
	}
	return v % n
}

func TestGame(t *testing.T) {
	Convey("Given a fresh game", t, func() {
		cfg := DefaultConfig()
		// first food at cell (0,0)
		g := NewGame(cfg, &scripted{draws: []int{0, 0}})

		Convey("The snake starts centred, heading right, three long", func() {
			snap := g.Snapshot()
			So(snap.Head, ShouldResemble, types.Cell{X: 16, Y: 12})
			So(snap.Heading, ShouldEqual, types.Right)
			So(snap.Occupied, ShouldResemble, []types.Cell{{X: 16, Y: 12}, {X: 15, Y: 12}, {X: 14, Y: 12}})
			So(snap.Food, ShouldResemble, types.Cell{X: 0, Y: 0})
			So(g.Score(), ShouldEqual, 0)
		})

		Convey("Moving straight shifts the whole body", func() {
			reward, done, score := g.Step(ai.OneHot(ai.Straight))
			So(reward, ShouldEqual, 0)
			So(done, ShouldBeFalse)
			So(score, ShouldEqual, 0)
			So(g.Snapshot().Occupied, ShouldResemble, []types.Cell{{X: 17, Y: 12}, {X: 16, Y: 12}, {X: 15, Y: 12}})
		})

		Convey("Turns are relative to the heading", func() {
			g.Step(ai.OneHot(ai.TurnRight))
			So(g.Direction(), ShouldEqual, types.Down)
			So(g.Snapshot().Head, ShouldResemble, types.Cell{X: 16, Y: 13})

			g.Step(ai.OneHot(ai.TurnLeft))
			So(g.Direction(), ShouldEqual, types.Right)
			So(g.Snapshot().Head, ShouldResemble, types.Cell{X: 17, Y: 13})
		})

		Convey("Eating food grows the snake and scores", func() {
			g.foodPos = types.Point{X: 340, Y: 240}
			reward, done, score := g.Step(ai.OneHot(ai.Straight))
			So(reward, ShouldEqual, cfg.FoodReward)
			So(done, ShouldBeFalse)
			So(score, ShouldEqual, 1)
			So(len(g.Body()), ShouldEqual, 4)
			So(g.Snapshot().Food, ShouldResemble, types.Cell{X: 0, Y: 0})
		})

		Convey("Running into the wall ends the episode", func() {
			var (
				reward float64
				done   bool
			)
			for i := 0; i < 16 && !done; i++ {
				reward, done, _ = g.Step(ai.OneHot(ai.Straight))
			}
			So(done, ShouldBeTrue)
			So(reward, ShouldEqual, cfg.DeathPenalty)
			So(g.LastCollision(), ShouldEqual, manager.WallCollision)

			Convey("Further steps are no-ops until reset", func() {
				reward, done, _ := g.Step(ai.OneHot(ai.Straight))
				So(reward, ShouldEqual, 0)
				So(done, ShouldBeTrue)

				g.Reset()
				So(g.Over(), ShouldBeFalse)
				So(g.Frame(), ShouldEqual, 0)
				So(g.Snapshot().Head, ShouldResemble, types.Cell{X: 16, Y: 12})
			})
		})

		Convey("Turning back into the body is a self collision", func() {
			g.body = []types.Point{{X: 320, Y: 240}, {X: 320, Y: 260}, {X: 300, Y: 260}, {X: 300, Y: 240}, {X: 280, Y: 240}}
			g.direction = types.Up
			// left from up is left on screen, onto (300,240)
			_, done, _ := g.Step(ai.OneHot(ai.TurnLeft))
			So(done, ShouldBeTrue)
			So(g.LastCollision(), ShouldEqual, manager.SelfCollision)
		})

		Convey("Circling forever hits the frame limit", func() {
			cfg.FrameLimitPerSegment = 1
			g := NewGame(cfg, &scripted{draws: []int{0, 0}})
			// the limit is frame > 1 * len(body) with a body of 4 after the move
			for i := 0; i < 4; i++ {
				_, done, _ := g.Step(ai.OneHot(ai.TurnRight))
				So(done, ShouldBeFalse)
			}
			_, done, _ := g.Step(ai.OneHot(ai.TurnRight))
			So(done, ShouldBeTrue)
			So(g.LastCollision(), ShouldEqual, manager.NoCollision)
		})
	})
}

func TestFoodManager(t *testing.T) {
	Convey("Given a tiny grid", t, func() {
		grid := types.Grid{BlockSize: 10, ScreenWidth: 20, ScreenHeight: 10}
		cm := manager.NewCollisionManager(grid)

		Convey("Draws on the body are rejected", func() {
			fm := manager.NewFoodManager(grid, &scripted{draws: []int{0, 0, 1, 0}}, cm)
			food, ok := fm.GenerateFood([]types.Point{{X: 0, Y: 0}})
			So(ok, ShouldBeTrue)
			So(food, ShouldResemble, types.Point{X: 10, Y: 0})
		})

		Convey("A full grid has no room", func() {
			fm := manager.NewFoodManager(grid, &scripted{draws: []int{0}}, cm)
			_, ok := fm.GenerateFood([]types.Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
			So(ok, ShouldBeFalse)
		})
	})
}

func TestFractionalBlocks(t *testing.T) {
	Convey("Blocks smaller than a pixel still give a centred, aligned snake", t, func() {
		cfg := DefaultConfig()
		cfg.Grid = types.Grid{BlockSize: 0.5, ScreenWidth: 16, ScreenHeight: 16}
		g := NewGame(cfg, &scripted{draws: []int{0, 0}})

		So(g.Body()[0], ShouldResemble, types.Point{X: 8, Y: 8})
		So(g.Snapshot().Head, ShouldResemble, types.Cell{X: 16, Y: 16})

		_, done, _ := g.Step(ai.OneHot(ai.Straight))
		So(done, ShouldBeFalse)
		So(g.Snapshot().Head, ShouldResemble, types.Cell{X: 17, Y: 16})
	})

	Convey("Non-integer blocks keep the head on the block lattice", t, func() {
		cfg := DefaultConfig()
		cfg.Grid = types.Grid{BlockSize: 7.5, ScreenWidth: 150, ScreenHeight: 150}
		g := NewGame(cfg, &scripted{draws: []int{0, 0}})

		So(g.Body()[0], ShouldResemble, types.Point{X: 75, Y: 75})
		So(g.Snapshot().Occupied, ShouldResemble, []types.Cell{{X: 10, Y: 10}, {X: 9, Y: 10}, {X: 8, Y: 10}})
	})
}
