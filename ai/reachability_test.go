package ai

import (
	"testing"

	"snake-game/game/types"

	. "github.com/smartystreets/goconvey/convey"
)

func TestIsReachable(t *testing.T) {
	Convey("Given a 5x5 grid", t, func() {
		const w, h = 5, 5
		empty := types.NewCellSet()

		Convey("A cell always reaches itself", func() {
			for x := 0; x < w; x++ {
				for y := 0; y < h; y++ {
					c := types.Cell{X: x, Y: y}
					So(IsReachable(c, c, empty, w, h), ShouldBeTrue)
				}
			}
		})

		Convey("A blocked start reaches nothing, not even itself", func() {
			c := types.Cell{X: 2, Y: 2}
			So(IsReachable(c, types.Cell{X: 4, Y: 4}, types.NewCellSet(c), w, h), ShouldBeFalse)
			So(IsReachable(c, c, types.NewCellSet(c), w, h), ShouldBeFalse)
		})

		Convey("An off-grid start is never reachable", func() {
			target := types.Cell{X: 0, Y: 0}
			for _, start := range []types.Cell{{X: -1, Y: 0}, {X: 0, Y: -1}, {X: w, Y: 0}, {X: 0, Y: h}} {
				So(IsReachable(start, target, empty, w, h), ShouldBeFalse)
				So(IsReachable(start, start, empty, w, h), ShouldBeFalse)
			}
		})

		Convey("Opposite corners connect on an empty grid", func() {
			So(IsReachable(types.Cell{X: 0, Y: 0}, types.Cell{X: 4, Y: 4}, empty, w, h), ShouldBeTrue)
		})

		Convey("A walled-in target is unreachable", func() {
			walls := types.NewCellSet(
				types.Cell{X: 3, Y: 4},
				types.Cell{X: 4, Y: 3},
			)
			So(IsReachable(types.Cell{X: 0, Y: 0}, types.Cell{X: 4, Y: 4}, walls, w, h), ShouldBeFalse)

			centre := types.NewCellSet(
				types.Cell{X: 1, Y: 2},
				types.Cell{X: 3, Y: 2},
				types.Cell{X: 2, Y: 1},
				types.Cell{X: 2, Y: 3},
			)
			So(IsReachable(types.Cell{X: 0, Y: 0}, types.Cell{X: 2, Y: 2}, centre, w, h), ShouldBeFalse)
		})

		Convey("A path around a wall is found", func() {
			wall := types.NewCellSet(
				types.Cell{X: 2, Y: 0},
				types.Cell{X: 2, Y: 1},
				types.Cell{X: 2, Y: 2},
				types.Cell{X: 2, Y: 3},
			)
			So(IsReachable(types.Cell{X: 0, Y: 0}, types.Cell{X: 4, Y: 0}, wall, w, h), ShouldBeTrue)

			wall[types.Cell{X: 2, Y: 4}] = struct{}{}
			So(IsReachable(types.Cell{X: 0, Y: 0}, types.Cell{X: 4, Y: 0}, wall, w, h), ShouldBeFalse)
		})

		Convey("A target off the grid is never found", func() {
			So(IsReachable(types.Cell{X: 0, Y: 0}, types.Cell{X: 9, Y: 9}, empty, w, h), ShouldBeFalse)
		})
	})
}
