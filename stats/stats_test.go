package stats

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestScoreBoard(t *testing.T) {
	Convey("Given an empty score board", t, func() {
		s := NewScoreBoard()
		fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		s.now = func() time.Time { return fixed }

		Convey("It has a run id and no games", func() {
			So(s.RunID, ShouldNotBeEmpty)
			So(NewScoreBoard().RunID, ShouldNotEqual, s.RunID)
			So(s.GetGamesPlayed(), ShouldEqual, 0)
			So(s.GetAverageScore(), ShouldEqual, 0)
			So(s.GetMedianScore(), ShouldEqual, 0)
		})

		Convey("Appended scores keep episode order", func() {
			for _, v := range []int{3, 0, 7, 2} {
				s.Append(v)
			}
			So(s.Scores(), ShouldResemble, []int{3, 0, 7, 2})
			So(s.Games[2], ShouldResemble, GameRecord{Episode: 3, Score: 7, EndTime: fixed})
			So(s.GetRecord(), ShouldEqual, 7)
			So(s.GetGamesPlayed(), ShouldEqual, 4)
			So(s.GetAverageScore(), ShouldEqual, 3)
			So(s.GetMedianScore(), ShouldEqual, 2.5)
			So(s.GetRecentAverage(2), ShouldEqual, 4.5)
			So(s.GetRecentAverage(10), ShouldEqual, 3)

			Convey("Scores returns a copy", func() {
				scores := s.Scores()
				scores[0] = 100
				So(s.Scores()[0], ShouldEqual, 3)
			})
		})

		Convey("It round trips through a JSON file", func() {
			s.Append(4)
			s.Append(9)
			path := filepath.Join(t.TempDir(), "nested", "stats.json")
			So(s.SaveToFile(path), ShouldBeNil)

			loaded, err := LoadFromFile(path)
			So(err, ShouldBeNil)
			So(loaded.RunID, ShouldEqual, s.RunID)
			So(loaded.Scores(), ShouldResemble, []int{4, 9})
			So(loaded.GetRecord(), ShouldEqual, 9)

			loaded.Append(1)
			So(loaded.GetGamesPlayed(), ShouldEqual, 3)
		})

		Convey("Loading a missing file fails", func() {
			_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.json"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestPlotPNG(t *testing.T) {
	Convey("Plotting an empty board is refused", t, func() {
		err := NewScoreBoard().PlotPNG(filepath.Join(t.TempDir(), "plot.png"))
		So(errors.Is(err, ErrNoScores), ShouldBeTrue)
	})

	Convey("A board with scores is drawn to disk", t, func() {
		s := NewScoreBoard()
		for _, v := range []int{0, 1, 1, 4, 2} {
			s.Append(v)
		}
		path := filepath.Join(t.TempDir(), "plots", "scores.png")
		So(s.PlotPNG(path), ShouldBeNil)

		info, err := os.Stat(path)
		So(err, ShouldBeNil)
		So(info.Size(), ShouldBeGreaterThan, 0)
	})
}
