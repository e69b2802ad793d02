package stats

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ErrNoScores is returned when there is nothing to plot yet.
var ErrNoScores = errors.New("no scores recorded")

// PlotPNG draws the score of every game and the running mean. The image
// format follows the file extension.
func (s *ScoreBoard) PlotPNG(filename string) error {
	scores := s.Scores()
	if len(scores) == 0 {
		return ErrNoScores
	}

	points := make(plotter.XYs, len(scores))
	means := make(plotter.XYs, len(scores))
	total := 0
	for i, score := range scores {
		total += score
		points[i].X = float64(i + 1)
		points[i].Y = float64(score)
		means[i].X = float64(i + 1)
		means[i].Y = float64(total) / float64(i+1)
	}

	p := plot.New()
	p.Title.Text = "Training"
	p.X.Label.Text = "Number of games"
	p.Y.Label.Text = "Score"
	p.Y.Min = 0

	if err := plotutil.AddLines(p, "Scores", points, "Mean score", means); err != nil {
		return errors.Wrap(err, "failed to build score plot")
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return errors.Wrap(err, "failed to create plot directory")
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, filename); err != nil {
		return errors.Wrap(err, "failed to save score plot")
	}
	return nil
}
