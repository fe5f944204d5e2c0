package tracker

import (
	"fmt"
	"log"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	ts "github.com/samuelfneumann/gotrace/timestep"
)

// ReturnPlot tracks the episodic return like a Return Tracker but
// saves a PNG plot of returns over episodes instead of the raw data
type ReturnPlot struct {
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturnPlot creates and returns a new *ReturnPlot Tracker saving
// its plot to filename
func NewReturnPlot(filename string) Tracker {
	return &ReturnPlot{filename: filename}
}

// Track tracks the reward seen on a timestep
func (r *ReturnPlot) Track(step ts.TimeStep) {
	if step.First() {
		r.currentReturn = 0.0
		return
	}

	r.currentReturn += step.Reward

	if step.Last() {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0.0
	}
}

// Save renders and saves the plot of episodic returns
func (r *ReturnPlot) Save() {
	if err := PlotReturns(r.episodeReturns, r.filename); err != nil {
		log.Fatalf("could not save return plot: %v", err)
	}
}

// PlotReturns renders the argument episodic returns as a line plot and
// saves it as a PNG to filename
func PlotReturns(returns []float64, filename string) error {
	if len(returns) == 0 {
		return fmt.Errorf("plot returns: no episodes to plot")
	}

	p := plot.New()
	p.Title.Text = "Episodic Return"
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = "Return"

	points := make(plotter.XYs, len(returns))
	for i, ret := range returns {
		points[i] = plotter.XY{X: float64(i), Y: ret}
	}

	line, err := plotter.NewLine(points)
	if err != nil {
		return fmt.Errorf("plot returns: could not create line: %v",
			err)
	}
	p.Add(line)

	if err := p.Save(8*vg.Inch, 8*vg.Inch, filename); err != nil {
		return fmt.Errorf("plot returns: could not save %v: %v",
			filename, err)
	}
	return nil
}
