// Package trace records per-cycle occupancy of the micro-architectural
// tables and renders the recording as a plot.
package trace

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sarchlab/tomsim/timing/pipeline"
)

// Sample is one cycle's occupancy snapshot.
type Sample struct {
	// Cycle is the cycle counter value after the tick.
	Cycle uint32
	// ROBEntries is the number of in-flight reorder-buffer entries.
	ROBEntries int
	// BusyStations is the number of occupied reservation stations.
	BusyStations int
	// PC is the fetch PC after the tick.
	PC uint32
}

// Recorder accumulates samples across a run.
type Recorder struct {
	samples []Sample
}

// Record appends a snapshot of the pipeline's current occupancy.
func (r *Recorder) Record(p *pipeline.Pipeline) {
	busy := 0
	stations := p.Stations()
	for i := 1; i <= pipeline.NumUnits; i++ {
		if stations[i].Busy {
			busy++
		}
	}
	r.samples = append(r.samples, Sample{
		Cycle:        p.Cycles(),
		ROBEntries:   p.ROBOccupancy(),
		BusyStations: busy,
		PC:           p.PC(),
	})
}

// Samples returns the recorded samples.
func (r *Recorder) Samples() []Sample {
	return r.samples
}

// SavePlot renders ROB and station occupancy over time to an image file.
// The format is chosen by the file extension (.png, .svg, .pdf).
func (r *Recorder) SavePlot(path string) error {
	if len(r.samples) == 0 {
		return fmt.Errorf("nothing recorded")
	}

	robPts := make(plotter.XYs, len(r.samples))
	stationPts := make(plotter.XYs, len(r.samples))
	for i, s := range r.samples {
		robPts[i] = plotter.XY{X: float64(s.Cycle), Y: float64(s.ROBEntries)}
		stationPts[i] = plotter.XY{X: float64(s.Cycle), Y: float64(s.BusyStations)}
	}

	pl := plot.New()
	pl.Title.Text = "Pipeline occupancy"
	pl.X.Label.Text = "cycle"
	pl.Y.Label.Text = "entries"

	robLine, err := plotter.NewLine(robPts)
	if err != nil {
		return fmt.Errorf("failed to build ROB series: %w", err)
	}
	stationLine, err := plotter.NewLine(stationPts)
	if err != nil {
		return fmt.Errorf("failed to build station series: %w", err)
	}
	stationLine.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	pl.Add(robLine, stationLine)
	pl.Legend.Add("ROB", robLine)
	pl.Legend.Add("stations", stationLine)

	if err := pl.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
