// Package export renders trajectories and dose-response sweeps to image
// files, and draws quick terminal charts for interactive use.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Series is one named curve.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

func checkFormat(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".svg", ".pdf":
		return nil
	default:
		return fmt.Errorf("export: unsupported image format %q (use .png, .svg or .pdf)", filepath.Ext(path))
	}
}

func lines(p *plot.Plot, series []Series) error {
	for i, s := range series {
		if len(s.X) != len(s.Y) {
			return fmt.Errorf("export: series %q has %d x values and %d y values", s.Name, len(s.X), len(s.Y))
		}
		pts := make(plotter.XYs, len(s.X))
		for j := range s.X {
			pts[j].X = s.X[j]
			pts[j].Y = s.Y[j]
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(i)
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}
	return nil
}

// TimeCourse plots curves against time in seconds.
func TimeCourse(path, title, ylabel string, series []Series) error {
	if err := checkFormat(path); err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("export: nothing to plot")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "time (s)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	if err := lines(p, series); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// DoseResponse plots curves against a log-scaled enzyme concentration axis.
func DoseResponse(path, title, xlabel string, series []Series) error {
	if err := checkFormat(path); err != nil {
		return err
	}
	if len(series) == 0 {
		return fmt.Errorf("export: nothing to plot")
	}
	for _, s := range series {
		for _, x := range s.X {
			if x <= 0 {
				return fmt.Errorf("export: series %q has a non-positive dose, log axis impossible", s.Name)
			}
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "fraction"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	if err := lines(p, series); err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 5*vg.Inch, path)
}

// DoseResponseBands plots an ensemble mean with a +/- one standard
// deviation band on a log dose axis.
func DoseResponseBands(path, title, xlabel string, doses, mean, sd []float64) error {
	if err := checkFormat(path); err != nil {
		return err
	}
	if len(doses) != len(mean) || len(doses) != len(sd) {
		return fmt.Errorf("export: dose, mean and sd lengths differ (%d, %d, %d)", len(doses), len(mean), len(sd))
	}

	upper := make([]float64, len(mean))
	lower := make([]float64, len(mean))
	for i := range mean {
		upper[i] = mean[i] + sd[i]
		lower[i] = mean[i] - sd[i]
	}
	return DoseResponse(path, title, xlabel, []Series{
		{Name: "mean", X: doses, Y: mean},
		{Name: "+1 sd", X: doses, Y: upper},
		{Name: "-1 sd", X: doses, Y: lower},
	})
}

// ASCII draws one curve as a terminal chart.
func ASCII(caption string, y []float64, height int) string {
	if len(y) == 0 {
		return ""
	}
	if height <= 0 {
		height = 15
	}
	return asciigraph.Plot(y,
		asciigraph.Height(height),
		asciigraph.Caption(caption),
	)
}
