package diagnostics

import (
	"image/color"

	"github.com/YuminosukeSato/bartgo/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// TracePlot builds a line plot of values against iteration, with a dashed
// vertical marker at burnIn when it lies inside the trace.
func TracePlot(values []float64, burnIn int, title string) (*plot.Plot, error) {
	if len(values) == 0 {
		return nil, errors.NewModelError("TracePlot", "empty trace", errors.ErrEmptyData)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "sigma"

	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = float64(i)
		pts[i].Y = v
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "trace line")
	}
	p.Add(line)
	p.Legend.Add("sigma", line)

	if burnIn > 0 && burnIn < len(values) {
		lo, hi := floats.Min(values), floats.Max(values)
		marker, err := plotter.NewLine(plotter.XYs{
			{X: float64(burnIn), Y: lo},
			{X: float64(burnIn), Y: hi},
		})
		if err != nil {
			return nil, errors.Wrap(err, "burn-in marker")
		}
		marker.LineStyle.Color = color.RGBA{R: 200, A: 255}
		marker.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(marker)
		p.Legend.Add("burn-in", marker)
	}
	return p, nil
}

// PlotTrace saves the trace plot to path. The image format follows the file
// extension (.png, .svg, .pdf, ...).
func PlotTrace(values []float64, burnIn int, path string) error {
	p, err := TracePlot(values, burnIn, "sigma trace")
	if err != nil {
		return err
	}
	if err := p.Save(8*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save trace plot to %s", path)
	}
	return nil
}
