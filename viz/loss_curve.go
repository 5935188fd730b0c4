// Package viz renders training diagnostics with gonum/plot.
package viz

import (
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ezoic/logitreg/pkg/errors"
)

// Default image size for saved plots.
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 4 * vg.Inch
)

// LossCurve builds a line plot of losses against the iteration index.
func LossCurve(losses []float64, title string) (*plot.Plot, error) {
	if len(losses) == 0 {
		return nil, errors.NewValueError("LossCurve", "loss history is empty")
	}

	pts := make(plotter.XYs, len(losses))
	for i, l := range losses {
		pts[i].X = float64(i)
		pts[i].Y = l
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return nil, errors.Wrap(err, "LossCurve: building line")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "loss"
	p.Add(plotter.NewGrid(), line)
	return p, nil
}

// SaveLossCurve writes the loss plot to path; the format follows the file
// extension (.png, .svg, .pdf, ...).
func SaveLossCurve(losses []float64, title, path string) error {
	p, err := LossCurve(losses, title)
	if err != nil {
		return err
	}
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return errors.Wrapf(err, "SaveLossCurve: writing %s", path)
	}
	return nil
}

// WriteLossCurve renders the loss plot in the given format ("png", "svg", ...) to w.
func WriteLossCurve(w io.Writer, losses []float64, title, format string) error {
	p, err := LossCurve(losses, title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, format)
	if err != nil {
		return errors.Wrapf(err, "WriteLossCurve: format %s", format)
	}
	_, err = wt.WriteTo(w)
	return err
}
