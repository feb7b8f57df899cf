// Package diagnostics renders one-dimensional views of a decision function.
package diagnostics

import (
	"fmt"

	"github.com/YuminosukeSato/rbfsvm/core/model"
	"github.com/YuminosukeSato/rbfsvm/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// DecisionProfile is the decision value along one feature axis, the other
// features held at Base.
type DecisionProfile struct {
	Feature int
	Base    []float64
	Points  plotter.XYs
}

// Profile sweeps feature over [lo, hi] in steps evenly spaced points.
//
//	prof, err := diagnostics.Profile(predictor, x0, 0, -3, 3, 200)
//	err = prof.SavePlot("profile.png", "feature 0")
func Profile(ev model.Evaluator, base []float64, feature int, lo, hi float64, steps int) (*DecisionProfile, error) {
	const op = "diagnostics.Profile"

	if len(base) != ev.InputDimension() {
		return nil, errors.NewInvalidArgumentError(op, ev.InputDimension(), len(base))
	}
	if feature < 0 || feature >= len(base) {
		return nil, errors.NewValueError(op, fmt.Sprintf("feature %d out of range [0, %d)", feature, len(base)))
	}
	if steps < 2 {
		return nil, errors.NewValueError(op, "at least two steps are required")
	}
	if !(hi > lo) {
		return nil, errors.NewValueError(op, fmt.Sprintf("empty sweep range [%g, %g]", lo, hi))
	}

	x := append([]float64(nil), base...)
	pts := make(plotter.XYs, steps)
	step := (hi - lo) / float64(steps-1)
	for i := range pts {
		v := lo + float64(i)*step
		x[feature] = v
		y, err := ev.Evaluate(x)
		if err != nil {
			return nil, err
		}
		pts[i].X, pts[i].Y = v, y
	}

	return &DecisionProfile{
		Feature: feature,
		Base:    append([]float64(nil), base...),
		Points:  pts,
	}, nil
}

// Values returns the decision values in sweep order.
func (p *DecisionProfile) Values() []float64 {
	ys := make([]float64, len(p.Points))
	for i, pt := range p.Points {
		ys[i] = pt.Y
	}
	return ys
}

// Plot builds a line plot of the profile. Non-finite values cannot be drawn;
// they are dropped and reported through errors.Warn.
func (p *DecisionProfile) Plot(title string) (*plot.Plot, error) {
	finite := make(plotter.XYs, 0, len(p.Points))
	for _, pt := range p.Points {
		if errors.IsFinite(pt.Y) {
			finite = append(finite, pt)
		}
	}
	if w := errors.CheckNonFinite("DecisionProfile.Plot", p.Values()); w != nil {
		errors.Warn(w)
	}
	if len(finite) == 0 {
		return nil, errors.Mark(errors.NewValueError("DecisionProfile.Plot", "no finite values to plot"), errors.ErrEmptyData)
	}

	pl := plot.New()
	pl.Title.Text = title
	pl.X.Label.Text = fmt.Sprintf("x[%d]", p.Feature)
	pl.Y.Label.Text = "decision value"
	pl.Add(plotter.NewGrid())

	line, err := plotter.NewLine(finite)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build profile line")
	}
	pl.Add(line)
	return pl, nil
}

// SavePlot renders the profile to path; the extension selects the image
// format (png, svg, pdf, ...).
func (p *DecisionProfile) SavePlot(path, title string) error {
	pl, err := p.Plot(title)
	if err != nil {
		return err
	}
	if err := pl.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "failed to save profile plot to %s", path)
	}
	return nil
}
