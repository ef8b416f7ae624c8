// Package chart draws down-core profiles, parameter comparisons and the
// sedimentation-rate average plot as marker-only scatter charts.
package chart

import (
	"fmt"
	"math"

	"paleocore/adapters/stats/depth"
	"paleocore/domain/core"
	"paleocore/domain/dataset"
	"paleocore/internal"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// RateAverageColor is the marker color of the rate-average plot
const RateAverageColor = "g"

// Options sets the size of one panel in pixels
type Options struct {
	Width  int
	Height int
}

// DefaultOptions returns tall, narrow panels suited to depth profiles
func DefaultOptions() Options {
	return Options{Width: 320, Height: 640}
}

// Plotter builds figures with a fixed panel size
type Plotter struct {
	opts   Options
	logger *internal.Logger
}

// NewPlotter creates a plotter
func NewPlotter(opts Options) *Plotter {
	if opts.Width <= 0 || opts.Height <= 0 {
		opts = DefaultOptions()
	}
	return &Plotter{opts: opts, logger: internal.DefaultLogger}
}

// DownCore plots with default panel sizes
func DownCore(params []string, t *dataset.Table, styles []SeriesStyle) (*Figure, error) {
	return NewPlotter(DefaultOptions()).DownCore(params, t, styles)
}

// Comparison plots with default panel sizes
func Comparison(params []string, t *dataset.Table, styles []SeriesStyle, units string) ([]*Figure, error) {
	return NewPlotter(DefaultOptions()).Comparison(params, t, styles, units)
}

// RateAverage plots with default panel sizes
func RateAverage(t *dataset.Table, scale float64) (*Figure, []depth.RateGroup, error) {
	return NewPlotter(DefaultOptions()).RateAverage(t, scale)
}

// DownCore draws one panel per parameter against depth. All panels share the
// same inverted depth axis; only the first one is labelled.
func (p *Plotter) DownCore(params []string, t *dataset.Table, styles []SeriesStyle) (*Figure, error) {
	if len(styles) != len(params) {
		return nil, core.NewLengthMismatchError("styles", len(styles), len(params))
	}
	if len(params) == 0 {
		return nil, fmt.Errorf("%w: no parameters to plot", core.ErrInsufficientData)
	}
	depths, err := t.Numeric(core.DepthColumn)
	if err != nil {
		return nil, err
	}

	// The depth axis spans every panel's samples so that the panels line up.
	panels := make([]*gochart.Chart, len(params))
	plotted := make([]float64, 0, len(depths))
	xs := make([][]float64, len(params))
	ys := make([][]float64, len(params))
	for i, param := range params {
		values, err := t.Numeric(param)
		if err != nil {
			return nil, err
		}
		xs[i], ys[i] = points(values, depths)
		if len(xs[i]) == 0 {
			return nil, fmt.Errorf("%w: %q has no samples with a depth", core.ErrInsufficientData, param)
		}
		plotted = append(plotted, ys[i]...)
	}
	yRange := depthRange(plotted)

	for i, param := range params {
		style, err := pointStyle(styles[i])
		if err != nil {
			return nil, err
		}
		yName := ""
		if i == 0 {
			yName = core.DepthColumn
		}
		panels[i] = p.panel("",
			gochart.XAxis{Name: param, Range: zeroBasedRange(xs[i])},
			gochart.YAxis{Name: yName, Range: yRange},
			gochart.ContinuousSeries{Name: param, XValues: xs[i], YValues: ys[i], Style: style},
		)
	}

	p.logger.Debug("[Plotter] down-core figure with %d panels to %.2f mbsf", len(panels), yRange.Max)
	return &Figure{Name: "downcore", Panels: panels}, nil
}

// Comparison draws one single-panel figure per parameter with the units column
// on x and the parameter on y.
func (p *Plotter) Comparison(params []string, t *dataset.Table, styles []SeriesStyle, units string) ([]*Figure, error) {
	if units == "" {
		units = core.MagnetiteColumn
	}
	if len(styles) != len(params) {
		return nil, core.NewLengthMismatchError("styles", len(styles), len(params))
	}
	unitValues, err := t.Numeric(units)
	if err != nil {
		return nil, err
	}

	figures := make([]*Figure, 0, len(params))
	for i, param := range params {
		values, err := t.Numeric(param)
		if err != nil {
			return nil, err
		}
		xs, ys := points(unitValues, values)
		if len(xs) == 0 {
			return nil, fmt.Errorf("%w: no rows with both %q and %q", core.ErrInsufficientData, units, param)
		}
		style, err := pointStyle(styles[i])
		if err != nil {
			return nil, err
		}
		panel := p.panel(param,
			gochart.XAxis{Name: units, Range: paddedRange(xs)},
			gochart.YAxis{Name: param, Range: paddedRange(ys)},
			gochart.ContinuousSeries{Name: param, XValues: xs, YValues: ys, Style: style},
		)
		panel.Width = panel.Height
		figures = append(figures, &Figure{Name: param, Panels: []*gochart.Chart{panel}})
	}
	return figures, nil
}

// RateAverage groups magnetite by sedimentation rate and plots the group means
// against the rate. Marker area grows with the group size times scale.
func (p *Plotter) RateAverage(t *dataset.Table, scale float64) (*Figure, []depth.RateGroup, error) {
	if scale <= 0 {
		scale = 1
	}
	groups, err := depth.GroupByRate(t, core.MagnetiteColumn)
	if err != nil {
		return nil, nil, err
	}
	if len(groups) == 0 {
		return nil, nil, fmt.Errorf("%w: no rows with both a sedimentation rate and magnetite", core.ErrInsufficientData)
	}

	means := make([]float64, len(groups))
	rates := make([]float64, len(groups))
	for i, g := range groups {
		means[i], rates[i] = g.Mean, g.Rate
	}

	style, err := pointStyle(SeriesStyle{Color: RateAverageColor})
	if err != nil {
		return nil, nil, err
	}
	style.DotWidthProvider = func(_, _ gochart.Range, index int, _, _ float64) float64 {
		return MarkerRadius(groups[index].Count, scale)
	}

	panel := p.panel("Average magnetite by sedimentation rate",
		gochart.XAxis{Name: core.MagnetiteColumn, Range: paddedRange(means)},
		gochart.YAxis{Name: core.SedRateColumn, Range: paddedRange(rates)},
		gochart.ContinuousSeries{Name: core.MagnetiteColumn, XValues: means, YValues: rates, Style: style},
	)
	panel.Width = panel.Height
	return &Figure{Name: "sedrate-average", Panels: []*gochart.Chart{panel}}, groups, nil
}

// MarkerRadius turns a marker area of count*scale into a dot radius
func MarkerRadius(count int, scale float64) float64 {
	return math.Sqrt(float64(count) * scale)
}

func (p *Plotter) panel(title string, x gochart.XAxis, y gochart.YAxis, series gochart.ContinuousSeries) *gochart.Chart {
	return &gochart.Chart{
		Title:      title,
		Width:      p.opts.Width,
		Height:     p.opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      x,
		YAxis:      y,
		Series:     []gochart.Series{series},
	}
}
