package depth

import (
	"fmt"
	"math"
	"sort"

	"paleocore/domain/core"
	"paleocore/domain/dataset"

	"gonum.org/v1/gonum/interp"
)

// ============================================================================
// DEPTH ALIGNMENT LAYER
// ============================================================================
// Measurements from different instruments are sampled at different depths.
// Interpolate puts every requested column on the union of sampled depths so
// that rows can be compared one-to-one.
// ============================================================================

// InterpolateOptions controls how the depth series are filled
type InterpolateOptions struct {
	DepthColumn    string // default core.DepthColumn
	RateColumn     string // default core.SedRateColumn
	SedRates       bool   // backward-fill the sedimentation rate column
	FillFinalRates bool   // extend the deepest known rate to the bottom of the table
}

// DefaultInterpolateOptions fills sedimentation rates in both directions
func DefaultInterpolateOptions() InterpolateOptions {
	return InterpolateOptions{
		DepthColumn:    core.DepthColumn,
		RateColumn:     core.SedRateColumn,
		SedRates:       true,
		FillFinalRates: true,
	}
}

// Interpolate returns a copy of t sorted by depth in which the missing values of
// cols are linearly interpolated against depth, with values above the first and
// below the last observation held constant. Sedimentation rates are step
// functions, so they are backward-filled instead: a rate applies from its
// horizon up to the previous one. The rate fill runs over every row, including
// the rows without a depth that sort last.
func Interpolate(t *dataset.Table, cols []string, opts InterpolateOptions) (*dataset.Table, error) {
	if opts.DepthColumn == "" {
		opts.DepthColumn = core.DepthColumn
	}
	if opts.RateColumn == "" {
		opts.RateColumn = core.SedRateColumn
	}

	out := t.Clone()
	if err := out.SortByNumeric(opts.DepthColumn); err != nil {
		return nil, fmt.Errorf("sort by depth: %w", err)
	}
	depths, _ := out.Numeric(opts.DepthColumn)
	known := knownDepthRows(depths)

	for _, col := range cols {
		values, err := out.Numeric(col)
		if err != nil {
			return nil, fmt.Errorf("interpolate %q: %w", col, err)
		}
		if err := out.SetNumeric(col, interpolateByValues(depths[:known], values, known)); err != nil {
			return nil, err
		}
	}

	if !opts.SedRates {
		return out, nil
	}

	rates, err := out.Numeric(opts.RateColumn)
	if err != nil {
		return nil, fmt.Errorf("fill sedimentation rates: %w", err)
	}
	filled := append([]float64(nil), rates...)
	backFill(filled)
	if opts.FillFinalRates {
		forwardFillTail(filled)
	}
	if err := out.SetNumeric(opts.RateColumn, filled); err != nil {
		return nil, err
	}
	return out, nil
}

// knownDepthRows counts the leading rows with a depth. After sorting, rows with a
// missing depth are all at the end.
func knownDepthRows(depths []float64) int {
	n := 0
	for n < len(depths) && !math.IsNaN(depths[n]) {
		n++
	}
	return n
}

// interpolateByValues fills NaNs among the first n values using depth as the
// abscissa. Rows at or after n are copied unchanged.
func interpolateByValues(depths, values []float64, n int) []float64 {
	out := append([]float64(nil), values...)

	xs, ys := interpolationNodes(depths, values[:n])
	switch len(xs) {
	case 0:
		return out
	case 1:
		for i := 0; i < n; i++ {
			if math.IsNaN(out[i]) {
				out[i] = ys[0]
			}
		}
		return out
	}

	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		return out
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(out[i]) {
			// Predict holds the end values outside [xs[0], xs[len-1]].
			out[i] = pl.Predict(depths[i])
		}
	}
	return out
}

// interpolationNodes returns strictly increasing depths with their values. Several
// observations at the same depth are averaged into one node.
func interpolationNodes(depths, values []float64) ([]float64, []float64) {
	type node struct {
		sum   float64
		count int
	}
	nodes := make(map[float64]*node)
	for i, v := range values {
		if math.IsNaN(v) || math.IsNaN(depths[i]) {
			continue
		}
		nd, ok := nodes[depths[i]]
		if !ok {
			nd = &node{}
			nodes[depths[i]] = nd
		}
		nd.sum += v
		nd.count++
	}

	xs := make([]float64, 0, len(nodes))
	for x := range nodes {
		xs = append(xs, x)
	}
	sort.Float64s(xs)

	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = nodes[x].sum / float64(nodes[x].count)
	}
	return xs, ys
}

// backFill replaces each NaN with the next non-NaN value below it.
func backFill(values []float64) {
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = next
		} else {
			next = values[i]
		}
	}
}

// forwardFillTail copies the last non-NaN value into every row after it.
func forwardFillTail(values []float64) {
	last := -1
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			last = i
			break
		}
	}
	if last < 0 {
		return
	}
	for i := last + 1; i < len(values); i++ {
		values[i] = values[last]
	}
}
