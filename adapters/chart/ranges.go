package chart

import (
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/gonum/floats"
)

// zeroBasedRange runs from 0 to a little past the largest value. A range that
// would be empty is widened to [0, 1].
func zeroBasedRange(values []float64) *gochart.ContinuousRange {
	max := floats.Max(values)
	if max <= 0 {
		max = 1
	}
	return &gochart.ContinuousRange{Min: 0, Max: max * 1.05}
}

// depthRange puts 0 at the top and the deepest sample at the bottom
func depthRange(depths []float64) *gochart.ContinuousRange {
	max := floats.Max(depths)
	if max <= 0 {
		max = 1
	}
	return &gochart.ContinuousRange{Min: 0, Max: max, Descending: true}
}

// paddedRange adds a 5% margin on both sides and rounds outward to the order of
// magnitude of the span.
func paddedRange(values []float64) *gochart.ContinuousRange {
	min, max := floats.Min(values), floats.Max(values)
	if max <= min {
		pad := math.Abs(min) * 0.1
		if pad == 0 {
			pad = 1
		}
		return &gochart.ContinuousRange{Min: min - pad, Max: max + pad}
	}
	span := max - min
	a, b := min-span*0.05, max+span*0.05
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if !math.IsInf(mag, 0) && mag > 0 {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return &gochart.ContinuousRange{Min: a, Max: b}
}
