package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"paleocore/domain/core"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// DefaultMarkerSize is the dot radius used when a style leaves it at zero
const DefaultMarkerSize = 2.0

// SeriesStyle describes how one parameter is drawn
type SeriesStyle struct {
	Color      string  // single-letter name (b g r c m y k w) or hex, e.g. "#1f77b4"
	MarkerSize float64 // dot radius in pixels
}

// letterColors are the single-letter colors of the usual plotting shorthand
var letterColors = map[string]string{
	"b": "0000ff",
	"g": "008000",
	"r": "ff0000",
	"c": "00bfbf",
	"m": "bf00bf",
	"y": "bfbf00",
	"k": "000000",
	"w": "ffffff",
}

// ParseColor accepts a single-letter color name or a 6-digit hex string with or
// without a leading '#'.
func ParseColor(s string) (drawing.Color, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if hex, ok := letterColors[name]; ok {
		return drawing.ColorFromHex(hex), nil
	}
	hex := strings.TrimPrefix(name, "#")
	if len(hex) != 6 {
		return drawing.Color{}, fmt.Errorf("%w: color %q", core.ErrUnsupportedFormat, s)
	}
	if _, err := strconv.ParseUint(hex, 16, 32); err != nil {
		return drawing.Color{}, fmt.Errorf("%w: color %q", core.ErrUnsupportedFormat, s)
	}
	return drawing.ColorFromHex(hex), nil
}

// ParseStyles builds one style per color with a shared marker size
func ParseStyles(colors []string, markerSize float64) []SeriesStyle {
	styles := make([]SeriesStyle, len(colors))
	for i, c := range colors {
		styles[i] = SeriesStyle{Color: c, MarkerSize: markerSize}
	}
	return styles
}

// pointStyle returns a style that renders points only (no connecting line)
func pointStyle(s SeriesStyle) (gochart.Style, error) {
	col, err := ParseColor(s.Color)
	if err != nil {
		return gochart.Style{}, err
	}
	size := s.MarkerSize
	if size <= 0 {
		size = DefaultMarkerSize
	}
	return gochart.Style{
		StrokeWidth: 0,
		StrokeColor: drawing.ColorTransparent,
		DotWidth:    size,
		DotColor:    col,
	}, nil
}

// points drops the pairs where either coordinate is missing
func points(xs, ys []float64) ([]float64, []float64) {
	px := make([]float64, 0, len(xs))
	py := make([]float64, 0, len(ys))
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) || math.IsInf(xs[i], 0) || math.IsInf(ys[i], 0) {
			continue
		}
		px = append(px, xs[i])
		py = append(py, ys[i])
	}
	return px, py
}
