package chart

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"paleocore/domain/core"

	gochart "github.com/wcharczuk/go-chart/v2"
)

// Figure is a row of chart panels rendered side by side. Panels are exposed so
// callers can adjust titles, ticks or ranges before rendering.
type Figure struct {
	Name   string
	Panels []*gochart.Chart
}

// Render writes the figure as "png" or "svg". SVG is only available for
// single-panel figures.
func (f *Figure) Render(format string, w io.Writer) error {
	switch strings.ToLower(format) {
	case "png":
		return f.RenderPNG(w)
	case "svg":
		if len(f.Panels) != 1 {
			return fmt.Errorf("%w: svg output of a %d-panel figure", core.ErrUnsupportedFormat, len(f.Panels))
		}
		return f.Panels[0].Render(gochart.SVG, w)
	default:
		return fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, format)
	}
}

// RenderPNG renders every panel and composes them left to right on a white canvas
func (f *Figure) RenderPNG(w io.Writer) error {
	if len(f.Panels) == 0 {
		return fmt.Errorf("%w: figure %q has no panels", core.ErrInsufficientData, f.Name)
	}
	if len(f.Panels) == 1 {
		return f.Panels[0].Render(gochart.PNG, w)
	}

	images := make([]image.Image, len(f.Panels))
	width, height := 0, 0
	for i, panel := range f.Panels {
		var buf bytes.Buffer
		if err := panel.Render(gochart.PNG, &buf); err != nil {
			return fmt.Errorf("render panel %d: %w", i, err)
		}
		img, err := png.Decode(&buf)
		if err != nil {
			return fmt.Errorf("decode panel %d: %w", i, err)
		}
		images[i] = img
		width += img.Bounds().Dx()
		if h := img.Bounds().Dy(); h > height {
			height = h
		}
	}

	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	x := 0
	for _, img := range images {
		b := img.Bounds()
		draw.Draw(canvas, image.Rect(x, 0, x+b.Dx(), b.Dy()), img, b.Min, draw.Over)
		x += b.Dx()
	}
	return png.Encode(w, canvas)
}

// Save writes the figure to path, picking the format from the extension
func (f *Figure) Save(path string) error {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format != "png" && format != "svg" {
		return fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var buf bytes.Buffer
	if err := f.Render(format, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
