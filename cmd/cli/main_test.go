package main

import (
	"testing"

	"paleocore/internal/config"

	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Output.Workbook = "compilation.xlsx"
	cfg.Plot.Dir = "plots"
	cfg.Plot.MarkerSize = 2
	return cfg
}

func TestOutputFlags_DefaultWorkbook(t *testing.T) {
	cfg := testConfig()

	out := (&outputFlags{sheet: "Interpolated"}).output(cfg)
	assert.Equal(t, "compilation.xlsx", out.Workbook)
	assert.Equal(t, "Interpolated", out.Sheet)

	out = (&outputFlags{sheet: "x", workbook: "other.xlsx"}).output(cfg)
	assert.Equal(t, "other.xlsx", out.Workbook)
}

func TestPlotFlags_RequestDefaults(t *testing.T) {
	cfg := testConfig()
	flags := &plotFlags{params: []string{"Magnetite [ppm]"}, colors: []string{"g"}, format: "svg"}

	req := flags.request(cfg, "core.xlsx", "Data")
	assert.Equal(t, "core.xlsx", req.Input)
	assert.Equal(t, "Data", req.Sheet)
	assert.Equal(t, 2.0, req.MarkerSize)
	assert.Equal(t, "plots", req.Dir)
	assert.Equal(t, "svg", req.Format)

	flags.markerSize = 4
	flags.dir = "out"
	req = flags.request(cfg, "core.xlsx", "")
	assert.Equal(t, 4.0, req.MarkerSize)
	assert.Equal(t, "out", req.Dir)
}

func TestCommandTree(t *testing.T) {
	e := &env{}
	plot := newPlotCmd(e)

	var names []string
	for _, c := range plot.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"downcore", "compare", "rates"}, names)

	interp := newInterpolateCmd(e)
	assert.NotNil(t, interp.Flags().Lookup("no-fill-final"))
	assert.NotNil(t, interp.Flags().Lookup("cols"))
}
