package testkit

import (
	"fmt"
	"math"
	"math/rand"

	"paleocore/domain/core"
	"paleocore/domain/dataset"
)

// SusceptibilityColumn is the second measured parameter in generated series.
const SusceptibilityColumn = "Susceptibility [SI]"

// CoreGeneratorConfig configures the synthetic core generator
type CoreGeneratorConfig struct {
	Leg             string
	Site            string
	Holes           []string
	CoresPerHole    int
	SectionsPerCore int
	SectionLength   float64 // metres
	GapFraction     float64 // share of measurements left missing
	TieEvery        int     // every n-th sample carries an age
	Seed            int64
}

// DefaultCoreConfig returns a small three-hole site
func DefaultCoreConfig() CoreGeneratorConfig {
	return CoreGeneratorConfig{
		Leg:             "113",
		Site:            "695",
		Holes:           []string{"A", "B", "C"},
		CoresPerHole:    4,
		SectionsPerCore: 6,
		SectionLength:   1.5,
		GapFraction:     0.25,
		TieEvery:        5,
		Seed:            42,
	}
}

// SummaryRow is one core/section row of a hole summary sheet
type SummaryRow struct {
	Core    string
	Section string
	Top     float64
}

// HoleSummary holds the generated summary rows of one hole
type HoleSummary struct {
	Hole string
	Rows []SummaryRow
}

// GeneratedSample is a sample label with the depth it must convert to
type GeneratedSample struct {
	Label string
	Hole  string
	Depth float64
}

// CoreGenerator produces reproducible core datasets
type CoreGenerator struct {
	config CoreGeneratorConfig
	rng    *rand.Rand
}

// NewCoreGenerator creates a new generator
func NewCoreGenerator(config CoreGeneratorConfig) *CoreGenerator {
	return &CoreGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Summaries generates one summary per hole. Cores are stacked without gaps; each
// hole starts a little deeper than the previous one, and every core ends with a
// core-catcher row.
func (g *CoreGenerator) Summaries() []HoleSummary {
	holes := make([]HoleSummary, 0, len(g.config.Holes))
	for h, hole := range g.config.Holes {
		summary := HoleSummary{Hole: hole}
		top := float64(h) * 0.5
		for c := 1; c <= g.config.CoresPerHole; c++ {
			coreID := fmt.Sprintf("%dH", c)
			for s := 1; s <= g.config.SectionsPerCore; s++ {
				summary.Rows = append(summary.Rows, SummaryRow{Core: coreID, Section: fmt.Sprintf("%d", s), Top: round2(top)})
				top += g.config.SectionLength
			}
			summary.Rows = append(summary.Rows, SummaryRow{Core: coreID, Section: "CC", Top: round2(top)})
			top += 0.3
		}
		holes = append(holes, summary)
	}
	return holes
}

// Samples draws n labelled samples from the summaries, each 2 cm thick.
func (g *CoreGenerator) Samples(holes []HoleSummary, n int) []GeneratedSample {
	samples := make([]GeneratedSample, 0, n)
	for len(samples) < n {
		hole := holes[g.rng.Intn(len(holes))]
		if len(hole.Rows) == 0 {
			continue
		}
		row := hole.Rows[g.rng.Intn(len(hole.Rows))]
		top := float64(g.rng.Intn(int(g.config.SectionLength*100) - 2))
		bottom := top + 2

		label := fmt.Sprintf("%s-%s%s-%s-%s, %g-%g", g.config.Leg, g.config.Site, hole.Hole, row.Core, row.Section, top, bottom)
		samples = append(samples, GeneratedSample{
			Label: label,
			Hole:  hole.Hole,
			Depth: row.Top + (top+bottom)/200,
		})
	}
	return samples
}

// Series generates n samples at increasing depth with a magnetite and a
// susceptibility record, gaps in both, and ages at every TieEvery-th sample.
// The age model is piecewise linear with a rate change halfway down.
func (g *CoreGenerator) Series(n int) *dataset.Table {
	depths := make([]float64, n)
	ages := make([]float64, n)
	magnetite := make([]float64, n)
	susceptibility := make([]float64, n)

	depth := 0.0
	for i := 0; i < n; i++ {
		depth += 0.05 + g.rng.Float64()*0.2
		depths[i] = round2(depth)

		ages[i] = math.NaN()
		if g.config.TieEvery > 0 && (i+1)%g.config.TieEvery == 0 {
			ages[i] = ageAt(depths[i], float64(n)*0.075)
		}

		magnetite[i] = 50 + 30*math.Sin(depths[i]) + g.rng.NormFloat64()*2
		susceptibility[i] = 1e-4 * (1 + 0.5*math.Cos(depths[i]))
		if g.rng.Float64() < g.config.GapFraction {
			magnetite[i] = math.NaN()
		}
		if g.rng.Float64() < g.config.GapFraction {
			susceptibility[i] = math.NaN()
		}
	}

	t := dataset.NewTable()
	_ = t.AddNumeric(core.DepthColumn, depths)
	_ = t.AddNumeric(core.AgeColumn, ages)
	_ = t.AddNumeric(core.MagnetiteColumn, magnetite)
	_ = t.AddNumeric(SusceptibilityColumn, susceptibility)
	return t
}

// ageAt is 20 m/Ma above the break and 10 m/Ma below it.
func ageAt(depth, brk float64) float64 {
	if depth <= brk {
		return depth / 20
	}
	return brk/20 + (depth-brk)/10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
