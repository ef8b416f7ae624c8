package depth

import (
	"fmt"
	"math"

	"paleocore/domain/core"
	"paleocore/domain/dataset"
)

// SedimentationRates computes the rate (m/Ma) between each dated horizon and the one
// above it. The first horizon is measured from the core top unless it sits at depth
// zero. Rows with a missing age or depth, and rows whose previous horizon is
// incomplete, get NaN so the result lines up with the input rows.
func SedimentationRates(ages, depths []float64) ([]float64, error) {
	if len(ages) != len(depths) {
		return nil, fmt.Errorf("%w: %d ages, %d depths", core.ErrLengthMismatch, len(ages), len(depths))
	}

	rates := make([]float64, len(ages))
	for i := range ages {
		if math.IsNaN(ages[i]) || math.IsNaN(depths[i]) {
			rates[i] = math.NaN()
			continue
		}
		if i == 0 {
			if depths[i] == 0 {
				rates[i] = math.NaN()
			} else {
				rates[i] = ratio(depths[i], ages[i])
			}
			continue
		}
		rates[i] = ratio(depths[i]-depths[i-1], ages[i]-ages[i-1])
	}
	return rates, nil
}

// AddSedimentationRates returns a copy of t with the sedimentation rate column
// computed from ageCol and depthCol.
func AddSedimentationRates(t *dataset.Table, ageCol, depthCol string) (*dataset.Table, error) {
	ages, err := t.Numeric(ageCol)
	if err != nil {
		return nil, err
	}
	depths, err := t.Numeric(depthCol)
	if err != nil {
		return nil, err
	}
	rates, err := SedimentationRates(ages, depths)
	if err != nil {
		return nil, err
	}

	out := t.Clone()
	if err := out.SetNumeric(core.SedRateColumn, rates); err != nil {
		return nil, err
	}
	return out, nil
}

// ratio divides, mapping undefined results (zero age span) to NaN.
func ratio(num, den float64) float64 {
	if den == 0 {
		return math.NaN()
	}
	r := num / den
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	return r
}
