package depth

import (
	"errors"
	"testing"

	"paleocore/domain/core"
	"paleocore/domain/dataset"
)

func TestSedimentationRates(t *testing.T) {
	ages := []float64{1, 2, nan, 4, 6}
	depths := []float64{10, 30, 40, 60, 70}

	rates, err := SedimentationRates(ages, depths)
	if err != nil {
		t.Fatalf("SedimentationRates failed: %v", err)
	}

	// row 3 follows an incomplete row, so it cannot be computed
	assertSeries(t, "rates", rates, []float64{10, 20, nan, nan, 5})
}

func TestSedimentationRates_TopAtZeroDepth(t *testing.T) {
	rates, err := SedimentationRates([]float64{0, 2}, []float64{0, 8})
	if err != nil {
		t.Fatalf("SedimentationRates failed: %v", err)
	}
	assertSeries(t, "rates", rates, []float64{nan, 4})
}

func TestSedimentationRates_UndefinedDivision(t *testing.T) {
	rates, err := SedimentationRates([]float64{0, 2, 2}, []float64{5, 8, 9})
	if err != nil {
		t.Fatalf("SedimentationRates failed: %v", err)
	}
	assertSeries(t, "rates", rates, []float64{nan, 1.5, nan})
}

func TestSedimentationRates_LengthMismatch(t *testing.T) {
	_, err := SedimentationRates([]float64{1}, []float64{1, 2})
	if !errors.Is(err, core.ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", err)
	}
}

func TestAddSedimentationRates(t *testing.T) {
	tbl := dataset.NewTable()
	_ = tbl.AddNumeric(core.AgeColumn, []float64{1, 3})
	_ = tbl.AddNumeric(core.DepthColumn, []float64{20, 60})

	out, err := AddSedimentationRates(tbl, core.AgeColumn, core.DepthColumn)
	if err != nil {
		t.Fatalf("AddSedimentationRates failed: %v", err)
	}

	rates, err := out.Numeric(core.SedRateColumn)
	if err != nil {
		t.Fatalf("rate column missing: %v", err)
	}
	assertSeries(t, "rates", rates, []float64{20, 20})

	if tbl.HasColumn(core.SedRateColumn) {
		t.Error("input table should not gain a rate column")
	}
}
