package app

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"paleocore/adapters/chart"
	"paleocore/domain/core"
	"paleocore/domain/dataset"
	"paleocore/internal/depthconv"
	"paleocore/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	source    *MockTableSource
	summaries *MockSummarySource
	sink      *MockTableSink
	service   *CoreService
}

func newFixture() *fixture {
	f := &fixture{
		source:    new(MockTableSource),
		summaries: new(MockSummarySource),
		sink:      new(MockTableSink),
	}
	f.service = NewCoreService(f.source, f.summaries, f.sink, chart.NewPlotter(chart.Options{Width: 120, Height: 240}))
	return f
}

func (f *fixture) input(path string, t *dataset.Table) {
	f.source.On("Fingerprint", mock.Anything, path).Return(core.NewHash([]byte(path)), nil)
	f.source.On("ReadTable", mock.Anything, path, "").Return(t, nil)
}

func coreTable(t *testing.T) *dataset.Table {
	t.Helper()
	nan := math.NaN()
	tbl := dataset.NewTable()
	require.NoError(t, tbl.AddText(core.SampleColumn, []string{"113-695A-1H-1, 0-2", "113-695A-1H-2, 0-2", "113-695A-1H-CC, 0-2", "113-695A-1H-3, 0-2"}))
	require.NoError(t, tbl.AddNumeric(core.DepthColumn, []float64{3, 1, 2, 4}))
	require.NoError(t, tbl.AddNumeric(core.AgeColumn, []float64{0.3, nan, nan, 0.4}))
	require.NoError(t, tbl.AddNumeric(core.MagnetiteColumn, []float64{30, 10, nan, 40}))
	require.NoError(t, tbl.AddNumeric(core.SedRateColumn, []float64{10, nan, nan, 20}))
	return tbl
}

func TestCoreService_InterpolateWritesCSV(t *testing.T) {
	f := newFixture()
	f.input("core.csv", coreTable(t))

	var written *dataset.Table
	f.sink.On("WriteCSV", mock.Anything, "out.csv", mock.Anything).
		Run(func(args mock.Arguments) { written = args.Get(2).(*dataset.Table) }).
		Return(nil)

	result, err := f.service.Interpolate(context.Background(), InterpolateRequest{
		Input:          "core.csv",
		Columns:        []string{core.MagnetiteColumn},
		SedRates:       true,
		FillFinalRates: true,
		Output:         Output{CSV: "out.csv", Sheet: "ignored"},
	})
	require.NoError(t, err)
	require.NotNil(t, written)

	mag, _ := written.Numeric(core.MagnetiteColumn)
	assert.Equal(t, []float64{10, 20, 30, 40}, mag)
	rates, _ := written.Numeric(core.SedRateColumn)
	assert.Equal(t, []float64{10, 10, 10, 20}, rates)

	assert.Equal(t, "interpolate", result.Manifest.Command)
	assert.Equal(t, []string{"out.csv"}, result.Manifest.Outputs)
	assert.NoError(t, result.Manifest.Validate())
	f.sink.AssertNotCalled(t, "WriteSheet", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.source.AssertExpectations(t)
}

func TestCoreService_InterpolateRequiresColumnsAndOutput(t *testing.T) {
	f := newFixture()
	_, err := f.service.Interpolate(context.Background(), InterpolateRequest{Input: "core.csv"})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	f.input("core.csv", coreTable(t))
	_, err = f.service.Interpolate(context.Background(), InterpolateRequest{Input: "core.csv", Columns: []string{core.MagnetiteColumn}})
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestCoreService_SedRatesToSheet(t *testing.T) {
	f := newFixture()
	f.input("core.csv", coreTable(t))
	f.sink.On("WriteSheet", mock.Anything, "compilation.xlsx", "Rates", mock.Anything).Return(nil)

	result, err := f.service.SedRates(context.Background(), SedRateRequest{
		Input:  "core.csv",
		Output: Output{Workbook: "compilation.xlsx", Sheet: "Rates"},
	})
	require.NoError(t, err)

	rates, err := result.Table.Numeric(core.SedRateColumn)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, rates[0], 1e-9)
	assert.True(t, math.IsNaN(rates[1]))
	assert.Equal(t, []string{"compilation.xlsx!Rates"}, result.Manifest.Outputs)
	f.sink.AssertExpectations(t)
}

func TestCoreService_ConvertDepthsReportsBadLabels(t *testing.T) {
	f := newFixture()
	f.input("core.csv", coreTable(t))
	f.source.On("Fingerprint", mock.Anything, "summary.xlsx").Return(core.NewHash([]byte("summary")), nil)

	summary := depthconv.NewSummaryTable("A")
	require.NoError(t, summary.Add("1H", "1", 0))
	require.NoError(t, summary.Add("1H", "2", 1.5))
	sheets := map[string]string{"A": "Hole A"}
	f.summaries.On("LoadSummaries", mock.Anything, "summary.xlsx", sheets).
		Return(map[string]*depthconv.SummaryTable{"A": summary}, nil)
	f.sink.On("WriteCSV", mock.Anything, "depths.csv", mock.Anything).Return(nil)

	result, err := f.service.ConvertDepths(context.Background(), DepthRequest{
		Input:           "core.csv",
		SummaryWorkbook: "summary.xlsx",
		SummarySheets:   sheets,
		Output:          Output{CSV: "depths.csv"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrSectionNotFound)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	require.NotNil(t, result, "the table is still written")

	depths, _ := result.Table.Numeric(core.DepthColumn)
	assert.InDeltaSlice(t, []float64{0.01, 1.51, 1.51}, depths[:3], 1e-12)
	assert.True(t, math.IsNaN(depths[3]))
	assert.Len(t, result.Manifest.Inputs, 2)
	f.sink.AssertExpectations(t)
}

func TestCoreService_ConvertDepthsNeedsSummaryWorkbook(t *testing.T) {
	f := newFixture()
	_, err := f.service.ConvertDepths(context.Background(), DepthRequest{Input: "core.csv"})
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestCoreService_ConvertDepthsMissingLabelColumn(t *testing.T) {
	f := newFixture()
	f.input("core.csv", coreTable(t))

	_, err := f.service.ConvertDepths(context.Background(), DepthRequest{
		Input:           "core.csv",
		LabelColumn:     "Label",
		SummaryWorkbook: "summary.xlsx",
		Output:          Output{CSV: "depths.csv"},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
	f.summaries.AssertNotCalled(t, "LoadSummaries", mock.Anything, mock.Anything, mock.Anything)
}

func TestCoreService_Plots(t *testing.T) {
	f := newFixture()
	f.input("core.csv", coreTable(t))
	dir := filepath.Join(t.TempDir(), "plots")
	ctx := context.Background()

	result, err := f.service.PlotDownCore(ctx, PlotRequest{
		Input:  "core.csv",
		Params: []string{core.MagnetiteColumn, core.AgeColumn},
		Colors: []string{"g", "r"},
		Dir:    dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "downcore.png")}, result.Files)

	result, err = f.service.PlotComparison(ctx, PlotRequest{
		Input:  "core.csv",
		Params: []string{core.AgeColumn},
		Colors: []string{"b"},
		Format: "svg",
		Dir:    dir,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "age_ma.svg")}, result.Files)

	f.sink.On("WriteSheet", mock.Anything, "compilation.xlsx", "Rate groups", mock.Anything).Return(nil)
	result, err = f.service.PlotRates(ctx, RatesRequest{
		Input:  "core.csv",
		Scale:  2,
		Dir:    dir,
		Output: Output{Workbook: "compilation.xlsx", Sheet: "Rate groups"},
	})
	require.NoError(t, err)
	require.Len(t, result.Groups, 2)
	assert.Equal(t, 2, result.Table.Len())

	for _, name := range []string{"downcore.png", "age_ma.svg", "sedrate-average.png"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}

func TestCoreService_MissingInput(t *testing.T) {
	f := newFixture()
	f.source.On("Fingerprint", mock.Anything, "nope.csv").Return(core.Hash(""), os.ErrNotExist)

	_, err := f.service.Append(context.Background(), "nope.csv", "", Output{CSV: "x.csv"})
	assert.Equal(t, errors.CodeIOError, errors.GetCode(err))
	f.source.AssertNotCalled(t, "ReadTable", mock.Anything, mock.Anything, mock.Anything)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "magnetite_ppm", fileName("Magnetite [ppm]"))
	assert.Equal(t, "sedrate-average", fileName("sedrate-average"))
	assert.Equal(t, "susceptibility_si", fileName(" Susceptibility [SI] "))
}
