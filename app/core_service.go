package app

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"

	"paleocore/adapters/chart"
	"paleocore/adapters/stats/depth"
	"paleocore/domain/core"
	"paleocore/domain/dataset"
	"paleocore/domain/run"
	"paleocore/internal"
	"paleocore/internal/config"
	"paleocore/internal/depthconv"
	"paleocore/internal/errors"
	"paleocore/ports"
)

// Version is recorded in run manifests
const Version = "0.1.0"

// Output says where a result table goes. CSV wins when both are set.
type Output struct {
	CSV      string
	Workbook string
	Sheet    string
}

// Result is the outcome of one command
type Result struct {
	Manifest *run.RunManifest
	Table    *dataset.Table
	Groups   []depth.RateGroup
	Files    []string
}

// InterpolateRequest defines the inputs for depth interpolation
type InterpolateRequest struct {
	Input          string
	Sheet          string
	Columns        []string
	SedRates       bool
	FillFinalRates bool
	Output         Output
}

// SedRateRequest defines the inputs for the sedimentation rate calculation
type SedRateRequest struct {
	Input       string
	Sheet       string
	AgeColumn   string
	DepthColumn string
	Output      Output
}

// DepthRequest defines the inputs for label to depth conversion
type DepthRequest struct {
	Input           string
	Sheet           string
	LabelColumn     string
	SummaryWorkbook string
	SummarySheets   map[string]string
	Output          Output
}

// PlotRequest defines the inputs for down-core and comparison plots
type PlotRequest struct {
	Input      string
	Sheet      string
	Params     []string
	Colors     []string
	MarkerSize float64
	Units      string // comparison plots only
	Format     string // png or svg
	Dir        string
}

// RatesRequest defines the inputs for the rate-average plot
type RatesRequest struct {
	Input  string
	Sheet  string
	Scale  float64
	Format string
	Dir    string
	Output Output // optional sheet/CSV for the group statistics
}

// CoreService orchestrates load, transform and write for every command
type CoreService struct {
	source    ports.TableSource
	summaries ports.SummarySource
	sink      ports.TableSink
	plotter   *chart.Plotter
	logger    *internal.Logger
}

// NewCoreService creates the service
func NewCoreService(source ports.TableSource, summaries ports.SummarySource, sink ports.TableSink, plotter *chart.Plotter) *CoreService {
	return &CoreService{
		source:    source,
		summaries: summaries,
		sink:      sink,
		plotter:   plotter,
		logger:    internal.DefaultLogger,
	}
}

// Interpolate fills the requested columns against depth and writes the result
func (s *CoreService) Interpolate(ctx context.Context, req InterpolateRequest) (*Result, error) {
	if len(req.Columns) == 0 {
		return nil, errors.InvalidInput("no columns to interpolate")
	}
	manifest, t, err := s.load(ctx, "interpolate", req.Input, req.Sheet, map[string]string{
		"cols":             strings.Join(req.Columns, ","),
		"sed_rates":        strconv.FormatBool(req.SedRates),
		"fill_final_rates": strconv.FormatBool(req.FillFinalRates),
	})
	if err != nil {
		return nil, err
	}

	opts := depth.DefaultInterpolateOptions()
	opts.SedRates = req.SedRates
	opts.FillFinalRates = req.FillFinalRates
	out, err := depth.Interpolate(t, req.Columns, opts)
	if err != nil {
		return nil, errors.Wrap(err, "interpolation failed")
	}

	return s.finish(ctx, manifest, out, req.Output)
}

// SedRates adds the sedimentation rate column and writes the result
func (s *CoreService) SedRates(ctx context.Context, req SedRateRequest) (*Result, error) {
	if req.AgeColumn == "" {
		req.AgeColumn = core.AgeColumn
	}
	if req.DepthColumn == "" {
		req.DepthColumn = core.DepthColumn
	}
	manifest, t, err := s.load(ctx, "sedrates", req.Input, req.Sheet, map[string]string{
		"age":   req.AgeColumn,
		"depth": req.DepthColumn,
	})
	if err != nil {
		return nil, err
	}

	out, err := depth.AddSedimentationRates(t, req.AgeColumn, req.DepthColumn)
	if err != nil {
		return nil, errors.Wrap(err, "sedimentation rate calculation failed")
	}

	return s.finish(ctx, manifest, out, req.Output)
}

// ConvertDepths computes depths from sample labels. The table is written even
// when some labels fail; the returned error then lists every failed row.
func (s *CoreService) ConvertDepths(ctx context.Context, req DepthRequest) (*Result, error) {
	if req.SummaryWorkbook == "" {
		return nil, errors.ConfigInvalid("no summary workbook configured")
	}
	if req.LabelColumn == "" {
		req.LabelColumn = core.SampleColumn
	}
	manifest, t, err := s.load(ctx, "depth", req.Input, req.Sheet, map[string]string{
		"labels": req.LabelColumn,
		"sheets": config.FormatSheetMap(req.SummarySheets),
	})
	if err != nil {
		return nil, err
	}
	if !t.HasColumn(req.LabelColumn) {
		return nil, errors.NotFound("label column " + strconv.Quote(req.LabelColumn))
	}

	summaryHash, err := s.source.Fingerprint(ctx, req.SummaryWorkbook)
	if err != nil {
		return nil, errors.IOError(req.SummaryWorkbook, err)
	}
	manifest.Inputs = append(manifest.Inputs, run.InputRef{Path: req.SummaryWorkbook, Hash: summaryHash})
	manifest.Fingerprint = run.NewRunFingerprint(manifest.Command, manifest.Inputs, manifest.Params, manifest.CodeVersion)

	summaries, err := s.summaries.LoadSummaries(ctx, req.SummaryWorkbook, req.SummarySheets)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load summaries from %s", req.SummaryWorkbook)
	}

	converter := depthconv.NewConverter(summaries)
	s.logger.Debug("[CoreService] run %s: summaries for %d hole(s)", manifest.RunID, converter.Holes())
	out, convErr := converter.ConvertColumn(t, req.LabelColumn)
	if out == nil {
		return nil, errors.Wrap(convErr, "depth conversion failed")
	}

	result, err := s.finish(ctx, manifest, out, req.Output)
	if err != nil {
		return nil, err
	}
	if convErr != nil {
		return result, errors.Wrap(convErr, "some sample labels could not be converted")
	}
	return result, nil
}

// PlotDownCore renders one down-core figure into req.Dir
func (s *CoreService) PlotDownCore(ctx context.Context, req PlotRequest) (*Result, error) {
	manifest, t, err := s.load(ctx, "plot-downcore", req.Input, req.Sheet, plotParams(req))
	if err != nil {
		return nil, err
	}
	fig, err := s.plotter.DownCore(req.Params, t, chart.ParseStyles(req.Colors, req.MarkerSize))
	if err != nil {
		return nil, errors.Wrap(err, "down-core plot failed")
	}
	return s.saveFigures(manifest, []*chart.Figure{fig}, req.Dir, req.Format)
}

// PlotComparison renders one figure per parameter into req.Dir
func (s *CoreService) PlotComparison(ctx context.Context, req PlotRequest) (*Result, error) {
	manifest, t, err := s.load(ctx, "plot-compare", req.Input, req.Sheet, plotParams(req))
	if err != nil {
		return nil, err
	}
	figs, err := s.plotter.Comparison(req.Params, t, chart.ParseStyles(req.Colors, req.MarkerSize), req.Units)
	if err != nil {
		return nil, errors.Wrap(err, "comparison plot failed")
	}
	return s.saveFigures(manifest, figs, req.Dir, req.Format)
}

// PlotRates renders the rate-average plot and optionally writes the group statistics
func (s *CoreService) PlotRates(ctx context.Context, req RatesRequest) (*Result, error) {
	manifest, t, err := s.load(ctx, "plot-rates", req.Input, req.Sheet, map[string]string{
		"scale": strconv.FormatFloat(req.Scale, 'g', -1, 64),
	})
	if err != nil {
		return nil, err
	}
	fig, groups, err := s.plotter.RateAverage(t, req.Scale)
	if err != nil {
		return nil, errors.Wrap(err, "rate-average plot failed")
	}

	result, err := s.saveFigures(manifest, []*chart.Figure{fig}, req.Dir, req.Format)
	if err != nil {
		return nil, err
	}
	result.Groups = groups
	if req.Output.CSV != "" || req.Output.Sheet != "" {
		table, err := depth.GroupsTable(groups, core.MagnetiteColumn)
		if err != nil {
			return nil, errors.Wrap(err, "rate groups table failed")
		}
		if err := s.write(ctx, manifest, table, req.Output); err != nil {
			return nil, err
		}
		result.Table = table
	}
	return result, nil
}

// Append copies a table into a workbook sheet unchanged
func (s *CoreService) Append(ctx context.Context, input, sheet string, out Output) (*Result, error) {
	manifest, t, err := s.load(ctx, "append", input, sheet, nil)
	if err != nil {
		return nil, err
	}
	return s.finish(ctx, manifest, t, out)
}

func (s *CoreService) load(ctx context.Context, command, input, sheet string, params map[string]string) (*run.RunManifest, *dataset.Table, error) {
	hash, err := s.source.Fingerprint(ctx, input)
	if err != nil {
		return nil, nil, errors.IOError(input, err)
	}
	if params == nil {
		params = make(map[string]string)
	}
	if sheet != "" {
		params["sheet"] = sheet
	}
	manifest := run.NewRunManifest(command, []run.InputRef{{Path: input, Hash: hash}}, params, Version)
	s.logger.Info("[CoreService] run %s: %s %s (%s)", manifest.RunID, command, input, hash.Short())

	t, err := s.source.ReadTable(ctx, input, sheet)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to read %s", input)
	}
	s.logger.Debug("[CoreService] run %s: %d rows, columns %v", manifest.RunID, t.Len(), t.Names())
	return manifest, t, nil
}

func (s *CoreService) finish(ctx context.Context, manifest *run.RunManifest, t *dataset.Table, out Output) (*Result, error) {
	if err := s.write(ctx, manifest, t, out); err != nil {
		return nil, err
	}
	return &Result{Manifest: manifest, Table: t}, nil
}

func (s *CoreService) write(ctx context.Context, manifest *run.RunManifest, t *dataset.Table, out Output) error {
	switch {
	case out.CSV != "":
		if err := s.sink.WriteCSV(ctx, out.CSV, t); err != nil {
			return errors.IOError(out.CSV, err)
		}
		manifest.AddOutput(out.CSV)
	case out.Sheet != "" && out.Workbook != "":
		if err := s.sink.WriteSheet(ctx, out.Workbook, out.Sheet, t); err != nil {
			return errors.IOError(out.Workbook, err)
		}
		manifest.AddOutput(out.Workbook + "!" + out.Sheet)
	default:
		return errors.InvalidInput("no output: give a CSV path or a workbook sheet")
	}
	s.logger.Info("[CoreService] run %s: wrote %s", manifest.RunID, strings.Join(manifest.Outputs, ", "))
	return nil
}

func (s *CoreService) saveFigures(manifest *run.RunManifest, figs []*chart.Figure, dir, format string) (*Result, error) {
	if format == "" {
		format = "png"
	}
	result := &Result{Manifest: manifest}
	for _, fig := range figs {
		path := filepath.Join(dir, fileName(fig.Name)+"."+format)
		if err := fig.Save(path); err != nil {
			return nil, errors.Wrapf(err, "failed to save %s", path)
		}
		manifest.AddOutput(path)
		result.Files = append(result.Files, path)
	}
	s.logger.Info("[CoreService] run %s: saved %d figure(s) to %s", manifest.RunID, len(figs), dir)
	return result, nil
}

func plotParams(req PlotRequest) map[string]string {
	return map[string]string{
		"params": strings.Join(req.Params, ","),
		"colors": strings.Join(req.Colors, ","),
		"marker": strconv.FormatFloat(req.MarkerSize, 'g', -1, 64),
		"units":  req.Units,
	}
}

// fileName turns a column name such as "Magnetite [ppm]" into "magnetite_ppm"
func fileName(name string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.ToLower(name) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-':
			b.WriteRune(r)
			underscore = false
		case !underscore && b.Len() > 0:
			b.WriteRune('_')
			underscore = true
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
