package main

import (
	"fmt"
	"os"
	"strings"

	"paleocore/adapters/chart"
	"paleocore/adapters/excel"
	"paleocore/app"
	"paleocore/domain/core"
	"paleocore/internal"
	"paleocore/internal/config"
	"paleocore/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// env holds what every subcommand needs after flags are parsed
type env struct {
	cfg     *config.Config
	service *app.CoreService
}

func main() {
	var envFile, logLevel, sheet string
	e := &env{}

	rootCmd := &cobra.Command{
		Use:           "paleocore",
		Short:         "Core-sample processing: interpolation, sedimentation rates, sample depths and plots",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && (cmd.Flags().Changed("env-file") || !os.IsNotExist(err)) {
				return errors.Wrapf(err, "failed to load %s", envFile)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = strings.ToUpper(logLevel)
			}
			if sheet != "" {
				cfg.Input.Sheet = sheet
			}
			if err := config.Validate(cfg); err != nil {
				return err
			}
			internal.DefaultLogger.SetLevel(cfg.LogLevel())

			store := excel.NewFileStore(excel.DefaultExcelConfig())
			plotter := chart.NewPlotter(chart.Options{Width: cfg.Plot.Width, Height: cfg.Plot.Height})
			e.cfg = cfg
			e.service = app.NewCoreService(store, store, store, plotter)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file with PALEO_* settings")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE (default from LOG_LEVEL)")
	rootCmd.PersistentFlags().StringVar(&sheet, "input-sheet", "", "Sheet to read from xlsx inputs (default PALEO_INPUT_SHEET or the first sheet)")

	rootCmd.AddCommand(
		newInterpolateCmd(e),
		newSedRatesCmd(e),
		newDepthCmd(e),
		newPlotCmd(e),
		newAppendCmd(e),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

// outputFlags binds --out, --sheet and --workbook
type outputFlags struct {
	csv      string
	sheet    string
	workbook string
}

func (o *outputFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.csv, "out", "", "Write the result to this CSV file")
	cmd.Flags().StringVar(&o.sheet, "sheet", "", "Write the result to this workbook sheet (replaced if present)")
	cmd.Flags().StringVar(&o.workbook, "workbook", "", "Workbook for --sheet (default PALEO_OUTPUT_WORKBOOK)")
}

func (o *outputFlags) output(cfg *config.Config) app.Output {
	workbook := o.workbook
	if workbook == "" {
		workbook = cfg.Output.Workbook
	}
	return app.Output{CSV: o.csv, Sheet: o.sheet, Workbook: workbook}
}

func newInterpolateCmd(e *env) *cobra.Command {
	var cols []string
	var noSedRates, noFillFinal bool
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "interpolate [input]",
		Short: "Interpolate missing values against depth",
		Long: `Sort the table by depth and fill missing values of the given columns by linear
interpolation against depth, holding the end values above the first and below the
last observation. The sedimentation rate column is backward-filled and, unless
--no-fill-final is given, extended below the last known rate.

Example: paleocore interpolate core.xlsx --cols "Magnetite [ppm],Susceptibility [SI]" --sheet Interpolated`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := e.service.Interpolate(cmd.Context(), app.InterpolateRequest{
				Input:          args[0],
				Sheet:          e.cfg.Input.Sheet,
				Columns:        cols,
				SedRates:       !noSedRates,
				FillFinalRates: !noFillFinal,
				Output:         out.output(e.cfg),
			})
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&cols, "cols", nil, "Columns to interpolate (comma separated)")
	cmd.Flags().BoolVar(&noSedRates, "no-sed-rates", false, "Do not fill the sedimentation rate column")
	cmd.Flags().BoolVar(&noFillFinal, "no-fill-final", false, "Leave rows below the last known rate empty")
	out.bind(cmd)
	_ = cmd.MarkFlagRequired("cols")
	return cmd
}

func newSedRatesCmd(e *env) *cobra.Command {
	var ageCol, depthCol string
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "sedrates [input]",
		Short: "Compute sedimentation rates from age/depth pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := e.service.SedRates(cmd.Context(), app.SedRateRequest{
				Input:       args[0],
				Sheet:       e.cfg.Input.Sheet,
				AgeColumn:   ageCol,
				DepthColumn: depthCol,
				Output:      out.output(e.cfg),
			})
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&ageCol, "age", core.AgeColumn, "Age column")
	cmd.Flags().StringVar(&depthCol, "depth", core.DepthColumn, "Depth column")
	out.bind(cmd)
	return cmd
}

func newDepthCmd(e *env) *cobra.Command {
	var labelCol, summaryWorkbook, sheets string
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "depth [input]",
		Short: "Convert sample labels to depths (mbsf)",
		Long: `Convert labels such as "113-695A-3H-2, 45-47" into depths below the sea floor:
section top depth from the hole's summary sheet plus the interval midpoint.
Core-catcher samples (CC) use the last section listed for the core.

Rows whose label cannot be converted are written with an empty depth and
reported; the command then exits non-zero.

Example: paleocore depth samples.csv --summary-workbook summary.xlsx --sheets "A=Hole A,B=Hole B" --out depths.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if summaryWorkbook == "" {
				summaryWorkbook = e.cfg.Summary.Workbook
			}
			sheetMap := e.cfg.Summary.Sheets
			if sheets != "" {
				parsed, err := config.ParseSheetMap(sheets)
				if err != nil {
					return err
				}
				sheetMap = parsed
			}

			result, err := e.service.ConvertDepths(cmd.Context(), app.DepthRequest{
				Input:           args[0],
				Sheet:           e.cfg.Input.Sheet,
				LabelColumn:     labelCol,
				SummaryWorkbook: summaryWorkbook,
				SummarySheets:   sheetMap,
				Output:          out.output(e.cfg),
			})
			if result != nil {
				printResult(result)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&labelCol, "labels", core.SampleColumn, "Column holding the sample labels")
	cmd.Flags().StringVar(&summaryWorkbook, "summary-workbook", "", "Workbook with one summary sheet per hole (default PALEO_SUMMARY_WORKBOOK)")
	cmd.Flags().StringVar(&sheets, "sheets", "", "Hole to sheet mapping, e.g. \"A=Hole A,B=Hole B\" (default PALEO_SUMMARY_SHEETS)")
	out.bind(cmd)
	return cmd
}

func newPlotCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw down-core, comparison and rate-average plots",
	}
	cmd.AddCommand(newPlotDownCoreCmd(e), newPlotCompareCmd(e), newPlotRatesCmd(e))
	return cmd
}

// plotFlags binds the flags shared by downcore and compare
type plotFlags struct {
	params     []string
	colors     []string
	markerSize float64
	format     string
	dir        string
}

func (p *plotFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&p.params, "params", nil, "Parameters to plot (comma separated)")
	cmd.Flags().StringSliceVar(&p.colors, "colors", nil, "One color per parameter: b g r c m y k w or hex")
	cmd.Flags().Float64Var(&p.markerSize, "marker-size", 0, "Marker radius in pixels (default PALEO_MARKER_SIZE)")
	cmd.Flags().StringVar(&p.format, "format", "png", "png or svg (svg only for single-panel figures)")
	cmd.Flags().StringVar(&p.dir, "dir", "", "Output directory (default PALEO_PLOT_DIR)")
	_ = cmd.MarkFlagRequired("params")
	_ = cmd.MarkFlagRequired("colors")
}

func (p *plotFlags) request(cfg *config.Config, input, sheet string) app.PlotRequest {
	req := app.PlotRequest{
		Input:      input,
		Sheet:      sheet,
		Params:     p.params,
		Colors:     p.colors,
		MarkerSize: p.markerSize,
		Format:     p.format,
		Dir:        p.dir,
	}
	if req.MarkerSize <= 0 {
		req.MarkerSize = cfg.Plot.MarkerSize
	}
	if req.Dir == "" {
		req.Dir = cfg.Plot.Dir
	}
	return req
}

func newPlotDownCoreCmd(e *env) *cobra.Command {
	var flags plotFlags
	cmd := &cobra.Command{
		Use:   "downcore [input]",
		Short: "One panel per parameter against an inverted, shared depth axis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := e.service.PlotDownCore(cmd.Context(), flags.request(e.cfg, args[0], e.cfg.Input.Sheet))
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	flags.bind(cmd)
	return cmd
}

func newPlotCompareCmd(e *env) *cobra.Command {
	var flags plotFlags
	var units string
	cmd := &cobra.Command{
		Use:   "compare [input]",
		Short: "One figure per parameter against the units column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := flags.request(e.cfg, args[0], e.cfg.Input.Sheet)
			req.Units = units
			result, err := e.service.PlotComparison(cmd.Context(), req)
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	flags.bind(cmd)
	cmd.Flags().StringVar(&units, "units", core.MagnetiteColumn, "Column on the x axis")
	return cmd
}

func newPlotRatesCmd(e *env) *cobra.Command {
	var scale float64
	var format, dir string
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "rates [input]",
		Short: "Mean magnetite per sedimentation rate, marker area by sample count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = e.cfg.Plot.Dir
			}
			result, err := e.service.PlotRates(cmd.Context(), app.RatesRequest{
				Input:  args[0],
				Sheet:  e.cfg.Input.Sheet,
				Scale:  scale,
				Format: format,
				Dir:    dir,
				Output: out.output(e.cfg),
			})
			if err != nil {
				return err
			}
			for _, g := range result.Groups {
				fmt.Printf("  rate %8.3f  mean %10.3f  std %10.3f  n=%d\n", g.Rate, g.Mean, g.StdDev, g.Count)
			}
			printResult(result)
			return nil
		},
	}
	cmd.Flags().Float64Var(&scale, "scale", 1, "Marker area per sample")
	cmd.Flags().StringVar(&format, "format", "png", "png or svg")
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (default PALEO_PLOT_DIR)")
	out.bind(cmd)
	return cmd
}

func newAppendCmd(e *env) *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "append [input]",
		Short: "Copy a table into a workbook sheet, replacing a sheet of the same name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out.sheet == "" {
				return errors.InvalidInput("--sheet is required")
			}
			result, err := e.service.Append(cmd.Context(), args[0], e.cfg.Input.Sheet, out.output(e.cfg))
			if err != nil {
				return err
			}
			printResult(result)
			return nil
		},
	}
	out.bind(cmd)
	return cmd
}

func printResult(result *app.Result) {
	m := result.Manifest
	fmt.Printf("run %s  %s  fingerprint %s\n", m.RunID, m.Command, m.Fingerprint.Short())
	if result.Table != nil {
		fmt.Printf("  %d rows x %d columns\n", result.Table.Len(), len(result.Table.Names()))
	}
	for _, output := range m.Outputs {
		fmt.Printf("  -> %s\n", output)
	}
}
