package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"paleocore/internal"
	"paleocore/internal/errors"

	"github.com/go-playground/validator/v10"
)

// Config represents the complete application configuration
type Config struct {
	Summary SummaryConfig
	Output  OutputConfig
	Plot    PlotConfig
	Input   InputConfig
	Log     LogConfig
}

// SummaryConfig locates the per-hole core/section summary sheets
type SummaryConfig struct {
	Workbook string
	Sheets   map[string]string `validate:"required,min=1,dive,keys,len=1,alpha,endkeys,required"`
}

// OutputConfig holds the workbook results are appended to
type OutputConfig struct {
	Workbook string `validate:"required,endswith=.xlsx"`
}

// PlotConfig holds plot geometry and the output directory
type PlotConfig struct {
	Dir        string  `validate:"required"`
	Width      int     `validate:"gte=50,lte=10000"`
	Height     int     `validate:"gte=50,lte=10000"`
	MarkerSize float64 `validate:"gt=0"`
}

// InputConfig holds settings for reading input tables
type InputConfig struct {
	Sheet string
}

// LogConfig holds the logger level
type LogConfig struct {
	Level string `validate:"required,loglevel"`
}

// DefaultSheets is the hole -> summary sheet mapping used when none is configured
const DefaultSheets = "A=Hole A,B=Hole B,C=Hole C"

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	sheets, err := ParseSheetMap(getEnvOrDefault("PALEO_SUMMARY_SHEETS", DefaultSheets))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load summary configuration")
	}

	config := &Config{
		Summary: SummaryConfig{
			Workbook: getEnvOrDefault("PALEO_SUMMARY_WORKBOOK", ""),
			Sheets:   sheets,
		},
		Output: OutputConfig{
			Workbook: getEnvOrDefault("PALEO_OUTPUT_WORKBOOK", "compilation.xlsx"),
		},
		Plot: PlotConfig{
			Dir:        getEnvOrDefault("PALEO_PLOT_DIR", "plots"),
			Width:      getEnvIntOrDefault("PALEO_PLOT_WIDTH", 320),
			Height:     getEnvIntOrDefault("PALEO_PLOT_HEIGHT", 640),
			MarkerSize: getEnvFloatOrDefault("PALEO_MARKER_SIZE", 2),
		},
		Input: InputConfig{
			Sheet: getEnvOrDefault("PALEO_INPUT_SHEET", ""),
		},
		Log: LogConfig{
			Level: strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
		},
	}

	if err := Validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// Validate checks struct tags. Flag overrides call it again after applying.
func Validate(config *Config) error {
	v := validator.New()
	if err := v.RegisterValidation("loglevel", isLogLevel); err != nil {
		return errors.InternalError(err.Error())
	}

	if err := v.Struct(config); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return errors.ConfigInvalid(err.Error())
		}
		msgs := make([]string, 0, len(validationErrors))
		for _, fe := range validationErrors {
			msgs = append(msgs, formatFieldError(fe))
		}
		return errors.ConfigInvalid(strings.Join(msgs, "; "))
	}
	return nil
}

// LogLevel returns the configured logger level
func (c *Config) LogLevel() internal.LogLevel {
	level, _ := internal.ParseLogLevel(c.Log.Level)
	return level
}

// ParseSheetMap parses "A=Hole A,B=Hole B" into hole letter -> sheet name.
func ParseSheetMap(s string) (map[string]string, error) {
	sheets := make(map[string]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		hole, sheet, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, errors.ConfigInvalid(fmt.Sprintf("sheet mapping %q must be HOLE=SHEET", pair))
		}
		hole = strings.ToUpper(strings.TrimSpace(hole))
		if _, dup := sheets[hole]; dup {
			return nil, errors.ConfigInvalid(fmt.Sprintf("hole %s mapped twice", hole))
		}
		sheets[hole] = strings.TrimSpace(sheet)
	}
	return sheets, nil
}

// FormatSheetMap is the inverse of ParseSheetMap, with holes in order
func FormatSheetMap(sheets map[string]string) string {
	holes := make([]string, 0, len(sheets))
	for hole := range sheets {
		holes = append(holes, hole)
	}
	sort.Strings(holes)
	pairs := make([]string, len(holes))
	for i, hole := range holes {
		pairs[i] = hole + "=" + sheets[hole]
	}
	return strings.Join(pairs, ",")
}

func isLogLevel(fl validator.FieldLevel) bool {
	_, ok := internal.ParseLogLevel(fl.Field().String())
	return ok
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "loglevel":
		return fmt.Sprintf("%s must be one of ERROR, WARN, INFO, DEBUG, TRACE", fe.Namespace())
	case "endswith":
		return fmt.Sprintf("%s must end with %s", fe.Namespace(), fe.Param())
	case "len", "alpha":
		return fmt.Sprintf("%s: hole %q must be a single letter", fe.Namespace(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s=%s (got %v)", fe.Namespace(), fe.Tag(), fe.Param(), fe.Value())
	}
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
