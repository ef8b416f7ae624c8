package coercer

import (
	"math"
	"strconv"
	"strings"

	"paleocore/domain/dataset"
)

// TypeCoercer turns raw spreadsheet cell text into measurement values
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold float64  `json:"numeric_threshold"` // share of non-missing cells that must parse as numbers
	MissingMarkers   []string `json:"missing_markers"`   // cell text treated as a missing value
}

// DefaultCoercionConfig returns sensible defaults
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold: 0.8,
		MissingMarkers:   []string{"nan", "na", "n/a", "-", "--", "null", "#n/a"},
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// IsMissing reports whether a cell holds no value
func (c *TypeCoercer) IsMissing(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return true
	}
	lower := strings.ToLower(v)
	for _, marker := range c.config.MissingMarkers {
		if lower == marker {
			return true
		}
	}
	return false
}

// CoerceValue converts a cell to a float64. Missing and unparseable cells become NaN.
func (c *TypeCoercer) CoerceValue(raw string) float64 {
	if c.IsMissing(raw) {
		return math.NaN()
	}
	if v, ok := c.tryParseNumeric(raw); ok {
		return v
	}
	return math.NaN()
}

// CoerceColumn converts every cell of a column with CoerceValue
func (c *TypeCoercer) CoerceColumn(raw []string) []float64 {
	values := make([]float64, len(raw))
	for i, cell := range raw {
		values[i] = c.CoerceValue(cell)
	}
	return values
}

// AnalyzeColumn decides whether a column holds measurements or text
func (c *TypeCoercer) AnalyzeColumn(raw []string) TypeAnalysis {
	analysis := TypeAnalysis{TotalCount: len(raw)}

	for _, cell := range raw {
		if c.IsMissing(cell) {
			continue
		}
		analysis.ValidCount++
		if _, ok := c.tryParseNumeric(cell); ok {
			analysis.NumericCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
	}

	// An all-empty column is numeric so that interpolation can fill it.
	if analysis.ValidCount == 0 || analysis.NumericRatio >= c.config.NumericThreshold {
		analysis.RecommendedKind = dataset.KindNumeric
	} else {
		analysis.RecommendedKind = dataset.KindText
	}
	return analysis
}

// tryParseNumeric attempts to parse as numeric with strict rules.
// Handles parentheses for negatives, thousands separators and decimal commas.
func (c *TypeCoercer) tryParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	if hasComma && (hasPeriod || hasSpace) {
		// European format: period or space as thousands separator, comma as decimal
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 3 && isDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		}
	} else if hasComma {
		if isThousandsGrouped(cleanVal) {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.Replace(cleanVal, ",", ".", 1)
		}
	} else {
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// isThousandsGrouped reports whether every comma in s is followed by exactly
// three digits, as in "1,234" or "12,345,678".
func isThousandsGrouped(s string) bool {
	groups := strings.Split(s, ",")
	if len(groups[0]) == 0 || len(groups[0]) > 3 || groups[0][0] == '0' || !isDigits(groups[0]) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !isDigits(g) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// TypeAnalysis contains the results of column type analysis
type TypeAnalysis struct {
	TotalCount      int                `json:"total_count"`
	ValidCount      int                `json:"valid_count"`
	NumericCount    int                `json:"numeric_count"`
	NumericRatio    float64            `json:"numeric_ratio"`
	RecommendedKind dataset.ColumnKind `json:"recommended_kind"`
}
