package excel

import (
	"paleocore/adapters/datareadiness/coercer"
)

// ExcelConfig holds configuration for Excel data source
type ExcelConfig struct {
	FilePath       string                 `json:"file_path"`
	Sheet          string                 `json:"sheet"` // first sheet when empty
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns sensible defaults for Excel processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
