package ports

import (
	"context"

	"paleocore/domain/core"
	"paleocore/domain/dataset"
	"paleocore/internal/depthconv"
)

// TableSource loads sample tables from spreadsheet or CSV files
type TableSource interface {
	// ReadTable reads sheet (first sheet when empty) of the file at path
	ReadTable(ctx context.Context, path, sheet string) (*dataset.Table, error)
	// Fingerprint hashes the file content for run provenance
	Fingerprint(ctx context.Context, path string) (core.Hash, error)
}

// SummarySource loads core/section summary tables, one per hole letter
type SummarySource interface {
	LoadSummaries(ctx context.Context, path string, sheets map[string]string) (map[string]*depthconv.SummaryTable, error)
}

// TableSink writes result tables
type TableSink interface {
	// WriteSheet replaces or adds sheet in the workbook, keeping its other sheets
	WriteSheet(ctx context.Context, workbook, sheet string, t *dataset.Table) error
	WriteCSV(ctx context.Context, path string, t *dataset.Table) error
}
