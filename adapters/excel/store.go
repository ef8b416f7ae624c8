package excel

import (
	"context"
	"os"

	"paleocore/adapters/datareadiness/coercer"
	"paleocore/domain/core"
	"paleocore/domain/dataset"
	"paleocore/internal/depthconv"
)

// FileStore reads and writes tables on the local filesystem. It implements
// ports.TableSource, ports.SummarySource and ports.TableSink.
type FileStore struct {
	config ExcelConfig
}

// NewFileStore creates a store with the given coercion rules. The config's
// FilePath and Sheet are set per call.
func NewFileStore(config ExcelConfig) *FileStore {
	return &FileStore{config: config}
}

// ReadTable reads and coerces one sheet, or a CSV file
func (s *FileStore) ReadTable(ctx context.Context, path, sheet string) (*dataset.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	config := s.config
	config.FilePath = path
	config.Sheet = sheet
	data, err := NewDataReaderFromConfig(config).ReadData()
	if err != nil {
		return nil, err
	}
	return ToTable(data, coercer.NewTypeCoercer(config.CoercionConfig))
}

// Fingerprint hashes the raw file bytes
func (s *FileStore) Fingerprint(ctx context.Context, path string) (core.Hash, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return core.NewHash(raw), nil
}

// LoadSummaries loads the hole summary sheets of a workbook
func (s *FileStore) LoadSummaries(ctx context.Context, path string, sheets map[string]string) (map[string]*depthconv.SummaryTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadSummaries(path, sheets)
}

// WriteSheet appends t to the workbook as sheet
func (s *FileStore) WriteSheet(ctx context.Context, workbook, sheet string, t *dataset.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return NewWorkbookWriter(workbook).WriteSheet(sheet, t)
}

// WriteCSV writes t to a CSV file
func (s *FileStore) WriteCSV(ctx context.Context, path string, t *dataset.Table) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return WriteCSV(t, path)
}
