package app

import (
	"context"

	"paleocore/domain/core"
	"paleocore/domain/dataset"
	"paleocore/internal/depthconv"

	"github.com/stretchr/testify/mock"
)

type MockTableSource struct {
	mock.Mock
}

func (m *MockTableSource) ReadTable(ctx context.Context, path, sheet string) (*dataset.Table, error) {
	args := m.Called(ctx, path, sheet)
	t, _ := args.Get(0).(*dataset.Table)
	return t, args.Error(1)
}

func (m *MockTableSource) Fingerprint(ctx context.Context, path string) (core.Hash, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(core.Hash), args.Error(1)
}

type MockSummarySource struct {
	mock.Mock
}

func (m *MockSummarySource) LoadSummaries(ctx context.Context, path string, sheets map[string]string) (map[string]*depthconv.SummaryTable, error) {
	args := m.Called(ctx, path, sheets)
	s, _ := args.Get(0).(map[string]*depthconv.SummaryTable)
	return s, args.Error(1)
}

type MockTableSink struct {
	mock.Mock
}

func (m *MockTableSink) WriteSheet(ctx context.Context, workbook, sheet string, t *dataset.Table) error {
	return m.Called(ctx, workbook, sheet, t).Error(0)
}

func (m *MockTableSink) WriteCSV(ctx context.Context, path string, t *dataset.Table) error {
	return m.Called(ctx, path, t).Error(0)
}
