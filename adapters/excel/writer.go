package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"

	"paleocore/adapters/stats/depth"
	"paleocore/domain/dataset"
	"paleocore/internal"

	"github.com/xuri/excelize/v2"
)

const placeholderSheet = "paleocore-placeholder"

// WorkbookWriter appends tables to a workbook, one sheet per table
type WorkbookWriter struct {
	path   string
	logger *internal.Logger
}

// NewWorkbookWriter creates a writer for the workbook at path
func NewWorkbookWriter(path string) *WorkbookWriter {
	return &WorkbookWriter{path: path, logger: internal.DefaultLogger}
}

// AppendSheet writes t to the named sheet of the workbook at path
func AppendSheet(t *dataset.Table, sheet, path string) error {
	return NewWorkbookWriter(path).WriteSheet(sheet, t)
}

// AppendGroups writes rate-group statistics for valueCol to the named sheet
func AppendGroups(groups []depth.RateGroup, valueCol, sheet, path string) error {
	t, err := depth.GroupsTable(groups, valueCol)
	if err != nil {
		return err
	}
	return AppendSheet(t, sheet, path)
}

// WriteSheet writes the header and the rows of t to sheet. A sheet with the same
// name is replaced, other sheets are kept, and the workbook is created when it
// does not exist yet. NaN cells are left blank.
func (w *WorkbookWriter) WriteSheet(sheet string, t *dataset.Table) error {
	f, created, err := w.open()
	if err != nil {
		return err
	}
	defer f.Close()

	if err := w.resetSheet(f, sheet, created); err != nil {
		return fmt.Errorf("prepare sheet %q: %w", sheet, err)
	}

	header := make([]interface{}, 0, len(t.Names()))
	for _, name := range t.Names() {
		header = append(header, name)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	cols := t.Columns()
	for i := 0; i < t.Len(); i++ {
		row := make([]interface{}, len(cols))
		for j, c := range cols {
			row[j] = cellValue(c, i)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if idx, _ := f.GetSheetIndex(placeholderSheet); idx >= 0 {
		if err := f.DeleteSheet(placeholderSheet); err != nil {
			return err
		}
	}
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("save workbook %s: %w", w.path, err)
	}
	w.logger.Info("[WorkbookWriter] wrote %d rows x %d columns to %s!%s", t.Len(), len(cols), w.path, sheet)
	return nil
}

func (w *WorkbookWriter) open() (*excelize.File, bool, error) {
	if _, err := os.Stat(w.path); os.IsNotExist(err) {
		w.logger.Debug("[WorkbookWriter] creating %s", w.path)
		return excelize.NewFile(), true, nil
	}
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, false, fmt.Errorf("open workbook %s: %w", w.path, err)
	}
	return f, false, nil
}

// resetSheet leaves an empty sheet with the given name in the workbook. A
// replaced sheet keeps its position among the other sheets.
func (w *WorkbookWriter) resetSheet(f *excelize.File, sheet string, created bool) error {
	if created {
		// A new file carries a default sheet; rename it rather than leave it empty.
		return f.SetSheetName(f.GetSheetName(0), sheet)
	}

	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx < 0 {
		_, err = f.NewSheet(sheet)
		return err
	}

	sheets := f.GetSheetList()
	next := ""
	if idx+1 < len(sheets) {
		next = sheets[idx+1]
	}
	if len(sheets) == 1 {
		// The last sheet of a workbook cannot be deleted.
		if _, err := f.NewSheet(placeholderSheet); err != nil {
			return err
		}
	}
	w.logger.Debug("[WorkbookWriter] replacing sheet %q", sheet)
	if err := f.DeleteSheet(sheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if next == "" {
		return nil
	}
	return f.MoveSheet(sheet, next)
}

func cellValue(c *dataset.Column, i int) interface{} {
	if c.Kind == dataset.KindText {
		return c.Text[i]
	}
	v := c.Values[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// WriteCSV writes t as CSV with a header row. NaN cells are left empty.
func WriteCSV(t *dataset.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(t.Names()); err != nil {
		return err
	}
	cols := t.Columns()
	record := make([]string, len(cols))
	for i := 0; i < t.Len(); i++ {
		for j, c := range cols {
			switch v := cellValue(c, i).(type) {
			case string:
				record[j] = v
			case float64:
				record[j] = strconv.FormatFloat(v, 'g', -1, 64)
			default:
				record[j] = ""
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
