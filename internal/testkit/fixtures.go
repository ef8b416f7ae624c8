package testkit

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	"paleocore/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// SummaryHeaders are the header cells of a hole summary sheet as exported by the
// core description software, stray spaces included.
var SummaryHeaders = []interface{}{"Core No ", " Sect", " Section Top Depth (mbsf) "}

// WriteSummaryWorkbook writes one sheet per hole, named by sheetName(hole).
func WriteSummaryWorkbook(path string, holes []HoleSummary, sheetName func(hole string) string) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, hole := range holes {
		name := sheetName(hole.Hole)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		if err := f.SetSheetRow(name, "A1", &SummaryHeaders); err != nil {
			return err
		}
		for r, row := range hole.Rows {
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			values := []interface{}{row.Core, row.Section, row.Top}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

// WriteTableCSV writes a table as CSV with NaN cells left empty.
func WriteTableCSV(path string, t *dataset.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(t.Names()); err != nil {
		return err
	}
	cols := t.Columns()
	for i := 0; i < t.Len(); i++ {
		record := make([]string, len(cols))
		for j, c := range cols {
			if c.Kind == dataset.KindText {
				record[j] = c.Text[i]
			} else if !math.IsNaN(c.Values[i]) {
				record[j] = strconv.FormatFloat(c.Values[i], 'g', -1, 64)
			}
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
