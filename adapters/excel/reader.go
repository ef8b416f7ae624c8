package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"paleocore/adapters/datareadiness/coercer"
	"paleocore/domain/core"
	"paleocore/domain/dataset"
	"paleocore/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: internal.DefaultLogger}
}

// NewDataReaderFromConfig creates a reader for the configured file and sheet
func NewDataReaderFromConfig(config ExcelConfig) *DataReader {
	return NewDataReader(config.FilePath).WithSheet(config.Sheet)
}

// WithSheet selects the worksheet to read. Ignored for CSV files.
func (r *DataReader) WithSheet(sheet string) *DataReader {
	r.sheet = sheet
	return r
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	r.logger.Debug("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	// Check if file exists
	if _, err := os.Stat(r.filePath); err != nil {
		return nil, fmt.Errorf("%s file %s: %w", strings.ToUpper(r.fileType), r.filePath, err)
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, fmt.Errorf("%w: file type %s", core.ErrUnsupportedFormat, r.fileType)
	}
}

// ReadTable reads the file and coerces it into a table with the default coercion rules
func (r *DataReader) ReadTable() (*dataset.Table, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return ToTable(data, coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()))
}

// readExcelData reads the selected sheet, or the first one, into structured format
func (r *DataReader) readExcelData() (*ExcelData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	r.logger.Trace("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheet := r.sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("%w: workbook %s has no sheets", core.ErrInsufficientData, r.filePath)
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q in %s: %w", sheet, r.filePath, core.ErrSheetNotFound)
	}

	readStart := time.Now()
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("[DataReader] Sheet %q read in %.2fms (%d rows)", sheet, float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet %q must have a header row and at least one data row", core.ErrInsufficientData, sheet)
	}

	data, err := r.processRows(rows)
	if err != nil {
		return nil, err
	}
	data.Sheet = sheet
	return data, nil
}

// readCSVData reads CSV data into structured format
func (r *DataReader) readCSVData() (*ExcelData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: CSV file must have a header row and at least one data row", core.ErrInsufficientData)
	}

	return r.processRows(rows)
}

// processRows converts raw string rows into ExcelData format. Short rows are
// padded with empty cells; excelize drops trailing blanks.
func (r *DataReader) processRows(rows [][]string) (*ExcelData, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	seen := make(map[string]bool, len(headerRow))
	for i, header := range headerRow {
		name := strings.TrimSpace(header)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: header %q", core.ErrDuplicateColumn, name)
		}
		seen[name] = true
		headers[i] = name
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(RawRowData, len(headers))
		for j, header := range headers {
			if j < len(row) {
				rowData[header] = strings.TrimSpace(row[j])
			} else {
				rowData[header] = ""
			}
		}
		dataRows = append(dataRows, rowData)
	}

	r.logger.Debug("[DataReader] %s file processed (%d columns, %d rows)",
		strings.ToUpper(r.fileType), len(headers), len(dataRows))

	return &ExcelData{
		Headers: headers,
		Rows:    dataRows,
	}, nil
}

// ToTable coerces raw cells into a table: columns the coercer recommends as
// numeric become float columns with NaN for missing cells, the rest stay text.
func ToTable(data *ExcelData, c *coercer.TypeCoercer) (*dataset.Table, error) {
	t := dataset.NewTable()
	for _, header := range data.Headers {
		cells := data.Column(header)
		analysis := c.AnalyzeColumn(cells)

		var err error
		if analysis.RecommendedKind == dataset.KindNumeric {
			err = t.AddNumeric(header, c.CoerceColumn(cells))
		} else {
			err = t.AddText(header, cells)
		}
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", header, err)
		}
	}
	return t, nil
}
