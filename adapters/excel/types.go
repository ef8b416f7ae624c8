package excel

// RawRowData represents a row of raw Excel data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents the complete Excel dataset
type ExcelData struct {
	Sheet   string       // sheet the rows came from, "" for CSV
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

// Column returns the raw cells of one column in row order
func (d *ExcelData) Column(header string) []string {
	cells := make([]string, len(d.Rows))
	for i, row := range d.Rows {
		cells[i] = row[header]
	}
	return cells
}
