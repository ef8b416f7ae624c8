package excel

import (
	"fmt"
	"sort"
	"strings"

	"paleocore/adapters/datareadiness/coercer"
	"paleocore/domain/core"
	"paleocore/internal"
	"paleocore/internal/depthconv"
)

// Summary sheet headers, compared after trimming and case-folding.
const (
	SummaryCoreHeader    = "Core No"
	SummarySectionHeader = "Sect"
	SummaryTopHeader     = "Section Top Depth (mbsf)"
)

// LoadSummary reads one hole summary sheet. The returned table has no hole
// letter; LoadSummaries assigns it.
func LoadSummary(path, sheet string) (*depthconv.SummaryTable, error) {
	return loadSummary(path, sheet, "")
}

// LoadSummaries loads one summary table per hole letter from sheets of the same workbook.
func LoadSummaries(path string, sheets map[string]string) (map[string]*depthconv.SummaryTable, error) {
	holes := make([]string, 0, len(sheets))
	for hole := range sheets {
		holes = append(holes, hole)
	}
	sort.Strings(holes)

	summaries := make(map[string]*depthconv.SummaryTable, len(sheets))
	for _, hole := range holes {
		summary, err := loadSummary(path, sheets[hole], hole)
		if err != nil {
			return nil, fmt.Errorf("hole %s: %w", hole, err)
		}
		summaries[summary.Hole] = summary
	}
	return summaries, nil
}

func loadSummary(path, sheet, hole string) (*depthconv.SummaryTable, error) {
	data, err := NewDataReader(path).WithSheet(sheet).ReadData()
	if err != nil {
		return nil, err
	}

	coreCol, err := findHeader(data.Headers, SummaryCoreHeader)
	if err != nil {
		return nil, err
	}
	sectCol, err := findHeader(data.Headers, SummarySectionHeader)
	if err != nil {
		return nil, err
	}
	topCol, err := findHeader(data.Headers, SummaryTopHeader)
	if err != nil {
		return nil, err
	}

	c := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	summary := depthconv.NewSummaryTable(hole)
	for i, row := range data.Rows {
		if row[coreCol] == "" && row[sectCol] == "" {
			continue
		}
		if err := summary.Add(row[coreCol], row[sectCol], c.CoerceValue(row[topCol])); err != nil {
			return nil, fmt.Errorf("sheet %q row %d: %w", sheet, i+2, err)
		}
	}
	if summary.Len() == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no section rows", core.ErrMalformedSummary, sheet)
	}
	internal.DefaultLogger.Debug("[SummaryLoader] sheet %q: %d cores, %d sections", sheet, len(summary.Cores()), summary.Len())
	return summary, nil
}

func findHeader(headers []string, want string) (string, error) {
	for _, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), want) {
			return h, nil
		}
	}
	return "", core.NewColumnNotFoundError(want)
}
