package depthconv

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"paleocore/domain/core"
	"paleocore/domain/sample"
)

// SectionTop is one row of a hole summary: a section and the depth of its top.
type SectionTop struct {
	Section string  // "1".."7" or "CC"
	Top     float64 // mbsf
}

// SummaryTable maps the cores of one hole to their sections, in sheet order.
type SummaryTable struct {
	Hole  string
	cores map[string][]SectionTop
	order []string
}

// NewSummaryTable creates an empty summary for a hole
func NewSummaryTable(hole string) *SummaryTable {
	return &SummaryTable{
		Hole:  strings.ToUpper(strings.TrimSpace(hole)),
		cores: make(map[string][]SectionTop),
	}
}

// Add records a section row. Core and section cells are normalised so that
// " 3H " matches "3H" and "2.0" matches "2".
func (s *SummaryTable) Add(coreID, section string, top float64) error {
	coreKey := NormalizeCore(coreID)
	if coreKey == "" {
		return fmt.Errorf("%w: hole %s row without a core", core.ErrMalformedSummary, s.Hole)
	}
	if math.IsNaN(top) {
		return fmt.Errorf("%w: hole %s core %s section %s has no top depth", core.ErrMalformedSummary, s.Hole, coreKey, section)
	}
	if _, ok := s.cores[coreKey]; !ok {
		s.order = append(s.order, coreKey)
	}
	s.cores[coreKey] = append(s.cores[coreKey], SectionTop{Section: NormalizeSection(section), Top: top})
	return nil
}

// Cores returns the cores in sheet order
func (s *SummaryTable) Cores() []string {
	return append([]string(nil), s.order...)
}

// Sections returns the section rows of a core in sheet order
func (s *SummaryTable) Sections(coreID string) []SectionTop {
	return append([]SectionTop(nil), s.cores[NormalizeCore(coreID)]...)
}

// Len returns the number of section rows
func (s *SummaryTable) Len() int {
	n := 0
	for _, rows := range s.cores {
		n += len(rows)
	}
	return n
}

// SectionTopDepth returns the top depth of the labelled section. Core-catcher
// samples use the last section listed for the core.
func (s *SummaryTable) SectionTopDepth(label sample.Label) (float64, error) {
	rows := s.Sections(label.Core)
	if len(rows) == 0 {
		return math.NaN(), core.NewSectionNotFoundError(s.Hole, label.Core, label.SectionKey())
	}
	if label.Catcher {
		return rows[len(rows)-1].Top, nil
	}
	key := label.SectionKey()
	for _, row := range rows {
		if row.Section == key {
			return row.Top, nil
		}
	}
	return math.NaN(), core.NewSectionNotFoundError(s.Hole, label.Core, key)
}

// NormalizeCore trims and upper-cases a core identifier
func NormalizeCore(coreID string) string {
	return strings.ToUpper(strings.TrimSpace(coreID))
}

// NormalizeSection turns integral numbers into their integer text and upper-cases
// anything else.
func NormalizeSection(section string) string {
	trimmed := strings.TrimSpace(section)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil && f == math.Trunc(f) {
		return strconv.Itoa(int(f))
	}
	return strings.ToUpper(trimmed)
}
