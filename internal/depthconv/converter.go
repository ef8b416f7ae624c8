// Package depthconv converts sample labels to depths below the sea floor using the
// per-hole core/section summary tables.
package depthconv

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"paleocore/domain/core"
	"paleocore/domain/dataset"
	"paleocore/domain/sample"
	"paleocore/internal"
)

// LabelError records why one row's label could not be converted
type LabelError struct {
	Row   int
	Label string
	Err   error
}

func (e *LabelError) Error() string {
	return fmt.Sprintf("row %d (%q): %v", e.Row, e.Label, e.Err)
}

func (e *LabelError) Unwrap() error {
	return e.Err
}

// Converter resolves sample labels against one summary table per hole letter
type Converter struct {
	summaries map[string]*SummaryTable
	logger    *internal.Logger
}

// NewConverter creates a converter. Map keys are hole letters.
func NewConverter(summaries map[string]*SummaryTable) *Converter {
	normalized := make(map[string]*SummaryTable, len(summaries))
	for hole, summary := range summaries {
		normalized[strings.ToUpper(strings.TrimSpace(hole))] = summary
	}
	return &Converter{summaries: normalized, logger: internal.DefaultLogger}
}

// Holes returns how many holes have a summary table
func (c *Converter) Holes() int {
	return len(c.summaries)
}

// Depth converts one label to mbsf: section top plus interval midpoint.
func (c *Converter) Depth(raw string) (float64, error) {
	label, err := sample.ParseLabel(raw)
	if err != nil {
		return math.NaN(), err
	}
	summary, ok := c.summaries[label.Hole]
	if !ok {
		return math.NaN(), fmt.Errorf("%w %s", core.ErrUnknownHole, label.Hole)
	}
	top, err := summary.SectionTopDepth(label)
	if err != nil {
		return math.NaN(), err
	}
	return top + label.Midpoint(), nil
}

// Convert returns one depth per label. Labels that cannot be converted get NaN and
// contribute a *LabelError to the joined error, so every bad row is reported.
func (c *Converter) Convert(labels []string) ([]float64, error) {
	depths := make([]float64, len(labels))
	var errs []error
	for i, raw := range labels {
		d, err := c.Depth(raw)
		if err != nil {
			errs = append(errs, &LabelError{Row: i, Label: raw, Err: err})
		}
		depths[i] = d
	}
	if len(errs) > 0 {
		c.logger.Warn("[Converter] %d of %d labels could not be converted", len(errs), len(labels))
	}
	c.logger.Debug("[Converter] converted %d labels against %d hole summaries", len(labels)-len(errs), len(c.summaries))
	return depths, errors.Join(errs...)
}

// ConvertColumn returns a copy of t with the depth column computed from labelCol.
// The table is returned even when some labels fail; err then lists those rows.
func (c *Converter) ConvertColumn(t *dataset.Table, labelCol string) (*dataset.Table, error) {
	labels, err := t.Text(labelCol)
	if err != nil {
		return nil, err
	}
	depths, convErr := c.Convert(labels)

	out := t.Clone()
	if err := out.SetNumeric(core.DepthColumn, depths); err != nil {
		return nil, err
	}
	return out, convErr
}
