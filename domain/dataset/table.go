package dataset

import (
	"math"
	"sort"

	"paleocore/domain/core"
)

// ColumnKind distinguishes measured values from free text such as sample labels.
type ColumnKind string

const (
	KindNumeric ColumnKind = "numeric"
	KindText    ColumnKind = "text"
)

// Column is one named column of a Table. Exactly one of Values or Text is set,
// according to Kind. Missing numeric values are NaN, missing text is "".
type Column struct {
	Name   string
	Kind   ColumnKind
	Values []float64
	Text   []string
}

func (c *Column) len() int {
	if c.Kind == KindText {
		return len(c.Text)
	}
	return len(c.Values)
}

func (c *Column) clone() *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	if c.Values != nil {
		out.Values = append([]float64(nil), c.Values...)
	}
	if c.Text != nil {
		out.Text = append([]string(nil), c.Text...)
	}
	return out
}

// Table is a fully materialized sample table: rows are samples, columns are
// named measurements in insertion order.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

// Len returns the number of rows
func (t *Table) Len() int {
	return t.rows
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (t *Table) Columns() []*Column {
	return append([]*Column(nil), t.columns...)
}

// HasColumn reports whether a column with this name exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the named column
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	return t.columns[i], nil
}

// Numeric returns the values of a numeric column. The slice aliases the table.
func (t *Table) Numeric(name string) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindNumeric {
		return nil, core.NewColumnKindError(name, string(KindNumeric))
	}
	return c.Values, nil
}

// Text returns the values of a text column. The slice aliases the table.
func (t *Table) Text(name string) ([]string, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != KindText {
		return nil, core.NewColumnKindError(name, string(KindText))
	}
	return c.Text, nil
}

// AddNumeric appends a numeric column. The first column fixes the row count.
func (t *Table) AddNumeric(name string, values []float64) error {
	return t.add(&Column{Name: name, Kind: KindNumeric, Values: append([]float64(nil), values...)})
}

// AddText appends a text column.
func (t *Table) AddText(name string, values []string) error {
	return t.add(&Column{Name: name, Kind: KindText, Text: append([]string(nil), values...)})
}

// SetNumeric replaces a column's values, or appends the column if it does not exist.
// An existing text column of the same name is replaced by a numeric one in place.
func (t *Table) SetNumeric(name string, values []float64) error {
	i, ok := t.index[name]
	if !ok {
		return t.AddNumeric(name, values)
	}
	if len(t.columns) > 1 && len(values) != t.rows {
		return core.NewLengthMismatchError(name, len(values), t.rows)
	}
	t.columns[i] = &Column{Name: name, Kind: KindNumeric, Values: append([]float64(nil), values...)}
	t.rows = len(values)
	return nil
}

func (t *Table) add(c *Column) error {
	if _, exists := t.index[c.Name]; exists {
		return core.ErrDuplicateColumn
	}
	n := c.len()
	if len(t.columns) == 0 {
		t.rows = n
	} else if n != t.rows {
		return core.NewLengthMismatchError(c.Name, n, t.rows)
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// Clone returns a deep copy that shares no backing arrays with t.
func (t *Table) Clone() *Table {
	out := &Table{
		columns: make([]*Column, len(t.columns)),
		index:   make(map[string]int, len(t.index)),
		rows:    t.rows,
	}
	for i, c := range t.columns {
		out.columns[i] = c.clone()
		out.index[c.Name] = i
	}
	return out
}

// SortByNumeric stably reorders all rows by the named numeric column, ascending.
// Rows with a NaN key keep their relative order and go last.
func (t *Table) SortByNumeric(name string) error {
	keys, err := t.Numeric(name)
	if err != nil {
		return err
	}
	order := make([]int, t.rows)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keys[order[a]], keys[order[b]]
		if math.IsNaN(kb) {
			return !math.IsNaN(ka)
		}
		if math.IsNaN(ka) {
			return false
		}
		return ka < kb
	})
	t.reorder(order)
	return nil
}

// IsSortedBy reports whether the known values of a numeric column are non-decreasing
// and every NaN comes after them.
func (t *Table) IsSortedBy(name string) (bool, error) {
	keys, err := t.Numeric(name)
	if err != nil {
		return false, err
	}
	seenNaN := false
	for i, k := range keys {
		if math.IsNaN(k) {
			seenNaN = true
			continue
		}
		if seenNaN || (i > 0 && k < keys[i-1]) {
			return false, nil
		}
	}
	return true, nil
}

// LastValidIndex returns the index of the last non-NaN value in a numeric column,
// or -1 if there is none.
func (t *Table) LastValidIndex(name string) (int, error) {
	values, err := t.Numeric(name)
	if err != nil {
		return -1, err
	}
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			return i, nil
		}
	}
	return -1, nil
}

// DropMissing returns a copy of the table without the rows where the named numeric
// column is NaN.
func (t *Table) DropMissing(name string) (*Table, error) {
	values, err := t.Numeric(name)
	if err != nil {
		return nil, err
	}
	keep := make([]int, 0, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			keep = append(keep, i)
		}
	}
	out := t.Clone()
	out.reorder(keep)
	return out, nil
}

// reorder keeps exactly the rows listed in order, in that order.
func (t *Table) reorder(order []int) {
	for _, c := range t.columns {
		if c.Kind == KindText {
			text := make([]string, len(order))
			for i, src := range order {
				text[i] = c.Text[src]
			}
			c.Text = text
		} else {
			values := make([]float64, len(order))
			for i, src := range order {
				values[i] = c.Values[src]
			}
			c.Values = values
		}
	}
	t.rows = len(order)
}
