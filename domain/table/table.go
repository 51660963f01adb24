// Package table holds the in-memory report: an ordered sequence of named,
// equal-length columns. Column position is part of the model, not derived
// from a keyed lookup.
package table

import (
	"fmt"

	"jailreport/domain/core"
)

// Column is a named, ordered sequence of values
type Column struct {
	Name   string  `json:"name"`
	Kind   Kind    `json:"kind"`
	Values []Value `json:"values"`
}

// NewColumn creates an untyped column
func NewColumn(name string, values []Value) *Column {
	return &Column{Name: name, Kind: KindRaw, Values: values}
}

// NewRawColumn builds a raw column from strings; empty strings become missing
func NewRawColumn(name string, cells ...string) *Column {
	values := make([]Value, len(cells))
	for i, cell := range cells {
		values[i] = NewRawValue(cell)
	}
	return NewColumn(name, values)
}

// Len returns the number of values
func (c *Column) Len() int {
	return len(c.Values)
}

// Clone returns a deep copy of the column's value slice
func (c *Column) Clone() *Column {
	values := make([]Value, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Kind: c.Kind, Values: values}
}

// Table is an ordered set of uniquely named, equal-length columns
type Table struct {
	columns []*Column
	rows    int
}

// New creates a table from columns, validating names and lengths
func New(columns ...*Column) (*Table, error) {
	t := &Table{}
	for _, col := range columns {
		if err := t.Insert(t.Width(), col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Width returns the number of columns
func (t *Table) Width() int {
	return len(t.columns)
}

// Rows returns the number of rows
func (t *Table) Rows() int {
	return t.rows
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Columns returns the columns in order. The slice is a copy; the columns are not.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Index returns the position of the named column, or -1
func (t *Table) Index(name string) int {
	for i, col := range t.columns {
		if col.Name == name {
			return i
		}
	}
	return -1
}

// Column returns the named column
func (t *Table) Column(name string) (*Column, bool) {
	if i := t.Index(name); i >= 0 {
		return t.columns[i], true
	}
	return nil, false
}

// At returns the column at position i
func (t *Table) At(i int) *Column {
	return t.columns[i]
}

// Row returns the values of row i in column order
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.columns))
	for j, col := range t.columns {
		row[j] = col.Values[i]
	}
	return row
}

// Insert places col at position at (0..Width)
func (t *Table) Insert(at int, col *Column) error {
	if at < 0 || at > len(t.columns) {
		return fmt.Errorf("%w: insert %s at %d of %d", core.ErrColumnPosition, col.Name, at, len(t.columns))
	}
	if t.Index(col.Name) >= 0 {
		return core.NewDuplicateColumnError(col.Name)
	}
	if len(t.columns) > 0 && col.Len() != t.rows {
		return fmt.Errorf("%w: %s has %d values, table has %d rows", core.ErrColumnLength, col.Name, col.Len(), t.rows)
	}
	if len(t.columns) == 0 {
		t.rows = col.Len()
	}

	t.columns = append(t.columns, nil)
	copy(t.columns[at+1:], t.columns[at:])
	t.columns[at] = col
	return nil
}

// Drop removes the named columns. All names must exist; nothing is removed otherwise.
func (t *Table) Drop(names ...string) error {
	remove := make(map[string]bool, len(names))
	for _, name := range names {
		if t.Index(name) < 0 {
			return core.NewMissingColumnError(name)
		}
		remove[name] = true
	}

	kept := t.columns[:0]
	for _, col := range t.columns {
		if !remove[col.Name] {
			kept = append(kept, col)
		}
	}
	for i := len(kept); i < len(t.columns); i++ {
		t.columns[i] = nil
	}
	t.columns = kept
	return nil
}

// Move repositions the named column to index at, preserving its values
func (t *Table) Move(name string, at int) error {
	from := t.Index(name)
	if from < 0 {
		return core.NewMissingColumnError(name)
	}
	if at < 0 || at >= len(t.columns) {
		return fmt.Errorf("%w: move %s to %d of %d", core.ErrColumnPosition, name, at, len(t.columns))
	}
	if from == at {
		return nil
	}

	col := t.columns[from]
	if err := t.Drop(name); err != nil {
		return err
	}
	return t.Insert(at, col)
}

// Rename replaces every column name. The new names must be unique.
func (t *Table) Rename(names []string) error {
	if len(names) != len(t.columns) {
		return fmt.Errorf("%w: %d names for %d columns", core.ErrColumnPosition, len(names), len(t.columns))
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return core.NewDuplicateColumnError(name)
		}
		seen[name] = true
	}
	for i, name := range names {
		t.columns[i].Name = name
	}
	return nil
}

// Select returns a new table holding copies of the named columns, in the
// order given
func (t *Table) Select(names []string) (*Table, error) {
	out := &Table{rows: t.rows}
	for _, name := range names {
		col, ok := t.Column(name)
		if !ok {
			return nil, core.NewMissingColumnError(name)
		}
		if err := out.Insert(out.Width(), col.Clone()); err != nil {
			return nil, err
		}
	}
	if out.Width() == 0 {
		out.rows = 0
	}
	return out, nil
}

// Clone returns a deep copy of the table
func (t *Table) Clone() *Table {
	out := &Table{rows: t.rows, columns: make([]*Column, len(t.columns))}
	for i, col := range t.columns {
		out.columns[i] = col.Clone()
	}
	return out
}

// Equal reports whether both tables have the same names, kinds and values in
// the same order
func (t *Table) Equal(o *Table) bool {
	if t.Width() != o.Width() || t.Rows() != o.Rows() {
		return false
	}
	for i, col := range t.columns {
		other := o.columns[i]
		if col.Name != other.Name || col.Kind != other.Kind {
			return false
		}
		for r := range col.Values {
			if !col.Values[r].Equal(other.Values[r]) {
				return false
			}
		}
	}
	return true
}
