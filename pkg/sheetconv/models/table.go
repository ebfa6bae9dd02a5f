package models

import (
	"errors"
	"fmt"
)

// ErrRowTooWide indicates a row with more cells than the table has columns.
var ErrRowTooWide = errors.New("row has more cells than columns")

// Table is an ordered set of named columns and rows of cell values.
// Every row holds exactly len(Columns) cells.
type Table struct {
	// Name is used as the sheet name on export.
	Name string `json:"name,omitempty"`
	// Columns holds the column names in order.
	Columns []string `json:"columns"`
	// Rows holds the cell values, one slice per row.
	Rows [][]Value `json:"rows"`
}

// NewTable creates an empty table with the given columns.
func NewTable(name string, columns ...string) *Table {
	return &Table{
		Name:    name,
		Columns: append([]string(nil), columns...),
	}
}

// PlaceholderColumn returns the name given to the column at index i when
// the source supplies none.
func PlaceholderColumn(i int) string {
	return fmt.Sprintf("Column%d", i+1)
}

// AddColumn appends a column and pads existing rows with Empty. An empty
// name is replaced by a placeholder. It returns the new column's index.
func (t *Table) AddColumn(name string) int {
	idx := len(t.Columns)
	if name == "" {
		name = PlaceholderColumn(idx)
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], Empty())
	}
	return idx
}

// AppendRow appends a row. Short rows are padded with Empty.
func (t *Table) AppendRow(values ...Value) error {
	if len(values) > len(t.Columns) {
		return fmt.Errorf("%w: %d cells, %d columns", ErrRowTooWide, len(values), len(t.Columns))
	}
	row := make([]Value, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cell returns the value at the given row and column, or Empty when out of
// range.
func (t *Table) Cell(row, col int) Value {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return Empty()
	}
	return t.Rows[row][col]
}

// ColumnIndex returns the index of the first column with the given name,
// or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Collection is an ordered list of tables, one per sheet.
type Collection []*Table

// Names returns the table names in order.
func (c Collection) Names() []string {
	names := make([]string, 0, len(c))
	for _, t := range c {
		if t != nil {
			names = append(names, t.Name)
		}
	}
	return names
}
