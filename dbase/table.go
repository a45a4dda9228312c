package dbase

import (
	"fmt"
	"strings"
)

// Table is the ordered column layout of a dBase table.
type Table struct {
	columns []*Column      // Columns defined in this table
	offsets []int          // Offset of each column in a row, including the deletion flag
	names   map[string]int // Upper case column name to position
	length  int            // Length of one row, including the deletion flag
}

func newTable(columns []*Column) (*Table, error) {
	t := &Table{
		columns: columns,
		offsets: make([]int, len(columns)),
		names:   make(map[string]int, len(columns)),
		length:  1,
	}
	for i, column := range columns {
		key := strings.ToUpper(column.Name())
		if _, ok := t.names[key]; ok {
			return nil, newError("dbase-table-new-1", fmt.Errorf("%w: %s", ErrDuplicateColumn, column.Name()))
		}
		t.names[key] = i
		t.offsets[i] = t.length
		t.length += int(column.Length)
	}
	return t, nil
}

// Returns all columns
func (t *Table) Columns() []*Column {
	return t.columns
}

// Returns the requested column, nil if the position is out of range
func (t *Table) Column(pos int) *Column {
	if pos < 0 || pos >= len(t.columns) {
		return nil
	}
	return t.columns[pos]
}

// Returns the column with the given name (case-insensitive), nil if it does not exist
func (t *Table) ColumnByName(name string) *Column {
	return t.Column(t.ColumnPosByName(name))
}

// Returns the column position of a column by name or -1 if not found.
func (t *Table) ColumnPosByName(name string) int {
	if pos, ok := t.names[strings.ToUpper(name)]; ok {
		return pos
	}
	return -1
}

// Returns a list of column names in the order they are stored
func (t *Table) ColumnNames() []string {
	names := make([]string, 0, len(t.columns))
	for _, column := range t.columns {
		names = append(names, column.Name())
	}
	return names
}

// Returns the number of columns
func (t *Table) ColumnsCount() int {
	return len(t.columns)
}

// Returns the length of one row in bytes, including the deletion flag
func (t *Table) RowLength() int {
	return t.length
}

// slot returns the bytes of the column at pos inside a raw row.
func (t *Table) slot(row []byte, pos int) []byte {
	start := t.offsets[pos]
	return row[start : start+int(t.columns[pos].Length)]
}
