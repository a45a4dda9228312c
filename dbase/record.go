package dbase

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Field is the value of one column in a record.
type Field struct {
	column *Column
	value  Value
}

// Name returns the name of the column
func (f *Field) Name() string {
	return f.column.Name()
}

// Type returns the data type of the column
func (f *Field) Type() DataType {
	return f.column.Type()
}

// Column returns the field column definition
func (f *Field) Column() *Column {
	return f.column
}

// Value returns the decoded value of the field
func (f *Field) Value() Value {
	return f.value
}

// Record is one row of a table with one field per column, in column order.
type Record struct {
	Position uint32 // Zero based position of the record in the table
	Deleted  bool   // Whether the record is marked as deleted

	table      *Table
	fields     []*Field
	trimSpaces bool
}

func newRecord(table *Table, position uint32, deleted bool) *Record {
	return &Record{
		Position: position,
		Deleted:  deleted,
		table:    table,
		fields:   make([]*Field, 0, table.ColumnsCount()),
	}
}

// Fields returns all fields of the record
func (r *Record) Fields() []*Field {
	return r.fields
}

// Field returns the field at pos, nil if pos is out of range
func (r *Record) Field(pos int) *Field {
	if pos < 0 || pos >= len(r.fields) {
		return nil
	}
	return r.fields[pos]
}

// FieldByName returns the field of the column with the given name (case-insensitive)
func (r *Record) FieldByName(name string) *Field {
	return r.Field(r.table.ColumnPosByName(name))
}

// Values returns the values of all fields in column order
func (r *Record) Values() []Value {
	values := make([]Value, 0, len(r.fields))
	for _, field := range r.fields {
		values = append(values, field.value)
	}
	return values
}

// Value returns the value at pos, nil if pos is out of range
func (r *Record) Value(pos int) Value {
	if f := r.Field(pos); f != nil {
		return f.value
	}
	return nil
}

// ValueByName returns the value of the column with the given name (case-insensitive)
func (r *Record) ValueByName(name string) (Value, error) {
	f := r.FieldByName(name)
	if f == nil {
		return nil, newError("dbase-record-valuebyname-1", fmt.Errorf("%w: column %q not found", ErrInvalidColumn, name))
	}
	return f.value, nil
}

// Returns a complete record as a map of column names to native Go values.
// Empty fields map to nil.
func (r *Record) ToMap() (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(r.fields))
	for _, field := range r.fields {
		v := field.value.Interface()
		if s, ok := v.(string); ok && r.trimSpaces {
			v = strings.TrimSpace(s)
		}
		out[field.Name()] = v
	}
	return out, nil
}

// Returns a complete record as a JSON object.
func (r *Record) ToJSON() ([]byte, error) {
	m, err := r.ToMap()
	if err != nil {
		return nil, newError("dbase-record-tojson-1", err)
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, newError("dbase-record-tojson-2", err)
	}
	return data, nil
}

// Parses the record from map to JSON-encoded data and stores the result in the value pointed to by v.
// json.Unmarshal matches object keys to either the struct field name or its tag,
// preferring an exact match but also accepting a case-insensitive match.
func (r *Record) ToStruct(v interface{}) error {
	data, err := r.ToJSON()
	if err != nil {
		return newError("dbase-record-tostruct-1", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return newError("dbase-record-tostruct-2", err)
	}
	return nil
}
