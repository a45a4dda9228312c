package dbase

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	maxColumnName      = 10
	maxCharacterLength = 254
	maxNumericLength   = 20
)

// Column is a struct containing the column information
type Column struct {
	FieldName [11]byte // Column name with a maximum of 10 bytes. If less than 10, it is padded with null characters (0x00).
	DataType  byte     // Column type
	Position  uint32   // Displacement of column in row
	Length    uint8    // Length of column (in bytes)
	Decimals  uint8    // Number of decimal places
	Flag      byte     // Column flag
	Next      uint32   // Value of autoincrement Next value
	Step      uint8    // Value of autoincrement Step value
	Reserved  [8]byte  // Reserved

	name string // decoded name
}

// NewColumn creates a column definition for a new table.
// The name is stored upper case. A length of 0 is replaced by the static size
// of Logical, Date, Integer, Currency, DateTime and Double columns.
func NewColumn(name string, dataType DataType, length uint8, decimals uint8) (*Column, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if len(name) == 0 {
		return nil, newError("dbase-column-new-1", fmt.Errorf("%w: no column name defined", ErrInvalidColumn))
	}
	if strings.ContainsRune(name, 0) {
		return nil, newError("dbase-column-new-2", fmt.Errorf("%w: column name %q contains a null byte", ErrInvalidColumn, name))
	}
	if !dataType.Valid() {
		return nil, newError("dbase-column-new-3", fmt.Errorf("%w: %q", ErrInvalidFieldType, byte(dataType)))
	}
	if size := dataType.Size(); size > 0 {
		if length == 0 {
			length = size
		}
		if length != size {
			return nil, newError("dbase-column-new-4", fmt.Errorf("%w: %s column %s must be %d bytes long", ErrInvalidColumn, dataType, name, size))
		}
	}
	if length == 0 {
		return nil, newError("dbase-column-new-5", fmt.Errorf("%w: %s column length can not be 0", ErrInvalidColumn, name))
	}
	switch dataType {
	case Character:
		if length > maxCharacterLength {
			return nil, newError("dbase-column-new-6", fmt.Errorf("%w: character length can only be %d bytes long", ErrInvalidColumn, maxCharacterLength))
		}
	case Numeric, Float:
		if length > maxNumericLength {
			return nil, newError("dbase-column-new-7", fmt.Errorf("%w: numeric length can only be %d bytes long", ErrInvalidColumn, maxNumericLength))
		}
		if decimals > 0 && int(decimals) >= int(length) {
			return nil, newError("dbase-column-new-8", fmt.Errorf("%w: %d decimals do not fit into %d bytes", ErrInvalidColumn, decimals, length))
		}
	}
	if decimals > 0 && dataType != Numeric && dataType != Float {
		return nil, newError("dbase-column-new-9", fmt.Errorf("%w: decimals are only allowed for numeric columns", ErrInvalidColumn))
	}
	column := &Column{
		DataType: byte(dataType),
		Length:   length,
		Decimals: decimals,
		name:     name,
	}
	if len(name) <= maxColumnName {
		copy(column.FieldName[:], name)
	}
	return column, nil
}

// parseColumn reads a column descriptor and validates its type and length.
func parseColumn(b []byte, converter EncodingConverter) (*Column, error) {
	if len(b) != columnSize {
		return nil, newError("dbase-column-parse-1", fmt.Errorf("%w: column descriptor has %d bytes", ErrInvalidHeader, len(b)))
	}
	column := &Column{
		DataType: b[11],
		Position: binary.LittleEndian.Uint32(b[12:16]),
		Length:   b[16],
		Decimals: b[17],
		Flag:     b[18],
		Next:     binary.LittleEndian.Uint32(b[19:23]),
		Step:     b[23],
	}
	copy(column.FieldName[:], b[:11])
	copy(column.Reserved[:], b[24:32])
	raw := column.FieldName[:]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	name, err := converter.Decode(raw)
	if err != nil {
		return nil, newError("dbase-column-parse-2", err)
	}
	column.name = strings.TrimSpace(string(name))
	dataType := DataType(column.DataType)
	if !dataType.Valid() {
		return nil, newError("dbase-column-parse-3", fmt.Errorf("%w: column %s has type %q", ErrInvalidFieldType, column.name, column.DataType))
	}
	if column.Length == 0 {
		return nil, newError("dbase-column-parse-4", fmt.Errorf("%w: column %s has length 0", ErrInvalidHeader, column.name))
	}
	if size := dataType.Size(); size > 0 && column.Length != size {
		return nil, newError("dbase-column-parse-5", fmt.Errorf("%w: %s column %s has length %d, expected %d", ErrInvalidHeader, dataType, column.name, column.Length, size))
	}
	debugf("Column: %s type: %s length: %d decimals: %d", column.name, dataType, column.Length, column.Decimals)
	return column, nil
}

// setName encodes the column name through the converter of the table it is written to.
func (c *Column) setName(converter EncodingConverter) error {
	raw, err := converter.Encode([]byte(c.Name()))
	if err != nil {
		return newError("dbase-column-setname-1", fmt.Errorf("column %s: %w", c.Name(), err))
	}
	if len(raw) > maxColumnName {
		return newError("dbase-column-setname-2", fmt.Errorf("%w: column name %s is %d bytes long, maximum is %d", ErrInvalidColumn, c.Name(), len(raw), maxColumnName))
	}
	c.FieldName = [11]byte{}
	copy(c.FieldName[:], raw)
	return nil
}

func (c *Column) bytes() []byte {
	b := make([]byte, columnSize)
	copy(b[:11], c.FieldName[:])
	b[11] = c.DataType
	binary.LittleEndian.PutUint32(b[12:16], c.Position)
	b[16] = c.Length
	b[17] = c.Decimals
	b[18] = c.Flag
	binary.LittleEndian.PutUint32(b[19:23], c.Next)
	b[23] = c.Step
	copy(b[24:32], c.Reserved[:])
	return b
}

// Returns the name of the column as a trimmed string (max length 10)
func (c *Column) Name() string {
	if c.name != "" {
		return c.name
	}
	return string(bytes.TrimRight(c.FieldName[:], "\x00"))
}

// Returns the type of the column
func (c *Column) Type() DataType {
	return DataType(c.DataType)
}
