package dbase

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
)

// Interpreter converts between the raw bytes of a field and its Value.
type Interpreter struct {
	Converter EncodingConverter
}

// Interpret decodes the raw bytes of a field. Memo columns are resolved through memo,
// which may be nil for tables without memo columns.
func (i *Interpreter) Interpret(raw []byte, column *Column, memo *MemoReader) (Value, error) {
	if err := checkSize(column); err != nil {
		return nil, newFieldError(column, err)
	}
	if len(raw) != int(column.Length) {
		return nil, newFieldError(column, fmt.Errorf("%w: field has %d of %d bytes", ErrIncomplete, len(raw), column.Length))
	}
	v, err := i.interpret(raw, column, memo)
	if err != nil {
		return nil, newFieldError(column, err)
	}
	return v, nil
}

func (i *Interpreter) interpret(raw []byte, column *Column, memo *MemoReader) (Value, error) {
	switch column.Type() {
	case Character:
		trimmed := trimField(raw)
		if len(trimmed) == 0 {
			return CharacterValue{}, nil
		}
		s, err := i.Converter.Decode(trimmed)
		if err != nil {
			return nil, newError("dbase-interpreter-character-1", err)
		}
		return CharacterOf(string(s)), nil
	case Numeric:
		f, ok, err := parseNumber(raw)
		if err != nil {
			return nil, newError("dbase-interpreter-numeric-1", err)
		}
		return NumericValue{Float64: f, Valid: ok}, nil
	case Float:
		f, ok, err := parseNumber(raw)
		if err != nil {
			return nil, newError("dbase-interpreter-float-1", err)
		}
		return FloatValue{Float64: f, Valid: ok}, nil
	case Date:
		trimmed := trimField(raw)
		if len(trimmed) == 0 {
			return DateValue{}, nil
		}
		d, err := ParseDate(string(trimmed))
		if err != nil {
			return nil, newError("dbase-interpreter-date-1", err)
		}
		return DateOf(d), nil
	case Logical:
		switch raw[0] {
		case 'T', 't', 'Y', 'y', '1':
			return LogicalOf(true), nil
		case 'F', 'f', 'N', 'n':
			return LogicalOf(false), nil
		}
		return LogicalValue{}, nil
	case Integer:
		return IntegerValue(int32(binary.LittleEndian.Uint32(raw))), nil
	case Currency:
		return CurrencyValue(math.Float64frombits(binary.LittleEndian.Uint64(raw))), nil
	case Double:
		return DoubleValue(math.Float64frombits(binary.LittleEndian.Uint64(raw))), nil
	case DateTime:
		jdn := int32(binary.LittleEndian.Uint32(raw[:4]))
		word := int32(binary.LittleEndian.Uint32(raw[4:8]))
		return DateTimeValue{Date: DateFromJulianDay(jdn), Time: TimeFromWord(word)}, nil
	case Memo:
		return i.interpretMemo(raw, memo)
	}
	return nil, newError("dbase-interpreter-interpret-1", fmt.Errorf("%w: %q", ErrInvalidFieldType, column.DataType))
}

func (i *Interpreter) interpretMemo(raw []byte, memo *MemoReader) (Value, error) {
	var block uint32
	if len(raw) > 4 {
		trimmed := trimField(raw)
		if len(trimmed) == 0 {
			return MemoValue(""), nil
		}
		n, err := strconv.ParseUint(string(trimmed), 10, 32)
		if err != nil {
			return nil, newError("dbase-interpreter-memo-1", fmt.Errorf("%w: memo index %q: %w", ErrInvalidNumber, trimmed, err))
		}
		block = uint32(n)
	} else {
		b := make([]byte, 4)
		copy(b, raw)
		block = binary.LittleEndian.Uint32(b)
	}
	if memo == nil {
		return nil, newError("dbase-interpreter-memo-2", ErrNoMemoFile)
	}
	data, err := memo.ReadMemo(block)
	if err != nil {
		return nil, newError("dbase-interpreter-memo-3", err)
	}
	if len(data) == 0 {
		return MemoValue(""), nil
	}
	text, err := i.Converter.Decode(data)
	if err != nil {
		return nil, newError("dbase-interpreter-memo-4", err)
	}
	return MemoValue(text), nil
}

// checkSize rejects columns whose length contradicts the fixed size of their type.
func checkSize(column *Column) error {
	if size := column.Type().Size(); size > 0 && column.Length != size {
		return fmt.Errorf("%w: %s column has %d bytes, expected %d", ErrInvalidColumn, column.Type(), column.Length, size)
	}
	return nil
}

// parseNumber returns false for empty fields and fields filled with the overflow marker.
func parseNumber(raw []byte) (float64, bool, error) {
	trimmed := trimField(raw)
	if len(trimmed) == 0 || isOverflow(trimmed) {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q: %w", ErrInvalidNumber, trimmed, err)
	}
	return f, true, nil
}

// Represent encodes value into dst, the slot of column within a row.
// dst is expected to be filled with spaces. Nothing is written if an error is returned.
func (i *Interpreter) Represent(value Value, column *Column, dst []byte) error {
	if value == nil {
		return newFieldError(column, fmt.Errorf("%w: missing value", ErrIncompatibleType))
	}
	if value.Type() != column.Type() {
		return newFieldError(column, fmt.Errorf("%w: %s value for %s column", ErrIncompatibleType, value.Type(), column.Type()))
	}
	if err := checkSize(column); err != nil {
		return newFieldError(column, err)
	}
	if len(dst) != int(column.Length) {
		return newFieldError(column, fmt.Errorf("%w: slot has %d of %d bytes", ErrIncomplete, len(dst), column.Length))
	}
	if err := i.represent(value, column, dst); err != nil {
		return newFieldError(column, err)
	}
	return nil
}

func (i *Interpreter) represent(value Value, column *Column, dst []byte) error {
	switch v := value.(type) {
	case CharacterValue:
		if !v.Valid {
			return nil
		}
		raw, err := i.Converter.Encode([]byte(v.String))
		if err != nil {
			return newError("dbase-interpreter-represent-1", err)
		}
		if len(raw) > len(dst) {
			return newError("dbase-interpreter-represent-2", fmt.Errorf("%w: %d bytes do not fit into %d", ErrValueTooLong, len(raw), len(dst)))
		}
		copy(dst, raw)
	case NumericValue:
		if !v.Valid {
			return nil
		}
		return formatNumber(v.Float64, column, dst)
	case FloatValue:
		if !v.Valid {
			return nil
		}
		return formatNumber(v.Float64, column, dst)
	case DateValue:
		if !v.Valid {
			for j := range dst {
				dst[j] = byte(Blank)
			}
			return nil
		}
		s := v.Date.String()
		if len(s) != len(dst) || v.Date.Year < 0 {
			return newError("dbase-interpreter-represent-3", fmt.Errorf("%w: %+v", ErrInvalidDate, v.Date))
		}
		copy(dst, s)
	case LogicalValue:
		if !v.Valid {
			return nil
		}
		if v.Bool {
			dst[0] = 't'
		} else {
			dst[0] = 'f'
		}
	case IntegerValue:
		binary.LittleEndian.PutUint32(dst, uint32(int32(v)))
	case CurrencyValue:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(float64(v)))
	case DoubleValue:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(float64(v)))
	case DateTimeValue:
		binary.LittleEndian.PutUint32(dst[:4], uint32(JulianDayNumber(v.Date)))
		binary.LittleEndian.PutUint32(dst[4:8], uint32(v.Time.Word()))
	case MemoValue:
		return newError("dbase-interpreter-represent-4", fmt.Errorf("%w: writing memo values", ErrUnsupported))
	default:
		return newError("dbase-interpreter-represent-5", fmt.Errorf("%w: %T", ErrIncompatibleType, value))
	}
	return nil
}

// formatNumber writes f right aligned with exactly the decimals of the column.
func formatNumber(f float64, column *Column, dst []byte) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return newError("dbase-interpreter-formatnumber-1", fmt.Errorf("%w: %v", ErrInvalidNumber, f))
	}
	s := strconv.FormatFloat(f, 'f', int(column.Decimals), 64)
	if len(s) > len(dst) {
		return newError("dbase-interpreter-formatnumber-2", fmt.Errorf("%w: %s does not fit into %d bytes", ErrValueTooLong, s, len(dst)))
	}
	copy(dst[len(dst)-len(s):], s)
	return nil
}
