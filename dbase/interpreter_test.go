package dbase

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func newTestInterpreter() *Interpreter {
	return &Interpreter{Converter: NewDefaultConverter(charmap.Windows1252)}
}

func mustColumn(t *testing.T, name string, dataType DataType, length uint8, decimals uint8) *Column {
	t.Helper()
	column, err := NewColumn(name, dataType, length, decimals)
	require.NoError(t, err)
	return column
}

func blankSlot(column *Column) []byte {
	return bytes.Repeat([]byte{' '}, int(column.Length))
}

func TestInterpreterRoundTrip(t *testing.T) {
	tests := []struct {
		description string
		column      *Column
		value       Value
		raw         string
	}{
		{"character", mustColumn(t, "c", Character, 10, 0), CharacterOf("hello"), "hello     "},
		{"character umlaut", mustColumn(t, "c", Character, 10, 0), CharacterOf("Grüße"), "Gr\xfc\xdfe     "},
		{"character absent", mustColumn(t, "c", Character, 10, 0), CharacterValue{}, "          "},
		{"numeric", mustColumn(t, "n", Numeric, 10, 2), NumericOf(3.14), "      3.14"},
		{"numeric negative", mustColumn(t, "n", Numeric, 10, 2), NumericOf(-12.5), "    -12.50"},
		{"numeric integer", mustColumn(t, "n", Numeric, 5, 0), NumericOf(42), "   42"},
		{"numeric absent", mustColumn(t, "n", Numeric, 10, 2), NumericValue{}, "          "},
		{"float", mustColumn(t, "f", Float, 20, 5), FloatOf(1234.5), "          1234.50000"},
		{"float absent", mustColumn(t, "f", Float, 20, 5), FloatValue{}, "                    "},
		{"date", mustColumn(t, "d", Date, 0, 0), DateOf(CalendarDate{Year: 2019, Month: 7, Day: 5}), "20190705"},
		{"date absent", mustColumn(t, "d", Date, 0, 0), DateValue{}, "        "},
		{"logical true", mustColumn(t, "l", Logical, 0, 0), LogicalOf(true), "t"},
		{"logical false", mustColumn(t, "l", Logical, 0, 0), LogicalOf(false), "f"},
		{"logical absent", mustColumn(t, "l", Logical, 0, 0), LogicalValue{}, " "},
		{"integer", mustColumn(t, "i", Integer, 0, 0), IntegerValue(-42), "\xd6\xff\xff\xff"},
		{"integer max", mustColumn(t, "i", Integer, 0, 0), IntegerValue(math.MaxInt32), "\xff\xff\xff\x7f"},
		{"currency", mustColumn(t, "y", Currency, 0, 0), CurrencyValue(12.3456), ""},
		{"double", mustColumn(t, "b", Double, 0, 0), DoubleValue(math.Pi), ""},
		{"datetime", mustColumn(t, "t", DateTime, 0, 0), DateTimeValue{Date: CalendarDate{Year: 2019, Month: 7, Day: 20}, Time: Time{Hours: 13, Minutes: 45, Seconds: 10}}, "\x3d\x84\x25\x00\x70\x76\xf3\x02"},
	}
	i := newTestInterpreter()
	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			dst := blankSlot(tt.column)
			require.NoError(t, i.Represent(tt.value, tt.column, dst))
			if tt.raw != "" {
				assert.Equal(t, []byte(tt.raw), dst)
			}
			got, err := i.Interpret(dst, tt.column, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestInterpreterNumericOverflow(t *testing.T) {
	i := newTestInterpreter()
	for _, dataType := range []DataType{Numeric, Float} {
		column := mustColumn(t, "n", dataType, 5, 0)
		got, err := i.Interpret([]byte("*****"), column, nil)
		require.NoError(t, err)
		assert.Nil(t, got.Interface())
		assert.Equal(t, dataType, got.Type())

		dst := blankSlot(column)
		require.NoError(t, i.Represent(got, column, dst))
		assert.Equal(t, []byte("     "), dst)

		got, err = i.Interpret([]byte("     "), column, nil)
		require.NoError(t, err)
		assert.Nil(t, got.Interface())
	}
}

func TestInterpreterNumericInvalid(t *testing.T) {
	i := newTestInterpreter()
	column := mustColumn(t, "n", Numeric, 5, 0)
	_, err := i.Interpret([]byte(" 1a2 "), column, nil)
	assert.ErrorIs(t, err, ErrInvalidNumber)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "N", fieldErr.Column)
	assert.Equal(t, Numeric, fieldErr.Type)

	dst := blankSlot(column)
	assert.ErrorIs(t, i.Represent(NumericOf(123456), column, dst), ErrValueTooLong)
	assert.ErrorIs(t, i.Represent(NumericOf(math.NaN()), column, dst), ErrInvalidNumber)
	assert.Equal(t, []byte("     "), dst)
}

func TestInterpreterLogicalMapping(t *testing.T) {
	i := newTestInterpreter()
	column := mustColumn(t, "l", Logical, 0, 0)
	for _, c := range "TtYy1" {
		got, err := i.Interpret([]byte{byte(c)}, column, nil)
		require.NoError(t, err)
		assert.Equal(t, LogicalOf(true), got, "%c", c)
	}
	for _, c := range "FfNn" {
		got, err := i.Interpret([]byte{byte(c)}, column, nil)
		require.NoError(t, err)
		assert.Equal(t, LogicalOf(false), got, "%c", c)
	}
	for _, c := range " ?0x" {
		got, err := i.Interpret([]byte{byte(c)}, column, nil)
		require.NoError(t, err)
		assert.Equal(t, LogicalValue{}, got, "%c", c)
	}
}

func TestInterpreterDate(t *testing.T) {
	i := newTestInterpreter()
	column := mustColumn(t, "d", Date, 0, 0)
	got, err := i.Interpret([]byte("\x00\x00\x00\x00\x00\x00\x00\x00"), column, nil)
	require.NoError(t, err)
	assert.Equal(t, DateValue{}, got)

	_, err = i.Interpret([]byte("2019JULY"), column, nil)
	assert.ErrorIs(t, err, ErrInvalidDate)

	dst := blankSlot(column)
	assert.ErrorIs(t, i.Represent(DateOf(CalendarDate{Year: 10000, Month: 1, Day: 1}), column, dst), ErrInvalidDate)
	assert.ErrorIs(t, i.Represent(DateOf(CalendarDate{Year: -1, Month: 1, Day: 1}), column, dst), ErrInvalidDate)
}

func TestInterpreterSchemaEnforcement(t *testing.T) {
	i := newTestInterpreter()
	columns := []*Column{
		mustColumn(t, "c", Character, 5, 0),
		mustColumn(t, "n", Numeric, 5, 0),
		mustColumn(t, "d", Date, 0, 0),
		mustColumn(t, "l", Logical, 0, 0),
		mustColumn(t, "i", Integer, 0, 0),
	}
	values := []Value{NumericOf(1), CharacterOf("x"), LogicalOf(true), DateOf(CalendarDate{Year: 2000, Month: 1, Day: 1}), DoubleValue(1)}
	for n, column := range columns {
		dst := blankSlot(column)
		err := i.Represent(values[n], column, dst)
		assert.ErrorIs(t, err, ErrIncompatibleType)
		assert.Equal(t, blankSlot(column), dst, "no bytes are written")
	}
	assert.ErrorIs(t, i.Represent(nil, columns[0], blankSlot(columns[0])), ErrIncompatibleType)
}

func TestInterpreterStaticSize(t *testing.T) {
	i := newTestInterpreter()
	tests := []struct {
		name   string
		column *Column
		value  Value
	}{
		{"integer", &Column{DataType: byte(Integer), Length: 2}, IntegerValue(1)},
		{"double", &Column{DataType: byte(Double), Length: 3}, DoubleValue(1)},
		{"datetime", &Column{DataType: byte(DateTime), Length: 4}, DateTimeValue{}},
		{"logical", &Column{DataType: byte(Logical), Length: 2}, LogicalOf(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := make([]byte, tt.column.Length)
			_, err := i.Interpret(raw, tt.column, nil)
			assert.ErrorIs(t, err, ErrInvalidColumn)
			assert.ErrorIs(t, i.Represent(tt.value, tt.column, raw), ErrInvalidColumn)
		})
	}
}

func TestInterpreterCharacter(t *testing.T) {
	i := newTestInterpreter()
	column := mustColumn(t, "c", Character, 5, 0)
	dst := blankSlot(column)
	assert.ErrorIs(t, i.Represent(CharacterOf("too long"), column, dst), ErrValueTooLong)
	assert.ErrorIs(t, i.Represent(CharacterOf("猫"), column, dst), ErrEncoding)
	assert.Equal(t, []byte("     "), dst)

	got, err := i.Interpret([]byte("  ab\x00"), column, nil)
	require.NoError(t, err)
	assert.Equal(t, CharacterOf("ab"), got)

	_, err = i.Interpret([]byte("abc"), column, nil)
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestInterpreterMemo(t *testing.T) {
	i := newTestInterpreter()
	ascii := mustColumn(t, "m", Memo, 10, 0)
	binary := mustColumn(t, "m", Memo, 4, 0)

	got, err := i.Interpret([]byte("          "), ascii, nil)
	require.NoError(t, err)
	assert.Equal(t, MemoValue(""), got)

	_, err = i.Interpret([]byte("         1"), ascii, nil)
	assert.ErrorIs(t, err, ErrNoMemoFile)
	_, err = i.Interpret([]byte{1, 0, 0, 0}, binary, nil)
	assert.ErrorIs(t, err, ErrNoMemoFile)
	_, err = i.Interpret([]byte("       1x2"), ascii, nil)
	assert.ErrorIs(t, err, ErrInvalidNumber)

	memo, err := NewMemoReader(newSeekBuffer(foxProMemo(t)))
	require.NoError(t, err)
	got, err = i.Interpret([]byte("         8"), ascii, memo)
	require.NoError(t, err)
	assert.Equal(t, MemoValue("hello"), got)
	got, err = i.Interpret([]byte{8, 0, 0, 0}, binary, memo)
	require.NoError(t, err)
	assert.Equal(t, MemoValue("hello"), got)
	got, err = i.Interpret([]byte{0, 0, 0, 0}, binary, memo)
	require.NoError(t, err)
	assert.Equal(t, MemoValue(""), got)

	assert.ErrorIs(t, i.Represent(MemoValue("text"), ascii, blankSlot(ascii)), ErrUnsupported)
}

func TestValueInterface(t *testing.T) {
	assert.Nil(t, CharacterValue{}.Interface())
	assert.Equal(t, "a", CharacterOf("a").Interface())
	assert.Nil(t, NumericValue{}.Interface())
	assert.Equal(t, 1.5, NumericOf(1.5).Interface())
	assert.Nil(t, DateValue{}.Interface())
	assert.Nil(t, LogicalValue{}.Interface())
	assert.Equal(t, true, LogicalOf(true).Interface())
	assert.Equal(t, int32(7), IntegerValue(7).Interface())
	assert.Equal(t, "m", MemoValue("m").Interface())
}
