package dbase

// Value is the decoded content of one field. The concrete type matches the
// column type, e.g. a Character column yields a CharacterValue.
type Value interface {
	Type() DataType
	// Interface returns the native Go value, or nil if the field is empty.
	Interface() interface{}
	value()
}

// CharacterValue is the value of a Character column. Valid is false for an empty field.
type CharacterValue struct {
	String string
	Valid  bool
}

// NumericValue is the value of a Numeric column. Valid is false for an empty or overflowed field.
type NumericValue struct {
	Float64 float64
	Valid   bool
}

// FloatValue is the value of a Float column. Valid is false for an empty or overflowed field.
type FloatValue struct {
	Float64 float64
	Valid   bool
}

// DateValue is the value of a Date column. Valid is false for an empty field.
type DateValue struct {
	Date  CalendarDate
	Valid bool
}

// LogicalValue is the value of a Logical column. Valid is false if the field is undefined ('?', ' ').
type LogicalValue struct {
	Bool  bool
	Valid bool
}

// IntegerValue is the value of an Integer column.
type IntegerValue int32

// CurrencyValue is the value of a Currency column.
type CurrencyValue float64

// DoubleValue is the value of a Double column.
type DoubleValue float64

// DateTimeValue is the value of a DateTime column.
type DateTimeValue CalendarDateTime

// MemoValue is the text a Memo column refers to.
type MemoValue string

// CharacterOf returns a present CharacterValue.
func CharacterOf(s string) CharacterValue { return CharacterValue{String: s, Valid: true} }

// NumericOf returns a present NumericValue.
func NumericOf(f float64) NumericValue { return NumericValue{Float64: f, Valid: true} }

// FloatOf returns a present FloatValue.
func FloatOf(f float64) FloatValue { return FloatValue{Float64: f, Valid: true} }

// LogicalOf returns a present LogicalValue.
func LogicalOf(b bool) LogicalValue { return LogicalValue{Bool: b, Valid: true} }

// DateOf returns a present DateValue.
func DateOf(d CalendarDate) DateValue { return DateValue{Date: d, Valid: true} }

func (CharacterValue) Type() DataType { return Character }
func (NumericValue) Type() DataType   { return Numeric }
func (FloatValue) Type() DataType     { return Float }
func (DateValue) Type() DataType      { return Date }
func (LogicalValue) Type() DataType   { return Logical }
func (IntegerValue) Type() DataType   { return Integer }
func (CurrencyValue) Type() DataType  { return Currency }
func (DoubleValue) Type() DataType    { return Double }
func (DateTimeValue) Type() DataType  { return DateTime }
func (MemoValue) Type() DataType      { return Memo }

func (v CharacterValue) Interface() interface{} {
	if !v.Valid {
		return nil
	}
	return v.String
}

func (v NumericValue) Interface() interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func (v FloatValue) Interface() interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func (v DateValue) Interface() interface{} {
	if !v.Valid {
		return nil
	}
	return v.Date.GoTime()
}

func (v LogicalValue) Interface() interface{} {
	if !v.Valid {
		return nil
	}
	return v.Bool
}

func (v IntegerValue) Interface() interface{}  { return int32(v) }
func (v CurrencyValue) Interface() interface{} { return float64(v) }
func (v DoubleValue) Interface() interface{}   { return float64(v) }
func (v DateTimeValue) Interface() interface{} { return CalendarDateTime(v).GoTime() }
func (v MemoValue) Interface() interface{}     { return string(v) }

func (CharacterValue) value() {}
func (NumericValue) value()   {}
func (FloatValue) value()     {}
func (DateValue) value()      {}
func (LogicalValue) value()   {}
func (IntegerValue) value()   {}
func (CurrencyValue) value()  {}
func (DoubleValue) value()    {}
func (DateTimeValue) value()  {}
func (MemoValue) value()      {}
