package dbase

import (
	"strings"
	"time"
)

// ToString returns the text of a Character or Memo value, "" for anything else.
func ToString(v Value) string {
	switch t := v.(type) {
	case CharacterValue:
		return t.String
	case MemoValue:
		return string(t)
	}
	return ""
}

// ToTrimmedString returns ToString with spaces trimmed
func ToTrimmedString(v Value) string {
	return strings.TrimSpace(ToString(v))
}

// ToInt64 returns the value of an Integer column or the integer part of a number, 0 otherwise.
func ToInt64(v Value) int64 {
	if i, ok := v.(IntegerValue); ok {
		return int64(i)
	}
	return int64(ToFloat64(v))
}

// ToFloat64 returns the value of any numeric column, 0 for empty fields and other types.
func ToFloat64(v Value) float64 {
	switch t := v.(type) {
	case NumericValue:
		return t.Float64
	case FloatValue:
		return t.Float64
	case CurrencyValue:
		return float64(t)
	case DoubleValue:
		return float64(t)
	case IntegerValue:
		return float64(t)
	}
	return 0
}

// ToTime returns the time of a Date or DateTime value, the zero time otherwise.
func ToTime(v Value) time.Time {
	switch t := v.(type) {
	case DateValue:
		if t.Valid {
			return t.Date.GoTime()
		}
	case DateTimeValue:
		return CalendarDateTime(t).GoTime()
	}
	return time.Time{}
}

// ToBool returns the value of a Logical column, false if it is undefined.
func ToBool(v Value) bool {
	if b, ok := v.(LogicalValue); ok {
		return b.Valid && b.Bool
	}
	return false
}
