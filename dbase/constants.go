package dbase

import (
	"fmt"
	"reflect"
	"time"
)

type FileVersion byte

const (
	FoxBase             FileVersion = 0x02
	FoxBasePlus         FileVersion = 0x03
	FoxPro              FileVersion = 0x30
	FoxProAutoincrement FileVersion = 0x31
	FoxProVar           FileVersion = 0x32
	DBaseSQLTable       FileVersion = 0x43
	DBaseSQLSystem      FileVersion = 0x63
	FoxBasePlusMemo     FileVersion = 0x83
	DBaseMemo           FileVersion = 0x8B
	DBaseSQLMemo        FileVersion = 0xCB
	FoxPro2Memo         FileVersion = 0xF5
	FoxBase2            FileVersion = 0xFB
)

// Versions this package has been tested with.
// Other versions can be opened by setting Config.Untested.
var testedVersions = map[FileVersion]string{
	FoxBasePlus:         "FoxBASE+/dBase III plus, no memo",
	FoxPro:              "Visual FoxPro",
	FoxProAutoincrement: "Visual FoxPro, autoincrement enabled",
	FoxProVar:           "Visual FoxPro, varchar or varbinary",
	FoxBasePlusMemo:     "FoxBASE+/dBase III plus, with memo",
	DBaseMemo:           "dBase IV with memo",
	FoxPro2Memo:         "FoxPro 2.x (or earlier) with memo",
}

func (v FileVersion) String() string {
	if name, ok := testedVersions[v]; ok {
		return name
	}
	return fmt.Sprintf("unknown (0x%02X)", byte(v))
}

// ValidateFileVersion returns ErrInvalidHeader for file versions that are not tested.
func ValidateFileVersion(version byte, untested bool) error {
	if untested {
		return nil
	}
	debugf("Validating file version: 0x%02X", version)
	if _, ok := testedVersions[FileVersion(version)]; !ok {
		return newError("dbase-constants-validatefileversion-1", fmt.Errorf("%w: untested file version 0x%02X", ErrInvalidHeader, version))
	}
	return nil
}

type Marker byte

const (
	Null      Marker = 0x00
	Blank     Marker = 0x20
	ColumnEnd Marker = 0x0D
	Active           = Blank
	Deleted   Marker = 0x2A
	EOFMarker Marker = 0x1A
	// Terminators of text in dBase III and dBase IV memo blocks
	MemoEnd      Marker = 0x1A
	MemoFieldEnd Marker = 0x1F
	// Sentinel written by dBase when a number does not fit its column
	Overflow Marker = 0x2A
)

type TableFlag byte

const (
	StructuralFlag TableFlag = 0x01
	MemoFlag       TableFlag = 0x02
	DatabaseFlag   TableFlag = 0x04
)

func (t TableFlag) Defined(flag byte) bool {
	return flag&byte(t) == byte(t)
}

type FileExtension string

const (
	DBC FileExtension = ".DBC"
	DCT FileExtension = ".DCT"
	DBF FileExtension = ".DBF"
	DBT FileExtension = ".DBT"
	FPT FileExtension = ".FPT"
)

// DataType defines the possible types of a column
type DataType byte

const (
	Character DataType = 0x43 // C - Character (string)
	Currency  DataType = 0x59 // Y - Currency (float64)
	Double    DataType = 0x42 // B - Double (float64)
	Date      DataType = 0x44 // D - Date (Date)
	DateTime  DataType = 0x54 // T - DateTime (DateTime)
	Float     DataType = 0x46 // F - Float (float64)
	Integer   DataType = 0x49 // I - Integer (int32)
	Logical   DataType = 0x4C // L - Logical (bool)
	Memo      DataType = 0x4D // M - Memo (string)
	Numeric   DataType = 0x4E // N - Numeric (float64)
)

// Returns the type of the column as string (length 1)
func (t DataType) String() string {
	return string(rune(t))
}

// Valid reports whether the type is one of the supported column types.
func (t DataType) Valid() bool {
	switch t {
	case Character, Currency, Double, Date, DateTime, Float, Integer, Logical, Memo, Numeric:
		return true
	}
	return false
}

// Size returns the fixed length of the type in bytes, or 0 if the length
// is defined by the column.
func (t DataType) Size() uint8 {
	switch t {
	case Logical:
		return 1
	case Integer:
		return 4
	case Date, Currency, DateTime, Double:
		return 8
	}
	return 0
}

// Reflect returns the Go type a present value of this column type converts to.
func (t DataType) Reflect() (reflect.Type, error) {
	switch t {
	case Character, Memo:
		return reflect.TypeOf(""), nil
	case Currency, Double, Float, Numeric:
		return reflect.TypeOf(float64(0)), nil
	case Date, DateTime:
		return reflect.TypeOf(time.Time{}), nil
	case Integer:
		return reflect.TypeOf(int32(0)), nil
	case Logical:
		return reflect.TypeOf(false), nil
	}
	return nil, newError("dbase-constants-reflect-1", fmt.Errorf("%w: %q", ErrInvalidFieldType, byte(t)))
}
