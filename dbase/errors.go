package dbase

import "errors"

var (
	// returned when the end of a dBase table is reached
	ErrEOF = errors.New("EOF")
	// returned when the row pointer is attempted to be moved before the first row
	ErrBOF = errors.New("BOF")
	// returned when the read of a row or column did not finish
	ErrIncomplete = errors.New("INCOMPLETE")
	// returned when the table header or a column descriptor is malformed
	ErrInvalidHeader = errors.New("INVALID_HEADER")
	// returned when a column uses an unknown type byte
	ErrInvalidFieldType = errors.New("INVALID_FIELD_TYPE")
	// returned when a memo field is read without a memo file
	ErrNoMemoFile = errors.New("MEMO_FILE_NOT_FOUND")
	// returned when the requested code page is unknown
	ErrInvalidEncoding = errors.New("INVALID_ENCODING")
	// returned when text can not be represented in the code page of the table
	ErrEncoding = errors.New("ENCODING_FAILED")
	// returned when a value is written to a column of a different type
	ErrIncompatibleType = errors.New("INCOMPATIBLE_TYPE")
	// returned when a numeric column or memo index does not contain a number
	ErrInvalidNumber = errors.New("INVALID_NUMBER")
	// returned when a date column does not contain YYYYMMDD
	ErrInvalidDate = errors.New("INVALID_DATE")
	// returned when a value does not fit into its column
	ErrValueTooLong = errors.New("VALUE_TOO_LONG")
	// returned when writing memo values, which is not supported
	ErrUnsupported = errors.New("UNSUPPORTED")
	// returned when a column name is used twice in one table
	ErrDuplicateColumn = errors.New("DUPLICATE_COLUMN")
	// returned when a column definition is invalid or a column does not exist
	ErrInvalidColumn = errors.New("INVALID_COLUMN")
	// returned when a record does not have one value per column
	ErrColumnCount = errors.New("COLUMN_COUNT_MISMATCH")
	// returned when a closed reader or writer is used
	ErrClosed = errors.New("CLOSED")
)
