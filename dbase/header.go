package dbase

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

const (
	headerSize = 32
	columnSize = 32
	// Visual FoxPro stores the path of the owning database container after the column terminator
	backlinkSize = 263
)

// Containing DBF header information like dBase FileType, last change and rows count.
// https://docs.microsoft.com/en-us/previous-versions/visualstudio/foxpro/st4a0s68(v=vs.80)#table-header-record-structure
type Header struct {
	FileType   byte     // File type flag
	Year       uint8    // Last update year (years since 1900)
	Month      uint8    // Last update month
	Day        uint8    // Last update day
	RowsCount  uint32   // Number of rows in file
	FirstRow   uint16   // Position of first data row
	RowLength  uint16   // Length of one data row, including delete flag
	Reserved   [16]byte // Reserved
	TableFlags byte     // Table flags
	CodePage   byte     // Code page mark
}

// newHeader returns the header of an empty table with the given layout.
func newHeader(version FileVersion, codePage byte, columns []*Column, modified time.Time) *Header {
	h := &Header{
		FileType:  byte(version),
		FirstRow:  uint16(headerSize + columnSize*len(columns) + 1),
		RowLength: 1,
		CodePage:  codePage,
	}
	for _, column := range columns {
		h.RowLength += uint16(column.Length)
	}
	h.setModified(modified)
	return h
}

func readHeader(r io.Reader) (*Header, error) {
	b := make([]byte, headerSize)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, newError("dbase-header-read-1", fmt.Errorf("%w: reading header failed: %w", ErrInvalidHeader, err))
	}
	// LittleEndian - Integers in table files are stored with the least significant byte first.
	h := &Header{
		FileType:   b[0],
		Year:       b[1],
		Month:      b[2],
		Day:        b[3],
		RowsCount:  binary.LittleEndian.Uint32(b[4:8]),
		FirstRow:   binary.LittleEndian.Uint16(b[8:10]),
		RowLength:  binary.LittleEndian.Uint16(b[10:12]),
		TableFlags: b[28],
		CodePage:   b[29],
	}
	copy(h.Reserved[:], b[12:28])
	debugf("Header: %+v", h)
	if h.RowLength == 0 {
		return nil, newError("dbase-header-read-2", fmt.Errorf("%w: row length is zero", ErrInvalidHeader))
	}
	if h.FirstRow < headerSize+1 {
		return nil, newError("dbase-header-read-3", fmt.Errorf("%w: header length %d is too small", ErrInvalidHeader, h.FirstRow))
	}
	return h, nil
}

func (h *Header) bytes() []byte {
	b := make([]byte, headerSize)
	b[0] = h.FileType
	b[1] = h.Year
	b[2] = h.Month
	b[3] = h.Day
	binary.LittleEndian.PutUint32(b[4:8], h.RowsCount)
	binary.LittleEndian.PutUint16(b[8:10], h.FirstRow)
	binary.LittleEndian.PutUint16(b[10:12], h.RowLength)
	copy(b[12:28], h.Reserved[:])
	b[28] = h.TableFlags
	b[29] = h.CodePage
	return b
}

func (h *Header) setModified(t time.Time) {
	h.Year = uint8(t.Year() - 1900)
	h.Month = uint8(t.Month())
	h.Day = uint8(t.Day())
}

// Modified returns the last update date. The year byte counts the years since 1900.
func (h *Header) Modified() time.Time {
	return time.Date(1900+int(h.Year), time.Month(h.Month), int(h.Day), 0, 0, 0, 0, time.Local)
}

// Returns the calculated number of columns from the header info alone (without the need to read the columninfo from the header).
func (h *Header) ColumnsCount() uint16 {
	size := h.FirstRow - headerSize - 1
	if h.backlink() && size >= backlinkSize {
		size -= backlinkSize
	}
	return size / columnSize
}

// Returns the amount of records in the table
func (h *Header) RecordsCount() uint32 {
	return h.RowsCount
}

// Returns the size of the table file in bytes, without the end of file marker
func (h *Header) FileSize() int64 {
	return int64(h.FirstRow) + int64(h.RowsCount)*int64(h.RowLength)
}

// RecordOffset returns the byte offset of the record slot at pos.
// Callers reading a table in parallel use it to partition record ranges.
func (h *Header) RecordOffset(pos uint32) int64 {
	return int64(h.FirstRow) + int64(pos)*int64(h.RowLength)
}

// HasMemo reports whether the table references a memo file.
func (h *Header) HasMemo() bool {
	return h.FileType&0x80 != 0 || MemoFlag.Defined(h.TableFlags)
}

func (h *Header) backlink() bool {
	switch FileVersion(h.FileType) {
	case FoxPro, FoxProAutoincrement, FoxProVar:
		return true
	}
	return false
}
