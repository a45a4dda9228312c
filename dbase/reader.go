package dbase

import (
	"errors"
	"fmt"
	"io"
	"iter"
)

// Reader decodes the records of a dBase table from a stream.
// A Reader is not safe for concurrent use; open one Reader per goroutine instead.
type Reader struct {
	config      *Config
	src         io.ReadSeeker
	header      *Header
	table       *Table
	interpreter *Interpreter
	memo        *MemoReader
	buf         []byte
	pointer     uint32
	end         bool // set when the data ends before the record count of the header
	closers     []io.Closer
	closed      bool
}

// NewReader parses the header and columns of the table in src.
// memo is the stream of the memo file and may be nil if the table has no memo columns.
func NewReader(src io.ReadSeeker, memo io.ReadSeeker, config *Config) (*Reader, error) {
	if config == nil {
		config = &Config{}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, newError("dbase-reader-new-1", err)
	}
	header, err := readHeader(src)
	if err != nil {
		return nil, newError("dbase-reader-new-2", err)
	}
	// Check if the fileversion flag is expected, expand testedVersions if needed
	if err := ValidateFileVersion(header.FileType, config.Untested); err != nil {
		return nil, newError("dbase-reader-new-3", err)
	}
	converter, err := resolveConverter(config.Converter, config.Encoding, header.CodePage)
	if err != nil {
		return nil, newError("dbase-reader-new-4", err)
	}
	debugf("Code page: 0x%02X => converter: 0x%02X", header.CodePage, converter.CodePage())
	if config.ValidateCodePage && header.CodePage != converter.CodePage() {
		return nil, newError("dbase-reader-new-5", fmt.Errorf("%w: code page mark mismatch: 0x%02X != 0x%02X", ErrInvalidEncoding, header.CodePage, converter.CodePage()))
	}
	columns, err := readColumns(src, header, converter)
	if err != nil {
		return nil, newError("dbase-reader-new-6", err)
	}
	table, err := newTable(columns)
	if err != nil {
		return nil, newError("dbase-reader-new-7", err)
	}
	if table.RowLength() != int(header.RowLength) {
		return nil, newError("dbase-reader-new-8", fmt.Errorf("%w: row length %d does not match the columns (%d)", ErrInvalidHeader, header.RowLength, table.RowLength()))
	}
	r := &Reader{
		config:      config,
		src:         src,
		header:      header,
		table:       table,
		interpreter: &Interpreter{Converter: converter},
		buf:         make([]byte, header.RowLength),
	}
	if memo != nil {
		r.memo, err = NewMemoReader(memo)
		if err != nil {
			return nil, newError("dbase-reader-new-9", err)
		}
	} else if header.HasMemo() {
		debugf("Table signals a memo file but none was given")
	}
	return r, nil
}

// readColumns parses the column descriptors between the header and the first row.
func readColumns(src io.Reader, header *Header, converter EncodingConverter) ([]*Column, error) {
	debugf("Reading columns...")
	raw := make([]byte, int(header.FirstRow)-headerSize)
	if _, err := io.ReadFull(src, raw); err != nil {
		return nil, newError("dbase-reader-readcolumns-1", fmt.Errorf("%w: reading columns failed: %w", ErrInvalidHeader, err))
	}
	columns := make([]*Column, 0)
	for offset := 0; ; offset += columnSize {
		if offset >= len(raw) {
			return nil, newError("dbase-reader-readcolumns-2", fmt.Errorf("%w: missing column terminator", ErrInvalidHeader))
		}
		if raw[offset] == byte(ColumnEnd) {
			break
		}
		if offset+columnSize >= len(raw) {
			return nil, newError("dbase-reader-readcolumns-3", fmt.Errorf("%w: column %d exceeds the header", ErrInvalidHeader, len(columns)))
		}
		column, err := parseColumn(raw[offset:offset+columnSize], converter)
		if err != nil {
			return nil, newError("dbase-reader-readcolumns-4", err)
		}
		columns = append(columns, column)
	}
	return columns, nil
}

// Returns the table header
func (r *Reader) Header() *Header {
	return r.header
}

// Returns the column layout
func (r *Reader) Table() *Table {
	return r.table
}

// Returns all columns
func (r *Reader) Columns() []*Column {
	return r.table.Columns()
}

// Returns the number of records according to the header
func (r *Reader) RecordsCount() uint32 {
	return r.header.RowsCount
}

// Returns the encoding converter used for text columns
func (r *Reader) Converter() EncodingConverter {
	return r.interpreter.Converter
}

// Returns the memo reader, nil if no memo file was given
func (r *Reader) Memo() *MemoReader {
	return r.memo
}

// Returns the position of the next record read by Next
func (r *Reader) Pointer() uint32 {
	return r.pointer
}

// Reports whether the pointer is past the last record
func (r *Reader) EOF() bool {
	return r.end || r.pointer >= r.header.RowsCount
}

// Reports whether the pointer is at the first record
func (r *Reader) BOF() bool {
	return r.pointer == 0
}

// GoTo moves the pointer to the record at pos.
func (r *Reader) GoTo(pos uint32) error {
	if pos > r.header.RowsCount {
		r.pointer = r.header.RowsCount
		return newError("dbase-reader-goto-1", fmt.Errorf("%w: go to %d > %d", ErrEOF, pos, r.header.RowsCount))
	}
	debugf("Going to record: %d", pos)
	r.pointer = pos
	r.end = false
	return nil
}

// Skip moves the pointer by offset records, bounded by the first and last record.
func (r *Reader) Skip(offset int64) {
	pos := int64(r.pointer) + offset
	if pos > int64(r.header.RowsCount) {
		pos = int64(r.header.RowsCount)
	}
	if pos < 0 {
		pos = 0
	}
	r.pointer = uint32(pos)
	r.end = false
	debugf("Skipping %d record/s, new position: %d", offset, r.pointer)
}

// Next returns the record at the pointer and advances it, also past a record that
// fails to decode. At the end of the table an error matching ErrEOF and io.EOF is returned.
func (r *Reader) Next() (*Record, error) {
	if r.closed {
		return nil, newError("dbase-reader-next-1", ErrClosed)
	}
	if r.EOF() {
		return nil, newError("dbase-reader-next-2", errEnd)
	}
	rec, err := r.read(r.pointer)
	if errors.Is(err, ErrEOF) {
		r.end = true
		return nil, newError("dbase-reader-next-3", err)
	}
	r.pointer++
	if err != nil {
		return nil, newError("dbase-reader-next-4", err)
	}
	return rec, nil
}

// Record returns the record at the pointer without advancing it.
func (r *Reader) Record() (*Record, error) {
	rec, err := r.ReadRecord(r.pointer)
	if err != nil {
		return nil, newError("dbase-reader-record-1", err)
	}
	return rec, nil
}

// ReadRecord returns the record at pos. The pointer is not moved.
func (r *Reader) ReadRecord(pos uint32) (*Record, error) {
	if r.closed {
		return nil, newError("dbase-reader-readrecord-1", ErrClosed)
	}
	if pos >= r.header.RowsCount {
		return nil, newError("dbase-reader-readrecord-2", errEnd)
	}
	rec, err := r.read(pos)
	if err != nil {
		return nil, newError("dbase-reader-readrecord-3", err)
	}
	return rec, nil
}

var errEnd = fmt.Errorf("%w: %w", ErrEOF, io.EOF)

func (r *Reader) read(pos uint32) (*Record, error) {
	offset := r.header.RecordOffset(pos)
	if _, err := r.src.Seek(offset, io.SeekStart); err != nil {
		return nil, newError("dbase-reader-read-1", err)
	}
	n, err := io.ReadFull(r.src, r.buf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			// Some writers report more records than they wrote
			debugf("Data ends at record %d (%d bytes read) before the record count %d", pos, n, r.header.RowsCount)
			return nil, newError("dbase-reader-read-2", errEnd)
		}
		return nil, newError("dbase-reader-read-3", err)
	}
	if r.buf[0] == byte(EOFMarker) {
		debugf("End of file marker at record %d before the record count %d", pos, r.header.RowsCount)
		return nil, newError("dbase-reader-read-4", errEnd)
	}
	rec := newRecord(r.table, pos, r.buf[0] == byte(Deleted))
	rec.trimSpaces = r.config.TrimSpaces
	for i, column := range r.table.columns {
		value, err := r.interpreter.Interpret(r.table.slot(r.buf, i), column, r.memo)
		if err != nil {
			errorf("Record %d: %v", pos, err)
			return nil, newError("dbase-reader-read-5", err)
		}
		rec.fields = append(rec.fields, &Field{column: column, value: value})
	}
	return rec, nil
}

// Records returns all records from the first one, optionally without deleted ones.
// The pointer is left at the end of the table.
func (r *Reader) Records(skipDeleted bool) ([]*Record, error) {
	if err := r.GoTo(0); err != nil {
		return nil, newError("dbase-reader-records-1", err)
	}
	records := make([]*Record, 0, r.header.RowsCount)
	for rec, err := range r.All() {
		if err != nil {
			return nil, newError("dbase-reader-records-2", err)
		}
		if skipDeleted && rec.Deleted {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// All iterates over the records from the pointer to the end of the table.
// Iteration stops after the first error.
func (r *Reader) All() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, ErrEOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// Close releases the files and locks opened by Open. Streams passed to NewReader are not closed.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return newError("dbase-reader-close-1", err)
	}
	return nil
}
