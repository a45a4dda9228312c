package dbase

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
)

// Builder collects the columns of a new table.
type Builder struct {
	converter EncodingConverter
	version   FileVersion
	columns   []*Column
	names     map[string]struct{}
}

// NewBuilder returns a Builder for a table without columns.
// The encoding is resolved immediately, an unknown label fails with ErrInvalidEncoding.
func NewBuilder(config *WriterConfig) (*Builder, error) {
	if config == nil {
		config = &WriterConfig{}
	}
	converter := config.Converter
	if converter == nil {
		if len(strings.TrimSpace(config.Encoding)) > 0 {
			c, err := ConverterFromLabel(config.Encoding)
			if err != nil {
				return nil, newError("dbase-builder-new-1", err)
			}
			converter = c
		} else {
			converter = NewDefaultConverter(charmap.Windows1252)
		}
	}
	version := config.Version
	if version == 0 {
		version = FoxBasePlus
	}
	// Only versions the reader accepts without Untested can be written
	if err := ValidateFileVersion(byte(version), false); err != nil {
		return nil, newError("dbase-builder-new-2", err)
	}
	return &Builder{
		converter: converter,
		version:   version,
		columns:   make([]*Column, 0),
		names:     make(map[string]struct{}),
	}, nil
}

// FromReader returns a Builder with the columns, version and encoding of an existing table.
func FromReader(r *Reader) (*Builder, error) {
	b, err := NewBuilder(&WriterConfig{
		Converter: r.Converter(),
		Version:   FileVersion(r.Header().FileType),
	})
	if err != nil {
		return nil, newError("dbase-builder-fromreader-1", err)
	}
	for _, column := range r.Columns() {
		if err := b.AddColumn(column); err != nil {
			return nil, newError("dbase-builder-fromreader-2", err)
		}
	}
	return b, nil
}

// AddColumn appends a copy of column to the table.
// The name must be unique and at most 10 bytes long in the encoding of the table.
func (b *Builder) AddColumn(column *Column) error {
	if column == nil {
		return newError("dbase-builder-addcolumn-1", fmt.Errorf("%w: column is nil", ErrInvalidColumn))
	}
	if column.Type() == Memo {
		return newError("dbase-builder-addcolumn-2", fmt.Errorf("%w: memo column %s can not be written", ErrUnsupported, column.Name()))
	}
	key := strings.ToUpper(column.Name())
	if _, ok := b.names[key]; ok {
		return newError("dbase-builder-addcolumn-3", fmt.Errorf("%w: %s", ErrDuplicateColumn, column.Name()))
	}
	c := *column
	if err := c.setName(b.converter); err != nil {
		return newError("dbase-builder-addcolumn-4", err)
	}
	b.names[key] = struct{}{}
	b.columns = append(b.columns, &c)
	debugf("Added column %s (%s, %d, %d)", c.Name(), c.Type(), c.Length, c.Decimals)
	return nil
}

func (b *Builder) addColumn(name string, dataType DataType, length uint8, decimals uint8) error {
	column, err := NewColumn(name, dataType, length, decimals)
	if err != nil {
		return err
	}
	return b.AddColumn(column)
}

func (b *Builder) AddCharacterColumn(name string, length uint8) error {
	return b.addColumn(name, Character, length, 0)
}

func (b *Builder) AddNumericColumn(name string, length uint8, decimals uint8) error {
	return b.addColumn(name, Numeric, length, decimals)
}

func (b *Builder) AddFloatColumn(name string, length uint8, decimals uint8) error {
	return b.addColumn(name, Float, length, decimals)
}

func (b *Builder) AddDateColumn(name string) error {
	return b.addColumn(name, Date, 0, 0)
}

func (b *Builder) AddLogicalColumn(name string) error {
	return b.addColumn(name, Logical, 0, 0)
}

func (b *Builder) AddIntegerColumn(name string) error {
	return b.addColumn(name, Integer, 0, 0)
}

func (b *Builder) AddCurrencyColumn(name string) error {
	return b.addColumn(name, Currency, 0, 0)
}

func (b *Builder) AddDoubleColumn(name string) error {
	return b.addColumn(name, Double, 0, 0)
}

func (b *Builder) AddDateTimeColumn(name string) error {
	return b.addColumn(name, DateTime, 0, 0)
}

// Build freezes the column layout and writes the header and the columns of an empty table to dst.
func (b *Builder) Build(dst io.WriteSeeker) (*Writer, error) {
	if len(b.columns) == 0 {
		return nil, newError("dbase-builder-build-1", fmt.Errorf("%w: table has no columns", ErrInvalidColumn))
	}
	columns := make([]*Column, len(b.columns))
	for i, column := range b.columns {
		c := *column
		columns[i] = &c
	}
	table, err := newTable(columns)
	if err != nil {
		return nil, newError("dbase-builder-build-2", err)
	}
	if table.RowLength() > 0xFFFF {
		return nil, newError("dbase-builder-build-3", fmt.Errorf("%w: row length %d exceeds 65535 bytes", ErrInvalidColumn, table.RowLength()))
	}
	for i, column := range columns {
		column.Position = uint32(table.offsets[i])
	}
	header := newHeader(b.version, b.converter.CodePage(), columns, time.Now())
	if header.backlink() {
		header.FirstRow += backlinkSize
	}
	w := &Writer{
		dst:         dst,
		header:      header,
		table:       table,
		interpreter: &Interpreter{Converter: b.converter},
		buf:         make([]byte, table.RowLength()),
	}
	if err := w.writeHeader(); err != nil {
		return nil, newError("dbase-builder-build-4", err)
	}
	if err := w.writeColumns(); err != nil {
		return nil, newError("dbase-builder-build-5", err)
	}
	return w, nil
}

// Writer appends records to a table created by a Builder.
// Close must be called to store the record count. A Writer is not safe for concurrent use.
type Writer struct {
	dst         io.WriteSeeker
	header      *Header
	table       *Table
	interpreter *Interpreter
	buf         []byte
	closers     []io.Closer
	closed      bool
}

func (w *Writer) writeHeader() error {
	debugf("Writing header: %+v", w.header)
	if _, err := w.dst.Seek(0, io.SeekStart); err != nil {
		return newError("dbase-writer-writeheader-1", err)
	}
	if _, err := w.dst.Write(w.header.bytes()); err != nil {
		return newError("dbase-writer-writeheader-2", err)
	}
	return nil
}

func (w *Writer) writeColumns() error {
	debugf("Writing %d columns", len(w.table.columns))
	raw := make([]byte, 0, int(w.header.FirstRow)-headerSize)
	for _, column := range w.table.columns {
		raw = append(raw, column.bytes()...)
	}
	raw = append(raw, byte(ColumnEnd))
	// Empty backlink of Visual FoxPro tables
	for len(raw) < int(w.header.FirstRow)-headerSize {
		raw = append(raw, 0x00)
	}
	if _, err := w.dst.Seek(headerSize, io.SeekStart); err != nil {
		return newError("dbase-writer-writecolumns-1", err)
	}
	if _, err := w.dst.Write(raw); err != nil {
		return newError("dbase-writer-writecolumns-2", err)
	}
	return nil
}

// Returns the header of the table, the record count includes all written records
func (w *Writer) Header() *Header {
	return w.header
}

// Returns the column layout
func (w *Writer) Table() *Table {
	return w.table
}

// Returns all columns
func (w *Writer) Columns() []*Column {
	return w.table.Columns()
}

// Write appends a record with one value per column, in column order.
// If a value does not match its column nothing is written.
func (w *Writer) Write(values ...Value) error {
	if err := w.write(values, false); err != nil {
		return newError("dbase-writer-write-1", err)
	}
	return nil
}

// WriteRecord appends the values of rec, keeping its deletion flag.
func (w *Writer) WriteRecord(rec *Record) error {
	if err := w.write(rec.Values(), rec.Deleted); err != nil {
		return newError("dbase-writer-writerecord-1", err)
	}
	return nil
}

// WriteMap appends a record from column names (case-insensitive) to values.
// Missing columns are written empty, unknown names fail with ErrInvalidColumn.
func (w *Writer) WriteMap(m map[string]Value) error {
	values := make([]Value, len(w.table.columns))
	for name, v := range m {
		pos := w.table.ColumnPosByName(name)
		if pos < 0 {
			return newError("dbase-writer-writemap-1", fmt.Errorf("%w: column %q not found", ErrInvalidColumn, name))
		}
		values[pos] = v
	}
	for i, column := range w.table.columns {
		if values[i] == nil {
			values[i] = emptyValue(column.Type())
		}
	}
	if err := w.write(values, false); err != nil {
		return newError("dbase-writer-writemap-2", err)
	}
	return nil
}

func (w *Writer) write(values []Value, deleted bool) error {
	if w.closed {
		return ErrClosed
	}
	if len(values) != len(w.table.columns) {
		return fmt.Errorf("%w: %d values for %d columns", ErrColumnCount, len(values), len(w.table.columns))
	}
	for i := range w.buf {
		w.buf[i] = byte(Blank)
	}
	if deleted {
		w.buf[0] = byte(Deleted)
	}
	for i, column := range w.table.columns {
		if err := w.interpreter.Represent(values[i], column, w.table.slot(w.buf, i)); err != nil {
			return err
		}
	}
	if _, err := w.dst.Seek(w.header.RecordOffset(w.header.RowsCount), io.SeekStart); err != nil {
		return err
	}
	if _, err := w.dst.Write(w.buf); err != nil {
		return err
	}
	w.header.RowsCount++
	return nil
}

// Close writes the record count, the modification date and the end of file marker.
// Files opened by Create are closed as well.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var errs []error
	w.header.setModified(time.Now())
	if err := w.writeHeader(); err != nil {
		errs = append(errs, err)
	} else if _, err := w.dst.Seek(w.header.FileSize(), io.SeekStart); err != nil {
		errs = append(errs, err)
	} else if _, err := w.dst.Write([]byte{byte(EOFMarker)}); err != nil {
		errs = append(errs, err)
	}
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return newError("dbase-writer-close-1", err)
	}
	debugf("Closed table with %d records", w.header.RowsCount)
	return nil
}

// emptyValue returns the value written for a column without a value.
func emptyValue(t DataType) Value {
	switch t {
	case Character:
		return CharacterValue{}
	case Numeric:
		return NumericValue{}
	case Float:
		return FloatValue{}
	case Date:
		return DateValue{}
	case Logical:
		return LogicalValue{}
	case Integer:
		return IntegerValue(0)
	case Currency:
		return CurrencyValue(0)
	case Double:
		return DoubleValue(0)
	case DateTime:
		return DateTimeValue{}
	}
	return MemoValue("")
}
