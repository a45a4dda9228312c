package dbase

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	memoHeaderSize       = 512
	defaultMemoBlockSize = 512
)

// MemoDialect is the layout of a memo file.
type MemoDialect int

const (
	// dBase III: text fills whole blocks and ends with 0x1A
	MemoDBase3 MemoDialect = iota
	// dBase IV: every entry starts with a 4 byte tag and a little endian length
	MemoDBase4
	// FoxBase and FoxPro: every entry starts with a big endian type and length
	MemoFoxBase
)

func (d MemoDialect) String() string {
	switch d {
	case MemoDBase3:
		return "dBase III"
	case MemoDBase4:
		return "dBase IV"
	case MemoFoxBase:
		return "FoxBase"
	}
	return fmt.Sprintf("MemoDialect(%d)", int(d))
}

// The header of the Memo file.
type MemoHeader struct {
	NextFree  uint32 // Location of next free block
	BlockSize uint32 // Block size (bytes per block)
}

// dBase IV marks used memo entries with this signature
var dBase4Signature = []byte{0xFF, 0xFF, 0x08, 0x00}

// MemoReader resolves block indexes of memo columns to their content.
// It reuses one buffer for all reads and is not safe for concurrent use.
type MemoReader struct {
	src     io.ReadSeeker
	size    int64
	header  MemoHeader
	dialect MemoDialect
	buf     []byte
}

// NewMemoReader reads the memo header and detects the dialect from it.
func NewMemoReader(src io.ReadSeeker) (*MemoReader, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, newError("dbase-memo-new-1", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, newError("dbase-memo-new-1", err)
	}
	raw := make([]byte, memoHeaderSize)
	n, err := io.ReadFull(src, raw)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, newError("dbase-memo-new-2", fmt.Errorf("%w: reading memo header failed: %w", ErrInvalidHeader, err))
	}
	if n < 8 {
		return nil, newError("dbase-memo-new-3", fmt.Errorf("%w: memo header has only %d bytes", ErrInvalidHeader, n))
	}
	dialect, header, err := DetectMemoDialect(raw[:n], src)
	if err != nil {
		return nil, newError("dbase-memo-new-4", err)
	}
	debugf("Memo header: %+v dialect: %s", header, dialect)
	return &MemoReader{
		src:     src,
		size:    size,
		header:  header,
		dialect: dialect,
		buf:     make([]byte, header.BlockSize),
	}, nil
}

// DetectMemoDialect determines the dialect and header of a memo file from its first bytes.
// FoxPro stores a big endian block size at bytes 6-7 and leaves bytes 4-5 empty,
// dBase stores it little endian at byte 4 or 20. If src is not nil the first
// block is checked for the dBase IV entry signature.
func DetectMemoDialect(raw []byte, src io.ReadSeeker) (MemoDialect, MemoHeader, error) {
	if len(raw) < 8 {
		return 0, MemoHeader{}, newError("dbase-memo-detect-1", fmt.Errorf("%w: memo header too short", ErrInvalidHeader))
	}
	if raw[4] == 0 && raw[5] == 0 && binary.BigEndian.Uint16(raw[6:8]) != 0 {
		return MemoFoxBase, MemoHeader{
			NextFree:  binary.BigEndian.Uint32(raw[0:4]),
			BlockSize: uint32(binary.BigEndian.Uint16(raw[6:8])),
		}, nil
	}
	header := MemoHeader{
		NextFree:  binary.LittleEndian.Uint32(raw[0:4]),
		BlockSize: uint32(binary.LittleEndian.Uint16(raw[4:6])),
	}
	var version byte
	var length uint16
	if len(raw) >= 22 {
		version = raw[16]
		length = binary.LittleEndian.Uint16(raw[20:22])
	}
	if header.BlockSize == 0 {
		header.BlockSize = uint32(length)
	}
	if header.BlockSize == 0 {
		header.BlockSize = defaultMemoBlockSize
	}
	if src != nil && header.NextFree > 1 {
		sig := make([]byte, len(dBase4Signature))
		if _, err := src.Seek(int64(header.BlockSize), io.SeekStart); err != nil {
			return 0, MemoHeader{}, newError("dbase-memo-detect-2", err)
		}
		if _, err := io.ReadFull(src, sig); err == nil && bytes.Equal(sig, dBase4Signature) {
			return MemoDBase4, header, nil
		}
	}
	if version == 0 && length != 0 {
		return MemoDBase4, header, nil
	}
	return MemoDBase3, header, nil
}

// Header returns the parsed memo header.
func (m *MemoReader) Header() MemoHeader {
	return m.header
}

// Dialect returns the detected memo dialect.
func (m *MemoReader) Dialect() MemoDialect {
	return m.dialect
}

// ReadMemo returns the raw content of the memo starting at block.
// The returned slice is only valid until the next call.
func (m *MemoReader) ReadMemo(block uint32) ([]byte, error) {
	if block == 0 {
		return m.buf[:0], nil
	}
	position := int64(m.header.BlockSize) * int64(block)
	debugf("Reading memo block %d at position %d", block, position)
	if _, err := m.src.Seek(position, io.SeekStart); err != nil {
		return nil, newError("dbase-memo-read-1", err)
	}
	switch m.dialect {
	case MemoFoxBase:
		return m.readFoxBase()
	case MemoDBase4:
		return m.readDBase4()
	default:
		return m.readDBase3(block)
	}
}

func (m *MemoReader) readFoxBase() ([]byte, error) {
	// block type and length, both big endian
	hbuf := make([]byte, 8)
	if _, err := io.ReadFull(m.src, hbuf); err != nil {
		return nil, newError("dbase-memo-readfoxbase-1", err)
	}
	length := binary.BigEndian.Uint32(hbuf[4:])
	data, err := m.readLength(length)
	if err != nil {
		return nil, newError("dbase-memo-readfoxbase-2", err)
	}
	for i := len(data) - 1; i >= 0; i-- {
		if data[i] != 0 {
			return data[:i+1], nil
		}
	}
	return data[:0], nil
}

func (m *MemoReader) readDBase4() ([]byte, error) {
	hbuf := make([]byte, 8)
	if _, err := io.ReadFull(m.src, hbuf); err != nil {
		return nil, newError("dbase-memo-readdbase4-1", err)
	}
	length := binary.LittleEndian.Uint32(hbuf[4:])
	data, err := m.readLength(length)
	if err != nil {
		return nil, newError("dbase-memo-readdbase4-2", err)
	}
	if i := bytes.IndexByte(data, byte(MemoFieldEnd)); i >= 0 {
		return data[:i], nil
	}
	return data, nil
}

func (m *MemoReader) readDBase3(block uint32) ([]byte, error) {
	n, err := io.ReadFull(m.src, m.buf[:m.header.BlockSize])
	if err != nil {
		// The last block is allowed to be truncated
		last := m.header.NextFree > 0 && block == m.header.NextFree-1
		if !last || !(errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) {
			return nil, newError("dbase-memo-readdbase3-1", err)
		}
		debugf("Tolerating short read of %d bytes in last memo block %d", n, block)
	}
	data := m.buf[:n]
	if i := bytes.IndexByte(data, byte(MemoEnd)); i >= 0 {
		return data[:i], nil
	}
	return data, nil
}

// readLength reads length bytes into the buffer, growing it if needed.
// Lengths beyond the end of the file fail before anything is allocated.
func (m *MemoReader) readLength(length uint32) ([]byte, error) {
	pos, err := m.src.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	if left := m.size - pos; int64(length) > left {
		return nil, fmt.Errorf("%w: memo of %d bytes with %d bytes left in the file: %w", ErrIncomplete, length, left, io.ErrUnexpectedEOF)
	}
	if int64(length) > int64(cap(m.buf)) {
		m.buf = make([]byte, length)
	}
	m.buf = m.buf[:cap(m.buf)]
	data := m.buf[:length]
	if _, err := io.ReadFull(m.src, data); err != nil {
		return nil, fmt.Errorf("%w: memo of %d bytes: %w", ErrIncomplete, length, err)
	}
	return data, nil
}
