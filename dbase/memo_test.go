package dbase

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pad extends b with fill up to length.
func pad(b []byte, length int, fill byte) []byte {
	for len(b) < length {
		b = append(b, fill)
	}
	return b
}

// foxProMemo returns a FoxPro memo file with a block size of 64:
// block 8 "hello", block 9 a 90 byte text with zero padding, block 11 an empty entry.
func foxProMemo(t *testing.T) []byte {
	t.Helper()
	data := make([]byte, 512)
	binary.BigEndian.PutUint32(data[0:4], 12)
	binary.BigEndian.PutUint16(data[6:8], 64)

	entry := func(payload []byte) []byte {
		b := make([]byte, 8)
		binary.BigEndian.PutUint32(b[0:4], 1)
		binary.BigEndian.PutUint32(b[4:8], uint32(len(payload)))
		return append(b, payload...)
	}
	data = append(data, pad(entry([]byte("hello")), 64, 0)...)
	long := append(bytes.Repeat([]byte{'a'}, 90), make([]byte, 10)...)
	data = append(data, pad(entry(long), 128, 0)...)
	data = append(data, pad(entry(make([]byte, 4)), 64, 0)...)
	require.Len(t, data, 768)
	return data
}

// dBase4Memo returns a dBase IV memo file with a block size of 512.
func dBase4Memo(t *testing.T) []byte {
	t.Helper()
	data := make([]byte, 512)
	binary.LittleEndian.PutUint32(data[0:4], 4)
	binary.LittleEndian.PutUint16(data[20:22], 512)

	entry := func(length int, payload []byte) []byte {
		b := append([]byte{}, dBase4Signature...)
		b = binary.LittleEndian.AppendUint32(b, uint32(length))
		return append(b, payload...)
	}
	data = append(data, pad(entry(12, []byte("Hello\x1f\x1fjunk!")), 512, 0)...)
	data = append(data, pad(entry(4, []byte("abcd")), 512, 0)...)
	// the file ends inside the last entry
	data = append(data, entry(14, []byte("tail!\x1f"))...)
	return data
}

// dBase3Memo returns a dBase III memo file whose last block is truncated.
func dBase3Memo(t *testing.T, nextFree uint32) []byte {
	t.Helper()
	data := make([]byte, 512)
	binary.LittleEndian.PutUint32(data[0:4], nextFree)
	data[16] = 0x03
	data = append(data, pad([]byte("memo one\x1a\x1a"), 512, ' ')...)
	data = append(data, []byte("short")...)
	return data
}

func TestDetectMemoDialect(t *testing.T) {
	dialect, header, err := DetectMemoDialect(foxProMemo(t)[:512], nil)
	require.NoError(t, err)
	assert.Equal(t, MemoFoxBase, dialect)
	assert.Equal(t, MemoHeader{NextFree: 12, BlockSize: 64}, header)

	dialect, header, err = DetectMemoDialect(dBase4Memo(t)[:512], nil)
	require.NoError(t, err)
	assert.Equal(t, MemoDBase4, dialect)
	assert.Equal(t, MemoHeader{NextFree: 4, BlockSize: 512}, header)

	dialect, header, err = DetectMemoDialect(dBase3Memo(t, 3)[:512], nil)
	require.NoError(t, err)
	assert.Equal(t, MemoDBase3, dialect)
	assert.Equal(t, MemoHeader{NextFree: 3, BlockSize: 512}, header)

	raw := make([]byte, 512)
	binary.LittleEndian.PutUint32(raw[0:4], 1)
	binary.LittleEndian.PutUint16(raw[4:6], 1024)
	raw[16] = 0x03
	dialect, header, err = DetectMemoDialect(raw, nil)
	require.NoError(t, err)
	assert.Equal(t, MemoDBase3, dialect)
	assert.Equal(t, uint32(1024), header.BlockSize)

	_, _, err = DetectMemoDialect(raw[:4], nil)
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestDetectMemoDialectSignature(t *testing.T) {
	// dBase IV file without block length at offset 20, detected by the entry signature
	data := dBase4Memo(t)
	data[16] = 0x03
	binary.LittleEndian.PutUint16(data[20:22], 0)
	memo, err := NewMemoReader(newSeekBuffer(data))
	require.NoError(t, err)
	assert.Equal(t, MemoDBase4, memo.Dialect())
	assert.Equal(t, uint32(512), memo.Header().BlockSize)
}

func TestMemoReaderFoxBase(t *testing.T) {
	memo, err := NewMemoReader(newSeekBuffer(foxProMemo(t)))
	require.NoError(t, err)
	assert.Equal(t, MemoFoxBase, memo.Dialect())

	data, err := memo.ReadMemo(8)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	data, err = memo.ReadMemo(9)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{'a'}, 90), data)

	data, err = memo.ReadMemo(11)
	require.NoError(t, err)
	assert.Empty(t, data)

	data, err = memo.ReadMemo(0)
	require.NoError(t, err)
	assert.Empty(t, data)

	_, err = memo.ReadMemo(40)
	assert.Error(t, err)
}

func TestMemoReaderDBase4(t *testing.T) {
	memo, err := NewMemoReader(newSeekBuffer(dBase4Memo(t)))
	require.NoError(t, err)
	assert.Equal(t, MemoDBase4, memo.Dialect())

	data, err := memo.ReadMemo(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), data)

	data, err = memo.ReadMemo(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), data)

	// only the last dBase III block may be truncated
	_, err = memo.ReadMemo(3)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestMemoReaderLengthBeyondFile(t *testing.T) {
	data := foxProMemo(t)
	entry := make([]byte, 8)
	binary.BigEndian.PutUint32(entry[0:4], 1)
	binary.BigEndian.PutUint32(entry[4:8], 0xFFFFFFF0)
	data = append(data, pad(append(entry, "abc"...), 64, 0)...)

	memo, err := NewMemoReader(newSeekBuffer(data))
	require.NoError(t, err)
	_, err = memo.ReadMemo(12)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Less(t, cap(memo.buf), 1<<16, "the declared length is not allocated")

	got, err := memo.ReadMemo(8)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)
}

func TestMemoReaderDBase3(t *testing.T) {
	memo, err := NewMemoReader(newSeekBuffer(dBase3Memo(t, 3)))
	require.NoError(t, err)
	assert.Equal(t, MemoDBase3, memo.Dialect())

	data, err := memo.ReadMemo(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("memo one"), data)

	// the last block may be truncated
	data, err = memo.ReadMemo(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("short"), data)

	_, err = memo.ReadMemo(5)
	assert.True(t, errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF))
}

func TestMemoReaderDBase3TruncatedBlock(t *testing.T) {
	memo, err := NewMemoReader(newSeekBuffer(dBase3Memo(t, 10)))
	require.NoError(t, err)
	_, err = memo.ReadMemo(2)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestMemoReaderInvalidHeader(t *testing.T) {
	_, err := NewMemoReader(newSeekBuffer([]byte{1, 2, 3}))
	assert.ErrorIs(t, err, ErrInvalidHeader)
}

func TestMemoDialectString(t *testing.T) {
	assert.Equal(t, "dBase III", MemoDBase3.String())
	assert.Equal(t, "dBase IV", MemoDBase4.String())
	assert.Equal(t, "FoxBase", MemoFoxBase.String())
}
