package dbase

import (
	"errors"
	"io"
)

// seekBuffer is an in-memory io.ReadWriteSeeker.
type seekBuffer struct {
	data []byte
	pos  int64
}

func newSeekBuffer(data []byte) *seekBuffer {
	return &seekBuffer{data: append([]byte(nil), data...)}
}

func (b *seekBuffer) Read(p []byte) (int, error) {
	if b.pos >= int64(len(b.data)) {
		return 0, io.EOF
	}
	n := copy(p, b.data[b.pos:])
	b.pos += int64(n)
	return n, nil
}

func (b *seekBuffer) Write(p []byte) (int, error) {
	end := b.pos + int64(len(p))
	if end > int64(len(b.data)) {
		grown := make([]byte, end)
		copy(grown, b.data)
		b.data = grown
	}
	copy(b.data[b.pos:], p)
	b.pos = end
	return len(p), nil
}

func (b *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = b.pos + offset
	case io.SeekEnd:
		pos = int64(len(b.data)) + offset
	}
	if pos < 0 {
		return 0, errors.New("negative position")
	}
	b.pos = pos
	return pos, nil
}

func (b *seekBuffer) Bytes() []byte {
	return b.data
}
