package dbase

import (
	"fmt"

	"github.com/axgle/mahonia"
)

// MahoniaConverter implements EncodingConverter with the charset tables of
// github.com/axgle/mahonia, for code pages missing in golang.org/x/text.
type MahoniaConverter struct {
	charset  string
	codePage byte
	decoder  mahonia.Decoder
	encoder  mahonia.Encoder
}

// NewMahoniaConverter returns a converter for a mahonia charset name like "gbk" or "cp850".
// codePage is the mark written to the header of new tables.
func NewMahoniaConverter(charset string, codePage byte) (*MahoniaConverter, error) {
	decoder := mahonia.NewDecoder(charset)
	encoder := mahonia.NewEncoder(charset)
	if decoder == nil || encoder == nil {
		return nil, newError("dbase-mahonia-new-1", fmt.Errorf("%w: unknown charset %q", ErrInvalidEncoding, charset))
	}
	return &MahoniaConverter{charset: charset, codePage: codePage, decoder: decoder, encoder: encoder}, nil
}

// Decode is lossy, invalid sequences become the unicode replacement character.
func (c *MahoniaConverter) Decode(in []byte) ([]byte, error) {
	return []byte(c.decoder.ConvertString(string(in))), nil
}

// Encode fails with ErrEncoding on the first rune the charset has no mapping for.
func (c *MahoniaConverter) Encode(in []byte) ([]byte, error) {
	out := make([]byte, 0, len(in))
	buf := make([]byte, 8)
	for _, r := range string(in) {
		n, status := c.encoder(buf, r)
		if status == mahonia.INVALID_CHAR {
			return nil, newError("dbase-mahonia-encode-1", fmt.Errorf("%w: %q is not representable in %s", ErrEncoding, r, c.charset))
		}
		out = append(out, buf[:n]...)
	}
	return out, nil
}

func (c *MahoniaConverter) CodePage() byte {
	return c.codePage
}
