package dbase

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
)

// EncodingConverter converts text between the code page of a table and UTF-8.
// Decode is lossy, Encode fails with ErrEncoding if the text can not be represented.
type EncodingConverter interface {
	Decode(in []byte) ([]byte, error)
	Encode(in []byte) ([]byte, error)
	CodePage() byte
}

// Code page marks (language driver ids) as written to the table header.
// The first mark of an encoding is the one written.
var codePages = []struct {
	mark     byte
	encoding encoding.Encoding
}{
	{0x01, charmap.CodePage437},     // U.S. MS-DOS
	{0x02, charmap.CodePage850},     // International MS-DOS
	{0x03, charmap.Windows1252},     // Windows ANSI
	{0x64, charmap.CodePage852},     // Eastern European MS-DOS
	{0x65, charmap.CodePage866},     // Russian MS-DOS
	{0x66, charmap.CodePage865},     // Nordic MS-DOS
	{0x7B, japanese.ShiftJIS},       // Japanese Windows
	{0x13, japanese.ShiftJIS},       // Japanese MS-DOS
	{0x7A, simplifiedchinese.GBK},   // PRC GBK
	{0x4D, simplifiedchinese.GBK},   // Chinese GBK (PRC)
	{0x4E, korean.EUCKR},            // Korean
	{0x4F, traditionalchinese.Big5}, // Chinese Big5 (Taiwan)
	{0x78, traditionalchinese.Big5}, // Taiwan Big5
	{0x7C, charmap.Windows874},      // Thai Windows
	{0x7D, charmap.Windows1255},     // Hebrew Windows
	{0x7E, charmap.Windows1256},     // Arabic Windows
	{0xC8, charmap.Windows1250},     // Central European Windows
	{0xC9, charmap.Windows1251},     // Russian Windows
	{0xCA, charmap.Windows1254},     // Turkish Windows
	{0xCB, charmap.Windows1253},     // Greek Windows
}

// DefaultConverter implements EncodingConverter for any golang.org/x/text encoding.
type DefaultConverter struct {
	encoding encoding.Encoding
}

func NewDefaultConverter(e encoding.Encoding) DefaultConverter {
	return DefaultConverter{encoding: e}
}

// Decode converts bytes of the table code page to UTF-8.
// Invalid sequences are replaced by the unicode replacement character.
func (c DefaultConverter) Decode(in []byte) ([]byte, error) {
	out, err := c.encoding.NewDecoder().Bytes(in)
	if err != nil {
		return nil, newError("dbase-encoding-decode-1", err)
	}
	return out, nil
}

// Encode converts UTF-8 to the table code page.
func (c DefaultConverter) Encode(in []byte) ([]byte, error) {
	out, err := c.encoding.NewEncoder().Bytes(in)
	if err != nil {
		return nil, newError("dbase-encoding-encode-1", fmt.Errorf("%w: %q: %w", ErrEncoding, in, err))
	}
	return out, nil
}

// CodePage returns the code page mark of the encoding, 0x00 if there is none.
func (c DefaultConverter) CodePage() byte {
	for _, cp := range codePages {
		if cp.encoding == c.encoding {
			return cp.mark
		}
	}
	return 0x00
}

// Encoding returns the underlying encoding.
func (c DefaultConverter) Encoding() encoding.Encoding {
	return c.encoding
}

// ConverterFromCodePage returns the converter for a code page mark.
// Unknown marks fall back to Windows ANSI.
func ConverterFromCodePage(codePageMark byte) DefaultConverter {
	for _, cp := range codePages {
		if cp.mark == codePageMark {
			return NewDefaultConverter(cp.encoding)
		}
	}
	debugf("Unknown code page mark 0x%02X, falling back to windows-1252", codePageMark)
	return NewDefaultConverter(charmap.Windows1252)
}

// ConverterFromLabel returns the converter for an encoding label like
// "windows-1252", "cp850", "shift_jis" or "utf-8" (WHATWG and IANA names).
func ConverterFromLabel(label string) (DefaultConverter, error) {
	name := strings.TrimSpace(label)
	if e, err := htmlindex.Get(name); err == nil {
		return NewDefaultConverter(e), nil
	}
	e, err := ianaindex.IANA.Encoding(name)
	if err != nil || e == nil {
		return DefaultConverter{}, newError("dbase-encoding-fromlabel-1", fmt.Errorf("%w: %q", ErrInvalidEncoding, label))
	}
	return NewDefaultConverter(e), nil
}

// resolveConverter picks the converter by priority: explicit converter, label, code page mark.
func resolveConverter(converter EncodingConverter, label string, codePage byte) (EncodingConverter, error) {
	if converter != nil {
		return converter, nil
	}
	if len(strings.TrimSpace(label)) > 0 {
		c, err := ConverterFromLabel(label)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return ConverterFromCodePage(codePage), nil
}

var _ EncodingConverter = DefaultConverter{}
