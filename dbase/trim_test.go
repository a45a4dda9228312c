package dbase

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrimField(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"", ""},
		{"     ", ""},
		{"\x00\x00\x00", ""},
		{"  \x00abc", ""},
		{"abc", "abc"},
		{"  abc  ", "abc"},
		{"a b c   ", "a b c"},
		{"  ab\x00cd  ", "ab"},
		{"ab  \x00  ", "ab"},
		{"****", "****"},
	}
	for _, tt := range tests {
		assert.Equal(t, []byte(tt.expected), trimField([]byte(tt.raw)), "%q", tt.raw)
	}
}

func TestTrimFieldAllLengths(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for length := 0; length <= maxCharacterLength; length++ {
		assert.Empty(t, trimField(bytes.Repeat([]byte{' '}, length)))
		assert.Empty(t, trimField(make([]byte, length)))
		if length == 0 {
			continue
		}
		// random content framed by spaces
		leading := rng.Intn(length)
		trailing := rng.Intn(length - leading)
		content := make([]byte, length-leading-trailing)
		for i := range content {
			content[i] = byte('!' + rng.Intn(94))
		}
		if len(content) > 2 {
			content[len(content)/2] = ' '
		}
		raw := append(append(bytes.Repeat([]byte{' '}, leading), content...), bytes.Repeat([]byte{' '}, trailing)...)
		assert.Equal(t, content, trimField(raw), "length %d", length)

		// a null byte ends the field
		withNull := append([]byte{'x'}, raw...)
		withNull[len(withNull)/2] = 0
		assert.NotContains(t, string(trimField(withNull)), "\x00")
	}
}

func TestIsOverflow(t *testing.T) {
	assert.True(t, isOverflow([]byte("*****")))
	assert.False(t, isOverflow([]byte("**1**")))
	assert.False(t, isOverflow(nil))
}
