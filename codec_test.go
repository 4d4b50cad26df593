package streamxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCodePointUnknown(t *testing.T) {
	c := decodeCodePoint([]byte{0x41}, Unknown)
	require.EqualValues(t, 1, c.Bytes)
	assert.EqualValues(t, 'A', c.Decoded)
}

func TestDecodeCodePointUTF8Widths(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		want uint32
		n    uint8
	}{
		{"ascii", []byte{0x41}, 'A', 1},
		{"two-byte", []byte{0xC3, 0xA9}, 0xE9, 2},       // é
		{"three-byte", []byte{0xE2, 0x82, 0xAC}, 0x20AC, 3}, // €
		{"four-byte", []byte{0xF0, 0x9F, 0x98, 0x80}, 0x1F600, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := decodeCodePoint(tc.in, UTF8)
			require.EqualValues(t, tc.n, c.Bytes)
			assert.Equal(t, tc.want, c.Decoded)
		})
	}
}

func TestDecodeCodePointInsufficientInput(t *testing.T) {
	c := decodeCodePoint([]byte{0xE2, 0x82}, UTF8)
	assert.Equal(t, insufficientInput, c.Decoded)

	c = decodeCodePoint(nil, UTF8)
	assert.Equal(t, insufficientInput, c.Decoded)

	c = decodeCodePoint([]byte{0x00}, UTF16LE)
	assert.Equal(t, insufficientInput, c.Decoded)
}

func TestDecodeCodePointUTF16Surrogates(t *testing.T) {
	// U+1F600 as a UTF-16LE surrogate pair: D8 3D DE 00
	le := []byte{0x3D, 0xD8, 0x00, 0xDE}
	c := decodeCodePoint(le, UTF16LE)
	require.EqualValues(t, 4, c.Bytes)
	assert.Equal(t, uint32(0x1F600), c.Decoded)

	be := []byte{0xD8, 0x3D, 0xDE, 0x00}
	c = decodeCodePoint(be, UTF16BE)
	require.EqualValues(t, 4, c.Bytes)
	assert.Equal(t, uint32(0x1F600), c.Decoded)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	values := []uint32{'A', 0xE9, 0x20AC, 0x1F600}
	for _, enc := range []Encoding{UTF8, UTF16LE, UTF16BE} {
		for _, v := range values {
			c := encodeCodePoint(v, enc)
			require.NotZero(t, c.Bytes, "encoding %v value %x", enc, v)
			d := decodeCodePoint(c.Encoded[:c.Bytes], enc)
			assert.Equal(t, v, d.Decoded, "round-trip %v under %v", v, enc)
		}
	}
}

func TestEncodeCodePointRejectsIllegalValues(t *testing.T) {
	assert.Zero(t, encodeCodePoint(0xD800, UTF8).Bytes)
	assert.Zero(t, encodeCodePoint(0xDFFF, UTF16LE).Bytes)
	assert.Zero(t, encodeCodePoint(0x110000, UTF8).Bytes)
}

func TestTerminatorSize(t *testing.T) {
	assert.Equal(t, 1, terminatorSize(Unknown))
	assert.Equal(t, 1, terminatorSize(UTF8))
	assert.Equal(t, 2, terminatorSize(UTF16LE))
	assert.Equal(t, 2, terminatorSize(UTF16BE))
}
