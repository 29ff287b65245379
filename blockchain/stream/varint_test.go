package stream

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadVarInt(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		value   uint64
		length  int
	}{
		{"zero", "00", 0, 1},
		{"max single byte", "fc", 252, 1},
		{"min uint16", "fdfd00", 253, 3},
		{"max uint16", "fdffff", 65535, 3},
		{"min uint32", "fe00000100", 65536, 5},
		{"max uint32", "feffffffff", 4294967295, 5},
		{"min uint64", "ff0000000001000000", 4294967296, 9},
		{"max uint64", "ffffffffffffffffff", 0xffffffffffffffff, 9},
		{"non-canonical uint16", "fd0100", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, err := hex.DecodeString(tt.encoded)
			require.NoError(t, err)

			v, err := ReadVarInt(buf, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.value, v.Value)
			assert.Equal(t, tt.length, v.Length)

			// same result when the varint is not at the start of the buffer
			v, err = ReadVarInt(append([]byte{0xaa, 0xbb}, buf...), 2)
			require.NoError(t, err)
			assert.Equal(t, tt.value, v.Value)
			assert.Equal(t, tt.length, v.Length)
		})
	}
}

func TestReadVarIntTruncated(t *testing.T) {
	tests := []struct {
		name   string
		buf    []byte
		offset int
	}{
		{"empty", []byte{}, 0},
		{"offset at end", []byte{0x01}, 1},
		{"offset past end", []byte{0x01}, 5},
		{"uint16 missing byte", []byte{0xfd, 0x01}, 0},
		{"uint32 missing bytes", []byte{0xfe, 0x01, 0x02}, 0},
		{"uint64 missing byte", []byte{0xff, 1, 2, 3, 4, 5, 6, 7}, 0},
		{"uint16 at tail", []byte{0x00, 0x00, 0xfd, 0x01}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadVarInt(tt.buf, tt.offset)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrTruncatedInput))

			var decodeErr *DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, TruncatedInput, decodeErr.Kind)
			assert.Equal(t, tt.offset, decodeErr.Offset)
			assert.Equal(t, "varint", decodeErr.Field)
		})
	}
}

func TestWriteVarInt(t *testing.T) {
	tests := []struct {
		value  uint64
		prefix byte
		length int
	}{
		{0, 0x00, 1},
		{252, 0xfc, 1},
		{253, 0xfd, 3},
		{65535, 0xfd, 3},
		{65536, 0xfe, 5},
		{4294967295, 0xfe, 5},
		{4294967296, 0xff, 9},
		{0xffffffffffffffff, 0xff, 9},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, tt.value))

		encoded := buf.Bytes()
		assert.Len(t, encoded, tt.length, "value %d", tt.value)
		assert.Equal(t, tt.prefix, encoded[0], "value %d", tt.value)
		assert.Equal(t, tt.length, VarIntSerializeSize(tt.value), "value %d", tt.value)

		v, err := ReadVarInt(encoded, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.value, v.Value)
		assert.Equal(t, tt.length, v.Length)
	}
}
