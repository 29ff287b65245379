package stream

import (
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
)

// VarInt is a decoded compact size integer and the number of bytes (1, 3, 5
// or 9) it occupied.
type VarInt struct {
	Value  uint64
	Length int
}

// ReadVarInt decodes the compact size integer starting at buf[offset].
func ReadVarInt(buf []byte, offset int) (VarInt, error) {
	return readVarInt(buf, offset, "varint")
}

func readVarInt(buf []byte, offset int, field string) (VarInt, error) {
	if offset < 0 || offset >= len(buf) {
		return VarInt{}, truncated(offset, field)
	}

	prefix := buf[offset]
	var length int
	switch prefix {
	case 0xfd:
		length = 3
	case 0xfe:
		length = 5
	case 0xff:
		length = 9
	default:
		return VarInt{Value: uint64(prefix), Length: 1}, nil
	}

	if len(buf)-offset < length {
		return VarInt{}, truncated(offset, field)
	}

	b := buf[offset+1 : offset+length]
	switch length {
	case 3:
		return VarInt{Value: uint64(binary.LittleEndian.Uint16(b)), Length: 3}, nil
	case 5:
		return VarInt{Value: uint64(binary.LittleEndian.Uint32(b)), Length: 5}, nil
	default:
		return VarInt{Value: binary.LittleEndian.Uint64(b), Length: 9}, nil
	}
}

// VarIntSerializeSize returns the number of bytes the minimal encoding of v
// takes.
func VarIntSerializeSize(v uint64) int {
	switch {
	case v < 0xfd:
		return 1
	case v <= 0xffff:
		return 3
	case v <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// WriteVarInt writes the minimal compact size encoding of v.
func WriteVarInt(w io.Writer, v uint64) error {
	var buf [9]byte
	var n int
	switch {
	case v < 0xfd: // single byte
		buf[0] = byte(v)
		n = 1
	case v <= 0xffff: // uint16
		buf[0] = 0xfd
		binary.LittleEndian.PutUint16(buf[1:], uint16(v))
		n = 3
	case v <= 0xffffffff: // uint32
		buf[0] = 0xfe
		binary.LittleEndian.PutUint32(buf[1:], uint32(v))
		n = 5
	default: // uint64
		buf[0] = 0xff
		binary.LittleEndian.PutUint64(buf[1:], v)
		n = 9
	}
	_, err := w.Write(buf[:n])
	return errors.Wrap(err, "write varint")
}
