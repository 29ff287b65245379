package stream

import (
	"encoding/binary"

	"github.com/lbryio/lbcd/chaincfg/chainhash"
)

// txStream is a forward-only cursor over an immutable buffer. Every read
// checks that the bytes it needs are present before touching them.
type txStream struct {
	buf    []byte
	offset int
}

func (s *txStream) remaining() int {
	return len(s.buf) - s.offset
}

// need fails with TruncatedInput unless n more bytes are available.
func (s *txStream) need(n uint64, field string) error {
	if n > uint64(s.remaining()) {
		return truncated(s.offset, field)
	}
	return nil
}

// peek returns the next n bytes without moving the cursor. ok is false if
// fewer than n bytes remain.
func (s *txStream) peek(n int) ([]byte, bool) {
	if s.remaining() < n {
		return nil, false
	}
	return s.buf[s.offset : s.offset+n], true
}

func (s *txStream) skip(n int) {
	s.offset += n
}

// readBytes returns a copy of the next n bytes.
func (s *txStream) readBytes(n uint64, field string) ([]byte, error) {
	if err := s.need(n, field); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, s.buf[s.offset:])
	s.offset += int(n)
	return b, nil
}

func (s *txStream) readHash(field string) (chainhash.Hash, error) {
	var h chainhash.Hash
	if err := s.need(chainhash.HashSize, field); err != nil {
		return h, err
	}
	copy(h[:], s.buf[s.offset:s.offset+chainhash.HashSize])
	s.offset += chainhash.HashSize
	return h, nil
}

func (s *txStream) readUint32(field string) (uint32, error) {
	if err := s.need(4, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(s.buf[s.offset:])
	s.offset += 4
	return v, nil
}

func (s *txStream) readUint64(field string) (uint64, error) {
	if err := s.need(8, field); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(s.buf[s.offset:])
	s.offset += 8
	return v, nil
}

func (s *txStream) readCompactSize(field string) (uint64, error) {
	v, err := readVarInt(s.buf, s.offset, field)
	if err != nil {
		return 0, err
	}
	s.offset += v.Length
	return v.Value, nil
}

// readCount reads a compact size element count and rejects it if the
// remaining bytes could not hold count elements of at least minSize bytes.
func (s *txStream) readCount(field string, minSize int) (int, error) {
	start := s.offset
	count, err := s.readCompactSize(field)
	if err != nil {
		return 0, err
	}
	if count > uint64(s.remaining()/minSize) {
		return 0, invalidCount(start, field, count)
	}
	return int(count), nil
}

// readVarBytes reads a compact size length followed by that many bytes.
func (s *txStream) readVarBytes(field string) ([]byte, error) {
	length, err := s.readCompactSize(field + " length")
	if err != nil {
		return nil, err
	}
	return s.readBytes(length, field)
}
