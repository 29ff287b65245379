package stream

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

type ErrorKind int

const (
	TruncatedInput ErrorKind = iota + 1
	InvalidCount
	TrailingData
)

func (k ErrorKind) String() string {
	switch k {
	case TruncatedInput:
		return "TruncatedInput"
	case InvalidCount:
		return "InvalidCount"
	case TrailingData:
		return "TrailingData"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrTruncatedInput = errors.New("truncated input")
	ErrInvalidCount   = errors.New("invalid count")
	ErrTrailingData   = errors.New("trailing data")
)

// DecodeError describes why a buffer could not be decoded. Offset is the
// position of the cursor when the offending field was about to be read.
type DecodeError struct {
	Kind   ErrorKind
	Offset int
	Field  string

	Count    uint64 // declared count, InvalidCount only
	Consumed int    // TrailingData only
	Total    int    // TrailingData only
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case TruncatedInput:
		return fmt.Sprintf("truncated input: not enough bytes for %s at offset %d", e.Field, e.Offset)
	case InvalidCount:
		return fmt.Sprintf("invalid count: %s of %d at offset %d exceeds remaining bytes", e.Field, e.Count, e.Offset)
	case TrailingData:
		return fmt.Sprintf("trailing data: consumed %d of %d bytes", e.Consumed, e.Total)
	default:
		return fmt.Sprintf("decode error %s at offset %d", e.Kind, e.Offset)
	}
}

func (e *DecodeError) Unwrap() error {
	switch e.Kind {
	case TruncatedInput:
		return ErrTruncatedInput
	case InvalidCount:
		return ErrInvalidCount
	case TrailingData:
		return ErrTrailingData
	}
	return nil
}

func truncated(offset int, field string) error {
	return errors.WithStack(&DecodeError{Kind: TruncatedInput, Offset: offset, Field: field})
}

func invalidCount(offset int, field string, count uint64) error {
	return errors.WithStack(&DecodeError{Kind: InvalidCount, Offset: offset, Field: field, Count: count})
}

func trailingData(consumed, total int) error {
	return errors.WithStack(&DecodeError{Kind: TrailingData, Offset: consumed, Consumed: consumed, Total: total})
}
