package tlv

import (
	"errors"
	"fmt"
)

// Structural decoding failures. They are always returned wrapped in an
// *OffsetError so callers can locate the faulty byte.
var (
	ErrOutOfBounds   = errors.New("read out of bounds")
	ErrMalformedTLV  = errors.New("malformed BER-TLV")
	ErrTruncatedTLV  = errors.New("truncated BER-TLV")
	ErrUnexpectedTag = errors.New("unexpected tag")
)

// OffsetError attaches the absolute byte offset of a failure to one of the
// sentinel errors above (or to a sentinel of a package built on Cursor).
type OffsetError struct {
	Err    error
	Offset int
	Detail string
}

// NewError builds an *OffsetError with a formatted detail message.
func NewError(err error, offset int, format string, args ...interface{}) *OffsetError {
	return &OffsetError{Err: err, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func (e *OffsetError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
	}
	return fmt.Sprintf("%v at offset %d: %s", e.Err, e.Offset, e.Detail)
}

func (e *OffsetError) Unwrap() error {
	return e.Err
}
