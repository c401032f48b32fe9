package tlv

import (
	"github.com/gregLibert/lds-biometrics/pkg/bits"
)

// Maximum sizes accepted by ReadTag and ReadLength.
const (
	MaxTagBytes         = 5
	MaxLengthFieldBytes = 4
)

// Cursor is a bounds-checked big-endian reader over a byte slice.
//
// A Cursor may be scoped to a sub-range of a larger buffer (see Sub): its
// Offset is then reported relative to the start of the outermost buffer so
// errors always point at an absolute position.
type Cursor struct {
	data []byte
	pos  int
	base int
}

// NewCursor creates a Cursor positioned at the start of data.
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// NewCursorAt creates a Cursor over data, where data[0] sits at absolute offset base.
func NewCursorAt(data []byte, base int) *Cursor {
	return &Cursor{data: data, base: base}
}

// Offset returns the absolute position of the next byte to be read.
func (c *Cursor) Offset() int {
	return c.base + c.pos
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.pos
}

func (c *Cursor) need(n int) error {
	if n < 0 || n > c.Remaining() {
		return NewError(ErrOutOfBounds, c.Offset(), "need %d bytes, %d remain", n, c.Remaining())
	}
	return nil
}

// ReadUint8 consumes one byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	if err := c.need(1); err != nil {
		return 0, err
	}
	b := c.data[c.pos]
	c.pos++
	return b, nil
}

// ReadUint16 consumes a big-endian 16-bit integer.
func (c *Cursor) ReadUint16() (uint16, error) {
	v, err := c.readUint(2)
	return uint16(v), err
}

// ReadUint24 consumes a big-endian 24-bit integer.
func (c *Cursor) ReadUint24() (uint32, error) {
	v, err := c.readUint(3)
	return uint32(v), err
}

// ReadUint32 consumes a big-endian 32-bit integer.
func (c *Cursor) ReadUint32() (uint32, error) {
	v, err := c.readUint(4)
	return uint32(v), err
}

// ReadUint48 consumes a big-endian 48-bit integer (ISO/IEC 19794-4 record length).
func (c *Cursor) ReadUint48() (uint64, error) {
	return c.readUint(6)
}

func (c *Cursor) readUint(n int) (uint64, error) {
	if err := c.need(n); err != nil {
		return 0, err
	}
	var v uint64
	for _, b := range c.data[c.pos : c.pos+n] {
		v = v<<8 | uint64(b)
	}
	c.pos += n
	return v, nil
}

// ReadSlice consumes n bytes and returns them as a view into the underlying buffer.
// Callers that keep the bytes beyond the decode call must copy them.
func (c *Cursor) ReadSlice(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	s := c.data[c.pos : c.pos+n : c.pos+n]
	c.pos += n
	return s, nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	if err := c.need(n); err != nil {
		return err
	}
	c.pos += n
	return nil
}

// Sub consumes n bytes and returns a new Cursor restricted to them.
func (c *Cursor) Sub(n int) (*Cursor, error) {
	base := c.Offset()
	s, err := c.ReadSlice(n)
	if err != nil {
		return nil, err
	}
	return NewCursorAt(s, base), nil
}

// ReadTag decodes a BER-TLV tag.
//
// If bits 5-1 of the first byte are all set, the tag continues on the
// following bytes for as long as their bit 8 is set.
func (c *Cursor) ReadTag() (Tag, error) {
	start := c.Offset()
	first, err := c.ReadUint8()
	if err != nil {
		return 0, err
	}

	tag := Tag(first)
	if !bits.AllSet(first, 5, 1) {
		return tag, nil
	}

	for size := 2; ; size++ {
		if size > MaxTagBytes {
			return 0, NewError(ErrMalformedTLV, start, "tag longer than %d bytes", MaxTagBytes)
		}
		b, err := c.ReadUint8()
		if err != nil {
			return 0, err
		}
		tag = tag<<8 | Tag(b)
		if !bits.IsSet(b, 8) {
			return tag, nil
		}
	}
}

// ReadLength decodes a BER-TLV length in short (0-127) or long form.
// The indefinite form (0x80) is rejected, as are long forms announcing
// zero or more than MaxLengthFieldBytes length bytes.
func (c *Cursor) ReadLength() (int, error) {
	start := c.Offset()
	first, err := c.ReadUint8()
	if err != nil {
		return 0, err
	}

	if !bits.IsSet(first, 8) {
		return int(first), nil
	}

	count := int(bits.GetRange(first, 7, 1))
	switch {
	case count == 0:
		return 0, NewError(ErrMalformedTLV, start, "indefinite length is not allowed")
	case count > MaxLengthFieldBytes:
		return 0, NewError(ErrMalformedTLV, start, "length uses %d bytes, max is %d", count, MaxLengthFieldBytes)
	}

	v, err := c.readUint(count)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}
