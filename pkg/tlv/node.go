package tlv

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gregLibert/lds-biometrics/pkg/bits"
)

// Tag is a BER-TLV tag, stored with its encoded bytes packed big-endian
// (e.g. 0x7F61 for the two-byte tag '7F61').
type Tag uint64

// String returns the tag in the usual upper-case hex notation ("5F2E").
func (t Tag) String() string {
	return fmt.Sprintf("%02X", uint64(t))
}

// leading returns the first encoded byte of the tag.
func (t Tag) leading() byte {
	for t > 0xFF {
		t >>= 8
	}
	return byte(t)
}

// Constructed reports whether bit 6 of the first tag byte is set, i.e.
// whether the value holds nested data objects.
func (t Tag) Constructed() bool {
	return bits.IsSet(t.leading(), 6)
}

// Node is one decoded data object.
//
// Value always holds the raw value bytes (a view into the parsed buffer);
// for constructed tags Children additionally holds the parsed content.
type Node struct {
	Tag         Tag
	Offset      int // absolute offset of the first tag byte
	ValueOffset int // absolute offset of the first value byte
	Length      int
	Value       []byte
	Children    []Node
}

// Clone returns a deep copy of n that shares no memory with the parsed buffer.
func (n Node) Clone() Node {
	out := n
	out.Value = bytes.Clone(n.Value)
	if n.Children != nil {
		out.Children = make([]Node, len(n.Children))
		for i, child := range n.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// FindChild returns the first direct child carrying tag.
func (n Node) FindChild(tag Tag) (Node, bool) {
	for _, child := range n.Children {
		if child.Tag == tag {
			return child, true
		}
	}
	return Node{}, false
}

// FindChildren returns every direct child carrying tag, in encoding order.
func (n Node) FindChildren(tag Tag) []Node {
	var found []Node
	for _, child := range n.Children {
		if child.Tag == tag {
			found = append(found, child)
		}
	}
	return found
}

// Parse reads one tag-length-value triple from c.
//
// Constructed values are parsed recursively and must be filled exactly by
// their children: a child overrunning the parent, or leftover bytes too
// short to form a child, fail with ErrTruncatedTLV.
func Parse(c *Cursor) (Node, error) {
	start := c.Offset()

	tag, err := c.ReadTag()
	if err != nil {
		return Node{}, err
	}

	length, err := c.ReadLength()
	if err != nil {
		return Node{}, err
	}

	if length > c.Remaining() {
		return Node{}, NewError(ErrTruncatedTLV, start, "tag %s declares %d value bytes, %d remain", tag, length, c.Remaining())
	}

	valueOffset := c.Offset()
	value, err := c.ReadSlice(length)
	if err != nil {
		return Node{}, err
	}

	node := Node{Tag: tag, Offset: start, ValueOffset: valueOffset, Length: length, Value: value}
	if !tag.Constructed() {
		return node, nil
	}

	children, err := parseChildren(NewCursorAt(value, valueOffset), tag)
	if err != nil {
		return Node{}, err
	}
	node.Children = children

	return node, nil
}

func parseChildren(c *Cursor, parent Tag) ([]Node, error) {
	var children []Node
	for c.Remaining() > 0 {
		offset := c.Offset()
		child, err := Parse(c)
		if err != nil {
			if errors.Is(err, ErrOutOfBounds) {
				return nil, NewError(ErrTruncatedTLV, offset, "content of %s ends inside a child header: %v", parent, err)
			}
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

// ParseEnvelope decodes a complete data group whose outermost tag must be expected.
//
// The tag is verified before anything else is parsed, and the envelope
// must span the whole buffer.
func ParseEnvelope(data []byte, expected Tag) (Node, error) {
	tag, err := NewCursor(data).ReadTag()
	if err != nil {
		return Node{}, err
	}
	if tag != expected {
		return Node{}, NewError(ErrUnexpectedTag, 0, "expected %s, found %s", expected, tag)
	}

	c := NewCursor(data)
	node, err := Parse(c)
	if err != nil {
		return Node{}, err
	}

	if c.Remaining() > 0 {
		return Node{}, NewError(ErrTruncatedTLV, c.Offset(), "%d trailing bytes after %s envelope", c.Remaining(), tag)
	}

	return node, nil
}
