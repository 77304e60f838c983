// Package bytetree implements the self-describing recursive binary format
// of spec.md §4.3: every node is either a Leaf(bytes) or a Node(children).
//
// Wire format (bit-exact, §6):
//
//	Leaf: 0x01 | uint32 length (big-endian) | bytes[length]
//	Node: 0x00 | uint32 child_count (big-endian) | encoded_children...
package bytetree

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/arithmos/vcore/internal/errs"
)

const (
	tagNode byte = 0x00
	tagLeaf byte = 0x01
)

// ByteTree is either a leaf of raw octets or an internal node holding an
// ordered list of children.
type ByteTree struct {
	leaf     bool
	data     []byte
	children []*ByteTree
}

// Leaf builds a leaf node.
func Leaf(data []byte) *ByteTree {
	return &ByteTree{leaf: true, data: append([]byte(nil), data...)}
}

// Node builds an internal node from an ordered list of children.
func Node(children ...*ByteTree) *ByteTree {
	return &ByteTree{leaf: false, children: children}
}

// FromString is a convenience leaf constructor over a UTF-8 string.
func FromString(s string) *ByteTree { return Leaf([]byte(s)) }

// IsLeaf reports whether t is a leaf.
func (t *ByteTree) IsLeaf() bool { return t.leaf }

// Data returns the leaf payload. Fatal if t is not a leaf.
func (t *ByteTree) Data() []byte {
	if !t.leaf {
		errs.Fatalf("bytetree: Data() called on internal node")
	}
	return t.data
}

// Children returns the node's children. Fatal if t is a leaf.
func (t *ByteTree) Children() []*ByteTree {
	if t.leaf {
		errs.Fatalf("bytetree: Children() called on a leaf")
	}
	return t.children
}

// Len returns the leaf length, or child count for a node.
func (t *ByteTree) Len() int {
	if t.leaf {
		return len(t.data)
	}
	return len(t.children)
}

// EncodedSize returns the exact number of bytes Encode will write.
func (t *ByteTree) EncodedSize() int {
	if t.leaf {
		return 1 + 4 + len(t.data)
	}
	n := 1 + 4
	for _, c := range t.children {
		n += c.EncodedSize()
	}
	return n
}

// Encode serializes t to a flat byte slice.
func (t *ByteTree) Encode() []byte {
	buf := make([]byte, 0, t.EncodedSize())
	return t.appendTo(buf)
}

func (t *ByteTree) appendTo(buf []byte) []byte {
	if t.leaf {
		buf = append(buf, tagLeaf)
		buf = appendUint32(buf, uint32(len(t.data)))
		buf = append(buf, t.data...)
		return buf
	}
	buf = append(buf, tagNode)
	buf = appendUint32(buf, uint32(len(t.children)))
	for _, c := range t.children {
		buf = c.appendTo(buf)
	}
	return buf
}

func appendUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

// WriteTo writes the encoded form of t to w.
func (t *ByteTree) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(t.Encode())
	return int64(n), err
}

// Parse decodes a single ByteTree from buf, returning it and the number of
// bytes consumed.
func Parse(buf []byte) (*ByteTree, int, error) {
	r := bufio.NewReader(&byteSliceReader{buf: buf})
	t, err := Read(r)
	if err != nil {
		return nil, 0, err
	}
	return t, t.EncodedSize(), nil
}

type byteSliceReader struct {
	buf []byte
	pos int
}

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.buf) {
		return 0, io.EOF
	}
	n := copy(p, r.buf[r.pos:])
	r.pos += n
	return n, nil
}

// Read decodes exactly one ByteTree from r (structurally recursive, not
// streaming; see Reader for the streaming variant used by external sort).
func Read(r io.Reader) (*ByteTree, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, errs.Wrap(errs.Format, err, "truncated ByteTree: missing tag")
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, errs.Wrap(errs.Format, err, "truncated ByteTree: missing length")
	}
	n := binary.BigEndian.Uint32(lenBuf[:])

	switch tag[0] {
	case tagLeaf:
		data := make([]byte, n)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, errs.Wrap(errs.Format, err, "truncated ByteTree leaf")
		}
		return &ByteTree{leaf: true, data: data}, nil
	case tagNode:
		children := make([]*ByteTree, n)
		for i := range children {
			c, err := Read(r)
			if err != nil {
				return nil, err
			}
			children[i] = c
		}
		return &ByteTree{leaf: false, children: children}, nil
	default:
		return nil, errs.Newf(errs.Format, "invalid ByteTree tag byte 0x%02x", tag[0])
	}
}
