package bytetree

import (
	"encoding/binary"
	"io"

	"github.com/arithmos/vcore/internal/errs"
)

// Reader is a streaming, single-pass reader over one ByteTree on the wire.
// It exposes the primitives §4.3 names directly: getRemaining, isLeaf,
// getNextChild, read (leaf bytes) and unsafeSkipChildren.
type Reader struct {
	r         io.Reader
	leaf      bool
	data      []byte
	remaining uint32 // children left to read (node) — always 0 once leaf is known
	safe      bool   // when false, format violations become FatalError (Unsafe family, §7)
}

// NewReader begins reading one ByteTree node/leaf header from r.
func NewReader(r io.Reader) (*Reader, error) {
	return newReader(r, true)
}

// NewUnsafeReader is the *Unsafe family entry point: FormatError is
// downgraded to FatalError, for streaming paths where the caller already
// guarantees well-formedness.
func NewUnsafeReader(r io.Reader) (*Reader, error) {
	return newReader(r, false)
}

func newReader(r io.Reader, safe bool) (*Reader, error) {
	rd := &Reader{r: r, safe: safe}
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return nil, rd.formatErr(err, "missing tag byte")
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, rd.formatErr(err, "missing length")
	}
	n := binary.BigEndian.Uint32(lenBuf[:])

	switch tag[0] {
	case tagLeaf:
		data := make([]byte, n)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, rd.formatErr(err, "truncated leaf")
		}
		rd.leaf = true
		rd.data = data
	case tagNode:
		rd.leaf = false
		rd.remaining = n
	default:
		return nil, rd.formatErr(nil, "invalid tag byte")
	}
	return rd, nil
}

func (r *Reader) formatErr(cause error, msg string) error {
	if !r.safe {
		errs.Fatalf("bytetree stream: %s", msg)
	}
	if cause != nil {
		return errs.Wrap(errs.Format, cause, msg)
	}
	return errs.New(errs.Format, msg)
}

// IsLeaf reports whether the current node is a leaf.
func (r *Reader) IsLeaf() bool { return r.leaf }

// GetRemaining returns the number of not-yet-read children at this node.
func (r *Reader) GetRemaining() int { return int(r.remaining) }

// Read returns the leaf payload. Fatal if the current node is not a leaf.
func (r *Reader) Read() []byte {
	if !r.leaf {
		errs.Fatalf("bytetree stream: Read() called on a node")
	}
	return r.data
}

// GetNextChild begins reading the next child of this node.
func (r *Reader) GetNextChild() (*Reader, error) {
	if r.leaf {
		return nil, r.formatErr(nil, "GetNextChild() called on a leaf")
	}
	if r.remaining == 0 {
		return nil, r.formatErr(nil, "no children remaining")
	}
	r.remaining--
	return newReader(r.r, r.safe)
}

// UnsafeSkipChildren discards the next n children without materializing
// them, used when a caller only needs a suffix of a node's children.
func (r *Reader) UnsafeSkipChildren(n int) error {
	for i := 0; i < n; i++ {
		c, err := r.GetNextChild()
		if err != nil {
			return err
		}
		if err := c.skip(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) skip() error {
	if r.leaf {
		return nil
	}
	for r.remaining > 0 {
		c, err := r.GetNextChild()
		if err != nil {
			return err
		}
		if err := c.skip(); err != nil {
			return err
		}
	}
	return nil
}

// ToTree fully materializes the (remainder of the) subtree rooted at r.
func (r *Reader) ToTree() (*ByteTree, error) {
	if r.leaf {
		return Leaf(r.data), nil
	}
	children := make([]*ByteTree, 0, r.remaining)
	for r.remaining > 0 {
		c, err := r.GetNextChild()
		if err != nil {
			return nil, err
		}
		ct, err := c.ToTree()
		if err != nil {
			return nil, err
		}
		children = append(children, ct)
	}
	return Node(children...), nil
}
