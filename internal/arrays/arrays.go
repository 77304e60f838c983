// Package arrays implements the dual-backend BigIntArray of spec.md §4.2:
// one abstract sequence of non-negative integers with two interchangeable
// realizations, selected by internal/config's process-wide flag — an
// in-memory slice (memArray) and a file-backed sequence of fixed-width
// records (fileArray) driven through a double-buffered batch reader/writer
// (see batch.go). Both satisfy the same Array interface so callers never
// branch on which back-end they hold.
package arrays

import (
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/config"
	"github.com/arithmos/vcore/internal/errs"
)

// Array is the operation surface both back-ends implement, per §4.2.
type Array interface {
	Size() int
	Get(i int) *bigint.BigInt
	GetIterator() *Iterator
	CopyOfRange(lo, hi int) (Array, error)

	// Permute reorders self by table, where table[i] is the destination
	// slot of self[i] — the same convention as Permutation.Apply, so a
	// Permutation (internal/permutation) can be passed directly as an
	// IndexMapper.
	Permute(table IndexMapper) (Array, error)
	Extract(mask []bool) (Array, error)
	ShiftPush(v *bigint.BigInt) (Array, error)

	ModAdd(o Array, m *bigint.BigInt) (Array, error)
	ModNeg(m *bigint.BigInt) (Array, error)
	ModMulArray(o Array, m *bigint.BigInt) (Array, error)
	ModMulScalar(v *bigint.BigInt, m *bigint.BigInt) (Array, error)
	ModInv(m *bigint.BigInt) (Array, error)
	ModPowArray(exps Array, m *bigint.BigInt) (Array, error)
	ModPowScalar(exp *bigint.BigInt, m *bigint.BigInt) (Array, error)
	// ModPowVariant raises a fixed base to each exponent held in self:
	// out[i] = base^self[i] mod m.
	ModPowVariant(base, m *bigint.BigInt) (Array, error)

	ModProd(m *bigint.BigInt) *bigint.BigInt
	ModProds(m *bigint.BigInt) (Array, error)
	ModSum(m *bigint.BigInt) *bigint.BigInt
	ModPowProd(exps Array, m *bigint.BigInt, maxExpBits int) (*bigint.BigInt, error)
	ModInnerProduct(o Array, m *bigint.BigInt) (*bigint.BigInt, error)
	QuadraticResidues(p *bigint.BigInt) bool
	ModRecLin(other Array, m *bigint.BigInt) (Array, *bigint.BigInt, error)

	Equals(o Array) bool
	EqualsAll(v *bigint.BigInt) bool
	CompareTo(o Array) int

	ToByteTree() *bytetree.ByteTree
	// ToByteTreeWidth forces every leaf to exactly w bytes (zero-padded at
	// the MSB). Calling it twice with different widths on the same array
	// is a fatal error, per §4.2.
	ToByteTreeWidth(w int) (*bytetree.ByteTree, error)

	// Free releases any backing resource. Idempotent; a no-op on the
	// in-memory realization.
	Free() error
}

// IndexMapper is the minimal surface Permute needs from a permutation: the
// destination slot of source index i. internal/permutation.Permutation
// satisfies this structurally, avoiding an import cycle (permutation's
// file-backed realization stores its table as an Array).
type IndexMapper interface {
	Size() int
	At(i int) int
}

// New builds an array from vals, using the back-end currently selected by
// internal/config.
func New(vals []*bigint.BigInt) (Array, error) {
	switch config.CurrentBackend() {
	case config.FileBacked:
		return newFileArray(vals)
	default:
		return newMemArray(vals), nil
	}
}

// NewSized builds a length-n array filled with fill, using the configured
// back-end.
func NewSized(n int, fill *bigint.BigInt) (Array, error) {
	vals := make([]*bigint.BigInt, n)
	for i := range vals {
		vals[i] = fill
	}
	return New(vals)
}

func checkSameLength(a, b int) error {
	if a != b {
		errs.Fatalf("arrays: mismatched lengths (%d, %d)", a, b)
	}
	return nil
}

// Iterator is a forward cursor over an Array, backed (for the file
// realization) by the double-buffered batch reader of §5.
type Iterator struct {
	next  func() (*bigint.BigInt, bool)
	close func()
}

// Next returns the next element and true, or (nil, false) at end of
// sequence.
func (it *Iterator) Next() (*bigint.BigInt, bool) { return it.next() }

// Close releases any resource the iterator holds open — for the file
// realization, the locked temp file and its background batch reader —
// if the caller abandons iteration before reaching the end. It is safe
// to call after natural exhaustion (the iterator already closed itself)
// and safe to call more than once. The in-memory realization has nothing
// to release, so its iterator leaves close nil.
func (it *Iterator) Close() {
	if it.close != nil {
		it.close()
	}
}

// materialize drains an Array into a plain slice, used by operations that
// are easiest to express against the whole sequence (the file realization
// pays for this with one batched read pass, per batch.go).
func materialize(a Array) []*bigint.BigInt {
	out := make([]*bigint.BigInt, 0, a.Size())
	it := a.GetIterator()
	defer it.Close()
	for {
		v, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}
