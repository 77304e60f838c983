// Package permutation implements the permutation of spec.md §4.8: an
// immutable bijection on [0,n) with two realizations — an in-memory index
// table and a file-backed variant built entirely on
// internal/bytetree.ZipSortProject, so that every operation (apply, inv,
// shrink) is expressible as "sort pairs by one component, project the
// other" rather than direct indexing, matching how a permutation this size
// would be manipulated when it does not fit in memory.
package permutation

import (
	"math/bits"

	"github.com/arithmos/vcore/internal/bitutil"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/config"
	"github.com/arithmos/vcore/internal/errs"
)

// Permutation is an immutable bijection on [0,n); table[i] is the
// destination slot of source index i, the same convention
// internal/arrays.IndexMapper expects from Permute.
type Permutation interface {
	Size() int
	At(i int) int

	// Apply reorders children (length n) by the permutation: out[table[i]]
	// = children[i].
	Apply(children []*bytetree.ByteTree) ([]*bytetree.ByteTree, error)

	// Inv returns the inverse permutation.
	Inv() (Permutation, error)

	// Shrink restricts the permutation to the first m source indices and
	// rank-compresses their destinations into a bijection on [0,m). Each
	// realization's Shrink documents how it computes the ranks.
	Shrink(m int) (Permutation, error)

	ToByteTree() *bytetree.ByteTree
}

// New builds a Permutation from an explicit table, validating that it is a
// bijection on [0,len(table)). The realization follows the process-wide
// back-end flag (§6), mirroring internal/arrays.New.
func New(table []int) (Permutation, error) {
	if err := validateTable(table); err != nil {
		return nil, err
	}
	switch config.CurrentBackend() {
	case config.FileBacked:
		return newFilePermutation(table)
	default:
		return newMemPermutation(table), nil
	}
}

// Identity builds the identity permutation of size n.
func Identity(n int) (Permutation, error) {
	table := make([]int, n)
	for i := range table {
		table[i] = i
	}
	return New(table)
}

func validateTable(table []int) error {
	n := len(table)
	seen := make([]bool, n)
	for _, v := range table {
		if v < 0 || v >= n || seen[v] {
			return errs.New(errs.Format, "permutation: table is not a bijection on [0,n)")
		}
		seen[v] = true
	}
	return nil
}

// byteLength is the fixed leaf width of §4.8's "Serialization uses
// fixed-width integer leaves sized to byteLength(n)": enough bytes to hold
// the largest index, n-1.
func byteLength(n int) int {
	max := bitutil.Max(n-1, 1)
	return bitutil.Max((bits.Len(uint(max))+7)/8, 1)
}

func intToLeaf(v, width int) *bytetree.ByteTree {
	b := make([]byte, width)
	x := uint(v)
	for i := width - 1; i >= 0; i-- {
		b[i] = byte(x)
		x >>= 8
	}
	return bytetree.Leaf(b)
}

func leafToInt(t *bytetree.ByteTree) int {
	var v uint
	for _, b := range t.Data() {
		v = v<<8 | uint(b)
	}
	return int(v)
}
