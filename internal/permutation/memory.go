package permutation

import (
	"sort"

	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
)

// memPermutation is the in-memory realization: table[i] is the destination
// slot of i, applied directly by index rather than through a sort.
type memPermutation struct {
	table []int
}

func newMemPermutation(table []int) *memPermutation {
	cp := make([]int, len(table))
	copy(cp, table)
	return &memPermutation{table: cp}
}

func (p *memPermutation) Size() int   { return len(p.table) }
func (p *memPermutation) At(i int) int { return p.table[i] }

func (p *memPermutation) Apply(children []*bytetree.ByteTree) ([]*bytetree.ByteTree, error) {
	if len(children) != len(p.table) {
		errs.Fatalf("permutation: apply length mismatch (%d, %d)", len(children), len(p.table))
	}
	out := make([]*bytetree.ByteTree, len(children))
	for i, c := range children {
		out[p.table[i]] = c
	}
	return out, nil
}

func (p *memPermutation) Inv() (Permutation, error) {
	inv := make([]int, len(p.table))
	for i, t := range p.table {
		inv[t] = i
	}
	return newMemPermutation(inv), nil
}

// Shrink rank-compresses table[0:m]'s destinations into a bijection on
// [0,m): the destination of each surviving source becomes its rank among
// the m surviving destination values, found by sorting them with
// sort.Slice. This rank compression, rather than a literal truncation, is
// how "drops indices >= m and renumbers" (§4.8) is realized.
func (p *memPermutation) Shrink(m int) (Permutation, error) {
	if m < 0 || m > len(p.table) {
		return nil, errs.New(errs.Domain, "permutation: shrink size out of range")
	}
	if m == len(p.table) {
		return newMemPermutation(p.table), nil
	}
	vals := append([]int(nil), p.table[:m]...)
	order := make([]int, m)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return vals[order[a]] < vals[order[b]] })
	shrunk := make([]int, m)
	for rank, i := range order {
		shrunk[i] = rank
	}
	return newMemPermutation(shrunk), nil
}

func (p *memPermutation) ToByteTree() *bytetree.ByteTree {
	w := byteLength(len(p.table))
	children := make([]*bytetree.ByteTree, len(p.table))
	for i, v := range p.table {
		children[i] = intToLeaf(v, w)
	}
	return bytetree.Node(children...)
}
