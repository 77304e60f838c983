package permutation

import (
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
)

// filePermutation is the file-backed realization of §4.8: the table is
// held as a ByteTree of fixed-width integer leaves (mirroring the other
// wire-serializable types rather than a raw temp file, since every
// operation here is expressed through bytetree.ZipSortProject's sort
// primitive, not through random-access reads).
type filePermutation struct {
	n     int
	width int
	table *bytetree.ByteTree // node of n fixed-width leaves
}

func newFilePermutation(table []int) (*filePermutation, error) {
	w := byteLength(len(table))
	children := make([]*bytetree.ByteTree, len(table))
	for i, v := range table {
		children[i] = intToLeaf(v, w)
	}
	return &filePermutation{n: len(table), width: w, table: bytetree.Node(children...)}, nil
}

func (p *filePermutation) Size() int { return p.n }

func (p *filePermutation) At(i int) int { return leafToInt(p.table.Children()[i]) }

// Apply implements §4.8's "apply on a ByteTree": sort pairs (table,
// input_children) by table, project the second.
func (p *filePermutation) Apply(children []*bytetree.ByteTree) ([]*bytetree.ByteTree, error) {
	if len(children) != p.n {
		errs.Fatalf("permutation: apply length mismatch (%d, %d)", len(children), p.n)
	}
	out, err := bytetree.ZipSortProject(p.table, bytetree.Node(children...), bytetree.LeafUintComparator)
	if err != nil {
		return nil, err
	}
	return out.Children(), nil
}

// Inv implements §4.8's "sort pairs (table, [0..n)) by the first
// component; project the second."
func (p *filePermutation) Inv() (Permutation, error) {
	idx := make([]*bytetree.ByteTree, p.n)
	for i := range idx {
		idx[i] = intToLeaf(i, p.width)
	}
	out, err := bytetree.ZipSortProject(p.table, bytetree.Node(idx...), bytetree.LeafUintComparator)
	if err != nil {
		return nil, err
	}
	inv := make([]int, p.n)
	for i, c := range out.Children() {
		inv[i] = leafToInt(c)
	}
	return newFilePermutation(inv)
}

// Shrink rank-compresses table[0:m]'s destinations into a bijection on
// [0,m), using two ZipSortProject passes (sort to find each destination's
// rank among the survivors, then sort back into source order) instead of
// the sort.Slice ranking the in-memory realization uses; both produce the
// same rank-compressed table.
func (p *filePermutation) Shrink(m int) (Permutation, error) {
	if m < 0 || m > p.n {
		return nil, errs.New(errs.Domain, "permutation: shrink size out of range")
	}
	if m == p.n {
		return newFilePermutation(p.asTable())
	}
	survivors := p.table.Children()[:m]
	idx := make([]*bytetree.ByteTree, m)
	for i := range idx {
		idx[i] = intToLeaf(i, byteLength(m))
	}
	// Sort (destination-value, original-source-index) by destination value
	// ascending: the sorted position is the destination's rank.
	sortedSrc, err := bytetree.ZipSortProject(bytetree.Node(survivors...), bytetree.Node(idx...), bytetree.LeafUintComparator)
	if err != nil {
		return nil, err
	}
	ranks := make([]*bytetree.ByteTree, m)
	for rank, c := range sortedSrc.Children() {
		ranks[rank] = intToLeaf(rank, byteLength(m))
	}
	// sortedSrc.Children()[rank] holds the original source index; zip
	// (source-index, rank) and sort by source index ascending to recover
	// the rank-compressed table in original source order.
	backByIndex, err := bytetree.ZipSortProject(sortedSrc, bytetree.Node(ranks...), bytetree.LeafUintComparator)
	if err != nil {
		return nil, err
	}
	shrunk := make([]int, m)
	for i, c := range backByIndex.Children() {
		shrunk[i] = leafToInt(c)
	}
	return newFilePermutation(shrunk)
}

func (p *filePermutation) asTable() []int {
	out := make([]int, p.n)
	for i, c := range p.table.Children() {
		out[i] = leafToInt(c)
	}
	return out
}

func (p *filePermutation) ToByteTree() *bytetree.ByteTree { return p.table }
