package bytetree

import (
	"bytes"
	"sort"

	"github.com/arithmos/vcore/internal/errs"
)

// Comparator orders two leaf ByteTrees. ZipSortProject requires it to be
// defined over leaves only (the keys it sorts).
type Comparator func(a, b *ByteTree) int

// LeafUintComparator is the permutation comparator of §4.3: leaves compare
// as unsigned big-endian integers, shorter-length leaves ordering before
// longer ones, and lexicographically within equal lengths.
func LeafUintComparator(a, b *ByteTree) int {
	ad, bd := a.Data(), b.Data()
	if len(ad) != len(bd) {
		if len(ad) < len(bd) {
			return -1
		}
		return 1
	}
	return bytes.Compare(ad, bd)
}

// ZipSortProject reads two node ByteTrees of equal child count, zips them
// into pairs (key, value) — materialized here as two-child nodes — sorts
// those pairs stably by cmp applied to the key half, and returns the
// second projection of the sorted pairs: a node of the same child count
// holding the values in the new order.
//
// This is the single primitive the file-backed permutation back-end (§4.8)
// builds every operation from.
func ZipSortProject(keyBT, valueBT *ByteTree, cmp Comparator) (*ByteTree, error) {
	if keyBT.IsLeaf() || valueBT.IsLeaf() {
		return nil, errs.New(errs.Domain, "zipSortProject: key and value trees must be internal nodes")
	}
	keys := keyBT.Children()
	values := valueBT.Children()
	if len(keys) != len(values) {
		errs.Fatalf("zipSortProject: mismatched child counts (%d keys, %d values)", len(keys), len(values))
	}

	type pair struct {
		key   *ByteTree
		value *ByteTree
		orig  int
	}
	pairs := make([]pair, len(keys))
	for i := range keys {
		pairs[i] = pair{keys[i], values[i], i}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		c := cmp(pairs[i].key, pairs[j].key)
		if c != 0 {
			return c < 0
		}
		return pairs[i].orig < pairs[j].orig
	})

	out := make([]*ByteTree, len(pairs))
	for i, p := range pairs {
		out[i] = p.value
	}
	return Node(out...), nil
}
