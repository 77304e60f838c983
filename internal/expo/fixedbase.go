package expo

import (
	"math"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bitutil"
	"github.com/arithmos/vcore/internal/errs"
)

// FixedBaseTable is the single-base precomputation of §4.7: for base b
// with exponent bit length L and width w, slice size s = ceil(L/w);
// bases[i] = b^(2^(s*i)); a simultaneous-exponentiation table is built
// over those synthetic bases.
type FixedBaseTable struct {
	width int
	slice int // s
	table *SimultaneousTable
}

// BuildFixedBaseTable precomputes the table for base b, exponent bit
// length l and width w.
func BuildFixedBaseTable(b algebra.GroupElement, l, w int, grp algebra.Group) (*FixedBaseTable, error) {
	if w < 1 {
		return nil, errs.New(errs.Domain, "fixed-base table: width must be >= 1")
	}
	s := bitutil.CeilDiv(l, w)
	bases := make([]algebra.GroupElement, w)
	bases[0] = b
	for i := 1; i < w; i++ {
		// bases[i] = bases[i-1]^(2^s), by s repeated squarings.
		cur := bases[i-1]
		var err error
		for k := 0; k < s; k++ {
			cur, err = cur.Mul(cur)
			if err != nil {
				return nil, err
			}
		}
		bases[i] = cur
	}
	table, err := BuildSimultaneousTable(bases, 0, w, grp)
	if err != nil {
		return nil, err
	}
	return &FixedBaseTable{width: w, slice: s, table: table}, nil
}

// Exp produces s integer slices of e (one per row of bits at offset
// i*s+j), then scans them s-1 down to 0, squaring the accumulator and
// multiplying by T[slice_j].
func (ft *FixedBaseTable) Exp(e *bigint.BigInt) (algebra.GroupElement, error) {
	slices := make([]*bigint.BigInt, ft.slice)
	for j := 0; j < ft.slice; j++ {
		word := 0
		for i := 0; i < ft.width; i++ {
			bitPos := i*ft.slice + j
			if e.BitAt(bitPos) {
				word |= 1 << uint(i)
			}
		}
		slices[j] = bigint.FromInt64(int64(word))
	}

	acc := ft.table.group.Identity()
	for j := ft.slice - 1; j >= 0; j-- {
		var err error
		acc, err = acc.Mul(acc)
		if err != nil {
			return nil, err
		}
		w := int(slices[j].Big().Int64())
		if w != 0 {
			acc, err = acc.Mul(ft.table.t[w])
			if err != nil {
				return nil, err
			}
		}
	}
	return acc, nil
}

// OptimalFixedBaseWidth minimizes the amortized table cost plus
// multiplication cost (2^w - w + L)/size + L/w, clamped to <= 17. size is
// the number of exponentiations the table is expected to amortize over.
func OptimalFixedBaseWidth(l, size int) int {
	if l <= 0 {
		return 1
	}
	best, bestCost := 1, math.Inf(1)
	for w := 1; w <= 17; w++ {
		cost := (math.Pow(2, float64(w))-float64(w)+float64(l))/float64(size) + float64(l)/float64(w)
		if cost < bestCost {
			bestCost = cost
			best = w
		}
	}
	return best
}
