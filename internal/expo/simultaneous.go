// Package expo implements the exponentiation engines of spec.md §4.7:
// simultaneous exponentiation tables for power-products, a fixed-base
// table built on top of simultaneous exponentiation, and array
// exponentiation that partitions bases into simultaneous-exponentiation
// runs and splits the outer loop across a workpool once the array is
// large enough.
package expo

import (
	"math"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/errs"
)

// SimultaneousTable is the width-w power-product precomputation of §4.7:
// T[mask] = prod(bases[offset+i]^bit_i(mask)).
type SimultaneousTable struct {
	width int
	t     []algebra.GroupElement
	group algebra.Group
}

// BuildSimultaneousTable builds T over bases[offset:offset+width].
func BuildSimultaneousTable(bases []algebra.GroupElement, offset, width int, grp algebra.Group) (*SimultaneousTable, error) {
	if offset+width > len(bases) {
		return nil, errs.New(errs.Domain, "simultaneous table: offset+width exceeds base array length")
	}
	size := 1 << uint(width)
	t := make([]algebra.GroupElement, size)
	t[0] = grp.Identity()
	for i := 0; i < width; i++ {
		t[1<<uint(i)] = bases[offset+i]
	}
	for mask := 1; mask < size; mask++ {
		if t[mask] != nil {
			continue
		}
		low := mask & (-mask) // lowest set bit
		rest := mask ^ low
		var err error
		t[mask], err = t[rest].Mul(t[low])
		if err != nil {
			return nil, err
		}
	}
	return &SimultaneousTable{width: width, t: t, group: grp}, nil
}

// ExpProd scans exponent bit positions L-1 down to 0; at each step it
// squares the accumulator and multiplies by T[word], where word is formed
// from the w bit-i bits of exps[offset:offset+width] at the current
// position.
func (st *SimultaneousTable) ExpProd(exps []*bigint.BigInt, offset int, bitLen int) (algebra.GroupElement, error) {
	acc := st.group.Identity()
	for bitPos := bitLen - 1; bitPos >= 0; bitPos-- {
		var err error
		acc, err = acc.Mul(acc)
		if err != nil {
			return nil, err
		}
		word := 0
		for i := 0; i < st.width; i++ {
			if exps[offset+i].BitAt(bitPos) {
				word |= 1 << uint(i)
			}
		}
		if word != 0 {
			acc, err = acc.Mul(st.t[word])
			if err != nil {
				return nil, err
			}
		}
	}
	return acc, nil
}

// OptimalWidth solves argmin_w (2^w + (2 - 2^-w) * L) / w, clamped to >= 1,
// for the simultaneous-exponentiation table used to compute a single
// power-product of bit length L.
func OptimalWidth(l int) int {
	if l <= 0 {
		return 1
	}
	best, bestCost := 1, math.Inf(1)
	for w := 1; w <= 24; w++ {
		cost := (math.Pow(2, float64(w)) + (2-math.Pow(2, -float64(w)))*float64(l)) / float64(w)
		if cost < bestCost {
			bestCost = cost
			best = w
		}
	}
	return best
}
