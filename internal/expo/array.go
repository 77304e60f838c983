package expo

import (
	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/errs"
	"github.com/arithmos/vcore/internal/workpool"
)

// ExpProdArray is §4.7's array-level expProd(bases[], exps[], L): bases is
// partitioned into runs of the optimal simultaneous-exponentiation width
// w* = OptimalWidth(L); each run's partial power-product is computed
// against its own table, and the partial products — one per run — are
// combined by the driver (valid because the group is abelian, per §5).
// The outer loop over runs is split across a workpool once the number of
// bases exceeds grp.ExpThreadThreshold().
func ExpProdArray(bases []algebra.GroupElement, exps []*bigint.BigInt, l int, grp algebra.Group) (algebra.GroupElement, error) {
	n := len(bases)
	if n != len(exps) {
		errs.Fatalf("expo: array exponentiation length mismatch (%d bases, %d exps)", n, len(exps))
	}
	if n == 0 {
		return grp.Identity(), nil
	}
	w := OptimalWidth(l)
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	numRuns := (n + w - 1) / w

	// Per §5, partial products from parallel runs are collected into a
	// thread-safe sequence and combined by the driver in arrival order —
	// valid because the group is abelian. workpool.Collector is that
	// sequence; each run submits its partial product as soon as it is
	// computed rather than writing into a disjoint slot the driver later
	// walks in run order.
	collector := workpool.NewCollector[algebra.GroupElement](numRuns)
	work := func(start, end int) error {
		for run := start; run < end; run++ {
			offset := run * w
			width := w
			if offset+width > n {
				width = n - offset
			}
			table, err := BuildSimultaneousTable(bases, offset, width, grp)
			if err != nil {
				return err
			}
			p, err := table.ExpProd(exps, offset, l)
			if err != nil {
				return err
			}
			collector.Submit(p)
		}
		return nil
	}
	// Split compares its own count (runs) to the threshold it is given, so
	// translate "more bases than ExpThreadThreshold" into a runs threshold.
	runThreshold := numRuns
	if n > grp.ExpThreadThreshold() {
		runThreshold = 0
	}
	if err := workpool.Split(numRuns, runThreshold, work); err != nil {
		return nil, err
	}
	partials, err := collector.Drain()
	if err != nil {
		return nil, err
	}

	acc := grp.Identity()
	for _, p := range partials {
		acc, err = acc.Mul(p)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// ElementwiseExp raises each base to its matching exponent independently
// (no power-product combination), splitting the outer loop across a
// workpool once the array exceeds grp.MulThreadThreshold(), per §4.7's
// "element-wise exp and mul use the same splitter governed by
// mulThreadThreshold."
func ElementwiseExp(bases []algebra.GroupElement, exps []*bigint.BigInt, grp algebra.Group) ([]algebra.GroupElement, error) {
	n := len(bases)
	if n != len(exps) {
		errs.Fatalf("expo: elementwise exp length mismatch (%d, %d)", n, len(exps))
	}
	out := make([]algebra.GroupElement, n)
	work := func(start, end int) error {
		for i := start; i < end; i++ {
			v, err := bases[i].ExpInt(exps[i])
			if err != nil {
				return err
			}
			out[i] = v
		}
		return nil
	}
	if err := workpool.Split(n, grp.MulThreadThreshold(), work); err != nil {
		return nil, err
	}
	return out, nil
}

// ElementwiseMul multiplies a and b index-wise, governed by
// mulThreadThreshold like ElementwiseExp.
func ElementwiseMul(a, b []algebra.GroupElement, grp algebra.Group) ([]algebra.GroupElement, error) {
	n := len(a)
	if n != len(b) {
		errs.Fatalf("expo: elementwise mul length mismatch (%d, %d)", n, len(b))
	}
	out := make([]algebra.GroupElement, n)
	work := func(start, end int) error {
		for i := start; i < end; i++ {
			v, err := a[i].Mul(b[i])
			if err != nil {
				return err
			}
			out[i] = v
		}
		return nil
	}
	if err := workpool.Split(n, grp.MulThreadThreshold(), work); err != nil {
		return nil, err
	}
	return out, nil
}
