package arrays

import (
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
)

// The functions in this file implement §4.2's operation surface against a
// plain slice. Both back-ends route through these once their elements are
// materialized (the in-memory realization already holds a slice; the
// file-backed realization pays for one batched read per operation, see
// file.go), so the arithmetic is written and tested exactly once.

func sliceModAdd(a, b []*bigint.BigInt, m *bigint.BigInt) ([]*bigint.BigInt, error) {
	if len(a) != len(b) {
		errs.Fatalf("arrays: modAdd length mismatch (%d, %d)", len(a), len(b))
	}
	out := make([]*bigint.BigInt, len(a))
	for i := range a {
		out[i] = a[i].ModAdd(b[i], m)
	}
	return out, nil
}

func sliceModNeg(a []*bigint.BigInt, m *bigint.BigInt) []*bigint.BigInt {
	out := make([]*bigint.BigInt, len(a))
	for i := range a {
		out[i] = a[i].Neg(m)
	}
	return out
}

func sliceModMulArray(a, b []*bigint.BigInt, m *bigint.BigInt) ([]*bigint.BigInt, error) {
	if len(a) != len(b) {
		errs.Fatalf("arrays: modMul length mismatch (%d, %d)", len(a), len(b))
	}
	out := make([]*bigint.BigInt, len(a))
	for i := range a {
		out[i] = a[i].ModMul(b[i], m)
	}
	return out, nil
}

func sliceModMulScalar(a []*bigint.BigInt, v, m *bigint.BigInt) []*bigint.BigInt {
	out := make([]*bigint.BigInt, len(a))
	for i := range a {
		out[i] = a[i].ModMul(v, m)
	}
	return out
}

func sliceModInv(a []*bigint.BigInt, m *bigint.BigInt) ([]*bigint.BigInt, error) {
	out := make([]*bigint.BigInt, len(a))
	for i := range a {
		v, err := a[i].ModInv(m)
		if err != nil {
			if e, ok := err.(*errs.Error); ok {
				return nil, e.WithIndex(i)
			}
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func sliceModPowArray(a, e []*bigint.BigInt, m *bigint.BigInt) ([]*bigint.BigInt, error) {
	if len(a) != len(e) {
		errs.Fatalf("arrays: modPow length mismatch (%d, %d)", len(a), len(e))
	}
	out := make([]*bigint.BigInt, len(a))
	for i := range a {
		out[i] = a[i].ModPow(e[i], m)
	}
	return out, nil
}

func sliceModPowScalar(a []*bigint.BigInt, e, m *bigint.BigInt) []*bigint.BigInt {
	out := make([]*bigint.BigInt, len(a))
	for i := range a {
		out[i] = a[i].ModPow(e, m)
	}
	return out
}

func sliceModPowVariant(exps []*bigint.BigInt, base, m *bigint.BigInt) []*bigint.BigInt {
	out := make([]*bigint.BigInt, len(exps))
	for i := range exps {
		out[i] = base.ModPow(exps[i], m)
	}
	return out
}

func sliceModProd(a []*bigint.BigInt, m *bigint.BigInt) *bigint.BigInt {
	return bigint.ModProd(a, m)
}

func sliceModProds(a []*bigint.BigInt, m *bigint.BigInt) []*bigint.BigInt {
	return bigint.ModProds(a, m)
}

func sliceModSum(a []*bigint.BigInt, m *bigint.BigInt) *bigint.BigInt {
	return bigint.ModSum(a, m)
}

func sliceModPowProd(bases, exps []*bigint.BigInt, m *bigint.BigInt, maxExpBits int) (*bigint.BigInt, error) {
	return bigint.ModPowProd(bases, exps, m, maxExpBits)
}

func sliceModInnerProduct(a, b []*bigint.BigInt, m *bigint.BigInt) (*bigint.BigInt, error) {
	return bigint.ModInnerProduct(a, b, m)
}

func sliceQuadraticResidues(a []*bigint.BigInt, p *bigint.BigInt) bool {
	return bigint.QuadraticResidues(a, p)
}

func sliceModRecLin(self, other []*bigint.BigInt, m *bigint.BigInt) ([]*bigint.BigInt, *bigint.BigInt, error) {
	return bigint.ModRecLin(self, other, m)
}

func sliceShiftPush(a []*bigint.BigInt, v *bigint.BigInt) []*bigint.BigInt {
	out := make([]*bigint.BigInt, len(a))
	out[0] = v
	copy(out[1:], a[:len(a)-1])
	return out
}

func sliceExtract(a []*bigint.BigInt, mask []bool) ([]*bigint.BigInt, error) {
	if len(mask) != len(a) {
		errs.Fatalf("arrays: extract mask length mismatch (%d, %d)", len(mask), len(a))
	}
	var out []*bigint.BigInt
	for i, keep := range mask {
		if keep {
			out = append(out, a[i])
		}
	}
	return out, nil
}

func sliceEquals(a, b []*bigint.BigInt) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func sliceEqualsAll(a []*bigint.BigInt, v *bigint.BigInt) bool {
	for _, e := range a {
		if !e.Equal(v) {
			return false
		}
	}
	return true
}

func sliceCompareTo(a, b []*bigint.BigInt) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := a[i].Cmp(b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

func sliceToByteTree(a []*bigint.BigInt) *bytetree.ByteTree {
	children := make([]*bytetree.ByteTree, len(a))
	for i, v := range a {
		children[i] = bytetree.Leaf(v.Bytes())
	}
	return bytetree.Node(children...)
}

func sliceToByteTreeWidth(a []*bigint.BigInt, w int) (*bytetree.ByteTree, error) {
	children := make([]*bytetree.ByteTree, len(a))
	for i, v := range a {
		b := v.Bytes()
		if len(b) > w {
			return nil, errs.Newf(errs.Format, "element %d needs %d bytes, exceeds fixed width %d", i, len(b), w)
		}
		padded := make([]byte, w)
		copy(padded[w-len(b):], b)
		children[i] = bytetree.Leaf(padded)
	}
	return bytetree.Node(children...), nil
}

func sliceCopyOfRange(a []*bigint.BigInt, lo, hi int) ([]*bigint.BigInt, error) {
	if lo < 0 || hi > len(a) || lo > hi {
		return nil, errs.Newf(errs.Domain, "copyOfRange: invalid bounds [%d,%d) for length %d", lo, hi, len(a))
	}
	out := make([]*bigint.BigInt, hi-lo)
	copy(out, a[lo:hi])
	return out, nil
}

func slicePermute(a []*bigint.BigInt, table IndexMapper) ([]*bigint.BigInt, error) {
	if table.Size() != len(a) {
		errs.Fatalf("arrays: permute table size mismatch (%d, %d)", table.Size(), len(a))
	}
	out := make([]*bigint.BigInt, len(a))
	for i, v := range a {
		out[table.At(i)] = v
	}
	return out, nil
}
