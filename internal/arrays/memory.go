package arrays

import (
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
)

// memArray is the in-memory realization of Array: a plain slice, per §4.2.
type memArray struct {
	vals       []*bigint.BigInt
	widthFixed bool
	width      int // set once by ToByteTreeWidth
}

func newMemArray(vals []*bigint.BigInt) *memArray {
	cp := make([]*bigint.BigInt, len(vals))
	copy(cp, vals)
	return &memArray{vals: cp}
}

func (a *memArray) Size() int { return len(a.vals) }

func (a *memArray) Get(i int) *bigint.BigInt {
	if i < 0 || i >= len(a.vals) {
		errs.Fatalf("arrays: index %d out of range [0,%d)", i, len(a.vals))
	}
	return a.vals[i]
}

func (a *memArray) GetIterator() *Iterator {
	i := 0
	return &Iterator{next: func() (*bigint.BigInt, bool) {
		if i >= len(a.vals) {
			return nil, false
		}
		v := a.vals[i]
		i++
		return v, true
	}}
}

func (a *memArray) CopyOfRange(lo, hi int) (Array, error) {
	out, err := sliceCopyOfRange(a.vals, lo, hi)
	if err != nil {
		return nil, err
	}
	return newMemArray(out), nil
}

func (a *memArray) Permute(table IndexMapper) (Array, error) {
	out, err := slicePermute(a.vals, table)
	if err != nil {
		return nil, err
	}
	return newMemArray(out), nil
}

func (a *memArray) Extract(mask []bool) (Array, error) {
	out, err := sliceExtract(a.vals, mask)
	if err != nil {
		return nil, err
	}
	return newMemArray(out), nil
}

func (a *memArray) ShiftPush(v *bigint.BigInt) (Array, error) {
	return newMemArray(sliceShiftPush(a.vals, v)), nil
}

func (a *memArray) otherVals(o Array) []*bigint.BigInt {
	if om, ok := o.(*memArray); ok {
		return om.vals
	}
	return materialize(o)
}

func (a *memArray) ModAdd(o Array, m *bigint.BigInt) (Array, error) {
	out, err := sliceModAdd(a.vals, a.otherVals(o), m)
	if err != nil {
		return nil, err
	}
	return newMemArray(out), nil
}

func (a *memArray) ModNeg(m *bigint.BigInt) (Array, error) {
	return newMemArray(sliceModNeg(a.vals, m)), nil
}

func (a *memArray) ModMulArray(o Array, m *bigint.BigInt) (Array, error) {
	out, err := sliceModMulArray(a.vals, a.otherVals(o), m)
	if err != nil {
		return nil, err
	}
	return newMemArray(out), nil
}

func (a *memArray) ModMulScalar(v, m *bigint.BigInt) (Array, error) {
	return newMemArray(sliceModMulScalar(a.vals, v, m)), nil
}

func (a *memArray) ModInv(m *bigint.BigInt) (Array, error) {
	out, err := sliceModInv(a.vals, m)
	if err != nil {
		return nil, err
	}
	return newMemArray(out), nil
}

func (a *memArray) ModPowArray(exps Array, m *bigint.BigInt) (Array, error) {
	out, err := sliceModPowArray(a.vals, a.otherVals(exps), m)
	if err != nil {
		return nil, err
	}
	return newMemArray(out), nil
}

func (a *memArray) ModPowScalar(exp, m *bigint.BigInt) (Array, error) {
	return newMemArray(sliceModPowScalar(a.vals, exp, m)), nil
}

func (a *memArray) ModPowVariant(base, m *bigint.BigInt) (Array, error) {
	return newMemArray(sliceModPowVariant(a.vals, base, m)), nil
}

func (a *memArray) ModProd(m *bigint.BigInt) *bigint.BigInt { return sliceModProd(a.vals, m) }

func (a *memArray) ModProds(m *bigint.BigInt) (Array, error) {
	return newMemArray(sliceModProds(a.vals, m)), nil
}

func (a *memArray) ModSum(m *bigint.BigInt) *bigint.BigInt { return sliceModSum(a.vals, m) }

func (a *memArray) ModPowProd(exps Array, m *bigint.BigInt, maxExpBits int) (*bigint.BigInt, error) {
	return sliceModPowProd(a.vals, a.otherVals(exps), m, maxExpBits)
}

func (a *memArray) ModInnerProduct(o Array, m *bigint.BigInt) (*bigint.BigInt, error) {
	return sliceModInnerProduct(a.vals, a.otherVals(o), m)
}

func (a *memArray) QuadraticResidues(p *bigint.BigInt) bool {
	return sliceQuadraticResidues(a.vals, p)
}

func (a *memArray) ModRecLin(other Array, m *bigint.BigInt) (Array, *bigint.BigInt, error) {
	out, last, err := sliceModRecLin(a.vals, a.otherVals(other), m)
	if err != nil {
		return nil, nil, err
	}
	return newMemArray(out), last, nil
}

func (a *memArray) Equals(o Array) bool { return sliceEquals(a.vals, a.otherVals(o)) }

func (a *memArray) EqualsAll(v *bigint.BigInt) bool { return sliceEqualsAll(a.vals, v) }

func (a *memArray) CompareTo(o Array) int { return sliceCompareTo(a.vals, a.otherVals(o)) }

func (a *memArray) ToByteTree() *bytetree.ByteTree { return sliceToByteTree(a.vals) }

func (a *memArray) ToByteTreeWidth(w int) (*bytetree.ByteTree, error) {
	if a.widthFixed && a.width != w {
		return nil, errs.New(errs.Fatal, "arrays: attempt to re-set the expected byte length to a different width")
	}
	t, err := sliceToByteTreeWidth(a.vals, w)
	if err != nil {
		return nil, err
	}
	a.widthFixed = true
	a.width = w
	return t, nil
}

func (a *memArray) Free() error { return nil }
