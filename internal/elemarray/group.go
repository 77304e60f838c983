// Package elemarray: GroupElementArray is the companion to
// FieldElementArray, implementing spec.md §3's "Group element array — owns
// a BigIntArray of canonical representatives; invariants: every value is a
// group element; cached ByteTree if file-backed." It is built over the
// modular realization (internal/group) because that is the one realization
// whose elements are single BigInt representatives; a product or
// edwards25519 array is instead an explicit []algebra.GroupElement slice,
// since neither packs into one BigIntArray.
//
// Exponentiation over the array routes through internal/expo's
// simultaneous-exponentiation tables rather than the naive per-element
// internal/arrays.Array.ModPowArray/ModPowProd path, matching §4.7's
// "opportunistic parallelism" and §1's characterization of exponentiation
// as where "the real engineering lives."
package elemarray

import (
	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/arrays"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
	"github.com/arithmos/vcore/internal/expo"
	"github.com/arithmos/vcore/internal/group"
)

// GroupElementArray owns a BigIntArray of canonical representatives for
// elements of one modular group.
type GroupElementArray struct {
	grp *group.ModPGroup
	arr arrays.Array
}

// NewGroupElementArray validates that every element belongs to grp and
// builds an array of their representatives.
func NewGroupElementArray(grp *group.ModPGroup, els []*group.Element) (*GroupElementArray, error) {
	vals := make([]*bigint.BigInt, len(els))
	for i, e := range els {
		if !e.Group().Equal(grp) {
			return nil, errs.New(errs.Domain, "group element array: element belongs to a different group").WithIndex(i)
		}
		vals[i] = e.Value()
	}
	arr, err := arrays.New(vals)
	if err != nil {
		return nil, err
	}
	return &GroupElementArray{grp: grp, arr: arr}, nil
}

// fromArray wraps an already-built representative array without
// re-validating membership (internal use by operations that preserve it).
func fromArray(grp *group.ModPGroup, arr arrays.Array) *GroupElementArray {
	return &GroupElementArray{grp: grp, arr: arr}
}

func (a *GroupElementArray) Size() int { return a.arr.Size() }

func (a *GroupElementArray) Get(i int) *group.Element {
	el, err := a.grp.NewElement(a.arr.Get(i))
	if err != nil {
		errs.Fatalf("group element array: stored representative is not a group member: %v", err)
	}
	return el
}

func (a *GroupElementArray) elements() []algebra.GroupElement {
	n := a.arr.Size()
	out := make([]algebra.GroupElement, n)
	it := a.arr.GetIterator()
	defer it.Close()
	for i := 0; i < n; i++ {
		v, _ := it.Next()
		el, err := a.grp.NewElement(v)
		if err != nil {
			errs.Fatalf("group element array: stored representative is not a group member: %v", err)
		}
		out[i] = el
	}
	return out
}

// Mul multiplies index-wise, splitting the outer loop across a workpool
// once the array exceeds the group's mulThreadThreshold (§4.7).
func (a *GroupElementArray) Mul(o *GroupElementArray) (*GroupElementArray, error) {
	if !a.grp.Equal(o.grp) {
		return nil, errs.New(errs.Domain, "group element array: operands belong to different groups")
	}
	out, err := expo.ElementwiseMul(a.elements(), o.elements(), a.grp)
	if err != nil {
		return nil, err
	}
	return wrapElements(a.grp, out)
}

// Inv inverts every element.
func (a *GroupElementArray) Inv() (*GroupElementArray, error) {
	out, err := a.arr.ModInv(a.grp.Modulus())
	if err != nil {
		return nil, err
	}
	return fromArray(a.grp, out), nil
}

// ExpArray raises each element to its matching exponent in exps
// (index-wise, not a power-product), splitting across a workpool governed
// by the group's mulThreadThreshold per §4.7.
func (a *GroupElementArray) ExpArray(exps *FieldElementArray) (*GroupElementArray, error) {
	if !exps.f.Equal(a.grp.ExponentRing()) {
		return nil, errs.New(errs.Domain, "group element array: exponents belong to a different field")
	}
	bases := a.elements()
	rawExps := make([]*bigint.BigInt, exps.Size())
	for i := 0; i < exps.Size(); i++ {
		rawExps[i] = exps.Get(i).Value()
	}
	out, err := expo.ElementwiseExp(bases, rawExps, a.grp)
	if err != nil {
		return nil, err
	}
	return wrapElements(a.grp, out)
}

// ExpScalar raises every element to the same scalar exponent.
func (a *GroupElementArray) ExpScalar(exp *bigint.BigInt) (*GroupElementArray, error) {
	out, err := a.arr.ModPowScalar(exp, a.grp.Modulus())
	if err != nil {
		return nil, err
	}
	return fromArray(a.grp, out), nil
}

// PowProd computes the power-product prod(self[i]^exps[i]) via
// internal/expo's simultaneous-exponentiation table — the accelerated
// counterpart to internal/bigint.ModPowProd's naive per-term evaluation,
// per §4.7.
func (a *GroupElementArray) PowProd(exps *FieldElementArray, maxExpBits int) (*group.Element, error) {
	if !exps.f.Equal(a.grp.ExponentRing()) {
		return nil, errs.New(errs.Domain, "group element array: exponents belong to a different field")
	}
	if a.Size() != exps.Size() {
		errs.Fatalf("group element array: powProd length mismatch (%d bases, %d exps)", a.Size(), exps.Size())
	}
	bases := a.elements()
	rawExps := make([]*bigint.BigInt, exps.Size())
	for i := 0; i < exps.Size(); i++ {
		rawExps[i] = exps.Get(i).Value()
	}
	res, err := expo.ExpProdArray(bases, rawExps, maxExpBits, a.grp)
	if err != nil {
		return nil, err
	}
	ge, ok := res.(*group.Element)
	if !ok {
		errs.Fatalf("group element array: powProd returned an unexpected element type")
	}
	return ge, nil
}

func wrapElements(grp *group.ModPGroup, els []algebra.GroupElement) (*GroupElementArray, error) {
	vals := make([]*bigint.BigInt, len(els))
	for i, e := range els {
		ge, ok := e.(*group.Element)
		if !ok {
			errs.Fatalf("group element array: unexpected element type at index %d", i)
		}
		vals[i] = ge.Value()
	}
	arr, err := arrays.New(vals)
	if err != nil {
		return nil, err
	}
	return &GroupElementArray{grp: grp, arr: arr}, nil
}

// Permute reorders self by table (same convention as internal/arrays).
func (a *GroupElementArray) Permute(table arrays.IndexMapper) (*GroupElementArray, error) {
	out, err := a.arr.Permute(table)
	if err != nil {
		return nil, err
	}
	return fromArray(a.grp, out), nil
}

// Extract returns a new array of the elements at true positions in mask.
func (a *GroupElementArray) Extract(mask []bool) (*GroupElementArray, error) {
	out, err := a.arr.Extract(mask)
	if err != nil {
		return nil, err
	}
	return fromArray(a.grp, out), nil
}

// CopyOfRange returns the sub-array [lo,hi).
func (a *GroupElementArray) CopyOfRange(lo, hi int) (*GroupElementArray, error) {
	out, err := a.arr.CopyOfRange(lo, hi)
	if err != nil {
		return nil, err
	}
	return fromArray(a.grp, out), nil
}

func (a *GroupElementArray) Equals(o *GroupElementArray) bool {
	return a.grp.Equal(o.grp) && a.arr.Equals(o.arr)
}

// ToByteTree serializes with every leaf padded to the group's fixed
// modulusByteLength element width, per §3: "cached ByteTree if
// file-backed." (Caching is left to the back-end's own ToByteTreeWidth
// idempotence; recomputing on an in-memory array is cheap enough that a
// separate cache would only duplicate internal/arrays' bookkeeping.)
func (a *GroupElementArray) ToByteTree() *bytetree.ByteTree {
	t, err := a.arr.ToByteTreeWidth(a.grp.ByteLength())
	if err != nil {
		errs.Fatalf("group element array: %v", err)
	}
	return t
}

// GroupElementArrayFromByteTree reads a node of fixed-width
// modulusByteLength leaves back into a GroupElementArray, validating
// subgroup membership of every element when safe (§7's checked entry
// point). Each element is read with grp.ElementFromByteTree under the same
// safe flag, so with safe false membership is not checked.
func GroupElementArrayFromByteTree(grp *group.ModPGroup, t *bytetree.ByteTree, safe bool) (*GroupElementArray, error) {
	if t.IsLeaf() {
		return nil, errs.New(errs.Format, "group element array: expected an internal node of leaves")
	}
	children := t.Children()
	vals := make([]*bigint.BigInt, len(children))
	for i, c := range children {
		el, err := grp.ElementFromByteTree(c, safe)
		if err != nil {
			return nil, err
		}
		ge := el.(*group.Element)
		vals[i] = ge.Value()
	}
	arr, err := arrays.New(vals)
	if err != nil {
		return nil, err
	}
	return &GroupElementArray{grp: grp, arr: arr}, nil
}

// Free releases the backing resource (a no-op on the in-memory
// realization, a temp-file delete on the file-backed one).
func (a *GroupElementArray) Free() error { return a.arr.Free() }
