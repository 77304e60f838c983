// Package elemarray implements the field-element and group-element arrays
// of spec.md §3/§4.4: typed wrappers that add a structure's canonicality
// invariant on top of internal/arrays.Array: field elements directly, and
// modular-group (*group.ModPGroup) elements as their BigInt
// representatives, with group exponentiation driven by internal/expo.
package elemarray

import (
	"github.com/arithmos/vcore/internal/arrays"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
	"github.com/arithmos/vcore/internal/field"
)

// FieldElementArray owns an internal/arrays.Array and dispatches every
// operation to it with the field's modulus, per §4.4: "Field element array
// mirrors BigInt array; operations are dispatched to the underlying
// BigIntArray with the field modulus."
type FieldElementArray struct {
	f   *field.Field
	arr arrays.Array
}

// NewFieldElementArray builds an array from field elements, validating
// that every element belongs to f.
func NewFieldElementArray(f *field.Field, els []*field.Element) (*FieldElementArray, error) {
	vals := make([]*bigint.BigInt, len(els))
	for i, e := range els {
		if !e.Ring().Equal(f) {
			return nil, errs.New(errs.Domain, "field element array: element belongs to a different field").WithIndex(i)
		}
		vals[i] = e.Value()
	}
	arr, err := arrays.New(vals)
	if err != nil {
		return nil, err
	}
	return &FieldElementArray{f: f, arr: arr}, nil
}

func (a *FieldElementArray) Size() int { return a.arr.Size() }

func (a *FieldElementArray) Get(i int) *field.Element { return a.f.NewElement(a.arr.Get(i)) }

func (a *FieldElementArray) wrap(arr arrays.Array, err error) (*FieldElementArray, error) {
	if err != nil {
		return nil, err
	}
	return &FieldElementArray{f: a.f, arr: arr}, nil
}

func (a *FieldElementArray) ModAdd(o *FieldElementArray) (*FieldElementArray, error) {
	return a.wrap(a.arr.ModAdd(o.arr, a.f.Order()))
}

func (a *FieldElementArray) ModNeg() (*FieldElementArray, error) {
	return a.wrap(a.arr.ModNeg(a.f.Order()))
}

func (a *FieldElementArray) ModMul(o *FieldElementArray) (*FieldElementArray, error) {
	return a.wrap(a.arr.ModMulArray(o.arr, a.f.Order()))
}

func (a *FieldElementArray) ModInv() (*FieldElementArray, error) {
	return a.wrap(a.arr.ModInv(a.f.Order()))
}

func (a *FieldElementArray) ModSum() *field.Element {
	return a.f.NewElement(a.arr.ModSum(a.f.Order()))
}

func (a *FieldElementArray) ModProd() *field.Element {
	return a.f.NewElement(a.arr.ModProd(a.f.Order()))
}

func (a *FieldElementArray) ModRecLin(other *FieldElementArray) (*FieldElementArray, *field.Element, error) {
	arr, last, err := a.arr.ModRecLin(other.arr, a.f.Order())
	if err != nil {
		return nil, nil, err
	}
	return &FieldElementArray{f: a.f, arr: arr}, a.f.NewElement(last), nil
}

func (a *FieldElementArray) Equals(o *FieldElementArray) bool { return a.arr.Equals(o.arr) }

// ToByteTree serializes with every leaf padded to the field's fixed
// element width.
func (a *FieldElementArray) ToByteTree() *bytetree.ByteTree {
	t, err := a.arr.ToByteTreeWidth(a.f.ByteLength())
	if err != nil {
		errs.Fatalf("field element array: %v", err)
	}
	return t
}

func (a *FieldElementArray) Free() error { return a.arr.Free() }
