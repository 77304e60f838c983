package elemarray

import (
	"testing"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/field"
)

func testField(t *testing.T) *field.Field {
	t.Helper()
	f, err := field.New(bigint.FromInt64(23), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	return f
}

func els(t *testing.T, f *field.Field, xs ...int64) []*field.Element {
	t.Helper()
	out := make([]*field.Element, len(xs))
	for i, x := range xs {
		out[i] = f.NewElement(bigint.FromInt64(x))
	}
	return out
}

func TestNewFieldElementArrayRejectsForeignField(t *testing.T) {
	f := testField(t)
	other, err := field.New(bigint.FromInt64(11), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	foreign := other.NewElement(bigint.FromInt64(3))
	if _, err := NewFieldElementArray(f, []*field.Element{foreign}); err == nil {
		t.Errorf("expected an element from a different field to be rejected")
	}
}

func TestFieldElementArrayModAddModMul(t *testing.T) {
	f := testField(t)
	a, err := NewFieldElementArray(f, els(t, f, 20, 5, 9))
	if err != nil {
		t.Fatalf("NewFieldElementArray: %v", err)
	}
	b, err := NewFieldElementArray(f, els(t, f, 5, 20, 9))
	if err != nil {
		t.Fatalf("NewFieldElementArray: %v", err)
	}
	sum, err := a.ModAdd(b)
	if err != nil {
		t.Fatalf("ModAdd: %v", err)
	}
	want := []string{"2", "2", "18"}
	for i, w := range want {
		if sum.Get(i).Value().String() != w {
			t.Errorf("sum[%d] = %s, want %s", i, sum.Get(i).Value(), w)
		}
	}
	prod, err := a.ModMul(b)
	if err != nil {
		t.Fatalf("ModMul: %v", err)
	}
	wantProd := []string{"8", "8", "12"}
	for i, w := range wantProd {
		if prod.Get(i).Value().String() != w {
			t.Errorf("prod[%d] = %s, want %s", i, prod.Get(i).Value(), w)
		}
	}
}

func TestFieldElementArrayModNegModInv(t *testing.T) {
	f := testField(t)
	a, err := NewFieldElementArray(f, els(t, f, 1, 5, 22))
	if err != nil {
		t.Fatalf("NewFieldElementArray: %v", err)
	}
	neg, err := a.ModNeg()
	if err != nil {
		t.Fatalf("ModNeg: %v", err)
	}
	want := []string{"22", "18", "1"}
	for i, w := range want {
		if neg.Get(i).Value().String() != w {
			t.Errorf("neg[%d] = %s, want %s", i, neg.Get(i).Value(), w)
		}
	}
	inv, err := a.ModInv()
	if err != nil {
		t.Fatalf("ModInv: %v", err)
	}
	prod, err := a.ModMul(inv)
	if err != nil {
		t.Fatalf("ModMul: %v", err)
	}
	for i := 0; i < prod.Size(); i++ {
		if prod.Get(i).Value().String() != "1" {
			t.Errorf("a[%d] * a[%d]^-1 != 1, got %s", i, i, prod.Get(i).Value())
		}
	}
}

func TestFieldElementArrayModSumModProd(t *testing.T) {
	f := testField(t)
	a, err := NewFieldElementArray(f, els(t, f, 2, 3, 4))
	if err != nil {
		t.Fatalf("NewFieldElementArray: %v", err)
	}
	if a.ModSum().Value().String() != "9" {
		t.Errorf("ModSum = %s, want 9", a.ModSum().Value())
	}
	if a.ModProd().Value().String() != "1" { // 24 mod 23
		t.Errorf("ModProd = %s, want 1", a.ModProd().Value())
	}
}

func TestFieldElementArrayModRecLin(t *testing.T) {
	f, err := field.New(bigint.FromInt64(11), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	self, err := NewFieldElementArray(f, els(t, f, 3, 4, 5))
	if err != nil {
		t.Fatalf("NewFieldElementArray: %v", err)
	}
	other, err := NewFieldElementArray(f, els(t, f, 0, 2, 3))
	if err != nil {
		t.Fatalf("NewFieldElementArray: %v", err)
	}
	out, last, err := self.ModRecLin(other)
	if err != nil {
		t.Fatalf("ModRecLin: %v", err)
	}
	want := []string{"3", "10", "2"}
	for i, w := range want {
		if out.Get(i).Value().String() != w {
			t.Errorf("out[%d] = %s, want %s", i, out.Get(i).Value(), w)
		}
	}
	if last.Value().String() != "2" {
		t.Errorf("last = %s, want 2", last.Value())
	}
}

func TestFieldElementArrayEquals(t *testing.T) {
	f := testField(t)
	a, _ := NewFieldElementArray(f, els(t, f, 1, 2, 3))
	b, _ := NewFieldElementArray(f, els(t, f, 1, 2, 3))
	c, _ := NewFieldElementArray(f, els(t, f, 1, 2, 4))
	if !a.Equals(b) {
		t.Errorf("expected equal arrays to compare equal")
	}
	if a.Equals(c) {
		t.Errorf("expected differing arrays to compare unequal")
	}
}

func TestFieldElementArrayToByteTreeFixedWidth(t *testing.T) {
	f := testField(t)
	a, err := NewFieldElementArray(f, els(t, f, 1, 22))
	if err != nil {
		t.Fatalf("NewFieldElementArray: %v", err)
	}
	tree := a.ToByteTree()
	if tree.IsLeaf() || len(tree.Children()) != 2 {
		t.Fatalf("expected a 2-child node")
	}
	for _, c := range tree.Children() {
		if len(c.Data()) != f.ByteLength() {
			t.Errorf("expected every leaf at the field's fixed width %d, got %d", f.ByteLength(), len(c.Data()))
		}
	}
}
