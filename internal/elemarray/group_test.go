package elemarray

import (
	"testing"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/encoding"
	"github.com/arithmos/vcore/internal/field"
	"github.com/arithmos/vcore/internal/group"
)

type fixedPermutation struct{ table []int }

func (p fixedPermutation) Size() int    { return len(p.table) }
func (p fixedPermutation) At(i int) int { return p.table[i] }

func testGroup(t *testing.T) *group.ModPGroup {
	t.Helper()
	grp, err := group.New(bigint.FromInt64(23), bigint.FromInt64(11), bigint.FromInt64(2), encoding.SafePrime, 20, nil)
	if err != nil {
		t.Fatalf("group.New: %v", err)
	}
	return grp
}

func groupEls(t *testing.T, grp *group.ModPGroup, xs ...int64) []*group.Element {
	t.Helper()
	out := make([]*group.Element, len(xs))
	for i, x := range xs {
		el, err := grp.NewElement(bigint.FromInt64(x))
		if err != nil {
			t.Fatalf("grp.NewElement(%d): %v", x, err)
		}
		out[i] = el
	}
	return out
}

func TestNewGroupElementArrayRejectsForeignGroup(t *testing.T) {
	grp := testGroup(t)
	other, err := group.New(bigint.FromInt64(167), bigint.FromInt64(83), bigint.FromInt64(4), encoding.SafePrime, 20, nil)
	if err != nil {
		t.Fatalf("group.New: %v", err)
	}
	foreign, err := other.NewElement(bigint.FromInt64(4))
	if err != nil {
		t.Fatalf("other.NewElement: %v", err)
	}
	if _, err := NewGroupElementArray(grp, []*group.Element{foreign}); err == nil {
		t.Errorf("expected an element from a different group to be rejected")
	}
}

func TestGroupElementArrayMulInv(t *testing.T) {
	grp := testGroup(t)
	a, err := NewGroupElementArray(grp, groupEls(t, grp, 2, 4, 8))
	if err != nil {
		t.Fatalf("NewGroupElementArray: %v", err)
	}
	b, err := NewGroupElementArray(grp, groupEls(t, grp, 4, 2, 2))
	if err != nil {
		t.Fatalf("NewGroupElementArray: %v", err)
	}
	prod, err := a.Mul(b)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	want := []string{"8", "8", "16"} // 8,8,16 mod 23
	for i, w := range want {
		if prod.Get(i).Value().String() != w {
			t.Errorf("prod[%d] = %s, want %s", i, prod.Get(i).Value(), w)
		}
	}
	inv, err := a.Inv()
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	id, err := a.Mul(inv)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	for i := 0; i < id.Size(); i++ {
		if id.Get(i).Value().String() != "1" {
			t.Errorf("a[%d] * a[%d]^-1 != identity, got %s", i, i, id.Get(i).Value())
		}
	}
}

func TestGroupElementArrayExpArrayAndExpScalar(t *testing.T) {
	grp := testGroup(t)
	f, err := field.New(grp.Order(), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	bases, err := NewGroupElementArray(grp, groupEls(t, grp, 2, 2, 2))
	if err != nil {
		t.Fatalf("NewGroupElementArray: %v", err)
	}
	exps, err := NewFieldElementArray(f, els(t, f, 1, 2, 3))
	if err != nil {
		t.Fatalf("NewFieldElementArray: %v", err)
	}
	got, err := bases.ExpArray(exps)
	if err != nil {
		t.Fatalf("ExpArray: %v", err)
	}
	want := []string{"2", "4", "8"}
	for i, w := range want {
		if got.Get(i).Value().String() != w {
			t.Errorf("ExpArray[%d] = %s, want %s", i, got.Get(i).Value(), w)
		}
	}
	scalar, err := bases.ExpScalar(bigint.FromInt64(2))
	if err != nil {
		t.Fatalf("ExpScalar: %v", err)
	}
	for i := 0; i < scalar.Size(); i++ {
		if scalar.Get(i).Value().String() != "4" {
			t.Errorf("ExpScalar[%d] = %s, want 4", i, scalar.Get(i).Value())
		}
	}
}

func TestGroupElementArrayPowProd(t *testing.T) {
	grp := testGroup(t)
	f, err := field.New(grp.Order(), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	g := bigint.FromInt64(2)
	m := bigint.FromInt64(23)
	bases, err := NewGroupElementArray(grp, groupEls(t,
		grp,
		g.ModPow(bigint.FromInt64(1), m).Big().Int64(),
		g.ModPow(bigint.FromInt64(2), m).Big().Int64(),
		g.ModPow(bigint.FromInt64(3), m).Big().Int64(),
		g.ModPow(bigint.FromInt64(4), m).Big().Int64(),
	))
	if err != nil {
		t.Fatalf("NewGroupElementArray: %v", err)
	}
	exps, err := NewFieldElementArray(f, els(t, f, 1, 2, 3, 4))
	if err != nil {
		t.Fatalf("NewFieldElementArray: %v", err)
	}
	got, err := bases.PowProd(exps, 8)
	if err != nil {
		t.Fatalf("PowProd: %v", err)
	}
	want := g.ModPow(bigint.FromInt64(30), m)
	if got.Value().String() != want.String() {
		t.Errorf("PowProd = %s, want %s", got.Value(), want)
	}
}

func TestGroupElementArrayPermuteExtractCopyOfRange(t *testing.T) {
	grp := testGroup(t)
	a, err := NewGroupElementArray(grp, groupEls(t, grp, 2, 4, 8, 16))
	if err != nil {
		t.Fatalf("NewGroupElementArray: %v", err)
	}
	perm, err := a.Permute(fixedPermutation{table: []int{2, 0, 3, 1}})
	if err != nil {
		t.Fatalf("Permute: %v", err)
	}
	want := []string{"4", "16", "2", "8"}
	for i, w := range want {
		if perm.Get(i).Value().String() != w {
			t.Errorf("perm[%d] = %s, want %s", i, perm.Get(i).Value(), w)
		}
	}
	extracted, err := a.Extract([]bool{true, false, true, false})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if extracted.Size() != 2 || extracted.Get(0).Value().String() != "2" || extracted.Get(1).Value().String() != "8" {
		t.Errorf("Extract mismatch")
	}
	sub, err := a.CopyOfRange(1, 3)
	if err != nil {
		t.Fatalf("CopyOfRange: %v", err)
	}
	if sub.Size() != 2 || sub.Get(0).Value().String() != "4" || sub.Get(1).Value().String() != "8" {
		t.Errorf("CopyOfRange mismatch")
	}
}

func TestGroupElementArrayEqualsAndByteTree(t *testing.T) {
	grp := testGroup(t)
	a, err := NewGroupElementArray(grp, groupEls(t, grp, 2, 4))
	if err != nil {
		t.Fatalf("NewGroupElementArray: %v", err)
	}
	b, err := NewGroupElementArray(grp, groupEls(t, grp, 2, 4))
	if err != nil {
		t.Fatalf("NewGroupElementArray: %v", err)
	}
	if !a.Equals(b) {
		t.Errorf("expected equal arrays to compare equal")
	}
	tree := a.ToByteTree()
	if tree.IsLeaf() || len(tree.Children()) != 2 {
		t.Fatalf("expected a 2-child node")
	}
	for _, c := range tree.Children() {
		if len(c.Data()) != grp.ByteLength() {
			t.Errorf("expected every leaf at the group's fixed width %d, got %d", grp.ByteLength(), len(c.Data()))
		}
	}
	round, err := GroupElementArrayFromByteTree(grp, tree, true)
	if err != nil {
		t.Fatalf("GroupElementArrayFromByteTree: %v", err)
	}
	if !round.Equals(a) {
		t.Errorf("round trip mismatch")
	}
}
