package product

import (
	"testing"

	"github.com/kr/pretty"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/field"
)

func twoFields(t *testing.T) (*field.Field, *field.Field) {
	t.Helper()
	f1, err := field.New(bigint.FromInt64(23), 20, nil)
	if err != nil {
		t.Fatalf("field 23: %v", err)
	}
	f2, err := field.New(bigint.FromInt64(11), 20, nil)
	if err != nil {
		t.Fatalf("field 11: %v", err)
	}
	return f1, f2
}

// fieldValue extracts the canonical representative string of an
// algebra.Element known to be a *field.Element, since the Element
// capability set itself exposes no Value accessor.
func fieldValue(t *testing.T, e algebra.Element) string {
	t.Helper()
	fe, ok := e.(*field.Element)
	if !ok {
		t.Fatalf("expected a *field.Element, got %T", e)
	}
	return fe.Value().String()
}

func TestRingIsPower(t *testing.T) {
	f1, f2 := twoFields(t)
	r := NewRing(f1, f2)
	if r.IsPower() {
		t.Errorf("two distinct factors should not report IsPower")
	}
	pow := NewRing(f1, f1)
	if !pow.IsPower() {
		t.Errorf("two equal factors should report IsPower")
	}
}

func TestRingAddMulComponentWise(t *testing.T) {
	f1, f2 := twoFields(t)
	r := NewRing(f1, f2)
	a, err := NewElement(r, f1.NewElement(bigint.FromInt64(20)), f2.NewElement(bigint.FromInt64(9)))
	if err != nil {
		t.Fatalf("NewElement: %v", err)
	}
	b, err := NewElement(r, f1.NewElement(bigint.FromInt64(5)), f2.NewElement(bigint.FromInt64(4)))
	if err != nil {
		t.Fatalf("NewElement: %v", err)
	}
	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	comps := sum.(*Element).Components()
	if fieldValue(t, comps[0]) != "2" || fieldValue(t, comps[1]) != "2" { // 25 mod 23, 13 mod 11
		t.Errorf("component-wise add mismatch: %v", comps)
	}
	prod, err := a.Mul(b)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	comps = prod.(*Element).Components()
	if fieldValue(t, comps[0]) != "8" || fieldValue(t, comps[1]) != "3" { // 100 mod 23, 36 mod 11
		t.Errorf("component-wise mul mismatch: %v", comps)
	}
}

func TestRingBroadcast(t *testing.T) {
	f1, f2 := twoFields(t)
	r := NewRing(f1, f2)
	a, err := NewElement(r, f1.NewElement(bigint.FromInt64(5)), f2.NewElement(bigint.FromInt64(3)))
	if err != nil {
		t.Fatalf("NewElement: %v", err)
	}
	// broadcast multiply by a scalar from the first factor's ring
	scalar := f1.NewElement(bigint.FromInt64(2))
	got, err := a.Mul(scalar)
	if err != nil {
		t.Fatalf("Mul (broadcast): %v", err)
	}
	comps := got.(*Element).Components()
	if fieldValue(t, comps[0]) != "10" {
		t.Errorf("broadcast component 0: got %s, want 10", fieldValue(t, comps[0]))
	}
}

func TestRingByteTreeRoundTrip(t *testing.T) {
	f1, f2 := twoFields(t)
	r := NewRing(f1, f2)
	a, err := NewElement(r, f1.NewElement(bigint.FromInt64(7)), f2.NewElement(bigint.FromInt64(4)))
	if err != nil {
		t.Fatalf("NewElement: %v", err)
	}
	tree := a.ToByteTree()
	if tree.IsLeaf() || len(tree.Children()) != 2 {
		t.Fatalf("expected a 2-child node, got %v", tree)
	}
	got, err := r.ElementFromBytes(append(append([]byte{}, tree.Children()[0].Data()...), tree.Children()[1].Data()...))
	if err != nil {
		t.Fatalf("ElementFromBytes: %v", err)
	}
	if !got.Equal(a) {
		t.Errorf("round trip mismatch: got %v, want %v", got, a)
	}
}

func TestProjectSingleFactorUnwraps(t *testing.T) {
	f1, f2 := twoFields(t)
	r := NewRing(f1, f2)
	p, err := r.Project([]bool{true, false})
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if pf, ok := p.(*field.Field); !ok || pf != f1 {
		t.Errorf("single-factor projection should return the bare factor")
	}
}

func TestDecomposeTransposes(t *testing.T) {
	f1, f2 := twoFields(t)
	r := NewRing(f1, f2)
	e1, _ := NewElement(r, f1.NewElement(bigint.FromInt64(1)), f2.NewElement(bigint.FromInt64(2)))
	e2, _ := NewElement(r, f1.NewElement(bigint.FromInt64(3)), f2.NewElement(bigint.FromInt64(4)))
	cols, err := Decompose([]*Element{e1, e2})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}
	if len(cols) != 2 || len(cols[0]) != 2 {
		t.Fatalf("expected a 2x2 transpose, got shape %d x %d", len(cols), len(cols[0]))
	}
	if fieldValue(t, cols[0][0]) != "1" || fieldValue(t, cols[1][1]) != "4" {
		t.Errorf("unexpected transpose contents: %v", cols)
	}
}

func TestDecomposeRejectsEmpty(t *testing.T) {
	if _, err := Decompose(nil); err == nil {
		t.Errorf("expected an error for an empty array")
	}
}

// TestDecomposeTransposeShape compares the full transposed shape against a
// hand-computed expectation with pretty.Diff, rather than spot-checking a
// couple of cells, since a transpose bug often only shows up off the
// diagonal.
func TestDecomposeTransposeShape(t *testing.T) {
	f1, f2 := twoFields(t)
	r := NewRing(f1, f2)
	e1, _ := NewElement(r, f1.NewElement(bigint.FromInt64(1)), f2.NewElement(bigint.FromInt64(2)))
	e2, _ := NewElement(r, f1.NewElement(bigint.FromInt64(3)), f2.NewElement(bigint.FromInt64(4)))
	e3, _ := NewElement(r, f1.NewElement(bigint.FromInt64(5)), f2.NewElement(bigint.FromInt64(6)))
	cols, err := Decompose([]*Element{e1, e2, e3})
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	got := make([][]string, len(cols))
	for i, col := range cols {
		got[i] = make([]string, len(col))
		for j, e := range col {
			got[i][j] = fieldValue(t, e)
		}
	}
	want := [][]string{
		{"1", "3", "5"},
		{"2", "4", "6"},
	}
	if diff := pretty.Diff(got, want); len(diff) != 0 {
		t.Errorf("transpose shape mismatch:\n%s", pretty.Sprint(diff))
	}
}
