package permutation

import (
	"testing"

	"github.com/arithmos/vcore/internal/bytetree"
)

func applyStrings(t *testing.T, p Permutation, in []string) []string {
	t.Helper()
	children := make([]*bytetree.ByteTree, len(in))
	for i, s := range in {
		children[i] = bytetree.FromString(s)
	}
	out, err := p.Apply(children)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	res := make([]string, len(out))
	for i, c := range out {
		res[i] = string(c.Data())
	}
	return res
}

func TestValidateTableRejectsNonBijection(t *testing.T) {
	if _, err := New([]int{0, 0}); err == nil {
		t.Errorf("expected a repeated destination to be rejected")
	}
	if _, err := New([]int{0, 2}); err == nil {
		t.Errorf("expected an out-of-range destination to be rejected")
	}
}

// scenario S4: table=[2,0,3,1] applied to ["a","b","c","d"] yields
// ["b","d","a","c"], and its inverse is [1,3,0,2].
func TestApplyAndInvScenarioS4_Memory(t *testing.T) {
	p := newMemPermutation([]int{2, 0, 3, 1})
	got := applyStrings(t, p, []string{"a", "b", "c", "d"})
	want := []string{"b", "d", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Apply[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	inv, err := p.Inv()
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	for i := 0; i < 4; i++ {
		if inv.At(i) != []int{1, 3, 0, 2}[i] {
			t.Errorf("Inv.At(%d) = %d, want %d", i, inv.At(i), []int{1, 3, 0, 2}[i])
		}
	}
}

func TestApplyAndInvScenarioS4_File(t *testing.T) {
	p, err := newFilePermutation([]int{2, 0, 3, 1})
	if err != nil {
		t.Fatalf("newFilePermutation: %v", err)
	}
	got := applyStrings(t, p, []string{"a", "b", "c", "d"})
	want := []string{"b", "d", "a", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Apply[%d] = %s, want %s", i, got[i], want[i])
		}
	}
	inv, err := p.Inv()
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	for i := 0; i < 4; i++ {
		if inv.At(i) != []int{1, 3, 0, 2}[i] {
			t.Errorf("Inv.At(%d) = %d, want %d", i, inv.At(i), []int{1, 3, 0, 2}[i])
		}
	}
}

func TestInvIsSelfInverse(t *testing.T) {
	p := newMemPermutation([]int{2, 0, 3, 1})
	inv, _ := p.Inv()
	back, _ := inv.Inv()
	for i := 0; i < p.Size(); i++ {
		if back.At(i) != p.At(i) {
			t.Errorf("double inverse mismatch at %d: %d vs %d", i, back.At(i), p.At(i))
		}
	}
}

func TestShrinkRankCompressesMemoryAndFileAgree(t *testing.T) {
	memP := newMemPermutation([]int{2, 0, 3, 1})
	fileP, err := newFilePermutation([]int{2, 0, 3, 1})
	if err != nil {
		t.Fatalf("newFilePermutation: %v", err)
	}
	memShrunk, err := memP.Shrink(2)
	if err != nil {
		t.Fatalf("mem Shrink: %v", err)
	}
	fileShrunk, err := fileP.Shrink(2)
	if err != nil {
		t.Fatalf("file Shrink: %v", err)
	}
	want := []int{1, 0}
	for i := range want {
		if memShrunk.At(i) != want[i] {
			t.Errorf("mem shrunk.At(%d) = %d, want %d", i, memShrunk.At(i), want[i])
		}
		if fileShrunk.At(i) != want[i] {
			t.Errorf("file shrunk.At(%d) = %d, want %d", i, fileShrunk.At(i), want[i])
		}
	}
}

func TestShrinkRejectsOutOfRange(t *testing.T) {
	p := newMemPermutation([]int{0, 1, 2})
	if _, err := p.Shrink(-1); err == nil {
		t.Errorf("expected an error for a negative shrink size")
	}
	if _, err := p.Shrink(4); err == nil {
		t.Errorf("expected an error for a shrink size exceeding n")
	}
}

func TestIdentityPermutation(t *testing.T) {
	p, err := Identity(5)
	if err != nil {
		t.Fatalf("Identity: %v", err)
	}
	for i := 0; i < 5; i++ {
		if p.At(i) != i {
			t.Errorf("Identity.At(%d) = %d, want %d", i, p.At(i), i)
		}
	}
}

func TestByteTreeRoundTripMemory(t *testing.T) {
	p := newMemPermutation([]int{2, 0, 3, 1})
	tree := p.ToByteTree()
	if tree.IsLeaf() || len(tree.Children()) != 4 {
		t.Fatalf("expected a 4-child node, got %v", tree)
	}
	for i, c := range tree.Children() {
		if leafToInt(c) != p.At(i) {
			t.Errorf("ToByteTree child %d = %d, want %d", i, leafToInt(c), p.At(i))
		}
	}
}
