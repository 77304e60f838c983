package expo

import (
	"testing"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/encoding"
	"github.com/arithmos/vcore/internal/group"
)

func testGroup(t *testing.T) *group.ModPGroup {
	t.Helper()
	grp, err := group.New(bigint.FromInt64(23), bigint.FromInt64(11), bigint.FromInt64(2), encoding.SafePrime, 20, nil)
	if err != nil {
		t.Fatalf("group.New: %v", err)
	}
	return grp
}

func TestSimultaneousTableExpProdMatchesRepeatedSquaring(t *testing.T) {
	grp := testGroup(t)
	g := grp.StandardGenerator()
	bases := []algebra.GroupElement{g}
	table, err := BuildSimultaneousTable(bases, 0, 1, grp)
	if err != nil {
		t.Fatalf("BuildSimultaneousTable: %v", err)
	}
	got, err := table.ExpProd([]*bigint.BigInt{bigint.FromInt64(5)}, 0, 4)
	if err != nil {
		t.Fatalf("ExpProd: %v", err)
	}
	want, err := g.ExpInt(bigint.FromInt64(5))
	if err != nil {
		t.Fatalf("ExpInt: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("ExpProd(g,5) = %v, want %v", got, want)
	}
}

func TestSimultaneousTableExpProdScenarioS2(t *testing.T) {
	// scenario S2: bases = [g, g^2, g^3, g^4], exps = [1,2,3,4]; result =
	// g^(1+4+9+16) = g^30.
	grp := testGroup(t)
	g := grp.StandardGenerator()
	bases := make([]algebra.GroupElement, 4)
	for i := 0; i < 4; i++ {
		var err error
		bases[i], err = g.ExpInt(bigint.FromInt64(int64(i + 1)))
		if err != nil {
			t.Fatalf("ExpInt: %v", err)
		}
	}
	exps := []*bigint.BigInt{bigint.FromInt64(1), bigint.FromInt64(2), bigint.FromInt64(3), bigint.FromInt64(4)}
	got, err := ExpProdArray(bases, exps, 3, grp)
	if err != nil {
		t.Fatalf("ExpProdArray: %v", err)
	}
	want, err := g.ExpInt(bigint.FromInt64(30))
	if err != nil {
		t.Fatalf("ExpInt: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("ExpProdArray = %v, want %v", got, want)
	}
}

func TestExpProdArrayEmptyIsIdentity(t *testing.T) {
	grp := testGroup(t)
	got, err := ExpProdArray(nil, nil, 4, grp)
	if err != nil {
		t.Fatalf("ExpProdArray: %v", err)
	}
	if !got.Equal(grp.Identity()) {
		t.Errorf("empty power-product should be the identity, got %v", got)
	}
}

func TestFixedBaseTableMatchesExpInt(t *testing.T) {
	grp := testGroup(t)
	g := grp.StandardGenerator()
	table, err := BuildFixedBaseTable(g, 5, 2, grp)
	if err != nil {
		t.Fatalf("BuildFixedBaseTable: %v", err)
	}
	for _, e := range []int64{0, 1, 3, 7, 13} {
		got, err := table.Exp(bigint.FromInt64(e))
		if err != nil {
			t.Fatalf("Exp(%d): %v", e, err)
		}
		want, err := g.ExpInt(bigint.FromInt64(e))
		if err != nil {
			t.Fatalf("ExpInt(%d): %v", e, err)
		}
		if !got.Equal(want) {
			t.Errorf("FixedBaseTable.Exp(%d) = %v, want %v", e, got, want)
		}
	}
}

func TestElementwiseExpAndMul(t *testing.T) {
	grp := testGroup(t)
	g := grp.StandardGenerator()
	bases := []algebra.GroupElement{g, g, g}
	exps := []*bigint.BigInt{bigint.FromInt64(1), bigint.FromInt64(2), bigint.FromInt64(3)}
	got, err := ElementwiseExp(bases, exps, grp)
	if err != nil {
		t.Fatalf("ElementwiseExp: %v", err)
	}
	for i, e := range exps {
		want, _ := g.ExpInt(e)
		if !got[i].Equal(want) {
			t.Errorf("ElementwiseExp[%d] = %v, want %v", i, got[i], want)
		}
	}
	doubled, err := ElementwiseMul(got, got, grp)
	if err != nil {
		t.Fatalf("ElementwiseMul: %v", err)
	}
	for i, e := range exps {
		want, _ := g.ExpInt(e.Add(e))
		if !doubled[i].Equal(want) {
			t.Errorf("ElementwiseMul[%d] = %v, want %v", i, doubled[i], want)
		}
	}
}

func TestOptimalWidthAndFixedBaseWidthAreSane(t *testing.T) {
	if w := OptimalWidth(0); w != 1 {
		t.Errorf("OptimalWidth(0) = %d, want 1", w)
	}
	if w := OptimalWidth(1024); w < 1 || w > 24 {
		t.Errorf("OptimalWidth(1024) = %d out of bounds", w)
	}
	if w := OptimalFixedBaseWidth(1024, 100); w < 1 || w > 17 {
		t.Errorf("OptimalFixedBaseWidth(1024,100) = %d out of bounds", w)
	}
}

func TestElementwiseExpLengthMismatchIsFatal(t *testing.T) {
	grp := testGroup(t)
	g := grp.StandardGenerator()
	defer func() {
		if recover() == nil {
			t.Errorf("expected a length mismatch to panic")
		}
	}()
	ElementwiseExp([]algebra.GroupElement{g}, nil, grp)
}
