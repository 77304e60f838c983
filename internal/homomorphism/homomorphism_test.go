package homomorphism

import (
	"testing"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/encoding"
	"github.com/arithmos/vcore/internal/field"
	"github.com/arithmos/vcore/internal/group"
	"github.com/arithmos/vcore/internal/product"
)

func testGroup(t *testing.T, p, q, g int64) *group.ModPGroup {
	t.Helper()
	grp, err := group.New(bigint.FromInt64(p), bigint.FromInt64(q), bigint.FromInt64(g), encoding.SafePrime, 20, nil)
	if err != nil {
		t.Fatalf("group.New(%d,%d,%d): %v", p, q, g, err)
	}
	return grp
}

func TestExpMapMatchesExp(t *testing.T) {
	grp := testGroup(t, 23, 11, 2)
	f, err := field.New(grp.Order(), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	h := grp.StandardGenerator()
	r := f.NewElement(bigint.FromInt64(3))

	var m ExpMap
	got, err := m.Map(r, h)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	want, err := h.Exp(r)
	if err != nil {
		t.Fatalf("Exp: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("ExpMap.Map = %v, want %v", got, want)
	}
}

func TestRestrictRingAndRestrictGroup(t *testing.T) {
	grp := testGroup(t, 23, 11, 2)
	f, err := field.New(grp.Order(), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	h := grp.StandardGenerator()
	r := f.NewElement(bigint.FromInt64(3))

	var m ExpMap
	ringHom := m.RestrictRing(h)
	got, err := ringHom.Map(r)
	if err != nil {
		t.Fatalf("RestrictRing.Map: %v", err)
	}
	want, _ := m.Map(r, h)
	if !got.Equal(want) {
		t.Errorf("RestrictRing.Map = %v, want %v", got, want)
	}

	grpHom := m.RestrictGroup(r)
	got2, err := grpHom.Map(h)
	if err != nil {
		t.Fatalf("RestrictGroup.Map: %v", err)
	}
	if !got2.Equal(want) {
		t.Errorf("RestrictGroup.Map = %v, want %v", got2, want)
	}
}

func TestProductRingHomomorphismComposesComponentWise(t *testing.T) {
	g1 := testGroup(t, 23, 11, 2)
	g2 := testGroup(t, 167, 83, 4)
	f1, err := field.New(g1.Order(), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	f2, err := field.New(g2.Order(), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	ring := product.NewRing(f1, f2)

	var m ExpMap
	hom, err := NewProductRingHomomorphism(ring, m.RestrictRing(g1.StandardGenerator()), m.RestrictRing(g2.StandardGenerator()))
	if err != nil {
		t.Fatalf("NewProductRingHomomorphism: %v", err)
	}
	r, err := product.NewElement(ring, f1.NewElement(bigint.FromInt64(2)), f2.NewElement(bigint.FromInt64(3)))
	if err != nil {
		t.Fatalf("NewElement: %v", err)
	}
	got, err := hom.Map(r)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	gotPE := got.(*product.GroupElement)
	want1, _ := g1.StandardGenerator().Exp(f1.NewElement(bigint.FromInt64(2)))
	want2, _ := g2.StandardGenerator().Exp(f2.NewElement(bigint.FromInt64(3)))
	if !gotPE.Components()[0].Equal(want1) || !gotPE.Components()[1].Equal(want2) {
		t.Errorf("product ring homomorphism mismatch: %v", gotPE.Components())
	}
}

func TestProductGroupHomomorphismComposesComponentWise(t *testing.T) {
	g1 := testGroup(t, 23, 11, 2)
	g2 := testGroup(t, 167, 83, 4)
	f1, err := field.New(g1.Order(), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	f2, err := field.New(g2.Order(), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	grp := product.NewGroup(g1, g2)

	var m ExpMap
	r1 := f1.NewElement(bigint.FromInt64(2))
	r2 := f2.NewElement(bigint.FromInt64(3))
	hom, err := NewProductGroupHomomorphism(grp, m.RestrictGroup(r1), m.RestrictGroup(r2))
	if err != nil {
		t.Fatalf("NewProductGroupHomomorphism: %v", err)
	}
	h, err := product.NewGroupElement(grp, g1.StandardGenerator(), g2.StandardGenerator())
	if err != nil {
		t.Fatalf("NewGroupElement: %v", err)
	}
	got, err := hom.Map(h)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	gotPE := got.(*product.GroupElement)
	want1, _ := g1.StandardGenerator().Exp(r1)
	want2, _ := g2.StandardGenerator().Exp(r2)
	if !gotPE.Components()[0].Equal(want1) || !gotPE.Components()[1].Equal(want2) {
		t.Errorf("product group homomorphism mismatch: %v", gotPE.Components())
	}
}

func TestProductRingHomomorphismRejectsWidthMismatch(t *testing.T) {
	g1 := testGroup(t, 23, 11, 2)
	f1, err := field.New(g1.Order(), 20, nil)
	if err != nil {
		t.Fatalf("field.New: %v", err)
	}
	ring := product.NewRing(f1, f1)
	var m ExpMap
	if _, err := NewProductRingHomomorphism(ring, m.RestrictRing(g1.StandardGenerator())); err == nil {
		t.Errorf("expected a width mismatch to be rejected")
	}
}
