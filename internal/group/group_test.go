package group

import (
	"testing"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/encoding"
	"github.com/arithmos/vcore/internal/field"
)

// testGroup builds the order-q subgroup of (Z/pZ)*: p is a safe prime with
// (p-1)/2 = q also prime, and g=4 is a nontrivial square and therefore a
// generator of the order-q subgroup. p is sized well beyond what
// F(q).EncodeLength() alone requires so the safePrime scheme's
// min(v, p-v) recovery (internal/encoding) has headroom for the tests'
// short messages.
func testGroup(t *testing.T) *ModPGroup {
	t.Helper()
	grp, err := New(bigint.FromInt64(16044500071945403), bigint.FromInt64(8022250035972701), bigint.FromInt64(4), encoding.SafePrime, 20, fixedReader{b: 7})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return grp
}

func TestNewRejectsBadGenerator(t *testing.T) {
	if _, err := New(bigint.FromInt64(16044500071945403), bigint.FromInt64(8022250035972701), bigint.FromInt64(1), encoding.SafePrime, 20, fixedReader{b: 7}); err == nil {
		t.Errorf("expected generator=1 to be rejected")
	}
	// 2 is not a quadratic residue mod p (not in the order-q subgroup).
	if _, err := New(bigint.FromInt64(16044500071945403), bigint.FromInt64(8022250035972701), bigint.FromInt64(2), encoding.SafePrime, 20, fixedReader{b: 7}); err == nil {
		t.Errorf("expected a generator outside the subgroup to be rejected")
	}
}

func TestNewRejectsNonDividingOrder(t *testing.T) {
	if _, err := New(bigint.FromInt64(563), bigint.FromInt64(17), bigint.FromInt64(4), encoding.SafePrime, 20, nil); err == nil {
		t.Errorf("expected an order not dividing p-1 to be rejected")
	}
}

func TestIdentityAndGeneratorMembership(t *testing.T) {
	grp := testGroup(t)
	if !grp.Contains(grp.Identity()) {
		t.Errorf("identity must be a group member")
	}
	if !grp.Contains(grp.StandardGenerator()) {
		t.Errorf("generator must be a group member")
	}
}

func TestMulInvExp(t *testing.T) {
	grp := testGroup(t)
	g := grp.StandardGenerator()
	g2, err := g.Mul(g)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	g2exp, err := g.ExpInt(bigint.FromInt64(2))
	if err != nil {
		t.Fatalf("ExpInt: %v", err)
	}
	if !g2.Equal(g2exp) {
		t.Errorf("g*g != g^2: %v vs %v", g2, g2exp)
	}
	inv := g.Inv()
	prod, err := g.Mul(inv)
	if err != nil || !prod.Equal(grp.Identity()) {
		t.Errorf("g * g^-1 != identity: %v, %v", prod, err)
	}
}

func TestExpOrderQIsIdentity(t *testing.T) {
	grp := testGroup(t)
	g := grp.StandardGenerator()
	got, err := g.ExpInt(grp.Order())
	if err != nil || !got.Equal(grp.Identity()) {
		t.Errorf("g^q != identity: %v, %v", got, err)
	}
}

func TestNewElementValidatesMembership(t *testing.T) {
	grp := testGroup(t)
	if _, err := grp.NewElement(bigint.FromInt64(2)); err == nil {
		t.Errorf("expected NewElement to reject a non-member representative")
	}
	el, err := grp.NewElement(bigint.FromInt64(4))
	if err != nil {
		t.Fatalf("NewElement: %v", err)
	}
	if !el.Equal(grp.StandardGenerator()) {
		t.Errorf("NewElement(4) should equal the standard generator")
	}
}

func TestBytesRoundTripAndByteTree(t *testing.T) {
	grp := testGroup(t)
	g := grp.StandardGenerator()
	el, err := grp.ElementFromByteTree(g.ToByteTree(), true)
	if err != nil {
		t.Fatalf("ElementFromByteTree: %v", err)
	}
	if !el.Equal(g) {
		t.Errorf("round trip mismatch: %v vs %v", el, g)
	}
}

func TestElementFromByteTreeUnsafeDefersValidation(t *testing.T) {
	grp := testGroup(t)
	raw := make([]byte, grp.ByteLength())
	raw[len(raw)-1] = 2 // 2 is not a member of the order-q subgroup
	bad := bytetree.Leaf(raw)
	el, err := grp.ElementFromByteTree(bad, false)
	if err != nil {
		t.Fatalf("unsafe ElementFromByteTree should not validate eagerly: %v", err)
	}
	e := el.(*Element)
	defer func() {
		if recover() == nil {
			t.Errorf("expected VerifyUnsafe to panic for a non-member value")
		}
	}()
	e.VerifyUnsafe()
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	grp := testGroup(t)
	msg := []byte{0x2a}
	el, err := grp.Encode(msg)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !grp.Contains(el) {
		t.Errorf("encoded element must belong to the group")
	}
	got, err := grp.Decode(el)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if string(got) != string(msg) {
		t.Errorf("decode mismatch: got % x, want % x", got, msg)
	}
}

func TestParamsByteTreeRoundTrip(t *testing.T) {
	grp := testGroup(t)
	got, err := FromByteTree(grp.ToByteTree(), 20, fixedReader{b: 7})
	if err != nil {
		t.Fatalf("FromByteTree: %v", err)
	}
	if !got.Equal(grp) {
		t.Errorf("parameter round trip produced a different group")
	}
}

func TestExponentRingMatchesOrder(t *testing.T) {
	grp := testGroup(t)
	f, ok := grp.ExponentRing().(*field.Field)
	if !ok || f.Order().Cmp(grp.Order()) != 0 {
		t.Errorf("exponent ring order should equal the group order")
	}
}
