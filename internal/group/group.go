// Package group implements the prime-order modular group of spec.md §4.5:
// the order-q subgroup of (Z/pZ)* for a safe prime p (or p = k*q+1), with
// element canonicalization to [1,p) and subgroup-membership checking.
package group

import (
	"io"
	"sync"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/encoding"
	"github.com/arithmos/vcore/internal/errs"
	"github.com/arithmos/vcore/internal/field"
	"github.com/arithmos/vcore/internal/primes"
)

const (
	defaultExpThreadThreshold = 100
	defaultMulThreadThreshold = 1000
)

// ModPGroup is the order-q subgroup of (Z/pZ)*.
type ModPGroup struct {
	p, q, g  *bigint.BigInt
	k        *bigint.BigInt // cofactor (p-1)/q
	f        *field.Field   // the associated exponent field F(q)
	scheme   encoding.Scheme
	byteLen  int // modulusByteLength

	mu                 sync.Mutex
	expThreadThreshold int
	mulThreadThreshold int
}

// New constructs G validating: p probable prime; q | (p-1); q probable
// prime; g != 1; g^q == 1 mod p.
func New(p, q, g *bigint.BigInt, scheme encoding.Scheme, certainty int, rs io.Reader) (*ModPGroup, error) {
	if !primes.IsProbablePrime(p, certainty, rs) {
		return nil, errs.New(errs.Format, "modulus p is not prime")
	}
	if !primes.IsProbablePrime(q, certainty, rs) {
		return nil, errs.New(errs.Format, "order q is not prime")
	}
	pMinus1 := p.Sub(bigint.One())
	k, err := pMinus1.Div(q)
	if err != nil {
		return nil, errs.Wrap(errs.Arithmetic, err, "computing cofactor")
	}
	if k.Mul(q).Cmp(pMinus1) != 0 {
		return nil, errs.New(errs.Format, "q does not divide p-1")
	}
	if g.IsOne() {
		return nil, errs.New(errs.Format, "generator must not be 1")
	}
	if !g.ModPow(q, p).IsOne() {
		return nil, errs.New(errs.Format, "generator does not have order dividing q")
	}
	f, err := field.New(q, certainty, rs)
	if err != nil {
		return nil, err
	}

	return &ModPGroup{
		p: p, q: q, g: g, k: k, f: f, scheme: scheme,
		byteLen:            p.ByteLen(),
		expThreadThreshold: defaultExpThreadThreshold,
		mulThreadThreshold: defaultMulThreadThreshold,
	}, nil
}

func (grp *ModPGroup) Name() string                  { return "ModPGroup(p=" + grp.p.String() + ")" }
func (grp *ModPGroup) Modulus() *bigint.BigInt        { return grp.p }
func (grp *ModPGroup) Order() *bigint.BigInt          { return grp.q }
func (grp *ModPGroup) Cofactor() *bigint.BigInt       { return grp.k }
func (grp *ModPGroup) ExponentRing() algebra.Ring     { return grp.f }
func (grp *ModPGroup) ByteLength() int                { return grp.byteLen }
func (grp *ModPGroup) Scheme() encoding.Scheme         { return grp.scheme }
func (grp *ModPGroup) EncodeLength() int              { return grp.f.EncodeLength() }

func (grp *ModPGroup) Identity() algebra.GroupElement          { return &Element{grp: grp, v: bigint.One()} }
func (grp *ModPGroup) StandardGenerator() algebra.GroupElement { return &Element{grp: grp, v: grp.g} }

// NewElement builds a group element from an already-reduced representative
// v, validating Contains. Used by internal/elemarray to lift raw BigInt
// representatives (e.g. read back from a BigIntArray) into group elements.
func (grp *ModPGroup) NewElement(v *bigint.BigInt) (*Element, error) {
	if !grp.contains(v) {
		return nil, errs.New(errs.Format, "value is not a member of the group")
	}
	return &Element{grp: grp, v: v, verified: true}, nil
}

func (grp *ModPGroup) Equal(other algebra.Group) bool {
	o, ok := other.(*ModPGroup)
	return ok && grp.p.Equal(o.p) && grp.q.Equal(o.q) && grp.g.Equal(o.g)
}

func (grp *ModPGroup) ExpThreadThreshold() int {
	grp.mu.Lock()
	defer grp.mu.Unlock()
	return grp.expThreadThreshold
}

func (grp *ModPGroup) MulThreadThreshold() int {
	grp.mu.Lock()
	defer grp.mu.Unlock()
	return grp.mulThreadThreshold
}

func (grp *ModPGroup) SetExpThreadThreshold(v int) {
	grp.mu.Lock()
	defer grp.mu.Unlock()
	grp.expThreadThreshold = v
}

func (grp *ModPGroup) SetMulThreadThreshold(v int) {
	grp.mu.Lock()
	defer grp.mu.Unlock()
	grp.mulThreadThreshold = v
}

// Contains reports 1<=v<p and v^q == 1 mod p. A safe-prime group's fast
// path uses the Legendre symbol instead of a full exponentiation whenever
// q == (p-1)/2, since then v^q==1 mod p iff v is a nonzero quadratic
// residue.
func (grp *ModPGroup) contains(v *bigint.BigInt) bool {
	if v.Cmp(bigint.One()) < 0 || v.Cmp(grp.p) >= 0 {
		return false
	}
	if grp.k.Cmp(bigint.FromInt64(2)) == 0 {
		return v.IsQuadraticResidue(grp.p)
	}
	return v.ModPow(grp.q, grp.p).IsOne()
}

func (grp *ModPGroup) Contains(e algebra.GroupElement) bool {
	el, ok := e.(*Element)
	if !ok {
		return false
	}
	return grp.contains(el.v)
}

// Encode maps msg to a group element via the group's configured scheme.
func (grp *ModPGroup) Encode(msg []byte) (algebra.GroupElement, error) {
	v, err := encoding.Encode(grp.scheme, msg, 0, len(msg), grp.p, grp.q, grp.g, grp.f.EncodeLength())
	if err != nil {
		return nil, err
	}
	return &Element{grp: grp, v: v}, nil
}

// Decode reverses Encode.
func (grp *ModPGroup) Decode(e algebra.GroupElement) ([]byte, error) {
	el, ok := e.(*Element)
	if !ok {
		return nil, errs.New(errs.Domain, "decode: element does not belong to this group")
	}
	return encoding.Decode(grp.scheme, el.v, grp.p, grp.q, grp.g, grp.f.EncodeLength())
}

// RandomElement samples a uniform exponent and raises the generator to it.
func (grp *ModPGroup) RandomElement(rs io.Reader) (algebra.GroupElement, error) {
	exp, err := grp.f.RandomElement(rs)
	if err != nil {
		return nil, err
	}
	return grp.StandardGenerator().Exp(exp)
}

// ElementFromByteTree reads a fixed-width modulusByteLength leaf. If safe,
// Contains is validated immediately; otherwise validation is deferred to
// VerifyUnsafe (the *Unsafe streaming-path family of §7).
func (grp *ModPGroup) ElementFromByteTree(t *bytetree.ByteTree, safe bool) (algebra.GroupElement, error) {
	if t.IsLeaf() && len(t.Data()) != grp.byteLen {
		return nil, errs.Newf(errs.Format, "group element leaf has length %d, want %d", len(t.Data()), grp.byteLen)
	}
	if !t.IsLeaf() {
		return nil, errs.New(errs.Format, "group element must be a leaf")
	}
	v := bigint.FromBytes(t.Data())
	el := &Element{grp: grp, v: v}
	if safe {
		if !grp.contains(v) {
			return nil, errs.New(errs.Format, "value is not a member of the group")
		}
		el.verified = true
	}
	return el, nil
}

// Element is a value in the order-q subgroup.
type Element struct {
	grp      *ModPGroup
	v        *bigint.BigInt
	verified bool
}

func (e *Element) Group() algebra.Group { return e.grp }

// VerifyUnsafe validates an element constructed via the unsafe
// ElementFromByteTree path, turning a deferred FormatError into a fatal
// error if the caller's guarantee of well-formedness was wrong (per §7,
// the *Unsafe family downgrades FormatError to FatalError).
func (e *Element) VerifyUnsafe() {
	if e.verified {
		return
	}
	if !e.grp.contains(e.v) {
		errs.Fatalf("group element %s fails VerifyUnsafe: not in group %s", e.v, e.grp.Name())
	}
	e.verified = true
}

func (e *Element) same(o algebra.GroupElement) (*Element, error) {
	other, ok := o.(*Element)
	if !ok || !e.grp.Equal(other.grp) {
		return nil, errs.New(errs.Domain, "group element operands belong to different groups")
	}
	return other, nil
}

func (e *Element) Mul(o algebra.GroupElement) (algebra.GroupElement, error) {
	other, err := e.same(o)
	if err != nil {
		return nil, err
	}
	return &Element{grp: e.grp, v: e.v.ModMul(other.v, e.grp.p)}, nil
}

func (e *Element) Inv() algebra.GroupElement {
	v, err := e.v.ModInv(e.grp.p)
	if err != nil {
		errs.Fatalf("group element %s is not invertible mod %s", e.v, e.grp.p)
	}
	return &Element{grp: e.grp, v: v}
}

func (e *Element) ExpInt(exp *bigint.BigInt) (algebra.GroupElement, error) {
	return &Element{grp: e.grp, v: e.v.ModPow(exp, e.grp.p)}, nil
}

func (e *Element) Exp(exp algebra.Element) (algebra.GroupElement, error) {
	fe, ok := exp.(*field.Element)
	if !ok || !fe.Ring().Equal(e.grp.f) {
		return nil, errs.New(errs.Domain, "exponent does not belong to this group's exponent field")
	}
	return e.ExpInt(fe.Value())
}

func (e *Element) Equal(o algebra.GroupElement) bool {
	other, ok := o.(*Element)
	return ok && e.grp.Equal(other.grp) && e.v.Equal(other.v)
}

// Bytes returns the fixed-width big-endian encoding of modulusByteLength.
func (e *Element) Bytes() []byte {
	raw := e.v.Bytes()
	out := make([]byte, e.grp.byteLen)
	copy(out[len(out)-len(raw):], raw)
	return out
}

func (e *Element) ToByteTree() *bytetree.ByteTree { return bytetree.Leaf(e.Bytes()) }

// Value exposes the canonical representative, used by internal/expo's
// tables which operate directly on the modular arithmetic beneath the
// capability interfaces.
func (e *Element) Value() *bigint.BigInt { return e.v }
