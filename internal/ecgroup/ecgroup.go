// Package ecgroup is the elliptic-curve realization of the algebra.Group /
// algebra.GroupElement capability set (spec.md §9's "both modular and
// product realizations implement the same capability set"): the prime-order
// subgroup of edwards25519, built on filippo.io/edwards25519 rather than
// re-deriving curve arithmetic from internal/bigint. internal/group
// realizes the same interfaces over a modular subgroup; internal/product
// composes either (or a mix) without caring which one it is holding.
package ecgroup

import (
	"io"

	"filippo.io/edwards25519"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
)

const pointWidth = 32 // compressed point encoding, per RFC 8032

// Group is the prime-order subgroup of edwards25519. The curve parameters
// are fixed, so Group carries no construction-time state beyond the
// mutable thread thresholds §5 puts on every group.
type Group struct {
	expThreadThreshold int
	mulThreadThreshold int
}

// Standard is the process-wide edwards25519 group instance.
var Standard = &Group{expThreadThreshold: 100, mulThreadThreshold: 1000}

func (g *Group) Name() string             { return "Ed25519Group" }
func (g *Group) ByteLength() int          { return pointWidth }
func (g *Group) ExponentRing() algebra.Ring { return ScalarRing }

func (g *Group) ExpThreadThreshold() int     { return g.expThreadThreshold }
func (g *Group) MulThreadThreshold() int     { return g.mulThreadThreshold }
func (g *Group) SetExpThreadThreshold(v int) { g.expThreadThreshold = v }
func (g *Group) SetMulThreadThreshold(v int) { g.mulThreadThreshold = v }

func (g *Group) Equal(other algebra.Group) bool { _, ok := other.(*Group); return ok }

func (g *Group) Identity() algebra.GroupElement {
	return &Element{pt: edwards25519.NewIdentityPoint()}
}

func (g *Group) StandardGenerator() algebra.GroupElement {
	return &Element{pt: edwards25519.NewGeneratorPoint()}
}

// EncodeLength reports 0: arbitrary-message encoding (§4.5's
// safePrime/subgroup/ro schemes) is defined over the modular realization
// only. edwards25519 here exposes the group algebra and Diffie-Hellman
// style use (scalar multiplication, bilinear-style exponent maps); mapping
// octet strings onto curve points would need Elligator2, which
// filippo.io/edwards25519 does not expose, so Encode/Decode are refused
// rather than faked.
func (g *Group) EncodeLength() int { return 0 }

func (g *Group) Encode(msg []byte) (algebra.GroupElement, error) {
	return nil, errs.New(errs.Domain, "ecgroup: message encoding is not supported on the edwards25519 realization")
}

func (g *Group) Decode(e algebra.GroupElement) ([]byte, error) {
	return nil, errs.New(errs.Domain, "ecgroup: message decoding is not supported on the edwards25519 realization")
}

func (g *Group) Contains(e algebra.GroupElement) bool {
	el, ok := e.(*Element)
	if !ok {
		return false
	}
	return isInPrimeOrderSubgroup(el.pt)
}

// ElementFromByteTree decodes a compressed 32-byte point leaf. When safe,
// it rejects points outside the prime-order subgroup (small-order points
// from the curve's cofactor-8 points at infinity); the unsafe path skips
// that check, matching §7's *Unsafe family used on trusted streaming
// paths.
func (g *Group) ElementFromByteTree(t *bytetree.ByteTree, safe bool) (algebra.GroupElement, error) {
	if !t.IsLeaf() || len(t.Data()) != pointWidth {
		if !safe {
			errs.Fatalf("ecgroup: malformed point leaf")
		}
		return nil, errs.New(errs.Format, "ecgroup: expected a 32-byte leaf")
	}
	pt, err := new(edwards25519.Point).SetBytes(t.Data())
	if err != nil {
		if !safe {
			errs.Fatalf("ecgroup: invalid point encoding")
		}
		return nil, errs.Wrap(errs.Format, err, "ecgroup: invalid point encoding")
	}
	el := &Element{pt: pt}
	if safe && !isInPrimeOrderSubgroup(pt) {
		return nil, errs.New(errs.Format, "ecgroup: point is not in the prime-order subgroup")
	}
	return el, nil
}

func (g *Group) RandomElement(rs io.Reader) (algebra.GroupElement, error) {
	exp, err := ScalarRing.RandomElement(rs)
	if err != nil {
		return nil, err
	}
	return g.StandardGenerator().Exp(exp)
}

// isInPrimeOrderSubgroup reports whether curveOrder*p is the identity,
// computed by explicit double-and-add over the exact integer curveOrder
// (not reduced mod itself, unlike edwards25519.Scalar arithmetic) — since
// gcd(curveOrder, 8) = 1, this holds iff p's cofactor component is trivial.
func isInPrimeOrderSubgroup(p *edwards25519.Point) bool {
	acc := edwards25519.NewIdentityPoint()
	n := curveOrder.BitLen()
	for i := n - 1; i >= 0; i-- {
		acc.Add(acc, acc)
		if curveOrder.BitAt(i) {
			acc.Add(acc, p)
		}
	}
	return acc.Equal(edwards25519.NewIdentityPoint()) == 1
}

// Element is a point in the edwards25519 prime-order subgroup.
type Element struct {
	pt *edwards25519.Point
}

func (e *Element) Group() algebra.Group { return Standard }

func (e *Element) Mul(o algebra.GroupElement) (algebra.GroupElement, error) {
	oe, ok := o.(*Element)
	if !ok {
		return nil, errs.New(errs.Domain, "ecgroup: mul: operand is not an ed25519 point")
	}
	return &Element{pt: new(edwards25519.Point).Add(e.pt, oe.pt)}, nil
}

func (e *Element) Inv() algebra.GroupElement {
	return &Element{pt: new(edwards25519.Point).Negate(e.pt)}
}

func (e *Element) Exp(exp algebra.Element) (algebra.GroupElement, error) {
	se, ok := exp.(*scalarElement)
	if !ok {
		return nil, errs.New(errs.Domain, "ecgroup: exp: exponent is not an ed25519 scalar")
	}
	return &Element{pt: new(edwards25519.Point).ScalarMult(se.s, e.pt)}, nil
}

func (e *Element) ExpInt(exp *bigint.BigInt) (algebra.GroupElement, error) {
	s, err := scalarFromBigInt(exp)
	if err != nil {
		return nil, err
	}
	return &Element{pt: new(edwards25519.Point).ScalarMult(s, e.pt)}, nil
}

func (e *Element) Equal(o algebra.GroupElement) bool {
	oe, ok := o.(*Element)
	return ok && e.pt.Equal(oe.pt) == 1
}

func (e *Element) ToByteTree() *bytetree.ByteTree {
	return bytetree.Leaf(e.pt.Bytes())
}
