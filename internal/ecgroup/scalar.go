package ecgroup

import (
	"io"

	"filippo.io/edwards25519"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
)

// curveOrder is the prime order L = 2^252 +
// 27742317777372353535851937790883648493 of the edwards25519 subgroup this
// package realizes algebra.Group over.
var curveOrder = mustBigInt("7237005577332262213973186563042994240857116359379907606001950938285454250989")

func mustBigInt(s string) *bigint.BigInt {
	v, err := bigint.FromString(s)
	if err != nil {
		errs.Fatalf("ecgroup: invalid curve order literal")
	}
	return v
}

// scalarWidth is the fixed canonical encoding width edwards25519 scalars
// use (32 bytes, little-endian internally).
const scalarWidth = 32

// scalarRing is the exponent ring of the edwards25519 group: the field
// GF(curveOrder), realized directly over edwards25519.Scalar rather than
// over internal/field, since the library's own reduced/constant-time
// scalar arithmetic is what a real elliptic-curve group should use.
type scalarRing struct{}

// ScalarRing is the process-wide singleton exponent ring.
var ScalarRing algebra.Ring = scalarRing{}

func (scalarRing) Name() string           { return "Ed25519ScalarField" }
func (scalarRing) Order() *bigint.BigInt  { return curveOrder }
func (scalarRing) ByteLength() int        { return scalarWidth }
func (scalarRing) Zero() algebra.Element  { return &scalarElement{s: edwards25519.NewScalar()} }
func (scalarRing) One() algebra.Element {
	one, err := edwards25519.NewScalar().SetCanonicalBytes(oneBytes())
	if err != nil {
		errs.Fatalf("ecgroup: failed to construct scalar one")
	}
	return &scalarElement{s: one}
}

func oneBytes() []byte {
	b := make([]byte, scalarWidth)
	b[0] = 1
	return b
}

func (scalarRing) ElementFromBytes(b []byte) (algebra.Element, error) {
	s, err := scalarFromBigInt(bigint.FromBytes(b))
	if err != nil {
		return nil, err
	}
	return &scalarElement{s: s}, nil
}

func (scalarRing) RandomElement(rs io.Reader) (algebra.Element, error) {
	var wide [64]byte
	if _, err := io.ReadFull(rs, wide[:]); err != nil {
		return nil, errs.Wrap(errs.IO, err, "ecgroup: short read generating random scalar")
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		errs.Fatalf("ecgroup: SetUniformBytes rejected a 64-byte input")
	}
	return &scalarElement{s: s}, nil
}

func (scalarRing) Equal(o algebra.Ring) bool { _, ok := o.(scalarRing); return ok }

// scalarFromBigInt reduces v mod curveOrder and encodes it in
// edwards25519's little-endian canonical form.
func scalarFromBigInt(v *bigint.BigInt) (*edwards25519.Scalar, error) {
	r, err := v.Mod(curveOrder)
	if err != nil {
		return nil, err
	}
	be := r.Bytes()
	buf := make([]byte, scalarWidth)
	copy(buf[scalarWidth-len(be):], be)
	reverse(buf)
	s, err := edwards25519.NewScalar().SetCanonicalBytes(buf)
	if err != nil {
		return nil, errs.Wrap(errs.Format, err, "ecgroup: non-canonical scalar encoding")
	}
	return s, nil
}

func bigIntFromScalar(s *edwards25519.Scalar) *bigint.BigInt {
	b := append([]byte(nil), s.Bytes()...)
	reverse(b)
	return bigint.FromBytes(b)
}

func reverse(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

// scalarElement is an exponent of the edwards25519 group: an element of
// GF(curveOrder).
type scalarElement struct {
	s *edwards25519.Scalar
}

func (e *scalarElement) Ring() algebra.Ring { return ScalarRing }

func (e *scalarElement) Add(o algebra.Element) (algebra.Element, error) {
	oe, ok := o.(*scalarElement)
	if !ok {
		return nil, errs.New(errs.Domain, "ecgroup: scalar add: operand is not an ed25519 scalar")
	}
	return &scalarElement{s: edwards25519.NewScalar().Add(e.s, oe.s)}, nil
}

func (e *scalarElement) Neg() algebra.Element {
	return &scalarElement{s: edwards25519.NewScalar().Negate(e.s)}
}

func (e *scalarElement) Mul(o algebra.Element) (algebra.Element, error) {
	oe, ok := o.(*scalarElement)
	if !ok {
		return nil, errs.New(errs.Domain, "ecgroup: scalar mul: operand is not an ed25519 scalar")
	}
	return &scalarElement{s: edwards25519.NewScalar().Multiply(e.s, oe.s)}, nil
}

func (e *scalarElement) Inv() (algebra.Element, error) {
	zero := edwards25519.NewScalar()
	if e.s.Equal(zero) == 1 {
		return nil, errs.New(errs.Arithmetic, "ecgroup: scalar zero has no inverse")
	}
	return &scalarElement{s: edwards25519.NewScalar().Invert(e.s)}, nil
}

func (e *scalarElement) Equal(o algebra.Element) bool {
	oe, ok := o.(*scalarElement)
	return ok && e.s.Equal(oe.s) == 1
}

func (e *scalarElement) ToByteTree() *bytetree.ByteTree {
	b := append([]byte(nil), e.s.Bytes()...)
	reverse(b) // store big-endian, consistent with every other leaf in the tower
	return bytetree.Leaf(b)
}
