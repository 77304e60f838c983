// Package field implements the prime field F(q) of spec.md §4.4: elements
// canonicalized to [0,q), fixed-width serialization, and process-wide
// interning by order so equal orders share one instance.
package field

import (
	"io"
	"sync"

	"github.com/arithmos/vcore/internal/algebra"
	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/bytetree"
	"github.com/arithmos/vcore/internal/errs"
	"github.com/arithmos/vcore/internal/primes"
)

// Field is the prime field Z/qZ.
type Field struct {
	q              *bigint.BigInt
	orderByteLen   int
	encodeLen      int
}

var (
	internMu sync.Mutex
	intern   = map[string]*Field{}
)

// New constructs F(q), validating q>0 and probable-prime with certainty
// rounds, and interns it by order so New(q) called twice with equal q
// returns the same *Field.
func New(q *bigint.BigInt, certainty int, rs io.Reader) (*Field, error) {
	if q.IsZero() {
		return nil, errs.New(errs.Format, "field order must be positive")
	}
	if !primes.IsProbablePrime(q, certainty, rs) {
		return nil, errs.New(errs.Format, "field order is not prime")
	}

	key := q.String()
	internMu.Lock()
	defer internMu.Unlock()
	if f, ok := intern[key]; ok {
		return f, nil
	}
	f := &Field{
		q:            q,
		orderByteLen: q.ByteLen(),
		encodeLen:    (q.BitLen() - 1) / 8,
	}
	intern[key] = f
	return f, nil
}

// Order returns q.
func (f *Field) Order() *bigint.BigInt { return f.q }

// ByteLength is the fixed serialization width of every element: the
// minimal number of bytes that can hold any value in [0,q).
func (f *Field) ByteLength() int { return f.orderByteLen }

// OrderByteLength is an alias for ByteLength matching spec.md's naming.
func (f *Field) OrderByteLength() int { return f.orderByteLen }

// EncodeLength is floor((bitlen(q)-1)/8), the number of message bytes an
// encoding scheme may pack below q (used by group encodings, not by the
// field itself, but derived here since it only depends on q).
func (f *Field) EncodeLength() int { return f.encodeLen }

func (f *Field) Name() string { return "F(" + f.q.String() + ")" }

// Equal reports whether two fields have the same order. Because of
// interning, equal-order fields are normally pointer-identical too.
func (f *Field) Equal(other algebra.Ring) bool {
	o, ok := other.(*Field)
	return ok && f.q.Equal(o.q)
}

// Zero, One are the canonical identities.
func (f *Field) Zero() algebra.Element { return &Element{f: f, v: bigint.Zero()} }
func (f *Field) One() algebra.Element  { return &Element{f: f, v: bigint.One()} }

// ElementFromBytes recovers a representative by reducing the big-endian
// interpretation of b modulo q.
func (f *Field) ElementFromBytes(b []byte) (algebra.Element, error) {
	v, err := bigint.FromBytes(b).Mod(f.q)
	if err != nil {
		return nil, errs.Wrap(errs.Format, err, "field element from bytes")
	}
	return &Element{f: f, v: v}, nil
}

// RandomElement samples uniformly from [0,q) using rs, by rejection
// sampling over byteLength()-wide draws.
func (f *Field) RandomElement(rs io.Reader) (algebra.Element, error) {
	for {
		buf := make([]byte, f.orderByteLen)
		if _, err := io.ReadFull(rs, buf); err != nil {
			return nil, errs.Wrap(errs.IO, err, "reading randomness for field element")
		}
		v := bigint.FromBytes(buf)
		if v.Cmp(f.q) < 0 {
			return &Element{f: f, v: v}, nil
		}
	}
}

// NewElement builds a field element from an already-reduced BigInt.
// Fatal if v is not in [0,q).
func (f *Field) NewElement(v *bigint.BigInt) *Element {
	if v.Cmp(f.q) >= 0 {
		errs.Fatalf("field element %s out of range for modulus %s", v, f.q)
	}
	return &Element{f: f, v: v}
}

// Element is a value in [0,q).
type Element struct {
	f *Field
	v *bigint.BigInt
}

func (e *Element) Ring() algebra.Ring { return e.f }

// Value exposes the canonical representative.
func (e *Element) Value() *bigint.BigInt { return e.v }

func (e *Element) Add(o algebra.Element) (algebra.Element, error) {
	other, err := e.same(o)
	if err != nil {
		return nil, err
	}
	return &Element{f: e.f, v: e.v.ModAdd(other.v, e.f.q)}, nil
}

func (e *Element) Neg() algebra.Element {
	return &Element{f: e.f, v: e.v.Neg(e.f.q)}
}

func (e *Element) Mul(o algebra.Element) (algebra.Element, error) {
	other, err := e.same(o)
	if err != nil {
		return nil, err
	}
	return &Element{f: e.f, v: e.v.ModMul(other.v, e.f.q)}, nil
}

func (e *Element) Inv() (algebra.Element, error) {
	v, err := e.v.ModInv(e.f.q)
	if err != nil {
		return nil, errs.Wrap(errs.Arithmetic, err, "field element has no inverse")
	}
	return &Element{f: e.f, v: v}, nil
}

func (e *Element) Equal(o algebra.Element) bool {
	other, ok := o.(*Element)
	return ok && e.f.Equal(other.f) && e.v.Equal(other.v)
}

// Bytes returns the fixed-width big-endian encoding of orderByteLength.
func (e *Element) Bytes() []byte {
	raw := e.v.Bytes()
	out := make([]byte, e.f.orderByteLen)
	copy(out[len(out)-len(raw):], raw)
	return out
}

func (e *Element) ToByteTree() *bytetree.ByteTree { return bytetree.Leaf(e.Bytes()) }

func (e *Element) same(o algebra.Element) (*Element, error) {
	other, ok := o.(*Element)
	if !ok || !e.f.Equal(other.f) {
		return nil, errs.New(errs.Domain, "field element operands belong to different fields")
	}
	return other, nil
}
