// Package bigint implements the arbitrary-precision non-negative integer
// type of spec.md §4.1: immutable values with add/sub/mul/div/mod/neg,
// modular exponentiation, modular inverse, Legendre symbol and the
// array-parallel mod* family. It is the lowest layer of the algebraic
// tower; nothing here imports any other internal package except errs.
package bigint

import (
	"math/big"

	"github.com/remyoudompheng/bigfft"

	"github.com/arithmos/vcore/internal/errs"
)

// fftThreshold is the operand bit length above which BigInt.Mul dispatches
// to bigfft's FFT-based multiplication instead of math/big's native
// schoolbook/Karatsuba multiply. Below it FFT setup cost dominates.
const fftThreshold = 1 << 15 // 32768 bits ~ 4KB operands

// BigInt is an immutable, non-negative arbitrary-precision integer.
// Immutability means every operation allocates a fresh value; callers never
// observe mutation of a BigInt they hold a reference to.
type BigInt struct {
	v *big.Int
}

// Zero, One are the additive and multiplicative identities.
func Zero() *BigInt { return &BigInt{big.NewInt(0)} }
func One() *BigInt  { return &BigInt{big.NewInt(1)} }

// FromInt64 builds a BigInt from a non-negative int64.
func FromInt64(v int64) *BigInt {
	if v < 0 {
		errs.Fatalf("bigint.FromInt64: negative value %d", v)
	}
	return &BigInt{big.NewInt(v)}
}

// FromBytes interprets b as an unsigned big-endian integer.
func FromBytes(b []byte) *BigInt {
	return &BigInt{new(big.Int).SetBytes(b)}
}

// FromString parses a base-10 non-negative integer.
func FromString(s string) (*BigInt, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errs.Newf(errs.Format, "invalid non-negative integer literal %q", s)
	}
	return &BigInt{v}, nil
}

// FromBig wraps a math/big.Int. The caller must not mutate v afterwards.
func FromBig(v *big.Int) *BigInt {
	if v.Sign() < 0 {
		errs.Fatalf("bigint.FromBig: negative value")
	}
	return &BigInt{new(big.Int).Set(v)}
}

// Big returns a defensive copy of the underlying math/big.Int.
func (b *BigInt) Big() *big.Int { return new(big.Int).Set(b.v) }

func (b *BigInt) String() string { return b.v.String() }

// Bytes returns the minimal big-endian unsigned encoding (no padding).
func (b *BigInt) Bytes() []byte { return b.v.Bytes() }

// BitLen returns the number of bits in the minimal representation of b.
func (b *BigInt) BitLen() int { return b.v.BitLen() }

// ByteLen returns ceil(BitLen()/8), the minimal unsigned byte width.
func (b *BigInt) ByteLen() int { return (b.v.BitLen() + 7) / 8 }

// BitAt reports bit i (0 = least significant) of b.
func (b *BigInt) BitAt(i int) bool {
	if i < 0 {
		return false
	}
	return b.v.Bit(i) == 1
}

// IsZero, IsOne report identity.
func (b *BigInt) IsZero() bool { return b.v.Sign() == 0 }
func (b *BigInt) IsOne() bool  { return b.v.Cmp(big.NewInt(1)) == 0 }

// Cmp compares two BigInts as unsigned integers.
func (b *BigInt) Cmp(o *BigInt) int { return b.v.Cmp(o.v) }

// Equal reports representative equality.
func (b *BigInt) Equal(o *BigInt) bool { return b.v.Cmp(o.v) == 0 }

// Add returns b+o.
func (b *BigInt) Add(o *BigInt) *BigInt { return &BigInt{new(big.Int).Add(b.v, o.v)} }

// Sub returns b-o; fatal if the result would be negative, matching the
// "non-negative" invariant of the type.
func (b *BigInt) Sub(o *BigInt) *BigInt {
	r := new(big.Int).Sub(b.v, o.v)
	if r.Sign() < 0 {
		errs.Fatalf("bigint.Sub: negative result")
	}
	return &BigInt{r}
}

// Mul returns b*o, routing through bigfft's FFT multiplier once either
// operand is large enough to make the asymptotic win worth the setup cost.
func (b *BigInt) Mul(o *BigInt) *BigInt {
	if b.v.BitLen() > fftThreshold || o.v.BitLen() > fftThreshold {
		return &BigInt{bigfft.Mul(b.v, o.v)}
	}
	return &BigInt{new(big.Int).Mul(b.v, o.v)}
}

// Div returns the quotient of b/o (Euclidean, o>0).
func (b *BigInt) Div(o *BigInt) (*BigInt, error) {
	if o.IsZero() {
		return nil, errs.New(errs.Arithmetic, "division by zero")
	}
	return &BigInt{new(big.Int).Div(b.v, o.v)}, nil
}

// Mod returns b mod o (o>0), in [0,o).
func (b *BigInt) Mod(o *BigInt) (*BigInt, error) {
	if o.IsZero() {
		return nil, errs.New(errs.Arithmetic, "modulus is zero")
	}
	return &BigInt{new(big.Int).Mod(b.v, o.v)}, nil
}

// Neg returns the mod-reduced additive inverse (m-b) mod m, per §4.1's note
// that BigInt supports sign only where explicitly noted.
func (b *BigInt) Neg(m *BigInt) *BigInt {
	r := new(big.Int).Sub(m.v, b.v)
	r.Mod(r, m.v)
	return &BigInt{r}
}

// ModAdd returns (b+o) mod m.
func (b *BigInt) ModAdd(o, m *BigInt) *BigInt {
	r := new(big.Int).Add(b.v, o.v)
	r.Mod(r, m.v)
	return &BigInt{r}
}

// ModMul returns (b*o) mod m.
func (b *BigInt) ModMul(o, m *BigInt) *BigInt {
	r := b.Mul(o).v
	r.Mod(r, m.v)
	return &BigInt{r}
}

// ModPow returns b^e mod m. e is non-negative.
func (b *BigInt) ModPow(e, m *BigInt) *BigInt {
	return &BigInt{new(big.Int).Exp(b.v, e.v, m.v)}
}

// ModInv returns the multiplicative inverse of b mod m, or an
// ArithmeticError if b and m are not coprime.
func (b *BigInt) ModInv(m *BigInt) (*BigInt, error) {
	r := new(big.Int).ModInverse(b.v, m.v)
	if r == nil {
		return nil, errs.Newf(errs.Arithmetic, "%s has no inverse mod %s", b.v, m.v)
	}
	return &BigInt{r}, nil
}

// Legendre returns the Legendre symbol (b/p) in {-1, 0, 1} for an odd
// prime p.
func (b *BigInt) Legendre(p *BigInt) int { return big.Jacobi(b.v, p.v) }

// IsQuadraticResidue reports whether b is a nonzero quadratic residue mod
// the odd prime p, i.e. Legendre(b,p) == 1.
func (b *BigInt) IsQuadraticResidue(p *BigInt) bool { return b.Legendre(p) == 1 }

// ModProd computes the product of a non-negative-integer slice mod m.
func ModProd(vals []*BigInt, m *BigInt) *BigInt {
	acc := big.NewInt(1)
	for _, v := range vals {
		acc.Mul(acc, v.v)
		acc.Mod(acc, m.v)
	}
	return &BigInt{acc}
}

// ModProds computes the running (prefix) products of vals mod m: out[i] =
// prod(vals[0..i]) mod m.
func ModProds(vals []*BigInt, m *BigInt) []*BigInt {
	out := make([]*BigInt, len(vals))
	acc := big.NewInt(1)
	for i, v := range vals {
		acc.Mul(acc, v.v)
		acc.Mod(acc, m.v)
		out[i] = &BigInt{new(big.Int).Set(acc)}
	}
	return out
}

// ModSum computes the sum of vals mod m.
func ModSum(vals []*BigInt, m *BigInt) *BigInt {
	acc := big.NewInt(0)
	for _, v := range vals {
		acc.Add(acc, v.v)
	}
	acc.Mod(acc, m.v)
	return &BigInt{acc}
}

// ModPowProd computes prod(bases[i]^exps[i]) mod m — a power-product,
// computed here by the naive per-term method; internal/expo provides the
// simultaneous-exponentiation accelerated version used by the group layer.
// maxExpBits bounds the bit length of any exponent, supplied by the caller
// rather than discovered by scanning, per §4.1.
func ModPowProd(bases, exps []*BigInt, m *BigInt, maxExpBits int) (*BigInt, error) {
	_ = maxExpBits
	if len(bases) != len(exps) {
		errs.Fatalf("modPowProd: mismatched lengths (%d bases, %d exps)", len(bases), len(exps))
	}
	acc := big.NewInt(1)
	tmp := new(big.Int)
	for i := range bases {
		tmp.Exp(bases[i].v, exps[i].v, m.v)
		acc.Mul(acc, tmp)
		acc.Mod(acc, m.v)
	}
	return &BigInt{acc}, nil
}

// ModInnerProduct computes sum(a[i]*b[i]) mod m.
func ModInnerProduct(a, b []*BigInt, m *BigInt) (*BigInt, error) {
	if len(a) != len(b) {
		errs.Fatalf("modInnerProduct: mismatched lengths (%d, %d)", len(a), len(b))
	}
	acc := big.NewInt(0)
	tmp := new(big.Int)
	for i := range a {
		tmp.Mul(a[i].v, b[i].v)
		acc.Add(acc, tmp)
	}
	acc.Mod(acc, m.v)
	return &BigInt{acc}, nil
}

// QuadraticResidues reports whether every element of vals is a quadratic
// residue mod p, short-circuiting on the first failure.
func QuadraticResidues(vals []*BigInt, p *BigInt) bool {
	for _, v := range vals {
		if !v.IsQuadraticResidue(p) {
			return false
		}
	}
	return true
}

// ModRecLin computes the linear recurrence out[0]=self[0], out[i] =
// (out[i-1]*other[i] + self[i]) mod m for i>=1, returning the full output
// array and its last element.
func ModRecLin(self, other []*BigInt, m *BigInt) ([]*BigInt, *BigInt, error) {
	if len(self) != len(other) {
		errs.Fatalf("modRecLin: mismatched lengths (%d, %d)", len(self), len(other))
	}
	if len(self) == 0 {
		return nil, nil, errs.New(errs.Domain, "modRecLin: empty arrays")
	}
	out := make([]*BigInt, len(self))
	out[0] = &BigInt{new(big.Int).Set(self[0].v)}
	for i := 1; i < len(self); i++ {
		t := new(big.Int).Mul(out[i-1].v, other[i].v)
		t.Add(t, self[i].v)
		t.Mod(t, m.v)
		out[i] = &BigInt{t}
	}
	return out, out[len(out)-1], nil
}
