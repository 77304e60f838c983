// Package primes implements Miller-Rabin primality testing with
// externally supplied randomness, the candidate-stepping search for the
// next prime / next safe prime, and read-only access to the bundled
// safe-prime table (spec.md §4.10).
package primes

import (
	"io"
	"math/big"

	"github.com/arithmos/vcore/internal/bigint"
)

// smallPrimes is the trial-division prefilter: candidates divisible by any
// of these (and not equal to one of them) are rejected without running an
// expensive modular-exponentiation round.
var smallPrimes = sieveSmallPrimes(10000)

func sieveSmallPrimes(limit int) []int64 {
	composite := make([]bool, limit+1)
	var out []int64
	for i := 2; i <= limit; i++ {
		if composite[i] {
			continue
		}
		out = append(out, int64(i))
		for j := i * i; j <= limit; j += i {
			composite[j] = true
		}
	}
	return out
}

// trialDivide reports whether n is divisible by any small prime other than
// itself. It returns (isSmallPrime, failsTrialDivision).
func trialDivide(n *big.Int) (isSmallPrime, composite bool) {
	mod := new(big.Int)
	for _, p := range smallPrimes {
		bp := big.NewInt(p)
		if n.Cmp(bp) == 0 {
			return true, false
		}
		mod.Mod(n, bp)
		if mod.Sign() == 0 {
			return false, true
		}
	}
	return false, false
}

// Once runs a single Miller-Rabin witness round for base against n: writes
// n-1 = 2^k * q with q odd, computes y = base^q mod n, accepts if y==1 or
// y==n-1, otherwise squares y up to k-1 times, rejecting if it ever hits 1
// and accepting if it ever hits n-1.
func Once(base, n *big.Int) bool {
	nMinus1 := new(big.Int).Sub(n, big.NewInt(1))
	q := new(big.Int).Set(nMinus1)
	k := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		k++
	}

	y := new(big.Int).Exp(base, q, n)
	one := big.NewInt(1)
	if y.Cmp(one) == 0 || y.Cmp(nMinus1) == 0 {
		return true
	}
	for i := 0; i < k-1; i++ {
		y.Exp(y, big.NewInt(2), n)
		if y.Cmp(one) == 0 {
			return false
		}
		if y.Cmp(nMinus1) == 0 {
			return true
		}
	}
	return false
}

// roundsForCertainty picks enough Miller-Rabin rounds that the accept
// probability of a composite is at most 2^-certainty (each round rejects a
// composite with probability >= 3/4, the standard worst-case bound).
func roundsForCertainty(certainty int) int {
	if certainty <= 0 {
		return 1
	}
	// 2^-2r <= 2^-certainty  =>  r >= certainty/2
	r := (certainty + 1) / 2
	if r < 1 {
		r = 1
	}
	return r
}

// IsProbablePrime implements §4.10's isProbablePrime: a trial-division
// pre-filter, then Miller-Rabin rounds with bases drawn from rs until the
// residual composite-acceptance probability is at most 2^-certainty.
// Per §9's resolved Open Question, n<4 is prime iff n>1 (the standard
// short-circuit), rather than hard-coding bases 2 and 3.
func IsProbablePrime(n *bigint.BigInt, certainty int, rs io.Reader) bool {
	nb := n.Big()
	if nb.Cmp(big.NewInt(4)) < 0 {
		return nb.Cmp(big.NewInt(1)) > 0
	}
	if nb.Bit(0) == 0 {
		return false
	}
	if isSmall, composite := trialDivide(nb); isSmall {
		return true
	} else if composite {
		return false
	}

	rounds := roundsForCertainty(certainty)
	nMinus3 := new(big.Int).Sub(nb, big.NewInt(3))
	for i := 0; i < rounds; i++ {
		base, err := randomBaseInRange(nMinus3, rs)
		if err != nil {
			return false
		}
		if !Once(base, nb) {
			return false
		}
	}
	return true
}

// randomBaseInRange draws a uniform base in [2, n-1] from rs, where
// nMinus3 = n-3 bounds the offset range ([2, n-1] has n-3+1 elements
// starting at 2).
func randomBaseInRange(nMinus3 *big.Int, rs io.Reader) (*big.Int, error) {
	upper := new(big.Int).Add(nMinus3, big.NewInt(1))
	if upper.Sign() <= 0 {
		return big.NewInt(2), nil
	}
	offset, err := readBoundedBig(rs, upper)
	if err != nil {
		return nil, err
	}
	return offset.Add(offset, big.NewInt(2)), nil
}

// readBoundedBig reads uniform randomness from rs and reduces it into
// [0, bound) via rejection-free modular reduction (bias is negligible at
// cryptographic sizes and is accepted here exactly as encode/decode's
// additive-walk search accepts its own bounded-attempt imprecision).
func readBoundedBig(rs io.Reader, bound *big.Int) (*big.Int, error) {
	byteLen := (bound.BitLen() + 7) / 8
	if byteLen == 0 {
		byteLen = 1
	}
	buf := make([]byte, byteLen+8) // extra bytes to thin the modular bias
	if _, err := io.ReadFull(rs, buf); err != nil {
		return nil, err
	}
	v := new(big.Int).SetBytes(buf)
	return v.Mod(v, bound), nil
}

// NextPrime steps from n to the next integer passing IsProbablePrime:
// advance to the next odd, then by 2 until trial division and Miller-Rabin
// succeed.
func NextPrime(n *bigint.BigInt, certainty int, rs io.Reader) *bigint.BigInt {
	c := new(big.Int).Set(n.Big())
	if c.Bit(0) == 0 {
		c.Add(c, big.NewInt(1))
	} else {
		c.Add(c, big.NewInt(2))
	}
	for {
		cand := bigint.FromBig(c)
		if IsProbablePrime(cand, certainty, rs) {
			return cand
		}
		c.Add(c, big.NewInt(2))
	}
}

// NextSafePrime steps from n to the next safe prime p (p and (p-1)/2 both
// prime): enforce p ≡ 3 (mod 4) so both p and (p-1)/2 are odd, and step by
// 4 until trial division (and then Miller-Rabin) succeed for both.
func NextSafePrime(n *bigint.BigInt, certainty int, rs io.Reader) *bigint.BigInt {
	c := new(big.Int).Set(n.Big())
	four := big.NewInt(4)
	three := big.NewInt(3)
	rem := new(big.Int).Mod(c, four)
	if d := new(big.Int).Sub(three, rem); d.Sign() != 0 {
		if d.Sign() < 0 {
			d.Add(d, four)
		}
		c.Add(c, d)
	}
	if c.Cmp(n.Big()) == 0 {
		c.Add(c, four)
	}

	for {
		q := new(big.Int).Rsh(new(big.Int).Sub(c, big.NewInt(1)), 1)
		pCand := bigint.FromBig(c)
		qCand := bigint.FromBig(q)
		if _, composite := trialDivide(c); !composite {
			if _, qComposite := trialDivide(q); !qComposite {
				if IsProbablePrime(qCand, certainty, rs) && IsProbablePrime(pCand, certainty, rs) {
					return pCand
				}
			}
		}
		c.Add(c, four)
	}
}
