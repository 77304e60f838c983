package group

import (
	"io"
	"sync"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/encoding"
	"github.com/arithmos/vcore/internal/errs"
	"github.com/arithmos/vcore/internal/primes"
)

// standardGenerator is used to build every tabulated standard group: for a
// safe prime p=2q+1, 4=2^2 is always a nontrivial quadratic residue and
// therefore a generator of the order-q subgroup.
var standardGenerator = bigint.FromInt64(4)

var (
	standardMu    sync.Mutex
	standardCache = map[int]*ModPGroup{}
)

// StandardGroup returns the built-in group at security level bitLen, built
// from the tabulated safe prime of that bit length (internal/primes'
// embedded table) with g=4 as the standard generator. Equal bitLen always
// returns the same cached instance.
func StandardGroup(bitLen, certainty int, rs io.Reader) (*ModPGroup, error) {
	standardMu.Lock()
	defer standardMu.Unlock()
	if g, ok := standardCache[bitLen]; ok {
		return g, nil
	}

	p, err := primes.Lookup(bitLen)
	if err != nil {
		return nil, err
	}
	q, err := p.Sub(bigint.One()).Div(bigint.FromInt64(2))
	if err != nil {
		return nil, errs.Wrap(errs.Arithmetic, err, "deriving standard group order")
	}
	grp, err := New(p, q, standardGenerator, encoding.SafePrime, certainty, rs)
	if err != nil {
		return nil, err
	}
	standardCache[bitLen] = grp
	return grp, nil
}

// RandomExponent samples a uniform exponent in [0,q) directly as a BigInt,
// a convenience over RandomElement's field.Element wrapping for callers
// that only need the raw representative (e.g. seeding another structure's
// exponent).
func (grp *ModPGroup) RandomExponent(rs io.Reader) (*bigint.BigInt, error) {
	el, err := grp.f.RandomElement(rs)
	if err != nil {
		return nil, err
	}
	return el.(interface{ Value() *bigint.BigInt }).Value(), nil
}
