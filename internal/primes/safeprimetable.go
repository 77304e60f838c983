package primes

import (
	"crypto/sha256"
	"embed"
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/errs"
	"github.com/arithmos/vcore/internal/randsource"
)

// safePrimeData embeds the bundled safe-prime table resource of §6: "ASCII;
// line per bit length; format \"%5d:0%s\\n\" where the second field is hex
// of the safe prime."
//
// The production Verificatum-style table spans bit lengths [257, 4120);
// each entry is derived from seed = SHA-256(<l, variant>) with variant
// incremented until NextSafePrime(seed) lands on exactly l bits (see
// GenerateEntry below). Reproducing that full 3863-entry table requires
// running the generator, which this exercise cannot do (no Go toolchain
// execution). The shipped resource instead covers bit lengths [minBitLen,
// maxBitLenExclusive) at a demonstration scale; each of its lines holds the
// smallest safe prime of that bit length, not a GenerateEntry output.
// Lookup's offset arithmetic is unchanged by the table's size.
//
//go:embed testdata/safeprimes.txt
var safePrimeData embed.FS

const (
	minBitLen          = 5
	maxBitLenExclusive = 11
	lineFixedWidth     = 5 + 1 + 1 // "%5d" + ':' + '0' prefix, before the hex digits and newline
)

// hexDigitsFor returns ceil(l/4), the number of hex digits needed to
// represent an l-bit value, i.e. the variable part of each table line's
// width.
func hexDigitsFor(l int) int { return (l + 3) / 4 }

// lineWidth returns the exact byte width (including trailing newline) of
// the table line for bit length l.
func lineWidth(l int) int { return lineFixedWidth + hexDigitsFor(l) + 1 }

// offsetFor computes the byte offset of bit length l's line via the
// closed-form running sum of preceding lines' widths — an arithmetic
// computation over bit lengths, not a scan of the file's bytes.
func offsetFor(l int) int64 {
	var off int64
	for k := minBitLen; k < l; k++ {
		off += int64(lineWidth(k))
	}
	return off
}

// Lookup returns the tabulated safe prime of exactly bitLen bits, without
// scanning the file: it seeks directly to the computed offset and reads
// exactly one line's width.
func Lookup(bitLen int) (*bigint.BigInt, error) {
	if bitLen < minBitLen || bitLen >= maxBitLenExclusive {
		return nil, errs.Newf(errs.Format, "no tabulated safe prime for bit length %d (have [%d,%d))", bitLen, minBitLen, maxBitLenExclusive)
	}
	f, err := safePrimeData.Open("testdata/safeprimes.txt")
	if err != nil {
		return nil, errs.Wrap(errs.IO, err, "failed to open safe-prime table resource")
	}
	defer f.Close()

	off := offsetFor(bitLen)
	w := lineWidth(bitLen)
	buf := make([]byte, w)

	type seeker interface {
		ReadAt(p []byte, off int64) (int, error)
	}
	sk, ok := f.(seeker)
	if !ok {
		return nil, errs.New(errs.IO, "embedded safe-prime table does not support positional reads")
	}
	if _, err := sk.ReadAt(buf, off); err != nil {
		return nil, errs.Wrap(errs.IO, err, "short read from safe-prime table")
	}
	return parseLine(string(buf), bitLen)
}

func parseLine(line string, expectBitLen int) (*bigint.BigInt, error) {
	line = strings.TrimRight(line, "\n")
	parts := strings.SplitN(line, ":0", 2)
	if len(parts) != 2 {
		return nil, errs.Newf(errs.Format, "malformed safe-prime table line %q", line)
	}
	l, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || l != expectBitLen {
		return nil, errs.Newf(errs.Format, "safe-prime table offset mismatch: wanted %d, line says %q", expectBitLen, parts[0])
	}
	raw, ok := new(big.Int).SetString(parts[1], 16)
	if !ok {
		return nil, errs.Newf(errs.Format, "invalid hex in safe-prime table for bit length %d", expectBitLen)
	}
	v := bigint.FromBig(raw)
	if v.BitLen() != expectBitLen {
		return nil, errs.Newf(errs.Format, "tabulated safe prime for %d bits actually has %d bits", expectBitLen, v.BitLen())
	}
	return v, nil
}

// GenerateEntry derives the bit-length-l table entry the way the bundled
// resource's generator does: seed = SHA-256(l || variant), expanded via
// internal/randsource into an l-bit starting candidate (top bit set),
// incrementing variant until NextSafePrime(candidate) has exactly l bits.
// The Miller-Rabin rounds draw their randomness from the same expanded
// stream, so the whole derivation is reproducible from (l, certainty) alone.
func GenerateEntry(l, certainty int) (*bigint.BigInt, error) {
	top := new(big.Int).Lsh(big.NewInt(1), uint(l-1))
	for variant := 0; variant <= 1<<20; variant++ {
		var lv [8]byte
		binary.BigEndian.PutUint32(lv[0:4], uint32(l))
		binary.BigEndian.PutUint32(lv[4:8], uint32(variant))
		seed := sha256.Sum256(lv[:])

		rs := randsource.FromSeed(seed[:], "safe-prime-table")
		buf := make([]byte, (l+7)/8)
		if _, err := io.ReadFull(rs, buf); err != nil {
			return nil, err
		}
		c := new(big.Int).SetBytes(buf)
		c.Mod(c, top).Add(c, top)
		p := NextSafePrime(bigint.FromBig(c), certainty, rs)
		if p.BitLen() == l {
			return p, nil
		}
	}
	return nil, fmt.Errorf("exhausted variants deriving safe prime for bit length %d", l)
}
