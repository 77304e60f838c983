// Package encoding implements the three invertible octet-string-to-group-
// element maps of spec.md §4.5/§7: safe-prime (QR adjustment via
// Legendre), subgroup (additive walk into the subgroup) and random-oracle
// (exhaustive hash search). Each operates on raw modular-group parameters
// (p, q, g) so internal/group can wrap the result in its own element type
// without this package depending on that one.
package encoding

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/arithmos/vcore/internal/bigint"
	"github.com/arithmos/vcore/internal/errs"
)

// Scheme tags which encoding a modular group uses.
type Scheme byte

const (
	SafePrime Scheme = 0
	Subgroup  Scheme = 1
	RO        Scheme = 2
)

func (s Scheme) String() string {
	switch s {
	case SafePrime:
		return "safePrime"
	case Subgroup:
		return "subgroup"
	case RO:
		return "ro"
	default:
		return "unknown"
	}
}

// ParseScheme maps the one-byte wire tag (§6) to a Scheme.
func ParseScheme(b byte) (Scheme, error) {
	switch b {
	case 0:
		return SafePrime, nil
	case 1:
		return Subgroup, nil
	case 2:
		return RO, nil
	default:
		return 0, errs.Newf(errs.Format, "unknown encoding scheme tag %d", b)
	}
}

// maxAttempts bounds the subgroup scheme's additive walk and is also used
// as the RO scheme's candidate-generation budget before giving up.
const maxAttempts = 1 << 20

// addNum is the subgroup scheme's fixed step, 2^((encodeLength+4)*8).
func addNum(encodeLen int) *bigint.BigInt {
	shift := uint((encodeLen + 4) * 8)
	return bigint.FromBytes(shiftedOne(shift))
}

// shiftedOne returns the big-endian bytes of 2^shift.
func shiftedOne(shift uint) []byte {
	byteLen := shift/8 + 1
	out := make([]byte, byteLen)
	out[0] = 1 << (shift % 8)
	return out
}

// prefixed builds the length-prefixed, zero-padded message representation
// shared by the safePrime and subgroup schemes: a 4-byte big-endian length
// followed by msg[startIndex:startIndex+length], zero-padded up to
// encodeLen+4 bytes. If the message is empty, one non-length byte is set
// to a non-zero guard so the all-zero encoding of an empty message is
// distinguishable from padding.
func prefixed(msg []byte, startIndex, length, encodeLen int) ([]byte, error) {
	if length > encodeLen {
		return nil, errs.Newf(errs.Format, "message length %d exceeds encode length %d", length, encodeLen)
	}
	out := make([]byte, encodeLen+4)
	binary.BigEndian.PutUint32(out[0:4], uint32(length))
	copy(out[4:4+length], msg[startIndex:startIndex+length])
	if length == 0 {
		out[len(out)-1] = 0x01
	}
	return out, nil
}

// padTo left-pads data with zero bytes up to width, matching the
// zero-padded fixed width prefixed() produced on encode. BigInt.Bytes()
// returns the minimal unsigned encoding, so a representative whose
// full-width encoding has leading zero bytes must be re-padded before
// unprefix can find the 4-byte length field at its fixed offset.
func padTo(data []byte, width int) []byte {
	if len(data) >= width {
		return data
	}
	out := make([]byte, width)
	copy(out[width-len(data):], data)
	return out
}

// unprefix reverses prefixed: it reads the 4-byte length and returns that
// many bytes starting at offset 4.
func unprefix(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errs.New(errs.Format, "encoded value too short for length prefix")
	}
	n := binary.BigEndian.Uint32(data[0:4])
	if int(n) > len(data)-4 {
		return nil, errs.New(errs.Format, "encoded length prefix exceeds payload")
	}
	return append([]byte(nil), data[4:4+n]...), nil
}

// Encode maps msg[startIndex:startIndex+length] to a group element
// representative v in [1,p) under scheme, given the modular group
// parameters (p, q, g) and encodeLen = F(q).EncodeLength().
func Encode(scheme Scheme, msg []byte, startIndex, length int, p, q, g *bigint.BigInt, encodeLen int) (*bigint.BigInt, error) {
	switch scheme {
	case SafePrime:
		return encodeSafePrime(msg, startIndex, length, p, encodeLen)
	case Subgroup:
		return encodeSubgroup(msg, startIndex, length, p, q, encodeLen)
	case RO:
		return encodeRO(msg, startIndex, length, p, g, encodeLen)
	default:
		return nil, errs.Newf(errs.Format, "unknown encoding scheme %v", scheme)
	}
}

// Decode reverses Encode for the representative v.
func Decode(scheme Scheme, v *bigint.BigInt, p, q, g *bigint.BigInt, encodeLen int) ([]byte, error) {
	switch scheme {
	case SafePrime:
		return decodeSafePrime(v, p, encodeLen)
	case Subgroup:
		return decodeSubgroup(v, encodeLen)
	case RO:
		return decodeRO(v, p, g, encodeLen)
	default:
		return nil, errs.Newf(errs.Format, "unknown encoding scheme %v", scheme)
	}
}

// --- safePrime scheme -------------------------------------------------

func encodeSafePrime(msg []byte, startIndex, length int, p *bigint.BigInt, encodeLen int) (*bigint.BigInt, error) {
	data, err := prefixed(msg, startIndex, length, encodeLen)
	if err != nil {
		return nil, err
	}
	v := bigint.FromBytes(data)
	if v.IsQuadraticResidue(p) {
		return v, nil
	}
	return v.Neg(p), nil
}

func decodeSafePrime(v *bigint.BigInt, p *bigint.BigInt, encodeLen int) ([]byte, error) {
	rep := v
	neg := v.Neg(p)
	if neg.Cmp(rep) < 0 {
		rep = neg
	}
	return unprefix(padTo(rep.Bytes(), encodeLen+4))
}

// --- subgroup scheme ----------------------------------------------------

func encodeSubgroup(msg []byte, startIndex, length int, p, q *bigint.BigInt, encodeLen int) (*bigint.BigInt, error) {
	data, err := prefixed(msg, startIndex, length, encodeLen)
	if err != nil {
		return nil, err
	}
	v := bigint.FromBytes(data)
	step := addNum(encodeLen)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if inSubgroup(v, p, q) {
			return v, nil
		}
		v = v.Add(step)
	}
	return nil, errs.New(errs.Arithmetic, "subgroup encoding exhausted its attempt budget")
}

func inSubgroup(v, p, q *bigint.BigInt) bool {
	if v.Cmp(bigint.One()) < 0 || v.Cmp(p) >= 0 {
		return false
	}
	return v.ModPow(q, p).IsOne()
}

func decodeSubgroup(v *bigint.BigInt, encodeLen int) ([]byte, error) {
	// The additive walk in encodeSubgroup only ever adds multiples of
	// addNum = 2^((encodeLen+4)*8), i.e. it only changes bits above the
	// prefixed representation's width; v mod addNum recovers that
	// representation unchanged.
	data, err := v.Mod(addNum(encodeLen))
	if err != nil {
		return nil, err
	}
	return unprefix(padTo(data.Bytes(), encodeLen+4))
}

// --- random-oracle scheme ------------------------------------------------

func encodeRO(msg []byte, startIndex, length int, p, g *bigint.BigInt, encodeLen int) (*bigint.BigInt, error) {
	if length > encodeLen {
		return nil, errs.Newf(errs.Format, "message length %d exceeds encode length %d", length, encodeLen)
	}
	candidate := g
	for attempt := 0; attempt < maxAttempts; attempt++ {
		digest := sha256.Sum256(candidate.Bytes())
		if int(digest[0]&0x03) == length {
			if matchesPrefix(digest[1:], msg[startIndex:startIndex+length]) {
				return candidate, nil
			}
		}
		candidate = candidate.ModMul(g, p)
	}
	return nil, errs.New(errs.Arithmetic, "random-oracle encoding exhausted its attempt budget")
}

func matchesPrefix(digest, msg []byte) bool {
	if len(msg) > len(digest) {
		return false
	}
	for i := range msg {
		if digest[i] != msg[i] {
			return false
		}
	}
	return true
}

func decodeRO(v *bigint.BigInt, p, g *bigint.BigInt, encodeLen int) ([]byte, error) {
	digest := sha256.Sum256(v.Bytes())
	n := int(digest[0] & 0x03)
	if n > encodeLen || n > len(digest)-1 {
		return nil, errs.New(errs.Format, "random-oracle decode: invalid length bit pattern")
	}
	return append([]byte(nil), digest[1:1+n]...), nil
}
