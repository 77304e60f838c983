package encoding

import (
	"testing"

	"github.com/arithmos/vcore/internal/bigint"
)

// p=16044500071945403, q=8022250035972701 is a safe prime pair (p=2q+1),
// g=4 a nontrivial square and therefore a generator of the order-q
// subgroup. testEncodeLen is deliberately chosen much smaller than
// F(q).EncodeLength() would give for this q: per §4.5's safePrime scheme,
// decode must recover min(v, p−v) as the original prefixed representative,
// which requires that representative (encodeLen+4 bytes wide) to be less
// than p/2. A group sized only for its own encodeLength leaves no headroom
// for the 4-byte length prefix, so tests pick a prime comfortably larger
// than the worked example needs, matching S5's "choose a safe-prime group
// with sufficient encodeLength."
var (
	testP = bigint.FromInt64(16044500071945403)
	testQ = bigint.FromInt64(8022250035972701)
	testG = bigint.FromInt64(4)
)

const testEncodeLen = 1

func TestParseScheme(t *testing.T) {
	for b, want := range map[byte]Scheme{0: SafePrime, 1: Subgroup, 2: RO} {
		got, err := ParseScheme(b)
		if err != nil || got != want {
			t.Errorf("ParseScheme(%d) = %v, %v; want %v", b, got, err, want)
		}
	}
	if _, err := ParseScheme(9); err == nil {
		t.Errorf("expected an error for an unknown scheme tag")
	}
}

func TestSafePrimeEncodeDecodeRoundTrip(t *testing.T) {
	for _, msg := range [][]byte{{}, {0x00}, {0xff}, {0x2a}} {
		v, err := Encode(SafePrime, msg, 0, len(msg), testP, testQ, testG, testEncodeLen)
		if err != nil {
			t.Fatalf("Encode(%x): %v", msg, err)
		}
		if !v.IsQuadraticResidue(testP) {
			t.Errorf("safePrime-encoded value %s must be a QR mod p", v)
		}
		got, err := Decode(SafePrime, v, testP, testQ, testG, testEncodeLen)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if string(got) != string(msg) {
			t.Errorf("round trip(%x) = %x", msg, got)
		}
	}
}

func TestSubgroupEncodeDecodeRoundTrip(t *testing.T) {
	for _, msg := range [][]byte{{}, {0x01}, {0x7f}} {
		v, err := Encode(Subgroup, msg, 0, len(msg), testP, testQ, testG, testEncodeLen)
		if err != nil {
			t.Fatalf("Encode(%x): %v", msg, err)
		}
		if !inSubgroup(v, testP, testQ) {
			t.Errorf("subgroup-encoded value %s must be in the order-q subgroup", v)
		}
		got, err := Decode(Subgroup, v, testP, testQ, testG, testEncodeLen)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if string(got) != string(msg) {
			t.Errorf("round trip(%x) = %x", msg, got)
		}
	}
}

func TestROEncodeDecodeRoundTrip(t *testing.T) {
	for _, msg := range [][]byte{{}, {0x01}} {
		v, err := Encode(RO, msg, 0, len(msg), testP, testQ, testG, testEncodeLen)
		if err != nil {
			t.Fatalf("Encode(%x): %v", msg, err)
		}
		got, err := Decode(RO, v, testP, testQ, testG, testEncodeLen)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if string(got) != string(msg) {
			t.Errorf("round trip(%x) = %x", msg, got)
		}
	}
}

func TestEncodeRejectsOverlongMessage(t *testing.T) {
	msg := []byte{1, 2, 3, 4, 5}
	if _, err := Encode(SafePrime, msg, 0, len(msg), testP, testQ, testG, testEncodeLen); err == nil {
		t.Errorf("expected an error for a message exceeding encodeLen")
	}
}

func TestUnprefixRejectsTruncatedInput(t *testing.T) {
	if _, err := unprefix([]byte{0, 0}); err == nil {
		t.Errorf("expected an error for input shorter than the length prefix")
	}
}
