// Package randsource turns a fixed seed into a reproducible stream of
// randomness. It exists so tests (and the safe-prime table generator's
// deterministic derivation in internal/primes) can request "externally
// supplied randomness" — the randomness source the core never constructs
// itself (spec §1 Non-goals: "random source construction") — without
// depending on the system CSPRNG.
package randsource

import (
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/hkdf"
)

// FromSeed expands seed deterministically into an io.Reader suitable for
// Miller-Rabin witness selection, RandomElement sampling in tests, or any
// other consumer of an injected rs io.Reader. Equal seeds always produce
// equal streams.
func FromSeed(seed []byte, info string) io.Reader {
	return hkdf.New(sha256.New, seed, nil, []byte(info))
}
