// Package bitutil collects small generic bit-math helpers; Max backs the
// permutation leaf-width computation and CeilDiv the fixed-base
// exponentiation table's slice count.
package bitutil

import "golang.org/x/exp/constraints"

// PopCount returns the number of set bits in v.
func PopCount[T constraints.Unsigned](v T) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

// BitAt reports bit i (0 = least significant) of v.
func BitAt[T constraints.Unsigned](v T, i int) bool {
	return (v>>uint(i))&1 == 1
}

// Min returns the smaller of a and b.
func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

// CeilDiv computes ceil(a/b) for positive integers, used for the fixed-base
// table's slice size s = ceil(L/w).
func CeilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
