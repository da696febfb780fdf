// Package reorder computes and applies particle permutations.
//
// A permutation perm maps an old index to a new one: after reordering,
// the element that was at i lives at perm[i].
package reorder

import (
	"errors"
	"fmt"
)

var ErrNotPermutation = errors.New("reorder: not a permutation")

// Check reports whether perm is a bijection on [0, n).
func Check(perm []int, n int) error {
	if len(perm) != n {
		return fmt.Errorf("%w: length %d, want %d", ErrNotPermutation, len(perm), n)
	}
	seen := make([]bool, n)
	for old, nw := range perm {
		if nw < 0 || nw >= n || seen[nw] {
			return fmt.Errorf("%w: index %d maps to %d", ErrNotPermutation, old, nw)
		}
		seen[nw] = true
	}
	return nil
}

// MustCheck panics if perm is not a bijection on [0, n).
func MustCheck(perm []int, n int) {
	if err := Check(perm, n); err != nil {
		panic(err)
	}
}

// Apply returns a copy of src with src[i] moved to perm[i].
func Apply[T any](perm []int, src []T) []T {
	dst := make([]T, len(src))
	for old, nw := range perm {
		dst[nw] = src[old]
	}
	return dst
}

func Inverse(perm []int) []int {
	inv := make([]int, len(perm))
	for old, nw := range perm {
		inv[nw] = old
	}
	return inv
}

// Compose returns the permutation equivalent to applying a then b.
func Compose(a, b []int) []int {
	out := make([]int, len(a))
	for i, v := range a {
		out[i] = b[v]
	}
	return out
}

func Identity(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}
