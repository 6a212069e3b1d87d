package session

import "math/rand"

// Shuffler produces a permutation of 0..n-1. The randomized question-entry
// state (ordered-sequence start order, pairing right column) is drawn from a
// Shuffler exactly once per entry, never recomputed mid-question, so tests
// can inject a fixed ordering and get deterministic sessions.
type Shuffler func(n int) []int

// NewRandShuffler returns a Shuffler backed by the given source.
func NewRandShuffler(rng *rand.Rand) Shuffler {
	return func(n int) []int {
		return rng.Perm(n)
	}
}

// IdentityShuffler keeps the authored order. Used by tests.
func IdentityShuffler(n int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}
