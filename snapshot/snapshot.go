// Package snapshot gives tests a cheap way to assert spec.md §8's
// invariant 10 ("no source mutation") and invariant 11 ("deep-copy
// isolation"): take a structural hash of a Path (or expression) tree
// before calling CreatePlan, take another after, and compare. Two
// structurally distinct values hash differently with overwhelming
// probability; this is a test helper, not a correctness mechanism the
// materializer itself depends on.
package snapshot

import "github.com/mitchellh/hashstructure"

// Hash is a structural fingerprint of a value, as produced by Of.
type Hash uint64

// Of computes a structural hash of v by walking its exported fields,
// slices, maps, and pointers (mitchellh/hashstructure's reflection-based
// walk). Two calls on structurally equal values — even across distinct
// pointers — produce the same Hash.
func Of(v interface{}) (Hash, error) {
	h, err := hashstructure.Hash(v, nil)
	if err != nil {
		return 0, err
	}
	return Hash(h), nil
}

// Equal reports whether a and b hash identically.
func Equal(a, b interface{}) (bool, error) {
	ha, err := Of(a)
	if err != nil {
		return false, err
	}
	hb, err := Of(b)
	if err != nil {
		return false, err
	}
	return ha == hb, nil
}

// Snapshot freezes a value's structural hash for later comparison, the
// shape TestCreatePlanLeavesSourcePathUntouched follows: take a Snapshot
// before a materializer call, assert StillMatches after.
type Snapshot struct {
	hash Hash
}

// Take captures v's current structural hash.
func Take(v interface{}) (*Snapshot, error) {
	h, err := Of(v)
	if err != nil {
		return nil, err
	}
	return &Snapshot{hash: h}, nil
}

// StillMatches reports whether v's current structural hash is unchanged
// since Take.
func (s *Snapshot) StillMatches(v interface{}) (bool, error) {
	h, err := Of(v)
	if err != nil {
		return false, err
	}
	return h == s.hash, nil
}
