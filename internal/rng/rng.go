package rng

import (
	"context"
	"math/rand"
)

// Adapter implements ports.RNGPort with streams derived from a base seed and
// an operation name, so the synthesize and augment stages can share one
// configured seed without sharing ambient global state.
type Adapter struct{}

// NewAdapter creates an RNG adapter
func NewAdapter() *Adapter {
	return &Adapter{}
}

// SeededStream creates a deterministic random number generator for a named operation
func (a *Adapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	derived := seed
	if name != "" {
		derived += int64(hashString(name))
	}
	return rand.New(rand.NewSource(derived)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
