package ports

import (
	"context"
	"math/rand"

	"popsynth/domain/microdata"
)

// SynthesizerPort draws a new sample approximating the joint distribution of
// a cleaned population.
//
// The random source is passed explicitly rather than held as ambient state:
// same seed plus same input must produce byte-identical output. The returned
// slice has exactly target rows regardless of input size.
type SynthesizerPort interface {
	Synthesize(ctx context.Context, population []microdata.Person, target int, rng *rand.Rand) ([]microdata.Person, error)
}
