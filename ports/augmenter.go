package ports

import (
	"context"
	"math/rand"

	"popsynth/domain/microdata"
)

// AugmenterPort appends the derived insured attribute to synthetic records.
//
// It shares the pipeline's seeded random source with the synthesizer so a run
// is reproducible end to end. No column other than the appended one changes.
type AugmenterPort interface {
	Augment(ctx context.Context, people []microdata.Person, rng *rand.Rand) ([]microdata.AugmentedPerson, error)
}
