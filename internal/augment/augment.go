package augment

import (
	"context"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"popsynth/domain/microdata"
	"popsynth/internal/errors"
)

// Model holds the insured-model coefficients. Success probability is affine
// in age and the sex indicator:
//
//	p = Intercept + AgeCoef*age + SexCoef*indicator
//
// where indicator is 1 for Female and 0 otherwise. The defaults center
// prevalence near the empirically observed 60% for an adult population with
// mean age around 45 and an even sex split. Coefficients that push p outside
// [0,1] are a configuration error; the model never clamps.
type Model struct {
	Intercept float64
	AgeCoef   float64
	SexCoef   float64
}

// DefaultModel returns the documented default coefficients
func DefaultModel() Model {
	return Model{
		Intercept: 0.5,
		AgeCoef:   0.002,
		SexCoef:   0.02,
	}
}

// Probability computes the insured probability for one person. The sex
// indicator exists only inside this computation and never reaches the
// exported schema.
func (m Model) Probability(p microdata.Person) float64 {
	indicator := 0.0
	if p.Sex == microdata.SexFemale {
		indicator = 1.0
	}
	return m.Intercept + m.AgeCoef*float64(p.Age) + m.SexCoef*indicator
}

// Augmenter appends the insured attribute to synthetic records via a
// Bernoulli draw per row, fed by the pipeline's seeded random stream.
type Augmenter struct {
	model Model
}

// NewAugmenter creates an augmenter with the given model
func NewAugmenter(model Model) *Augmenter {
	return &Augmenter{model: model}
}

// Augment returns a fresh table with the insured column appended. The input
// slice is not modified and no other column changes.
func (a *Augmenter) Augment(ctx context.Context, people []microdata.Person, rng *rand.Rand) ([]microdata.AugmentedPerson, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src := randSource{rng: rng}
	augmented := make([]microdata.AugmentedPerson, len(people))
	for i, p := range people {
		prob := a.model.Probability(p)
		if prob < 0 || prob > 1 {
			return nil, errors.ConfigInvalid(fmt.Sprintf(
				"insured probability %.4f outside [0,1] for age %d, sex %s: check model coefficients", prob, p.Age, p.Sex))
		}

		bernoulli := distuv.Bernoulli{P: prob, Src: src}
		augmented[i] = microdata.AugmentedPerson{
			Person:  p,
			Insured: bernoulli.Rand() == 1,
		}
	}
	return augmented, nil
}

// randSource adapts the pipeline's math/rand stream to the source interface
// gonum's distributions consume, so the synthesize and augment stages draw
// from one seeded sequence.
type randSource struct {
	rng *rand.Rand
}

func (s randSource) Uint64() uint64 {
	return s.rng.Uint64()
}

func (s randSource) Seed(seed uint64) {
	s.rng.Seed(int64(seed))
}
