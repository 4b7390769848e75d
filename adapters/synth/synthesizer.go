package synth

import (
	"context"
	"fmt"
	"math/rand"

	"popsynth/domain/microdata"
	"popsynth/internal/errors"
	"popsynth/internal/profiling"
)

// Config defines the synthesis rules
type Config struct {
	MinAge        int // population filter applied before fitting
	MinSampleSize int // smallest adult population worth fitting
	AgeBandWidth  int // conditioning granularity for income and education
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		MinAge:        18,
		MinSampleSize: 30,
		AgeBandWidth:  10,
	}
}

// Synthesizer draws a new sample that approximates the joint distribution of
// a cleaned population using sequential conditional empirical synthesis: sex
// from its marginal, age conditional on sex, then income and education
// conditional on sex and age band. No closed-form model is assumed; attributes
// like age carry mortality-driven tail behavior that no tractable parametric
// family fits, so every draw comes from an observed conditional distribution.
type Synthesizer struct {
	config   Config
	profiler *profiling.Profiler
}

// NewSynthesizer creates a synthesizer with config
func NewSynthesizer(config Config) *Synthesizer {
	if config.AgeBandWidth <= 0 {
		config.AgeBandWidth = DefaultConfig().AgeBandWidth
	}
	return &Synthesizer{
		config:   config,
		profiler: profiling.NewProfiler(),
	}
}

// Synthesize filters the population to adults, fits the conditional model and
// draws exactly target fresh rows. Same rng state plus same input always
// produces the same output.
func (s *Synthesizer) Synthesize(ctx context.Context, population []microdata.Person, target int, rng *rand.Rand) ([]microdata.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if target <= 0 {
		return nil, errors.SynthesisError(fmt.Sprintf("target sample size must be positive, got %d", target))
	}

	adults := microdata.FilterAdults(population, s.config.MinAge)
	if len(adults) < s.config.MinSampleSize {
		return nil, errors.SynthesisError(fmt.Sprintf(
			"insufficient sample: %d adults aged %d+ (need at least %d)",
			len(adults), s.config.MinAge, s.config.MinSampleSize))
	}

	profile := s.profiler.ProfilePopulation(adults)
	if degenerate := profile.DegenerateColumns(); len(degenerate) > 0 {
		return nil, errors.SynthesisError(fmt.Sprintf(
			"degenerate input columns %v: zero variance or entirely missing, model fit would collapse", degenerate))
	}

	m := s.fit(adults)

	synthetic := make([]microdata.Person, target)
	for i := 0; i < target; i++ {
		synthetic[i] = m.draw(rng)
	}
	return synthetic, nil
}

// cellKey addresses one conditioning cell of the fitted model.
type cellKey struct {
	sex  microdata.Sex
	band int
}

// model holds the empirical conditional distributions as index groups over
// the adult population. Groups store indices rather than copies so a fit over
// tens of thousands of rows stays cheap.
type model struct {
	adults      []microdata.Person
	bySex       map[microdata.Sex][]int
	byCell      map[cellKey][]int
	femaleShare float64
	bandWidth   int
}

func (s *Synthesizer) fit(adults []microdata.Person) *model {
	m := &model{
		adults:    adults,
		bySex:     make(map[microdata.Sex][]int),
		byCell:    make(map[cellKey][]int),
		bandWidth: s.config.AgeBandWidth,
	}

	females := 0
	for i, p := range adults {
		if p.Sex == microdata.SexFemale {
			females++
		}
		m.bySex[p.Sex] = append(m.bySex[p.Sex], i)
		key := cellKey{sex: p.Sex, band: p.Age / m.bandWidth}
		m.byCell[key] = append(m.byCell[key], i)
	}
	m.femaleShare = float64(females) / float64(len(adults))

	return m
}

// draw generates one synthetic record. Each attribute is drawn from its own
// conditional distribution, so the result is not a copy of any single source
// row.
func (m *model) draw(rng *rand.Rand) microdata.Person {
	sex := microdata.SexMale
	if rng.Float64() < m.femaleShare {
		sex = microdata.SexFemale
	}

	sexGroup := m.bySex[sex]
	age := m.adults[sexGroup[rng.Intn(len(sexGroup))]].Age

	cell := m.conditioningCell(sex, age)

	income := m.adults[cell[rng.Intn(len(cell))]].Income
	education := m.adults[cell[rng.Intn(len(cell))]].Education

	return microdata.Person{
		Sex:       sex,
		Age:       age,
		Income:    copyInt(income),
		Education: copyEducation(education),
	}
}

// conditioningCell returns the (sex, age band) group, backing off to the sex
// marginal when the sampled age lands in a cell no source row occupies.
func (m *model) conditioningCell(sex microdata.Sex, age int) []int {
	if cell, ok := m.byCell[cellKey{sex: sex, band: age / m.bandWidth}]; ok && len(cell) > 0 {
		return cell
	}
	return m.bySex[sex]
}

// copyInt deep-copies an optional value so no synthetic row aliases source
// storage.
func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func copyEducation(v *microdata.Education) *microdata.Education {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
