package profiling

import (
	"github.com/montanaflynn/stats"

	"popsynth/domain/core"
	"popsynth/domain/microdata"
)

// NumericProfile holds summary statistics for one numeric column, computed
// over present values only.
type NumericProfile struct {
	Column      core.ColumnKey `json:"column"`
	SampleSize  int            `json:"sample_size"`
	MissingRate float64        `json:"missing_rate"`
	Mean        float64        `json:"mean"`
	StdDev      float64        `json:"std_dev"`
	Min         float64        `json:"min"`
	Max         float64        `json:"max"`
	Median      float64        `json:"median"`
}

// Degenerate reports whether the column cannot support a model fit: entirely
// missing, or present values with zero variance.
func (p NumericProfile) Degenerate() bool {
	if p.MissingRate >= 1.0 {
		return true
	}
	return p.StdDev == 0
}

// CategoricalProfile holds level counts for one categorical column.
type CategoricalProfile struct {
	Column      core.ColumnKey `json:"column"`
	SampleSize  int            `json:"sample_size"`
	MissingRate float64        `json:"missing_rate"`
	Levels      map[string]int `json:"levels"`
}

// Degenerate reports whether the column cannot support a model fit: entirely
// missing, or a single observed level.
func (p CategoricalProfile) Degenerate() bool {
	if p.MissingRate >= 1.0 {
		return true
	}
	return len(p.Levels) < 2
}

// Profiler computes per-column profiles of a cleaned population. The
// synthesizer uses the profiles as its degenerate-input guard and the run
// manifest carries them as a summary.
type Profiler struct{}

// NewProfiler creates a new profiler
func NewProfiler() *Profiler {
	return &Profiler{}
}

// ProfileNumeric computes summary statistics over the present values of a
// numeric column. missing counts the absent entries in the same column.
func (pr *Profiler) ProfileNumeric(column core.ColumnKey, values []float64, missing int) NumericProfile {
	total := len(values) + missing
	profile := NumericProfile{
		Column:     column,
		SampleSize: total,
	}
	if total > 0 {
		profile.MissingRate = float64(missing) / float64(total)
	}
	if len(values) == 0 {
		profile.MissingRate = 1.0
		return profile
	}

	// montanaflynn/stats only errors on empty input, which is handled above.
	profile.Mean, _ = stats.Mean(values)
	profile.StdDev, _ = stats.StandardDeviation(values)
	profile.Min, _ = stats.Min(values)
	profile.Max, _ = stats.Max(values)
	profile.Median, _ = stats.Median(values)

	return profile
}

// ProfileCategorical counts observed levels of a categorical column.
func (pr *Profiler) ProfileCategorical(column core.ColumnKey, values []string, missing int) CategoricalProfile {
	total := len(values) + missing
	profile := CategoricalProfile{
		Column:     column,
		SampleSize: total,
		Levels:     make(map[string]int),
	}
	if total > 0 {
		profile.MissingRate = float64(missing) / float64(total)
	}
	if len(values) == 0 {
		profile.MissingRate = 1.0
		return profile
	}
	for _, v := range values {
		profile.Levels[v]++
	}
	return profile
}

// PopulationProfile profiles all four microdata columns of a population.
type PopulationProfile struct {
	Sex       CategoricalProfile `json:"sex"`
	Age       NumericProfile     `json:"age"`
	Income    NumericProfile     `json:"income"`
	Education CategoricalProfile `json:"education"`
}

// ProfilePopulation computes the per-column profiles of a cleaned population.
func (pr *Profiler) ProfilePopulation(people []microdata.Person) PopulationProfile {
	sexes := make([]string, 0, len(people))
	ages := make([]float64, 0, len(people))
	incomes := make([]float64, 0, len(people))
	educations := make([]string, 0, len(people))
	incomeMissing := 0
	educationMissing := 0

	for _, p := range people {
		sexes = append(sexes, string(p.Sex))
		ages = append(ages, float64(p.Age))
		if p.Income != nil {
			incomes = append(incomes, float64(*p.Income))
		} else {
			incomeMissing++
		}
		if p.Education != nil {
			educations = append(educations, string(*p.Education))
		} else {
			educationMissing++
		}
	}

	return PopulationProfile{
		Sex:       pr.ProfileCategorical("sex", sexes, 0),
		Age:       pr.ProfileNumeric("age", ages, 0),
		Income:    pr.ProfileNumeric("income", incomes, incomeMissing),
		Education: pr.ProfileCategorical("education", educations, educationMissing),
	}
}

// DegenerateColumns returns the keys of columns that cannot support a fit.
func (p PopulationProfile) DegenerateColumns() []core.ColumnKey {
	var degenerate []core.ColumnKey
	if p.Sex.Degenerate() {
		degenerate = append(degenerate, p.Sex.Column)
	}
	if p.Age.Degenerate() {
		degenerate = append(degenerate, p.Age.Column)
	}
	if p.Income.Degenerate() {
		degenerate = append(degenerate, p.Income.Column)
	}
	if p.Education.Degenerate() {
		degenerate = append(degenerate, p.Education.Column)
	}
	return degenerate
}
