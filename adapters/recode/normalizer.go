package recode

import (
	"fmt"
	"strconv"
	"strings"

	"popsynth/domain/microdata"
	"popsynth/internal/errors"
)

// Feed column names and their canonical equivalents.
const (
	feedColSex       = "SEX"
	feedColAge       = "AGEP"
	feedColIncome    = "PINCP"
	feedColEducation = "SCHL"

	ColSex       = "sex"
	ColAge       = "age"
	ColIncome    = "income"
	ColEducation = "education"
)

// incomeNotApplicable is the feed's sentinel for "not applicable" income.
// It is recoded to an explicit missing marker before any analysis.
const incomeNotApplicable = -60000

// Normalizer renames feed columns to canonical names, strips formatting noise
// from encoded values and decodes categorical codes into labels. Unmapped
// codes are errors, never implicit missings.
type Normalizer struct{}

// NewNormalizer creates a normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize turns a raw table into cleaned records. The raw table is not
// modified.
func (n *Normalizer) Normalize(raw *microdata.RawTable) ([]microdata.Person, error) {
	sexIdx := raw.ColumnIndex(feedColSex)
	ageIdx := raw.ColumnIndex(feedColAge)
	incomeIdx := raw.ColumnIndex(feedColIncome)
	educationIdx := raw.ColumnIndex(feedColEducation)
	for col, idx := range map[string]int{
		feedColSex:       sexIdx,
		feedColAge:       ageIdx,
		feedColIncome:    incomeIdx,
		feedColEducation: educationIdx,
	} {
		if idx == -1 {
			return nil, errors.SchemaError(fmt.Sprintf("column %q missing from raw table (got %v)", col, raw.Headers))
		}
	}

	people := make([]microdata.Person, 0, raw.RowCount())
	for i, row := range raw.Rows {
		person, err := n.normalizeRow(row, sexIdx, ageIdx, incomeIdx, educationIdx)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+1)
		}
		people = append(people, person)
	}
	return people, nil
}

func (n *Normalizer) normalizeRow(row []string, sexIdx, ageIdx, incomeIdx, educationIdx int) (microdata.Person, error) {
	sexCode, err := parseCode(ColSex, row[sexIdx])
	if err != nil {
		return microdata.Person{}, err
	}
	sex, err := DecodeSex(sexCode)
	if err != nil {
		return microdata.Person{}, err
	}

	age, err := parseCode(ColAge, row[ageIdx])
	if err != nil {
		return microdata.Person{}, err
	}

	income, err := parseCode(ColIncome, row[incomeIdx])
	if err != nil {
		return microdata.Person{}, err
	}

	educationCode, err := parseCode(ColEducation, row[educationIdx])
	if err != nil {
		return microdata.Person{}, err
	}
	education, err := DecodeEducation(educationCode)
	if err != nil {
		return microdata.Person{}, err
	}

	return microdata.Person{
		Sex:       sex,
		Age:       age,
		Income:    DecodeIncome(income),
		Education: education,
	}, nil
}

// DecodeSex maps the feed's sex code onto the enumeration. Any code outside
// {1,2} is a RECODE_ERROR.
func DecodeSex(code int) (microdata.Sex, error) {
	switch code {
	case 1:
		return microdata.SexMale, nil
	case 2:
		return microdata.SexFemale, nil
	default:
		return "", errors.RecodeError(ColSex, code, "is outside the documented enumeration {1, 2}")
	}
}

// DecodeIncome recodes the "not applicable" sentinel to missing. Every other
// value, including negative non-sentinel incomes, passes through unchanged.
func DecodeIncome(value int) *int {
	if value == incomeNotApplicable {
		return nil
	}
	return microdata.IntPtr(value)
}

// DecodeEducation maps the feed's attainment code onto the enumeration.
// Code 0 means no level reported and maps to missing; codes outside 0-24 are
// a RECODE_ERROR.
func DecodeEducation(code int) (*microdata.Education, error) {
	switch {
	case code == 0:
		return nil, nil
	case code >= 1 && code <= 15:
		return microdata.EducationPtr(microdata.EducationNoHighSchool), nil
	case code == 16:
		return microdata.EducationPtr(microdata.EducationHighSchool), nil
	case code == 17:
		return microdata.EducationPtr(microdata.EducationVocational), nil
	case code >= 18 && code <= 20:
		return microdata.EducationPtr(microdata.EducationSomeCollege), nil
	case code == 21:
		return microdata.EducationPtr(microdata.EducationBachelors), nil
	case code == 22 || code == 23:
		return microdata.EducationPtr(microdata.EducationMasters), nil
	case code == 24:
		return microdata.EducationPtr(microdata.EducationPhD), nil
	default:
		return nil, errors.RecodeError(ColEducation, code, "is outside the documented range 0-24")
	}
}

// parseCode strips bracket noise from an encoded cell and parses the integer.
// A cell that is not numeric after stripping means the feed changed shape,
// which is a schema problem rather than a recode problem.
func parseCode(column, cell string) (int, error) {
	cleaned := StripBrackets(cell)
	value, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0, errors.SchemaError(fmt.Sprintf("column %q: value %q is not numeric", column, cell))
	}
	return value, nil
}

// StripBrackets removes surrounding bracket characters and whitespace from an
// encoded value. The feed wraps some codes in partial or full brackets, e.g.
// "[2]" or "21]".
func StripBrackets(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "[]"))
}
