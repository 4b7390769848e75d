package microdata

import (
	"fmt"
)

// Sex is the two-level categorical decoded from the feed's SEX code.
type Sex string

const (
	SexMale   Sex = "Male"
	SexFemale Sex = "Female"
)

// Valid reports whether the value is a member of the enumeration.
func (s Sex) Valid() bool {
	return s == SexMale || s == SexFemale
}

// Education is the attainment level decoded from the feed's SCHL code.
// Code 0 carries no level and maps to missing rather than a member.
type Education string

const (
	EducationNoHighSchool Education = "Did not complete high school"
	EducationHighSchool   Education = "High school diploma"
	EducationVocational   Education = "Vocational education"
	EducationSomeCollege  Education = "Some college"
	EducationBachelors    Education = "Bachelor's degree"
	EducationMasters      Education = "Master's degree"
	EducationPhD          Education = "PhD"
)

// EducationLevels lists the enumeration in attainment order.
var EducationLevels = []Education{
	EducationNoHighSchool,
	EducationHighSchool,
	EducationVocational,
	EducationSomeCollege,
	EducationBachelors,
	EducationMasters,
	EducationPhD,
}

// Valid reports whether the value is a member of the enumeration.
func (e Education) Valid() bool {
	for _, level := range EducationLevels {
		if e == level {
			return true
		}
	}
	return false
}

// Person is one cleaned microdata record. Income and Education use nil for an
// explicit missing marker: the income sentinel and education code 0 are
// recoded to missing during normalization, never carried through as values.
type Person struct {
	Sex       Sex
	Age       int
	Income    *int
	Education *Education
}

// Validate checks the cleaned-record invariant: every categorical field is a
// member of its documented enumeration or missing.
func (p Person) Validate() error {
	if !p.Sex.Valid() {
		return fmt.Errorf("sex %q is not a member of the enumeration", p.Sex)
	}
	if p.Age < 0 {
		return fmt.Errorf("age %d is negative", p.Age)
	}
	if p.Education != nil && !p.Education.Valid() {
		return fmt.Errorf("education %q is not a member of the enumeration", *p.Education)
	}
	return nil
}

// AugmentedPerson is a synthetic record with the derived insured attribute.
type AugmentedPerson struct {
	Person
	Insured bool
}

// IntPtr returns a pointer to v, for building optional fields in literals.
func IntPtr(v int) *int {
	return &v
}

// EducationPtr returns a pointer to e, for building optional fields in literals.
func EducationPtr(e Education) *Education {
	return &e
}
