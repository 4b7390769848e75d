package export

import (
	"strconv"

	"popsynth/domain/microdata"
)

// Header is the exported column order for both file formats.
var Header = []string{"sex", "age", "income", "education", "insured"}

// EncodeRows renders augmented records as string cells in Header order.
// Missing income and education encode as empty fields; insured encodes as
// true/false. Both exporters and the run fingerprint share this encoding so
// the two files and the manifest always agree.
func EncodeRows(people []microdata.AugmentedPerson) [][]string {
	rows := make([][]string, len(people))
	for i, p := range people {
		rows[i] = encodeRow(p)
	}
	return rows
}

func encodeRow(p microdata.AugmentedPerson) []string {
	income := ""
	if p.Income != nil {
		income = strconv.Itoa(*p.Income)
	}
	education := ""
	if p.Education != nil {
		education = string(*p.Education)
	}
	return []string{
		string(p.Sex),
		strconv.Itoa(p.Age),
		income,
		education,
		strconv.FormatBool(p.Insured),
	}
}
