package ports

import (
	"popsynth/domain/microdata"
)

// NormalizerPort turns a raw table into cleaned, typed records.
//
// Recoding is exhaustive: a categorical code outside the documented
// enumeration is an error, not an implicit missing value.
type NormalizerPort interface {
	Normalize(raw *microdata.RawTable) ([]microdata.Person, error)
}
