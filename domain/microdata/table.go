package microdata

// RawTable is the untyped table returned by the fetcher: a header row and
// string cells exactly as the feed delivered them (after the auxiliary index
// column is dropped). It is immutable once fetched; the normalizer builds a
// fresh typed table instead of rewriting cells in place.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ColumnIndex returns the position of a header, or -1 when absent.
func (t *RawTable) ColumnIndex(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// RowCount returns the number of data rows.
func (t *RawTable) RowCount() int {
	return len(t.Rows)
}

// FilterAdults returns the subset of people at or above minAge. The input
// slice is not modified.
func FilterAdults(people []Person, minAge int) []Person {
	adults := make([]Person, 0, len(people))
	for _, p := range people {
		if p.Age >= minAge {
			adults = append(adults, p)
		}
	}
	return adults
}
