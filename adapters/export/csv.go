package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"popsynth/domain/microdata"
	"popsynth/internal/errors"
)

// CSVExporter writes the augmented table as a delimited text file.
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Export writes header plus rows to path. Failures surface as IO_ERROR; no
// retries.
func (e *CSVExporter) Export(ctx context.Context, people []microdata.AugmentedPerson, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.IOError(fmt.Sprintf("cannot create CSV export %q", path), err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return errors.IOError(fmt.Sprintf("cannot write CSV header to %q", path), err)
	}
	for _, row := range EncodeRows(people) {
		if err := w.Write(row); err != nil {
			return errors.IOError(fmt.Sprintf("cannot write CSV row to %q", path), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.IOError(fmt.Sprintf("cannot flush CSV export %q", path), err)
	}
	return nil
}

// ReadCSV reads a file written by Export back into augmented records. The
// serialization round-trip law holds: schema and row count match the table
// that was exported.
func ReadCSV(path string) ([]microdata.AugmentedPerson, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("cannot open CSV export %q", path), err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.SchemaError(fmt.Sprintf("malformed CSV export %q: %v", path, err))
	}
	if len(rows) < 1 || len(rows[0]) != len(Header) {
		return nil, errors.SchemaError(fmt.Sprintf("CSV export %q does not carry the expected header %v", path, Header))
	}

	people := make([]microdata.AugmentedPerson, 0, len(rows)-1)
	for i, row := range rows[1:] {
		p, err := decodeRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d of %q", i+1, path)
		}
		people = append(people, p)
	}
	return people, nil
}

func decodeRow(row []string) (microdata.AugmentedPerson, error) {
	var p microdata.AugmentedPerson

	p.Sex = microdata.Sex(row[0])
	if !p.Sex.Valid() {
		return p, errors.SchemaError(fmt.Sprintf("sex %q is not a member of the enumeration", row[0]))
	}

	age, err := strconv.Atoi(row[1])
	if err != nil {
		return p, errors.SchemaError(fmt.Sprintf("age %q is not numeric", row[1]))
	}
	p.Age = age

	if row[2] != "" {
		income, err := strconv.Atoi(row[2])
		if err != nil {
			return p, errors.SchemaError(fmt.Sprintf("income %q is not numeric", row[2]))
		}
		p.Income = microdata.IntPtr(income)
	}

	if row[3] != "" {
		education := microdata.Education(row[3])
		if !education.Valid() {
			return p, errors.SchemaError(fmt.Sprintf("education %q is not a member of the enumeration", row[3]))
		}
		p.Education = &education
	}

	insured, err := strconv.ParseBool(row[4])
	if err != nil {
		return p, errors.SchemaError(fmt.Sprintf("insured %q is not a boolean", row[4]))
	}
	p.Insured = insured

	return p, nil
}
