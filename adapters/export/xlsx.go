package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"popsynth/domain/microdata"
	"popsynth/internal/errors"
)

// sheetName is where the augmented table lands in the workbook.
const sheetName = "Sheet1"

// XLSXExporter writes the augmented table as a structured workbook.
type XLSXExporter struct{}

// NewXLSXExporter creates an XLSX exporter
func NewXLSXExporter() *XLSXExporter {
	return &XLSXExporter{}
}

// Export writes header plus rows to Sheet1 of a new workbook at path. Cells
// carry the same string encoding as the CSV export so the two files agree.
func (e *XLSXExporter) Export(ctx context.Context, people []microdata.AugmentedPerson, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheetName)
		if err != nil {
			return errors.IOError(fmt.Sprintf("cannot create sheet in %q", path), err)
		}
		f.SetActiveSheet(idx)
	}

	for i, h := range Header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return errors.IOError(fmt.Sprintf("cannot write header to %q", path), err)
		}
	}

	for r, row := range EncodeRows(people) {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return errors.IOError(fmt.Sprintf("cannot write row %d to %q", r+1, path), err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.IOError(fmt.Sprintf("cannot save XLSX export %q", path), err)
	}
	return nil
}

// ReadXLSX reads Sheet1 of a file written by Export back into augmented
// records, mirroring ReadCSV for the round-trip law.
func ReadXLSX(path string) ([]microdata.AugmentedPerson, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("cannot open XLSX export %q", path), err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, errors.SchemaError(fmt.Sprintf("cannot read %s of %q: %v", sheetName, path, err))
	}
	if len(rows) < 1 || len(rows[0]) != len(Header) {
		return nil, errors.SchemaError(fmt.Sprintf("XLSX export %q does not carry the expected header %v", path, Header))
	}

	people := make([]microdata.AugmentedPerson, 0, len(rows)-1)
	for i, row := range rows[1:] {
		// excelize drops trailing empty cells; pad back to full width.
		for len(row) < len(Header) {
			row = append(row, "")
		}
		p, err := decodeRow(row)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d of %q", i+1, path)
		}
		people = append(people, p)
	}
	return people, nil
}
