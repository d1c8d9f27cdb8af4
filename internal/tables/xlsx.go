package tables

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jianyou-wu/medical-app/internal/dosage"
)

// ReadMedicationsXLSX parses the medication table from the first worksheet
// of an Excel workbook, the format pharmacists maintain it in.
func ReadMedicationsXLSX(r io.Reader) ([]dosage.Rule, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("medications: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("medications: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("medications: read sheet %s: %w", sheets[0], err)
	}

	s, err := newSheet(rows)
	if err != nil {
		return nil, fmt.Errorf("medications: %w", err)
	}
	return medicationsFromSheet(s)
}
