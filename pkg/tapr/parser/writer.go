package parser

import (
	"fmt"

	"github.com/txedinfo/tramap/pkg/tapr/models"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the worksheet name written to new workbooks.
const DefaultSheet = "Sheet1"

// WriteTable writes t as a single-sheet workbook at path. The first row holds
// the column names. Missing cells are left empty and masked cells hold the
// MASKED literal.
func WriteTable(path, sheet string, t *models.Table) error {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	if sheet != DefaultSheet {
		if err := f.SetSheetName(DefaultSheet, sheet); err != nil {
			return err
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for rowIdx, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for colIdx := range t.Columns {
			if colIdx < len(row) {
				cells[colIdx] = cellValue(row[colIdx])
			}
		}
		cellName, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cellName, cells); err != nil {
			return fmt.Errorf("write row %d: %w", rowIdx+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// cellValue maps a Value to the type excelize stores for it.
func cellValue(v models.Value) interface{} {
	switch v.Kind() {
	case models.KindNumber:
		f, _ := v.Float()
		return f
	case models.KindText:
		s, _ := v.Str()
		return s
	case models.KindMasked:
		return models.MaskedText
	default:
		return nil
	}
}
