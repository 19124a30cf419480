// Package parser reads and writes the spreadsheets consumed and produced by the
// profile and map pipelines.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/txedinfo/tramap/pkg/tapr/models"
	"github.com/xuri/excelize/v2"
)

// ErrSheetNotFound indicates the requested worksheet does not exist.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrNoHeader indicates a sheet has no header row after the skipped rows.
var ErrNoHeader = errors.New("no header row")

// ErrColumnNotFound indicates an expected column is absent.
var ErrColumnNotFound = errors.New("column not found")

// naValues are cell texts read as Missing, following the null markers
// spreadsheet exports commonly carry.
var naValues = map[string]bool{
	"#N/A": true,
	"N/A":  true,
	"NA":   true,
	"NULL": true,
	"null": true,
	"NaN":  true,
	"nan":  true,
	"<NA>": true,
}

// ReadOptions selects the sheet and header row to read.
type ReadOptions struct {
	// Sheet names the worksheet. Empty selects the first sheet.
	Sheet string
	// SkipRows is the number of leading rows to ignore before the header.
	SkipRows int
}

// cell is the raw text of a sheet cell. text marks cells the workbook stores
// as strings, which are kept as Text even when they look numeric.
type cell struct {
	s    string
	text bool
}

// ReadTable reads a worksheet into a Table. The first row after SkipRows
// is the header; every later row becomes a record padded to the header width.
// Files ending in .xls are read with the legacy BIFF reader, everything else
// with excelize.
//
// Numeric workbook cells become Number and string cells stay Text. The BIFF
// reader reports no cell types, so numeric-looking .xls cells become Number.
func ReadTable(path string, opts ReadOptions) (*models.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var (
		rows [][]cell
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		rows, err = readXLSRows(path, opts.Sheet)
	default:
		rows, err = readXLSXRows(path, opts.Sheet)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	return buildTable(rows, opts.SkipRows)
}

func readXLSXRows(path, sheet string) ([][]cell, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows := make([][]cell, len(raw))
	for r, values := range raw {
		cells := make([]cell, len(values))
		for c, s := range values {
			cells[c] = cell{s: s}
			if models.ParseValue(s).Kind() != models.KindNumber {
				continue
			}
			// Only numeric-looking text needs the stored type.
			text, err := isStringCell(f, sheet, c+1, r+1)
			if err != nil {
				return nil, err
			}
			cells[c].text = text
		}
		rows[r] = cells
	}
	return rows, nil
}

func isStringCell(f *excelize.File, sheet string, col, row int) (bool, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return false, err
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return false, err
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return true, nil
	}
	return false, nil
}

// buildTable converts raw sheet rows into a Table.
func buildTable(rows [][]cell, skip int) (*models.Table, error) {
	if skip < 0 {
		skip = 0
	}
	if len(rows) <= skip {
		return nil, ErrNoHeader
	}

	header := rows[skip]
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h.s)
	}
	t := models.NewTable(columns...)

	for _, raw := range rows[skip+1:] {
		row := make(models.Row, len(columns))
		for colIdx, c := range raw {
			if colIdx >= len(columns) {
				break
			}
			row[colIdx] = parseValue(c.s, c.text)
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

// parseValue converts raw cell text into a Value.
// The MASKED literal round-trips as Masked, null markers become Missing.
// Non-empty string cells stay Text; other cells are parsed as numbers.
func parseValue(s string, text bool) models.Value {
	if s == models.MaskedText {
		return models.Masked()
	}
	if naValues[strings.TrimSpace(s)] {
		return models.Missing()
	}
	if text && strings.TrimSpace(s) != "" {
		return models.Text(s)
	}
	return models.ParseValue(s)
}
