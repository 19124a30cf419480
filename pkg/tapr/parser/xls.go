package parser

import (
	"fmt"

	"github.com/extrame/xls"
)

// readXLSRows reads a legacy BIFF workbook sheet into raw rows.
func readXLSRows(path, sheet string) ([][]cell, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrSheetNotFound)
	}

	var ws *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		s := wb.GetSheet(i)
		if s == nil {
			continue
		}
		if sheet == "" || s.Name == sheet {
			ws = s
			break
		}
	}
	if ws == nil {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
	}

	rows := make([][]cell, 0, int(ws.MaxRow)+1)
	for r := 0; r <= int(ws.MaxRow); r++ {
		row := ws.Row(r)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]cell, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, cell{s: row.Col(c)})
		}
		rows = append(rows, cells)
	}

	return rows, nil
}
