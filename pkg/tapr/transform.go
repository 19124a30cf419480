package tapr

import (
	"fmt"
	"math"
	"strings"

	"github.com/txedinfo/tramap/pkg/tapr/models"
)

// Rename returns a copy of t with columns renamed through mapping.
// Columns without an entry keep their names.
func Rename(t *models.Table, mapping map[string]string) *models.Table {
	out := t.Clone()
	for i, c := range out.Columns {
		if label, ok := mapping[c]; ok {
			out.Columns[i] = label
		}
	}
	return out
}

// StripPrefix returns a copy of t with prefix removed from every column name
// that carries it.
func StripPrefix(t *models.Table, prefix string) *models.Table {
	out := t.Clone()
	for i, c := range out.Columns {
		out.Columns[i] = strings.ReplaceAll(c, prefix, "")
	}
	return out
}

// Select projects t onto cols, in that order.
// A column absent from t is an error.
func Select(t *models.Table, cols []string) (*models.Table, error) {
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.Index(c)
		if idx[i] < 0 {
			return nil, NewStageError("select", c, ErrColumnNotFound)
		}
	}

	out := models.NewTable(cols...)
	out.Rows = make([]models.Row, len(t.Rows))
	for r, row := range t.Rows {
		projected := make(models.Row, len(cols))
		for i, j := range idx {
			if j < len(row) {
				projected[i] = row[j]
			}
		}
		out.Rows[r] = projected
	}
	return out, nil
}

// ReplaceSentinel returns a copy of t with every Text cell equal to sentinel
// turned into Missing.
func ReplaceSentinel(t *models.Table, sentinel string) *models.Table {
	out := t.Clone()
	for _, row := range out.Rows {
		for i, v := range row {
			if s, ok := v.Str(); ok && s == sentinel {
				row[i] = models.Missing()
			}
		}
	}
	return out
}

// CoerceNumeric returns a copy of t where every column whose Text cells all
// parse as numbers has them converted to Number. A column holding any other
// text is left as it is.
func CoerceNumeric(t *models.Table) *models.Table {
	out := t.Clone()
	for i := range out.Columns {
		parsed := make([]models.Value, len(out.Rows))
		numeric := true
		for r, row := range out.Rows {
			s, ok := row[i].Str()
			if !ok {
				continue
			}
			if parsed[r] = models.ParseValue(s); parsed[r].Kind() != models.KindNumber {
				numeric = false
				break
			}
		}
		if !numeric {
			continue
		}
		for r, row := range out.Rows {
			if parsed[r].Kind() == models.KindNumber {
				row[i] = parsed[r]
			}
		}
	}
	return out
}

// ZeroEmptyBands returns a copy of t where every salary average whose paired
// headcount is exactly zero is set to zero.
func ZeroEmptyBands(t *models.Table) *models.Table {
	out := t.Clone()
	for countIdx, col := range out.Columns {
		if !strings.Contains(col, CountSuffix) {
			continue
		}
		salaryIdx := out.Index(strings.Replace(col, CountSuffix, SalarySuffix, 1))
		if salaryIdx < 0 {
			continue
		}
		for _, row := range out.Rows {
			if f, ok := row[countIdx].Float(); ok && f == 0 {
				row[salaryIdx] = models.Number(0)
			}
		}
	}
	return out
}

// Round returns a copy of t with Number cells in cols rounded half to even
// at the given number of decimals.
func Round(t *models.Table, cols []string, decimals int) (*models.Table, error) {
	out := t.Clone()
	scale := math.Pow(10, float64(decimals))
	for _, c := range cols {
		idx := out.Index(c)
		if idx < 0 {
			return nil, NewStageError("round", c, ErrColumnNotFound)
		}
		for _, row := range out.Rows {
			if f, ok := row[idx].Float(); ok {
				row[idx] = models.Number(math.RoundToEven(f*scale) / scale)
			}
		}
	}
	return out, nil
}

// requireColumns checks that every name in cols is present in t.
func requireColumns(stage string, t *models.Table, cols []string) error {
	for _, c := range cols {
		if !t.Has(c) {
			return NewStageError(stage, c, fmt.Errorf("%w in %d-column table", ErrColumnNotFound, len(t.Columns)))
		}
	}
	return nil
}
