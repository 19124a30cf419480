package tapr

import "github.com/txedinfo/tramap/pkg/tapr/models"

// MissingReport returns the rows of t that have a Missing value in any of cols.
// It is used for manual review of incomplete salary data and does not affect
// the cleaned profile.
func MissingReport(t *models.Table, cols []string) (*models.Table, error) {
	if err := requireColumns("report", t, cols); err != nil {
		return nil, err
	}

	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.Index(c)
	}

	return t.Filter(func(row models.Row) bool {
		for _, j := range idx {
			if row[j].IsMissing() {
				return true
			}
		}
		return false
	}), nil
}
