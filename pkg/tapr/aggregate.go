package tapr

import "github.com/txedinfo/tramap/pkg/tapr/models"

// AggregateFivePlus returns a copy of t with the derived 5+ band count,
// percent and salary columns appended.
//
// The count and percent are plain sums of the senior bands, so a missing
// operand yields Missing. The percent is summed from the rounded band
// percents rather than recomputed from counts. The salary is the
// count-weighted mean of the band salaries and is 0 when the denominator is
// zero or any operand is missing.
func AggregateFivePlus(t *models.Table) (*models.Table, error) {
	var counts, percents, salaries []string
	for _, b := range SeniorBands {
		counts = append(counts, CountColumn(b))
		percents = append(percents, PercentColumn(b))
		salaries = append(salaries, SalaryColumn(b))
	}
	for _, cols := range [][]string{counts, percents, salaries} {
		if err := requireColumns("aggregate", t, cols); err != nil {
			return nil, err
		}
	}

	cols := make([]string, 0, len(t.Columns)+3)
	cols = append(cols, t.Columns...)
	out := models.NewTable(append(cols,
		CountColumn(BandFivePlus),
		PercentColumn(BandFivePlus),
		SalaryColumn(BandFivePlus),
	)...)

	for i, row := range t.Rows {
		c := make([]models.Value, len(SeniorBands))
		p := make([]models.Value, len(SeniorBands))
		weighted := make([]models.Value, len(SeniorBands))
		for j := range SeniorBands {
			c[j] = t.Get(i, counts[j])
			p[j] = t.Get(i, percents[j])
			weighted[j] = models.Mul(c[j], t.Get(i, salaries[j]))
		}

		count := models.Add(c...)
		percent := models.Add(p...)
		salary := weightedAverage(models.Add(weighted...), count)

		next := make(models.Row, len(t.Columns), len(out.Columns))
		copy(next, row)
		out.Append(append(next, count, percent, salary))
	}

	return out, nil
}

// weightedAverage divides sum by n, falling back to zero.
func weightedAverage(sum, n models.Value) models.Value {
	s, ok := sum.Float()
	if !ok {
		return models.Number(0)
	}
	d, ok := n.Float()
	if !ok || d == 0 {
		return models.Number(0)
	}
	return models.Number(s / d)
}
