package tapr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/txedinfo/tramap/pkg/tapr/models"
)

func TestRename(t *testing.T) {
	tbl := models.NewTable("CPST00001", "CAMPUS", "CPST00002")
	tbl.Append(models.Row{models.Number(1), models.Number(2), models.Number(3)})

	got := Rename(tbl, map[string]string{
		"CPST00001": "Campus 2024 Staff: Teacher Total Full Time Equiv Count",
		"UNUSED":    "never applied",
	})

	assert.Equal(t, []string{"Campus 2024 Staff: Teacher Total Full Time Equiv Count", "CAMPUS", "CPST00002"}, got.Columns)
	assert.Equal(t, "CPST00001", tbl.Columns[0], "input must not change")
}

func TestSelect(t *testing.T) {
	tbl := models.NewTable("a", "b", "c")
	tbl.Append(models.Row{models.Number(1), models.Number(2), models.Number(3)})

	got, err := Select(tbl, []string{"c", "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a"}, got.Columns)
	assert.True(t, got.Rows[0][0].Equal(models.Number(3)))
	assert.True(t, got.Rows[0][1].Equal(models.Number(1)))

	_, err = Select(tbl, []string{"a", "zzz"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrColumnNotFound)
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "zzz", se.Column)
}

func TestStripPrefix(t *testing.T) {
	tbl := models.NewTable("CAMPUS", "Campus 2024 Staff: Teacher Tenure Average")
	got := StripPrefix(tbl, CampusPrefix(2024))
	assert.Equal(t, []string{"CAMPUS", "Teacher Tenure Average"}, got.Columns)
}

func TestReplaceSentinelAndCoerce(t *testing.T) {
	tbl := models.NewTable("a", "b", "c", "d")
	tbl.Append(models.Row{models.Text("."), models.Text("12.5"), models.Text("MASKED"), models.Masked()})

	got := CoerceNumeric(ReplaceSentinel(tbl, MissingSentinel))

	assert.True(t, got.Rows[0][0].IsMissing())
	assert.True(t, got.Rows[0][1].Equal(models.Number(12.5)))
	assert.True(t, got.Rows[0][2].Equal(models.Text("MASKED")), "unconvertible text is left as is")
	assert.True(t, got.Rows[0][3].IsMasked())
	assert.True(t, tbl.Rows[0][0].Equal(models.Text(".")), "input must not change")
}

func TestCoerceNumericIsPerColumn(t *testing.T) {
	tbl := models.NewTable("count", "code")
	tbl.Append(models.Row{models.Text("3"), models.Text("001")})
	tbl.Append(models.Row{models.Missing(), models.Text("A12")})
	tbl.Append(models.Row{models.Number(4), models.Text("007")})

	got := CoerceNumeric(tbl)

	assert.True(t, got.Get(0, "count").Equal(models.Number(3)))
	assert.True(t, got.Get(1, "count").IsMissing())
	assert.True(t, got.Get(2, "count").Equal(models.Number(4)))
	for i, want := range []string{"001", "A12", "007"} {
		assert.True(t, got.Get(i, "code").Equal(models.Text(want)), "mixed column row %d stays text", i)
	}
}

func TestZeroEmptyBands(t *testing.T) {
	count := CountColumn(BandSixToTen)
	salary := SalaryColumn(BandSixToTen)
	lonely := CountColumn(BandBeginning)

	tbl := models.NewTable(count, salary, lonely)
	tbl.Append(models.Row{models.Number(0), models.Missing(), models.Number(0)})
	tbl.Append(models.Row{models.Number(0), models.Number(61000), models.Number(1)})
	tbl.Append(models.Row{models.Number(2), models.Number(50000), models.Missing()})
	tbl.Append(models.Row{models.Missing(), models.Missing(), models.Missing()})

	got := ZeroEmptyBands(tbl)

	assert.True(t, got.Get(0, salary).Equal(models.Number(0)))
	assert.True(t, got.Get(1, salary).Equal(models.Number(0)))
	assert.True(t, got.Get(2, salary).Equal(models.Number(50000)))
	assert.True(t, got.Get(3, salary).IsMissing())
}

func TestRound(t *testing.T) {
	tbl := models.NewTable("a", "b")
	tbl.Append(models.Row{models.Number(2.04), models.Number(2.04)})
	tbl.Append(models.Row{models.Number(0.25), models.Text("x")})
	tbl.Append(models.Row{models.Number(14.96), models.Missing()})

	got, err := Round(tbl, []string{"a"}, 1)
	require.NoError(t, err)

	tests := []struct {
		row      int
		expected float64
	}{
		{0, 2.0},
		{1, 0.2},
		{2, 15.0},
	}
	for _, tt := range tests {
		f, ok := got.Get(tt.row, "a").Float()
		require.True(t, ok)
		if f != tt.expected {
			t.Errorf("Round row %d = %v, expected %v", tt.row, f, tt.expected)
		}
	}
	assert.True(t, got.Get(0, "b").Equal(models.Number(2.04)), "unlisted columns are untouched")

	_, err = Round(tbl, []string{"zzz"}, 1)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}
