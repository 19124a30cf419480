package tapr

import (
	"strings"

	"github.com/txedinfo/tramap/pkg/tapr/models"
)

// MaskState is the suppression state of a profile row.
type MaskState int

const (
	// Unmasked rows carry a mix of numeric and missing salary data.
	Unmasked MaskState = iota
	// Masked rows had every salary column suppressed at the source.
	Masked
)

func (s MaskState) String() string {
	if s == Masked {
		return "MASKED"
	}
	return "UNMASKED"
}

// RowMaskState reports whether a row of t is masked: every teacher column
// holds the MASKED marker.
func RowMaskState(t *models.Table, i int) MaskState {
	found := false
	for j, c := range t.Columns {
		if !strings.Contains(c, TeacherMarker) {
			continue
		}
		found = true
		if !t.Rows[i][j].IsMasked() {
			return Unmasked
		}
	}
	if !found {
		return Unmasked
	}
	return Masked
}

// Mask returns a copy of t in which every row whose check columns are all
// Missing has each column containing marker overwritten with MASKED.
// It also reports how many rows were masked.
func Mask(t *models.Table, check []string, marker string) (*models.Table, int, error) {
	if err := requireColumns("mask", t, check); err != nil {
		return nil, 0, err
	}

	checkIdx := make([]int, len(check))
	for i, c := range check {
		checkIdx[i] = t.Index(c)
	}
	var targets []int
	for j, c := range t.Columns {
		if strings.Contains(c, marker) {
			targets = append(targets, j)
		}
	}

	out := t.Clone()
	masked := 0
	for _, row := range out.Rows {
		if !allMissing(row, checkIdx) {
			continue
		}
		for _, j := range targets {
			row[j] = models.Masked()
		}
		masked++
	}
	return out, masked, nil
}

func allMissing(row models.Row, idx []int) bool {
	for _, j := range idx {
		if !row[j].IsMissing() {
			return false
		}
	}
	return true
}
