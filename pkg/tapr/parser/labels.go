package parser

import (
	"fmt"
	"strings"
)

// Column names in the TAPR header-description sheet.
const (
	LabelNameColumn  = "Name"
	LabelLabelColumn = "Label"
)

// DefaultLabelSkipRows is the number of descriptive rows above the
// header in the state's staff-information layout sheet.
const DefaultLabelSkipRows = 4

// ReadLabels loads the raw-field to label mapping from a layout sheet.
// Rows missing either a name or a label are dropped; for duplicate names the
// last row wins.
func ReadLabels(path string, skipRows int) (map[string]string, error) {
	t, err := ReadTable(path, ReadOptions{SkipRows: skipRows})
	if err != nil {
		return nil, err
	}

	nameIdx := t.Index(LabelNameColumn)
	labelIdx := t.Index(LabelLabelColumn)
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, LabelNameColumn)
	}
	if labelIdx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, LabelLabelColumn)
	}

	mapping := make(map[string]string, t.Len())
	for _, row := range t.Rows {
		name, label := row[nameIdx], row[labelIdx]
		if name.IsMissing() || label.IsMissing() {
			continue
		}
		mapping[strings.TrimSpace(name.String())] = strings.TrimSpace(label.String())
	}

	return mapping, nil
}
