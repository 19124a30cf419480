package tapr

import (
	"errors"
	"fmt"

	"github.com/txedinfo/tramap/pkg/tapr/parser"
)

// ErrFileNotFound indicates an input workbook does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrColumnNotFound indicates an expected column is absent from a table.
var ErrColumnNotFound = parser.ErrColumnNotFound

// StageError represents a failure in one pipeline stage.
type StageError struct {
	Stage  string // "read", "labels", "select", "report", "write"
	Column string
	Err    error
}

func (e *StageError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s stage failed on column %q: %v", e.Stage, e.Column, e.Err)
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError creates a new StageError.
func NewStageError(stage, column string, err error) *StageError {
	return &StageError{
		Stage:  stage,
		Column: column,
		Err:    err,
	}
}
