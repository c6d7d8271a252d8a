package games

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDataset is returned when a file has a header but no data rows, or nothing at all.
var ErrEmptyDataset = errors.New("dataset is empty")

// ErrUnsupported indicates no loader handles the file extension.
var ErrUnsupported = errors.New("unsupported dataset format")

// ErrNotFinite is wrapped by a RowError for NaN or infinite numeric cells.
var ErrNotFinite = errors.New("not a finite number")

// MissingColumnsError lists required columns absent from the header.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// RowError reports an unparseable value in a required numeric column.
// Row is the 1-based data row (the header is not counted).
type RowError struct {
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: column %s: invalid value %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
