package tabular

import "errors"

// Sentinel kinds for tabular I/O errors.
var (
	ErrMissingColumn = errors.New("required column not found in header")
	ErrEmptyFile     = errors.New("input file has no data rows")
)
