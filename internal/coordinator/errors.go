package coordinator

import "errors"

// Sentinel kinds for coordinator errors.
var (
	ErrInvalidGroupSize = errors.New("group size must be >= 1")
	ErrScatterArity     = errors.New("scatter slice count must equal group size")
)
