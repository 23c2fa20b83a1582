package partition

import "errors"

// Sentinel kinds for partitioning errors.
var (
	ErrInvalidWorkerCount = errors.New("worker count must be >= 1")
	ErrInvalidBatchSize   = errors.New("batch size must be >= 1")
	ErrNegativeCount      = errors.New("unit count must not be negative")
)
