package aggregate

import "errors"

// Sentinel kinds for aggregation errors.
var (
	ErrNoObservations = errors.New("no defined records for group pair")
	ErrMissingCounts  = errors.New("missing or invalid group entity counts")
)
