package merge

import "errors"

// Sentinel kinds for merge errors.
var (
	ErrUnknownMode = errors.New("unknown merge mode")
)
