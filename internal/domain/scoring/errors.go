package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	// ErrUndefined marks a pair whose score cannot be computed because a
	// feature payload failed to resolve. Callers leave the cell undefined.
	ErrUndefined = errors.New("score undefined")

	// ErrAlignerFailed marks a failed external aligner invocation. The
	// failure is terminal for the single work unit only.
	ErrAlignerFailed = errors.New("aligner invocation failed")
)
