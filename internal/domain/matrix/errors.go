package matrix

import "errors"

// Sentinel kinds for matrix assembly errors.
var (
	ErrBlockShape      = errors.New("block shape mismatch")
	ErrOverlappingRows = errors.New("overlapping row ranges")
	ErrNotSquare       = errors.New("matrix is not square")
)
