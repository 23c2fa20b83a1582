package assign

import "errors"

// Sentinel kinds for assignment errors.
var (
	ErrRowsExceedColumns = errors.New("cost matrix has more rows than columns")
	ErrRaggedMatrix      = errors.New("cost matrix rows have unequal lengths")
	ErrNoRecords         = errors.New("no merged records to assign")
)
