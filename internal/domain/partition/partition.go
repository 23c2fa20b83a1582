// Package partition splits ordered work into near-equal per-worker slices.
package partition

// Span is a half-open [Start, End) index range.
type Span struct {
	Start int
	End   int
}

// Len returns the number of units covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contiguous splits n ordered units into workers contiguous spans whose
// sizes differ by at most one and whose concatenation, in worker-rank
// order, reproduces the original sequence exactly once. The first n%workers
// spans receive one extra unit.
func Contiguous(n, workers int) ([]Span, error) {
	if workers < 1 {
		return nil, ErrInvalidWorkerCount
	}
	if n < 0 {
		return nil, ErrNegativeCount
	}
	base, rem := n/workers, n%workers
	spans := make([]Span, workers)
	start := 0
	for i := range spans {
		size := base
		if i < rem {
			size++
		}
		spans[i] = Span{Start: start, End: start + size}
		start += size
	}
	return spans, nil
}

// RoundRobin distributes batch indices 0..batches-1 across workers
// rank-stride style: worker r receives batches r, r+workers, r+2*workers...
// Used when batches are independent units and load must spread evenly
// across a small number of large batches.
func RoundRobin(batches, workers int) ([][]int, error) {
	if workers < 1 {
		return nil, ErrInvalidWorkerCount
	}
	if batches < 0 {
		return nil, ErrNegativeCount
	}
	out := make([][]int, workers)
	for r := range out {
		for b := r; b < batches; b += workers {
			out[r] = append(out[r], b)
		}
	}
	return out, nil
}

// Batches covers 0..n with half-open ranges of at most size units.
func Batches(n, size int) ([]Span, error) {
	if size < 1 {
		return nil, ErrInvalidBatchSize
	}
	if n < 0 {
		return nil, ErrNegativeCount
	}
	var spans []Span
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}
		spans = append(spans, Span{Start: start, End: end})
	}
	return spans, nil
}
