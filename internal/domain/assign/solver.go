// Package assign builds cost matrices from merged records and interprets
// the assignment solver's output.
package assign

// Solver computes a minimum-total-cost one-to-one assignment over a dense
// n x m cost matrix. Callers must supply n <= m; the adapter transposes
// rectangular matrices to satisfy this. The returned index slices have
// length n: rows[i] is matched to cols[i].
type Solver interface {
	Solve(cost [][]float64) (rows, cols []int, err error)
}
