package assign

import "math"

// Hungarian is the default Solver: the Kuhn-Munkres algorithm in its
// shortest-augmenting-path form, O(n^2 m) for an n x m matrix with n <= m.
type Hungarian struct{}

// NewHungarian creates the default assignment solver.
func NewHungarian() *Hungarian {
	return &Hungarian{}
}

// Solve returns the minimum-cost matching of every row to a distinct
// column. Uses 1-based potential arrays internally; match[j] holds the
// row currently assigned to column j.
func (h *Hungarian) Solve(cost [][]float64) ([]int, []int, error) {
	n := len(cost)
	if n == 0 {
		return nil, nil, nil
	}
	m := len(cost[0])
	if n > m {
		return nil, nil, ErrRowsExceedColumns
	}
	for _, row := range cost {
		if len(row) != m {
			return nil, nil, ErrRaggedMatrix
		}
	}

	u := make([]float64, n+1)
	v := make([]float64, m+1)
	match := make([]int, m+1) // column -> assigned row, 0 = free
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		match[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}

		// Grow the alternating tree until a free column is reached.
		for {
			used[j0] = true
			i0 := match[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if match[j0] == 0 {
				break
			}
		}

		// Augment along the found path.
		for j0 != 0 {
			j1 := way[j0]
			match[j0] = match[j1]
			j0 = j1
		}
	}

	rowToCol := make([]int, n)
	for j := 1; j <= m; j++ {
		if match[j] > 0 {
			rowToCol[match[j]-1] = j - 1
		}
	}
	rows := make([]int, n)
	cols := make([]int, n)
	for i := 0; i < n; i++ {
		rows[i] = i
		cols[i] = rowToCol[i]
	}
	return rows, cols, nil
}
