package assignment

import (
	"github.com/pkg/errors"
)

// Greedy assigns each row, in order, its cheapest still-free column. Ties go to
// the lowest column index.
//
// It is not optimal: an early row can take the column a later row needed far
// more. It exists as a baseline for comparing against the optimal solvers.
type Greedy struct{}

// Name implements Solver.
func (Greedy) Name() string { return NameGreedy }

// Solve implements Solver.
func (Greedy) Solve(costs Costs) ([]int, []int, error) {
	r, c := costs.Dims()
	if r == 0 || c == 0 {
		return []int{}, []int{}, nil
	}

	k := min(r, c)
	rows := make([]int, 0, k)
	cols := make([]int, 0, k)
	used := make([]bool, c)

	for i := 0; i < r && len(rows) < k; i++ {
		best := -1
		var bestCost float64
		for j := 0; j < c; j++ {
			v := costs.At(i, j)
			if !validEntry(v) {
				return nil, nil, errors.Wrapf(ErrInvalidCost, "entry (%d, %d) is %v", i, j, v)
			}
			if used[j] {
				continue
			}
			if best == -1 || v < bestCost {
				best, bestCost = j, v
			}
		}
		used[best] = true
		rows = append(rows, i)
		cols = append(cols, best)
	}
	return rows, cols, nil
}
