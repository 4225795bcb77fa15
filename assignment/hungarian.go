package assignment

import (
	"math"

	hungarian "github.com/arthurkushman/go-hungarian"
	"github.com/pkg/errors"
)

// Hungarian solves the assignment problem with SolveMax from
// github.com/arthurkushman/go-hungarian.
//
// SolveMax is a row/column reduction heuristic rather than a full Kuhn-Munkres:
// the assignment it returns is valid but not always of minimal total cost, and on
// ties the chosen pairs follow the library's map iteration order. Like Greedy it
// is a comparison baseline; use JonkerVolgenant when the optimum matters.
//
// The library maximises over square matrices, so costs are turned into profits
// (maxCost - cost) and padded with zero-profit dummy rows or columns. Dummy pairs
// are dropped from the result. All entries must be finite. Profits are rounded
// onto an integer grid of profitResolution steps across the cost range, since the
// library compares slacks with exact equality.
type Hungarian struct{}

const profitResolution = 1e9

// Name implements Solver.
func (Hungarian) Name() string { return NameHungarian }

// Solve implements Solver.
func (Hungarian) Solve(costs Costs) ([]int, []int, error) {
	r, c := costs.Dims()
	if r == 0 || c == 0 {
		return []int{}, []int{}, nil
	}

	minCost, maxCost := math.Inf(1), math.Inf(-1)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := costs.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, errors.Wrapf(ErrInvalidCost, "entry (%d, %d) is %v", i, j, v)
			}
			minCost = min(minCost, v)
			maxCost = max(maxCost, v)
		}
	}
	scale := 1.0
	if span := maxCost - minCost; span > 0 {
		scale = profitResolution / span
	}

	n := max(r, c)
	profit := make([][]float64, n)
	for i := range profit {
		profit[i] = make([]float64, n)
		if i >= r {
			continue
		}
		for j := 0; j < c; j++ {
			profit[i][j] = math.Round((maxCost - costs.At(i, j)) * scale)
		}
	}

	assigned := hungarian.SolveMax(profit)

	k := min(r, c)
	rows := make([]int, 0, k)
	cols := make([]int, 0, k)
	for i := 0; i < r; i++ {
		for j := range assigned[i] {
			if j < c {
				rows = append(rows, i)
				cols = append(cols, j)
			}
		}
	}

	if err := Check(rows, cols, r, c); err != nil {
		return nil, nil, err
	}
	return rows, cols, nil
}
