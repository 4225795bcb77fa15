// Package assignment - Solvers for the rectangular linear assignment problem.
package assignment

import (
	"math"
	"sort"

	"github.com/pkg/errors"
)

var (
	// ErrSolverFailure is returned when a solver cannot produce a valid one-to-one
	// assignment. For a well-formed finite cost matrix this indicates a bug.
	ErrSolverFailure = errors.New("assignment solver failure")
	// ErrInfeasible is returned when forbidden (+Inf) entries leave no complete
	// assignment.
	ErrInfeasible = errors.Wrap(ErrSolverFailure, "cost matrix is infeasible")
	// ErrInvalidCost is returned for NaN or -Inf cost entries.
	ErrInvalidCost = errors.Wrap(ErrSolverFailure, "invalid cost entry")
)

// Costs is a read-only dense cost matrix. *mat.Dense and *images.Matrix both
// satisfy it.
type Costs interface {
	Dims() (r, c int)
	At(i, j int) float64
}

// Solver pairs rows with columns of a cost matrix.
//
// Solve returns K = min(rows, cols) pairs as parallel slices with rows ascending.
// Every row and every column appears at most once. An empty matrix yields empty,
// non-nil slices.
type Solver interface {
	Solve(costs Costs) (rows, cols []int, err error)
	Name() string
}

// Solver names accepted by ByName.
const (
	NameJonkerVolgenant = "jv"
	NameHungarian       = "hungarian"
	NameGreedy          = "greedy"
)

// Default returns the solver used when none is configured.
func Default() Solver { return JonkerVolgenant{} }

// ByName resolves a solver from its configuration name.
func ByName(name string) (Solver, error) {
	switch name {
	case NameJonkerVolgenant, "":
		return JonkerVolgenant{}, nil
	case NameHungarian:
		return Hungarian{}, nil
	case NameGreedy:
		return Greedy{}, nil
	default:
		return nil, errors.Errorf("unsupported solver name: %s", name)
	}
}

// Check verifies that rows/cols form a valid assignment for an r x c matrix:
// K = min(r, c) pairs, indices in range, rows strictly ascending and columns
// unique. Any violation is reported as ErrSolverFailure.
func Check(rows, cols []int, r, c int) error {
	k := min(r, c)
	if len(rows) != k || len(cols) != k {
		return errors.Wrapf(ErrSolverFailure, "expected %d pairs, got %d rows and %d cols", k, len(rows), len(cols))
	}
	seen := make([]bool, c)
	for n := range rows {
		i, j := rows[n], cols[n]
		if i < 0 || i >= r || j < 0 || j >= c {
			return errors.Wrapf(ErrSolverFailure, "pair (%d, %d) out of range for %dx%d", i, j, r, c)
		}
		if n > 0 && rows[n-1] >= i {
			return errors.Wrapf(ErrSolverFailure, "rows not strictly ascending at position %d", n)
		}
		if seen[j] {
			return errors.Wrapf(ErrSolverFailure, "column %d assigned twice", j)
		}
		seen[j] = true
	}
	return nil
}

// TotalCost sums the cost of an assignment.
func TotalCost(costs Costs, rows, cols []int) float64 {
	var total float64
	for n := range rows {
		total += costs.At(rows[n], cols[n])
	}
	return total
}

func validEntry(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, -1)
}

// sortByRow orders parallel row/col slices by row.
func sortByRow(rows, cols []int) {
	sort.Sort(byRow{rows, cols})
}

type byRow struct{ rows, cols []int }

func (b byRow) Len() int           { return len(b.rows) }
func (b byRow) Less(i, j int) bool { return b.rows[i] < b.rows[j] }
func (b byRow) Swap(i, j int) {
	b.rows[i], b.rows[j] = b.rows[j], b.rows[i]
	b.cols[i], b.cols[j] = b.cols[j], b.cols[i]
}
