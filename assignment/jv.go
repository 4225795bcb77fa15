package assignment

import (
	"math"

	"github.com/pkg/errors"
)

// JonkerVolgenant solves the rectangular assignment problem with a shortest
// augmenting path method in the Jonker-Volgenant family (Crouse, 2016).
//
// The result is a global optimum. It runs in O(k^2 * n) for a k x n matrix with
// k <= n, transposing taller matrices first. Tie-breaking only depends on the
// input, so identical matrices always produce identical assignments.
//
// +Inf entries mark forbidden pairs; NaN and -Inf entries are rejected.
type JonkerVolgenant struct{}

// Name implements Solver.
func (JonkerVolgenant) Name() string { return NameJonkerVolgenant }

// Solve implements Solver.
func (JonkerVolgenant) Solve(costs Costs) ([]int, []int, error) {
	r, c := costs.Dims()
	if r == 0 || c == 0 {
		return []int{}, []int{}, nil
	}

	s, err := newLSAP(costs, r, c)
	if err != nil {
		return nil, nil, err
	}
	if err := s.run(); err != nil {
		return nil, nil, err
	}

	rows := make([]int, s.nr)
	cols := make([]int, s.nr)
	for i, j := range s.col4row {
		if s.transposed {
			rows[i], cols[i] = j, i
		} else {
			rows[i], cols[i] = i, j
		}
	}
	if s.transposed {
		sortByRow(rows, cols)
	}
	return rows, cols, nil
}

// lsap holds the working state of one solve. The matrix is stored row-major with
// nr <= nc.
type lsap struct {
	nr, nc     int
	transposed bool
	cost       []float64

	u, v      []float64
	shortest  []float64
	path      []int
	col4row   []int
	row4col   []int
	sr, sc    []bool
	remaining []int
}

func newLSAP(costs Costs, r, c int) (*lsap, error) {
	s := &lsap{nr: r, nc: c}
	if r > c {
		s.nr, s.nc, s.transposed = c, r, true
	}

	s.cost = make([]float64, s.nr*s.nc)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := costs.At(i, j)
			if !validEntry(v) {
				return nil, errors.Wrapf(ErrInvalidCost, "entry (%d, %d) is %v", i, j, v)
			}
			if s.transposed {
				s.cost[j*s.nc+i] = v
			} else {
				s.cost[i*s.nc+j] = v
			}
		}
	}

	s.u = make([]float64, s.nr)
	s.v = make([]float64, s.nc)
	s.shortest = make([]float64, s.nc)
	s.path = fill(make([]int, s.nc), -1)
	s.col4row = fill(make([]int, s.nr), -1)
	s.row4col = fill(make([]int, s.nc), -1)
	s.sr = make([]bool, s.nr)
	s.sc = make([]bool, s.nc)
	s.remaining = make([]int, s.nc)
	return s, nil
}

func (s *lsap) run() error {
	for cur := 0; cur < s.nr; cur++ {
		sink, minVal := s.augment(cur)
		if sink < 0 {
			return errors.Wrapf(ErrInfeasible, "no augmenting path for row %d", cur)
		}

		// Update dual variables.
		s.u[cur] += minVal
		for i := 0; i < s.nr; i++ {
			if s.sr[i] && i != cur {
				s.u[i] += minVal - s.shortest[s.col4row[i]]
			}
		}
		for j := 0; j < s.nc; j++ {
			if s.sc[j] {
				s.v[j] -= minVal - s.shortest[j]
			}
		}

		// Flip the alternating path back to cur.
		j := sink
		for {
			i := s.path[j]
			s.row4col[j] = i
			s.col4row[i], j = j, s.col4row[i]
			if i == cur {
				break
			}
		}
	}
	return nil
}

// augment finds the shortest augmenting path from row cur to a free column and
// returns that column with the path length. sink is -1 when only forbidden
// entries remain.
func (s *lsap) augment(cur int) (sink int, minVal float64) {
	numRemaining := s.nc
	for it := range s.remaining {
		// Reverse order matches the classical tie-break on free columns.
		s.remaining[it] = s.nc - it - 1
	}
	clear(s.sr)
	clear(s.sc)
	for j := range s.shortest {
		s.shortest[j] = math.Inf(1)
	}

	sink = -1
	i := cur
	for sink == -1 {
		index := -1
		lowest := math.Inf(1)
		s.sr[i] = true

		for it := 0; it < numRemaining; it++ {
			j := s.remaining[it]
			reduced := minVal + s.cost[i*s.nc+j] - s.u[i] - s.v[j]
			if reduced < s.shortest[j] {
				s.path[j] = i
				s.shortest[j] = reduced
			}
			if s.shortest[j] < lowest || (s.shortest[j] == lowest && s.row4col[j] == -1) {
				lowest = s.shortest[j]
				index = it
			}
		}

		minVal = lowest
		if math.IsInf(minVal, 1) {
			return -1, minVal
		}

		j := s.remaining[index]
		if s.row4col[j] == -1 {
			sink = j
		} else {
			i = s.row4col[j]
		}
		s.sc[j] = true
		numRemaining--
		s.remaining[index] = s.remaining[numRemaining]
	}
	return sink, minVal
}

func fill(s []int, v int) []int {
	for i := range s {
		s[i] = v
	}
	return s
}
