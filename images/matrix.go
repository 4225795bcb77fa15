package images

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense rows x cols matrix of pairwise box scores.
//
// gonum cannot represent a matrix with a zero dimension, so an empty Matrix keeps
// only its shape and Dense returns nil.
type Matrix struct {
	rows, cols int
	dense      *mat.Dense
}

// NewMatrix wraps a gonum matrix. A nil dense yields a 0x0 matrix.
func NewMatrix(dense *mat.Dense) *Matrix {
	if dense == nil {
		return &Matrix{}
	}
	r, c := dense.Dims()
	return &Matrix{rows: r, cols: c, dense: dense}
}

// Dims returns the matrix shape.
func (m *Matrix) Dims() (r, c int) { return m.rows, m.cols }

// At returns the value at (i, j). It panics when out of range, like mat.Dense.
func (m *Matrix) At(i, j int) float64 {
	if m.dense == nil {
		panic(mat.ErrIndexOutOfRange)
	}
	return m.dense.At(i, j)
}

// Empty reports whether either dimension is zero.
func (m *Matrix) Empty() bool { return m.rows == 0 || m.cols == 0 }

// Dense exposes the backing gonum matrix, nil when Empty.
func (m *Matrix) Dense() *mat.Dense { return m.dense }

// Complement returns a new matrix holding 1 - v for every entry. Applied to an IoU
// matrix it gives the assignment cost matrix.
func (m *Matrix) Complement() *Matrix {
	out := &Matrix{rows: m.rows, cols: m.cols}
	if m.dense == nil {
		return out
	}
	out.dense = mat.NewDense(m.rows, m.cols, nil)
	out.dense.Apply(func(_, _ int, v float64) float64 { return 1 - v }, m.dense)
	return out
}

// PairwiseIoU computes the IoU of every box in a against every box in b.
//
// Every box is validated before any overlap is computed; the first invalid box
// aborts the call with ErrInvalidBox naming its set and index.
//
// Arguments:
//   - a: N boxes (rows).
//   - b: M boxes (columns).
//
// Returns:
//   - *Matrix: N x M IoU values in [0, 1]. Empty, without error, when N or M is 0.
//   - error: ErrInvalidBox if a box violates the box invariant.
func PairwiseIoU(a, b []Box) (*Matrix, error) {
	for i, box := range a {
		if err := box.Validate(); err != nil {
			return nil, errors.Wrapf(err, "first set, box %d", i)
		}
	}
	for j, box := range b {
		if err := box.Validate(); err != nil {
			return nil, errors.Wrapf(err, "second set, box %d", j)
		}
	}

	m := &Matrix{rows: len(a), cols: len(b)}
	if m.Empty() {
		return m, nil
	}

	areasA := Areas(a)
	areasB := Areas(b)
	data := make([]float64, len(a)*len(b))
	for i := range a {
		row := data[i*len(b) : (i+1)*len(b)]
		for j := range b {
			row[j] = iou(a[i], b[j], areasA[i], areasB[j])
		}
	}
	m.dense = mat.NewDense(len(a), len(b), data)
	return m, nil
}
