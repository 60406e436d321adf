// SPDX-License-Identifier: MIT

// Package matrix: capability interfaces consumed by the estimators.
// Errors live in errors.go, dense storage in impl_dense.go.
package matrix

// Matrix is a read-only, two-dimensional view of float64 values.
// Implementations may be backed by an in-memory buffer (Dense), a memory-mapped
// file (bigmatrix.Matrix) or anything else that can answer element reads.
//
// Complexity notes: all methods are expected O(1).
type Matrix interface {
	// Rows returns the number of rows (observations).
	Rows() int

	// Cols returns the number of columns (variables).
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)
}

// RowReader is an optional fast-path for views that can slice a whole row.
//
// Row returns row i. Implementations with contiguous row-major backing may return
// a sub-slice of their own storage (dst is then ignored); otherwise values are
// gathered into dst, which must have length >= Cols(). Callers must treat the
// returned slice as read-only and must not retain it across calls.
type RowReader interface {
	Row(i int, dst []float64) ([]float64, error)
}

// Mutable is a Matrix whose cells can be written.
type Mutable interface {
	Matrix

	// Set assigns v at (i, j). Returns ErrOutOfRange on invalid indices.
	Set(i, j int, v float64) error
}
