// Package matrix provides the read-only matrix capability used by the
// estimators together with a row-major Dense working store and the row-wise
// statistical kernels built on it.
//
// The matrix package provides:
//
//   - Matrix, a minimal Rows/Cols/At view that any backing can satisfy
//     (in-memory, memory-mapped, columnar).
//   - RowReader, an optional row-slicing fast-path.
//   - Dense, a contiguous row-major buffer with bounds-checked accessors.
//   - RowMeans, CenterRows and StandardizeRows, plus the per-row kernels
//     RowMean, StandardizeRowInto and Dot they are built from.
//
// All kernels return sentinel errors (see errors.go) and never panic on user
// input. Zero-variance rows are deliberately not guarded: they standardize to NaN.
package matrix
