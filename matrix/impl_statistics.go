// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the row-wise statistical transforms used by correlation estimators
//     (row means, row centering, row standardization to zero mean and unit L2 norm).
//   - Keep the per-row arithmetic in small kernels (RowMean, StandardizeRowInto)
//     so callers that must interleave their own checkpoints between rows reuse the
//     exact same arithmetic as the whole-matrix transforms below.
//
// Exposed API:
//   - ReadRow(X, i, buf)        -> row i (no-copy when X offers it)
//   - RowMean(row)              -> Σ row / len(row)
//   - StandardizeRowInto(dst, row, mean)
//   - RowMeans(X)               -> means
//   - CenterRows(X)             -> (Xc, means)
//   - StandardizeRows(X, means) -> Z = CenterRows then per-row unit norm (unguarded: constant rows become NaN)
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - RowReader fast-paths avoid per-element At calls.
//
// AI-Hints:
//   - StandardizeRows intentionally does NOT guard zero-variance rows. Sanitize
//     upstream if NaN propagation is undesired.

package matrix

import "math"

// Operation name constants for unified error wrapping.
const (
	opReadRow         = "ReadRow"
	opRowMeans        = "RowMeans"
	opCenterRows      = "CenterRows"
	opStandardizeRows = "StandardizeRows"
)

// ReadRow returns row i of X.
// Implementation:
//   - Stage 1: RowReader fast-path (may return X's own storage; buf unused then).
//   - Stage 2: At fallback gathering into buf (len(buf) must be >= Cols()).
//
// The returned slice is read-only and valid until the next call that reuses buf
// or until the backing view is closed.
//
// Errors:
//   - ErrDimensionMismatch when the fallback needs buf and it is too short.
//   - Wrapped At/Row errors from the view.
//
// Complexity:
//   - O(1) fast-path, O(c) fallback.
func ReadRow(X Matrix, i int, buf []float64) ([]float64, error) {
	if rr, ok := X.(RowReader); ok {
		row, err := rr.Row(i, buf)
		if err != nil {
			return nil, matrixErrorf(opReadRow, err)
		}

		return row, nil
	}

	c := X.Cols()
	if len(buf) < c {
		return nil, matrixErrorf(opReadRow, ErrDimensionMismatch)
	}
	var (
		j   int
		v   float64
		err error
	)
	for j = 0; j < c; j++ {
		v, err = X.At(i, j)
		if err != nil {
			return nil, matrixErrorf(opReadRow, err)
		}
		buf[j] = v
	}

	return buf[:c], nil
}

// RowMean returns Σ row / len(row). An empty row yields NaN (0/0), unguarded.
// Complexity: O(len(row)).
func RowMean(row []float64) float64 {
	var s float64
	for _, v := range row {
		s += v
	}

	return s / float64(len(row))
}

// StandardizeRowInto writes (row - mean) / ||row - mean||₂ into dst.
//
// Implementation:
//   - Stage 1: de-mean into dst.
//   - Stage 2: accumulate the sum of squares of dst.
//   - Stage 3: divide every element by sqrt(ss).
//
// Behavior highlights:
//   - ss == 0 is NOT guarded: 0/0 yields NaN for every element of the row.
//
// Notes:
//   - dst and row may alias.
//   - len(dst) must be >= len(row); extra elements are left untouched.
//
// Complexity: O(len(row)).
func StandardizeRowInto(dst, row []float64, mean float64) {
	n := len(row)
	dst = dst[:n]
	var ss float64
	for j := 0; j < n; j++ {
		dst[j] = row[j] - mean // de-mean
	}
	for j := 0; j < n; j++ {
		ss += dst[j] * dst[j] // sum of squares
	}
	norm := math.Sqrt(ss)
	for j := 0; j < n; j++ {
		dst[j] /= norm
	}
}

// RowMeans returns the per-row means of X (len == Rows()).
//
// Errors:
//   - ErrNilMatrix, ErrEmpty from validation.
//   - Wrapped element read errors.
//
// Complexity:
//   - Time O(r*c), Space O(r) (+ O(c) scratch for non-RowReader views).
func RowMeans(X Matrix) ([]float64, error) {
	if err := ValidateNonEmpty(X); err != nil {
		return nil, matrixErrorf(opRowMeans, err)
	}
	r, c := X.Rows(), X.Cols()
	means := make([]float64, r)
	buf := make([]float64, c)
	for i := 0; i < r; i++ {
		row, err := ReadRow(X, i, buf)
		if err != nil {
			return nil, matrixErrorf(opRowMeans, err)
		}
		means[i] = RowMean(row)
	}

	return means, nil
}

// CenterRows subtracts the per-row mean from every element (row-wise centering).
// Implementation:
//   - Stage 1: compute row means.
//   - Stage 2: apply ewBroadcastSubRows to produce a centered copy.
//
// Returns:
//   - *Dense: centered copy (r×c).
//   - []float64: row means (len=r).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func CenterRows(X Matrix) (*Dense, []float64, error) {
	means, err := RowMeans(X)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterRows, err)
	}
	Xc, err := ewBroadcastSubRows(X, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterRows, err)
	}

	return Xc, means, nil
}

// StandardizeRows returns Z with Z[i,·] = (X[i,·] − means[i]) / ||X[i,·] − means[i]||₂.
// Pass nil means to have them computed.
//
// Behavior highlights:
//   - Each well-conditioned row of Z has mean 0 and L2 norm 1, so ⟨Z_i, Z_j⟩ is the
//     Pearson correlation of rows i and j.
//   - Constant rows are not guarded and become all-NaN.
//
// Errors:
//   - ErrNilMatrix, ErrEmpty, ErrDimensionMismatch (len(means) != Rows()).
//   - Wrapped element read errors.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func StandardizeRows(X Matrix, means []float64) (*Dense, error) {
	if err := ValidateNonEmpty(X); err != nil {
		return nil, matrixErrorf(opStandardizeRows, err)
	}

	// Stage 1: de-mean (means computed by CenterRows when not supplied).
	var (
		Z   *Dense
		err error
	)
	if means == nil {
		Z, _, err = CenterRows(X)
	} else {
		Z, err = ewBroadcastSubRows(X, means)
	}
	if err != nil {
		return nil, matrixErrorf(opStandardizeRows, err)
	}

	// Stage 2: unit L2 norm in place (rows are already centered).
	for i := 0; i < Z.r; i++ {
		row := Z.RawRow(i)
		StandardizeRowInto(row, row, 0)
	}

	return Z, nil
}
