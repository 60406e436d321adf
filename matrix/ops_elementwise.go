// SPDX-License-Identifier: MIT
// Package matrix: element-wise micro-kernels shared by the statistical transforms.
//
// Determinism:
//   - Fixed i→j loops; RowReader fast-path and At fallback produce identical values.

package matrix

const opBroadcastSubRows = "broadcastSubRows"

// ewBroadcastSubRows computes out[i,j] = X[i,j] - rowMeans[i].
// Time: O(r*c). Space: O(r*c).
func ewBroadcastSubRows(X Matrix, rowMeans []float64) (*Dense, error) {
	// Validate matrix presence.
	if err := ValidateNotNil(X); err != nil {
		return nil, matrixErrorf(opBroadcastSubRows, err)
	}
	// Read shape once.
	r, c := X.Rows(), X.Cols()
	// Check broadcast vector length.
	if err := ValidateVecLen(rowMeans, r); err != nil {
		return nil, matrixErrorf(opBroadcastSubRows, err)
	}
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf(opBroadcastSubRows, err)
	}

	buf := make([]float64, c)
	for i := 0; i < r; i++ {
		row, e := ReadRow(X, i, buf)
		if e != nil {
			return nil, matrixErrorf(opBroadcastSubRows, e)
		}
		dst := out.RawRow(i)
		rm := rowMeans[i] // read once per row
		for j := 0; j < c; j++ {
			dst[j] = row[j] - rm
		}
	}

	return out, nil
}
