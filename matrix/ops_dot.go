// SPDX-License-Identifier: MIT

package matrix

const opRowDot = "RowDot"

// Dot returns Σ_k a[k]*b[k] over the common prefix of a and b.
// The body is 4-way unrolled into independent partial sums; the tail is added last.
// For unit-norm, de-meaned rows the result is their Pearson correlation.
//
// Complexity: O(min(len(a), len(b))).
func Dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	a, b = a[:n], b[:n]

	var s0, s1, s2, s3 float64
	k := 0
	for ; k+4 <= n; k += 4 {
		s0 += a[k] * b[k]
		s1 += a[k+1] * b[k+1]
		s2 += a[k+2] * b[k+2]
		s3 += a[k+3] * b[k+3]
	}
	for ; k < n; k++ {
		s0 += a[k] * b[k]
	}

	return (s0 + s1) + (s2 + s3)
}

// RowDot returns ⟨Z_i, Z_j⟩ for two rows of Z. On a standardized matrix this is
// the Pearson correlation of rows i and j.
//
// Errors:
//   - ErrNilMatrix for a nil Z.
//   - ErrOutOfRange when i or j is outside [0, Rows()).
//
// Complexity: O(Cols()).
func RowDot(Z *Dense, i, j int) (float64, error) {
	if Z == nil {
		return 0, matrixErrorf(opRowDot, ErrNilMatrix)
	}
	if i < 0 || i >= Z.r || j < 0 || j >= Z.r {
		return 0, denseErrorf(opRowDot, i, j, ErrOutOfRange)
	}

	return Dot(Z.RawRow(i), Z.RawRow(j)), nil
}
