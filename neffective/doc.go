// Package neffective estimates the effective sample size of a set of
// correlated observations.
//
// What is Neffective?
//
//	Rows of an N×P matrix X are observations. When observations share
//	structure, N overstates the amount of independent evidence. Neffective
//	discounts N by the mean absolute pairwise Pearson correlation of the rows:
//
//	  Z_i   = (X_i − mean(X_i)) / ||X_i − mean(X_i)||₂
//	  r     = Σ_{i>j} |⟨Z_i, Z_j⟩|
//	  m     = 2r / N²
//	  Neff  = N·(1 − m) + 1
//
//	m deliberately uses N² rather than N(N−1) in the denominator, and no
//	clamping is applied to the result.
//
// Phases:
//
//  1. Row means.
//  2. Row standardization into a freshly allocated row-major working matrix.
//  3. Lower-triangle accumulation of absolute inner products (O(N²·P), dominant cost).
//
// Every phase polls ctx and emits a progress tick at the same cadence
// (every DefaultCheckEvery rows by default). A done context aborts the whole
// call with ErrCancelled; no partial result is returned.
//
// Degenerate input (a constant row, N == 1) is not special-cased: NaN/Inf
// propagate into the result.
//
// Usage:
//
//	X, _ := matrix.NewDenseFromRows([][]float64{{1, 2, 3}, {2, 4, 6}, {5, 1, 9}})
//	neff, err := neffective.Estimate(ctx, X,
//	    neffective.WithProgress(neffective.NewStarProgress(os.Stdout)))
//
// The input may be any matrix.Matrix, including a memory-mapped
// bigmatrix.Matrix for data larger than RAM. The input is never mutated.
//
// Complexity:
//
//   - Time:   O(N²·P)
//   - Memory: O(N·P) for the working matrix + O(N) for the means.
package neffective
