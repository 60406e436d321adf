// Package neffective is the root of a small toolkit for estimating the
// effective number of independent observations in a correlated data matrix.
//
// Neffective is used to correct multiple-testing thresholds: when N tests are
// driven by correlated rows, Bonferroni over N is too strict, and
// Bonferroni over Neffective is the usual compromise.
//
// Under the hood, everything is organized under three subpackages:
//
//	matrix/     Matrix/RowReader interfaces, row-major Dense, row statistics and dot kernels
//	neffective/ the three-phase estimator: Estimate, Compute, progress sinks, options
//	bigmatrix/  memory-mapped .bm files (and raw bigmemory payloads) for out-of-core rows
//
// plus the neff command (cmd/neff) that runs the estimator on a .bm, raw or
// CSV file and stops cleanly on SIGINT/SIGTERM.
//
// Quick start:
//
//	X, _ := matrix.NewDenseFromRows([][]float64{{1, 2, 3}, {1, 3, 2}, {3, 2, 1}})
//	n, err := neffective.Estimate(ctx, X) // 2.666…
//
// Out of core:
//
//	m, err := bigmatrix.Open("markers.bm")
//	defer m.Close()
//	res, err := neffective.Compute(ctx, m, neffective.WithProgress(neffective.NewStarProgress(os.Stderr)))
package neffective
