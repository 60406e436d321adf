package neffective

import (
	"context"
	"math"
	"time"

	"github.com/katalvlaran/neffective/matrix"
)

const opCompute = "Compute"

// Result carries Neffective together with the intermediate aggregates.
type Result struct {
	N int `json:"n"` // rows (observations)
	P int `json:"p"` // columns (variables)

	// SumAbsCor is r = Σ_{i>j} |corr(row_i, row_j)|, N(N−1)/2 terms.
	SumAbsCor float64 `json:"sum_abs_cor"`

	// MeanAbsPairwiseCor is 2r / N².
	MeanAbsPairwiseCor float64 `json:"mean_abs_pairwise_cor"`

	// Neffective is N·(1 − MeanAbsPairwiseCor) + 1, unclamped.
	Neffective float64 `json:"neffective"`
}

// Estimate returns the effective sample size of the rows of X.
// See Compute for the full contract.
func Estimate(ctx context.Context, X matrix.Matrix, opts ...Option) (float64, error) {
	res, err := Compute(ctx, X, opts...)
	if err != nil {
		return 0, err
	}

	return res.Neffective, nil
}

// Compute runs the three phases over X and returns the full Result.
//
// Implementation:
//   - Stage 1: validate X (non-nil, at least 1×1).
//   - Stage 2: row means.
//   - Stage 3: standardized working matrix Z (owned by this call).
//   - Stage 4: lower-triangle sum of |⟨Z_i, Z_j⟩|.
//   - Stage 5: aggregate into Neffective.
//
// Errors:
//   - ErrNilMatrix, ErrEmptyMatrix before any work is done.
//   - ErrCancelled (also wrapping ctx.Err()) when ctx is done at a checkpoint.
//   - Wrapped element read errors from X.
//
// Determinism:
//   - Fixed loop order; the same X always yields the bit-identical Result.
func Compute(ctx context.Context, X matrix.Matrix, opts ...Option) (Result, error) {
	if err := matrix.ValidateNonEmpty(X); err != nil {
		return Result{}, neffErrorf(opCompute, err)
	}
	e := &estimator{opts: gatherOptions(opts...)}
	res, err := e.run(ctx, X)
	if err != nil {
		return Result{}, neffErrorf(opCompute, err)
	}

	return res, nil
}

// estimator holds the per-call configuration. It is never shared between calls.
type estimator struct {
	opts Options
}

func (e *estimator) run(ctx context.Context, X matrix.Matrix) (Result, error) {
	n, p := X.Rows(), X.Cols()
	e.opts.progress.Start(n, p)
	start := time.Now()

	means, err := e.rowMeans(ctx, X)
	if err != nil {
		return Result{}, err
	}
	Z, err := e.standardize(ctx, X, means)
	if err != nil {
		return Result{}, err
	}
	r, err := e.accumulate(ctx, Z)
	if err != nil {
		return Result{}, err
	}

	res := aggregate(n, r)
	res.P = p
	e.opts.logger.Debug("Neffective computed",
		"rows", n, "cols", p, "neffective", res.Neffective, "duration", time.Since(start))

	return res, nil
}

// checkpoint polls ctx and emits a progress tick when i falls on the cadence.
func (e *estimator) checkpoint(ctx context.Context, phase Phase, i, total int) error {
	if i%e.opts.checkEvery != 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return cancelled(phase, i, err)
	}
	e.opts.progress.Tick(phase, i, total)

	return nil
}

// finish closes a phase: progress newline and a debug timing record.
func (e *estimator) finish(phase Phase, rows int, start time.Time) {
	e.opts.progress.PhaseDone(phase)
	e.opts.logger.Debug("Phase completed", "phase", phase.String(), "rows", rows, "duration", time.Since(start))
}

// rowMeans computes mean[i] = Σ_j X[i,j] / P.
func (e *estimator) rowMeans(ctx context.Context, X matrix.Matrix) ([]float64, error) {
	start := time.Now()
	n := X.Rows()
	means := make([]float64, n)
	buf := make([]float64, X.Cols())
	for i := 0; i < n; i++ {
		row, err := matrix.ReadRow(X, i, buf)
		if err != nil {
			return nil, neffErrorf(PhaseMeans.String(), err)
		}
		means[i] = matrix.RowMean(row)
		if err = e.checkpoint(ctx, PhaseMeans, i, n); err != nil {
			return nil, err
		}
	}
	e.finish(PhaseMeans, n, start)

	return means, nil
}

// standardize builds Z with unit-norm, de-meaned rows. Constant rows become NaN.
func (e *estimator) standardize(ctx context.Context, X matrix.Matrix, means []float64) (*matrix.Dense, error) {
	start := time.Now()
	n, p := X.Rows(), X.Cols()
	Z, err := matrix.NewDense(n, p)
	if err != nil {
		return nil, neffErrorf(PhaseStandardize.String(), err)
	}
	buf := make([]float64, p)
	for i := 0; i < n; i++ {
		row, err := matrix.ReadRow(X, i, buf)
		if err != nil {
			return nil, neffErrorf(PhaseStandardize.String(), err)
		}
		matrix.StandardizeRowInto(Z.RawRow(i), row, means[i])
		if err = e.checkpoint(ctx, PhaseStandardize, i, n); err != nil {
			return nil, err
		}
	}
	e.finish(PhaseStandardize, n, start)

	return Z, nil
}

// accumulate returns Σ_i Σ_{j<i} |⟨Z_i, Z_j⟩|. Each unordered pair is visited once;
// the diagonal is never included.
func (e *estimator) accumulate(ctx context.Context, Z *matrix.Dense) (float64, error) {
	start := time.Now()
	n := Z.Rows()
	var r float64
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			c, err := matrix.RowDot(Z, i, j)
			if err != nil {
				return 0, neffErrorf(PhaseAccumulate.String(), err)
			}
			r += math.Abs(c)
		}
		if err := e.checkpoint(ctx, PhaseAccumulate, i, n); err != nil {
			return 0, err
		}
	}
	e.finish(PhaseAccumulate, n, start)

	return r, nil
}

// aggregate converts the lower-triangle sum into Neffective.
// The 2r/N² convention is kept as is; it is not 2r/(N(N−1)).
func aggregate(n int, r float64) Result {
	nf := float64(n)
	mean := 2 * r / (nf * nf)

	return Result{
		N:                  n,
		SumAbsCor:          r,
		MeanAbsPairwiseCor: mean,
		Neffective:         nf*(1-mean) + 1,
	}
}
