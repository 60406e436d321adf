package neffective

import (
	"fmt"
	"io"
)

// Phase identifies one of the three sequential passes over the rows.
type Phase int

const (
	// PhaseMeans computes the per-row means.
	PhaseMeans Phase = iota
	// PhaseStandardize de-means and unit-normalizes every row.
	PhaseStandardize
	// PhaseAccumulate sums absolute pairwise correlations over the lower triangle.
	PhaseAccumulate
)

// String returns a short, log-friendly phase name.
func (p Phase) String() string {
	switch p {
	case PhaseMeans:
		return "means"
	case PhaseStandardize:
		return "standardize"
	case PhaseAccumulate:
		return "accumulate"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Banner is announced through Progress.Start before any work is done.
const Banner = "Accumulating absolute pairwise correlations within X to correct p-values " +
	"(recommended, especially for observational data)."

// Progress receives notifications from a running estimation.
// All methods are called synchronously from the computing goroutine.
type Progress interface {
	// Start is called once with the matrix shape before the first phase.
	Start(rows, cols int)
	// Tick is called at every checkpoint; i is the row (or outer-loop) index.
	Tick(phase Phase, i, total int)
	// PhaseDone is called after a phase completes.
	PhaseDone(phase Phase)
}

// NopProgress discards all notifications.
type NopProgress struct{}

func (NopProgress) Start(int, int) {}
func (NopProgress) Tick(Phase, int, int) {}
func (NopProgress) PhaseDone(Phase) {}

// ProgressFunc adapts a plain function to Progress; only ticks are forwarded.
type ProgressFunc func(phase Phase, i, total int)

func (f ProgressFunc) Start(int, int) {}

func (f ProgressFunc) Tick(phase Phase, i, total int) { f(phase, i, total) }

func (f ProgressFunc) PhaseDone(Phase) {}

// StarProgress is a console sink: it prints Banner followed by a blank line,
// one '*' per checkpoint and a newline at the end of every phase.
// Write errors are remembered (first one wins) and never interrupt the computation.
type StarProgress struct {
	w   io.Writer
	err error
}

// NewStarProgress returns a StarProgress writing to w.
func NewStarProgress(w io.Writer) *StarProgress {
	return &StarProgress{w: w}
}

func (s *StarProgress) Start(int, int) { s.write(Banner + "\n\n") }

func (s *StarProgress) Tick(Phase, int, int) { s.write("*") }

func (s *StarProgress) PhaseDone(Phase) { s.write("\n") }

// Err returns the first write error, if any.
func (s *StarProgress) Err() error { return s.err }

func (s *StarProgress) write(str string) {
	if s.err != nil {
		return
	}
	_, s.err = io.WriteString(s.w, str)
}
