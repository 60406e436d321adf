package neffective

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/neffective/matrix"
)

var (
	// ErrCancelled is returned when ctx is done at a checkpoint. The returned
	// error also wraps ctx.Err(), so errors.Is(err, context.Canceled) holds too.
	ErrCancelled = errors.New("neffective: computation cancelled")

	// ErrNilMatrix is returned for a nil input view.
	ErrNilMatrix = matrix.ErrNilMatrix

	// ErrEmptyMatrix is returned for an input with zero rows or zero columns.
	ErrEmptyMatrix = matrix.ErrEmpty
)

// neffErrorf wraps err with an operation tag.
func neffErrorf(tag string, err error) error {
	return fmt.Errorf("neffective: %s: %w", tag, err)
}

// cancelled builds the checkpoint error carrying both ErrCancelled and the context cause.
func cancelled(phase Phase, i int, cause error) error {
	return fmt.Errorf("%w at %s row %d: %w", ErrCancelled, phase, i, cause)
}
