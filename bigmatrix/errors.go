package bigmatrix

import (
	"errors"

	"github.com/katalvlaran/neffective/matrix"
)

var (
	ErrInvalidMagic       = errors.New("bigmatrix: invalid magic number")
	ErrUnsupportedVersion = errors.New("bigmatrix: unsupported format version")
	ErrInvalidLayout      = errors.New("bigmatrix: invalid layout")
	ErrInvalidShape       = errors.New("bigmatrix: rows and cols must be > 0")
	ErrTruncated          = errors.New("bigmatrix: file size does not match shape")
	ErrChecksum           = errors.New("bigmatrix: payload checksum mismatch")
	ErrClosed             = errors.New("bigmatrix: matrix is closed")
	ErrShortBuffer        = errors.New("bigmatrix: destination buffer shorter than Cols()")

	// ErrOutOfRange is the matrix package sentinel, so callers holding only a
	// matrix.Matrix can match it.
	ErrOutOfRange = matrix.ErrOutOfRange
)
