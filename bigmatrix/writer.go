package bigmatrix

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	"github.com/katalvlaran/neffective/matrix"
)

// Writer fills a new .bm file through a read-write mapping.
// The header (including the checksum) is written by Close. Abort discards the
// file instead, so a partially filled matrix never carries a valid header.
type Writer struct {
	path    string
	file    *os.File
	mmap    mmap.MMap
	payload []byte

	rows, cols int
	layout     Layout
	closed     bool
}

// Create truncates path to the size of a rows×cols matrix and maps it for writing.
// Cells start as 0. If sizing or mapping fails the file is removed.
func Create(path string, rows, cols int, layout Layout) (*Writer, error) {
	if !layout.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayout, uint8(layout))
	}
	size, ok := payloadSize(rows, cols)
	if !ok {
		return nil, ErrInvalidShape
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("bigmatrix: create: %w", err)
	}
	if err := f.Truncate(headerSize + size); err != nil {
		return nil, errors.Join(fmt.Errorf("bigmatrix: truncate: %w", err), f.Close(), os.Remove(path))
	}
	mm, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("bigmatrix: mmap: %w", err), f.Close(), os.Remove(path))
	}

	return &Writer{
		path:    path,
		file:    f,
		mmap:    mm,
		payload: mm[headerSize:],
		rows:    rows,
		cols:    cols,
		layout:  layout,
	}, nil
}

// Rows returns the number of rows.
func (w *Writer) Rows() int { return w.rows }

// Cols returns the number of columns.
func (w *Writer) Cols() int { return w.cols }

func (w *Writer) put(i, j int, v float64) {
	k := i*w.cols + j
	if w.layout == ColMajor {
		k = j*w.rows + i
	}
	binary.LittleEndian.PutUint64(w.payload[k*valueSize:], math.Float64bits(v))
}

// Set stores v at (i, j).
func (w *Writer) Set(i, j int, v float64) error {
	if w.closed {
		return ErrClosed
	}
	if i < 0 || i >= w.rows || j < 0 || j >= w.cols {
		return fmt.Errorf("bigmatrix: Set(%d,%d): %w", i, j, ErrOutOfRange)
	}
	w.put(i, j, v)

	return nil
}

// SetRow stores row i; len(row) must equal Cols().
func (w *Writer) SetRow(i int, row []float64) error {
	if w.closed {
		return ErrClosed
	}
	if i < 0 || i >= w.rows {
		return fmt.Errorf("bigmatrix: SetRow(%d): %w", i, ErrOutOfRange)
	}
	if len(row) != w.cols {
		return fmt.Errorf("bigmatrix: SetRow(%d): %w", i, matrix.ErrDimensionMismatch)
	}
	for j, v := range row {
		w.put(i, j, v)
	}

	return nil
}

// Close writes the header with the payload checksum, flushes and unmaps.
// Calling Close more than once is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	h := header{
		Magic:    magic,
		Version:  version,
		Layout:   w.layout,
		Rows:     uint64(w.rows),
		Cols:     uint64(w.cols),
		Checksum: xxhash.Sum64(w.payload),
	}
	h.encode(w.mmap[:headerSize])

	var errs []error
	if err := w.mmap.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("bigmatrix: flush: %w", err))
	}

	return errors.Join(append(errs, w.release())...)
}

// Abort unmaps and removes the file without writing a header.
// It is a no-op after Close or a previous Abort.
func (w *Writer) Abort() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.release()
	if rmErr := os.Remove(w.path); rmErr != nil {
		err = errors.Join(err, fmt.Errorf("bigmatrix: remove: %w", rmErr))
	}

	return err
}

// release unmaps the payload and closes the file descriptor.
func (w *Writer) release() error {
	var errs []error
	if err := w.mmap.Unmap(); err != nil {
		errs = append(errs, fmt.Errorf("bigmatrix: unmap: %w", err))
	}
	if err := w.file.Close(); err != nil {
		errs = append(errs, fmt.Errorf("bigmatrix: close: %w", err))
	}
	w.mmap, w.payload = nil, nil

	return errors.Join(errs...)
}

// WriteFile copies X into a new .bm file at path.
// When a row of X cannot be read the partial file is removed.
func WriteFile(path string, X matrix.Matrix, layout Layout) (err error) {
	if err := matrix.ValidateNonEmpty(X); err != nil {
		return fmt.Errorf("bigmatrix: WriteFile: %w", err)
	}
	w, err := Create(path, X.Rows(), X.Cols(), layout)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			err = errors.Join(err, w.Abort())
			return
		}
		err = w.Close()
	}()

	buf := make([]float64, X.Cols())
	for i := 0; i < X.Rows(); i++ {
		row, err := matrix.ReadRow(X, i, buf)
		if err != nil {
			return fmt.Errorf("bigmatrix: WriteFile: %w", err)
		}
		if err := w.SetRow(i, row); err != nil {
			return err
		}
	}

	return nil
}
