package bigmatrix

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/cpu"

	"github.com/katalvlaran/neffective/matrix"
)

// Matrix is a read-only, memory-mapped float64 matrix.
type Matrix struct {
	mmap    mmap.MMap // whole file mapping (nil for FromBytes)
	payload []byte    // rows*cols*8 bytes of values
	values  []float64 // zero-copy view of payload on little-endian hosts (nil otherwise)

	rows, cols int
	layout     Layout
	checksum   uint64 // from header; 0 and unused for raw files
	hasHeader  bool

	closed atomic.Bool
}

// Compile-time interface checks.
var (
	_ matrix.Matrix    = (*Matrix)(nil)
	_ matrix.RowReader = (*Matrix)(nil)
)

// Open memory-maps a .bm file written by Create.
// The file descriptor is closed before Open returns; the mapping stays valid.
func Open(path string) (*Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bigmatrix: open: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("bigmatrix: stat: %w", err)
	}
	if stat.Size() < headerSize {
		return nil, ErrTruncated
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("bigmatrix: mmap: %w", err)
	}
	m := &Matrix{mmap: mm, hasHeader: true}
	if err := m.initFromHeader([]byte(mm)); err != nil {
		return nil, errors.Join(err, mm.Unmap())
	}
	adviseSequential(mm)

	return m, nil
}

// OpenRaw memory-maps a headerless file of rows*cols float64 values in the given layout.
// Values must be little-endian, which is what R's bigmemory writes on x86 and arm64.
func OpenRaw(path string, rows, cols int, layout Layout) (*Matrix, error) {
	if !layout.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayout, uint8(layout))
	}
	size, ok := payloadSize(rows, cols)
	if !ok {
		return nil, ErrInvalidShape
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bigmatrix: open: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("bigmatrix: stat: %w", err)
	}
	if stat.Size() != size {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrTruncated, stat.Size(), size)
	}

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("bigmatrix: mmap: %w", err)
	}
	m := &Matrix{mmap: mm, rows: rows, cols: cols, layout: layout}
	m.setPayload([]byte(mm))
	adviseSequential(mm)

	return m, nil
}

// FromBytes wraps an in-memory .bm image without mapping anything; Close is a no-op.
// The caller must not modify data while the Matrix is in use.
func FromBytes(data []byte) (*Matrix, error) {
	m := &Matrix{hasHeader: true}
	if err := m.initFromHeader(data); err != nil {
		return nil, err
	}

	return m, nil
}

// initFromHeader parses the header and binds the payload region.
func (m *Matrix) initFromHeader(data []byte) error {
	h, err := decodeHeader(data)
	if err != nil {
		return err
	}
	rows, cols := int(h.Rows), int(h.Cols)
	size, ok := payloadSize(rows, cols)
	if !ok {
		return ErrInvalidShape
	}
	if int64(len(data)-headerSize) != size {
		return fmt.Errorf("%w: have %d payload bytes, want %d", ErrTruncated, len(data)-headerSize, size)
	}

	m.rows, m.cols, m.layout, m.checksum = rows, cols, h.Layout, h.Checksum
	m.setPayload(data[headerSize:])

	return nil
}

// setPayload binds the value region, exposing it as []float64 when the host byte
// order matches the file and the region is 8-byte aligned.
func (m *Matrix) setPayload(p []byte) {
	m.payload = p
	if cpu.IsBigEndian || len(p) == 0 || uintptr(unsafe.Pointer(&p[0]))%valueSize != 0 {
		return
	}
	m.values = unsafe.Slice((*float64)(unsafe.Pointer(&p[0])), len(p)/valueSize)
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// Layout returns the payload element order.
func (m *Matrix) Layout() Layout { return m.layout }

// offset returns the element index of (i, j) in the payload.
func (m *Matrix) offset(i, j int) int {
	if m.layout == ColMajor {
		return j*m.rows + i
	}

	return i*m.cols + j
}

func (m *Matrix) value(k int) float64 {
	if m.values != nil {
		return m.values[k]
	}

	return math.Float64frombits(binary.LittleEndian.Uint64(m.payload[k*valueSize:]))
}

// At returns the element at (i, j).
func (m *Matrix) At(i, j int) (float64, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("bigmatrix: At(%d,%d): %w", i, j, ErrOutOfRange)
	}

	return m.value(m.offset(i, j)), nil
}

// Row returns row i. For RowMajor files on little-endian hosts the result aliases
// the mapping and dst is unused; otherwise values are gathered into dst, which must
// hold at least Cols() elements. The result is read-only and invalid after Close.
func (m *Matrix) Row(i int, dst []float64) ([]float64, error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if i < 0 || i >= m.rows {
		return nil, fmt.Errorf("bigmatrix: Row(%d): %w", i, ErrOutOfRange)
	}
	if m.layout == RowMajor && m.values != nil {
		base := i * m.cols
		return m.values[base : base+m.cols : base+m.cols], nil
	}
	if len(dst) < m.cols {
		return nil, ErrShortBuffer
	}
	dst = dst[:m.cols]
	for j := range dst {
		dst[j] = m.value(m.offset(i, j))
	}

	return dst, nil
}

// Verify recomputes the xxhash64 of the payload and compares it with the header.
// Raw files carry no checksum; Verify returns nil for them.
func (m *Matrix) Verify() error {
	if m.closed.Load() {
		return ErrClosed
	}
	if !m.hasHeader {
		return nil
	}
	if got := xxhash.Sum64(m.payload); got != m.checksum {
		return fmt.Errorf("%w: header %016x, payload %016x", ErrChecksum, m.checksum, got)
	}

	return nil
}

// Close unmaps the file. It is idempotent.
func (m *Matrix) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	m.values, m.payload = nil, nil
	if m.mmap == nil {
		return nil
	}
	err := m.mmap.Unmap()
	m.mmap = nil
	if err != nil {
		return fmt.Errorf("bigmatrix: unmap: %w", err)
	}

	return nil
}
