package bigmatrix

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// magic is "NEFM" in little-endian.
	magic = uint32(0x4D46454E)

	// version is the current format version.
	version = uint16(0x0001)

	// headerSize keeps the payload 8-byte aligned inside a page-aligned mapping.
	headerSize = 64

	// valueSize is the width of one float64 cell.
	valueSize = 8
)

// Layout is the element order of the payload.
type Layout uint8

const (
	// RowMajor stores row i contiguously at offset i*cols.
	RowMajor Layout = iota
	// ColMajor stores column j contiguously at offset j*rows (R / bigmemory order).
	ColMajor
)

// String returns "row" or "col".
func (l Layout) String() string {
	switch l {
	case RowMajor:
		return "row"
	case ColMajor:
		return "col"
	default:
		return fmt.Sprintf("layout(%d)", uint8(l))
	}
}

// ParseLayout maps "row"/"col" (as printed by String) back to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "row", "rowmajor", "row-major":
		return RowMajor, nil
	case "col", "colmajor", "col-major", "column":
		return ColMajor, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLayout, s)
	}
}

func (l Layout) valid() bool { return l == RowMajor || l == ColMajor }

// header is the 64-byte file header.
//
// Layout:
//
//	Offset  Size  Field      Type
//	0       4     Magic      0x4D46454E ("NEFM")
//	4       2     Version    0x0001
//	6       1     Layout     uint8 (0=RowMajor, 1=ColMajor)
//	7       1     Reserved   zero
//	8       8     Rows       uint64_le
//	16      8     Cols       uint64_le
//	24      8     Checksum   uint64_le (xxhash64 of the payload)
//	32      32    Reserved   zero
type header struct {
	Magic    uint32
	Version  uint16
	Layout   Layout
	Rows     uint64
	Cols     uint64
	Checksum uint64
}

func (h *header) encode(dst []byte) {
	_ = dst[headerSize-1]
	clear(dst[:headerSize])
	binary.LittleEndian.PutUint32(dst[0:4], h.Magic)
	binary.LittleEndian.PutUint16(dst[4:6], h.Version)
	dst[6] = byte(h.Layout)
	binary.LittleEndian.PutUint64(dst[8:16], h.Rows)
	binary.LittleEndian.PutUint64(dst[16:24], h.Cols)
	binary.LittleEndian.PutUint64(dst[24:32], h.Checksum)
}

func decodeHeader(src []byte) (*header, error) {
	if len(src) < headerSize {
		return nil, ErrTruncated
	}
	h := &header{
		Magic:    binary.LittleEndian.Uint32(src[0:4]),
		Version:  binary.LittleEndian.Uint16(src[4:6]),
		Layout:   Layout(src[6]),
		Rows:     binary.LittleEndian.Uint64(src[8:16]),
		Cols:     binary.LittleEndian.Uint64(src[16:24]),
		Checksum: binary.LittleEndian.Uint64(src[24:32]),
	}
	if h.Magic != magic {
		return nil, ErrInvalidMagic
	}
	if h.Version != version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if !h.Layout.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLayout, uint8(h.Layout))
	}
	if h.Rows == 0 || h.Cols == 0 || h.Rows > math.MaxInt || h.Cols > math.MaxInt {
		return nil, ErrInvalidShape
	}

	return h, nil
}

// payloadSize returns rows*cols*8, or false on overflow.
func payloadSize(rows, cols int) (int64, bool) {
	if rows <= 0 || cols <= 0 {
		return 0, false
	}
	n := int64(rows) * int64(cols)
	if n/int64(cols) != int64(rows) || n > math.MaxInt64/valueSize {
		return 0, false
	}

	return n * valueSize, true
}
