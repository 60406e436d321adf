// Package bigmatrix provides an out-of-core, memory-mapped float64 matrix that
// satisfies matrix.Matrix and matrix.RowReader.
//
// Files come in two flavors:
//
//   - .bm files written by Create: a 64-byte header (magic, version, layout,
//     shape, xxhash64 checksum of the payload) followed by rows*cols
//     little-endian float64 values.
//   - raw files opened with OpenRaw: only the values, with the shape and layout
//     supplied by the caller. R's bigmemory backing files are raw ColMajor.
//
// The mapping is read-only and the kernel pages data in on demand, so matrices
// larger than RAM can be scanned. RowMajor files serve Row without copying on
// little-endian hosts; ColMajor rows are gathered with a stride of Rows().
//
// Concurrency: reads are safe from multiple goroutines. Close must not race
// with reads; after Close every accessor returns ErrClosed.
package bigmatrix
