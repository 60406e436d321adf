//go:build linux

package bigmatrix

import "golang.org/x/sys/unix"

// adviseSequential hints that the mapping will be scanned front to back.
// Best-effort: errors are silently ignored.
func adviseSequential(data []byte) {
	if len(data) == 0 {
		return
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
}
