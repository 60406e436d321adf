//go:build !linux

package bigmatrix

// adviseSequential is a no-op on non-Linux platforms.
func adviseSequential(data []byte) {}
