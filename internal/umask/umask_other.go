//go:build !unix

package umask

// Supported reports whether the platform has a file-creation mask.
const Supported = false

// Windows has no umask; acquire and release still pair up but change nothing.
func set(int) int {
	return 0
}
