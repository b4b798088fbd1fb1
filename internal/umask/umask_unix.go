//go:build unix

package umask

import "golang.org/x/sys/unix"

// Supported reports whether the platform has a file-creation mask.
const Supported = true

func set(mask int) int {
	return unix.Umask(mask)
}
