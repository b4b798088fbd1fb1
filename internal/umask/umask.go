// Package umask scopes changes to the process file-creation mask.
//
// The mask is process-wide state. With acquires it, runs a function and
// always restores the previous value, so a mask change never outlives the
// call that needed it.
package umask

import "sync"

// Safe is the mask the packaging retry runs under: group and other write bits cleared.
const Safe = 0o022

var mu sync.Mutex

// With sets the process umask to mask while fn runs and restores the previous
// mask afterwards, including when fn returns an error or panics.
func With(mask int, fn func() error) error {
	mu.Lock()
	defer mu.Unlock()

	prev := set(mask)
	defer set(prev)

	return fn()
}

// Current returns the process umask.
func Current() int {
	mu.Lock()
	defer mu.Unlock()

	prev := set(0)
	set(prev)

	return prev
}
