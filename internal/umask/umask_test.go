//go:build unix

package umask

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// These tests mutate process state and must not run in parallel.

func TestWithRestoresMaskOnSuccess(t *testing.T) {
	before := Current()
	defer set(before)

	set(0o077)

	var inside int
	err := With(Safe, func() error {
		inside = set(Safe)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, Safe, inside)
	require.Equal(t, 0o077, Current())
}

func TestWithRestoresMaskOnError(t *testing.T) {
	before := Current()
	defer set(before)

	set(0o002)

	boom := errors.New("dpkg-deb failed")
	err := With(Safe, func() error { return boom })
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0o002, Current())
}

func TestWithRestoresMaskOnPanic(t *testing.T) {
	before := Current()
	defer set(before)

	set(0o027)

	require.Panics(t, func() {
		_ = With(Safe, func() error { panic("tool crashed") })
	})
	require.Equal(t, 0o027, Current())
}

func TestWithAppliesMaskToNewFiles(t *testing.T) {
	before := Current()
	defer set(before)

	set(0o077)

	path := filepath.Join(t.TempDir(), "control")
	err := With(Safe, func() error {
		return os.WriteFile(path, []byte("x"), 0o666)
	})
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}
