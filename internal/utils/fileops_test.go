package utils

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func TestCopyFilePreservesModeAndTime(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "nested", "dst.bin")

	require.NoError(t, os.WriteFile(src, []byte("payload"), 0755))
	mtime := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0755), info.Mode().Perm())
	require.True(t, info.ModTime().Equal(mtime))
}

func TestCopyTreeOverwritesExistingDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeTree(t, src, map[string]string{
		"SkyWarr":                "binary-v2",
		"assets/images/ship.png": "png",
		"assets/sounds/boom.wav": "wav",
	})
	writeTree(t, dst, map[string]string{
		"SkyWarr":   "binary-v1",
		"extra.txt": "kept",
	})

	require.NoError(t, CopyTree(context.Background(), src, dst))
	// A second copy into the same destination must not fail.
	require.NoError(t, CopyTree(context.Background(), src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "SkyWarr"))
	require.NoError(t, err)
	require.Equal(t, "binary-v2", string(data))

	for _, rel := range []string{"assets/images/ship.png", "assets/sounds/boom.wav", "extra.txt"} {
		_, err := os.Stat(filepath.Join(dst, rel))
		require.NoError(t, err, rel)
	}
}

func TestCopyTreeHonoursCancellation(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeTree(t, src, map[string]string{"a": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := CopyTree(ctx, src, filepath.Join(dir, "dst"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "DEBIAN", "control")

	require.NoError(t, WriteFileAtomic(path, []byte("Package: a\n"), 0644))
	require.NoError(t, WriteFileAtomic(path, []byte("Package: b\n"), 0644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "Package: b\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0644), info.Mode().Perm())

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteFileAtomicLeavesNoPartialFileOnFailure(t *testing.T) {
	dir := t.TempDir()
	// The target is a directory, so the final rename fails.
	target := filepath.Join(dir, "control")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "occupied"), 0755))

	err := WriteFileAtomic(target, []byte("Package: x\n"), 0644)
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "control", entries[0].Name())
}

func TestRecreateDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "DEBIAN")
	writeTree(t, dir, map[string]string{"control": "stale", "postinst": "stale"})

	require.NoError(t, RecreateDir(dir, 0755))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0755), info.Mode().Perm())
}

func TestChecksumSidecar(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "skywarr_1.0.0_amd64.deb")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0644))

	sum, err := CalculateChecksums(path)
	require.NoError(t, err)
	require.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", sum.SHA256)
	require.EqualValues(t, 5, sum.Size)

	sidecar, err := WriteChecksumFile(path, sum)
	require.NoError(t, err)

	data, err := os.ReadFile(sidecar)
	require.NoError(t, err)
	require.Equal(t, sum.SHA256+"  skywarr_1.0.0_amd64.deb\n", string(data))
}

func TestCompressionRoundtripByName(t *testing.T) {
	payload := []byte("Package: skywarr\nVersion: 1.0.0\n")

	for _, name := range []string{"control.tar", "control.tar.gz", "control.tar.xz", "control.tar.zst"} {
		encoded, err := CompressByName(name, payload)
		require.NoError(t, err, name)

		r, closeFn, err := DecompressByName(name, encoded)
		require.NoError(t, err, name)

		decoded, err := io.ReadAll(r)
		closeFn()
		require.NoError(t, err, name)
		require.Equal(t, payload, decoded, name)
	}
}
