package permissions

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("POSIX permission bits are not enforced on Windows")
	}
}

func stageTree(t *testing.T, root string) {
	t.Helper()

	files := map[string]os.FileMode{
		"usr/bin/skywarr":                          0o600,
		"usr/share/applications/skywarr.desktop":   0o777,
		"usr/share/skywarr/SkyWarr":                0o755,
		"usr/share/skywarr/assets/images/ship.png": 0o700,
		"usr/share/skywarr/_internal/lib.so":       0o775,
		"DEBIAN/control":                           0o600,
	}
	for rel, mode := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(rel), mode))
		require.NoError(t, os.Chmod(path, mode))
	}
}

func TestNormalizeAppliesPolicy(t *testing.T) {
	skipOnWindows(t)

	root := t.TempDir()
	stageTree(t, root)

	sum, err := Normalize(context.Background(), root, DefaultPolicy())
	require.NoError(t, err)
	require.Equal(t, 1, sum.Launchers)
	require.Equal(t, 5, sum.Data)
	require.Zero(t, sum.Skipped)

	policy := DefaultPolicy()
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		require.NoError(t, err)

		info, err := d.Info()
		require.NoError(t, err)
		rel, _ := filepath.Rel(root, path)
		mode := info.Mode().Perm()

		switch {
		case d.IsDir():
			require.Equal(t, os.FileMode(0o755), mode, rel)
		case policy.IsLauncher(rel):
			require.Equal(t, os.FileMode(0o755), mode, rel)
		default:
			require.Zero(t, mode&0o111, "%s must not be executable", rel)
			require.Equal(t, os.FileMode(0o644), mode, rel)
		}
		return nil
	})
	require.NoError(t, err)
}

func TestNormalizeDoesNotFollowSymlinks(t *testing.T) {
	skipOnWindows(t)

	root := t.TempDir()
	outside := filepath.Join(t.TempDir(), "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))
	require.NoError(t, os.Chmod(outside, 0o600))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "usr", "bin"), 0o755))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "usr", "bin", "link")))

	_, err := Normalize(context.Background(), root, DefaultPolicy())
	require.NoError(t, err)

	info, err := os.Stat(outside)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestNormalizeMissingRoot(t *testing.T) {
	_, err := Normalize(context.Background(), filepath.Join(t.TempDir(), "gone"), DefaultPolicy())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestNormalizeCancelled(t *testing.T) {
	root := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Normalize(ctx, root, DefaultPolicy())
	require.ErrorIs(t, err, context.Canceled)
}

func TestPolicyIsLauncher(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()
	require.True(t, p.IsLauncher("usr/bin/skywarr"))
	require.True(t, p.IsLauncher(filepath.Join("usr", "bin", "tools", "helper")))
	require.False(t, p.IsLauncher("usr/bin"))
	require.False(t, p.IsLauncher("usr/binary/skywarr"))
	require.False(t, p.IsLauncher("usr/share/skywarr/SkyWarr"))

	p.LauncherSegments = []string{"/opt/skywarr/bin/", ""}
	require.True(t, p.IsLauncher("opt/skywarr/bin/run"))
}
