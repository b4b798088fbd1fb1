package scanner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanTreeCounts(t *testing.T) {
	dir := t.TempDir()

	files := map[string]string{
		"SkyWarr":                  "elf",
		"assets/images/player.png": "png",
		"assets/images/enemy.png":  "png!",
		"assets/sounds/shot.wav":   "wav",
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	stats, err := ScanTree(context.Background(), dir)
	require.NoError(t, err)
	require.Equal(t, 4, stats.Files)
	require.Equal(t, 3, stats.Dirs)
	require.EqualValues(t, 13, stats.Bytes)
	require.False(t, stats.Empty())
}

func TestScanTreeEmptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0755))

	stats, err := ScanTree(context.Background(), dir)
	require.NoError(t, err)
	require.True(t, stats.Empty())

	_, err = ScanTree(context.Background(), filepath.Join(dir, "missing"))
	require.True(t, errors.Is(err, os.ErrNotExist))

	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = ScanTree(context.Background(), file)
	require.ErrorIs(t, err, ErrNotDirectory)
}

func TestDetectArtifactType(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]struct {
		content []byte
		want    ArtifactType
	}{
		"pkg.deb":   {[]byte("!<arch>\ndebian-binary   "), TypeDeb},
		"setup.exe": {[]byte("MZ\x90\x00"), TypePE},
		"notes.txt": {[]byte("hello world, long enough"), TypeUnknown},
		"tiny":      {[]byte("M"), TypeUnknown},
		"empty":     {nil, TypeUnknown},
	}

	for name, tc := range cases {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, tc.content, 0644))

		got, err := DetectArtifactType(path)
		require.NoError(t, err, name)
		require.Equal(t, tc.want, got, name)
	}

	_, err := DetectArtifactType(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
