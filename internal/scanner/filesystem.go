package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ErrNotDirectory is returned by ScanTree when the root is not a directory
var ErrNotDirectory = errors.New("not a directory")

// ScanTree recursively walks dir and counts its regular files, directories and bytes
func ScanTree(ctx context.Context, dir string) (*TreeStats, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: %w", dir, ErrNotDirectory)
	}

	stats := &TreeStats{Root: dir}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if path == dir {
			return nil
		}

		if d.IsDir() {
			stats.Dirs++
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		stats.Files++
		stats.Bytes += fi.Size()

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	logrus.Debugf("Scanned %s: %d files in %d directories", dir, stats.Files, stats.Dirs)
	return stats, nil
}
