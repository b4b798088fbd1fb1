// Package permissions enforces a canonical permission policy on a staged tree.
package permissions

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Policy maps path roles to permission modes
type Policy struct {
	DirMode      os.FileMode
	LauncherMode os.FileMode
	DataMode     os.FileMode
	// LauncherSegments are slash-separated path segments, relative to the
	// staged root, whose files must be executable
	LauncherSegments []string
}

// DefaultPolicy returns the Debian packaging convention: 0755 directories and
// launchers under usr/bin, 0644 for everything else
func DefaultPolicy() Policy {
	return Policy{
		DirMode:          0o755,
		LauncherMode:     0o755,
		DataMode:         0o644,
		LauncherSegments: []string{"usr/bin"},
	}
}

// Summary counts what a normalization pass touched
type Summary struct {
	Dirs      int
	Launchers int
	Data      int
	Skipped   int
}

// IsLauncher reports whether rel (relative to the staged root) lies under one
// of the policy's launcher segments
func (p Policy) IsLauncher(rel string) bool {
	slashed := "/" + filepath.ToSlash(rel)
	for _, seg := range p.LauncherSegments {
		seg = strings.Trim(filepath.ToSlash(seg), "/")
		if seg == "" {
			continue
		}
		if strings.Contains(slashed, "/"+seg+"/") {
			return true
		}
	}
	return false
}

// ModeFor returns the mode the policy assigns to rel
func (p Policy) ModeFor(rel string, isDir bool) os.FileMode {
	switch {
	case isDir:
		return p.DirMode
	case p.IsLauncher(rel):
		return p.LauncherMode
	default:
		return p.DataMode
	}
}

// Normalize walks root and applies policy to every directory and regular file.
// It is best-effort: entries that disappear mid-walk are skipped and other
// chmod failures are logged, neither aborts the walk. Only a missing root or
// a cancelled context is returned as an error.
func Normalize(ctx context.Context, root string, policy Policy) (*Summary, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, err
	}

	sum := &Summary{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			sum.Skipped++
			if !errors.Is(err, fs.ErrNotExist) {
				logrus.Warnf("Skipping %s: %v", path, err)
			}
			return nil
		}

		// Symlink modes are meaningless and chmod would follow the link
		if d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		if !d.IsDir() && !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		mode := policy.ModeFor(rel, d.IsDir())
		if err := os.Chmod(path, mode); err != nil {
			sum.Skipped++
			if !errors.Is(err, fs.ErrNotExist) {
				logrus.Warnf("Failed to chmod %s to %o: %v", path, mode, err)
			}
			return nil
		}

		switch {
		case d.IsDir():
			sum.Dirs++
		case policy.IsLauncher(rel):
			sum.Launchers++
		default:
			sum.Data++
		}

		return nil
	})
	if err != nil {
		return sum, err
	}

	logrus.Debugf("Normalized permissions under %s: %d dirs, %d launchers, %d data files, %d skipped",
		root, sum.Dirs, sum.Launchers, sum.Data, sum.Skipped)
	return sum, nil
}
